package kafka

import "time"

// ProducerConfig holds configuration for the Kafka producer.
type ProducerConfig struct {
	// Brokers is a comma-separated list of seed brokers.
	Brokers         string
	Acks            string
	Retries         int
	DeliveryTimeout time.Duration
}

// DefaultProducerConfig waits for all in-sync replicas and retries briefly.
func DefaultProducerConfig(brokers string) ProducerConfig {
	return ProducerConfig{
		Brokers:         brokers,
		Acks:            "all",
		Retries:         3,
		DeliveryTimeout: 10 * time.Second,
	}
}
