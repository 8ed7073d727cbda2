package events

import (
	"context"
	"encoding/json"
	"fmt"

	"staffdir/internal/platform/kafka/producer"
)

// MessageProducer is the subset of producer.Producer used for publishing.
type MessageProducer interface {
	Produce(ctx context.Context, msg *producer.Message) error
}

// KafkaPublisher writes events as JSON, keyed by upload id.
type KafkaPublisher struct {
	producer MessageProducer
	topic    string
}

func NewKafkaPublisher(p MessageProducer, topic string) *KafkaPublisher {
	return &KafkaPublisher{producer: p, topic: topic}
}

func (k *KafkaPublisher) PublishUploadCompleted(ctx context.Context, event UploadCompleted) error {
	payload, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("marshal upload event: %w", err)
	}

	msg := &producer.Message{
		Topic: k.topic,
		Key:   []byte(event.UploadID),
		Value: payload,
		Headers: map[string]string{
			"event_type": EventUploadCompleted,
		},
	}
	if event.RequestID != "" {
		msg.Headers["request_id"] = event.RequestID
	}
	if err := k.producer.Produce(ctx, msg); err != nil {
		return fmt.Errorf("publish upload event: %w", err)
	}
	return nil
}
