package kafka

import (
	"context"
	"fmt"
	"net"
	"strings"
	"time"
)

// HealthChecker reports whether any configured broker accepts TCP connections.
type HealthChecker struct {
	brokers string
	timeout time.Duration
}

func NewHealthChecker(brokers string) *HealthChecker {
	return &HealthChecker{
		brokers: brokers,
		timeout: 2 * time.Second,
	}
}

// Check returns nil as soon as one broker is reachable.
func (h *HealthChecker) Check(ctx context.Context) error {
	var lastErr error
	dialer := net.Dialer{Timeout: h.timeout}
	for _, broker := range strings.Split(h.brokers, ",") {
		broker = strings.TrimSpace(broker)
		if broker == "" {
			continue
		}
		conn, err := dialer.DialContext(ctx, "tcp", broker)
		if err != nil {
			lastErr = err
			continue
		}
		_ = conn.Close()
		return nil
	}

	if lastErr != nil {
		return fmt.Errorf("no kafka brokers reachable: %w", lastErr)
	}
	return fmt.Errorf("kafka brokers not configured")
}

// Name returns the check name for health reporting.
func (h *HealthChecker) Name() string {
	return "kafka"
}
