package events

import (
	"context"
	"log/slog"
	"time"

	"staffdir/pkg/platform/circuit"
)

// DefaultPrimaryTimeout bounds a single delivery attempt on the primary.
const DefaultPrimaryTimeout = 2 * time.Second

// ResilientPublisher guards a primary publisher with a circuit breaker.
// While the circuit is open, events go to the fallback without touching the
// primary, apart from the breaker's periodic trial calls.
type ResilientPublisher struct {
	primary  Publisher
	fallback Publisher
	breaker  *circuit.Breaker
	logger   *slog.Logger
	timeout  time.Duration
}

type ResilientOption func(*ResilientPublisher)

// WithPrimaryTimeout bounds each call to the primary publisher.
func WithPrimaryTimeout(d time.Duration) ResilientOption {
	return func(r *ResilientPublisher) {
		if d > 0 {
			r.timeout = d
		}
	}
}

func NewResilientPublisher(primary, fallback Publisher, breaker *circuit.Breaker, logger *slog.Logger, opts ...ResilientOption) *ResilientPublisher {
	r := &ResilientPublisher{
		primary:  primary,
		fallback: fallback,
		breaker:  breaker,
		logger:   logger,
		timeout:  DefaultPrimaryTimeout,
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

func (r *ResilientPublisher) PublishUploadCompleted(ctx context.Context, event UploadCompleted) error {
	if !r.breaker.Allow() {
		r.logger.WarnContext(ctx, "circuit open, skipping primary publisher",
			"circuit", r.breaker.Name(),
			"upload_id", event.UploadID,
		)
		return r.fallback.PublishUploadCompleted(ctx, event)
	}

	if r.breaker.IsOpen() {
		r.logger.InfoContext(ctx, "circuit open, trying primary publisher", "circuit", r.breaker.Name())
	}

	primaryCtx, cancel := context.WithTimeout(ctx, r.timeout)
	err := r.primary.PublishUploadCompleted(primaryCtx, event)
	cancel()
	if err == nil {
		if change := r.breaker.RecordSuccess(); change.Closed {
			r.logger.InfoContext(ctx, "circuit breaker closed", "circuit", r.breaker.Name())
		}
		return nil
	}

	useFallback, change := r.breaker.RecordFailure()
	if change.Opened {
		r.logger.ErrorContext(ctx, "circuit breaker opened", "circuit", r.breaker.Name(), "error", err)
	}
	if useFallback {
		return r.fallback.PublishUploadCompleted(ctx, event)
	}
	return err
}
