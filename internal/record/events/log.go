package events

import (
	"context"
	"log/slog"
)

// LogPublisher writes events to the structured log. It is used when no
// broker is configured.
type LogPublisher struct {
	logger *slog.Logger
}

func NewLogPublisher(logger *slog.Logger) *LogPublisher {
	return &LogPublisher{logger: logger}
}

func (l *LogPublisher) PublishUploadCompleted(ctx context.Context, event UploadCompleted) error {
	l.logger.InfoContext(ctx, "upload completed",
		"event_type", EventUploadCompleted,
		"upload_id", event.UploadID,
		"records", event.Records,
		"delimiter", event.Delimiter,
		"uploaded_at", event.UploadedAt,
		"request_id", event.RequestID,
	)
	return nil
}
