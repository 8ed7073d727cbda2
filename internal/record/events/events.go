// Package events publishes notifications about completed record uploads.
package events

import (
	"context"
	"time"
)

// EventUploadCompleted is the event type header value for UploadCompleted.
const EventUploadCompleted = "records.upload_completed"

// UploadCompleted is emitted after an upload batch has been persisted.
type UploadCompleted struct {
	UploadID   string    `json:"upload_id"`
	Records    int       `json:"records"`
	Delimiter  string    `json:"delimiter"`
	UploadedAt time.Time `json:"uploaded_at"`
	RequestID  string    `json:"request_id,omitempty"`
}

// Publisher delivers upload events. Failures are reported to the caller,
// which treats delivery as best effort.
type Publisher interface {
	PublishUploadCompleted(ctx context.Context, event UploadCompleted) error
}
