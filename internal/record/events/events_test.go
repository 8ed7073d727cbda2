package events

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"staffdir/internal/platform/kafka/producer"
)

type recordingProducer struct {
	msgs []*producer.Message
	err  error
}

func (r *recordingProducer) Produce(_ context.Context, msg *producer.Message) error {
	r.msgs = append(r.msgs, msg)
	return r.err
}

func sampleEvent() UploadCompleted {
	return UploadCompleted{
		UploadID:   "b3c1f1de-0000-4000-8000-000000000001",
		Records:    3,
		Delimiter:  ";",
		UploadedAt: time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC),
		RequestID:  "req-1",
	}
}

func TestKafkaPublisher(t *testing.T) {
	rec := &recordingProducer{}
	pub := NewKafkaPublisher(rec, "staffdir.uploads")

	require.NoError(t, pub.PublishUploadCompleted(context.Background(), sampleEvent()))
	require.Len(t, rec.msgs, 1)

	msg := rec.msgs[0]
	assert.Equal(t, "staffdir.uploads", msg.Topic)
	assert.Equal(t, "b3c1f1de-0000-4000-8000-000000000001", string(msg.Key))
	assert.Equal(t, EventUploadCompleted, msg.Headers["event_type"])
	assert.Equal(t, "req-1", msg.Headers["request_id"])
	assert.JSONEq(t, `{
		"upload_id": "b3c1f1de-0000-4000-8000-000000000001",
		"records": 3,
		"delimiter": ";",
		"uploaded_at": "2026-01-02T03:04:05Z",
		"request_id": "req-1"
	}`, string(msg.Value))
}

func TestKafkaPublisherWithoutRequestID(t *testing.T) {
	rec := &recordingProducer{}
	event := sampleEvent()
	event.RequestID = ""

	require.NoError(t, NewKafkaPublisher(rec, "t").PublishUploadCompleted(context.Background(), event))
	_, ok := rec.msgs[0].Headers["request_id"]
	assert.False(t, ok)
}

func TestKafkaPublisherWrapsProduceError(t *testing.T) {
	boom := errors.New("broker down")
	pub := NewKafkaPublisher(&recordingProducer{err: boom}, "t")

	err := pub.PublishUploadCompleted(context.Background(), sampleEvent())
	assert.ErrorIs(t, err, boom)
}

func TestLogPublisher(t *testing.T) {
	var buf bytes.Buffer
	pub := NewLogPublisher(slog.New(slog.NewJSONHandler(&buf, nil)))

	require.NoError(t, pub.PublishUploadCompleted(context.Background(), sampleEvent()))

	var line map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &line))
	assert.Equal(t, "upload completed", line["msg"])
	assert.Equal(t, EventUploadCompleted, line["event_type"])
	assert.Equal(t, float64(3), line["records"])
	assert.Equal(t, ";", line["delimiter"])
}
