package producer

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"staffdir/internal/platform/kafka"
)

func TestNewRequiresBrokers(t *testing.T) {
	_, err := New(kafka.ProducerConfig{}, nil)
	assert.ErrorContains(t, err, "brokers not configured")
}

func TestProduceAfterClose(t *testing.T) {
	p, err := New(kafka.DefaultProducerConfig("127.0.0.1:1"), nil)
	require.NoError(t, err)

	ctx := context.Background()
	require.NoError(t, p.Close(ctx))
	require.NoError(t, p.Close(ctx))

	err = p.Produce(ctx, &Message{Topic: "t", Value: []byte("v")})
	assert.ErrorIs(t, err, ErrClosed)
}
