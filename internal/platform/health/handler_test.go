package health

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func serve(h *Handler, path string) *httptest.ResponseRecorder {
	r := chi.NewRouter()
	h.Register(r)
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, path, nil))
	return rec
}

func healthy(context.Context) error { return nil }

func failing(context.Context) error { return errors.New("connection refused") }

func TestStatus(t *testing.T) {
	t.Run("database available", func(t *testing.T) {
		rec := serve(New("test", healthy), "/health")

		assert.Equal(t, http.StatusOK, rec.Code)
		assert.JSONEq(t, `{"status":"UP","details":{"database":"Available"}}`, rec.Body.String())
	})

	t.Run("database unavailable", func(t *testing.T) {
		rec := serve(New("test", failing), "/health")

		assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
		assert.JSONEq(t, `{"status":"DOWN","details":{"database":"Not Available"}}`, rec.Body.String())
	})
}

func TestLiveness(t *testing.T) {
	rec := serve(New("staging", failing), "/health/live")

	require.Equal(t, http.StatusOK, rec.Code)
	var body LivenessResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, "alive", body.Status)
	assert.Equal(t, "staging", body.Environment)
	assert.Equal(t, Version, body.Version)
}

func TestReadiness(t *testing.T) {
	h := New("test", healthy)
	h.RegisterCheck("kafka", healthy)

	rec := serve(h, "/health/ready")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"status":"ready","checks":{"database":"up","kafka":"up"}}`, rec.Body.String())

	h.RegisterCheck("kafka", failing)
	rec = serve(h, "/health/ready")
	require.Equal(t, http.StatusServiceUnavailable, rec.Code)

	var body ReadinessResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, "not_ready", body.Status)
	assert.Equal(t, "up", body.Checks["database"])
	assert.Equal(t, "down: connection refused", body.Checks["kafka"])
}

func TestChecksReceiveDeadline(t *testing.T) {
	var hadDeadline bool
	h := New("test", func(ctx context.Context) error {
		_, hadDeadline = ctx.Deadline()
		return nil
	})

	serve(h, "/health")
	assert.True(t, hadDeadline)
}
