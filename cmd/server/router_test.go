package main

import (
	"bytes"
	"context"
	"io"
	"log/slog"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/suite"

	"staffdir/internal/platform/config"
	"staffdir/internal/platform/health"
	recordmetrics "staffdir/internal/record/metrics"
	"staffdir/internal/record/service"
	"staffdir/internal/record/store"
)

type RouterSuite struct {
	suite.Suite
	router http.Handler
}

func TestRouterSuite(t *testing.T) {
	suite.Run(t, new(RouterSuite))
}

func (s *RouterSuite) SetupTest() {
	log := slog.New(slog.NewTextHandler(io.Discard, nil))
	reg := prometheus.NewRegistry()
	svc := service.New(store.NewInMemory(),
		service.WithLogger(log),
		service.WithMetrics(recordmetrics.New(reg)),
	)
	cfg := config.Server{RequestTimeout: 5 * time.Second, MaxUploadBytes: 1024}
	s.router = newRouter(svc, health.New("test", svc.Ping), reg, cfg, log)
}

func (s *RouterSuite) do(req *http.Request) *httptest.ResponseRecorder {
	rec := httptest.NewRecorder()
	s.router.ServeHTTP(rec, req)
	return rec
}

func (s *RouterSuite) uploadRequest(content string) *http.Request {
	var body bytes.Buffer
	mw := multipart.NewWriter(&body)
	part, err := mw.CreateFormFile("file", "people.csv")
	s.Require().NoError(err)
	_, err = part.Write([]byte(content))
	s.Require().NoError(err)
	s.Require().NoError(mw.Close())

	req := httptest.NewRequest(http.MethodPost, "/records/upload?delimiter=,", &body)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	return req
}

func (s *RouterSuite) TestUploadIsCountedInMetrics() {
	rec := s.do(s.uploadRequest("Alice,30,Engineer,Platform\n"))
	s.Require().Equal(http.StatusCreated, rec.Code, rec.Body.String())
	s.NotEmpty(rec.Header().Get("X-Request-ID"))

	metrics := s.do(httptest.NewRequest(http.MethodGet, "/metrics", nil))
	s.Require().Equal(http.StatusOK, metrics.Code)
	body := metrics.Body.String()
	s.Contains(body, `csv_uploads_total{type="upload"} 1`)
	s.Contains(body, `staffdir_endpoint_latency_seconds_count{endpoint="/records/upload"} 1`)
}

func (s *RouterSuite) TestOversizedUploadIsRejected() {
	rec := s.do(s.uploadRequest(strings.Repeat("Alice,30,Engineer,Platform\n", 100)))

	s.Equal(http.StatusBadRequest, rec.Code)
	s.Contains(rec.Body.String(), "Failed to upload file")
}

func (s *RouterSuite) TestHealthWithInMemoryStore() {
	rec := s.do(httptest.NewRequest(http.MethodGet, "/health", nil))

	s.Equal(http.StatusOK, rec.Code)
	s.JSONEq(`{"status":"UP","details":{"database":"Available"}}`, rec.Body.String())
}

func (s *RouterSuite) TestUnknownRoute() {
	rec := s.do(httptest.NewRequest(http.MethodGet, "/records", nil))
	s.Equal(http.StatusNotFound, rec.Code)
}

func (s *RouterSuite) TestOpenStoreFallsBackToMemory() {
	st, closeFn, err := openStore(context.Background(), config.Server{}.Database, slog.New(slog.NewTextHandler(io.Discard, nil)))
	s.Require().NoError(err)
	defer closeFn()
	s.IsType(&store.InMemory{}, st)
}
