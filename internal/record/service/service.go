// Package service implements CSV ingestion and record search.
package service

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"staffdir/internal/platform/tracer"
	"staffdir/internal/record/events"
	"staffdir/internal/record/ingest"
	recordmetrics "staffdir/internal/record/metrics"
	"staffdir/internal/record/models"
	dErrors "staffdir/pkg/domain-errors"
	request "staffdir/pkg/platform/middleware/request"
	"staffdir/pkg/platform/sentinel"
)

// Store persists and queries records.
type Store interface {
	InsertBatch(ctx context.Context, records []*models.Record) error
	Find(ctx context.Context, filter models.Filter, page models.PageRequest) (*models.Page[*models.Record], error)
	Ping(ctx context.Context) error
}

// Service orchestrates record uploads and searches.
type Service struct {
	store     Store
	logger    *slog.Logger
	metrics   *recordmetrics.Metrics
	publisher events.Publisher
	tracer    tracer.Tracer
	now       func() time.Time
}

type Option func(s *Service)

func WithLogger(logger *slog.Logger) Option {
	return func(s *Service) {
		s.logger = logger
	}
}

func WithMetrics(m *recordmetrics.Metrics) Option {
	return func(s *Service) {
		s.metrics = m
	}
}

func WithPublisher(p events.Publisher) Option {
	return func(s *Service) {
		s.publisher = p
	}
}

func WithTracer(t tracer.Tracer) Option {
	return func(s *Service) {
		s.tracer = t
	}
}

func New(store Store, opts ...Option) *Service {
	s := &Service{
		store:  store,
		logger: slog.Default(),
		tracer: tracer.NewNoop(),
		now:    time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Upload validates and parses a delimited file and stores every row in one
// batch. Nothing is stored if any row fails to parse. It returns the number
// of records inserted.
func (s *Service) Upload(ctx context.Context, file []byte, delimiter rune) (n int, err error) {
	ctx, span := s.tracer.Start(ctx, "record.upload",
		tracer.Int("file_bytes", len(file)),
		tracer.String("delimiter", string(delimiter)),
	)
	defer func() { span.End(err) }()

	records, err := ingest.Parse(file, delimiter)
	if err != nil {
		s.logger.WarnContext(ctx, "upload rejected",
			"request_id", request.GetRequestID(ctx),
			"error", err,
		)
		return 0, err
	}

	if err := s.store.InsertBatch(ctx, records); err != nil {
		return 0, wrapStoreErr(err, "failed to save records")
	}

	n = len(records)
	span.SetAttributes(tracer.Int("records", n))
	if s.metrics != nil {
		s.metrics.IncrementUploads(n)
	}
	s.logger.InfoContext(ctx, "records uploaded",
		"request_id", request.GetRequestID(ctx),
		"records", n,
	)
	s.publishUploadCompleted(ctx, n, delimiter)

	return n, nil
}

// SearchByCriteria returns records exactly matching every supplied criterion,
// ordered by id.
func (s *Service) SearchByCriteria(ctx context.Context, criteria models.Criteria, page models.PageRequest) (*models.Page[*models.Record], error) {
	return s.search(ctx, "criteria", models.CriteriaFilter(criteria), page)
}

// SearchByText returns records whose name, position or department contains
// text, ignoring case, ordered by id.
func (s *Service) SearchByText(ctx context.Context, text string, page models.PageRequest) (*models.Page[*models.Record], error) {
	return s.search(ctx, "text", models.TextFilter(text), page)
}

func (s *Service) search(ctx context.Context, kind string, filter models.Filter, page models.PageRequest) (result *models.Page[*models.Record], err error) {
	ctx, span := s.tracer.Start(ctx, "record.search",
		tracer.String("kind", kind),
		tracer.Int("page", page.Number),
		tracer.Int("size", page.Size),
	)
	defer func() { span.End(err) }()

	start := s.now()
	result, err = s.store.Find(ctx, filter, page)
	if err != nil {
		return nil, wrapStoreErr(err, "failed to search records")
	}
	if s.metrics != nil {
		s.metrics.ObserveSearch(kind, s.now().Sub(start))
	}
	span.SetAttributes(tracer.Int64("total", result.TotalElements), tracer.Bool("empty", result.Empty()))
	return result, nil
}

// Ping reports whether the backing store is reachable.
func (s *Service) Ping(ctx context.Context) error {
	return s.store.Ping(ctx)
}

// publishUploadCompleted never fails the upload; delivery errors are logged.
func (s *Service) publishUploadCompleted(ctx context.Context, n int, delimiter rune) {
	if s.publisher == nil {
		return
	}
	event := events.UploadCompleted{
		UploadID:   uuid.NewString(),
		Records:    n,
		Delimiter:  string(delimiter),
		UploadedAt: s.now().UTC(),
		RequestID:  request.GetRequestID(ctx),
	}
	if err := s.publisher.PublishUploadCompleted(ctx, event); err != nil {
		s.logger.WarnContext(ctx, "failed to publish upload event",
			"request_id", event.RequestID,
			"upload_id", event.UploadID,
			"error", err,
		)
	}
}

// wrapStoreErr translates store sentinels into domain errors exactly once.
func wrapStoreErr(err error, msg string) error {
	switch {
	case errors.Is(err, sentinel.ErrConstraintViolation):
		return dErrors.Wrap(err, dErrors.CodeConstraintViolation, "record violates a storage constraint")
	case errors.Is(err, context.DeadlineExceeded):
		return dErrors.Wrap(err, dErrors.CodeTimeout, "request timed out")
	default:
		return dErrors.Wrap(err, dErrors.CodeInternal, msg)
	}
}
