package service

//go:generate mockgen -source=service.go -destination=mocks/mocks.go -package=mocks Store

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/suite"
	"go.uber.org/mock/gomock"

	"staffdir/internal/platform/tracer"
	"staffdir/internal/record/events"
	recordmetrics "staffdir/internal/record/metrics"
	"staffdir/internal/record/models"
	"staffdir/internal/record/service/mocks"
	dErrors "staffdir/pkg/domain-errors"
	request "staffdir/pkg/platform/middleware/request"
	"staffdir/pkg/platform/sentinel"
)

type capturingPublisher struct {
	events []events.UploadCompleted
	err    error
}

func (p *capturingPublisher) PublishUploadCompleted(_ context.Context, e events.UploadCompleted) error {
	p.events = append(p.events, e)
	return p.err
}

type recordingSpan struct {
	attrs []tracer.Attribute
	ended bool
}

func (r *recordingSpan) End(error) { r.ended = true }

func (r *recordingSpan) SetAttributes(attrs ...tracer.Attribute) {
	r.attrs = append(r.attrs, attrs...)
}

type recordingTracer struct {
	spans map[string]*recordingSpan
}

func (r *recordingTracer) Start(ctx context.Context, name string, attrs ...tracer.Attribute) (context.Context, tracer.Span) {
	span := &recordingSpan{attrs: attrs}
	r.spans[name] = span
	return ctx, span
}

type ServiceSuite struct {
	suite.Suite
	ctrl      *gomock.Controller
	mockStore *mocks.MockStore
	metrics   *recordmetrics.Metrics
	publisher *capturingPublisher
	service   *Service
	ctx       context.Context
}

func TestServiceSuite(t *testing.T) {
	suite.Run(t, new(ServiceSuite))
}

func (s *ServiceSuite) SetupTest() {
	s.ctrl = gomock.NewController(s.T())
	s.mockStore = mocks.NewMockStore(s.ctrl)
	s.metrics = recordmetrics.New(prometheus.NewRegistry())
	s.publisher = &capturingPublisher{}
	s.service = New(s.mockStore,
		WithLogger(slog.New(slog.NewTextHandler(io.Discard, nil))),
		WithMetrics(s.metrics),
		WithPublisher(s.publisher),
	)
	s.ctx = request.WithRequestID(context.Background(), "req-123")
}

func (s *ServiceSuite) TearDownTest() {
	s.ctrl.Finish()
}

func (s *ServiceSuite) uploads() float64 {
	return testutil.ToFloat64(s.metrics.Uploads)
}

func (s *ServiceSuite) TestUploadInsertsWholeFileInOneBatch() {
	file := []byte("Alice;30;Engineer;Platform\nBob;41;Manager;Sales\n")

	s.mockStore.EXPECT().
		InsertBatch(gomock.Any(), gomock.Len(2)).
		DoAndReturn(func(_ context.Context, records []*models.Record) error {
			s.Equal("Alice", records[0].FullName)
			s.Equal(41, records[1].Age)
			s.Equal("Sales", records[1].Department)
			return nil
		})

	n, err := s.service.Upload(s.ctx, file, ';')
	s.Require().NoError(err)
	s.Equal(2, n)
	s.Equal(1.0, s.uploads())
	s.Equal(2.0, testutil.ToFloat64(s.metrics.RowsIngested))

	s.Require().Len(s.publisher.events, 1)
	event := s.publisher.events[0]
	s.Equal(2, event.Records)
	s.Equal(";", event.Delimiter)
	s.Equal("req-123", event.RequestID)
	s.NotEmpty(event.UploadID)
}

func (s *ServiceSuite) TestUploadRejectsBeforeTouchingStore() {
	tests := []struct {
		name      string
		file      string
		delimiter rune
		code      dErrors.Code
	}{
		{"empty file", "", ',', dErrors.CodeFileUpload},
		{"empty file wins over bad delimiter", "", '#', dErrors.CodeFileUpload},
		{"invalid delimiter", "Alice#30#Engineer#Platform", '#', dErrors.CodeInvalidDelimiter},
		{"non-numeric age", "Alice,thirty,Engineer,Platform", ',', dErrors.CodeCSVParsing},
		{"short row after good rows", "Alice,30,Engineer,Platform\nBob,41,Manager", ',', dErrors.CodeCSVParsing},
		{"header row", "name,age,position,department\nAlice,30,Engineer,Platform", ',', dErrors.CodeCSVParsing},
	}

	for _, tt := range tests {
		s.Run(tt.name, func() {
			n, err := s.service.Upload(s.ctx, []byte(tt.file), tt.delimiter)
			s.Require().Error(err)
			s.True(dErrors.HasCode(err, tt.code), "expected %s, got %v", tt.code, err)
			s.Zero(n)
		})
	}
	s.Zero(s.uploads())
	s.Empty(s.publisher.events)
}

func (s *ServiceSuite) TestUploadMapsStoreErrors() {
	tests := []struct {
		name     string
		storeErr error
		code     dErrors.Code
	}{
		{"constraint violation", fmt.Errorf("insert: %w", sentinel.ErrConstraintViolation), dErrors.CodeConstraintViolation},
		{"deadline", context.DeadlineExceeded, dErrors.CodeTimeout},
		{"anything else", errors.New("connection reset"), dErrors.CodeInternal},
	}

	for _, tt := range tests {
		s.Run(tt.name, func() {
			s.mockStore.EXPECT().InsertBatch(gomock.Any(), gomock.Any()).Return(tt.storeErr)

			_, err := s.service.Upload(s.ctx, []byte("Alice,30,Engineer,Platform"), ',')
			s.Require().Error(err)
			s.True(dErrors.HasCode(err, tt.code), "expected %s, got %v", tt.code, err)
			s.ErrorIs(err, tt.storeErr)
		})
	}
	s.Zero(s.uploads())
	s.Empty(s.publisher.events)
}

func (s *ServiceSuite) TestUploadOfBlankLinesCountsAsUpload() {
	s.mockStore.EXPECT().InsertBatch(gomock.Any(), gomock.Len(0)).Return(nil)

	n, err := s.service.Upload(s.ctx, []byte("\n\n"), ',')
	s.Require().NoError(err)
	s.Zero(n)
	s.Equal(1.0, s.uploads())
}

func (s *ServiceSuite) TestUploadSucceedsWhenPublishFails() {
	s.publisher.err = errors.New("broker down")
	s.mockStore.EXPECT().InsertBatch(gomock.Any(), gomock.Any()).Return(nil)

	n, err := s.service.Upload(s.ctx, []byte("Alice|30|Engineer|Platform"), '|')
	s.Require().NoError(err)
	s.Equal(1, n)
	s.Len(s.publisher.events, 1)
}

func (s *ServiceSuite) TestUploadWithoutOptionalCollaborators() {
	svc := New(s.mockStore)
	s.mockStore.EXPECT().InsertBatch(gomock.Any(), gomock.Any()).Return(nil)

	n, err := svc.Upload(context.Background(), []byte("Alice:30:Engineer:Platform"), ':')
	s.Require().NoError(err)
	s.Equal(1, n)
}

func (s *ServiceSuite) TestSearchByCriteriaBuildsEqualityFilter() {
	age := 30
	page, err := models.NewPageRequest(2, 5)
	s.Require().NoError(err)
	want := models.NewPage([]*models.Record{{ID: 6, FullName: "Alice", Age: 30}}, page, 6)

	s.mockStore.EXPECT().
		Find(gomock.Any(), models.AllOf{Conditions: []models.Equals{
			{Field: models.FieldFullName, Value: "Alice"},
			{Field: models.FieldAge, Value: 30},
		}}, page).
		Return(want, nil)

	got, err := s.service.SearchByCriteria(s.ctx, models.Criteria{FullName: "Alice", Age: &age}, page)
	s.Require().NoError(err)
	s.Same(want, got)
	s.Equal(1, testutil.CollectAndCount(s.metrics.SearchLatency))
}

func (s *ServiceSuite) TestSearchWithoutCriteriaMatchesAll() {
	page, err := models.NewPageRequest(1, 10)
	s.Require().NoError(err)

	s.mockStore.EXPECT().Find(gomock.Any(), models.MatchAll{}, page).Return(models.NewPage[*models.Record](nil, page, 0), nil).Times(2)

	_, err = s.service.SearchByCriteria(s.ctx, models.Criteria{}, page)
	s.Require().NoError(err)
	_, err = s.service.SearchByText(s.ctx, "", page)
	s.Require().NoError(err)
}

func (s *ServiceSuite) TestSearchByTextBuildsContainsFilter() {
	page, err := models.NewPageRequest(1, 10)
	s.Require().NoError(err)

	s.mockStore.EXPECT().
		Find(gomock.Any(), models.AnyContains{Fields: models.TextFields, Text: "eng"}, page).
		Return(models.NewPage[*models.Record](nil, page, 0), nil)

	got, err := s.service.SearchByText(s.ctx, "eng", page)
	s.Require().NoError(err)
	s.True(got.Empty())
}

func (s *ServiceSuite) TestSearchWrapsStoreFailure() {
	page, err := models.NewPageRequest(1, 10)
	s.Require().NoError(err)
	s.mockStore.EXPECT().Find(gomock.Any(), gomock.Any(), gomock.Any()).Return(nil, errors.New("db down"))

	_, err = s.service.SearchByText(s.ctx, "x", page)
	s.Require().Error(err)
	s.True(dErrors.HasCode(err, dErrors.CodeInternal))
}

func (s *ServiceSuite) TestPingDelegatesToStore() {
	s.mockStore.EXPECT().Ping(gomock.Any()).Return(errors.New("unreachable"))
	s.Error(s.service.Ping(s.ctx))
}

func (s *ServiceSuite) TestSearchRecordsSpanAttributes() {
	tr := &recordingTracer{spans: map[string]*recordingSpan{}}
	svc := New(s.mockStore, WithTracer(tr))
	page, err := models.NewPageRequest(1, 10)
	s.Require().NoError(err)
	s.mockStore.EXPECT().Find(gomock.Any(), gomock.Any(), page).Return(models.NewPage[*models.Record](nil, page, 0), nil)

	_, err = svc.SearchByText(s.ctx, "eng", page)
	s.Require().NoError(err)

	s.Require().Len(tr.spans, 1)
	for _, span := range tr.spans {
		s.True(span.ended)
		s.Contains(span.attrs, tracer.Int64("total", 0))
		s.Contains(span.attrs, tracer.Bool("empty", true))
	}
}
