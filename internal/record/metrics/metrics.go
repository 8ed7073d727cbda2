// Package metrics holds the Prometheus instruments for record ingestion and search.
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds the record-domain instruments.
type Metrics struct {
	Uploads       prometheus.Counter
	RowsIngested  prometheus.Counter
	SearchLatency *prometheus.HistogramVec
}

// New creates the instruments and registers them with reg.
func New(reg prometheus.Registerer) *Metrics {
	factory := promauto.With(reg)
	return &Metrics{
		Uploads: factory.NewCounter(prometheus.CounterOpts{
			Name:        "csv_uploads_total",
			Help:        "Counts the number of CSV file uploads",
			ConstLabels: prometheus.Labels{"type": "upload"},
		}),
		RowsIngested: factory.NewCounter(prometheus.CounterOpts{
			Name: "staffdir_records_ingested_total",
			Help: "Total number of records persisted from CSV uploads",
		}),
		SearchLatency: factory.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "staffdir_search_duration_seconds",
			Help:    "Duration of record searches in seconds",
			Buckets: prometheus.DefBuckets,
		}, []string{"kind"}),
	}
}

// IncrementUploads counts one successful upload of n rows.
func (m *Metrics) IncrementUploads(n int) {
	m.Uploads.Inc()
	m.RowsIngested.Add(float64(n))
}

// ObserveSearch records how long a search of the given kind took.
func (m *Metrics) ObserveSearch(kind string, d time.Duration) {
	m.SearchLatency.WithLabelValues(kind).Observe(d.Seconds())
}
