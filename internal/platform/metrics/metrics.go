package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds all Prometheus metrics for the application.
type Metrics struct {
	Submissions       prometheus.Counter
	Searches          prometheus.Counter
	ModerationActions *prometheus.CounterVec
	ImportedRecords   prometheus.Counter
	PhotoFailures     *prometheus.CounterVec
}

// New creates and registers all Prometheus metrics.
func New() *Metrics {
	return &Metrics{
		Submissions: promauto.NewCounter(prometheus.CounterOpts{
			Name: "tipjar_submissions_total",
			Help: "Total number of accepted directory submissions",
		}),
		Searches: promauto.NewCounter(prometheus.CounterOpts{
			Name: "tipjar_searches_total",
			Help: "Total number of directory searches served",
		}),
		ModerationActions: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "tipjar_moderation_actions_total",
			Help: "Moderation actions applied, by action",
		}, []string{"action"}),
		ImportedRecords: promauto.NewCounter(prometheus.CounterOpts{
			Name: "tipjar_imported_records_total",
			Help: "Records imported from the spreadsheet source",
		}),
		PhotoFailures: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "tipjar_photo_failures_total",
			Help: "Photo pipeline failures, by stage",
		}, []string{"stage"}),
	}
}

// The increment helpers are nil-safe so tests can run services without a
// registered metrics set.

func (m *Metrics) CountSubmission() {
	if m == nil {
		return
	}
	m.Submissions.Inc()
}

func (m *Metrics) CountSearch() {
	if m == nil {
		return
	}
	m.Searches.Inc()
}

func (m *Metrics) CountModeration(action string) {
	if m == nil {
		return
	}
	m.ModerationActions.WithLabelValues(action).Inc()
}

func (m *Metrics) CountImported(n int) {
	if m == nil {
		return
	}
	m.ImportedRecords.Add(float64(n))
}

func (m *Metrics) CountPhotoFailure(stage string) {
	if m == nil {
		return
	}
	m.PhotoFailures.WithLabelValues(stage).Inc()
}
