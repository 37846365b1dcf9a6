// Package metrics defines prometheus collectors of the triage service.
package metrics

import (
	"net/http"
	"sync"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	ClassificationsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "feedtriage_classifications_total",
			Help: "Total number of classified feedbacks",
		},
		[]string{"path"}, // short, full, cached
	)

	ModelFailures = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "feedtriage_model_failures_total",
			Help: "Total number of failed external model calls",
		},
		[]string{"component"},
	)

	ModelDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "feedtriage_model_duration_seconds",
			Help:    "External model call duration in seconds",
			Buckets: []float64{0.1, 0.5, 1, 2, 5, 10, 30},
		},
		[]string{"component"},
	)

	ReportsGenerated = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "feedtriage_reports_generated_total",
			Help: "Total number of generated reports",
		},
		[]string{"format"},
	)

	Deliveries = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "feedtriage_deliveries_total",
			Help: "Total number of report deliveries",
		},
		[]string{"channel", "status"},
	)
)

var initOnce sync.Once

// Init registers all collectors with the default registry, safe to call more than once
func Init() {
	initOnce.Do(func() {
		prometheus.MustRegister(ClassificationsTotal)
		prometheus.MustRegister(ModelFailures)
		prometheus.MustRegister(ModelDuration)
		prometheus.MustRegister(ReportsGenerated)
		prometheus.MustRegister(Deliveries)
	})
}

// Handler returns http handler exposing registered metrics
func Handler() http.Handler {
	return promhttp.Handler()
}

// DeliveryStatus converts delivery error to status label
func DeliveryStatus(err error) string {
	if err != nil {
		return "failed"
	}
	return "sent"
}
