package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// InsightMetrics instruments the document and feature pipeline. It registers
// into an existing registry so the API exposes one /metrics endpoint.
type InsightMetrics struct {
	service string

	featureRunsTotal     *prometheus.CounterVec
	engineDuration       *prometheus.HistogramVec
	staleDiscardsTotal   *prometheus.CounterVec
	documentLoadsTotal   *prometheus.CounterVec
	exportDownloadsTotal *prometheus.CounterVec
	activeSessions       prometheus.Gauge
}

func NewInsightMetrics(registry *prometheus.Registry, service string) *InsightMetrics {
	featureRunsTotal := prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "lda",
			Subsystem: "insight",
			Name:      "feature_runs_total",
			Help:      "Total completed feature runs by status.",
		},
		[]string{"service", "feature", "status"},
	)
	engineDuration := prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "lda",
			Subsystem: "insight",
			Name:      "engine_request_duration_seconds",
			Help:      "Engine call duration per feature run.",
			Buckets:   []float64{0.25, 0.5, 1, 2, 5, 10, 20, 40, 80, 120},
		},
		[]string{"service", "feature"},
	)
	staleDiscardsTotal := prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "lda",
			Subsystem: "insight",
			Name:      "stale_results_discarded_total",
			Help:      "Total feature results discarded because the document changed mid-run.",
		},
		[]string{"service", "feature"},
	)
	documentLoadsTotal := prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "lda",
			Subsystem: "insight",
			Name:      "document_loads_total",
			Help:      "Total document load attempts by outcome and extraction mode.",
		},
		[]string{"service", "status", "mode"},
	)
	exportDownloadsTotal := prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "lda",
			Subsystem: "insight",
			Name:      "export_downloads_total",
			Help:      "Total exported artifacts by format.",
		},
		[]string{"service", "format"},
	)
	activeSessions := prometheus.NewGauge(
		prometheus.GaugeOpts{
			Namespace: "lda",
			Subsystem: "insight",
			Name:      "active_sessions",
			Help:      "Number of live sessions in the store.",
			ConstLabels: prometheus.Labels{
				"service": service,
			},
		},
	)

	registry.MustRegister(
		featureRunsTotal,
		engineDuration,
		staleDiscardsTotal,
		documentLoadsTotal,
		exportDownloadsTotal,
		activeSessions,
	)

	return &InsightMetrics{
		service:              service,
		featureRunsTotal:     featureRunsTotal,
		engineDuration:       engineDuration,
		staleDiscardsTotal:   staleDiscardsTotal,
		documentLoadsTotal:   documentLoadsTotal,
		exportDownloadsTotal: exportDownloadsTotal,
		activeSessions:       activeSessions,
	}
}

func (m *InsightMetrics) RecordDocumentLoad(status, mode string) {
	m.documentLoadsTotal.WithLabelValues(m.service, status, mode).Inc()
}

func (m *InsightMetrics) RecordFeatureRun(feature, status string, duration time.Duration) {
	m.featureRunsTotal.WithLabelValues(m.service, feature, status).Inc()
	m.engineDuration.WithLabelValues(m.service, feature).Observe(duration.Seconds())
}

func (m *InsightMetrics) RecordStaleDiscard(feature string) {
	m.staleDiscardsTotal.WithLabelValues(m.service, feature).Inc()
}

func (m *InsightMetrics) RecordExportDownload(format string) {
	m.exportDownloadsTotal.WithLabelValues(m.service, format).Inc()
}

func (m *InsightMetrics) SetActiveSessions(count int) {
	m.activeSessions.Set(float64(count))
}
