// Package metrics provides Prometheus metrics for the portal.
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds all Prometheus collectors. A nil *Metrics is valid and
// records nothing, which keeps tests and CLI commands free of registries.
type Metrics struct {
	// HTTP request metrics
	HTTPRequestsTotal   *prometheus.CounterVec
	HTTPRequestDuration *prometheus.HistogramVec

	// Generation service metrics
	GenerationRequestsTotal *prometheus.CounterVec
	GenerationDuration      *prometheus.HistogramVec

	// Record store metrics
	StoreOperationsTotal *prometheus.CounterVec

	// Lifecycle metrics
	ProposalVersionsTotal prometheus.Counter
	IdeasSubmittedTotal   prometheus.Counter
	PostsPublishedTotal   prometheus.Counter
}

// NewMetrics creates all collectors and registers them with reg.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	factory := promauto.With(reg)

	return &Metrics{
		HTTPRequestsTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "portal_http_requests_total",
				Help: "Total number of HTTP requests",
			},
			[]string{"method", "route", "status"},
		),
		HTTPRequestDuration: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "portal_http_request_duration_seconds",
				Help:    "Duration of HTTP requests in seconds",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"route"},
		),
		GenerationRequestsTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "portal_generation_requests_total",
				Help: "Total number of calls to the text-generation service",
			},
			[]string{"kind", "status"},
		),
		GenerationDuration: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "portal_generation_duration_seconds",
				Help:    "Duration of text-generation calls in seconds",
				Buckets: []float64{.25, .5, 1, 2.5, 5, 10, 20, 40, 80},
			},
			[]string{"kind"},
		),
		StoreOperationsTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "portal_store_operations_total",
				Help: "Total number of record store operations",
			},
			[]string{"table", "operation", "status"},
		),
		ProposalVersionsTotal: factory.NewCounter(
			prometheus.CounterOpts{
				Name: "portal_proposal_versions_total",
				Help: "Total number of proposal versions appended",
			},
		),
		IdeasSubmittedTotal: factory.NewCounter(
			prometheus.CounterOpts{
				Name: "portal_ideas_submitted_total",
				Help: "Total number of ideas submitted",
			},
		),
		PostsPublishedTotal: factory.NewCounter(
			prometheus.CounterOpts{
				Name: "portal_board_posts_published_total",
				Help: "Total number of activity board posts published",
			},
		),
	}
}

// RecordHTTPRequest records a served HTTP request
func (m *Metrics) RecordHTTPRequest(method, route, status string, duration time.Duration) {
	if m == nil {
		return
	}
	m.HTTPRequestsTotal.WithLabelValues(method, route, status).Inc()
	m.HTTPRequestDuration.WithLabelValues(route).Observe(duration.Seconds())
}

// RecordGeneration records a generation call; kind is "draft" or "revision"
func (m *Metrics) RecordGeneration(kind, status string, duration time.Duration) {
	if m == nil {
		return
	}
	m.GenerationRequestsTotal.WithLabelValues(kind, status).Inc()
	m.GenerationDuration.WithLabelValues(kind).Observe(duration.Seconds())
}

// RecordStoreOperation records a record store operation
func (m *Metrics) RecordStoreOperation(table, operation, status string) {
	if m == nil {
		return
	}
	m.StoreOperationsTotal.WithLabelValues(table, operation, status).Inc()
}

func (m *Metrics) IncProposalVersions() {
	if m == nil {
		return
	}
	m.ProposalVersionsTotal.Inc()
}

func (m *Metrics) IncIdeasSubmitted() {
	if m == nil {
		return
	}
	m.IdeasSubmittedTotal.Inc()
}

func (m *Metrics) IncPostsPublished() {
	if m == nil {
		return
	}
	m.PostsPublishedTotal.Inc()
}

// StatusLabel maps an error to the status label used by all counters.
func StatusLabel(err error) string {
	if err != nil {
		return "error"
	}
	return "success"
}
