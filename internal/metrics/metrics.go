// Package metrics exposes Prometheus metrics for team generation and the
// HTTP API.
package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/albapepper/fivea/internal/teams"
)

// Recorder implements teams.Recorder and records HTTP request metrics.
type Recorder struct {
	generationsTotal   *prometheus.CounterVec
	rejectionsTotal    *prometheus.CounterVec
	generationDuration *prometheus.HistogramVec

	httpRequestsTotal   *prometheus.CounterVec
	httpRequestDuration *prometheus.HistogramVec

	gatherer prometheus.Gatherer
}

var _ teams.Recorder = (*Recorder)(nil)

// NewRecorder registers the metrics with reg. Pass nil to use the default
// registry.
func NewRecorder(reg *prometheus.Registry) *Recorder {
	var (
		registerer prometheus.Registerer = prometheus.DefaultRegisterer
		gatherer   prometheus.Gatherer   = prometheus.DefaultGatherer
	)
	if reg != nil {
		registerer, gatherer = reg, reg
	}
	factory := promauto.With(registerer)

	r := &Recorder{
		generationsTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "fivea_generations_total",
				Help: "Team generations by the stage that produced the primary option",
			},
			[]string{"stage", "fallback"},
		),
		rejectionsTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "fivea_partition_rejections_total",
				Help: "Rejected partitions by stage and failure reason",
			},
			[]string{"stage", "reason"},
		),
		generationDuration: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "fivea_generation_duration_seconds",
				Help:    "Time to produce a generation result",
				Buckets: prometheus.ExponentialBuckets(0.0005, 2, 12),
			},
			[]string{"stage"},
		),
		httpRequestsTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "fivea_http_requests_total",
				Help: "HTTP requests by route and status code",
			},
			[]string{"method", "route", "status"},
		),
		httpRequestDuration: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "fivea_http_request_duration_seconds",
				Help:    "HTTP request latency by route",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"method", "route"},
		),
		gatherer: gatherer,
	}

	// Pre-register label combinations so dashboards see zeros.
	for _, stage := range teams.Stages {
		r.generationsTotal.WithLabelValues(string(stage), strconv.FormatBool(stage.IsFallback()))
		for _, reason := range teams.FailureReasons {
			r.rejectionsTotal.WithLabelValues(string(stage), string(reason))
		}
	}
	return r
}

// RecordRejections adds the per-reason failure counts of one stage.
func (r *Recorder) RecordRejections(stage teams.Stage, counts map[teams.FailureReason]int) {
	for reason, n := range counts {
		if n > 0 {
			r.rejectionsTotal.WithLabelValues(string(stage), string(reason)).Add(float64(n))
		}
	}
}

// RecordGeneration counts one generation and observes its duration.
func (r *Recorder) RecordGeneration(stage teams.Stage, fallback bool, duration time.Duration) {
	r.generationsTotal.WithLabelValues(string(stage), strconv.FormatBool(fallback)).Inc()
	r.generationDuration.WithLabelValues(string(stage)).Observe(duration.Seconds())
}

// RecordRequest counts one HTTP request.
func (r *Recorder) RecordRequest(method, route string, status int, duration time.Duration) {
	r.httpRequestsTotal.WithLabelValues(method, route, strconv.Itoa(status)).Inc()
	r.httpRequestDuration.WithLabelValues(method, route).Observe(duration.Seconds())
}

// Handler serves the registry in the Prometheus exposition format.
func (r *Recorder) Handler() http.Handler {
	return promhttp.HandlerFor(r.gatherer, promhttp.HandlerOpts{})
}
