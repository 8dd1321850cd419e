package web

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
)

// metrics is a private registry so that several servers can coexist in one
// process, as they do in tests.
type metrics struct {
	registry *prometheus.Registry

	requests  *prometheus.CounterVec
	latency   *prometheus.HistogramVec
	analyzed  prometheus.Counter
	issues    *prometheus.CounterVec
	refactors *prometheus.CounterVec
}

func newMetrics() *metrics {
	m := &metrics{
		registry: prometheus.NewRegistry(),
		requests: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: "janitor",
				Name:      "http_requests_total",
				Help:      "HTTP requests by route and status code",
			},
			[]string{"route", "status"},
		),
		latency: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: "janitor",
				Name:      "http_request_duration_seconds",
				Help:      "HTTP request latency in seconds",
				Buckets:   prometheus.DefBuckets,
			},
			[]string{"route"},
		),
		analyzed: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "janitor",
			Name:      "analyzed_files_total",
			Help:      "Files analyzed through the API",
		}),
		issues: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: "janitor",
				Name:      "issues_found_total",
				Help:      "Issues found by category",
			},
			[]string{"category"},
		),
		refactors: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: "janitor",
				Name:      "refactors_total",
				Help:      "Refactor requests by outcome",
			},
			[]string{"outcome"},
		),
	}
	m.registry.MustRegister(
		collectors.NewGoCollector(),
		m.requests,
		m.latency,
		m.analyzed,
		m.issues,
		m.refactors,
	)
	return m
}
