// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

// Package metrics exposes Prometheus collectors for the catalog API.
//
// A [Metrics] value owns its own registry, so tests can build as many as they
// like without tripping duplicate-registration panics.
package metrics

import (
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "bookshelf"

// Cache outcomes recorded by [Metrics.CacheLookup].
const (
	CacheHit  = "hit"
	CacheMiss = "miss"
	CacheErr  = "error"
)

// Metrics groups the collectors recorded by the HTTP stack and the services.
type Metrics struct {
	registry *prometheus.Registry

	httpInFlight   prometheus.Gauge
	httpRequests   *prometheus.CounterVec
	httpDuration   *prometheus.HistogramVec
	authFailures   prometheus.Counter
	rankingLookups *prometheus.CounterVec
}

// New creates a registry with HTTP, auth and cache collectors plus the
// standard process and Go runtime collectors.
func New() *Metrics {
	m := &Metrics{
		registry: prometheus.NewRegistry(),

		httpInFlight: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Subsystem: "http",
			Name:      "inflight_requests",
			Help:      "Current number of in-flight HTTP requests.",
		}),

		httpRequests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "http",
			Name:      "requests_total",
			Help:      "Total number of HTTP requests handled.",
		}, []string{"method", "route", "status"}),

		httpDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "http",
			Name:      "request_duration_seconds",
			Help:      "Duration of HTTP requests.",
			Buckets:   prometheus.ExponentialBuckets(0.005, 2, 10), // 5ms to ~5s
		}, []string{"method", "route"}),

		authFailures: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "auth",
			Name:      "failures_total",
			Help:      "Bearer tokens or credentials rejected.",
		}),

		rankingLookups: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "ranking",
			Name:      "cache_lookups_total",
			Help:      "Top-rated cache lookups by outcome.",
		}, []string{"outcome"}),
	}

	m.registry.MustRegister(
		m.httpInFlight,
		m.httpRequests,
		m.httpDuration,
		m.authFailures,
		m.rankingLookups,
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		collectors.NewGoCollector(),
	)

	return m
}

// Registry returns the underlying registry.
func (m *Metrics) Registry() *prometheus.Registry {
	return m.registry
}

// Handler returns an HTTP handler exposing the registered metrics.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}

// AuthFailure counts one rejected token or login attempt.
func (m *Metrics) AuthFailure() {
	if m == nil {
		return
	}
	m.authFailures.Inc()
}

// CacheLookup counts one ranking cache lookup with the given outcome.
func (m *Metrics) CacheLookup(outcome string) {
	if m == nil {
		return
	}
	m.rankingLookups.WithLabelValues(outcome).Inc()
}

// Instrument wraps the handler with HTTP metrics collection.
//
// The route label is the chi route pattern (e.g. "/books/{id}") so that ids do
// not explode label cardinality.
func (m *Metrics) Instrument(next http.Handler) http.Handler {
	return http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
		if request.URL.Path == "/metrics" {
			next.ServeHTTP(writer, request)
			return
		}

		recorder := &statusRecorder{ResponseWriter: writer, status: http.StatusOK}
		start := time.Now()

		m.httpInFlight.Inc()
		defer m.httpInFlight.Dec()

		next.ServeHTTP(recorder, request)

		route := routePattern(request)
		method := strings.ToUpper(request.Method)

		m.httpRequests.WithLabelValues(method, route, strconv.Itoa(recorder.status)).Inc()
		m.httpDuration.WithLabelValues(method, route).Observe(time.Since(start).Seconds())
	})
}

func routePattern(request *http.Request) string {
	if routeContext := chi.RouteContext(request.Context()); routeContext != nil {
		if pattern := routeContext.RoutePattern(); pattern != "" {
			return pattern
		}
	}
	return "unmatched"
}

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (recorder *statusRecorder) WriteHeader(code int) {
	recorder.status = code
	recorder.ResponseWriter.WriteHeader(code)
}
