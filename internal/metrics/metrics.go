// SPDX-License-Identifier: Apache-2.0
// Copyright (c) 2025 Mufeed Ali

// Package metrics exposes Prometheus metrics for the network hosts.
package metrics

import (
	"net/http"

	"cv-terminal/internal/session"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics holds the counters for CV sessions. Each instance has its own
// registry so several can coexist in tests.
type Metrics struct {
	registry *prometheus.Registry

	SessionsTotal      *prometheus.CounterVec
	SessionsActive     *prometheus.GaugeVec
	SessionsRejected   *prometheus.CounterVec
	CommandsTotal      *prometheus.CounterVec
	InterruptionsTotal prometheus.Counter
}

// New creates and registers all metrics.
func New() *Metrics {
	m := &Metrics{registry: prometheus.NewRegistry()}

	m.SessionsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "cvterm_sessions_total",
			Help: "Total number of terminal sessions started",
		},
		[]string{"transport"},
	)

	m.SessionsActive = prometheus.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "cvterm_sessions_active",
			Help: "Number of terminal sessions currently open",
		},
		[]string{"transport"},
	)

	m.SessionsRejected = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "cvterm_sessions_rejected_total",
			Help: "Sessions refused because the server was at capacity",
		},
		[]string{"transport"},
	)

	m.CommandsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "cvterm_commands_total",
			Help: "Commands submitted, by resolved kind",
		},
		[]string{"kind"},
	)

	m.InterruptionsTotal = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "cvterm_animation_interruptions_total",
			Help: "Typing animations cancelled with Ctrl+C",
		},
	)

	m.registry.MustRegister(
		m.SessionsTotal,
		m.SessionsActive,
		m.SessionsRejected,
		m.CommandsTotal,
		m.InterruptionsTotal,
		collectors.NewGoCollector(),
	)
	return m
}

// Handler serves the metrics in the Prometheus text format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}

// SessionStarted records a new session and returns the func to call when it ends.
func (m *Metrics) SessionStarted(transport string) (done func()) {
	m.SessionsTotal.WithLabelValues(transport).Inc()
	active := m.SessionsActive.WithLabelValues(transport)
	active.Inc()
	return func() { active.Dec() }
}

// SessionRejected records a session refused at capacity.
func (m *Metrics) SessionRejected(transport string) {
	m.SessionsRejected.WithLabelValues(transport).Inc()
}

// CommandDispatched implements session.Observer.
func (m *Metrics) CommandDispatched(a session.Action) {
	m.CommandsTotal.WithLabelValues(a.Kind.String()).Inc()
}

// AnimationInterrupted implements session.Observer.
func (m *Metrics) AnimationInterrupted() {
	m.InterruptionsTotal.Inc()
}
