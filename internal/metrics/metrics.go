// Package metrics declares the Prometheus metrics exported on /metrics.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "moneymates"

// ─── HTTP ───────────────────────────────────────────────────────────────────

// HTTPRequests counts handled requests by route pattern and status code.
var HTTPRequests = promauto.NewCounterVec(prometheus.CounterOpts{
	Namespace: namespace,
	Subsystem: "http",
	Name:      "requests_total",
	Help:      "Total HTTP requests by route and status.",
}, []string{"route", "method", "status"})

// HTTPDuration tracks request latency by route pattern.
var HTTPDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
	Namespace: namespace,
	Subsystem: "http",
	Name:      "request_duration_seconds",
	Help:      "HTTP request latency.",
	Buckets:   prometheus.DefBuckets,
}, []string{"route", "method"})

// ─── Realtime ───────────────────────────────────────────────────────────────

// StreamClients tracks connected change-stream subscribers.
var StreamClients = promauto.NewGauge(prometheus.GaugeOpts{
	Namespace: namespace,
	Subsystem: "realtime",
	Name:      "clients",
	Help:      "Current number of change-stream subscribers.",
})

// StreamDropped counts change events dropped for slow subscribers.
var StreamDropped = promauto.NewCounterVec(prometheus.CounterOpts{
	Namespace: namespace,
	Subsystem: "realtime",
	Name:      "dropped_total",
	Help:      "Change events dropped because a subscriber fell behind.",
}, []string{"topic"})

// ─── Domain ─────────────────────────────────────────────────────────────────

// TransactionsCreated counts logged contributions by profile.
var TransactionsCreated = promauto.NewCounterVec(prometheus.CounterOpts{
	Namespace: namespace,
	Subsystem: "ledger",
	Name:      "transactions_created_total",
	Help:      "Total transactions logged.",
}, []string{"profile"})

// PeriodsClosed counts cutoff periods closed.
var PeriodsClosed = promauto.NewCounter(prometheus.CounterOpts{
	Namespace: namespace,
	Subsystem: "ledger",
	Name:      "periods_closed_total",
	Help:      "Total cutoff periods closed.",
})

// GameCommands counts applied game commands by game and command name.
var GameCommands = promauto.NewCounterVec(prometheus.CounterOpts{
	Namespace: namespace,
	Subsystem: "game",
	Name:      "commands_total",
	Help:      "Total game commands applied.",
}, []string{"game", "command"})

// CompletionRequests counts text-completion calls by outcome.
var CompletionRequests = promauto.NewCounterVec(prometheus.CounterOpts{
	Namespace: namespace,
	Subsystem: "coach",
	Name:      "completions_total",
	Help:      "Total text-completion calls by outcome.",
}, []string{"outcome"})

// CompletionDuration tracks text-completion latency including retries.
var CompletionDuration = promauto.NewHistogram(prometheus.HistogramOpts{
	Namespace: namespace,
	Subsystem: "coach",
	Name:      "completion_duration_seconds",
	Help:      "Text-completion latency including retries.",
	Buckets:   []float64{0.25, 0.5, 1, 2, 5, 10, 20},
})
