// Copyright (C) 2025 Beaconforge
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.

// Package observability collects the Prometheus metrics for the intake
// service.
//
// # Description
//
// Metrics are registered once with promauto against the default
// registry and exposed through the /metrics endpoint. InitMetrics is
// idempotent so that any component can ask for the singleton without
// caring about initialization order.
package observability

import (
	"sync"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const (
	namespace = "intakeflow"
	subsystem = "intake"
)

// Metrics holds every counter and gauge the intake service records.
type Metrics struct {
	// SessionsStarted counts forms that reached the goal screen.
	SessionsStarted prometheus.Counter

	// SessionsActive tracks forms created and not yet finished or
	// deleted.
	SessionsActive prometheus.Gauge

	// SessionsCompleted counts forms that ran the completion pipeline.
	SessionsCompleted prometheus.Counter

	// SessionsCancelled counts forms the user deleted.
	SessionsCancelled prometheus.Counter

	// EventsTotal counts dispatched interaction events by kind.
	EventsTotal *prometheus.CounterVec

	// DuplicateEvents counts interaction events dropped by the
	// delivery dedup.
	DuplicateEvents prometheus.Counter

	// StaleEvents counts interaction events that targeted a question
	// the session had already moved past.
	StaleEvents prometheus.Counter

	// ValidationRejections counts submissions that failed selection
	// validation.
	ValidationRejections prometheus.Counter

	// SinkDeliveries counts completed-form payloads accepted by the
	// response sink.
	SinkDeliveries prometheus.Counter

	// SinkFailures counts payloads the sink refused after all retries.
	SinkFailures prometheus.Counter

	// RoleChangeFailures counts role grants or removals the directory
	// rejected.
	RoleChangeFailures prometheus.Counter
}

var (
	metricsOnce sync.Once
	metrics     *Metrics
)

// InitMetrics registers the intake metrics exactly once and returns the
// shared instance.
func InitMetrics() *Metrics {
	metricsOnce.Do(func() {
		metrics = &Metrics{
			SessionsStarted: promauto.NewCounter(prometheus.CounterOpts{
				Namespace: namespace,
				Subsystem: subsystem,
				Name:      "sessions_started_total",
				Help:      "Forms started (goal screen shown).",
			}),
			SessionsActive: promauto.NewGauge(prometheus.GaugeOpts{
				Namespace: namespace,
				Subsystem: subsystem,
				Name:      "sessions_active",
				Help:      "Forms currently in progress.",
			}),
			SessionsCompleted: promauto.NewCounter(prometheus.CounterOpts{
				Namespace: namespace,
				Subsystem: subsystem,
				Name:      "sessions_completed_total",
				Help:      "Forms that finished the completion pipeline.",
			}),
			SessionsCancelled: promauto.NewCounter(prometheus.CounterOpts{
				Namespace: namespace,
				Subsystem: subsystem,
				Name:      "sessions_cancelled_total",
				Help:      "Forms deleted by the user.",
			}),
			EventsTotal: promauto.NewCounterVec(prometheus.CounterOpts{
				Namespace: namespace,
				Subsystem: subsystem,
				Name:      "events_total",
				Help:      "Interaction events dispatched, by kind.",
			}, []string{"kind"}),
			DuplicateEvents: promauto.NewCounter(prometheus.CounterOpts{
				Namespace: namespace,
				Subsystem: subsystem,
				Name:      "duplicate_events_total",
				Help:      "Events dropped as redeliveries.",
			}),
			StaleEvents: promauto.NewCounter(prometheus.CounterOpts{
				Namespace: namespace,
				Subsystem: subsystem,
				Name:      "stale_events_total",
				Help:      "Events targeting an already answered question.",
			}),
			ValidationRejections: promauto.NewCounter(prometheus.CounterOpts{
				Namespace: namespace,
				Subsystem: subsystem,
				Name:      "validation_rejections_total",
				Help:      "Submissions rejected by selection validation.",
			}),
			SinkDeliveries: promauto.NewCounter(prometheus.CounterOpts{
				Namespace: namespace,
				Subsystem: subsystem,
				Name:      "sink_deliveries_total",
				Help:      "Completed forms accepted by the response sink.",
			}),
			SinkFailures: promauto.NewCounter(prometheus.CounterOpts{
				Namespace: namespace,
				Subsystem: subsystem,
				Name:      "sink_failures_total",
				Help:      "Completed forms the sink refused after retries.",
			}),
			RoleChangeFailures: promauto.NewCounter(prometheus.CounterOpts{
				Namespace: namespace,
				Subsystem: subsystem,
				Name:      "role_change_failures_total",
				Help:      "Role grants or removals the directory rejected.",
			}),
		}
	})
	return metrics
}
