// Copyright 2025 SAP SE
// SPDX-License-Identifier: Apache-2.0

package store

import (
	"github.com/cobaltcore-dev/stratus/internal/monitoring"
	"github.com/prometheus/client_golang/prometheus"
)

type Monitor struct {
	// Number of objects currently synced, by resource.
	ObjectsGauge *prometheus.GaugeVec
	// Duration of single inventory requests, by resource.
	RequestTimer *prometheus.HistogramVec
	// Number of completed sync runs.
	RunsCounter prometheus.Counter
}

func NewSyncMonitor(registry *monitoring.Registry) Monitor {
	objectsGauge := prometheus.NewGaugeVec(prometheus.GaugeOpts{
		Name: "stratus_sync_objects",
		Help: "Number of objects synced",
	}, []string{"resource"})
	requestTimer := prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "stratus_sync_request_duration_seconds",
		Help:    "Duration of sync request",
		Buckets: prometheus.DefBuckets,
	}, []string{"resource"})
	runsCounter := prometheus.NewCounter(prometheus.CounterOpts{
		Name: "stratus_sync_runs_total",
		Help: "Number of completed sync runs",
	})
	registry.MustRegister(
		objectsGauge,
		requestTimer,
		runsCounter,
	)
	return Monitor{
		ObjectsGauge: objectsGauge,
		RequestTimer: requestTimer,
		RunsCounter:  runsCounter,
	}
}
