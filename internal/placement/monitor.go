// Copyright 2025 SAP SE
// SPDX-License-Identifier: Apache-2.0

package placement

import (
	"github.com/cobaltcore-dev/stratus/internal/monitoring"
	"github.com/prometheus/client_golang/prometheus"
)

// Collection of prometheus metrics to monitor the placement pipeline.
type Monitor struct {
	// Histogram of the time it takes to run the filter pipeline.
	pipelineRunTimer prometheus.Histogram
	// Number of hosts going into the most recent pipeline run.
	hostsInGauge prometheus.Gauge
	// Number of hosts coming out of the most recent pipeline run.
	hostsOutGauge prometheus.Gauge
}

// Create a new placement monitor and register the metrics with the
// given registry.
func NewPipelineMonitor(registry *monitoring.Registry) Monitor {
	pipelineRunTimer := prometheus.NewHistogram(prometheus.HistogramOpts{
		Name:    "stratus_placement_pipeline_run_duration_seconds",
		Help:    "Duration of a filter pipeline run.",
		Buckets: prometheus.DefBuckets,
	})
	hostsInGauge := prometheus.NewGauge(prometheus.GaugeOpts{
		Name: "stratus_placement_pipeline_hosts_in",
		Help: "Number of candidate hosts entering the filter pipeline.",
	})
	hostsOutGauge := prometheus.NewGauge(prometheus.GaugeOpts{
		Name: "stratus_placement_pipeline_hosts_out",
		Help: "Number of hosts remaining after the filter pipeline.",
	})
	registry.MustRegister(
		pipelineRunTimer,
		hostsInGauge,
		hostsOutGauge,
	)
	return Monitor{
		pipelineRunTimer: pipelineRunTimer,
		hostsInGauge:     hostsInGauge,
		hostsOutGauge:    hostsOutGauge,
	}
}
