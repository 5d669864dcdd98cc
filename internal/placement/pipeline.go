// Copyright 2025 SAP SE
// SPDX-License-Identifier: Apache-2.0

package placement

import (
	"log/slog"
	"time"
)

// Pipeline runs a sequence of host filters over a set of candidate
// host states and returns the hosts that pass all of them.
type Pipeline struct {
	monitor Monitor
}

// Create a new filter pipeline reporting to the given monitor.
func NewPipeline(monitor Monitor) *Pipeline {
	return &Pipeline{monitor: monitor}
}

// Filter the given host states through the given filters, preserving
// the order of the input. Hosts forced by the request bypass the
// filters, ignored hosts are dropped before the filters run, and a
// filter error rejects only the host it occurred on.
func (p *Pipeline) FilterHosts(
	traceLog *slog.Logger,
	hosts []*HostState,
	props *RequestProperties,
	filters []Filter,
) []*HostState {
	timer := time.Now()
	if p.monitor.hostsInGauge != nil {
		p.monitor.hostsInGauge.Set(float64(len(hosts)))
	}
	passed := make([]*HostState, 0, len(hosts))
	for _, host := range hosts {
		if host.PassesFilters(traceLog, filters, props) {
			passed = append(passed, host)
		}
	}
	traceLog.Info(
		"placement: filtered hosts",
		"in", len(hosts), "out", len(passed), "filters", len(filters),
	)
	if p.monitor.hostsOutGauge != nil {
		p.monitor.hostsOutGauge.Set(float64(len(passed)))
	}
	if p.monitor.pipelineRunTimer != nil {
		p.monitor.pipelineRunTimer.Observe(time.Since(timer).Seconds())
	}
	return passed
}
