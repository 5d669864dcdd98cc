// Copyright 2025 SAP SE
// SPDX-License-Identifier: Apache-2.0

package placement

import (
	"context"
	"log/slog"
	"maps"
	"slices"
	"strings"
	"sync"
	"time"

	"github.com/cobaltcore-dev/stratus/internal/conf"
	"github.com/cobaltcore-dev/stratus/internal/store"
)

// Identity of a host state. One compute host can carry multiple
// hypervisor nodes, and a node may not have reported a hypervisor
// hostname yet, in which case Node is empty.
type StateKey struct {
	Host string
	Node string
}

// One capability report of a compute service, as cached by the manager.
type ServiceCapabilities struct {
	// The reported capabilities, e.g. enabled features or versions.
	Capabilities map[string]any
	// Server-side time at which the report was received.
	ReceivedAt time.Time
}

// HostManager builds fresh host states from the persisted inventory and
// the in-memory service capability cache, and runs them through the
// filter pipeline. Safe for concurrent use.
type HostManager struct {
	store    store.Store
	registry *Registry
	pipeline *Pipeline
	config   conf.PlacementConfig

	// Guards the capability cache below.
	mux sync.RWMutex
	// Most recent capability report by host state identity.
	capabilities map[StateKey]ServiceCapabilities
}

// Create a new host manager on top of the given inventory store,
// filter registry and pipeline.
func NewHostManager(
	s store.Store,
	registry *Registry,
	pipeline *Pipeline,
	config conf.PlacementConfig,
) *HostManager {
	return &HostManager{
		store:        s,
		registry:     registry,
		pipeline:     pipeline,
		config:       config,
		capabilities: map[StateKey]ServiceCapabilities{},
	}
}

// Cache a capability report published by a compute service. The report
// is defensively copied, stamped with the server-side receive time, and
// replaces any earlier report for the same (host, node) identity.
// Reports from services other than "compute" are ignored.
func (m *HostManager) UpdateServiceCapabilities(serviceName, host string, capabilities map[string]any) {
	if serviceName != "compute" {
		slog.Debug("placement: ignoring capability report", "service", serviceName, "host", host)
		return
	}
	clone := maps.Clone(capabilities)
	if clone == nil {
		clone = map[string]any{}
	}
	node := ""
	if hostname, ok := clone["hypervisor_hostname"].(string); ok {
		node = hostname
	}
	now := time.Now()
	// Any client-provided timestamp is overwritten. The receive time is
	// authoritative so that reports from skewed clocks still order.
	clone["timestamp"] = now
	key := StateKey{Host: host, Node: node}
	m.mux.Lock()
	defer m.mux.Unlock()
	m.capabilities[key] = ServiceCapabilities{Capabilities: clone, ReceivedAt: now}
	slog.Info("placement: updated service capabilities", "host", host, "node", node)
}

// Get the cached capability report for the given identity, if any.
func (m *HostManager) GetServiceCapabilities(key StateKey) (ServiceCapabilities, bool) {
	m.mux.RLock()
	defer m.mux.RUnlock()
	caps, ok := m.capabilities[key]
	return caps, ok
}

// Build host states for all compute nodes currently known to the
// inventory, keyed by their (host, node) identity. Records sharing an
// identity reuse the same state, so one pass never yields duplicates.
// Nodes without a service host are orphaned and skipped with a warning.
// A malformed node record fails the whole build.
func (m *HostManager) GetAllHostStates(ctx context.Context) (map[StateKey]*HostState, error) {
	records, err := m.store.ListComputeNodes(ctx)
	if err != nil {
		return nil, err
	}
	states := make(map[StateKey]*HostState, len(records))
	for _, record := range records {
		if record.ServiceHost == nil {
			slog.Warn(
				"placement: no service for compute node, skipping",
				"computeNodeID", record.ID,
			)
			continue
		}
		key := StateKey{Host: *record.ServiceHost, Node: record.HypervisorHostname}
		state, ok := states[key]
		if !ok {
			state = NewHostState(key.Host, key.Node)
			states[key] = state
		}
		if err := state.UpdateFromComputeNode(record); err != nil {
			return nil, err
		}
		if caps, ok := m.GetServiceCapabilities(key); ok {
			state.Capabilities = caps.Capabilities
		}
	}
	return states, nil
}

// Flatten a host state map into a slice ordered by (host, node), so
// that repeated placement passes consider hosts deterministically.
func SortedHostStates(states map[StateKey]*HostState) []*HostState {
	keys := make([]StateKey, 0, len(states))
	for key := range states {
		keys = append(keys, key)
	}
	slices.SortFunc(keys, func(a, b StateKey) int {
		if c := strings.Compare(a.Host, b.Host); c != 0 {
			return c
		}
		return strings.Compare(a.Node, b.Node)
	})
	sorted := make([]*HostState, len(keys))
	for i, key := range keys {
		sorted[i] = states[key]
	}
	return sorted
}

// Resolve the filters to run for a request. With no names given the
// configured default filter chain is used.
func (m *HostManager) ChooseHostFilters(names []string) ([]Filter, error) {
	if names == nil {
		names = m.config.DefaultFilterNames()
	}
	return m.registry.Resolve(names)
}

// Run the given host states through the filter pipeline under the given
// request properties, preserving the input order. A nil filter set is
// resolved to the configured default filter chain first, so that no
// caller can bypass the defaults by omission.
func (m *HostManager) FilterHosts(
	traceLog *slog.Logger,
	hosts []*HostState,
	props *RequestProperties,
	filters []Filter,
) ([]*HostState, error) {
	if filters == nil {
		var err error
		filters, err = m.ChooseHostFilters(nil)
		if err != nil {
			return nil, err
		}
	}
	return m.pipeline.FilterHosts(traceLog, hosts, props, filters), nil
}
