// Copyright 2025 SAP SE
// SPDX-License-Identifier: Apache-2.0

package api

// Workload spec as sent by external placement callers.
type WorkloadSpec struct {
	ProjectID string  `json:"project_id"`
	VMState   string  `json:"vm_state"`
	TaskState *string `json:"task_state"`
	OSType    string  `json:"os_type"`
	MemoryMB  int     `json:"memory_mb"`
	DiskGB    int     `json:"disk_gb"`
	VCPUs     int     `json:"vcpus"`
}

// Request to filter the known compute hosts for a workload.
type ExternalPlacementRequest struct {
	// The workload to place.
	Spec WorkloadSpec `json:"spec"`
	// Operator override: hosts that bypass all filters.
	ForceHosts []string `json:"force_hosts,omitempty"`
	// Operator override: nodes that bypass all filters.
	ForceNodes []string `json:"force_nodes,omitempty"`
	// Hosts to exclude before any filter runs.
	IgnoreHosts []string `json:"ignore_hosts,omitempty"`
	// Additional scheduler hints, opaque to the filters.
	Hints map[string]any `json:"hints,omitempty"`
	// Names of the filters to run. If omitted, the configured
	// default filter chain is used.
	Filters []string `json:"filters,omitempty"`
}

// One host that passed all filters.
type ExternalPlacementHost struct {
	Host string `json:"host"`
	Node string `json:"node"`
}

// Response with the hosts that can serve the workload, in the same
// order the hosts were considered.
type ExternalPlacementResponse struct {
	Hosts []ExternalPlacementHost `json:"hosts"`
}
