// Copyright 2025 SAP SE
// SPDX-License-Identifier: Apache-2.0

package placement

// Spec of the workload to place, as far as the placement core needs it.
type Workload struct {
	// The project owning the workload.
	ProjectID string
	// The lifecycle state of the workload, e.g. "building".
	VMState string
	// The in-flight task of the workload, nil when no task is in progress.
	TaskState *string
	// The guest OS type of the workload.
	OSType string
	// Requested resources.
	MemoryMB int
	DiskGB   int
	VCPUs    int
}

// Per-request properties passed to every filter of one placement decision.
type RequestProperties struct {
	// The workload to place.
	Workload Workload
	// Operator override: hosts that bypass all filters.
	ForceHosts []string
	// Operator override: nodes that bypass all filters.
	ForceNodes []string
	// Hosts to exclude before any filter runs.
	IgnoreHosts []string
	// Additional scheduler hints, opaque to the core.
	Hints map[string]any
}
