// Copyright 2025 SAP SE
// SPDX-License-Identifier: Apache-2.0

package placement

import (
	"fmt"
	"log/slog"
	"slices"
	"strconv"
	"strings"

	"github.com/cobaltcore-dev/stratus/internal/store"
)

// Mutable view of a single compute node's capacity and workload, built
// fresh for every placement pass from the persisted inventory and the
// service capability cache. Host states are request-scoped and must not
// be shared across placement passes.
type HostState struct {
	// Name of the compute host, e.g. nova-compute-bb123.
	Host string
	// Name of the hypervisor under that host, e.g. domain-c123.<uuid>
	Node string

	// Capacity fields, overwritten wholesale on each refresh.
	TotalUsableRAMMB  int
	FreeRAMMB         int
	TotalUsableDiskMB int
	FreeDiskMB        int
	VCPUsTotal        int
	VCPUsUsed         int
	UpdatedAt         *string

	// Workload counters, reset and replayed on each refresh and bumped
	// speculatively when a workload is placed on this host.
	NumInstances          int
	NumInstancesByProject map[string]int
	NumInstancesByOSType  map[string]int
	VMStates              map[string]int
	TaskStates            map[string]int
	NumIOOps              int

	// Most recent capability report of this host's service, if any.
	Capabilities map[string]any
}

// Create a new host state for the given (host, node) identity.
func NewHostState(host, node string) *HostState {
	state := &HostState{Host: host, Node: node}
	state.resetCounters()
	return state
}

func (h *HostState) resetCounters() {
	h.NumInstances = 0
	h.NumInstancesByProject = map[string]int{}
	h.NumInstancesByOSType = map[string]int{}
	h.VMStates = map[string]int{}
	h.TaskStates = map[string]int{}
	h.NumIOOps = 0
}

// Overwrite all capacity fields from the persisted compute node record and
// replay its flat workload stats into the counter collections. A stat value
// that does not parse as an integer is a data integrity fault and fails the
// state build for this host.
func (h *HostState) UpdateFromComputeNode(record store.ComputeNodeRecord) error {
	h.TotalUsableRAMMB = record.MemoryMB
	h.FreeRAMMB = record.FreeRAMMB
	// Disk values are persisted in GB.
	h.TotalUsableDiskMB = record.LocalGB * 1024
	h.FreeDiskMB = record.FreeDiskGB * 1024
	h.VCPUsTotal = record.VCPUs
	h.VCPUsUsed = record.VCPUsUsed
	h.UpdatedAt = record.UpdatedAt

	h.resetCounters()
	for _, stat := range record.Stats {
		value, err := strconv.Atoi(stat.Value)
		if err != nil {
			return fmt.Errorf(
				"malformed stat %q on compute node %d: %w",
				stat.Key, record.ID, err,
			)
		}
		switch {
		case stat.Key == store.StatNumInstances:
			h.NumInstances = value
		case stat.Key == store.StatIOWorkload:
			h.NumIOOps = value
		case strings.HasPrefix(stat.Key, store.StatPrefixOSType):
			h.NumInstancesByOSType[strings.TrimPrefix(stat.Key, store.StatPrefixOSType)] = value
		case strings.HasPrefix(stat.Key, store.StatPrefixProject):
			h.NumInstancesByProject[strings.TrimPrefix(stat.Key, store.StatPrefixProject)] = value
		case strings.HasPrefix(stat.Key, store.StatPrefixVMState):
			h.VMStates[strings.TrimPrefix(stat.Key, store.StatPrefixVMState)] = value
		case strings.HasPrefix(stat.Key, store.StatPrefixTaskState):
			h.TaskStates[strings.TrimPrefix(stat.Key, store.StatPrefixTaskState)] = value
		default:
			// Unrecognized keys are ignored for forward compatibility.
		}
	}
	return nil
}

// Speculatively account one placed workload on this host, so that later
// decisions within the same scheduling pass see the adjusted counters
// before the next authoritative refresh. Capacity fields are deliberately
// left untouched, matching the counters the periodic refresh replays.
func (h *HostState) ConsumeFromWorkload(workload Workload) {
	h.NumInstances++
	h.NumInstancesByProject[workload.ProjectID]++
	h.VMStates[workload.VMState]++
	taskState := store.TaskStateNone
	if workload.TaskState != nil {
		taskState = *workload.TaskState
	}
	h.TaskStates[taskState]++
	h.NumInstancesByOSType[workload.OSType]++
	// Assume every newly placed instance contributes one unit of io load.
	h.NumIOOps++
}

// Check if this host is eligible under the given request properties.
// Force-selected hosts bypass all filters, ignored hosts are excluded
// before any filter runs, and the filters themselves short-circuit on
// the first rejection.
func (h *HostState) PassesFilters(
	traceLog *slog.Logger,
	filters []Filter,
	props *RequestProperties,
) bool {
	if slices.Contains(props.ForceHosts, h.Host) || slices.Contains(props.ForceNodes, h.Node) {
		traceLog.Info("host forced, skipping filters", "host", h.Host, "node", h.Node)
		return true
	}
	if slices.Contains(props.IgnoreHosts, h.Host) {
		traceLog.Info("host ignored", "host", h.Host)
		return false
	}
	for _, filter := range filters {
		passes, err := filter.HostPasses(traceLog, h, props)
		if err != nil {
			traceLog.Error(
				"host filter failed, treating host as rejected",
				"filter", filter.GetName(), "host", h.Host, "error", err,
			)
			return false
		}
		if !passes {
			traceLog.Info("host rejected by filter", "filter", filter.GetName(), "host", h.Host)
			return false
		}
	}
	return true
}
