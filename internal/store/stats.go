// Copyright 2025 SAP SE
// SPDX-License-Identifier: Apache-2.0

package store

import "strconv"

// Stat keys understood by the placement core. The shape is a flat list of
// string key/value pairs so that additional producers can attach their own
// keys without a schema change.
const (
	// Total number of instances on the node.
	StatNumInstances = "num_instances"
	// Number of instances owned by a project, suffixed with the project id.
	StatPrefixProject = "num_proj_"
	// Number of instances in a lifecycle state, suffixed with the vm state.
	StatPrefixVMState = "num_vm_"
	// Number of instances with an in-flight task, suffixed with the task state.
	StatPrefixTaskState = "num_task_"
	// Number of instances by guest OS type, suffixed with the os type.
	StatPrefixOSType = "num_os_type_"
	// Number of in-flight I/O-heavy operations on the node.
	StatIOWorkload = "io_workload"

	// Key suffix used for instances that have no task in progress.
	TaskStateNone = "none"
)

// Task states that count towards the io workload of a node.
var ioWorkloadTaskStates = map[string]bool{
	"scheduling":       true,
	"rebuilding":       true,
	"resize_migrating": true,
	"resize_prep":      true,
	"migrating":        true,
	"unshelving":       true,
}

// Derive per-node workload stats from the server inventory.
func deriveStats(nodes []ComputeNode, servers []Server) []ComputeNodeStat {
	type nodeKey struct{ host, node string }
	nodeIDs := make(map[nodeKey]int, len(nodes))
	for _, node := range nodes {
		if node.ServiceHost == nil {
			continue
		}
		nodeIDs[nodeKey{*node.ServiceHost, node.HypervisorHostname}] = node.ID
	}

	counters := make(map[int]map[string]int, len(nodes))
	bump := func(nodeID int, key string) {
		if counters[nodeID] == nil {
			counters[nodeID] = map[string]int{}
		}
		counters[nodeID][key]++
	}
	for _, server := range servers {
		key := nodeKey{server.OSEXTSRVATTRHost, server.OSEXTSRVATTRHypervisorHostname}
		nodeID, ok := nodeIDs[key]
		if !ok {
			// The server's node is not (or no longer) in the inventory.
			continue
		}
		bump(nodeID, StatNumInstances)
		bump(nodeID, StatPrefixProject+server.TenantID)
		bump(nodeID, StatPrefixVMState+server.OSEXTSTSVmState)
		taskState := TaskStateNone
		if server.OSEXTSTSTaskState != nil {
			taskState = *server.OSEXTSTSTaskState
		}
		bump(nodeID, StatPrefixTaskState+taskState)
		if taskState != TaskStateNone && ioWorkloadTaskStates[taskState] {
			bump(nodeID, StatIOWorkload)
		}
	}

	var stats []ComputeNodeStat
	for _, node := range nodes {
		for key, value := range counters[node.ID] {
			stats = append(stats, ComputeNodeStat{
				ComputeNodeID: node.ID,
				Key:           key,
				Value:         strconv.Itoa(value),
			})
		}
	}
	return stats
}
