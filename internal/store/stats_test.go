// Copyright 2025 SAP SE
// SPDX-License-Identifier: Apache-2.0

package store

import (
	"testing"
)

func statValue(t *testing.T, stats []ComputeNodeStat, nodeID int, key string) string {
	t.Helper()
	for _, stat := range stats {
		if stat.ComputeNodeID == nodeID && stat.Key == key {
			return stat.Value
		}
	}
	return ""
}

func TestDeriveStats(t *testing.T) {
	host1 := "host1"
	host2 := "host2"
	nodes := []ComputeNode{
		{ID: 1, HypervisorHostname: "node1", ServiceHost: &host1},
		{ID: 2, HypervisorHostname: "node2", ServiceHost: &host2},
	}
	migrating := "migrating"
	servers := []Server{
		{
			ID: "a", TenantID: "12345",
			OSEXTSRVATTRHost:               "host1",
			OSEXTSRVATTRHypervisorHostname: "node1",
			OSEXTSTSVmState:                "active",
		},
		{
			ID: "b", TenantID: "12345",
			OSEXTSRVATTRHost:               "host1",
			OSEXTSRVATTRHypervisorHostname: "node1",
			OSEXTSTSVmState:                "building",
			OSEXTSTSTaskState:              &migrating,
		},
		{
			ID: "c", TenantID: "23456",
			OSEXTSRVATTRHost:               "host2",
			OSEXTSRVATTRHypervisorHostname: "node2",
			OSEXTSTSVmState:                "active",
		},
	}
	stats := deriveStats(nodes, servers)

	if got := statValue(t, stats, 1, StatNumInstances); got != "2" {
		t.Errorf("expected 2 instances on node 1, got %q", got)
	}
	if got := statValue(t, stats, 1, StatPrefixProject+"12345"); got != "2" {
		t.Errorf("expected 2 project instances on node 1, got %q", got)
	}
	if got := statValue(t, stats, 1, StatPrefixVMState+"active"); got != "1" {
		t.Errorf("expected 1 active instance on node 1, got %q", got)
	}
	if got := statValue(t, stats, 1, StatPrefixTaskState+"none"); got != "1" {
		t.Errorf("expected 1 instance without task on node 1, got %q", got)
	}
	if got := statValue(t, stats, 1, StatPrefixTaskState+"migrating"); got != "1" {
		t.Errorf("expected 1 migrating instance on node 1, got %q", got)
	}
	if got := statValue(t, stats, 1, StatIOWorkload); got != "1" {
		t.Errorf("expected io workload of 1 on node 1, got %q", got)
	}
	if got := statValue(t, stats, 2, StatNumInstances); got != "1" {
		t.Errorf("expected 1 instance on node 2, got %q", got)
	}
	if got := statValue(t, stats, 2, StatIOWorkload); got != "" {
		t.Errorf("expected no io workload on node 2, got %q", got)
	}
}

func TestDeriveStatsUnknownNode(t *testing.T) {
	host1 := "host1"
	nodes := []ComputeNode{{ID: 1, HypervisorHostname: "node1", ServiceHost: &host1}}
	servers := []Server{{
		ID: "a", TenantID: "12345",
		OSEXTSRVATTRHost:               "gone",
		OSEXTSRVATTRHypervisorHostname: "gone",
		OSEXTSTSVmState:                "active",
	}}
	if stats := deriveStats(nodes, servers); len(stats) != 0 {
		t.Errorf("expected no stats for unknown nodes, got %v", stats)
	}
}

func TestDeriveStatsOrphanedNode(t *testing.T) {
	// Nodes without a service host produce no stats and must not panic.
	nodes := []ComputeNode{{ID: 1, HypervisorHostname: "node1"}}
	servers := []Server{{
		ID: "a", TenantID: "12345",
		OSEXTSRVATTRHost:               "host1",
		OSEXTSRVATTRHypervisorHostname: "node1",
		OSEXTSTSVmState:                "active",
	}}
	if stats := deriveStats(nodes, servers); len(stats) != 0 {
		t.Errorf("expected no stats for orphaned nodes, got %v", stats)
	}
}
