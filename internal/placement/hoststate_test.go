// Copyright 2025 SAP SE
// SPDX-License-Identifier: Apache-2.0

package placement

import (
	"errors"
	"log/slog"
	"testing"

	"github.com/cobaltcore-dev/stratus/internal/conf"
	"github.com/cobaltcore-dev/stratus/internal/db"
	"github.com/cobaltcore-dev/stratus/internal/store"
)

// Mock filter with a fixed verdict, counting how often it ran.

type mockFilter struct {
	name  string
	pass  bool
	err   error
	calls int
}

func (m *mockFilter) Init(db db.DB, opts conf.RawOpts) error { return nil }

func (m *mockFilter) GetName() string { return m.name }

func (m *mockFilter) HostPasses(
	traceLog *slog.Logger,
	host *HostState,
	props *RequestProperties,
) (bool, error) {
	m.calls++
	if m.err != nil {
		return false, m.err
	}
	return m.pass, nil
}

func strPtr(s string) *string { return &s }

func testComputeNodeRecord() store.ComputeNodeRecord {
	return store.ComputeNodeRecord{
		ComputeNode: store.ComputeNode{
			ID:                 1,
			HypervisorHostname: "node1",
			ServiceHost:        strPtr("host1"),
			VCPUs:              16,
			VCPUsUsed:          4,
			MemoryMB:           8192,
			FreeRAMMB:          4096,
			LocalGB:            1024,
			FreeDiskGB:         512,
			UpdatedAt:          strPtr("2026-08-30T12:00:00Z"),
		},
		Stats: []store.ComputeNodeStat{
			{ComputeNodeID: 1, Key: "num_instances", Value: "5"},
			{ComputeNodeID: 1, Key: "num_proj_12345", Value: "2"},
			{ComputeNodeID: 1, Key: "num_proj_23456", Value: "3"},
			{ComputeNodeID: 1, Key: "num_vm_building", Value: "2"},
			{ComputeNodeID: 1, Key: "num_vm_active", Value: "3"},
			{ComputeNodeID: 1, Key: "num_task_none", Value: "4"},
			{ComputeNodeID: 1, Key: "num_task_block_device_mapping", Value: "1"},
			{ComputeNodeID: 1, Key: "num_os_type_linux", Value: "4"},
			{ComputeNodeID: 1, Key: "num_os_type_windoze", Value: "1"},
			{ComputeNodeID: 1, Key: "io_workload", Value: "1"},
		},
	}
}

func TestHostState_UpdateFromComputeNode(t *testing.T) {
	state := NewHostState("host1", "node1")
	if err := state.UpdateFromComputeNode(testComputeNodeRecord()); err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if state.TotalUsableRAMMB != 8192 || state.FreeRAMMB != 4096 {
		t.Errorf("unexpected ram values: %d/%d", state.FreeRAMMB, state.TotalUsableRAMMB)
	}
	// Disk values are reported in GB and converted to MB.
	if state.TotalUsableDiskMB != 1024*1024 {
		t.Errorf("expected total disk %d, got %d", 1024*1024, state.TotalUsableDiskMB)
	}
	if state.FreeDiskMB != 524288 {
		t.Errorf("expected free disk 524288, got %d", state.FreeDiskMB)
	}
	if state.VCPUsTotal != 16 || state.VCPUsUsed != 4 {
		t.Errorf("unexpected vcpu values: %d/%d", state.VCPUsUsed, state.VCPUsTotal)
	}
	if state.NumInstances != 5 {
		t.Errorf("expected 5 instances, got %d", state.NumInstances)
	}
	if state.NumInstancesByProject["12345"] != 2 || state.NumInstancesByProject["23456"] != 3 {
		t.Errorf("unexpected project counters: %v", state.NumInstancesByProject)
	}
	if state.VMStates["building"] != 2 || state.VMStates["active"] != 3 {
		t.Errorf("unexpected vm state counters: %v", state.VMStates)
	}
	if state.TaskStates["none"] != 4 || state.TaskStates["block_device_mapping"] != 1 {
		t.Errorf("unexpected task state counters: %v", state.TaskStates)
	}
	if state.NumInstancesByOSType["linux"] != 4 || state.NumInstancesByOSType["windoze"] != 1 {
		t.Errorf("unexpected os type counters: %v", state.NumInstancesByOSType)
	}
	if state.NumIOOps != 1 {
		t.Errorf("expected 1 io op, got %d", state.NumIOOps)
	}
}

func TestHostState_UpdateResetsCounters(t *testing.T) {
	state := NewHostState("host1", "node1")
	if err := state.UpdateFromComputeNode(testComputeNodeRecord()); err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	// A second refresh must replay, not accumulate.
	if err := state.UpdateFromComputeNode(testComputeNodeRecord()); err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if state.NumInstances != 5 {
		t.Errorf("expected 5 instances after refresh, got %d", state.NumInstances)
	}
	if state.NumInstancesByProject["12345"] != 2 {
		t.Errorf("expected 2 instances for project 12345, got %d", state.NumInstancesByProject["12345"])
	}
}

func TestHostState_UpdateMalformedStat(t *testing.T) {
	record := testComputeNodeRecord()
	record.Stats = append(record.Stats, store.ComputeNodeStat{
		ComputeNodeID: 1, Key: "num_instances", Value: "not-a-number",
	})
	state := NewHostState("host1", "node1")
	if err := state.UpdateFromComputeNode(record); err == nil {
		t.Fatal("expected an error for a malformed stat value")
	}
}

func TestHostState_ConsumeFromWorkload(t *testing.T) {
	state := NewHostState("host1", "node1")
	if err := state.UpdateFromComputeNode(testComputeNodeRecord()); err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	workload := Workload{
		ProjectID: "12345",
		VMState:   "building",
		TaskState: nil,
		OSType:    "linux",
		MemoryMB:  2048,
		DiskGB:    10,
		VCPUs:     2,
	}
	state.ConsumeFromWorkload(workload)
	if state.NumInstances != 6 {
		t.Errorf("expected 6 instances, got %d", state.NumInstances)
	}
	if state.NumInstancesByProject["12345"] != 3 {
		t.Errorf("expected 3 instances for project, got %d", state.NumInstancesByProject["12345"])
	}
	if state.VMStates["building"] != 3 {
		t.Errorf("expected 3 building instances, got %d", state.VMStates["building"])
	}
	if state.TaskStates["none"] != 5 {
		t.Errorf("expected 5 instances without task, got %d", state.TaskStates["none"])
	}
	if state.NumInstancesByOSType["linux"] != 5 {
		t.Errorf("expected 5 linux instances, got %d", state.NumInstancesByOSType["linux"])
	}
	if state.NumIOOps != 2 {
		t.Errorf("expected 2 io ops, got %d", state.NumIOOps)
	}
	// Consuming accounts workload only, capacity stays authoritative.
	if state.FreeRAMMB != 4096 || state.FreeDiskMB != 524288 || state.VCPUsUsed != 4 {
		t.Errorf(
			"expected capacity untouched, got ram %d disk %d vcpus %d",
			state.FreeRAMMB, state.FreeDiskMB, state.VCPUsUsed,
		)
	}
}

func TestHostState_PassesFilters_ForceWinsOverIgnore(t *testing.T) {
	state := NewHostState("host1", "node1")
	rejectAll := &mockFilter{name: "reject", pass: false}
	props := &RequestProperties{
		ForceHosts:  []string{"host1"},
		IgnoreHosts: []string{"host1"},
	}
	if !state.PassesFilters(slog.Default(), []Filter{rejectAll}, props) {
		t.Error("expected forced host to pass despite being ignored")
	}
	if rejectAll.calls != 0 {
		t.Errorf("expected no filter runs for a forced host, got %d", rejectAll.calls)
	}
}

func TestHostState_PassesFilters_ForceNode(t *testing.T) {
	state := NewHostState("host1", "node1")
	rejectAll := &mockFilter{name: "reject", pass: false}
	props := &RequestProperties{ForceNodes: []string{"node1"}}
	if !state.PassesFilters(slog.Default(), []Filter{rejectAll}, props) {
		t.Error("expected forced node to pass")
	}
	if rejectAll.calls != 0 {
		t.Errorf("expected no filter runs for a forced node, got %d", rejectAll.calls)
	}
}

func TestHostState_PassesFilters_Ignored(t *testing.T) {
	state := NewHostState("host1", "node1")
	acceptAll := &mockFilter{name: "accept", pass: true}
	props := &RequestProperties{IgnoreHosts: []string{"host1"}}
	if state.PassesFilters(slog.Default(), []Filter{acceptAll}, props) {
		t.Error("expected ignored host to be rejected")
	}
	if acceptAll.calls != 0 {
		t.Errorf("expected no filter runs for an ignored host, got %d", acceptAll.calls)
	}
}

func TestHostState_PassesFilters_ShortCircuit(t *testing.T) {
	state := NewHostState("host1", "node1")
	first := &mockFilter{name: "first", pass: false}
	second := &mockFilter{name: "second", pass: true}
	props := &RequestProperties{}
	if state.PassesFilters(slog.Default(), []Filter{first, second}, props) {
		t.Error("expected host to be rejected")
	}
	if second.calls != 0 {
		t.Errorf("expected later filters to be skipped, got %d runs", second.calls)
	}
}

func TestHostState_PassesFilters_ErrorRejectsHost(t *testing.T) {
	state := NewHostState("host1", "node1")
	failing := &mockFilter{name: "failing", err: errors.New("boom")}
	props := &RequestProperties{}
	if state.PassesFilters(slog.Default(), []Filter{failing}, props) {
		t.Error("expected host with failing filter to be rejected")
	}
}

func TestHostState_PassesFilters_AllPass(t *testing.T) {
	state := NewHostState("host1", "node1")
	first := &mockFilter{name: "first", pass: true}
	second := &mockFilter{name: "second", pass: true}
	props := &RequestProperties{}
	if !state.PassesFilters(slog.Default(), []Filter{first, second}, props) {
		t.Error("expected host to pass all filters")
	}
	if first.calls != 1 || second.calls != 1 {
		t.Errorf("expected each filter to run once, got %d and %d", first.calls, second.calls)
	}
}
