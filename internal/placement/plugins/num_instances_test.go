// Copyright 2025 SAP SE
// SPDX-License-Identifier: Apache-2.0

package plugins

import (
	"log/slog"
	"testing"

	"github.com/cobaltcore-dev/stratus/internal/conf"
	"github.com/cobaltcore-dev/stratus/internal/db"
	"github.com/cobaltcore-dev/stratus/internal/placement"
)

func TestNumInstancesFilter(t *testing.T) {
	tests := []struct {
		name         string
		opts         string
		numInstances int
		expected     bool
	}{
		{name: "empty host passes", numInstances: 0, expected: true},
		{name: "below default cap passes", numInstances: 49, expected: true},
		{name: "at default cap rejects", numInstances: 50, expected: false},
		{name: "custom cap", opts: "maxInstancesPerHost: 5", numInstances: 5, expected: false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			filter := &NumInstancesFilter{}
			if err := filter.Init(db.DB{}, conf.NewRawOpts(tt.opts)); err != nil {
				t.Fatalf("expected no error, got %v", err)
			}
			host := placement.NewHostState("host1", "node1")
			host.NumInstances = tt.numInstances
			passes, err := filter.HostPasses(slog.Default(), host, &placement.RequestProperties{})
			if err != nil {
				t.Fatalf("expected no error, got %v", err)
			}
			if passes != tt.expected {
				t.Errorf("expected passes=%v, got %v", tt.expected, passes)
			}
		})
	}
}

func TestAllHostsFilter(t *testing.T) {
	filter := &AllHostsFilter{}
	if err := filter.Init(db.DB{}, conf.NewRawOpts("")); err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	host := placement.NewHostState("host1", "node1")
	passes, err := filter.HostPasses(slog.Default(), host, &placement.RequestProperties{})
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if !passes {
		t.Error("expected all_hosts to pass every host")
	}
}
