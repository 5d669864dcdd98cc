// Copyright 2025 SAP SE
// SPDX-License-Identifier: Apache-2.0

package conf

import "testing"

type mockOpts struct {
	AllocationRatio float64 `yaml:"allocationRatio"`
}

func TestYamlOptsLoad(t *testing.T) {
	var opts YamlOpts[mockOpts]
	raw := NewRawOpts(`{"allocationRatio": 1.5}`)
	if err := opts.Load(raw); err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if opts.Options.AllocationRatio != 1.5 {
		t.Errorf("expected allocation ratio 1.5, got %f", opts.Options.AllocationRatio)
	}
}

func TestYamlOptsLoadEmpty(t *testing.T) {
	var opts YamlOpts[mockOpts]
	var raw RawOpts // No options given in the config.
	if err := opts.Load(raw); err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if opts.Options.AllocationRatio != 0 {
		t.Errorf("expected zero options, got %+v", opts.Options)
	}
}
