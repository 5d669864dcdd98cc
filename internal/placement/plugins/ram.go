// Copyright 2025 SAP SE
// SPDX-License-Identifier: Apache-2.0

package plugins

import (
	"errors"
	"log/slog"

	"github.com/cobaltcore-dev/stratus/internal/conf"
	"github.com/cobaltcore-dev/stratus/internal/db"
	"github.com/cobaltcore-dev/stratus/internal/placement"
)

// Options for the ram filter.
type RAMFilterOpts struct {
	// Virtual to physical ram allocation ratio. A ratio above 1.0
	// oversubscribes the host's physical memory.
	AllocationRatio float64 `yaml:"allocationRatio"`
}

func (o RAMFilterOpts) Validate() error {
	if o.AllocationRatio < 0 {
		return errors.New("allocationRatio must not be negative")
	}
	return nil
}

// Filter that rejects hosts without enough usable ram for the workload,
// accounting for the configured allocation ratio.
type RAMFilter struct {
	placement.BaseFilter[RAMFilterOpts]
}

func (f *RAMFilter) GetName() string { return "ram" }

func (f *RAMFilter) Init(db db.DB, opts conf.RawOpts) error {
	if err := f.BaseFilter.Init(db, opts); err != nil {
		return err
	}
	if f.Options.AllocationRatio == 0 {
		f.Options.AllocationRatio = 1.0
	}
	return nil
}

func (f *RAMFilter) HostPasses(
	traceLog *slog.Logger,
	host *placement.HostState,
	props *placement.RequestProperties,
) (bool, error) {
	requested := props.Workload.MemoryMB
	usedMB := host.TotalUsableRAMMB - host.FreeRAMMB
	usableMB := int(float64(host.TotalUsableRAMMB)*f.Options.AllocationRatio) - usedMB
	if requested > usableMB {
		traceLog.Info(
			"host does not have enough usable ram",
			"host", host.Host, "requestedMB", requested, "usableMB", usableMB,
		)
		return false, nil
	}
	return true, nil
}
