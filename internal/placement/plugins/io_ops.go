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

// Options for the io ops filter.
type IOOpsFilterOpts struct {
	// Maximum number of instances in an io-heavy task state per host.
	MaxIOOpsPerHost int `yaml:"maxIOOpsPerHost"`
}

func (o IOOpsFilterOpts) Validate() error {
	if o.MaxIOOpsPerHost < 0 {
		return errors.New("maxIOOpsPerHost must not be negative")
	}
	return nil
}

// Filter that rejects hosts already busy with too many io-heavy
// operations, e.g. builds, resizes, or snapshots in flight.
type IOOpsFilter struct {
	placement.BaseFilter[IOOpsFilterOpts]
}

func (f *IOOpsFilter) GetName() string { return "io_ops" }

func (f *IOOpsFilter) Init(db db.DB, opts conf.RawOpts) error {
	if err := f.BaseFilter.Init(db, opts); err != nil {
		return err
	}
	if f.Options.MaxIOOpsPerHost == 0 {
		f.Options.MaxIOOpsPerHost = 8
	}
	return nil
}

func (f *IOOpsFilter) HostPasses(
	traceLog *slog.Logger,
	host *placement.HostState,
	props *placement.RequestProperties,
) (bool, error) {
	if host.NumIOOps >= f.Options.MaxIOOpsPerHost {
		traceLog.Info(
			"host has too many io-heavy operations in flight",
			"host", host.Host, "numIOOps", host.NumIOOps,
			"max", f.Options.MaxIOOpsPerHost,
		)
		return false, nil
	}
	return true, nil
}
