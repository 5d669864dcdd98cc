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

// Options for the num instances filter.
type NumInstancesFilterOpts struct {
	// Maximum number of instances allowed per host.
	MaxInstancesPerHost int `yaml:"maxInstancesPerHost"`
}

func (o NumInstancesFilterOpts) Validate() error {
	if o.MaxInstancesPerHost < 0 {
		return errors.New("maxInstancesPerHost must not be negative")
	}
	return nil
}

// Filter that caps the number of instances per host.
type NumInstancesFilter struct {
	placement.BaseFilter[NumInstancesFilterOpts]
}

func (f *NumInstancesFilter) GetName() string { return "num_instances" }

func (f *NumInstancesFilter) Init(db db.DB, opts conf.RawOpts) error {
	if err := f.BaseFilter.Init(db, opts); err != nil {
		return err
	}
	if f.Options.MaxInstancesPerHost == 0 {
		f.Options.MaxInstancesPerHost = 50
	}
	return nil
}

func (f *NumInstancesFilter) HostPasses(
	traceLog *slog.Logger,
	host *placement.HostState,
	props *placement.RequestProperties,
) (bool, error) {
	if host.NumInstances >= f.Options.MaxInstancesPerHost {
		traceLog.Info(
			"host is already at its instance cap",
			"host", host.Host, "numInstances", host.NumInstances,
			"max", f.Options.MaxInstancesPerHost,
		)
		return false, nil
	}
	return true, nil
}
