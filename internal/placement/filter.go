// Copyright 2025 SAP SE
// SPDX-License-Identifier: Apache-2.0

package placement

import (
	"log/slog"

	"github.com/cobaltcore-dev/stratus/internal/conf"
	"github.com/cobaltcore-dev/stratus/internal/db"
)

// Interface for a host filter.
type Filter interface {
	// Configure the filter with a database and options.
	Init(db db.DB, opts conf.RawOpts) error
	// Decide whether the given host can serve the given request.
	// Provide a traceLog that contains the global request id and should
	// be used to log the filter's execution.
	HostPasses(traceLog *slog.Logger, host *HostState, props *RequestProperties) (bool, error)
	// Get the name of this filter.
	// The name is used to identify the filter in metrics, config, logs, and more.
	// Should be something like: "my_cool_host_filter".
	GetName() string
}

// Interface to which filter options must conform.
type FilterOpts interface {
	// Validate the options for this filter.
	Validate() error
}

// Empty options for filters that don't need any.
type EmptyFilterOpts struct{}

func (o EmptyFilterOpts) Validate() error { return nil }

// Common base for all filters that provides some functionality
// that would otherwise be duplicated across all filters.
type BaseFilter[Opts FilterOpts] struct {
	// Options to pass via yaml to this filter.
	conf.YamlOpts[Opts]
	// Database connection.
	DB db.DB
}

// Init the filter with the database and options.
func (f *BaseFilter[Opts]) Init(db db.DB, opts conf.RawOpts) error {
	if err := f.Load(opts); err != nil {
		return err
	}
	f.DB = db
	return f.Options.Validate()
}
