// Copyright 2025 SAP SE
// SPDX-License-Identifier: Apache-2.0

package placement

import (
	"log/slog"
	"slices"

	"github.com/cobaltcore-dev/stratus/internal/conf"
	"github.com/cobaltcore-dev/stratus/internal/db"
)

// Error returned when a configured filter name has no matching
// implementation. This is a configuration error: a placement request
// cannot proceed with an incomplete filter set.
type FilterNotFoundError struct {
	Name string
}

func (e FilterNotFoundError) Error() string {
	return "no host filter found with name: " + e.Name
}

// Registry of the host filters known to the process. Filters are
// registered by name in a fixed order at process startup and resolved
// by configured name for each placement request.
type Registry struct {
	// Filter names in registration order.
	order []string
	// Initialized filter instances by their name.
	filters map[string]Filter
}

// Create a new registry from the supported filter factories, initializing
// every filter with the database and its configured options.
func NewRegistry(
	database db.DB,
	config conf.PlacementConfig,
	supported []func() Filter,
) (*Registry, error) {
	optsByName := make(map[string]conf.RawOpts, len(config.Filters))
	for _, filterConf := range config.Filters {
		optsByName[filterConf.Name] = filterConf.Options
	}
	registry := &Registry{filters: make(map[string]Filter, len(supported))}
	for _, makeFilter := range supported {
		filter := makeFilter()
		name := filter.GetName()
		if err := filter.Init(database, optsByName[name]); err != nil {
			return nil, err
		}
		registry.order = append(registry.order, name)
		registry.filters[name] = filter
		slog.Info("placement: registered host filter", "name", name)
	}
	return registry, nil
}

// Resolve the given filter names to filter instances, preserving the
// registry's internal order. Each name must be known to the registry,
// otherwise a FilterNotFoundError is returned.
func (r *Registry) Resolve(names []string) ([]Filter, error) {
	for _, name := range names {
		if _, ok := r.filters[name]; !ok {
			return nil, FilterNotFoundError{Name: name}
		}
	}
	filters := make([]Filter, 0, len(names))
	for _, name := range r.order {
		if slices.Contains(names, name) {
			filters = append(filters, r.filters[name])
		}
	}
	return filters, nil
}
