// Copyright 2025 SAP SE
// SPDX-License-Identifier: Apache-2.0

package plugins

import (
	"log/slog"

	"github.com/cobaltcore-dev/stratus/internal/placement"
)

// Filter that accepts every host. Useful as an explicit no-op chain and
// as a baseline in tests.
type AllHostsFilter struct {
	placement.BaseFilter[placement.EmptyFilterOpts]
}

func (f *AllHostsFilter) GetName() string { return "all_hosts" }

func (f *AllHostsFilter) HostPasses(
	traceLog *slog.Logger,
	host *placement.HostState,
	props *placement.RequestProperties,
) (bool, error) {
	return true, nil
}
