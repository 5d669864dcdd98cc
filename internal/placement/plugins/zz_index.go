// Copyright 2025 SAP SE
// SPDX-License-Identifier: Apache-2.0

package plugins

import (
	"github.com/cobaltcore-dev/stratus/internal/placement"
)

// Host filters supported by the placement pipeline, in the order they
// should run. Filters that reject cheaply come first.
var Supported = []func() placement.Filter{
	func() placement.Filter { return &AllHostsFilter{} },
	func() placement.Filter { return &NumInstancesFilter{} },
	func() placement.Filter { return &IOOpsFilter{} },
	func() placement.Filter { return &RAMFilter{} },
}
