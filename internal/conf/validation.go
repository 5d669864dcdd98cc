// Copyright 2025 SAP SE
// SPDX-License-Identifier: Apache-2.0

package conf

import "fmt"

// Check if the configuration is valid.
func (c *config) Validate() error {
	seen := make(map[string]bool, len(c.PlacementConfig.Filters))
	for _, filter := range c.PlacementConfig.Filters {
		if filter.Name == "" {
			return fmt.Errorf("placement: filter with empty name configured")
		}
		if seen[filter.Name] {
			return fmt.Errorf("placement: filter %q configured twice", filter.Name)
		}
		seen[filter.Name] = true
	}
	if c.APIConfig.Port == 0 {
		return fmt.Errorf("api: no port configured")
	}
	if c.MonitoringConfig.Port == 0 {
		return fmt.Errorf("monitoring: no port configured")
	}
	return nil
}
