// Copyright 2025 SAP SE
// SPDX-License-Identifier: Apache-2.0

package db

import (
	"database/sql"

	"github.com/cobaltcore-dev/stratus/internal/monitoring"
	"github.com/dlmiddlecote/sqlstats"
)

type Monitor struct {
	registry *monitoring.Registry
}

func NewDBMonitor(registry *monitoring.Registry) Monitor {
	return Monitor{registry: registry}
}

// Export connection pool metrics for the given database handle.
func (m Monitor) ObserveDB(db *sql.DB, dbName string) {
	if m.registry == nil {
		return
	}
	m.registry.MustRegister(sqlstats.NewStatsCollector(dbName, db))
}
