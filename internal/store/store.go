// Copyright 2025 SAP SE
// SPDX-License-Identifier: Apache-2.0

package store

import (
	"context"

	"github.com/cobaltcore-dev/stratus/internal/db"
)

// A compute node record together with its flat workload stats.
type ComputeNodeRecord struct {
	ComputeNode
	Stats []ComputeNodeStat
}

// Narrow interface over the persisted compute node inventory,
// as consumed by the placement core.
type Store interface {
	// List all current compute node records with their stats.
	ListComputeNodes(ctx context.Context) ([]ComputeNodeRecord, error)
}

// Store backed by the stratus database.
type dbStore struct {
	db db.DB
}

func NewStore(db db.DB) Store {
	return &dbStore{db: db}
}

// List all current compute node records with their stats.
func (s *dbStore) ListComputeNodes(ctx context.Context) ([]ComputeNodeRecord, error) {
	var nodes []ComputeNode
	q := "SELECT * FROM " + ComputeNode{}.TableName() + " ORDER BY id"
	if _, err := s.db.WithContext(ctx).Select(&nodes, q); err != nil {
		return nil, err
	}
	var stats []ComputeNodeStat
	q = "SELECT * FROM " + ComputeNodeStat{}.TableName()
	if _, err := s.db.WithContext(ctx).Select(&stats, q); err != nil {
		return nil, err
	}
	statsByNode := make(map[int][]ComputeNodeStat, len(nodes))
	for _, stat := range stats {
		statsByNode[stat.ComputeNodeID] = append(statsByNode[stat.ComputeNodeID], stat)
	}
	records := make([]ComputeNodeRecord, len(nodes))
	for i, node := range nodes {
		records[i] = ComputeNodeRecord{ComputeNode: node, Stats: statsByNode[node.ID]}
	}
	return records, nil
}
