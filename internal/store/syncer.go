// Copyright 2025 SAP SE
// SPDX-License-Identifier: Apache-2.0

package store

import (
	"context"

	"github.com/cobaltcore-dev/stratus/internal/conf"
	"github.com/cobaltcore-dev/stratus/internal/db"
	"github.com/go-gorp/gorp"
	"golang.org/x/sync/errgroup"
)

// Syncer for the compute node inventory.
type Syncer interface {
	// Initialize the syncer, e.g. create database tables.
	Init(ctx context.Context)
	// Download the current inventory into the database.
	Sync(ctx context.Context) error
}

type syncer struct {
	// Database to store the inventory in.
	db db.DB
	// Monitor to track the syncer.
	mon Monitor
	// Sync configuration.
	conf conf.SyncConfig
	// Nova API client to fetch the data.
	api NovaAPI
}

// Create a new compute inventory syncer.
func NewSyncer(db db.DB, mon Monitor, conf conf.SyncConfig) Syncer {
	keystone := newKeystoneAPI(conf.Keystone)
	return &syncer{
		db:   db,
		mon:  mon,
		conf: conf,
		api:  newNovaAPI(mon, keystone, conf),
	}
}

// Init the compute inventory syncer.
func (s *syncer) Init(ctx context.Context) {
	if err := s.api.Init(ctx); err != nil {
		panic(err)
	}
	tables := []*gorp.TableMap{
		s.db.AddTable(ComputeNode{}),
		s.db.AddTable(ComputeNodeStat{}),
		s.db.AddTable(Server{}),
	}
	if err := s.db.CreateTable(tables...); err != nil {
		panic(err)
	}
}

// Sync the compute node inventory and the derived workload stats.
func (s *syncer) Sync(ctx context.Context) error {
	var nodes []ComputeNode
	var servers []Server
	// The resources are independent and can be fetched in parallel.
	group, groupCtx := errgroup.WithContext(ctx)
	group.Go(func() error {
		var err error
		nodes, err = s.api.GetAllComputeNodes(groupCtx)
		return err
	})
	group.Go(func() error {
		var err error
		servers, err = s.api.GetAllServers(groupCtx)
		return err
	})
	if err := group.Wait(); err != nil {
		return err
	}

	if err := db.ReplaceAll(s.db, nodes...); err != nil {
		return err
	}
	if err := db.ReplaceAll(s.db, servers...); err != nil {
		return err
	}
	stats := deriveStats(nodes, servers)
	if err := db.ReplaceAll(s.db, stats...); err != nil {
		return err
	}

	if s.mon.ObjectsGauge != nil {
		s.mon.ObjectsGauge.WithLabelValues(ComputeNode{}.TableName()).Set(float64(len(nodes)))
		s.mon.ObjectsGauge.WithLabelValues(Server{}.TableName()).Set(float64(len(servers)))
		s.mon.ObjectsGauge.WithLabelValues(ComputeNodeStat{}.TableName()).Set(float64(len(stats)))
	}
	if s.mon.RunsCounter != nil {
		s.mon.RunsCounter.Inc()
	}
	return nil
}
