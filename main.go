// Copyright 2025 SAP SE
// SPDX-License-Identifier: Apache-2.0

package main

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/cobaltcore-dev/stratus/internal/api"
	"github.com/cobaltcore-dev/stratus/internal/conf"
	"github.com/cobaltcore-dev/stratus/internal/db"
	"github.com/cobaltcore-dev/stratus/internal/monitoring"
	"github.com/cobaltcore-dev/stratus/internal/mqtt"
	"github.com/cobaltcore-dev/stratus/internal/placement"
	"github.com/cobaltcore-dev/stratus/internal/placement/plugins"
	"github.com/cobaltcore-dev/stratus/internal/reports"
	"github.com/cobaltcore-dev/stratus/internal/store"
	"github.com/sapcc/go-api-declarations/bininfo"
	"github.com/sapcc/go-bits/httpext"
	"go.uber.org/automaxprocs/maxprocs"

	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Run the prometheus metrics server for monitoring.
func runMonitoringServer(ctx context.Context, registry *monitoring.Registry, config conf.MonitoringConfig) {
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.HandlerFor(registry, promhttp.HandlerOpts{}))
	slog.Info("metrics listening", "port", config.Port)
	addr := fmt.Sprintf(":%d", config.Port)
	if err := httpext.ListenAndServeContext(ctx, addr, mux); err != nil {
		panic(err)
	}
}

// Periodically refresh the compute inventory from the Nova API.
func runSyncLoop(ctx context.Context, syncer store.Syncer, config conf.SyncConfig) {
	interval := time.Duration(config.IntervalSeconds) * time.Second
	if interval <= 0 {
		interval = 60 * time.Second
	}
	for {
		if err := syncer.Sync(ctx); err != nil {
			slog.Error("failed to sync compute inventory", "error", err)
		}
		select {
		case <-ctx.Done():
			return
		case <-time.After(interval):
		}
	}
}

func main() {
	// If called with `--version`, report version and exit (the Dockerfile
	// uses this to check if the binary was built correctly)
	bininfo.HandleVersionArgument()

	config := conf.NewConfig()
	if err := config.Validate(); err != nil {
		panic(err)
	}

	// Set runtime concurrency to match CPU limit imposed by Kubernetes
	undoMaxprocs, err := maxprocs.Set(maxprocs.Logger(slog.Debug))
	if err != nil {
		panic(err)
	}
	defer undoMaxprocs()

	// This context will gracefully shutdown when the process receives the
	// standard shutdown signal SIGINT, with a 10-second delay to allow
	// Kubernetes to stop sending new requests well before the process starts
	// to shut down.
	ctx := httpext.ContextWithSIGINT(context.Background(), 10*time.Second)

	registry := monitoring.NewRegistry(config.GetMonitoringConfig())

	dbMonitor := db.NewDBMonitor(registry)
	database := db.NewPostgresDB(config.GetDBConfig(), dbMonitor)
	defer database.Close()

	go runMonitoringServer(ctx, registry, config.GetMonitoringConfig())

	// Keep the compute inventory fresh in the background.
	syncer := store.NewSyncer(database, store.NewSyncMonitor(registry), config.GetSyncConfig())
	syncer.Init(ctx)
	go runSyncLoop(ctx, syncer, config.GetSyncConfig())

	registryFilters, err := placement.NewRegistry(
		database, config.GetPlacementConfig(), plugins.Supported,
	)
	if err != nil {
		panic(err)
	}
	pipeline := placement.NewPipeline(placement.NewPipelineMonitor(registry))
	manager := placement.NewHostManager(
		store.NewStore(database), registryFilters, pipeline, config.GetPlacementConfig(),
	)

	// Feed capability reports from the compute services into the manager.
	mqttClient := mqtt.NewClient(config.GetMQTTConfig(), mqtt.NewMQTTMonitor(registry))
	defer mqttClient.Disconnect()
	listener := reports.NewListener(mqttClient, manager)
	listener.Init()

	mux := http.NewServeMux()
	httpAPI := api.NewAPI(config.GetAPIConfig(), manager, api.NewAPIMonitor(registry))
	httpAPI.Init(mux)

	// Run the api server after all other tasks have been started and
	// all http handlers have been registered to the mux.
	apiConf := config.GetAPIConfig()
	addr := fmt.Sprintf(":%d", apiConf.Port)
	slog.Info("api listening", "port", apiConf.Port)
	if err := httpext.ListenAndServeContext(ctx, addr, mux); err != nil {
		panic(err)
	}
}
