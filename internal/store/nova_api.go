// Copyright 2025 SAP SE
// SPDX-License-Identifier: Apache-2.0

package store

import (
	"context"
	"log/slog"

	"github.com/cobaltcore-dev/stratus/internal/conf"
	"github.com/gophercloud/gophercloud/v2"
	"github.com/gophercloud/gophercloud/v2/openstack/compute/v2/hypervisors"
	"github.com/gophercloud/gophercloud/v2/openstack/compute/v2/servers"
	"github.com/gophercloud/gophercloud/v2/pagination"
	"github.com/prometheus/client_golang/prometheus"
)

type NovaAPI interface {
	// Init the nova API.
	Init(ctx context.Context) error
	// List all compute nodes.
	GetAllComputeNodes(ctx context.Context) ([]ComputeNode, error)
	// List all servers.
	GetAllServers(ctx context.Context) ([]Server, error)
}

// API for OpenStack Nova.
type novaAPI struct {
	// Monitor to track the api.
	mon Monitor
	// Keystone api to authenticate against.
	keystoneAPI KeystoneAPI
	// Sync configuration.
	conf conf.SyncConfig
	// Authenticated OpenStack service client to fetch the data.
	sc *gophercloud.ServiceClient
}

// Create a new nova API client.
func newNovaAPI(mon Monitor, k KeystoneAPI, conf conf.SyncConfig) NovaAPI {
	return &novaAPI{mon: mon, keystoneAPI: k, conf: conf}
}

// Init the nova API.
func (api *novaAPI) Init(ctx context.Context) error {
	if err := api.keystoneAPI.Authenticate(ctx); err != nil {
		return err
	}
	url := api.conf.NovaURL
	if url == "" {
		// Resolve the nova endpoint from the keystone service catalog.
		endpoint, err := api.keystoneAPI.Client().EndpointLocator(gophercloud.EndpointOpts{
			Type: "compute", Availability: gophercloud.AvailabilityPublic,
		})
		if err != nil {
			return err
		}
		url = endpoint
	}
	api.sc = &gophercloud.ServiceClient{
		ProviderClient: api.keystoneAPI.Client(),
		Endpoint:       url,
		Type:           "compute",
	}
	return nil
}

// Get all Nova compute nodes.
func (api *novaAPI) GetAllComputeNodes(ctx context.Context) ([]ComputeNode, error) {
	label := ComputeNode{}.TableName()
	slog.Info("fetching nova data", "label", label)
	// Fetch all pages.
	pages, err := func() (pagination.Page, error) {
		if api.mon.RequestTimer != nil {
			hist := api.mon.RequestTimer.WithLabelValues(label)
			timer := prometheus.NewTimer(hist)
			defer timer.ObserveDuration()
		}
		return hypervisors.List(api.sc, hypervisors.ListOpts{}).AllPages(ctx)
	}()
	if err != nil {
		return nil, err
	}
	// Parse the json data into our custom model.
	var data = &struct {
		ComputeNodes []ComputeNode `json:"hypervisors"`
	}{}
	if err := pages.(hypervisors.HypervisorPage).ExtractInto(data); err != nil {
		return nil, err
	}
	slog.Info("fetched", "label", label, "count", len(data.ComputeNodes))
	return data.ComputeNodes, nil
}

// Get all Nova servers.
func (api *novaAPI) GetAllServers(ctx context.Context) ([]Server, error) {
	label := Server{}.TableName()
	slog.Info("fetching nova data", "label", label)
	// Fetch all pages.
	pages, err := func() (pagination.Page, error) {
		if api.mon.RequestTimer != nil {
			hist := api.mon.RequestTimer.WithLabelValues(label)
			timer := prometheus.NewTimer(hist)
			defer timer.ObserveDuration()
		}
		return servers.List(api.sc, servers.ListOpts{AllTenants: true}).AllPages(ctx)
	}()
	if err != nil {
		return nil, err
	}
	// Parse the json data into our custom model.
	var data = &struct {
		Servers []Server `json:"servers"`
	}{}
	if err := pages.(servers.ServerPage).ExtractInto(data); err != nil {
		return nil, err
	}
	slog.Info("fetched", "label", label, "count", len(data.Servers))
	return data.Servers, nil
}
