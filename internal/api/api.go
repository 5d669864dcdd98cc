// Copyright 2025 SAP SE
// SPDX-License-Identifier: Apache-2.0

package api

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"

	"github.com/cobaltcore-dev/stratus/internal/conf"
	"github.com/cobaltcore-dev/stratus/internal/placement"
	"github.com/google/uuid"
)

type HTTPAPI interface {
	// Bind the server handlers.
	Init(*http.ServeMux)
}

type httpAPI struct {
	manager *placement.HostManager
	config  conf.APIConfig
	monitor Monitor
}

func NewAPI(config conf.APIConfig, manager *placement.HostManager, monitor Monitor) HTTPAPI {
	return &httpAPI{manager: manager, config: config, monitor: monitor}
}

// Init the API mux and bind the handlers.
func (api *httpAPI) Init(mux *http.ServeMux) {
	mux.HandleFunc("/up", api.Up)
	mux.HandleFunc("/placement/filter", api.PlacementFilter)
}

// Readiness probe.
func (api *httpAPI) Up(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
}

// Handle a POST request asking which hosts can serve a workload.
// The request contains the workload spec, optional force and ignore
// lists, and optionally the names of the filters to run. The response
// contains the hosts that passed all filters, in consideration order.
func (api *httpAPI) PlacementFilter(w http.ResponseWriter, r *http.Request) {
	callback := api.monitor.Callback(w, r, "/placement/filter")

	if r.Method != http.MethodPost {
		internalErr := fmt.Errorf("invalid request method: %s", r.Method)
		callback.Respond(http.StatusMethodNotAllowed, internalErr, "invalid request method")
		return
	}
	defer r.Body.Close()

	// If configured, log out the complete request body.
	if api.config.LogRequestBodies {
		body, err := io.ReadAll(r.Body)
		if err != nil {
			callback.Respond(http.StatusInternalServerError, err, "failed to read request body")
			return
		}
		slog.Info("request body", "body", string(body))
		r.Body = io.NopCloser(bytes.NewBuffer(body))
	}

	var requestData ExternalPlacementRequest
	if err := json.NewDecoder(r.Body).Decode(&requestData); err != nil {
		callback.Respond(http.StatusBadRequest, err, "failed to decode request body")
		return
	}

	// Attach a trace id so the filter logs of one request can be correlated.
	traceLog := slog.With("requestID", uuid.NewString())
	traceLog.Info(
		"handling POST request",
		"url", "/placement/filter",
		"project", requestData.Spec.ProjectID,
		"filters", requestData.Filters,
	)

	filters, err := api.manager.ChooseHostFilters(requestData.Filters)
	if err != nil {
		var notFound placement.FilterNotFoundError
		if errors.As(err, &notFound) {
			callback.Respond(http.StatusBadRequest, err, "unknown filter: "+notFound.Name)
			return
		}
		callback.Respond(http.StatusInternalServerError, err, "failed to resolve filters")
		return
	}

	states, err := api.manager.GetAllHostStates(r.Context())
	if err != nil {
		callback.Respond(http.StatusInternalServerError, err, "failed to load host states")
		return
	}
	hosts := placement.SortedHostStates(states)

	props := &placement.RequestProperties{
		Workload: placement.Workload{
			ProjectID: requestData.Spec.ProjectID,
			VMState:   requestData.Spec.VMState,
			TaskState: requestData.Spec.TaskState,
			OSType:    requestData.Spec.OSType,
			MemoryMB:  requestData.Spec.MemoryMB,
			DiskGB:    requestData.Spec.DiskGB,
			VCPUs:     requestData.Spec.VCPUs,
		},
		ForceHosts:  requestData.ForceHosts,
		ForceNodes:  requestData.ForceNodes,
		IgnoreHosts: requestData.IgnoreHosts,
		Hints:       requestData.Hints,
	}
	passed, err := api.manager.FilterHosts(traceLog, hosts, props, filters)
	if err != nil {
		callback.Respond(http.StatusInternalServerError, err, "failed to filter hosts")
		return
	}

	response := ExternalPlacementResponse{
		Hosts: make([]ExternalPlacementHost, len(passed)),
	}
	for i, host := range passed {
		response.Hosts[i] = ExternalPlacementHost{Host: host.Host, Node: host.Node}
	}
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(response); err != nil {
		callback.Respond(http.StatusInternalServerError, err, "failed to encode response")
		return
	}
	callback.Respond(http.StatusOK, nil, "Success")
}
