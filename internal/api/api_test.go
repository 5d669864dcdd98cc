// Copyright 2025 SAP SE
// SPDX-License-Identifier: Apache-2.0

package api

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/cobaltcore-dev/stratus/internal/conf"
	"github.com/cobaltcore-dev/stratus/internal/db"
	"github.com/cobaltcore-dev/stratus/internal/placement"
	"github.com/cobaltcore-dev/stratus/internal/placement/plugins"
	"github.com/cobaltcore-dev/stratus/internal/store"
)

type mockStore struct {
	records []store.ComputeNodeRecord
	err     error
}

func (m *mockStore) ListComputeNodes(ctx context.Context) ([]store.ComputeNodeRecord, error) {
	return m.records, m.err
}

func strPtr(s string) *string { return &s }

func testAPI(t *testing.T, s store.Store) HTTPAPI {
	t.Helper()
	config := conf.PlacementConfig{Filters: []conf.FilterConfig{{Name: "all_hosts"}}}
	registry, err := placement.NewRegistry(db.DB{}, config, plugins.Supported)
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	pipeline := placement.NewPipeline(placement.Monitor{})
	manager := placement.NewHostManager(s, registry, pipeline, config)
	return NewAPI(conf.APIConfig{}, manager, Monitor{})
}

func testRecords() []store.ComputeNodeRecord {
	return []store.ComputeNodeRecord{
		{ComputeNode: store.ComputeNode{
			ID: 1, HypervisorHostname: "node1", ServiceHost: strPtr("host1"),
			MemoryMB: 8192, FreeRAMMB: 4096, LocalGB: 1024, FreeDiskGB: 512,
		}},
		{ComputeNode: store.ComputeNode{
			ID: 2, HypervisorHostname: "node2", ServiceHost: strPtr("host2"),
			MemoryMB: 8192, FreeRAMMB: 4096, LocalGB: 1024, FreeDiskGB: 512,
		}},
	}
}

func TestPlacementFilter(t *testing.T) {
	api := testAPI(t, &mockStore{records: testRecords()})
	mux := http.NewServeMux()
	api.Init(mux)

	body := `{
		"spec": {"project_id": "12345", "vm_state": "building", "memory_mb": 2048},
		"ignore_hosts": ["host2"]
	}`
	req := httptest.NewRequest(http.MethodPost, "/placement/filter", strings.NewReader(body))
	w := httptest.NewRecorder()
	mux.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d: %s", w.Code, w.Body.String())
	}
	var response ExternalPlacementResponse
	if err := json.NewDecoder(w.Body).Decode(&response); err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if len(response.Hosts) != 1 {
		t.Fatalf("expected 1 host, got %d", len(response.Hosts))
	}
	if response.Hosts[0].Host != "host1" || response.Hosts[0].Node != "node1" {
		t.Errorf("unexpected host: %+v", response.Hosts[0])
	}
}

func TestPlacementFilter_UnknownFilter(t *testing.T) {
	api := testAPI(t, &mockStore{records: testRecords()})
	mux := http.NewServeMux()
	api.Init(mux)

	body := `{"spec": {"project_id": "12345"}, "filters": ["unknown"]}`
	req := httptest.NewRequest(http.MethodPost, "/placement/filter", strings.NewReader(body))
	w := httptest.NewRecorder()
	mux.ServeHTTP(w, req)

	if w.Code != http.StatusBadRequest {
		t.Fatalf("expected status 400, got %d", w.Code)
	}
}

func TestPlacementFilter_InvalidMethod(t *testing.T) {
	api := testAPI(t, &mockStore{})
	mux := http.NewServeMux()
	api.Init(mux)

	req := httptest.NewRequest(http.MethodGet, "/placement/filter", nil)
	w := httptest.NewRecorder()
	mux.ServeHTTP(w, req)

	if w.Code != http.StatusMethodNotAllowed {
		t.Fatalf("expected status 405, got %d", w.Code)
	}
}

func TestPlacementFilter_InvalidBody(t *testing.T) {
	api := testAPI(t, &mockStore{})
	mux := http.NewServeMux()
	api.Init(mux)

	req := httptest.NewRequest(http.MethodPost, "/placement/filter", strings.NewReader("not json"))
	w := httptest.NewRecorder()
	mux.ServeHTTP(w, req)

	if w.Code != http.StatusBadRequest {
		t.Fatalf("expected status 400, got %d", w.Code)
	}
}

func TestPlacementFilter_StoreError(t *testing.T) {
	api := testAPI(t, &mockStore{err: context.DeadlineExceeded})
	mux := http.NewServeMux()
	api.Init(mux)

	body := `{"spec": {"project_id": "12345"}}`
	req := httptest.NewRequest(http.MethodPost, "/placement/filter", strings.NewReader(body))
	w := httptest.NewRecorder()
	mux.ServeHTTP(w, req)

	if w.Code != http.StatusInternalServerError {
		t.Fatalf("expected status 500, got %d", w.Code)
	}
}

func TestUp(t *testing.T) {
	api := testAPI(t, &mockStore{})
	mux := http.NewServeMux()
	api.Init(mux)

	req := httptest.NewRequest(http.MethodGet, "/up", nil)
	w := httptest.NewRecorder()
	mux.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d", w.Code)
	}
}
