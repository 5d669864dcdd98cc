// Copyright 2025 SAP SE
// SPDX-License-Identifier: Apache-2.0

package reports

import (
	"encoding/json"
	"log/slog"

	"github.com/cobaltcore-dev/stratus/internal/mqtt"
	"github.com/cobaltcore-dev/stratus/internal/placement"
	pahomqtt "github.com/eclipse/paho.mqtt.golang"
)

// Topic on which compute services publish their capability reports.
const TopicCapabilities = "stratus/capabilities"

// One capability report as published by a compute service. The
// capabilities map is opaque except for the hypervisor_hostname key,
// which identifies the node under the reporting host.
type CapabilityReport struct {
	Service      string         `json:"service"`
	Host         string         `json:"host"`
	Capabilities map[string]any `json:"capabilities"`
}

// Listener feeding capability reports from the mqtt broker into the
// host manager's cache.
type Listener struct {
	client  mqtt.Client
	manager *placement.HostManager
}

func NewListener(client mqtt.Client, manager *placement.HostManager) *Listener {
	return &Listener{client: client, manager: manager}
}

// Connect to the broker and subscribe to the capability topic.
// Should be called during program startup.
func (l *Listener) Init() {
	if err := l.client.Connect(); err != nil {
		panic(err)
	}
	if err := l.client.Subscribe(TopicCapabilities, l.handle); err != nil {
		panic(err)
	}
}

func (l *Listener) handle(_ pahomqtt.Client, msg pahomqtt.Message) {
	var report CapabilityReport
	if err := json.Unmarshal(msg.Payload(), &report); err != nil {
		slog.Error("reports: failed to decode capability report", "error", err)
		return
	}
	if report.Host == "" {
		slog.Warn("reports: dropping capability report without a host")
		return
	}
	l.manager.UpdateServiceCapabilities(report.Service, report.Host, report.Capabilities)
}
