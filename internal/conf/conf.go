// Copyright 2025 SAP SE
// SPDX-License-Identifier: Apache-2.0

package conf

import (
	"io"
	"os"

	"gopkg.in/yaml.v3"
)

// Database configuration.
type DBConfig struct {
	Host     string `yaml:"host"`
	Port     string `yaml:"port"`
	Database string `yaml:"database"`
	User     string `yaml:"user"`
	Password string `yaml:"password"`
}

// Configuration for the monitoring module.
type MonitoringConfig struct {
	// The labels to add to all metrics.
	Labels map[string]string `yaml:"labels"`
	// The port to expose the metrics on.
	Port int `yaml:"port"`
}

// Configuration for the mqtt broker over which node agents
// push their capability reports.
type MQTTConfig struct {
	URL      string `yaml:"url"`
	Username string `yaml:"username"`
	Password string `yaml:"password"`
}

// Configuration for the keystone authentication.
type KeystoneConfig struct {
	// The URL of the keystone service.
	URL string `yaml:"url"`
	// The OpenStack username (OS_USERNAME in openstack cli).
	OSUsername string `yaml:"username"`
	// The OpenStack password (OS_PASSWORD in openstack cli).
	OSPassword string `yaml:"password"`
	// The OpenStack project name (OS_PROJECT_NAME in openstack cli).
	OSProjectName string `yaml:"projectName"`
	// The OpenStack user domain name (OS_USER_DOMAIN_NAME in openstack cli).
	OSUserDomainName string `yaml:"userDomainName"`
	// The OpenStack project domain name (OS_PROJECT_DOMAIN_NAME in openstack cli).
	OSProjectDomainName string `yaml:"projectDomainName"`
}

// Configuration for the compute inventory syncer.
type SyncConfig struct {
	// Keystone credentials used to reach the compute service.
	Keystone KeystoneConfig `yaml:"keystone"`
	// The URL of the nova service. If empty, the URL is resolved
	// from the keystone service catalog.
	NovaURL string `yaml:"novaUrl,omitempty"`
	// How often to refresh the compute node inventory.
	IntervalSeconds int `yaml:"intervalSeconds"`
}

// Configuration for a single host filter.
type FilterConfig struct {
	// The name of the filter.
	Name string `yaml:"name"`
	// Custom options for the filter, as a raw yaml map.
	Options RawOpts `yaml:"options,omitempty"`
}

// Configuration for the placement module.
type PlacementConfig struct {
	// Host filters applied by default, in order.
	Filters []FilterConfig `yaml:"filters"`
}

// Get the names of the default filters, in configured order.
func (c PlacementConfig) DefaultFilterNames() []string {
	names := make([]string, len(c.Filters))
	for i, f := range c.Filters {
		names[i] = f.Name
	}
	return names
}

// Configuration for the placement API.
type APIConfig struct {
	// The port to use for the placement API.
	Port int `yaml:"port"`
	// If request bodies should be logged out.
	// This feature is intended for debugging purposes only.
	LogRequestBodies bool `yaml:"logRequestBodies"`
}

// Configuration for the stratus service.
type Config interface {
	GetDBConfig() DBConfig
	GetMonitoringConfig() MonitoringConfig
	GetMQTTConfig() MQTTConfig
	GetSyncConfig() SyncConfig
	GetPlacementConfig() PlacementConfig
	GetAPIConfig() APIConfig
	// Check if the configuration is valid.
	Validate() error
}

type config struct {
	DBConfig         `yaml:"db"`
	MonitoringConfig `yaml:"monitoring"`
	MQTTConfig       `yaml:"mqtt"`
	SyncConfig       `yaml:"sync"`
	PlacementConfig  `yaml:"placement"`
	APIConfig        `yaml:"api"`
}

// Create a new configuration from the default config yaml file.
func NewConfig() Config {
	return newConfigFromFile("/etc/config/conf.yaml")
}

// Create a new configuration from the given file.
func newConfigFromFile(filepath string) Config {
	file, err := os.Open(filepath)
	if err != nil {
		panic(err)
	}
	defer file.Close()
	bytes, err := io.ReadAll(file)
	if err != nil {
		panic(err)
	}
	return NewConfigFromBytes(bytes)
}

// Create a new configuration from the given bytes.
func NewConfigFromBytes(bytes []byte) Config {
	var c config
	if err := yaml.Unmarshal(bytes, &c); err != nil {
		panic(err)
	}
	return &c
}

func (c *config) GetDBConfig() DBConfig                 { return c.DBConfig }
func (c *config) GetMonitoringConfig() MonitoringConfig { return c.MonitoringConfig }
func (c *config) GetMQTTConfig() MQTTConfig             { return c.MQTTConfig }
func (c *config) GetSyncConfig() SyncConfig             { return c.SyncConfig }
func (c *config) GetPlacementConfig() PlacementConfig   { return c.PlacementConfig }
func (c *config) GetAPIConfig() APIConfig               { return c.APIConfig }
