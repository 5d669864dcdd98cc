// Copyright 2025 SAP SE
// SPDX-License-Identifier: Apache-2.0

package store

import (
	"encoding/json"
)

// Compute node model as returned by the Nova API under /os-hypervisors/detail.
// See: https://docs.openstack.org/api-ref/compute/#list-hypervisors-details
type ComputeNode struct {
	ID                 int    `json:"id" db:"id,primarykey"`
	HypervisorHostname string `json:"hypervisor_hostname" db:"hypervisor_hostname"`
	State              string `json:"state" db:"state"`
	Status             string `json:"status" db:"status"`
	HypervisorType     string `json:"hypervisor_type" db:"hypervisor_type"`
	HostIP             string `json:"host_ip" db:"host_ip"`
	// From nested JSON. A node without a service host is orphaned,
	// e.g. while its compute service is deregistering.
	ServiceID   int     `json:"service_id" db:"service_id"`
	ServiceHost *string `json:"service_host" db:"service_host"`
	// Capacity fields. Disk values are reported in GB.
	VCPUs        int     `json:"vcpus" db:"vcpus"`
	VCPUsUsed    int     `json:"vcpus_used" db:"vcpus_used"`
	MemoryMB     int     `json:"memory_mb" db:"memory_mb"`
	MemoryMBUsed int     `json:"memory_mb_used" db:"memory_mb_used"`
	LocalGB      int     `json:"local_gb" db:"local_gb"`
	LocalGBUsed  int     `json:"local_gb_used" db:"local_gb_used"`
	FreeRAMMB    int     `json:"free_ram_mb" db:"free_ram_mb"`
	FreeDiskGB   int     `json:"free_disk_gb" db:"free_disk_gb"`
	RunningVMs   int     `json:"running_vms" db:"running_vms"`
	UpdatedAt    *string `json:"updated_at" db:"updated_at"`
}

// Custom unmarshaler for ComputeNode to handle nested JSON.
// Specifically, we unwrap the "service" field into separate fields.
// Flattening these fields makes querying the data easier.
func (n *ComputeNode) UnmarshalJSON(data []byte) error {
	type Alias ComputeNode
	aux := &struct {
		Service json.RawMessage `json:"service"`
		*Alias
	}{
		Alias: (*Alias)(n),
	}
	if err := json.Unmarshal(data, &aux); err != nil {
		return err
	}
	if len(aux.Service) == 0 || string(aux.Service) == "null" {
		return nil
	}
	var service struct {
		ID   int     `json:"id"`
		Host *string `json:"host"`
	}
	if err := json.Unmarshal(aux.Service, &service); err != nil {
		return err
	}
	n.ServiceID = service.ID
	n.ServiceHost = service.Host
	return nil
}

// Custom marshaler for ComputeNode to handle nested JSON.
// This is the reverse operation of the UnmarshalJSON method.
func (n *ComputeNode) MarshalJSON() ([]byte, error) {
	type Alias ComputeNode
	aux := &struct {
		Service json.RawMessage `json:"service"`
		*Alias
	}{
		Alias: (*Alias)(n),
	}
	var service struct {
		ID   int     `json:"id"`
		Host *string `json:"host"`
	}
	service.ID = n.ServiceID
	service.Host = n.ServiceHost
	var err error
	aux.Service, err = json.Marshal(service)
	if err != nil {
		return nil, err
	}
	return json.Marshal(aux)
}

// Table in which the compute node model is stored.
func (ComputeNode) TableName() string { return "compute_nodes" }

// Flat per-node workload statistic, stored as a string-encoded integer
// under a prefix-encoded key such as "num_instances" or "num_proj_<id>".
type ComputeNodeStat struct {
	ComputeNodeID int    `json:"compute_node_id" db:"compute_node_id"`
	Key           string `json:"key" db:"key"`
	Value         string `json:"value" db:"value"`
}

// Table in which the compute node stats are stored.
func (ComputeNodeStat) TableName() string { return "compute_node_stats" }

// Server model as returned by the Nova API under /servers/detail.
// Only the fields needed to derive per-node workload stats are kept.
// See: https://docs.openstack.org/api-ref/compute/#list-servers-detailed
type Server struct {
	ID                             string  `json:"id" db:"id,primarykey"`
	Name                           string  `json:"name" db:"name"`
	Status                         string  `json:"status" db:"status"`
	TenantID                       string  `json:"tenant_id" db:"tenant_id"`
	OSEXTSRVATTRHost               string  `json:"OS-EXT-SRV-ATTR:host" db:"os_ext_srv_attr_host"`
	OSEXTSRVATTRHypervisorHostname string  `json:"OS-EXT-SRV-ATTR:hypervisor_hostname" db:"os_ext_srv_attr_hypervisor_hostname"`
	OSEXTSTSTaskState              *string `json:"OS-EXT-STS:task_state" db:"os_ext_sts_task_state"`
	OSEXTSTSVmState                string  `json:"OS-EXT-STS:vm_state" db:"os_ext_sts_vm_state"`
}

// Table in which the server model is stored.
func (Server) TableName() string { return "servers" }
