// Package config loads the JSON topology/traffic descriptions and the
// optional YAML selector-tuning file that drive a simulation run.
package config

import (
	"encoding/json"
	"fmt"
	"os"
)

// Topology is the top-level topology document: one entry per ISD-AS.
type Topology map[string]ASConfig

// ASConfig describes one autonomous system: whether it originates beacons,
// its border routers, and its hosts.
type ASConfig struct {
	Core          bool                         `json:"core"`
	BorderRouters map[string]BorderRouterConfig `json:"border_routers"`
	Hosts         map[string]HostConfig         `json:"hosts"`
}

// BorderRouterConfig lists the interfaces (links to neighboring border
// routers) a router owns.
type BorderRouterConfig struct {
	Interfaces []InterfaceConfig `json:"interfaces"`
}

// InterfaceConfig is one link endpoint: the neighboring AS/router and the
// link's static propagation/bandwidth characteristics.
type InterfaceConfig struct {
	ISDAS          string  `json:"isd_as"`
	NeighborRouter string  `json:"neighbor_router"`
	LatencyMs      float64 `json:"latency_ms"`
	BandwidthMbps  float64 `json:"bandwidth_mbps"`
}

// HostConfig describes one host attached to an AS.
type HostConfig struct {
	Addr string `json:"addr"`
}

// defaultHostLinkLatencyMs and defaultHostLinkBandwidthMbps are the
// host-to-border-router edge defaults per the external-interface contract:
// host links are not separately configurable.
const (
	defaultHostLinkLatencyMs     = 1.0
	defaultHostLinkBandwidthMbps = 1000.0
)

// LoadTopology reads and parses a topology file.
func LoadTopology(path string) (Topology, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading topology file %s: %w", path, err)
	}
	var t Topology
	if err := json.Unmarshal(data, &t); err != nil {
		return nil, fmt.Errorf("parsing topology file %s: %w", path, err)
	}
	if len(t) == 0 {
		return nil, fmt.Errorf("topology file %s: no autonomous systems defined", path)
	}
	return t, nil
}

// DefaultHostLink returns the fixed host-to-border-router edge characteristics.
func DefaultHostLink() (latencyMs, bandwidthMbps float64) {
	return defaultHostLinkLatencyMs, defaultHostLinkBandwidthMbps
}
