package sim

import (
	"testing"

	"github.com/scionpath/pathsim/kernel"
	"github.com/scionpath/pathsim/sim/config"
)

func twoASTopology() config.Topology {
	return config.Topology{
		"1-ff00:0:110": config.ASConfig{
			Core: true,
			BorderRouters: map[string]config.BorderRouterConfig{
				"1-ff00:0:110-br1": {Interfaces: []config.InterfaceConfig{
					{ISDAS: "1-ff00:0:111", NeighborRouter: "1-ff00:0:111-br1", LatencyMs: 10, BandwidthMbps: 1000},
				}},
			},
			Hosts: map[string]config.HostConfig{"1-ff00:0:110,h1": {Addr: "10.0.0.1"}},
		},
		"1-ff00:0:111": config.ASConfig{
			BorderRouters: map[string]config.BorderRouterConfig{
				"1-ff00:0:111-br1": {Interfaces: []config.InterfaceConfig{
					{ISDAS: "1-ff00:0:110", NeighborRouter: "1-ff00:0:110-br1", LatencyMs: 10, BandwidthMbps: 1000},
				}},
			},
			Hosts: map[string]config.HostConfig{"1-ff00:0:111,h1": {Addr: "10.0.0.2"}},
		},
	}
}

func TestBuild_WiresRoutersHostsAndLinks(t *testing.T) {
	k := kernel.New()
	topo, err := Build(twoASTopology(), k)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(topo.Routers) != 2 {
		t.Errorf("expected 2 routers, got %d", len(topo.Routers))
	}
	if len(topo.Hosts) != 2 {
		t.Errorf("expected 2 hosts, got %d", len(topo.Hosts))
	}
	if len(topo.CoreASes) != 1 || topo.CoreASes[0] != "1-ff00:0:110" {
		t.Errorf("expected core AS 1-ff00:0:110, got %v", topo.CoreASes)
	}

	br, ok := topo.FirstBorderRouter("1-ff00:0:110,h1")
	if !ok || br != "1-ff00:0:110-br1" {
		t.Errorf("expected host uplink to br1, got %v (ok=%v)", br, ok)
	}
}

func TestBuild_UnknownNeighborRouter_Errors(t *testing.T) {
	cfg := config.Topology{
		"1-ff00:0:110": config.ASConfig{
			Core: true,
			BorderRouters: map[string]config.BorderRouterConfig{
				"1-ff00:0:110-br1": {Interfaces: []config.InterfaceConfig{
					{ISDAS: "1-ff00:0:999", NeighborRouter: "1-ff00:0:999-br1", LatencyMs: 1, BandwidthMbps: 100},
				}},
			},
		},
	}
	k := kernel.New()
	if _, err := Build(cfg, k); err == nil {
		t.Fatal("expected error referencing unknown neighbor router")
	}
}

func TestBuild_HostsWithoutBorderRouter_Errors(t *testing.T) {
	cfg := config.Topology{
		"1-ff00:0:110": config.ASConfig{
			Hosts: map[string]config.HostConfig{"1-ff00:0:110,h1": {Addr: "10.0.0.1"}},
		},
	}
	k := kernel.New()
	if _, err := Build(cfg, k); err == nil {
		t.Fatal("expected error: hosts declared with no border router")
	}
}

func TestDiscoverPaths_FindsDirectNeighbor(t *testing.T) {
	k := kernel.New()
	topo, err := Build(twoASTopology(), k)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	paths := topo.DiscoverPaths("1-ff00:0:110", "1-ff00:0:111")
	if len(paths) == 0 {
		t.Fatal("expected at least one discovered path")
	}
	found := false
	for _, p := range paths {
		if p.Equal(Path{"1-ff00:0:110-br1", "1-ff00:0:111-br1"}) {
			found = true
		}
	}
	if !found {
		t.Errorf("expected direct border-router path among %v", paths)
	}
}
