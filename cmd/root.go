// cmd/root.go
package cmd

import (
	"fmt"
	"os"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/scionpath/pathsim/sim"
	"github.com/scionpath/pathsim/sim/config"
	"github.com/scionpath/pathsim/sim/trace"
)

var (
	topologyPath     string
	trafficPath      string
	selectorPath     string
	selectorKind     string
	seed             uint64
	logLevel         string
	beaconIntervalMs float64
	beaconWarmupMs   float64
	discoverFallback bool
	traceLevel       string
)

var rootCmd = &cobra.Command{
	Use:   "pathsim",
	Short: "Discrete-event simulator for SCION-style multi-path routing",
}

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Run a topology + traffic scenario",
	RunE: func(cmd *cobra.Command, args []string) error {
		level, err := logrus.ParseLevel(logLevel)
		if err != nil {
			return err
		}
		logrus.SetLevel(level)

		if !trace.IsValidTraceLevel(traceLevel) {
			return fmt.Errorf("invalid --trace level %q", traceLevel)
		}

		topo, err := config.LoadTopology(topologyPath)
		if err != nil {
			return err
		}
		traffic, err := config.LoadTraffic(trafficPath)
		if err != nil {
			return err
		}

		simCfg := sim.DefaultSimulationConfig()
		simCfg.Topology = topo
		simCfg.Traffic = traffic
		simCfg.BeaconIntervalMs = beaconIntervalMs
		simCfg.BeaconWarmupMs = beaconWarmupMs
		simCfg.SelectorKind = selectorKind
		simCfg.DiscoverFallback = discoverFallback
		simCfg.TraceLevel = trace.TraceLevel(traceLevel)

		if selectorPath != "" {
			selCfg, err := config.LoadSelectorConfig(selectorPath)
			if err != nil {
				return err
			}
			simCfg.Adaptive = adaptiveConfigFromFile(*selCfg)
		}
		if cmd.Flags().Changed("seed") {
			simCfg.Adaptive.Seed = seed
		}

		s, err := sim.New(simCfg)
		if err != nil {
			return err
		}

		results := s.Run()
		results.Print()

		if trace.TraceLevel(traceLevel) == trace.TraceLevelDecisions {
			summary := trace.Summarize(s.Trace())
			fmt.Printf("=== Decision Trace ===\n")
			fmt.Printf("Selections       : %d (%d succeeded, %d failed)\n", summary.TotalSelections, summary.SucceededCount, summary.FailedCount)
			fmt.Printf("Unique paths used: %d\n", summary.UniquePathsChosen)
			fmt.Printf("Scenario events  : %d\n", summary.EventCount)
		}
		return nil
	},
}

// adaptiveConfigFromFile overlays a loaded selector config onto the default
// adaptive config: a numeric field left at zero keeps its default, while
// ProbingEnabled and UMCCEnabled are always copied from the file.
func adaptiveConfigFromFile(c config.Selector) sim.AdaptiveConfig {
	cfg := sim.DefaultAdaptiveConfig()
	if c.Budget > 0 {
		cfg.Budget = c.Budget
	}
	if c.MaxLatencyMs > 0 {
		cfg.MaxLatencyMs = c.MaxLatencyMs
	}
	if c.MaxLossRate > 0 {
		cfg.MaxLossRate = c.MaxLossRate
	}
	if c.MinThroughput > 0 {
		cfg.MinThroughput = c.MinThroughput
	}
	if c.PartitionSize > 0 {
		cfg.PartitionSize = c.PartitionSize
	}
	cfg.ProbingEnabled = c.ProbingEnabled
	if c.ProbingIntervalMs > 0 {
		cfg.ProbingIntervalMs = c.ProbingIntervalMs
	}
	cfg.UMCCEnabled = c.UMCCEnabled
	if c.Seed > 0 {
		cfg.Seed = c.Seed
	}
	if c.WeightLatency > 0 {
		cfg.WeightLatency = c.WeightLatency
	}
	if c.WeightLoss > 0 {
		cfg.WeightLoss = c.WeightLoss
	}
	if c.WeightThroughput > 0 {
		cfg.WeightThroughput = c.WeightThroughput
	}
	return cfg
}

func Execute() {
	if err := rootCmd.Execute(); err != nil {
		logrus.Error(err)
		os.Exit(1)
	}
}

func init() {
	runCmd.Flags().StringVar(&topologyPath, "topology", "", "Path to topology JSON file (required)")
	runCmd.Flags().StringVar(&trafficPath, "traffic", "", "Path to traffic JSON file (required)")
	runCmd.Flags().StringVar(&selectorPath, "config", "", "Path to selector YAML config (optional, overlays defaults)")
	runCmd.Flags().StringVar(&selectorKind, "selector", "adaptive", "Path selection policy: adaptive or shortest")
	runCmd.Flags().Uint64Var(&seed, "seed", 1, "PRNG seed for jitter-based tie-breaking")
	runCmd.Flags().StringVar(&logLevel, "log", "info", "Log level (debug, info, warn, error)")
	runCmd.Flags().Float64Var(&beaconIntervalMs, "beacon-interval", 500, "Beacon emission interval in ms")
	runCmd.Flags().Float64Var(&beaconWarmupMs, "beacon-warmup", 50, "Warm-up period before flows start, to let beaconing converge")
	runCmd.Flags().BoolVar(&discoverFallback, "discover-fallback", false, "Fall back to k-shortest loopless path discovery over the router graph when beaconing has not yet produced a path for a pair")
	runCmd.Flags().StringVar(&traceLevel, "trace", "none", "Decision trace level: none or decisions")
	runCmd.MarkFlagRequired("topology")
	runCmd.MarkFlagRequired("traffic")

	rootCmd.AddCommand(runCmd)
}
