package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Selector holds the adaptive selector's tunable knobs, loadable from an
// optional YAML file passed via --config. Defaults are applied by the
// caller, not here: a numeric field left zero keeps its default, and the
// two boolean fields are always taken from the file as written.
type Selector struct {
	Budget        int     `yaml:"budget"`
	MaxLatencyMs  float64 `yaml:"maxLatencyMs"`
	MaxLossRate   float64 `yaml:"maxLossRate"`
	MinThroughput float64 `yaml:"minThroughput"`
	PartitionSize int     `yaml:"partitionSize"`

	ProbingEnabled    bool    `yaml:"probingEnabled"`
	ProbingIntervalMs float64 `yaml:"probingIntervalMs"`

	UMCCEnabled bool `yaml:"umccEnabled"`

	Seed uint64 `yaml:"seed"`

	WeightLatency    float64 `yaml:"weightLatency"`
	WeightLoss       float64 `yaml:"weightLoss"`
	WeightThroughput float64 `yaml:"weightThroughput"`
}

// LoadSelectorConfig reads an optional YAML selector-tuning file.
func LoadSelectorConfig(path string) (*Selector, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading selector config %s: %w", path, err)
	}
	var cfg Selector
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("parsing selector config %s: %w", path, err)
	}
	return &cfg, nil
}
