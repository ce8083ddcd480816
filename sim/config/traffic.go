package config

import (
	"encoding/json"
	"fmt"
	"os"
)

// Traffic is the top-level traffic document.
type Traffic struct {
	DurationMs float64       `json:"duration_ms"`
	Flows      []FlowConfig  `json:"flows"`
	Events     []EventConfig `json:"events,omitempty"`
}

// FlowConfig describes one application flow to run.
type FlowConfig struct {
	Name        string  `json:"name"`
	Source      string  `json:"source"`
	Destination string  `json:"destination"`
	StartTimeMs float64 `json:"start_time_ms"`
	DataSizeKb  float64 `json:"data_size_kb"`
}

// EventConfig describes one scripted path up/down transition.
type EventConfig struct {
	TimeMs float64  `json:"time_ms"`
	Kind   string   `json:"kind"`
	Path   []string `json:"path"`
}

// LoadTraffic reads and parses a traffic file. Unknown JSON fields are
// ignored by encoding/json's default behavior; Events defaults to nil,
// treated by callers as an empty scenario list.
func LoadTraffic(path string) (*Traffic, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading traffic file %s: %w", path, err)
	}
	var t Traffic
	if err := json.Unmarshal(data, &t); err != nil {
		return nil, fmt.Errorf("parsing traffic file %s: %w", path, err)
	}
	if len(t.Flows) == 0 {
		return nil, fmt.Errorf("traffic file %s: no flows defined", path)
	}
	return &t, nil
}
