package latency

import (
	"encoding/json"
	"fmt"
	"os"
)

// Config holds the stage-timing constants of the pipeline model. The hazard
// rules themselves are fixed; only their cycle constants are configurable.
type Config struct {
	// IssueInterval is the number of cycles between successive instruction
	// fetches under in-order issue. Default: 1 cycle.
	IssueInterval uint64 `json:"issue_interval"`

	// StageLatency is the number of cycles an instruction spends advancing
	// from one pipeline stage to the next. Default: 1 cycle.
	StageLatency uint64 `json:"stage_latency"`

	// LoadWritebackLatency is the Memory-to-Writeback latency for load
	// instructions. Loads take an extra cycle to make data available to
	// writeback. Default: 2 cycles.
	LoadWritebackLatency uint64 `json:"load_writeback_latency"`

	// MemoryUnitInterval is the minimum Memory-stage spacing between any two
	// memory operations sharing the single memory unit. Default: 2 cycles.
	MemoryUnitInterval uint64 `json:"memory_unit_interval"`
}

// DefaultConfig returns a Config with the standard pipeline constants.
func DefaultConfig() *Config {
	return &Config{
		IssueInterval:        1,
		StageLatency:         1,
		LoadWritebackLatency: 2,
		MemoryUnitInterval:   2,
	}
}

// LoadConfig loads a Config from a JSON file. Missing fields keep their
// default values.
func LoadConfig(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read timing config file: %w", err)
	}

	config := DefaultConfig()
	if err := json.Unmarshal(data, config); err != nil {
		return nil, fmt.Errorf("failed to parse timing config: %w", err)
	}

	return config, nil
}

// SaveConfig writes a Config to a JSON file.
func (c *Config) SaveConfig(path string) error {
	data, err := json.MarshalIndent(c, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to serialize timing config: %w", err)
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write timing config file: %w", err)
	}

	return nil
}

// Validate checks that all timing values are valid (> 0).
func (c *Config) Validate() error {
	if c.IssueInterval == 0 {
		return fmt.Errorf("issue_interval must be > 0")
	}
	if c.StageLatency == 0 {
		return fmt.Errorf("stage_latency must be > 0")
	}
	if c.LoadWritebackLatency == 0 {
		return fmt.Errorf("load_writeback_latency must be > 0")
	}
	if c.MemoryUnitInterval == 0 {
		return fmt.Errorf("memory_unit_interval must be > 0")
	}
	return nil
}

// Clone returns a deep copy of the Config.
func (c *Config) Clone() *Config {
	return &Config{
		IssueInterval:        c.IssueInterval,
		StageLatency:         c.StageLatency,
		LoadWritebackLatency: c.LoadWritebackLatency,
		MemoryUnitInterval:   c.MemoryUnitInterval,
	}
}
