// Package latency provides stage-timing models for pipeline scheduling.
//
// The timing values describe a classic five-stage in-order pipeline and can
// be configured via Config.
package latency

import (
	"github.com/sarchlab/pipesim/insts"
)

// Table provides stage-timing lookups for instructions.
type Table struct {
	config *Config
}

// NewTable creates a new timing table with default values.
func NewTable() *Table {
	return &Table{
		config: DefaultConfig(),
	}
}

// NewTableWithConfig creates a new timing table with a custom configuration.
func NewTableWithConfig(config *Config) *Table {
	return &Table{
		config: config,
	}
}

// WritebackLatency returns the Memory-to-Writeback latency for the given
// opcode. Loads take longer than every other kind.
func (t *Table) WritebackLatency(op insts.Op) uint64 {
	if op == insts.OpLOAD {
		return t.config.LoadWritebackLatency
	}
	return t.config.StageLatency
}

// IssueInterval returns the fetch spacing between successive instructions.
func (t *Table) IssueInterval() uint64 {
	return t.config.IssueInterval
}

// StageLatency returns the per-stage advance latency.
func (t *Table) StageLatency() uint64 {
	return t.config.StageLatency
}

// MemoryUnitInterval returns the minimum Memory-stage spacing between two
// memory operations.
func (t *Table) MemoryUnitInterval() uint64 {
	return t.config.MemoryUnitInterval
}

// IsMemoryOp returns true if the opcode accesses memory.
func (t *Table) IsMemoryOp(op insts.Op) bool {
	return op == insts.OpLOAD || op == insts.OpSTORE
}

// IsALUOp returns true if the opcode is an ALU operation.
func (t *Table) IsALUOp(op insts.Op) bool {
	return op == insts.OpADD || op == insts.OpSUB
}

// Config returns the current timing configuration.
func (t *Table) Config() *Config {
	return t.config
}
