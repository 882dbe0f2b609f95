package pipeline

import (
	"github.com/sarchlab/pipesim/insts"
	"github.com/sarchlab/pipesim/timing/latency"
)

// HazardKind classifies why an instruction must delay.
type HazardKind uint8

// Hazard classes.
const (
	// HazardRAW means the candidate reads a register an earlier instruction
	// writes, before the value is available.
	HazardRAW HazardKind = iota
	// HazardWAR means the candidate writes a register an earlier instruction
	// has not yet read.
	HazardWAR
	// HazardWAW means the candidate would commit a register write out of
	// program order.
	HazardWAW
	// HazardMemoryOrder means two accesses to the same memory location would
	// execute out of program order.
	HazardMemoryOrder
	// HazardStructural means two memory operations would contend for the
	// single memory unit.
	HazardStructural
)

// String returns the hazard class name.
func (k HazardKind) String() string {
	switch k {
	case HazardRAW:
		return "RAW"
	case HazardWAR:
		return "WAR"
	case HazardWAW:
		return "WAW"
	case HazardMemoryOrder:
		return "memory-order"
	case HazardStructural:
		return "structural"
	default:
		return "unknown"
	}
}

// Hazard is one outstanding constraint between a candidate instruction and
// an already-scheduled producer.
type Hazard struct {
	// Kind is the hazard class.
	Kind HazardKind
	// Producer is the index of the earlier instruction the candidate
	// conflicts with.
	Producer int
	// Resolution is the earliest cycle at which the constrained stage may
	// run (ID for the register classes, MEM for the memory classes).
	Resolution uint64
	// Deficit is how many cycles the candidate must shift forward to clear
	// this hazard.
	Deficit uint64
}

// HazardUnit detects hazards between a candidate instruction and the
// already-scheduled history.
type HazardUnit struct {
	table *latency.Table
}

// NewHazardUnit creates a hazard detection unit using the given timing
// table.
func NewHazardUnit(table *latency.Table) *HazardUnit {
	return &HazardUnit{table: table}
}

// Detect evaluates every hazard class between the candidate c (with its
// current tentative timing ct) and the earlier, final instruction p at index
// pIndex (with fixed timing pt). Only violated constraints are returned;
// each carries the shift needed to clear it.
func (h *HazardUnit) Detect(
	c insts.Instruction, ct StageTiming,
	p insts.Instruction, pIndex int, pt StageTiming,
) []Hazard {
	var hazards []Hazard

	appendHazard := func(kind HazardKind, stage Stage, earliest uint64) {
		current := ct.Cycle(stage)
		if current >= earliest {
			return
		}
		hazards = append(hazards, Hazard{
			Kind:       kind,
			Producer:   pIndex,
			Resolution: earliest,
			Deficit:    earliest - current,
		})
	}

	// RAW: the candidate reads a register p writes. The value is available
	// at p's writeback for loads and at p's memory stage for ALU results;
	// the candidate's operand-read (Decode) must come strictly after.
	if pDest, ok := p.Dest(); ok {
		for _, src := range c.SourceRegs() {
			if src == pDest {
				appendHazard(HazardRAW, StageID, h.availableCycle(p, pt)+1)
				break
			}
		}
	}

	// WAR: the candidate writes a register p reads. The candidate's
	// issue-time register reservation (Decode) must come strictly after p's
	// own operand read.
	if cDest, ok := c.Dest(); ok {
		for _, src := range p.SourceRegs() {
			if src == cDest {
				appendHazard(HazardWAR, StageID, pt.ID+1)
				break
			}
		}
	}

	// WAW: same destination register. Writebacks must retire in program
	// order.
	if cDest, ok := c.Dest(); ok {
		if pDest, ok := p.Dest(); ok && cDest == pDest {
			appendHazard(HazardWAW, StageWB, pt.WB+1)
		}
	}

	if h.table.IsMemoryOp(c.Op()) && h.table.IsMemoryOp(p.Op()) {
		// Memory ordering: same symbolic location must be accessed in
		// program order.
		cLoc, _ := c.Mem()
		pLoc, _ := p.Mem()
		if cLoc == pLoc {
			appendHazard(HazardMemoryOrder, StageMEM, pt.MEM+1)
		}

		// Structural: the single memory unit needs MemoryUnitInterval cycles
		// between Memory-stage visits, regardless of address.
		appendHazard(HazardStructural, StageMEM, pt.MEM+h.table.MemoryUnitInterval())
	}

	return hazards
}

// availableCycle is the cycle at which p's register result becomes readable:
// writeback for a load (only certain once memory completes and commits),
// the memory stage for an ALU result (computed by Execute, available the
// following stage).
func (h *HazardUnit) availableCycle(p insts.Instruction, pt StageTiming) uint64 {
	if p.Op() == insts.OpLOAD {
		return pt.WB
	}
	return pt.MEM
}
