// Package pipeline provides hazard detection and cycle scheduling for a
// five-stage in-order pipeline model.
package pipeline

import "fmt"

// Stage identifies one of the five pipeline stages.
type Stage uint8

// Pipeline stages, in the order an instruction passes through them.
const (
	StageIF Stage = iota
	StageID
	StageEX
	StageMEM
	StageWB
)

// String returns the conventional stage abbreviation.
func (s Stage) String() string {
	switch s {
	case StageIF:
		return "IF"
	case StageID:
		return "ID"
	case StageEX:
		return "EX"
	case StageMEM:
		return "MEM"
	case StageWB:
		return "WB"
	default:
		return "??"
	}
}

// StageTiming holds the cycle on which an instruction occupies each pipeline
// stage. A zero value means the instruction is unscheduled. Once final, the
// cycles strictly increase IF < ID < EX < MEM < WB.
type StageTiming struct {
	IF  uint64
	ID  uint64
	EX  uint64
	MEM uint64
	WB  uint64
}

// Cycle returns the cycle assigned to the given stage.
func (t StageTiming) Cycle(s Stage) uint64 {
	switch s {
	case StageIF:
		return t.IF
	case StageID:
		return t.ID
	case StageEX:
		return t.EX
	case StageMEM:
		return t.MEM
	case StageWB:
		return t.WB
	default:
		return 0
	}
}

// Shift moves every stage forward by n cycles. Shifting is the only way a
// stall is applied, so all five cycles always move together.
func (t *StageTiming) Shift(n uint64) {
	t.IF += n
	t.ID += n
	t.EX += n
	t.MEM += n
	t.WB += n
}

// String renders the timing as a stage-cycle listing.
func (t StageTiming) String() string {
	return fmt.Sprintf("IF=%d ID=%d EX=%d MEM=%d WB=%d",
		t.IF, t.ID, t.EX, t.MEM, t.WB)
}
