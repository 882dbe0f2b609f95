package pipeline

import (
	"fmt"

	"github.com/sarchlab/pipesim/insts"
	"github.com/sarchlab/pipesim/timing/latency"
)

// StallEvent records one stall decision: which instruction waited, on whom,
// why, and by how much it moved. The trace is diagnostic only and never
// feeds back into scheduling.
type StallEvent struct {
	// Index is the instruction that stalled.
	Index int
	// Producer is the earlier instruction that caused the stall.
	Producer int
	// Kind is the governing hazard class.
	Kind HazardKind
	// Resolution is the earliest cycle at which the constrained stage was
	// allowed to run.
	Resolution uint64
	// Shift is the number of cycles the instruction moved forward.
	Shift uint64
}

// Statistics holds scheduling statistics.
type Statistics struct {
	// Instructions is the number of instructions scheduled.
	Instructions uint64
	// Stalls is the number of stall decisions taken.
	Stalls uint64
	// StallCycles is the total number of cycles lost to stalls.
	StallCycles uint64
	// TotalCycles is the cycle on which the pipeline fully drains.
	TotalCycles uint64
}

// CPI returns cycles per instruction.
func (s Statistics) CPI() float64 {
	if s.Instructions == 0 {
		return 0
	}
	return float64(s.TotalCycles) / float64(s.Instructions)
}

// Schedule is the result of scheduling an instruction sequence. Timings[i]
// is the final stage assignment of Instructions[i].
type Schedule struct {
	Instructions []insts.Instruction
	Timings      []StageTiming
	Trace        []StallEvent

	stats Statistics
}

// TotalCycles returns the maximum writeback cycle across all instructions,
// or 0 for the empty sequence.
func (s *Schedule) TotalCycles() uint64 {
	return s.stats.TotalCycles
}

// Stats returns scheduling statistics.
func (s *Schedule) Stats() Statistics {
	return s.stats
}

// Scheduler assigns stage cycles to instruction sequences. Scheduling is a
// pure function of the input sequence and the timing table: the same input
// always yields the same schedule.
type Scheduler struct {
	table   *latency.Table
	hazards *HazardUnit
}

// SchedulerOption configures a Scheduler.
type SchedulerOption func(*Scheduler)

// WithTable sets the timing table used for scheduling.
func WithTable(table *latency.Table) SchedulerOption {
	return func(s *Scheduler) {
		s.table = table
	}
}

// NewScheduler creates a scheduler with default timing.
func NewScheduler(opts ...SchedulerOption) *Scheduler {
	s := &Scheduler{
		table: latency.NewTable(),
	}

	for _, opt := range opts {
		opt(s)
	}

	s.hazards = NewHazardUnit(s.table)

	return s
}

// Schedule processes the sequence strictly in program order. Each
// instruction is seeded at its earliest in-order cycles and then pushed
// forward until no hazard against the scheduled history remains; its cycles
// are immutable from then on.
func (s *Scheduler) Schedule(prog []insts.Instruction) *Schedule {
	sched := &Schedule{
		Instructions: prog,
		Timings:      make([]StageTiming, len(prog)),
	}

	for i, inst := range prog {
		timing := s.seed(i, inst, sched.Timings)
		if i > 0 {
			s.resolveHazards(i, inst, &timing, sched)
		}
		sched.Timings[i] = timing
	}

	s.fillStats(sched)

	return sched
}

// seed assigns the earliest in-order cycles: the first instruction enters
// fetch on cycle 1, every later one enters fetch one issue interval after
// its predecessor, and each stage follows the previous by one stage latency
// (loads take longer from Memory to Writeback).
func (s *Scheduler) seed(i int, inst insts.Instruction, timings []StageTiming) StageTiming {
	step := s.table.StageLatency()

	timing := StageTiming{IF: 1}
	if i > 0 {
		timing.IF = timings[i-1].IF + s.table.IssueInterval()
	}
	timing.ID = timing.IF + step
	timing.EX = timing.ID + step
	timing.MEM = timing.EX + step
	timing.WB = timing.MEM + s.table.WritebackLatency(inst.Op())

	return timing
}

// resolveHazards runs the fixed-point stall loop for instruction i: find the
// latest-resolving outstanding hazard against the full history, shift all
// five stages by its deficit, and re-check, since a shift can newly violate
// a constraint from a different producer. Every shift strictly increases all
// cycle values, and all constraints are bounded by the fixed cycles of
// earlier instructions, so the loop terminates.
func (s *Scheduler) resolveHazards(
	i int, inst insts.Instruction,
	timing *StageTiming, sched *Schedule,
) {
	bound := s.shiftBound(i, sched.Timings)

	var shifted uint64
	for {
		worst, found := s.worstHazard(i, inst, *timing, sched)
		if !found {
			return
		}

		timing.Shift(worst.Deficit)
		shifted += worst.Deficit
		sched.Trace = append(sched.Trace, StallEvent{
			Index:      i,
			Producer:   worst.Producer,
			Kind:       worst.Kind,
			Resolution: worst.Resolution,
			Shift:      worst.Deficit,
		})

		if shifted > bound {
			panic(fmt.Sprintf(
				"pipeline: stall loop for instruction %d exceeded bound %d",
				i, bound))
		}
	}
}

// worstHazard returns the latest-resolving outstanding hazard against any
// earlier instruction.
func (s *Scheduler) worstHazard(
	i int, inst insts.Instruction,
	timing StageTiming, sched *Schedule,
) (Hazard, bool) {
	var worst Hazard
	found := false

	for j := 0; j < i; j++ {
		detected := s.hazards.Detect(
			inst, timing, sched.Instructions[j], j, sched.Timings[j])
		for _, hz := range detected {
			if !found || hz.Deficit > worst.Deficit {
				worst = hz
				found = true
			}
		}
	}

	return worst, found
}

// shiftBound is a safety bound on the total shift of one instruction. Every
// constraint resolves no later than the largest writeback cycle in the
// history plus the largest interval constant, so exceeding this bound means
// an internal inconsistency, not a schedulable input.
func (s *Scheduler) shiftBound(i int, timings []StageTiming) uint64 {
	var maxWB uint64
	for j := 0; j < i; j++ {
		if timings[j].WB > maxWB {
			maxWB = timings[j].WB
		}
	}
	return maxWB + s.table.MemoryUnitInterval() + s.table.WritebackLatency(insts.OpLOAD) + 1
}

// fillStats computes the schedule statistics from the final timings and
// trace.
func (s *Scheduler) fillStats(sched *Schedule) {
	stats := Statistics{
		Instructions: uint64(len(sched.Instructions)),
		Stalls:       uint64(len(sched.Trace)),
	}

	for _, ev := range sched.Trace {
		stats.StallCycles += ev.Shift
	}
	for _, t := range sched.Timings {
		if t.WB > stats.TotalCycles {
			stats.TotalCycles = t.WB
		}
	}

	sched.stats = stats
}
