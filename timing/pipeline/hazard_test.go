package pipeline_test

import (
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/sarchlab/pipesim/timing/latency"
	"github.com/sarchlab/pipesim/timing/pipeline"
)

var _ = Describe("HazardUnit", func() {
	var unit *pipeline.HazardUnit

	// The producer's timing is fixed as if it were the first instruction.
	producerTiming := pipeline.StageTiming{IF: 1, ID: 2, EX: 3, MEM: 4, WB: 5}
	loadTiming := pipeline.StageTiming{IF: 1, ID: 2, EX: 3, MEM: 4, WB: 6}

	// The candidate's tentative timing one issue slot later.
	candidateTiming := pipeline.StageTiming{IF: 2, ID: 3, EX: 4, MEM: 5, WB: 6}

	kinds := func(hazards []pipeline.Hazard) []pipeline.HazardKind {
		var ks []pipeline.HazardKind
		for _, hz := range hazards {
			ks = append(ks, hz.Kind)
		}
		return ks
	}

	BeforeEach(func() {
		unit = pipeline.NewHazardUnit(latency.NewTable())
	})

	Describe("RAW detection", func() {
		It("should resolve an ALU-fed read after the producer's MEM cycle", func() {
			producer := add("R1", "R2", "R3")
			candidate := sub("R4", "R1", "R5")

			hazards := unit.Detect(candidate, candidateTiming, producer, 0, producerTiming)

			Expect(kinds(hazards)).To(ConsistOf(pipeline.HazardRAW))
			Expect(hazards[0].Resolution).To(Equal(producerTiming.MEM + 1))
			Expect(hazards[0].Deficit).To(Equal(uint64(2)))
		})

		It("should resolve a load-fed read after the load's WB cycle", func() {
			producer := load("R1", "M1")
			candidate := add("R2", "R1", "R3")

			hazards := unit.Detect(candidate, candidateTiming, producer, 0, loadTiming)

			Expect(kinds(hazards)).To(ConsistOf(pipeline.HazardRAW))
			Expect(hazards[0].Resolution).To(Equal(loadTiming.WB + 1))
			Expect(hazards[0].Deficit).To(Equal(uint64(4)))
		})

		It("should match either source operand", func() {
			producer := add("R1", "R2", "R3")

			first := unit.Detect(sub("R4", "R1", "R5"), candidateTiming, producer, 0, producerTiming)
			second := unit.Detect(sub("R4", "R5", "R1"), candidateTiming, producer, 0, producerTiming)

			Expect(first).NotTo(BeEmpty())
			Expect(second).NotTo(BeEmpty())
		})

		It("should ignore immediate operands", func() {
			producer := add("R1", "R2", "R3")
			candidate := add("R4", "10", "20")

			hazards := unit.Detect(candidate, candidateTiming, producer, 0, producerTiming)

			Expect(hazards).To(BeEmpty())
		})

		It("should not fire against a store producer", func() {
			// A store writes no register, so nothing can read after its
			// write.
			producer := store("R1", "M1")
			candidate := add("R2", "R1", "R3")

			hazards := unit.Detect(candidate, candidateTiming, producer, 0, producerTiming)

			// Only memory-related classes could apply, and an ALU candidate
			// triggers neither.
			Expect(hazards).To(BeEmpty())
		})

		It("should not fire once the candidate's Decode is past the availability cycle", func() {
			producer := load("R1", "M1")
			candidate := add("R2", "R1", "R3")
			lateTiming := pipeline.StageTiming{IF: 6, ID: 7, EX: 8, MEM: 9, WB: 10}

			hazards := unit.Detect(candidate, lateTiming, producer, 0, loadTiming)

			Expect(hazards).To(BeEmpty())
		})
	})

	Describe("WAR detection", func() {
		It("should hold a register write until the producer has read it", func() {
			producer := add("R1", "R2", "R3")
			candidate := add("R2", "R5", "R6")
			earlyTiming := pipeline.StageTiming{IF: 1, ID: 2, EX: 3, MEM: 4, WB: 5}

			hazards := unit.Detect(candidate, earlyTiming, producer, 0, producerTiming)

			Expect(kinds(hazards)).To(ConsistOf(pipeline.HazardWAR))
			Expect(hazards[0].Resolution).To(Equal(producerTiming.ID + 1))
		})

		It("should treat a store's data register as a read", func() {
			producer := store("R1", "M1")
			candidate := add("R1", "R2", "R3")
			earlyTiming := pipeline.StageTiming{IF: 1, ID: 2, EX: 3, MEM: 4, WB: 5}

			hazards := unit.Detect(candidate, earlyTiming, producer, 0, producerTiming)

			Expect(kinds(hazards)).To(ContainElement(pipeline.HazardWAR))
		})

		It("should not fire when the candidate decodes after the producer", func() {
			producer := add("R1", "R2", "R3")
			candidate := add("R2", "R5", "R6")

			hazards := unit.Detect(candidate, candidateTiming, producer, 0, producerTiming)

			Expect(hazards).To(BeEmpty())
		})
	})

	Describe("WAW detection", func() {
		It("should hold a writeback until the producer has committed", func() {
			producer := load("R1", "M1")
			candidate := add("R1", "R2", "R3")

			hazards := unit.Detect(candidate, candidateTiming, producer, 0, loadTiming)

			Expect(kinds(hazards)).To(ConsistOf(pipeline.HazardWAW))
			Expect(hazards[0].Resolution).To(Equal(loadTiming.WB + 1))
			Expect(hazards[0].Deficit).To(Equal(uint64(1)))
		})

		It("should not fire for distinct destinations", func() {
			producer := add("R1", "R2", "R3")
			candidate := add("R4", "R5", "R6")

			hazards := unit.Detect(candidate, candidateTiming, producer, 0, producerTiming)

			Expect(hazards).To(BeEmpty())
		})
	})

	Describe("memory classes", func() {
		It("should order same-location accesses and flag the structural conflict", func() {
			producer := store("R1", "M1")
			candidate := load("R2", "M1")

			hazards := unit.Detect(candidate, candidateTiming, producer, 0, producerTiming)

			Expect(kinds(hazards)).To(ConsistOf(pipeline.HazardStructural))
			// The same-location rule (MEM >= 5) is already met by the
			// tentative timing; only the two-cycle structural spacing is
			// outstanding.
			Expect(hazards[0].Resolution).To(Equal(producerTiming.MEM + 2))
			Expect(hazards[0].Deficit).To(Equal(uint64(1)))
		})

		It("should report the memory-order class when the candidate trails further behind", func() {
			producer := store("R1", "M1")
			candidate := load("R2", "M1")
			earlyTiming := pipeline.StageTiming{IF: 1, ID: 2, EX: 3, MEM: 4, WB: 6}

			hazards := unit.Detect(candidate, earlyTiming, producer, 0, producerTiming)

			Expect(kinds(hazards)).To(ConsistOf(
				pipeline.HazardMemoryOrder, pipeline.HazardStructural))
		})

		It("should flag the structural conflict regardless of address", func() {
			producer := load("R1", "M1")
			candidate := store("R2", "M9")

			hazards := unit.Detect(candidate, candidateTiming, producer, 0, loadTiming)

			Expect(kinds(hazards)).To(ConsistOf(pipeline.HazardStructural))
		})

		It("should not fire between a memory op and an ALU op", func() {
			producer := load("R1", "M1")
			candidate := add("R2", "R3", "R4")

			hazards := unit.Detect(candidate, candidateTiming, producer, 0, loadTiming)

			Expect(hazards).To(BeEmpty())
		})
	})

	Describe("hazard kind names", func() {
		It("should render each class", func() {
			Expect(pipeline.HazardRAW.String()).To(Equal("RAW"))
			Expect(pipeline.HazardWAR.String()).To(Equal("WAR"))
			Expect(pipeline.HazardWAW.String()).To(Equal("WAW"))
			Expect(pipeline.HazardMemoryOrder.String()).To(Equal("memory-order"))
			Expect(pipeline.HazardStructural.String()).To(Equal("structural"))
		})
	})
})
