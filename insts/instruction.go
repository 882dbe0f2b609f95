package insts

import "fmt"

// Op represents an instruction opcode.
type Op uint8

// Instruction opcodes.
const (
	OpUnknown Op = iota
	OpLOAD
	OpSTORE
	OpADD
	OpSUB
)

// String returns the assembly mnemonic for the opcode.
func (o Op) String() string {
	switch o {
	case OpLOAD:
		return "LOAD"
	case OpSTORE:
		return "STORE"
	case OpADD:
		return "ADD"
	case OpSUB:
		return "SUB"
	default:
		return "UNKNOWN"
	}
}

// Reg is a register identifier. Registers are opaque and compared only for
// equality; the textual form begins with 'R' (e.g. "R1").
type Reg string

// MemLoc is a symbolic memory address. Addresses are opaque labels compared
// only for equality; there is no real memory model behind them.
type MemLoc string

// Operand is a source operand of an ALU instruction: either a register or an
// immediate. Immediates never participate in hazard analysis.
type Operand struct {
	text  string
	isReg bool
}

// RegOperand returns an operand referring to the given register.
func RegOperand(r Reg) Operand {
	return Operand{text: string(r), isReg: true}
}

// Immediate returns an immediate operand. The raw token is kept only for
// rendering; its value is irrelevant to scheduling.
func Immediate(text string) Operand {
	return Operand{text: text}
}

// Reg returns the register the operand refers to, if it is register-typed.
func (o Operand) Reg() (Reg, bool) {
	if !o.isReg {
		return "", false
	}
	return Reg(o.text), true
}

// String returns the operand's assembly form.
func (o Operand) String() string {
	return o.text
}

// Instruction is one machine operation. The four concrete kinds (Load,
// Store, Add, Sub) form a closed set; each carries only the operands
// relevant to its kind. The interface exposes exactly what hazard analysis
// needs to see.
type Instruction interface {
	// Op identifies the instruction kind.
	Op() Op

	// Dest returns the destination register. The second return is false for
	// kinds that do not write a register (Store).
	Dest() (Reg, bool)

	// SourceRegs returns the register-typed operands the instruction reads.
	// Immediate operands are excluded.
	SourceRegs() []Reg

	// Mem returns the symbolic memory location accessed. The second return
	// is false for non-memory instructions.
	Mem() (MemLoc, bool)

	// String returns the instruction in assembly form.
	String() string
}

// Load reads a memory location into a register.
type Load struct {
	Dst Reg
	Loc MemLoc
}

// Op returns OpLOAD.
func (i Load) Op() Op { return OpLOAD }

// Dest returns the register the load writes.
func (i Load) Dest() (Reg, bool) { return i.Dst, true }

// SourceRegs returns nil; a load reads no registers.
func (i Load) SourceRegs() []Reg { return nil }

// Mem returns the location the load reads.
func (i Load) Mem() (MemLoc, bool) { return i.Loc, true }

// String returns the load in assembly form.
func (i Load) String() string { return fmt.Sprintf("LOAD %s, %s", i.Dst, i.Loc) }

// Store writes a register to a memory location.
type Store struct {
	Src Reg
	Loc MemLoc
}

// Op returns OpSTORE.
func (i Store) Op() Op { return OpSTORE }

// Dest returns false; a store writes no register.
func (i Store) Dest() (Reg, bool) { return "", false }

// SourceRegs returns the register whose value is stored.
func (i Store) SourceRegs() []Reg { return []Reg{i.Src} }

// Mem returns the location the store writes.
func (i Store) Mem() (MemLoc, bool) { return i.Loc, true }

// String returns the store in assembly form.
func (i Store) String() string { return fmt.Sprintf("STORE %s, %s", i.Src, i.Loc) }

// Add computes the sum of two operands into a destination register.
type Add struct {
	Dst  Reg
	Src1 Operand
	Src2 Operand
}

// Op returns OpADD.
func (i Add) Op() Op { return OpADD }

// Dest returns the register the add writes.
func (i Add) Dest() (Reg, bool) { return i.Dst, true }

// SourceRegs returns the register-typed sources of the add.
func (i Add) SourceRegs() []Reg { return sourceRegs(i.Src1, i.Src2) }

// Mem returns false; ALU instructions do not access memory.
func (i Add) Mem() (MemLoc, bool) { return "", false }

// String returns the add in assembly form.
func (i Add) String() string {
	return fmt.Sprintf("ADD %s, %s, %s", i.Dst, i.Src1, i.Src2)
}

// Sub computes the difference of two operands into a destination register.
type Sub struct {
	Dst  Reg
	Src1 Operand
	Src2 Operand
}

// Op returns OpSUB.
func (i Sub) Op() Op { return OpSUB }

// Dest returns the register the sub writes.
func (i Sub) Dest() (Reg, bool) { return i.Dst, true }

// SourceRegs returns the register-typed sources of the sub.
func (i Sub) SourceRegs() []Reg { return sourceRegs(i.Src1, i.Src2) }

// Mem returns false; ALU instructions do not access memory.
func (i Sub) Mem() (MemLoc, bool) { return "", false }

// String returns the sub in assembly form.
func (i Sub) String() string {
	return fmt.Sprintf("SUB %s, %s, %s", i.Dst, i.Src1, i.Src2)
}

func sourceRegs(operands ...Operand) []Reg {
	var regs []Reg
	for _, o := range operands {
		if r, ok := o.Reg(); ok {
			regs = append(regs, r)
		}
	}
	return regs
}
