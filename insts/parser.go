package insts

import (
	"fmt"
	"strings"
)

// MalformedInstructionError reports a line that cannot be parsed into any
// instruction kind.
type MalformedInstructionError struct {
	// Line is the offending input line, as received.
	Line string
	// Reason describes why the line was rejected.
	Reason string
}

// Error implements the error interface.
func (e *MalformedInstructionError) Error() string {
	return fmt.Sprintf("malformed instruction %q: %s", e.Line, e.Reason)
}

// Parser parses assembly text into instructions. Every instruction it
// returns is fully well-formed; downstream consumers never re-inspect raw
// text.
type Parser struct{}

// NewParser creates a new assembly parser.
func NewParser() *Parser {
	return &Parser{}
}

// ParseLine parses a single instruction line. Tokens are separated by
// whitespace and/or commas. A source operand of ADD/SUB is a register iff
// it begins with 'R'; any other token is an immediate.
func (p *Parser) ParseLine(line string) (Instruction, error) {
	tokens := tokenize(line)
	if len(tokens) == 0 {
		return nil, &MalformedInstructionError{Line: line, Reason: "empty line"}
	}

	switch tokens[0] {
	case "LOAD", "STORE":
		return p.parseMemOp(line, tokens)
	case "ADD", "SUB":
		return p.parseALUOp(line, tokens)
	default:
		return nil, &MalformedInstructionError{
			Line:   line,
			Reason: fmt.Sprintf("unknown instruction keyword %q", tokens[0]),
		}
	}
}

// parseMemOp parses LOAD <reg>, <mem> and STORE <reg>, <mem>.
func (p *Parser) parseMemOp(line string, tokens []string) (Instruction, error) {
	if len(tokens) != 3 {
		return nil, &MalformedInstructionError{
			Line:   line,
			Reason: fmt.Sprintf("%s requires a register and a memory location", tokens[0]),
		}
	}

	if !isRegisterToken(tokens[1]) {
		return nil, &MalformedInstructionError{
			Line:   line,
			Reason: fmt.Sprintf("%s operand %q is not a register", tokens[0], tokens[1]),
		}
	}

	if tokens[0] == "LOAD" {
		return Load{Dst: Reg(tokens[1]), Loc: MemLoc(tokens[2])}, nil
	}
	return Store{Src: Reg(tokens[1]), Loc: MemLoc(tokens[2])}, nil
}

// parseALUOp parses ADD <destreg>, <src1>, <src2> and the SUB equivalent.
func (p *Parser) parseALUOp(line string, tokens []string) (Instruction, error) {
	if len(tokens) != 4 {
		return nil, &MalformedInstructionError{
			Line:   line,
			Reason: fmt.Sprintf("%s requires a destination and two sources", tokens[0]),
		}
	}

	if !isRegisterToken(tokens[1]) {
		return nil, &MalformedInstructionError{
			Line:   line,
			Reason: fmt.Sprintf("destination %q is not a register", tokens[1]),
		}
	}

	dst := Reg(tokens[1])
	src1 := parseOperand(tokens[2])
	src2 := parseOperand(tokens[3])

	if tokens[0] == "ADD" {
		return Add{Dst: dst, Src1: src1, Src2: src2}, nil
	}
	return Sub{Dst: dst, Src1: src1, Src2: src2}, nil
}

// tokenize splits a line on whitespace and commas, so both "ADD R1, R2, R3"
// and "ADD R1,R2,R3" parse identically.
func tokenize(line string) []string {
	return strings.FieldsFunc(line, func(r rune) bool {
		return r == ',' || r == ' ' || r == '\t' || r == '\r' || r == '\n'
	})
}

// isRegisterToken reports whether the token names a register.
func isRegisterToken(tok string) bool {
	return strings.HasPrefix(tok, "R")
}

// parseOperand classifies an ALU source token.
func parseOperand(tok string) Operand {
	if isRegisterToken(tok) {
		return RegOperand(Reg(tok))
	}
	return Immediate(tok)
}
