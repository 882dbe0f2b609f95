// Package loader reads instruction listings into programs.
//
// The input format is an instruction count on the first line followed by
// that many assembly lines:
//
//	3
//	LOAD R1, M1
//	ADD R2, R1, R3
//	STORE R2, M2
package loader

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/sarchlab/pipesim/insts"
)

// ErrTruncatedProgram indicates fewer instruction lines than the declared
// count, or a missing count line.
var ErrTruncatedProgram = errors.New("truncated program")

// Program is an ordered instruction sequence. The slice order is program
// order and also issue order; it is never reordered.
type Program struct {
	Instructions []insts.Instruction
}

// Read parses a program from r. Blank lines between instructions are
// skipped. Parse failures are wrapped with their 1-based line number.
func Read(r io.Reader) (*Program, error) {
	scanner := bufio.NewScanner(r)
	parser := insts.NewParser()

	count, lineNo, err := readCount(scanner)
	if err != nil {
		return nil, err
	}

	prog := &Program{}
	for len(prog.Instructions) < count {
		line, n, ok := nextLine(scanner, lineNo)
		lineNo = n
		if !ok {
			if err := scanner.Err(); err != nil {
				return nil, fmt.Errorf("failed to read program: %w", err)
			}
			return nil, fmt.Errorf("%w: expected %d instructions, got %d",
				ErrTruncatedProgram, count, len(prog.Instructions))
		}

		inst, err := parser.ParseLine(line)
		if err != nil {
			return nil, fmt.Errorf("line %d: %w", lineNo, err)
		}
		prog.Instructions = append(prog.Instructions, inst)
	}

	return prog, nil
}

// ReadFile parses a program from the file at path.
func ReadFile(path string) (*Program, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open program file: %w", err)
	}
	defer f.Close()

	return Read(f)
}

// readCount reads the instruction-count line and returns the count and the
// line number it was found on.
func readCount(scanner *bufio.Scanner) (int, int, error) {
	line, lineNo, ok := nextLine(scanner, 0)
	if !ok {
		if err := scanner.Err(); err != nil {
			return 0, lineNo, fmt.Errorf("failed to read program: %w", err)
		}
		return 0, lineNo, fmt.Errorf("%w: missing instruction count", ErrTruncatedProgram)
	}

	count, err := strconv.Atoi(line)
	if err != nil || count < 0 {
		return 0, lineNo, fmt.Errorf("invalid instruction count %q", line)
	}

	return count, lineNo, nil
}

// nextLine returns the next non-blank line and its 1-based line number.
func nextLine(scanner *bufio.Scanner, lineNo int) (string, int, bool) {
	for scanner.Scan() {
		lineNo++
		line := strings.TrimSpace(scanner.Text())
		if line != "" {
			return line, lineNo, true
		}
	}
	return "", lineNo, false
}
