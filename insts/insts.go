// Package insts provides the instruction model and assembly-text parsing.
//
// This package implements parsing of a small assembly dialect into structured
// instruction representations. It supports:
//   - Memory operations: LOAD, STORE against symbolic memory locations
//   - ALU operations: ADD, SUB with register or immediate sources
//
// Usage:
//
//	parser := insts.NewParser()
//	inst, err := parser.ParseLine("ADD R1, R2, R3")
//	fmt.Printf("Op: %v, Dest: %v\n", inst.Op(), inst)
package insts
