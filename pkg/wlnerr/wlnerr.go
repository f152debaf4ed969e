// Package wlnerr defines the closed set of error kinds surfaced at the core
// boundary (spec §7). Most are plain values returned from fallible
// operations; InvariantViolation is always fatal and is raised by panic
// rather than returned, matching its "Panic / abort (always fatal)"
// recovery semantics.
package wlnerr

import "fmt"

// NotFound reports a missing file, module, or named object.
type NotFound struct {
	What string
	Name string
}

func (e *NotFound) Error() string { return fmt.Sprintf("%s not found: %s", e.What, e.Name) }

// ParseError reports an invalid RTLIL/Verilog token stream.
type ParseError struct {
	Line int
	Col  int
	Msg  string
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("parse error at %d:%d: %s", e.Line, e.Col, e.Msg)
}

// UnsupportedOperator reports a cell type without a bit-blast expander.
type UnsupportedOperator struct {
	Type string
}

func (e *UnsupportedOperator) Error() string { return "unsupported operator: " + e.Type }

// UnsupportedFeature reports a feature the blaster intentionally refuses,
// e.g. an asynchronous-reset flop.
type UnsupportedFeature struct {
	What string
}

func (e *UnsupportedFeature) Error() string { return "unsupported feature: " + e.What }

// WidthMismatch reports an operand width inconsistent with a declared
// output width.
type WidthMismatch struct {
	Object   string
	Declared int
	Got      int
}

func (e *WidthMismatch) Error() string {
	return fmt.Sprintf("width mismatch on %s: declared %d, got %d", e.Object, e.Declared, e.Got)
}

// Cycle reports a combinational loop found during acyclicity checking.
type Cycle struct {
	Object int32
	Path   []int32
}

func (e *Cycle) Error() string { return fmt.Sprintf("combinational cycle through object %d", e.Object) }

// Undecided reports a SAT call that hit its backtrack or time limit.
type Undecided struct {
	Reason string
}

func (e *Undecided) Error() string { return "undecided: " + e.Reason }

// OutOfMemory reports allocation failure in an intern pool or node arena.
type OutOfMemory struct{}

func (e *OutOfMemory) Error() string { return "out of memory" }

// InvariantViolation is a programmer error in the core. Callers should not
// try to recover from it; Raise panics immediately, matching spec §7's
// "Panic / abort (always fatal)" recovery column.
type InvariantViolation struct {
	Msg string
}

func (e *InvariantViolation) Error() string { return "invariant violation: " + e.Msg }

// Raise panics with an InvariantViolation. Used at every call site that
// detects programmer error rather than bad input (e.g. add_fanin into a
// slot that does not accept fanins).
func Raise(format string, args ...any) {
	panic(&InvariantViolation{Msg: fmt.Sprintf(format, args...)})
}
