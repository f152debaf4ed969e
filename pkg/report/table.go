// Package report collects and persists the outcomes of guidance-driven
// proof tasks: a mutex-guarded result table (ported from the teacher's
// pkg/result.Table) and a gob-encoded checkpoint of a backtrack- or
// time-limited run (spec §4.E/§5 "Cancellation").
package report

import (
	"encoding/json"
	"io"
	"sort"
	"sync"

	"github.com/wlncore/wlncheck/pkg/wlnerr"
)

// Verdict is the outcome of one guidance task.
type Verdict uint8

const (
	VerdictEqual Verdict = iota
	VerdictNotEqual
	VerdictUndecided
	VerdictError
)

func (v Verdict) String() string {
	switch v {
	case VerdictEqual:
		return "EQUAL"
	case VerdictNotEqual:
		return "NOT_EQUAL"
	case VerdictUndecided:
		return "UNDECIDED"
	case VerdictError:
		return "ERROR"
	}
	return "?"
}

// Outcome records one guidance-file line's result (spec §6.6: "prove
// equal|inverse|property <module-a> [<module-b>]"), replacing teacher's
// Rule (source/replacement instruction sequences) with a task
// description/verdict/counter-example record.
type Outcome struct {
	Verb      string
	Type      string
	ModuleA   string
	ModuleB   string
	Verdict   Verdict
	CounterExample []bool
	Err       string // non-empty when Verdict == VerdictError
	SATCalls  int
	ElapsedMS int64
}

// Table stores discovered outcomes, guarded the same way teacher's
// result.Table guards its rule slice: one mutex, append under lock, sorted
// copy on read.
type Table struct {
	mu       sync.Mutex
	outcomes []Outcome
}

// NewTable creates an empty table.
func NewTable() *Table {
	return &Table{}
}

// Add inserts an outcome into the table.
func (t *Table) Add(o Outcome) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.outcomes = append(t.outcomes, o)
}

// Outcomes returns a copy of all outcomes, sorted by module name then verb.
func (t *Table) Outcomes() []Outcome {
	t.mu.Lock()
	defer t.mu.Unlock()
	out := make([]Outcome, len(t.outcomes))
	copy(out, t.outcomes)
	sort.Slice(out, func(i, j int) bool {
		if out[i].ModuleA != out[j].ModuleA {
			return out[i].ModuleA < out[j].ModuleA
		}
		return out[i].Verb < out[j].Verb
	})
	return out
}

// Len returns the number of outcomes.
func (t *Table) Len() int {
	t.mu.Lock()
	defer t.mu.Unlock()
	return len(t.outcomes)
}

// FailedCount returns how many outcomes are NOT_EQUAL, UNDECIDED, or ERROR
// — used by the guidance runner's "failure logged and loop continues"
// policy to compute a final exit status.
func (t *Table) FailedCount() int {
	n := 0
	for _, o := range t.Outcomes() {
		if o.Verdict != VerdictEqual {
			n++
		}
	}
	return n
}

// WriteJSON writes all outcomes to w as a JSON array.
func WriteJSON(w io.Writer, outcomes []Outcome) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(outcomes)
}

// ReadJSON reads a JSON array of outcomes from r.
func ReadJSON(r io.Reader) ([]Outcome, error) {
	var outcomes []Outcome
	if err := json.NewDecoder(r).Decode(&outcomes); err != nil {
		return nil, &wlnerr.ParseError{Msg: err.Error()}
	}
	return outcomes, nil
}
