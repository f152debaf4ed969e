package cegar

import (
	"strings"

	"testing"

	"github.com/wlncore/wlncheck/pkg/guidance"
	"github.com/wlncore/wlncheck/pkg/ids"
	"github.com/wlncore/wlncheck/pkg/report"
	"github.com/wlncore/wlncheck/pkg/rtl"
	"github.com/wlncore/wlncheck/pkg/satsolver"
)

const propModule = `
module holds
  wire width 4 input 1 a
  wire width 1 output 1 y
  cell $eq eq1
    connect A a
    connect B a
    connect Y y
  end
end
`

func sourceFor(src string) Source {
	return func() (*rtl.Lib, error) {
		lib := rtl.NewLib(ids.NewNameTable(), ids.NewRangeTable())
		if err := rtl.Parse(strings.NewReader(src), lib); err != nil {
			return nil, err
		}
		if _, err := rtl.Normalize(lib); err != nil {
			return nil, err
		}
		return lib, nil
	}
}

func TestRunTrialsConverges(t *testing.T) {
	pool := NewPool(2)
	trials := []Trial{
		{
			Thresholds: Thresholds{Adder: 1, Multiplier: 1, Iterations: 5, Levels: 100},
			Task:       guidance.Task{Verb: "prove", Type: "property", ModuleA: "holds"},
		},
		{
			Thresholds: Thresholds{Adder: 2, Multiplier: 2, Iterations: 5, Levels: 100},
			Task:       guidance.Task{Verb: "prove", Type: "property", ModuleA: "holds"},
		},
	}
	limits := satsolver.Limits{BacktrackLimit: 100000, TimeLimitMs: 5000}
	results := pool.RunTrials(sourceFor(propModule), limits, trials)
	if len(results) != 2 {
		t.Fatalf("len(results) = %d, want 2", len(results))
	}
	for _, r := range results {
		if r.Outcome.Verdict != report.VerdictEqual {
			t.Errorf("trial %+v: verdict = %v, err=%s", r.Trial.Thresholds, r.Outcome.Verdict, r.Outcome.Err)
		}
	}
}

func TestGrowThreshold(t *testing.T) {
	if growThreshold(0) != 2 {
		t.Errorf("growThreshold(0) = %d, want 2", growThreshold(0))
	}
	if growThreshold(4) != 8 {
		t.Errorf("growThreshold(4) = %d, want 8", growThreshold(4))
	}
	if growThreshold(1 << 30) != 1<<30 {
		t.Errorf("growThreshold(1<<30) should stay capped")
	}
}
