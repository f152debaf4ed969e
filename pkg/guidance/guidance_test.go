package guidance

import (
	"strings"
	"testing"

	"github.com/wlncore/wlncheck/pkg/aig"
	"github.com/wlncore/wlncheck/pkg/blast"
	"github.com/wlncore/wlncheck/pkg/ids"
	"github.com/wlncore/wlncheck/pkg/report"
	"github.com/wlncore/wlncheck/pkg/rtl"
	"github.com/wlncore/wlncheck/pkg/satsolver"
)

func newTestLib() *rtl.Lib {
	return rtl.NewLib(ids.NewNameTable(), ids.NewRangeTable())
}

func defaultLimits() satsolver.Limits {
	return satsolver.Limits{BacktrackLimit: 100000, TimeLimitMs: 5000}
}

func TestParseGuidance(t *testing.T) {
	const src = `
# a comment
prove property ok_prop
prove equal sum_a sum_b
`
	tasks, err := Parse(strings.NewReader(src))
	if err != nil {
		t.Fatalf("Parse() = %v", err)
	}
	if len(tasks) != 2 {
		t.Fatalf("len(tasks) = %d, want 2", len(tasks))
	}
	if tasks[0].Type != "property" || tasks[0].ModuleA != "ok_prop" || tasks[0].ModuleB != "" {
		t.Errorf("tasks[0] = %+v", tasks[0])
	}
	if tasks[1].ModuleB != "sum_b" {
		t.Errorf("tasks[1] = %+v", tasks[1])
	}
}

func TestParseGuidanceBadLine(t *testing.T) {
	if _, err := Parse(strings.NewReader("prove equal only_one_module extra extra2\n")); err == nil {
		t.Fatal("expected error for too many tokens")
	}
}

const twoAddersRTLIL = `
module sum_a
  wire width 4 input 1 a
  wire width 4 input 2 b
  wire width 4 output 1 y
  cell $add add1
    connect A a
    connect B b
    connect Y y
  end
end
module sum_b
  wire width 4 input 1 a
  wire width 4 input 2 b
  wire width 4 output 1 y
  cell $add add1
    connect A b
    connect B a
    connect Y y
  end
end
`

func buildLib(t *testing.T, src string) *rtl.Lib {
	t.Helper()
	lib := newTestLib()
	if err := rtl.Parse(strings.NewReader(src), lib); err != nil {
		t.Fatalf("Parse() = %v", err)
	}
	if _, err := rtl.Normalize(lib); err != nil {
		t.Fatalf("Normalize() = %v", err)
	}
	return lib
}

func TestRunEqualCommutativeAdders(t *testing.T) {
	lib := buildLib(t, twoAddersRTLIL)
	g := aig.NewGraph(0, 0)
	tasks := []Task{{Verb: "prove", Type: "equal", ModuleA: "sum_a", ModuleB: "sum_b"}}
	table := Run(lib, g, blast.DefaultOptions(), defaultLimits(), tasks)
	outs := table.Outcomes()
	if len(outs) != 1 {
		t.Fatalf("len(outcomes) = %d, want 1", len(outs))
	}
	if outs[0].Verdict != report.VerdictEqual {
		t.Errorf("Verdict = %v, want VerdictEqual (err=%s)", outs[0].Verdict, outs[0].Err)
	}
}

const nonEqualRTLIL = `
module sum_a
  wire width 4 input 1 a
  wire width 4 input 2 b
  wire width 4 output 1 y
  cell $add add1
    connect A a
    connect B b
    connect Y y
  end
end
module sum_b
  wire width 4 input 1 a
  wire width 4 input 2 b
  wire width 4 output 1 y
  cell $sub sub1
    connect A a
    connect B b
    connect Y y
  end
end
`

func TestRunEqualMismatch(t *testing.T) {
	lib := buildLib(t, nonEqualRTLIL)
	g := aig.NewGraph(0, 0)
	tasks := []Task{{Verb: "prove", Type: "equal", ModuleA: "sum_a", ModuleB: "sum_b"}}
	table := Run(lib, g, blast.DefaultOptions(), defaultLimits(), tasks)
	outs := table.Outcomes()
	if outs[0].Verdict != report.VerdictNotEqual {
		t.Errorf("Verdict = %v, want VerdictNotEqual", outs[0].Verdict)
	}
	if len(outs[0].CounterExample) == 0 {
		t.Error("expected a counter-example to be captured")
	}
}

const selfEqualAlwaysTrueRTLIL = `
module ok_prop
  wire width 4 input 1 a
  wire width 1 output 1 y
  cell $eq eq1
    connect A a
    connect B a
    connect Y y
  end
end
`

func TestRunPropertyHolds(t *testing.T) {
	lib := buildLib(t, selfEqualAlwaysTrueRTLIL)
	g := aig.NewGraph(0, 0)
	tasks := []Task{{Verb: "prove", Type: "property", ModuleA: "ok_prop"}}
	table := Run(lib, g, blast.DefaultOptions(), defaultLimits(), tasks)
	outs := table.Outcomes()
	if outs[0].Verdict != report.VerdictEqual {
		t.Errorf("Verdict = %v, want VerdictEqual (err=%s)", outs[0].Verdict, outs[0].Err)
	}
}

// encDecRTLIL models spec §8 scenario 5: enc widens a 2-bit value into a
// 4-bit one by padding zeros underneath, dec_good recovers the original
// value from the high half, dec_bad reads the low (zero) half instead.
// enc/dec deliberately have different PI/PO widths (2 vs 4), which a
// same-index PO comparison cannot even express.
const encDecRTLIL = `
module enc
  wire width 2 input 1 x
  wire width 4 output 1 y
  connect y { x 2'b00 }
end
module dec_good
  wire width 4 input 1 y
  wire width 2 output 1 x
  connect x y[3:2]
end
module dec_bad
  wire width 4 input 1 y
  wire width 2 output 1 x
  connect x y[1:0]
end
`

func TestRunInverseDifferentWidthsHolds(t *testing.T) {
	lib := buildLib(t, encDecRTLIL)
	g := aig.NewGraph(0, 0)
	tasks := []Task{{Verb: "prove", Type: "inverse", ModuleA: "enc", ModuleB: "dec_good"}}
	table := Run(lib, g, blast.DefaultOptions(), defaultLimits(), tasks)
	outs := table.Outcomes()
	if outs[0].Verdict != report.VerdictEqual {
		t.Errorf("Verdict = %v, want VerdictEqual (err=%s)", outs[0].Verdict, outs[0].Err)
	}
}

func TestRunInverseDifferentWidthsFails(t *testing.T) {
	lib := buildLib(t, encDecRTLIL)
	g := aig.NewGraph(0, 0)
	tasks := []Task{{Verb: "prove", Type: "inverse", ModuleA: "enc", ModuleB: "dec_bad"}}
	table := Run(lib, g, blast.DefaultOptions(), defaultLimits(), tasks)
	outs := table.Outcomes()
	if outs[0].Verdict != report.VerdictNotEqual {
		t.Errorf("Verdict = %v, want VerdictNotEqual (err=%s)", outs[0].Verdict, outs[0].Err)
	}
}

func TestRunUnknownModule(t *testing.T) {
	lib := buildLib(t, twoAddersRTLIL)
	g := aig.NewGraph(0, 0)
	tasks := []Task{{Verb: "prove", Type: "property", ModuleA: "does_not_exist"}}
	table := Run(lib, g, blast.DefaultOptions(), defaultLimits(), tasks)
	outs := table.Outcomes()
	if outs[0].Verdict != report.VerdictError {
		t.Errorf("Verdict = %v, want VerdictError", outs[0].Verdict)
	}
}
