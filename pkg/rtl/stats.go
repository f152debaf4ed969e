package rtl

import "github.com/wlncore/wlncheck/pkg/wln"

// Stats summarizes one module's object population for the `ps` command
// (spec §6.1 "flags -cbamdto select detail: cones, multipliers, adders,
// memories, object listing").
type Stats struct {
	WireCount  int
	InputBits  int
	OutputBits int

	CellCount int
	AdderCount      int
	MultiplierCount int
	MemoryCount     int

	// ByType counts cells per operator tag, keyed by wln.ObjType.String().
	ByType map[string]int
}

// Ps computes Stats for module modIdx, matching the counting rules the
// `ps` flags select: adders/subtractors under -a, multipliers under -m,
// memories under -d (mem_r/mem_w), full object dump under -o.
func Ps(lib *Lib, modIdx int) Stats {
	m := lib.Modules[modIdx]
	st := Stats{WireCount: len(m.Wires), CellCount: len(m.Cells), ByType: make(map[string]int)}

	for _, w := range m.Wires {
		if w.IsInput() {
			st.InputBits += int(w.Width)
		}
		if w.IsOutput() {
			st.OutputBits += int(w.Width)
		}
	}

	for _, c := range m.Cells {
		if c.ModuleRef >= 0 {
			st.ByType["<submodule>"]++
			continue
		}
		st.ByType[c.OperatorCode.String()]++
		switch c.OperatorCode {
		case wln.Add, wln.Sub, wln.AddSub:
			st.AdderCount++
		case wln.Mul:
			st.MultiplierCount++
		case wln.RamR, wln.RamW:
			st.MemoryCount++
		}
	}
	return st
}
