package rtl

import "github.com/wlncore/wlncheck/pkg/ids"

// Connection is a free-standing `connect lhs rhs` statement (spec §4.C).
type Connection struct {
	Lhs, Rhs Signal
}

// Module is one RTL module: wires, cells, free-standing connections, and
// the role flags the original ABC reader tracks for hierarchy-aware
// bit-blasting (spec §3.4 "role flags (root, boundary)"; supplemented from
// original_source/abc/src/base/wln/wlnRead.c's fRoot handling).
type Module struct {
	NameID ids.NameID

	Wires       []Wire
	Cells       []Cell
	Connections []Connection

	// Root marks a module that was explicitly designated the top of a
	// collapse/blast (the `-T top` argument, §6.1).
	Root bool
	// Boundary marks a module whose call sites get barrier buffers during
	// bit-blasting (the `hierarchy <module>` command, §6.1; consumed by
	// pkg/blast/barrier.go).
	Boundary bool

	wireIndex map[ids.NameID]int // built lazily by WireIndex
	iCopy     int                // new position after module-reordering DFS (spec §4.C step 3)
}

// WireIndex returns the module-local wire index for name, building a
// lookup index on first use. Spec §4.C invariant: "names inside a module
// are unique", so this is a total function once the module is well-formed.
func (m *Module) WireIndex(name ids.NameID) (int, bool) {
	if m.wireIndex == nil || len(m.wireIndex) != len(m.Wires) {
		m.wireIndex = make(map[ids.NameID]int, len(m.Wires))
		for i, w := range m.Wires {
			m.wireIndex[w.NameID] = i
		}
	}
	idx, ok := m.wireIndex[name]
	return idx, ok
}

// invalidateWireIndex forces WireIndex to rebuild on next call; used after
// any pass that mutates m.Wires in place (normalize.go's reordering).
func (m *Module) invalidateWireIndex() { m.wireIndex = nil }
