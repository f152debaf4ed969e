package rtl

import "github.com/wlncore/wlncheck/pkg/wlnerr"

// Normalize runs the four-step pipeline of spec §4.C in order: range
// normalization, parent linking, module reordering, wire reordering. It
// mutates lib in place and returns the first reported-but-not-fatal
// unresolved-reference count (spec: "Unresolved references are reported
// but not fatal").
func Normalize(lib *Lib) (unresolved int, err error) {
	normalizeRanges(lib)
	unresolved = linkParents(lib)
	if err := reorderModules(lib); err != nil {
		return unresolved, err
	}
	reorderWires(lib)
	return unresolved, nil
}

// normalizeRanges implements step 1: for every slice whose base wire has a
// non-zero Offset, subtract the offset from Hi/Lo; for every slice whose
// base wire is declared `upto`, swap Hi/Lo so ranges are expressed
// MSB-first regardless of declaration order (spec §4.C "upto flag is
// cleared by swapping endpoints inside every slice").
func normalizeRanges(lib *Lib) {
	for i := range lib.Slices {
		s := &lib.Slices[i]
		if s.Base.Kind != SigWire {
			continue
		}
		m := lib.Modules[s.ModuleIdx]
		w := m.Wires[s.Base.Payload]
		if w.Offset != 0 {
			s.Hi -= w.Offset
			s.Lo -= w.Offset
		}
		if w.Upto {
			s.Hi, s.Lo = s.Lo, s.Hi
		}
	}
	for _, m := range lib.Modules {
		for i := range m.Wires {
			m.Wires[i].Upto = false
		}
	}
}

// linkParents implements step 2: resolve every cell's type to either an
// operator code (already done at parse time for `$`-prefixed types) or a
// module index, now that every module in the file has been registered.
// Returns the count of cells whose type resolved to neither.
func linkParents(lib *Lib) int {
	unresolved := 0
	for _, m := range lib.Modules {
		for i := range m.Cells {
			c := &m.Cells[i]
			if c.ModuleRef >= 0 || c.OperatorCode != 0 {
				continue // already resolved as an operator at parse time
			}
			typeName := lib.Names.Lookup(c.TypeName)
			if idx, ok := lib.ModuleByName(typeName); ok {
				c.ModuleRef = idx
			} else {
				unresolved++
			}
		}
	}
	return unresolved
}

// reorderModules implements step 3: a DFS over the cell-instantiation
// graph (leaves first) assigning m.iCopy to the new position, then
// physically permutes lib.Modules so index order matches iCopy order.
// Spec §4.C invariant: "No module contains a cell referring to a module
// that has not yet been normalized."
func reorderModules(lib *Lib) error {
	n := len(lib.Modules)
	order := make([]int, 0, n)
	state := make([]uint8, n) // 0=white, 1=gray, 2=black

	var visit func(idx int) error
	visit = func(idx int) error {
		switch state[idx] {
		case 2:
			return nil
		case 1:
			return &wlnerr.InvariantViolation{Msg: "module instantiation cycle"}
		}
		state[idx] = 1
		for _, c := range lib.Modules[idx].Cells {
			if c.ModuleRef >= 0 {
				if err := visit(c.ModuleRef); err != nil {
					return err
				}
			}
		}
		state[idx] = 2
		lib.Modules[idx].iCopy = len(order)
		order = append(order, idx)
		return nil
	}

	for idx := 0; idx < n; idx++ {
		if err := visit(idx); err != nil {
			return err
		}
	}

	// order[newIdx] == oldIdx. oldToNew is its inverse.
	oldToNew := make([]int, n)
	for newIdx, oldIdx := range order {
		oldToNew[oldIdx] = newIdx
	}

	newModules := make([]*Module, n)
	for oldIdx, m := range lib.Modules {
		newModules[oldToNew[oldIdx]] = m
	}
	lib.Modules = newModules

	for _, m := range lib.Modules {
		for i := range m.Cells {
			if m.Cells[i].ModuleRef >= 0 {
				m.Cells[i].ModuleRef = oldToNew[m.Cells[i].ModuleRef]
			}
		}
	}
	lib.rebuildModuleIndex()
	return nil
}

func (l *Lib) rebuildModuleIndex() {
	for i, m := range l.Modules {
		l.moduleIndex[m.NameID] = i
	}
}

// reorderWires implements step 4: within each module, permute wires so all
// inputs (ascending input number) come first, then all outputs (ascending
// output number), then internal wires in original order; rewrite every
// upstream cell's positional connection list so the k-th connection still
// targets the k-th wire of the callee in its new order.
func reorderWires(lib *Lib) {
	for mi, m := range lib.Modules {
		n := len(m.Wires)
		var inputs, outputs, internals []int
		for i, w := range m.Wires {
			switch {
			case w.IsInput():
				inputs = append(inputs, i)
			case w.IsOutput():
				outputs = append(outputs, i)
			default:
				internals = append(internals, i)
			}
		}
		sortByFieldAsc(inputs, func(i int) int32 { return m.Wires[i].InputNum })
		sortByFieldAsc(outputs, func(i int) int32 { return m.Wires[i].OutputNum })

		perm := make([]int, 0, n)
		perm = append(perm, inputs...)
		perm = append(perm, outputs...)
		perm = append(perm, internals...)

		newWires := make([]Wire, n)
		oldToNewWire := make([]int, n)
		for newIdx, oldIdx := range perm {
			newWires[newIdx] = m.Wires[oldIdx]
			oldToNewWire[oldIdx] = newIdx
		}
		m.Wires = newWires
		m.invalidateWireIndex()

		// Fix up this module's own signal references (slices, direct
		// connections) that pointed at old wire indices.
		remapWireSignal := func(s *Signal) {
			if s.Kind == SigWire {
				s.Payload = uint32(oldToNewWire[s.Payload])
			}
		}
		for i := range lib.Slices {
			sl := &lib.Slices[i]
			if sl.ModuleIdx == mi && sl.Base.Kind == SigWire {
				remapWireSignal(&sl.Base)
			}
		}
		for i := range m.Connections {
			remapWireSignal(&m.Connections[i].Lhs)
			remapWireSignal(&m.Connections[i].Rhs)
		}
		for ci := range m.Cells {
			for si := range m.Cells[ci].Connections {
				remapWireSignal(&m.Cells[ci].Connections[si])
			}
		}
	}

	// Now rewrite positional connection ordering on every upstream cell
	// instantiating a module whose wire order changed: the k-th
	// connection must target the k-th port of the callee's NEW wire
	// order. We reorder each cell's Connections/PortNames slice to match
	// the callee's new port order, using the port name to look up the
	// callee's (old) intended port before remapping.
	for _, m := range lib.Modules {
		for ci := range m.Cells {
			c := &m.Cells[ci]
			if c.ModuleRef < 0 || len(c.PortNames) == 0 {
				continue
			}
			callee := lib.Modules[c.ModuleRef]
			newConns := make([]Signal, len(callee.Wires))
			newPortNames := make([]string, len(callee.Wires))
			for k, portName := range c.PortNames {
				if idx, ok := callee.WireIndex(lib.Names.Intern(portName)); ok {
					newConns[idx] = c.Connections[k]
					newPortNames[idx] = portName
				}
			}
			c.Connections = newConns
			c.PortNames = newPortNames
		}
	}
}

func sortByFieldAsc(xs []int, key func(int) int32) {
	for i := 1; i < len(xs); i++ {
		for j := i; j > 0 && key(xs[j-1]) > key(xs[j]); j-- {
			xs[j-1], xs[j] = xs[j], xs[j-1]
		}
	}
}
