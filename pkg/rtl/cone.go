package rtl

import "github.com/wlncore/wlncheck/pkg/wlnerr"

// ExtractCone builds a new module in lib containing only the logic
// reachable backward from output-wire range [firstPO, firstPO+count) of
// module modIdx (spec §6.1 "cone -O i -R k [-is]": "Extract logic cone(s)
// into a new network"). The new module's name is the source module's name
// with "_cone" appended; its index is returned.
func ExtractCone(lib *Lib, modIdx int, firstPO, count int) (int, error) {
	src := lib.Modules[modIdx]

	var outWires []int
	for wi, w := range src.Wires {
		if w.IsOutput() {
			outWires = append(outWires, wi)
		}
	}
	if firstPO < 0 || firstPO+count > len(outWires) {
		return -1, &wlnerr.WidthMismatch{Object: "cone output range", Declared: len(outWires), Got: firstPO + count}
	}

	keepWire := make([]bool, len(src.Wires))
	keepCell := make([]bool, len(src.Cells))

	// cellOutput[w] is the index of the cell driving wire w, or -1 if the
	// wire is undriven by a cell (a free connection or a PI).
	cellOutput := make([]int, len(src.Wires))
	for i := range cellOutput {
		cellOutput[i] = -1
	}
	for ci, c := range src.Cells {
		if c.ModuleRef >= 0 {
			continue
		}
		for i, port := range c.PortNames {
			if port == "Y" || port == "Q" {
				if c.Connections[i].Kind == SigWire {
					cellOutput[c.Connections[i].Payload] = ci
				}
			}
		}
	}

	var mark func(wi int)
	mark = func(wi int) {
		if keepWire[wi] {
			return
		}
		keepWire[wi] = true
		if ci := cellOutput[wi]; ci >= 0 && !keepCell[ci] {
			keepCell[ci] = true
			for _, conn := range src.Cells[ci].Connections {
				if conn.Kind == SigWire {
					mark(int(conn.Payload))
				}
			}
		}
		for _, conn := range src.Connections {
			if conn.Lhs.Kind == SigWire && int(conn.Lhs.Payload) == wi && conn.Rhs.Kind == SigWire {
				mark(int(conn.Rhs.Payload))
			}
		}
	}

	for _, oi := range outWires[firstPO : firstPO+count] {
		mark(oi)
	}

	dstIdx := lib.AddModule(lib.Names.Lookup(src.NameID) + "_cone")
	dst := lib.Modules[dstIdx]

	remap := make(map[int]int, len(src.Wires))
	for wi, w := range src.Wires {
		if !keepWire[wi] {
			continue
		}
		remap[wi] = len(dst.Wires)
		dst.Wires = append(dst.Wires, w)
	}
	for ci, keep := range keepCell {
		if !keep {
			continue
		}
		c := src.Cells[ci]
		nc := c
		nc.Connections = make([]Signal, len(c.Connections))
		for i, conn := range c.Connections {
			if conn.Kind == SigWire {
				if ni, ok := remap[int(conn.Payload)]; ok {
					nc.Connections[i] = Signal{Kind: SigWire, Payload: uint32(ni)}
					continue
				}
			}
			nc.Connections[i] = conn
		}
		dst.Cells = append(dst.Cells, nc)
	}
	for _, conn := range src.Connections {
		if conn.Lhs.Kind != SigWire {
			continue
		}
		ni, ok := remap[int(conn.Lhs.Payload)]
		if !ok {
			continue
		}
		rhs := conn.Rhs
		if rhs.Kind == SigWire {
			if rni, ok := remap[int(rhs.Payload)]; ok {
				rhs = Signal{Kind: SigWire, Payload: uint32(rni)}
			}
		}
		dst.Connections = append(dst.Connections, Connection{Lhs: Signal{Kind: SigWire, Payload: uint32(ni)}, Rhs: rhs})
	}
	dst.invalidateWireIndex()
	return dstIdx, nil
}
