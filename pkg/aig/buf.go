package aig

// NewBuf allocates a BUF node wrapping lit, recording the module-boundary
// metadata barrier-buffer insertion needs (spec §3.5). Unlike AND nodes,
// BUF nodes bypass structural/functional hashing entirely: their entire
// purpose is to remain a distinguishable, un-optimized marker at the
// boundary so a post-blast cut can recover the hierarchy.
func (g *Graph) NewBuf(lit Lit, bitCount int, moduleName uint32, side BufSide) Lit {
	id := NodeID(len(g.nodes))
	x := g.Node(lit.Var())
	simRand := append([]uint64(nil), x.simRand...)
	simDyn := append([]uint64(nil), x.simDyn...)
	if lit.Sign() {
		for i := range simRand {
			simRand[i] = ^simRand[i]
		}
		for i := range simDyn {
			simDyn[i] = ^simDyn[i]
		}
	}
	g.nodes = append(g.nodes, node{
		kind:        KindBuf,
		fi0:         lit,
		state:       StateCanonicalized,
		simRand:     simRand,
		simDyn:      simDyn,
		bufBitCount: int32(bitCount),
		bufModule:   moduleName,
		bufSide:     side,
	})
	g.Node(lit.Var()).refs++
	g.setLevel(id)
	g.barBufs = append(g.barBufs, BarBuf{Node: id, Count: bitCount, ModuleName: moduleName, Side: side})
	return newLit(id, false)
}

// ReduceInverseBuffers implements spec §4.D "inverse-boundary reduction":
// collapses adjacent buffer-row pairs (i_out, j_in) where j == i+1,
// rewiring the lower row to read directly from the upper row's fanin.
// Matching is purely structural adjacency in g.barBufs — the producing
// SideOut buffer and the consuming SideIn buffer need not belong to the
// same module (original_source/abc/src/base/wln/wlnRead.c's
// Rtl_ReduceInverse carries no module-name equality requirement either;
// that is precisely what lets it bridge two distinct modules, e.g. the
// enc/dec seam built by pkg/guidance's inverse-equivalence miter). Non-
// adjacent pairs are left un-reduced (see DESIGN.md Open Question #4);
// the count of reduced pairs is returned.
func (g *Graph) ReduceInverseBuffers() int {
	reduced := 0
	for i := 1; i < len(g.barBufs); i++ {
		out := g.barBufs[i-1]
		in := g.barBufs[i]
		if out.Side != SideOut || in.Side != SideIn {
			continue
		}
		if out.Count != in.Count {
			continue
		}
		// i is the boundary between an out row ending at i-1 and an in row
		// starting at i; each row holds Count entries, one per bit.
		c := in.Count
		if c < 1 || i < c || i+c > len(g.barBufs) ||
			g.barBufs[i-c].Side != SideOut || g.barBufs[i+c-1].Side != SideIn {
			continue
		}
		for k := 0; k < c; k++ {
			g.Node(g.barBufs[i+k].Node).fi0 = g.Node(g.barBufs[i-c+k].Node).fi0
		}
		reduced++
	}
	return reduced
}
