package aig

// Feedback implements spec §4.E's counter-example feedback step: "the
// engine extracts PI values, appends a new dynamic pattern plus k
// distance-1 variants... to every PI's sim_dyn, and resimulates all AND
// nodes over only the newly appended words. After each feedback batch,
// functional-hash buckets are rehashed."
//
// Each dynamic pattern is stored as one simDyn word per PI, with every
// lane of the word set to that PI's bit for the pattern — this keeps
// simulateAnd's plain word-wise AND correct unchanged, at the cost of
// using a whole 64-bit lane per pattern instead of packing 64 patterns
// per word the way sim_rand does.
func (g *Graph) Feedback(ce CounterExample, distanceOneVariants int) {
	base := ce.Bits
	patterns := make([][]bool, 0, 1+distanceOneVariants)
	patterns = append(patterns, base)
	for k := 0; k < distanceOneVariants && k < len(base); k++ {
		variant := append([]bool(nil), base...)
		variant[k] = !variant[k]
		patterns = append(patterns, variant)
	}

	startWord := 0
	if len(g.pis) > 0 {
		startWord = len(g.Node(g.pis[0]).simDyn)
	}

	for i, pi := range g.pis {
		n := g.Node(pi)
		for _, p := range patterns {
			var w uint64
			if p[i] {
				w = ^uint64(0)
			}
			n.simDyn = append(n.simDyn, w)
		}
	}

	g.resimulateFrom(startWord)
	g.rehashFuncBuckets()
}

// resimulateFrom recomputes every AND/BUF node's simDyn words at indices
// [from, end) from their fanins' (already-extended) simDyn, in node
// allocation order — which is topological since NodeAndCanon always
// visits fanins before allocating the node that depends on them.
func (g *Graph) resimulateFrom(from int) {
	for id := 1; id < len(g.nodes); id++ {
		n := &g.nodes[id]
		switch n.kind {
		case KindAnd:
			x, y := g.Node(n.fi0.Var()), g.Node(n.fi1.Var())
			end := len(x.simDyn)
			if len(y.simDyn) < end {
				end = len(y.simDyn)
			}
			for w := from; w < end; w++ {
				xw, yw := x.simDyn[w], y.simDyn[w]
				if n.fi0.Sign() {
					xw = ^xw
				}
				if n.fi1.Sign() {
					yw = ^yw
				}
				n.simDyn = append(n.simDyn, xw&yw)
			}
		case KindBuf:
			x := g.Node(n.fi0.Var())
			for w := from; w < len(x.simDyn); w++ {
				xw := x.simDyn[w]
				if n.fi0.Sign() {
					xw = ^xw
				}
				n.simDyn = append(n.simDyn, xw)
			}
		}
	}
}

// rehashFuncBuckets recomputes hashD for every node and re-files AND
// nodes into the bucket their (possibly now-distinguishing) dynamic
// vector belongs in, dropping nodes whose vectors no longer collide with
// their old bucket-mates.
func (g *Graph) rehashFuncBuckets() {
	for id := range g.nodes {
		n := &g.nodes[id]
		n.hashD = hashWords(n.simDyn)
	}

	g.funcBuckets = make(map[uint64]NodeID, len(g.funcBuckets))
	g.funcZero = g.funcZero[:0]
	for id := 1; id < len(g.nodes); id++ {
		n := &g.nodes[id]
		if n.kind != KindAnd || n.state == StateRetired {
			continue
		}
		n.funcNext = 0
		g.bucketInsert(NodeID(id))
	}
}
