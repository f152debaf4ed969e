package aig

// CounterExample is a single PI assignment (one bit per g.PIs() in
// order) that distinguishes two nodes.
type CounterExample struct {
	Bits []bool
}

// SaveCounterExample implements spec §4.E "save_counter_example(node)":
// scans node's random then dynamic simulation vectors (simRand packs 64
// patterns per word; simDyn holds one pattern per word, replicated across
// all 64 lanes by Feedback) for the first pattern position where id
// disagrees with assumedPolarity — e.g. proving an
// output is always 0 assumes polarity false, and the first pattern where
// the node is actually true is the counter-example. The result is
// verified with a one-pattern evaluator before being returned.
func (g *Graph) SaveCounterExample(id NodeID, assumedPolarity bool) (CounterExample, bool) {
	n := g.Node(id)
	wordIdx, bitIdx, fromDyn, ok := firstDisagreeingPattern(n.simRand, n.simDyn, assumedPolarity)
	if !ok {
		return CounterExample{}, false
	}

	bits := make([]bool, len(g.pis))
	for i, pi := range g.pis {
		pn := g.Node(pi)
		var word uint64
		if fromDyn {
			word = pn.simDyn[wordIdx]
		} else {
			word = pn.simRand[wordIdx]
		}
		bits[i] = (word>>uint(bitIdx))&1 != 0
	}

	ce := CounterExample{Bits: bits}
	if !g.verifyCounterExample(id, ce, !assumedPolarity) {
		return CounterExample{}, false
	}
	return ce, true
}

// firstDisagreeingPattern finds the first (word, bit) position, in
// simRand then simDyn order, where a node's simulated value disagrees
// with assumedPolarity. A simDyn word carries one pattern in every lane, so
// any disagreeing lane of it names that same pattern.
func firstDisagreeingPattern(simRand, simDyn []uint64, assumedPolarity bool) (wordIdx, bitIdx int, fromDyn, ok bool) {
	want := uint64(0)
	if assumedPolarity {
		want = ^uint64(0)
	}
	for w, word := range simRand {
		if diff := word ^ want; diff != 0 {
			return w, trailingZeros64(diff), false, true
		}
	}
	for w, word := range simDyn {
		if diff := word ^ want; diff != 0 {
			return w, trailingZeros64(diff), true, true
		}
	}
	return 0, 0, false, false
}

func trailingZeros64(x uint64) int {
	n := 0
	for x&1 == 0 && n < 64 {
		x >>= 1
		n++
	}
	return n
}

// verifyCounterExample re-evaluates id's cone under ce using fresh
// memoized bookkeeping (replacing the engine's TravID scan with a map,
// since this evaluator is built fresh per call), independent of the
// stored simulation vectors. wantValue is the node's expected value under
// ce (the polarity the counter-example is meant to witness).
func (g *Graph) verifyCounterExample(id NodeID, ce CounterExample, wantValue bool) bool {
	memo := make(map[NodeID]bool, len(g.nodes))
	piValue := make(map[NodeID]bool, len(g.pis))
	for i, pi := range g.pis {
		piValue[pi] = ce.Bits[i]
	}

	var eval func(l Lit) bool
	eval = func(l Lit) bool {
		n := g.Node(l.Var())
		v, cached := memo[l.Var()]
		if !cached {
			switch n.kind {
			case KindConst1:
				v = true
			case KindPI:
				v = piValue[l.Var()]
			case KindAnd:
				v = eval(n.fi0) && eval(n.fi1)
			case KindBuf:
				v = eval(n.fi0)
			}
			memo[l.Var()] = v
		}
		if l.Sign() {
			return !v
		}
		return v
	}

	got := eval(newLit(id, false))
	return got == wantValue
}
