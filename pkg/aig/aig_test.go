package aig

import "testing"

func TestStructuralHashDedupesRepeatedAnd(t *testing.T) {
	g := NewGraph(1, 0)
	a, b := g.NewPI(), g.NewPI()
	la, lb := newLit(a, false), newLit(b, false)

	r1 := g.NodeAndCanon(la, lb)
	r2 := g.NodeAndCanon(la, lb)
	if r1.Lit != r2.Lit {
		t.Fatalf("expected identical AND to strash to the same literal, got %v and %v", r1.Lit, r2.Lit)
	}

	numNodes := g.NumNodes()
	g.NodeAndCanon(lb, la) // commuted fanin order must still hit strash
	if g.NumNodes() != numNodes {
		t.Fatalf("commuted AND allocated a new node: %d -> %d", numNodes, g.NumNodes())
	}
}

func TestAlgebraicIdentities(t *testing.T) {
	g := NewGraph(1, 0)
	a := g.NewPI()
	la := newLit(a, false)

	if r := g.NodeAndCanon(la, LitConst0); r.Lit != LitConst0 {
		t.Fatalf("AND(x, 0) = %v, want const0", r.Lit)
	}
	if r := g.NodeAndCanon(la, LitConst1); r.Lit != la {
		t.Fatalf("AND(x, 1) = %v, want x", r.Lit)
	}
	if r := g.NodeAndCanon(la, la); r.Lit != la {
		t.Fatalf("AND(x, x) = %v, want x", r.Lit)
	}
	if r := g.NodeAndCanon(la, la.Not()); r.Lit != LitConst0 {
		t.Fatalf("AND(x, !x) = %v, want const0", r.Lit)
	}
}

func TestDistinctAndShapesDoNotCollide(t *testing.T) {
	g := NewGraph(4, 0)
	a, b := g.NewPI(), g.NewPI()
	la, lb := newLit(a, false), newLit(b, false)

	andNotAB := g.NodeAndCanon(la.Not(), lb.Not())
	andAB := g.NodeAndCanon(la, lb)
	if andNotAB.Lit.Var() == andAB.Lit.Var() {
		t.Fatalf("AND(a,b) and AND(!a,!b) must not structurally collide")
	}

	r1 := g.NodeAndCanon(la.Not(), lb.Not())
	if r1.Lit.Var() != andNotAB.Lit.Var() {
		t.Fatalf("rebuilding the identical AND should strash-hit, got new node")
	}
}

func TestSimulationHashConsistency(t *testing.T) {
	g := NewGraph(2, 0)
	a, b := g.NewPI(), g.NewPI()
	r := g.NodeAndCanon(newLit(a, false), newLit(b, false))
	n := g.Node(r.Lit.Var())
	if n.hashR != hashWords(n.simRand) {
		t.Fatalf("hashR does not match hashWords(simRand)")
	}
}

func TestBarrierBufferInverseReduction(t *testing.T) {
	g := NewGraph(1, 0)
	a := g.NewPI()
	la := newLit(a, false)

	out := g.NewBuf(la, 1, 7, SideOut)
	in := g.NewBuf(out, 1, 7, SideIn)

	reduced := g.ReduceInverseBuffers()
	if reduced != 1 {
		t.Fatalf("expected 1 reduced pair, got %d", reduced)
	}
	if g.Node(in.Var()).fi0 != la {
		t.Fatalf("inverse buffer pair was not rewired past the boundary")
	}
}

// TestBarrierBufferInverseReductionAcrossModules exercises the cross-module
// seam pkg/guidance's inverse-equivalence miter actually builds (producer
// and consumer buffers tagged with two different module ids): reduction
// must still collapse the pair, since the original Rtl_ReduceInverse keys
// only on graph adjacency, never on module identity.
func TestBarrierBufferInverseReductionAcrossModules(t *testing.T) {
	g := NewGraph(1, 0)
	a := g.NewPI()
	la := newLit(a, false)

	out := g.NewBuf(la, 1, 3, SideOut) // module 3's output
	in := g.NewBuf(out, 1, 9, SideIn)  // module 9's input

	reduced := g.ReduceInverseBuffers()
	if reduced != 1 {
		t.Fatalf("expected 1 reduced pair across modules, got %d", reduced)
	}
	if g.Node(in.Var()).fi0 != la {
		t.Fatalf("cross-module inverse buffer pair was not rewired")
	}
}

func TestBuildCNFEncodesAndGate(t *testing.T) {
	g := NewGraph(1, 0)
	a, b := g.NewPI(), g.NewPI()
	r := g.NodeAndCanon(newLit(a, false), newLit(b, false))

	cnf := BuildCNF(g, r.Lit.Var())
	if cnf.NumVars != 4 { // const1, a, b, the AND node
		t.Fatalf("expected 4 CNF variables, got %d", cnf.NumVars)
	}
	// three AND-encoding clauses plus the CONST1 unit clause
	if len(cnf.Clauses) != 4 {
		t.Fatalf("expected 4 clauses, got %d", len(cnf.Clauses))
	}
}

func TestCounterExampleRoundTrip(t *testing.T) {
	g := NewGraph(0, 0) // no random simulation: only feedback patterns can disagree
	a, b := g.NewPI(), g.NewPI()
	r := g.NodeAndCanon(newLit(a, false), newLit(b, false))

	g.Feedback(CounterExample{Bits: []bool{true, false}}, 0)

	// Assume AND(a,b) is always false: no counter-example yet, since the
	// only pattern simulated so far (a=1,b=0) agrees with that assumption.
	ce, ok := g.SaveCounterExample(r.Lit.Var(), false)
	if ok {
		t.Fatalf("AND(a,b) agreed with the false assumption on every simulated pattern so far, got a counter-example claiming otherwise: %+v", ce)
	}

	g.Feedback(CounterExample{Bits: []bool{true, true}}, 2)
	ce, ok = g.SaveCounterExample(r.Lit.Var(), false)
	if !ok {
		t.Fatalf("expected a counter-example disproving AND(a,b)=false")
	}
	if !ce.Bits[0] || !ce.Bits[1] {
		t.Fatalf("expected both inputs true, got %+v", ce.Bits)
	}
}

func TestCompactDoesNotGrowPatternCount(t *testing.T) {
	g := NewGraph(0, 0)
	a, b := g.NewPI(), g.NewPI()
	g.NodeAndCanon(newLit(a, false), newLit(b, false))
	g.NodeAndCanon(newLit(a, false), newLit(b, true))

	for i := 0; i < 4; i++ {
		bits := []bool{i&1 != 0, i&2 != 0}
		g.Feedback(CounterExample{Bits: bits}, 0)
	}

	before := len(g.Node(a).simDyn)
	g.Compact()
	after := len(g.Node(a).simDyn)
	if after > before {
		t.Fatalf("compact should not grow the pattern count immediately: %d -> %d", before, after)
	}
}
