package satsolver

import (
	"testing"

	"github.com/wlncore/wlncheck/pkg/aig"
)

// bruteSolver is a tiny brute-force SAT solver used only to exercise
// AreEquivalent's control flow without depending on gini in tests:
// clauses and assumptions accumulate, then Solve tries every assignment
// of the variables actually mentioned.
type bruteSolver struct {
	clauses [][]int32
	cur     []int32
	assumed []int32
	model   map[int32]bool
}

func newBruteSolver() *bruteSolver { return &bruteSolver{model: map[int32]bool{}} }

func (s *bruteSolver) Add(lit int32) {
	if lit == 0 {
		s.clauses = append(s.clauses, s.cur)
		s.cur = nil
		return
	}
	s.cur = append(s.cur, lit)
}

func (s *bruteSolver) Assume(lits ...int32) { s.assumed = append(s.assumed, lits...) }

func (s *bruteSolver) Solve() int {
	vars := map[int32]bool{}
	for _, cl := range s.clauses {
		for _, l := range cl {
			vars[abs32(l)] = true
		}
	}
	for _, l := range s.assumed {
		vars[abs32(l)] = true
	}
	var varList []int32
	for v := range vars {
		varList = append(varList, v)
	}

	n := len(varList)
	for mask := 0; mask < (1 << n); mask++ {
		assign := map[int32]bool{}
		for i, v := range varList {
			assign[v] = mask&(1<<i) != 0
		}
		if s.satisfies(assign) {
			s.model = assign
			return 1
		}
	}
	return -1
}

func (s *bruteSolver) satisfies(assign map[int32]bool) bool {
	for _, l := range s.assumed {
		if assign[abs32(l)] != (l > 0) {
			return false
		}
	}
	for _, cl := range s.clauses {
		ok := false
		for _, l := range cl {
			if assign[abs32(l)] == (l > 0) {
				ok = true
				break
			}
		}
		if !ok {
			return false
		}
	}
	return true
}

func (s *bruteSolver) Value(v int32) bool { return s.model[v] }

func abs32(x int32) int32 {
	if x < 0 {
		return -x
	}
	return x
}

func TestAreEquivalentIdenticalNodes(t *testing.T) {
	g := aig.NewGraph(1, 0)
	a, b := g.NewPI(), g.NewPI()
	r := g.NodeAndCanon(litOf(a), litOf(b))

	res := AreEquivalent(g, r.Lit.Var(), r.Lit.Var(), Limits{}, newSolverFake)
	if res.Verdict != VerdictEquivalent {
		t.Fatalf("expected VerdictEquivalent for identical nodes, got %v", res.Verdict)
	}
}

func TestAreEquivalentAndVsNor(t *testing.T) {
	g := aig.NewGraph(1, 0)
	a, b := g.NewPI(), g.NewPI()
	la, lb := litOf(a), litOf(b)

	// AND(a,b) vs. AND(!a,!b) (that is, NOR(a,b)) are NOT equivalent;
	// this exercises the not-equal path.
	andAB := g.NodeAndCanon(la, lb)
	andNotAB := g.NodeAndCanon(la.Not(), lb.Not())

	res := AreEquivalent(g, andAB.Lit.Var(), andNotAB.Lit.Var(), Limits{}, newSolverFake)
	if res.Verdict != VerdictNotEquivalent {
		t.Fatalf("expected VerdictNotEquivalent for AND(a,b) vs AND(!a,!b), got %v", res.Verdict)
	}
}

func TestAreEquivalentAssociativeGrouping(t *testing.T) {
	g := aig.NewGraph(3, 0)
	a, b, c := g.NewPI(), g.NewPI(), g.NewPI()
	la, lb, lc := litOf(a), litOf(b), litOf(c)

	// AND(AND(a,b),c) and AND(a,AND(b,c)) are the same function under
	// different groupings: different strash keys, identical simulation,
	// so they land in the same functional-hash bucket as distinct node
	// IDs — exactly the case AreEquivalent's SAT path exists to confirm.
	left := g.NodeAndCanon(g.NodeAndCanon(la, lb).Lit, lc)
	right := g.NodeAndCanon(la, g.NodeAndCanon(lb, lc).Lit)
	if left.Lit.Var() == right.Lit.Var() {
		t.Fatalf("expected distinct node IDs for the two groupings, strash collapsed them")
	}

	res := AreEquivalent(g, left.Lit.Var(), right.Lit.Var(), Limits{}, newSolverFake)
	if res.Verdict != VerdictEquivalent {
		t.Fatalf("expected VerdictEquivalent for associative regrouping, got %v", res.Verdict)
	}
}

func newSolverFake() Solver { return newBruteSolver() }

func litOf(id aig.NodeID) aig.Lit {
	// aig.Lit has no exported constructor for a bare positive literal in
	// this package's surface, so build one the same way callers outside
	// pkg/aig always do: Var()<<1 with no sign bit.
	return aig.Lit(uint32(id) << 1)
}
