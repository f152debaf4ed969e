package satsolver

import (
	"time"

	"github.com/wlncore/wlncheck/pkg/aig"
)

// AreEquivalent implements spec §4.E's "SAT equivalence query" procedure
// in full: trivial-identity short-circuit, a simulation-vector pre-check
// that avoids the solver entirely when the two nodes already disagree,
// CNF construction over the shared fanin cone, two SAT runs under the
// assumptions (a=1,b=0) then (a=0,b=1), and the UNSAT/SAT/unknown
// dispositions spec'd for each outcome.
// AreEquivalentSAT is the production entry point, always backed by a
// fresh gini instance per SAT run.
func AreEquivalentSAT(g *aig.Graph, a, b aig.NodeID, limits Limits) Result {
	return AreEquivalent(g, a, b, limits, New)
}

func AreEquivalent(g *aig.Graph, a, b aig.NodeID, limits Limits, newSolver func() Solver) Result {
	start := time.Now()
	if a == b {
		return Result{Verdict: VerdictEquivalent}
	}

	// Step 2: simulation vectors already differ -> immediate counter-example,
	// no SAT call needed.
	if !g.SimVectorsMatch(a, b) {
		if ce, ok := g.SaveCounterExample(a, true); ok {
			return Result{Verdict: VerdictNotEquivalent, CounterEx: ce, HasCounterEx: true}
		}
		return Result{Verdict: VerdictNotEquivalent}
	}

	cnf := aig.BuildCNF(g, a, b)
	varA, okA := cnf.VarOf[a]
	varB, okB := cnf.VarOf[b]
	if !okA || !okB {
		return Result{Verdict: VerdictUndecided}
	}

	run := func(assumeA, assumeB bool) (sat bool, unknown bool) {
		s := newSolver()
		addClausesToSolver(s, cnf)
		aLit, bLit := varA, varB
		if !assumeA {
			aLit = -aLit
		}
		if !assumeB {
			bLit = -bLit
		}
		s.Assume(aLit, bLit)
		switch s.Solve() {
		case 1:
			return true, false
		case -1:
			return false, false
		default:
			return false, true
		}
	}

	sat1, unknown1 := run(true, false)
	if unknown1 {
		g.MarkFailedTFO(a)
		g.MarkFailedTFO(b)
		return Result{Verdict: VerdictUndecided}
	}
	if sat1 {
		return feedbackResult(g, a, b)
	}
	if limits.TimeLimitMs > 0 && time.Since(start) > time.Duration(limits.TimeLimitMs)*time.Millisecond {
		g.MarkFailedTFO(a)
		g.MarkFailedTFO(b)
		return Result{Verdict: VerdictUndecided}
	}

	sat2, unknown2 := run(false, true)
	if unknown2 {
		g.MarkFailedTFO(a)
		g.MarkFailedTFO(b)
		return Result{Verdict: VerdictUndecided}
	}
	if sat2 {
		return feedbackResult(g, a, b)
	}

	// Both directions UNSAT: equivalent. The smaller ID becomes the
	// representative (spec §4.E step 5).
	rep, other := a, b
	if b < a {
		rep, other = b, a
	}
	useChoice := !g.InTFI(rep, other)
	g.SetRepr(rep, other, useChoice)
	return Result{Verdict: VerdictEquivalent}
}

// feedbackResult extracts a counter-example from the failed SAT call via
// the node's own simulation-vector scan (spec §4.E step 6), folds it back
// into the dynamic pattern pool, and reports not-equivalent.
func feedbackResult(g *aig.Graph, a, b aig.NodeID) Result {
	ce, ok := g.SaveCounterExample(a, true)
	if !ok {
		ce, ok = g.SaveCounterExample(b, true)
	}
	if ok {
		g.Feedback(ce, len(ce.Bits))
		return Result{Verdict: VerdictNotEquivalent, CounterEx: ce, HasCounterEx: true}
	}
	return Result{Verdict: VerdictNotEquivalent}
}
