package blast

import (
	"github.com/wlncore/wlncheck/pkg/aig"
	"github.com/wlncore/wlncheck/pkg/wln"
)

// expandArith lowers ADD/SUB/ADDSUB. SUB is built as A + ~B + 1. ADDSUB
// reads a mode-select bit "S" (0=add, 1=sub) and an optional carry-in
// "CI", defaulting to the mode bit itself when CI is absent (spec §4.D
// "Adders/subtractors"; "ADDSUB is mode-selectable: one control bit picks
// add vs subtract, a separate carry-in is wired").
func expandArith(g *aig.Graph, op wln.ObjType, ins map[string][]aig.Lit, outW int, opts Options) ([]aig.Lit, error) {
	a, b := ins["A"], ins["B"]
	signed := false // arithmetic is extension-agnostic here; callers sign-extend operands via A_SIGNED upstream of the cell when needed
	w := maxWidth(len(a), len(b), outW)
	a = extend(a, w, signed)
	b = extend(b, w, signed)

	var sum []aig.Lit
	switch op {
	case wln.Add:
		sum, _ = addWithCarry(g, a, b, aig.LitConst0, opts.CLAAdder)
	case wln.Sub:
		sum, _ = addWithCarry(g, a, invertAll(b), aig.LitConst1, opts.CLAAdder)
	case wln.AddSub:
		mode := aig.LitConst0
		if s, ok := ins["S"]; ok && len(s) > 0 {
			mode = s[0]
		}
		cin := mode
		if ci, ok := ins["CI"]; ok && len(ci) > 0 {
			cin = ci[0]
		}
		bOrNotB := muxBitwise(g, mode, invertAll(b), b)
		sum, _ = addWithCarry(g, a, bOrNotB, cin, opts.CLAAdder)
	}
	return zeroExtend(sum, outW), nil
}

// expandNegate lowers unary negate (0 - a == ~a + 1).
func expandNegate(g *aig.Graph, a []aig.Lit, outW int) ([]aig.Lit, error) {
	w := maxWidth(len(a), outW)
	a = extend(a, w, true)
	zero := make([]aig.Lit, w)
	for i := range zero {
		zero[i] = aig.LitConst0
	}
	sum, _ := addWithCarry(g, invertAll(a), zero, aig.LitConst1, false)
	return zeroExtend(sum, outW), nil
}

// addWithCarry adds a+b+cin, either as a ripple-carry chain (default) or a
// full carry-lookahead network (CLAAdder option), returning the sum bits
// and final carry-out.
func addWithCarry(g *aig.Graph, a, b []aig.Lit, cin aig.Lit, cla bool) ([]aig.Lit, aig.Lit) {
	w := len(a)
	for len(b) < w {
		b = append(b, aig.LitConst0)
	}
	if cla {
		return addCLA(g, a, b, cin)
	}
	return addRipple(g, a, b, cin)
}

func addRipple(g *aig.Graph, a, b []aig.Lit, cin aig.Lit) ([]aig.Lit, aig.Lit) {
	w := len(a)
	sum := make([]aig.Lit, w)
	carry := cin
	for i := 0; i < w; i++ {
		psum := xorGate(g, a[i], b[i])
		sum[i] = xorGate(g, psum, carry)
		carry = majority(g, a[i], b[i], carry)
	}
	return sum, carry
}

// addCLA builds the sum via generate/propagate lookahead: carry[i+1] is
// computed directly as a sum-of-products over g/p terms rather than
// chained through i ripple stages (spec §4.D "CLA option selects
// carry-lookahead").
func addCLA(g *aig.Graph, a, b []aig.Lit, cin aig.Lit) ([]aig.Lit, aig.Lit) {
	w := len(a)
	p := make([]aig.Lit, w)
	gen := make([]aig.Lit, w)
	for i := 0; i < w; i++ {
		p[i] = xorGate(g, a[i], b[i])
		gen[i] = g.NodeAndCanon(a[i], b[i]).Lit
	}

	carry := make([]aig.Lit, w+1)
	carry[0] = cin
	for i := 0; i < w; i++ {
		terms := []aig.Lit{gen[i]}
		prefix := p[i]
		for k := i - 1; k >= 0; k-- {
			terms = append(terms, g.NodeAndCanon(prefix, gen[k]).Lit)
			prefix = g.NodeAndCanon(prefix, p[k]).Lit
		}
		terms = append(terms, g.NodeAndCanon(prefix, cin).Lit)
		carry[i+1] = orTree(g, terms)
	}

	sum := make([]aig.Lit, w)
	for i := 0; i < w; i++ {
		sum[i] = xorGate(g, p[i], carry[i])
	}
	return sum, carry[w]
}

func orTree(g *aig.Graph, lits []aig.Lit) aig.Lit {
	acc := lits[0]
	for _, l := range lits[1:] {
		acc = orGate(g, acc, l)
	}
	return acc
}

// majority computes the ripple-carry majority function (x&y)|((x^y)&z).
func majority(g *aig.Graph, x, y, z aig.Lit) aig.Lit {
	xy := g.NodeAndCanon(x, y).Lit
	xorxy := xorGate(g, x, y)
	rest := g.NodeAndCanon(xorxy, z).Lit
	return orGate(g, xy, rest)
}
