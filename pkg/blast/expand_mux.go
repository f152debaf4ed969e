package blast

import (
	"github.com/wlncore/wlncheck/pkg/aig"
	"github.com/wlncore/wlncheck/pkg/wlnerr"
)

// expandMux2 lowers the plain two-way bit MUX: Y = S ? B : A.
func expandMux2(g *aig.Graph, ins map[string][]aig.Lit, outW int) ([]aig.Lit, error) {
	a, b, s := ins["A"], ins["B"], ins["S"]
	if len(s) == 0 {
		return nil, &wlnerr.UnsupportedFeature{What: "MUX cell with no select input"}
	}
	w := maxWidth(len(a), len(b), outW)
	a, b = extend(a, w, false), extend(b, w, false)
	return zeroExtend(muxBitwise(g, s[0], b, a), outW), nil
}

// expandNmux lowers the n-way binary-selected mux: data input "A" holds
// 2^k case vectors of width outW concatenated LSB-first (case 0 in the low
// bits), selector "S" has width k (spec §4.D "selector is one input, data
// inputs are the remaining. If the selector has width k, data-input count
// must be 2^k (asserted)"). Lowered as one barrel-style mux stage per
// selector bit, same decomposition expandShift uses for shift amounts.
func expandNmux(g *aig.Graph, ins map[string][]aig.Lit, outW int) ([]aig.Lit, error) {
	a, s := ins["A"], ins["S"]
	if len(s) == 0 {
		return nil, &wlnerr.UnsupportedFeature{What: "NMUX cell with no select input"}
	}
	caseCount := 1 << uint(len(s))
	if len(a) != caseCount*outW {
		return nil, &wlnerr.WidthMismatch{Object: "NMUX data input", Declared: caseCount * outW, Got: len(a)}
	}

	cases := make([][]aig.Lit, caseCount)
	for k := 0; k < caseCount; k++ {
		cases[k] = a[k*outW : (k+1)*outW]
	}
	for bit := 0; bit < len(s); bit++ {
		next := make([][]aig.Lit, len(cases)/2)
		for k := 0; k < len(next); k++ {
			next[k] = muxBitwise(g, s[bit], cases[2*k+1], cases[2*k])
		}
		cases = next
	}
	return cases[0], nil
}

// expandPmux lowers the one-hot/priority mux: for each output bit i, an
// AND-tree over (~S[k] | Bk[i]) across all cases, plus a default clause
// gated on ~OR(S) yielding A's bit (spec §4.D "PMUX"). No collision
// handling is performed when more than one selector bit is set.
func expandPmux(g *aig.Graph, ins map[string][]aig.Lit, outW int) ([]aig.Lit, error) {
	a, b, s := ins["A"], ins["B"], ins["S"]
	if len(s) == 0 {
		return nil, &wlnerr.UnsupportedFeature{What: "PMUX cell with no select input"}
	}
	caseCount := len(s)
	if len(b) != caseCount*outW {
		return nil, &wlnerr.WidthMismatch{Object: "PMUX case input", Declared: caseCount * outW, Got: len(b)}
	}
	a = extend(a, outW, false)

	anySel := balancedTreeOr(g, s)
	out := make([]aig.Lit, outW)
	for i := 0; i < outW; i++ {
		acc := aig.LitConst1
		for k := 0; k < caseCount; k++ {
			clause := orGate(g, s[k].Not(), b[k*outW+i])
			acc = g.NodeAndCanon(acc, clause).Lit
		}
		defaultClause := orGate(g, anySel, a[i])
		out[i] = g.NodeAndCanon(acc, defaultClause).Lit
	}
	return out, nil
}

func balancedTreeOr(g *aig.Graph, lits []aig.Lit) aig.Lit {
	acc := aig.LitConst0
	for _, l := range lits {
		acc = orGate(g, acc, l)
	}
	return acc
}

// expandDecoder lowers DECODER: one-hot output of width 2^in_width, bit i
// set iff A == i (spec §4.D "one-hot output; output width must equal
// 2^in_width").
func expandDecoder(g *aig.Graph, a []aig.Lit, outW int) ([]aig.Lit, error) {
	want := 1 << uint(len(a))
	if outW != want {
		return nil, &wlnerr.WidthMismatch{Object: "DECODER output", Declared: want, Got: outW}
	}
	out := make([]aig.Lit, outW)
	for i := 0; i < outW; i++ {
		lit := aig.LitConst1
		for bit := 0; bit < len(a); bit++ {
			want := (i>>uint(bit))&1 == 1
			abit := a[bit]
			if !want {
				abit = abit.Not()
			}
			lit = g.NodeAndCanon(lit, abit).Lit
		}
		out[i] = lit
	}
	return out, nil
}
