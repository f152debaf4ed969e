package blast

import (
	"github.com/wlncore/wlncheck/pkg/aig"
	"github.com/wlncore/wlncheck/pkg/wln"
)

// expandShift lowers the shift/rotate family via barrel-shifter
// decomposition: one mux stage per bit of the shift amount, each stage
// conditionally shifting by a power of two (spec §4.D "Shifts"). Arithmetic
// right shift replicates the sign bit when the data input is signed.
func expandShift(g *aig.Graph, op wln.ObjType, a, shamt []aig.Lit, outW int, signed bool) ([]aig.Lit, error) {
	cur := extend(a, outW, signed && (op == wln.ShiftRA || op == wln.ShiftLA))
	for k := 0; k < len(shamt); k++ {
		shiftedBy := 1 << uint(k)
		shifted := shiftOnce(cur, shiftedBy, op, signed)
		cur = muxBitwise(g, shamt[k], shifted, cur)
	}
	return cur, nil
}

// shiftOnce shifts cur by amt bit positions, per the operator's direction
// and fill rule.
func shiftOnce(cur []aig.Lit, amt int, op wln.ObjType, signed bool) []aig.Lit {
	w := len(cur)
	out := make([]aig.Lit, w)
	for i := 0; i < w; i++ {
		switch op {
		case wln.ShiftL, wln.ShiftLA:
			if i-amt >= 0 {
				out[i] = cur[i-amt]
			} else {
				out[i] = aig.LitConst0
			}
		case wln.ShiftR:
			if i+amt < w {
				out[i] = cur[i+amt]
			} else {
				out[i] = aig.LitConst0
			}
		case wln.ShiftRA:
			if i+amt < w {
				out[i] = cur[i+amt]
			} else if signed {
				out[i] = cur[w-1]
			} else {
				out[i] = aig.LitConst0
			}
		case wln.ShiftRotL:
			out[i] = cur[((i-amt)%w+w)%w]
		case wln.ShiftRotR:
			out[i] = cur[((i+amt)%w+w)%w]
		}
	}
	return out
}

// muxBitwise selects whenTrue[i] or whenFalse[i] elementwise under sel.
func muxBitwise(g *aig.Graph, sel aig.Lit, whenTrue, whenFalse []aig.Lit) []aig.Lit {
	out := make([]aig.Lit, len(whenTrue))
	for i := range out {
		out[i] = iteGate(g, sel, whenTrue[i], whenFalse[i])
	}
	return out
}

// iteGate builds sel ? t : f as (sel & t) | (!sel & f).
func iteGate(g *aig.Graph, sel, t, f aig.Lit) aig.Lit {
	onTrue := g.NodeAndCanon(sel, t).Lit
	onFalse := g.NodeAndCanon(sel.Not(), f).Lit
	return orGate(g, onTrue, onFalse)
}
