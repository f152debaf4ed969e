package blast

import (
	"github.com/wlncore/wlncheck/pkg/aig"
	"github.com/wlncore/wlncheck/pkg/wln"
)

// expandCompare lowers the comparison family. Unsigned by default; when
// bothSigned, the signed-less-than circuit is used instead (invert the
// top bit of each operand, then do unsigned less-than). `>` and `≤` are
// built by swapping operands into the less-than circuit; `≥` and `≤`
// complement the less-than result (spec §4.D "Comparisons").
func expandCompare(g *aig.Graph, op wln.ObjType, a, b []aig.Lit, bothSigned bool) ([]aig.Lit, error) {
	w := maxWidth(len(a), len(b))
	a = extend(a, w, bothSigned)
	b = extend(b, w, bothSigned)

	if op == wln.CompEqu || op == wln.CompNotEqu {
		eq := equalBit(g, a, b)
		if op == wln.CompNotEqu {
			eq = eq.Not()
		}
		return []aig.Lit{eq}, nil
	}

	if bothSigned {
		top := w - 1
		a[top] = a[top].Not()
		b[top] = b[top].Not()
	}

	switch op {
	case wln.CompLess:
		return []aig.Lit{lessThan(g, a, b)}, nil
	case wln.CompMore:
		return []aig.Lit{lessThan(g, b, a)}, nil
	case wln.CompLessEqu:
		return []aig.Lit{lessThan(g, b, a).Not()}, nil
	case wln.CompMoreEqu:
		return []aig.Lit{lessThan(g, a, b).Not()}, nil
	}
	return nil, nil
}

// lessThan builds the unsigned a<b magnitude comparator by scanning from
// the most-significant bit down, tracking an "equal so far" prefix.
func lessThan(g *aig.Graph, a, b []aig.Lit) aig.Lit {
	result := aig.LitConst0
	eqPrefix := aig.LitConst1
	for i := len(a) - 1; i >= 0; i-- {
		bitLess := g.NodeAndCanon(a[i].Not(), b[i]).Lit
		contribution := g.NodeAndCanon(eqPrefix, bitLess).Lit
		result = orGate(g, result, contribution)
		eqPrefix = g.NodeAndCanon(eqPrefix, xorGate(g, a[i], b[i]).Not()).Lit
	}
	return result
}

func orGate(g *aig.Graph, x, y aig.Lit) aig.Lit {
	return g.NodeAndCanon(x.Not(), y.Not()).Lit.Not()
}

func equalBit(g *aig.Graph, a, b []aig.Lit) aig.Lit {
	eq := aig.LitConst1
	for i := range a {
		eq = g.NodeAndCanon(eq, xorGate(g, a[i], b[i]).Not()).Lit
	}
	return eq
}
