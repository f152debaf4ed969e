package blast

import (
	"github.com/wlncore/wlncheck/pkg/aig"
	"github.com/wlncore/wlncheck/pkg/wln"
)

// expandBitwise lowers the elementwise bitwise family (AND/OR/XOR/NAND/
// NOR/NXOR): operand width is max(width(A), width(B), width(output)),
// shorter operands sign- or zero-extended per their own signed flag (spec
// §4.D "Bitwise ops").
func expandBitwise(g *aig.Graph, op wln.ObjType, a, b []aig.Lit, outW int, aSigned, bSigned bool) ([]aig.Lit, error) {
	w := maxWidth(len(a), len(b), outW)
	a = extend(a, w, aSigned)
	b = extend(b, w, bSigned)

	out := make([]aig.Lit, w)
	for i := 0; i < w; i++ {
		out[i] = bitwiseGate(g, op, a[i], b[i])
	}
	return zeroExtend(out, outW), nil
}

func bitwiseGate(g *aig.Graph, op wln.ObjType, x, y aig.Lit) aig.Lit {
	switch op {
	case wln.And:
		return g.NodeAndCanon(x, y).Lit
	case wln.Nand:
		return g.NodeAndCanon(x, y).Lit.Not()
	case wln.Or:
		return g.NodeAndCanon(x.Not(), y.Not()).Lit.Not()
	case wln.Nor:
		return g.NodeAndCanon(x.Not(), y.Not()).Lit
	case wln.Xor:
		return xorGate(g, x, y)
	case wln.Nxor:
		return xorGate(g, x, y).Not()
	}
	return aig.LitConst0
}

// xorGate builds x^y as (x|y)&~(x&y), the standard two-AND-gate-plus-
// inverters decomposition (no native XOR node kind in this AIG, spec §3.5
// "Node types: CONST1, PI, AND, (optional) BUF").
func xorGate(g *aig.Graph, x, y aig.Lit) aig.Lit {
	or := g.NodeAndCanon(x.Not(), y.Not()).Lit.Not()
	and := g.NodeAndCanon(x, y).Lit
	return g.NodeAndCanon(or, and.Not()).Lit
}

// expandReduce produces a one-bit output from a balanced AND/OR/XOR tree
// over all of a's bits; any extra output bits are zero (spec §4.D
// "Reductions").
func expandReduce(g *aig.Graph, op wln.ObjType, a []aig.Lit, outW int) ([]aig.Lit, error) {
	if len(a) == 0 {
		return zeroExtend([]aig.Lit{aig.LitConst0}, outW), nil
	}
	var treeOp wln.ObjType
	invert := false
	switch op {
	case wln.RedAnd:
		treeOp = wln.And
	case wln.RedNand:
		treeOp = wln.And
		invert = true
	case wln.RedOr:
		treeOp = wln.Or
	case wln.RedNor:
		treeOp = wln.Or
		invert = true
	case wln.RedXor:
		treeOp = wln.Xor
	case wln.RedNxor:
		treeOp = wln.Xor
		invert = true
	}
	bit := balancedTree(g, treeOp, a)
	if invert {
		bit = bit.Not()
	}
	return zeroExtend([]aig.Lit{bit}, outW), nil
}

// balancedTree folds lits pairwise (spec §4.D "balanced ... tree").
func balancedTree(g *aig.Graph, op wln.ObjType, lits []aig.Lit) aig.Lit {
	level := append([]aig.Lit(nil), lits...)
	for len(level) > 1 {
		next := make([]aig.Lit, 0, (len(level)+1)/2)
		for i := 0; i+1 < len(level); i += 2 {
			next = append(next, bitwiseGate(g, op, level[i], level[i+1]))
		}
		if len(level)%2 == 1 {
			next = append(next, level[len(level)-1])
		}
		level = next
	}
	return level[0]
}

// expandLogicNot produces the one-bit logical negation of a (true iff
// every bit of a is zero).
func expandLogicNot(g *aig.Graph, a []aig.Lit, outW int) ([]aig.Lit, error) {
	bits, err := expandReduce(g, wln.RedOr, a, 1)
	if err != nil {
		return nil, err
	}
	return zeroExtend([]aig.Lit{bits[0].Not()}, outW), nil
}

// expandLogicBinary implements LOGIC_AND/LOGIC_OR: each operand is first
// reduced to a single "is nonzero" bit, then combined.
func expandLogicBinary(g *aig.Graph, op wln.ObjType, a, b []aig.Lit, outW int) ([]aig.Lit, error) {
	ar, _ := expandReduce(g, wln.RedOr, a, 1)
	br, _ := expandReduce(g, wln.RedOr, b, 1)
	var bit aig.Lit
	if op == wln.LogicAnd {
		bit = g.NodeAndCanon(ar[0], br[0]).Lit
	} else {
		bit = g.NodeAndCanon(ar[0].Not(), br[0].Not()).Lit.Not()
	}
	return zeroExtend([]aig.Lit{bit}, outW), nil
}
