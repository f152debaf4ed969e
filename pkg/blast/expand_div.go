package blast

import (
	"github.com/wlncore/wlncheck/pkg/aig"
	"github.com/wlncore/wlncheck/pkg/wln"
)

// expandDiv lowers DIV/MOD/REM: a restoring shift-subtract array divider
// by default, non-restoring when opts.NonRestoringDiv is set. Signed
// division sign-corrects both operands to magnitudes before dividing and
// restores sign on the quotient (XOR of input signs) and remainder
// (dividend's sign) afterward. A divisor of zero is masked per
// opts.DivZeroSemantics (spec §4.D "Dividers").
func expandDiv(g *aig.Graph, op wln.ObjType, a, b []aig.Lit, outW int, signed bool, opts Options) ([]aig.Lit, error) {
	n := maxWidth(len(a), len(b), outW)
	a = extend(a, n, signed)
	b = extend(b, n, signed)

	aSign, bSign := aig.LitConst0, aig.LitConst0
	numerator, divisor := a, b
	if signed {
		aSign, bSign = a[n-1], b[n-1]
		numerator = absValue(g, a, aSign)
		divisor = absValue(g, b, bSign)
	}

	var quotient, remainder []aig.Lit
	if opts.NonRestoringDiv {
		quotient, remainder = divideNonRestoring(g, numerator, divisor)
	} else {
		quotient, remainder = divideRestoring(g, numerator, divisor)
	}

	if signed {
		qSign := xorGate(g, aSign, bSign)
		quotient = muxBitwise(g, qSign, negateVec(g, quotient), quotient)
		remainder = muxBitwise(g, aSign, negateVec(g, remainder), remainder)
	}

	divisorIsZero := reduceIsZero(g, b)
	quotient = maskDivZero(g, divisorIsZero, quotient, a, opts.DivZeroSemantics)
	remainder = maskDivZero(g, divisorIsZero, remainder, a, opts.DivZeroSemantics)

	if op == wln.Div {
		return zeroExtend(quotient, outW), nil
	}
	return zeroExtend(remainder, outW), nil
}

// maskDivZero applies the divide-by-zero masking rule: all-ones, or
// pass-through of the numerator unchanged (the original source carries two
// documented readings of this flag — see DESIGN.md for the choice made
// here).
func maskDivZero(g *aig.Graph, isZero aig.Lit, result, numerator []aig.Lit, mode DivZeroSemantics) []aig.Lit {
	w := len(result)
	switch mode {
	case DivZeroPassThroughNumerator:
		return muxBitwise(g, isZero, extend(numerator, w, false), result)
	default:
		ones := make([]aig.Lit, w)
		for i := range ones {
			ones[i] = aig.LitConst1
		}
		return muxBitwise(g, isZero, ones, result)
	}
}

// divideRestoring implements the classic restoring shift-subtract array
// divider, processing the dividend from its most-significant bit down.
func divideRestoring(g *aig.Graph, a, b []aig.Lit) (quotient, remainder []aig.Lit) {
	n := len(a)
	r := make([]aig.Lit, n)
	for i := range r {
		r[i] = aig.LitConst0
	}
	q := make([]aig.Lit, n)

	for i := n - 1; i >= 0; i-- {
		r = shiftInBit(r, a[i])
		diff, cout := addWithCarry(g, r, invertAll(b), aig.LitConst1, false)
		q[i] = cout
		r = muxBitwise(g, cout, diff, r)
	}
	return q, r
}

// divideNonRestoring skips the restore step: it always subtracts or adds
// back based on the previous step's sign, correcting at the end if the
// final remainder went negative (spec §4.D "NON-REST option selects
// non-restoring").
func divideNonRestoring(g *aig.Graph, a, b []aig.Lit) (quotient, remainder []aig.Lit) {
	n := len(a)
	r := make([]aig.Lit, n)
	for i := range r {
		r[i] = aig.LitConst0
	}
	q := make([]aig.Lit, n)

	neg := aig.LitConst0 // whether the remainder is currently negative
	for i := n - 1; i >= 0; i-- {
		r = shiftInBit(r, a[i])
		addend := muxBitwise(g, neg, b, invertAll(b))
		cin := neg.Not()
		sum, cout := addWithCarry(g, r, addend, cin, false)
		r = sum
		neg = cout.Not()
		q[i] = neg.Not()
	}
	// Final correction: if the remainder is negative, add the divisor back.
	corrected, _ := addWithCarry(g, r, b, aig.LitConst0, false)
	r = muxBitwise(g, neg, corrected, r)
	return q, r
}

// shiftInBit shifts r left by one bit, bringing bit in at the LSB.
func shiftInBit(r []aig.Lit, in aig.Lit) []aig.Lit {
	out := make([]aig.Lit, len(r))
	out[0] = in
	copy(out[1:], r[:len(r)-1])
	return out
}

// absValue returns a's two's-complement magnitude, given its sign bit.
func absValue(g *aig.Graph, a []aig.Lit, sign aig.Lit) []aig.Lit {
	return muxBitwise(g, sign, negateVec(g, a), a)
}

func negateVec(g *aig.Graph, a []aig.Lit) []aig.Lit {
	sum, _ := addWithCarry(g, invertAll(a), zeroVec(len(a)), aig.LitConst1, false)
	return sum
}

func zeroVec(w int) []aig.Lit {
	v := make([]aig.Lit, w)
	for i := range v {
		v[i] = aig.LitConst0
	}
	return v
}

func reduceIsZero(g *aig.Graph, bits []aig.Lit) aig.Lit {
	res, _ := expandReduce(g, wln.RedOr, bits, 1)
	return res[0].Not()
}
