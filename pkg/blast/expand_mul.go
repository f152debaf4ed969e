package blast

import (
	"github.com/wlncore/wlncheck/pkg/aig"
	"github.com/wlncore/wlncheck/pkg/wln"
)

// expandMul lowers MUL: a naive shift-add array by default, or radix-4
// Booth when opts.Booth is set (spec §4.D "Multipliers"). Output is
// sign- or zero-extended to the declared width.
func expandMul(g *aig.Graph, a, b []aig.Lit, outW int, aSigned, bSigned bool, opts Options) ([]aig.Lit, error) {
	signed := aSigned && bSigned
	if opts.Booth {
		return mulBooth(g, a, b, outW, signed), nil
	}
	return mulArray(g, a, b, outW, aSigned, bSigned), nil
}

// mulArray is the naive shift-add multiplier. If exactly one operand is
// constant it is canonically placed as b, so constant-zero rows are
// skipped outright and constant-one rows reuse a's bits without per-bit
// AND gates (spec §4.D "canonically placed to reduce partial-product
// count").
func mulArray(g *aig.Graph, a, b []aig.Lit, outW int, aSigned, bSigned bool) []aig.Lit {
	if isConstVec(a) && !isConstVec(b) {
		a, b = b, a
		aSigned, bSigned = bSigned, aSigned
	}
	_ = bSigned // b only ever drives per-bit gating/skip decisions below

	aExt := extend(a, outW, aSigned)
	acc := make([]aig.Lit, outW)
	for i := range acc {
		acc[i] = aig.LitConst0
	}

	for i := 0; i < len(b); i++ {
		bi := b[i]
		if bi == aig.LitConst0 {
			continue
		}
		var partial []aig.Lit
		if bi == aig.LitConst1 {
			partial = shiftOnce(aExt, i, wln.ShiftL, false)
		} else {
			gated := make([]aig.Lit, outW)
			for j := range gated {
				gated[j] = g.NodeAndCanon(aExt[j], bi).Lit
			}
			partial = shiftOnce(gated, i, wln.ShiftL, false)
		}
		acc, _ = addWithCarry(g, acc, partial, aig.LitConst0, false)
	}
	return acc
}

// mulBooth implements radix-4 Booth recoding: each group of three
// overlapping bits of b selects a multiple of a in {-2,-1,0,1,2}, shifted
// by 2 bits per group and accumulated (spec §4.D "BOOTH option switches
// to radix-4 Booth").
func mulBooth(g *aig.Graph, a, b []aig.Lit, outW int, signed bool) []aig.Lit {
	sign := aig.LitConst0
	if signed && len(b) > 0 {
		sign = b[len(b)-1]
	}
	padded := make([]aig.Lit, 0, len(b)+3)
	padded = append(padded, aig.LitConst0) // implicit b[-1]
	padded = append(padded, b...)
	padded = append(padded, sign) // extension bit above b's MSB
	for len(padded)%2 != 1 {
		padded = append(padded, sign)
	}

	magnitude1 := extend(a, outW, signed)
	magnitude2, _ := addWithCarry(g, magnitude1, magnitude1, aig.LitConst0, false)
	magnitude2 = magnitude2[:outW]

	acc := make([]aig.Lit, outW)
	for i := range acc {
		acc[i] = aig.LitConst0
	}

	groups := (len(padded) - 1) / 2
	for i := 0; i < groups; i++ {
		bim1, bi, bip1 := padded[2*i], padded[2*i+1], padded[2*i+2]

		mag1 := xorGate(g, bi, bim1)
		mag2 := g.NodeAndCanon(mag1.Not(), xorGate(g, bip1, bi)).Lit
		negate := g.NodeAndCanon(bip1, g.NodeAndCanon(bi, bim1).Lit.Not()).Lit

		selected := make([]aig.Lit, outW)
		for j := range selected {
			selected[j] = iteGate(g, mag2, magnitude2[j], iteGate(g, mag1, magnitude1[j], aig.LitConst0))
		}
		shifted := shiftOnce(selected, 2*i, wln.ShiftL, false)

		muxed := make([]aig.Lit, outW)
		for j := range muxed {
			muxed[j] = iteGate(g, negate, shifted[j].Not(), shifted[j])
		}
		// -(x<<2i) == ~(x<<2i) + 1: the +1 goes in at bit 0.
		onehot := make([]aig.Lit, outW)
		for j := range onehot {
			onehot[j] = aig.LitConst0
		}
		if outW > 0 {
			onehot[0] = negate
		}

		row, _ := addWithCarry(g, muxed, onehot, aig.LitConst0, false)
		acc, _ = addWithCarry(g, acc, row, aig.LitConst0, false)
	}
	return acc
}

func isConstVec(bits []aig.Lit) bool {
	for _, l := range bits {
		if l != aig.LitConst0 && l != aig.LitConst1 {
			return false
		}
	}
	return true
}
