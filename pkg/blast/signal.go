package blast

import (
	"github.com/wlncore/wlncheck/pkg/aig"
	"github.com/wlncore/wlncheck/pkg/rtl"
)

// resolve evaluates sig to a fully-bound per-bit literal array (index 0 =
// LSB), reporting ok=false if any wire it transitively depends on is not
// yet driven. Constants and slices/concats of already-resolved signals
// always succeed.
func (st *blastState) resolve(sig rtl.Signal) ([]aig.Lit, bool) {
	switch sig.Kind {
	case rtl.SigWire:
		bits := st.lits[sig.Payload]
		if bits == nil {
			return nil, false
		}
		for _, l := range bits {
			if l == unresolvedLit {
				return nil, false
			}
		}
		return bits, true

	case rtl.SigConst:
		return st.resolveConst(st.lib.Consts[sig.Payload]), true

	case rtl.SigSlice:
		sl := st.lib.Slices[sig.Payload]
		base, ok := st.resolve(sl.Base)
		if !ok {
			return nil, false
		}
		return base[sl.Lo : sl.Hi+1], true

	case rtl.SigConcat:
		cc := st.lib.Concats[sig.Payload]
		childBits := make([][]aig.Lit, len(cc.Children))
		total := 0
		for i, child := range cc.Children {
			bits, ok := st.resolve(child)
			if !ok {
				return nil, false
			}
			childBits[i] = bits
			total += len(bits)
		}
		// Children are MSB-first; assemble the LSB-first result by walking
		// them in order and filling from the top down.
		result := make([]aig.Lit, total)
		pos := total
		for _, bits := range childBits {
			pos -= len(bits)
			copy(result[pos:pos+len(bits)], bits)
		}
		return result, true
	}
	return nil, false
}

// resolveConst builds a constant's per-bit literal array. Don't-care/
// high-impedance digits ('x'/'z') have no AIG representation, so they are
// deterministically grounded to logical 0 rather than left undefined.
func (st *blastState) resolveConst(c rtl.ConstValue) []aig.Lit {
	if c.Width < 0 {
		return valueToLits(c.Value, minWidthFor(c.Value))
	}
	width := int(c.Width)
	bits := make([]aig.Lit, width)
	for i := 0; i < width; i++ {
		bits[i] = bitLit(c.Bits[width-1-i])
	}
	return bits
}

func bitLit(ch byte) aig.Lit {
	if ch == '1' {
		return aig.LitConst1
	}
	return aig.LitConst0
}

func valueToLits(v int64, width int) []aig.Lit {
	bits := make([]aig.Lit, width)
	uv := uint64(v)
	for i := 0; i < width; i++ {
		if uv&(1<<uint(i)) != 0 {
			bits[i] = aig.LitConst1
		} else {
			bits[i] = aig.LitConst0
		}
	}
	return bits
}

// minWidthFor computes the narrowest unsigned width that represents v,
// the convention an untyped decimal constant (ConstValue.Width == -1)
// takes on when it is used somewhere a width is needed.
func minWidthFor(v int64) int {
	if v == 0 {
		return 1
	}
	uv := uint64(v)
	w := 0
	for uv > 0 {
		w++
		uv >>= 1
	}
	return w
}

// signalWidth computes sig's bit width without resolving it to literals.
func signalWidth(lib *rtl.Lib, m *rtl.Module, sig rtl.Signal) int {
	switch sig.Kind {
	case rtl.SigWire:
		return int(m.Wires[sig.Payload].Width)
	case rtl.SigConst:
		c := lib.Consts[sig.Payload]
		if c.Width >= 0 {
			return int(c.Width)
		}
		return minWidthFor(c.Value)
	case rtl.SigSlice:
		sl := lib.Slices[sig.Payload]
		return int(sl.Hi-sl.Lo) + 1
	case rtl.SigConcat:
		cc := lib.Concats[sig.Payload]
		total := 0
		for _, child := range cc.Children {
			total += signalWidth(lib, m, child)
		}
		return total
	}
	return 0
}
