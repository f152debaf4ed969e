package blast

import (
	"github.com/wlncore/wlncheck/pkg/aig"
	"github.com/wlncore/wlncheck/pkg/rtl"
	"github.com/wlncore/wlncheck/pkg/wln"
	"github.com/wlncore/wlncheck/pkg/wlnerr"
)

// outputWidth reads the operator cell's declared output width off the Y/Q
// wire it was already located at by gatherCellOperands.
func (st *blastState) outputWidth(outWire int) int {
	return int(st.m.Wires[outWire].Width)
}

// dispatch routes an operator cell's resolved inputs to the expander
// family matching its operator code (spec §4.D "Operator expanders").
func dispatch(st *blastState, c *rtl.Cell, ins map[string][]aig.Lit) ([]aig.Lit, error) {
	outW := st.outputWidth(outWireOf(c, st))
	a, b := ins["A"], ins["B"]

	switch c.OperatorCode {
	case wln.Buf:
		return extend(a, outW, c.ASigned), nil
	case wln.Inv:
		return invertAll(extend(a, outW, c.ASigned)), nil
	case wln.And, wln.Or, wln.Xor, wln.Nand, wln.Nor, wln.Nxor:
		return expandBitwise(st.g, c.OperatorCode, a, b, outW, c.ASigned, c.BSigned)

	case wln.RedAnd, wln.RedOr, wln.RedXor, wln.RedNand, wln.RedNor, wln.RedNxor:
		return expandReduce(st.g, c.OperatorCode, a, outW)
	case wln.LogicNot:
		return expandLogicNot(st.g, a, outW)
	case wln.LogicAnd, wln.LogicOr:
		return expandLogicBinary(st.g, c.OperatorCode, a, b, outW)

	case wln.CompEqu, wln.CompNotEqu, wln.CompLess, wln.CompLessEqu, wln.CompMore, wln.CompMoreEqu:
		return expandCompare(st.g, c.OperatorCode, a, b, c.ASigned && c.BSigned)

	case wln.ShiftL, wln.ShiftR, wln.ShiftLA, wln.ShiftRA, wln.ShiftRotL, wln.ShiftRotR:
		return expandShift(st.g, c.OperatorCode, a, b, outW, c.ASigned)

	case wln.SignExt:
		return signExtend(a, outW), nil
	case wln.ZeroPad:
		return zeroExtend(a, outW), nil

	case wln.Add, wln.Sub, wln.AddSub:
		return expandArith(st.g, c.OperatorCode, ins, outW, st.opts)
	case wln.Min:
		return expandNegate(st.g, a, outW)

	case wln.Mul:
		return expandMul(st.g, a, b, outW, c.ASigned, c.BSigned, st.opts)

	case wln.Div, wln.Mod, wln.Rem:
		return expandDiv(st.g, c.OperatorCode, a, b, outW, c.ASigned && c.BSigned, st.opts)

	case wln.Mux:
		return expandMux2(st.g, ins, outW)
	case wln.Nmux:
		return expandNmux(st.g, ins, outW)
	case wln.Pmux:
		return expandPmux(st.g, ins, outW)
	case wln.Decoder:
		return expandDecoder(st.g, a, outW)

	case wln.Table, wln.Lut:
		return expandTable(st.g, c, a, outW)
	}

	return nil, &wlnerr.UnsupportedOperator{Type: c.OperatorCode.String()}
}

// outWireOf re-derives the output wire index already located by
// gatherCellOperands; dispatch is called right after, so this is a cheap
// repeat of the same scan rather than threading an extra return value
// through tryBlastCell.
func outWireOf(c *rtl.Cell, st *blastState) int {
	for i, port := range c.PortNames {
		if port == "Y" || port == "Q" {
			return st.wireIndexOf(c.Connections[i])
		}
	}
	wlnerr.Raise("operator cell has no Y/Q output connection")
	return -1
}

// extend pads or truncates bits to width w, sign- or zero-extending per
// signed (spec §4.D "shorter operands are sign- or zero-extended based on
// A_SIGNED/B_SIGNED").
func extend(bits []aig.Lit, w int, signed bool) []aig.Lit {
	if signed {
		return signExtend(bits, w)
	}
	return zeroExtend(bits, w)
}

func zeroExtend(bits []aig.Lit, w int) []aig.Lit {
	if len(bits) >= w {
		return bits[:w]
	}
	out := make([]aig.Lit, w)
	copy(out, bits)
	for i := len(bits); i < w; i++ {
		out[i] = aig.LitConst0
	}
	return out
}

func signExtend(bits []aig.Lit, w int) []aig.Lit {
	if len(bits) >= w {
		return bits[:w]
	}
	out := make([]aig.Lit, w)
	copy(out, bits)
	sign := bits[len(bits)-1]
	for i := len(bits); i < w; i++ {
		out[i] = sign
	}
	return out
}

func invertAll(bits []aig.Lit) []aig.Lit {
	out := make([]aig.Lit, len(bits))
	for i, l := range bits {
		out[i] = l.Not()
	}
	return out
}

func maxWidth(xs ...int) int {
	m := 0
	for _, x := range xs {
		if x > m {
			m = x
		}
	}
	return m
}
