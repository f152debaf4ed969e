package rtl

import "github.com/wlncore/wlncheck/pkg/wln"

// operatorTable maps RTLIL-shaped `$`-prefixed cell-type tags to the
// WLN/AIG type taxonomy of spec §3.2, matching the closed operator set
// bit-blasting dispatches on. Unary operators read one data input ("A");
// binary read two ("A","B"); NMUX/PMUX read three or more
// ("S","A","B0".."Bn") per spec §4.C "Operator coverage".
var operatorTable = map[string]wln.ObjType{
	"$not":    wln.Inv,
	"$pos":    wln.Buf,
	"$and":    wln.And,
	"$or":     wln.Or,
	"$xor":    wln.Xor,
	"$xnor":   wln.Nxor,
	"$nand":   wln.Nand,
	"$nor":    wln.Nor,

	"$reduce_and":  wln.RedAnd,
	"$reduce_or":   wln.RedOr,
	"$reduce_xor":  wln.RedXor,
	"$reduce_nand": wln.RedNand,
	"$reduce_nor":  wln.RedNor,
	"$reduce_xnor": wln.RedNxor,
	"$reduce_bool": wln.RedOr,

	"$logic_not": wln.LogicNot,
	"$logic_and": wln.LogicAnd,
	"$logic_or":  wln.LogicOr,

	"$mux":      wln.Mux,
	"$nmux":     wln.Nmux,
	"$pmux":     wln.Pmux,
	"$bmux":     wln.Nmux,
	"$decoder":  wln.Decoder,
	"$demux":    wln.Decoder,

	"$add":    wln.Add,
	"$sub":    wln.Sub,
	"$addsub": wln.AddSub,
	"$mul":    wln.Mul,
	"$div":    wln.Div,
	"$divfloor": wln.Div,
	"$mod":    wln.Mod,
	"$modfloor": wln.Mod,
	"$pow":    wln.Pow,
	"$sqrt":   wln.Sqrt,
	"$neg":    wln.Min,

	"$shl":  wln.ShiftL,
	"$shr":  wln.ShiftR,
	"$sshl": wln.ShiftLA,
	"$sshr": wln.ShiftRA,
	"$rotl": wln.ShiftRotL,
	"$rotr": wln.ShiftRotR,

	"$sext": wln.SignExt,
	"$zext": wln.ZeroPad,

	"$eq":  wln.CompEqu,
	"$ne":  wln.CompNotEqu,
	"$lt":  wln.CompLess,
	"$le":  wln.CompLessEqu,
	"$gt":  wln.CompMore,
	"$ge":  wln.CompMoreEqu,

	"$lut":   wln.Lut,
	"$table": wln.Table,
	"$mem_r": wln.RamR,
	"$mem_w": wln.RamW,

	"$dffrse": wln.Dffrse,
	"$dff":    wln.Dffrse,
	"$dffe":   wln.Dffrse,
	"$sdff":   wln.Dffrse,
	"$adff":   wln.Dffrse,
}

// arityOf reports how many data-input ports a resolved operator expects.
// Parsing and normalization do not call it, so connection lists are not
// checked against it.
// Unary=1, binary=2, NMUX/PMUX/TABLE take a selector plus a variable case
// count resolved at blast time, so arityOf returns 0 ("variable") for
// those.
func arityOf(t wln.ObjType) int {
	switch t {
	case wln.Inv, wln.Buf, wln.RedAnd, wln.RedOr, wln.RedXor, wln.RedNand,
		wln.RedNor, wln.RedNxor, wln.LogicNot, wln.SignExt, wln.ZeroPad,
		wln.Min, wln.Sqrt, wln.Decoder:
		return 1
	case wln.And, wln.Or, wln.Xor, wln.Nand, wln.Nor, wln.Nxor,
		wln.LogicAnd, wln.LogicOr, wln.Add, wln.Sub, wln.Mul, wln.Div,
		wln.Mod, wln.Rem, wln.Pow, wln.ShiftL, wln.ShiftR, wln.ShiftLA,
		wln.ShiftRA, wln.ShiftRotL, wln.ShiftRotR,
		wln.CompEqu, wln.CompNotEqu, wln.CompLess, wln.CompLessEqu,
		wln.CompMore, wln.CompMoreEqu:
		return 2
	case wln.Mux:
		return 3
	}
	return 0
}

// ResolveOperator looks up typeName in the operator table.
func ResolveOperator(typeName string) (wln.ObjType, bool) {
	t, ok := operatorTable[typeName]
	return t, ok
}
