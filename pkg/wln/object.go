// Package wln implements the word-level network: a typed DAG of bit-vector
// operators with slicing, concatenation, and sequential elements, plus the
// DFS/acyclicity/fanout infrastructure spec §3.2/§4.B describe. The shape
// mirrors the teacher's instruction representation (pkg/inst.Instruction):
// a small, trivially-copyable value type plus a dense side-table keyed by a
// compact integer, generalized here from a fixed-width CPU opcode to an
// open-ended DAG node.
package wln

import "github.com/wlncore/wlncheck/pkg/ids"

// ObjType is the closed set of WLN node type tags (spec §3.2).
type ObjType uint8

const (
	None ObjType = iota
	CI           // combinational input
	CO           // combinational output
	Fon          // fanout marker
	Const
	Slice
	Concat
	Buf
	Inv
	And
	Or
	Xor
	Nand
	Nor
	Nxor
	RedAnd
	RedOr
	RedXor
	RedNand
	RedNor
	RedNxor
	LogicNot
	LogicAnd
	LogicOr
	LogicXor
	LogicImpl
	Mux  // bit mux
	Nmux // n-way mux
	Pmux // one-hot priority mux
	Decoder
	Add
	Sub
	AddSub
	Mul
	Div
	Mod
	Rem
	Pow
	Sqrt
	Square
	Min // unary negate
	ShiftL
	ShiftR
	ShiftLA
	ShiftRA
	ShiftRotL
	ShiftRotR
	SignExt
	ZeroPad
	CompEqu
	CompNotEqu
	CompLess
	CompLessEqu
	CompMore
	CompMoreEqu
	Table // ROM lookup
	Lut
	RamR
	RamW
	Dffrse // flop with reset/set/enable
	numObjTypes
)

// String names match the spec's type tags for diagnostics and "ps"/"print"
// output.
func (t ObjType) String() string {
	names := [...]string{
		"NONE", "CI", "CO", "FON", "CONST", "SLICE", "CONCAT", "BUF", "INV",
		"AND", "OR", "XOR", "NAND", "NOR", "NXOR",
		"RED_AND", "RED_OR", "RED_XOR", "RED_NAND", "RED_NOR", "RED_NXOR",
		"LOGIC_NOT", "LOGIC_AND", "LOGIC_OR", "LOGIC_XOR", "LOGIC_IMPL",
		"MUX", "NMUX", "PMUX", "DECODER",
		"ADD", "SUB", "ADDSUB", "MUL", "DIV", "MOD", "REM", "POW", "SQRT", "SQUARE", "MIN",
		"SHIFT_L", "SHIFT_R", "SHIFT_LA", "SHIFT_RA", "SHIFT_ROTL", "SHIFT_ROTR",
		"SIGNEXT", "ZEROPAD",
		"COMP_EQU", "COMP_NOTEQU", "COMP_LESS", "COMP_LESSEQU", "COMP_MORE", "COMP_MOREEQU",
		"TABLE", "LUT", "RAMR", "RAMW", "DFFRSE",
	}
	if int(t) < len(names) {
		return names[t]
	}
	return "?"
}

// ObjID is a stable 1-based integer object ID. 0 is reserved for "null"
// (spec §3.2).
type ObjID int32

const NullID ObjID = 0

// sboFanins is the small-buffer-optimized inline fanin storage: up to two
// fanins stored inline, matching spec §3.2 "Two special slots when fanin
// count <= 2 are stored inline (SBO); otherwise the list is heap-allocated."
type sboFanins struct {
	n      uint8 // number of fanins actually in use
	inline [2]ObjID
	heap   []ObjID // used only once n > 2
}

func (f *sboFanins) add(id ObjID) {
	if int(f.n) < len(f.inline) && f.heap == nil {
		f.inline[f.n] = id
		f.n++
		return
	}
	if f.heap == nil {
		// Migrate the two inline slots into the heap slice, preserving
		// insertion order (spec §3.2: "Wln_ObjAddFanin preserves insertion
		// order").
		f.heap = make([]ObjID, 0, 4)
		f.heap = append(f.heap, f.inline[:f.n]...)
	}
	f.heap = append(f.heap, id)
	f.n++
}

func (f *sboFanins) set(i int, id ObjID) {
	if f.heap != nil {
		f.heap[i] = id
		return
	}
	f.inline[i] = id
}

func (f *sboFanins) slice() []ObjID {
	if f.heap != nil {
		return f.heap
	}
	return f.inline[:f.n]
}

func (f *sboFanins) len() int { return int(f.n) }

// Object is one WLN node. Field names follow spec §3.2 directly.
type Object struct {
	Type     ObjType
	Signed   bool
	RangeID  ids.RangeID
	NameID   ids.NameID // 0 = unnamed
	fanins   sboFanins

	// Auxiliary, set lazily by the passes that need them.
	Copy     ObjID // duplication map target
	Level    int32
	RefCount int32
	TravID   uint32
	Bits     int32 // AIG literal offset; no pass in this module sets it
}

// FaninCount returns the number of fanins currently attached.
func (o *Object) FaninCount() int { return o.fanins.len() }

// Fanins returns the fanin object IDs in insertion order. The returned
// slice aliases internal storage and must not be retained across further
// AddFanin calls on the same object.
func (o *Object) Fanins() []ObjID { return o.fanins.slice() }

// Fanin returns the i-th fanin, or NullID if out of range.
func (o *Object) Fanin(i int) ObjID {
	s := o.fanins.slice()
	if i < 0 || i >= len(s) {
		return NullID
	}
	return s[i]
}

// SetFanin overwrites the i-th fanin slot in place (used by NewObject,
// setCioIndex and AddFanin for the reserved CI/CO slots).
func (o *Object) SetFanin(i int, id ObjID) { o.fanins.set(i, id) }

// IsCio reports whether o is a combinational input or output.
func (o *Object) IsCio() bool { return o.Type == CI || o.Type == CO }
