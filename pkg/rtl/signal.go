// Package rtl implements the hierarchical RTL library: the multi-module
// container that sits above the word-level network (spec §3.4/§4.C). A
// Lib owns modules; a Module owns wires, cells, and direct connections;
// names, constants, slices, and concats are shared in library-wide pools,
// matching the teacher's own library-vs-catalog split
// (pkg/inst.Catalog is shared read-only state, pkg/cpu.State is per-run).
package rtl

// SignalKind tags the four-variant signal union (spec §3.4 "tagged 2-bit
// unions over a 32-bit value").
type SignalKind uint8

const (
	SigWire SignalKind = iota
	SigConst
	SigSlice
	SigConcat
)

func (k SignalKind) String() string {
	switch k {
	case SigWire:
		return "wire"
	case SigConst:
		return "const"
	case SigSlice:
		return "slice"
	case SigConcat:
		return "concat"
	}
	return "?"
}

// Signal is a tagged reference: Payload indexes into the wire table (for
// SigWire, a module-local wire index), the library's const/slice/concat
// pool (for the other three kinds).
type Signal struct {
	Kind    SignalKind
	Payload uint32
}

// ConstValue is a parsed constant literal. Width == -1 marks an untyped
// decimal constant stored as (-1, value), per spec §4.C "Constants parse
// as either <width>'b<bits> or a plain decimal pair".
type ConstValue struct {
	Width int32
	Bits  []byte // one byte per bit, '0'/'1'/'x'/'z', MSB-first; valid when Width >= 0
	Value int64  // valid when Width == -1
}

// SliceRef is a slice descriptor: Base[Hi:Lo]. Base is itself a Signal so
// slices of concats or of other slices are representable, though in
// practice Base is almost always SigWire.
type SliceRef struct {
	Base   Signal
	Hi, Lo int32

	// ModuleIdx records which module's wire table Base resolves against
	// when Base.Kind == SigWire, so library-wide passes (range
	// normalization) can find the wire's Offset/Upto without threading a
	// module argument through every Signal.
	ModuleIdx int
}

// ConcatRef is an ordered list of child signals, MSB-first (matching
// `{ sig sig ... }` RTLIL syntax, spec §4.C).
type ConcatRef struct {
	Children []Signal
}
