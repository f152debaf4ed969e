package rtl

import "github.com/wlncore/wlncheck/pkg/ids"

// Lib is the library-wide container: shared name/range pools, constant and
// slice/concat tables, the module list, and the equivalence annotations
// that drive guidance tasks (spec §3.4 "Lib = { name_pool, const_pool,
// slice_pool, concat_pool, modules[], invariant_marks,
// direct_equivalences, inverse_equivalences }").
type Lib struct {
	Names  *ids.NameTable
	Ranges *ids.RangeTable

	Consts  []ConstValue
	Slices  []SliceRef
	Concats []ConcatRef

	Modules []*Module

	// DirectEquivalences/InverseEquivalences record module-index pairs
	// marked by the `graft` command (§6.1) or recovered from
	// original_source's vBarBufs/fRoot bookkeeping. No other package reads
	// these lists; MarkInverseEquivalent also sets both modules' Boundary
	// flag, which pkg/blast's barrier-buffer insertion reads.
	DirectEquivalences  [][2]int
	InverseEquivalences [][2]int

	moduleIndex map[ids.NameID]int

	// BlastCache holds one bit-blasting result per already-blasted module
	// index (spec §4.D "idempotent and memoized at the module level").
	// Stored as interface{} rather than a pkg/blast type to avoid an
	// import cycle (pkg/blast imports pkg/rtl, not the reverse); pkg/blast
	// type-asserts its own *Blasted out of this map.
	BlastCache map[int]interface{}
}

// NewLib creates an empty library sharing the given intern pools.
func NewLib(names *ids.NameTable, ranges *ids.RangeTable) *Lib {
	return &Lib{
		Names:       names,
		Ranges:      ranges,
		moduleIndex: make(map[ids.NameID]int),
		BlastCache:  make(map[int]interface{}),
	}
}

// AddModule appends a new, empty module named name and returns its index.
func (l *Lib) AddModule(name string) int {
	nid := l.Names.Intern(name)
	idx := len(l.Modules)
	l.Modules = append(l.Modules, &Module{NameID: nid})
	l.moduleIndex[nid] = idx
	return idx
}

// ModuleByName returns a module's index by name, or (-1, false) if absent.
func (l *Lib) ModuleByName(name string) (int, bool) {
	nid, ok := l.Names.Find(name)
	if !ok {
		return -1, false
	}
	idx, ok := l.moduleIndex[nid]
	if !ok {
		return -1, false
	}
	return idx, true
}

// InternConst interns a constant value into the shared const pool,
// returning a SigConst Signal. Constants are not deduplicated (spec §4.A
// only mandates dedup for ranges/names; repeated identical constants in
// different cells are independent occurrences in the original RTLIL
// stream).
func (l *Lib) InternConst(c ConstValue) Signal {
	idx := len(l.Consts)
	l.Consts = append(l.Consts, c)
	return Signal{Kind: SigConst, Payload: uint32(idx)}
}

// InternSlice interns a slice descriptor, returning a SigSlice Signal.
func (l *Lib) InternSlice(s SliceRef) Signal {
	idx := len(l.Slices)
	l.Slices = append(l.Slices, s)
	return Signal{Kind: SigSlice, Payload: uint32(idx)}
}

// InternConcat interns a concat descriptor, returning a SigConcat Signal.
func (l *Lib) InternConcat(c ConcatRef) Signal {
	idx := len(l.Concats)
	l.Concats = append(l.Concats, c)
	return Signal{Kind: SigConcat, Payload: uint32(idx)}
}

// MarkDirectEquivalent records that modules a and b are claimed equal (the
// `graft mod1 mod2` command, §6.1).
func (l *Lib) MarkDirectEquivalent(a, b int) {
	l.DirectEquivalences = append(l.DirectEquivalences, [2]int{a, b})
}

// MarkInverseEquivalent records that modules a and b are claimed inverse
// of one another (`graft mod1 mod2 -i`).
func (l *Lib) MarkInverseEquivalent(a, b int) {
	l.InverseEquivalences = append(l.InverseEquivalences, [2]int{a, b})
	l.Modules[a].Boundary = true
	l.Modules[b].Boundary = true
}
