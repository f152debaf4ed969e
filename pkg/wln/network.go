package wln

import (
	"github.com/wlncore/wlncheck/pkg/ids"
	"github.com/wlncore/wlncheck/pkg/wlnerr"
)

// SliceDesc is a shared slice descriptor: (base_name_id, msb, lsb) per spec
// §3.3 "Slice objects ... reference (base_name_id, msb, lsb) in a shared
// slice table."
type SliceDesc struct {
	BaseName ids.NameID
	Msb, Lsb int32
}

// ConcatDesc is a shared concat descriptor: an ordered list of child
// signal IDs, per spec §3.3 "Concat objects hold an ordered prefix
// [count, child_sig_1..child_sig_count] in a shared concat table."
type ConcatDesc struct {
	Children []ObjID
}

// Network is one WLN DAG: a module's (or a stand-alone circuit's)
// combinational + sequential object graph, plus the side-tables spec §3.3
// requires (vCis, vCos, vFfs) and the per-session TravID counter (spec §9).
//
// A Network does not own an intern pool directly; callers share a
// *ids.RangeTable/*ids.NameTable across all networks in a session, matching
// spec §3.4 "names and constant strings are shared in the library-wide
// pool."
type Network struct {
	Name string

	Ranges *ids.RangeTable
	Names  *ids.NameTable

	objs []Object // index 0 unused; ObjID is 1-based

	cis []ObjID
	cos []ObjID
	ffs []ObjID

	slices  []SliceDesc
	concats []ConcatDesc

	travCounter uint32

	fanoutOffsets []int32 // per-object offset into fanoutFlat, rebuilt by RebuildFanouts
	fanoutFlat    []ObjID
}

// NewNetwork creates an empty network sharing the given intern pools.
func NewNetwork(name string, ranges *ids.RangeTable, names *ids.NameTable) *Network {
	return &Network{
		Name:   name,
		Ranges: ranges,
		Names:  names,
		objs:   make([]Object, 1, 256), // reserve ID 0
	}
}

// NumObjs returns the number of live objects (not counting the reserved
// null at ID 0).
func (n *Network) NumObjs() int { return len(n.objs) - 1 }

// Obj returns a pointer to the object for id. Object IDs are monotonically
// increasing and never reused within a network (spec §5 "Object IDs are
// monotonically increasing within a network"), so pointers stay valid for
// the network's lifetime as long as no further NewObject call triggers a
// slice reallocation — callers that need a stable reference across
// NewObject calls should re-fetch by ID rather than retain the pointer.
func (n *Network) Obj(id ObjID) *Object {
	return &n.objs[id]
}

// NewObject allocates a new object, interns its range, and registers it on
// the appropriate side-table if it is a CI/CO/DFF. Spec §4.B: "Object
// creation cannot fail except on OutOfMemory" — Go's allocator handles that
// case by itself (OOM is fatal at the runtime level), so this function has
// no error return.
func (n *Network) NewObject(t ObjType, signed bool, msb, lsb int32) ObjID {
	rid := n.Ranges.Intern(msb, lsb)
	id := ObjID(len(n.objs))
	n.objs = append(n.objs, Object{Type: t, Signed: signed, RangeID: rid})

	switch t {
	case CI:
		n.objs[id].SetFanin(0, NullID) // slot 0 of a CI stays NullID
		n.cis = append(n.cis, id)
		n.setCioIndex(id, len(n.cis)-1)
	case CO:
		n.cos = append(n.cos, id)
		n.setCioIndex(id, len(n.cos)-1)
	case Dffrse:
		n.ffs = append(n.ffs, id)
	}
	return id
}

// setCioIndex stores the zero-based side-table index into fanin slot 1 of
// a CI/CO object, per spec §3.3: "For any CIO object, fanin slot 1 holds
// the zero-based index into the respective side-table." Fanin slot 0 is
// reserved (left NullID for CI; for CO it holds the driven signal, added
// later via AddFanin).
func (n *Network) setCioIndex(id ObjID, idx int) {
	o := n.Obj(id)
	for o.FaninCount() < 2 {
		o.fanins.add(NullID)
	}
	o.SetFanin(1, ObjID(idx))
}

// AddFanin appends fanin to the ordered fanin list of id, preserving
// insertion order. It fails with InvariantViolation if fanin is NullID and
// the destination slot does not accept unconnected fanins (spec §4.B:
// "fails with InvariantViolation if fanin_id == 0 for non-designated
// slots"). CONST objects and a SLICE's second slot never accept fanins via
// this call: it panics with InvariantViolation for them.
func (n *Network) AddFanin(id, fanin ObjID) {
	o := n.Obj(id)
	switch o.Type {
	case Const:
		wlnerr.Raise("AddFanin: CONST object %d does not accept fanins", id)
	case Slice:
		if o.FaninCount() >= 1 {
			wlnerr.Raise("AddFanin: second slot of SLICE object %d does not accept fanins", id)
		}
	}
	if fanin == NullID && !allowsZeroFanin(o.Type) {
		wlnerr.Raise("AddFanin: zero fanin into non-designated slot of object %d (%s)", id, o.Type)
	}
	if o.Type == CO {
		// setCioIndex already reserved slot 0 (driver placeholder) and
		// slot 1 (side-table index); overwrite the placeholder instead of
		// appending a third slot.
		o.SetFanin(0, fanin)
		return
	}
	o.fanins.add(fanin)
}

// allowsZeroFanin implements the Open Question decision in DESIGN.md: an
// unconnected fanin (id 0) is treated as identity/don't-care for operator
// types where the original tool's behavior was observed to accept it
// (DFFRSE's optional control inputs, and MUX-family default/selector
// slots), and is preserved as-is rather than normalized away.
func allowsZeroFanin(t ObjType) bool {
	switch t {
	case Dffrse, Mux, Nmux, Pmux, CO:
		return true
	}
	return false
}

// Cis, Cos, Ffs return the side-tables in insertion order (spec §5:
// "Iteration order over CIs, COs, and DFFs matches insertion order").
func (n *Network) Cis() []ObjID { return n.cis }
func (n *Network) Cos() []ObjID { return n.cos }
func (n *Network) Ffs() []ObjID { return n.ffs }

// NewTravID returns a fresh traversal epoch. Pair it with Object.TravID to
// mark visitation without an O(N) clear pass (spec §9 "Global mutable
// state (TravIds)").
func (n *Network) NewTravID() uint32 {
	n.travCounter++
	return n.travCounter
}

// InternSlice interns a slice descriptor and returns its index into the
// shared slice table.
func (n *Network) InternSlice(d SliceDesc) int32 {
	n.slices = append(n.slices, d)
	return int32(len(n.slices) - 1)
}

// Slice returns the slice descriptor at index i.
func (n *Network) Slice(i int32) SliceDesc { return n.slices[i] }

// InternConcat interns a concat descriptor and returns its index into the
// shared concat table.
func (n *Network) InternConcat(d ConcatDesc) int32 {
	n.concats = append(n.concats, d)
	return int32(len(n.concats) - 1)
}

// Concat returns the concat descriptor at index i.
func (n *Network) Concat(i int32) ConcatDesc { return n.concats[i] }
