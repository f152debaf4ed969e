package wln

import (
	"testing"

	"github.com/wlncore/wlncheck/pkg/ids"
)

func newTestNetwork(name string) *Network {
	return NewNetwork(name, ids.NewRangeTable(), ids.NewNameTable())
}

// buildAdder builds a tiny combinational network: co = AND(ci0, ci1).
func buildAdder(n *Network) (ci0, ci1, and, co ObjID) {
	ci0 = n.NewObject(CI, false, 0, 0)
	ci1 = n.NewObject(CI, false, 0, 0)
	and = n.NewObject(And, false, 0, 0)
	n.AddFanin(and, ci0)
	n.AddFanin(and, ci1)
	co = n.NewObject(CO, false, 0, 0)
	n.AddFanin(co, and)
	return
}

func TestNewObjectRegistersSideTables(t *testing.T) {
	n := newTestNetwork("m")
	ci0, ci1, _, co := buildAdder(n)

	if len(n.Cis()) != 2 || n.Cis()[0] != ci0 || n.Cis()[1] != ci1 {
		t.Fatalf("Cis() = %v, want [%d %d]", n.Cis(), ci0, ci1)
	}
	if len(n.Cos()) != 1 || n.Cos()[0] != co {
		t.Fatalf("Cos() = %v, want [%d]", n.Cos(), co)
	}
}

func TestCoDriverOverwritesPlaceholderSlot(t *testing.T) {
	n := newTestNetwork("m")
	_, _, and, co := buildAdder(n)

	o := n.Obj(co)
	if got := o.FaninCount(); got != 2 {
		t.Fatalf("CO FaninCount() = %d, want 2 (driver + side-table index)", got)
	}
	if got := o.Fanin(0); got != and {
		t.Fatalf("CO driver slot = %d, want %d", got, and)
	}
	if got := o.Fanin(1); got != ObjID(0) {
		t.Fatalf("CO side-table index slot = %d, want 0 (first CO)", got)
	}
}

func TestAddFaninRejectsConst(t *testing.T) {
	n := newTestNetwork("m")
	c := n.NewObject(Const, false, 7, 0)

	defer func() {
		if recover() == nil {
			t.Fatal("AddFanin into CONST should panic via wlnerr.Raise")
		}
	}()
	n.AddFanin(c, c)
}

func TestAllowsZeroFaninForDesignatedSlots(t *testing.T) {
	n := newTestNetwork("m")
	mux := n.NewObject(Mux, false, 0, 0)
	// Mux accepts an unconnected (identity) fanin without panicking.
	n.AddFanin(mux, NullID)
	if n.Obj(mux).FaninCount() != 1 {
		t.Fatalf("expected the zero fanin to be recorded")
	}
}

func TestInternSliceAndConcatRoundTrip(t *testing.T) {
	n := newTestNetwork("m")
	base := n.Names.Intern("w")
	sIdx := n.InternSlice(SliceDesc{BaseName: base, Msb: 7, Lsb: 4})
	if got := n.Slice(sIdx); got.Msb != 7 || got.Lsb != 4 || got.BaseName != base {
		t.Fatalf("Slice(%d) = %+v, want {base,7,4}", sIdx, got)
	}

	a := n.NewObject(CI, false, 0, 0)
	b := n.NewObject(CI, false, 0, 0)
	cIdx := n.InternConcat(ConcatDesc{Children: []ObjID{a, b}})
	got := n.Concat(cIdx)
	if len(got.Children) != 2 || got.Children[0] != a || got.Children[1] != b {
		t.Fatalf("Concat(%d) = %+v, want {[%d %d]}", cIdx, got, a, b)
	}
}
