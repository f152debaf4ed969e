package wln

import (
	"testing"

	"github.com/wlncore/wlncheck/pkg/wlnerr"
)

func TestAcyclicityCheckAcceptsDAG(t *testing.T) {
	n := newTestNetwork("m")
	buildAdder(n)
	if err := n.AcyclicityCheck(); err != nil {
		t.Fatalf("AcyclicityCheck() on a DAG = %v, want nil", err)
	}
}

// TestCombinationalCycleDetection matches spec §8's end-to-end scenario: a
// network with two ANDs where w1 = AND(w2, pi) and w2 = AND(w1, pi) must
// report Cycle listing w1 -> w2 -> w1.
func TestCombinationalCycleDetection(t *testing.T) {
	n := newTestNetwork("m")
	pi := n.NewObject(CI, false, 0, 0)
	w1 := n.NewObject(And, false, 0, 0)
	w2 := n.NewObject(And, false, 0, 0)

	n.AddFanin(w1, w2)
	n.AddFanin(w1, pi)
	n.AddFanin(w2, w1)
	n.AddFanin(w2, pi)

	co := n.NewObject(CO, false, 0, 0)
	n.AddFanin(co, w1)

	err := n.AcyclicityCheck()
	if err == nil {
		t.Fatal("AcyclicityCheck() on a cyclic graph = nil, want Cycle error")
	}
	cyc, ok := err.(interface{ Error() string })
	if !ok {
		t.Fatalf("unexpected error type %T", err)
	}
	_ = cyc
	c, ok := err.(*wlnerr.Cycle)
	if !ok {
		t.Fatalf("error type = %T, want *wlnerr.Cycle", err)
	}
	p := c.Path
	if c.Object != int32(w1) || len(p) < 3 || p[len(p)-3] != int32(w1) || p[len(p)-2] != int32(w2) || p[len(p)-1] != int32(w1) {
		t.Errorf("Cycle object %d path %v, want path ending %d -> %d -> %d", c.Object, p, w1, w2, w1)
	}
}

func TestRebuildFanoutsCountsEachEdgeOnce(t *testing.T) {
	n := newTestNetwork("m")
	ci0, ci1, and, co := buildAdder(n)
	n.RebuildFanouts()

	if got := n.Obj(ci0).RefCount; got != 1 {
		t.Errorf("ci0 RefCount = %d, want 1", got)
	}
	if got := n.Obj(ci1).RefCount; got != 1 {
		t.Errorf("ci1 RefCount = %d, want 1", got)
	}
	if got := n.Obj(and).RefCount; got != 1 {
		t.Errorf("and RefCount = %d, want 1 (only CO drives from it)", got)
	}
	if got := n.Obj(co).RefCount; got != 0 {
		t.Errorf("co RefCount = %d, want 0 (nothing fans out of a CO)", got)
	}

	fo := n.Fanout(and)
	if len(fo) != 1 || fo[0] != co {
		t.Errorf("Fanout(and) = %v, want [%d]", fo, co)
	}
}

func TestRebuildFanoutsOnDff(t *testing.T) {
	n := newTestNetwork("m")
	d := n.NewObject(CI, false, 0, 0)
	clk := n.NewObject(CI, false, 0, 0)
	ff := n.NewObject(Dffrse, false, 0, 0)
	n.AddFanin(ff, d)
	n.AddFanin(ff, clk)

	n.RebuildFanouts()
	if got := n.Obj(d).RefCount; got != 1 {
		t.Errorf("d RefCount = %d, want 1", got)
	}
	if got := n.Obj(clk).RefCount; got != 1 {
		t.Errorf("clk RefCount = %d, want 1", got)
	}
}

// TestDuplicateDFSPreservesShape covers spec §8's object-ID stability
// property: for every source object s and its copy t, type/range/signed
// and fanin count match.
func TestDuplicateDFSPreservesShape(t *testing.T) {
	src := newTestNetwork("m")
	ci0, ci1, and, co := buildAdder(src)

	dst := DuplicateDFS(src)

	if dst.Name != src.Name {
		t.Errorf("dst.Name = %q, want %q", dst.Name, src.Name)
	}
	if len(dst.Cis()) != len(src.Cis()) || len(dst.Cos()) != len(src.Cos()) {
		t.Fatalf("side-table sizes diverged: cis %d/%d cos %d/%d",
			len(dst.Cis()), len(src.Cis()), len(dst.Cos()), len(src.Cos()))
	}

	for _, sid := range []ObjID{ci0, ci1, and, co} {
		s := src.Obj(sid)
		tid := s.Copy
		if tid == NullID {
			t.Fatalf("object %d was never copied", sid)
		}
		d := dst.Obj(tid)
		if d.Type != s.Type {
			t.Errorf("object %d: copy type = %s, want %s", sid, d.Type, s.Type)
		}
		if d.Signed != s.Signed {
			t.Errorf("object %d: copy signed = %v, want %v", sid, d.Signed, s.Signed)
		}
		if d.RangeID != s.RangeID {
			t.Errorf("object %d: copy range = %v, want %v", sid, d.RangeID, s.RangeID)
		}
		if d.FaninCount() != s.FaninCount() {
			t.Errorf("object %d: copy fanin count = %d, want %d", sid, d.FaninCount(), s.FaninCount())
		}
	}

	if err := dst.AcyclicityCheck(); err != nil {
		t.Errorf("DuplicateDFS produced a cyclic network: %v", err)
	}
}

func TestDuplicateDFSDeferredDffBody(t *testing.T) {
	src := newTestNetwork("m")
	d := src.NewObject(CI, false, 0, 0)
	clk := src.NewObject(CI, false, 0, 0)
	ff := src.NewObject(Dffrse, false, 0, 0)
	src.AddFanin(ff, d)
	src.AddFanin(ff, clk)
	co := src.NewObject(CO, false, 0, 0)
	src.AddFanin(co, ff)

	dst := DuplicateDFS(src)

	ffCopy := src.Obj(ff).Copy
	if ffCopy == NullID {
		t.Fatal("DFF was never copied")
	}
	got := dst.Obj(ffCopy)
	if got.FaninCount() != 2 {
		t.Fatalf("copied DFF FaninCount() = %d, want 2 (backpatched)", got.FaninCount())
	}
	if got.Fanin(0) != src.Obj(d).Copy || got.Fanin(1) != src.Obj(clk).Copy {
		t.Fatalf("copied DFF fanins = (%d,%d), want (%d,%d)",
			got.Fanin(0), got.Fanin(1), src.Obj(d).Copy, src.Obj(clk).Copy)
	}
}
