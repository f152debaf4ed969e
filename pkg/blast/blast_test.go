package blast

import (
	"strings"
	"testing"

	"github.com/wlncore/wlncheck/pkg/aig"
	"github.com/wlncore/wlncheck/pkg/ids"
	"github.com/wlncore/wlncheck/pkg/rtl"
)

func newTestLib() *rtl.Lib {
	return rtl.NewLib(ids.NewNameTable(), ids.NewRangeTable())
}

// evalLit evaluates lit under a PI assignment by walking the graph's own
// node table via KindOf/Fanins, mirroring cloneSub's resimulation
// approach; used here as a tiny reference simulator for assertions instead
// of exercising pkg/aig's CNF/SAT machinery.
func evalLit(g *aig.Graph, assign map[aig.NodeID]bool, lit aig.Lit) bool {
	memo := make(map[aig.NodeID]bool)
	var eval func(id aig.NodeID) bool
	eval = func(id aig.NodeID) bool {
		if v, ok := memo[id]; ok {
			return v
		}
		var v bool
		switch g.KindOf(id) {
		case aig.KindConst1:
			v = true
		case aig.KindPI:
			v = assign[id]
		case aig.KindAnd:
			fi0, fi1 := g.Fanins(id)
			v = evalLit(g, assign, fi0) && evalLit(g, assign, fi1)
		case aig.KindBuf:
			fi0, _ := g.Fanins(id)
			v = evalLit(g, assign, fi0)
		}
		memo[id] = v
		return v
	}
	v := eval(lit.Var())
	if lit.Sign() {
		return !v
	}
	return v
}

func evalVec(g *aig.Graph, assign map[aig.NodeID]bool, lits []aig.Lit) int64 {
	var v int64
	for i, l := range lits {
		if evalLit(g, assign, l) {
			v |= 1 << uint(i)
		}
	}
	return v
}

// assignFor binds words[k] to the next widths[k] PIs, LSB first — one word
// per input wire, in the order Blast allocates the wires' PIs.
func assignFor(pis []aig.NodeID, widths []int, words ...int64) map[aig.NodeID]bool {
	assign := make(map[aig.NodeID]bool, len(pis))
	idx := 0
	for k, w := range words {
		for b := 0; b < widths[k] && idx < len(pis); b++ {
			assign[pis[idx]] = (w>>uint(b))&1 == 1
			idx++
		}
	}
	return assign
}

func blastFixture(t *testing.T, src string) (*rtl.Lib, *aig.Graph, *Blasted) {
	t.Helper()
	lib := newTestLib()
	if err := rtl.Parse(strings.NewReader(src), lib); err != nil {
		t.Fatalf("Parse() = %v", err)
	}
	if _, err := rtl.Normalize(lib); err != nil {
		t.Fatalf("Normalize() = %v", err)
	}
	g := aig.NewGraph(0, 0)
	modIdx, ok := lib.ModuleByName("top")
	if !ok {
		modIdx = 0
	}
	b, err := Blast(lib, modIdx, g, DefaultOptions())
	if err != nil {
		t.Fatalf("Blast() = %v", err)
	}
	return lib, g, b
}

func TestBlastAdder2Bit(t *testing.T) {
	const src = `
module top
  wire width 2 input 1 a
  wire width 2 input 2 b
  wire width 2 output 1 y
  cell $add add1
    connect A a
    connect B b
    connect Y y
  end
end
`
	_, g, b := blastFixture(t, src)
	for a := int64(0); a < 4; a++ {
		for bb := int64(0); bb < 4; bb++ {
			assign := assignFor(b.PIs, []int{2, 2}, a, bb)
			got := evalVec(g, assign, b.POs)
			want := (a + bb) & 0x3
			if got != want {
				t.Errorf("a=%d b=%d: got %d want %d", a, bb, got, want)
			}
		}
	}
}

func TestBlastCompareLess(t *testing.T) {
	const src = `
module top
  wire width 3 input 1 a
  wire width 3 input 2 b
  wire width 1 output 1 y
  cell $lt lt1
    connect A a
    connect B b
    connect Y y
  end
end
`
	_, g, b := blastFixture(t, src)
	for a := int64(0); a < 8; a++ {
		for bb := int64(0); bb < 8; bb++ {
			assign := assignFor(b.PIs, []int{3, 3}, a, bb)
			got := evalVec(g, assign, b.POs)
			want := int64(0)
			if a < bb {
				want = 1
			}
			if got != want {
				t.Errorf("a=%d b=%d: got %d want %d", a, bb, got, want)
			}
		}
	}
}

func TestBlastMux2(t *testing.T) {
	const src = `
module top
  wire width 4 input 1 a
  wire width 4 input 2 b
  wire width 1 input 3 s
  wire width 4 output 1 y
  cell $mux mux1
    connect A a
    connect B b
    connect S s
    connect Y y
  end
end
`
	_, g, b := blastFixture(t, src)
	for s := int64(0); s < 2; s++ {
		a, bb := int64(5), int64(10)
		assign := assignFor(b.PIs, []int{4, 4, 1}, a, bb, s)
		got := evalVec(g, assign, b.POs)
		want := a
		if s == 1 {
			want = bb
		}
		if got != want {
			t.Errorf("s=%d: got %d want %d", s, got, want)
		}
	}
}

func TestBlastMultiplyArrayVsBooth(t *testing.T) {
	const src = `
module top
  wire width 4 input 1 a
  wire width 4 input 2 b
  wire width 8 output 1 y
  cell $mul mul1
    connect A a
    connect B b
    connect Y y
  end
end
`
	lib1 := newTestLib()
	if err := rtl.Parse(strings.NewReader(src), lib1); err != nil {
		t.Fatalf("Parse() = %v", err)
	}
	if _, err := rtl.Normalize(lib1); err != nil {
		t.Fatalf("Normalize() = %v", err)
	}
	gArray := aig.NewGraph(0, 0)
	bArray, err := Blast(lib1, 0, gArray, DefaultOptions())
	if err != nil {
		t.Fatalf("Blast(array) = %v", err)
	}

	lib2 := newTestLib()
	if err := rtl.Parse(strings.NewReader(src), lib2); err != nil {
		t.Fatalf("Parse() = %v", err)
	}
	if _, err := rtl.Normalize(lib2); err != nil {
		t.Fatalf("Normalize() = %v", err)
	}
	opts := DefaultOptions()
	opts.Booth = true
	gBooth := aig.NewGraph(0, 0)
	bBooth, err := Blast(lib2, 0, gBooth, opts)
	if err != nil {
		t.Fatalf("Blast(booth) = %v", err)
	}

	for a := int64(0); a < 16; a += 3 {
		for bb := int64(0); bb < 16; bb += 5 {
			want := a * bb
			assign1 := assignFor(bArray.PIs, []int{4, 4}, a, bb)
			got1 := evalVec(gArray, assign1, bArray.POs)
			assign2 := assignFor(bBooth.PIs, []int{4, 4}, a, bb)
			got2 := evalVec(gBooth, assign2, bBooth.POs)
			if got1 != want {
				t.Errorf("array a=%d b=%d: got %d want %d", a, bb, got1, want)
			}
			if got2 != want {
				t.Errorf("booth a=%d b=%d: got %d want %d", a, bb, got2, want)
			}
		}
	}
}

func TestBlastDivByZeroAllOnes(t *testing.T) {
	const src = `
module top
  wire width 4 input 1 a
  wire width 4 input 2 b
  wire width 4 output 1 y
  cell $div div1
    connect A a
    connect B b
    connect Y y
  end
end
`
	_, g, b := blastFixture(t, src)
	assign := assignFor(b.PIs, []int{4, 4}, int64(7), int64(0))
	got := evalVec(g, assign, b.POs)
	if got != 0xF {
		t.Errorf("div by zero = %d, want all-ones (15)", got)
	}
}

func TestBlastHierarchicalInstance(t *testing.T) {
	const src = `
module leaf
  wire width 4 input 1 a
  wire width 4 input 2 b
  wire width 4 output 1 y
  cell $add add1
    connect A a
    connect B b
    connect Y y
  end
end
module top
  wire width 4 input 1 x
  wire width 4 input 2 z
  wire width 4 output 1 w
  cell leaf inst1
    connect a x
    connect b z
    connect y w
  end
end
`
	lib, g, b := blastFixture(t, src)
	_ = lib
	for x := int64(0); x < 16; x += 3 {
		for z := int64(0); z < 16; z += 4 {
			assign := assignFor(b.PIs, []int{4, 4}, x, z)
			got := evalVec(g, assign, b.POs)
			want := (x + z) & 0xF
			if got != want {
				t.Errorf("x=%d z=%d: got %d want %d", x, z, got, want)
			}
		}
	}
}

func TestBlastIsMemoized(t *testing.T) {
	const src = `
module leaf
  wire width 2 input 1 a
  wire width 2 output 1 y
  connect y a
end
module top
  wire width 2 input 1 x
  wire width 2 output 1 w1
  wire width 2 output 2 w2
  cell leaf inst1
    connect a x
    connect y w1
  end
  cell leaf inst2
    connect a x
    connect y w2
  end
end
`
	lib := newTestLib()
	if err := rtl.Parse(strings.NewReader(src), lib); err != nil {
		t.Fatalf("Parse() = %v", err)
	}
	if _, err := rtl.Normalize(lib); err != nil {
		t.Fatalf("Normalize() = %v", err)
	}
	leafIdx, _ := lib.ModuleByName("leaf")
	g := aig.NewGraph(0, 0)
	topIdx, _ := lib.ModuleByName("top")
	if _, err := Blast(lib, topIdx, g, DefaultOptions()); err != nil {
		t.Fatalf("Blast() = %v", err)
	}
	if _, ok := lib.BlastCache[leafIdx]; !ok {
		t.Errorf("leaf module was not memoized in BlastCache")
	}
}

func TestReduceInverseBoundariesNoOp(t *testing.T) {
	g := aig.NewGraph(0, 0)
	if got := ReduceInverseBoundaries(g); got != 0 {
		t.Errorf("ReduceInverseBoundaries on empty graph = %d, want 0", got)
	}
}
