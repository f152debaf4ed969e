package rtl

import (
	"strings"
	"testing"

	"github.com/wlncore/wlncheck/pkg/ids"
	"github.com/wlncore/wlncheck/pkg/wln"
)

func newTestLib() *Lib {
	return NewLib(ids.NewNameTable(), ids.NewRangeTable())
}

const adderRTLIL = `
module adder
  wire width 8 input 1 a
  wire width 8 input 2 b
  wire width 8 output 1 y
  cell $add add1
    connect A a
    connect B b
    connect Y y
  end
end
`

func TestParseSimpleModule(t *testing.T) {
	lib := newTestLib()
	if err := Parse(strings.NewReader(adderRTLIL), lib); err != nil {
		t.Fatalf("Parse() = %v", err)
	}
	if len(lib.Modules) != 1 {
		t.Fatalf("Modules = %d, want 1", len(lib.Modules))
	}
	m := lib.Modules[0]
	if len(m.Wires) != 3 {
		t.Fatalf("Wires = %d, want 3", len(m.Wires))
	}
	if len(m.Cells) != 1 {
		t.Fatalf("Cells = %d, want 1", len(m.Cells))
	}
	c := m.Cells[0]
	if c.OperatorCode != wln.Add {
		t.Errorf("OperatorCode = %v, want Add", c.OperatorCode)
	}
	if len(c.Connections) != 3 {
		t.Errorf("cell Connections = %d, want 3", len(c.Connections))
	}
}

func TestParseSliceAndConcat(t *testing.T) {
	lib := newTestLib()
	src := `
module m
  wire width 8 a
  wire width 4 b
  connect b a[3:0]
  connect a { b b }
end
`
	if err := Parse(strings.NewReader(src), lib); err != nil {
		t.Fatalf("Parse() = %v", err)
	}
	m := lib.Modules[0]
	if len(m.Connections) != 2 {
		t.Fatalf("Connections = %d, want 2", len(m.Connections))
	}
	rhs := m.Connections[0].Rhs
	if rhs.Kind != SigSlice {
		t.Fatalf("first connection rhs.Kind = %v, want SigSlice", rhs.Kind)
	}
	sl := lib.Slices[rhs.Payload]
	if sl.Hi != 3 || sl.Lo != 0 {
		t.Errorf("slice = [%d:%d], want [3:0]", sl.Hi, sl.Lo)
	}

	rhs2 := m.Connections[1].Rhs
	if rhs2.Kind != SigConcat {
		t.Fatalf("second connection rhs.Kind = %v, want SigConcat", rhs2.Kind)
	}
	if len(lib.Concats[rhs2.Payload].Children) != 2 {
		t.Errorf("concat children = %d, want 2", len(lib.Concats[rhs2.Payload].Children))
	}
}

func TestParseConstants(t *testing.T) {
	lib := newTestLib()
	src := `
module m
  wire width 8 a
  connect a 8'b00001111
  connect a 42
end
`
	if err := Parse(strings.NewReader(src), lib); err != nil {
		t.Fatalf("Parse() = %v", err)
	}
	m := lib.Modules[0]
	binConst := lib.Consts[m.Connections[0].Rhs.Payload]
	if binConst.Width != 8 || string(binConst.Bits) != "00001111" {
		t.Errorf("binary const = %+v", binConst)
	}
	decConst := lib.Consts[m.Connections[1].Rhs.Payload]
	if decConst.Width != -1 || decConst.Value != 42 {
		t.Errorf("decimal const = %+v, want {-1, 42}", decConst)
	}
}

func TestParseUnsupportedOperator(t *testing.T) {
	lib := newTestLib()
	src := `
module m
  cell $frobnicate c1
  end
end
`
	err := Parse(strings.NewReader(src), lib)
	if err == nil {
		t.Fatal("Parse() with unknown $-cell = nil, want UnsupportedOperator")
	}
}

func TestNormalizeWireReordering(t *testing.T) {
	lib := newTestLib()
	// Wires declared out of IO order; normalize should sort inputs first
	// (by input number), then outputs, then internals.
	src := `
module m
  wire width 1 internal1
  wire width 1 output 1 y
  wire width 1 input 2 b
  wire width 1 input 1 a
end
`
	if err := Parse(strings.NewReader(src), lib); err != nil {
		t.Fatalf("Parse() = %v", err)
	}
	if _, err := Normalize(lib); err != nil {
		t.Fatalf("Normalize() = %v", err)
	}
	m := lib.Modules[0]
	wantOrder := []string{"a", "b", "y", "internal1"}
	for i, want := range wantOrder {
		got := lib.Names.Lookup(m.Wires[i].NameID)
		if got != want {
			t.Errorf("Wires[%d] = %q, want %q", i, got, want)
		}
	}
}

func TestNormalizeModuleTopologicalOrder(t *testing.T) {
	lib := newTestLib()
	src := `
module top
  cell leaf inst1
  end
end
module leaf
end
`
	if err := Parse(strings.NewReader(src), lib); err != nil {
		t.Fatalf("Parse() = %v", err)
	}
	if _, err := Normalize(lib); err != nil {
		t.Fatalf("Normalize() = %v", err)
	}
	// leaf must come before top after reordering (leaves first).
	leafIdx, _ := lib.ModuleByName("leaf")
	topIdx, _ := lib.ModuleByName("top")
	if leafIdx >= topIdx {
		t.Errorf("leaf index %d should be < top index %d after reordering", leafIdx, topIdx)
	}
	// top's cell ModuleRef must follow the permutation.
	topCell := lib.Modules[topIdx].Cells[0]
	if topCell.ModuleRef != leafIdx {
		t.Errorf("top's cell ModuleRef = %d, want %d (leaf's new index)", topCell.ModuleRef, leafIdx)
	}
}
