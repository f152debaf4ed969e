package ids

import "testing"

func TestRangeInternIdempotent(t *testing.T) {
	tbl := NewRangeTable()
	tests := []struct{ msb, lsb int32 }{
		{7, 0}, {31, 0}, {0, 0}, {3, 5}, {100, 99},
	}
	for _, tc := range tests {
		a := tbl.Intern(tc.msb, tc.lsb)
		b := tbl.Intern(tc.msb, tc.lsb)
		if a != b {
			t.Errorf("Intern(%d,%d) not idempotent: %d != %d", tc.msb, tc.lsb, a, b)
		}
		if got := tbl.Lookup(a); got.Msb != tc.msb || got.Lsb != tc.lsb {
			t.Errorf("Lookup(%d) = %+v, want (%d,%d)", a, got, tc.msb, tc.lsb)
		}
	}
}

func TestRangeTablePreseeded(t *testing.T) {
	tbl := NewRangeTable()
	if tbl.Len() == 0 {
		t.Fatal("expected pre-seeded ranges")
	}
	// (7,0) should already be present from the 0..64 scalar-width seeding.
	before := tbl.Len()
	tbl.Intern(7, 0)
	if tbl.Len() != before {
		t.Errorf("interning a pre-seeded range grew the table: %d -> %d", before, tbl.Len())
	}
}

func TestRangeWidth(t *testing.T) {
	cases := []struct {
		r    Range
		want int
	}{
		{Range{7, 0}, 8},
		{Range{0, 0}, 1},
		{Range{3, 5}, 3},
	}
	for _, c := range cases {
		if got := c.r.Width(); got != c.want {
			t.Errorf("Range%+v.Width() = %d, want %d", c.r, got, c.want)
		}
	}
	if !(Range{3, 5}).Reversed() {
		t.Error("Range{3,5} should be reversed")
	}
	if (Range{5, 3}).Reversed() {
		t.Error("Range{5,3} should not be reversed")
	}
}

func TestNameInternIdempotentAndZero(t *testing.T) {
	tbl := NewNameTable()
	if id := tbl.Intern(""); id != 0 {
		t.Errorf("Intern(\"\") = %d, want 0", id)
	}
	a := tbl.Intern("clk")
	b := tbl.Intern("clk")
	if a != b || a == 0 {
		t.Errorf("Intern(\"clk\") not idempotent/nonzero: %d, %d", a, b)
	}
	c := tbl.Intern("rst")
	if c == a {
		t.Error("distinct names interned to the same ID")
	}
	if tbl.Lookup(a) != "clk" {
		t.Errorf("Lookup(%d) = %q, want clk", a, tbl.Lookup(a))
	}
}
