package invariant

import (
	"path/filepath"
	"testing"

	"github.com/wlncore/wlncheck/pkg/aig"
	"github.com/wlncore/wlncheck/pkg/satsolver"
)

func defaultLimits() satsolver.Limits {
	return satsolver.Limits{BacktrackLimit: 100000, TimeLimitMs: 5000}
}

func TestPutGetEntries(t *testing.T) {
	s := NewStore()
	s.Put("always-true", aig.LitConst1)
	lit, ok := s.Get("always-true")
	if !ok || lit != aig.LitConst1 {
		t.Fatalf("Get() = %v, %v", lit, ok)
	}
	if len(s.Entries()) != 1 {
		t.Fatalf("Entries() = %d, want 1", len(s.Entries()))
	}
}

func TestCheckFlagsBrokenInvariant(t *testing.T) {
	g := aig.NewGraph(0, 0)
	pi := g.NewPI()
	s := NewStore()
	s.Put("const-true", aig.LitConst1)
	s.Put("not-always-true", newLit(pi, false))

	broken := Check(s, g, defaultLimits())
	if len(broken) != 1 || broken[0] != "not-always-true" {
		t.Errorf("broken = %v, want [not-always-true]", broken)
	}
}

func TestMinDropsRedundantInvariant(t *testing.T) {
	g := aig.NewGraph(0, 0)
	s := NewStore()
	s.Put("a", aig.LitConst1)
	s.Put("b", aig.LitConst1)
	removed := s.Min(g, defaultLimits())
	if removed == 0 {
		t.Error("expected at least one redundant invariant removed")
	}
	if len(s.Entries()) == 0 {
		t.Error("Min should never drop every invariant")
	}
}

func TestSaveLoadRoundTrip(t *testing.T) {
	s := NewStore()
	s.Put("x", aig.LitConst1)
	path := filepath.Join(t.TempDir(), "invariants.gob")
	if err := Save(path, s); err != nil {
		t.Fatalf("Save() = %v", err)
	}
	loaded, err := Load(path)
	if err != nil {
		t.Fatalf("Load() = %v", err)
	}
	lit, ok := loaded.Get("x")
	if !ok || lit != aig.LitConst1 {
		t.Errorf("Load round-trip: got %v, %v", lit, ok)
	}
}

func TestLoadMissingFile(t *testing.T) {
	if _, err := Load(filepath.Join(t.TempDir(), "missing.gob")); err == nil {
		t.Fatal("expected error for missing file")
	}
}

func newLit(id aig.NodeID, neg bool) aig.Lit {
	l := aig.Lit(id) << 1
	if neg {
		l |= 1
	}
	return l
}
