// Package invariant manages saved inductive invariants (spec §6.1
// "inv_ps/inv_print/inv_check/inv_get/inv_put/inv_min"): named AIG
// literals that some earlier proof established as always-true, kept
// around so a later guidance run can assume them instead of re-deriving
// them. Persistence follows pkg/report.Checkpoint's lead: gob-encoded,
// one file per saved set.
package invariant

import (
	"encoding/gob"
	"fmt"
	"os"
	"sort"

	"github.com/wlncore/wlncheck/pkg/aig"
	"github.com/wlncore/wlncheck/pkg/satsolver"
)

// Entry is one saved invariant: a literal plus the name it was proved
// under.
type Entry struct {
	Name string
	Lit  aig.Lit
}

// Store holds a named set of invariants, guarded by nothing beyond
// single-threaded CLI use (the core itself has no internal parallelism,
// per spec §5, and this package only ever runs from cmd/wlncheck's
// single goroutine).
type Store struct {
	entries map[string]aig.Lit
}

func init() {
	gob.Register(map[string]uint32{})
}

// NewStore creates an empty invariant store.
func NewStore() *Store {
	return &Store{entries: make(map[string]aig.Lit)}
}

// Put records lit as the invariant named name, overwriting any prior
// entry of the same name (the `inv_put` command).
func (s *Store) Put(name string, lit aig.Lit) {
	s.entries[name] = lit
}

// Get retrieves the invariant named name (the `inv_get` command).
func (s *Store) Get(name string) (aig.Lit, bool) {
	lit, ok := s.entries[name]
	return lit, ok
}

// Entries returns all stored invariants sorted by name (`inv_ps`/`inv_print`).
func (s *Store) Entries() []Entry {
	out := make([]Entry, 0, len(s.entries))
	for name, lit := range s.entries {
		out = append(out, Entry{Name: name, Lit: lit})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out
}

// Check verifies every stored invariant still evaluates to constant-true
// in g, returning the names of any that do not (the `inv_check` command).
func Check(s *Store, g *aig.Graph, limits satsolver.Limits) []string {
	var broken []string
	for _, e := range s.Entries() {
		cut := g.NewBuf(e.Lit, 1, 0, aig.SideIn)
		res := satsolver.AreEquivalentSAT(g, cut.Var(), 0, limits)
		if res.Verdict != satsolver.VerdictEquivalent {
			broken = append(broken, e.Name)
		}
	}
	return broken
}

// Min drops any invariant that is implied by the conjunction of the
// others (the `inv_min` command): an invariant e is redundant if
// NOT(e.Lit) AND the others' literals is UNSAT, i.e. the others already
// force e.Lit true. Implemented as repeated pairwise subset testing,
// which is quadratic but invariant sets in this workflow are small.
func (s *Store) Min(g *aig.Graph, limits satsolver.Limits) int {
	entries := s.Entries()
	kept := make(map[string]aig.Lit, len(entries))
	for _, e := range entries {
		kept[e.Name] = e.Lit
	}
	removed := 0
	for _, e := range entries {
		if len(kept) == 1 {
			break
		}
		delete(kept, e.Name)
		others := aig.LitConst1
		for _, lit := range kept {
			others = andLits(g, others, lit)
		}
		// e is redundant iff the remaining invariants already force it:
		// NOT(others) OR e.Lit must be always-true, i.e. others => e.Lit.
		implied := orLits(g, others.Not(), e.Lit)
		cut := g.NewBuf(implied, 1, 0, aig.SideIn)
		res := satsolver.AreEquivalentSAT(g, cut.Var(), 0, limits)
		if res.Verdict == satsolver.VerdictEquivalent {
			removed++
			continue
		}
		kept[e.Name] = e.Lit
	}
	s.entries = kept
	return removed
}

func andLits(g *aig.Graph, x, y aig.Lit) aig.Lit {
	return g.NodeAndCanon(x, y).Lit
}

func orLits(g *aig.Graph, x, y aig.Lit) aig.Lit {
	return g.NodeAndCanon(x.Not(), y.Not()).Lit.Not()
}

// Save writes the store to path as a name->(id,sign) map.
func Save(path string, s *Store) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()
	raw := make(map[string]uint32, len(s.entries))
	for name, lit := range s.entries {
		raw[name] = uint32(lit)
	}
	return gob.NewEncoder(f).Encode(raw)
}

// Load reads a store previously written by Save.
func Load(path string) (*Store, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	var raw map[string]uint32
	if err := gob.NewDecoder(f).Decode(&raw); err != nil {
		return nil, fmt.Errorf("invariant: decode %s: %w", path, err)
	}
	s := NewStore()
	for name, v := range raw {
		s.entries[name] = aig.Lit(v)
	}
	return s, nil
}
