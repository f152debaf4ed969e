package blast

import (
	"github.com/wlncore/wlncheck/pkg/aig"
	"github.com/wlncore/wlncheck/pkg/rtl"
	"github.com/wlncore/wlncheck/pkg/wlnerr"
)

// tryBlastInstance lowers a sub-module instantiation cell: blast the
// callee (memoized), substitute its PIs with the caller's argument
// literals, and bind the substituted POs to the caller's output
// connections (spec §4.D step 3 "Sub-module instance"). Reports ok=false,
// no error, if any argument is not yet resolved.
//
// Normalization's wire-reordering pass rewrites every instance cell's
// Connections to length len(callee.Wires), indexed directly by the
// callee's (post-reorder) wire index — not just its ports — so the
// callee's own wire index is used directly below rather than a separate
// running port counter.
func (st *blastState) tryBlastInstance(c *rtl.Cell) (bool, error) {
	callee := st.lib.Modules[c.ModuleRef]
	if len(c.Connections) != len(callee.Wires) {
		wlnerr.Raise("submodule instance connection count %d does not match callee %d's wire count %d", len(c.Connections), c.ModuleRef, len(callee.Wires))
	}

	var argLits []aig.Lit
	for wi, w := range callee.Wires {
		if !w.IsInput() {
			continue
		}
		bits, ok := st.resolve(c.Connections[wi])
		if !ok {
			return false, nil
		}
		argLits = append(argLits, bits...)
	}

	sub, err := Blast(st.lib, c.ModuleRef, st.g, st.opts)
	if err != nil {
		return false, err
	}
	if len(argLits) != len(sub.PIs) {
		return false, &wlnerr.WidthMismatch{Object: "submodule instance arguments", Declared: len(sub.PIs), Got: len(argLits)}
	}

	boundary := callee.Boundary
	moduleName := uint32(callee.NameID)

	callArgs := argLits
	if boundary {
		callArgs = st.wrapBarrier(argLits, moduleName, aig.SideIn)
	}

	outBits := st.cloneSub(sub, callArgs)

	if boundary {
		outBits = st.wrapBarrier(outBits, moduleName, aig.SideOut)
	}

	pos := 0
	for wi, w := range callee.Wires {
		if !w.IsOutput() {
			continue
		}
		width := int(w.Width)
		if pos+width > len(outBits) {
			return false, &wlnerr.WidthMismatch{Object: "submodule instance outputs", Declared: pos + width, Got: len(outBits)}
		}
		if err := st.bind(c.Connections[wi], outBits[pos:pos+width]); err != nil {
			return false, err
		}
		pos += width
	}
	return true, nil
}

// cloneSub evaluates a cached module's POs under a fresh PI substitution,
// walking the callee's AIG nodes via aig.KindOf/aig.Fanins and routing
// every new AND through NodeAndCanon so strashing deduplicates against
// whatever the graph already holds; a BUF in the callee's cone is replaced
// by its fanin, so the clone carries no barrier buffers of its own — this
// is "cloning" by
// re-simulation against the structural hash table rather than copying
// nodes (spec §4.D "clone its AIG into the parent, substituting its PI
// literals with the caller's argument literals").
func (st *blastState) cloneSub(sub *Blasted, argLits []aig.Lit) []aig.Lit {
	memo := make(map[aig.NodeID]aig.Lit, len(sub.PIs))
	for i, pi := range sub.PIs {
		memo[pi] = argLits[i]
	}

	var eval func(lit aig.Lit) aig.Lit
	eval = func(lit aig.Lit) aig.Lit {
		id := lit.Var()
		if l, ok := memo[id]; ok {
			if lit.Sign() {
				return l.Not()
			}
			return l
		}

		var resolved aig.Lit
		switch st.g.KindOf(id) {
		case aig.KindConst1:
			resolved = aig.LitConst1
		case aig.KindAnd:
			fi0, fi1 := st.g.Fanins(id)
			resolved = st.g.NodeAndCanon(eval(fi0), eval(fi1)).Lit
		case aig.KindBuf:
			fi0, _ := st.g.Fanins(id)
			resolved = eval(fi0)
		default:
			wlnerr.Raise("submodule clone encountered a PI node (%d) not in its own PI list", id)
		}
		memo[id] = resolved
		if lit.Sign() {
			return resolved.Not()
		}
		return resolved
	}

	out := make([]aig.Lit, len(sub.POs))
	for i, po := range sub.POs {
		out[i] = eval(po)
	}
	return out
}
