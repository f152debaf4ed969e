package aig

// SimVectorsMatch exports simVectorsMatch for callers outside the package
// (pkg/satsolver's step 2 "if simulation vectors already differ, return
// Counter_example" pre-check, spec §4.E).
func (g *Graph) SimVectorsMatch(a, b NodeID) bool { return g.simVectorsMatch(a, b) }

// InTFI reports whether target is reachable by following fanins down
// from root — i.e. target is in root's transitive fanin. Used to guard
// choice-chain linking (spec §4.E step 5: link b into a's choice chain
// "if... a is not in the TFI of b").
func (g *Graph) InTFI(root, target NodeID) bool {
	if root == target {
		return true
	}
	seen := make(map[NodeID]bool)
	var visit func(id NodeID) bool
	visit = func(id NodeID) bool {
		if id == target {
			return true
		}
		if seen[id] {
			return false
		}
		seen[id] = true
		n := g.Node(id)
		switch n.kind {
		case KindAnd:
			return visit(n.fi0.Var()) || visit(n.fi1.Var())
		case KindBuf:
			return visit(n.fi0.Var())
		}
		return false
	}
	return visit(root)
}

// Level returns a node's AIG level (longest path to a PI/CONST1).
func (g *Graph) Level(id NodeID) int32 { return g.Node(id).level }

// KindOf reports an allocated node's kind, for callers outside the
// package that need to walk the graph structurally (pkg/blast's
// submodule-instance cloning).
func (g *Graph) KindOf(id NodeID) Kind { return g.Node(id).kind }

// Fanins returns an AND or BUF node's fanin literals (fi1 is the zero
// value for BUF, which has only one fanin).
func (g *Graph) Fanins(id NodeID) (Lit, Lit) {
	n := g.Node(id)
	return n.fi0, n.fi1
}
