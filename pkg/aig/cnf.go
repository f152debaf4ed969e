package aig

// Clause is a disjunction of SAT literals in gini's own small-integer
// encoding (1-based variable, sign via negation), kept independent of any
// particular solver type so pkg/satsolver can feed it straight to
// `inter.Adder.Add`.
type Clause []int32

// CNF is a Tseitin encoding of a fanin cone: one SAT variable per visited
// AIG node (CONST1 fixed true), plus the clauses defining each AND/BUF
// node in terms of its fanins' variables.
type CNF struct {
	NumVars int
	Clauses []Clause
	VarOf   map[NodeID]int32 // AIG NodeID -> 1-based SAT variable
}

// BuildCNF Tseitinizes the transitive fanin cone of roots (spec §4.E
// step 3: "Build the transitive fanin cone of a and b incrementally into
// the SAT solver"). Every AND node gets the standard 3-clause encoding and
// every BUF node a 2-clause equivalence; no supergate grouping of AND
// chains and no native MUX/XOR clauses are emitted.
func BuildCNF(g *Graph, roots ...NodeID) *CNF {
	c := &CNF{VarOf: make(map[NodeID]int32)}
	c.varFor(node0) // CONST1 is always variable 1, fixed true

	var visit func(id NodeID)
	seen := make(map[NodeID]bool)
	visit = func(id NodeID) {
		if seen[id] {
			return
		}
		seen[id] = true
		n := g.Node(id)
		switch n.kind {
		case KindConst1, KindPI:
			c.varFor(id)
		case KindAnd, KindBuf:
			visit(n.fi0.Var())
			if n.kind == KindAnd {
				visit(n.fi1.Var())
			}
			c.varFor(id)
			c.emitGate(g, id, n)
		}
	}
	for _, r := range roots {
		visit(r)
	}

	c.Clauses = append(c.Clauses, Clause{c.litOf(newLit(node0, false))})
	return c
}

func (c *CNF) varFor(id NodeID) int32 {
	if v, ok := c.VarOf[id]; ok {
		return v
	}
	c.NumVars++
	v := int32(c.NumVars)
	c.VarOf[id] = v
	return v
}

// litOf converts an AIG literal into a signed SAT variable.
func (c *CNF) litOf(l Lit) int32 {
	v := c.VarOf[l.Var()]
	if l.Sign() {
		return -v
	}
	return v
}

// emitGate adds Tseitin clauses for node id given its kind. BUF nodes get
// a pair of implication clauses (z <-> x); AND nodes get the standard
// three-clause AND encoding (z -> x, z -> y, (x & y) -> z).
func (c *CNF) emitGate(g *Graph, id NodeID, n *node) {
	z := c.varFor(id)
	switch n.kind {
	case KindBuf:
		x := c.litOf(n.fi0)
		c.Clauses = append(c.Clauses, Clause{-z, x}, Clause{z, -x})
	case KindAnd:
		x := c.litOf(n.fi0)
		y := c.litOf(n.fi1)
		c.Clauses = append(c.Clauses,
			Clause{-z, x},
			Clause{-z, y},
			Clause{z, -x, -y},
		)
	}
}
