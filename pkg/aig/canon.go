package aig

// CanonResult is what NodeAndCanon hands back: the canonical literal for
// the requested AND, plus — when a brand new node's simulation vectors
// collide with an existing functional-hash bucket member — the suspect
// representative a higher layer should put through a SAT equivalence
// query (spec §4.E: "if still matching, issue a SAT equivalence query").
// pkg/aig never calls the SAT solver itself; that decision belongs to
// whatever holds a pkg/satsolver.Solver (the "narrow interface" spec §1
// calls for).
type CanonResult struct {
	Lit        Lit
	Suspect    NodeID
	HasSuspect bool
}

// NodeAndCanon implements spec §4.E's NodeAndCanon(p,q): algebraic
// identities, canonical fanin ordering, structural-hash lookup, and on a
// structural miss, allocation + simulation + functional-hash bucketing.
func (g *Graph) NodeAndCanon(p, q Lit) CanonResult {
	if lit, ok := g.algebraicIdentity(p, q); ok {
		return CanonResult{Lit: lit}
	}

	// Canonicalize fanin order: smaller variable ID first (spec §4.E
	// step 2).
	if p.Var() > q.Var() {
		p, q = q, p
	}

	key := [2]Lit{p, q}
	if id, ok := g.strash[key]; ok {
		return CanonResult{Lit: newLit(g.repOf(id), false)}
	}

	id := NodeID(len(g.nodes))
	simRand, simDyn := g.simulateAnd(p, q)
	n := node{
		kind:    KindAnd,
		fi0:     p,
		fi1:     q,
		state:   StateCanonicalized,
		simRand: simRand,
		simDyn:  simDyn,
		hashR:   hashWords(simRand),
		hashD:   hashWords(simDyn),
	}
	g.nodes = append(g.nodes, n)
	g.strash[key] = id
	g.bumpRefs(p)
	g.bumpRefs(q)
	g.setLevel(id)

	result := CanonResult{Lit: newLit(id, false)}
	if suspect, ok := g.bucketInsert(id); ok {
		result.Suspect = suspect
		result.HasSuspect = true
	}
	return result
}

// algebraicIdentity applies spec §4.E step 1's simplifications: both
// constant, one equal to the other, one equal to the negation of the
// other, or one constant.
func (g *Graph) algebraicIdentity(p, q Lit) (Lit, bool) {
	if p == LitConst0 || q == LitConst0 {
		return LitConst0, true
	}
	if p == LitConst1 {
		return q, true
	}
	if q == LitConst1 {
		return p, true
	}
	if p == q {
		return p, true
	}
	if p == q.Not() {
		return LitConst0, true
	}
	return 0, false
}

// repOf follows a node's functional-equivalence representative chain to
// its fixed point.
func (g *Graph) repOf(id NodeID) NodeID {
	for {
		n := g.Node(id)
		if !n.hasRepr {
			return id
		}
		id = n.repr
	}
}

func (g *Graph) bumpRefs(l Lit) { g.Node(l.Var()).refs++ }

func (g *Graph) setLevel(id NodeID) {
	n := g.Node(id)
	l0, l1 := g.Node(n.fi0.Var()).level, g.Node(n.fi1.Var()).level
	if l0 > l1 {
		n.level = l0 + 1
	} else {
		n.level = l1 + 1
	}
}

// bucketInsert implements TableF/TableF0 (spec §4.E): bucket by random
// hash, except nodes whose random simulation is constant (all-zero or
// all-one) go to the dedicated TableF0 bucket instead so they don't
// dilute the general table. Returns an existing node whose simulation
// vectors agree with id's up to complement (simVectorsMatch), as a
// SAT-equivalence suspect.
func (g *Graph) bucketInsert(id NodeID) (NodeID, bool) {
	n := g.Node(id)
	n.state = StateInFuncTable

	if isAllConst(n.simRand) {
		for _, other := range g.funcZero {
			if g.simVectorsMatch(id, other) {
				return other, true
			}
		}
		g.funcZero = append(g.funcZero, id)
		return 0, false
	}

	if head, ok := g.funcBuckets[n.hashR]; ok {
		for cur := head; cur != 0; cur = g.Node(cur).funcNext {
			if g.simVectorsMatch(id, cur) {
				n.funcNext = head
				g.funcBuckets[n.hashR] = id
				return cur, true
			}
		}
		n.funcNext = head
		g.funcBuckets[n.hashR] = id
		return 0, false
	}

	g.funcBuckets[n.hashR] = id
	return 0, false
}

// simVectorsMatch compares two nodes' random+dynamic simulation vectors
// up to global complementation (spec §4.E "compare full random simulation
// vectors (up to complement)").
func (g *Graph) simVectorsMatch(a, b NodeID) bool {
	na, nb := g.Node(a), g.Node(b)
	direct, inv := true, true
	for i := range na.simRand {
		if na.simRand[i] != nb.simRand[i] {
			direct = false
		}
		if na.simRand[i] != ^nb.simRand[i] {
			inv = false
		}
		if !direct && !inv {
			return false
		}
	}
	m := minInt(len(na.simDyn), len(nb.simDyn))
	for i := 0; i < m; i++ {
		if direct && na.simDyn[i] != nb.simDyn[i] {
			direct = false
		}
		if inv && na.simDyn[i] != ^nb.simDyn[i] {
			inv = false
		}
		if !direct && !inv {
			return false
		}
	}
	return direct || inv
}

// SetRepr records that b is functionally equivalent to a (a must have the
// smaller ID per spec §4.E step 5 "record b.repr = a"), linking b into
// a's choice chain when useChoice is set and a is not already reachable
// from b (callers are expected to have checked the TFI relationship
// before requesting a choice link).
func (g *Graph) SetRepr(a, b NodeID, useChoice bool) {
	nb := g.Node(b)
	nb.repr = a
	nb.hasRepr = true
	if useChoice {
		na := g.Node(a)
		nb.choiceNext = na.choiceNext
		nb.hasChoice = na.hasChoice
		na.choiceNext = b
		na.hasChoice = true
	}
}

// MarkFailedTFO marks id (sticky) as having participated in a SAT call
// that returned without a result (spec §4.X: "any state -> FailedTFO if
// it participates in a failed SAT call (sticky)").
func (g *Graph) MarkFailedTFO(id NodeID) { g.Node(id).state = StateFailedTFO }
