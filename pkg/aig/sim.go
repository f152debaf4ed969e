package aig

import "math/rand/v2"

// NewPI allocates a fresh primary input, seeding its random-simulation
// vector from a PCG generator exactly as the teacher's pkg/stoke/mcmc.go
// seeds its MCMC chains (`rand.NewPCG(seed, seed^0xDEADBEEF)`), here
// driving each PI's independent bit-pattern stream instead of an
// instruction-mutation chain.
func (g *Graph) NewPI() NodeID {
	id := NodeID(len(g.nodes))
	seed := g.rngState
	g.rngState += 0x2545F4914F6CDD1D

	pcg := rand.New(rand.NewPCG(seed, seed^0xDEADBEEF))
	sr := make([]uint64, g.wRand)
	for i := range sr {
		sr[i] = pcg.Uint64()
	}

	g.nodes = append(g.nodes, node{
		kind:    KindPI,
		state:   StateCanonicalized,
		simRand: sr,
		simDyn:  make([]uint64, 0, g.wDyna),
	})
	g.pis = append(g.pis, id)
	return id
}

// simulateAnd computes the word-wise simulation vectors for an AND node
// given its two fanin literals, applying each fanin's complement bit
// before ANDing (spec §4.E "Simulation model": "z_w = (x_w^cx) &
// (y_w^cy)").
func (g *Graph) simulateAnd(fi0, fi1 Lit) (simRand, simDyn []uint64) {
	x, y := g.Node(fi0.Var()), g.Node(fi1.Var())

	n := len(x.simRand)
	simRand = make([]uint64, n)
	for i := 0; i < n; i++ {
		xw, yw := x.simRand[i], y.simRand[i]
		if fi0.Sign() {
			xw = ^xw
		}
		if fi1.Sign() {
			yw = ^yw
		}
		simRand[i] = xw & yw
	}

	m := minInt(len(x.simDyn), len(y.simDyn))
	simDyn = make([]uint64, m)
	for i := 0; i < m; i++ {
		xw, yw := x.simDyn[i], y.simDyn[i]
		if fi0.Sign() {
			xw = ^xw
		}
		if fi1.Sign() {
			yw = ^yw
		}
		simDyn[i] = xw & yw
	}
	return
}

func minInt(a, b int) int {
	if a < b {
		return a
	}
	return b
}

// hashWords computes a cheap order-sensitive signature over a word
// vector, used to bucket nodes in TableF/TableF0. Multiplicative mixing
// (FNV-style) is enough here: the bucket is only a pre-filter before a
// full vector comparison, never the sole equivalence test.
func hashWords(ws []uint64) uint64 {
	h := uint64(1469598103934665603)
	for _, w := range ws {
		h ^= w
		h *= 1099511628211
	}
	return h
}

// isAllConst reports whether every word of ws is all-zero or all-one,
// i.e. the node's random simulation never distinguishes any pattern
// (feeds TableF0, spec §4.E).
func isAllConst(ws []uint64) bool {
	if len(ws) == 0 {
		return true
	}
	allZero, allOne := true, true
	for _, w := range ws {
		if w != 0 {
			allZero = false
		}
		if w != ^uint64(0) {
			allOne = false
		}
	}
	return allZero || allOne
}
