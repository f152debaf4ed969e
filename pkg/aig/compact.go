package aig

// Compact implements spec §4.E's dynamic-pattern covering step: when
// sim_dyn has grown to wDyna words, reduce the pattern set to a greedily
// chosen subset that still covers every pair of bucket neighbors the full
// set tells apart, then double capacity.
//
// Four steps, matching the spec's covering algorithm: (1) collect the
// set of AND-node pairs each dynamic pattern currently distinguishes
// (i.e. each pair of functional-hash bucket neighbors with differing
// bits at that pattern), (2) greedily pick the pattern covering the most
// still-uncovered pairs, repeating until every distinguishable pair is
// covered, (3) rewrite every node's simDyn to keep only the chosen
// patterns, (4) double the recorded capacity wDyna and recompute every
// node's dynamic hash from its kept words. No node is re-simulated and no
// hash is compared against a pre-compaction value.
func (g *Graph) Compact() {
	if len(g.pis) == 0 {
		return
	}
	numWords := len(g.Node(g.pis[0]).simDyn)
	if numWords == 0 {
		return
	}

	pairs := g.bucketNeighborPairs()
	coverage := make([][]int, numWords) // word -> pair indices it distinguishes
	for pi, pr := range pairs {
		na, nb := g.Node(pr[0]), g.Node(pr[1])
		for w := 0; w < numWords; w++ {
			if na.simDyn[w] != nb.simDyn[w] {
				coverage[w] = append(coverage[w], pi)
			}
		}
	}

	chosen := greedySetCover(coverage, len(pairs))

	for id := range g.nodes {
		n := &g.nodes[id]
		if len(n.simDyn) != numWords {
			continue
		}
		kept := make([]uint64, 0, len(chosen))
		for _, w := range chosen {
			kept = append(kept, n.simDyn[w])
		}
		n.simDyn = kept
	}

	newCap := g.wDyna * 2
	if newCap == 0 {
		newCap = 64
	}
	g.wDyna = newCap

	for id := range g.nodes {
		n := &g.nodes[id]
		n.hashD = hashWords(n.simDyn)
	}
	g.rehashFuncBuckets()
}

// bucketNeighborPairs returns every pair of AND nodes chained together in
// a functional-hash bucket: these are the only pairs whose dynamic
// vectors matter to keep distinguished (nodes in different buckets are
// already distinguished by the random-simulation hash).
func (g *Graph) bucketNeighborPairs() [][2]NodeID {
	var pairs [][2]NodeID
	for _, head := range g.funcBuckets {
		for cur := head; cur != 0; cur = g.Node(cur).funcNext {
			if next := g.Node(cur).funcNext; next != 0 {
				pairs = append(pairs, [2]NodeID{cur, next})
			}
		}
	}
	for i := 0; i < len(g.funcZero); i++ {
		for j := i + 1; j < len(g.funcZero); j++ {
			pairs = append(pairs, [2]NodeID{g.funcZero[i], g.funcZero[j]})
		}
	}
	return pairs
}

// greedySetCover picks word indices from coverage until every pair index
// in [0, numPairs) is covered by some chosen word, preferring at each
// step the word that covers the most still-uncovered pairs.
func greedySetCover(coverage [][]int, numPairs int) []int {
	covered := make([]bool, numPairs)
	remaining := numPairs
	var chosen []int

	for remaining > 0 {
		best, bestGain := -1, 0
		for w, pis := range coverage {
			gain := 0
			for _, pi := range pis {
				if !covered[pi] {
					gain++
				}
			}
			if gain > bestGain {
				best, bestGain = w, gain
			}
		}
		if best == -1 {
			break // no remaining word distinguishes any uncovered pair
		}
		chosen = append(chosen, best)
		for _, pi := range coverage[best] {
			if !covered[pi] {
				covered[pi] = true
				remaining--
			}
		}
	}
	return chosen
}
