package blast

import "github.com/wlncore/wlncheck/pkg/aig"

// ReduceInverseBoundaries collapses adjacent barrier-buffer row pairs
// after all modules have been blasted, exposing combinational reductions
// across an inverse-equivalent boundary (spec §4.D "Inverse-boundary
// reduction"). Thin wrapper kept in pkg/blast since callers drive it from
// the blast-level CLI flow, not per-module.
func ReduceInverseBoundaries(g *aig.Graph) int {
	return g.ReduceInverseBuffers()
}
