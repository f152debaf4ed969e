package blast

import "github.com/wlncore/wlncheck/pkg/aig"

// wrapBarrier wraps every literal in bits with a BUF node recording the
// boundary module's name and which side of the call site it sits on (spec
// §4.D "Barrier-buffer insertion"). All bits of one call share the same
// row count, matching the original's packed "(count<<16)|lit" bookkeeping
// (kept here as the richer aig.BarBuf struct — see DESIGN.md).
func (st *blastState) wrapBarrier(bits []aig.Lit, moduleName uint32, side aig.BufSide) []aig.Lit {
	out := make([]aig.Lit, len(bits))
	for i, l := range bits {
		out[i] = st.g.NewBuf(l, len(bits), moduleName, side)
	}
	return out
}
