package blast

import (
	"github.com/wlncore/wlncheck/pkg/aig"
	"github.com/wlncore/wlncheck/pkg/rtl"
	"github.com/wlncore/wlncheck/pkg/wlnerr"
)

// expandTable lowers TABLE/LUT: a pre-built ROM circuit parameterized by a
// truth table stored on the cell's TABLE parameter, one '0'/'1' digit per
// (minterm, output bit) pair, minterm-major (spec §4.D "emitted as a
// pre-built ROM circuit parameterized by a truth-table stored in the
// library"). Always lowered as a direct sum-of-minterms expansion: this
// AIG has no native lookup-table primitive to fall back on, the same
// reason it has no native XOR node (see expand_bitwise.go).
func expandTable(g *aig.Graph, c *rtl.Cell, a []aig.Lit, outW int) ([]aig.Lit, error) {
	table, ok := c.Params["TABLE"]
	if !ok {
		return nil, &wlnerr.UnsupportedFeature{What: "TABLE/LUT cell missing TABLE parameter"}
	}
	caseCount := 1 << uint(len(a))
	if len(table) < caseCount*outW {
		return nil, &wlnerr.WidthMismatch{Object: "TABLE parameter", Declared: caseCount * outW, Got: len(table)}
	}

	out := make([]aig.Lit, outW)
	for bit := 0; bit < outW; bit++ {
		acc := aig.LitConst0
		for m := 0; m < caseCount; m++ {
			if table[m*outW+bit] != '1' {
				continue
			}
			acc = orGate(g, acc, minterm(g, a, m))
		}
		out[bit] = acc
	}
	return out, nil
}

func minterm(g *aig.Graph, a []aig.Lit, m int) aig.Lit {
	lit := aig.LitConst1
	for bit := range a {
		x := a[bit]
		if (m>>uint(bit))&1 == 0 {
			x = x.Not()
		}
		lit = g.NodeAndCanon(lit, x).Lit
	}
	return lit
}
