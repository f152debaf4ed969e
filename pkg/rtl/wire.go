package rtl

import "github.com/wlncore/wlncheck/pkg/ids"

// Wire is one module port or internal signal (spec §3.4: "Wire = (name_id,
// width, offset, upto_flag, signed_flag, input/output number)").
type Wire struct {
	NameID ids.NameID
	Width  int32
	Offset int32
	Upto   bool
	Signed bool

	// InputNum/OutputNum are 1-based declaration order; 0 means "not a
	// port in that direction". A wire can be both (inout is modeled as
	// InputNum>0 and OutputNum>0).
	InputNum  int32
	OutputNum int32
}

func (w Wire) IsInput() bool  { return w.InputNum > 0 }
func (w Wire) IsOutput() bool { return w.OutputNum > 0 }
func (w Wire) IsPort() bool   { return w.IsInput() || w.IsOutput() }
