package rtl

import (
	"github.com/wlncore/wlncheck/pkg/ids"
	"github.com/wlncore/wlncheck/pkg/wln"
)

// Cell is a module instance: either a user-module instantiation
// (ModuleRef >= 0) or a built-in operator cell (ModuleRef == -1,
// OperatorCode names the WLN op, spec §3.4 "Cell = (type_name_id,
// instance_name_id, module_ref_or_operator_code, ...)").
type Cell struct {
	TypeName ids.NameID
	InstName ids.NameID

	ModuleRef    int // index into Lib.Modules, or -1
	OperatorCode wln.ObjType

	ASigned bool // DFF/operator parameter A_SIGNED (spec §4.C "Operator coverage")
	BSigned bool // ... B_SIGNED

	Attrs  map[string]string
	Params map[string]string

	// Connections are positional after normalization (spec §4.C step 4);
	// before normalization they may be named via PortNames.
	PortNames   []string // parallel to Connections; for an instance cell, normalization reorders both by callee wire and leaves "" for an unconnected port
	Connections []Signal

	Mark bool // scratch flag for DFS / reordering passes
}
