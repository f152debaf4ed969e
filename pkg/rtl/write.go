package rtl

import (
	"bufio"
	"fmt"
	"io"
	"sort"

	"github.com/wlncore/wlncheck/pkg/wln"
)

// reverseOperatorTable maps a WLN operator tag back to its canonical
// `$`-prefixed RTLIL cell-type name for emission, built once from
// operatorTable (spec §4.C "Operator coverage" is symmetric: everything
// Parse reads, Write must be able to produce again).
var reverseOperatorTable = buildReverseOperatorTable()

func buildReverseOperatorTable() map[wln.ObjType]string {
	// Walk operatorTable in sorted key order so the result is
	// deterministic even though several RTLIL tags alias one ObjType
	// (e.g. $divfloor aliases $div onto wln.Div); the first name in
	// sorted order wins and is treated as canonical.
	keys := make([]string, 0, len(operatorTable))
	for k := range operatorTable {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	rev := make(map[wln.ObjType]string, len(keys))
	for _, k := range keys {
		t := operatorTable[k]
		if _, ok := rev[t]; !ok {
			rev[t] = k
		}
	}
	return rev
}

// Write emits lib's modules in the same RTLIL-shaped textual form Parse
// reads, so `write foo.ndr` round-trips through this package alone
// without depending on an external synthesis tool (spec §6.1 "Emit
// current network as Verilog/NDR based on extension"; this is the NDR
// side — WriteVerilog below is the `.v` side).
func Write(w io.Writer, lib *Lib) error {
	bw := bufio.NewWriter(w)
	for _, m := range lib.Modules {
		if err := writeModule(bw, lib, m); err != nil {
			return err
		}
	}
	return bw.Flush()
}

func writeModule(w *bufio.Writer, lib *Lib, m *Module) error {
	fmt.Fprintf(w, "module %s\n", lib.Names.Lookup(m.NameID))
	for _, wr := range m.Wires {
		writeWireDecl(w, lib, wr)
	}
	for _, c := range m.Cells {
		if err := writeCell(w, lib, m, &c); err != nil {
			return err
		}
	}
	for _, conn := range m.Connections {
		fmt.Fprintf(w, "  connect %s %s\n", signalText(lib, m, conn.Lhs), signalText(lib, m, conn.Rhs))
	}
	fmt.Fprintln(w, "end")
	return nil
}

func writeWireDecl(w *bufio.Writer, lib *Lib, wr Wire) {
	fmt.Fprintf(w, "  wire width %d", wr.Width)
	if wr.Offset != 0 {
		fmt.Fprintf(w, " offset %d", wr.Offset)
	}
	if wr.Upto {
		fmt.Fprint(w, " upto")
	}
	if wr.Signed {
		fmt.Fprint(w, " signed")
	}
	if wr.InputNum > 0 {
		fmt.Fprintf(w, " input %d", wr.InputNum)
	}
	if wr.OutputNum > 0 {
		fmt.Fprintf(w, " output %d", wr.OutputNum)
	}
	fmt.Fprintf(w, " %s\n", lib.Names.Lookup(wr.NameID))
}

func writeCell(w *bufio.Writer, lib *Lib, m *Module, c *Cell) error {
	var typeName string
	if c.ModuleRef >= 0 {
		typeName = lib.Names.Lookup(lib.Modules[c.ModuleRef].NameID)
	} else {
		var ok bool
		typeName, ok = reverseOperatorTable[c.OperatorCode]
		if !ok {
			return fmt.Errorf("rtl: no RTLIL tag registered for operator %s", c.OperatorCode)
		}
	}
	fmt.Fprintf(w, "  cell %s %s\n", typeName, lib.Names.Lookup(c.InstName))
	for k, v := range c.Params {
		fmt.Fprintf(w, "    parameter %s %s\n", k, v)
	}
	if len(c.PortNames) == len(c.Connections) {
		for i, port := range c.PortNames {
			if port == "" {
				continue // callee port left unconnected (see normalize.go's reorderWires)
			}
			fmt.Fprintf(w, "    connect %s %s\n", port, signalText(lib, m, c.Connections[i]))
		}
	} else {
		// Connections without a parallel PortNames list are positional,
		// one per callee wire; recover each port name from the callee's
		// own wire table.
		callee := lib.Modules[c.ModuleRef]
		for i, conn := range c.Connections {
			if conn == (Signal{}) {
				continue
			}
			fmt.Fprintf(w, "    connect %s %s\n", lib.Names.Lookup(callee.Wires[i].NameID), signalText(lib, m, conn))
		}
	}
	fmt.Fprintln(w, "  end")
	return nil
}

func signalText(lib *Lib, m *Module, sig Signal) string {
	switch sig.Kind {
	case SigWire:
		return lib.Names.Lookup(m.Wires[sig.Payload].NameID)
	case SigConst:
		return VerilogConstText(lib.Consts[sig.Payload])
	case SigSlice:
		sl := lib.Slices[sig.Payload]
		return fmt.Sprintf("%s[%d:%d]", signalText(lib, m, sl.Base), sl.Hi, sl.Lo)
	case SigConcat:
		cc := lib.Concats[sig.Payload]
		parts := make([]string, len(cc.Children))
		for i, ch := range cc.Children {
			parts[i] = signalText(lib, m, ch)
		}
		s := "{"
		for i, p := range parts {
			if i > 0 {
				s += " "
			}
			s += p
		}
		return s + "}"
	default:
		return "?"
	}
}

// VerilogConstText renders a constant in the textual form spec §6.4
// requires: `<width>'b<bits>` with bits MSB-first, or a bare decimal
// integer when the constant originated from an untyped decimal literal
// (Width == -1, the "(-1, value)" encoding tryParseConst's decimal branch
// produces).
func VerilogConstText(c ConstValue) string {
	if c.Width < 0 {
		return fmt.Sprintf("%d", c.Value)
	}
	return fmt.Sprintf("%d'b%s", c.Width, string(c.Bits))
}

// WriteVerilog emits module modIdx as a flat Verilog module: wire/input/
// output declarations, one `assign` per free-standing connection, and one
// module-instantiation statement per cell (spec §6.1 "write [file]" with a
// `.v` extension).
func WriteVerilog(w io.Writer, lib *Lib, modIdx int) error {
	bw := bufio.NewWriter(w)
	m := lib.Modules[modIdx]
	name := lib.Names.Lookup(m.NameID)

	var ports []string
	for _, wr := range m.Wires {
		if wr.IsPort() {
			ports = append(ports, lib.Names.Lookup(wr.NameID))
		}
	}
	fmt.Fprintf(bw, "module %s(%s);\n", name, joinComma(ports))

	for _, wr := range m.Wires {
		wname := lib.Names.Lookup(wr.NameID)
		switch {
		case wr.IsInput():
			fmt.Fprintf(bw, "  input %s%s;\n", rangeText(wr), wname)
		case wr.IsOutput():
			fmt.Fprintf(bw, "  output %s%s;\n", rangeText(wr), wname)
		default:
			fmt.Fprintf(bw, "  wire %s%s;\n", rangeText(wr), wname)
		}
	}

	for _, conn := range m.Connections {
		fmt.Fprintf(bw, "  assign %s = %s;\n", verilogSignalText(lib, m, conn.Lhs), verilogSignalText(lib, m, conn.Rhs))
	}

	for _, c := range m.Cells {
		if c.ModuleRef >= 0 {
			callee := lib.Modules[c.ModuleRef]
			fmt.Fprintf(bw, "  %s %s(", lib.Names.Lookup(callee.NameID), lib.Names.Lookup(c.InstName))
			var args []string
			for i, conn := range c.Connections {
				if conn == (Signal{}) {
					continue
				}
				args = append(args, fmt.Sprintf(".%s(%s)", lib.Names.Lookup(callee.Wires[i].NameID), verilogSignalText(lib, m, conn)))
			}
			fmt.Fprintf(bw, "%s);\n", joinComma(args))
		}
	}

	fmt.Fprintln(bw, "endmodule")
	return bw.Flush()
}

func rangeText(wr Wire) string {
	if wr.Width == 1 {
		return ""
	}
	if wr.Upto {
		return fmt.Sprintf("[%d:%d] ", wr.Offset, wr.Offset+wr.Width-1)
	}
	return fmt.Sprintf("[%d:%d] ", wr.Offset+wr.Width-1, wr.Offset)
}

func verilogSignalText(lib *Lib, m *Module, sig Signal) string {
	switch sig.Kind {
	case SigWire:
		return lib.Names.Lookup(m.Wires[sig.Payload].NameID)
	case SigConst:
		return VerilogConstText(lib.Consts[sig.Payload])
	case SigSlice:
		sl := lib.Slices[sig.Payload]
		return fmt.Sprintf("%s[%d:%d]", verilogSignalText(lib, m, sl.Base), sl.Hi, sl.Lo)
	case SigConcat:
		cc := lib.Concats[sig.Payload]
		parts := make([]string, len(cc.Children))
		for i, ch := range cc.Children {
			parts[i] = verilogSignalText(lib, m, ch)
		}
		return "{" + joinComma(parts) + "}"
	default:
		return "?"
	}
}

func joinComma(parts []string) string {
	s := ""
	for i, p := range parts {
		if i > 0 {
			s += ", "
		}
		s += p
	}
	return s
}
