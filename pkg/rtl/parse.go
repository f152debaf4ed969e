package rtl

import (
	"bufio"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/wlncore/wlncheck/pkg/wlnerr"
)

// tokenizer scans an RTLIL-shaped token stream, whitespace-delimited like
// the teacher's hand-written assembly parser (cmd/z80opt/main.go
// parseAssembly/parseSingleInstruction): no lexer-generator, just
// bufio.Scanner plus a cursor. `{` and `}` are always standalone tokens
// even when not surrounded by whitespace in the source line.
type tokenizer struct {
	toks []string
	pos  int
	line int // best-effort line counter for ParseError locations
	tbl  []int
}

func newTokenizer(r io.Reader) (*tokenizer, error) {
	sc := bufio.NewScanner(r)
	sc.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	t := &tokenizer{}
	lineNo := 0
	for sc.Scan() {
		lineNo++
		line := sc.Text()
		if i := strings.IndexByte(line, '#'); i >= 0 {
			line = line[:i]
		}
		line = strings.ReplaceAll(line, "{", " { ")
		line = strings.ReplaceAll(line, "}", " } ")
		for _, f := range strings.Fields(line) {
			t.toks = append(t.toks, f)
			t.tbl = append(t.tbl, lineNo)
		}
	}
	if err := sc.Err(); err != nil {
		return nil, err
	}
	return t, nil
}

func (t *tokenizer) peek() (string, bool) {
	if t.pos >= len(t.toks) {
		return "", false
	}
	return t.toks[t.pos], true
}

func (t *tokenizer) next() (string, bool) {
	s, ok := t.peek()
	if ok {
		t.pos++
	}
	return s, ok
}

func (t *tokenizer) curLine() int {
	if t.pos < len(t.tbl) {
		return t.tbl[t.pos]
	}
	if len(t.tbl) > 0 {
		return t.tbl[len(t.tbl)-1]
	}
	return 0
}

func (t *tokenizer) expect(word string) error {
	s, ok := t.next()
	if !ok || s != word {
		return &wlnerr.ParseError{Line: t.curLine(), Msg: fmt.Sprintf("expected %q, got %q", word, s)}
	}
	return nil
}

// Parse ingests an RTLIL-shaped token stream and returns a populated Lib.
// Grammar (spec §4.C):
//
//	module <name>
//	  wire width <w> [offset <o>] [upto] [input <n>] [output <n>] [signed] <name>
//	  cell <type> <name>
//	    parameter <key> <value>
//	    connect <port> <signal-expr>
//	  end
//	  connect <lhs-signal-expr> <rhs-signal-expr>
//	  attribute <key> <value>
//	end
func Parse(r io.Reader, lib *Lib) error {
	tk, err := newTokenizer(r)
	if err != nil {
		return err
	}

	var pendingAttrs map[string]string
	takeAttrs := func() map[string]string {
		a := pendingAttrs
		pendingAttrs = nil
		return a
	}

	for {
		word, ok := tk.next()
		if !ok {
			return nil
		}
		switch word {
		case "attribute":
			key, _ := tk.next()
			val, _ := tk.next()
			if pendingAttrs == nil {
				pendingAttrs = make(map[string]string)
			}
			pendingAttrs[key] = val
		case "module":
			_ = takeAttrs()
			name, ok := tk.next()
			if !ok {
				return &wlnerr.ParseError{Line: tk.curLine(), Msg: "module: missing name"}
			}
			if err := parseModule(tk, lib, name); err != nil {
				return err
			}
		default:
			return &wlnerr.ParseError{Line: tk.curLine(), Msg: fmt.Sprintf("unexpected top-level token %q", word)}
		}
	}
}

func parseModule(tk *tokenizer, lib *Lib, name string) error {
	midx := lib.AddModule(name)
	m := lib.Modules[midx]

	var pendingAttrs map[string]string
	takeAttrs := func() map[string]string {
		a := pendingAttrs
		pendingAttrs = nil
		return a
	}

	for {
		word, ok := tk.next()
		if !ok {
			return &wlnerr.ParseError{Line: tk.curLine(), Msg: "unterminated module " + name}
		}
		switch word {
		case "end":
			return nil
		case "attribute":
			key, _ := tk.next()
			val, _ := tk.next()
			if pendingAttrs == nil {
				pendingAttrs = make(map[string]string)
			}
			pendingAttrs[key] = val
		case "wire":
			_ = takeAttrs()
			if err := parseWire(tk, lib, m); err != nil {
				return err
			}
		case "cell":
			_ = takeAttrs()
			if err := parseCell(tk, lib, m, midx); err != nil {
				return err
			}
		case "connect":
			lhs, err := parseSignalExpr(tk, lib, m, midx)
			if err != nil {
				return err
			}
			rhs, err := parseSignalExpr(tk, lib, m, midx)
			if err != nil {
				return err
			}
			m.Connections = append(m.Connections, Connection{Lhs: lhs, Rhs: rhs})
		default:
			return &wlnerr.ParseError{Line: tk.curLine(), Msg: fmt.Sprintf("unexpected module-body token %q", word)}
		}
	}
}

func parseWire(tk *tokenizer, lib *Lib, m *Module) error {
	w := Wire{Width: 1}
	name := ""
	for {
		word, ok := tk.peek()
		if !ok {
			return &wlnerr.ParseError{Line: tk.curLine(), Msg: "unterminated wire declaration"}
		}
		switch word {
		case "width":
			tk.next()
			v, _ := tk.next()
			n, err := strconv.Atoi(v)
			if err != nil {
				return &wlnerr.ParseError{Line: tk.curLine(), Msg: "bad wire width " + v}
			}
			w.Width = int32(n)
		case "offset":
			tk.next()
			v, _ := tk.next()
			n, _ := strconv.Atoi(v)
			w.Offset = int32(n)
		case "upto":
			tk.next()
			w.Upto = true
		case "signed":
			tk.next()
			w.Signed = true
		case "input":
			tk.next()
			v, _ := tk.next()
			n, _ := strconv.Atoi(v)
			w.InputNum = int32(n)
		case "output":
			tk.next()
			v, _ := tk.next()
			n, _ := strconv.Atoi(v)
			w.OutputNum = int32(n)
		default:
			// First unrecognized word is the wire name.
			name, _ = tk.next()
			w.NameID = lib.Names.Intern(name)
			m.Wires = append(m.Wires, w)
			m.invalidateWireIndex()
			return nil
		}
	}
}

func parseCell(tk *tokenizer, lib *Lib, m *Module, midx int) error {
	typeName, ok := tk.next()
	if !ok {
		return &wlnerr.ParseError{Line: tk.curLine(), Msg: "cell: missing type"}
	}
	instName, ok := tk.next()
	if !ok {
		return &wlnerr.ParseError{Line: tk.curLine(), Msg: "cell: missing instance name"}
	}

	c := Cell{
		TypeName: lib.Names.Intern(typeName),
		InstName: lib.Names.Intern(instName),
		Params:   make(map[string]string),
		Attrs:    make(map[string]string),
	}

	if typeName[0] == '$' {
		opType, known := ResolveOperator(typeName)
		if !known {
			return &wlnerr.UnsupportedOperator{Type: typeName}
		}
		c.ModuleRef = -1
		c.OperatorCode = opType
	} else if idx, ok := lib.ModuleByName(typeName); ok {
		c.ModuleRef = idx
	} else {
		// Unresolved reference: reported, not fatal (spec §4.C step 2).
		c.ModuleRef = -1
	}

	for {
		word, ok := tk.next()
		if !ok {
			return &wlnerr.ParseError{Line: tk.curLine(), Msg: "unterminated cell " + instName}
		}
		switch word {
		case "end":
			m.Cells = append(m.Cells, c)
			return nil
		case "parameter":
			key, _ := tk.next()
			val, _ := tk.next()
			c.Params[key] = val
			switch key {
			case "A_SIGNED":
				c.ASigned = val == "1"
			case "B_SIGNED":
				c.BSigned = val == "1"
			}
		case "attribute":
			key, _ := tk.next()
			val, _ := tk.next()
			c.Attrs[key] = val
		case "connect":
			port, _ := tk.next()
			sig, err := parseSignalExpr(tk, lib, m, midx)
			if err != nil {
				return err
			}
			c.PortNames = append(c.PortNames, port)
			c.Connections = append(c.Connections, sig)
		default:
			return &wlnerr.ParseError{Line: tk.curLine(), Msg: fmt.Sprintf("unexpected cell-body token %q", word)}
		}
	}
}

// parseSignalExpr parses a constant, wire reference (with optional
// [hi:lo]/[hi] slice suffix), or `{ ... }` concat.
func parseSignalExpr(tk *tokenizer, lib *Lib, m *Module, midx int) (Signal, error) {
	word, ok := tk.next()
	if !ok {
		return Signal{}, &wlnerr.ParseError{Line: tk.curLine(), Msg: "expected signal expression"}
	}

	if word == "{" {
		var children []Signal
		for {
			peek, ok := tk.peek()
			if !ok {
				return Signal{}, &wlnerr.ParseError{Line: tk.curLine(), Msg: "unterminated concat"}
			}
			if peek == "}" {
				tk.next()
				break
			}
			sig, err := parseSignalExpr(tk, lib, m, midx)
			if err != nil {
				return Signal{}, err
			}
			children = append(children, sig)
		}
		return lib.InternConcat(ConcatRef{Children: children}), nil
	}

	if c, ok, err := tryParseConst(word); err != nil {
		return Signal{}, err
	} else if ok {
		return lib.InternConst(c), nil
	}

	// Wire reference, possibly with a slice suffix attached to the same
	// token, e.g. "w[7:0]" or "w[3]".
	base := word
	var hi, lo int32 = -1, -1
	if i := strings.IndexByte(word, '['); i >= 0 && strings.HasSuffix(word, "]") {
		base = word[:i]
		inner := word[i+1 : len(word)-1]
		if j := strings.IndexByte(inner, ':'); j >= 0 {
			hv, err1 := strconv.Atoi(inner[:j])
			lv, err2 := strconv.Atoi(inner[j+1:])
			if err1 != nil || err2 != nil {
				return Signal{}, &wlnerr.ParseError{Line: tk.curLine(), Msg: "bad slice " + word}
			}
			hi, lo = int32(hv), int32(lv)
		} else {
			v, err := strconv.Atoi(inner)
			if err != nil {
				return Signal{}, &wlnerr.ParseError{Line: tk.curLine(), Msg: "bad slice " + word}
			}
			hi, lo = int32(v), int32(v)
		}
	}

	idx, ok := m.WireIndex(lib.Names.Intern(base))
	if !ok {
		return Signal{}, &wlnerr.NotFound{What: "wire", Name: base}
	}
	wsig := Signal{Kind: SigWire, Payload: uint32(idx)}
	if hi < 0 {
		return wsig, nil
	}
	return lib.InternSlice(SliceRef{Base: wsig, Hi: hi, Lo: lo, ModuleIdx: midx}), nil
}

// tryParseConst recognizes "<width>'b<bits>" or a plain decimal token. It
// returns ok=false (no error) for anything that doesn't look like either
// form, so the caller falls through to wire-reference parsing.
func tryParseConst(word string) (ConstValue, bool, error) {
	if i := strings.IndexByte(word, '\''); i >= 0 {
		widthStr := word[:i]
		rest := word[i+1:]
		if len(rest) == 0 || rest[0] != 'b' {
			return ConstValue{}, false, nil
		}
		width, err := strconv.Atoi(widthStr)
		if err != nil {
			return ConstValue{}, false, &wlnerr.ParseError{Msg: "bad constant width in " + word}
		}
		bits := []byte(rest[1:])
		for _, b := range bits {
			if b != '0' && b != '1' && b != 'x' && b != 'z' {
				return ConstValue{}, false, &wlnerr.ParseError{Msg: "bad constant bits in " + word}
			}
		}
		return ConstValue{Width: int32(width), Bits: bits}, true, nil
	}

	if v, err := strconv.ParseInt(word, 10, 64); err == nil {
		return ConstValue{Width: -1, Value: v}, true, nil
	}
	return ConstValue{}, false, nil
}
