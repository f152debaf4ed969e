package blast

// DivZeroSemantics selects the masking rule a division expander applies
// when the divisor is zero (spec §4.D "a flag selects between 'all-ones'
// and 'pass-through numerator'").
type DivZeroSemantics uint8

const (
	DivZeroAllOnes DivZeroSemantics = iota
	DivZeroPassThroughNumerator
)

// Options is the Go rendition of spec §6.2's blast flags, field-for-field;
// each doc comment names the originating CLI flag.
type Options struct {
	FirstPO int // -O: first PO index to blast from
	POCount int // -R: PO count (0 = all)

	AdderThreshold int // -A: adder-size threshold; Blast does not consult it (every adder is inlined)
	MulThreshold   int // -M: same, for multipliers (every multiplier is inlined)

	SkipStrash bool // -c: skip strashing (build a plain unstructured AIG)

	AddBoundaryPOs bool // -o: add boundary POs at every module call site
	MultiMode      bool // -m: collect multipliers as opaque boxes instead of blasting them

	Booth           bool             // -b: radix-4 Booth multiplier instead of naive array
	NonRestoringDiv bool             // -q: non-restoring divider instead of restoring
	CLAAdder        bool             // -a: carry-lookahead adder instead of ripple-carry
	DivZeroSemantics DivZeroSemantics // -y: alternate divide-by-zero semantics

	DualOutputMiter  bool // -d: dual-output multi-output miter
	WordMiter        bool // -e: word-miter (combine output bits)
	DecodedMuxes     bool // -s: decode MUX selectors before blasting
	MultiOutputMiter bool // -t: multi-output miter
	InterleavedOrder bool // -r: interleaved PI variable order

	DumpNames         bool // -n: dump names to pio_name_map.txt
	PrintInputInfo    bool // -i: print input info
	PreserveFlopNames bool // -z: preserve flop names through blasting
	Verbose           bool // -v: verbose
}

// DefaultOptions mirrors the original tool's defaults: ripple-carry adder,
// naive array multiplier, restoring divider, all-ones divide-by-zero.
func DefaultOptions() Options {
	return Options{
		AdderThreshold: 1 << 30,
		MulThreshold:   1 << 30,
	}
}
