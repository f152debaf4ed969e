package ids

// NameID identifies an interned byte-string name. Zero means "no name"
// (spec §4.A: "The 0 ID means 'no name'").
type NameID uint32

// NameTable interns strings (signal names, constant textual forms, cell
// instance names, module names) into compact NameIDs shared library-wide.
type NameTable struct {
	byKey map[string]NameID
	byID  []string // index 0 is the empty "no name" placeholder
}

// NewNameTable creates an empty name pool.
func NewNameTable() *NameTable {
	return &NameTable{
		byKey: make(map[string]NameID, 1024),
		byID:  []string{""},
	}
}

// Intern returns the NameID for s, allocating a new one on first sight.
// An empty string always interns to NameID(0).
func (t *NameTable) Intern(s string) NameID {
	if s == "" {
		return 0
	}
	if id, ok := t.byKey[s]; ok {
		return id
	}
	id := NameID(len(t.byID))
	t.byID = append(t.byID, s)
	t.byKey[s] = id
	return id
}

// Find returns the NameID for s without interning it, reporting whether s
// has been seen before.
func (t *NameTable) Find(s string) (NameID, bool) {
	if s == "" {
		return 0, true
	}
	id, ok := t.byKey[s]
	return id, ok
}

// Lookup returns the string for id, or "" for id==0.
func (t *NameTable) Lookup(id NameID) string {
	return t.byID[id]
}

// Len returns the number of distinct non-empty names interned so far.
func (t *NameTable) Len() int { return len(t.byID) - 1 }
