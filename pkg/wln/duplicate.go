package wln

// DuplicateDFS allocates a fresh network sharing the same intern pools and
// deep-copies every object reachable from the CI/DFF/CO roots, in that
// order (spec §4.B: "allocates a fresh network with the same name,
// traverses CI -> DFF -> CO roots in that order, deep-copies nodes and
// rewires fanins through the Copy map").
//
// DFF bodies are deferred: a DFFRSE is cloned with no fanins on first
// visit so its forward references don't force the rest of the graph to
// copy early, then its fanins are rewritten in a second pass once the
// combinational copy is complete (spec §4.B "DFF bodies are deferred").
func DuplicateDFS(src *Network) *Network {
	dst := NewNetwork(src.Name, src.Ranges, src.Names)
	dst.objs = make([]Object, 1, len(src.objs))

	for i := range src.objs {
		src.objs[i].Copy = NullID
	}

	var ffs []ObjID

	var copyObj func(id ObjID) ObjID
	copyObj = func(id ObjID) ObjID {
		if id == NullID {
			return NullID
		}
		if c := src.Obj(id).Copy; c != NullID {
			return c
		}

		o := src.Obj(id)
		nid := dst.NewObject(o.Type, o.Signed, src.Ranges.Lookup(o.RangeID).Msb, src.Ranges.Lookup(o.RangeID).Lsb)
		dst.Obj(nid).NameID = o.NameID
		o.Copy = nid

		switch o.Type {
		case CI:
			// Side-table registration already happened in NewObject; no
			// fanins to copy.
		case Dffrse:
			// Deferred: leave fanins empty for now, rewired in the second
			// pass below. Record it so NewObject's ffs registration lines
			// up positionally with src's ffs table.
			ffs = append(ffs, id)
		default:
			for _, fin := range o.Fanins() {
				if o.IsCio() {
					// CI/CO's second slot is a side-table index, not a
					// graph edge; NewObject/setCioIndex already wrote the
					// correct index for dst, so only the driver slot (CO
					// slot 0) needs a recursive copy.
					continue
				}
				dst.AddFanin(nid, copyObj(fin))
			}
			if o.Type == CO {
				dst.AddFanin(nid, copyObj(o.Fanin(0)))
			}
		}
		return nid
	}

	for _, id := range src.cis {
		copyObj(id)
	}
	for _, id := range src.ffs {
		copyObj(id)
	}
	for _, id := range src.cos {
		copyObj(id)
	}

	// Second pass: backpatch DFF fanins now that the whole combinational
	// fanin cone has a Copy entry.
	for _, id := range ffs {
		o := src.Obj(id)
		nid := o.Copy
		for _, fin := range o.Fanins() {
			dst.AddFanin(nid, copyObj(fin))
		}
	}

	return dst
}
