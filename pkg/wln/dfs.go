package wln

import "github.com/wlncore/wlncheck/pkg/wlnerr"

// dfsState tracks DFS visitation state within a single AcyclicityCheck
// call in two maps (on the current path, finished) allocated per call, so
// no per-node flag needs clearing between calls; Object.TravID is not used.
type dfsState struct {
	onStack map[ObjID]bool
	done    map[ObjID]bool
	path    []ObjID
}

// AcyclicityCheck verifies that the combinational subgraph has no cycles.
// Starting from every CO and every DFFRSE (spec §3.3 "starting from every
// CO and every DFFRSE, iterative DFS must terminate without re-entering an
// on-path node"), it walks fanins depth-first. It never mutates the
// network (spec §4.B "Acyclicity check reports but does not mutate the
// network").
//
// On success it returns nil. On failure it returns a *wlnerr.Cycle naming
// the first offending node and the traversal path leading to it, ending at
// the injected back-edge (spec §8 testable property 3).
func (n *Network) AcyclicityCheck() error {
	st := &dfsState{
		onStack: make(map[ObjID]bool, n.NumObjs()),
		done:    make(map[ObjID]bool, n.NumObjs()),
	}
	roots := make([]ObjID, 0, len(n.cos)+len(n.ffs))
	roots = append(roots, n.cos...)
	roots = append(roots, n.ffs...)

	for _, root := range roots {
		if err := n.dfsVisit(root, st); err != nil {
			return err
		}
	}
	return nil
}

func (n *Network) dfsVisit(id ObjID, st *dfsState) error {
	if id == NullID || st.done[id] {
		return nil
	}
	if st.onStack[id] {
		// Found a back-edge into an on-path node: report the path from
		// where id first appeared through the re-entry, ending at id.
		cyclePath := append([]ObjID{}, st.path...)
		cyclePath = append(cyclePath, id)
		return &wlnerr.Cycle{Object: int32(id), Path: toInt32(cyclePath)}
	}

	st.onStack[id] = true
	st.path = append(st.path, id)

	o := n.Obj(id)
	// CI objects are leaves: their only fanin slot (1) holds a side-table
	// index, not a graph edge. CO and DFFRSE walk only their data fanins;
	// for CO that is slot 0 (the driver) — slot 1 is the side-table index
	// and must not be traversed.
	switch o.Type {
	case CI:
		// no data fanins to walk
	case CO:
		if err := n.dfsVisit(o.Fanin(0), st); err != nil {
			return err
		}
	default:
		for _, fin := range o.Fanins() {
			if err := n.dfsVisit(fin, st); err != nil {
				return err
			}
		}
	}

	st.path = st.path[:len(st.path)-1]
	st.onStack[id] = false
	st.done[id] = true
	return nil
}

func toInt32(ids []ObjID) []int32 {
	out := make([]int32, len(ids))
	for i, id := range ids {
		out[i] = int32(id)
	}
	return out
}

// RebuildFanouts walks every object counting incoming edges, then lays out
// the fanout map as offsets into a flat array sized to the total refcount.
// Fanouts are inserted in the same order as the forward walk so iteration
// is deterministic (spec §4.B).
func (n *Network) RebuildFanouts() {
	count := n.NumObjs()
	refs := make([]int32, count+1)

	for id := 1; id <= count; id++ {
		o := n.Obj(ObjID(id))
		for _, fin := range o.Fanins() {
			if fin != NullID && !(o.IsCio()) {
				refs[fin]++
			}
		}
		if o.Type == CO {
			if d := o.Fanin(0); d != NullID {
				refs[d]++
			}
		}
	}

	offsets := make([]int32, count+2)
	total := int32(0)
	for id := 1; id <= count; id++ {
		offsets[id] = total
		total += refs[id]
		n.Obj(ObjID(id)).RefCount = refs[id]
	}
	offsets[count+1] = total

	flat := make([]ObjID, total)
	cursor := append([]int32{}, offsets...)
	for id := 1; id <= count; id++ {
		o := n.Obj(ObjID(id))
		emit := func(src ObjID) {
			if src == NullID {
				return
			}
			flat[cursor[src]] = ObjID(id)
			cursor[src]++
		}
		if o.Type == CO {
			emit(o.Fanin(0))
		} else if !o.IsCio() {
			for _, fin := range o.Fanins() {
				emit(fin)
			}
		}
	}

	n.fanoutOffsets = offsets
	n.fanoutFlat = flat
}

// Fanout returns the fanout list of id, valid only after RebuildFanouts.
func (n *Network) Fanout(id ObjID) []ObjID {
	if n.fanoutOffsets == nil {
		return nil
	}
	start, end := n.fanoutOffsets[id], n.fanoutOffsets[id+1]
	return n.fanoutFlat[start:end]
}
