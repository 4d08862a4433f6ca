package graph

// WalkMode selects which edge set the Traversal Engine follows.
type WalkMode uint8

const (
	// WalkImports follows, for each import of the current object, only
	// the first (head) exporter of the imported symbol — the single
	// definition site that actually participates in the link graph.
	WalkImports WalkMode = iota

	// WalkExports follows, for each export of the current object, every
	// importer of the exported symbol.
	WalkExports
)

// Visitor is invoked once per object entered by a walk, in depth-first
// first-entry order.
type Visitor func(obj ObjID, depth int)

// neighbors returns, for the given walk mode, the cross-references the
// traversal should step to next.
func (g *Graph) neighbors(o ObjID, mode WalkMode) []XRefID {
	obj := &g.objects[o]
	var refs []XRefID
	switch mode {
	case WalkImports:
		for _, x := range obj.Imports {
			sym := &g.symbols[x.Sym]
			if sym.exporterHead.Valid() {
				refs = append(refs, sym.exporterHead)
			}
		}
	case WalkExports:
		for _, x := range obj.Exports {
			sym := &g.symbols[x.Sym]
			for ref := sym.importerHead; ref.Valid(); ref = g.xrefAt(ref).Next {
				refs = append(refs, ref)
			}
		}
	}
	return refs
}

// Walk performs the direct-action sub-mode (C9): visit is called exactly
// once per object, at first entry, in depth-first order. Every work mark
// set during the call is cleared before Walk returns, so the caller may
// walk again immediately afterward (I5). At most one walk may be in
// progress at a time; re-entering Walk on an object already marked is a
// structural assertion failure.
func (g *Graph) Walk(start ObjID, mode WalkMode, visit Visitor) {
	structuralAssert(g.objects[start].work == InvalidObj, "re-entrant walk on %s", g.objects[start].Name)

	g.objects[start].work = busyObj
	var marked []ObjID
	g.walkRec(start, 0, mode, visit, &marked)

	g.objects[start].work = InvalidObj
	for _, o := range marked {
		g.objects[o].work = InvalidObj
	}
}

func (g *Graph) walkRec(o ObjID, depth int, mode WalkMode, visit Visitor, marked *[]ObjID) {
	if visit != nil {
		visit(o, depth)
	}
	for _, ref := range g.neighbors(o, mode) {
		structuralAssert(ref.Obj != o, "self-referential cross-reference on %s", g.objects[o].Name)
		if g.objects[ref.Obj].work == InvalidObj {
			g.objects[ref.Obj].work = busyObj
			*marked = append(*marked, ref.Obj)
			g.walkRec(ref.Obj, depth+1, mode, visit, marked)
		}
		// else: already visited along this walk — cycle broken here.
	}
}

// WalkBuildList is the list-building sub-mode: every object reachable
// from start (including start itself) is threaded onto a singly-linked
// work list rooted at start, in first-entry order, via the Object's
// listNext scratch slot. Marks persist — and so does the thread — until
// the caller invokes ListRelease; this is what lets two-pass algorithms
// like UnlinkObject collect first, then guard, then mutate.
//
// A node already reachable from start can never be appended twice: the
// visited-guard below is the cycle self-check the spec calls for.
func (g *Graph) WalkBuildList(start ObjID, mode WalkMode) {
	structuralAssert(g.objects[start].work == InvalidObj, "re-entrant walk on %s", g.objects[start].Name)

	g.objects[start].work = busyObj
	g.objects[start].listNext = InvalidObj
	tail := start
	g.walkRecBuildList(start, mode, &tail)
}

func (g *Graph) walkRecBuildList(o ObjID, mode WalkMode, tail *ObjID) {
	for _, ref := range g.neighbors(o, mode) {
		structuralAssert(ref.Obj != o, "self-referential cross-reference on %s", g.objects[o].Name)
		if g.objects[ref.Obj].work != InvalidObj {
			continue // already on the list — cycle broken here
		}
		g.objects[ref.Obj].work = busyObj
		g.objects[ref.Obj].listNext = InvalidObj
		g.objects[*tail].listNext = ref.Obj
		*tail = ref.Obj
		g.walkRecBuildList(ref.Obj, mode, tail)
	}
}

// ListObjects returns every object on the work list rooted at start, in
// first-entry order, without releasing it.
func (g *Graph) ListObjects(start ObjID) []ObjID {
	var out []ObjID
	for o := start; o != InvalidObj; o = g.objects[o].listNext {
		out = append(out, o)
	}
	return out
}

// ListRelease iterates the work list rooted at start — invoking visit in
// list order, if non-nil — and then clears every work and listNext mark
// the walk set, restoring (I5) so a later walk can proceed.
func (g *Graph) ListRelease(start ObjID, visit Visitor) {
	depth := 0
	for o := start; o != InvalidObj; {
		next := g.objects[o].listNext
		if visit != nil {
			visit(o, depth)
		}
		depth++
		g.objects[o].work = InvalidObj
		g.objects[o].listNext = InvalidObj
		o = next
	}
}
