package graph

// XRef is one occurrence of a symbol in an object: either a definition
// site (stored in the owning Object's Exports array and chained into the
// symbol's exporter list) or a reference site (stored in Imports and,
// only while its object is linked, chained into the symbol's importer
// list). Next threads the XRef into whichever of those two lists it
// currently belongs to; Weak replaces the tagged low bit the original
// tool packed into the pointer.
type XRef struct {
	Sym  SymID
	Weak bool
	Next XRefID
}

// xrefAt dereferences an XRefID to the XRef value stored inline in its
// owning object's export or import array.
func (g *Graph) xrefAt(id XRefID) *XRef {
	obj := &g.objects[id.Obj]
	if id.Kind == exportXRef {
		return &obj.Exports[id.Slot]
	}
	return &obj.Imports[id.Slot]
}

// XRef returns a copy of the cross-reference addressed by id, for
// callers outside the package that need to walk an exporter or importer
// chain (e.g. the query/report layer in cmd/ldep).
func (g *Graph) XRef(id XRefID) XRef {
	return *g.xrefAt(id)
}
