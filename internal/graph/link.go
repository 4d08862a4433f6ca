package graph

// LinkOptions controls the optional diagnostics the Link Engine emits
// while it runs; all are nil-safe.
type LinkOptions struct {
	// WarnUndefined enables the undefined-symbol warning (§4.4 step 5).
	// No CLI flag sets it. It has no effect once GatherDanglingUndefs has
	// run, since every symbol has an exporter (U* or otherwise) by then.
	WarnUndefined bool

	// OnLink is called immediately before an object is pulled into a
	// link set because an already-seeded object imports one of its
	// exports; used for the "-l" linking-decision log.
	OnLink func(pulled ObjID, becauseOf ObjID, sym SymID)

	// OnUndefined is called once per import XRef whose symbol has no
	// exporter, when WarnUndefined is set.
	OnUndefined func(importer ObjID, sym SymID)
}

// Link is the driver for the Link Engine (C8): every object not yet
// assigned to a link set is seeded — Application up to and including
// lastMandatory (in ingest order), Optional after — and linked via the
// transitive import closure.
//
// lastMandatory is the last object contributed by the first input batch
// (the "application" files); pass InvalidObj if there were none.
func (g *Graph) Link(lastMandatory ObjID, opts LinkOptions) {
	seed := ApplicationSet
	for id := ObjID(1); id < ObjID(len(g.objects)); id++ { // skip the U* sentinel at 0
		if g.objects[id].LinkSet == NoLinkSet {
			g.objects[id].LinkSet = seed
			g.linkObject(id, opts)
		}
		if id == lastMandatory {
			seed = OptionalSet
		}
	}
}

// linkObject assumes o.LinkSet has already been set by the caller and
// recursively pulls in the first exporter of everything o imports,
// following only the head of each symbol's exporter list — later
// exporters are multiple-definition diagnostics, never link-graph edges
// (§9 Design Notes).
func (g *Graph) linkObject(o ObjID, opts LinkOptions) {
	obj := &g.objects[o]

	for slot := range obj.Imports {
		x := &obj.Imports[slot]
		structuralAssert(!x.Next.Valid(), "import already linked for object %s", obj.Name)

		xid := XRefID{Obj: o, Kind: importXRef, Slot: int32(slot)}
		sym := &g.symbols[x.Sym]
		x.Next = sym.importerHead
		sym.importerHead = xid

		if sym.exporterHead.Valid() {
			depObj := sym.exporterHead.Obj
			if g.objects[depObj].LinkSet == NoLinkSet {
				g.objects[depObj].LinkSet = obj.LinkSet
				if opts.OnLink != nil {
					opts.OnLink(depObj, o, x.Sym)
				}
				g.linkObject(depObj, opts)
			}
		} else if opts.WarnUndefined && opts.OnUndefined != nil {
			opts.OnUndefined(o, x.Sym)
		}
	}

	g.pushOntoSet(o)
}

// pushOntoSet inserts o at the head of the object list belonging to its
// already-assigned link set.
func (g *Graph) pushOntoSet(o ObjID) {
	set := g.objects[o].LinkSet
	obj := &g.objects[o]
	obj.nextInSet = g.linkSets[set].head
	g.linkSets[set].head = o
}
