package graph

// UnlinkOptions carries the diagnostic hooks for the Unlink Engine; all
// are nil-safe.
type UnlinkOptions struct {
	// OnReject is called with the export-closure member that is itself
	// in the Application link set, once per rejected UnlinkObject call.
	OnReject func(rejectedBecause ObjID)
	// OnUnlink is called once per object actually removed from its link
	// set.
	OnUnlink func(removed ObjID)
}

// UnlinkObject implements §4.6: build the export closure of o (every
// object that transitively imports from o, including o itself), reject if any
// member is still needed by the Application link set, otherwise remove
// every member from its link set and unlink its imports. Returns true if
// o (and its export closure) was removed, false if the removal was
// rejected.
func (g *Graph) UnlinkObject(o ObjID, opts UnlinkOptions) bool {
	g.WalkBuildList(o, WalkExports)
	members := g.ListObjects(o)

	rejected := false
	for _, m := range members {
		if g.objects[m].LinkSet == ApplicationSet {
			rejected = true
			if opts.OnReject != nil {
				opts.OnReject(m)
			}
			break
		}
	}

	if !rejected {
		for _, m := range members {
			g.spliceImports(m)
			g.linkSetRemove(m)
			if opts.OnUnlink != nil {
				opts.OnUnlink(m)
			}
		}
		// Sanity check (§4.6 step 4): everyone who imported a symbol
		// this closure exports was also in the closure, so every
		// exported symbol's importer list must now be empty.
		for _, m := range members {
			g.checkSanity(m)
		}
	}

	g.ListRelease(o, nil)
	return !rejected
}

// spliceImports removes every import XRef of o from its symbol's
// importer list (first-match removal, splicing the head if necessary)
// and clears each XRef's Next.
func (g *Graph) spliceImports(o ObjID) {
	obj := &g.objects[o]
	for slot := range obj.Imports {
		x := &obj.Imports[slot]
		xid := XRefID{Obj: o, Kind: importXRef, Slot: int32(slot)}
		sym := &g.symbols[x.Sym]

		if sym.importerHead == xid {
			sym.importerHead = x.Next
		} else {
			p := sym.importerHead
			structuralAssert(p.Valid(), "import cross-reference missing from importer list for %s", sym.Name)
			for g.xrefAt(p).Next != xid {
				p = g.xrefAt(p).Next
				structuralAssert(p.Valid(), "import cross-reference missing from importer list for %s", sym.Name)
			}
			g.xrefAt(p).Next = x.Next
		}
		x.Next = InvalidXRef
	}
}

// checkSanity asserts that every symbol o exports now has an empty
// importer list — everyone who imported it was in the same removed
// closure.
func (g *Graph) checkSanity(o ObjID) {
	obj := &g.objects[o]
	for _, x := range obj.Exports {
		sym := &g.symbols[x.Sym]
		structuralAssert(!sym.importerHead.Valid(), "symbol %s still has importers after unlinking %s", sym.Name, obj.Name)
	}
}

// UnlinkUndefs implements §4.6 unlinkUndefs: for every symbol exported
// by U* (every undefined symbol), repeatedly unlink its first importer
// until either the importer list is empty or the remaining importers all
// belong to the Application link set (and so reject). Importers that
// reject are skipped, and the walk continues with their siblings.
func (g *Graph) UnlinkUndefs(opts UnlinkOptions) {
	exports := g.objects[g.undefinedObj].Exports
	for i := range exports {
		sym := &g.symbols[exports[i].Sym]

		for sym.importerHead.Valid() {
			if !g.UnlinkObject(sym.importerHead.Obj, opts) {
				break
			}
		}
		if !sym.importerHead.Valid() {
			continue
		}

		p := sym.importerHead
		for {
			n := g.xrefAt(p).Next
			for n.Valid() {
				if !g.UnlinkObject(n.Obj, opts) {
					break
				}
				n = g.xrefAt(p).Next
			}
			if !n.Valid() {
				break
			}
			p = n
		}
	}
}

// RemoveObjects processes a removal list (§4.6 removeObjs, §6): one
// object name per line, in any of the §4.8 query forms. A name that
// resolves to zero or more than one object is reported via onAmbiguous
// and skipped; an exact match is unlinked, and a rejection is reported
// via onReject.
func (g *Graph) RemoveObjects(names []string, onAmbiguous func(name string, matches []ObjID), onReject func(name string, o ObjID)) {
	for _, name := range names {
		matches, err := g.FindObjects(name)
		if err != nil || len(matches) != 1 {
			if onAmbiguous != nil {
				onAmbiguous(name, matches)
			}
			continue
		}
		if !g.UnlinkObject(matches[0], UnlinkOptions{}) {
			if onReject != nil {
				onReject(name, matches[0])
			}
		}
	}
}
