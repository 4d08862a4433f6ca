package graph

import "fmt"

// CheckIntegrity implements checkObjPtrs (§4 supplemented feature): an
// exhaustive consistency pass over the whole graph, run by tests and by
// the CLI after ingest and again after unlinking. It returns every violation
// found rather than stopping at the first, since a single corruption
// often cascades into several reports.
func (g *Graph) CheckIntegrity() []error {
	var errs []error
	report := func(format string, args ...any) {
		errs = append(errs, fmt.Errorf(format, args...))
	}

	g.checkLinkSets(report)
	g.checkSymbolChains(report)
	g.checkScratchSlotsAtRest(report)
	g.checkQueryIndex(report)

	return errs
}

// checkLinkSets walks each of the three real link sets and confirms
// every member's LinkSet field agrees with the chain it was found on,
// and that the chain terminates (I3).
func (g *Graph) checkLinkSets(report func(string, ...any)) {
	for set := ApplicationSet; set <= UndefinedSet; set++ {
		seen := make(map[ObjID]bool)
		for o := g.linkSets[set].head; o != InvalidObj; o = g.objects[o].nextInSet {
			if seen[o] {
				report("cycle in %s link set at object %q", set, g.objects[o].Name)
				break
			}
			seen[o] = true
			if g.objects[o].LinkSet != set {
				report("object %q is on the %s chain but LinkSet=%s", g.objects[o].Name, set, g.objects[o].LinkSet)
			}
		}
	}
}

// checkSymbolChains confirms every exporter/importer list is acyclic
// and that every XRef points back at a real symbol (I1, I2).
func (g *Graph) checkSymbolChains(report func(string, ...any)) {
	for id := range g.symbols {
		sym := &g.symbols[SymID(id)]

		seen := make(map[XRefID]bool)
		for ref := sym.exporterHead; ref.Valid(); ref = g.xrefAt(ref).Next {
			if seen[ref] {
				report("cycle in exporter list of symbol %q", sym.Name)
				break
			}
			seen[ref] = true
			if g.xrefAt(ref).Sym != SymID(id) {
				report("exporter cross-reference of %q points at the wrong symbol", sym.Name)
			}
		}

		seen = make(map[XRefID]bool)
		for ref := sym.importerHead; ref.Valid(); ref = g.xrefAt(ref).Next {
			if seen[ref] {
				report("cycle in importer list of symbol %q", sym.Name)
				break
			}
			seen[ref] = true
			if g.xrefAt(ref).Sym != SymID(id) {
				report("importer cross-reference of %q points at the wrong symbol", sym.Name)
			}
		}
	}
}

// checkScratchSlotsAtRest confirms every object's traversal scratch
// slots are idle (I5): no walk should ever leave work or listNext set
// once control returns to the caller.
func (g *Graph) checkScratchSlotsAtRest(report func(string, ...any)) {
	for id := range g.objects {
		o := &g.objects[id]
		if o.work != InvalidObj {
			report("object %q left with a stale work mark", o.Name)
		}
		if o.listNext != InvalidObj {
			report("object %q left threaded onto a stale work list", o.Name)
		}
	}
}

// checkQueryIndex confirms the cached query index, when not marked
// dirty, is exactly the object set in sorted order (backing C12).
func (g *Graph) checkQueryIndex(report func(string, ...any)) {
	if g.queryIndexDirty {
		return
	}
	if len(g.queryIndex) != len(g.objects)-1 {
		report("query index has %d entries, expected %d", len(g.queryIndex), len(g.objects)-1)
		return
	}
	for i := 1; i < len(g.queryIndex); i++ {
		if compareObjDesc(g.descOf(g.queryIndex[i-1]), g.descOf(g.queryIndex[i])) > 0 {
			report("query index out of order at position %d", i)
		}
	}
}
