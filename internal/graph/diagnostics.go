package graph

// DuplicateDefinition describes one multiply-defined symbol: every
// non-weak exporter, in export (ingest) order. Exporters[0] is the one
// that actually links (§4.4's first-exporter rule); the rest are the
// conflicting definitions.
type DuplicateDefinition struct {
	Sym       SymID
	Exporters []ObjID
}

// CheckMultipleDefs implements checkMultipleDefs (C11): report every
// symbol with more than one non-weak exporter. Weak exports never
// conflict with anything (§4.3), and the U* sentinel never exports a
// real definition, so both are excluded from the exporter count. Common
// (C) symbols are never reported.
func (g *Graph) CheckMultipleDefs(report func(DuplicateDefinition)) {
	g.WalkSymbols(func(id SymID, sym *Symbol) {
		if sym.Type.IsCommon() {
			return
		}
		var exporters []ObjID
		for ref := sym.exporterHead; ref.Valid(); ref = g.xrefAt(ref).Next {
			if ref.Obj == g.undefinedObj {
				continue
			}
			if g.xrefAt(ref).Weak {
				continue
			}
			exporters = append(exporters, ref.Obj)
		}
		if len(exporters) > 1 {
			report(DuplicateDefinition{Sym: id, Exporters: exporters})
		}
	})
}

// UndefinedSymbols reports every symbol still exported only by U*, i.e.
// every name referenced but nowhere defined in the final graph.
func (g *Graph) UndefinedSymbols(report func(SymID)) {
	for _, x := range g.objects[g.undefinedObj].Exports {
		report(x.Sym)
	}
}

// DumpDependencies implements the "-d" dependency dump (§4 supplemented
// feature): showDeps's banner reads "objects requiring: %s", i.e. the
// objects that depend on o, so this walks WALK_EXPORTS|WALK_BUILD_LIST
// exactly as depwalk(f, depPrint, &arg, WALK_EXPORTS|WALK_BUILD_LIST)
// does in the original — o's dependents, not its dependencies.
func (g *Graph) DumpDependencies(o ObjID, emit func(obj ObjID, depth int)) {
	g.WalkBuildList(o, WalkExports)
	for depth, obj := range g.ListObjects(o) {
		if emit != nil {
			emit(obj, depth)
		}
	}
	g.ListRelease(o, nil)
}

// ObjectSymbols reports every symbol o exports and imports, in storage
// (ingest) order — the data behind the interactive object report and
// the linker script's EXTERN lines.
func (g *Graph) ObjectSymbols(o ObjID, emitExport, emitImport func(SymID)) {
	obj := &g.objects[o]
	if emitExport != nil {
		for _, x := range obj.Exports {
			emitExport(x.Sym)
		}
	}
	if emitImport != nil {
		for _, x := range obj.Imports {
			emitImport(x.Sym)
		}
	}
}
