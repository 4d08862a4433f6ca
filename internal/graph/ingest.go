package graph

import "strings"

// IngestOptions controls scan leniency and where non-fatal diagnostics
// produced during ingest are delivered.
type IngestOptions struct {
	// Force enables "-f" lenient scanning: all type characters are
	// folded to upper case and an unrecognized type ('?') is treated as
	// 'U' instead of aborting the scan.
	Force bool

	// OnWarning receives non-fatal diagnostics (type mismatches). May be
	// nil to discard them.
	OnWarning func(string)
}

// Ingestor is the stateful consumer of a parsed ObjectHeader/SymbolEntry
// stream (C6). It owns no I/O; the textual scanner (internal/nmscan) is
// the external collaborator that turns lines into calls to Header and
// Symbol.
type Ingestor struct {
	g       *Graph
	opts    IngestOptions
	current ObjID
}

// NewIngestor returns an Ingestor bound to g.
func (g *Graph) NewIngestor(opts IngestOptions) *Ingestor {
	return &Ingestor{g: g, opts: opts, current: InvalidObj}
}

// Header processes an ObjectHeader record: fixes up whatever object was
// previously current, then creates (and makes current) the new object
// named by rawName.
func (in *Ingestor) Header(rawName string) error {
	in.fixup()
	id, err := in.g.createObject(rawName)
	if err != nil {
		return err
	}
	in.current = id
	return nil
}

// Symbol processes a SymbolEntry record: name and type-char, scoped to
// the currently open object. inputName is the name of the input stream,
// used only to synthesize an object if none has been opened yet.
func (in *Ingestor) Symbol(name string, typeChar byte, inputName string) error {
	if in.current == InvalidObj {
		id, err := in.g.createObject(syntheticObjectName(inputName))
		if err != nil {
			return err
		}
		in.current = id
	}

	t := typeChar
	if in.opts.Force {
		t = toUpperASCII(t)
	}
	symType := SymType(t)
	if symType == TypeUnknown {
		if !in.opts.Force {
			return fatalParsef("unknown symbol type %q", string(rune(t)))
		}
		symType = TypeUndefined
	} else if !symType.IsExport() && symType != TypeUndefined {
		return fatalParsef("unknown symbol type %q", string(rune(t)))
	}

	symID, created := in.g.internSymbol(name)
	sym := in.g.Symbol(symID)
	if created {
		sym.Type = symType
	} else if sym.Type != symType {
		existingConcrete := sym.Type != TypeUndefined
		newConcrete := symType != TypeUndefined
		switch {
		case !existingConcrete:
			// Upgrade U -> concrete, silently.
			sym.Type = symType
		case existingConcrete && newConcrete:
			if in.opts.OnWarning != nil {
				in.opts.OnWarning(warnTypeMismatch(name, sym.Type, symType))
			}
		default:
			// existing concrete, new reference (U): nothing to do.
		}
	}

	if symType.IsExport() {
		obj := in.g.Object(in.current)
		obj.Exports = append(obj.Exports, XRef{Sym: symID, Weak: symType.IsWeak(), Next: InvalidXRef})
	} else {
		obj := in.g.Object(in.current)
		obj.Imports = append(obj.Imports, XRef{Sym: symID, Weak: false, Next: InvalidXRef})
	}
	return nil
}

// Finish fixes up the last object of the stream. Callers must invoke it
// once after the final record (end of input).
func (in *Ingestor) Finish() {
	in.fixup()
}

// fixup appends each export XRef of the just-completed object to its
// symbol's exporter list, preserving ingest order (I4). Export arrays
// are not grown after this point.
func (in *Ingestor) fixup() {
	if in.current == InvalidObj {
		return
	}
	g := in.g
	obj := &g.objects[in.current]
	for slot := range obj.Exports {
		x := &obj.Exports[slot]
		xid := XRefID{Obj: in.current, Kind: exportXRef, Slot: int32(slot)}
		sym := &g.symbols[x.Sym]
		if !sym.exporterHead.Valid() {
			sym.exporterHead = xid
		} else {
			tail := g.xrefAt(sym.exporterTail)
			tail.Next = xid
		}
		sym.exporterTail = xid
	}
	in.current = InvalidObj
}

// syntheticObjectName builds "<inputname>.o", forcing the extension to
// ".o" the way the original scanner does: replace any trailing extension
// with "o", or append ".o" if there is none (or the last '/' comes after
// the last '.').
func syntheticObjectName(inputName string) string {
	dot := strings.LastIndexByte(inputName, '.')
	slash := strings.LastIndexByte(inputName, '/')
	if dot < 0 || slash > dot {
		return inputName + ".o"
	}
	return inputName[:dot+1] + "o"
}

func toUpperASCII(b byte) byte {
	if b >= 'a' && b <= 'z' {
		return b - ('a' - 'A')
	}
	return b
}

func warnTypeMismatch(name string, known, now SymType) string {
	return "type mismatch between multiply defined symbols: " + name +
		": known as " + string(rune(known)) + ", is now " + string(rune(now))
}

// GatherDanglingUndefs is the Undefined Gatherer (C7): it walks the
// symbol table once, in name order, and attaches every symbol with no
// exporter as an export of the U* sentinel, making U* the unique
// exporter of every undefined symbol (I6). Must run exactly once, after
// every input file has been ingested.
func (g *Graph) GatherDanglingUndefs() {
	var dangling []SymID
	g.WalkSymbols(func(id SymID, sym *Symbol) {
		if !sym.HasExporter() {
			dangling = append(dangling, id)
		}
	})
	for _, id := range dangling {
		g.attachUndefinedExport(id)
	}
}

func (g *Graph) attachUndefinedExport(sym SymID) {
	obj := &g.objects[g.undefinedObj]
	slot := int32(len(obj.Exports))
	obj.Exports = append(obj.Exports, XRef{Sym: sym, Weak: false, Next: InvalidXRef})
	xid := XRefID{Obj: g.undefinedObj, Kind: exportXRef, Slot: slot}

	s := &g.symbols[sym]
	if !s.exporterHead.Valid() {
		s.exporterHead = xid
	} else {
		tail := g.xrefAt(s.exporterTail)
		tail.Next = xid
	}
	s.exporterTail = xid
}
