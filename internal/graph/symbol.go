package graph

// SymType is a single nm-style symbol class character: one of
// T D B R G S A C W V U ?. W and V are weak definitions; U is an
// unresolved reference; ? is only legal in force-scan mode, where it is
// folded into U before it ever reaches a Symbol.
type SymType byte

const (
	TypeUndefined SymType = 'U'
	TypeUnknown   SymType = '?'
)

// IsWeak reports whether t is a weak definition (W or V).
func (t SymType) IsWeak() bool {
	return t == 'W' || t == 'V'
}

// IsExport reports whether t classifies a definition site rather than a
// reference. Common (C), weak (W/V) and the seven strong classes all
// export; only U (and, outside force mode, the fatal '?') import.
func (t SymType) IsExport() bool {
	switch t {
	case 'T', 'D', 'B', 'R', 'G', 'S', 'A', 'C', 'W', 'V':
		return true
	default:
		return false
	}
}

// IsCommon reports whether t is a tentative ("common") definition, which
// is exempt from the multiple-definition diagnostic (§4.7).
func (t SymType) IsCommon() bool {
	return t == 'C'
}

// Symbol is a named binding: either defined (exported) by one or more
// objects or merely referenced (imported) by objects currently linked.
// A symbol is created on first reference, with type U, and its type may
// be upgraded exactly once from U to a concrete class.
type Symbol struct {
	Name string
	Type SymType

	// exporterHead/exporterTail chain every export XRef of this symbol,
	// in ingest order (head-first, tail-append so order is preserved —
	// invariant I4). exporterTail lets Fixup append in O(1).
	exporterHead XRefID
	exporterTail XRefID

	// importerHead chains every import XRef of this symbol that is
	// currently linked, most-recently-linked first (head-insert).
	importerHead XRefID
}

// ExporterHead returns the first exporter cross-reference of sym, or
// InvalidXRef if the symbol is undefined everywhere and the undefined
// gatherer has not run yet. Once a symbol has been swept into U*'s
// exports, its head is U*'s cross-reference.
func (s *Symbol) ExporterHead() XRefID { return s.exporterHead }

// ImporterHead returns the first importer cross-reference of sym.
func (s *Symbol) ImporterHead() XRefID { return s.importerHead }

// HasExporter reports whether any object currently defines sym.
func (s *Symbol) HasExporter() bool { return s.exporterHead.Valid() }

// symbolTable is an ordered collection of symbols keyed by name (C2).
// It is implemented as a hash index plus a name sort for traversal,
// which the spec explicitly permits as an alternative to a balanced
// tree: "Any balanced-tree or hash+sort implementation satisfies the
// contract".
type symbolTable struct {
	byName map[string]SymID
}

func newSymbolTable() *symbolTable {
	return &symbolTable{byName: make(map[string]SymID)}
}

func (t *symbolTable) find(name string) (SymID, bool) {
	id, ok := t.byName[name]
	return id, ok
}
