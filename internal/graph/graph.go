package graph

import (
	"sort"
	"strings"
)

// Graph is the whole in-memory object/symbol link graph: the string
// arena, symbol table, object store, library registry and the three
// canonical link sets, plus the lazily built index used by Query (C12).
type Graph struct {
	arena  *arena
	symtab *symbolTable

	symbols   []Symbol
	objects   []Object
	libraries []Library
	libByName map[string]LibID

	linkSets [4]linkSet // indexed by LinkSetID; NoLinkSet slot unused

	undefinedObj ObjID

	queryIndex      []ObjID
	queryIndexDirty bool
}

// New creates an empty graph, pre-populated with the three canonical
// link sets and the U* sentinel object (§3).
func New() *Graph {
	g := &Graph{
		arena:     newArena(),
		symtab:    newSymbolTable(),
		libByName: make(map[string]LibID),
	}
	g.linkSets[ApplicationSet] = linkSet{name: "Application", head: InvalidObj}
	g.linkSets[OptionalSet] = linkSet{name: "Optional", head: InvalidObj}
	g.linkSets[UndefinedSet] = linkSet{name: "UNDEFINED", head: InvalidObj}

	g.undefinedObj = ObjID(len(g.objects))
	g.objects = append(g.objects, Object{
		Name:      "<UNDEFINED>",
		Lib:       InvalidLib,
		LinkSet:   NoLinkSet,
		nextInSet: InvalidObj,
		work:      InvalidObj,
		listNext:  InvalidObj,
	})
	g.linkSetInsert(UndefinedSet, g.undefinedObj)
	g.queryIndexDirty = true
	return g
}

// UndefinedObj returns the ID of the U* sentinel.
func (g *Graph) UndefinedObj() ObjID { return g.undefinedObj }

// Symbol returns a mutable pointer to the symbol identified by id.
func (g *Graph) Symbol(id SymID) *Symbol { return &g.symbols[id] }

// Object returns a mutable pointer to the object identified by id.
func (g *Graph) Object(id ObjID) *Object { return &g.objects[id] }

// Library returns a pointer to the library identified by id.
func (g *Graph) Library(id LibID) *Library { return &g.libraries[id] }

// NumObjects returns the number of objects, including the U* sentinel.
func (g *Graph) NumObjects() int { return len(g.objects) }

// NumSymbols returns the number of interned symbols.
func (g *Graph) NumSymbols() int { return len(g.symbols) }

// FindSymbol looks up a symbol by exact name.
func (g *Graph) FindSymbol(name string) (SymID, bool) { return g.symtab.find(name) }

// WalkSymbols visits every symbol in name order (C2 walk). Name order is
// recomputed on demand, which is the "hash+sort" alternative the spec
// explicitly sanctions in place of a balanced tree.
func (g *Graph) WalkSymbols(visit func(SymID, *Symbol)) {
	names := make([]string, 0, len(g.symtab.byName))
	for name := range g.symtab.byName {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		id := g.symtab.byName[name]
		visit(id, &g.symbols[id])
	}
}

// internSymbol returns the existing symbol named name, or creates a new
// one with type U (C2 intern).
func (g *Graph) internSymbol(name string) (SymID, bool) {
	if id, ok := g.symtab.find(name); ok {
		return id, false
	}
	id := SymID(len(g.symbols))
	g.symbols = append(g.symbols, Symbol{
		Name:         g.arena.intern(name),
		Type:         TypeUndefined,
		exporterHead: InvalidXRef,
		exporterTail: InvalidXRef,
		importerHead: InvalidXRef,
	})
	g.symtab.byName[name] = id
	g.queryIndexDirty = true
	return id, true
}

// splitName implements §4.3/§4.8's header split: a raw name ending in
// ']' is "library[member]"; anything else is a bare object name. A
// trailing ']' with no matching '[' is ill-formed.
func splitName(raw string) (lib, member string, hasLib bool, err error) {
	if len(raw) == 0 || raw[len(raw)-1] != ']' {
		return "", raw, false, nil
	}
	idx := strings.LastIndexByte(raw, '[')
	if idx < 0 {
		return "", "", false, fatalParsef("misformed archive member name: %q ('library[member]' expected)", raw)
	}
	return raw[:idx], raw[idx+1 : len(raw)-1], true, nil
}

// createObject implements the ObjectHeader half of the Ingestor (§4.3):
// split the raw name, create the Object, and attach it to its library
// (creating the library on first sight) if one was named.
func (g *Graph) createObject(rawName string) (ObjID, error) {
	lib, member, hasLib, err := splitName(rawName)
	if err != nil {
		return InvalidObj, err
	}
	name := rawName
	if hasLib {
		name = member
	}

	id := ObjID(len(g.objects))
	g.objects = append(g.objects, Object{
		Name:      g.arena.intern(name),
		Lib:       InvalidLib,
		LinkSet:   NoLinkSet,
		nextInSet: InvalidObj,
		work:      InvalidObj,
		listNext:  InvalidObj,
	})

	if hasLib {
		libID := g.findOrCreateLibrary(lib)
		if err := g.libAddObj(libID, id); err != nil {
			return InvalidObj, err
		}
	}

	g.queryIndexDirty = true
	return id, nil
}

// findOrCreateLibrary looks up a library by exact name equality (via
// the libByName map) or creates it.
func (g *Graph) findOrCreateLibrary(name string) LibID {
	if id, ok := g.libByName[name]; ok {
		return id
	}
	id := LibID(len(g.libraries))
	g.libraries = append(g.libraries, Library{Name: g.arena.intern(name)})
	g.libByName[name] = id
	return id
}

// libAddObj appends obj as a member of library lib, rejecting a
// duplicate member name — the input's two nm dumps would have to name
// the same library[member] pair twice for this to fire, which is a
// malformed-input condition, not an internal bug.
func (g *Graph) libAddObj(lib LibID, obj ObjID) error {
	l := &g.libraries[lib]
	name := g.objects[obj].Name
	for _, m := range l.Members {
		if g.objects[m].Name == name {
			return fatalParsef("duplicate member %q in library %q", name, l.Name)
		}
	}
	l.Members = append(l.Members, obj)
	g.objects[obj].Lib = lib
	return nil
}
