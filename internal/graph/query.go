package graph

import (
	"sort"
	"strings"
)

// libKind classifies the library part of a query or stored object name
// for the purposes of the §4.8 comparator.
type libKind int

const (
	libNone libKind = iota // bare object name, no library
	libAny                 // "[member]" — matches any library
	libNamed                // "lib[member]" — matches exactly one library
)

type objDescriptor struct {
	name    string
	lib     string
	libKind libKind
}

// compareObjDesc is the total order from §4.8's objcmp: names compare
// first; "any library" on either side makes library comparison vacuous
// (equal); otherwise a bare name sorts before any library-qualified name
// with the same member name, and two library-qualified names compare by
// library name.
func compareObjDesc(a, b objDescriptor) int {
	if c := compareStrings(a.name, b.name); c != 0 {
		return c
	}
	if a.libKind == libAny || b.libKind == libAny {
		return 0
	}
	if a.libKind == libNone {
		if b.libKind == libNone {
			return 0
		}
		return -1
	}
	if b.libKind == libNone {
		return 1
	}
	return compareStrings(a.lib, b.lib)
}

func compareStrings(a, b string) int {
	switch {
	case a < b:
		return -1
	case a > b:
		return 1
	default:
		return 0
	}
}

func (g *Graph) descOf(id ObjID) objDescriptor {
	obj := &g.objects[id]
	if obj.Lib == InvalidLib {
		return objDescriptor{name: obj.Name, libKind: libNone}
	}
	return objDescriptor{name: obj.Name, libKind: libNamed, lib: g.libraries[obj.Lib].Name}
}

// buildQueryIndex sorts every real object (excluding U*) by
// compareObjDesc, giving the "sorted index of all objects keyed by
// (name, libname)" that §4.8 requires.
func (g *Graph) buildQueryIndex() {
	idx := make([]ObjID, 0, len(g.objects)-1)
	for id := ObjID(1); id < ObjID(len(g.objects)); id++ {
		idx = append(idx, id)
	}
	sort.Slice(idx, func(i, j int) bool {
		return compareObjDesc(g.descOf(idx[i]), g.descOf(idx[j])) < 0
	})
	g.queryIndex = idx
	g.queryIndexDirty = false
}

// FindObjects implements fileListFind (C12): split rawName the same way
// an ObjectHeader is split, then return every object whose (name,
// library) matches. "lib[member]" requires both to match; "[member]"
// (no library) matches any library; a bare name matches only objects
// with no library. A malformed "...]"-without-"[" name is reported as
// the same fatal parse error §4.3 would give it.
func (g *Graph) FindObjects(rawName string) ([]ObjID, error) {
	lib, member, hasLib, err := splitName(rawName)
	if err != nil {
		return nil, err
	}

	desc := objDescriptor{name: member}
	switch {
	case !hasLib:
		desc.libKind = libNone
	case lib == "":
		desc.libKind = libAny
	default:
		if _, ok := g.libByName[lib]; !ok {
			return nil, nil
		}
		desc.libKind = libNamed
		desc.lib = lib
	}

	if g.queryIndexDirty {
		g.buildQueryIndex()
	}

	idx := g.queryIndex
	lo, hi := 0, len(idx)
	for lo < hi {
		mid := (lo + hi) / 2
		if compareObjDesc(desc, g.descOf(idx[mid])) > 0 {
			lo = mid + 1
		} else {
			hi = mid
		}
	}

	var out []ObjID
	for i := lo; i < len(idx) && compareObjDesc(desc, g.descOf(idx[i])) == 0; i++ {
		out = append(out, idx[i])
	}
	return out, nil
}

// DisplayName renders an object the way §4.3's printObjName does:
// "lib[member]" if it belongs to a library, else just its name. The
// library part is truncated to its basename, matching printObjName's
// strrchr(l->name, '/') lookup.
func (g *Graph) DisplayName(id ObjID) string {
	obj := &g.objects[id]
	if obj.Lib == InvalidLib {
		return obj.Name
	}
	libName := g.libraries[obj.Lib].Name
	if i := strings.LastIndexByte(libName, '/'); i >= 0 {
		libName = libName[i+1:]
	}
	return libName + "[" + obj.Name + "]"
}
