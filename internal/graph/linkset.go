package graph

// linkSet is a named bucket holding the singly-linked list (via
// Object.nextInSet) of objects currently assigned to it. Insertion is
// always at the head, so iteration order is LIFO with respect to when an
// object was linked.
type linkSet struct {
	name string
	head ObjID
}

// LinkSetName returns the canonical name of a link set ("Application",
// "Optional" or "UNDEFINED").
func (g *Graph) LinkSetName(id LinkSetID) string {
	return g.linkSets[id].name
}

// Objects returns every object currently assigned to the given link set,
// in link-set (LIFO-by-link-time) order.
func (g *Graph) Objects(set LinkSetID) []ObjID {
	var out []ObjID
	for o := g.linkSets[set].head; o != InvalidObj; o = g.objects[o].nextInSet {
		out = append(out, o)
	}
	return out
}

// linkSetInsert pushes o onto the head of set's object list and records
// the membership on o itself.
func (g *Graph) linkSetInsert(set LinkSetID, o ObjID) {
	obj := &g.objects[o]
	obj.LinkSet = set
	obj.nextInSet = g.linkSets[set].head
	g.linkSets[set].head = o
}

// linkSetRemove splices o out of its current link set's object list and
// clears its membership. o must currently belong to some link set.
func (g *Graph) linkSetRemove(o ObjID) {
	set := g.objects[o].LinkSet
	pl := &g.linkSets[set].head
	for *pl != InvalidObj && *pl != o {
		pl = &g.objects[*pl].nextInSet
	}
	if *pl != o {
		panic(structuralAssertf("object %s not found in its own link set %s", g.objects[o].Name, set))
	}
	*pl = g.objects[o].nextInSet
	obj := &g.objects[o]
	obj.nextInSet = InvalidObj
	obj.LinkSet = NoLinkSet
}
