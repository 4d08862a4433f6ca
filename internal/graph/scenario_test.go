package graph_test

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/till-s/ldep/internal/graph"
	"github.com/till-s/ldep/internal/nmscan"
)

// buildGraph ingests one or more nm-fposix-style text blobs, in order,
// and returns the resulting Graph plus the ObjID of the last object
// contributed by the first blob ("lastMandatory" for Link).
func buildGraph(t *testing.T, blobs ...string) (*graph.Graph, graph.ObjID) {
	t.Helper()
	g := graph.New()
	lastMandatory := graph.InvalidObj
	for i, blob := range blobs {
		ing := g.NewIngestor(graph.IngestOptions{})
		require.NoError(t, nmscan.Scan(strings.NewReader(blob), "test", ing))
		if i == 0 {
			lastMandatory = graph.ObjID(g.NumObjects() - 1)
		}
	}
	return g, lastMandatory
}

func objByName(t *testing.T, g *graph.Graph, name string) graph.ObjID {
	t.Helper()
	matches, err := g.FindObjects(name)
	require.NoError(t, err)
	require.Len(t, matches, 1, "expected exactly one match for %q", name)
	return matches[0]
}

// Scenario 1: mandatory pulls optional.
func TestScenarioMandatoryPullsOptional(t *testing.T) {
	g, lastMandatory := buildGraph(t,
		"a.o:\nmain T 0 10\nputs U\n",
		"b.o:\nputs T 0 5\n",
	)
	g.GatherDanglingUndefs()
	g.Link(lastMandatory, graph.LinkOptions{})

	a := objByName(t, g, "a.o")
	b := objByName(t, g, "b.o")
	require.Equal(t, graph.ApplicationSet, g.Object(a).LinkSet)
	require.Equal(t, graph.ApplicationSet, g.Object(b).LinkSet)

	putsID, ok := g.FindSymbol("puts")
	require.True(t, ok)
	puts := g.Symbol(putsID)

	exporters := 0
	for ref := puts.ExporterHead(); ref.Valid(); ref = g.XRef(ref).Next {
		exporters++
		require.Equal(t, b, ref.Obj)
	}
	require.Equal(t, 1, exporters)

	importers := 0
	for ref := puts.ImporterHead(); ref.Valid(); ref = g.XRef(ref).Next {
		importers++
		require.Equal(t, a, ref.Obj)
	}
	require.Equal(t, 1, importers)
}

// Scenario 2: a dangling reference becomes an export of U*, survives
// unlinkUndefs because the only importer is mandatory.
func TestScenarioDanglingUndef(t *testing.T) {
	g, lastMandatory := buildGraph(t, "a.o:\nmain T 0 10\nxyz U\n")
	g.GatherDanglingUndefs()
	g.Link(lastMandatory, graph.LinkOptions{})

	a := objByName(t, g, "a.o")
	require.Equal(t, graph.ApplicationSet, g.Object(a).LinkSet)
	require.Equal(t, graph.UndefinedSet, g.Object(g.UndefinedObj()).LinkSet)

	xyzID, ok := g.FindSymbol("xyz")
	require.True(t, ok)
	require.Equal(t, g.UndefinedObj(), g.Symbol(xyzID).ExporterHead().Obj)

	var rejected []graph.ObjID
	g.UnlinkUndefs(graph.UnlinkOptions{
		OnReject: func(o graph.ObjID) { rejected = append(rejected, o) },
	})
	require.Contains(t, rejected, a)
	require.Equal(t, graph.ApplicationSet, g.Object(a).LinkSet)
}

// Scenario 3: an optional object unreachable from the mandatory set
// survives unlinkUndefs (it has no undefined exports) but can be
// removed explicitly via a removal list.
func TestScenarioOptionalUnreachable(t *testing.T) {
	g, lastMandatory := buildGraph(t,
		"a.o:\nmain T 0 10\n",
		"b.o:\norphan T 0 10\n",
	)
	g.GatherDanglingUndefs()
	g.Link(lastMandatory, graph.LinkOptions{})

	b := objByName(t, g, "b.o")
	require.Equal(t, graph.OptionalSet, g.Object(b).LinkSet)

	g.UnlinkUndefs(graph.UnlinkOptions{})
	require.Equal(t, graph.OptionalSet, g.Object(b).LinkSet, "unrelated to any undefined symbol")

	var removed []string
	g.RemoveObjects([]string{"[b.o]"},
		func(name string, matches []graph.ObjID) { t.Fatalf("unexpected ambiguous/missing match for %q", name) },
		func(name string, o graph.ObjID) { t.Fatalf("unexpected rejection removing %q", name) },
	)
	_ = removed
	require.Empty(t, g.Objects(graph.OptionalSet))
}

// Scenario 4: two strong definitions of the same symbol are reported
// exactly once by CheckMultipleDefs.
func TestScenarioMultipleDefinitions(t *testing.T) {
	g, lastMandatory := buildGraph(t, "a.o:\ndup T 0 1\nb.o:\ndup T 0 1\n")
	g.GatherDanglingUndefs()
	g.Link(lastMandatory, graph.LinkOptions{})

	var dups []graph.DuplicateDefinition
	g.CheckMultipleDefs(func(d graph.DuplicateDefinition) { dups = append(dups, d) })
	require.Len(t, dups, 1)
	require.Len(t, dups[0].Exporters, 2)
}

// Scenario 5: a two-object import cycle is traversed exactly once per
// object in either direction, with no infinite recursion.
func TestScenarioCycle(t *testing.T) {
	g, lastMandatory := buildGraph(t, "a.o:\nx T 0 1\ny U\nb.o:\ny T 0 1\nx U\n")
	g.GatherDanglingUndefs()
	g.Link(lastMandatory, graph.LinkOptions{})

	a := objByName(t, g, "a.o")
	b := objByName(t, g, "b.o")

	var seenExports []graph.ObjID
	g.Walk(a, graph.WalkExports, func(o graph.ObjID, depth int) { seenExports = append(seenExports, o) })
	require.ElementsMatch(t, []graph.ObjID{a, b}, seenExports)

	var seenImports []graph.ObjID
	g.Walk(b, graph.WalkImports, func(o graph.ObjID, depth int) { seenImports = append(seenImports, o) })
	require.ElementsMatch(t, []graph.ObjID{b, a}, seenImports)
}

// Scenario 6: library-qualified queries disambiguate same-named members
// across libraries; a bare "[member]" matches every library.
func TestScenarioLibraryQualifiedLookup(t *testing.T) {
	g, _ := buildGraph(t, "libc.a[printf.o]:\nprintf T 0 1\nlibmine.a[printf.o]:\nprintf T 0 1\n")

	any, err := g.FindObjects("[printf.o]")
	require.NoError(t, err)
	require.Len(t, any, 2)

	exact, err := g.FindObjects("libc.a[printf.o]")
	require.NoError(t, err)
	require.Len(t, exact, 1)
}
