package graph_test

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/till-s/ldep/internal/graph"
	"github.com/till-s/ldep/internal/nmscan"
)

// A broader build than the scenario tests: two mandatory objects, one
// optional object pulled in transitively, one orphaned optional object,
// and a library-qualified member — enough surface for CheckIntegrity to
// exercise every chain it walks.
func buildWideGraph(t *testing.T) (*graph.Graph, graph.ObjID) {
	t.Helper()
	g := graph.New()

	mandatory := "a.o:\nmain T 0 1\nhelper U\nb.o:\nhelper T 0 1\nshared U\n"
	optional := "c.o:\nshared T 0 1\nd.o:\norphan T 0 1\nlibx.a[e.o]:\nextra T 0 1\n"

	ing := g.NewIngestor(graph.IngestOptions{})
	require.NoError(t, nmscan.Scan(strings.NewReader(mandatory), "mandatory", ing))
	lastMandatory := graph.ObjID(g.NumObjects() - 1)

	ing = g.NewIngestor(graph.IngestOptions{})
	require.NoError(t, nmscan.Scan(strings.NewReader(optional), "optional", ing))

	return g, lastMandatory
}

func TestIntegrityHoldsThroughFullPipeline(t *testing.T) {
	g, lastMandatory := buildWideGraph(t)

	g.GatherDanglingUndefs()
	require.Empty(t, g.CheckIntegrity())

	g.Link(lastMandatory, graph.LinkOptions{})
	require.Empty(t, g.CheckIntegrity())

	g.UnlinkUndefs(graph.UnlinkOptions{})
	require.Empty(t, g.CheckIntegrity())

	g.RemoveObjects([]string{"[d.o]"}, nil, nil)
	require.Empty(t, g.CheckIntegrity())
}

// (I4) exporterList order mirrors ingest order: when two objects define
// the same symbol, the first one ingested is always the first exporter.
func TestExporterOrderMatchesIngestOrder(t *testing.T) {
	g := graph.New()
	ing := g.NewIngestor(graph.IngestOptions{})
	require.NoError(t, nmscan.Scan(strings.NewReader("second.o:\ndup T 0 1\n"), "t", ing))

	ing = g.NewIngestor(graph.IngestOptions{})
	require.NoError(t, nmscan.Scan(strings.NewReader("first.o:\ndup T 0 1\n"), "t", ing))

	id, ok := g.FindSymbol("dup")
	require.True(t, ok)
	sym := g.Symbol(id)

	first := sym.ExporterHead()
	require.True(t, first.Valid())
	require.Equal(t, "second.o", g.Object(first.Obj).Name, "ingest order, not alphabetical")

	second := g.XRef(first).Next
	require.True(t, second.Valid())
	require.Equal(t, "first.o", g.Object(second.Obj).Name)
	require.False(t, g.XRef(second).Next.Valid())
}

// (I6) every symbol with no real exporter becomes an export of U* once
// GatherDanglingUndefs has run, and nowhere else.
func TestDanglingSymbolsSweptToUndefinedPod(t *testing.T) {
	g := graph.New()
	ing := g.NewIngestor(graph.IngestOptions{})
	require.NoError(t, nmscan.Scan(strings.NewReader("a.o:\nmain T 0 1\nghost U\n"), "t", ing))

	id, ok := g.FindSymbol("ghost")
	require.True(t, ok)
	require.False(t, g.Symbol(id).HasExporter())

	g.GatherDanglingUndefs()

	require.True(t, g.Symbol(id).HasExporter())
	require.Equal(t, g.UndefinedObj(), g.Symbol(id).ExporterHead().Obj)
}

// (I7) every object the Link Engine places in Application is reachable,
// by imports, from one of the mandatory (first-batch) objects.
func TestApplicationSetIsReachableFromMandatory(t *testing.T) {
	g, lastMandatory := buildWideGraph(t)
	g.GatherDanglingUndefs()
	g.Link(lastMandatory, graph.LinkOptions{})

	for _, o := range g.Objects(graph.ApplicationSet) {
		reached := false
		g.Walk(o, graph.WalkExports, func(candidate graph.ObjID, depth int) {
			if int(candidate) <= int(lastMandatory) && candidate != graph.InvalidObj && candidate != 0 {
				reached = true
			}
		})
		// o itself may be the mandatory object (depth 0), which already
		// satisfies reachability trivially.
		if int(o) <= int(lastMandatory) {
			reached = true
		}
		require.True(t, reached, "object %s in Application is not reachable from the mandatory set", g.Object(o).Name)
	}
}

// (L3) traversal with and without list-building visits the same set of
// nodes, in the same first-entry order.
func TestBuildListMatchesDirectWalkOrder(t *testing.T) {
	g, lastMandatory := buildWideGraph(t)
	g.GatherDanglingUndefs()
	g.Link(lastMandatory, graph.LinkOptions{})

	start := graph.ObjID(1)

	var direct []graph.ObjID
	g.Walk(start, graph.WalkImports, func(o graph.ObjID, depth int) { direct = append(direct, o) })

	g.WalkBuildList(start, graph.WalkImports)
	listed := g.ListObjects(start)
	g.ListRelease(start, nil)

	require.Equal(t, direct, listed)
}
