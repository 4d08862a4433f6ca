package scriptgen_test

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/till-s/ldep/internal/graph"
	"github.com/till-s/ldep/internal/nmscan"
	"github.com/till-s/ldep/internal/scriptgen"
)

func TestWriteEmitsExternPerExportedSymbol(t *testing.T) {
	g := graph.New()
	ing := g.NewIngestor(graph.IngestOptions{})
	require.NoError(t, nmscan.Scan(strings.NewReader("a.o:\nmain T 0 1\nhelper T 0 1\n"), "t", ing))
	lastMandatory := graph.ObjID(g.NumObjects() - 1)
	g.GatherDanglingUndefs()
	g.Link(lastMandatory, graph.LinkOptions{})

	var buf strings.Builder
	require.NoError(t, scriptgen.Write(g, &buf, false))

	out := buf.String()
	require.Contains(t, out, "Application Link Set")
	require.Contains(t, out, "EXTERN( main )")
	require.Contains(t, out, "EXTERN( helper )")
}

func TestWriteOptionalOnlySkipsApplication(t *testing.T) {
	g := graph.New()
	ing := g.NewIngestor(graph.IngestOptions{})
	require.NoError(t, nmscan.Scan(strings.NewReader("a.o:\nmain T 0 1\n"), "t", ing))
	lastMandatory := graph.ObjID(g.NumObjects() - 1)

	ing = g.NewIngestor(graph.IngestOptions{})
	require.NoError(t, nmscan.Scan(strings.NewReader("b.o:\nextra T 0 1\n"), "t", ing))

	g.GatherDanglingUndefs()
	g.Link(lastMandatory, graph.LinkOptions{})

	var buf strings.Builder
	require.NoError(t, scriptgen.Write(g, &buf, true))

	out := buf.String()
	require.NotContains(t, out, "Application Link Set")
	require.Contains(t, out, "Optional Link Set")
	require.Contains(t, out, "EXTERN( extra )")
}
