package nmscan_test

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/till-s/ldep/internal/graph"
	"github.com/till-s/ldep/internal/nmscan"
)

func TestScanBasicRecords(t *testing.T) {
	g := graph.New()
	ing := g.NewIngestor(graph.IngestOptions{})

	input := "a.o:\nmain T 0000000000000010 0000000000000004\nputs U\n"
	require.NoError(t, nmscan.Scan(strings.NewReader(input), "a.nm", ing))

	matches, err := g.FindObjects("a.o")
	require.NoError(t, err)
	require.Len(t, matches, 1)

	mainID, ok := g.FindSymbol("main")
	require.True(t, ok)
	require.Equal(t, graph.SymType('T'), g.Symbol(mainID).Type)

	putsID, ok := g.FindSymbol("puts")
	require.True(t, ok)
	require.Equal(t, graph.SymType('U'), g.Symbol(putsID).Type)
}

func TestScanSymbolBeforeAnyHeaderSynthesizesObject(t *testing.T) {
	g := graph.New()
	ing := g.NewIngestor(graph.IngestOptions{})

	require.NoError(t, nmscan.Scan(strings.NewReader("orphan T 0 1\n"), "dump/foo.nm", ing))

	matches, err := g.FindObjects("dump/foo.o")
	require.NoError(t, err)
	require.Len(t, matches, 1)
}

func TestScanRejectsFilenameWithoutColon(t *testing.T) {
	g := graph.New()
	ing := g.NewIngestor(graph.IngestOptions{})

	err := nmscan.Scan(strings.NewReader("notaheader\n"), "bad.nm", ing)
	require.Error(t, err)
}

func TestScanSkipsBlankLines(t *testing.T) {
	g := graph.New()
	ing := g.NewIngestor(graph.IngestOptions{})

	input := "a.o:\n\nmain T 0 1\n\n"
	require.NoError(t, nmscan.Scan(strings.NewReader(input), "a.nm", ing))

	_, ok := g.FindSymbol("main")
	require.True(t, ok)
}
