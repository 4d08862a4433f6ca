// Package scriptgen emits the linker script §4.9 describes: EXTERN()
// directives that force a linker to keep every symbol the Optional
// (and, unless optionalOnly, Application) link set exports, grouped and commented
// by the object that exports them — a direct translation of
// writeScript/writeLinkSet.
package scriptgen

import (
	"fmt"
	"io"

	"github.com/till-s/ldep/internal/graph"
)

// Write emits the script to w. When optionalOnly is true the Application
// link set is skipped. The "-e" CLI flag always passes false, so it
// writes both link sets.
func Write(g *graph.Graph, w io.Writer, optionalOnly bool) error {
	if !optionalOnly {
		if err := writeLinkSet(g, w, graph.ApplicationSet, "Application"); err != nil {
			return err
		}
		if _, err := fmt.Fprintln(w); err != nil {
			return err
		}
	}
	return writeLinkSet(g, w, graph.OptionalSet, "Optional")
}

func writeLinkSet(g *graph.Graph, w io.Writer, set graph.LinkSetID, title string) error {
	objs := g.Objects(set)
	if len(objs) == 0 {
		return nil
	}

	if _, err := fmt.Fprintf(w, "/* ----- %s Link Set ----- */\n\n", title); err != nil {
		return err
	}

	for _, o := range objs {
		if _, err := fmt.Fprintf(w, "/* %s: */\n", g.DisplayName(o)); err != nil {
			return err
		}
		var exportErr error
		g.ObjectSymbols(o, func(sym graph.SymID) {
			if exportErr != nil {
				return
			}
			_, exportErr = fmt.Fprintf(w, "EXTERN( %s )\n", g.Symbol(sym).Name)
		}, nil)
		if exportErr != nil {
			return exportErr
		}
	}
	return nil
}
