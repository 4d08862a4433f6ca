package cliapp

import (
	"bufio"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/till-s/ldep/internal/graph"
)

// runInteractive is the query loop from interactive(): the user enters
// either a bare symbol name or a "[member]"/"lib[member]" object query,
// repeating until a line consisting of a single '.' or EOF.
func runInteractive(g *graph.Graph, stdin io.Reader, stdout io.Writer) {
	in := bufio.NewScanner(stdin)
	fmt.Fprintln(stdout)
	fmt.Fprintln(stdout, "Query database (enter a single '.' to quit) for")
	fmt.Fprintln(stdout, " A) Symbols, e.g. 'printf'")
	fmt.Fprintln(stdout, " B) Objects, e.g. '[printf.o]', 'libc.a[printf.o]'")
	fmt.Fprintln(stdout)

	for in.Scan() {
		line := strings.TrimSpace(in.Text())
		if line == "." {
			return
		}
		if line == "" {
			continue
		}

		if strings.HasSuffix(line, "]") {
			explainObjectQuery(g, line, in, stdout)
		} else {
			explainSymbolQuery(g, line, stdout)
		}
	}
}

func explainObjectQuery(g *graph.Graph, query string, in *bufio.Scanner, stdout io.Writer) {
	matches, err := g.FindObjects(query)
	if err != nil {
		fmt.Fprintf(stdout, "malformed query %q: %v\n", query, err)
		return
	}
	if len(matches) == 0 {
		fmt.Fprintf(stdout, "object %q not found, try again.\n", query)
		return
	}

	choice := 0
	if len(matches) > 1 {
		fmt.Fprintln(stdout, "multiple instances found, make a choice:")
		for i, m := range matches {
			fmt.Fprintf(stdout, "%d) - %s\n", i, g.DisplayName(m))
		}
		for {
			if !in.Scan() {
				return
			}
			text := strings.TrimSpace(in.Text())
			if text == "." {
				return
			}
			n, convErr := strconv.Atoi(text)
			if convErr == nil && n >= 0 && n < len(matches) {
				choice = n
				break
			}
			fmt.Fprintln(stdout, "invalid choice, try again")
		}
	}

	explainObject(g, matches[choice], stdout)
}

func explainSymbolQuery(g *graph.Graph, name string, stdout io.Writer) {
	id, ok := g.FindSymbol(name)
	if !ok {
		fmt.Fprintf(stdout, "symbol %q not found, try again\n", name)
		return
	}
	explainSymbol(g, id, stdout)
}

// explainObject is trackObj translated: every export, every import, and
// the flat (no-cycle) forward and reverse dependency closures.
func explainObject(g *graph.Graph, o graph.ObjID, stdout io.Writer) {
	fmt.Fprintf(stdout, "What I know about object '%s':\n", g.DisplayName(o))

	fmt.Fprintln(stdout, "  Exported symbols:")
	g.ObjectSymbols(o, func(sym graph.SymID) {
		fmt.Fprintf(stdout, "    %s\n", g.Symbol(sym).Name)
	}, nil)

	fmt.Fprintln(stdout, "  Imported symbols:")
	g.ObjectSymbols(o, nil, func(sym graph.SymID) {
		fmt.Fprintf(stdout, "    %s\n", g.Symbol(sym).Name)
	})

	fmt.Fprintln(stdout, "  Objects depending on me (including indirect dependencies):")
	g.Walk(o, graph.WalkExports, func(dep graph.ObjID, depth int) {
		if dep == o {
			return
		}
		fmt.Fprintf(stdout, "    %s\n", g.DisplayName(dep))
	})

	fmt.Fprintln(stdout, "  Objects I depend on (including indirect dependencies):")
	g.Walk(o, graph.WalkImports, func(dep graph.ObjID, depth int) {
		if dep == o {
			return
		}
		fmt.Fprintf(stdout, "    %s\n", g.DisplayName(dep))
	})
}

// explainSymbol is trackSym translated: every exporter (the winning
// definition first), the objects its winning definition pulls in, and
// every importer followed by the objects that depend on it.
func explainSymbol(g *graph.Graph, sym graph.SymID, stdout io.Writer) {
	s := g.Symbol(sym)
	fmt.Fprintf(stdout, "What I know about Symbol '%s':\n", s.Name)

	fmt.Fprint(stdout, "  Defined in object: ")
	ref := s.ExporterHead()
	if !ref.Valid() {
		fmt.Fprintln(stdout, "NOWHERE!!!")
	} else {
		first := true
		for ; ref.Valid(); ref = g.XRef(ref).Next {
			x := g.XRef(ref)
			weak := ""
			if x.Weak {
				weak = " (WEAK)"
			}
			if first {
				fmt.Fprintf(stdout, "%s%s\n", g.DisplayName(ref.Obj), weak)
				first = false
			} else {
				fmt.Fprintf(stdout, "      AND in object: %s%s\n", g.DisplayName(ref.Obj), weak)
			}
		}
	}

	if s.HasExporter() {
		winner := s.ExporterHead().Obj
		fmt.Fprint(stdout, "  Depending on objects (triggers linkage of):")
		var any bool
		g.Walk(winner, graph.WalkImports, func(dep graph.ObjID, depth int) {
			if dep == winner {
				return
			}
			if !any {
				fmt.Fprintln(stdout)
				any = true
			}
			fmt.Fprintf(stdout, "    %s\n", g.DisplayName(dep))
		})
		if !any {
			fmt.Fprintln(stdout, " NONE")
		}
	}

	fmt.Fprintln(stdout, "  Objects depending (maybe indirectly) on this symbol:")
	fmt.Fprintln(stdout, "  Note: the host object may depend on yet more objects due to other symbols...")
	for ref := s.ImporterHead(); ref.Valid(); ref = g.XRef(ref).Next {
		g.Walk(ref.Obj, graph.WalkExports, func(dep graph.ObjID, depth int) {
			fmt.Fprintf(stdout, "    %s%s\n", strings.Repeat("  ", depth), g.DisplayName(dep))
		})
	}
}
