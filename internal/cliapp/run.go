package cliapp

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/till-s/ldep/internal/exitcode"
	"github.com/till-s/ldep/internal/graph"
	"github.com/till-s/ldep/internal/logger"
	"github.com/till-s/ldep/internal/nmscan"
	"github.com/till-s/ldep/internal/scriptgen"
)

func exitCodeFor(err error) int {
	return exitcode.Get(err)
}

type namedInput struct {
	name  string
	r     io.Reader
	close func() error
}

func openInputs(files []string, stdin io.Reader) ([]namedInput, error) {
	if len(files) == 0 {
		return []namedInput{{name: "<stdin>", r: stdin}}, nil
	}
	inputs := make([]namedInput, 0, len(files))
	for _, name := range files {
		f, err := os.Open(name)
		if err != nil {
			return nil, fmt.Errorf("opening file: %w", err)
		}
		inputs = append(inputs, namedInput{name: name, r: f, close: f.Close})
	}
	return inputs, nil
}

// Run executes the full ingest -> link -> diagnose -> unlink -> script
// pipeline against cfg, mirroring main()'s sequence of steps.
func Run(cfg Config, stdin io.Reader, stdout, stderr io.Writer) (err error) {
	var logFile *os.File

	var log *logger.Log
	if cfg.LogFile != "" {
		ws, f, openErr := logger.NewFileSink(cfg.LogFile)
		if openErr != nil {
			return fmt.Errorf("opening log file: %w", openErr)
		}
		logFile = f
		log = logger.NewLog(ws, cfg.Quiet)
	} else {
		log = logger.NewLog(logger.NewStderrSink(), cfg.Quiet)
	}
	defer func() {
		log.Sync()
		if logFile != nil {
			logFile.Close()
		}
	}()

	// Structural assertion failures panic (§7); recover them here into a
	// clean diagnostic instead of a raw stack trace.
	defer func() {
		if r := recover(); r != nil {
			gerr, ok := r.(*graph.Error)
			if !ok {
				panic(r)
			}
			err = gerr
		}
	}()

	g := graph.New()

	inputs, err := openInputs(cfg.Files, stdin)
	if err != nil {
		return err
	}

	lastMandatory := graph.InvalidObj
	for i, in := range inputs {
		ing := g.NewIngestor(graph.IngestOptions{
			Force: cfg.Force,
			OnWarning: func(msg string) {
				log.Warnf("%s", msg)
			},
		})
		scanErr := nmscan.Scan(in.r, in.name, ing)
		if in.close != nil {
			in.close()
		}
		if scanErr != nil {
			return scanErr
		}
		if i == 0 {
			lastMandatory = graph.ObjID(g.NumObjects() - 1)
		}
	}

	g.GatherDanglingUndefs()

	log.Infof("Looking for UNDEFINED symbols:")
	g.UndefinedSymbols(func(id graph.SymID) {
		log.Infof(" - %q", g.Symbol(id).Name)
	})
	log.Infof("done")

	if errs := g.CheckIntegrity(); len(errs) > 0 {
		return fmt.Errorf("internal consistency check failed: %v", errs[0])
	}

	g.Link(lastMandatory, graph.LinkOptions{
		OnLink: func(pulled, because graph.ObjID, sym graph.SymID) {
			if cfg.DebugLink {
				log.Infof("linking %s (needed by %s via %q)", g.DisplayName(pulled), g.DisplayName(because), g.Symbol(sym).Name)
			}
		},
		OnUndefined: func(importer graph.ObjID, sym graph.SymID) {
			log.Warnf("undefined symbol %q referenced by %s", g.Symbol(sym).Name, g.DisplayName(importer))
		},
	})

	if cfg.Quiet {
		log.Infof("OK, that's it for now")
		return finish(log)
	}

	if cfg.ShowSyms {
		dumpSymbols(g, log)
	}

	if cfg.ShowDeps {
		dumpDeps(g, log)
	}

	log.Infof("Removing undefined symbols")
	g.UnlinkUndefs(graph.UnlinkOptions{
		OnUnlink: func(o graph.ObjID) {
			if cfg.DebugUnlink {
				log.Infof("unlinked %s", g.DisplayName(o))
			}
		},
		OnReject: func(o graph.ObjID) {
			if cfg.DebugUnlink {
				log.Infof("cannot unlink %s: needed by the application", g.DisplayName(o))
			}
		},
	})

	if cfg.RemovalList != "" {
		names, rlErr := readRemovalList(cfg.RemovalList)
		if rlErr != nil {
			return rlErr
		}
		g.RemoveObjects(names,
			func(name string, matches []graph.ObjID) {
				if len(matches) == 0 {
					log.Warnf("object %q not found, skipping", name)
					return
				}
				log.Warnf("multiple occurrences of %q; please be more specific:", name)
				for _, m := range matches {
					log.Warnf("  %s", g.DisplayName(m))
				}
			},
			func(name string, o graph.ObjID) {
				log.Warnf("object %q couldn't be removed; needed by the application", name)
			},
		)
	}

	if cfg.MultipleDefs {
		g.CheckMultipleDefs(func(dup graph.DuplicateDefinition) {
			log.Warnf("symbol %q is defined in multiple objects:", g.Symbol(dup.Sym).Name)
			for _, o := range dup.Exporters {
				log.Warnf("  %s", g.DisplayName(o))
			}
		})
	}

	if cfg.Interactive {
		runInteractive(g, stdin, stdout)
	}

	if errs := g.CheckIntegrity(); len(errs) > 0 {
		return fmt.Errorf("internal consistency check failed after unlinking: %v", errs[0])
	}

	if cfg.ScriptFile != "" {
		log.Infof("Writing linker script to %q...", cfg.ScriptFile)
		f, createErr := os.Create(cfg.ScriptFile)
		if createErr != nil {
			return fmt.Errorf("opening script file: %w", createErr)
		}
		writeErr := scriptgen.Write(g, f, false)
		closeErr := f.Close()
		if writeErr != nil {
			return writeErr
		}
		if closeErr != nil {
			return closeErr
		}
		log.Infof("done.")
	}

	return finish(log)
}

func finish(log *logger.Log) error {
	if log.HasErrors() {
		return errors.New("ldep: completed with errors")
	}
	return nil
}

func dumpSymbols(g *graph.Graph, log *logger.Log) {
	g.WalkSymbols(func(id graph.SymID, sym *graph.Symbol) {
		log.Infof("symbol %q (%c)", sym.Name, byte(sym.Type))
	})
}

func dumpDeps(g *graph.Graph, log *logger.Log) {
	for o := graph.ObjID(1); int(o) < g.NumObjects(); o++ {
		log.Infof("Flat dependency list for objects requiring: %s", g.DisplayName(o))
		g.DumpDependencies(o, func(dep graph.ObjID, depth int) {
			log.Infof("%s%s", strings.Repeat("  ", depth), g.DisplayName(dep))
		})
	}
}

func readRemovalList(path string) ([]string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening removal list: %w", err)
	}
	defer f.Close()

	var names []string
	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}
		names = append(names, line)
	}
	return names, scanner.Err()
}
