// Package cliapp wires ldep's cobra.Command: flag parsing (via pflag)
// and the end-to-end ingest/link/diagnose/unlink/script pipeline that
// backs it, split out of cmd/ldep/main.go so it can be exercised by
// ordinary Go tests instead of only by running the binary.
package cliapp

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
)

// Config holds every flag ldep accepts (§6), translated one-for-one
// from the original getopt switch.
type Config struct {
	Quiet        bool // -q
	Force        bool // -f
	DebugLink    bool // -l
	DebugUnlink  bool // -u
	ShowDeps     bool // -d
	ShowSyms     bool // -s
	MultipleDefs bool // -m
	Interactive  bool // -i
	RemovalList  string // -r
	LogFile      string // -o
	ScriptFile   string // -e

	Files []string // positional nm dump files; empty means stdin
}

// NewCommand builds the root cobra.Command. stdin/stdout/stderr are
// injected so tests can drive the CLI without touching the process's
// real streams.
func NewCommand(stdin io.Reader, stdout, stderr io.Writer) *cobra.Command {
	var cfg Config

	cmd := &cobra.Command{
		Use:   "ldep [nm_files...]",
		Short: "Object file dependency analysis",
		Long: "ldep analyzes the dependency graph of symbols exported and imported\n" +
			"by a set of object files, the way 'nm -g -fposix' dumps describe them.\n\n" +
			"If no nm_files are given, stdin is used. The first nm_file is special:\n" +
			"it lists the application's mandatory object set. Objects contributed by\n" +
			"the remaining nm_files are optional unless a mandatory object depends on\n" +
			"them, in which case they become mandatory too.",
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg.Files = args
			return Run(cfg, stdin, stdout, stderr)
		},
	}

	var flags *pflag.FlagSet = cmd.Flags()
	// Old scripts invoking this as a drop-in for the original getopt-based
	// binary may still spell a flag with underscores; accept either.
	flags.SetNormalizeFunc(func(fs *pflag.FlagSet, name string) pflag.NormalizedName {
		return pflag.NormalizedName(strings.ReplaceAll(name, "_", "-"))
	})
	flags.BoolVarP(&cfg.Quiet, "quiet", "q", false, "quiet; just build the database and run basic checks")
	flags.BoolVarP(&cfg.Force, "force", "f", false, "be less paranoid: fold symbol types to upper case and treat '?' as 'U'")
	flags.BoolVarP(&cfg.DebugLink, "debug-link", "l", false, "log info about the linking process")
	flags.BoolVarP(&cfg.DebugUnlink, "debug-unlink", "u", false, "log info about the unlinking process")
	flags.BoolVarP(&cfg.ShowDeps, "show-deps", "d", false, "show all module dependencies (huge amounts of data)")
	flags.BoolVarP(&cfg.ShowSyms, "show-syms", "s", false, "show all symbol info (huge amounts of data)")
	flags.BoolVarP(&cfg.MultipleDefs, "multiple-defs", "m", false, "check for symbols defined in multiple objects")
	flags.BoolVarP(&cfg.Interactive, "interactive", "i", false, "enter interactive query mode")
	flags.StringVarP(&cfg.RemovalList, "remove", "r", "", "remove the objects named, one per line, in this file")
	flags.StringVarP(&cfg.LogFile, "log-file", "o", "", "log messages to this file instead of stderr")
	flags.StringVarP(&cfg.ScriptFile, "script", "e", "", "on success, write a linker script with EXTERN statements here")

	return cmd
}

// Main is the thinnest possible process entry point: run the command
// against the real OS streams and return the exit code to use.
func Main(args []string) int {
	cmd := NewCommand(os.Stdin, os.Stdout, os.Stderr)
	cmd.SetArgs(args)
	cmd.SetOut(os.Stdout)
	cmd.SetErr(os.Stderr)

	if err := cmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		return exitCodeFor(err)
	}
	return 0
}
