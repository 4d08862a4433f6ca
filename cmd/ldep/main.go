// Command ldep analyzes the dependency graph among a set of object
// files' exported/imported symbols, as reported by 'nm -g -fposix', and
// reports which objects a minimal link would actually need.
package main

import (
	"os"

	"github.com/till-s/ldep/internal/cliapp"
)

func main() {
	os.Exit(cliapp.Main(os.Args[1:]))
}
