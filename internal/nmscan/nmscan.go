// Package nmscan turns the textual record stream §4.3's ingestor
// consumes — one "nm -fposix" style dump per input file — into calls
// against a *graph.Ingestor. It owns no graph state of its own; it is
// purely the line-oriented front end the C scanner's fscanf loop used
// to be.
package nmscan

import (
	"bufio"
	"fmt"
	"io"
	"strings"

	"github.com/till-s/ldep/internal/graph"
)

// Scan reads every record from r and feeds it to ing. name identifies
// the input stream for diagnostics and for the "symbol with no
// preceding object header" fallback (§4.3).
//
// Each non-blank line is one of two records:
//
//	objectfile:                  -- an ObjectHeader; the lone token
//	                                 must end in ':' (nm -fposix's file
//	                                 separator)
//	symbolname T  [value [size]] -- a SymbolEntry; only the first two
//	                                 whitespace-separated fields matter
//
// Scan calls ing.Finish() once at end of input; callers must not call
// it again.
func Scan(r io.Reader, name string, ing *graph.Ingestor) error {
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), 16*1024*1024)

	line := 0
	for scanner.Scan() {
		line++
		fields := strings.Fields(scanner.Text())
		if len(fields) == 0 {
			continue
		}

		if len(fields) == 1 {
			tok := fields[0]
			if !strings.HasSuffix(tok, ":") {
				return fmt.Errorf("%s/line %d: filename not ':'-terminated — did you use 'nm -fposix'?", name, line)
			}
			if err := ing.Header(tok[:len(tok)-1]); err != nil {
				return fmt.Errorf("%s/line %d: %w", name, line, err)
			}
			continue
		}

		symName, typeField := fields[0], fields[1]
		if err := ing.Symbol(symName, typeField[0], name); err != nil {
			return fmt.Errorf("%s/line %d: %w", name, line, err)
		}
	}
	if err := scanner.Err(); err != nil {
		return fmt.Errorf("%s: %w", name, err)
	}

	ing.Finish()
	return nil
}
