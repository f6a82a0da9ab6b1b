package dispatch

import (
	"context"
	"fmt"
	"os"

	"github.com/booger-dev/booger/internal/store"
)

// EmptyReason names which precondition a zero-result search-class tool
// call failed, matching the five canonical messages spec.md requires.
type EmptyReason int

const (
	// ReasonNoMatches means the index exists and holds chunks, but the
	// query itself matched nothing.
	ReasonNoMatches EmptyReason = iota
	// ReasonNoIndex means no database exists at the project's storage path.
	ReasonNoIndex
	// ReasonNoIndexedFiles means the database exists but holds no chunks.
	ReasonNoIndexedFiles
	// ReasonPathPrefixEmpty means a path-prefix filter eliminated every row.
	ReasonPathPrefixEmpty
	// ReasonNoSymbolMatches is reference-tool-specific: no occurrence of
	// the requested symbol exists anywhere in the index.
	ReasonNoSymbolMatches
)

// IndexCommand is the canonical remediation command named in every
// empty-result message that asks the caller to index first.
func IndexCommand(projectPath string) string {
	return fmt.Sprintf("booger index %s", projectPath)
}

// Message renders the canonical empty-result explanation for reason.
// symbol is only consulted for ReasonNoSymbolMatches.
func Message(reason EmptyReason, projectPath, symbol string) string {
	switch reason {
	case ReasonNoIndex:
		return fmt.Sprintf("No index found. Run: %s", IndexCommand(projectPath))
	case ReasonNoIndexedFiles:
		return fmt.Sprintf("No indexed files. Run: %s", IndexCommand(projectPath))
	case ReasonPathPrefixEmpty:
		return fmt.Sprintf("Path prefix has no indexed files. Run: %s", IndexCommand(projectPath))
	case ReasonNoSymbolMatches:
		return fmt.Sprintf("No matches for symbol '%s'.", symbol)
	default:
		return "No matches."
	}
}

// DiagnoseEmpty inspects the store to decide which precondition a zero
// -result search failed. dbPath is the on-disk database file checked
// for existence before the store was opened to serve this request;
// pathPrefix is the filter the caller applied, if any.
func DiagnoseEmpty(ctx context.Context, st *store.Store, dbPath, pathPrefix string) (EmptyReason, error) {
	if _, err := os.Stat(dbPath); os.IsNotExist(err) {
		return ReasonNoIndex, nil
	}

	files, err := st.AllFiles(ctx)
	if err != nil {
		return ReasonNoMatches, err
	}
	if len(files) == 0 {
		return ReasonNoIndexedFiles, nil
	}

	if pathPrefix != "" {
		symbols, err := st.ListSymbols(ctx, pathPrefix, "")
		if err != nil {
			return ReasonNoMatches, err
		}
		if len(symbols) == 0 {
			return ReasonPathPrefixEmpty, nil
		}
	}

	return ReasonNoMatches, nil
}
