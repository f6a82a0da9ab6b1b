// Package store persists files, chunks, embeddings, annotations, and
// workset entries in a single SQLite database per project.
package store

import (
	"time"

	"github.com/booger-dev/booger/internal/chunk"
)

// File is a tracked source file.
type File struct {
	ID          int64
	Path        string
	Fingerprint string
	Size        int64
	Language    string
	IndexedAt   time.Time
}

// Chunk is a stored structural chunk, joined back to its owning file.
type Chunk struct {
	ID         int64
	FileID     int64
	FilePath   string
	Language   string
	Kind       chunk.Kind
	Name       string
	Occurrence int
	Signature  string
	Content    string
	StartLine  int
	EndLine    int
	StartByte  uint32
	EndByte    uint32
}

// Annotation is a user-authored note attached to a path prefix. Session
// scopes the note to one working-memory session; empty means unscoped.
// ExpiresAt is nil for notes that never expire.
type Annotation struct {
	ID         int64
	PathPrefix string
	Note       string
	Session    string
	ExpiresAt  *time.Time
	CreatedAt  time.Time
}

// WorksetKind distinguishes the two workset entry flavors.
type WorksetKind string

const (
	WorksetFocus   WorksetKind = "focus"
	WorksetVisited WorksetKind = "visited"
)

// WorksetEntry is a (path-prefix, kind, optional session) triple created
// by focus/visit and removed by forget.
type WorksetEntry struct {
	ID         int64
	PathPrefix string
	Kind       WorksetKind
	Session    string
	CreatedAt  time.Time
}

// SearchFilters narrows a keyword search.
type SearchFilters struct {
	Language   string
	PathPrefix string
	Kind       chunk.Kind // empty means any kind
}

// SearchResult is one scored keyword-search hit.
type SearchResult struct {
	Chunk *Chunk
	Score float64
}

// CurrentSchemaVersion is the schema version Open migrates to.
const CurrentSchemaVersion = 1

// dbFileName is the sqlite file created under a project's storage
// directory.
const dbFileName = "booger.db"
