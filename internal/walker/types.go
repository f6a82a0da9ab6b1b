// Package walker discovers indexable files under a project root, applying
// layered ignore rules, a size cap, and binary-content sniffing.
package walker

// Entry is one discovered regular file.
type Entry struct {
	AbsPath  string
	RelPath  string
	Language string // registry language name, empty if undetected
}

// Options configures a Walk.
type Options struct {
	// Root is the directory to walk. Required.
	Root string

	// MaxFileSize caps how large a file may be before it's skipped.
	// 0 means DefaultMaxFileSize.
	MaxFileSize int64

	// ExtraExcludes are additional gitignore-style patterns applied on
	// top of the built-in exclusion list, e.g. from project config.
	ExtraExcludes []string
}

// DefaultMaxFileSize is applied when Options.MaxFileSize is unset.
const DefaultMaxFileSize = 10 * 1024 * 1024

// binaryProbeWindow is how many leading bytes are inspected for a NUL
// byte when deciding whether a file is binary.
const binaryProbeWindow = 8192

// Result is the outcome of a Walk: every discoverable, non-ignored,
// non-binary, within-size-cap regular file plus counters for entries
// that could not be read.
type Result struct {
	Entries      []Entry
	SkippedCount int // unreadable directory entries and files
}

// builtinExcludeDirs mirrors the teacher's default exclusion list,
// expressed as gitignore-style patterns for go-gitignore.
var builtinExcludeDirs = []string{
	"node_modules/",
	".git/",
	"vendor/",
	"__pycache__/",
	"dist/",
	"build/",
	".aws/",
	".gcp/",
	".azure/",
	".ssh/",
}

var builtinExcludeFiles = []string{
	"*.min.js",
	"*.min.css",
	"package-lock.json",
	"yarn.lock",
	"pnpm-lock.yaml",
	"go.sum",
}

// sensitiveFilePatterns are never indexed regardless of gitignore state.
var sensitiveFilePatterns = []string{
	".env",
	".env.*",
	"*.pem",
	"*.key",
	"*.p12",
	"*.pfx",
	"*credentials*",
	"*secrets*",
	"*password*",
	".netrc",
	".npmrc",
	".pypirc",
	"id_rsa",
	"id_dsa",
	"id_ecdsa",
	"id_ed25519",
}
