package store

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/gofrs/flock"
	_ "modernc.org/sqlite"

	"github.com/booger-dev/booger/internal/chunk"
	"github.com/booger-dev/booger/internal/errkit"
)

// Store is a project's chunk store: one sqlite database holding files,
// chunks, embeddings, annotations, and workset entries. A Store is safe
// for concurrent use; writers are serialized through mu since the
// underlying connection pool is capped at one connection.
type Store struct {
	db   *sql.DB
	path string
	mu   sync.Mutex
}

// Open creates dir and the database file within it if necessary, then
// migrates the schema. A process-wide advisory lock guards the
// migration step against concurrent openers.
func Open(ctx context.Context, dir string) (*Store, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, errkit.New(errkit.ErrCodeFilePermission, "store: create project dir", err)
	}

	lockPath := filepath.Join(dir, ".booger.lock")
	fl := flock.New(lockPath)
	locked, err := fl.TryLockContext(ctx, 50*time.Millisecond)
	if err != nil {
		return nil, errkit.New(errkit.ErrCodeStoreLocked, "store: acquire migration lock", err)
	}
	if !locked {
		return nil, errkit.New(errkit.ErrCodeStoreLocked, "store: another process is migrating this project's store", nil)
	}
	defer func() { _ = fl.Unlock() }()

	dbPath := filepath.Join(dir, dbFileName)
	db, err := sql.Open("sqlite", dbPath+pragmaDSN)
	if err != nil {
		return nil, errkit.New(errkit.ErrCodeFileNotFound, "store: open database", err)
	}
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)

	if _, err := db.ExecContext(ctx, schemaDDL); err != nil {
		_ = db.Close()
		return nil, errkit.New(errkit.ErrCodeCorruptIndex, "store: migrate schema", err)
	}
	if err := recordSchemaVersion(ctx, db); err != nil {
		_ = db.Close()
		return nil, err
	}

	return &Store{db: db, path: dbPath}, nil
}

// OpenIfExists opens the store at dir only if its database file already
// exists, never creating one. It returns (nil, nil) when absent.
func OpenIfExists(ctx context.Context, dir string) (*Store, error) {
	dbPath := filepath.Join(dir, dbFileName)
	if _, err := os.Stat(dbPath); err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, errkit.New(errkit.ErrCodeFilePermission, "store: stat database", err)
	}
	return Open(ctx, dir)
}

func recordSchemaVersion(ctx context.Context, db *sql.DB) error {
	_, err := db.ExecContext(ctx,
		`INSERT INTO schema_meta(key, value) VALUES ('schema_version', ?)
		 ON CONFLICT(key) DO UPDATE SET value = excluded.value`,
		fmt.Sprintf("%d", CurrentSchemaVersion))
	if err != nil {
		return errkit.New(errkit.ErrCodeIndexFailed, "store: record schema version", err)
	}
	return nil
}

// Close releases the underlying database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

// Path returns the sqlite file path backing this store.
func (s *Store) Path() string {
	return s.path
}

// UpsertFile inserts or updates a file's tracked fingerprint and
// metadata, returning its id.
func (s *Store) UpsertFile(ctx context.Context, path, fingerprint string, size int64, language string) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := time.Now().UTC().Format(time.RFC3339Nano)
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO files(path, fingerprint, size, language, indexed_at)
		VALUES (?, ?, ?, ?, ?)
		ON CONFLICT(path) DO UPDATE SET
			fingerprint = excluded.fingerprint,
			size = excluded.size,
			language = excluded.language,
			indexed_at = excluded.indexed_at`,
		path, fingerprint, size, language, now)
	if err != nil {
		return 0, errkit.New(errkit.ErrCodeIndexFailed, "store: upsert file", err)
	}

	var id int64
	if err := s.db.QueryRowContext(ctx, `SELECT id FROM files WHERE path = ?`, path).Scan(&id); err != nil {
		return 0, errkit.New(errkit.ErrCodeIndexFailed, "store: fetch file id", err)
	}
	return id, nil
}

// GetFile looks up a tracked file by path. Returns nil, nil if untracked.
func (s *Store) GetFile(ctx context.Context, path string) (*File, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT id, path, fingerprint, size, language, indexed_at FROM files WHERE path = ?`, path)
	f, err := scanFile(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, errkit.New(errkit.ErrCodeIndexFailed, "store: get file", err)
	}
	return f, nil
}

// AllFiles returns every tracked file, ordered by path.
func (s *Store) AllFiles(ctx context.Context) ([]*File, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, path, fingerprint, size, language, indexed_at FROM files ORDER BY path`)
	if err != nil {
		return nil, errkit.New(errkit.ErrCodeIndexFailed, "store: list files", err)
	}
	defer func() { _ = rows.Close() }()

	var out []*File
	for rows.Next() {
		f, err := scanFile(rows)
		if err != nil {
			return nil, errkit.New(errkit.ErrCodeIndexFailed, "store: scan file", err)
		}
		out = append(out, f)
	}
	return out, rows.Err()
}

// DeleteChunksForFile removes every chunk (and, by cascade, embedding)
// belonging to fileID, leaving the file row itself intact.
func (s *Store) DeleteChunksForFile(ctx context.Context, fileID int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, err := s.db.ExecContext(ctx, `DELETE FROM chunks WHERE file_id = ?`, fileID); err != nil {
		return errkit.New(errkit.ErrCodeIndexFailed, "store: delete chunks for file", err)
	}
	return nil
}

// RemoveFile deletes a file and, through cascade, all of its chunks and
// their embeddings.
func (s *Store) RemoveFile(ctx context.Context, path string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	res, err := s.db.ExecContext(ctx, `DELETE FROM files WHERE path = ?`, path)
	if err != nil {
		return errkit.New(errkit.ErrCodeIndexFailed, "store: remove file", err)
	}
	n, _ := res.RowsAffected()
	if n == 0 {
		return errkit.New(errkit.ErrCodeFileNotTracked, fmt.Sprintf("store: file not tracked: %s", path), nil)
	}
	return nil
}

// InsertChunks bulk-inserts chunks for fileID inside one transaction.
// Callers typically pair this with a prior DeleteChunksForFile so a
// file's chunk set is replaced atomically from the caller's view, even
// though the two calls are separate statements.
func (s *Store) InsertChunks(ctx context.Context, fileID int64, language string, chunks []*chunk.Chunk) error {
	if len(chunks) == 0 {
		return nil
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return errkit.New(errkit.ErrCodeIndexFailed, "store: begin insert chunks", err)
	}
	defer func() { _ = tx.Rollback() }()

	stmt, err := tx.PrepareContext(ctx, `
		INSERT INTO chunks(file_id, kind, name, occurrence, signature, content,
			start_line, end_line, start_byte, end_byte, language)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return errkit.New(errkit.ErrCodeIndexFailed, "store: prepare insert chunks", err)
	}
	defer func() { _ = stmt.Close() }()

	for _, c := range chunks {
		_, err := stmt.ExecContext(ctx, fileID, string(c.Kind), c.Name, c.Occurrence, c.Signature, c.Content,
			c.StartLine, c.EndLine, c.StartByte, c.EndByte, language)
		if err != nil {
			return errkit.New(errkit.ErrCodeIndexFailed, "store: insert chunk", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return errkit.New(errkit.ErrCodeIndexFailed, "store: commit insert chunks", err)
	}
	return nil
}

// ListSymbols lists chunks whose file path has pathPrefix and whose
// kind matches (kind == "" matches any), ordered by (path, start_line).
func (s *Store) ListSymbols(ctx context.Context, pathPrefix string, kind chunk.Kind) ([]*Chunk, error) {
	query := `
		SELECT c.id, c.file_id, f.path, c.language, c.kind, c.name, c.occurrence,
			c.signature, c.content, c.start_line, c.end_line, c.start_byte, c.end_byte
		FROM chunks c JOIN files f ON f.id = c.file_id
		WHERE f.path LIKE ? ESCAPE '\'`
	args := []any{likePrefix(pathPrefix)}

	if kind != "" {
		query += ` AND c.kind = ?`
		args = append(args, string(kind))
	}
	query += ` ORDER BY f.path, c.start_line`

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, errkit.New(errkit.ErrCodeIndexFailed, "store: list symbols", err)
	}
	defer func() { _ = rows.Close() }()
	return scanChunks(rows)
}

// AllChunks returns every stored chunk, joined with its file path.
func (s *Store) AllChunks(ctx context.Context) ([]*Chunk, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT c.id, c.file_id, f.path, c.language, c.kind, c.name, c.occurrence,
			c.signature, c.content, c.start_line, c.end_line, c.start_byte, c.end_byte
		FROM chunks c JOIN files f ON f.id = c.file_id
		ORDER BY f.path, c.start_line`)
	if err != nil {
		return nil, errkit.New(errkit.ErrCodeIndexFailed, "store: all chunks", err)
	}
	defer func() { _ = rows.Close() }()
	return scanChunks(rows)
}

// ChangedSince returns chunks belonging to files indexed at or after
// since.
func (s *Store) ChangedSince(ctx context.Context, since time.Time) ([]*Chunk, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT c.id, c.file_id, f.path, c.language, c.kind, c.name, c.occurrence,
			c.signature, c.content, c.start_line, c.end_line, c.start_byte, c.end_byte
		FROM chunks c JOIN files f ON f.id = c.file_id
		WHERE f.indexed_at >= ?
		ORDER BY f.path, c.start_line`, since.UTC().Format(time.RFC3339Nano))
	if err != nil {
		return nil, errkit.New(errkit.ErrCodeIndexFailed, "store: changed since", err)
	}
	defer func() { _ = rows.Close() }()
	return scanChunks(rows)
}

func scanFile(row interface{ Scan(...any) error }) (*File, error) {
	var f File
	var indexedAt string
	if err := row.Scan(&f.ID, &f.Path, &f.Fingerprint, &f.Size, &f.Language, &indexedAt); err != nil {
		return nil, err
	}
	f.IndexedAt, _ = time.Parse(time.RFC3339Nano, indexedAt)
	return &f, nil
}

func scanChunks(rows *sql.Rows) ([]*Chunk, error) {
	var out []*Chunk
	for rows.Next() {
		var c Chunk
		var kind string
		if err := rows.Scan(&c.ID, &c.FileID, &c.FilePath, &c.Language, &kind, &c.Name, &c.Occurrence,
			&c.Signature, &c.Content, &c.StartLine, &c.EndLine, &c.StartByte, &c.EndByte); err != nil {
			return nil, errkit.New(errkit.ErrCodeIndexFailed, "store: scan chunk", err)
		}
		c.Kind = chunk.Kind(kind)
		out = append(out, &c)
	}
	return out, rows.Err()
}

// likePrefix escapes a LIKE prefix's special characters and appends the
// wildcard suffix.
func likePrefix(prefix string) string {
	return likeEscaper.Replace(prefix) + "%"
}

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)
