package store

import (
	"context"
	"database/sql"
	"time"

	"github.com/booger-dev/booger/internal/errkit"
)

// AddAnnotation records a note attached to pathPrefix, optionally scoped
// to session and/or expiring after ttl. A zero ttl means the note never
// expires.
func (s *Store) AddAnnotation(ctx context.Context, pathPrefix, note, session string, ttl time.Duration) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := time.Now().UTC()
	var expiresAt sql.NullString
	if ttl > 0 {
		expiresAt = sql.NullString{String: now.Add(ttl).Format(time.RFC3339Nano), Valid: true}
	}

	res, err := s.db.ExecContext(ctx,
		`INSERT INTO annotations(path_prefix, note, session, expires_at, created_at) VALUES (?, ?, ?, ?, ?)`,
		pathPrefix, note, session, expiresAt, now.Format(time.RFC3339Nano))
	if err != nil {
		return 0, errkit.New(errkit.ErrCodeIndexFailed, "store: add annotation", err)
	}
	return res.LastInsertId()
}

// ListAnnotations returns non-expired annotations visible to session
// whose path prefix is a prefix of, or equal to, pathPrefix, newest
// first — a query against "src/foo.go" surfaces notes left on
// "src/foo.go", "src/", and "" alike. An empty pathPrefix matches every
// annotation regardless of its own prefix. An empty session includes
// both unscoped annotations and every session's annotations, matching
// the working-memory layer's "unscoped" read semantics.
func (s *Store) ListAnnotations(ctx context.Context, pathPrefix, session string) ([]*Annotation, error) {
	now := time.Now().UTC().Format(time.RFC3339Nano)
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, path_prefix, note, session, expires_at, created_at FROM annotations
		WHERE (? = '' OR ? LIKE (path_prefix || '%') ESCAPE '\')
		  AND (? = '' OR session = '' OR session = ?)
		  AND (expires_at IS NULL OR expires_at > ?)
		ORDER BY created_at DESC`, pathPrefix, pathPrefix, session, session, now)
	if err != nil {
		return nil, errkit.New(errkit.ErrCodeIndexFailed, "store: list annotations", err)
	}
	defer func() { _ = rows.Close() }()

	var out []*Annotation
	for rows.Next() {
		var a Annotation
		var createdAt string
		var expiresAt sql.NullString
		if err := rows.Scan(&a.ID, &a.PathPrefix, &a.Note, &a.Session, &expiresAt, &createdAt); err != nil {
			return nil, errkit.New(errkit.ErrCodeIndexFailed, "store: scan annotation", err)
		}
		a.CreatedAt, _ = time.Parse(time.RFC3339Nano, createdAt)
		if expiresAt.Valid {
			t, _ := time.Parse(time.RFC3339Nano, expiresAt.String)
			a.ExpiresAt = &t
		}
		out = append(out, &a)
	}
	return out, rows.Err()
}

// DeleteAnnotation removes one annotation by id.
func (s *Store) DeleteAnnotation(ctx context.Context, id int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, err := s.db.ExecContext(ctx, `DELETE FROM annotations WHERE id = ?`, id); err != nil {
		return errkit.New(errkit.ErrCodeIndexFailed, "store: delete annotation", err)
	}
	return nil
}
