package store

import (
	"context"
	"time"

	"github.com/booger-dev/booger/internal/errkit"
)

// AddWorksetEntry records a focus or visited entry for pathPrefix,
// optionally scoped to session.
func (s *Store) AddWorksetEntry(ctx context.Context, pathPrefix string, kind WorksetKind, session string) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := time.Now().UTC().Format(time.RFC3339Nano)
	res, err := s.db.ExecContext(ctx,
		`INSERT INTO workset(path_prefix, kind, session, created_at) VALUES (?, ?, ?, ?)`,
		pathPrefix, string(kind), session, now)
	if err != nil {
		return 0, errkit.New(errkit.ErrCodeIndexFailed, "store: add workset entry", err)
	}
	return res.LastInsertId()
}

// ListWorkset returns entries of kind, newest first. session == "" lists
// entries across every session.
func (s *Store) ListWorkset(ctx context.Context, kind WorksetKind, session string) ([]*WorksetEntry, error) {
	query := `SELECT id, path_prefix, kind, session, created_at FROM workset WHERE kind = ?`
	args := []any{string(kind)}
	if session != "" {
		query += ` AND session = ?`
		args = append(args, session)
	}
	query += ` ORDER BY created_at DESC`

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, errkit.New(errkit.ErrCodeIndexFailed, "store: list workset", err)
	}
	defer func() { _ = rows.Close() }()

	var out []*WorksetEntry
	for rows.Next() {
		var e WorksetEntry
		var kindStr, createdAt string
		if err := rows.Scan(&e.ID, &e.PathPrefix, &kindStr, &e.Session, &createdAt); err != nil {
			return nil, errkit.New(errkit.ErrCodeIndexFailed, "store: scan workset entry", err)
		}
		e.Kind = WorksetKind(kindStr)
		e.CreatedAt, _ = time.Parse(time.RFC3339Nano, createdAt)
		out = append(out, &e)
	}
	return out, rows.Err()
}

// ForgetPrefix removes every workset entry and annotation whose path
// prefix exactly matches pathPrefix (scoped forget).
func (s *Store) ForgetPrefix(ctx context.Context, pathPrefix string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return errkit.New(errkit.ErrCodeIndexFailed, "store: begin forget", err)
	}
	defer func() { _ = tx.Rollback() }()

	if _, err := tx.ExecContext(ctx, `DELETE FROM workset WHERE path_prefix = ?`, pathPrefix); err != nil {
		return errkit.New(errkit.ErrCodeIndexFailed, "store: forget workset", err)
	}
	if _, err := tx.ExecContext(ctx, `DELETE FROM annotations WHERE path_prefix = ?`, pathPrefix); err != nil {
		return errkit.New(errkit.ErrCodeIndexFailed, "store: forget annotations", err)
	}

	if err := tx.Commit(); err != nil {
		return errkit.New(errkit.ErrCodeIndexFailed, "store: commit forget", err)
	}
	return nil
}

// ForgetAll clears every workset entry and annotation, leaving the
// indexed file and chunk tables untouched. Returns the number of
// workset rows and annotation rows removed.
func (s *Store) ForgetAll(ctx context.Context) (int64, int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, 0, errkit.New(errkit.ErrCodeIndexFailed, "store: begin forget all", err)
	}
	defer func() { _ = tx.Rollback() }()

	wres, err := tx.ExecContext(ctx, `DELETE FROM workset`)
	if err != nil {
		return 0, 0, errkit.New(errkit.ErrCodeIndexFailed, "store: forget all workset", err)
	}
	ares, err := tx.ExecContext(ctx, `DELETE FROM annotations`)
	if err != nil {
		return 0, 0, errkit.New(errkit.ErrCodeIndexFailed, "store: forget all annotations", err)
	}

	if err := tx.Commit(); err != nil {
		return 0, 0, errkit.New(errkit.ErrCodeIndexFailed, "store: commit forget all", err)
	}
	worksetRemoved, _ := wres.RowsAffected()
	annotationsRemoved, _ := ares.RowsAffected()
	return worksetRemoved, annotationsRemoved, nil
}

// ForgetSession clears every workset entry and annotation scoped to
// session, leaving unscoped rows and other sessions' rows untouched.
// Returns the number of workset rows and annotation rows removed.
func (s *Store) ForgetSession(ctx context.Context, session string) (int64, int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, 0, errkit.New(errkit.ErrCodeIndexFailed, "store: begin forget session", err)
	}
	defer func() { _ = tx.Rollback() }()

	wres, err := tx.ExecContext(ctx, `DELETE FROM workset WHERE session = ?`, session)
	if err != nil {
		return 0, 0, errkit.New(errkit.ErrCodeIndexFailed, "store: forget session workset", err)
	}
	ares, err := tx.ExecContext(ctx, `DELETE FROM annotations WHERE session = ?`, session)
	if err != nil {
		return 0, 0, errkit.New(errkit.ErrCodeIndexFailed, "store: forget session annotations", err)
	}

	if err := tx.Commit(); err != nil {
		return 0, 0, errkit.New(errkit.ErrCodeIndexFailed, "store: commit forget session", err)
	}
	worksetRemoved, _ := wres.RowsAffected()
	annotationsRemoved, _ := ares.RowsAffected()
	return worksetRemoved, annotationsRemoved, nil
}
