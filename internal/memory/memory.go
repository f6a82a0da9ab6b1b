// Package memory implements the working-memory layer: annotations and
// a focus/visited workset that bias search ranking without touching
// the indexed files and chunks.
package memory

import (
	"context"
	"time"

	"github.com/booger-dev/booger/internal/errkit"
	"github.com/booger-dev/booger/internal/store"
)

// Memory wraps a Store's annotation and workset tables with the
// operations spec'd for working memory: annotate, focus, visit, and
// forget.
type Memory struct {
	store *store.Store
}

// New wraps s.
func New(s *store.Store) *Memory {
	return &Memory{store: s}
}

// Annotate records a note against target (a path, "path:line", or
// symbol name), optionally scoped to session and expiring after ttl.
func (m *Memory) Annotate(ctx context.Context, target, note, session string, ttl time.Duration) (int64, error) {
	if target == "" {
		return 0, errkit.New(errkit.ErrCodeInvalidInput, "memory: annotate requires a non-empty target", nil)
	}
	if note == "" {
		return 0, errkit.New(errkit.ErrCodeInvalidInput, "memory: annotate requires a non-empty note", nil)
	}
	return m.store.AddAnnotation(ctx, target, note, session, ttl)
}

// Annotations lists non-expired annotations visible to session whose
// target is a prefix of (or equal to) target. An empty target lists
// every annotation visible to session.
func (m *Memory) Annotations(ctx context.Context, target, session string) ([]*store.Annotation, error) {
	return m.store.ListAnnotations(ctx, target, session)
}

// Focus adds each of paths as a focus entry for session.
func (m *Memory) Focus(ctx context.Context, paths []string, session string) error {
	return m.addWorkset(ctx, paths, store.WorksetFocus, session)
}

// Visit adds each of paths as a visited entry for session.
func (m *Memory) Visit(ctx context.Context, paths []string, session string) error {
	return m.addWorkset(ctx, paths, store.WorksetVisited, session)
}

func (m *Memory) addWorkset(ctx context.Context, paths []string, kind store.WorksetKind, session string) error {
	if len(paths) == 0 {
		return errkit.New(errkit.ErrCodeInvalidInput, "memory: at least one path is required", nil)
	}
	for _, p := range paths {
		if _, err := m.store.AddWorksetEntry(ctx, p, kind, session); err != nil {
			return err
		}
	}
	return nil
}

// ForgetResult tallies what Forget removed.
type ForgetResult struct {
	WorksetRemoved     int64
	AnnotationsRemoved int64
}

// Forget clears volatile state: with an empty session it clears every
// focus/visited entry and annotation; with a session it clears only
// that session's rows.
func (m *Memory) Forget(ctx context.Context, session string) (ForgetResult, error) {
	var workset, annotations int64
	var err error
	if session == "" {
		workset, annotations, err = m.store.ForgetAll(ctx)
	} else {
		workset, annotations, err = m.store.ForgetSession(ctx, session)
	}
	if err != nil {
		return ForgetResult{}, err
	}
	return ForgetResult{WorksetRemoved: workset, AnnotationsRemoved: annotations}, nil
}

// LoadWorkingSet reads the current focus entries, visited entries, and
// annotations visible to session into a WorkingSet for reranking.
func (m *Memory) LoadWorkingSet(ctx context.Context, session string) (*WorkingSet, error) {
	focus, err := m.store.ListWorkset(ctx, store.WorksetFocus, session)
	if err != nil {
		return nil, err
	}
	visited, err := m.store.ListWorkset(ctx, store.WorksetVisited, session)
	if err != nil {
		return nil, err
	}
	annotations, err := m.store.ListAnnotations(ctx, "", session)
	if err != nil {
		return nil, err
	}
	return &WorkingSet{Focus: focus, Visited: visited, Annotations: annotations}, nil
}
