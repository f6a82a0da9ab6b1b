package mcpserver

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/booger-dev/booger/internal/errkit"
)

// runAnnotate is the "annotate" tool: attach a volatile note to a
// target (path prefix, path:line, or symbol name).
func (s *Server) runAnnotate(ctx context.Context, args map[string]any) (string, error) {
	target := argString(args, "target")
	note := argString(args, "note")
	session := argString(args, "session")
	ttl := time.Duration(argInt(args, "ttl_seconds", 0)) * time.Second

	id, err := s.memory.Annotate(ctx, target, note, session, ttl)
	if err != nil {
		return "", mapToolError(err)
	}
	return fmt.Sprintf("annotation %d added to %s", id, target), nil
}

// runFocus is the "focus" tool: boost rank for one or more path prefixes.
func (s *Server) runFocus(ctx context.Context, args map[string]any) (string, error) {
	paths := argStringSlice(args, "paths")
	if len(paths) == 0 {
		return "", errkit.New(errkit.ErrCodeInvalidInput, "paths is required", nil)
	}
	session := argString(args, "session")
	if err := s.memory.Focus(ctx, paths, session); err != nil {
		return "", mapToolError(err)
	}
	return fmt.Sprintf("focused %s", strings.Join(paths, ", ")), nil
}

// runVisit is the "visit" tool: penalize rank for one or more path prefixes.
func (s *Server) runVisit(ctx context.Context, args map[string]any) (string, error) {
	paths := argStringSlice(args, "paths")
	if len(paths) == 0 {
		return "", errkit.New(errkit.ErrCodeInvalidInput, "paths is required", nil)
	}
	session := argString(args, "session")
	if err := s.memory.Visit(ctx, paths, session); err != nil {
		return "", mapToolError(err)
	}
	return fmt.Sprintf("visited %s", strings.Join(paths, ", ")), nil
}

// runForget is the "forget" tool: clear working memory, optionally
// scoped to one session.
func (s *Server) runForget(ctx context.Context, args map[string]any) (string, error) {
	session := argString(args, "session")
	result, err := s.memory.Forget(ctx, session)
	if err != nil {
		return "", mapToolError(err)
	}
	return fmt.Sprintf("removed %d workset entries and %d annotations", result.WorksetRemoved, result.AnnotationsRemoved), nil
}

// runAnnotations is the "annotations" tool: list notes matching a
// target and/or session.
func (s *Server) runAnnotations(ctx context.Context, args map[string]any) (string, error) {
	target := argString(args, "target")
	session := argString(args, "session")

	notes, err := s.memory.Annotations(ctx, target, session)
	if err != nil {
		return "", mapToolError(err)
	}
	if len(notes) == 0 {
		return "No annotations.", nil
	}

	var sb strings.Builder
	for _, n := range notes {
		fmt.Fprintf(&sb, "%d %s: %s\n", n.ID, n.PathPrefix, n.Note)
	}
	return sb.String(), nil
}
