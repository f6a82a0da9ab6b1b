package store

import (
	"context"
	"strings"

	"github.com/booger-dev/booger/internal/chunk"
	"github.com/booger-dev/booger/internal/errkit"
)

// KeywordSearch runs an FTS5 BM25 query over chunk content and name,
// requiring every query term to match (implicit AND between terms),
// applying filters and returning at most maxResults hits ordered by
// relevance (best match first, since bm25 scores are negative and
// smaller is better).
func (s *Store) KeywordSearch(ctx context.Context, query string, filters SearchFilters, maxResults int) ([]SearchResult, error) {
	return s.keywordSearch(ctx, toFTS5QueryAll(query), filters, maxResults)
}

// KeywordSearchAny runs the same query as KeywordSearch but matches a
// chunk if any term hits (terms ORed together) rather than requiring
// all of them. Used as the retry step when an all-terms search comes
// back empty.
func (s *Store) KeywordSearchAny(ctx context.Context, query string, filters SearchFilters, maxResults int) ([]SearchResult, error) {
	return s.keywordSearch(ctx, toFTS5QueryAny(query), filters, maxResults)
}

func (s *Store) keywordSearch(ctx context.Context, match string, filters SearchFilters, maxResults int) ([]SearchResult, error) {
	if match == "" {
		return nil, nil
	}
	if maxResults <= 0 {
		maxResults = 20
	}

	sqlQuery := `
		SELECT c.id, c.file_id, f.path, c.language, c.kind, c.name, c.occurrence,
			c.signature, c.content, c.start_line, c.end_line, c.start_byte, c.end_byte,
			bm25(chunks_fts) AS rank
		FROM chunks_fts
		JOIN chunks c ON c.id = chunks_fts.rowid
		JOIN files f ON f.id = c.file_id
		WHERE chunks_fts MATCH ?`
	args := []any{match}

	if filters.Language != "" {
		sqlQuery += ` AND c.language = ?`
		args = append(args, filters.Language)
	}
	if filters.Kind != "" {
		sqlQuery += ` AND c.kind = ?`
		args = append(args, string(filters.Kind))
	}
	if filters.PathPrefix != "" {
		sqlQuery += ` AND f.path LIKE ? ESCAPE '\'`
		args = append(args, likePrefix(filters.PathPrefix))
	}

	sqlQuery += ` ORDER BY rank LIMIT ?`
	args = append(args, maxResults)

	rows, err := s.db.QueryContext(ctx, sqlQuery, args...)
	if err != nil {
		return nil, errkit.New(errkit.ErrCodeSearchFailed, "store: keyword search", err)
	}
	defer func() { _ = rows.Close() }()

	var out []SearchResult
	for rows.Next() {
		var c Chunk
		var kind string
		var rank float64
		if err := rows.Scan(&c.ID, &c.FileID, &c.FilePath, &c.Language, &kind, &c.Name, &c.Occurrence,
			&c.Signature, &c.Content, &c.StartLine, &c.EndLine, &c.StartByte, &c.EndByte, &rank); err != nil {
			return nil, errkit.New(errkit.ErrCodeSearchFailed, "store: scan search result", err)
		}
		c.Kind = chunk.Kind(kind)
		out = append(out, SearchResult{Chunk: &c, Score: -rank})
	}
	return out, rows.Err()
}

// quoteFTS5Terms splits query on whitespace and wraps each term in
// double quotes (escaping any embedded quote), so identifier-like
// tokens carrying punctuation FTS5 would otherwise treat as operators
// (-, ., /, :, *, ^) are matched as literal phrase atoms.
func quoteFTS5Terms(query string) []string {
	fields := strings.Fields(query)
	terms := make([]string, 0, len(fields))
	for _, f := range fields {
		escaped := strings.ReplaceAll(f, `"`, `""`)
		terms = append(terms, `"`+escaped+`"`)
	}
	return terms
}

// toFTS5QueryAll joins quoted terms with FTS5's implicit AND (plain
// juxtaposition), requiring every term to match.
func toFTS5QueryAll(query string) string {
	terms := quoteFTS5Terms(query)
	if len(terms) == 0 {
		return ""
	}
	return strings.Join(terms, " ")
}

// toFTS5QueryAny joins quoted terms with OR, requiring only one term
// to match.
func toFTS5QueryAny(query string) string {
	terms := quoteFTS5Terms(query)
	if len(terms) == 0 {
		return ""
	}
	return strings.Join(terms, " OR ")
}
