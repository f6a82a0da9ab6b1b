package store

import (
	"bytes"
	"context"
	"database/sql"
	"encoding/binary"
	"math"

	"github.com/booger-dev/booger/internal/errkit"
)

// UpsertEmbedding stores or replaces the vector for (chunkID, model).
func (s *Store) UpsertEmbedding(ctx context.Context, chunkID int64, model string, vector []float32) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	blob := encodeVector(vector)
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO embeddings(chunk_id, model, vector) VALUES (?, ?, ?)
		ON CONFLICT(chunk_id, model) DO UPDATE SET vector = excluded.vector`,
		chunkID, model, blob)
	if err != nil {
		return errkit.New(errkit.ErrCodeIndexFailed, "store: upsert embedding", err)
	}
	return nil
}

// GetEmbedding returns the vector for (chunkID, model), or nil, nil if
// absent.
func (s *Store) GetEmbedding(ctx context.Context, chunkID int64, model string) ([]float32, error) {
	var blob []byte
	err := s.db.QueryRowContext(ctx,
		`SELECT vector FROM embeddings WHERE chunk_id = ? AND model = ?`, chunkID, model).Scan(&blob)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, errkit.New(errkit.ErrCodeIndexFailed, "store: get embedding", err)
	}
	return decodeVector(blob), nil
}

// AllEmbeddings returns every stored vector for model, keyed by chunk id.
func (s *Store) AllEmbeddings(ctx context.Context, model string) (map[int64][]float32, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT chunk_id, vector FROM embeddings WHERE model = ?`, model)
	if err != nil {
		return nil, errkit.New(errkit.ErrCodeIndexFailed, "store: all embeddings", err)
	}
	defer func() { _ = rows.Close() }()

	out := make(map[int64][]float32)
	for rows.Next() {
		var id int64
		var blob []byte
		if err := rows.Scan(&id, &blob); err != nil {
			return nil, errkit.New(errkit.ErrCodeIndexFailed, "store: scan embedding", err)
		}
		out[id] = decodeVector(blob)
	}
	return out, rows.Err()
}

// DeleteEmbeddingsForModel removes every stored vector for model, e.g.
// when the embedding model configuration changes.
func (s *Store) DeleteEmbeddingsForModel(ctx context.Context, model string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, err := s.db.ExecContext(ctx, `DELETE FROM embeddings WHERE model = ?`, model); err != nil {
		return errkit.New(errkit.ErrCodeIndexFailed, "store: delete embeddings for model", err)
	}
	return nil
}

// encodeVector serializes a float32 slice as a fixed-width little-endian
// blob so it round-trips exactly through sqlite's BLOB column.
func encodeVector(v []float32) []byte {
	buf := new(bytes.Buffer)
	buf.Grow(len(v) * 4)
	for _, f := range v {
		_ = binary.Write(buf, binary.LittleEndian, math.Float32bits(f))
	}
	return buf.Bytes()
}

func decodeVector(blob []byte) []float32 {
	n := len(blob) / 4
	out := make([]float32, n)
	for i := 0; i < n; i++ {
		bits := binary.LittleEndian.Uint32(blob[i*4 : i*4+4])
		out[i] = math.Float32frombits(bits)
	}
	return out
}
