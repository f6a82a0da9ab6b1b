package cmd

import (
	"context"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/booger-dev/booger/internal/config"
	"github.com/booger-dev/booger/internal/embed"
	"github.com/booger-dev/booger/internal/store"
)

func newEmbedCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "embed [path-prefix]",
		Short: "Generate embeddings for chunks that don't have one for the configured model",
		Args:  cobra.MaximumNArgs(1),
		RunE:  runEmbed,
	}
	return cmd
}

func runEmbed(cmd *cobra.Command, args []string) error {
	var prefix string
	if len(args) > 0 {
		prefix = args[0]
	}

	root, err := resolveRoot()
	if err != nil {
		return err
	}

	cfg, err := config.Load(root)
	if err != nil {
		return fmt.Errorf("loading config for %s: %w", root, err)
	}

	embedder, err := buildEmbedder(cfg)
	if err != nil {
		return fmt.Errorf("constructing embedder: %w", err)
	}
	if embedder == nil {
		return fmt.Errorf("no embedding endpoint configured for %s (set embeddings.endpoint in .booger/config.yaml)", root)
	}

	st, err := store.Open(cmd.Context(), dataDir(root))
	if err != nil {
		return fmt.Errorf("opening index for %s: %w", root, err)
	}
	defer func() { _ = st.Close() }()

	chunks, err := st.AllChunks(cmd.Context())
	if err != nil {
		return fmt.Errorf("listing chunks: %w", err)
	}

	model := embedder.ModelName()
	var pending []*store.Chunk
	for _, c := range chunks {
		if prefix != "" && !strings.HasPrefix(c.FilePath, prefix) {
			continue
		}
		vec, err := st.GetEmbedding(cmd.Context(), c.ID, model)
		if err != nil {
			return fmt.Errorf("checking embedding for chunk %d: %w", c.ID, err)
		}
		if vec == nil {
			pending = append(pending, c)
		}
	}

	out := newOutput(cmd)
	if len(pending) == 0 {
		out.Success("every chunk already has an embedding for " + model)
		return nil
	}

	batchSize := cfg.Embeddings.BatchSize
	if batchSize <= 0 {
		batchSize = 32
	}

	embedded := 0
	for start := 0; start < len(pending); start += batchSize {
		end := min(start+batchSize, len(pending))
		batch := pending[start:end]

		if err := embedBatch(cmd.Context(), st, embedder, batch); err != nil {
			return fmt.Errorf("embedding batch %d-%d: %w", start, end, err)
		}
		embedded += len(batch)
		out.Statusf("", "embedded %d/%d chunks", embedded, len(pending))
	}

	out.Successf("embedded %d chunks with %s", embedded, model)
	return nil
}

func embedBatch(ctx context.Context, st *store.Store, embedder embed.Embedder, chunks []*store.Chunk) error {
	texts := make([]string, len(chunks))
	for i, c := range chunks {
		texts[i] = chunkEmbeddingText(c)
	}

	vectors, err := embedder.EmbedBatch(ctx, texts)
	if err != nil {
		return err
	}
	if len(vectors) != len(chunks) {
		return fmt.Errorf("embedder returned %d vectors for %d chunks", len(vectors), len(chunks))
	}

	model := embedder.ModelName()
	for i, c := range chunks {
		if err := st.UpsertEmbedding(ctx, c.ID, model, vectors[i]); err != nil {
			return err
		}
	}
	return nil
}

// chunkEmbeddingText is what gets embedded for a chunk: its signature
// (or name, when a chunk has no signature) followed by its body, so
// semantic search matches on both the declaration and the
// implementation.
func chunkEmbeddingText(c *store.Chunk) string {
	header := c.Signature
	if header == "" {
		header = c.Name
	}
	if header == "" {
		return c.Content
	}
	return header + "\n" + c.Content
}
