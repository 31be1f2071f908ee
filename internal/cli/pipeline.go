package cli

import (
	"context"
	"fmt"

	"github.com/charmbracelet/log"

	"github.com/castela/ragpipe/internal/chunk"
	"github.com/castela/ragpipe/internal/config"
	"github.com/castela/ragpipe/internal/docs"
	"github.com/castela/ragpipe/internal/embeddings"
	"github.com/castela/ragpipe/internal/llm"
	"github.com/castela/ragpipe/internal/pipeline"
	"github.com/castela/ragpipe/internal/vectorstore"
)

// newPipeline wires the full pipeline from the resolved configuration.
// The caller owns the returned pipeline and must Close it.
func newPipeline(ctx context.Context, cfg *config.Config) (*pipeline.Pipeline, error) {
	splitter, err := chunk.NewSplitter(cfg.Chunking.Size, cfg.Chunking.Overlap)
	if err != nil {
		return nil, fmt.Errorf("invalid chunking config: %w", err)
	}

	emb, err := embeddings.NewService(cfg)
	if err != nil {
		return nil, fmt.Errorf("failed to create embedding service: %w", err)
	}

	log.Debug("Connecting to vector store",
		"addr", cfg.VectorStore.Addr,
		"collection", cfg.VectorStore.Collection,
		"dimensions", emb.Dimensions(),
	)

	store, err := vectorstore.Connect(ctx, vectorstore.Config{
		Addr:       cfg.VectorStore.Addr,
		Collection: cfg.VectorStore.Collection,
		MaxRetries: cfg.VectorStore.MaxRetries,
	}, emb.Dimensions())
	if err != nil {
		return nil, fmt.Errorf("failed to connect to vector store: %w", err)
	}

	gen, err := llm.NewService(cfg)
	if err != nil {
		store.Close()
		return nil, fmt.Errorf("failed to create LLM service: %w", err)
	}

	return pipeline.New(docs.NewLoader(), splitter, emb, store, gen), nil
}
