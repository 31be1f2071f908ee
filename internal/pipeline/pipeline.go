// Package pipeline orchestrates the RAG workflows: ingest (document →
// chunks → embeddings → stored records) and query (question → embedding →
// search → prompt → answer).
package pipeline

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/charmbracelet/log"

	"github.com/castela/ragpipe/internal/chunk"
	"github.com/castela/ragpipe/internal/embeddings"
	"github.com/castela/ragpipe/internal/llm"
	"github.com/castela/ragpipe/internal/vectorstore"
)

// ErrEmptyQuestion is returned when a query or retrieval has no question.
var ErrEmptyQuestion = errors.New("question cannot be empty")

// NoContextAnswer is returned by Query when retrieval finds nothing; the
// generator is never invoked in that case.
const NoContextAnswer = "I couldn't find any relevant information to answer your question."

// DefaultTopK is the number of chunks retrieved when the caller passes <= 0.
const DefaultTopK = 5

// DocumentLoader is the external document-loading capability.
type DocumentLoader interface {
	Load(path string) (string, error)
}

// IngestFailure records one skipped path from a batch ingest.
type IngestFailure struct {
	Path string
	Err  error
}

// Pipeline composes the loader, splitter, embedder, vector store, and
// generator. All operations are synchronous; the pipeline owns its store
// connection for its lifetime and is not safe for concurrent use.
type Pipeline struct {
	loader    DocumentLoader
	splitter  *chunk.Splitter
	embedder  embeddings.Service
	store     vectorstore.Store
	generator llm.Service
	genOpts   llm.Options
}

// New creates a Pipeline from its injected collaborators.
func New(loader DocumentLoader, splitter *chunk.Splitter, embedder embeddings.Service, store vectorstore.Store, generator llm.Service) *Pipeline {
	return &Pipeline{
		loader:    loader,
		splitter:  splitter,
		embedder:  embedder,
		store:     store,
		generator: generator,
		genOpts:   llm.DefaultOptions(),
	}
}

// IngestDocument loads, chunks, embeds, and stores one document, returning
// the number of chunks ingested. Any failing step aborts the document.
func (p *Pipeline) IngestDocument(ctx context.Context, path string) (int, error) {
	log.Debug("Loading document", "path", path)
	text, err := p.loader.Load(path)
	if err != nil {
		return 0, fmt.Errorf("load %s: %w", path, err)
	}

	chunks := p.splitter.Chunks(text, path)
	if len(chunks) == 0 {
		log.Warn("Document produced no chunks", "path", path)
		return 0, nil
	}
	log.Debug("Chunked document", "path", path, "chunks", len(chunks))

	texts := make([]string, len(chunks))
	for i, c := range chunks {
		texts[i] = c.Text
	}

	vectors, err := p.embedder.EmbedBatch(ctx, texts)
	if err != nil {
		return 0, fmt.Errorf("embed %s: %w", path, err)
	}
	if len(vectors) != len(texts) {
		return 0, fmt.Errorf("embed %s: got %d vectors for %d chunks", path, len(vectors), len(texts))
	}

	metadata := make([]vectorstore.Metadata, len(chunks))
	for i, c := range chunks {
		metadata[i] = vectorstore.Metadata{Source: c.Source, ChunkIndex: c.Index}
	}

	if _, err := p.store.AddDocuments(ctx, texts, vectors, metadata); err != nil {
		return 0, fmt.Errorf("store %s: %w", path, err)
	}

	log.Info("Ingested document", "path", path, "chunks", len(chunks))
	return len(chunks), nil
}

// IngestMultiple ingests each path in order. A failure on one path is
// logged, recorded, and skipped; processing continues with the rest. It
// returns the total chunks from the successful paths and the failures.
func (p *Pipeline) IngestMultiple(ctx context.Context, paths []string) (int, []IngestFailure) {
	total := 0
	var failures []IngestFailure

	for _, path := range paths {
		count, err := p.IngestDocument(ctx, path)
		if err != nil {
			log.Warn("Skipping document", "path", path, "error", err)
			failures = append(failures, IngestFailure{Path: path, Err: err})
			continue
		}
		total += count
	}

	return total, failures
}

// Retrieve embeds the question and returns the nearest chunks. Every call
// re-embeds and re-searches; nothing is cached.
func (p *Pipeline) Retrieve(ctx context.Context, question string, topK int) ([]vectorstore.SearchResult, error) {
	if strings.TrimSpace(question) == "" {
		return nil, ErrEmptyQuestion
	}
	if topK <= 0 {
		topK = DefaultTopK
	}

	vector, err := p.embedder.EmbedQuery(ctx, question)
	if err != nil {
		return nil, fmt.Errorf("embed question: %w", err)
	}

	results, err := p.store.Search(ctx, vector, topK)
	if err != nil {
		return nil, fmt.Errorf("search: %w", err)
	}

	log.Debug("Retrieved chunks", "count", len(results))
	return results, nil
}

// GenerateAnswer builds a grounded prompt from the retrieved chunks and
// returns the generator's answer verbatim.
func (p *Pipeline) GenerateAnswer(ctx context.Context, question string, results []vectorstore.SearchResult) (string, error) {
	prompt := buildPrompt(question, results)

	answer, err := p.generator.Generate(ctx, prompt, p.genOpts)
	if err != nil {
		return "", fmt.Errorf("generate answer: %w", err)
	}
	return answer, nil
}

// Query composes Retrieve and GenerateAnswer. When retrieval comes back
// empty the fixed fallback is returned and the generator is never called.
func (p *Pipeline) Query(ctx context.Context, question string, topK int) (string, error) {
	results, err := p.Retrieve(ctx, question, topK)
	if err != nil {
		return "", err
	}

	if len(results) == 0 {
		log.Debug("No relevant chunks found, skipping generation")
		return NoContextAnswer, nil
	}

	return p.GenerateAnswer(ctx, question, results)
}

// Close releases the vector store connection.
func (p *Pipeline) Close() error {
	return p.store.Close()
}
