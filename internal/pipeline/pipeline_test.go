package pipeline

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/castela/ragpipe/internal/chunk"
	"github.com/castela/ragpipe/internal/embeddings"
	"github.com/castela/ragpipe/internal/llm"
	"github.com/castela/ragpipe/internal/vectorstore"
)

// fakeLoader serves canned document text by path.
type fakeLoader struct {
	texts map[string]string
}

func (f *fakeLoader) Load(path string) (string, error) {
	text, ok := f.texts[path]
	if !ok {
		return "", errors.New("unsupported document format")
	}
	return text, nil
}

// fakeEmbedder returns a one-hot style vector per text and counts calls.
type fakeEmbedder struct {
	batchCalls int
	queryCalls int
	failBatch  error
	failQuery  error
}

func (f *fakeEmbedder) Embed(ctx context.Context, text string) ([]float32, error) {
	return []float32{float32(len(text))}, nil
}

func (f *fakeEmbedder) EmbedQuery(ctx context.Context, text string) ([]float32, error) {
	f.queryCalls++
	if f.failQuery != nil {
		return nil, f.failQuery
	}
	return []float32{float32(len(text)), 1}, nil
}

func (f *fakeEmbedder) EmbedBatch(ctx context.Context, texts []string) ([][]float32, error) {
	f.batchCalls++
	if f.failBatch != nil {
		return nil, f.failBatch
	}
	vectors := make([][]float32, len(texts))
	for i, t := range texts {
		vectors[i] = []float32{float32(i), float32(len(t))}
	}
	return vectors, nil
}

func (f *fakeEmbedder) Dimensions() int               { return 2 }
func (f *fakeEmbedder) Provider() embeddings.Provider { return "fake" }
func (f *fakeEmbedder) ModelName() string             { return "fake-model" }

// fakeStore records inserts and serves canned search results.
type fakeStore struct {
	addedTexts []string
	addedMeta  []vectorstore.Metadata
	addErr     error
	results    []vectorstore.SearchResult
	searchErr  error
	closed     bool
}

func (f *fakeStore) AddDocuments(ctx context.Context, texts []string, vectors [][]float32, metadata []vectorstore.Metadata) ([]string, error) {
	if f.addErr != nil {
		return nil, f.addErr
	}
	f.addedTexts = append(f.addedTexts, texts...)
	f.addedMeta = append(f.addedMeta, metadata...)
	ids := make([]string, len(texts))
	return ids, nil
}

func (f *fakeStore) Search(ctx context.Context, vector []float32, topK int) ([]vectorstore.SearchResult, error) {
	if f.searchErr != nil {
		return nil, f.searchErr
	}
	if topK < len(f.results) {
		return f.results[:topK], nil
	}
	return f.results, nil
}

func (f *fakeStore) DeleteCollection(ctx context.Context) error { return nil }

func (f *fakeStore) Close() error {
	f.closed = true
	return nil
}

// fakeGenerator counts calls and captures the prompt.
type fakeGenerator struct {
	calls  int
	prompt string
	answer string
	err    error
}

func (f *fakeGenerator) Generate(ctx context.Context, prompt string, opts llm.Options) (string, error) {
	f.calls++
	f.prompt = prompt
	if f.err != nil {
		return "", f.err
	}
	return f.answer, nil
}

func (f *fakeGenerator) Provider() llm.Provider { return "fake" }
func (f *fakeGenerator) ModelName() string      { return "fake-model" }

func newTestPipeline(t *testing.T, loader *fakeLoader, store *fakeStore, gen *fakeGenerator) (*Pipeline, *fakeEmbedder) {
	t.Helper()
	splitter, err := chunk.NewSplitter(10, 2)
	require.NoError(t, err)
	embedder := &fakeEmbedder{}
	return New(loader, splitter, embedder, store, gen), embedder
}

// TestIngestDocument tests the single-document ingest flow.
func TestIngestDocument(t *testing.T) {
	ctx := context.Background()

	t.Run("chunks are embedded and stored with metadata", func(t *testing.T) {
		loader := &fakeLoader{texts: map[string]string{
			"doc.txt": "abcdefghijklmnopqrstuvwxyz", // 26 chars, size 10, step 8
		}}
		store := &fakeStore{}
		p, emb := newTestPipeline(t, loader, store, &fakeGenerator{})

		count, err := p.IngestDocument(ctx, "doc.txt")
		require.NoError(t, err)
		assert.Equal(t, 3, count)
		assert.Equal(t, 1, emb.batchCalls)

		require.Len(t, store.addedTexts, 3)
		assert.Equal(t, "abcdefghij", store.addedTexts[0])
		require.Len(t, store.addedMeta, 3)
		for i, m := range store.addedMeta {
			assert.Equal(t, "doc.txt", m.Source)
			assert.Equal(t, i, m.ChunkIndex)
		}
	})

	t.Run("empty document stores nothing", func(t *testing.T) {
		loader := &fakeLoader{texts: map[string]string{"empty.txt": ""}}
		store := &fakeStore{}
		p, emb := newTestPipeline(t, loader, store, &fakeGenerator{})

		count, err := p.IngestDocument(ctx, "empty.txt")
		require.NoError(t, err)
		assert.Zero(t, count)
		assert.Zero(t, emb.batchCalls)
		assert.Empty(t, store.addedTexts)
	})

	t.Run("load failure aborts", func(t *testing.T) {
		p, _ := newTestPipeline(t, &fakeLoader{}, &fakeStore{}, &fakeGenerator{})
		_, err := p.IngestDocument(ctx, "missing.txt")
		require.Error(t, err)
	})

	t.Run("embed failure aborts before storage", func(t *testing.T) {
		loader := &fakeLoader{texts: map[string]string{"doc.txt": "some document text"}}
		store := &fakeStore{}
		p, emb := newTestPipeline(t, loader, store, &fakeGenerator{})
		emb.failBatch = errors.New("quota exceeded")

		_, err := p.IngestDocument(ctx, "doc.txt")
		require.Error(t, err)
		assert.Contains(t, err.Error(), "quota exceeded")
		assert.Empty(t, store.addedTexts)
	})

	t.Run("store failure surfaces", func(t *testing.T) {
		loader := &fakeLoader{texts: map[string]string{"doc.txt": "some document text"}}
		store := &fakeStore{addErr: errors.New("upsert failed")}
		p, _ := newTestPipeline(t, loader, store, &fakeGenerator{})

		_, err := p.IngestDocument(ctx, "doc.txt")
		require.Error(t, err)
		assert.Contains(t, err.Error(), "upsert failed")
	})
}

// TestIngestMultiple tests batch-level partial failure tolerance.
func TestIngestMultiple(t *testing.T) {
	loader := &fakeLoader{texts: map[string]string{
		"good1.txt": "abcdefghijklmnopqr", // 2 chunks
		"good2.txt": "short",              // 1 chunk
	}}
	store := &fakeStore{}
	p, _ := newTestPipeline(t, loader, store, &fakeGenerator{})

	total, failures := p.IngestMultiple(context.Background(),
		[]string{"good1.txt", "bad.xyz", "good2.txt"})

	assert.Equal(t, 3, total)
	require.Len(t, failures, 1)
	assert.Equal(t, "bad.xyz", failures[0].Path)
	assert.Error(t, failures[0].Err)

	// The failure did not stop the later document.
	assert.Contains(t, store.addedTexts, "short")
}

// TestRetrieve tests question embedding and search.
func TestRetrieve(t *testing.T) {
	ctx := context.Background()

	t.Run("empty question is rejected", func(t *testing.T) {
		p, emb := newTestPipeline(t, &fakeLoader{}, &fakeStore{}, &fakeGenerator{})
		_, err := p.Retrieve(ctx, "   ", 5)
		require.ErrorIs(t, err, ErrEmptyQuestion)
		assert.Zero(t, emb.queryCalls)
	})

	t.Run("results pass through in store order", func(t *testing.T) {
		store := &fakeStore{results: []vectorstore.SearchResult{
			{Content: "best", Source: "a.txt", Score: 0.9},
			{Content: "second", Source: "b.txt", Score: 0.5},
		}}
		p, emb := newTestPipeline(t, &fakeLoader{}, store, &fakeGenerator{})

		results, err := p.Retrieve(ctx, "what is this?", 5)
		require.NoError(t, err)
		require.Len(t, results, 2)
		assert.Equal(t, "best", results[0].Content)
		assert.Equal(t, 1, emb.queryCalls)
	})

	t.Run("embed failure propagates", func(t *testing.T) {
		p, emb := newTestPipeline(t, &fakeLoader{}, &fakeStore{}, &fakeGenerator{})
		emb.failQuery = errors.New("network down")
		_, err := p.Retrieve(ctx, "question", 5)
		require.Error(t, err)
	})
}

// TestGenerateAnswer tests prompt assembly.
func TestGenerateAnswer(t *testing.T) {
	gen := &fakeGenerator{answer: "Grounded answer."}
	p, _ := newTestPipeline(t, &fakeLoader{}, &fakeStore{}, gen)

	results := []vectorstore.SearchResult{
		{Content: "chunk one", Source: "a.txt"},
		{Content: "chunk two", Source: "b.txt"},
	}

	answer, err := p.GenerateAnswer(context.Background(), "what is in the chunks?", results)
	require.NoError(t, err)
	assert.Equal(t, "Grounded answer.", answer)

	assert.Contains(t, gen.prompt, "[Source: a.txt]\nchunk one")
	assert.Contains(t, gen.prompt, "[Source: b.txt]\nchunk two")
	assert.Contains(t, gen.prompt, "what is in the chunks?")
	assert.Contains(t, gen.prompt, "ONLY on the context")
	// Chunks are joined by the fixed separator.
	assert.Equal(t, 1, strings.Count(gen.prompt, "\n\n---\n\n"))
}

// TestQuery tests the composed query workflow.
func TestQuery(t *testing.T) {
	ctx := context.Background()

	t.Run("empty retrieval returns fallback without generating", func(t *testing.T) {
		gen := &fakeGenerator{answer: "should never appear"}
		p, _ := newTestPipeline(t, &fakeLoader{}, &fakeStore{}, gen)

		answer, err := p.Query(ctx, "anything relevant?", 5)
		require.NoError(t, err)
		assert.Equal(t, NoContextAnswer, answer)
		assert.Zero(t, gen.calls)
	})

	t.Run("results flow into generation", func(t *testing.T) {
		store := &fakeStore{results: []vectorstore.SearchResult{
			{Content: "relevant text", Source: "doc.pdf", Score: 0.8},
		}}
		gen := &fakeGenerator{answer: "It says relevant text."}
		p, _ := newTestPipeline(t, &fakeLoader{}, store, gen)

		answer, err := p.Query(ctx, "what does the doc say?", 0)
		require.NoError(t, err)
		assert.Equal(t, "It says relevant text.", answer)
		assert.Equal(t, 1, gen.calls)
		assert.Contains(t, gen.prompt, "doc.pdf")
	})

	t.Run("generation failure propagates", func(t *testing.T) {
		store := &fakeStore{results: []vectorstore.SearchResult{{Content: "x", Source: "a"}}}
		gen := &fakeGenerator{err: errors.New("model overloaded")}
		p, _ := newTestPipeline(t, &fakeLoader{}, store, gen)

		_, err := p.Query(ctx, "question", 5)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "model overloaded")
	})
}

// TestClose tests that Close releases the store.
func TestClose(t *testing.T) {
	store := &fakeStore{}
	p, _ := newTestPipeline(t, &fakeLoader{}, store, &fakeGenerator{})
	require.NoError(t, p.Close())
	assert.True(t, store.closed)
}
