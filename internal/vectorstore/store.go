// Package vectorstore manages a single named collection in a remote
// similarity-search service and mediates all reads and writes to it.
package vectorstore

import (
	"context"
	"errors"
	"fmt"
)

// ErrMismatchedInputs is returned when texts and vectors differ in length.
var ErrMismatchedInputs = errors.New("texts and vectors length mismatch")

// ConnectError reports that collection provisioning exhausted all retries.
type ConnectError struct {
	Addr     string
	Attempts int
	Err      error
}

func (e *ConnectError) Error() string {
	return fmt.Sprintf("could not provision vector store at %s after %d attempts: %v", e.Addr, e.Attempts, e.Err)
}

func (e *ConnectError) Unwrap() error { return e.Err }

// Metadata carries the per-record payload stored alongside each vector.
type Metadata struct {
	Source     string `json:"source"`
	ChunkIndex int    `json:"chunk_index"`
}

// SearchResult is one nearest-neighbor hit.
type SearchResult struct {
	Content    string  `json:"content"`
	Source     string  `json:"source"`
	ChunkIndex int     `json:"chunk_index"`
	Score      float64 `json:"score"`    // similarity, 1 = identical
	Distance   float64 `json:"distance"` // 1 - score
}

// Store is the narrow interface the pipeline depends on.
type Store interface {
	// AddDocuments inserts one record per (text, vector) pair, in input
	// order, and returns the assigned identifiers in the same order.
	AddDocuments(ctx context.Context, texts []string, vectors [][]float32, metadata []Metadata) ([]string, error)

	// Search returns up to topK results ordered by descending similarity.
	// An empty or undersized collection yields fewer (possibly zero)
	// results, never an error.
	Search(ctx context.Context, vector []float32, topK int) ([]SearchResult, error)

	// DeleteCollection destroys the named collection; no-op if missing.
	DeleteCollection(ctx context.Context) error

	// Close releases the connection. Safe to call once.
	Close() error
}
