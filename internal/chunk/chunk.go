// Package chunk splits document text into overlapping fixed-size windows.
package chunk

import (
	"errors"
	"fmt"
)

// ErrInvalidConfig is returned when the chunk size/overlap combination would
// prevent the sliding window from advancing.
var ErrInvalidConfig = errors.New("invalid chunk configuration")

// Chunk is one window of a document's text.
type Chunk struct {
	Text   string `json:"text"`
	Index  int    `json:"index"`  // 0-based position within the document
	Source string `json:"source"` // originating document path
}

// Splitter produces overlapping chunks from raw text.
type Splitter struct {
	size    int
	overlap int
}

// NewSplitter validates the window parameters and returns a Splitter.
// The overlap must be strictly smaller than the size, otherwise the window
// never advances.
func NewSplitter(size, overlap int) (*Splitter, error) {
	if size <= 0 {
		return nil, fmt.Errorf("%w: chunk size must be positive, got %d", ErrInvalidConfig, size)
	}
	if overlap < 0 {
		return nil, fmt.Errorf("%w: chunk overlap must not be negative, got %d", ErrInvalidConfig, overlap)
	}
	if overlap >= size {
		return nil, fmt.Errorf("%w: overlap %d must be smaller than size %d", ErrInvalidConfig, overlap, size)
	}
	return &Splitter{size: size, overlap: overlap}, nil
}

// Size returns the configured chunk size.
func (s *Splitter) Size() int { return s.size }

// Overlap returns the configured chunk overlap.
func (s *Splitter) Overlap() int { return s.overlap }

// Split slices text into windows of the configured size, each window starting
// size-overlap characters after the previous one. The last window is clamped
// to the end of the text. Splitting operates on runes so multi-byte text is
// never cut mid-character.
func (s *Splitter) Split(text string) []string {
	if text == "" {
		return nil
	}

	runes := []rune(text)
	if len(runes) <= s.size {
		return []string{text}
	}

	var chunks []string
	step := s.size - s.overlap

	for start := 0; start < len(runes); start += step {
		end := start + s.size
		if end > len(runes) {
			end = len(runes)
		}
		chunks = append(chunks, string(runes[start:end]))
		// The clamped window already covers the remainder; a further step
		// would only re-emit overlapped tail characters.
		if end == len(runes) {
			break
		}
	}

	return chunks
}

// Chunks splits text and tags each window with its index and source.
func (s *Splitter) Chunks(text, source string) []Chunk {
	parts := s.Split(text)
	chunks := make([]Chunk, len(parts))
	for i, p := range parts {
		chunks[i] = Chunk{Text: p, Index: i, Source: source}
	}
	return chunks
}
