package config

import (
	"os"
	"path/filepath"
)

// Default configuration values
const (
	// Chunking defaults
	DefaultChunkSize    = 1000 // characters per chunk
	DefaultChunkOverlap = 200  // characters shared between consecutive chunks

	// Vector store defaults
	DefaultQdrantAddr = "localhost:6334"
	DefaultCollection = "documents"
	DefaultMaxRetries = 5

	// Embedding defaults
	DefaultEmbeddingProvider = "ollama"
	DefaultOllamaURL         = "http://localhost:11434"
	DefaultOllamaEmbedModel  = "nomic-embed-text"
	DefaultOpenAIEmbedModel  = "text-embedding-3-small"

	// LLM defaults
	DefaultLLMProvider    = "ollama"
	DefaultOllamaLLMModel = "llama3"
	DefaultOpenAILLMModel = "gpt-4o-mini"

	// Query defaults
	DefaultTopK = 5
)

// DefaultIgnorePatterns returns the file patterns skipped when ingesting a
// directory.
func DefaultIgnorePatterns() []string {
	return []string{
		// Version control and editors
		".git/",
		".svn/",
		".idea/",
		".vscode/",
		"*.swp",

		// Dependencies and build outputs
		"node_modules/",
		"vendor/",
		".venv/",
		"dist/",
		"build/",
		"__pycache__/",

		// Binary and media formats we cannot extract text from
		"*.exe",
		"*.dll",
		"*.so",
		"*.zip",
		"*.tar.gz",
		"*.jpg",
		"*.jpeg",
		"*.png",
		"*.gif",
		"*.mp3",
		"*.mp4",

		// Misc
		".DS_Store",
		".env",
		".env.*",
		"*.log",
	}
}

// DefaultConfigDir returns the default configuration directory path.
func DefaultConfigDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ".config/ragpipe"
	}
	return filepath.Join(home, ".config", "ragpipe")
}
