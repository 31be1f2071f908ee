// Package config handles configuration loading and validation for ragpipe.
package config

import (
	"fmt"
	"os"
	"strings"

	"github.com/charmbracelet/log"
	"github.com/spf13/viper"
)

// Config represents the complete ragpipe configuration. It is loaded once at
// process start and passed by constructor injection; nothing in the core
// reads it through a global.
type Config struct {
	Chunking    ChunkingConfig    `mapstructure:"chunking"`
	VectorStore VectorStoreConfig `mapstructure:"vector_store"`
	Embeddings  EmbeddingsConfig  `mapstructure:"embeddings"`
	LLM         LLMConfig         `mapstructure:"llm"`
	Query       QueryConfig       `mapstructure:"query"`
	Ignore      []string          `mapstructure:"ignore"`
}

// QueryConfig configures retrieval at question time.
type QueryConfig struct {
	TopK int `mapstructure:"top_k"`
}

// ChunkingConfig configures the document splitter.
type ChunkingConfig struct {
	Size    int `mapstructure:"size"`
	Overlap int `mapstructure:"overlap"`
}

// VectorStoreConfig configures the Qdrant connection.
type VectorStoreConfig struct {
	Addr       string `mapstructure:"addr"`
	Collection string `mapstructure:"collection"`
	MaxRetries int    `mapstructure:"max_retries"`
}

// EmbeddingsConfig configures the embedding service.
type EmbeddingsConfig struct {
	Provider string            `mapstructure:"provider"`
	Ollama   OllamaEmbedConfig `mapstructure:"ollama"`
	OpenAI   OpenAIEmbedConfig `mapstructure:"openai"`
}

// OllamaEmbedConfig configures Ollama embeddings.
type OllamaEmbedConfig struct {
	URL   string `mapstructure:"url"`
	Model string `mapstructure:"model"`
}

// OpenAIEmbedConfig configures OpenAI embeddings.
type OpenAIEmbedConfig struct {
	Model      string `mapstructure:"model"`
	BaseURL    string `mapstructure:"base_url"`
	APIKey     string `mapstructure:"api_key"`
	Dimensions int    `mapstructure:"dimensions"`
}

// LLMConfig configures the generation service.
type LLMConfig struct {
	Provider string          `mapstructure:"provider"`
	Ollama   OllamaLLMConfig `mapstructure:"ollama"`
	OpenAI   OpenAILLMConfig `mapstructure:"openai"`
}

// OllamaLLMConfig configures Ollama generation.
type OllamaLLMConfig struct {
	URL   string `mapstructure:"url"`
	Model string `mapstructure:"model"`
}

// OpenAILLMConfig configures OpenAI-compatible generation (OpenAI,
// OpenRouter, or any endpoint speaking the same API via base_url).
type OpenAILLMConfig struct {
	Model   string `mapstructure:"model"`
	BaseURL string `mapstructure:"base_url"`
	APIKey  string `mapstructure:"api_key"`
}

// DefaultConfig returns a configuration with default values.
func DefaultConfig() *Config {
	return &Config{
		Chunking: ChunkingConfig{
			Size:    DefaultChunkSize,
			Overlap: DefaultChunkOverlap,
		},
		VectorStore: VectorStoreConfig{
			Addr:       DefaultQdrantAddr,
			Collection: DefaultCollection,
			MaxRetries: DefaultMaxRetries,
		},
		Embeddings: EmbeddingsConfig{
			Provider: DefaultEmbeddingProvider,
			Ollama: OllamaEmbedConfig{
				URL:   DefaultOllamaURL,
				Model: DefaultOllamaEmbedModel,
			},
			OpenAI: OpenAIEmbedConfig{
				Model: DefaultOpenAIEmbedModel,
			},
		},
		LLM: LLMConfig{
			Provider: DefaultLLMProvider,
			Ollama: OllamaLLMConfig{
				URL:   DefaultOllamaURL,
				Model: DefaultOllamaLLMModel,
			},
			OpenAI: OpenAILLMConfig{
				Model: DefaultOpenAILLMModel,
			},
		},
		Query: QueryConfig{
			TopK: DefaultTopK,
		},
		Ignore: DefaultIgnorePatterns(),
	}
}

// Load reads configuration from file and environment variables and returns
// the resolved Config.
func Load(configFile string) (*Config, error) {
	setDefaults()

	if configFile != "" {
		viper.SetConfigFile(configFile)
	} else {
		viper.SetConfigName("config")
		viper.SetConfigType("yaml")
		viper.AddConfigPath(DefaultConfigDir())
		viper.AddConfigPath(".")
	}

	viper.SetEnvPrefix("RAGPIPE")
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	viper.AutomaticEnv()

	if err := viper.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("error reading config file: %w", err)
		}
		log.Debug("No config file found, using defaults")
	} else {
		log.Debug("Loaded config", "file", viper.ConfigFileUsed())
	}

	cfg := &Config{}
	if err := viper.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("error parsing config: %w", err)
	}

	loadAPIKeysFromEnv(cfg)

	return cfg, nil
}

// setDefaults sets default values in viper.
func setDefaults() {
	viper.SetDefault("chunking.size", DefaultChunkSize)
	viper.SetDefault("chunking.overlap", DefaultChunkOverlap)

	viper.SetDefault("vector_store.addr", DefaultQdrantAddr)
	viper.SetDefault("vector_store.collection", DefaultCollection)
	viper.SetDefault("vector_store.max_retries", DefaultMaxRetries)

	viper.SetDefault("embeddings.provider", DefaultEmbeddingProvider)
	viper.SetDefault("embeddings.ollama.url", DefaultOllamaURL)
	viper.SetDefault("embeddings.ollama.model", DefaultOllamaEmbedModel)
	viper.SetDefault("embeddings.openai.model", DefaultOpenAIEmbedModel)

	viper.SetDefault("llm.provider", DefaultLLMProvider)
	viper.SetDefault("llm.ollama.url", DefaultOllamaURL)
	viper.SetDefault("llm.ollama.model", DefaultOllamaLLMModel)
	viper.SetDefault("llm.openai.model", DefaultOpenAILLMModel)

	viper.SetDefault("query.top_k", DefaultTopK)

	viper.SetDefault("ignore", DefaultIgnorePatterns())
}

// loadAPIKeysFromEnv fills API keys from the environment when the config
// file leaves them empty.
func loadAPIKeysFromEnv(cfg *Config) {
	if cfg.Embeddings.OpenAI.APIKey == "" {
		cfg.Embeddings.OpenAI.APIKey = os.Getenv("OPENAI_API_KEY")
	}
	if cfg.LLM.OpenAI.APIKey == "" {
		if key := os.Getenv("OPENROUTER_API_KEY"); key != "" {
			cfg.LLM.OpenAI.APIKey = key
		} else {
			cfg.LLM.OpenAI.APIKey = os.Getenv("OPENAI_API_KEY")
		}
	}
}

// ConfigFilePath returns the path of the loaded config file, or empty string.
func ConfigFilePath() string {
	return viper.ConfigFileUsed()
}
