package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/castela/ragpipe/internal/config"
	"github.com/castela/ragpipe/internal/ui"
)

var configShowPath bool

// configCmd represents the config command
var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Show current configuration",
	Long: `Display current configuration settings and config file location.

Examples:
  # Show current configuration
  ragpipe config

  # Show config file path
  ragpipe config --path`,
	RunE: runConfig,
}

func init() {
	configCmd.Flags().BoolVar(&configShowPath, "path", false, "show config file path")
}

func runConfig(cmd *cobra.Command, args []string) error {
	if configShowPath {
		fmt.Println(ui.SectionTitle.Render("Configuration Path"))
		fmt.Println()
		active := config.ConfigFilePath()
		if active == "" {
			active = "(none, defaults in use)"
		}
		fmt.Printf("Active config: %s\n", active)
		fmt.Printf("Search path:   %s, .\n", config.DefaultConfigDir())
		return nil
	}

	fmt.Println(ui.SectionTitle.Render("Current Configuration"))
	fmt.Println()

	fmt.Println(ui.Bold.Render("Chunking:"))
	fmt.Printf("  Size:    %d\n", cfg.Chunking.Size)
	fmt.Printf("  Overlap: %d\n", cfg.Chunking.Overlap)
	fmt.Println()

	fmt.Println(ui.Bold.Render("Vector Store:"))
	fmt.Printf("  Addr:        %s\n", cfg.VectorStore.Addr)
	fmt.Printf("  Collection:  %s\n", cfg.VectorStore.Collection)
	fmt.Printf("  Max Retries: %d\n", cfg.VectorStore.MaxRetries)
	fmt.Println()

	fmt.Println(ui.Bold.Render("Embeddings:"))
	fmt.Printf("  Provider: %s\n", cfg.Embeddings.Provider)
	fmt.Printf("  Ollama URL: %s\n", cfg.Embeddings.Ollama.URL)
	fmt.Printf("  Ollama Model: %s\n", cfg.Embeddings.Ollama.Model)
	fmt.Printf("  OpenAI Model: %s\n", cfg.Embeddings.OpenAI.Model)
	if cfg.Embeddings.OpenAI.BaseURL != "" {
		fmt.Printf("  OpenAI Base URL: %s\n", cfg.Embeddings.OpenAI.BaseURL)
	}
	fmt.Println()

	fmt.Println(ui.Bold.Render("LLM:"))
	fmt.Printf("  Provider: %s\n", cfg.LLM.Provider)
	fmt.Printf("  Ollama URL: %s\n", cfg.LLM.Ollama.URL)
	fmt.Printf("  Ollama Model: %s\n", cfg.LLM.Ollama.Model)
	fmt.Printf("  OpenAI Model: %s\n", cfg.LLM.OpenAI.Model)
	if cfg.LLM.OpenAI.BaseURL != "" {
		fmt.Printf("  OpenAI Base URL: %s\n", cfg.LLM.OpenAI.BaseURL)
	}
	fmt.Println()

	fmt.Println(ui.Bold.Render("Query:"))
	fmt.Printf("  Top K: %d\n", cfg.Query.TopK)
	fmt.Println()

	fmt.Println(ui.Bold.Render("Ignore Patterns:"))
	fmt.Printf("  %d patterns configured\n", len(cfg.Ignore))

	return nil
}
