// Package cli implements the command-line interface for ragpipe.
package cli

import (
	"fmt"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/castela/ragpipe/internal/config"
	"github.com/castela/ragpipe/internal/ui"
)

var (
	// Version information set at build time
	version = "dev"
	commit  = "none"
	date    = "unknown"

	// Global flags
	cfgFile string
	debug   bool

	// cfg holds the configuration resolved in PersistentPreRunE.
	cfg *config.Config
)

// SetVersionInfo sets the version information from build flags.
func SetVersionInfo(v, c, d string) {
	version = v
	commit = c
	date = d
}

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "ragpipe [question]",
	Short: "Retrieval-augmented document Q&A",
	Long: `ragpipe ingests documents into a Qdrant vector store and answers
questions about them using retrieval-augmented generation.

Documents are split into overlapping chunks, embedded locally (Ollama) or
via cloud providers (OpenAI), and stored in Qdrant. Questions are answered
by an LLM grounded strictly in the retrieved chunks.

Examples:
  # Ingest a directory of documents
  ragpipe ingest ./docs

  # Ask a question
  ragpipe "what does the contract say about termination?"

  # Ask with the explicit subcommand
  ragpipe query "what does the contract say about termination?"

  # Drop the collection and start over
  ragpipe reset`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		// If no args, show help
		if len(args) == 0 {
			return cmd.Help()
		}

		// Otherwise, run the query command
		return runQueryCmd(cmd, args)
	},
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		// Set up logging based on debug flag
		if debug {
			ui.SetDebug(true)
			log.Debug("Debug logging enabled")
		}

		// Load configuration
		loaded, err := config.Load(cfgFile)
		if err != nil {
			log.Warn("Failed to load config, using defaults", "error", err)
			loaded = config.DefaultConfig()
		}
		cfg = loaded

		return nil
	},
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	// Initialize UI styles and logger
	ui.InitLogger()

	// Persistent flags (available to all commands)
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is $HOME/.config/ragpipe/config.yaml)")
	rootCmd.PersistentFlags().BoolVar(&debug, "debug", false, "enable debug logging")

	// Bind flags to viper
	_ = viper.BindPFlag("debug", rootCmd.PersistentFlags().Lookup("debug"))

	// Add subcommands
	rootCmd.AddCommand(ingestCmd)
	rootCmd.AddCommand(queryCmd)
	rootCmd.AddCommand(resetCmd)
	rootCmd.AddCommand(configCmd)
	rootCmd.AddCommand(versionCmd)
}

// versionCmd shows version information
var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print version information",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Printf("ragpipe %s\n", version)
		fmt.Printf("  commit: %s\n", commit)
		fmt.Printf("  built:  %s\n", date)
	},
}

func init() {
	// Add query flags to root command for convenience
	rootCmd.Flags().IntVarP(&queryTopK, "top-k", "k", 0, "number of chunks to retrieve (default from config)")
	rootCmd.Flags().BoolVarP(&queryShowSources, "sources", "s", false, "show the retrieved source chunks")
}
