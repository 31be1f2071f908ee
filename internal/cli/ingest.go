package cli

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/castela/ragpipe/internal/docs"
	"github.com/castela/ragpipe/internal/ui"
)

var ingestIgnore []string

// ingestCmd represents the ingest command
var ingestCmd = &cobra.Command{
	Use:   "ingest <path>...",
	Short: "Ingest documents into the vector store",
	Long: `Ingest documents from the given files or directories.

This command will:
1. Discover supported documents (.txt, .md, .pdf, .docx)
2. Split each document into overlapping chunks
3. Generate embeddings for each chunk
4. Store embeddings in Qdrant

A document that fails to load or embed is skipped with a warning;
the rest of the batch continues.

Examples:
  # Ingest a directory
  ragpipe ingest ./docs

  # Ingest specific files
  ragpipe ingest report.pdf notes.md

  # Skip additional patterns
  ragpipe ingest ./docs --ignore "drafts/*"`,
	Args: cobra.MinimumNArgs(1),
	RunE: runIngest,
}

func init() {
	ingestCmd.Flags().StringSliceVarP(&ingestIgnore, "ignore", "i", nil, "additional patterns to ignore")
}

func runIngest(cmd *cobra.Command, args []string) error {
	// Discover documents across all given paths
	var paths []string
	for _, root := range args {
		found, err := docs.Walk(root, append(cfg.Ignore, ingestIgnore...))
		if err != nil {
			return fmt.Errorf("failed to discover documents in %s: %w", root, err)
		}
		paths = append(paths, found...)
	}

	if len(paths) == 0 {
		fmt.Println("No supported documents found.")
		return nil
	}

	log.Debug("Starting ingest", "documents", len(paths))

	// Setup context with cancellation
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Handle interrupt signals
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)
	go func() {
		<-sigCh
		fmt.Println("\nInterrupted, cleaning up...")
		cancel()
	}()

	p, err := newPipeline(ctx, cfg)
	if err != nil {
		return err
	}
	defer p.Close()

	fmt.Println(ui.Header.Render("Ingesting into " + cfg.VectorStore.Collection))
	fmt.Printf("Documents: %d\n", len(paths))
	fmt.Printf("Provider:  %s\n", cfg.Embeddings.Provider)
	fmt.Println()

	startTime := time.Now()

	total, failures := p.IngestMultiple(ctx, paths)

	if ctx.Err() != nil {
		fmt.Println(ui.Warning.Render("Ingest cancelled"))
		return nil
	}

	duration := time.Since(startTime).Round(time.Millisecond)

	fmt.Println(ui.Success.Render("Ingest complete!"))
	fmt.Println()
	fmt.Printf("  Documents: %d\n", len(paths)-len(failures))
	fmt.Printf("  Chunks:    %d\n", total)
	fmt.Printf("  Duration:  %s\n", duration)

	if len(failures) > 0 {
		fmt.Println()
		fmt.Println(ui.Warning.Render(fmt.Sprintf("Skipped %d document(s):", len(failures))))
		for _, f := range failures {
			fmt.Printf("  %s: %v\n", f.Path, f.Err)
		}
	}

	return nil
}
