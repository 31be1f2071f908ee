package cli

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/charmbracelet/glamour"
	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/castela/ragpipe/internal/pipeline"
	"github.com/castela/ragpipe/internal/ui"
	"github.com/castela/ragpipe/internal/vectorstore"
)

var (
	queryTopK         int
	queryShowSources  bool
	queryRetrieveOnly bool
)

// queryCmd represents the query command
var queryCmd = &cobra.Command{
	Use:   "query <question>",
	Short: "Ask a question about the ingested documents",
	Long: `Answer a question using retrieval-augmented generation.

The question is embedded, the most similar chunks are retrieved from
Qdrant, and an LLM generates an answer grounded only in those chunks.
When nothing relevant is found, a fixed fallback answer is returned
without calling the LLM.

Examples:
  # Basic question
  ragpipe query "what does the contract say about termination?"

  # Retrieve more chunks
  ragpipe query "summarize the architecture" -k 10

  # Show the retrieved chunks alongside the answer
  ragpipe query "how is auth handled" -s

  # Only retrieve, skip generation
  ragpipe query "error handling" --retrieve-only`,
	Args: cobra.ExactArgs(1),
	RunE: runQueryCmd,
}

func init() {
	queryCmd.Flags().IntVarP(&queryTopK, "top-k", "k", 0, "number of chunks to retrieve (default from config)")
	queryCmd.Flags().BoolVarP(&queryShowSources, "sources", "s", false, "show the retrieved source chunks")
	queryCmd.Flags().BoolVar(&queryRetrieveOnly, "retrieve-only", false, "print retrieved chunks without generating an answer")
}

func runQueryCmd(cmd *cobra.Command, args []string) error {
	question := args[0]

	topK := queryTopK
	if topK <= 0 {
		topK = cfg.Query.TopK
	}

	log.Debug("Starting query", "question", question, "top_k", topK)

	// Setup context with cancellation
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Handle interrupt signals
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)
	go func() {
		<-sigCh
		fmt.Println("\nInterrupted")
		cancel()
	}()

	p, err := newPipeline(ctx, cfg)
	if err != nil {
		return err
	}
	defer p.Close()

	results, err := p.Retrieve(ctx, question, topK)
	if err != nil {
		if ctx.Err() != nil {
			return nil
		}
		return fmt.Errorf("retrieval failed: %w", err)
	}

	if queryRetrieveOnly {
		displayResults(results)
		return nil
	}

	if len(results) == 0 {
		fmt.Println(pipeline.NoContextAnswer)
		return nil
	}

	answer, err := p.GenerateAnswer(ctx, question, results)
	if err != nil {
		if ctx.Err() != nil {
			return nil
		}
		return fmt.Errorf("answer generation failed: %w", err)
	}

	fmt.Println(ui.Header.Render("Answer"))
	fmt.Println()

	// Render markdown with glamour
	rendered, err := renderMarkdown(answer)
	if err != nil {
		// Fallback to raw output if rendering fails
		fmt.Println(answer)
	} else {
		fmt.Print(rendered)
	}

	if queryShowSources {
		fmt.Println(ui.Dim.Render("Sources:"))
		for i, r := range results {
			fmt.Printf("  [%d] %s %s\n",
				i+1, ui.FormatSource(r.Source, r.ChunkIndex), ui.FormatScore(r.Score))
		}
	}

	return nil
}

// displayResults prints retrieved chunks without generation.
func displayResults(results []vectorstore.SearchResult) {
	if len(results) == 0 {
		fmt.Println("No results found.")
		return
	}

	fmt.Printf("Found %d results:\n\n", len(results))
	for i, r := range results {
		fmt.Printf("%s %s %s\n",
			ui.Highlight.Render(fmt.Sprintf("[%d]", i+1)),
			ui.FormatSource(r.Source, r.ChunkIndex),
			ui.FormatScore(r.Score),
		)
		fmt.Println(ui.ResultContent.Render(r.Content))
		fmt.Println()
	}
}

// renderMarkdown renders markdown content using glamour.
func renderMarkdown(content string) (string, error) {
	renderer, err := glamour.NewTermRenderer(
		glamour.WithAutoStyle(),
		glamour.WithWordWrap(100),
	)
	if err != nil {
		return "", err
	}
	return renderer.Render(content)
}
