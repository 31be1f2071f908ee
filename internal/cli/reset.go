package cli

import (
	"context"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/castela/ragpipe/internal/embeddings"
	"github.com/castela/ragpipe/internal/ui"
	"github.com/castela/ragpipe/internal/vectorstore"
)

var resetForce bool

// resetCmd represents the reset command
var resetCmd = &cobra.Command{
	Use:   "reset",
	Short: "Delete the vector store collection",
	Long: `Delete the configured Qdrant collection and all ingested chunks.

The collection is recreated automatically on the next ingest.

Examples:
  # Delete with confirmation
  ragpipe reset

  # Delete without confirmation
  ragpipe reset --force`,
	RunE: runReset,
}

func init() {
	resetCmd.Flags().BoolVarP(&resetForce, "force", "f", false, "skip confirmation prompt")
}

func runReset(cmd *cobra.Command, args []string) error {
	collection := cfg.VectorStore.Collection

	// Confirm deletion
	if !resetForce {
		fmt.Printf("Delete collection '%s'? This will remove all ingested data. [y/N]: ", collection)
		var confirm string
		fmt.Scanln(&confirm)
		if strings.ToLower(confirm) != "y" {
			fmt.Println("Cancelled.")
			return nil
		}
	}

	ctx := context.Background()

	emb, err := embeddings.NewService(cfg)
	if err != nil {
		return fmt.Errorf("failed to create embedding service: %w", err)
	}

	store, err := vectorstore.Connect(ctx, vectorstore.Config{
		Addr:       cfg.VectorStore.Addr,
		Collection: collection,
		MaxRetries: cfg.VectorStore.MaxRetries,
	}, emb.Dimensions())
	if err != nil {
		return fmt.Errorf("failed to connect to vector store: %w", err)
	}
	defer store.Close()

	if err := store.DeleteCollection(ctx); err != nil {
		return fmt.Errorf("failed to delete collection: %w", err)
	}

	fmt.Println(ui.Success.Render(fmt.Sprintf("Collection '%s' deleted.", collection)))
	return nil
}
