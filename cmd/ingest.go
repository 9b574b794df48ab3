package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/longkey1/chenai/internal/chenai"
	"github.com/longkey1/chenai/internal/chenai/config"
	"github.com/longkey1/chenai/internal/docsearch"
	"github.com/longkey1/chenai/internal/llm"
)

var (
	ingestCollection string
	ingestReset      bool
)

// ingestCmd represents the ingest command
var ingestCmd = &cobra.Command{
	Use:   "ingest --collection <name> <files>...",
	Short: "Add documents to a collection",
	Long: fmt.Sprintf(`Split documents into chunks, embed them and store them in a collection.

Collections: %s, %s, %s

Ingestion only persists with vector_store = "qdrant". With the in-memory
store, list the files under [collections] in the config file instead; they
are ingested every time the assistant starts.

Examples:
  chenai ingest --collection Agent_Post docs/agents/*.md
  chenai ingest --collection Prompt_Engineering_Post --reset notes.txt`,
		chenai.CollectionAgent, chenai.CollectionPrompt, chenai.CollectionAttack),
	Args: cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()

		cfg, err := config.LoadConfig()
		if err != nil {
			return fmt.Errorf("loading config: %w", err)
		}

		collection, ok := config.CanonicalCollection(ingestCollection)
		if !ok {
			return fmt.Errorf("unknown collection: %s", ingestCollection)
		}

		embedder, err := llm.NewOllamaEmbedder(cfg)
		if err != nil {
			return fmt.Errorf("creating embedder: %w", err)
		}
		store := newVectorStore(cfg)
		if ingestReset {
			if err := store.Clear(ctx, collection); err != nil {
				return fmt.Errorf("clearing %s: %w", collection, err)
			}
		}

		res, err := docsearch.NewService(store, embedder).IngestFiles(ctx, collection, args)
		if err != nil {
			return fmt.Errorf("ingesting into %s: %w", collection, err)
		}

		fmt.Printf("Ingested %d documents (%d chunks) into %s.\n", res.Documents, res.Chunks, res.Collection)
		if cfg.VectorStore == config.VectorStoreMemory {
			fmt.Println("Note: vector_store is \"memory\"; the documents are not kept after this command exits.")
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(ingestCmd)
	ingestCmd.Flags().StringVarP(&ingestCollection, "collection", "c", "", "Target collection")
	ingestCmd.Flags().BoolVar(&ingestReset, "reset", false, "Remove the collection's existing documents first")
	_ = ingestCmd.MarkFlagRequired("collection")
}
