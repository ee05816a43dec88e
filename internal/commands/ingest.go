package commands

import (
	"fmt"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/diogo/ragchat/internal/rag"
)

// NewIngestCmd creates the command that builds the vector store
func NewIngestCmd(deps *Dependencies) *cobra.Command {
	var docs, store string
	var size, overlap int

	cmd := &cobra.Command{
		Use:   "ingest",
		Short: "Build the vector store from a documents file",
		Long: `Build the vector store from a JSON array of documents, each with
"id", "title" and "content". Documents are split into overlapping word
chunks and every chunk is embedded with the configured provider.

Restart a running service to pick up a rebuilt store.`,
		Args:        cobra.NoArgs,
		Annotations: map[string]string{logAnnotation: logToService},
		RunE: func(cmd *cobra.Command, args []string) error {
			sc := cfg.Server
			if cmd.Flags().Changed("docs") {
				sc.Docs = docs
			}
			if cmd.Flags().Changed("store") {
				sc.VectorStore = store
			}
			if cmd.Flags().Changed("chunk-size") {
				sc.ChunkSize = size
			}
			if cmd.Flags().Changed("chunk-overlap") {
				sc.ChunkOverlap = overlap
			}

			ctx := cmd.Context()
			documents, err := rag.LoadDocs(sc.Docs)
			if err != nil {
				return err
			}

			embedder, err := rag.NewEmbedder(ctx, sc)
			if err != nil {
				return fmt.Errorf("failed to configure embeddings: %w", err)
			}

			rows, err := rag.Ingest(ctx, documents, embedder, sc.ChunkSize, sc.ChunkOverlap)
			if err != nil {
				return err
			}
			if err := rag.SaveRows(sc.VectorStore, rows); err != nil {
				return err
			}

			logger.Info("vector store written",
				zap.String("path", sc.VectorStore),
				zap.Int("documents", len(documents)),
				zap.Int("chunks", len(rows)))
			fmt.Fprintf(cmd.OutOrStdout(), "Indexed %d chunks from %d documents into %s\n",
				len(rows), len(documents), sc.VectorStore)
			return nil
		},
	}

	cmd.Flags().StringVar(&docs, "docs", "", "Documents JSON file")
	cmd.Flags().StringVar(&store, "store", "", "Vector store file to write")
	cmd.Flags().IntVar(&size, "chunk-size", rag.DefaultChunkSize, "Words per chunk")
	cmd.Flags().IntVar(&overlap, "chunk-overlap", rag.DefaultChunkOverlap, "Words shared by consecutive chunks")

	return cmd
}
