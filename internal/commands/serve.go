package commands

import (
	"fmt"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/diogo/ragchat/internal/config"
	"github.com/diogo/ragchat/internal/rag"
	"github.com/diogo/ragchat/internal/server"
)

// NewServeCmd creates the command that runs the question-answering service
func NewServeCmd(deps *Dependencies) *cobra.Command {
	var addr, store string
	var topK int

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the question-answering HTTP service",
		Long: `Run the question-answering HTTP service.

The service answers GET /api/session and POST /api/chat from the vector
store written by 'ragchat ingest'. With no API keys configured it uses
deterministic hash embeddings and a fixed generated answer.`,
		Args:        cobra.NoArgs,
		Annotations: map[string]string{logAnnotation: logToService},
		RunE: func(cmd *cobra.Command, args []string) error {
			sc := cfg.Server
			if cmd.Flags().Changed("addr") {
				sc.Addr = addr
			}
			if cmd.Flags().Changed("store") {
				sc.VectorStore = store
			}
			if cmd.Flags().Changed("top-k") {
				sc.TopK = topK
			}
			return runServe(cmd, deps, sc)
		},
	}

	cmd.Flags().StringVar(&addr, "addr", "", "Listen address or port (default :8000, or $PORT)")
	cmd.Flags().StringVar(&store, "store", "", "Vector store file")
	cmd.Flags().IntVar(&topK, "top-k", rag.DefaultTopK, "Passages retrieved per question")

	return cmd
}

func runServe(cmd *cobra.Command, deps *Dependencies, sc config.ServerConfig) error {
	listen, err := config.ListenAddr(sc.Addr)
	if err != nil {
		return err
	}

	ctx := cmd.Context()
	embedder, err := rag.NewEmbedder(ctx, sc)
	if err != nil {
		return fmt.Errorf("failed to configure embeddings: %w", err)
	}
	generator, err := rag.NewGenerator(ctx, sc)
	if err != nil {
		return fmt.Errorf("failed to configure generation: %w", err)
	}

	logger.Info("service configured",
		zap.String("vector_store", sc.VectorStore),
		zap.String("embedder", fmt.Sprintf("%T", embedder)),
		zap.String("generator", fmt.Sprintf("%T", generator)),
		zap.Int("top_k", sc.TopK))

	pipeline := rag.NewPipeline(sc.VectorStore, embedder, generator, sc.TopK, logger)
	return deps.Serve(ctx, listen, server.NewRouter(pipeline, logger), logger)
}
