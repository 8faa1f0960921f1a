package main

import (
	"context"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/dream-ai/pdfchat/config"
	"github.com/dream-ai/pdfchat/internal/db"
	"github.com/dream-ai/pdfchat/internal/documents"
	"github.com/dream-ai/pdfchat/internal/embeddings"
	"github.com/dream-ai/pdfchat/internal/index"
	"github.com/dream-ai/pdfchat/internal/ollama"
	"github.com/dream-ai/pdfchat/internal/rag"
	"github.com/dream-ai/pdfchat/internal/session"
)

// pipeline is a session with the clients and stores it was built from
type pipeline struct {
	session *session.Session
	ollama  *ollama.Client
	db      *db.DB
	logger  *zap.Logger
}

func newPipeline(ctx context.Context, cfg *config.Config, logger *zap.Logger) (*pipeline, error) {
	if ctx == nil {
		ctx = context.Background()
	}
	extractor, err := documents.NewExtractor(cfg.Processing.PDFBackend)
	if err != nil {
		return nil, err
	}

	p := &pipeline{
		ollama: ollama.NewClient(cfg.Ollama.BaseURL, cfg.Timeout()),
		logger: logger,
	}

	var builder index.Builder = index.MemoryBuilder{}
	if cfg.Index.Backend == "pgvector" {
		database, err := db.New(ctx, cfg.Database.ConnectionString)
		if err != nil {
			return nil, err
		}
		if err := database.EnsureSchema(ctx); err != nil {
			database.Close()
			return nil, err
		}
		purged, err := database.PurgeChunks(ctx)
		if err != nil {
			database.Close()
			return nil, err
		}
		if purged > 0 {
			logger.Info("purged chunks from an earlier run", zap.Int64("rows", purged))
		}
		p.db = database
		builder = index.NewPGVectorBuilder(database)
	}

	embedder := embeddings.NewTextEmbedder(cfg.Ollama.BaseURL, cfg.Embeddings.TextModel, cfg.Timeout())
	retriever := rag.NewRetriever(embedder, cfg.Processing.TopK, cfg.Processing.FetchK, cfg.Processing.MMRLambda)
	answerer := rag.NewAnswerer(retriever, rag.NewContextBuilder(""), p.ollama, cfg.Ollama.ChatModel, logger)

	p.session = session.New(
		documents.NewIngestor(extractor, "", logger),
		documents.NewSplitter(cfg.Processing.ChunkSize, cfg.Processing.ChunkOverlap),
		rag.NewIndexer(embedder, builder, logger),
		answerer,
		logger,
	)

	logger.Info("pipeline ready",
		zap.String("ollama", cfg.Ollama.BaseURL),
		zap.String("chat_model", cfg.Ollama.ChatModel),
		zap.String("embedding_model", cfg.Embeddings.TextModel),
		zap.String("index", cfg.Index.Backend),
		zap.String("pdf_backend", cfg.Processing.PDFBackend),
	)
	return p, nil
}

// Close releases the index and the database pool
func (p *pipeline) Close() {
	if err := p.session.Close(); err != nil {
		p.logger.Warn("failed to close session", zap.Error(err))
	}
	if p.db != nil {
		p.db.Close()
	}
}

// warnMissingModels prints a hint when the configured models are not pulled.
// An unreachable server is only logged; the first real call reports it.
func warnMissingModels(cmd *cobra.Command, p *pipeline, logger *zap.Logger) {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	missing, err := p.ollama.MissingModels(ctx, cfg.Ollama.ChatModel, cfg.Embeddings.TextModel)
	if err != nil {
		logger.Warn("could not list ollama models", zap.Error(err))
		return
	}
	for _, m := range missing {
		cmd.PrintErrf("warning: model %q is not available; run `ollama pull %s`\n", m, m)
	}
}
