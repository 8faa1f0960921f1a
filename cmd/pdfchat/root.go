package main

import (
	"fmt"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/dream-ai/pdfchat/config"
	"github.com/dream-ai/pdfchat/internal/logging"
	"github.com/dream-ai/pdfchat/internal/tui"
)

var (
	configPath string
	debugFlag  bool

	cfg *config.Config
)

var rootCmd = &cobra.Command{
	Use:   "pdfchat [file.pdf ...]",
	Short: "Chat with your PDFs using a local Ollama model",
	Long: `pdfchat extracts the text of one or more PDFs, indexes it with Ollama
embeddings and answers questions about it with an Ollama chat model.

Without a subcommand it opens the terminal UI. PDFs given as arguments are
uploaded on start; more can be loaded with /upload inside the UI.`,
	SilenceUsage:      true,
	PersistentPreRunE: loadConfig,
	RunE:              runTUI,
}

func init() {
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "config file (default ~/.pdfchat/config.yaml)")
	rootCmd.PersistentFlags().BoolVar(&debugFlag, "debug", false, "enable debug logging")
}

func loadConfig(cmd *cobra.Command, args []string) error {
	// A missing .env is fine.
	_ = godotenv.Load()

	c, err := config.Load(configPath)
	if err != nil {
		return err
	}
	if debugFlag {
		c.Log.Debug = true
	}
	if err := c.Validate(); err != nil {
		return fmt.Errorf("invalid config: %w", err)
	}
	cfg = c
	return nil
}

func runTUI(cmd *cobra.Command, args []string) error {
	// The screen belongs to the UI, so logs go to a file.
	logger, err := logging.New(cfg.Log.Debug, cfg.Log.File)
	if err != nil {
		return fmt.Errorf("failed to create logger: %w", err)
	}
	defer logger.Sync()

	p, err := newPipeline(cmd.Context(), cfg, logger)
	if err != nil {
		return err
	}
	defer p.Close()

	warnMissingModels(cmd, p, logger)

	app := tui.NewApp(p.session, tui.Options{
		Files:        args,
		ExcerptChars: cfg.Display.SourceExcerptChars,
		Timeout:      cfg.Timeout(),
		Models:       p.ollama,
		ChatModel:    cfg.Ollama.ChatModel,
		EmbedModel:   cfg.Embeddings.TextModel,
	})
	if err := app.Run(); err != nil {
		logger.Error("ui exited", zap.Error(err))
		return err
	}
	return nil
}

func stderrLogger() (*zap.Logger, error) {
	logger, err := logging.New(cfg.Log.Debug, "")
	if err != nil {
		return nil, fmt.Errorf("failed to create logger: %w", err)
	}
	return logger, nil
}
