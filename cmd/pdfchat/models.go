package main

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/dream-ai/pdfchat/internal/ollama"
)

var modelsCmd = &cobra.Command{
	Use:   "models",
	Short: "List local Ollama models and check the configured ones",
	Args:  cobra.NoArgs,
	RunE:  runModels,
}

func init() {
	rootCmd.AddCommand(modelsCmd)
}

func runModels(cmd *cobra.Command, args []string) error {
	client := ollama.NewClient(cfg.Ollama.BaseURL, 10*time.Second)
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	models, err := client.ListModels(ctx)
	if err != nil {
		return fmt.Errorf("failed to list models: %w", err)
	}
	if len(models) == 0 {
		cmd.Println("No models found. Pull one with `ollama pull llama3`.")
	}
	for _, m := range models {
		cmd.Printf("  %-40s %8.2f MB\n", m.Name, float64(m.Size)/(1024*1024))
	}

	missing, err := client.MissingModels(ctx, cfg.Ollama.ChatModel, cfg.Embeddings.TextModel)
	if err != nil {
		return err
	}
	cmd.Println()
	cmd.Printf("chat model:      %s\n", cfg.Ollama.ChatModel)
	cmd.Printf("embedding model: %s\n", cfg.Embeddings.TextModel)
	for _, m := range missing {
		cmd.Printf("missing: %s (run `ollama pull %s`)\n", m, m)
	}
	return nil
}
