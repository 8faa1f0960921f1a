package main

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/dream-ai/pdfchat/internal/documents"
	"github.com/dream-ai/pdfchat/internal/session"
)

var (
	askFiles []string
	askJSON  bool
)

var askCmd = &cobra.Command{
	Use:   "ask [question]",
	Short: "Answer one question about the given PDFs",
	Example: `  pdfchat ask --file report.pdf "What was revenue in 2023?"
  pdfchat ask -f a.pdf -f b.pdf --json "Summarize the findings"`,
	Args: cobra.MinimumNArgs(1),
	RunE: runAsk,
}

func init() {
	askCmd.Flags().StringSliceVarP(&askFiles, "file", "f", nil, "PDF to upload (repeatable)")
	askCmd.Flags().BoolVar(&askJSON, "json", false, "output the answer as JSON")
	rootCmd.AddCommand(askCmd)
}

func runAsk(cmd *cobra.Command, args []string) error {
	if len(askFiles) == 0 {
		return errors.New("at least one --file is required")
	}
	question := strings.Join(args, " ")

	logger, err := stderrLogger()
	if err != nil {
		return err
	}
	defer logger.Sync()

	p, err := newPipeline(cmd.Context(), cfg, logger)
	if err != nil {
		return err
	}
	defer p.Close()

	files, err := documents.ReadUploads(askFiles)
	if err != nil {
		return err
	}
	ctx := cmd.Context()
	if _, err := p.session.Upload(ctx, files); err != nil {
		return fmt.Errorf("upload failed: %w", err)
	}
	turn, err := p.session.Ask(ctx, question)
	if err != nil {
		return fmt.Errorf("ask failed: %w", err)
	}

	if askJSON {
		data, err := json.MarshalIndent(turn, "", "  ")
		if err != nil {
			return fmt.Errorf("failed to marshal answer: %w", err)
		}
		cmd.Println(string(data))
		return nil
	}
	cmd.Print(session.RenderMarkdown([]session.ConversationTurn{*turn}, cfg.Display.SourceExcerptChars))
	return nil
}
