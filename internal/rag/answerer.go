// Package rag indexes chunks and answers questions over them.
package rag

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/dream-ai/pdfchat/internal/index"
	"github.com/dream-ai/pdfchat/internal/ollama"
)

var (
	// ErrNoIndex is returned when a question arrives before any upload.
	ErrNoIndex = errors.New("no documents indexed yet")
	// ErrEmptyQuestion is returned for blank questions.
	ErrEmptyQuestion = errors.New("question is empty")
)

// Generator is the completion side of the Ollama client
type Generator interface {
	Generate(ctx context.Context, req *ollama.GenerateRequest) (string, error)
}

// AnswerResult is a generated answer with the exact documents used as context
type AnswerResult struct {
	Question   string              `json:"question"`
	Answer     string              `json:"answer"`
	Sources    []index.ChunkRecord `json:"sources"`
	Scores     []float64           `json:"scores"`
	Model      string              `json:"model"`
	Generation uuid.UUID           `json:"generation"`
	Elapsed    time.Duration       `json:"elapsed_ns"`
}

// Answerer retrieves context and asks the language model, one question at a time
type Answerer struct {
	retriever      *Retriever
	contextBuilder *ContextBuilder
	llm            Generator
	model          string
	logger         *zap.Logger
}

// NewAnswerer creates a new answerer
func NewAnswerer(retriever *Retriever, contextBuilder *ContextBuilder, llm Generator, model string, logger *zap.Logger) *Answerer {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Answerer{
		retriever:      retriever,
		contextBuilder: contextBuilder,
		llm:            llm,
		model:          model,
		logger:         logger,
	}
}

// Answer retrieves documents for question from idx and sends a single
// completion request. No earlier turns are included in the prompt.
func (a *Answerer) Answer(ctx context.Context, idx index.Index, question string) (*AnswerResult, error) {
	question = strings.TrimSpace(question)
	if question == "" {
		return nil, ErrEmptyQuestion
	}
	if idx == nil {
		return nil, ErrNoIndex
	}
	start := time.Now()

	retrieved, err := a.retriever.Retrieve(ctx, idx, question)
	if err != nil {
		return nil, err
	}
	sources := retrieved.Records()

	prompt := a.contextBuilder.BuildPrompt(a.contextBuilder.BuildContext(sources), question)
	answer, err := a.llm.Generate(ctx, &ollama.GenerateRequest{
		Model:  a.model,
		Prompt: prompt,
		Stream: false,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to generate answer: %w", err)
	}

	result := &AnswerResult{
		Question:   question,
		Answer:     strings.TrimSpace(answer),
		Sources:    sources,
		Scores:     retrieved.Scores,
		Model:      a.model,
		Generation: idx.Generation(),
		Elapsed:    time.Since(start),
	}
	a.logger.Info("question answered",
		zap.Int("sources", len(sources)),
		zap.Int("prompt_chars", len(prompt)),
		zap.Duration("elapsed", result.Elapsed),
	)
	return result, nil
}
