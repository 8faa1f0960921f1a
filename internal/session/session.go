// Package session owns the current index generation and the conversation log.
package session

import (
	"context"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/dream-ai/pdfchat/internal/documents"
	"github.com/dream-ai/pdfchat/internal/index"
	"github.com/dream-ai/pdfchat/internal/rag"
)

// ConversationTurn is one answered question
type ConversationTurn struct {
	ID         uuid.UUID           `json:"id"`
	Question   string              `json:"question"`
	Answer     string              `json:"answer"`
	Sources    []index.ChunkRecord `json:"sources"`
	Scores     []float64           `json:"scores"`
	Model      string              `json:"model"`
	Generation uuid.UUID           `json:"generation"`
	AskedAt    time.Time           `json:"asked_at"`
	Elapsed    time.Duration       `json:"elapsed_ns"`
}

// Stats summarizes the session state
type Stats struct {
	Generation uuid.UUID `json:"generation"`
	Chunks     int       `json:"chunks"`
	Files      []string  `json:"files"`
	Turns      int       `json:"turns"`
	UploadedAt time.Time `json:"uploaded_at,omitempty"`
}

// UploadResult describes a successful upload
type UploadResult struct {
	Generation uuid.UUID `json:"generation"`
	Chunks     int       `json:"chunks"`
	Files      []string  `json:"files"`
}

// Session drives the pipeline for one user. Safe for concurrent use;
// operations are serialized.
type Session struct {
	mu sync.Mutex
	// ready mirrors idx != nil and is readable while an operation holds mu.
	ready atomic.Bool

	ingestor *documents.Ingestor
	splitter *documents.Splitter
	indexer  *rag.Indexer
	answerer *rag.Answerer
	logger   *zap.Logger

	idx        index.Index
	files      []string
	uploadedAt time.Time
	turns      []ConversationTurn
}

// New creates an empty session
func New(ingestor *documents.Ingestor, splitter *documents.Splitter, indexer *rag.Indexer, answerer *rag.Answerer, logger *zap.Logger) *Session {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Session{
		ingestor: ingestor,
		splitter: splitter,
		indexer:  indexer,
		answerer: answerer,
		logger:   logger,
	}
}

// Upload ingests files, chunks the text and builds a new index. Only a fully
// built index replaces the current one; the old index is closed and the
// conversation log cleared. On error the session is left as it was.
func (s *Session) Upload(ctx context.Context, files []documents.UploadedFile) (*UploadResult, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	text, err := s.ingestor.Ingest(ctx, files)
	if err != nil {
		return nil, err
	}
	chunks := s.splitter.Split(text)
	s.logger.Debug("text split",
		zap.Int("chars", len(text)),
		zap.Int("chunks", len(chunks)),
	)

	idx, err := s.indexer.Build(ctx, chunks)
	if err != nil {
		return nil, err
	}

	names := make([]string, len(files))
	for i, f := range files {
		names[i] = f.Name
	}

	s.closeIndex()
	s.idx = idx
	s.ready.Store(true)
	s.files = names
	s.uploadedAt = time.Now()
	s.turns = nil

	s.logger.Info("documents uploaded",
		zap.Strings("files", names),
		zap.Int("chunks", idx.Len()),
		zap.String("generation", idx.Generation().String()),
	)
	return &UploadResult{Generation: idx.Generation(), Chunks: idx.Len(), Files: names}, nil
}

// Ask answers question against the current index and appends the turn to the log
func (s *Session) Ask(ctx context.Context, question string) (*ConversationTurn, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.idx == nil {
		return nil, rag.ErrNoIndex
	}
	res, err := s.answerer.Answer(ctx, s.idx, question)
	if err != nil {
		return nil, err
	}

	turn := ConversationTurn{
		ID:         uuid.New(),
		Question:   res.Question,
		Answer:     res.Answer,
		Sources:    res.Sources,
		Scores:     res.Scores,
		Model:      res.Model,
		Generation: res.Generation,
		AskedAt:    time.Now(),
		Elapsed:    res.Elapsed,
	}
	s.turns = append(s.turns, turn)
	return &turn, nil
}

// History returns the conversation log, most recent turn first
func (s *Session) History() []ConversationTurn {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := make([]ConversationTurn, len(s.turns))
	for i, t := range s.turns {
		out[len(s.turns)-1-i] = t
	}
	return out
}

// Ready reports whether an index is loaded. It never waits on a running upload or answer.
func (s *Session) Ready() bool {
	return s.ready.Load()
}

// Stats returns a snapshot of the session state
func (s *Session) Stats() Stats {
	s.mu.Lock()
	defer s.mu.Unlock()

	st := Stats{
		Files:      append([]string(nil), s.files...),
		Turns:      len(s.turns),
		UploadedAt: s.uploadedAt,
	}
	if s.idx != nil {
		st.Generation = s.idx.Generation()
		st.Chunks = s.idx.Len()
	}
	return st
}

// Reset discards the index and the conversation log
func (s *Session) Reset() {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.closeIndex()
	s.idx = nil
	s.ready.Store(false)
	s.files = nil
	s.uploadedAt = time.Time{}
	s.turns = nil
}

// Close releases the current index
func (s *Session) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.idx == nil {
		return nil
	}
	err := s.idx.Close()
	s.idx = nil
	s.ready.Store(false)
	if err != nil {
		return fmt.Errorf("failed to close index: %w", err)
	}
	return nil
}

func (s *Session) closeIndex() {
	if s.idx == nil {
		return
	}
	if err := s.idx.Close(); err != nil {
		s.logger.Warn("failed to close index",
			zap.String("generation", s.idx.Generation().String()),
			zap.Error(err),
		)
	}
}
