package server

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"

	"go.uber.org/zap"

	"github.com/dream-ai/pdfchat/internal/documents"
	"github.com/dream-ai/pdfchat/internal/embeddings"
	"github.com/dream-ai/pdfchat/internal/ollama"
	"github.com/dream-ai/pdfchat/internal/rag"
	"github.com/dream-ai/pdfchat/internal/session"
)

type askRequest struct {
	Question string `json:"question"`
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	s.respondJSON(w, http.StatusOK, map[string]interface{}{
		"status": "ok",
		"ready":  s.session.Ready(),
	})
}

func (s *Server) handleUpload(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseMultipartForm(maxUploadBytes); err != nil {
		s.respondError(w, http.StatusBadRequest, "invalid multipart body")
		return
	}
	headers := r.MultipartForm.File["files"]
	if len(headers) == 0 {
		s.respondError(w, http.StatusBadRequest, "no files in field \"files\"")
		return
	}

	files := make([]documents.UploadedFile, 0, len(headers))
	for _, h := range headers {
		f, err := h.Open()
		if err != nil {
			s.respondError(w, http.StatusBadRequest, fmt.Sprintf("failed to open %s", h.Filename))
			return
		}
		data, err := io.ReadAll(f)
		f.Close()
		if err != nil {
			s.respondError(w, http.StatusBadRequest, fmt.Sprintf("failed to read %s", h.Filename))
			return
		}
		files = append(files, documents.UploadedFile{Name: h.Filename, Data: data})
	}

	s.logger.Debug("upload request", zap.Int("files", len(files)))
	res, err := s.session.Upload(r.Context(), files)
	if err != nil {
		s.fail(w, "upload failed", err)
		return
	}
	s.respondJSON(w, http.StatusCreated, res)
}

func (s *Server) handleAsk(w http.ResponseWriter, r *http.Request) {
	var req askRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.respondError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	s.logger.Debug("ask request", zap.String("question", req.Question))

	turn, err := s.session.Ask(r.Context(), req.Question)
	if err != nil {
		s.fail(w, "ask failed", err)
		return
	}
	s.respondJSON(w, http.StatusOK, turn)
}

func (s *Server) handleHistory(w http.ResponseWriter, r *http.Request) {
	turns := s.session.History()
	if r.URL.Query().Get("format") == "markdown" {
		w.Header().Set("Content-Type", "text/markdown; charset=utf-8")
		w.WriteHeader(http.StatusOK)
		_, _ = io.WriteString(w, session.RenderMarkdown(turns, s.excerptChars))
		return
	}
	s.respondJSON(w, http.StatusOK, map[string]interface{}{"turns": turns})
}

func (s *Server) handleStats(w http.ResponseWriter, r *http.Request) {
	s.respondJSON(w, http.StatusOK, s.session.Stats())
}

func (s *Server) handleReset(w http.ResponseWriter, r *http.Request) {
	s.session.Reset()
	s.respondJSON(w, http.StatusOK, map[string]string{"status": "reset"})
}

func (s *Server) fail(w http.ResponseWriter, msg string, err error) {
	status := statusFor(err)
	if status >= http.StatusInternalServerError {
		s.logger.Error(msg, zap.Error(err))
	} else {
		s.logger.Debug(msg, zap.Error(err))
	}
	s.respondError(w, status, err.Error())
}

// statusFor maps pipeline errors to HTTP status codes.
func statusFor(err error) int {
	var (
		parseErr *documents.ParseError
		embErr   *embeddings.EmbeddingError
		compErr  *ollama.CompletionError
	)
	switch {
	case errors.As(err, &parseErr), errors.Is(err, rag.ErrEmptyQuestion), errors.Is(err, rag.ErrNoText):
		return http.StatusBadRequest
	case errors.Is(err, rag.ErrNoIndex):
		return http.StatusConflict
	case errors.As(err, &embErr), errors.As(err, &compErr):
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}

func (s *Server) respondJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(data)
}

func (s *Server) respondError(w http.ResponseWriter, status int, message string) {
	s.respondJSON(w, status, map[string]string{"error": message})
}
