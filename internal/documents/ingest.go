package documents

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"go.uber.org/zap"
)

// UploadedFile is a file handed over by the host: raw bytes plus its name
type UploadedFile struct {
	Name string
	Data []byte
}

// ReadUploads loads files from disk as uploads, in the given order
func ReadUploads(paths []string) ([]UploadedFile, error) {
	files := make([]UploadedFile, 0, len(paths))
	for _, p := range paths {
		data, err := os.ReadFile(p)
		if err != nil {
			return nil, fmt.Errorf("failed to read %s: %w", p, err)
		}
		files = append(files, UploadedFile{Name: filepath.Base(p), Data: data})
	}
	return files, nil
}

// Ingestor turns uploaded PDFs into one text blob
type Ingestor struct {
	extractor Extractor
	tempDir   string
	logger    *zap.Logger
}

// NewIngestor creates a new ingestor. An empty tempDir means os.TempDir().
func NewIngestor(extractor Extractor, tempDir string, logger *zap.Logger) *Ingestor {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Ingestor{
		extractor: extractor,
		tempDir:   tempDir,
		logger:    logger,
	}
}

// Ingest extracts every file in upload order and concatenates the text.
// Pages of a file are newline-joined; files are appended back to back.
// The first file that fails to parse aborts the whole batch.
func (i *Ingestor) Ingest(ctx context.Context, files []UploadedFile) (string, error) {
	if len(files) == 0 {
		return "", errors.New("no files uploaded")
	}

	var all strings.Builder
	for _, f := range files {
		if err := ctx.Err(); err != nil {
			return "", err
		}
		text, err := i.extractFile(f)
		if err != nil {
			return "", err
		}
		all.WriteString(text)
	}
	return all.String(), nil
}

// extractFile copies the upload to a temp file, extracts it and removes the copy
func (i *Ingestor) extractFile(f UploadedFile) (string, error) {
	if !strings.EqualFold(filepath.Ext(f.Name), ".pdf") {
		return "", &ParseError{File: f.Name, Err: errors.New("not a .pdf file")}
	}

	tmp, err := os.CreateTemp(i.tempDir, "pdfchat-*.pdf")
	if err != nil {
		return "", fmt.Errorf("failed to create temp file: %w", err)
	}
	tmpPath := tmp.Name()
	defer os.Remove(tmpPath)

	if _, err := tmp.Write(f.Data); err != nil {
		tmp.Close()
		return "", fmt.Errorf("failed to write temp file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return "", fmt.Errorf("failed to close temp file: %w", err)
	}

	pages, err := i.extractor.ExtractPages(tmpPath)
	if err != nil {
		return "", &ParseError{File: f.Name, Err: err}
	}

	i.logger.Debug("extracted file",
		zap.String("file", f.Name),
		zap.Int("pages", len(pages)),
		zap.Int("bytes", len(f.Data)),
	)
	return joinPages(pages), nil
}
