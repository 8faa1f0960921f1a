package documents

import (
	"fmt"
	"strings"

	"github.com/gen2brain/go-fitz"
	"github.com/ledongthuc/pdf"
)

// Extractor pulls per-page text out of a PDF on disk
type Extractor interface {
	ExtractPages(filePath string) ([]string, error)
}

// NewExtractor returns the extractor for a configured backend name
func NewExtractor(backend string) (Extractor, error) {
	switch backend {
	case "fitz", "":
		return &FitzExtractor{}, nil
	case "pure":
		return &PureExtractor{}, nil
	default:
		return nil, fmt.Errorf("unknown pdf backend: %s", backend)
	}
}

// FitzExtractor extracts text with MuPDF through go-fitz
type FitzExtractor struct{}

// ExtractPages returns the text of every page in order
func (e *FitzExtractor) ExtractPages(filePath string) ([]string, error) {
	doc, err := fitz.New(filePath)
	if err != nil {
		return nil, fmt.Errorf("failed to open PDF: %w", err)
	}
	defer doc.Close()

	pages := make([]string, 0, doc.NumPage())
	for i := 0; i < doc.NumPage(); i++ {
		text, err := doc.Text(i)
		if err != nil {
			return nil, fmt.Errorf("failed to extract page %d: %w", i+1, err)
		}
		pages = append(pages, text)
	}
	return pages, nil
}

// PureExtractor extracts text with the pure Go ledongthuc/pdf reader.
// Useful where MuPDF is not available.
type PureExtractor struct{}

// ExtractPages returns the plain text of every page in order
func (e *PureExtractor) ExtractPages(filePath string) (pages []string, err error) {
	// The reader panics on some malformed xref tables.
	defer func() {
		if r := recover(); r != nil {
			pages, err = nil, fmt.Errorf("malformed PDF: %v", r)
		}
	}()

	f, r, err := pdf.Open(filePath)
	if err != nil {
		return nil, fmt.Errorf("failed to open PDF: %w", err)
	}
	defer f.Close()

	numPages := r.NumPage()
	pages = make([]string, 0, numPages)
	for i := 1; i <= numPages; i++ {
		page := r.Page(i)
		if page.V.IsNull() {
			pages = append(pages, "")
			continue
		}
		text, err := page.GetPlainText(nil)
		if err != nil {
			return nil, fmt.Errorf("failed to extract page %d: %w", i, err)
		}
		pages = append(pages, text)
	}
	return pages, nil
}

// joinPages concatenates page texts without any page markers
func joinPages(pages []string) string {
	return strings.Join(pages, "\n")
}
