package document

import (
	"bytes"
	"context"
	"io"
	"regexp"
	"runtime"
	"strings"

	pdf "github.com/ledongthuc/pdf"
	"golang.org/x/sync/semaphore"
)

// TextExtractor produces plain text from uploaded file bytes.
type TextExtractor interface {
	Extract(ctx context.Context, data []byte) (string, error)
}

// PDFExtractor extracts plain text from PDF bytes. Parsing is CPU-bound, so
// concurrent extractions are bounded by a weighted semaphore to keep one
// slow document from stalling unrelated requests.
type PDFExtractor struct {
	sem *semaphore.Weighted
}

func NewPDFExtractor() *PDFExtractor {
	return &PDFExtractor{sem: semaphore.NewWeighted(int64(runtime.GOMAXPROCS(0)))}
}

func (e *PDFExtractor) Extract(ctx context.Context, data []byte) (string, error) {
	if err := e.sem.Acquire(ctx, 1); err != nil {
		return "", err
	}
	defer e.sem.Release(1)
	return extractTextFromPDF(data)
}

func extractTextFromPDF(data []byte) (string, error) {
	reader := bytes.NewReader(data)
	r, err := pdf.NewReader(reader, int64(len(data)))
	if err != nil {
		return "", err
	}
	rs, err := r.GetPlainText()
	if err != nil {
		return "", err
	}
	var buf bytes.Buffer
	if _, err = io.Copy(&buf, rs); err != nil {
		return "", err
	}
	return normalizeWhitespace(buf.String()), nil
}

var (
	horizontalSpaceRE = regexp.MustCompile(`[ \t\r\f\v]+`)
	newlineRunRE      = regexp.MustCompile(`\n+`)
)

// normalizeWhitespace collapses whitespace runs while preserving line breaks.
func normalizeWhitespace(s string) string {
	s = strings.ReplaceAll(s, "\u00A0", " ")
	s = horizontalSpaceRE.ReplaceAllString(s, " ")
	s = newlineRunRE.ReplaceAllString(s, "\n")
	return strings.TrimSpace(s)
}
