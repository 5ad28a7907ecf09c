// Package extract turns uploaded PDF bytes into résumé text.
package extract

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/ledongthuc/pdf"

	"resume-improver/internal/shared/apperr"
	"resume-improver/internal/shared/i18n"
)

// MinTextLength is the shortest text treated as a text-bearing document.
const MinTextLength = 50

// PageReader yields the plain text of each page in order.
type PageReader func(data []byte) ([]string, error)

// Extractor validates the text produced by its PageReader.
type Extractor struct {
	Pages PageReader
}

// New returns an Extractor backed by github.com/ledongthuc/pdf.
func New() *Extractor {
	return &Extractor{Pages: readPDFPages}
}

// Extract joins page text with newlines and trims it. A document that cannot be
// parsed is ErrExtractionFailed; one that yields under MinTextLength characters
// is ErrInsufficientText.
func (e *Extractor) Extract(ctx context.Context, data []byte) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	read := e.Pages
	if read == nil {
		read = readPDFPages
	}
	pages, err := read(data)
	if err != nil {
		return "", apperr.Wrap(apperr.ErrExtractionFailed, i18n.KeyExtractionFailed, err)
	}
	text := strings.TrimSpace(strings.Join(pages, "\n"))
	if len([]rune(text)) < MinTextLength {
		return "", apperr.New(apperr.ErrInsufficientText, i18n.KeyInsufficientText)
	}
	return text, nil
}

// readPDFPages recovers from parser panics on malformed input.
func readPDFPages(data []byte) (pages []string, err error) {
	defer func() {
		if rec := recover(); rec != nil {
			pages = nil
			err = fmt.Errorf("pdf parser panic: %v", rec)
		}
	}()
	if len(data) == 0 {
		return nil, errors.New("empty pdf data")
	}
	reader, err := pdf.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return nil, err
	}
	total := reader.NumPage()
	pages = make([]string, 0, total)
	for i := 1; i <= total; i++ {
		page := reader.Page(i)
		if page.V.IsNull() {
			continue
		}
		text, err := page.GetPlainText(nil)
		if err != nil {
			return nil, fmt.Errorf("page %d: %w", i, err)
		}
		pages = append(pages, text)
	}
	return pages, nil
}
