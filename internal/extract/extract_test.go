package extract

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"strings"
	"testing"

	"resume-improver/internal/shared/apperr"
)

func fixedPages(pages ...string) PageReader {
	return func([]byte) ([]string, error) { return pages, nil }
}

func TestExtractJoinsAndTrimsPages(t *testing.T) {
	e := &Extractor{Pages: fixedPages("  Jane Doe, Senior Backend Engineer", "Built payment systems in Go for eight years.  \n")}
	text, err := e.Extract(context.Background(), []byte("ignored"))
	if err != nil {
		t.Fatalf("Extract: %v", err)
	}
	want := "Jane Doe, Senior Backend Engineer\nBuilt payment systems in Go for eight years."
	if text != want {
		t.Fatalf("unexpected text %q", text)
	}
}

func TestExtractInsufficientText(t *testing.T) {
	tests := []struct {
		name  string
		pages []string
	}{
		{name: "no pages"},
		{name: "scanned image only", pages: []string{"", "   "}},
		{name: "49 characters", pages: []string{strings.Repeat("x", 49)}},
		{name: "short after trim", pages: []string{"   " + strings.Repeat("y", 40) + "       "}},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			_, err := (&Extractor{Pages: fixedPages(tc.pages...)}).Extract(context.Background(), nil)
			if !errors.Is(err, apperr.ErrInsufficientText) {
				t.Fatalf("expected ErrInsufficientText, got %v", err)
			}
			if errors.Is(err, apperr.ErrExtractionFailed) {
				t.Fatalf("insufficient text must be distinct from extraction failure")
			}
		})
	}
}

func TestExtractExactlyMinimumLength(t *testing.T) {
	text, err := (&Extractor{Pages: fixedPages(strings.Repeat("z", MinTextLength))}).Extract(context.Background(), nil)
	if err != nil || len(text) != MinTextLength {
		t.Fatalf("expected %d chars accepted, got %q err=%v", MinTextLength, text, err)
	}
}

func TestExtractMalformedPDF(t *testing.T) {
	_, err := New().Extract(context.Background(), []byte("this is not a pdf at all"))
	if !errors.Is(err, apperr.ErrExtractionFailed) {
		t.Fatalf("expected ErrExtractionFailed, got %v", err)
	}
}

func TestExtractHonorsCanceledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if _, err := New().Extract(ctx, nil); !errors.Is(err, context.Canceled) {
		t.Fatalf("expected context.Canceled, got %v", err)
	}
}

func TestExtractRealPDF(t *testing.T) {
	data := buildPDF(t, []string{
		"Jane Doe Senior Backend Engineer",
		"Designed and operated payment services written in Go",
	})
	text, err := New().Extract(context.Background(), data)
	if err != nil {
		t.Fatalf("Extract: %v", err)
	}
	if !strings.Contains(text, "Jane Doe Senior Backend Engineer") || !strings.Contains(text, "payment services written in Go") {
		t.Fatalf("unexpected text %q", text)
	}
	if !strings.Contains(text, "\n") {
		t.Fatalf("expected page separator in %q", text)
	}
}

// buildPDF writes a minimal uncompressed PDF with one text line per page.
func buildPDF(t *testing.T, lines []string) []byte {
	t.Helper()
	var objects []string
	pageCount := len(lines)
	kids := make([]string, pageCount)
	for i := range lines {
		kids[i] = fmt.Sprintf("%d 0 R", 4+i*2)
	}
	objects = append(objects,
		"<< /Type /Catalog /Pages 2 0 R >>",
		fmt.Sprintf("<< /Type /Pages /Kids [%s] /Count %d >>", strings.Join(kids, " "), pageCount),
		"<< /Type /Font /Subtype /Type1 /BaseFont /Helvetica /Encoding /WinAnsiEncoding >>",
	)
	for i, line := range lines {
		content := fmt.Sprintf("BT /F1 12 Tf 72 720 Td (%s) Tj ET", line)
		objects = append(objects,
			fmt.Sprintf("<< /Type /Page /Parent 2 0 R /MediaBox [0 0 612 792] /Resources << /Font << /F1 3 0 R >> >> /Contents %d 0 R >>", 5+i*2),
			fmt.Sprintf("<< /Length %d >>\nstream\n%s\nendstream", len(content), content),
		)
	}

	var buf bytes.Buffer
	buf.WriteString("%PDF-1.4\n")
	offsets := make([]int, len(objects))
	for i, obj := range objects {
		offsets[i] = buf.Len()
		fmt.Fprintf(&buf, "%d 0 obj\n%s\nendobj\n", i+1, obj)
	}
	xref := buf.Len()
	fmt.Fprintf(&buf, "xref\n0 %d\n", len(objects)+1)
	buf.WriteString("0000000000 65535 f \n")
	for _, off := range offsets {
		fmt.Fprintf(&buf, "%010d 00000 n \n", off)
	}
	fmt.Fprintf(&buf, "trailer\n<< /Size %d /Root 1 0 R >>\nstartxref\n%d\n%%%%EOF\n", len(objects)+1, xref)
	return buf.Bytes()
}
