package extract

import (
	"bytes"
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/go-pdf/fpdf"
)

func pdfFixture(t *testing.T, text string) []byte {
	t.Helper()
	doc := fpdf.New("P", "pt", "Letter", "")
	doc.SetCompression(false)
	doc.AddPage()
	doc.SetFont("Helvetica", "", 12)
	doc.MultiCell(0, 14, text, "", "L", false)
	var buf bytes.Buffer
	if err := doc.Output(&buf); err != nil {
		t.Fatalf("build pdf fixture: %v", err)
	}
	return buf.Bytes()
}

func TestExtractText_PlainText(t *testing.T) {
	got, err := ExtractText(context.Background(), []byte("Jane Doe\nBackend   Engineer\n\n\n\nGo, Postgres"), "text/plain; charset=utf-8", "resume.txt")
	if err != nil {
		t.Fatalf("extract plain text: %v", err)
	}
	want := "Jane Doe\nBackend Engineer\n\nGo, Postgres"
	if got != want {
		t.Fatalf("normalized text mismatch:\ngot  %q\nwant %q", got, want)
	}
}

func TestExtractText_PDF(t *testing.T) {
	data := pdfFixture(t, "Jane Doe\nSeven years building backend services in Go.")
	got, err := ExtractText(context.Background(), data, "application/pdf", "resume.pdf")
	if err != nil {
		t.Fatalf("extract pdf: %v", err)
	}
	if got == "" {
		t.Fatal("expected non-empty text from valid pdf")
	}
	if !strings.Contains(got, "Jane Doe") {
		t.Fatalf("expected extracted text to contain name, got %q", got)
	}
}

func TestExtractText_SniffsGenericMime(t *testing.T) {
	data := pdfFixture(t, "sniffed content")
	if _, err := ExtractText(context.Background(), data, "application/octet-stream", "resume.pdf"); err != nil {
		t.Fatalf("expected pdf sniffed from generic mime, got error: %v", err)
	}

	if _, err := ExtractText(context.Background(), []byte("plain words"), "", "resume.txt"); err != nil {
		t.Fatalf("expected txt extension fallback, got error: %v", err)
	}
}

func TestExtractText_UnsupportedFormat(t *testing.T) {
	_, err := ExtractText(context.Background(), []byte("PK\x03\x04"), "application/vnd.openxmlformats-officedocument.wordprocessingml.document", "resume.docx")
	if !errors.Is(err, ErrUnsupportedFormat) {
		t.Fatalf("expected ErrUnsupportedFormat, got %v", err)
	}
}

func TestExtractText_CorruptPDF(t *testing.T) {
	_, err := ExtractText(context.Background(), []byte("%PDF-1.4\nnot really a pdf"), "application/pdf", "resume.pdf")
	if !errors.Is(err, ErrExtraction) {
		t.Fatalf("expected ErrExtraction for corrupt pdf, got %v", err)
	}
}

func TestExtractText_InvalidUTF8(t *testing.T) {
	_, err := ExtractText(context.Background(), []byte{0xff, 0xfe, 0x41}, "text/plain", "resume.txt")
	if !errors.Is(err, ErrExtraction) {
		t.Fatalf("expected ErrExtraction for invalid utf-8, got %v", err)
	}
}
