package extract

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"strings"
	"unicode/utf8"

	"github.com/ledongthuc/pdf"
	"github.com/pdfcpu/pdfcpu/pkg/api"
	"github.com/pdfcpu/pdfcpu/pkg/pdfcpu/model"
)

const (
	mimePDF  = "application/pdf"
	mimeText = "text/plain"
)

var (
	// ErrUnsupportedFormat reports a file that is neither plain text nor PDF.
	ErrUnsupportedFormat = errors.New("unsupported file format")
	// ErrExtraction reports a file of a supported type that could not be read.
	ErrExtraction = errors.New("extraction failed")
)

// ExtractText pulls plain text from an uploaded resume payload. PDF
// input is validated structurally before page-by-page extraction, so a
// corrupt file fails cleanly instead of producing garbage text.
func ExtractText(ctx context.Context, data []byte, mimeType string, fileName string) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}

	normalized := normalizeMimeType(mimeType, fileName, data)
	switch normalized {
	case mimePDF:
		return extractPDF(data)
	case mimeText:
		return extractPlainText(data)
	default:
		return "", fmt.Errorf("%w: %s", ErrUnsupportedFormat, normalized)
	}
}

func extractPlainText(data []byte) (string, error) {
	if len(data) == 0 {
		return "", fmt.Errorf("%w: empty file", ErrExtraction)
	}
	if !utf8.Valid(data) {
		return "", fmt.Errorf("%w: file is not valid UTF-8 text", ErrExtraction)
	}
	text := normalizeWhitespace(string(data))
	if text == "" {
		return "", fmt.Errorf("%w: file contains no text", ErrExtraction)
	}
	return text, nil
}

func extractPDF(data []byte) (string, error) {
	if len(data) == 0 {
		return "", fmt.Errorf("%w: empty file", ErrExtraction)
	}

	// Structural pre-flight. Corrupt or encrypted files fail here with a
	// parser error instead of surfacing half-read garbage downstream.
	conf := model.NewDefaultConfiguration()
	conf.ValidationMode = model.ValidationRelaxed
	if err := api.Validate(bytes.NewReader(data), conf); err != nil {
		return "", fmt.Errorf("%w: invalid pdf: %v", ErrExtraction, err)
	}

	pdfReader, err := pdf.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return "", fmt.Errorf("%w: open pdf: %v", ErrExtraction, err)
	}

	var builder strings.Builder
	for i := 1; i <= pdfReader.NumPage(); i++ {
		page := pdfReader.Page(i)
		if page.V.IsNull() {
			continue
		}
		text, err := page.GetPlainText(nil)
		if err != nil {
			return "", fmt.Errorf("%w: read pdf page %d: %v", ErrExtraction, i, err)
		}
		builder.WriteString(text)
		builder.WriteString("\n")
	}

	text := normalizeWhitespace(builder.String())
	if text == "" {
		return "", fmt.Errorf("%w: pdf contains no extractable text", ErrExtraction)
	}
	return text, nil
}

// normalizeWhitespace collapses runs of spaces within lines and runs of
// blank lines down to a single paragraph break.
func normalizeWhitespace(s string) string {
	s = strings.ReplaceAll(s, "\r\n", "\n")
	lines := strings.Split(s, "\n")
	out := make([]string, 0, len(lines))
	blanks := 0
	for _, line := range lines {
		line = strings.Join(strings.Fields(line), " ")
		if line == "" {
			blanks++
			if blanks > 1 {
				continue
			}
		} else {
			blanks = 0
		}
		out = append(out, line)
	}
	return strings.TrimSpace(strings.Join(out, "\n"))
}

func normalizeMimeType(mimeType string, fileName string, data []byte) string {
	clean := strings.ToLower(strings.TrimSpace(strings.Split(mimeType, ";")[0]))
	switch clean {
	case mimePDF, mimeText:
		return clean
	case "", "application/octet-stream":
		// Browsers often send a generic type; fall back to content then
		// extension.
		if bytes.HasPrefix(data, []byte("%PDF-")) {
			return mimePDF
		}
		switch strings.ToLower(filepath.Ext(fileName)) {
		case ".pdf":
			return mimePDF
		case ".txt", ".text":
			return mimeText
		}
		return clean
	default:
		if strings.HasPrefix(clean, "text/") {
			return mimeText
		}
		return clean
	}
}
