package render

import (
	"bytes"
	"errors"
	"testing"
	"time"
)

func TestTextRoundTrips(t *testing.T) {
	const content = "Subject: Application Follow-Up\n\nDear Jane,\n\nThanks."
	got, err := Text(content)
	if err != nil {
		t.Fatalf("text: %v", err)
	}
	if string(got) != content {
		t.Fatalf("text artifact changed content: %q", got)
	}
}

func TestTextRejectsEmpty(t *testing.T) {
	if _, err := Text("   \n\t"); !errors.Is(err, ErrRender) {
		t.Fatalf("expected ErrRender, got %v", err)
	}
}

func TestCoverLetterPDF(t *testing.T) {
	data := CoverLetterData{
		FullName:      "Jane Doe",
		Location:      "Berlin, Germany",
		Phone:         "+49 151 0000000",
		Email:         "jane@example.com",
		LinkedIn:      "https://linkedin.com/in/janedoe",
		GitHub:        "https://github.com/janedoe",
		Company:       "Acme Corp",
		Position:      "Backend Engineer",
		HiringManager: "John Smith",
		AboutMe:       "I build backend systems in Go.",
		WhyCompany:    "Acme ships infrastructure I admire.",
		WhyMe:         "- Five years of Go\n- Strong ownership",
		Date:          time.Date(2025, time.March, 4, 0, 0, 0, 0, time.UTC),
	}

	got, err := CoverLetterPDF(data)
	if err != nil {
		t.Fatalf("render: %v", err)
	}
	if !bytes.HasPrefix(got, []byte("%PDF-")) {
		t.Fatalf("output is not a PDF, starts with %q", got[:min(8, len(got))])
	}
	if len(got) < 500 {
		t.Fatalf("suspiciously small PDF: %d bytes", len(got))
	}
}

func TestCoverLetterPDFRejectsEmptySections(t *testing.T) {
	_, err := CoverLetterPDF(CoverLetterData{FullName: "Jane Doe", Company: "Acme Corp"})
	if !errors.Is(err, ErrRender) {
		t.Fatalf("expected ErrRender, got %v", err)
	}
}

func TestCoverLetterPDFSkipsMissingContactFields(t *testing.T) {
	data := CoverLetterData{
		FullName:      "Jane Doe",
		Company:       "Acme Corp",
		Position:      "Backend Engineer",
		HiringManager: "Hiring Manager",
		AboutMe:       "About me.",
		WhyCompany:    "Why the company.",
		WhyMe:         "Why me.",
	}
	if _, err := CoverLetterPDF(data); err != nil {
		t.Fatalf("render without contact fields: %v", err)
	}
}

func TestSimplePDF(t *testing.T) {
	got, err := SimplePDF("Follow-Up Email", "Subject: Checking in\n\nDear John,\n\nJust following up.")
	if err != nil {
		t.Fatalf("render: %v", err)
	}
	if !bytes.HasPrefix(got, []byte("%PDF-")) {
		t.Fatal("output is not a PDF")
	}
}

func TestSimplePDFRejectsEmpty(t *testing.T) {
	if _, err := SimplePDF("LinkedIn Message", ""); !errors.Is(err, ErrRender) {
		t.Fatalf("expected ErrRender, got %v", err)
	}
}

func TestSimplePDFHandlesNonLatinCharacters(t *testing.T) {
	got, err := SimplePDF("LinkedIn Message", "Héllo! Interested in the Zürich rôle.")
	if err != nil {
		t.Fatalf("render: %v", err)
	}
	if !bytes.HasPrefix(got, []byte("%PDF-")) {
		t.Fatal("output is not a PDF")
	}
}
