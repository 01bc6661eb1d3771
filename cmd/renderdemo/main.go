package main

import (
	"bytes"
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"applykit-backend/internal/render"
)

func main() {
	outDir := flag.String("out", "./out", "output directory for rendered samples")
	flag.Parse()

	coverPDF, err := render.CoverLetterPDF(sampleCoverLetter())
	if err != nil {
		fmt.Fprintf(os.Stderr, "render cover letter: %v\n", err)
		os.Exit(1)
	}
	emailPDF, err := render.SimplePDF("Follow-Up Email", sampleEmail())
	if err != nil {
		fmt.Fprintf(os.Stderr, "render email: %v\n", err)
		os.Exit(1)
	}
	linkedinPDF, err := render.SimplePDF("LinkedIn Message", "Hello! I'm interested in the Backend Engineer opportunity at Acme Corp.")
	if err != nil {
		fmt.Fprintf(os.Stderr, "render linkedin message: %v\n", err)
		os.Exit(1)
	}

	files := map[string][]byte{
		"cover_letter.pdf":     coverPDF,
		"follow_up_email.pdf":  emailPDF,
		"linkedin_message.pdf": linkedinPDF,
	}

	if err := os.MkdirAll(*outDir, 0o755); err != nil {
		fmt.Fprintf(os.Stderr, "create output dir: %v\n", err)
		os.Exit(1)
	}
	for name, data := range files {
		if err := validatePDF(data); err != nil {
			fmt.Fprintf(os.Stderr, "%s failed validation: %v\n", name, err)
			os.Exit(1)
		}
		path := filepath.Join(*outDir, name)
		if err := os.WriteFile(path, data, 0o644); err != nil {
			fmt.Fprintf(os.Stderr, "write %s: %v\n", path, err)
			os.Exit(1)
		}
	}

	fmt.Printf("OK: wrote %d files to %s\n", len(files), *outDir)
}

func sampleCoverLetter() render.CoverLetterData {
	return render.CoverLetterData{
		FullName:      "Jordan Lee",
		Location:      "Austin, TX",
		Phone:         "+1-555-0102",
		Email:         "jordan.lee@example.com",
		LinkedIn:      "https://www.linkedin.com/in/jordanlee",
		GitHub:        "https://github.com/jordanlee",
		Company:       "Acme Corp",
		Position:      "Backend Engineer",
		HiringManager: "John Smith",
		AboutMe:       "Backend engineer with 8+ years of experience building resilient APIs and data services.",
		WhyCompany:    "Acme ships reliable infrastructure that millions of people depend on, which is exactly the scale of problem I want to work on.",
		WhyMe:         "• Designed a routing service that reduced shipment latency by 18%\n• Implemented distributed tracing to cut incident triage time by 35%",
		Date:          time.Now(),
	}
}

func sampleEmail() string {
	return "Subject: Application Follow-Up - Backend Engineer Position\n\n" +
		"Dear John Smith,\n\n" +
		"I'm writing to follow up on my application for the Backend Engineer position at Acme Corp.\n\n" +
		"Best regards,\nJordan Lee"
}

func validatePDF(data []byte) error {
	if !bytes.HasPrefix(data, []byte("%PDF-")) {
		return fmt.Errorf("missing PDF header")
	}
	if len(data) < 500 {
		return fmt.Errorf("suspiciously small output (%d bytes)", len(data))
	}
	return nil
}
