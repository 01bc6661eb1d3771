package render

import (
	"bytes"
	"fmt"
	"strings"
	"time"

	"github.com/go-pdf/fpdf"
)

const (
	pageMargin  = 50.0
	fontFamily  = "Helvetica"
	bodySize    = 10.0
	bodyLineH   = 14.0
	headingSize = 12.0
	nameSize    = 18.0
)

// CoverLetterData carries everything the letterhead layout places on
// the page. Optional contact fields are skipped when empty.
type CoverLetterData struct {
	FullName      string
	Location      string
	Phone         string
	Email         string
	LinkedIn      string
	Portfolio     string
	GitHub        string
	Company       string
	Position      string
	HiringManager string
	AboutMe       string
	WhyCompany    string
	WhyMe         string
	Date          time.Time
}

// CoverLetterPDF renders the letterhead cover letter: a centered
// identity block, company and date row, underlined position line, the
// three content sections, and a signature.
func CoverLetterPDF(data CoverLetterData) ([]byte, error) {
	if strings.TrimSpace(data.AboutMe+data.WhyCompany+data.WhyMe) == "" {
		return nil, fmt.Errorf("%w: cover letter has no content", ErrRender)
	}

	pdf := newLetterPage()
	tr := pdf.UnicodeTranslatorFromDescriptor("")

	pageW, _ := pdf.GetPageSize()
	usable := pageW - 2*pageMargin

	pdf.SetFont(fontFamily, "B", nameSize)
	pdf.CellFormat(usable, 22, tr(data.FullName), "", 1, "C", false, 0, "")
	if data.Location != "" {
		pdf.SetFont(fontFamily, "", bodySize)
		pdf.CellFormat(usable, bodyLineH, tr(data.Location), "", 1, "C", false, 0, "")
	}
	pdf.Ln(5)
	writeContactLine(pdf, tr, usable, contactSegments(data))
	pdf.Ln(30)

	when := data.Date
	if when.IsZero() {
		when = time.Now()
	}
	pdf.SetFont(fontFamily, "", bodySize)
	pdf.CellFormat(usable/2, bodyLineH, tr(data.Company+" Recruitment Team"), "", 0, "L", false, 0, "")
	pdf.CellFormat(usable/2, bodyLineH, when.Format("January 02, 2006"), "", 1, "R", false, 0, "")
	pdf.Ln(30)

	pdf.SetFont(fontFamily, "BU", bodySize+1)
	pdf.CellFormat(usable, bodyLineH, tr("Job application for "+data.Position), "", 1, "L", false, 0, "")
	pdf.Ln(20)

	pdf.SetFont(fontFamily, "", bodySize)
	pdf.CellFormat(usable, bodyLineH, tr("Dear "+data.HiringManager+","), "", 1, "L", false, 0, "")
	pdf.Ln(5)

	sections := []struct{ title, body string }{
		{"About Me", data.AboutMe},
		{"Why " + data.Company + "?", data.WhyCompany},
		{"Why Me?", data.WhyMe},
	}
	for _, s := range sections {
		pdf.SetFont(fontFamily, "BI", headingSize)
		pdf.CellFormat(usable, 18, tr(s.title), "", 1, "L", false, 0, "")
		pdf.SetFont(fontFamily, "", bodySize)
		pdf.MultiCell(usable, bodyLineH, tr(s.body), "", "L", false)
		pdf.Ln(10)
	}

	pdf.Ln(10)
	pdf.SetFont(fontFamily, "", bodySize)
	pdf.CellFormat(usable, bodyLineH, "Sincerely,", "", 1, "L", false, 0, "")
	pdf.CellFormat(usable, bodyLineH, tr(data.FullName), "", 1, "L", false, 0, "")

	return output(pdf)
}

// SimplePDF renders a single-heading document, such as the follow-up
// email or LinkedIn message, as a title plus wrapped paragraphs.
func SimplePDF(title, body string) ([]byte, error) {
	if strings.TrimSpace(body) == "" {
		return nil, fmt.Errorf("%w: document text is empty", ErrRender)
	}

	pdf := newLetterPage()
	tr := pdf.UnicodeTranslatorFromDescriptor("")

	pageW, _ := pdf.GetPageSize()
	usable := pageW - 2*pageMargin

	pdf.SetFont(fontFamily, "B", 14)
	pdf.CellFormat(usable, 20, tr(title), "", 1, "L", false, 0, "")
	pdf.Ln(8)

	pdf.SetFont(fontFamily, "", bodySize+1)
	pdf.MultiCell(usable, bodyLineH+1, tr(body), "", "L", false)

	return output(pdf)
}

func newLetterPage() *fpdf.Fpdf {
	pdf := fpdf.New("P", "pt", "Letter", "")
	pdf.SetMargins(pageMargin, pageMargin, pageMargin)
	pdf.SetAutoPageBreak(true, pageMargin)
	pdf.AddPage()
	return pdf
}

type contactSegment struct {
	text string
	link string
}

func contactSegments(data CoverLetterData) []contactSegment {
	var segs []contactSegment
	if data.Phone != "" {
		segs = append(segs, contactSegment{text: data.Phone})
	}
	if data.LinkedIn != "" {
		segs = append(segs, contactSegment{text: "LinkedIn", link: data.LinkedIn})
	}
	if data.Portfolio != "" {
		segs = append(segs, contactSegment{text: "Portfolio", link: data.Portfolio})
	}
	if data.GitHub != "" {
		segs = append(segs, contactSegment{text: "Github", link: data.GitHub})
	}
	if data.Email != "" {
		segs = append(segs, contactSegment{text: data.Email, link: "mailto:" + data.Email})
	}
	return segs
}

// writeContactLine centers the "phone | LinkedIn | ... | email" row,
// rendering linked segments in underlined blue.
func writeContactLine(pdf *fpdf.Fpdf, tr func(string) string, usable float64, segs []contactSegment) {
	if len(segs) == 0 {
		return
	}

	const sep = " | "
	pdf.SetFont(fontFamily, "", bodySize)
	total := float64(len(segs)-1) * pdf.GetStringWidth(sep)
	for _, s := range segs {
		total += pdf.GetStringWidth(tr(s.text))
	}

	pdf.SetX(pageMargin + (usable-total)/2)
	for i, s := range segs {
		if i > 0 {
			pdf.SetFont(fontFamily, "", bodySize)
			pdf.SetTextColor(0, 0, 0)
			pdf.Write(bodyLineH, sep)
		}
		if s.link != "" {
			pdf.SetFont(fontFamily, "U", bodySize)
			pdf.SetTextColor(0, 0, 255)
			pdf.WriteLinkString(bodyLineH, tr(s.text), s.link)
		} else {
			pdf.SetFont(fontFamily, "", bodySize)
			pdf.SetTextColor(0, 0, 0)
			pdf.Write(bodyLineH, tr(s.text))
		}
	}
	pdf.SetFont(fontFamily, "", bodySize)
	pdf.SetTextColor(0, 0, 0)
	pdf.Ln(bodyLineH)
}

func output(pdf *fpdf.Fpdf) ([]byte, error) {
	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrRender, err)
	}
	return buf.Bytes(), nil
}
