package templates

import (
	"errors"
	"fmt"
	"strings"
)

// DocType names one of the generated document kinds. Each type carries
// its own template and its own generated output.
type DocType string

const (
	DocCoverLetter     DocType = "cover_letter"
	DocFollowUpEmail   DocType = "follow_up_email"
	DocLinkedInMessage DocType = "linkedin_message"
)

// ErrUnknownType reports a document type outside the supported set.
var ErrUnknownType = errors.New("unknown document type")

// AllTypes returns the supported document types in display order.
func AllTypes() []DocType {
	return []DocType{DocCoverLetter, DocFollowUpEmail, DocLinkedInMessage}
}

// ParseDocType validates a raw route or payload value.
func ParseDocType(raw string) (DocType, error) {
	switch DocType(strings.ToLower(strings.TrimSpace(raw))) {
	case DocCoverLetter:
		return DocCoverLetter, nil
	case DocFollowUpEmail:
		return DocFollowUpEmail, nil
	case DocLinkedInMessage:
		return DocLinkedInMessage, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrUnknownType, raw)
	}
}

// Label returns a human-readable name for the document type.
func (d DocType) Label() string {
	switch d {
	case DocCoverLetter:
		return "Cover Letter"
	case DocFollowUpEmail:
		return "Follow-Up Email"
	case DocLinkedInMessage:
		return "LinkedIn Message"
	default:
		return string(d)
	}
}
