package render

import (
	"fmt"
	"strings"
)

// Text returns the plain-text artifact for a generated document.
// The bytes are exactly the generated text so an edited document
// round-trips unchanged through download.
func Text(content string) ([]byte, error) {
	if strings.TrimSpace(content) == "" {
		return nil, fmt.Errorf("%w: document text is empty", ErrRender)
	}
	return []byte(content), nil
}
