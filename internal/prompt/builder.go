// Package prompt builds the instruction payloads sent to the language
// model and performs placeholder substitution over document templates.
// Everything here is a pure function of its inputs.
package prompt

import (
	"sort"
	"strings"
)

// Substitute replaces every {name} token that has an entry in values.
// Tokens without an entry pass through verbatim; that is documented
// behavior, template authors may use tokens this system never fills.
func Substitute(template string, values map[string]string) string {
	if len(values) == 0 {
		return template
	}
	keys := make([]string, 0, len(values))
	for k := range values {
		if strings.TrimSpace(k) == "" {
			continue
		}
		keys = append(keys, k)
	}
	sort.Strings(keys)

	pairs := make([]string, 0, len(keys)*2)
	for _, k := range keys {
		pairs = append(pairs, "{"+k+"}", values[k])
	}
	return strings.NewReplacer(pairs...).Replace(template)
}

// JobDetailsUser assembles the user payload for the job details
// extraction call.
func JobDetailsUser(jobDescription, resumeText string) string {
	var b strings.Builder
	b.WriteString("Job Description:\n")
	b.WriteString(strings.TrimSpace(jobDescription))
	b.WriteString("\n\nCandidate's Resume:\n")
	b.WriteString(strings.TrimSpace(resumeText))
	return b.String()
}

// CoverLetterUser assembles the user payload for the cover letter
// drafting call. jobDetailsJSON is the structured output of the
// extraction stage.
func CoverLetterUser(jobDetailsJSON, resumeText string) string {
	var b strings.Builder
	b.WriteString("Job Information:\n")
	b.WriteString(strings.TrimSpace(jobDetailsJSON))
	b.WriteString("\n\nCandidate's Resume:\n")
	b.WriteString(strings.TrimSpace(resumeText))
	return b.String()
}
