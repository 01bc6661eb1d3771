package prompt

import _ "embed"

var (
	//go:embed prompts/job_details_system.txt
	jobDetailsSystem string
	//go:embed prompts/cover_letter_system.txt
	coverLetterSystem string
)

// JobDetailsSystem returns the system prompt for the job details
// extraction call.
func JobDetailsSystem() string {
	return jobDetailsSystem
}

// CoverLetterSystem returns the system prompt for the cover letter
// drafting call.
func CoverLetterSystem() string {
	return coverLetterSystem
}
