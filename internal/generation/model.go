package generation

import (
	"encoding/json"
	"errors"
	"strings"
)

// JobDetails is the structured read of a job description produced by
// the extraction stage. Field names mirror the JSON schema the model
// is instructed to return.
type JobDetails struct {
	CompanyName       string `json:"company_name"`
	PositionTitle     string `json:"position_title"`
	HiringManagerName string `json:"hiring_manager_name"`
	SpecificWork      string `json:"specific_work"`
	RequiredSkills    string `json:"required_skills"`
	CompanyMission    string `json:"company_mission"`
	CandidateMatches  string `json:"candidate_matches"`
}

// fallbacks fill fields the model left blank so templates never render
// empty holes.
var fallbacks = JobDetails{
	CompanyName:       "Company Name",
	PositionTitle:     "Position Title",
	HiringManagerName: "Hiring Manager",
	SpecificWork:      "contribute to the team's projects",
	RequiredSkills:    "• Required skill 1<br/>• Required skill 2<br/>• Required skill 3",
	CompanyMission:    "company mission and values",
	CandidateMatches:  "• Match 1<br/>• Match 2<br/>• Match 3<br/>• Match 4<br/>• Match 5",
}

// ParseJobDetails decodes the extraction stage output. When the model
// wraps the JSON in prose, the span from the first '{' to the last '}'
// is retried before giving up.
func ParseJobDetails(raw string) (JobDetails, error) {
	var details JobDetails
	if err := json.Unmarshal([]byte(raw), &details); err != nil {
		recovered, ok := extractJSONObject(raw)
		if !ok {
			return JobDetails{}, errors.New("extraction output is not a JSON object")
		}
		if err := json.Unmarshal([]byte(recovered), &details); err != nil {
			return JobDetails{}, errors.New("extraction output is not a JSON object")
		}
	}
	details.applyFallbacks()
	return details, nil
}

func (d *JobDetails) applyFallbacks() {
	if strings.TrimSpace(d.CompanyName) == "" {
		d.CompanyName = fallbacks.CompanyName
	}
	if strings.TrimSpace(d.PositionTitle) == "" {
		d.PositionTitle = fallbacks.PositionTitle
	}
	if strings.TrimSpace(d.HiringManagerName) == "" {
		d.HiringManagerName = fallbacks.HiringManagerName
	}
	if strings.TrimSpace(d.SpecificWork) == "" {
		d.SpecificWork = fallbacks.SpecificWork
	}
	if strings.TrimSpace(d.RequiredSkills) == "" {
		d.RequiredSkills = fallbacks.RequiredSkills
	}
	if strings.TrimSpace(d.CompanyMission) == "" {
		d.CompanyMission = fallbacks.CompanyMission
	}
	if strings.TrimSpace(d.CandidateMatches) == "" {
		d.CandidateMatches = fallbacks.CandidateMatches
	}
}

// FirstSkill returns the leading bullet of the required skills list,
// used to personalize the LinkedIn message.
func (d JobDetails) FirstSkill() string {
	first, _, _ := strings.Cut(d.RequiredSkills, "<br/>")
	return strings.Trim(first, "• ")
}

func extractJSONObject(s string) (string, bool) {
	start := strings.Index(s, "{")
	end := strings.LastIndex(s, "}")
	if start < 0 || end <= start {
		return "", false
	}
	return s[start : end+1], true
}

// CoverSections holds the three cover letter body sections returned by
// the drafting stage.
type CoverSections struct {
	AboutMe    string
	WhyCompany string
	WhyMe      string
}

// ParseCoverSections splits the drafting stage output on the section
// markers the prompt demands. Missing or empty sections are errors;
// the caller surfaces them as a failed generation rather than shipping
// a half-filled letter.
func ParseCoverSections(content string) (CoverSections, error) {
	head, rest, ok := strings.Cut(content, "why_company:")
	if !ok {
		return CoverSections{}, errors.New("drafting output missing why_company section")
	}
	whyCompany, whyMe, ok := strings.Cut(rest, "why_me:")
	if !ok {
		return CoverSections{}, errors.New("drafting output missing why_me section")
	}

	sections := CoverSections{
		AboutMe:    strings.TrimSpace(strings.ReplaceAll(head, "about_me:", "")),
		WhyCompany: strings.TrimSpace(whyCompany),
		WhyMe:      strings.TrimSpace(whyMe),
	}
	if sections.AboutMe == "" || sections.WhyCompany == "" || sections.WhyMe == "" {
		return CoverSections{}, errors.New("drafting output has an empty section")
	}
	return sections, nil
}
