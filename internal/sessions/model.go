package sessions

import (
	"time"

	"applykit-backend/internal/templates"
)

// State is the lifecycle position of a session, derived from its data
// rather than stored.
type State string

const (
	StateIdle         State = "idle"
	StateResumeLoaded State = "resume_loaded"
	StateConfigured   State = "configured"
	StateGenerating   State = "generating"
	StateReady        State = "ready"
)

// PersonalInfo is the applicant identity block placed on generated
// documents. Only the full name is required.
type PersonalInfo struct {
	FullName  string `json:"fullName"`
	Location  string `json:"location,omitempty"`
	Phone     string `json:"phone,omitempty"`
	Email     string `json:"email,omitempty"`
	LinkedIn  string `json:"linkedin,omitempty"`
	Portfolio string `json:"portfolio,omitempty"`
	GitHub    string `json:"github,omitempty"`
}

// Settings selects the provider used for generation. The API key lives
// in memory only and never appears in responses or logs.
type Settings struct {
	Provider string
	Model    string
	APIKey   string
}

// Effective resolves the provider and model to use, falling back to the
// server defaults when the session never chose them.
func (s Settings) Effective(defaultProvider string, defaultModels map[string]string) (provider, model string) {
	provider = s.Provider
	if provider == "" {
		provider = defaultProvider
	}
	model = s.Model
	if model == "" {
		model = defaultModels[provider]
	}
	return provider, model
}

// Document is one generated output together with its downloadable
// artifacts.
type Document struct {
	Type        templates.DocType
	Text        string
	PDF         []byte
	GeneratedAt time.Time
}

// GenerationInfo records which opening the last successful generation
// targeted, used for download filenames and the session view.
type GenerationInfo struct {
	Company     string
	Position    string
	GeneratedAt time.Time
}

// Session is the per-user working state. All fields are guarded by the
// owning Store's lock; callers outside the store only ever see clones.
type Session struct {
	ID             string
	PersonalInfo   PersonalInfo
	Settings       Settings
	ResumeText     string
	ResumeFileName string
	Documents      map[templates.DocType]Document
	LastGeneration GenerationInfo
	Generating     bool
	CreatedAt      time.Time
	LastSeen       time.Time
}

// State derives the lifecycle position from the session's data. A
// failed generation clears the documents, which lands the session back
// in configured for a retry.
func (s *Session) State() State {
	switch {
	case s.Generating:
		return StateGenerating
	case len(s.Documents) > 0:
		return StateReady
	case s.ResumeText != "" && s.PersonalInfo.FullName != "" && s.Settings.APIKey != "":
		return StateConfigured
	case s.ResumeText != "":
		return StateResumeLoaded
	default:
		return StateIdle
	}
}

// clone returns a copy safe to use outside the store lock. Document
// byte slices are shared but never mutated after publish.
func (s *Session) clone() Session {
	out := *s
	if s.Documents != nil {
		out.Documents = make(map[templates.DocType]Document, len(s.Documents))
		for k, v := range s.Documents {
			out.Documents[k] = v
		}
	}
	return out
}
