package sessions

import (
	"time"
	"unicode/utf8"

	"applykit-backend/internal/templates"
)

// SessionView is the API representation of a session. The API key is
// reduced to a presence flag and never leaves the process.
type SessionView struct {
	SessionID      string          `json:"sessionId"`
	State          State           `json:"state"`
	PersonalInfo   PersonalInfo    `json:"personalInfo"`
	Settings       SettingsView    `json:"settings"`
	Resume         *ResumeView     `json:"resume,omitempty"`
	Documents      []DocumentView  `json:"documents"`
	LastGeneration *GenerationView `json:"lastGeneration,omitempty"`
}

type SettingsView struct {
	Provider  string `json:"provider"`
	Model     string `json:"model"`
	HasAPIKey bool   `json:"hasApiKey"`
}

type ResumeView struct {
	FileName   string `json:"fileName,omitempty"`
	Characters int    `json:"characters"`
	Text       string `json:"text"`
}

type DocumentView struct {
	Type        templates.DocType `json:"type"`
	Label       string            `json:"label"`
	Characters  int               `json:"characters"`
	GeneratedAt time.Time         `json:"generatedAt"`
}

type GenerationView struct {
	Company     string    `json:"company"`
	Position    string    `json:"position"`
	GeneratedAt time.Time `json:"generatedAt"`
}

// View renders a session clone for API responses.
func View(s Session, defaultProvider string, defaultModels map[string]string) SessionView {
	provider, model := s.Settings.Effective(defaultProvider, defaultModels)
	view := SessionView{
		SessionID:    s.ID,
		State:        s.State(),
		PersonalInfo: s.PersonalInfo,
		Settings: SettingsView{
			Provider:  provider,
			Model:     model,
			HasAPIKey: s.Settings.APIKey != "",
		},
		Documents: make([]DocumentView, 0, len(s.Documents)),
	}

	if s.ResumeText != "" {
		view.Resume = &ResumeView{
			FileName:   s.ResumeFileName,
			Characters: utf8.RuneCountInString(s.ResumeText),
			Text:       s.ResumeText,
		}
	}

	for _, dt := range templates.AllTypes() {
		doc, ok := s.Documents[dt]
		if !ok {
			continue
		}
		view.Documents = append(view.Documents, DocumentView{
			Type:        doc.Type,
			Label:       dt.Label(),
			Characters:  utf8.RuneCountInString(doc.Text),
			GeneratedAt: doc.GeneratedAt,
		})
	}

	if !s.LastGeneration.GeneratedAt.IsZero() {
		view.LastGeneration = &GenerationView{
			Company:     s.LastGeneration.Company,
			Position:    s.LastGeneration.Position,
			GeneratedAt: s.LastGeneration.GeneratedAt,
		}
	}

	return view
}
