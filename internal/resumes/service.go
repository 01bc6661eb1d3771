package resumes

import (
	"context"
	"strings"

	"applykit-backend/internal/extract"
	"applykit-backend/internal/sessions"
	"applykit-backend/internal/shared/metrics"
	"applykit-backend/internal/shared/util"
)

// Service turns uploads into session resume text.
type Service struct {
	Sessions *sessions.Store
}

func NewService(store *sessions.Store) *Service {
	return &Service{Sessions: store}
}

// Upload extracts text from the uploaded file and stores it on the
// session. A failed extraction leaves the previous resume untouched.
func (s *Service) Upload(ctx context.Context, sessionID, fileName, mimeType string, data []byte) (sessions.Session, error) {
	text, err := extract.ExtractText(ctx, data, mimeType, fileName)
	if err != nil {
		return sessions.Session{}, err
	}

	// The name is provenance only; a hostile one is dropped, not fatal.
	clean, err := util.SanitizeFileName(fileName)
	if err != nil {
		clean = ""
	}

	metrics.IncResumeUpload()
	return s.Sessions.SetResume(sessionID, text, clean), nil
}

// Edit replaces the resume text directly, covering the fix-up flow
// after an imperfect extraction.
func (s *Service) Edit(sessionID, text string) sessions.Session {
	return s.Sessions.UpdateResumeText(sessionID, strings.TrimSpace(text))
}
