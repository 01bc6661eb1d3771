package generation

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"time"

	"golang.org/x/sync/errgroup"

	"applykit-backend/internal/llm"
	"applykit-backend/internal/prompt"
	"applykit-backend/internal/render"
	"applykit-backend/internal/sessions"
	"applykit-backend/internal/shared/metrics"
	"applykit-backend/internal/shared/telemetry"
	"applykit-backend/internal/templates"
)

const generationTemperature = 0.7

// Service runs the generation pipeline: extract structured job details
// from the description, draft the cover letter body, fill the message
// templates, and render every downloadable artifact. All outputs are
// published to the session in one step so readers never observe a
// partial result.
type Service struct {
	Sessions        *sessions.Store
	Templates       *templates.Store
	Factory         llm.Factory
	DefaultProvider string
	DefaultModels   map[string]string
	Timeout         time.Duration

	now func() time.Time
}

func (s *Service) clock() time.Time {
	if s.now != nil {
		return s.now()
	}
	return time.Now()
}

// Generate runs the full pipeline for one job description. On failure
// the session keeps its inputs and loses only the previous documents,
// so the user can retry immediately.
func (s *Service) Generate(ctx context.Context, sessionID, jobDescription string) (sessions.Session, error) {
	snapshot, err := s.Sessions.BeginGeneration(sessionID)
	if err != nil {
		return sessions.Session{}, err
	}

	metrics.IncGenerationStarted()
	started := s.clock()

	docs, info, err := s.run(ctx, snapshot, jobDescription)
	if err != nil {
		s.Sessions.FailGeneration(sessionID)
		metrics.IncGenerationFailed()
		telemetry.Warn("generation.failed", map[string]any{
			"session_id": sessionID,
			"error":      err.Error(),
		})
		return sessions.Session{}, err
	}

	s.Sessions.CompleteGeneration(sessionID, info, docs)
	metrics.IncGenerationCompleted()
	durationMs := float64(s.clock().Sub(started).Milliseconds())
	metrics.ObserveGenerationDurationMs(durationMs)
	telemetry.Info("generation.completed", map[string]any{
		"session_id":  sessionID,
		"company":     info.Company,
		"position":    info.Position,
		"duration_ms": durationMs,
	})
	return s.Sessions.Snapshot(sessionID), nil
}

func (s *Service) run(ctx context.Context, snapshot sessions.Session, jobDescription string) (map[templates.DocType]sessions.Document, sessions.GenerationInfo, error) {
	provider, model := snapshot.Settings.Effective(s.DefaultProvider, s.DefaultModels)
	client, err := s.Factory(llm.Config{
		Provider: provider,
		Model:    model,
		APIKey:   snapshot.Settings.APIKey,
		Timeout:  s.Timeout,
	})
	if err != nil {
		return nil, sessions.GenerationInfo{}, err
	}
	if closer, ok := client.(io.Closer); ok {
		defer closer.Close()
	}

	details, err := s.extractJobDetails(ctx, client, jobDescription, snapshot.ResumeText)
	if err != nil {
		return nil, sessions.GenerationInfo{}, err
	}
	sections, err := s.draftCoverSections(ctx, client, details, snapshot.ResumeText)
	if err != nil {
		return nil, sessions.GenerationInfo{}, err
	}

	tmpls := s.Templates.GetAll(snapshot.ID)
	values := substitutionValues(details, snapshot.PersonalInfo)

	coverValues := make(map[string]string, len(values)+3)
	for k, v := range values {
		coverValues[k] = v
	}
	coverValues["about_me"] = sections.AboutMe
	coverValues["why_company"] = sections.WhyCompany
	coverValues["why_me"] = sections.WhyMe
	coverText := prompt.Substitute(tmpls[templates.DocCoverLetter], coverValues)

	emailText := prompt.Substitute(tmpls[templates.DocFollowUpEmail], values)

	linkedinValues := make(map[string]string, len(values))
	for k, v := range values {
		linkedinValues[k] = v
	}
	linkedinValues["required_skills"] = details.FirstSkill()
	linkedinText := clampLinkedIn(prompt.Substitute(tmpls[templates.DocLinkedInMessage], linkedinValues))

	now := s.clock().UTC()

	var coverPDF, emailPDF, linkedinPDF []byte
	var g errgroup.Group
	g.Go(func() error {
		var err error
		coverPDF, err = render.CoverLetterPDF(coverLetterData(snapshot.PersonalInfo, details, sections, now))
		return err
	})
	g.Go(func() error {
		var err error
		emailPDF, err = render.SimplePDF(templates.DocFollowUpEmail.Label(), emailText)
		return err
	})
	g.Go(func() error {
		var err error
		linkedinPDF, err = render.SimplePDF(templates.DocLinkedInMessage.Label(), linkedinText)
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, sessions.GenerationInfo{}, err
	}

	docs := map[templates.DocType]sessions.Document{
		templates.DocCoverLetter:     {Type: templates.DocCoverLetter, Text: coverText, PDF: coverPDF, GeneratedAt: now},
		templates.DocFollowUpEmail:   {Type: templates.DocFollowUpEmail, Text: emailText, PDF: emailPDF, GeneratedAt: now},
		templates.DocLinkedInMessage: {Type: templates.DocLinkedInMessage, Text: linkedinText, PDF: linkedinPDF, GeneratedAt: now},
	}
	info := sessions.GenerationInfo{
		Company:     details.CompanyName,
		Position:    details.PositionTitle,
		GeneratedAt: now,
	}
	return docs, info, nil
}

func (s *Service) extractJobDetails(ctx context.Context, client llm.Client, jobDescription, resumeText string) (JobDetails, error) {
	raw, err := client.Complete(ctx, llm.CompletionRequest{
		System:      prompt.JobDetailsSystem(),
		User:        prompt.JobDetailsUser(jobDescription, resumeText),
		JSONMode:    true,
		Temperature: generationTemperature,
	})
	if err != nil {
		return JobDetails{}, err
	}
	details, err := ParseJobDetails(raw)
	if err != nil {
		return JobDetails{}, fmt.Errorf("%w: %v", llm.ErrGeneration, err)
	}
	return details, nil
}

func (s *Service) draftCoverSections(ctx context.Context, client llm.Client, details JobDetails, resumeText string) (CoverSections, error) {
	payload, err := json.MarshalIndent(details, "", "  ")
	if err != nil {
		return CoverSections{}, fmt.Errorf("%w: %v", llm.ErrGeneration, err)
	}
	raw, err := client.Complete(ctx, llm.CompletionRequest{
		System:      prompt.CoverLetterSystem(),
		User:        prompt.CoverLetterUser(string(payload), resumeText),
		Temperature: generationTemperature,
	})
	if err != nil {
		return CoverSections{}, err
	}
	sections, err := ParseCoverSections(raw)
	if err != nil {
		return CoverSections{}, fmt.Errorf("%w: %v", llm.ErrGeneration, err)
	}
	return sections, nil
}

// substitutionValues merges job details and personal info into the
// placeholder map templates are filled from.
func substitutionValues(details JobDetails, info sessions.PersonalInfo) map[string]string {
	return map[string]string{
		"company_name":        details.CompanyName,
		"position_title":      details.PositionTitle,
		"hiring_manager_name": details.HiringManagerName,
		"specific_work":       details.SpecificWork,
		"required_skills":     details.RequiredSkills,
		"company_mission":     details.CompanyMission,
		"candidate_matches":   details.CandidateMatches,
		"full_name":           info.FullName,
		"location":            info.Location,
		"phone":               info.Phone,
		"email":               info.Email,
		"linkedin":            info.LinkedIn,
		"portfolio":           info.Portfolio,
		"github":              info.GitHub,
	}
}

// clampLinkedIn enforces the 200 character connection note limit.
func clampLinkedIn(message string) string {
	runes := []rune(message)
	if len(runes) <= 200 {
		return message
	}
	return string(runes[:197]) + "..."
}

func coverLetterData(info sessions.PersonalInfo, details JobDetails, sections CoverSections, when time.Time) render.CoverLetterData {
	return render.CoverLetterData{
		FullName:      info.FullName,
		Location:      info.Location,
		Phone:         info.Phone,
		Email:         info.Email,
		LinkedIn:      info.LinkedIn,
		Portfolio:     info.Portfolio,
		GitHub:        info.GitHub,
		Company:       details.CompanyName,
		Position:      details.PositionTitle,
		HiringManager: details.HiringManagerName,
		AboutMe:       sections.AboutMe,
		WhyCompany:    sections.WhyCompany,
		WhyMe:         sections.WhyMe,
		Date:          when,
	}
}
