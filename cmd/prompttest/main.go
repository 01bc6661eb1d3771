package main

// Run the generation pipeline against a live provider without the HTTP
// server:
//   go run ./cmd/prompttest -resume resume.pdf -jd jd.txt -name "Jane Doe"

import (
	"context"
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"

	"applykit-backend/internal/generation"
	"applykit-backend/internal/llm"
	"applykit-backend/internal/llm/gemini"
	openai "applykit-backend/internal/llm/openai"
	"applykit-backend/internal/resumes"
	"applykit-backend/internal/sessions"
	"applykit-backend/internal/shared/config"
	"applykit-backend/internal/templates"
)

func main() {
	cfg := config.Load()

	resumePath := flag.String("resume", "", "Path to resume file (txt or pdf)")
	jdPath := flag.String("jd", "", "Path to job description file")
	name := flag.String("name", "Test Candidate", "Candidate full name")
	provider := flag.String("provider", cfg.LLMProvider, "LLM provider (openai or gemini)")
	model := flag.String("model", "", "LLM model (empty uses the provider default)")
	outDir := flag.String("out", "", "Directory to write rendered artifacts (optional)")
	flag.Parse()

	if strings.TrimSpace(*resumePath) == "" {
		exitErr("resume path is required")
	}
	if strings.TrimSpace(*jdPath) == "" {
		exitErr("jd path is required")
	}

	mimeType, err := mimeFromExt(*resumePath)
	if err != nil {
		exitErr(err.Error())
	}

	resumeBytes, err := os.ReadFile(*resumePath)
	if err != nil {
		exitErr(fmt.Sprintf("read resume: %v", err))
	}
	jdBytes, err := os.ReadFile(*jdPath)
	if err != nil {
		exitErr(fmt.Sprintf("read job description: %v", err))
	}

	ctx := context.Background()
	store := sessions.NewStore(0)
	templateStore := templates.NewStore()
	resumeSvc := resumes.NewService(store)
	sessionID := uuid.NewString()

	if _, err := resumeSvc.Upload(ctx, sessionID, filepath.Base(*resumePath), mimeType, resumeBytes); err != nil {
		exitErr(fmt.Sprintf("extract resume text: %v", err))
	}
	store.UpdateProfile(sessionID, sessions.PersonalInfo{FullName: *name})
	store.UpdateSettings(sessionID, sessions.Settings{
		Provider: *provider,
		Model:    *model,
		APIKey:   keyFor(cfg, *provider),
	})

	svc := &generation.Service{
		Sessions:        store,
		Templates:       templateStore,
		Factory:         buildFactory(),
		DefaultProvider: cfg.LLMProvider,
		DefaultModels: map[string]string{
			"openai": cfg.OpenAIModel,
			"gemini": cfg.GeminiModel,
		},
		Timeout: cfg.LLMTimeout,
	}

	session, err := svc.Generate(ctx, sessionID, string(jdBytes))
	if err != nil {
		exitErr(fmt.Sprintf("generate: %v", err))
	}

	for _, dt := range templates.AllTypes() {
		doc, ok := session.Documents[dt]
		if !ok {
			continue
		}
		fmt.Printf("==== %s ====\n%s\n\n", dt.Label(), doc.Text)
	}

	if strings.TrimSpace(*outDir) != "" {
		if err := writeArtifacts(*outDir, session); err != nil {
			exitErr(fmt.Sprintf("write artifacts: %v", err))
		}
		fmt.Printf("wrote artifacts to %s\n", *outDir)
	}
}

func writeArtifacts(dir string, session sessions.Session) error {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return err
	}
	for dt, doc := range session.Documents {
		base := filepath.Join(dir, string(dt))
		if err := os.WriteFile(base+".txt", []byte(doc.Text), 0o644); err != nil {
			return err
		}
		if err := os.WriteFile(base+".pdf", doc.PDF, 0o644); err != nil {
			return err
		}
	}
	return nil
}

func buildFactory() llm.Factory {
	return func(c llm.Config) (llm.Client, error) {
		switch c.Provider {
		case "gemini":
			return gemini.NewClient(context.Background(), c.APIKey, c.Model, c.Timeout)
		default:
			return openai.NewClient(c.APIKey, c.Model, c.Timeout)
		}
	}
}

func keyFor(cfg config.Config, provider string) string {
	if strings.ToLower(strings.TrimSpace(provider)) == "gemini" {
		return cfg.GeminiKey
	}
	return cfg.OpenAIKey
}

func mimeFromExt(path string) (string, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".txt":
		return "text/plain", nil
	case ".pdf":
		return "application/pdf", nil
	default:
		return "", fmt.Errorf("unsupported resume file type: %s", filepath.Ext(path))
	}
}

func exitErr(msg string) {
	_, _ = fmt.Fprintln(os.Stderr, msg)
	os.Exit(1)
}
