package bootstrap

import (
	"context"
	"strings"

	"github.com/gin-gonic/gin"

	"applykit-backend/internal/generation"
	"applykit-backend/internal/llm"
	"applykit-backend/internal/llm/gemini"
	openai "applykit-backend/internal/llm/openai"
	"applykit-backend/internal/resumes"
	"applykit-backend/internal/sessions"
	"applykit-backend/internal/shared/config"
	"applykit-backend/internal/shared/server"
	"applykit-backend/internal/shared/server/middleware"
	"applykit-backend/internal/templates"
)

// App holds shared dependencies and the wired router.
type App struct {
	Config config.Config
	Router *gin.Engine

	Sessions  *sessions.Store
	Templates *templates.Store
	Limiter   *middleware.RateLimiter

	ResumeService     *resumes.Service
	GenerationService *generation.Service

	SessionHandler    *sessions.Handler
	ResumeHandler     *resumes.Handler
	TemplateHandler   *templates.Handler
	GenerationHandler *generation.Handler
}

// Build prepares shared dependencies and wires routes.
func Build(cfg config.Config) (*App, error) {
	if strings.TrimSpace(cfg.Env) == "" {
		cfg.Env = "dev"
	}
	if strings.TrimSpace(cfg.LLMProvider) == "" {
		cfg.LLMProvider = "openai"
	}

	defaultModels := map[string]string{
		"openai": cfg.OpenAIModel,
		"gemini": cfg.GeminiModel,
	}

	sessionStore := sessions.NewStore(cfg.SessionTTL)
	templateStore := templates.NewStore()
	// Template overrides live and die with their session.
	sessionStore.OnEvict(templateStore.Drop)

	resumeSvc := resumes.NewService(sessionStore)
	generationSvc := &generation.Service{
		Sessions:        sessionStore,
		Templates:       templateStore,
		Factory:         buildLLMFactory(cfg),
		DefaultProvider: cfg.LLMProvider,
		DefaultModels:   defaultModels,
		Timeout:         cfg.LLMTimeout,
	}

	app := &App{
		Config:            cfg,
		Sessions:          sessionStore,
		Templates:         templateStore,
		Limiter:           middleware.NewRateLimiter(nil),
		ResumeService:     resumeSvc,
		GenerationService: generationSvc,
		SessionHandler:    sessions.NewHandler(sessionStore, cfg.LLMProvider, defaultModels),
		ResumeHandler:     resumes.NewHandler(resumeSvc, cfg.MaxUploadBytes, cfg.LLMProvider, defaultModels),
		TemplateHandler:   templates.NewHandler(templateStore),
		GenerationHandler: generation.NewHandler(generationSvc),
	}

	app.Router = server.NewRouter(cfg, server.RouterDeps{
		Sessions:   app.SessionHandler,
		Resumes:    app.ResumeHandler,
		Templates:  app.TemplateHandler,
		Generation: app.GenerationHandler,
		Limiter:    app.Limiter,
	})

	return app, nil
}

// buildLLMFactory maps resolved session settings onto a provider client.
// Session keys take precedence; the server-side keys from the
// environment are the fallback so local deployments work without the UI
// ever seeing a key.
func buildLLMFactory(cfg config.Config) llm.Factory {
	return func(c llm.Config) (llm.Client, error) {
		key := strings.TrimSpace(c.APIKey)
		switch c.Provider {
		case "gemini":
			if key == "" {
				key = cfg.GeminiKey
			}
			return gemini.NewClient(context.Background(), key, c.Model, c.Timeout)
		default:
			if key == "" {
				key = cfg.OpenAIKey
			}
			return openai.NewClient(key, c.Model, c.Timeout)
		}
	}
}
