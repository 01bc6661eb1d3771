package generation

import (
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"applykit-backend/internal/llm"
	"applykit-backend/internal/render"
	"applykit-backend/internal/sessions"
	"applykit-backend/internal/shared/metrics"
	"applykit-backend/internal/shared/server/middleware"
	"applykit-backend/internal/shared/server/respond"
	"applykit-backend/internal/shared/util"
	"applykit-backend/internal/templates"
)

// Handler wires the generation pipeline and document downloads.
type Handler struct {
	Svc *Service
}

// NewHandler constructs a Handler.
func NewHandler(svc *Service) *Handler {
	return &Handler{Svc: svc}
}

// RegisterRoutes attaches generation routes to the router group. The
// generate route is registered separately so the router can rate limit
// it on its own.
func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.GET("/documents", h.list)
	rg.GET("/documents/:type/download", h.download)
}

// RegisterGenerateRoute attaches the generation trigger, optionally
// behind extra middleware such as a rate limiter.
func (h *Handler) RegisterGenerateRoute(rg *gin.RouterGroup, mw ...gin.HandlerFunc) {
	handlers := append(append([]gin.HandlerFunc{}, mw...), h.generate)
	rg.POST("/generate", handlers...)
}

type generateRequest struct {
	JobDescription string `json:"jobDescription"`
}

func (h *Handler) generate(c *gin.Context) {
	sessionID := middleware.SessionIDFromContext(c)

	var req generateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respond.Error(c, http.StatusBadRequest, "validation_error", "invalid request body", nil)
		return
	}
	req.JobDescription = strings.TrimSpace(req.JobDescription)
	if req.JobDescription == "" {
		respond.Error(c, http.StatusBadRequest, "validation_error", "jobDescription is required", nil)
		return
	}

	session, err := h.Svc.Generate(c.Request.Context(), sessionID, req.JobDescription)
	if err != nil {
		h.respondGenerateError(c, err)
		return
	}

	c.Set("stateTransition", string(session.State()))
	respond.OK(c, sessions.View(session, h.Svc.DefaultProvider, h.Svc.DefaultModels))
}

func (h *Handler) respondGenerateError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, sessions.ErrGenerationBusy):
		respond.Error(c, http.StatusConflict, "generation_in_flight", "a generation request is already running for this session", nil)
	case errors.Is(err, sessions.ErrNotReady):
		respond.Error(c, http.StatusConflict, "not_configured", err.Error(), nil)
	case errors.Is(err, llm.ErrAuthentication):
		respond.Error(c, http.StatusUnauthorized, "authentication_failed", "the provider rejected the API key", nil)
	case errors.Is(err, llm.ErrRateLimited):
		respond.Error(c, http.StatusTooManyRequests, "rate_limited", "the provider is throttling requests, try again shortly", nil)
	case errors.Is(err, llm.ErrNetwork):
		respond.Error(c, http.StatusBadGateway, "upstream_unreachable", "could not reach the language model provider", nil)
	case errors.Is(err, llm.ErrGeneration):
		respond.Error(c, http.StatusBadGateway, "generation_failed", "the language model returned an unusable response", nil)
	case errors.Is(err, render.ErrRender):
		respond.Error(c, http.StatusInternalServerError, "render_failed", "could not render the generated documents", nil)
	default:
		respond.Error(c, http.StatusInternalServerError, "internal", "generation failed unexpectedly", nil)
	}
}

type documentResponse struct {
	Type        templates.DocType `json:"type"`
	Label       string            `json:"label"`
	Text        string            `json:"text"`
	GeneratedAt time.Time         `json:"generatedAt"`
}

func (h *Handler) list(c *gin.Context) {
	sessionID := middleware.SessionIDFromContext(c)
	snapshot := h.Svc.Sessions.Snapshot(sessionID)

	out := make([]documentResponse, 0, len(snapshot.Documents))
	for _, dt := range templates.AllTypes() {
		doc, ok := snapshot.Documents[dt]
		if !ok {
			continue
		}
		out = append(out, documentResponse{
			Type:        doc.Type,
			Label:       dt.Label(),
			Text:        doc.Text,
			GeneratedAt: doc.GeneratedAt,
		})
	}
	respond.OK(c, gin.H{"documents": out})
}

func (h *Handler) download(c *gin.Context) {
	sessionID := middleware.SessionIDFromContext(c)

	dt, err := templates.ParseDocType(c.Param("type"))
	if err != nil {
		respond.Error(c, http.StatusNotFound, "unknown_document_type", "unknown document type", nil)
		return
	}
	format := strings.ToLower(strings.TrimSpace(c.DefaultQuery("format", "txt")))
	if format != "txt" && format != "pdf" {
		respond.Error(c, http.StatusBadRequest, "validation_error", "format must be txt or pdf", nil)
		return
	}

	doc, ok := h.Svc.Sessions.Document(sessionID, dt)
	if !ok {
		respond.Error(c, http.StatusNotFound, "no_documents", "generate documents before downloading", nil)
		return
	}

	snapshot := h.Svc.Sessions.Snapshot(sessionID)
	name := downloadFileName(snapshot.LastGeneration.Company, dt, format)

	var payload []byte
	contentType := "text/plain; charset=utf-8"
	switch format {
	case "pdf":
		payload = doc.PDF
		contentType = "application/pdf"
		if len(payload) == 0 {
			respond.Error(c, http.StatusInternalServerError, "render_failed", "no rendered artifact for this document", nil)
			return
		}
	default:
		payload, err = render.Text(doc.Text)
		if err != nil {
			respond.Error(c, http.StatusInternalServerError, "render_failed", "no text artifact for this document", nil)
			return
		}
	}

	metrics.IncDocumentDownload()
	c.Set("documentType", string(dt))
	c.Header("Content-Disposition", `attachment; filename="`+name+`"`)
	c.Data(http.StatusOK, contentType, payload)
}

// downloadFileName builds names like acme_corp_cover_letter.pdf.
func downloadFileName(company string, dt templates.DocType, format string) string {
	base := util.FileSlug(company)
	if base == "" {
		base = "application"
	}
	return base + "_" + string(dt) + "." + format
}
