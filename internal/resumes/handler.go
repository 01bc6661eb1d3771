package resumes

import (
	"errors"
	"io"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"applykit-backend/internal/extract"
	"applykit-backend/internal/sessions"
	"applykit-backend/internal/shared/server/middleware"
	"applykit-backend/internal/shared/server/respond"
)

// Handler wires resume upload and edit endpoints to the service.
type Handler struct {
	Svc             *Service
	MaxUploadBytes  int64
	DefaultProvider string
	DefaultModels   map[string]string
}

// NewHandler constructs a Handler.
func NewHandler(svc *Service, maxUploadBytes int64, defaultProvider string, defaultModels map[string]string) *Handler {
	return &Handler{
		Svc:             svc,
		MaxUploadBytes:  maxUploadBytes,
		DefaultProvider: defaultProvider,
		DefaultModels:   defaultModels,
	}
}

// RegisterRoutes attaches resume routes to the router group.
func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.POST("/resume", h.upload)
	rg.PUT("/resume", h.edit)
}

func (h *Handler) upload(c *gin.Context) {
	sessionID := middleware.SessionIDFromContext(c)
	c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, h.MaxUploadBytes)

	fileHeader, err := c.FormFile("file")
	if err != nil {
		var maxErr *http.MaxBytesError
		if errors.As(err, &maxErr) {
			respond.Error(c, http.StatusRequestEntityTooLarge, "file_too_large", "file exceeds the upload size limit", nil)
			return
		}
		respond.Error(c, http.StatusBadRequest, "validation_error", "file is required", nil)
		return
	}

	file, err := fileHeader.Open()
	if err != nil {
		respond.Error(c, http.StatusBadRequest, "validation_error", "unable to read file", nil)
		return
	}
	defer file.Close()

	data, err := io.ReadAll(file)
	if err != nil {
		respond.Error(c, http.StatusBadRequest, "validation_error", "unable to read file", nil)
		return
	}

	session, err := h.Svc.Upload(c.Request.Context(), sessionID, fileHeader.Filename, fileHeader.Header.Get("Content-Type"), data)
	if err != nil {
		switch {
		case errors.Is(err, extract.ErrUnsupportedFormat):
			respond.Error(c, http.StatusUnsupportedMediaType, "unsupported_format", "only plain text and PDF resumes are supported", nil)
		case errors.Is(err, extract.ErrExtraction):
			respond.Error(c, http.StatusUnprocessableEntity, "extraction_failed", "could not read text from the uploaded file", nil)
		default:
			respond.Error(c, http.StatusInternalServerError, "resume_upload_failed", err.Error(), nil)
		}
		return
	}

	respond.OK(c, sessions.View(session, h.DefaultProvider, h.DefaultModels))
}

type editResumeRequest struct {
	Text string `json:"text"`
}

func (h *Handler) edit(c *gin.Context) {
	sessionID := middleware.SessionIDFromContext(c)

	var req editResumeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respond.Error(c, http.StatusBadRequest, "validation_error", "invalid request body", nil)
		return
	}
	if strings.TrimSpace(req.Text) == "" {
		respond.Error(c, http.StatusBadRequest, "validation_error", "text is required", nil)
		return
	}

	session := h.Svc.Edit(sessionID, req.Text)
	respond.OK(c, sessions.View(session, h.DefaultProvider, h.DefaultModels))
}
