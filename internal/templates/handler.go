package templates

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"applykit-backend/internal/shared/server/middleware"
	"applykit-backend/internal/shared/server/respond"
)

// Handler exposes template store operations over HTTP.
type Handler struct {
	Store *Store
}

// NewHandler constructs a Handler.
func NewHandler(store *Store) *Handler {
	return &Handler{Store: store}
}

// RegisterRoutes attaches template routes to the router group.
func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.GET("/templates", h.list)
	rg.GET("/templates/:type", h.get)
	rg.PUT("/templates/:type", h.update)
	rg.POST("/templates/:type/reset", h.reset)
}

type templateResponse struct {
	Type       DocType `json:"type"`
	Label      string  `json:"label"`
	Text       string  `json:"text"`
	Overridden bool    `json:"overridden"`
}

func (h *Handler) toResponse(sessionID string, dt DocType, text string) templateResponse {
	return templateResponse{
		Type:       dt,
		Label:      dt.Label(),
		Text:       text,
		Overridden: h.Store.IsOverridden(sessionID, dt),
	}
}

func (h *Handler) list(c *gin.Context) {
	sessionID := middleware.SessionIDFromContext(c)
	active := h.Store.GetAll(sessionID)

	resp := make([]templateResponse, 0, len(active))
	for _, dt := range AllTypes() {
		resp = append(resp, h.toResponse(sessionID, dt, active[dt]))
	}
	respond.JSON(c, http.StatusOK, gin.H{"templates": resp})
}

func (h *Handler) get(c *gin.Context) {
	sessionID := middleware.SessionIDFromContext(c)
	dt, err := ParseDocType(c.Param("type"))
	if err != nil {
		respond.Error(c, http.StatusNotFound, "unknown_document_type", err.Error(), nil)
		return
	}

	text, err := h.Store.Get(sessionID, dt)
	if err != nil {
		respond.Error(c, http.StatusNotFound, "unknown_document_type", err.Error(), nil)
		return
	}
	respond.JSON(c, http.StatusOK, h.toResponse(sessionID, dt, text))
}

type updateTemplateRequest struct {
	Text string `json:"text"`
}

func (h *Handler) update(c *gin.Context) {
	sessionID := middleware.SessionIDFromContext(c)
	dt, err := ParseDocType(c.Param("type"))
	if err != nil {
		respond.Error(c, http.StatusNotFound, "unknown_document_type", err.Error(), nil)
		return
	}

	var req updateTemplateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respond.Error(c, http.StatusBadRequest, "validation_error", "invalid request body", nil)
		return
	}
	if strings.TrimSpace(req.Text) == "" {
		respond.Error(c, http.StatusBadRequest, "validation_error", "text is required", nil)
		return
	}

	if err := h.Store.Set(sessionID, dt, req.Text); err != nil {
		switch {
		case errors.Is(err, ErrUnknownType):
			respond.Error(c, http.StatusNotFound, "unknown_document_type", err.Error(), nil)
		default:
			respond.Error(c, http.StatusInternalServerError, "internal", "failed to update template", nil)
		}
		return
	}
	respond.JSON(c, http.StatusOK, h.toResponse(sessionID, dt, req.Text))
}

func (h *Handler) reset(c *gin.Context) {
	sessionID := middleware.SessionIDFromContext(c)
	dt, err := ParseDocType(c.Param("type"))
	if err != nil {
		respond.Error(c, http.StatusNotFound, "unknown_document_type", err.Error(), nil)
		return
	}

	if err := h.Store.Reset(sessionID, dt); err != nil {
		switch {
		case errors.Is(err, ErrUnknownType):
			respond.Error(c, http.StatusNotFound, "unknown_document_type", err.Error(), nil)
		default:
			respond.Error(c, http.StatusInternalServerError, "internal", "failed to reset template", nil)
		}
		return
	}

	text, err := h.Store.Get(sessionID, dt)
	if err != nil {
		respond.Error(c, http.StatusInternalServerError, "internal", "failed to load default template", nil)
		return
	}
	respond.JSON(c, http.StatusOK, h.toResponse(sessionID, dt, text))
}
