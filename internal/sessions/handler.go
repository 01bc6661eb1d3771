package sessions

import (
	"errors"
	"net/http"
	"reflect"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"

	"applykit-backend/internal/shared/server/middleware"
	"applykit-backend/internal/shared/server/respond"
)

// Handler exposes the session lifecycle endpoints.
type Handler struct {
	Store           *Store
	DefaultProvider string
	DefaultModels   map[string]string
	validate        *validator.Validate
}

func NewHandler(store *Store, defaultProvider string, defaultModels map[string]string) *Handler {
	v := validator.New()
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	return &Handler{
		Store:           store,
		DefaultProvider: defaultProvider,
		DefaultModels:   defaultModels,
		validate:        v,
	}
}

// RegisterRoutes attaches session routes to the router group.
func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.GET("/session", h.get)
	rg.DELETE("/session", h.reset)
	rg.PUT("/session/profile", h.updateProfile)
	rg.PUT("/session/settings", h.updateSettings)
}

func (h *Handler) get(c *gin.Context) {
	sessionID := middleware.SessionIDFromContext(c)
	respond.OK(c, h.view(h.Store.Snapshot(sessionID)))
}

func (h *Handler) reset(c *gin.Context) {
	sessionID := middleware.SessionIDFromContext(c)
	h.Store.Reset(sessionID)
	respond.NoContent(c)
}

type updateProfileRequest struct {
	FullName  string `json:"fullName" validate:"required"`
	Location  string `json:"location"`
	Phone     string `json:"phone"`
	Email     string `json:"email" validate:"omitempty,email"`
	LinkedIn  string `json:"linkedin" validate:"omitempty,url"`
	Portfolio string `json:"portfolio" validate:"omitempty,url"`
	GitHub    string `json:"github" validate:"omitempty,url"`
}

func (h *Handler) updateProfile(c *gin.Context) {
	sessionID := middleware.SessionIDFromContext(c)

	var req updateProfileRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respond.Error(c, http.StatusBadRequest, "validation_error", "invalid request body", nil)
		return
	}

	req.FullName = strings.TrimSpace(req.FullName)
	req.Location = strings.TrimSpace(req.Location)
	req.Phone = strings.TrimSpace(req.Phone)
	req.Email = strings.TrimSpace(req.Email)
	req.LinkedIn = strings.TrimSpace(req.LinkedIn)
	req.Portfolio = strings.TrimSpace(req.Portfolio)
	req.GitHub = strings.TrimSpace(req.GitHub)

	if err := h.validate.Struct(req); err != nil {
		respond.Error(c, http.StatusBadRequest, "validation_error", "invalid profile fields", validationDetails(err))
		return
	}

	session := h.Store.UpdateProfile(sessionID, PersonalInfo{
		FullName:  req.FullName,
		Location:  req.Location,
		Phone:     req.Phone,
		Email:     req.Email,
		LinkedIn:  req.LinkedIn,
		Portfolio: req.Portfolio,
		GitHub:    req.GitHub,
	})
	respond.OK(c, h.view(session))
}

type updateSettingsRequest struct {
	Provider string `json:"provider" validate:"omitempty,oneof=openai gemini"`
	Model    string `json:"model"`
	APIKey   string `json:"apiKey"`
}

func (h *Handler) updateSettings(c *gin.Context) {
	sessionID := middleware.SessionIDFromContext(c)

	var req updateSettingsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respond.Error(c, http.StatusBadRequest, "validation_error", "invalid request body", nil)
		return
	}

	req.Provider = strings.ToLower(strings.TrimSpace(req.Provider))
	req.Model = strings.TrimSpace(req.Model)
	req.APIKey = strings.TrimSpace(req.APIKey)

	if err := h.validate.Struct(req); err != nil {
		respond.Error(c, http.StatusBadRequest, "validation_error", "invalid settings", validationDetails(err))
		return
	}

	session := h.Store.UpdateSettings(sessionID, Settings{
		Provider: req.Provider,
		Model:    req.Model,
		APIKey:   req.APIKey,
	})
	respond.OK(c, h.view(session))
}

func (h *Handler) view(s Session) SessionView {
	return View(s, h.DefaultProvider, h.DefaultModels)
}

// validationDetails flattens validator errors into a field-to-hint map
// keyed by the JSON field names.
func validationDetails(err error) map[string]string {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return nil
	}
	details := make(map[string]string, len(verrs))
	for _, fe := range verrs {
		details[fe.Field()] = hintFor(fe)
	}
	return details
}

func hintFor(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "is required"
	case "email":
		return "must be a valid email address"
	case "url":
		return "must be a valid URL"
	case "oneof":
		return "must be one of: " + fe.Param()
	default:
		return "is invalid"
	}
}
