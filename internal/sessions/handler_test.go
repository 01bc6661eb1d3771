package sessions

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"applykit-backend/internal/shared/server/middleware"
)

func setupSessionRouter(t *testing.T) (*gin.Engine, *Store) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	store := NewStore(0)
	handler := NewHandler(store, "openai", map[string]string{
		"openai": "gpt-4o-mini",
		"gemini": "gemini-2.5-flash",
	})

	router := gin.New()
	router.Use(middleware.Session())
	api := router.Group("/api/v1")
	handler.RegisterRoutes(api)

	return router, store
}

func doJSON(t *testing.T, router *gin.Engine, method, path, sessionID string, payload any) *httptest.ResponseRecorder {
	t.Helper()

	var body *bytes.Reader
	if payload != nil {
		raw, err := json.Marshal(payload)
		if err != nil {
			t.Fatalf("marshal payload: %v", err)
		}
		body = bytes.NewReader(raw)
	} else {
		body = bytes.NewReader(nil)
	}

	req := httptest.NewRequest(method, path, body)
	req.Header.Set("Content-Type", "application/json")
	if sessionID != "" {
		req.Header.Set(middleware.SessionHeader, sessionID)
	}
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)
	return resp
}

func TestGetSessionIssuesIdentity(t *testing.T) {
	router, _ := setupSessionRouter(t)

	resp := doJSON(t, router, http.MethodGet, "/api/v1/session", "", nil)
	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", resp.Code, resp.Body.String())
	}

	issued := resp.Header().Get(middleware.SessionHeader)
	if _, err := uuid.Parse(issued); err != nil {
		t.Fatalf("issued session id %q is not a uuid: %v", issued, err)
	}

	var view SessionView
	if err := json.NewDecoder(resp.Body).Decode(&view); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if view.SessionID != issued {
		t.Fatalf("body session id %q does not match header %q", view.SessionID, issued)
	}
	if view.State != StateIdle {
		t.Fatalf("fresh session state = %q, want idle", view.State)
	}
	if view.Settings.Provider != "openai" || view.Settings.Model != "gpt-4o-mini" {
		t.Fatalf("defaults not reflected: %+v", view.Settings)
	}
}

func TestUpdateProfileRoundTrip(t *testing.T) {
	router, _ := setupSessionRouter(t)
	sessionID := uuid.NewString()

	resp := doJSON(t, router, http.MethodPut, "/api/v1/session/profile", sessionID, map[string]string{
		"fullName": "  Jane Doe  ",
		"location": "Berlin, Germany",
		"email":    "jane@example.com",
		"linkedin": "https://linkedin.com/in/janedoe",
	})
	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", resp.Code, resp.Body.String())
	}

	var view SessionView
	if err := json.NewDecoder(resp.Body).Decode(&view); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if view.PersonalInfo.FullName != "Jane Doe" {
		t.Fatalf("full name not trimmed and stored: %q", view.PersonalInfo.FullName)
	}

	again := doJSON(t, router, http.MethodGet, "/api/v1/session", sessionID, nil)
	var fetched SessionView
	if err := json.NewDecoder(again.Body).Decode(&fetched); err != nil {
		t.Fatalf("decode second response: %v", err)
	}
	if fetched.PersonalInfo.Location != "Berlin, Germany" {
		t.Fatalf("profile not persisted across requests: %+v", fetched.PersonalInfo)
	}
}

func TestUpdateProfileValidation(t *testing.T) {
	router, _ := setupSessionRouter(t)

	resp := doJSON(t, router, http.MethodPut, "/api/v1/session/profile", uuid.NewString(), map[string]string{
		"email":    "not-an-email",
		"linkedin": "also not a url",
	})
	if resp.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d: %s", resp.Code, resp.Body.String())
	}

	var errResp struct {
		Error struct {
			Code    string            `json:"code"`
			Details map[string]string `json:"details"`
		} `json:"error"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&errResp); err != nil {
		t.Fatalf("decode error response: %v", err)
	}
	if errResp.Error.Code != "validation_error" {
		t.Fatalf("unexpected code %q", errResp.Error.Code)
	}
	for _, field := range []string{"fullName", "email", "linkedin"} {
		if _, ok := errResp.Error.Details[field]; !ok {
			t.Fatalf("expected detail for %q, got %v", field, errResp.Error.Details)
		}
	}
}

func TestUpdateSettingsHidesKey(t *testing.T) {
	router, _ := setupSessionRouter(t)
	sessionID := uuid.NewString()

	resp := doJSON(t, router, http.MethodPut, "/api/v1/session/settings", sessionID, map[string]string{
		"provider": "Gemini",
		"model":    "gemini-2.5-pro",
		"apiKey":   "sk-secret-123",
	})
	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", resp.Code, resp.Body.String())
	}
	if strings.Contains(resp.Body.String(), "sk-secret-123") {
		t.Fatal("api key leaked into the response body")
	}

	var view SessionView
	if err := json.NewDecoder(resp.Body).Decode(&view); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if !view.Settings.HasAPIKey {
		t.Fatal("hasApiKey should be true after setting a key")
	}
	if view.Settings.Provider != "gemini" {
		t.Fatalf("provider not normalized: %q", view.Settings.Provider)
	}
	if view.Settings.Model != "gemini-2.5-pro" {
		t.Fatalf("model not stored: %q", view.Settings.Model)
	}
}

func TestUpdateSettingsRejectsUnknownProvider(t *testing.T) {
	router, _ := setupSessionRouter(t)

	resp := doJSON(t, router, http.MethodPut, "/api/v1/session/settings", uuid.NewString(), map[string]string{
		"provider": "claude",
	})
	if resp.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d: %s", resp.Code, resp.Body.String())
	}
}

func TestDeleteSessionResets(t *testing.T) {
	router, store := setupSessionRouter(t)
	sessionID := uuid.NewString()
	configuredSession(t, store, sessionID)

	resp := doJSON(t, router, http.MethodDelete, "/api/v1/session", sessionID, nil)
	if resp.Code != http.StatusNoContent {
		t.Fatalf("expected 204, got %d", resp.Code)
	}

	after := doJSON(t, router, http.MethodGet, "/api/v1/session", sessionID, nil)
	var view SessionView
	if err := json.NewDecoder(after.Body).Decode(&view); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if view.State != StateIdle {
		t.Fatalf("state after reset = %q, want idle", view.State)
	}
	if view.Settings.HasAPIKey {
		t.Fatal("api key survived the reset")
	}
}
