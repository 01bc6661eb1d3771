package middleware

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"applykit-backend/internal/shared/telemetry"
)

func captureLog(t *testing.T) *bytes.Buffer {
	t.Helper()
	buf := &bytes.Buffer{}
	telemetry.SetOutput(buf)
	t.Cleanup(func() { telemetry.SetOutput(os.Stdout) })
	return buf
}

func lastLogEntry(t *testing.T, buf *bytes.Buffer) map[string]any {
	t.Helper()
	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	if len(lines) == 0 || lines[0] == "" {
		t.Fatal("expected log output")
	}
	var payload map[string]any
	if err := json.Unmarshal([]byte(lines[len(lines)-1]), &payload); err != nil {
		t.Fatalf("decode log json: %v", err)
	}
	return payload
}

func TestLoggingIncludesRequiredFields(t *testing.T) {
	gin.SetMode(gin.TestMode)
	buf := captureLog(t)

	router := gin.New()
	router.Use(RequestID(), Session(), Logging())
	router.POST("/api/v1/generate", func(c *gin.Context) {
		c.Set("stateTransition", "ready")
		c.Set("documentType", "cover_letter")
		c.JSON(http.StatusOK, gin.H{"ok": true})
	})

	sessionID := uuid.NewString()
	req := httptest.NewRequest(http.MethodPost, "/api/v1/generate", nil)
	req.Header.Set(SessionHeader, sessionID)
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)

	payload := lastLogEntry(t, buf)
	for _, key := range []string{"request_id", "session_id", "status", "duration_ms", "state_transition", "document_type"} {
		if _, ok := payload[key]; !ok {
			t.Fatalf("missing log field %q in %v", key, payload)
		}
	}
	if payload["msg"] != "request.complete" {
		t.Fatalf("unexpected msg %v", payload["msg"])
	}
	if payload["session_id"] != sessionID {
		t.Fatalf("unexpected session_id %v", payload["session_id"])
	}
	if payload["state_transition"] != "ready" {
		t.Fatalf("unexpected state_transition %v", payload["state_transition"])
	}
	if payload["document_type"] != "cover_letter" {
		t.Fatalf("unexpected document_type %v", payload["document_type"])
	}
	if payload["status"] != float64(http.StatusOK) {
		t.Fatalf("unexpected status %v", payload["status"])
	}
}

func TestLoggingSkipsPreflight(t *testing.T) {
	gin.SetMode(gin.TestMode)
	buf := captureLog(t)

	router := gin.New()
	router.Use(Logging())
	router.OPTIONS("/api/v1/generate", func(c *gin.Context) {
		c.Status(http.StatusNoContent)
	})

	req := httptest.NewRequest(http.MethodOptions, "/api/v1/generate", nil)
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)

	if strings.TrimSpace(buf.String()) != "" {
		t.Fatalf("preflight request should not be logged, got %q", buf.String())
	}
}
