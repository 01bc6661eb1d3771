package middleware

import (
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"applykit-backend/internal/shared/telemetry"
)

// Logging emits a structured log per request.
func Logging() gin.HandlerFunc {
	return func(c *gin.Context) {
		if strings.EqualFold(c.Request.Method, "OPTIONS") {
			c.Next()
			return
		}

		start := time.Now()
		c.Next()
		latency := time.Since(start)
		status := c.Writer.Status()
		reqID := RequestIDFromContext(c)

		stateTransition := ""
		if raw, ok := c.Get("stateTransition"); ok {
			if s, ok := raw.(string); ok {
				stateTransition = s
			}
		}
		documentType := ""
		if raw, ok := c.Get("documentType"); ok {
			if s, ok := raw.(string); ok {
				documentType = s
			}
		}

		telemetry.Info("request.complete", map[string]any{
			"request_id":       reqID,
			"method":           c.Request.Method,
			"path":             c.Request.URL.Path,
			"status":           status,
			"state_transition": stateTransition,
			"document_type":    documentType,
			"duration_ms":      float64(latency.Microseconds()) / 1000.0,
			"session_id":       SessionIDFromContext(c),
			"client_ip":        c.ClientIP(),
			"user_agent":       c.Request.UserAgent(),
		})
	}
}
