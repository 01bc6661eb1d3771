package middleware

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

const sessionIDKey = "sessionId"

// SessionHeader carries the caller's session identity. The UI stores the
// value it receives on first contact and presents it on every request.
const SessionHeader = "X-Session-Id"

// Session resolves the caller's session ID, issuing a fresh one when the
// request carries none. The response always echoes the active ID. IDs
// must be UUIDs; anything else is discarded and replaced.
func Session() gin.HandlerFunc {
	return func(c *gin.Context) {
		if c.Request.Method == http.MethodOptions {
			c.Next()
			return
		}

		id := strings.TrimSpace(c.GetHeader(SessionHeader))
		if _, err := uuid.Parse(id); err != nil {
			id = uuid.NewString()
		}

		c.Set(sessionIDKey, id)
		c.Writer.Header().Set(SessionHeader, id)
		c.Next()
	}
}

// SessionIDFromContext fetches the session ID set by the Session middleware.
func SessionIDFromContext(c *gin.Context) string {
	if c == nil {
		return ""
	}
	val, _ := c.Get(sessionIDKey)
	if id, ok := val.(string); ok {
		return id
	}
	return ""
}
