package middleware

import (
	"github.com/gin-gonic/gin"

	"github.com/tamaos/tamaos/internal/shared/id"
)

// RequestIDHeader is the response header carrying the request ID.
const RequestIDHeader = "X-Request-ID"

// requestIDKey is the gin context key for the request ID.
const requestIDKey = "request_id"

// RequestID assigns a ULID to every request, honoring an inbound
// X-Request-ID when present.
func RequestID() gin.HandlerFunc {
	return func(c *gin.Context) {
		rid := c.GetHeader(RequestIDHeader)
		if rid == "" {
			rid = id.NewRequestID().String()
		}
		c.Set(requestIDKey, rid)
		c.Header(RequestIDHeader, rid)
		c.Next()
	}
}

// GetRequestID returns the request ID assigned to this request, if any.
func GetRequestID(c *gin.Context) string {
	return c.GetString(requestIDKey)
}
