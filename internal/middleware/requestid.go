package middleware

import (
	"github.com/gin-gonic/gin"
	"github.com/gofrs/uuid"
)

const RequestIDHeader = "X-Request-ID"

// RequestID assigns a correlation id to each request, honoring one
// supplied by the client, and echoes it back in the response header.
func RequestID() gin.HandlerFunc {
	return func(c *gin.Context) {
		requestID := c.GetHeader(RequestIDHeader)
		if requestID == "" {
			id, err := uuid.NewV4()
			if err == nil {
				requestID = id.String()
			}
		}

		c.Set("request_id", requestID)
		c.Writer.Header().Set(RequestIDHeader, requestID)
		c.Next()
	}
}
