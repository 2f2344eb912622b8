package middleware

import (
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"epistock/pkg/logger"
)

// HeaderRequestID is the request correlation header.
const HeaderRequestID = "X-Request-ID"

// Trace propagates or generates a request id, puts it in the request
// context for the logger and echoes it back in the response.
func Trace() gin.HandlerFunc {
	return func(c *gin.Context) {
		requestID := c.GetHeader(HeaderRequestID)
		if requestID == "" {
			requestID = uuid.New().String()
		}

		ctx := logger.WithRequestID(c.Request.Context(), requestID)
		c.Request = c.Request.WithContext(ctx)

		c.Set("request_id", requestID)
		c.Header(HeaderRequestID, requestID)

		c.Next()
	}
}
