package middleware

import (
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

const (
	// RequestIDHeader is the HTTP header used to propagate the request identifier.
	RequestIDHeader = "X-Request-ID"

	// RequestIDKey is the gin.Context key under which the request ID is stored.
	RequestIDKey = "request_id"

	// maxRequestIDLength caps inbound identifiers; anything longer is replaced
	// rather than echoed back into the response and the logs.
	maxRequestIDLength = 64
)

// RequestIDMiddleware ensures every request carries a unique identifier. An
// inbound X-Request-ID from the frontend or a reverse proxy is reused so the
// portal's log lines correlate with theirs; otherwise a UUID v4 is generated.
// The ID is stored under RequestIDKey and echoed in the response header.
//
// Register this before the logging and audit middleware so both pick it up.
func RequestIDMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		id := c.GetHeader(RequestIDHeader)
		if id == "" || len(id) > maxRequestIDLength {
			id = uuid.New().String()
		}

		c.Set(RequestIDKey, id)
		c.Header(RequestIDHeader, id)

		c.Next()
	}
}
