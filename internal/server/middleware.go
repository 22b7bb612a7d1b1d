package server

import (
	"time"

	"github.com/gin-gonic/gin"

	"souq-auctions/services/auction/helpers"
	"souq-auctions/utils"
)

// RequestLoggerMiddleware logs each request with timing and, when the
// gateway passed one, the resolved caller identity.
func RequestLoggerMiddleware(c *gin.Context) {
	start := time.Now()

	c.Next() // process request

	fields := map[string]any{
		"method":  c.Request.Method,
		"path":    c.Request.URL.Path,
		"status":  c.Writer.Status(),
		"latency": time.Since(start).String(),
	}
	if userID, privileged := helpers.CallerIdentity(c); userID != "" {
		fields["caller_id"] = userID
		if privileged {
			fields["privileged"] = true
		}
	}
	utils.Info("HTTP Request", fields)
}
