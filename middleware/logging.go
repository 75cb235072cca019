package middleware

import (
	"log"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// LoggingMiddleware tags each request with an ID and logs method, path,
// status and latency once the handler chain finishes.
func LoggingMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		requestID := uuid.NewString()
		c.Set("requestId", requestID)
		c.Header("X-Request-ID", requestID)

		start := time.Now()
		c.Next()

		log.Printf("%s %s -> %d (%s) requestId=%s",
			c.Request.Method, c.Request.URL.Path, c.Writer.Status(), time.Since(start), requestID)
	}
}
