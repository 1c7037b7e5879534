package middleware

import (
	"net/http"
	"time"

	"mazescore/internal"

	"github.com/gin-gonic/gin"
)

// RequestLogger logs one line per request; server errors at WARN, the rest at DEBUG.
func RequestLogger(logger *internal.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		status := c.Writer.Status()
		log := logger.Debug
		if status >= http.StatusInternalServerError {
			log = logger.Warn
		}
		log("%s %s %d %s", c.Request.Method, c.Request.URL.Path, status, time.Since(start).Round(time.Microsecond))
	}
}

// LimitBody caps request bodies at maxBytes. Zero or less disables the cap.
func LimitBody(maxBytes int64) gin.HandlerFunc {
	return func(c *gin.Context) {
		if maxBytes > 0 && c.Request.Body != nil {
			c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, maxBytes)
		}
		c.Next()
	}
}
