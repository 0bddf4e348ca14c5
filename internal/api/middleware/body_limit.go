package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/JSSP85/SolarApp-sub002/pkg/response"
)

// BodyLimit rejects request bodies larger than maxBytes. Photo payloads are
// metadata only, so the cap can stay small.
func BodyLimit(maxBytes int64) gin.HandlerFunc {
	return func(c *gin.Context) {
		if c.Request.ContentLength > maxBytes {
			response.Error(c, http.StatusRequestEntityTooLarge, 10005, "request body too large")
			c.Abort()
			return
		}
		c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, maxBytes)
		c.Next()
	}
}
