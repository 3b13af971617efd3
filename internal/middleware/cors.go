package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// CORS header values. The plugin iframe has an opaque origin, so any origin is allowed.
const (
	AllowOrigin  = "*"
	AllowMethods = "POST, OPTIONS"
	AllowHeaders = "Content-Type"
)

// CORSHeaders returns the cross-origin headers attached to every response
func CORSHeaders() map[string]string {
	return map[string]string{
		"Access-Control-Allow-Origin":  AllowOrigin,
		"Access-Control-Allow-Methods": AllowMethods,
		"Access-Control-Allow-Headers": AllowHeaders,
	}
}

// SetCORSHeaders writes the cross-origin headers into h
func SetCORSHeaders(h http.Header) {
	for k, v := range CORSHeaders() {
		h.Set(k, v)
	}
}

// CORS middleware for handling Cross-Origin Resource Sharing.
// Preflight requests are answered with 200 and an empty body.
func CORS() gin.HandlerFunc {
	return func(c *gin.Context) {
		SetCORSHeaders(c.Writer.Header())

		if c.Request.Method == http.MethodOptions {
			c.AbortWithStatus(http.StatusOK)
			return
		}

		c.Next()
	}
}
