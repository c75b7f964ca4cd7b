package middleware

import (
	"net/http"
	"strings"

	"clinic-admin-api/internal/config"

	"github.com/gin-gonic/gin"
)

// CORS returns a middleware that allows the configured origins
func CORS(cfg config.CORSConfig, tenantHeader string) gin.HandlerFunc {
	allowedHeaders := strings.Join([]string{
		"Content-Type", "Authorization", "X-Requested-With", RequestIDHeader, tenantHeader,
	}, ", ")

	return func(c *gin.Context) {
		origin := c.GetHeader("Origin")

		allowed := false
		for _, allowedOrigin := range cfg.AllowedOrigins {
			if origin == allowedOrigin {
				allowed = true
				break
			}
		}

		if allowed {
			c.Writer.Header().Set("Access-Control-Allow-Origin", origin)
			c.Writer.Header().Set("Access-Control-Allow-Credentials", "true")
			c.Writer.Header().Set("Access-Control-Allow-Methods", "GET, POST, PUT, DELETE, OPTIONS")
			c.Writer.Header().Set("Access-Control-Allow-Headers", allowedHeaders)
			c.Writer.Header().Set("Access-Control-Expose-Headers", RequestIDHeader)
			c.Writer.Header().Set("Access-Control-Max-Age", "86400")
		}

		// Handle preflight OPTIONS request
		if c.Request.Method == http.MethodOptions {
			c.AbortWithStatus(http.StatusNoContent)
			return
		}

		c.Next()
	}
}
