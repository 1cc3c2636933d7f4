package handler

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
)

// AccessCodeMiddleware guards the API prefix with a shared-secret compare:
// the Authorization header must equal the configured access code byte for
// byte. Infra endpoints (health, swagger) stay open.
func AccessCodeMiddleware(accessCode string) gin.HandlerFunc {
	return func(c *gin.Context) {
		if !strings.HasPrefix(c.Request.URL.Path, "/api/") {
			c.Next()
			return
		}
		if c.GetHeader("Authorization") != accessCode {
			c.AbortWithStatusJSON(http.StatusUnauthorized, apiResponse{
				Success: false,
				Error:   "Unauthorized",
			})
			return
		}
		c.Next()
	}
}
