// Package middleware provides HTTP middleware for the presentation layer.
package middleware

import (
	"net/http"
	"strings"

	"github.com/SiteWright/sitewright-go/internal/application/services"
	"github.com/SiteWright/sitewright-go/internal/domain/user"
	"github.com/gin-gonic/gin"
)

const profileContextKey = "profile"

// AuthMiddleware requires a valid bearer token and stores the decoded
// profile in the request context.
func AuthMiddleware(authService *services.AuthService) gin.HandlerFunc {
	return func(c *gin.Context) {
		token := extractBearerToken(c)
		if token == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "missing authorization token"})
			return
		}

		profile := authService.DecodeToken(token)
		if profile == nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "invalid or expired token"})
			return
		}

		c.Set(profileContextKey, profile)
		c.Next()
	}
}

// GetProfile retrieves the authenticated profile from the request context.
func GetProfile(c *gin.Context) (*user.Profile, bool) {
	value, exists := c.Get(profileContextKey)
	if !exists {
		return nil, false
	}
	profile, ok := value.(*user.Profile)
	return profile, ok
}

func extractBearerToken(c *gin.Context) string {
	header := c.GetHeader("Authorization")
	if after, found := strings.CutPrefix(header, "Bearer "); found {
		return after
	}

	// WebSocket clients cannot set headers; fall back to a query parameter.
	return c.Query("token")
}
