package middleware

import (
	"net/http"
	"strings"

	"classroom-poll-backend/internal/models"
	"classroom-poll-backend/internal/services"

	"github.com/gin-gonic/gin"
)

func JWTAuth(authService *services.AuthService) gin.HandlerFunc {
	return func(c *gin.Context) {
		header := c.GetHeader("Authorization")
		if header == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"success": false, "error": "authorization header required"})
			return
		}

		parts := strings.SplitN(header, " ", 2)
		if len(parts) != 2 || parts[0] != "Bearer" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"success": false, "error": "invalid authorization header format"})
			return
		}

		identity, err := authService.Verify(parts[1])
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"success": false, "error": "invalid or expired token"})
			return
		}

		c.Set("identity", identity)
		c.Next()
	}
}

// LecturerOnly gates owner-side endpoints. It must run after JWTAuth.
func LecturerOnly() gin.HandlerFunc {
	return func(c *gin.Context) {
		identity, ok := c.Get("identity")
		if !ok || identity.(*services.Identity).Role != models.RoleLecturer {
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"success": false, "error": "lecturer role required"})
			return
		}
		c.Next()
	}
}
