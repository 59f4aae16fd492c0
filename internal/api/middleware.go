package api

import (
	"net/http"
	"slices"

	"github.com/gin-gonic/gin"

	"github.com/jomarimuli/debbie-and-krys-beach-resort-sub002/internal/auth"
	"github.com/jomarimuli/debbie-and-krys-beach-resort-sub002/internal/user"
)

// RequireRole ensures the authenticated user currently holds one of roles.
// The role is re-read from the database so demoted or deactivated accounts
// lose access before their token expires.
// It MUST be used after auth.AuthRequired middleware.
func RequireRole(userService user.Service, roles ...auth.Role) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID := auth.GetUserID(c)
		if userID == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
			return
		}

		u, err := userService.GetByID(c.Request.Context(), userID)
		if err != nil || !u.IsActive {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "user not found"})
			return
		}

		if !slices.Contains(roles, u.Role) {
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"error": "forbidden: insufficient role"})
			return
		}

		auth.SetRole(c, u.Role)
		c.Next()
	}
}
