package auth

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
)

var (
	errMissingHeader = errors.New("missing Authorization header")
	errBadHeader     = errors.New("invalid Authorization header format")
	errBadToken      = errors.New("invalid or expired token")
)

// AuthRequired rejects requests without a valid "Authorization: Bearer" token
// and stores the caller's claims for later handlers.
func AuthRequired(jwtManager *JWTManager) gin.HandlerFunc {
	return func(c *gin.Context) {
		if err := authenticate(c, jwtManager); err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": err.Error()})
			return
		}
		c.Next()
	}
}

// OptionalAuth lets anonymous guests through. A token that is present must
// still be valid, so stale sessions get a 401 instead of silently turning
// into guests.
func OptionalAuth(jwtManager *JWTManager) gin.HandlerFunc {
	return func(c *gin.Context) {
		err := authenticate(c, jwtManager)
		if err != nil && !errors.Is(err, errMissingHeader) {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": err.Error()})
			return
		}
		c.Next()
	}
}

func authenticate(c *gin.Context, jwtManager *JWTManager) error {
	header := strings.TrimSpace(c.GetHeader("Authorization"))
	if header == "" {
		return errMissingHeader
	}

	scheme, token, found := strings.Cut(header, " ")
	if !found || !strings.EqualFold(scheme, "bearer") || strings.TrimSpace(token) == "" {
		return errBadHeader
	}

	claims, err := jwtManager.ParseAndValidate(strings.TrimSpace(token))
	if err != nil {
		return errBadToken
	}
	setClaims(c, claims)
	return nil
}
