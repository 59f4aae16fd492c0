package auth

import "github.com/gin-gonic/gin"

const (
	userIDKey    = "userID"
	userEmailKey = "userEmail"
	userRoleKey  = "userRole"
)

// Principal is the caller as seen by services. The zero value is an
// anonymous guest.
type Principal struct {
	UserID string
	Role   Role
}

// IsStaff reports whether the caller is staff or admin.
func (p Principal) IsStaff() bool {
	return p.Role.IsStaff()
}

// IsAnonymous reports whether the request carried no valid token.
func (p Principal) IsAnonymous() bool {
	return p.UserID == ""
}

// GetUserID returns the authenticated user's ID or empty string.
func GetUserID(c *gin.Context) string {
	return c.GetString(userIDKey)
}

// GetUserEmail returns the authenticated user's email or empty string.
func GetUserEmail(c *gin.Context) string {
	return c.GetString(userEmailKey)
}

// GetUserRole returns the authenticated user's role or empty string.
func GetUserRole(c *gin.Context) Role {
	if v, ok := c.Get(userRoleKey); ok {
		if r, ok := v.(Role); ok {
			return r
		}
	}
	return ""
}

// GetPrincipal collects the caller identity stored by the middleware.
func GetPrincipal(c *gin.Context) Principal {
	return Principal{UserID: GetUserID(c), Role: GetUserRole(c)}
}

// SetRole overrides the role stored for the request, e.g. after the role
// was re-read from the database.
func SetRole(c *gin.Context, r Role) {
	c.Set(userRoleKey, r)
}

func setClaims(c *gin.Context, claims *Claims) {
	c.Set(userIDKey, claims.UserID)
	c.Set(userEmailKey, claims.Email)
	c.Set(userRoleKey, claims.Role)
}
