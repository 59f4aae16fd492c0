package user

import (
	"net/http"
	"time"

	"github.com/jomarimuli/debbie-and-krys-beach-resort-sub002/internal/auth"
	"github.com/jomarimuli/debbie-and-krys-beach-resort-sub002/internal/pkg/apperror"
)

var (
	ErrNotFound           = apperror.New(http.StatusNotFound, "user not found")
	ErrEmailAlreadyUsed   = apperror.New(http.StatusConflict, "email already used")
	ErrInvalidCredentials = apperror.New(http.StatusUnauthorized, "invalid email or password")
	ErrInactiveUser       = apperror.New(http.StatusUnauthorized, "invalid email or password")
	ErrEmailRequired      = apperror.New(http.StatusBadRequest, "email is required")
	ErrPasswordTooShort   = apperror.New(http.StatusBadRequest, "password must be at least 8 characters")
	ErrInvalidRole        = apperror.New(http.StatusBadRequest, "invalid role")
	ErrCannotDemoteSelf   = apperror.New(http.StatusBadRequest, "you cannot change your own role or deactivate yourself")
)

// User represents an account: a resort customer, a front-desk staff member
// or an administrator.
type User struct {
	ID           string // UUID
	Email        string
	PasswordHash string
	DisplayName  *string
	Phone        *string
	Role         auth.Role
	IsActive     bool
	CreatedAt    time.Time
	LastLoginAt  *time.Time
}

// Name returns the display name, falling back to the email.
func (u *User) Name() string {
	if u.DisplayName != nil && *u.DisplayName != "" {
		return *u.DisplayName
	}
	return u.Email
}

// Filter defines filter options for listing users.
type Filter struct {
	Email       string
	DisplayName string
	Role        auth.Role
	IsActive    *bool // Use pointer to distinguish between false and nil (not set)

	Page      int
	PageSize  int
	SortBy    string
	SortOrder string
}
