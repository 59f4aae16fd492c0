package user

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/jomarimuli/debbie-and-krys-beach-resort-sub002/internal/auth"
)

const minPasswordLength = 8

// CreateRequest describes a new account.
type CreateRequest struct {
	Email       string
	Password    string
	DisplayName string
	Phone       string
	Role        auth.Role
}

// UpdateRequest holds the fields an admin may change. Nil means unchanged.
type UpdateRequest struct {
	DisplayName *string
	Phone       *string
	Role        *auth.Role
	IsActive    *bool
}

// Service defines business logic related to users.
type Service interface {
	// Register creates a customer account.
	Register(ctx context.Context, email, password, displayName, phone string) (*User, error)
	// Create creates an account with any role. Used for staff accounts and
	// by the admin CLI.
	Create(ctx context.Context, req CreateRequest) (*User, error)
	Login(ctx context.Context, email, password string) (*User, error)
	GetByID(ctx context.Context, id string) (*User, error)
	List(ctx context.Context, filter Filter) ([]*User, int, error)
	Update(ctx context.Context, actorID, id string, req UpdateRequest) (*User, error)
}

type service struct {
	repo   Repository
	hasher auth.PasswordHasher
	log    logrus.FieldLogger
}

// NewService creates a new user Service.
func NewService(repo Repository, hasher auth.PasswordHasher, log logrus.FieldLogger) Service {
	return &service{
		repo:   repo,
		hasher: hasher,
		log:    log,
	}
}

func (s *service) Register(ctx context.Context, email, password, displayName, phone string) (*User, error) {
	return s.Create(ctx, CreateRequest{
		Email:       email,
		Password:    password,
		DisplayName: displayName,
		Phone:       phone,
		Role:        auth.RoleCustomer,
	})
}

func (s *service) Create(ctx context.Context, req CreateRequest) (*User, error) {
	cleanEmail := normalizeEmail(req.Email)
	if cleanEmail == "" {
		return nil, ErrEmailRequired
	}
	if len(req.Password) < minPasswordLength {
		return nil, ErrPasswordTooShort
	}
	if _, err := auth.ParseRole(string(req.Role)); err != nil {
		return nil, ErrInvalidRole
	}

	// Check if email is already used.
	_, err := s.repo.GetByEmail(ctx, cleanEmail)
	if err == nil {
		return nil, ErrEmailAlreadyUsed
	}
	if !errors.Is(err, ErrNotFound) {
		return nil, fmt.Errorf("failed to check existing email: %w", err)
	}

	hash, err := s.hasher.Hash(req.Password)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	u := &User{
		Email:        cleanEmail,
		PasswordHash: hash,
		DisplayName:  optional(req.DisplayName),
		Phone:        optional(req.Phone),
		Role:         req.Role,
		IsActive:     true,
	}

	if err := s.repo.Create(ctx, u); err != nil {
		return nil, err
	}

	s.log.WithFields(logrus.Fields{"user_id": u.ID, "role": u.Role}).Info("user created")
	return u, nil
}

func (s *service) Login(ctx context.Context, email, password string) (*User, error) {
	cleanEmail := normalizeEmail(email)
	if cleanEmail == "" || strings.TrimSpace(password) == "" {
		return nil, ErrInvalidCredentials
	}

	u, err := s.repo.GetByEmail(ctx, cleanEmail)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return nil, ErrInvalidCredentials
		}
		return nil, fmt.Errorf("failed to fetch user by email: %w", err)
	}

	if !u.IsActive {
		return nil, ErrInactiveUser
	}

	if err := s.hasher.Compare(u.PasswordHash, password); err != nil {
		return nil, ErrInvalidCredentials
	}

	// Best effort; a failed timestamp update does not fail the login.
	now := time.Now().UTC()
	if err := s.repo.UpdateLastLogin(ctx, u.ID, now); err != nil {
		s.log.WithError(err).WithField("user_id", u.ID).Warn("failed to update last login")
	} else {
		u.LastLoginAt = &now
	}

	return u, nil
}

func (s *service) GetByID(ctx context.Context, id string) (*User, error) {
	return s.repo.GetByID(ctx, id)
}

func (s *service) List(ctx context.Context, filter Filter) ([]*User, int, error) {
	return s.repo.List(ctx, filter)
}

func (s *service) Update(ctx context.Context, actorID, id string, req UpdateRequest) (*User, error) {
	u, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if actorID == id && (req.Role != nil && *req.Role != u.Role || req.IsActive != nil && !*req.IsActive) {
		return nil, ErrCannotDemoteSelf
	}

	if req.DisplayName != nil {
		u.DisplayName = optional(*req.DisplayName)
	}
	if req.Phone != nil {
		u.Phone = optional(*req.Phone)
	}
	if req.Role != nil {
		if _, err := auth.ParseRole(string(*req.Role)); err != nil {
			return nil, ErrInvalidRole
		}
		u.Role = *req.Role
	}
	if req.IsActive != nil {
		u.IsActive = *req.IsActive
	}

	if err := s.repo.Update(ctx, u); err != nil {
		return nil, err
	}
	return u, nil
}

// normalizeEmail trims spaces and lowercases the email.
func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

func optional(s string) *string {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil
	}
	return &s
}
