package accommodation

import (
	"fmt"
	"net/http"
	"time"

	"github.com/jomarimuli/debbie-and-krys-beach-resort-sub002/internal/pkg/apperror"
)

var (
	ErrNotFound        = apperror.New(http.StatusNotFound, "accommodation not found")
	ErrNameTaken       = apperror.New(http.StatusConflict, "an accommodation with this name already exists")
	ErrEmptyName       = apperror.New(http.StatusBadRequest, "name is required")
	ErrInvalidType     = apperror.New(http.StatusBadRequest, "type must be one of room, cottage, hall")
	ErrInvalidCapacity = apperror.New(http.StatusBadRequest, "capacity must be at least 1")
	ErrInUse           = apperror.New(http.StatusConflict, "accommodation is referenced by bookings; deactivate it instead")
)

// Type is the kind of space being rented.
type Type string

const (
	TypeRoom    Type = "room"
	TypeCottage Type = "cottage"
	TypeHall    Type = "hall"
)

// ParseType accepts only the known accommodation types.
func ParseType(s string) (Type, error) {
	switch t := Type(s); t {
	case TypeRoom, TypeCottage, TypeHall:
		return t, nil
	}
	return "", fmt.Errorf("unknown accommodation type %q", s)
}

// Accommodation is a bookable room, cottage or function hall.
type Accommodation struct {
	ID          string
	Name        string
	Type        Type
	Description string
	Capacity    int
	IsActive    bool
	ImageFileID *string
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// Filter defines parameters for listing accommodations.
type Filter struct {
	Type        Type
	Keyword     string
	MinCapacity int
	IsActive    *bool

	Page      int
	PageSize  int
	SortBy    string
	SortOrder string
}
