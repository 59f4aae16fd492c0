package http

import (
	"time"

	"github.com/jomarimuli/debbie-and-krys-beach-resort-sub002/internal/accommodation"
	"github.com/jomarimuli/debbie-and-krys-beach-resort-sub002/internal/file"
	"github.com/jomarimuli/debbie-and-krys-beach-resort-sub002/internal/pkg/request"
)

type ListAccommodationsRequest struct {
	request.ListParams
	Type        string `form:"type" binding:"omitempty,oneof=room cottage hall"`
	Keyword     string `form:"q"`
	MinCapacity int    `form:"min_capacity" binding:"omitempty,min=1"`
	IsActive    *bool  `form:"is_active"`
	SortBy      string `form:"sort_by" binding:"omitempty,oneof=name capacity created_at"`
}

type CreateAccommodationRequest struct {
	Name        string `json:"name" binding:"required,max=100"`
	Type        string `json:"type" binding:"required,oneof=room cottage hall"`
	Description string `json:"description" binding:"max=2000"`
	Capacity    int    `json:"capacity" binding:"required,min=1"`
	IsActive    *bool  `json:"is_active"`
}

type UpdateAccommodationRequest struct {
	Name        *string `json:"name" binding:"omitempty,max=100"`
	Type        *string `json:"type" binding:"omitempty,oneof=room cottage hall"`
	Description *string `json:"description" binding:"omitempty,max=2000"`
	Capacity    *int    `json:"capacity" binding:"omitempty,min=1"`
	IsActive    *bool   `json:"is_active"`
}

type AccommodationResponse struct {
	ID           string             `json:"id"`
	Name         string             `json:"name"`
	Type         accommodation.Type `json:"type"`
	Description  string             `json:"description"`
	Capacity     int                `json:"capacity"`
	IsActive     bool               `json:"is_active"`
	ImageURL     *string            `json:"image_url"`
	ThumbnailURL *string            `json:"thumbnail_url"`
	CreatedAt    time.Time          `json:"created_at"`
	UpdatedAt    time.Time          `json:"updated_at"`
}

func NewResponse(a *accommodation.Accommodation) AccommodationResponse {
	resp := AccommodationResponse{
		ID:          a.ID,
		Name:        a.Name,
		Type:        a.Type,
		Description: a.Description,
		Capacity:    a.Capacity,
		IsActive:    a.IsActive,
		CreatedAt:   a.CreatedAt,
		UpdatedAt:   a.UpdatedAt,
	}
	if a.ImageFileID != nil {
		img, thumb := file.FileURL(*a.ImageFileID), file.ThumbnailURL(*a.ImageFileID)
		resp.ImageURL, resp.ThumbnailURL = &img, &thumb
	}
	return resp
}
