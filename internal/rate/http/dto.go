package http

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/jomarimuli/debbie-and-krys-beach-resort-sub002/internal/pkg/request"
	"github.com/jomarimuli/debbie-and-krys-beach-resort-sub002/internal/rate"
)

type ListRatesRequest struct {
	request.ListParams
	IsActive *bool `form:"is_active"`
}

type CreateRateRequest struct {
	AccommodationID string           `json:"accommodation_id" binding:"required,uuid"`
	Name            string           `json:"name" binding:"required,max=100"`
	Price           *decimal.Decimal `json:"price" binding:"required,money_gte0"`
	Unit            string           `json:"unit" binding:"required,oneof=per_night per_stay"`
	IsActive        *bool            `json:"is_active"`
}

type UpdateRateRequest struct {
	Name     *string          `json:"name" binding:"omitempty,max=100"`
	Price    *decimal.Decimal `json:"price" binding:"omitempty,money_gte0"`
	Unit     *string          `json:"unit" binding:"omitempty,oneof=per_night per_stay"`
	IsActive *bool            `json:"is_active"`
}

type RateResponse struct {
	ID              string          `json:"id"`
	AccommodationID string          `json:"accommodation_id"`
	Name            string          `json:"name"`
	Price           decimal.Decimal `json:"price"`
	Unit            rate.Unit       `json:"unit"`
	IsActive        bool            `json:"is_active"`
	CreatedAt       time.Time       `json:"created_at"`
	UpdatedAt       time.Time       `json:"updated_at"`
}

func NewResponse(r *rate.Rate) RateResponse {
	return RateResponse{
		ID:              r.ID,
		AccommodationID: r.AccommodationID,
		Name:            r.Name,
		Price:           r.Price,
		Unit:            r.Unit,
		IsActive:        r.IsActive,
		CreatedAt:       r.CreatedAt,
		UpdatedAt:       r.UpdatedAt,
	}
}
