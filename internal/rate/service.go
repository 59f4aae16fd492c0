package rate

import (
	"context"
	"errors"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/jomarimuli/debbie-and-krys-beach-resort-sub002/internal/accommodation"
	"github.com/jomarimuli/debbie-and-krys-beach-resort-sub002/internal/ledger"
)

type CreateRequest struct {
	AccommodationID string
	Name            string
	Price           decimal.Decimal
	Unit            string
	IsActive        *bool
}

type UpdateRequest struct {
	Name     *string
	Price    *decimal.Decimal
	Unit     *string
	IsActive *bool
}

type Service interface {
	Create(ctx context.Context, req CreateRequest) (*Rate, error)
	GetByID(ctx context.Context, id string) (*Rate, error)
	GetMany(ctx context.Context, ids []string) (map[string]*Rate, error)
	List(ctx context.Context, filter Filter) ([]*Rate, int, error)
	Update(ctx context.Context, id string, req UpdateRequest) (*Rate, error)
	Delete(ctx context.Context, id string) error
}

type service struct {
	repo             Repository
	accommodationSvc accommodation.Service
}

func NewService(repo Repository, accommodationSvc accommodation.Service) Service {
	return &service{repo: repo, accommodationSvc: accommodationSvc}
}

func validPrice(p decimal.Decimal) bool {
	return !p.IsNegative() && p.Equal(ledger.Round(p))
}

func (s *service) Create(ctx context.Context, req CreateRequest) (*Rate, error) {
	name := strings.TrimSpace(req.Name)
	if name == "" {
		return nil, ErrEmptyName
	}
	unit, err := ParseUnit(req.Unit)
	if err != nil {
		return nil, ErrInvalidUnit
	}
	if !validPrice(req.Price) {
		return nil, ErrInvalidPrice
	}

	if _, err := s.accommodationSvc.GetByID(ctx, req.AccommodationID); err != nil {
		if errors.Is(err, accommodation.ErrNotFound) {
			return nil, ErrAccommodationNotFound
		}
		return nil, err
	}

	r := &Rate{
		AccommodationID: req.AccommodationID,
		Name:            name,
		Price:           req.Price,
		Unit:            unit,
		IsActive:        true,
	}
	if req.IsActive != nil {
		r.IsActive = *req.IsActive
	}

	if err := s.repo.Create(ctx, r); err != nil {
		return nil, err
	}
	return r, nil
}

func (s *service) GetByID(ctx context.Context, id string) (*Rate, error) {
	return s.repo.GetByID(ctx, id)
}

func (s *service) GetMany(ctx context.Context, ids []string) (map[string]*Rate, error) {
	return s.repo.GetMany(ctx, ids)
}

func (s *service) List(ctx context.Context, filter Filter) ([]*Rate, int, error) {
	return s.repo.List(ctx, filter)
}

func (s *service) Update(ctx context.Context, id string, req UpdateRequest) (*Rate, error) {
	r, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if req.Name != nil {
		name := strings.TrimSpace(*req.Name)
		if name == "" {
			return nil, ErrEmptyName
		}
		r.Name = name
	}
	if req.Price != nil {
		if !validPrice(*req.Price) {
			return nil, ErrInvalidPrice
		}
		r.Price = *req.Price
	}
	if req.Unit != nil {
		unit, err := ParseUnit(*req.Unit)
		if err != nil {
			return nil, ErrInvalidUnit
		}
		r.Unit = unit
	}
	if req.IsActive != nil {
		r.IsActive = *req.IsActive
	}

	if err := s.repo.Update(ctx, r); err != nil {
		return nil, err
	}
	return r, nil
}

func (s *service) Delete(ctx context.Context, id string) error {
	return s.repo.Delete(ctx, id)
}
