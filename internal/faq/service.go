package faq

import (
	"context"
	"strings"

	"github.com/sirupsen/logrus"
)

type CreateRequest struct {
	Question  string
	Answer    string
	SortOrder int
	// IsActive defaults to true.
	IsActive *bool
}

type UpdateRequest struct {
	Question  *string
	Answer    *string
	SortOrder *int
	IsActive  *bool
}

type Service interface {
	Create(ctx context.Context, req CreateRequest) (*FAQ, error)
	GetByID(ctx context.Context, id string) (*FAQ, error)
	List(ctx context.Context, filter Filter) ([]*FAQ, int, error)
	Update(ctx context.Context, id string, req UpdateRequest) (*FAQ, error)
	Delete(ctx context.Context, id string) error
}

type service struct {
	repo Repository
	log  logrus.FieldLogger
}

func NewService(repo Repository, log logrus.FieldLogger) Service {
	return &service{repo: repo, log: log}
}

func (s *service) Create(ctx context.Context, req CreateRequest) (*FAQ, error) {
	question := strings.TrimSpace(req.Question)
	if question == "" {
		return nil, ErrQuestionRequired
	}
	answer := strings.TrimSpace(req.Answer)
	if answer == "" {
		return nil, ErrAnswerRequired
	}

	f := &FAQ{
		Question:  question,
		Answer:    answer,
		SortOrder: req.SortOrder,
		IsActive:  req.IsActive == nil || *req.IsActive,
	}
	if err := s.repo.Create(ctx, f); err != nil {
		return nil, err
	}

	s.log.WithField("faq_id", f.ID).Info("faq created")
	return f, nil
}

func (s *service) GetByID(ctx context.Context, id string) (*FAQ, error) {
	return s.repo.GetByID(ctx, id)
}

func (s *service) List(ctx context.Context, filter Filter) ([]*FAQ, int, error) {
	return s.repo.List(ctx, filter)
}

func (s *service) Update(ctx context.Context, id string, req UpdateRequest) (*FAQ, error) {
	f, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if req.Question != nil {
		q := strings.TrimSpace(*req.Question)
		if q == "" {
			return nil, ErrQuestionRequired
		}
		f.Question = q
	}
	if req.Answer != nil {
		a := strings.TrimSpace(*req.Answer)
		if a == "" {
			return nil, ErrAnswerRequired
		}
		f.Answer = a
	}
	if req.SortOrder != nil {
		f.SortOrder = *req.SortOrder
	}
	if req.IsActive != nil {
		f.IsActive = *req.IsActive
	}

	if err := s.repo.Update(ctx, f); err != nil {
		return nil, err
	}
	return f, nil
}

func (s *service) Delete(ctx context.Context, id string) error {
	if err := s.repo.Delete(ctx, id); err != nil {
		return err
	}
	s.log.WithField("faq_id", id).Info("faq deleted")
	return nil
}
