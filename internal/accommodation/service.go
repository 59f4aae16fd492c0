package accommodation

import (
	"context"
	"strings"

	"github.com/sirupsen/logrus"

	"github.com/jomarimuli/debbie-and-krys-beach-resort-sub002/internal/file"
)

type CreateRequest struct {
	Name        string
	Type        string
	Description string
	Capacity    int
	IsActive    *bool
}

type UpdateRequest struct {
	Name        *string
	Type        *string
	Description *string
	Capacity    *int
	IsActive    *bool
}

type Service interface {
	Create(ctx context.Context, req CreateRequest) (*Accommodation, error)
	GetByID(ctx context.Context, id string) (*Accommodation, error)
	GetMany(ctx context.Context, ids []string) (map[string]*Accommodation, error)
	List(ctx context.Context, filter Filter) ([]*Accommodation, int, error)
	Update(ctx context.Context, id string, req UpdateRequest) (*Accommodation, error)
	Delete(ctx context.Context, id string) error
	// SetImage points the accommodation at an uploaded photo and removes the
	// photo it replaces.
	SetImage(ctx context.Context, id, fileID string) error
	RemoveImage(ctx context.Context, id string) error
}

type service struct {
	repo        Repository
	fileService file.Service
	log         logrus.FieldLogger
}

func NewService(repo Repository, fileService file.Service, log logrus.FieldLogger) Service {
	return &service{
		repo:        repo,
		fileService: fileService,
		log:         log,
	}
}

func (s *service) Create(ctx context.Context, req CreateRequest) (*Accommodation, error) {
	name := strings.TrimSpace(req.Name)
	if name == "" {
		return nil, ErrEmptyName
	}
	t, err := ParseType(req.Type)
	if err != nil {
		return nil, ErrInvalidType
	}
	if req.Capacity < 1 {
		return nil, ErrInvalidCapacity
	}

	a := &Accommodation{
		Name:        name,
		Type:        t,
		Description: strings.TrimSpace(req.Description),
		Capacity:    req.Capacity,
		IsActive:    true,
	}
	if req.IsActive != nil {
		a.IsActive = *req.IsActive
	}

	if err := s.repo.Create(ctx, a); err != nil {
		return nil, err
	}
	return a, nil
}

func (s *service) GetByID(ctx context.Context, id string) (*Accommodation, error) {
	return s.repo.GetByID(ctx, id)
}

func (s *service) GetMany(ctx context.Context, ids []string) (map[string]*Accommodation, error) {
	return s.repo.GetMany(ctx, ids)
}

func (s *service) List(ctx context.Context, filter Filter) ([]*Accommodation, int, error) {
	return s.repo.List(ctx, filter)
}

func (s *service) Update(ctx context.Context, id string, req UpdateRequest) (*Accommodation, error) {
	a, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if req.Name != nil {
		name := strings.TrimSpace(*req.Name)
		if name == "" {
			return nil, ErrEmptyName
		}
		a.Name = name
	}
	if req.Type != nil {
		t, err := ParseType(*req.Type)
		if err != nil {
			return nil, ErrInvalidType
		}
		a.Type = t
	}
	if req.Description != nil {
		a.Description = strings.TrimSpace(*req.Description)
	}
	if req.Capacity != nil {
		if *req.Capacity < 1 {
			return nil, ErrInvalidCapacity
		}
		a.Capacity = *req.Capacity
	}
	if req.IsActive != nil {
		a.IsActive = *req.IsActive
	}

	if err := s.repo.Update(ctx, a); err != nil {
		return nil, err
	}
	return a, nil
}

func (s *service) Delete(ctx context.Context, id string) error {
	a, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if err := s.repo.Delete(ctx, id); err != nil {
		return err
	}
	if a.ImageFileID != nil {
		s.dropFile(ctx, *a.ImageFileID)
	}
	return nil
}

func (s *service) SetImage(ctx context.Context, id, fileID string) error {
	a, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return err
	}

	old := a.ImageFileID
	a.ImageFileID = &fileID
	if err := s.repo.Update(ctx, a); err != nil {
		return err
	}
	if old != nil && *old != fileID {
		s.dropFile(ctx, *old)
	}
	return nil
}

func (s *service) RemoveImage(ctx context.Context, id string) error {
	a, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if a.ImageFileID == nil {
		return nil
	}

	old := *a.ImageFileID
	a.ImageFileID = nil
	if err := s.repo.Update(ctx, a); err != nil {
		return err
	}
	s.dropFile(ctx, old)
	return nil
}

func (s *service) dropFile(ctx context.Context, fileID string) {
	if err := s.fileService.Delete(ctx, fileID); err != nil {
		s.log.WithError(err).WithField("file_id", fileID).Warn("failed to delete replaced accommodation photo")
	}
}
