package service

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"taskmaster/internal/model"
)

// ProjectStore is the persistence surface the project service needs.
type ProjectStore interface {
	Create(ctx context.Context, project *model.Project) error
	FindByID(ctx context.Context, id string) (*model.Project, error)
	List(ctx context.Context, ownerID string) ([]model.Project, error)
	Update(ctx context.Context, project *model.Project) error
	Delete(ctx context.Context, id string) error
}

// ProjectInput represents data required to create or update a project.
type ProjectInput struct {
	OwnerID     string
	Name        string
	Description string
	Color       string
}

// ProjectService provides helpers around projects.
type ProjectService struct {
	repo ProjectStore
}

func NewProjectService(repo ProjectStore) *ProjectService {
	return &ProjectService{repo: repo}
}

func (s *ProjectService) Create(ctx context.Context, input ProjectInput) (*model.Project, error) {
	if input.Name == "" {
		return nil, fmt.Errorf("%w: name is required", ErrValidation)
	}
	project := model.Project{
		ID:          uuid.NewString(),
		OwnerID:     input.OwnerID,
		Name:        input.Name,
		Description: input.Description,
		Color:       input.Color,
	}
	if err := s.repo.Create(ctx, &project); err != nil {
		return nil, err
	}
	return &project, nil
}

func (s *ProjectService) Get(ctx context.Context, id string) (*model.Project, error) {
	return s.repo.FindByID(ctx, id)
}

func (s *ProjectService) List(ctx context.Context, ownerID string) ([]model.Project, error) {
	return s.repo.List(ctx, ownerID)
}

func (s *ProjectService) Update(ctx context.Context, id string, input ProjectInput) (*model.Project, error) {
	if input.Name == "" {
		return nil, fmt.Errorf("%w: name is required", ErrValidation)
	}
	project, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	project.Name = input.Name
	project.Description = input.Description
	project.Color = input.Color
	if err := s.repo.Update(ctx, project); err != nil {
		return nil, err
	}
	return project, nil
}

func (s *ProjectService) Delete(ctx context.Context, id string) error {
	return s.repo.Delete(ctx, id)
}
