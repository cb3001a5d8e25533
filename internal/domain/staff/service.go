package staff

import (
	"context"
	"fmt"

	"github.com/google/uuid"
)

type Service struct {
	repo Repository
}

func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

func (s *Service) Create(ctx context.Context, w *Worker) error {
	if w.Name == "" {
		return fmt.Errorf("name is required")
	}
	if w.Position < 0 {
		return fmt.Errorf("position must not be negative")
	}
	return s.repo.Create(ctx, w)
}

func (s *Service) Get(ctx context.Context, id uuid.UUID) (*Worker, error) {
	return s.repo.GetByID(ctx, id)
}

func (s *Service) Update(ctx context.Context, w *Worker) error {
	if w.Name == "" {
		return fmt.Errorf("name is required")
	}
	if w.Position < 0 {
		return fmt.Errorf("position must not be negative")
	}
	return s.repo.Update(ctx, w)
}

func (s *Service) Delete(ctx context.Context, id uuid.UUID) error {
	return s.repo.Delete(ctx, id)
}

func (s *Service) ListActive(ctx context.Context) ([]*Worker, error) {
	return s.repo.ListActive(ctx)
}

func (s *Service) List(ctx context.Context, limit, offset int) ([]*Worker, int, error) {
	return s.repo.List(ctx, limit, offset)
}
