package catalog

import (
	"context"
	"fmt"

	"github.com/google/uuid"
)

// Svc wraps the repository with input validation. The entity itself is named
// Service, so the usual Service/Handler pairing is abbreviated here.
type Svc struct {
	repo Repository
}

func NewSvc(repo Repository) *Svc {
	return &Svc{repo: repo}
}

func (s *Svc) Create(ctx context.Context, svc *Service) error {
	if svc.Name == "" {
		return fmt.Errorf("name is required")
	}
	if svc.DurationMin <= 0 {
		return fmt.Errorf("duration_min must be positive")
	}
	if svc.Price < 0 {
		return fmt.Errorf("price must not be negative")
	}
	return s.repo.Create(ctx, svc)
}

func (s *Svc) Get(ctx context.Context, id uuid.UUID) (*Service, error) {
	return s.repo.GetByID(ctx, id)
}

func (s *Svc) Update(ctx context.Context, svc *Service) error {
	if svc.DurationMin <= 0 {
		return fmt.Errorf("duration_min must be positive")
	}
	if svc.Price < 0 {
		return fmt.Errorf("price must not be negative")
	}
	return s.repo.Update(ctx, svc)
}

func (s *Svc) Delete(ctx context.Context, id uuid.UUID) error {
	return s.repo.Delete(ctx, id)
}

func (s *Svc) List(ctx context.Context, activeOnly bool, limit, offset int) ([]*Service, int, error) {
	return s.repo.List(ctx, activeOnly, limit, offset)
}
