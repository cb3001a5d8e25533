package staff

import (
	"context"
	"errors"

	"github.com/google/uuid"
)

// ErrNotFound is returned when a worker does not exist.
var ErrNotFound = errors.New("worker not found")

type Repository interface {
	Create(ctx context.Context, w *Worker) error
	GetByID(ctx context.Context, id uuid.UUID) (*Worker, error)
	Update(ctx context.Context, w *Worker) error
	Delete(ctx context.Context, id uuid.UUID) error
	// ListActive returns active workers ordered by position. The order is part
	// of the contract: assignment tie-breaks follow it.
	ListActive(ctx context.Context) ([]*Worker, error)
	List(ctx context.Context, limit, offset int) ([]*Worker, int, error)
}
