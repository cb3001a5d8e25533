package billing

import (
	"context"
	"errors"

	"github.com/google/uuid"
)

// ErrNotFound is returned when a payment does not exist.
var ErrNotFound = errors.New("payment not found")

type Repository interface {
	// Create inserts a payment. It joins the caller's transaction when one is
	// carried in ctx, which is how the booking flow keeps appointment and
	// payment atomic.
	Create(ctx context.Context, p *Payment) error
	GetByID(ctx context.Context, id uuid.UUID) (*Payment, error)
	ListByAppointment(ctx context.Context, appointmentID uuid.UUID) ([]*Payment, error)
	UpdateStatus(ctx context.Context, id uuid.UUID, status string) error
}
