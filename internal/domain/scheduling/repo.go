package scheduling

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// ListFilter narrows appointment listings.
type ListFilter struct {
	Date     *time.Time
	WorkerID *uuid.UUID
	ClientID *uuid.UUID
	Status   string
}

type Repository interface {
	Create(ctx context.Context, a *Appointment) error
	GetByID(ctx context.Context, id uuid.UUID) (*Appointment, error)
	// Update rewrites start_time, duration and worker on reschedule.
	Update(ctx context.Context, a *Appointment) error
	UpdateStatus(ctx context.Context, id uuid.UUID, status string) error
	// ListActiveForDay returns the non-cancelled appointments starting in
	// [dayStart, dayEnd), optionally narrowed to one worker. All repository
	// methods join a transaction carried in ctx, which is what makes the
	// Coordinator's check-then-write atomic.
	ListActiveForDay(ctx context.Context, dayStart, dayEnd time.Time, workerID *uuid.UUID) ([]*Appointment, error)
	List(ctx context.Context, f ListFilter, limit, offset int) ([]*Appointment, int, error)
}
