package scheduling

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
)

// ReservationRequest describes one slot reservation attempt.
type ReservationRequest struct {
	Start         time.Time
	DurationMin   int
	Resource      ResourceKey
	MaxConcurrent int
	// ExcludeAppointmentID is set on reschedule so the appointment being
	// moved does not block itself.
	ExcludeAppointmentID *uuid.UUID
}

// ReservationResult is the discriminated outcome of a reservation check.
// A full slot is an expected outcome, not an error.
type ReservationResult struct {
	OK        bool
	Reason    string
	Conflicts int
}

// Coordinator is the concurrency-critical reservation primitive. Reserve
// must run inside a serializable transaction carried in ctx; the caller's
// subsequent insert or update shares that transaction, so no concurrent
// booking can interleave between the capacity check and the write.
type Coordinator struct {
	repo Repository
}

func NewCoordinator(repo Repository) *Coordinator {
	return &Coordinator{repo: repo}
}

// Reserve counts the active appointments in the request's resource partition
// that overlap the requested window, on the request's calendar day. It
// performs no writes itself; call it immediately before the write, never
// cache its answer.
func (co *Coordinator) Reserve(ctx context.Context, req ReservationRequest) (ReservationResult, error) {
	if req.DurationMin <= 0 {
		return ReservationResult{}, fmt.Errorf("duration must be positive, got %d", req.DurationMin)
	}
	if req.MaxConcurrent <= 0 {
		return ReservationResult{}, fmt.Errorf("max concurrent must be positive, got %d", req.MaxConcurrent)
	}

	dayStart, dayEnd := DayWindow(req.Start)
	var workerFilter *uuid.UUID
	if !req.Resource.IsPool() {
		id := req.Resource.WorkerID()
		workerFilter = &id
	}

	appts, err := co.repo.ListActiveForDay(ctx, dayStart, dayEnd, workerFilter)
	if err != nil {
		return ReservationResult{}, fmt.Errorf("listing day appointments: %w", err)
	}

	end := req.Start.Add(time.Duration(req.DurationMin) * time.Minute)
	conflicts := countOverlapping(appts, req.Resource, req.Start, end, req.ExcludeAppointmentID)
	if conflicts >= req.MaxConcurrent {
		return ReservationResult{
			OK:        false,
			Reason:    "slot no longer available",
			Conflicts: conflicts,
		}, nil
	}
	return ReservationResult{OK: true}, nil
}
