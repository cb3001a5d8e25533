package scheduling

import (
	"time"

	"github.com/google/uuid"
)

// Appointment statuses.
const (
	StatusScheduled  = "scheduled"
	StatusInProgress = "in_progress"
	StatusDelivered  = "delivered"
	StatusCancelled  = "cancelled"
)

// Appointment maps to the appointments table. StartTime is the slot start;
// the occupied window is [StartTime, StartTime+DurationMin). Only
// non-cancelled appointments count toward capacity.
type Appointment struct {
	ID          uuid.UUID  `db:"id" json:"id"`
	StartTime   time.Time  `db:"start_time" json:"start_time"`
	DurationMin int        `db:"duration_min" json:"duration_min"`
	WorkerID    *uuid.UUID `db:"worker_id" json:"worker_id,omitempty"`
	Status      string     `db:"status" json:"status"`
	ClientID    uuid.UUID  `db:"client_id" json:"client_id"`
	ServiceID   uuid.UUID  `db:"service_id" json:"service_id"`
	Notes       *string    `db:"notes" json:"notes,omitempty"`
	CreatedAt   time.Time  `db:"created_at" json:"created_at"`
	UpdatedAt   time.Time  `db:"updated_at" json:"updated_at"`
}

// End returns the exclusive end of the occupied window.
func (a *Appointment) End() time.Time {
	return a.StartTime.Add(time.Duration(a.DurationMin) * time.Minute)
}

// Active reports whether the appointment counts toward capacity.
func (a *Appointment) Active() bool {
	return a.Status != StatusCancelled
}

var statusTransitions = map[string][]string{
	StatusScheduled:  {StatusInProgress, StatusCancelled},
	StatusInProgress: {StatusDelivered, StatusCancelled},
	StatusDelivered:  {},
	StatusCancelled:  {},
}

// CanTransition reports whether an appointment may move between statuses.
func CanTransition(from, to string) bool {
	for _, t := range statusTransitions[from] {
		if t == to {
			return true
		}
	}
	return false
}

// ValidStatus reports whether s is a known appointment status.
func ValidStatus(s string) bool {
	_, ok := statusTransitions[s]
	return ok
}

// ResourceKey names a capacity partition: a specific worker, or the shared
// pool when no worker dimension applies. Keeping it explicit avoids the
// scattered nil-checks a nullable worker id would otherwise force on every
// counting site.
type ResourceKey struct {
	workerID uuid.UUID
	pool     bool
}

// PoolResource is the shared, undifferentiated wash capacity.
func PoolResource() ResourceKey {
	return ResourceKey{pool: true}
}

// WorkerResource is the capacity partition of one worker.
func WorkerResource(id uuid.UUID) ResourceKey {
	return ResourceKey{workerID: id}
}

// IsPool reports whether the key names the shared pool.
func (k ResourceKey) IsPool() bool { return k.pool }

// WorkerID returns the worker for a non-pool key.
func (k ResourceKey) WorkerID() uuid.UUID { return k.workerID }

// Matches reports whether an appointment belongs to this partition. The pool
// spans every active appointment, including those without an assigned
// worker; a worker key matches only that worker's appointments.
func (k ResourceKey) Matches(a *Appointment) bool {
	if k.pool {
		return true
	}
	return a.WorkerID != nil && *a.WorkerID == k.workerID
}
