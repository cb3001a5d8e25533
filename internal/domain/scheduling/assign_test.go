package scheduling

import (
	"testing"

	"github.com/google/uuid"

	"github.com/washbay/washbay/internal/domain/staff"
)

func worker(name string, position int) *staff.Worker {
	return &staff.Worker{ID: uuid.New(), Name: name, Position: position, Active: true}
}

func TestPickWorker_FirstListedOnTie(t *testing.T) {
	alice := worker("Alice", 0)
	bob := worker("Bob", 1)
	start := mustTime(t, "2026-03-02 10:00")

	got := PickWorker(start, 30, []*staff.Worker{alice, bob}, nil, 1)
	if got == nil || got.ID != alice.ID {
		t.Errorf("tie between idle workers must pick the first listed, got %v", got)
	}
}

func TestPickWorker_PrefersLeastLoaded(t *testing.T) {
	alice := worker("Alice", 0)
	bob := worker("Bob", 1)
	start := mustTime(t, "2026-03-02 10:00")
	existing := []*Appointment{
		appt(t, "2026-03-02 10:00", 30, &alice.ID, StatusScheduled),
	}

	got := PickWorker(start, 30, []*staff.Worker{alice, bob}, existing, 2)
	if got == nil || got.ID != bob.ID {
		t.Errorf("want Bob (0 overlaps) over Alice (1), got %v", got)
	}
}

func TestPickWorker_SkipsSaturated(t *testing.T) {
	alice := worker("Alice", 0)
	bob := worker("Bob", 1)
	start := mustTime(t, "2026-03-02 10:00")
	existing := []*Appointment{
		appt(t, "2026-03-02 10:00", 60, &alice.ID, StatusScheduled),
	}

	// Capacity 1 per worker: Alice is full, Bob takes it.
	got := PickWorker(start, 30, []*staff.Worker{alice, bob}, existing, 1)
	if got == nil || got.ID != bob.ID {
		t.Errorf("want Bob, got %v", got)
	}
}

func TestPickWorker_NilWhenAllSaturated(t *testing.T) {
	alice := worker("Alice", 0)
	start := mustTime(t, "2026-03-02 10:00")
	existing := []*Appointment{
		appt(t, "2026-03-02 10:00", 60, &alice.ID, StatusScheduled),
	}

	if got := PickWorker(start, 30, []*staff.Worker{alice}, existing, 1); got != nil {
		t.Errorf("want nil when every worker is at capacity, got %v", got)
	}
}

func TestPickWorker_IgnoresCancelledAndNonOverlapping(t *testing.T) {
	alice := worker("Alice", 0)
	start := mustTime(t, "2026-03-02 10:00")
	existing := []*Appointment{
		appt(t, "2026-03-02 10:00", 60, &alice.ID, StatusCancelled),
		appt(t, "2026-03-02 08:00", 60, &alice.ID, StatusScheduled),
	}

	if got := PickWorker(start, 30, []*staff.Worker{alice}, existing, 1); got == nil {
		t.Error("cancelled and non-overlapping bookings must not block assignment")
	}
}

func TestPickWorker_NoWorkers(t *testing.T) {
	if got := PickWorker(mustTime(t, "2026-03-02 10:00"), 30, nil, nil, 1); got != nil {
		t.Errorf("want nil for an empty roster, got %v", got)
	}
}
