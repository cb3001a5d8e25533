package scheduling

import (
	"time"

	"github.com/washbay/washbay/internal/domain/staff"
)

// PickWorker chooses the least-loaded worker free enough for the window
// [start, start+durationMin). A worker qualifies when their overlapping
// active appointment count is below maxConcurrent; among qualifiers the
// lowest count wins and ties break by roster order, first listed first.
// Returns nil when nobody qualifies, which callers report as no
// availability.
//
// Advisory only: a concurrent booking can consume the chosen worker's slot
// between selection and commit, so the result must still pass the
// reservation check inside the booking transaction.
func PickWorker(start time.Time, durationMin int, workers []*staff.Worker, existing []*Appointment, maxConcurrent int) *staff.Worker {
	end := start.Add(time.Duration(durationMin) * time.Minute)

	var best *staff.Worker
	bestCount := 0
	for _, w := range workers {
		count := countOverlapping(existing, WorkerResource(w.ID), start, end, nil)
		if count >= maxConcurrent {
			continue
		}
		if best == nil || count < bestCount {
			best = w
			bestCount = count
		}
	}
	return best
}
