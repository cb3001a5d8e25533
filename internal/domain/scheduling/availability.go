package scheduling

import (
	"time"

	"github.com/google/uuid"

	"github.com/washbay/washbay/internal/domain/settings"
)

// HoursWindow is a resolved working-hours window.
type HoursWindow struct {
	Start time.Time `json:"start"`
	End   time.Time `json:"end"`
}

// DayAvailability is the availability response for one service on one day.
// A closed day carries a nil WorkingHours and no slots; an open day with no
// free windows carries the hours and an empty slot list. Both mean "nothing
// bookable" and neither is an error.
type DayAvailability struct {
	Date            string       `json:"date"`
	ServiceID       uuid.UUID    `json:"service_id"`
	ServiceDuration int          `json:"service_duration"`
	WorkingHours    *HoursWindow `json:"working_hours"`
	Slots           []time.Time  `json:"available_slots"`
}

// ComputeAvailability lists the bookable start times for a service on a
// date. Pure: same inputs, same output, ascending order, no side effects.
//
// workerID narrows the capacity partition to one worker; nil means the
// shared pool, where every active appointment counts regardless of its
// worker assignment. When date is now's calendar day, slots before the next
// 30-minute boundary after now are excluded.
func ComputeAvailability(date time.Time, serviceID uuid.UUID, durationMin int, cfg *settings.ScheduleConfig, existing []*Appointment, workerID *uuid.UUID, now time.Time) DayAvailability {
	out := DayAvailability{
		Date:            date.Format("2006-01-02"),
		ServiceID:       serviceID,
		ServiceDuration: durationMin,
		Slots:           []time.Time{},
	}
	if durationMin <= 0 {
		return out
	}
	if !cfg.IsWorkDay(date.Weekday()) || cfg.IsClosedDate(out.Date) {
		return out
	}

	workStart, workEnd := WorkingWindow(date, cfg.WorkStartHour, cfg.WorkEndHour)
	if !workStart.Before(workEnd) {
		return out
	}
	out.WorkingHours = &HoursWindow{Start: workStart, End: workEnd}

	floor := workStart
	if sameDay(date, now) {
		if b := NextSlotBoundary(now.In(date.Location())); b.After(floor) {
			floor = b
		}
	}

	key := PoolResource()
	if workerID != nil {
		key = WorkerResource(*workerID)
	}
	capacity := cfg.Capacity()
	duration := time.Duration(durationMin) * time.Minute

	grid := NewSlotGrid(workStart, workEnd, SlotStep)
	for slot, ok := grid.Next(); ok; slot, ok = grid.Next() {
		if slot.Before(floor) {
			continue
		}
		slotEnd := slot.Add(duration)
		if slotEnd.After(workEnd) {
			continue
		}
		if countOverlapping(existing, key, slot, slotEnd, nil) < capacity {
			out.Slots = append(out.Slots, slot)
		}
	}
	return out
}

// countOverlapping counts active appointments in the partition overlapping
// [start, end), skipping exclude when set (reschedules exclude themselves).
func countOverlapping(appts []*Appointment, key ResourceKey, start, end time.Time, exclude *uuid.UUID) int {
	n := 0
	for _, a := range appts {
		if !a.Active() || !key.Matches(a) {
			continue
		}
		if exclude != nil && a.ID == *exclude {
			continue
		}
		if Overlaps(a.StartTime, a.End(), start, end) {
			n++
		}
	}
	return n
}

func sameDay(a, b time.Time) bool {
	b = b.In(a.Location())
	ay, am, ad := a.Date()
	by, bm, bd := b.Date()
	return ay == by && am == bm && ad == bd
}
