package scheduling

import "time"

// SlotStep is the fixed slot grid granularity, independent of service
// duration.
const SlotStep = 30 * time.Minute

// DayWindow returns the midnight-to-midnight boundaries of date's calendar
// day, in date's location.
func DayWindow(date time.Time) (time.Time, time.Time) {
	y, m, d := date.Date()
	start := time.Date(y, m, d, 0, 0, 0, 0, date.Location())
	return start, start.AddDate(0, 0, 1)
}

// WorkingWindow returns the working-hours window for date: date at
// startHour:00 through date at endHour:00.
func WorkingWindow(date time.Time, startHour, endHour int) (time.Time, time.Time) {
	y, m, d := date.Date()
	start := time.Date(y, m, d, startHour, 0, 0, 0, date.Location())
	end := time.Date(y, m, d, endHour, 0, 0, 0, date.Location())
	return start, end
}

// SlotGrid is a lazy, finite, restartable iterator over candidate slot start
// times. A malformed window (start >= end) yields an empty grid.
type SlotGrid struct {
	start time.Time
	end   time.Time
	step  time.Duration
	next  time.Time
}

// NewSlotGrid builds a grid of candidate starts in [start, end) at the given
// step.
func NewSlotGrid(start, end time.Time, step time.Duration) *SlotGrid {
	return &SlotGrid{start: start, end: end, step: step, next: start}
}

// Next returns the next candidate start, or false when the grid is
// exhausted.
func (g *SlotGrid) Next() (time.Time, bool) {
	if g.step <= 0 || !g.next.Before(g.end) {
		return time.Time{}, false
	}
	t := g.next
	g.next = g.next.Add(g.step)
	return t, true
}

// Reset rewinds the grid to its first slot.
func (g *SlotGrid) Reset() {
	g.next = g.start
}

// Overlaps reports whether two half-open intervals [aStart, aEnd) and
// [bStart, bEnd) intersect. Abutting intervals do not overlap.
func Overlaps(aStart, aEnd, bStart, bEnd time.Time) bool {
	return aStart.Before(bEnd) && bStart.Before(aEnd)
}

// NextSlotBoundary returns the first 30-minute boundary strictly after now:
// minutes below 30 round to :30, minutes 30 and above round to the next
// hour.
func NextSlotBoundary(now time.Time) time.Time {
	y, m, d := now.Date()
	h := now.Hour()
	if now.Minute() < 30 {
		return time.Date(y, m, d, h, 30, 0, 0, now.Location())
	}
	return time.Date(y, m, d, h+1, 0, 0, 0, now.Location())
}
