package settings

import (
	"fmt"
	"time"
)

// ScheduleConfig is the single process-wide booking configuration row. It is
// lazily created with defaults on first read and updated by admin action.
type ScheduleConfig struct {
	WorkStartHour         int       `db:"work_start_hour" json:"work_start_hour"`
	WorkEndHour           int       `db:"work_end_hour" json:"work_end_hour"`
	WorkDays              []int     `db:"work_days" json:"work_days"`
	ClosedDates           []string  `db:"closed_dates" json:"closed_dates"`
	MaxConcurrentBookings int       `db:"max_concurrent_bookings" json:"max_concurrent_bookings"`
	MultiWorkerEnabled    bool      `db:"multi_worker_enabled" json:"multi_worker_enabled"`
	UpdatedAt             time.Time `db:"updated_at" json:"updated_at"`
}

// DefaultScheduleConfig is what the singleton is seeded with on first read:
// Monday-Saturday, 08:00-18:00, one car at a time.
func DefaultScheduleConfig() *ScheduleConfig {
	return &ScheduleConfig{
		WorkStartHour:         8,
		WorkEndHour:           18,
		WorkDays:              []int{1, 2, 3, 4, 5, 6},
		ClosedDates:           []string{},
		MaxConcurrentBookings: 1,
		MultiWorkerEnabled:    false,
	}
}

// Validate checks the config invariants.
func (c *ScheduleConfig) Validate() error {
	if c.WorkStartHour < 0 || c.WorkStartHour > 23 {
		return fmt.Errorf("work_start_hour must be in 0-23, got %d", c.WorkStartHour)
	}
	if c.WorkEndHour < 0 || c.WorkEndHour > 23 {
		return fmt.Errorf("work_end_hour must be in 0-23, got %d", c.WorkEndHour)
	}
	if c.WorkStartHour >= c.WorkEndHour {
		return fmt.Errorf("work_start_hour (%d) must be before work_end_hour (%d)", c.WorkStartHour, c.WorkEndHour)
	}
	if c.MaxConcurrentBookings <= 0 {
		return fmt.Errorf("max_concurrent_bookings must be positive, got %d", c.MaxConcurrentBookings)
	}
	if len(c.WorkDays) == 0 {
		return fmt.Errorf("work_days must not be empty")
	}
	for _, d := range c.WorkDays {
		if d < 0 || d > 6 {
			return fmt.Errorf("work_days entries must be weekday indices 0-6, got %d", d)
		}
	}
	for _, d := range c.ClosedDates {
		if _, err := time.Parse("2006-01-02", d); err != nil {
			return fmt.Errorf("closed_dates entries must be YYYY-MM-DD, got %q", d)
		}
	}
	return nil
}

// IsWorkDay reports whether the weekday (0 = Sunday) is a working day.
func (c *ScheduleConfig) IsWorkDay(weekday time.Weekday) bool {
	for _, d := range c.WorkDays {
		if d == int(weekday) {
			return true
		}
	}
	return false
}

// IsClosedDate reports whether the date (YYYY-MM-DD) is an exact-match
// closure.
func (c *ScheduleConfig) IsClosedDate(date string) bool {
	for _, d := range c.ClosedDates {
		if d == date {
			return true
		}
	}
	return false
}

// Capacity is the per-resource concurrency cap the booking engine enforces.
// With multi-worker mode off the wash is strictly single-occupancy regardless
// of the configured maximum.
func (c *ScheduleConfig) Capacity() int {
	if !c.MultiWorkerEnabled {
		return 1
	}
	return c.MaxConcurrentBookings
}
