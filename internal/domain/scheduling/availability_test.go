package scheduling

import (
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/washbay/washbay/internal/domain/settings"
)

// 2026-03-02 is a Monday.
func testConfig() *settings.ScheduleConfig {
	return settings.DefaultScheduleConfig()
}

func appt(t *testing.T, start string, durationMin int, workerID *uuid.UUID, status string) *Appointment {
	t.Helper()
	return &Appointment{
		ID:          uuid.New(),
		StartTime:   mustTime(t, start),
		DurationMin: durationMin,
		WorkerID:    workerID,
		Status:      status,
	}
}

func slotStrings(t *testing.T, slots []time.Time) []string {
	t.Helper()
	out := make([]string, len(slots))
	for i, s := range slots {
		out[i] = s.Format("15:04")
	}
	return out
}

func assertSlots(t *testing.T, got []time.Time, want ...string) {
	t.Helper()
	gotStr := slotStrings(t, got)
	if len(gotStr) != len(want) {
		t.Fatalf("got %d slots %v, want %d %v", len(gotStr), gotStr, len(want), want)
	}
	for i := range want {
		if gotStr[i] != want[i] {
			t.Errorf("slot[%d] = %s, want %s", i, gotStr[i], want[i])
		}
	}
}

func TestComputeAvailability_EmptyDay(t *testing.T) {
	date := mustTime(t, "2026-03-02 00:00")
	now := mustTime(t, "2026-02-27 12:00")

	out := ComputeAvailability(date, uuid.New(), 30, testConfig(), nil, nil, now)

	if out.Date != "2026-03-02" {
		t.Errorf("date = %s", out.Date)
	}
	if out.WorkingHours == nil {
		t.Fatal("expected working hours on an open day")
	}
	// 08:00 through 17:30 inclusive, every 30 minutes.
	if len(out.Slots) != 20 {
		t.Fatalf("got %d slots, want 20: %v", len(out.Slots), slotStrings(t, out.Slots))
	}
	if got := out.Slots[0].Format("15:04"); got != "08:00" {
		t.Errorf("first slot = %s", got)
	}
	if got := out.Slots[19].Format("15:04"); got != "17:30" {
		t.Errorf("last slot = %s", got)
	}
}

func TestComputeAvailability_LongServiceTrimsTail(t *testing.T) {
	date := mustTime(t, "2026-03-02 00:00")
	now := mustTime(t, "2026-02-27 12:00")

	out := ComputeAvailability(date, uuid.New(), 90, testConfig(), nil, nil, now)

	// A 90-minute service cannot start after 16:30.
	last := out.Slots[len(out.Slots)-1]
	if got := last.Format("15:04"); got != "16:30" {
		t.Errorf("last slot = %s, want 16:30", got)
	}
}

func TestComputeAvailability_BookedSlotExcluded(t *testing.T) {
	date := mustTime(t, "2026-03-02 00:00")
	now := mustTime(t, "2026-02-27 12:00")
	existing := []*Appointment{
		appt(t, "2026-03-02 10:00", 60, nil, StatusScheduled),
	}

	out := ComputeAvailability(date, uuid.New(), 30, testConfig(), existing, nil, now)

	slots := slotStrings(t, out.Slots)
	for _, s := range slots {
		if s == "10:00" || s == "10:30" {
			t.Errorf("slot %s should be blocked by the 10:00-11:00 booking", s)
		}
	}
	has := func(want string) bool {
		for _, s := range slots {
			if s == want {
				return true
			}
		}
		return false
	}
	if !has("09:30") {
		t.Error("09:30 abuts the booking and should remain available")
	}
	if !has("11:00") {
		t.Error("11:00 starts at the booking's end and should remain available")
	}
}

func TestComputeAvailability_LongServiceBlockedByLaterBooking(t *testing.T) {
	date := mustTime(t, "2026-03-02 00:00")
	now := mustTime(t, "2026-02-27 12:00")
	existing := []*Appointment{
		appt(t, "2026-03-02 10:00", 60, nil, StatusScheduled),
	}

	// A 60-minute service starting 09:30 would run into the 10:00 booking.
	out := ComputeAvailability(date, uuid.New(), 60, testConfig(), existing, nil, now)
	for _, s := range slotStrings(t, out.Slots) {
		if s == "09:30" {
			t.Error("09:30 with a 60-minute duration overlaps the 10:00 booking")
		}
	}
}

func TestComputeAvailability_CancelledIgnored(t *testing.T) {
	date := mustTime(t, "2026-03-02 00:00")
	now := mustTime(t, "2026-02-27 12:00")
	existing := []*Appointment{
		appt(t, "2026-03-02 10:00", 60, nil, StatusCancelled),
	}

	out := ComputeAvailability(date, uuid.New(), 30, testConfig(), existing, nil, now)
	if len(out.Slots) != 20 {
		t.Errorf("cancelled appointments must not block slots; got %d slots", len(out.Slots))
	}
}

func TestComputeAvailability_ClosedWeekday(t *testing.T) {
	// Default config closes Sunday; 2026-03-01 is a Sunday.
	date := mustTime(t, "2026-03-01 00:00")
	now := mustTime(t, "2026-02-27 12:00")

	out := ComputeAvailability(date, uuid.New(), 30, testConfig(), nil, nil, now)

	if out.WorkingHours != nil {
		t.Error("closed day must carry nil working hours")
	}
	if out.Slots == nil {
		t.Error("slots must be an empty list, not nil")
	}
	if len(out.Slots) != 0 {
		t.Errorf("closed day has %d slots", len(out.Slots))
	}
}

func TestComputeAvailability_ClosedDate(t *testing.T) {
	cfg := testConfig()
	cfg.ClosedDates = []string{"2026-03-02"}
	date := mustTime(t, "2026-03-02 00:00")
	now := mustTime(t, "2026-02-27 12:00")

	out := ComputeAvailability(date, uuid.New(), 30, cfg, nil, nil, now)
	if out.WorkingHours != nil || len(out.Slots) != 0 {
		t.Error("explicitly closed date must have no hours and no slots")
	}
}

func TestComputeAvailability_TodayFloorsPastSlots(t *testing.T) {
	date := mustTime(t, "2026-03-02 00:00")
	now := mustTime(t, "2026-03-02 13:36")

	out := ComputeAvailability(date, uuid.New(), 30, testConfig(), nil, nil, now)

	if got := out.Slots[0].Format("15:04"); got != "14:00" {
		t.Errorf("first slot = %s, want 14:00 (next boundary after 13:36)", got)
	}

	now = mustTime(t, "2026-03-02 13:05")
	out = ComputeAvailability(date, uuid.New(), 30, testConfig(), nil, nil, now)
	if got := out.Slots[0].Format("15:04"); got != "13:30" {
		t.Errorf("first slot = %s, want 13:30 (next boundary after 13:05)", got)
	}
}

func TestComputeAvailability_PoolCountsUnassigned(t *testing.T) {
	cfg := testConfig()
	cfg.MultiWorkerEnabled = true
	cfg.MaxConcurrentBookings = 2

	w1 := uuid.New()
	date := mustTime(t, "2026-03-02 00:00")
	now := mustTime(t, "2026-02-27 12:00")
	// One assigned, one unassigned; with capacity 2 the pool is full at 10:00.
	existing := []*Appointment{
		appt(t, "2026-03-02 10:00", 30, &w1, StatusScheduled),
		appt(t, "2026-03-02 10:00", 30, nil, StatusScheduled),
	}

	out := ComputeAvailability(date, uuid.New(), 30, cfg, existing, nil, now)
	for _, s := range slotStrings(t, out.Slots) {
		if s == "10:00" {
			t.Error("pool view must count both assigned and unassigned appointments")
		}
	}
}

func TestComputeAvailability_WorkerViewIgnoresOthers(t *testing.T) {
	cfg := testConfig()
	cfg.MultiWorkerEnabled = true
	cfg.MaxConcurrentBookings = 2

	w1 := uuid.New()
	w2 := uuid.New()
	date := mustTime(t, "2026-03-02 00:00")
	now := mustTime(t, "2026-02-27 12:00")
	existing := []*Appointment{
		appt(t, "2026-03-02 10:00", 30, &w1, StatusScheduled),
	}

	// w2's calendar is untouched by w1's booking.
	out := ComputeAvailability(date, uuid.New(), 30, cfg, existing, &w2, now)
	found := false
	for _, s := range slotStrings(t, out.Slots) {
		if s == "10:00" {
			found = true
		}
	}
	if !found {
		t.Error("10:00 should be free for a worker with no bookings")
	}
}

func TestComputeAvailability_Deterministic(t *testing.T) {
	date := mustTime(t, "2026-03-02 00:00")
	now := mustTime(t, "2026-02-27 12:00")
	svcID := uuid.New()
	existing := []*Appointment{
		appt(t, "2026-03-02 09:00", 60, nil, StatusScheduled),
		appt(t, "2026-03-02 14:30", 30, nil, StatusScheduled),
	}

	a := ComputeAvailability(date, svcID, 30, testConfig(), existing, nil, now)
	b := ComputeAvailability(date, svcID, 30, testConfig(), existing, nil, now)
	if len(a.Slots) != len(b.Slots) {
		t.Fatal("repeated computation changed the slot count")
	}
	for i := range a.Slots {
		if !a.Slots[i].Equal(b.Slots[i]) {
			t.Errorf("slot[%d] differs between runs", i)
		}
	}
	for i := 1; i < len(a.Slots); i++ {
		if !a.Slots[i-1].Before(a.Slots[i]) {
			t.Errorf("slots out of order at %d", i)
		}
	}
}

func TestComputeAvailability_NonPositiveDuration(t *testing.T) {
	date := mustTime(t, "2026-03-02 00:00")
	out := ComputeAvailability(date, uuid.New(), 0, testConfig(), nil, nil, mustTime(t, "2026-02-27 12:00"))
	if len(out.Slots) != 0 {
		t.Error("zero duration must produce no slots")
	}
}
