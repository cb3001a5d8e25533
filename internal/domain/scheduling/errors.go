package scheduling

import (
	"errors"
	"fmt"
)

// ErrNotFound is returned when an appointment does not exist.
var ErrNotFound = errors.New("appointment not found")

// ErrConcurrencyConflict is the transient "system busy" outcome: the
// reservation transaction timed out or lost a serialization conflict. The
// slot may well still be free, so it is surfaced with distinct wording from
// NoAvailabilityError and a 409 instead of a 400.
var ErrConcurrencyConflict = errors.New("system busy, please try again")

// ValidationError marks malformed booking input. Never retried.
type ValidationError struct {
	Msg string
}

func (e *ValidationError) Error() string { return e.Msg }

func newValidationError(format string, args ...interface{}) *ValidationError {
	return &ValidationError{Msg: fmt.Sprintf(format, args...)}
}

// NoAvailabilityError is the deterministic "slot not bookable" outcome: day
// closed, all slots full, or the chosen worker conflicts. Conflicts carries
// the overlapping-appointment count when the rejection came from the
// capacity check, for the user-facing message.
type NoAvailabilityError struct {
	Reason    string
	Conflicts int
}

func (e *NoAvailabilityError) Error() string {
	if e.Conflicts > 0 {
		return fmt.Sprintf("%s (%d conflicting appointments)", e.Reason, e.Conflicts)
	}
	return e.Reason
}
