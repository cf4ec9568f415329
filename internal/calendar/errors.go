package calendar

import (
	"errors"
	"fmt"
)

var (
	// ErrInvalidUnit is returned when a field or unit key is not recognized.
	ErrInvalidUnit = errors.New("invalid unit")

	// ErrUnknownOperation is returned when dispatching a navigation operation
	// the target does not support.
	ErrUnknownOperation = errors.New("unknown operation")

	// ErrStackUnderflow is returned by Restore without a matching Save.
	ErrStackUnderflow = errors.New("position stack underflow")

	// ErrUnknownCalendarSystem is returned when a system or variant name is not registered.
	ErrUnknownCalendarSystem = errors.New("unknown calendar system")

	// ErrDuplicateCalendarSystem is returned when a member or variant name is already taken.
	ErrDuplicateCalendarSystem = errors.New("duplicate calendar system")

	// ErrInvalidDate is returned when a (year, month, day) does not exist in a system.
	ErrInvalidDate = errors.New("invalid date")

	// ErrInvalidWeekday is returned for a weekday outside 0..6.
	ErrInvalidWeekday = errors.New("invalid weekday")
)

// InvariantViolationError is the panic value raised when a date's index and
// decomposed fields disagree. It is never returned as an error.
type InvariantViolationError struct {
	System string
	Index  int
	Year   int
	Month  int
	Day    int
	Reason string
}

func (e *InvariantViolationError) Error() string {
	return fmt.Sprintf("invariant violation in %s calendar at index %d (%d-%02d-%02d): %s",
		e.System, e.Index, e.Year, e.Month, e.Day, e.Reason)
}
