/*
errors.go - Centralized error types for the wage engine

PURPOSE:
  All engine error types in one place. Collaborator packages (ingest, api)
  wrap these with additional context.

ERROR CATEGORIES:
  1. Input violations - malformed input that should have been rejected at
     the boundary (negative hours, duplicate dates, unknown statuses)
  2. Engine defects - a day falling through the classification rule table;
     never recoverable, always a bug

  Weekly-holiday ineligibility is NOT an error: the rule returns zero hours
  and the calculation completes normally.

USAGE:
  if errors.Is(err, engine.ErrDuplicateDay) { ... }

SEE ALSO:
  - classify.go: Returns ClassificationGapError
  - week.go: Returns DuplicateDayError
*/
package engine

import (
	"errors"
	"fmt"
)

// =============================================================================
// SENTINEL ERRORS - Use with errors.Is()
// =============================================================================

var (
	// ErrDuplicateDay is returned when a worker has two records for the
	// same calendar date. The invariant is at most one record per date.
	ErrDuplicateDay = errors.New("duplicate work record for day")

	// ErrNegativeHours is returned when a record carries negative hours.
	// Boundary validation should have caught this.
	ErrNegativeHours = errors.New("negative hours")

	// ErrUnknownStatus is returned for an unrecognized work status.
	ErrUnknownStatus = errors.New("unknown work status")

	// ErrUnknownWageType is returned for a wage type other than hourly/daily.
	ErrUnknownWageType = errors.New("unknown wage type")

	// ErrNonPositiveRate is returned when the wage rate is zero or negative.
	ErrNonPositiveRate = errors.New("wage rate must be positive")

	// ErrClassificationGap signals a day that fell through every
	// classification rule. This is an engine defect, not a runtime
	// condition; it must surface, never be suppressed.
	ErrClassificationGap = errors.New("no classification rule matched")
)

// =============================================================================
// STRUCTURED ERRORS - Carry additional context
// =============================================================================

// DuplicateDayError reports a second record for an already-seen date.
type DuplicateDayError struct {
	Date Day
}

func (e *DuplicateDayError) Error() string {
	return fmt.Sprintf("duplicate work record for %s", e.Date)
}

func (e *DuplicateDayError) Unwrap() error { return ErrDuplicateDay }

// ClassificationGapError reports the day and status that no rule matched.
type ClassificationGapError struct {
	Date   Day
	Status WorkStatus
}

func (e *ClassificationGapError) Error() string {
	return fmt.Sprintf("no classification rule matched %s (status %q)", e.Date, e.Status)
}

func (e *ClassificationGapError) Unwrap() error { return ErrClassificationGap }

// =============================================================================
// ERROR HELPERS
// =============================================================================

// IsInputViolation returns true if the error is due to invalid input that
// the boundary should have rejected before invoking the engine.
func IsInputViolation(err error) bool {
	return errors.Is(err, ErrDuplicateDay) ||
		errors.Is(err, ErrNegativeHours) ||
		errors.Is(err, ErrUnknownStatus) ||
		errors.Is(err, ErrUnknownWageType) ||
		errors.Is(err, ErrNonPositiveRate)
}

// IsEngineDefect returns true if the error signals a bug in the rule table.
func IsEngineDefect(err error) bool {
	return errors.Is(err, ErrClassificationGap)
}
