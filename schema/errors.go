package schema

import (
	"errors"
	"fmt"
)

// ErrValidation matches every *ValidationError via errors.Is.
var ErrValidation = errors.New("invalid series group")

// ErrIndexOutOfRange matches every *IndexOutOfRangeError via errors.Is.
var ErrIndexOutOfRange = errors.New("selection index out of range")

// ErrSelectionDisabled is returned when a point is selected on a group without selection.
var ErrSelectionDisabled = errors.New("selection is disabled for this group")

// ValidationError reports a series group that cannot be bound.
type ValidationError struct {
	Group  GroupKey
	Series string // empty when the problem is not tied to one series
	Reason string
}

func (e *ValidationError) Error() string {
	if e.Series == "" {
		return fmt.Sprintf("invalid series group %q: %s", e.Group, e.Reason)
	}
	return fmt.Sprintf("invalid series group %q (series %q): %s", e.Group, e.Series, e.Reason)
}

// Is lets errors.Is(err, ErrValidation) match.
func (e *ValidationError) Is(target error) bool {
	return target == ErrValidation
}

// NewValidationError creates a new ValidationError.
func NewValidationError(group GroupKey, series, reason string) *ValidationError {
	return &ValidationError{Group: group, Series: series, Reason: reason}
}

// IndexOutOfRangeError reports a selection outside [0, Length).
type IndexOutOfRangeError struct {
	Group  GroupKey
	Index  int
	Length int
}

func (e *IndexOutOfRangeError) Error() string {
	return fmt.Sprintf("selection index %d out of range [0, %d) for group %q", e.Index, e.Length, e.Group)
}

// Is lets errors.Is(err, ErrIndexOutOfRange) match.
func (e *IndexOutOfRangeError) Is(target error) bool {
	return target == ErrIndexOutOfRange
}

// ErrUnknownGroup is returned when a report has no chart for the requested group.
var ErrUnknownGroup = errors.New("unknown series group")
