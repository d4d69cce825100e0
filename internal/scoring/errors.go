package scoring

import "errors"

var (
	// ErrContract is returned when a time does not fit the task kind:
	// report tasks take exactly zero, timed tasks a positive finite number.
	ErrContract       = errors.New("scoring contract violated")
	ErrUnknownTask    = errors.New("unknown task")
	ErrWeekOutOfRange = errors.New("week outside the course")
)
