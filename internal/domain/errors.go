package domain

import (
	"errors"
	"fmt"
)

var (
	// ErrNoDataForYear means the selected year has no concentration samples.
	ErrNoDataForYear = errors.New("no concentration data for year")

	// ErrEventDateOutOfRange means a recorded event date is not a sample date
	// of the year's concentration series. It signals inconsistent input.
	ErrEventDateOutOfRange = errors.New("event date not in concentration series")

	// ErrReversedPair means a pair's start date sorts after its end date.
	ErrReversedPair = errors.New("pair start after end")

	// ErrEmptySegment means a well-ordered pair covers no samples of the year.
	ErrEmptySegment = errors.New("pair covers no samples")
)

// EventDateOutOfRangeError carries the context of a failed date lookup.
type EventDateOutOfRangeError struct {
	Year   int
	Source string
	Metric Metric
	Date   Date
}

func (e *EventDateOutOfRangeError) Error() string {
	return fmt.Sprintf("%s %s %s for %d: %s", e.Source, e.Metric, e.Date, e.Year, ErrEventDateOutOfRange)
}

func (e *EventDateOutOfRangeError) Unwrap() error { return ErrEventDateOutOfRange }

// PairError reports a start/end pair that was skipped for data-quality reasons.
type PairError struct {
	Year   int
	Source string
	Family string
	Start  Date
	End    Date
	Err    error
}

func (e *PairError) Error() string {
	return fmt.Sprintf("%s %s %s..%s for %d: %s", e.Source, e.Family, e.Start, e.End, e.Year, e.Err)
}

func (e *PairError) Unwrap() error { return e.Err }
