// Package calendar maps dates onto course weeks using ISO week numbering.
package calendar

import (
	"fmt"
	"time"
)

type Direction int

const (
	Inside Direction = iota
	Before
	After
)

func (d Direction) String() string {
	switch d {
	case Before:
		return "before"
	case After:
		return "after"
	default:
		return "inside"
	}
}

// Start is the ISO (year, week) of course week 1.
type Start struct {
	Year int
	Week int
}

// Classification is either a course week (Direction == Inside) or a
// distance in weeks outside the course.
type Classification struct {
	Week      int
	Direction Direction
	Magnitude int
	WrongYear bool
}

func (c Classification) Inside() bool {
	return c.Direction == Inside
}

func (c Classification) String() string {
	if c.Inside() {
		return fmt.Sprintf("week %d", c.Week)
	}
	if c.WrongYear {
		return fmt.Sprintf("%s the course year", c.Direction)
	}
	unit := "weeks"
	if c.Magnitude == 1 {
		unit = "week"
	}
	return fmt.Sprintf("%d %s %s the course", c.Magnitude, unit, c.Direction)
}

// Classify places date relative to a course of the given length. The start
// week itself is week 0, so course week 1 is the ISO week after it.
func Classify(date time.Time, start Start, weeks int) Classification {
	year, _ := date.ISOWeek()
	offset := weeksSince(date, start)

	if year != start.Year {
		if year < start.Year {
			return Classification{Direction: Before, Magnitude: 1 - offset, WrongYear: true}
		}
		return Classification{Direction: After, Magnitude: max(offset-weeks, 1), WrongYear: true}
	}

	switch {
	case offset <= 0:
		return Classification{Direction: Before, Magnitude: 1 - offset}
	case offset > weeks:
		return Classification{Direction: After, Magnitude: offset - weeks}
	default:
		return Classification{Week: offset}
	}
}

// Monday returns the Monday that opens ISO week (year, week).
func Monday(year, week int) time.Time {
	// January 4th always falls into ISO week 1
	jan4 := time.Date(year, time.January, 4, 0, 0, 0, 0, time.UTC)
	shift := (int(jan4.Weekday()) + 6) % 7
	return jan4.AddDate(0, 0, -shift+(week-1)*7)
}

// weeksSince counts whole ISO weeks from the start week to the week of date,
// negative when date comes first.
func weeksSince(date time.Time, start Start) int {
	year, week := date.ISOWeek()
	days := Monday(year, week).Sub(Monday(start.Year, start.Week)).Hours() / 24
	return int(days) / 7
}
