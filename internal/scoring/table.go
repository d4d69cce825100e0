package scoring

import (
	"github.com/shrimpsizemoose/semla/internal/models"
)

type Column int

const (
	OnTime Column = iota
	Late
)

func (c Column) String() string {
	if c == Late {
		return "late"
	}
	return "on-time"
}

// ColumnFor picks the threshold schedule that applies to a submission made in week.
func ColumnFor(task *models.Task, week int) Column {
	if task.IsLate(week) {
		return Late
	}
	return OnTime
}

type Row struct {
	Points int
	OnTime Threshold
	Late   Threshold
}

func (r Row) Cell(c Column) Threshold {
	if c == Late {
		return r.Late
	}
	return r.OnTime
}

// Table rows are ordered by descending points, strictest tier first.
type Table []Row

// BuildTable derives the point table of a task. It is pure and cheap, so
// callers rebuild it instead of caching.
func BuildTable(task *models.Task) Table {
	ceiling := task.Ceiling()
	late, hasLate := task.LateCeiling()

	table := make(Table, 0, ceiling)
	for p := ceiling; p > 0; p-- {
		row := Row{Points: p, OnTime: Anytime(), Late: Never()}

		if !task.Report {
			row.OnTime = Below(task.Thresholds[ceiling-p])
		}

		if hasLate {
			row.Late = lateCell(task, late-p)
		}

		table = append(table, row)
	}
	return table
}

// lateCell keeps two cases apart on purpose: a negative index means the tier is
// above the late ceiling, while an index past the end falls back to the most
// lenient threshold.
func lateCell(task *models.Task, idx int) Threshold {
	switch {
	case idx < 0:
		return Never()
	case task.Report:
		return Anytime()
	case idx >= len(task.Thresholds):
		return Below(task.Thresholds[len(task.Thresholds)-1])
	default:
		return Below(task.Thresholds[idx])
	}
}

// Points returns the best tier whose cell in column c accepts t, or 0.
func (t Table) Points(c Column, time float64) int {
	for _, row := range t {
		if row.Cell(c).Satisfied(time) {
			return row.Points
		}
	}
	return 0
}
