// Package render turns grading data into terminal text.
package render

import (
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"

	"github.com/shrimpsizemoose/semla/internal/calendar"
	"github.com/shrimpsizemoose/semla/internal/models"
	"github.com/shrimpsizemoose/semla/internal/scoring"
)

const missing = "-"

var (
	titleStyle = lipgloss.NewStyle().Bold(true)
	valueStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#3498db"))
	warnStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("#e67e22"))
)

func newTable(headers ...string) *table.Table {
	return table.New().
		Border(lipgloss.NormalBorder()).
		Headers(headers...)
}

// PointTable lists every tier of a task with both threshold columns.
func PointTable(task *models.Task, t scoring.Table) string {
	tbl := newTable("points", "on time (week <= "+strconv.Itoa(task.DueWeek)+")", "late")
	for _, row := range t {
		tbl.Row(strconv.Itoa(row.Points), row.OnTime.String(), row.Late.String())
	}

	var b strings.Builder
	b.WriteString(titleStyle.Render("Task "+task.ID) + "\n")
	b.WriteString(tbl.String())
	return b.String()
}

// Results shows the weekly results of a task followed by its best-of summary.
func Results(task *models.Task, results []models.Result, summary models.Summary) string {
	tbl := newTable("week", "time", "auto", "feedback", "final")
	for _, r := range results {
		week := strconv.Itoa(r.Week)
		if task.IsLate(r.Week) {
			week += " (late)"
		}
		tbl.Row(week, timeCell(task.Report, r.Time), points(r.Automatic), points(r.Feedback), points(r.Final))
	}

	var b strings.Builder
	b.WriteString(titleStyle.Render("Task "+task.ID) + "\n")
	b.WriteString(tbl.String() + "\n")
	fmt.Fprintf(&b, "best: %s  fastest: %s",
		valueStyle.Render(strconv.Itoa(summary.Best)),
		valueStyle.Render(bestTime(summary)),
	)
	return b.String()
}

// Summaries is the course overview: one line per task.
func Summaries(summaries []models.Summary) string {
	tbl := newTable("task", "best", "max", "fastest")
	total, maxTotal := 0, 0
	for _, s := range summaries {
		tbl.Row(s.Task, strconv.Itoa(s.Best), strconv.Itoa(s.Max), bestTime(s))
		total += s.Best
		maxTotal += s.Max
	}
	return tbl.String() + "\n" + fmt.Sprintf("total: %s / %d", valueStyle.Render(strconv.Itoa(total)), maxTotal)
}

// Info describes how a task is graded and what it can earn in which weeks.
func Info(task *models.Task, lastWeek int, timeout time.Duration) string {
	var b strings.Builder
	title := "Task " + task.ID
	if task.Title != "" {
		title += ": " + task.Title
	}
	b.WriteString(titleStyle.Render(title) + "\n\n")

	if task.Report {
		b.WriteString("Open-ended task. Submitting checks that this file exists:\n")
		b.WriteString("  " + valueStyle.Render(task.Deliverable()) + "\n")
	} else {
		b.WriteString("Timed with:\n")
		b.WriteString("  " + valueStyle.Render(strings.Join(task.Command, " ")) + "\n")
		for _, command := range [][]string{task.TestCommand, task.BenchmarkTest} {
			if len(command) > 0 {
				b.WriteString("Tested with:\n")
				b.WriteString("  " + valueStyle.Render(strings.Join(command, " ")) + "\n")
			}
		}
		fmt.Fprintf(&b, "Time limit: %s\n", timeout)
	}

	b.WriteString("\nGrading scale:\n")
	for _, r := range task.WeekRanges(lastWeek) {
		fmt.Fprintf(&b, "  %s:  0-%d pt\n", weekRange(r.From, r.To), r.Max)
	}
	return strings.TrimRight(b.String(), "\n")
}

// Overview lists the points ceiling of every task in every course week.
// The current week, if inside the course, is marked with a star.
func Overview(tasks []models.Task, weeks int, current calendar.Classification) string {
	headers := []string{"task", "kind"}
	for w := 1; w <= weeks; w++ {
		h := strconv.Itoa(w)
		if current.Inside() && current.Week == w {
			h += "*"
		}
		headers = append(headers, h)
	}

	tbl := newTable(headers...)
	for i := range tasks {
		task := &tasks[i]
		kind := "timed"
		if task.Report {
			kind = "report"
		}
		row := []string{task.ID, kind}
		for w := 1; w <= weeks; w++ {
			m := task.MaxFor(w)
			cell := strconv.Itoa(m)
			if m == task.Ceiling() {
				cell = valueStyle.Render(cell)
			}
			row = append(row, cell)
		}
		tbl.Row(row...)
	}
	return titleStyle.Render("Maximum points per week") + "\n" + tbl.String()
}

func Week(c calendar.Classification) string {
	if c.Inside() {
		return "Course " + valueStyle.Render(c.String())
	}
	return warnStyle.Render("Outside the course: " + c.String())
}

func Outcome(task string, week int, seconds float64, o scoring.SubmitOutcome) string {
	switch o.Status {
	case scoring.AlreadySubmitted:
		return warnStyle.Render(fmt.Sprintf("%s week %d: already submitted", task, week))
	case scoring.DryRun:
		return fmt.Sprintf("%s week %d: %s measured, would earn %s points (not stored)",
			task, week, valueStyle.Render(formatSeconds(seconds)), valueStyle.Render(strconv.Itoa(o.Points)))
	case scoring.NotBetter:
		return warnStyle.Render(fmt.Sprintf(
			"%s week %d: %s is not better than the stored %s, keeping the stored one",
			task, week, formatSeconds(seconds), formatSeconds(*o.Previous),
		))
	default:
		if seconds == 0 {
			return fmt.Sprintf("%s week %d: report submitted, %s points", task, week, valueStyle.Render(strconv.Itoa(o.Points)))
		}
		return fmt.Sprintf("%s week %d: %s stored, %s points",
			task, week, valueStyle.Render(formatSeconds(seconds)), valueStyle.Render(strconv.Itoa(o.Points)))
	}
}

func formatSeconds(v float64) string {
	return strconv.FormatFloat(v, 'f', 3, 64) + "s"
}

func timeCell(report bool, v *float64) string {
	if v == nil || report {
		return missing
	}
	return formatSeconds(*v)
}

func weekRange(from, to int) string {
	if from == to {
		return fmt.Sprintf("week %d", from)
	}
	return fmt.Sprintf("weeks %d-%d", from, to)
}

func points(v *int) string {
	if v == nil {
		return missing
	}
	return strconv.Itoa(*v)
}

func bestTime(s models.Summary) string {
	if s.Report || math.IsInf(s.BestTime, 1) {
		return missing
	}
	return formatSeconds(s.BestTime)
}
