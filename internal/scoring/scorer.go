package scoring

import (
	"fmt"
	"math"

	"github.com/shrimpsizemoose/semla/internal/models"
)

// CheckTime enforces the time contract of a task.
func CheckTime(task *models.Task, time float64) error {
	if math.IsNaN(time) || math.IsInf(time, 0) {
		return fmt.Errorf("%w: task %s: time %v is not a number", ErrContract, task.ID, time)
	}
	if task.Report && time != 0 {
		return fmt.Errorf("%w: report task %s takes time 0, got %v", ErrContract, task.ID, time)
	}
	if !task.Report && time <= 0 {
		return fmt.Errorf("%w: task %s needs a positive time, got %v", ErrContract, task.ID, time)
	}
	return nil
}

// Score returns the automatic points for a submission of time made in week.
func Score(task *models.Task, week int, time float64) (int, error) {
	if err := CheckTime(task, time); err != nil {
		return 0, err
	}
	return BuildTable(task).Points(ColumnFor(task, week), time), nil
}

// Derive builds the result of a (task, week) pair from what has been stored for it.
// The final score is withheld until both a time and feedback exist.
func Derive(task *models.Task, week int, time *float64, feedback *int) (models.Result, error) {
	res := models.Result{
		Task:     task.ID,
		Week:     week,
		Time:     time,
		Feedback: feedback,
	}
	if time == nil {
		return res, nil
	}

	points, err := Score(task, week, *time)
	if err != nil {
		return res, err
	}
	res.Automatic = &points

	if feedback != nil {
		final := points + *feedback
		res.Final = &final
	}
	return res, nil
}

// Best reduces weekly results to the best final score and the fastest time.
// Both are taken independently, so they may come from different weeks.
func Best(task string, results []models.Result) models.Summary {
	summary := models.Summary{Task: task, BestTime: math.Inf(1)}
	graded := false
	for _, r := range results {
		if r.Final != nil && (!graded || *r.Final > summary.Best) {
			summary.Best = *r.Final
			graded = true
		}
		if r.Time != nil && *r.Time < summary.BestTime {
			summary.BestTime = *r.Time
		}
	}
	return summary
}
