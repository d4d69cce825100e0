package scoring

import (
	"fmt"

	"github.com/shrimpsizemoose/trekker/logger"

	"github.com/shrimpsizemoose/semla/internal/metrics"
	"github.com/shrimpsizemoose/semla/internal/models"
	"github.com/shrimpsizemoose/semla/internal/store"
)

type SubmitStatus int

const (
	Accepted SubmitStatus = iota
	// NotBetter means a stored time at least as fast already exists.
	NotBetter
	// AlreadySubmitted is the report-task variant: one submission per week.
	AlreadySubmitted
	// DryRun is a measured time that was scored but never stored.
	DryRun
)

func (s SubmitStatus) String() string {
	switch s {
	case NotBetter:
		return "not_better"
	case AlreadySubmitted:
		return "already_submitted"
	case DryRun:
		return "dry_run"
	default:
		return "accepted"
	}
}

// SubmitOutcome describes what happened to a submission. A rejected
// submission is not an error: the stored record simply wins.
type SubmitOutcome struct {
	Status   SubmitStatus
	Points   int
	Previous *float64
}

func (o SubmitOutcome) Accepted() bool {
	return o.Status == Accepted
}

type Grader struct {
	course *models.Course
	store  store.ResultStore
}

func NewGrader(course *models.Course, store store.ResultStore) *Grader {
	return &Grader{course: course, store: store}
}

func (g *Grader) Course() *models.Course {
	return g.course
}

func (g *Grader) lookup(taskID string, week int) (*models.Task, error) {
	task, ok := g.course.Task(taskID)
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnknownTask, taskID)
	}
	if week < 1 || week > g.course.Weeks {
		return nil, fmt.Errorf("%w: week %d, course has %d", ErrWeekOutOfRange, week, g.course.Weeks)
	}
	return task, nil
}

// Submit stores time for (task, week) unless a better or equal time is already there.
func (g *Grader) Submit(taskID string, week int, time float64) (SubmitOutcome, error) {
	task, err := g.lookup(taskID, week)
	if err != nil {
		return SubmitOutcome{}, err
	}

	points, err := Score(task, week, time)
	if err != nil {
		return SubmitOutcome{}, err
	}

	previous, err := g.store.GetTime(task.ID, week)
	if err != nil {
		return SubmitOutcome{}, fmt.Errorf("failed to read previous submission: %w", err)
	}

	outcome := SubmitOutcome{Status: Accepted, Points: points, Previous: previous}
	switch {
	case previous != nil && task.Report:
		outcome.Status = AlreadySubmitted
	case previous != nil && time >= *previous:
		outcome.Status = NotBetter
	}

	metrics.SubmissionsTotal.WithLabelValues(task.ID, outcome.Status.String()).Inc()

	if !outcome.Accepted() {
		logger.Debug.Printf("Keeping stored time %v for %s/%d, got %v", *previous, task.ID, week, time)
		return outcome, nil
	}

	if err := g.store.PutTime(models.Submission{Task: task.ID, Week: week, Time: time}); err != nil {
		return SubmitOutcome{}, err
	}
	logger.Info.Printf("Stored %s/%d: time %v, %d points", task.ID, week, time, points)

	return outcome, nil
}

// SetFeedback records manual points for (task, week), replacing earlier feedback.
func (g *Grader) SetFeedback(taskID string, week int, points int) error {
	task, err := g.lookup(taskID, week)
	if err != nil {
		return err
	}
	return g.store.PutFeedback(models.Feedback{Task: task.ID, Week: week, Points: points})
}

func (g *Grader) Result(taskID string, week int) (models.Result, error) {
	task, err := g.lookup(taskID, week)
	if err != nil {
		return models.Result{}, err
	}

	time, err := g.store.GetTime(task.ID, week)
	if err != nil {
		return models.Result{}, err
	}
	feedback, err := g.store.GetFeedback(task.ID, week)
	if err != nil {
		return models.Result{}, err
	}

	return Derive(task, week, time, feedback)
}

// Results returns one result per course week for a task.
func (g *Grader) Results(taskID string) ([]models.Result, error) {
	results := make([]models.Result, 0, g.course.Weeks)
	for week := 1; week <= g.course.Weeks; week++ {
		r, err := g.Result(taskID, week)
		if err != nil {
			return nil, err
		}
		results = append(results, r)
	}
	return results, nil
}

// Summary reduces the weekly results of a task to its best-of record.
func (g *Grader) Summary(taskID string) (models.Summary, []models.Result, error) {
	results, err := g.Results(taskID)
	if err != nil {
		return models.Summary{}, nil, err
	}
	task, _ := g.course.Task(taskID)
	summary := Best(taskID, results)
	summary.Report = task.Report
	summary.Max = task.Ceiling()
	metrics.TaskBestPoints.WithLabelValues(taskID).Set(float64(summary.Best))
	return summary, results, nil
}
