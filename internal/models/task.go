package models

import (
	"fmt"
	"regexp"
	"slices"
	"time"

	"github.com/go-playground/validator/v10"
)

var taskIDRegex = regexp.MustCompile(`^[A-Za-z0-9_-]+$`)

const (
	// DefaultReportFile is the deliverable a report task checks for when none is configured.
	DefaultReportFile = "report.pdf"

	// timeoutFactor scales the most lenient threshold into the default run timeout.
	timeoutFactor = 2.5
)

type Task struct {
	ID            string    `toml:"id" json:"id" validate:"required,max=32,taskid"`
	Title         string    `toml:"title" json:"title,omitempty"`
	Report        bool      `toml:"report" json:"report"`
	ReportFile    string    `toml:"report_file" json:"report_file,omitempty"`
	MaxPoints     []int     `toml:"max_points" json:"max_points" validate:"min=1,max=2,dive,min=1"`
	DueWeek       int       `toml:"due_week" json:"due_week" validate:"min=1"`
	Thresholds    []float64 `toml:"thresholds" json:"thresholds" validate:"dive,gt=0"`
	Command       []string  `toml:"command" json:"command,omitempty"`
	TestCommand   []string  `toml:"test_command" json:"test_command,omitempty"`
	BenchmarkTest []string  `toml:"benchmark_test" json:"benchmark_test,omitempty"`
	Timeout       string    `toml:"timeout" json:"timeout,omitempty"`
}

// WeekRange is a run of course weeks sharing one points ceiling.
type WeekRange struct {
	From int `json:"from"`
	To   int `json:"to"`
	Max  int `json:"max"`
}

// Ceiling is the highest number of points the task can award in any week.
func (t *Task) Ceiling() int {
	return slices.Max(t.MaxPoints)
}

// LateCeiling returns the late ceiling, or false when the task is due in the last course week.
func (t *Task) LateCeiling() (int, bool) {
	if len(t.MaxPoints) < 2 {
		return 0, false
	}
	return t.MaxPoints[1], true
}

func (t *Task) IsLate(week int) bool {
	return week > t.DueWeek
}

// MaxFor is the points ceiling of a submission made in week.
func (t *Task) MaxFor(week int) int {
	if late, ok := t.LateCeiling(); ok && t.IsLate(week) {
		return late
	}
	return t.MaxPoints[0]
}

// WeekRanges splits the course into the on-time and, if any, the late weeks.
func (t *Task) WeekRanges(lastWeek int) []WeekRange {
	ranges := []WeekRange{{From: 1, To: t.DueWeek, Max: t.MaxPoints[0]}}
	if late, ok := t.LateCeiling(); ok {
		ranges = append(ranges, WeekRange{From: t.DueWeek + 1, To: lastWeek, Max: late})
	}
	return ranges
}

// Deliverable is the file a report task must have in place before it is submitted.
func (t *Task) Deliverable() string {
	if t.ReportFile == "" {
		return DefaultReportFile
	}
	return t.ReportFile
}

// RunTimeout returns the configured benchmark timeout. Without one, a timed
// task gets 2.5 times its most lenient threshold and other tasks get def.
func (t *Task) RunTimeout(def time.Duration) time.Duration {
	if t.Timeout != "" {
		if d, err := time.ParseDuration(t.Timeout); err == nil {
			return d
		}
	}
	if len(t.Thresholds) > 0 {
		last := t.Thresholds[len(t.Thresholds)-1]
		return time.Duration(last * timeoutFactor * float64(time.Second))
	}
	return def
}

func newValidator() *validator.Validate {
	validate := validator.New()
	_ = validate.RegisterValidation("taskid", func(fl validator.FieldLevel) bool {
		return taskIDRegex.MatchString(fl.Field().String())
	})
	return validate
}

// Validate checks the task against the course length. lastWeek is the final course week.
func (t *Task) Validate(lastWeek int) error {
	if err := newValidator().Struct(t); err != nil {
		return fmt.Errorf("%w: task %q: %v", ErrInvalidConfig, t.ID, err)
	}

	fail := func(format string, args ...any) error {
		return fmt.Errorf("%w: task %q: %s", ErrInvalidConfig, t.ID, fmt.Sprintf(format, args...))
	}

	if t.DueWeek > lastWeek {
		return fail("due_week %d is past the last course week %d", t.DueWeek, lastWeek)
	}
	if t.DueWeek == lastWeek && len(t.MaxPoints) != 1 {
		return fail("due in the last week, max_points must hold only the on-time ceiling")
	}
	if t.DueWeek < lastWeek && len(t.MaxPoints) != 2 {
		return fail("max_points must hold both on-time and late ceilings")
	}
	if late, ok := t.LateCeiling(); ok && late > t.MaxPoints[0] {
		return fail("late ceiling %d exceeds on-time ceiling %d", late, t.MaxPoints[0])
	}

	if t.Report {
		if len(t.Thresholds) != 0 {
			return fail("report tasks take no thresholds")
		}
	} else if t.ReportFile != "" {
		return fail("report_file is only for report tasks")
	} else if len(t.Thresholds) != t.Ceiling() {
		return fail("got %d thresholds for %d point tiers", len(t.Thresholds), t.Ceiling())
	}

	if t.Timeout != "" {
		if _, err := time.ParseDuration(t.Timeout); err != nil {
			return fail("bad timeout %q: %v", t.Timeout, err)
		}
	}
	return nil
}
