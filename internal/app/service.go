package app

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/shrimpsizemoose/trekker/logger"

	"github.com/shrimpsizemoose/semla/internal/bench"
	"github.com/shrimpsizemoose/semla/internal/calendar"
	"github.com/shrimpsizemoose/semla/internal/metrics"
	"github.com/shrimpsizemoose/semla/internal/models"
	"github.com/shrimpsizemoose/semla/internal/scoring"
	"github.com/shrimpsizemoose/semla/internal/store"
)

var (
	ErrOutsideCourse = errors.New("current date is outside the course")
	ErrMissingReport = errors.New("report file not found")
	ErrReportTask    = errors.New("report tasks have no benchmark, use submit")
	ErrNoTests       = errors.New("no test command configured")
)

// RunOptions selects which steps of a benchmark run are done.
type RunOptions struct {
	// DryRun measures and scores the time without storing it.
	DryRun bool
	// SkipTest goes straight to timing without running test commands first.
	SkipTest bool
}

type Service struct {
	Config *Config
	Store  store.ResultStore
	Grader *scoring.Grader
	Runner *bench.Runner

	today time.Time
}

func NewService(configPath string) (*Service, error) {
	config, err := LoadConfig(configPath)
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}

	store, err := NewStore(config.Store.DSN)
	if err != nil {
		return nil, fmt.Errorf("failed to init store: %w", err)
	}

	service, err := NewServiceWith(config, store)
	if err != nil {
		store.Close()
		return nil, err
	}
	return service, nil
}

// NewServiceWith wires a service around an already opened store.
func NewServiceWith(config *Config, store store.ResultStore) (*Service, error) {
	today, err := config.Today()
	if err != nil {
		return nil, err
	}

	return &Service{
		Config: config,
		Store:  store,
		Grader: scoring.NewGrader(&config.Course, store),
		Runner: bench.NewRunner(config.Bench.Dir),
		today:  today,
	}, nil
}

// PinToday overrides the current date, e.g. from a command line flag.
func (s *Service) PinToday(date time.Time) {
	s.today = date
}

func (s *Service) Today() time.Time {
	if s.today.IsZero() {
		return time.Now()
	}
	return s.today
}

func (s *Service) CurrentWeek() calendar.Classification {
	c := s.Config.Course
	return calendar.Classify(s.Today(), calendar.Start{Year: c.Year, Week: c.StartWeek}, c.Weeks)
}

// ResolveWeek returns explicit when given, the current course week otherwise.
// An explicit week must lie inside the course.
func (s *Service) ResolveWeek(explicit *int) (int, error) {
	if explicit != nil {
		if *explicit < 1 || *explicit > s.Config.Course.Weeks {
			return 0, fmt.Errorf("%w: week %d, course has %d", scoring.ErrWeekOutOfRange, *explicit, s.Config.Course.Weeks)
		}
		return *explicit, nil
	}
	current := s.CurrentWeek()
	if !current.Inside() {
		return 0, fmt.Errorf("%w (%s), pass --week", ErrOutsideCourse, current)
	}
	return current.Week, nil
}

func (s *Service) task(taskID string) (*models.Task, error) {
	task, ok := s.Config.Course.Task(taskID)
	if !ok {
		return nil, fmt.Errorf("%w: %s", scoring.ErrUnknownTask, taskID)
	}
	return task, nil
}

// ReportPath resolves the deliverable of a report task against the benchmark directory.
func (s *Service) ReportPath(task *models.Task) string {
	path := task.Deliverable()
	if filepath.IsAbs(path) || s.Config.Bench.Dir == "" {
		return path
	}
	return filepath.Join(s.Config.Bench.Dir, path)
}

// Submit records time for a task. Report tasks are only accepted once their
// deliverable exists.
func (s *Service) Submit(taskID string, week int, seconds float64) (scoring.SubmitOutcome, error) {
	task, err := s.task(taskID)
	if err != nil {
		return scoring.SubmitOutcome{}, err
	}

	if task.Report {
		path := s.ReportPath(task)
		if _, err := os.Stat(path); err != nil {
			if errors.Is(err, os.ErrNotExist) {
				return scoring.SubmitOutcome{}, fmt.Errorf("%w: %s", ErrMissingReport, path)
			}
			return scoring.SubmitOutcome{}, fmt.Errorf("failed to check %s: %w", path, err)
		}
		logger.Debug.Printf("Found report %s for %s", path, task.ID)
	}

	return s.Grader.Submit(task.ID, week, seconds)
}

// Test runs the test command of a task followed by its benchmark-sized test.
func (s *Service) Test(ctx context.Context, taskID string) error {
	task, err := s.task(taskID)
	if err != nil {
		return err
	}
	if len(task.TestCommand) == 0 && len(task.BenchmarkTest) == 0 {
		return fmt.Errorf("%w for %s", ErrNoTests, task.ID)
	}
	return s.runTests(ctx, task)
}

func (s *Service) runTests(ctx context.Context, task *models.Task) error {
	timeout, err := s.Config.BenchTimeout()
	if err != nil {
		return err
	}

	for _, command := range [][]string{task.TestCommand, task.BenchmarkTest} {
		if len(command) == 0 {
			continue
		}
		logger.Info.Printf("Running tests for %s: %v", task.ID, command)
		if err := s.Runner.Check(ctx, command, timeout); err != nil {
			return fmt.Errorf("tests %s: %w", task.ID, err)
		}
	}
	return nil
}

// Benchmark runs the tests of a timed task unless skipped, then times it.
func (s *Service) Benchmark(ctx context.Context, taskID string, skipTest bool) (float64, error) {
	task, err := s.task(taskID)
	if err != nil {
		return 0, err
	}
	if task.Report {
		return 0, fmt.Errorf("%w: %s", ErrReportTask, task.ID)
	}

	if !skipTest {
		if err := s.runTests(ctx, task); err != nil {
			return 0, err
		}
	}

	def, err := s.Config.BenchTimeout()
	if err != nil {
		return 0, err
	}

	logger.Info.Printf("Running benchmark for %s: %v", task.ID, task.Command)
	started := time.Now()
	seconds, err := s.Runner.Run(ctx, task.Command, task.RunTimeout(def))
	metrics.BenchmarkDuration.WithLabelValues(task.ID).Observe(time.Since(started).Seconds())
	if err != nil {
		return 0, fmt.Errorf("benchmark %s: %w", task.ID, err)
	}
	return seconds, nil
}

// RunAndSubmit benchmarks a task and submits the measured time. Report tasks
// skip the benchmark and are submitted with time 0. With DryRun the outcome
// carries the points the time would earn and nothing is stored.
func (s *Service) RunAndSubmit(ctx context.Context, taskID string, week int, opts RunOptions) (float64, scoring.SubmitOutcome, error) {
	task, err := s.task(taskID)
	if err != nil {
		return 0, scoring.SubmitOutcome{}, err
	}

	if task.Report {
		if opts.DryRun {
			return 0, scoring.SubmitOutcome{}, fmt.Errorf("%w: %s", ErrReportTask, task.ID)
		}
		outcome, err := s.Submit(task.ID, week, 0)
		return 0, outcome, err
	}

	seconds, err := s.Benchmark(ctx, task.ID, opts.SkipTest)
	if err != nil {
		return 0, scoring.SubmitOutcome{}, err
	}

	if opts.DryRun {
		points, err := scoring.Score(task, week, seconds)
		return seconds, scoring.SubmitOutcome{Status: scoring.DryRun, Points: points}, err
	}

	outcome, err := s.Submit(task.ID, week, seconds)
	return seconds, outcome, err
}

func (s *Service) Close() error {
	var errs []error

	if err := metrics.Flush(s.Config.Metrics.Textfile); err != nil {
		errs = append(errs, fmt.Errorf("metrics: %w", err))
	}
	if err := s.Store.Close(); err != nil {
		errs = append(errs, fmt.Errorf("store: %w", err))
	}

	if len(errs) > 0 {
		return fmt.Errorf("errors while closing: %v", errs)
	}
	return nil
}
