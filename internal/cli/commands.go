package cli

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/shrimpsizemoose/semla/internal/app"
	"github.com/shrimpsizemoose/semla/internal/models"
	"github.com/shrimpsizemoose/semla/internal/render"
	"github.com/shrimpsizemoose/semla/internal/scoring"
)

func newWeekCommand(s *session) *cobra.Command {
	return &cobra.Command{
		Use:   "week",
		Short: "Show which course week today is",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			fmt.Fprintln(cmd.OutOrStdout(), render.Week(s.service.CurrentWeek()))
			return nil
		},
	}
}

func newTableCommand(s *session) *cobra.Command {
	return &cobra.Command{
		Use:   "table <task>",
		Short: "Show the point table of a task",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			task, err := s.task(args[0])
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), render.PointTable(task, scoring.BuildTable(task)))
			return nil
		},
	}
}

// weekFlag is an optional --week: nil unless given on the command line.
func weekFlag(cmd *cobra.Command, week int) *int {
	if cmd.Flags().Changed("week") {
		return &week
	}
	return nil
}

func newSubmitCommand(s *session) *cobra.Command {
	var week int
	cmd := &cobra.Command{
		Use:   "submit <task> [seconds]",
		Short: "Record a measured time, or submit a report task once its file exists",
		Args:  cobra.RangeArgs(1, 2),
		RunE: func(cmd *cobra.Command, args []string) error {
			task, err := s.task(args[0])
			if err != nil {
				return err
			}

			var seconds float64
			if len(args) == 2 {
				seconds, err = strconv.ParseFloat(args[1], 64)
				if err != nil {
					return fmt.Errorf("bad time %q: %w", args[1], err)
				}
			}

			w, err := s.service.ResolveWeek(weekFlag(cmd, week))
			if err != nil {
				return err
			}

			outcome, err := s.service.Submit(task.ID, w, seconds)
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), render.Outcome(task.ID, w, seconds, outcome))
			return nil
		},
	}
	cmd.Flags().IntVarP(&week, "week", "w", 0, "course week (default: current week)")
	return cmd
}

func newRunCommand(s *session) *cobra.Command {
	var (
		week int
		opts app.RunOptions
	)
	cmd := &cobra.Command{
		Use:   "run <task>",
		Short: "Test and benchmark a task, then submit its time",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return s.run(cmd, args[0], weekFlag(cmd, week), opts)
		},
	}
	cmd.Flags().IntVarP(&week, "week", "w", 0, "course week (default: current week)")
	cmd.Flags().BoolVarP(&opts.DryRun, "dry-run", "n", false, "show the time and points without storing them")
	cmd.Flags().BoolVar(&opts.SkipTest, "skip-test", false, "do not run the test commands before timing")
	return cmd
}

func newBenchmarkCommand(s *session) *cobra.Command {
	var week int
	cmd := &cobra.Command{
		Use:   "benchmark <task>",
		Short: "Time a task without testing it or storing the result",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return s.run(cmd, args[0], weekFlag(cmd, week), app.RunOptions{DryRun: true, SkipTest: true})
		},
	}
	cmd.Flags().IntVarP(&week, "week", "w", 0, "course week to score against (default: current week)")
	return cmd
}

func (s *session) run(cmd *cobra.Command, taskID string, week *int, opts app.RunOptions) error {
	w, err := s.service.ResolveWeek(week)
	if err != nil {
		return err
	}

	seconds, outcome, err := s.service.RunAndSubmit(cmd.Context(), taskID, w, opts)
	if err != nil {
		return err
	}
	fmt.Fprintln(cmd.OutOrStdout(), render.Outcome(taskID, w, seconds, outcome))
	return nil
}

func newTestCommand(s *session) *cobra.Command {
	return &cobra.Command{
		Use:   "test <task>",
		Short: "Run the test commands of a task",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := s.service.Test(cmd.Context(), args[0]); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s: tests passed\n", args[0])
			return nil
		},
	}
}

func newInfoCommand(s *session) *cobra.Command {
	return &cobra.Command{
		Use:   "info [task...]",
		Short: "Show how tasks are graded, all tasks by default",
		RunE: func(cmd *cobra.Command, args []string) error {
			course := s.service.Config.Course
			def, err := s.service.Config.BenchTimeout()
			if err != nil {
				return err
			}

			ids := args
			if len(ids) == 0 {
				for _, task := range course.Tasks {
					ids = append(ids, task.ID)
				}
			}

			for i, id := range ids {
				task, err := s.task(id)
				if err != nil {
					return err
				}
				if i > 0 {
					fmt.Fprintln(cmd.OutOrStdout())
				}
				fmt.Fprintln(cmd.OutOrStdout(), render.Info(task, course.Weeks, task.RunTimeout(def)))
			}
			return nil
		},
	}
}

func newOverviewCommand(s *session) *cobra.Command {
	return &cobra.Command{
		Use:   "overview",
		Short: "Show the maximum points of every task in every week",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			course := s.service.Config.Course
			fmt.Fprintln(cmd.OutOrStdout(), render.Overview(course.Tasks, course.Weeks, s.service.CurrentWeek()))
			return nil
		},
	}
}

func newFeedbackCommand(s *session) *cobra.Command {
	return &cobra.Command{
		Use:   "feedback <task> <week> <points>",
		Short: "Record manual feedback points, e.g. after code review",
		Args:  cobra.ExactArgs(3),
		RunE: func(cmd *cobra.Command, args []string) error {
			week, err := strconv.Atoi(args[1])
			if err != nil {
				return fmt.Errorf("bad week %q: %w", args[1], err)
			}
			points, err := strconv.Atoi(args[2])
			if err != nil {
				return fmt.Errorf("bad points %q: %w", args[2], err)
			}

			if err := s.service.Grader.SetFeedback(args[0], week, points); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s week %d: feedback %d stored\n", args[0], week, points)
			return nil
		},
	}
}

func newResultsCommand(s *session) *cobra.Command {
	return &cobra.Command{
		Use:   "results [task]",
		Short: "Show weekly results of a task, or the best of every task",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			out := cmd.OutOrStdout()
			grader := s.service.Grader

			if len(args) == 1 {
				task, err := s.task(args[0])
				if err != nil {
					return err
				}
				summary, results, err := grader.Summary(task.ID)
				if err != nil {
					return err
				}
				fmt.Fprintln(out, render.Results(task, results, summary))
				return nil
			}

			summaries := make([]models.Summary, 0, len(grader.Course().Tasks))
			for _, task := range grader.Course().Tasks {
				summary, _, err := grader.Summary(task.ID)
				if err != nil {
					return err
				}
				summaries = append(summaries, summary)
			}
			fmt.Fprintln(out, render.Summaries(summaries))
			return nil
		},
	}
}

func (s *session) task(id string) (*models.Task, error) {
	task, ok := s.service.Config.Course.Task(id)
	if !ok {
		return nil, fmt.Errorf("%w: %s", scoring.ErrUnknownTask, id)
	}
	return task, nil
}
