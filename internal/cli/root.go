package cli

import (
	"context"
	"fmt"
	"io"
	"time"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/shrimpsizemoose/trekker/logger"

	"github.com/shrimpsizemoose/semla/internal/app"
)

const dateFormat = "2006-01-02"

type session struct {
	configPath string
	today      string

	service       *app.Service
	command       string
	correlationID uuid.UUID
	startedAt     time.Time
}

// Execute runs the semla command line with args and closes the service
// afterwards, also when the command fails.
func Execute(ctx context.Context, args []string, out io.Writer) error {
	s := &session{}
	root := newRootCommand(s)
	root.SetArgs(args)
	root.SetOut(out)

	err := root.ExecuteContext(ctx)
	if closeErr := s.close(); err == nil {
		err = closeErr
	}
	return err
}

func newRootCommand(s *session) *cobra.Command {
	root := &cobra.Command{
		Use:   "semla",
		Short: "semla - benchmark grading helper",
		Long: `semla scores benchmark submissions against a weekly course schedule.

Each task awards points by running time. Submissions made after the due week
are scored against the late schedule with a lower ceiling.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return s.open(cmd)
		},
	}

	root.PersistentFlags().StringVarP(&s.configPath, "config", "c", "grader.toml", "config file path")
	root.PersistentFlags().StringVar(&s.today, "today", "", "pretend the current date is YYYY-MM-DD")

	root.AddCommand(
		newWeekCommand(s),
		newTableCommand(s),
		newSubmitCommand(s),
		newRunCommand(s),
		newBenchmarkCommand(s),
		newTestCommand(s),
		newInfoCommand(s),
		newOverviewCommand(s),
		newFeedbackCommand(s),
		newResultsCommand(s),
		newServeCommand(s),
	)
	return root
}

func (s *session) open(cmd *cobra.Command) error {
	s.command = cmd.CommandPath()
	s.correlationID = uuid.New()
	s.startedAt = time.Now()
	logger.Debug.Printf("command start %s correlation_id=%s", s.command, s.correlationID)

	service, err := app.NewService(s.configPath)
	if err != nil {
		return err
	}
	if s.today != "" {
		date, err := time.ParseInLocation(dateFormat, s.today, time.Local)
		if err != nil {
			service.Close()
			return fmt.Errorf("bad --today %q (use YYYY-MM-DD): %w", s.today, err)
		}
		service.PinToday(date)
	}
	s.service = service
	return nil
}

func (s *session) close() error {
	if s.service == nil {
		return nil
	}
	err := s.service.Close()
	s.service = nil
	logger.Debug.Printf("command end %s correlation_id=%s duration_ms=%d",
		s.command, s.correlationID, time.Since(s.startedAt).Milliseconds())
	return err
}
