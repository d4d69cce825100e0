package store

import (
	"database/sql"
	"embed"
	"errors"
	"fmt"
	"io/fs"
	"sort"
	"strings"

	"github.com/jmoiron/sqlx"

	"github.com/shrimpsizemoose/semla/internal/models"
)

//go:embed migrations/*.sql
var migrations embed.FS

// ResultStore persists one time and one feedback value per task per week.
// Getters return nil, nil when nothing has been stored.
type ResultStore interface {
	Close() error

	GetTime(task string, week int) (*float64, error)
	PutTime(sub models.Submission) error

	GetFeedback(task string, week int) (*int, error)
	PutFeedback(fb models.Feedback) error
}

// BaseStore provides common functionality for the SQL implementations
type BaseStore struct {
	DB        *sqlx.DB
	Converter func(string) string
}

func (s *BaseStore) Close() error {
	if s.DB != nil {
		return s.DB.Close()
	}
	return nil
}

// ApplyMigrations applies the embedded SQL migrations in name order, translating dialect if needed
func (s *BaseStore) ApplyMigrations(translateSQL func(string) string) error {
	files, err := fs.Glob(migrations, "migrations/*.sql")
	if err != nil {
		return fmt.Errorf("failed to list migrations: %w", err)
	}
	sort.Strings(files)

	for _, name := range files {
		content, err := migrations.ReadFile(name)
		if err != nil {
			return fmt.Errorf("failed to read migration %s: %w", name, err)
		}

		script := string(content)
		if translateSQL != nil {
			script = translateSQL(script)
		}

		for _, stmt := range strings.Split(script, ";") {
			if strings.TrimSpace(stmt) == "" {
				continue
			}
			if _, err := s.DB.Exec(stmt); err != nil {
				return fmt.Errorf("failed to apply migration %s: %w", name, err)
			}
		}
	}

	return nil
}

func (s *BaseStore) GetTime(task string, week int) (*float64, error) {
	var seconds float64
	query := s.Converter(`
		SELECT seconds
		FROM submissions
		WHERE task = ?
		AND week = ?
	`)

	err := s.DB.Get(&seconds, query, task, week)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get submission %s/%d: %w", task, week, err)
	}
	return &seconds, nil
}

func (s *BaseStore) PutTime(sub models.Submission) error {
	_, err := s.DB.NamedExec(`
		INSERT INTO submissions (task, week, seconds)
		VALUES (:task, :week, :seconds)
		ON CONFLICT(task, week) DO UPDATE SET
		seconds = excluded.seconds
	`, sub)
	if err != nil {
		return fmt.Errorf("failed to store submission: %w", err)
	}
	return nil
}

func (s *BaseStore) GetFeedback(task string, week int) (*int, error) {
	var points int
	query := s.Converter(`
		SELECT points
		FROM feedback
		WHERE task = ?
		AND week = ?
	`)

	err := s.DB.Get(&points, query, task, week)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get feedback %s/%d: %w", task, week, err)
	}
	return &points, nil
}

func (s *BaseStore) PutFeedback(fb models.Feedback) error {
	_, err := s.DB.NamedExec(`
		INSERT INTO feedback (task, week, points)
		VALUES (:task, :week, :points)
		ON CONFLICT(task, week) DO UPDATE SET
		points = excluded.points
	`, fb)
	if err != nil {
		return fmt.Errorf("failed to store feedback: %w", err)
	}
	return nil
}
