// Package fs stores every value as a one-line text file:
// <root>/<task>/submission-<week>.txt and <root>/<task>/feedback-<week>.txt.
package fs

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/shrimpsizemoose/semla/internal/models"
)

const (
	submissionKind = "submission"
	feedbackKind   = "feedback"
)

type FileStore struct {
	root string
}

func NewFileStore(root string) (*FileStore, error) {
	if root == "" {
		return nil, fmt.Errorf("file store needs a directory")
	}
	if err := os.MkdirAll(root, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create store directory %s: %w", root, err)
	}
	return &FileStore{root: root}, nil
}

func (s *FileStore) Close() error {
	return nil
}

// Path is the file holding the given kind of value for a (task, week) pair.
func (s *FileStore) Path(task string, week int, kind string) string {
	return filepath.Join(s.root, task, fmt.Sprintf("%s-%d.txt", kind, week))
}

func (s *FileStore) GetTime(task string, week int) (*float64, error) {
	raw, err := s.read(task, week, submissionKind)
	if raw == nil || err != nil {
		return nil, err
	}
	seconds, err := strconv.ParseFloat(*raw, 64)
	if err != nil {
		return nil, fmt.Errorf("corrupt submission file %s: %w", s.Path(task, week, submissionKind), err)
	}
	return &seconds, nil
}

func (s *FileStore) PutTime(sub models.Submission) error {
	return s.write(sub.Task, sub.Week, submissionKind, strconv.FormatFloat(sub.Time, 'f', -1, 64))
}

func (s *FileStore) GetFeedback(task string, week int) (*int, error) {
	raw, err := s.read(task, week, feedbackKind)
	if raw == nil || err != nil {
		return nil, err
	}
	points, err := strconv.Atoi(*raw)
	if err != nil {
		return nil, fmt.Errorf("corrupt feedback file %s: %w", s.Path(task, week, feedbackKind), err)
	}
	return &points, nil
}

func (s *FileStore) PutFeedback(fb models.Feedback) error {
	return s.write(fb.Task, fb.Week, feedbackKind, strconv.Itoa(fb.Points))
}

func (s *FileStore) read(task string, week int, kind string) (*string, error) {
	data, err := os.ReadFile(s.Path(task, week, kind))
	if errors.Is(err, os.ErrNotExist) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", s.Path(task, week, kind), err)
	}
	value := strings.TrimSpace(string(data))
	return &value, nil
}

func (s *FileStore) write(task string, week int, kind, value string) error {
	path := s.Path(task, week, kind)
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("failed to create %s: %w", filepath.Dir(path), err)
	}
	if err := os.WriteFile(path, []byte(value+"\n"), 0o644); err != nil {
		return fmt.Errorf("failed to write %s: %w", path, err)
	}
	return nil
}
