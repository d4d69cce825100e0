package models

import "fmt"

// Course is the immutable grading configuration shared by the scorer and the grader.
type Course struct {
	Year      int    `toml:"year" json:"year" validate:"min=2000,max=2100"`
	StartWeek int    `toml:"start_week" json:"start_week" validate:"min=1,max=53"`
	Weeks     int    `toml:"weeks" json:"weeks" validate:"min=1,max=53"`
	Tasks     []Task `toml:"-" json:"tasks"`
}

func (c *Course) Validate() error {
	if err := newValidator().Struct(c); err != nil {
		return fmt.Errorf("%w: course: %v", ErrInvalidConfig, err)
	}
	if len(c.Tasks) == 0 {
		return fmt.Errorf("%w: course has no tasks", ErrInvalidConfig)
	}

	seen := make(map[string]bool, len(c.Tasks))
	for i := range c.Tasks {
		t := &c.Tasks[i]
		if seen[t.ID] {
			return fmt.Errorf("%w: duplicate task %q", ErrInvalidConfig, t.ID)
		}
		seen[t.ID] = true
		if err := t.Validate(c.Weeks); err != nil {
			return err
		}
	}
	return nil
}

func (c *Course) Task(id string) (*Task, bool) {
	for i := range c.Tasks {
		if c.Tasks[i].ID == id {
			return &c.Tasks[i], true
		}
	}
	return nil, false
}
