package models

// Submission is one persisted benchmark time for a (task, week) pair.
type Submission struct {
	Task string  `db:"task" json:"task"`
	Week int     `db:"week" json:"week"`
	Time float64 `db:"seconds" json:"time"`
}

// Feedback holds manually entered points, e.g. from code review.
type Feedback struct {
	Task   string `db:"task" json:"task"`
	Week   int    `db:"week" json:"week"`
	Points int    `db:"points" json:"points"`
}
