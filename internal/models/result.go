package models

// Result is the derived view of one (task, week) pair. Nil fields mean "not there yet".
type Result struct {
	Task      string   `json:"task"`
	Week      int      `json:"week"`
	Time      *float64 `json:"time,omitempty"`
	Feedback  *int     `json:"feedback,omitempty"`
	Automatic *int     `json:"automatic,omitempty"`
	Final     *int     `json:"final,omitempty"`
}

// Summary is the best-of reduction over all weekly results of a task.
// Best and BestTime may come from different weeks.
type Summary struct {
	Task     string  `json:"task"`
	Report   bool    `json:"report"`
	Best     int     `json:"best"`
	Max      int     `json:"max"`
	BestTime float64 `json:"best_time"`
}
