package models

import "time"

// OutcomeStatus tags how one extraction call ended
type OutcomeStatus string

const (
	OutcomeSucceeded OutcomeStatus = "succeeded"
	OutcomeFailed    OutcomeStatus = "failed"
	// OutcomeCrashed marks a call that panicked; the panic was recovered
	OutcomeCrashed OutcomeStatus = "crashed"
)

// Outcome is the result of one URL of a bulk run
type Outcome struct {
	Status   OutcomeStatus `json:"status"`
	URL      string        `json:"url"`
	Index    int           `json:"index"`
	Post     *Post         `json:"post,omitempty"`
	Error    string        `json:"error,omitempty"`
	Duration time.Duration `json:"duration"`
}

// Succeeded reports whether the outcome carries a post
func (o Outcome) Succeeded() bool {
	return o.Status == OutcomeSucceeded
}
