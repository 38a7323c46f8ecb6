package bulk

import "github.com/aleister1102/notegrab/internal/models"

// Reporter receives progress of a bulk run. Report is called before each
// extraction call starts; Outcome after each call completes. index is 1-based.
// Implementations must be safe for concurrent use.
type Reporter interface {
	Report(done, total int64, message string)
	Outcome(index, total int, outcome models.Outcome)
}

// NopReporter discards all progress
type NopReporter struct{}

func (NopReporter) Report(int64, int64, string)      {}
func (NopReporter) Outcome(int, int, models.Outcome) {}

// MultiReporter fans every call out to each reporter in order
type MultiReporter []Reporter

func (m MultiReporter) Report(done, total int64, message string) {
	for _, r := range m {
		r.Report(done, total, message)
	}
}

func (m MultiReporter) Outcome(index, total int, outcome models.Outcome) {
	for _, r := range m {
		r.Outcome(index, total, outcome)
	}
}
