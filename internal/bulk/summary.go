package bulk

import (
	"fmt"

	"github.com/aleister1102/notegrab/internal/models"
	"github.com/samber/lo"
)

// Summary partitions the outcomes of one run
type Summary struct {
	Total     int
	Succeeded []models.Outcome
	Failed    []models.Outcome
	Crashed   []models.Outcome
}

// Summarize buckets outcomes by status. total is the number of submitted URLs.
func Summarize(total int, outcomes []models.Outcome) Summary {
	byStatus := func(status models.OutcomeStatus) []models.Outcome {
		return lo.Filter(outcomes, func(o models.Outcome, _ int) bool {
			return o.Status == status
		})
	}

	return Summary{
		Total:     total,
		Succeeded: byStatus(models.OutcomeSucceeded),
		Failed:    byStatus(models.OutcomeFailed),
		Crashed:   byStatus(models.OutcomeCrashed),
	}
}

// FailureCount is the number of failed and crashed outcomes
func (s Summary) FailureCount() int {
	return len(s.Failed) + len(s.Crashed)
}

// Failures returns failed outcomes followed by crashed ones
func (s Summary) Failures() []models.Outcome {
	failures := make([]models.Outcome, 0, s.FailureCount())
	failures = append(failures, s.Failed...)
	return append(failures, s.Crashed...)
}

// HasFailures reports whether the retry file should be written
func (s Summary) HasFailures() bool {
	return s.FailureCount() > 0
}

// SuccessRate returns successes / total * 100, or 0 for an empty run
func (s Summary) SuccessRate() float64 {
	if s.Total <= 0 {
		return 0
	}
	return float64(len(s.Succeeded)) / float64(s.Total) * 100
}

// FormatSuccessRate renders the rate with one decimal place
func (s Summary) FormatSuccessRate() string {
	return fmt.Sprintf("%.1f", s.SuccessRate())
}

// RetryURLs lists the URLs to write to the failure file
func (s Summary) RetryURLs() []string {
	return lo.Map(s.Failures(), func(o models.Outcome, _ int) string {
		return o.URL
	})
}

// Balanced reports whether every submitted URL has exactly one outcome
func (s Summary) Balanced() bool {
	return len(s.Succeeded)+s.FailureCount() == s.Total
}
