package bulk

import (
	"fmt"
	"testing"

	"github.com/aleister1102/notegrab/internal/models"
	"github.com/stretchr/testify/assert"
)

func outcomesOf(statuses ...models.OutcomeStatus) []models.Outcome {
	outcomes := make([]models.Outcome, len(statuses))
	for i, status := range statuses {
		outcomes[i] = models.Outcome{Status: status, URL: fmt.Sprintf("https://h/%d", i), Index: i + 1}
	}
	return outcomes
}

func TestSummarize_SevenOfTen(t *testing.T) {
	s, f, c := models.OutcomeSucceeded, models.OutcomeFailed, models.OutcomeCrashed
	summary := Summarize(10, outcomesOf(s, s, f, s, s, c, s, f, s, s))

	assert.Len(t, summary.Succeeded, 7)
	assert.Len(t, summary.Failed, 2)
	assert.Len(t, summary.Crashed, 1)
	assert.Equal(t, 3, summary.FailureCount())
	assert.True(t, summary.Balanced())
	assert.InDelta(t, 70.0, summary.SuccessRate(), 0.0001)
	assert.Equal(t, "70.0", summary.FormatSuccessRate())
}

func TestSummarize_RateFormatting(t *testing.T) {
	s, f := models.OutcomeSucceeded, models.OutcomeFailed
	assert.Equal(t, "0.0", Summarize(0, nil).FormatSuccessRate())
	assert.Equal(t, "33.3", Summarize(3, outcomesOf(s, f, f)).FormatSuccessRate())
	assert.Equal(t, "66.7", Summarize(3, outcomesOf(s, s, f)).FormatSuccessRate())
	assert.Equal(t, "100.0", Summarize(2, outcomesOf(s, s)).FormatSuccessRate())
}

func TestSummary_RetryURLsFailedThenCrashed(t *testing.T) {
	outcomes := []models.Outcome{
		{Status: models.OutcomeCrashed, URL: "https://h/c1"},
		{Status: models.OutcomeFailed, URL: "https://h/f1"},
		{Status: models.OutcomeSucceeded, URL: "https://h/ok"},
		{Status: models.OutcomeFailed, URL: "https://h/f2"},
	}
	summary := Summarize(4, outcomes)

	assert.Equal(t, []string{"https://h/f1", "https://h/f2", "https://h/c1"}, summary.RetryURLs())
	assert.True(t, summary.HasFailures())
}

func TestSummary_NoFailures(t *testing.T) {
	summary := Summarize(2, outcomesOf(models.OutcomeSucceeded, models.OutcomeSucceeded))
	assert.False(t, summary.HasFailures())
	assert.Empty(t, summary.RetryURLs())
}

func TestSummary_Unbalanced(t *testing.T) {
	summary := Summarize(3, outcomesOf(models.OutcomeSucceeded))
	assert.False(t, summary.Balanced())
}
