package bulk

import (
	"bytes"
	"errors"
	"fmt"
	"strings"
	"testing"

	"github.com/aleister1102/notegrab/internal/models"
	"github.com/stretchr/testify/assert"
)

func TestPrinter_Summary(t *testing.T) {
	var buf bytes.Buffer
	p := NewPrinter(&buf, 10)

	outcomes := []models.Outcome{{Status: models.OutcomeSucceeded, URL: "https://h/ok"}}
	for i := 0; i < 11; i++ {
		outcomes = append(outcomes, models.Outcome{Status: models.OutcomeFailed, URL: fmt.Sprintf("https://h/f%d", i), Error: "No data"})
	}
	outcomes = append(outcomes, models.Outcome{Status: models.OutcomeCrashed, URL: "https://h/crash", Error: "boom"})

	p.Summary(Summarize(len(outcomes), outcomes))
	out := buf.String()

	assert.Contains(t, out, "📊 Bulk Download Summary")
	assert.Contains(t, out, "✅ Successful: 1\n")
	assert.Contains(t, out, "❌ Failed: 12\n")
	assert.Contains(t, out, "📈 Success rate: 7.7%\n")
	assert.Contains(t, out, "  • https://h/f0 - No data\n")
	assert.Contains(t, out, "  • https://h/f9 - No data\n")
	assert.NotContains(t, out, "https://h/f10")
	assert.NotContains(t, out, "https://h/crash")
	assert.Contains(t, out, "  ... and 2 more\n")
}

func TestPrinter_SummaryTruncatesLongURL(t *testing.T) {
	var buf bytes.Buffer
	longURL := "https://www.xiaohongshu.com/explore/" + strings.Repeat("x", 60)
	NewPrinter(&buf, 10).Summary(Summarize(1, []models.Outcome{{Status: models.OutcomeFailed, URL: longURL, Error: "timeout"}}))

	assert.Contains(t, buf.String(), "  • "+longURL[:60]+"... - timeout\n")
}

func TestPrinter_SummaryWithoutFailures(t *testing.T) {
	var buf bytes.Buffer
	NewPrinter(&buf, 10).Summary(Summarize(1, []models.Outcome{{Status: models.OutcomeSucceeded}}))

	assert.Contains(t, buf.String(), "📈 Success rate: 100.0%")
	assert.NotContains(t, buf.String(), "Failed URLs")
}

func TestPrinter_Outcome(t *testing.T) {
	var buf bytes.Buffer
	p := NewPrinter(&buf, 10)

	p.Outcome(1, 4, models.Outcome{Status: models.OutcomeSucceeded, Post: &models.Post{Title: "周末露营", AuthorName: "小明"}})
	p.Outcome(2, 4, models.Outcome{Status: models.OutcomeSucceeded, Post: &models.Post{ID: "x"}})
	p.Outcome(3, 4, models.Outcome{Status: models.OutcomeFailed, URL: "https://h/empty", Error: NoDataError})
	p.Outcome(4, 4, models.Outcome{Status: models.OutcomeFailed, URL: "https://h/err", Error: strings.Repeat("e", 120)})
	p.Outcome(4, 4, models.Outcome{Status: models.OutcomeCrashed, URL: "https://h/crash", Error: "nil pointer"})

	out := buf.String()
	assert.Contains(t, out, "✅ 1/4: 周末露营 by 小明\n")
	assert.Contains(t, out, "✅ 2/4: Unknown title by Unknown author\n")
	assert.Contains(t, out, "⚠️ 3/4: No data returned for https://h/empty\n")
	assert.Contains(t, out, "❌ 4/4: Error - "+strings.Repeat("e", 100)+"...\n")
	assert.Contains(t, out, "❌ 4/4: Crashed - nil pointer\n")
}

func TestPrinter_Preview(t *testing.T) {
	var buf bytes.Buffer
	urls := make([]string, 12)
	for i := range urls {
		urls[i] = fmt.Sprintf("https://h/%d", i+1)
	}

	NewPrinter(&buf, 10).Preview(urls, 10)
	out := buf.String()

	assert.Contains(t, out, "👀 Preview of URLs to download:")
	assert.Contains(t, out, " 1. https://h/1\n")
	assert.Contains(t, out, "10. https://h/10\n")
	assert.NotContains(t, out, "https://h/11\n")
	assert.Contains(t, out, "    ... and 2 more URLs\n")
	assert.Contains(t, out, "Total URLs: 12")
}

func TestPrinter_FileMessages(t *testing.T) {
	var buf bytes.Buffer
	p := NewPrinter(&buf, 0)

	p.FileNotFound("bulk_urls.txt")
	p.Loaded(3, "bulk_urls.txt")
	p.NothingToRetry("failed_urls.txt")
	p.RetryBanner("failed_urls.txt")
	p.FailuresSaved("failed_urls.txt")
	p.FailuresSaveError("failed_urls.txt", errors.New("disk full"))

	out := buf.String()
	assert.Contains(t, out, "❌ File bulk_urls.txt not found.")
	assert.Contains(t, out, "💡 Create the file and add URLs (one per line).")
	assert.Contains(t, out, "✅ Loaded 3 URLs from bulk_urls.txt")
	assert.Contains(t, out, "⚠️ No failed_urls.txt found. Nothing to retry.")
	assert.Contains(t, out, "🔄 Retrying failed downloads from failed_urls.txt")
	assert.Contains(t, out, "💾 Failed URLs saved to failed_urls.txt for retry")
	assert.Contains(t, out, "disk full")
}
