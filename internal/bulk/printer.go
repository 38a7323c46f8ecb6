package bulk

import (
	"fmt"
	"io"
	"os"
	"sync"

	"github.com/aleister1102/notegrab/internal/models"
	"github.com/aleister1102/notegrab/internal/urlhandler"
	"github.com/fatih/color"
)

const (
	DefaultFailureDisplayLimit = 10
	DefaultPreviewLimit        = 10

	summaryURLLimit = 60
	outcomeURLLimit = 50
	errorTextLimit  = 100
)

// Printer writes the colored console lines of the bulk downloader.
// It also acts as a Reporter printing one line per finished URL.
type Printer struct {
	mu           sync.Mutex
	out          io.Writer
	failureLimit int

	green         *color.Color
	yellow        *color.Color
	red           *color.Color
	blue          *color.Color
	bold          *color.Color
	header        *color.Color
	summaryHeader *color.Color
	previewHeader *color.Color
}

// NewPrinter creates a printer writing to out (stdout when nil)
func NewPrinter(out io.Writer, failureLimit int) *Printer {
	if out == nil {
		out = os.Stdout
	}
	if failureLimit <= 0 {
		failureLimit = DefaultFailureDisplayLimit
	}
	return &Printer{
		out:           out,
		failureLimit:  failureLimit,
		green:         color.New(color.FgGreen),
		yellow:        color.New(color.FgYellow),
		red:           color.New(color.FgRed),
		blue:          color.New(color.FgBlue),
		bold:          color.New(color.Bold),
		header:        color.New(color.FgCyan, color.Bold),
		summaryHeader: color.New(color.FgGreen, color.Bold),
		previewHeader: color.New(color.FgBlue, color.Bold),
	}
}

// Writer returns the underlying writer
func (p *Printer) Writer() io.Writer {
	return p.out
}

// Loaded announces how many URLs were read from path
func (p *Printer) Loaded(count int, path string) {
	p.green.Fprintf(p.out, "✅ Loaded %d URLs from %s\n", count, path)
}

// FileNotFound tells the user the URL file is missing and how to create it
func (p *Printer) FileNotFound(path string) {
	p.red.Fprintf(p.out, "❌ File %s not found.\n", path)
	p.yellow.Fprintln(p.out, "💡 Create the file and add URLs (one per line).")
}

// ReadError reports a URL file that exists but could not be read
func (p *Printer) ReadError(path string, err error) {
	p.red.Fprintf(p.out, "❌ Could not read %s: %v\n", path, err)
}

// StartBulk prints the banner opening a download batch of count URLs
func (p *Printer) StartBulk(count int) {
	p.header.Fprintf(p.out, "\n🚀 Starting bulk download of %d posts\n", count)
}

// RetryBanner prints the banner opening a retry of the URLs in path
func (p *Printer) RetryBanner(path string) {
	p.blue.Fprintf(p.out, "🔄 Retrying failed downloads from %s\n", path)
}

// NothingToRetry is printed when there is no failure file to retry
func (p *Printer) NothingToRetry(path string) {
	p.yellow.Fprintf(p.out, "⚠️ No %s found. Nothing to retry.\n", path)
}

// FailuresSaved confirms the failure file was written
func (p *Printer) FailuresSaved(path string) {
	p.blue.Fprintf(p.out, "💾 Failed URLs saved to %s for retry\n", path)
}

// FailuresSaveError reports that the failure file could not be written
func (p *Printer) FailuresSaveError(path string, err error) {
	p.red.Fprintf(p.out, "❌ Could not save failed URLs to %s: %v\n", path, err)
}

// Report is a no-op; the progress display owns the "currently processing" label.
func (p *Printer) Report(int64, int64, string) {}

// Outcome prints the result line of one URL
func (p *Printer) Outcome(index, total int, o models.Outcome) {
	p.mu.Lock()
	defer p.mu.Unlock()

	switch {
	case o.Status == models.OutcomeSucceeded && o.Post != nil:
		p.green.Fprintf(p.out, "✅ %d/%d: %s by %s\n", index, total, o.Post.DisplayTitle(), o.Post.DisplayAuthor())
	case o.Status == models.OutcomeFailed && o.Error == NoDataError:
		p.yellow.Fprintf(p.out, "⚠️ %d/%d: No data returned for %s\n", index, total, urlhandler.Truncate(o.URL, outcomeURLLimit))
	case o.Status == models.OutcomeCrashed:
		p.red.Fprintf(p.out, "❌ %d/%d: Crashed - %s\n", index, total, urlhandler.Truncate(o.Error, errorTextLimit))
	default:
		p.red.Fprintf(p.out, "❌ %d/%d: Error - %s\n", index, total, urlhandler.Truncate(o.Error, errorTextLimit))
	}
}

// Summary prints the totals and the first failures of a run
func (p *Printer) Summary(s Summary) {
	p.summaryHeader.Fprintln(p.out, "\n📊 Bulk Download Summary")
	fmt.Fprintf(p.out, "✅ Successful: %d\n", len(s.Succeeded))
	fmt.Fprintf(p.out, "❌ Failed: %d\n", s.FailureCount())
	fmt.Fprintf(p.out, "📈 Success rate: %s%%\n", s.FormatSuccessRate())

	if !s.HasFailures() {
		return
	}

	p.yellow.Fprintln(p.out, "\n⚠️ Failed URLs:")
	failures := s.Failures()
	for i, f := range failures {
		if i >= p.failureLimit {
			break
		}
		fmt.Fprintf(p.out, "  • %s - %s\n", urlhandler.Truncate(f.URL, summaryURLLimit), f.Error)
	}
	if len(failures) > p.failureLimit {
		fmt.Fprintf(p.out, "  ... and %d more\n", len(failures)-p.failureLimit)
	}
}

// Preview lists the first limit URLs and the total
func (p *Printer) Preview(urls []string, limit int) {
	if limit <= 0 {
		limit = DefaultPreviewLimit
	}
	p.previewHeader.Fprintln(p.out, "\n👀 Preview of URLs to download:")
	for i, u := range urls {
		if i >= limit {
			break
		}
		fmt.Fprintf(p.out, "%2d. %s\n", i+1, u)
	}
	if len(urls) > limit {
		fmt.Fprintf(p.out, "    ... and %d more URLs\n", len(urls)-limit)
	}
	p.bold.Fprintf(p.out, "\nTotal URLs: %d\n", len(urls))
}
