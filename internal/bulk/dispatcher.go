package bulk

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/aleister1102/notegrab/internal/models"
	"github.com/aleister1102/notegrab/internal/urlhandler"
	"github.com/rs/zerolog"
	"go.uber.org/atomic"
	"golang.org/x/sync/semaphore"
)

const (
	// DefaultMaxConcurrent is the admission bound of a bulk download
	DefaultMaxConcurrent = 3
	// DefaultRetryMaxConcurrent is the admission bound of a retry run
	DefaultRetryMaxConcurrent = 2
	// MinConcurrent and MaxConcurrent clamp user supplied bounds
	MinConcurrent = 1
	MaxConcurrent = 5

	// NoDataError is the error text of an extraction that returned nothing usable
	NoDataError = "No data"

	processingURLLimit = 50
)

// Dispatcher runs one extraction call per URL with at most maxConcurrent calls in flight.
type Dispatcher struct {
	maxConcurrent int
	logger        zerolog.Logger

	inFlight    atomic.Int64
	maxInFlight atomic.Int64
}

// NewDispatcher creates a dispatcher; bounds outside [MinConcurrent, MaxConcurrent] are clamped.
func NewDispatcher(maxConcurrent int, logger zerolog.Logger) *Dispatcher {
	return &Dispatcher{
		maxConcurrent: ClampConcurrency(maxConcurrent),
		logger:        logger.With().Str("component", "Dispatcher").Logger(),
	}
}

// MaxConcurrent returns the admission bound
func (d *Dispatcher) MaxConcurrent() int {
	return d.maxConcurrent
}

// MaxObservedInFlight returns the highest number of simultaneous calls seen so far
func (d *Dispatcher) MaxObservedInFlight() int64 {
	return d.maxInFlight.Load()
}

// Run calls ext.Extract(url, true) exactly once for every URL and returns one
// outcome per URL in completion order. It never fails fast. URLs still waiting
// for admission when ctx is cancelled get a failed outcome carrying ctx.Err().
func (d *Dispatcher) Run(ctx context.Context, urls []string, ext Extractor, reporter Reporter) []models.Outcome {
	if reporter == nil {
		reporter = NopReporter{}
	}

	total := len(urls)
	if total == 0 {
		return []models.Outcome{}
	}

	sem := semaphore.NewWeighted(int64(d.maxConcurrent))
	results := make(chan models.Outcome, total)
	var done atomic.Int64
	var wg sync.WaitGroup

	d.logger.Info().Int("total", total).Int("max_concurrent", d.maxConcurrent).Msg("Starting bulk dispatch")

	finish := func(outcome models.Outcome) {
		done.Inc()
		results <- outcome
		reporter.Outcome(outcome.Index, total, outcome)
	}

	for i, url := range urls {
		wg.Add(1)
		go func(index int, url string) {
			defer wg.Done()

			if err := sem.Acquire(ctx, 1); err != nil {
				finish(models.Outcome{
					Status: models.OutcomeFailed,
					URL:    url,
					Index:  index,
					Error:  err.Error(),
				})
				return
			}
			defer sem.Release(1)

			reporter.Report(done.Load(), int64(total),
				fmt.Sprintf("Processing %d/%d: %s", index, total, urlhandler.Truncate(url, processingURLLimit)))

			finish(d.execute(ctx, ext, url, index))
		}(i+1, url)
	}

	wg.Wait()
	close(results)

	outcomes := make([]models.Outcome, 0, total)
	for outcome := range results {
		outcomes = append(outcomes, outcome)
	}

	d.logger.Info().Int("total", total).Int64("completed", done.Load()).Msg("Bulk dispatch finished")
	return outcomes
}

// execute performs one extraction call and classifies it. A panic inside the
// call is recovered into a crashed outcome that still carries its URL.
func (d *Dispatcher) execute(ctx context.Context, ext Extractor, url string, index int) (outcome models.Outcome) {
	start := time.Now()
	outcome = models.Outcome{URL: url, Index: index}

	current := d.inFlight.Inc()
	for {
		observed := d.maxInFlight.Load()
		if current <= observed || d.maxInFlight.CompareAndSwap(observed, current) {
			break
		}
	}

	defer func() {
		d.inFlight.Dec()
		outcome.Duration = time.Since(start)
		if r := recover(); r != nil {
			d.logger.Error().Str("url", url).Interface("panic", r).Msg("Extraction call panicked")
			outcome.Status = models.OutcomeCrashed
			outcome.Post = nil
			outcome.Error = fmt.Sprint(r)
		}
	}()

	posts, err := ext.Extract(ctx, url, true)
	switch {
	case err != nil:
		outcome.Status = models.OutcomeFailed
		outcome.Error = err.Error()
		d.logger.Debug().Err(err).Str("url", url).Msg("Extraction failed")
	case len(posts) == 0 || posts[0].IsEmpty():
		outcome.Status = models.OutcomeFailed
		outcome.Error = NoDataError
	default:
		post := posts[0]
		outcome.Status = models.OutcomeSucceeded
		outcome.Post = &post
	}
	return outcome
}
