package metrics

import (
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/aleister1102/notegrab/internal/bulk"
	"github.com/aleister1102/notegrab/internal/common/errorwrapper"
	"github.com/aleister1102/notegrab/internal/models"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/rs/zerolog"
)

const namespace = "notegrab"

// Recorder counts outcomes per batch and exports them as a Prometheus textfile.
// It is both a bulk.Reporter and a bulk.BatchObserver.
type Recorder struct {
	registry *prometheus.Registry

	outcomes      *prometheus.CounterVec
	urlDuration   *prometheus.HistogramVec
	batches       *prometheus.CounterVec
	batchDuration *prometheus.HistogramVec
	successRate   *prometheus.GaugeVec
	inFlight      prometheus.Gauge

	mu           sync.Mutex
	label        string
	textfilePath string
	logger       zerolog.Logger
}

// NewRecorder registers the notegrab collectors on a fresh registry.
// An empty textfilePath disables the export after each batch.
func NewRecorder(textfilePath string, logger zerolog.Logger) *Recorder {
	reg := prometheus.NewRegistry()
	factory := promauto.With(reg)

	return &Recorder{
		registry: reg,
		outcomes: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "url_outcomes_total",
			Help:      "Processed URLs by batch and outcome status.",
		}, []string{"batch", "status"}),
		urlDuration: factory.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "url_duration_seconds",
			Help:      "Time spent extracting a single URL.",
			Buckets:   []float64{0.5, 1, 2, 5, 10, 15, 30, 60},
		}, []string{"batch"}),
		batches: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "batches_total",
			Help:      "Completed bulk runs.",
		}, []string{"batch"}),
		batchDuration: factory.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "batch_duration_seconds",
			Help:      "Wall time of a bulk run.",
			Buckets:   prometheus.ExponentialBuckets(1, 2, 10),
		}, []string{"batch"}),
		successRate: factory.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "batch_success_ratio",
			Help:      "Share of URLs that succeeded in the last run.",
		}, []string{"batch"}),
		inFlight: factory.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "batch_pending_urls",
			Help:      "URLs of the running batch without an outcome yet.",
		}),
		textfilePath: textfilePath,
		logger:       logger.With().Str("component", "Metrics").Logger(),
	}
}

// Registry exposes the underlying registry
func (r *Recorder) Registry() *prometheus.Registry {
	return r.registry
}

func (r *Recorder) currentLabel() string {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.label
}

// BatchStarted implements bulk.BatchObserver
func (r *Recorder) BatchStarted(label string, total int) {
	r.mu.Lock()
	r.label = label
	r.mu.Unlock()

	for _, status := range []models.OutcomeStatus{models.OutcomeSucceeded, models.OutcomeFailed, models.OutcomeCrashed} {
		r.outcomes.WithLabelValues(label, string(status))
	}
	r.inFlight.Set(float64(total))
}

// Report implements bulk.Reporter
func (r *Recorder) Report(int64, int64, string) {}

// Outcome implements bulk.Reporter
func (r *Recorder) Outcome(_ int, _ int, o models.Outcome) {
	label := r.currentLabel()
	r.outcomes.WithLabelValues(label, string(o.Status)).Inc()
	r.urlDuration.WithLabelValues(label).Observe(o.Duration.Seconds())
	r.inFlight.Dec()
}

// BatchFinished implements bulk.BatchObserver and writes the textfile when configured.
func (r *Recorder) BatchFinished(label string, summary bulk.Summary, elapsed time.Duration) {
	r.batches.WithLabelValues(label).Inc()
	r.batchDuration.WithLabelValues(label).Observe(elapsed.Seconds())
	r.successRate.WithLabelValues(label).Set(summary.SuccessRate() / 100)
	r.inFlight.Set(0)

	if r.textfilePath == "" {
		return
	}
	if err := r.WriteTextfile(r.textfilePath); err != nil {
		r.logger.Error().Err(err).Str("path", r.textfilePath).Msg("Failed to write metrics textfile")
		return
	}
	r.logger.Debug().Str("path", r.textfilePath).Msg("Metrics textfile written")
}

// WriteTextfile dumps every collector in the text exposition format
func (r *Recorder) WriteTextfile(path string) error {
	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return errorwrapper.WrapErrorf(err, "failed to create metrics directory %s", dir)
		}
	}
	if err := prometheus.WriteToTextfile(path, r.registry); err != nil {
		return errorwrapper.WrapError(err, "failed to write metrics textfile")
	}
	return nil
}

var (
	_ bulk.Reporter      = (*Recorder)(nil)
	_ bulk.BatchObserver = (*Recorder)(nil)
)
