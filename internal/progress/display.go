package progress

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/aleister1102/notegrab/internal/models"
	"github.com/rs/zerolog"
)

// DisplayConfig controls how often and how verbosely progress is logged
type DisplayConfig struct {
	DisplayInterval   time.Duration
	EnableProgress    bool
	ShowETAEstimation bool
}

// DefaultDisplayConfig mirrors the progress_config defaults
func DefaultDisplayConfig() *DisplayConfig {
	return &DisplayConfig{
		DisplayInterval:   3 * time.Second,
		EnableProgress:    true,
		ShowETAEstimation: true,
	}
}

// DisplayManager logs the progress of a bulk run on a ticker and on every update.
// It satisfies the bulk Reporter contract through Report and Outcome.
type DisplayManager struct {
	progress       *Progress
	mutex          sync.RWMutex
	logger         zerolog.Logger
	displayTicker  *time.Ticker
	isRunning      bool
	stopChan       chan struct{}
	cancel         context.CancelFunc
	lastDisplayed  string
	config         *DisplayConfig
	triggerDisplay chan struct{}
	loopDone       chan struct{}
}

// NewDisplayManager creates a display manager; a nil config uses the defaults.
func NewDisplayManager(logger zerolog.Logger, config *DisplayConfig) *DisplayManager {
	if config == nil {
		config = DefaultDisplayConfig()
	}
	if config.DisplayInterval <= 0 {
		config.DisplayInterval = 3 * time.Second
	}

	return &DisplayManager{
		progress:       NewProgress(""),
		logger:         logger.With().Str("component", "ProgressDisplay").Logger(),
		config:         config,
		triggerDisplay: make(chan struct{}, 1),
	}
}

// Start begins a new batch and the display loop. Calling Start while
// running only resets the counters.
func (dm *DisplayManager) Start(label string, total int) {
	dm.progress.Reset(label, int64(total))

	dm.mutex.Lock()
	defer dm.mutex.Unlock()

	dm.lastDisplayed = ""
	if dm.isRunning || !dm.config.EnableProgress {
		return
	}

	ctx, cancel := context.WithCancel(context.Background())
	dm.cancel = cancel
	dm.stopChan = make(chan struct{})
	dm.loopDone = make(chan struct{})
	dm.displayTicker = time.NewTicker(dm.config.DisplayInterval)
	dm.isRunning = true

	go dm.displayLoop(ctx, dm.displayTicker, dm.stopChan, dm.loopDone)
}

// Stop marks the batch with status, halts the loop and logs the final line.
func (dm *DisplayManager) Stop(status ProgressStatus, message string) {
	dm.progress.SetStatus(status, message)

	dm.mutex.Lock()
	if !dm.isRunning {
		dm.mutex.Unlock()
		return
	}
	dm.isRunning = false
	dm.cancel()
	dm.displayTicker.Stop()
	close(dm.stopChan)
	loopDone := dm.loopDone
	dm.mutex.Unlock()

	<-loopDone
	dm.displayProgress()
}

// Info returns the current progress snapshot
func (dm *DisplayManager) Info() ProgressInfo {
	return dm.progress.Info()
}

// Report records done of total and the message of the task being admitted.
func (dm *DisplayManager) Report(done, total int64, message string) {
	dm.progress.Update(done, total, message)
	dm.triggerImmediateDisplay()
}

// Outcome counts a finished task.
func (dm *DisplayManager) Outcome(_ int, _ int, outcome models.Outcome) {
	dm.progress.RecordOutcome(outcome.Status)
	dm.triggerImmediateDisplay()
}

func (dm *DisplayManager) triggerImmediateDisplay() {
	select {
	case dm.triggerDisplay <- struct{}{}:
	default:
	}
}

func (dm *DisplayManager) displayLoop(ctx context.Context, ticker *time.Ticker, stop <-chan struct{}, done chan<- struct{}) {
	defer close(done)
	for {
		select {
		case <-ctx.Done():
			return
		case <-stop:
			return
		case <-ticker.C:
			dm.displayProgress()
		case <-dm.triggerDisplay:
			dm.displayProgress()
		}
	}
}

func (dm *DisplayManager) displayProgress() {
	if !dm.config.EnableProgress {
		return
	}

	output := dm.formatProgress(dm.progress.Info())

	dm.mutex.Lock()
	defer dm.mutex.Unlock()
	if output != "" && output != dm.lastDisplayed {
		dm.logger.Info().Msg(output)
		dm.lastDisplayed = output
	}
}

func (dm *DisplayManager) formatProgress(info ProgressInfo) string {
	if info.Status == ProgressStatusIdle || info.Total <= 0 {
		return ""
	}

	label := info.Label
	if label == "" {
		label = "Download"
	}

	var builder strings.Builder
	percentage := info.GetPercentage()
	builder.WriteString(fmt.Sprintf("📥 %s: %s %s %.1f%% (%d/%d)",
		label, getStatusIcon(info.Status), createProgressBar(percentage, 20), percentage, info.Current, info.Total))

	builder.WriteString(fmt.Sprintf(" | OK:%d F:%d C:%d", info.Stats.Succeeded, info.Stats.Failed, info.Stats.Crashed))

	if dm.config.ShowETAEstimation && info.EstimatedETA > 0 && info.Status == ProgressStatusRunning {
		builder.WriteString(fmt.Sprintf(" | ETA: %s", formatDuration(info.EstimatedETA)))
	}

	if info.Message != "" {
		builder.WriteString(fmt.Sprintf(" | %s", info.Message))
	}

	return builder.String()
}

func getStatusIcon(status ProgressStatus) string {
	switch status {
	case ProgressStatusRunning:
		return "⏳"
	case ProgressStatusComplete:
		return "✅"
	case ProgressStatusError:
		return "❌"
	case ProgressStatusCancelled:
		return "🚫"
	case ProgressStatusIdle:
		return "💤"
	default:
		return "❓"
	}
}

func createProgressBar(percentage float64, width int) string {
	if width <= 0 {
		return ""
	}

	filled := int((percentage / 100.0) * float64(width))
	if filled > width {
		filled = width
	}

	return "[" + strings.Repeat("█", filled) + strings.Repeat("░", width-filled) + "]"
}

func formatDuration(d time.Duration) string {
	switch {
	case d < time.Minute:
		return fmt.Sprintf("%.0fs", d.Seconds())
	case d < time.Hour:
		return fmt.Sprintf("%.0fm", d.Minutes())
	default:
		return fmt.Sprintf("%.1fh", d.Hours())
	}
}
