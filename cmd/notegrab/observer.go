package main

import (
	"fmt"
	"time"

	"github.com/aleister1102/notegrab/internal/bulk"
	"github.com/aleister1102/notegrab/internal/progress"
)

// progressObserver starts and stops the periodic progress display around each batch
type progressObserver struct {
	display *progress.DisplayManager
}

func (o progressObserver) BatchStarted(label string, total int) {
	o.display.Start(label, total)
}

func (o progressObserver) BatchFinished(label string, summary bulk.Summary, elapsed time.Duration) {
	status := progress.ProgressStatusComplete
	if len(summary.Succeeded) == 0 && summary.Total > 0 {
		status = progress.ProgressStatusError
	}
	o.display.Stop(status, fmt.Sprintf("%s finished in %s: %d ok, %d failed",
		label, elapsed.Round(time.Millisecond), len(summary.Succeeded), summary.FailureCount()))
}
