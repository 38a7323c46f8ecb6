package progress

import (
	"sync"
	"time"

	"github.com/aleister1102/notegrab/internal/models"
)

// Progress encapsulates a single batch progress indicator.
type Progress struct {
	mu   sync.RWMutex
	info ProgressInfo
}

// NewProgress creates an idle Progress with the given label.
func NewProgress(label string) *Progress {
	return &Progress{
		info: ProgressInfo{
			Label:  label,
			Status: ProgressStatusIdle,
		},
	}
}

// Info returns a copy of the ProgressInfo.
func (p *Progress) Info() ProgressInfo {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.info
}

// Reset starts a new batch of total items under label.
func (p *Progress) Reset(label string, total int64) {
	p.mu.Lock()
	defer p.mu.Unlock()

	now := time.Now()
	p.info = ProgressInfo{
		Label:          label,
		Status:         ProgressStatusRunning,
		Total:          total,
		StartTime:      now,
		LastUpdateTime: now,
	}
}

// Update records the completed count and the latest message.
func (p *Progress) Update(current, total int64, message string) {
	p.mu.Lock()
	defer p.mu.Unlock()

	now := time.Now()

	if p.info.Status == ProgressStatusIdle || p.info.StartTime.IsZero() {
		p.info.StartTime = now
		p.info.Status = ProgressStatusRunning
	}

	p.info.Current = current
	p.info.Total = total
	p.info.Message = message
	p.info.LastUpdateTime = now
	p.info.UpdateETA()
}

// RecordOutcome bumps the counter matching status.
func (p *Progress) RecordOutcome(status models.OutcomeStatus) {
	p.mu.Lock()
	defer p.mu.Unlock()

	switch status {
	case models.OutcomeSucceeded:
		p.info.Stats.Succeeded++
	case models.OutcomeFailed:
		p.info.Stats.Failed++
	case models.OutcomeCrashed:
		p.info.Stats.Crashed++
	}
	p.info.LastUpdateTime = time.Now()
}

// SetStatus sets the progress status.
func (p *Progress) SetStatus(status ProgressStatus, message string) {
	p.mu.Lock()
	defer p.mu.Unlock()

	p.info.Status = status
	p.info.Message = message
	p.info.LastUpdateTime = time.Now()
	if status != ProgressStatusRunning {
		p.info.EstimatedETA = 0
	}
}
