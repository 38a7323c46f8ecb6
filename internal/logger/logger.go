package logger

import (
	"github.com/aleister1102/notegrab/internal/config"
	"github.com/rs/zerolog"
)

// Logger is a built zerolog logger together with the options it was built from
type Logger struct {
	zerolog zerolog.Logger
	opts    Options
}

// GetZerolog returns the underlying zerolog instance
func (l *Logger) GetZerolog() *zerolog.Logger {
	return &l.zerolog
}

// Options returns the resolved logger options
func (l *Logger) Options() Options {
	return l.opts
}

// New creates a logger from the log configuration
func New(cfg config.LogConfig) (zerolog.Logger, error) {
	return NewWithRunID(cfg, "")
}

// NewWithRunID creates a logger tagged with runID whose file output goes to runs/<runID>/
func NewWithRunID(cfg config.LogConfig, runID string) (zerolog.Logger, error) {
	l, err := NewLoggerBuilder().
		WithConfig(cfg).
		WithRunID(runID).
		Build()
	if err != nil {
		return zerolog.Logger{}, err
	}
	return *l.GetZerolog(), nil
}
