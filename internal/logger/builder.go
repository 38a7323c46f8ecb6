package logger

import (
	"io"
	stdlog "log"
	"os"

	"github.com/aleister1102/notegrab/internal/common/errorwrapper"
	"github.com/aleister1102/notegrab/internal/config"
	"github.com/rs/zerolog"
)

// LoggerBuilder provides fluent interface for building loggers
type LoggerBuilder struct {
	opts    Options
	console io.Writer
	err     error
}

// NewLoggerBuilder starts from DefaultOptions with console output on stderr
func NewLoggerBuilder() *LoggerBuilder {
	return &LoggerBuilder{
		opts:    DefaultOptions(),
		console: os.Stderr,
	}
}

// WithConfig applies the log section of the configuration. An invalid level
// is kept as info; Build does not fail because of it.
func (lb *LoggerBuilder) WithConfig(cfg config.LogConfig) *LoggerBuilder {
	runID := lb.opts.RunID
	lb.opts, _ = FromLogConfig(cfg)
	lb.opts.RunID = runID
	return lb
}

// WithRunID tags every entry with run_id and moves the log file under runs/<runID>/
func (lb *LoggerBuilder) WithRunID(runID string) *LoggerBuilder {
	lb.opts.RunID = runID
	return lb
}

// WithConsoleOutput redirects console output; nil disables it.
func (lb *LoggerBuilder) WithConsoleOutput(w io.Writer) *LoggerBuilder {
	lb.console = w
	return lb
}

// Build creates the logger and routes the standard log package through it.
func (lb *LoggerBuilder) Build() (*Logger, error) {
	if lb.opts.MaxSizeMB <= 0 {
		return nil, errorwrapper.NewValidationError("max_size_mb", lb.opts.MaxSizeMB, "max size must be positive")
	}

	var writers []io.Writer
	if lb.console != nil {
		writers = append(writers, formatWriter(lb.opts.Format, lb.console, true))
	}
	if lb.opts.FilePath != "" {
		file, err := rotatingFile(lb.opts)
		if err != nil {
			return nil, errorwrapper.WrapErrorf(err, "failed to prepare log file %s", lb.opts.FilePath)
		}
		// colors make no sense in a file
		writers = append(writers, formatWriter(lb.opts.Format, file, false))
	}
	if len(writers) == 0 {
		return nil, errorwrapper.NewError("no output writers configured")
	}

	logCtx := zerolog.New(zerolog.MultiLevelWriter(writers...)).
		Level(lb.opts.Level).
		With().
		Timestamp()
	if lb.opts.RunID != "" {
		logCtx = logCtx.Str("run_id", lb.opts.RunID)
	}
	zl := logCtx.Logger()

	stdlog.SetOutput(zl)
	stdlog.SetFlags(0)

	return &Logger{zerolog: zl, opts: lb.opts}, nil
}
