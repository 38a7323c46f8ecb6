package logger

import (
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/rs/zerolog"
	"gopkg.in/natefinch/lumberjack.v2"
)

// formatWriter wraps out so entries are rendered in format
func formatWriter(format LogFormat, out io.Writer, color bool) io.Writer {
	switch format {
	case FormatJSON:
		return out
	case FormatText:
		return zerolog.ConsoleWriter{Out: out, TimeFormat: time.RFC3339, NoColor: true}
	default:
		return zerolog.ConsoleWriter{Out: out, TimeFormat: time.Kitchen, NoColor: !color}
	}
}

// rotatingFile opens the lumberjack writer for opts, creating the run directory.
func rotatingFile(opts Options) (io.Writer, error) {
	path := runLogPath(opts.FilePath, opts.RunID)
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return nil, err
	}

	return &lumberjack.Logger{
		Filename:   path,
		MaxSize:    opts.MaxSizeMB,
		MaxBackups: opts.MaxBackups,
		LocalTime:  true,
	}, nil
}

// runLogPath nests the log file under runs/<runID>/ next to the configured path
func runLogPath(filePath, runID string) string {
	if runID == "" {
		return filePath
	}
	return filepath.Join(filepath.Dir(filePath), "runs", runID, filepath.Base(filePath))
}
