package logger

import (
	"strings"

	"github.com/aleister1102/notegrab/internal/common/errorwrapper"
	"github.com/aleister1102/notegrab/internal/config"
	"github.com/rs/zerolog"
)

// DefaultLogFileName is used when log_file names a directory
const DefaultLogFileName = "notegrab.log"

// LogFormat selects how entries are rendered
type LogFormat int

const (
	FormatJSON LogFormat = iota
	FormatConsole
	FormatText
)

func (lf LogFormat) String() string {
	switch lf {
	case FormatJSON:
		return "json"
	case FormatText:
		return "text"
	default:
		return "console"
	}
}

// Options is the resolved logger setup
type Options struct {
	Level  zerolog.Level
	Format LogFormat

	// FilePath enables rotated file output; with a RunID the file lands in runs/<RunID>/
	FilePath   string
	MaxSizeMB  int
	MaxBackups int
	RunID      string
}

// DefaultOptions logs info and above to the console only
func DefaultOptions() Options {
	return Options{
		Level:      zerolog.InfoLevel,
		Format:     FormatConsole,
		MaxSizeMB:  config.DefaultMaxLogSizeMB,
		MaxBackups: config.DefaultMaxLogBackups,
	}
}

// FromLogConfig resolves the log section of the configuration. An unknown
// level falls back to info and is reported through the error; an unknown
// format falls back to console.
func FromLogConfig(cfg config.LogConfig) (Options, error) {
	opts := DefaultOptions()
	opts.Format = parseFormat(cfg.LogFormat)
	opts.FilePath = resolveFilePath(cfg.LogFile)
	if cfg.MaxLogSizeMB > 0 {
		opts.MaxSizeMB = cfg.MaxLogSizeMB
	}
	if cfg.MaxLogBackups > 0 {
		opts.MaxBackups = cfg.MaxLogBackups
	}

	level, err := parseLevel(cfg.LogLevel)
	opts.Level = level
	return opts, err
}

func parseLevel(s string) (zerolog.Level, error) {
	s = strings.ToLower(strings.TrimSpace(s))
	if s == "" {
		return zerolog.InfoLevel, nil
	}
	level, err := zerolog.ParseLevel(s)
	if err != nil {
		return zerolog.InfoLevel, errorwrapper.WrapError(err, "invalid log level")
	}
	return level, nil
}

func parseFormat(s string) LogFormat {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "json":
		return FormatJSON
	case "text":
		return FormatText
	default:
		return FormatConsole
	}
}

func resolveFilePath(p string) string {
	p = strings.TrimSpace(p)
	if p == "" {
		return ""
	}
	if strings.HasSuffix(p, "/") || strings.HasSuffix(p, "\\") {
		return p + DefaultLogFileName
	}
	return p
}
