package bulk

import (
	"context"
	"os"
	"time"

	"github.com/aleister1102/notegrab/internal/common/errorwrapper"
	"github.com/aleister1102/notegrab/internal/config"
	"github.com/aleister1102/notegrab/internal/extractor"
	"github.com/aleister1102/notegrab/internal/models"
	"github.com/aleister1102/notegrab/internal/urlhandler"
	"github.com/rs/zerolog"
)

// FailureFileHeader is the comment line heading the failure file
const FailureFileHeader = "# Failed URLs - you can retry these"

// Batch labels passed to observers
const (
	LabelDownload = "Download"
	LabelRetry    = "Retry"
)

// Settings locate the URL files and bound a run
type Settings struct {
	InputFile          string
	FailedFile         string
	BaseOrigin         string
	MaxConcurrent      int
	RetryMaxConcurrent int
	PreviewLimit       int
}

// NewSettings derives Settings from the loaded configuration
func NewSettings(cfg *config.GlobalConfig) Settings {
	return Settings{
		InputFile:          cfg.BulkConfig.InputFile,
		FailedFile:         cfg.BulkConfig.FailedFile,
		BaseOrigin:         cfg.ClientConfig.BaseOrigin,
		MaxConcurrent:      cfg.BulkConfig.MaxConcurrent,
		RetryMaxConcurrent: cfg.BulkConfig.RetryMaxConcurrent,
		PreviewLimit:       cfg.BulkConfig.PreviewLimit,
	}
}

// OptionsFromConfig maps client configuration onto extractor options
func OptionsFromConfig(cc config.ClientConfig) extractor.Options {
	opts := extractor.DefaultOptions()
	opts.RecordData = cc.RecordData
	opts.DownloadRecord = cc.DownloadRecord
	opts.AuthorArchive = cc.AuthorArchive
	opts.FolderMode = cc.FolderMode
	opts.Timeout = cc.GetTimeoutDuration()
	opts.MaxRetry = cc.MaxRetry
	opts.OutputDir = cc.OutputDir
	opts.DatabasePath = cc.DatabasePath
	opts.UserAgent = cc.UserAgent
	opts.Cookie = cc.Cookie
	opts.BaseOrigin = cc.BaseOrigin
	return opts
}

// BatchObserver is told when a batch starts and when its summary is ready
type BatchObserver interface {
	BatchStarted(label string, total int)
	BatchFinished(label string, summary Summary, elapsed time.Duration)
}

// Service wires loader, dispatcher and aggregator into the user-facing operations.
type Service struct {
	settings  Settings
	factory   ClientFactory
	reporter  Reporter
	observers []BatchObserver
	printer   *Printer
	logger    zerolog.Logger
}

// ServiceOption customizes a Service
type ServiceOption func(*Service)

// WithReporter sets the progress reporter
func WithReporter(r Reporter) ServiceOption {
	return func(s *Service) {
		if r != nil {
			s.reporter = r
		}
	}
}

// WithObservers adds batch observers
func WithObservers(observers ...BatchObserver) ServiceOption {
	return func(s *Service) {
		s.observers = append(s.observers, observers...)
	}
}

// NewService creates a Service
func NewService(settings Settings, factory ClientFactory, printer *Printer, logger zerolog.Logger, opts ...ServiceOption) *Service {
	if printer == nil {
		printer = NewPrinter(nil, DefaultFailureDisplayLimit)
	}
	if settings.MaxConcurrent == 0 {
		settings.MaxConcurrent = DefaultMaxConcurrent
	}
	if settings.RetryMaxConcurrent == 0 {
		settings.RetryMaxConcurrent = DefaultRetryMaxConcurrent
	}
	if settings.PreviewLimit == 0 {
		settings.PreviewLimit = DefaultPreviewLimit
	}

	s := &Service{
		settings: settings,
		factory:  factory,
		reporter: NopReporter{},
		printer:  printer,
		logger:   logger.With().Str("component", "BulkService").Logger(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Settings returns the service settings
func (s *Service) Settings() Settings {
	return s.settings
}

// LoadURLs reads and normalizes the URL file. It never fails: a missing or
// unreadable file is reported on the console and yields an empty list.
func (s *Service) LoadURLs(path string) []string {
	urls, err := urlhandler.ReadURLsFromFile(path, s.settings.BaseOrigin, s.logger)
	if err != nil {
		if urlhandler.IsNotFound(err) {
			s.printer.FileNotFound(path)
		} else {
			s.logger.Error().Err(err).Str("path", path).Msg("Failed to read URL file")
			s.printer.ReadError(path, err)
		}
		return []string{}
	}

	s.printer.Loaded(len(urls), path)
	return urls
}

// Preview prints the first limit URLs of path; limit <= 0 uses the configured preview limit.
func (s *Service) Preview(path string, limit int) []string {
	if limit <= 0 {
		limit = s.settings.PreviewLimit
	}
	urls := s.LoadURLs(path)
	if len(urls) == 0 {
		return urls
	}
	s.printer.Preview(urls, limit)
	return urls
}

// Download runs a bulk download of the URLs in path and returns the successful outcomes.
// maxConcurrent <= 0 uses the configured bound. The only error is failing to
// build the extraction client; per-URL failures end up in the failure file.
func (s *Service) Download(ctx context.Context, path string, opts extractor.Options, maxConcurrent int) ([]models.Outcome, error) {
	if path == "" {
		path = s.settings.InputFile
	}
	if maxConcurrent <= 0 {
		maxConcurrent = s.settings.MaxConcurrent
	}
	summary, err := s.runBatch(ctx, LabelDownload, path, opts, maxConcurrent)
	if err != nil {
		return nil, err
	}
	return summary.Succeeded, nil
}

// RetryFailed re-runs the pipeline on the failure file with the retry bound.
// A missing failure file is a warning, not an error.
func (s *Service) RetryFailed(ctx context.Context, opts extractor.Options) ([]models.Outcome, error) {
	path := s.settings.FailedFile
	if _, err := os.Stat(path); err != nil {
		s.printer.NothingToRetry(path)
		return []models.Outcome{}, nil
	}

	s.printer.RetryBanner(path)
	summary, err := s.runBatch(ctx, LabelRetry, path, opts, s.settings.RetryMaxConcurrent)
	if err != nil {
		return nil, err
	}
	return summary.Succeeded, nil
}

func (s *Service) runBatch(ctx context.Context, label, path string, opts extractor.Options, maxConcurrent int) (Summary, error) {
	urls := s.LoadURLs(path)
	if len(urls) == 0 {
		return Summarize(0, nil), nil
	}

	s.printer.StartBulk(len(urls))

	client, err := s.factory(opts)
	if err != nil {
		s.logger.Error().Err(err).Msg("Failed to create extraction client")
		return Summary{}, errorwrapper.WrapError(err, "failed to create extraction client")
	}
	defer func() {
		if closeErr := client.Close(); closeErr != nil {
			s.logger.Warn().Err(closeErr).Msg("Failed to close extraction client")
		}
	}()

	for _, o := range s.observers {
		o.BatchStarted(label, len(urls))
	}
	start := time.Now()

	dispatcher := NewDispatcher(maxConcurrent, s.logger)
	outcomes := dispatcher.Run(ctx, urls, client, MultiReporter{s.reporter, s.printer})

	summary := Summarize(len(urls), outcomes)
	elapsed := time.Since(start)

	s.printer.Summary(summary)
	if summary.HasFailures() {
		s.saveFailures(summary)
	}

	s.logger.Info().
		Str("batch", label).
		Int("total", summary.Total).
		Int("succeeded", len(summary.Succeeded)).
		Int("failed", len(summary.Failed)).
		Int("crashed", len(summary.Crashed)).
		Dur("elapsed", elapsed).
		Msg("Batch finished")

	for _, o := range s.observers {
		o.BatchFinished(label, summary, elapsed)
	}
	return summary, nil
}

func (s *Service) saveFailures(summary Summary) {
	path := s.settings.FailedFile
	if err := urlhandler.WriteURLsToFile(path, FailureFileHeader, summary.RetryURLs()); err != nil {
		s.logger.Error().Err(err).Str("path", path).Msg("Failed to write failure file")
		s.printer.FailuresSaveError(path, err)
		return
	}
	s.printer.FailuresSaved(path)
}
