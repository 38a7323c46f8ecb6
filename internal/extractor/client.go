package extractor

import (
	"context"
	"errors"
	"strings"

	"github.com/aleister1102/notegrab/internal/common/errorwrapper"
	"github.com/aleister1102/notegrab/internal/datastore"
	"github.com/aleister1102/notegrab/internal/httpclient"
	"github.com/aleister1102/notegrab/internal/models"
	"github.com/rs/zerolog"
	"go.uber.org/atomic"
)

// Client extracts posts from note pages and optionally downloads their media.
// It is safe for concurrent use.
type Client struct {
	opts       Options
	http       *httpclient.HTTPClient
	store      *datastore.RecordStore
	downloader *MediaDownloader
	logger     zerolog.Logger
	closed     atomic.Bool
}

// New builds a Client. The record database is opened only when RecordData
// or DownloadRecord is set.
func New(opts Options, logger zerolog.Logger) (*Client, error) {
	clientLogger := logger.With().Str("component", "Extractor").Logger()

	if opts.Timeout <= 0 {
		opts.Timeout = DefaultOptions().Timeout
	}
	if opts.MaxRetry < 0 {
		opts.MaxRetry = 0
	}
	if opts.MediaWorkers <= 0 {
		opts.MediaWorkers = DefaultOptions().MediaWorkers
	}

	builder := httpclient.NewHTTPClientBuilder(logger).
		WithTimeout(opts.Timeout).
		WithMaxRetries(opts.MaxRetry).
		WithUserAgent(opts.UserAgent).
		WithCookie(opts.Cookie)
	if opts.BaseOrigin != "" {
		builder = builder.WithHeader("Referer", strings.TrimRight(opts.BaseOrigin, "/")+"/")
	}
	httpClient, err := builder.Build()
	if err != nil {
		return nil, errorwrapper.WrapError(err, "failed to build HTTP client")
	}

	c := &Client{
		opts:       opts,
		http:       httpClient,
		downloader: NewMediaDownloader(httpClient.TransferClient(), opts, logger),
		logger:     clientLogger,
	}

	if opts.needsStore() {
		if opts.DatabasePath == "" {
			return nil, errorwrapper.NewValidationError("DatabasePath", opts.DatabasePath, "required when record_data or download_record is enabled")
		}
		store, err := datastore.NewRecordStore(opts.DatabasePath, logger)
		if err != nil {
			return nil, errorwrapper.WrapError(err, "failed to open record store")
		}
		c.store = store
	}

	clientLogger.Debug().
		Bool("record_data", opts.RecordData).
		Bool("download_record", opts.DownloadRecord).
		Bool("author_archive", opts.AuthorArchive).
		Bool("folder_mode", opts.FolderMode).
		Str("output_dir", opts.OutputDir).
		Msg("Extraction client ready")

	return c, nil
}

// Extract fetches the post at url. When download is set its media is written
// below the output directory. A page without note data yields an empty slice
// and no error.
func (c *Client) Extract(ctx context.Context, url string, download bool) ([]models.Post, error) {
	if c.closed.Load() {
		return nil, errorwrapper.ErrClosed
	}

	logger := c.logger.With().Str("url", url).Logger()

	resp, err := c.http.Get(ctx, url, map[string]string{
		"Accept": "text/html,application/xhtml+xml,application/xml;q=0.9,*/*;q=0.8",
	})
	if err != nil {
		logger.Debug().Err(err).Msg("Page fetch failed")
		return nil, err
	}

	post, err := ParsePage(resp.Body, resp.FinalURL)
	if errors.Is(err, ErrNoPostData) {
		logger.Debug().Msg("No post data on page")
		return []models.Post{}, nil
	}
	if err != nil {
		return nil, errorwrapper.WrapErrorf(err, "failed to parse %s", url)
	}
	post.URL = url

	if download {
		if err := c.download(ctx, post, logger); err != nil {
			return nil, err
		}
	}

	if c.opts.RecordData && c.store != nil {
		if err := c.store.SavePost(ctx, *post); err != nil {
			return nil, err
		}
	}

	logger.Debug().Str("post_id", post.ID).Int("media", len(post.MediaURLs)).Msg("Post extracted")
	return []models.Post{*post}, nil
}

func (c *Client) download(ctx context.Context, post *models.Post, logger zerolog.Logger) error {
	key := datastore.PostKey(*post)

	if c.opts.DownloadRecord && c.store != nil {
		unlock := c.store.Lock(key)
		defer unlock()

		done, err := c.store.IsDownloaded(ctx, key)
		if err != nil {
			return err
		}
		if done {
			logger.Info().Str("post_id", post.ID).Msg("Media already downloaded, skipping")
			return c.loadStoredPaths(ctx, key, post)
		}
	}

	paths, err := c.downloader.Download(ctx, *post)
	if err != nil {
		return err
	}
	post.DownloadPaths = paths

	if c.opts.DownloadRecord && c.store != nil && len(paths) > 0 {
		return c.store.MarkDownloaded(ctx, key)
	}
	return nil
}

// loadStoredPaths copies the paths recorded by an earlier download onto post.
// Without a metadata row the post is left as is.
func (c *Client) loadStoredPaths(ctx context.Context, key string, post *models.Post) error {
	stored, err := c.store.GetPost(ctx, key)
	if errors.Is(err, errorwrapper.ErrNotFound) {
		return nil
	}
	if err != nil {
		return err
	}
	post.DownloadPaths = stored.DownloadPaths
	return nil
}

// Close releases the record database. Extract fails with ErrClosed afterwards.
func (c *Client) Close() error {
	if !c.closed.CompareAndSwap(false, true) {
		return nil
	}
	if c.store != nil {
		return c.store.Close()
	}
	return nil
}
