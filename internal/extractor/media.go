package extractor

import (
	"context"
	"fmt"
	"net/http"
	"path/filepath"
	"regexp"
	"strings"

	"github.com/aleister1102/notegrab/internal/common/errorwrapper"
	"github.com/aleister1102/notegrab/internal/models"
	"github.com/cavaliergopher/grab/v3"
	"github.com/rs/zerolog"
)

const maxNameRunes = 64

var forbiddenNameChars = regexp.MustCompile(`[\\/:*?"<>|\x00-\x1f]+`)

// MediaDownloader writes the media of a post below the output directory
type MediaDownloader struct {
	client *grab.Client
	opts   Options
	logger zerolog.Logger
}

// NewMediaDownloader creates a downloader sending requests through httpClient
func NewMediaDownloader(httpClient *http.Client, opts Options, logger zerolog.Logger) *MediaDownloader {
	c := grab.NewClient()
	if httpClient != nil {
		c.HTTPClient = httpClient
	}
	if opts.UserAgent != "" {
		c.UserAgent = opts.UserAgent
	}

	return &MediaDownloader{
		client: c,
		opts:   opts,
		logger: logger.With().Str("component", "MediaDownloader").Logger(),
	}
}

// PostDir returns the directory media of post is written to
func (d *MediaDownloader) PostDir(post models.Post) string {
	dir := d.opts.OutputDir
	if d.opts.AuthorArchive {
		author := sanitizeName(post.AuthorName)
		if author == "" {
			author = sanitizeName(post.AuthorID)
		}
		if author != "" {
			dir = filepath.Join(dir, author)
		}
	}
	if d.opts.FolderMode {
		dir = filepath.Join(dir, postBaseName(post))
	}
	return dir
}

// Destinations maps every media URL of post to its local file path
func (d *MediaDownloader) Destinations(post models.Post) []string {
	dir := d.PostDir(post)
	base := postBaseName(post)
	video := post.Type == models.PostTypeVideo

	paths := make([]string, 0, len(post.MediaURLs))
	for i, mediaURL := range post.MediaURLs {
		name := base
		if len(post.MediaURLs) > 1 {
			name = fmt.Sprintf("%s_%d", base, i+1)
		}
		paths = append(paths, filepath.Join(dir, name+mediaExtension(mediaURL, video)))
	}
	return paths
}

// Download fetches every media URL of post and returns the written paths in media order.
func (d *MediaDownloader) Download(ctx context.Context, post models.Post) ([]string, error) {
	if len(post.MediaURLs) == 0 {
		return nil, nil
	}

	destinations := d.Destinations(post)
	requests := make([]*grab.Request, 0, len(post.MediaURLs))
	for i, mediaURL := range post.MediaURLs {
		req, err := grab.NewRequest(destinations[i], mediaURL)
		if err != nil {
			return nil, errorwrapper.WrapErrorf(err, "invalid media url %s", mediaURL)
		}
		req.NoResume = true
		req.Tag = i
		if d.opts.BaseOrigin != "" {
			req.HTTPRequest.Header.Set("Referer", strings.TrimRight(d.opts.BaseOrigin, "/")+"/")
		}
		requests = append(requests, req.WithContext(ctx))
	}

	workers := d.opts.MediaWorkers
	if workers <= 0 {
		workers = 1
	}

	paths := make([]string, len(requests))
	var firstErr error
	for resp := range d.client.DoBatch(workers, requests...) {
		if err := resp.Err(); err != nil {
			d.logger.Warn().Err(err).Str("media_url", resp.Request.URL().String()).Msg("Media download failed")
			if firstErr == nil {
				firstErr = errorwrapper.NewNetworkError(resp.Request.URL().String(), "media download failed", err)
			}
			continue
		}
		paths[resp.Request.Tag.(int)] = resp.Filename
		d.logger.Debug().
			Str("file", resp.Filename).
			Int64("bytes", resp.BytesComplete()).
			Msg("Media downloaded")
	}

	if firstErr != nil {
		return nil, firstErr
	}
	return paths, nil
}

func postBaseName(post models.Post) string {
	name := sanitizeName(post.Title)
	if name == "" {
		name = sanitizeName(post.ID)
	}
	if name == "" {
		name = "untitled"
	}
	if post.ID != "" && name != post.ID {
		name = name + "_" + sanitizeName(post.ID)
	}
	return name
}

// sanitizeName strips characters that are not allowed in file names and bounds the length.
func sanitizeName(s string) string {
	s = forbiddenNameChars.ReplaceAllString(s, " ")
	s = strings.Join(strings.Fields(s), " ")
	s = strings.Trim(s, ". ")
	runes := []rune(s)
	if len(runes) > maxNameRunes {
		s = strings.TrimRight(string(runes[:maxNameRunes]), ". ")
	}
	return s
}
