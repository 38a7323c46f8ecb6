package datastore

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/aleister1102/notegrab/internal/common/errorwrapper"
	"github.com/aleister1102/notegrab/internal/models"
	"github.com/rs/zerolog"
	_ "modernc.org/sqlite"
)

// RecordStore persists post metadata and the set of posts whose media
// has already been downloaded.
type RecordStore struct {
	db     *sql.DB
	logger zerolog.Logger
	locks  *KeyMutexManager
}

// NewRecordStore opens (or creates) the SQLite database at dataSourceName
// and ensures the schema exists.
func NewRecordStore(dataSourceName string, logger zerolog.Logger) (*RecordStore, error) {
	storeLogger := logger.With().Str("component", "RecordStore").Logger()
	storeLogger.Debug().Str("db_path", dataSourceName).Msg("Initializing record database connection")

	dbDir := filepath.Dir(dataSourceName)
	if err := os.MkdirAll(dbDir, 0755); err != nil {
		storeLogger.Error().Err(err).Str("directory", dbDir).Msg("Failed to create record database directory")
		return nil, fmt.Errorf("failed to create record database directory %s: %w", dbDir, err)
	}

	dbInstance, err := sql.Open("sqlite", dataSourceName)
	if err != nil {
		storeLogger.Error().Err(err).Str("db_path", dataSourceName).Msg("Failed to open record database")
		return nil, fmt.Errorf("sql.Open failed for %s: %w", dataSourceName, err)
	}
	// SQLite allows a single writer at a time.
	dbInstance.SetMaxOpenConns(1)

	store := &RecordStore{
		db:     dbInstance,
		logger: storeLogger,
		locks:  NewKeyMutexManager(),
	}

	if err := store.InitSchema(); err != nil {
		_ = store.Close()
		return nil, fmt.Errorf("failed to initialize schema: %w", err)
	}
	storeLogger.Debug().Str("path", dataSourceName).Msg("Record database initialized")
	return store, nil
}

// Close closes the database connection.
func (s *RecordStore) Close() error {
	if s.db != nil {
		return s.db.Close()
	}
	return nil
}

// InitSchema creates the explore_data and download_record tables when missing.
func (s *RecordStore) InitSchema() error {
	query := `
	CREATE TABLE IF NOT EXISTS explore_data (
		post_key TEXT PRIMARY KEY,
		post_id TEXT,
		url TEXT NOT NULL,
		title TEXT,
		description TEXT,
		post_type TEXT,
		author_id TEXT,
		author_name TEXT,
		published_at DATETIME,
		tags TEXT,
		media_urls TEXT,
		download_paths TEXT,
		recorded_at DATETIME NOT NULL
	);
	CREATE TABLE IF NOT EXISTS download_record (
		post_key TEXT PRIMARY KEY,
		downloaded_at DATETIME NOT NULL
	);
	`
	if _, err := s.db.Exec(query); err != nil {
		s.logger.Error().Err(err).Msg("Failed to initialize schema")
		return err
	}
	return nil
}

// Key returns the storage key of post.
func (s *RecordStore) Key(post models.Post) string {
	return PostKey(post)
}

// Lock serializes work on a single post key and returns the unlock function.
func (s *RecordStore) Lock(key string) func() {
	mu := s.locks.GetMutex(key)
	mu.Lock()
	return mu.Unlock
}

// SavePost inserts or updates the metadata row of post. Download paths
// already stored are kept when post carries none.
func (s *RecordStore) SavePost(ctx context.Context, post models.Post) error {
	tags, err := json.Marshal(post.Tags)
	if err != nil {
		return errorwrapper.WrapError(err, "failed to encode tags")
	}
	media, err := json.Marshal(post.MediaURLs)
	if err != nil {
		return errorwrapper.WrapError(err, "failed to encode media urls")
	}
	var paths sql.NullString
	if len(post.DownloadPaths) > 0 {
		encoded, err := json.Marshal(post.DownloadPaths)
		if err != nil {
			return errorwrapper.WrapError(err, "failed to encode download paths")
		}
		paths = sql.NullString{String: string(encoded), Valid: true}
	}

	var publishedAt sql.NullTime
	if !post.PublishedAt.IsZero() {
		publishedAt = sql.NullTime{Time: post.PublishedAt, Valid: true}
	}

	query := `INSERT INTO explore_data
		(post_key, post_id, url, title, description, post_type, author_id, author_name, published_at, tags, media_urls, download_paths, recorded_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(post_key) DO UPDATE SET
			post_id = excluded.post_id,
			url = excluded.url,
			title = excluded.title,
			description = excluded.description,
			post_type = excluded.post_type,
			author_id = excluded.author_id,
			author_name = excluded.author_name,
			published_at = excluded.published_at,
			tags = excluded.tags,
			media_urls = excluded.media_urls,
			download_paths = COALESCE(excluded.download_paths, explore_data.download_paths),
			recorded_at = excluded.recorded_at`
	key := s.Key(post)
	_, err = s.db.ExecContext(ctx, query,
		key, post.ID, post.URL, post.Title, post.Description, string(post.Type),
		post.AuthorID, post.AuthorName, publishedAt, string(tags), string(media), paths, time.Now().UTC())
	if err != nil {
		s.logger.Error().Err(err).Str("post_key", key).Msg("Failed to save post")
		return fmt.Errorf("failed to save post %s: %w", key, err)
	}
	return nil
}

// GetPost loads the metadata row stored under key.
func (s *RecordStore) GetPost(ctx context.Context, key string) (*models.Post, error) {
	query := `SELECT post_id, url, title, description, post_type, author_id, author_name, published_at, tags, media_urls, download_paths
		FROM explore_data WHERE post_key = ?`

	var (
		post               models.Post
		postType           string
		publishedAt        sql.NullTime
		tags, media, paths sql.NullString
	)
	err := s.db.QueryRowContext(ctx, query, key).Scan(
		&post.ID, &post.URL, &post.Title, &post.Description, &postType,
		&post.AuthorID, &post.AuthorName, &publishedAt, &tags, &media, &paths)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, errorwrapper.WrapErrorf(errorwrapper.ErrNotFound, "post %s", key)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to query post %s: %w", key, err)
	}

	post.Type = models.PostType(postType)
	if publishedAt.Valid {
		post.PublishedAt = publishedAt.Time
	}
	for _, field := range []struct {
		raw  sql.NullString
		dest *[]string
	}{{tags, &post.Tags}, {media, &post.MediaURLs}, {paths, &post.DownloadPaths}} {
		if !field.raw.Valid || field.raw.String == "" || field.raw.String == "null" {
			continue
		}
		if err := json.Unmarshal([]byte(field.raw.String), field.dest); err != nil {
			return nil, errorwrapper.WrapError(err, "failed to decode stored post")
		}
	}
	return &post, nil
}

// IsDownloaded reports whether media of the post stored under key was already downloaded.
func (s *RecordStore) IsDownloaded(ctx context.Context, key string) (bool, error) {
	var exists int
	err := s.db.QueryRowContext(ctx, `SELECT 1 FROM download_record WHERE post_key = ?`, key).Scan(&exists)
	if errors.Is(err, sql.ErrNoRows) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("failed to query download record %s: %w", key, err)
	}
	return true, nil
}

// MarkDownloaded records that media of the post stored under key is on disk.
func (s *RecordStore) MarkDownloaded(ctx context.Context, key string) error {
	_, err := s.db.ExecContext(ctx,
		`INSERT OR REPLACE INTO download_record (post_key, downloaded_at) VALUES (?, ?)`,
		key, time.Now().UTC())
	if err != nil {
		s.logger.Error().Err(err).Str("post_key", key).Msg("Failed to mark post as downloaded")
		return fmt.Errorf("failed to insert download record %s: %w", key, err)
	}
	return nil
}
