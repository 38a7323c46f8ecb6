package extractor

import "time"

// Options configures a Client. The boolean flags mirror the bulk downloader's
// custom settings; the rest locate output and identify the client.
type Options struct {
	RecordData     bool
	DownloadRecord bool
	AuthorArchive  bool
	FolderMode     bool
	Timeout        time.Duration
	MaxRetry       int

	OutputDir    string
	DatabasePath string
	UserAgent    string
	Cookie       string
	BaseOrigin   string

	// MediaWorkers bounds parallel media transfers of one post
	MediaWorkers int
}

// DefaultOptions returns the settings used for bulk downloads
func DefaultOptions() Options {
	return Options{
		RecordData:     true,
		DownloadRecord: true,
		AuthorArchive:  true,
		FolderMode:     true,
		Timeout:        15 * time.Second,
		MaxRetry:       3,
		OutputDir:      "Download",
		DatabasePath:   "Download/records.db",
		BaseOrigin:     "https://www.xiaohongshu.com",
		MediaWorkers:   3,
	}
}

func (o Options) needsStore() bool {
	return o.RecordData || o.DownloadRecord
}
