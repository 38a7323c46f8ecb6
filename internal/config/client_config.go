package config

import "time"

// ClientConfig configures the post extraction client
type ClientConfig struct {
	// RecordData persists post metadata to the database
	RecordData bool `json:"record_data" yaml:"record_data"`
	// DownloadRecord tracks downloaded posts so their media is fetched once
	DownloadRecord bool `json:"download_record" yaml:"download_record"`
	// AuthorArchive groups downloads into one folder per author
	AuthorArchive bool `json:"author_archive" yaml:"author_archive"`
	// FolderMode gives each post its own folder
	FolderMode bool `json:"folder_mode" yaml:"folder_mode"`

	TimeoutSecs  int    `json:"timeout_secs,omitempty" yaml:"timeout_secs,omitempty" validate:"min=1,max=300"`
	MaxRetry     int    `json:"max_retry,omitempty" yaml:"max_retry,omitempty" validate:"min=0,max=10"`
	OutputDir    string `json:"output_dir,omitempty" yaml:"output_dir,omitempty" validate:"required"`
	DatabasePath string `json:"database_path,omitempty" yaml:"database_path,omitempty" validate:"required"`
	UserAgent    string `json:"user_agent,omitempty" yaml:"user_agent,omitempty"`
	Cookie       string `json:"cookie,omitempty" yaml:"cookie,omitempty"`
	BaseOrigin   string `json:"base_origin,omitempty" yaml:"base_origin,omitempty" validate:"required,origin"`
}

// NewDefaultClientConfig creates default client configuration
func NewDefaultClientConfig() ClientConfig {
	return ClientConfig{
		RecordData:     DefaultClientRecordData,
		DownloadRecord: DefaultClientDownloadRecord,
		AuthorArchive:  DefaultClientAuthorArchive,
		FolderMode:     DefaultClientFolderMode,
		TimeoutSecs:    DefaultClientTimeoutSecs,
		MaxRetry:       DefaultClientMaxRetry,
		OutputDir:      DefaultClientOutputDir,
		DatabasePath:   DefaultClientDatabasePath,
		UserAgent:      DefaultClientUserAgent,
		BaseOrigin:     DefaultClientBaseOrigin,
	}
}

// GetTimeoutDuration returns the network timeout as time.Duration
func (cc *ClientConfig) GetTimeoutDuration() time.Duration {
	return time.Duration(cc.TimeoutSecs) * time.Second
}
