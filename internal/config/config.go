package config

import (
	"encoding/json"
	"os"
	"path/filepath"

	"github.com/aleister1102/notegrab/internal/common/errorwrapper"
	"github.com/rs/zerolog"
	"gopkg.in/yaml.v3"
)

const (
	// Client Defaults
	DefaultClientRecordData     = true
	DefaultClientDownloadRecord = true
	DefaultClientAuthorArchive  = true
	DefaultClientFolderMode     = true
	DefaultClientTimeoutSecs    = 15
	DefaultClientMaxRetry       = 3
	DefaultClientOutputDir      = "Download"
	DefaultClientDatabasePath   = "Download/notegrab.db"
	DefaultClientBaseOrigin     = "https://www.xiaohongshu.com"
	DefaultClientUserAgent      = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/120.0.0.0 Safari/537.36"

	// Bulk Defaults
	DefaultBulkInputFile           = "bulk_urls.txt"
	DefaultBulkFailedFile          = "failed_urls.txt"
	DefaultBulkMaxConcurrent       = 3
	DefaultBulkRetryMaxConcurrent  = 2
	DefaultBulkPreviewLimit        = 10
	DefaultBulkFailureDisplayLimit = 10
	MinBulkMaxConcurrent           = 1
	MaxBulkMaxConcurrent           = 5

	// Log Defaults
	DefaultLogLevel      = "info"
	DefaultLogFormat     = "console"
	DefaultLogFile       = ""
	DefaultMaxLogSizeMB  = 100
	DefaultMaxLogBackups = 3

	DefaultProgressDisplayInterval = 3

	// ConfigPathEnv overrides the config file location
	ConfigPathEnv = "NOTEGRAB_CONFIG_PATH"
)

type GlobalConfig struct {
	BulkConfig     BulkConfig     `json:"bulk_config,omitempty" yaml:"bulk_config,omitempty"`
	ClientConfig   ClientConfig   `json:"client_config,omitempty" yaml:"client_config,omitempty"`
	LogConfig      LogConfig      `json:"log_config,omitempty" yaml:"log_config,omitempty"`
	MetricsConfig  MetricsConfig  `json:"metrics_config,omitempty" yaml:"metrics_config,omitempty"`
	ProgressConfig ProgressConfig `json:"progress_config,omitempty" yaml:"progress_config,omitempty"`
}

func NewDefaultGlobalConfig() *GlobalConfig {
	return &GlobalConfig{
		BulkConfig:     NewDefaultBulkConfig(),
		ClientConfig:   NewDefaultClientConfig(),
		LogConfig:      NewDefaultLogConfig(),
		MetricsConfig:  NewDefaultMetricsConfig(),
		ProgressConfig: NewDefaultProgressConfig(),
	}
}

// LoadGlobalConfig loads the configuration from a file or default locations.
// It determines the config file path using GetConfigPath, supports both JSON and YAML formats.
// YAML is preferred if the file extension is .yaml or .yml.
// Values missing from the file keep their defaults.
func LoadGlobalConfig(providedPath string, logger zerolog.Logger) (*GlobalConfig, error) {
	cfg := NewDefaultGlobalConfig()

	if providedPath != "" && !fileExists(providedPath) {
		return nil, errorwrapper.NewValidationError("config_file", providedPath, "config file does not exist")
	}

	filePath := GetConfigPath(providedPath)
	if filePath == "" {
		logger.Debug().Msg("No config file found, using defaults")
		return cfg, nil
	}

	data, err := os.ReadFile(filePath)
	if err != nil {
		return nil, errorwrapper.WrapError(err, "failed to load config file content")
	}

	if err := parseConfigContent(data, filePath, cfg); err != nil {
		return nil, errorwrapper.WrapError(err, "failed to parse config content")
	}

	logger.Debug().Str("path", filePath).Msg("Loaded config file")
	return cfg, nil
}

// parseConfigContent parses the config content based on file extension
func parseConfigContent(data []byte, filePath string, cfg *GlobalConfig) error {
	ext := filepath.Ext(filePath)
	if isYAMLFile(ext) {
		return parseYAMLConfig(data, filePath, cfg)
	}
	return parseJSONConfig(data, filePath, cfg)
}

// isYAMLFile checks if the file extension indicates a YAML file
func isYAMLFile(ext string) bool {
	return ext == ".yaml" || ext == ".yml"
}

// parseYAMLConfig parses YAML configuration
func parseYAMLConfig(data []byte, filePath string, cfg *GlobalConfig) error {
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return errorwrapper.NewError("failed to unmarshal YAML from '%s': %w", filePath, err)
	}
	return nil
}

// parseJSONConfig parses JSON configuration
func parseJSONConfig(data []byte, filePath string, cfg *GlobalConfig) error {
	if err := json.Unmarshal(data, cfg); err != nil {
		return errorwrapper.NewError("failed to unmarshal JSON from '%s': %w", filePath, err)
	}
	return nil
}
