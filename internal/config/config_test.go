package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/aleister1102/notegrab/internal/common/errorwrapper"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewDefaultGlobalConfig(t *testing.T) {
	cfg := NewDefaultGlobalConfig()

	require.NotNil(t, cfg)
	assert.Equal(t, "bulk_urls.txt", cfg.BulkConfig.InputFile)
	assert.Equal(t, "failed_urls.txt", cfg.BulkConfig.FailedFile)
	assert.Equal(t, 3, cfg.BulkConfig.MaxConcurrent)
	assert.Equal(t, 2, cfg.BulkConfig.RetryMaxConcurrent)
	assert.Equal(t, 15, cfg.ClientConfig.TimeoutSecs)
	assert.Equal(t, 3, cfg.ClientConfig.MaxRetry)
	assert.True(t, cfg.ClientConfig.RecordData)
	assert.True(t, cfg.ClientConfig.DownloadRecord)
	assert.True(t, cfg.ClientConfig.AuthorArchive)
	assert.True(t, cfg.ClientConfig.FolderMode)
	assert.Equal(t, "https://www.xiaohongshu.com", cfg.ClientConfig.BaseOrigin)

	assert.NoError(t, ValidateConfig(cfg))
}

func TestLoadGlobalConfig_NonExistentFile(t *testing.T) {
	cfg, err := LoadGlobalConfig("/nonexistent/config.yaml", zerolog.Nop())

	assert.Error(t, err)
	assert.Nil(t, cfg)
	assert.Contains(t, err.Error(), "config file does not exist")
}

func TestLoadGlobalConfig_YAMLFile(t *testing.T) {
	configFile := filepath.Join(t.TempDir(), "config.yaml")
	content := `
bulk_config:
  input_file: posts.txt
  max_concurrent: 5
client_config:
  record_data: false
  timeout_secs: 30
  output_dir: out
  database_path: out/records.db
  base_origin: https://www.xiaohongshu.com
log_config:
  log_level: debug
  log_format: json
`
	require.NoError(t, os.WriteFile(configFile, []byte(content), 0644))

	cfg, err := LoadGlobalConfig(configFile, zerolog.Nop())
	require.NoError(t, err)

	assert.Equal(t, "posts.txt", cfg.BulkConfig.InputFile)
	assert.Equal(t, 5, cfg.BulkConfig.MaxConcurrent)
	assert.Equal(t, "failed_urls.txt", cfg.BulkConfig.FailedFile, "unset values keep defaults")
	assert.False(t, cfg.ClientConfig.RecordData)
	assert.True(t, cfg.ClientConfig.FolderMode)
	assert.Equal(t, 30, cfg.ClientConfig.TimeoutSecs)
	assert.Equal(t, "out", cfg.ClientConfig.OutputDir)
	assert.Equal(t, "debug", cfg.LogConfig.LogLevel)
	assert.Equal(t, "json", cfg.LogConfig.LogFormat)
	assert.NoError(t, ValidateConfig(cfg))
}

func TestLoadGlobalConfig_JSONFile(t *testing.T) {
	configFile := filepath.Join(t.TempDir(), "config.json")
	content := `{"bulk_config": {"retry_max_concurrent": 1}, "metrics_config": {"textfile_path": "metrics.prom"}}`
	require.NoError(t, os.WriteFile(configFile, []byte(content), 0644))

	cfg, err := LoadGlobalConfig(configFile, zerolog.Nop())
	require.NoError(t, err)

	assert.Equal(t, 1, cfg.BulkConfig.RetryMaxConcurrent)
	assert.Equal(t, "metrics.prom", cfg.MetricsConfig.TextfilePath)
}

func TestLoadGlobalConfig_InvalidYAML(t *testing.T) {
	configFile := filepath.Join(t.TempDir(), "config.yml")
	require.NoError(t, os.WriteFile(configFile, []byte("bulk_config: [unterminated"), 0644))

	cfg, err := LoadGlobalConfig(configFile, zerolog.Nop())
	assert.Error(t, err)
	assert.Nil(t, cfg)
	assert.Contains(t, err.Error(), "failed to parse config content")
}

func TestGetConfigPath_EnvVariable(t *testing.T) {
	configFile := filepath.Join(t.TempDir(), "from-env.yaml")
	require.NoError(t, os.WriteFile(configFile, []byte("{}"), 0644))
	t.Setenv(ConfigPathEnv, configFile)

	assert.Equal(t, configFile, GetConfigPath(""))
}

func TestGetConfigPath_FlagWins(t *testing.T) {
	dir := t.TempDir()
	flagFile := filepath.Join(dir, "flag.yaml")
	envFile := filepath.Join(dir, "env.yaml")
	require.NoError(t, os.WriteFile(flagFile, []byte("{}"), 0644))
	require.NoError(t, os.WriteFile(envFile, []byte("{}"), 0644))
	t.Setenv(ConfigPathEnv, envFile)

	assert.Equal(t, flagFile, GetConfigPath(flagFile))
}

func TestValidateConfig(t *testing.T) {
	tests := []struct {
		name      string
		mutate    func(cfg *GlobalConfig)
		wantErr   bool
		errSubstr string
	}{
		{name: "defaults", mutate: func(cfg *GlobalConfig) {}},
		{
			name:      "concurrency above bound",
			mutate:    func(cfg *GlobalConfig) { cfg.BulkConfig.MaxConcurrent = 6 },
			wantErr:   true,
			errSubstr: "BulkConfig.MaxConcurrent",
		},
		{
			name:      "retry concurrency zero",
			mutate:    func(cfg *GlobalConfig) { cfg.BulkConfig.RetryMaxConcurrent = 0 },
			wantErr:   true,
			errSubstr: "RetryMaxConcurrent",
		},
		{
			name:      "bad log level",
			mutate:    func(cfg *GlobalConfig) { cfg.LogConfig.LogLevel = "verbose" },
			wantErr:   true,
			errSubstr: "loglevel",
		},
		{
			name:      "bad log format",
			mutate:    func(cfg *GlobalConfig) { cfg.LogConfig.LogFormat = "xml" },
			wantErr:   true,
			errSubstr: "logformat",
		},
		{
			name:      "origin with path",
			mutate:    func(cfg *GlobalConfig) { cfg.ClientConfig.BaseOrigin = "https://www.xiaohongshu.com/explore" },
			wantErr:   true,
			errSubstr: "origin",
		},
		{
			name:      "negative retries",
			mutate:    func(cfg *GlobalConfig) { cfg.ClientConfig.MaxRetry = -1 },
			wantErr:   true,
			errSubstr: "MaxRetry",
		},
		{
			name:      "missing input file",
			mutate:    func(cfg *GlobalConfig) { cfg.BulkConfig.InputFile = "" },
			wantErr:   true,
			errSubstr: "InputFile",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := NewDefaultGlobalConfig()
			tt.mutate(cfg)

			err := ValidateConfig(cfg)
			if !tt.wantErr {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.ErrorIs(t, err, errorwrapper.ErrInvalidConfiguration)
			assert.Contains(t, err.Error(), tt.errSubstr)
		})
	}
}

func TestValidateConfig_Nil(t *testing.T) {
	assert.ErrorIs(t, ValidateConfig(nil), errorwrapper.ErrInvalidInput)
}

func TestClientConfig_GetTimeoutDuration(t *testing.T) {
	cc := NewDefaultClientConfig()
	assert.Equal(t, "15s", cc.GetTimeoutDuration().String())
}
