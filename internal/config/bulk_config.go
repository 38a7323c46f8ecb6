package config

// BulkConfig configures a bulk download run
type BulkConfig struct {
	// InputFile lists post URLs, one per line
	InputFile string `json:"input_file,omitempty" yaml:"input_file,omitempty" validate:"required"`
	// FailedFile receives the URLs of failed posts and feeds the retry run
	FailedFile string `json:"failed_file,omitempty" yaml:"failed_file,omitempty" validate:"required"`

	MaxConcurrent       int `json:"max_concurrent,omitempty" yaml:"max_concurrent,omitempty" validate:"min=1,max=5"`
	RetryMaxConcurrent  int `json:"retry_max_concurrent,omitempty" yaml:"retry_max_concurrent,omitempty" validate:"min=1,max=5"`
	PreviewLimit        int `json:"preview_limit,omitempty" yaml:"preview_limit,omitempty" validate:"min=1"`
	FailureDisplayLimit int `json:"failure_display_limit,omitempty" yaml:"failure_display_limit,omitempty" validate:"min=0"`
}

// NewDefaultBulkConfig creates default bulk configuration
func NewDefaultBulkConfig() BulkConfig {
	return BulkConfig{
		InputFile:           DefaultBulkInputFile,
		FailedFile:          DefaultBulkFailedFile,
		MaxConcurrent:       DefaultBulkMaxConcurrent,
		RetryMaxConcurrent:  DefaultBulkRetryMaxConcurrent,
		PreviewLimit:        DefaultBulkPreviewLimit,
		FailureDisplayLimit: DefaultBulkFailureDisplayLimit,
	}
}

// MetricsConfig controls the Prometheus textfile written after each run
type MetricsConfig struct {
	// TextfilePath is empty when metrics export is disabled
	TextfilePath string `json:"textfile_path,omitempty" yaml:"textfile_path,omitempty"`
}

// NewDefaultMetricsConfig creates default metrics configuration
func NewDefaultMetricsConfig() MetricsConfig {
	return MetricsConfig{}
}
