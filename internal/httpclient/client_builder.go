package httpclient

import (
	"time"

	"github.com/rs/zerolog"
)

// HTTPClientBuilder builds HTTP clients with fluent interface
type HTTPClientBuilder struct {
	config HTTPClientConfig
	logger zerolog.Logger
}

// NewHTTPClientBuilder creates a new HTTPClientBuilder with default configuration
func NewHTTPClientBuilder(logger zerolog.Logger) *HTTPClientBuilder {
	return &HTTPClientBuilder{
		config: DefaultHTTPClientConfig(),
		logger: logger,
	}
}

// WithTimeout sets the request timeout
func (b *HTTPClientBuilder) WithTimeout(timeout time.Duration) *HTTPClientBuilder {
	b.config.Timeout = timeout
	return b
}

// WithMaxRetries sets how many times a failed request is retried
func (b *HTTPClientBuilder) WithMaxRetries(retries int) *HTTPClientBuilder {
	b.config.MaxRetries = retries
	return b
}

// WithRetryWait sets the backoff bounds between retries
func (b *HTTPClientBuilder) WithRetryWait(min, max time.Duration) *HTTPClientBuilder {
	b.config.RetryWaitMin = min
	b.config.RetryWaitMax = max
	return b
}

// WithRetryStatusCodes replaces the statuses that trigger a retry.
// No codes means HTTPError.Retryable decides.
func (b *HTTPClientBuilder) WithRetryStatusCodes(codes ...int) *HTTPClientBuilder {
	b.config.RetryStatusCodes = codes
	return b
}

// WithFollowRedirects sets whether to follow redirects
func (b *HTTPClientBuilder) WithFollowRedirects(follow bool) *HTTPClientBuilder {
	b.config.FollowRedirects = follow
	return b
}

// WithUserAgent sets the User-Agent header
func (b *HTTPClientBuilder) WithUserAgent(userAgent string) *HTTPClientBuilder {
	if userAgent != "" {
		b.config.UserAgent = userAgent
	}
	return b
}

// WithCookie sets the raw Cookie header sent with every request
func (b *HTTPClientBuilder) WithCookie(cookie string) *HTTPClientBuilder {
	b.config.Cookie = cookie
	return b
}

// WithHeader adds a default header
func (b *HTTPClientBuilder) WithHeader(key, value string) *HTTPClientBuilder {
	if b.config.CustomHeaders == nil {
		b.config.CustomHeaders = map[string]string{}
	}
	b.config.CustomHeaders[key] = value
	return b
}

// WithMaxContentSize sets the maximum content size to fetch in bytes (0 for no limit)
func (b *HTTPClientBuilder) WithMaxContentSize(size int) *HTTPClientBuilder {
	b.config.MaxContentSize = size
	return b
}

// WithHTTP2 enables or disables HTTP/2 support
func (b *HTTPClientBuilder) WithHTTP2(enabled bool) *HTTPClientBuilder {
	b.config.EnableHTTP2 = enabled
	return b
}

// Build creates and returns a new HTTPClient
func (b *HTTPClientBuilder) Build() (*HTTPClient, error) {
	return NewHTTPClient(b.config, b.logger)
}
