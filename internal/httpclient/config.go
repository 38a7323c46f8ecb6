package httpclient

import "time"

// DefaultUserAgent is sent when no user agent is configured
const DefaultUserAgent = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/126.0.0.0 Safari/537.36"

// HTTPClientConfig holds configuration for the page client
type HTTPClientConfig struct {
	Timeout             time.Duration     `json:"timeout"`
	MaxRetries          int               `json:"max_retries"`
	RetryWaitMin        time.Duration     `json:"retry_wait_min"`
	RetryWaitMax        time.Duration     `json:"retry_wait_max"`
	RetryStatusCodes    []int             `json:"retry_status_codes"`
	FollowRedirects     bool              `json:"follow_redirects"`
	MaxRedirects        int               `json:"max_redirects"`
	UserAgent           string            `json:"user_agent"`
	Cookie              string            `json:"cookie"`
	CustomHeaders       map[string]string `json:"custom_headers"`
	MaxContentSize      int               `json:"max_content_size"`
	EnableHTTP2         bool              `json:"enable_http2"`
	MaxIdleConns        int               `json:"max_idle_conns"`
	MaxIdleConnsPerHost int               `json:"max_idle_conns_per_host"`
	IdleConnTimeout     time.Duration     `json:"idle_conn_timeout"`
}

// DefaultHTTPClientConfig returns the defaults used for post pages
func DefaultHTTPClientConfig() HTTPClientConfig {
	return HTTPClientConfig{
		Timeout:             15 * time.Second,
		MaxRetries:          3,
		RetryWaitMin:        500 * time.Millisecond,
		RetryWaitMax:        5 * time.Second,
		RetryStatusCodes:    []int{429, 500, 502, 503, 504},
		FollowRedirects:     true,
		MaxRedirects:        10,
		UserAgent:           DefaultUserAgent,
		CustomHeaders:       map[string]string{},
		MaxContentSize:      10 * 1024 * 1024,
		EnableHTTP2:         true,
		MaxIdleConns:        50,
		MaxIdleConnsPerHost: 10,
		IdleConnTimeout:     90 * time.Second,
	}
}
