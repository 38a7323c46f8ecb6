package httpclient

import (
	"context"
	"fmt"
	"io"
	"net"
	"net/http"
	"net/http/cookiejar"
	"time"

	"github.com/aleister1102/notegrab/internal/common/errorwrapper"
	"github.com/hashicorp/go-retryablehttp"
	"github.com/rs/zerolog"
	"golang.org/x/net/http2"
	"golang.org/x/net/publicsuffix"
)

// HTTPResponse is a fully read response
type HTTPResponse struct {
	StatusCode int
	Headers    http.Header
	Body       []byte
	// FinalURL is the URL after redirects, e.g. where a short link resolved to
	FinalURL string
}

// HTTPClient fetches pages with retries, a cookie jar and default headers.
type HTTPClient struct {
	client           *retryablehttp.Client
	transfer         *retryablehttp.Client
	config           HTTPClientConfig
	logger           zerolog.Logger
	retryStatusCodes map[int]bool
}

// NewHTTPClient creates a new HTTP client with the given configuration
func NewHTTPClient(config HTTPClientConfig, logger zerolog.Logger) (*HTTPClient, error) {
	clientLogger := logger.With().Str("component", "HTTPClient").Logger()

	transport := &http.Transport{
		Proxy:                 http.ProxyFromEnvironment,
		MaxIdleConns:          config.MaxIdleConns,
		MaxIdleConnsPerHost:   config.MaxIdleConnsPerHost,
		IdleConnTimeout:       config.IdleConnTimeout,
		TLSHandshakeTimeout:   10 * time.Second,
		ExpectContinueTimeout: 1 * time.Second,
		ResponseHeaderTimeout: config.Timeout,
		DialContext: (&net.Dialer{
			Timeout:   10 * time.Second,
			KeepAlive: 30 * time.Second,
		}).DialContext,
	}

	if config.EnableHTTP2 {
		if err := http2.ConfigureTransport(transport); err != nil {
			clientLogger.Warn().Err(err).Msg("Failed to configure HTTP/2, falling back to HTTP/1.1")
		}
	}

	jar, err := cookiejar.New(&cookiejar.Options{PublicSuffixList: publicsuffix.List})
	if err != nil {
		return nil, errorwrapper.WrapError(err, "failed to create cookie jar")
	}

	httpClient := &http.Client{
		Transport: transport,
		Timeout:   config.Timeout,
		Jar:       jar,
	}

	httpClient.CheckRedirect = redirectPolicy(config)

	// Transfers share the transport and jar but have no overall deadline;
	// only connection setup and response headers are bounded.
	transferClient := &http.Client{
		Transport:     transport,
		Jar:           jar,
		CheckRedirect: httpClient.CheckRedirect,
	}

	statusCodes := make(map[int]bool, len(config.RetryStatusCodes))
	for _, code := range config.RetryStatusCodes {
		statusCodes[code] = true
	}

	c := &HTTPClient{
		config:           config,
		logger:           clientLogger,
		retryStatusCodes: statusCodes,
	}

	c.client = c.newRetryClient(httpClient)
	c.transfer = c.newRetryClient(transferClient)

	clientLogger.Debug().
		Dur("timeout", config.Timeout).
		Int("max_retries", config.MaxRetries).
		Bool("follow_redirects", config.FollowRedirects).
		Bool("http2_enabled", config.EnableHTTP2).
		Bool("cookie_set", config.Cookie != "").
		Msg("HTTP client created")

	return c, nil
}

// Config returns the configuration the client was built with
func (c *HTTPClient) Config() HTTPClientConfig {
	return c.config
}

// StandardClient returns an *http.Client whose transport retries like Get does.
// Default headers are not applied to requests made through it.
func (c *HTTPClient) StandardClient() *http.Client {
	return c.client.StandardClient()
}

// TransferClient is like StandardClient but without the overall request
// timeout, so a large body may take as long as it needs while bytes keep
// arriving. Dialing and waiting for response headers are still bounded by
// the configured timeout. Cancel the request context to abort a transfer.
func (c *HTTPClient) TransferClient() *http.Client {
	return c.transfer.StandardClient()
}

func (c *HTTPClient) newRetryClient(httpClient *http.Client) *retryablehttp.Client {
	rc := retryablehttp.NewClient()
	rc.HTTPClient = httpClient
	rc.RetryMax = c.config.MaxRetries
	rc.RetryWaitMin = c.config.RetryWaitMin
	rc.RetryWaitMax = c.config.RetryWaitMax
	rc.Logger = zerologLeveled{logger: c.logger}
	rc.CheckRetry = c.checkRetry
	rc.ErrorHandler = retryablehttp.PassthroughErrorHandler
	return rc
}

func redirectPolicy(config HTTPClientConfig) func(req *http.Request, via []*http.Request) error {
	if !config.FollowRedirects {
		return func(req *http.Request, via []*http.Request) error {
			return http.ErrUseLastResponse
		}
	}
	if config.MaxRedirects > 0 {
		maxRedirects := config.MaxRedirects
		return func(req *http.Request, via []*http.Request) error {
			if len(via) >= maxRedirects {
				return fmt.Errorf("stopped after %d redirects", maxRedirects)
			}
			return nil
		}
	}
	return nil
}

// Get fetches url and reads the whole body, bounded by MaxContentSize.
// Non-2xx statuses are returned as *errorwrapper.HTTPError alongside the response.
func (c *HTTPClient) Get(ctx context.Context, url string, headers map[string]string) (*HTTPResponse, error) {
	req, err := retryablehttp.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, errorwrapper.WrapError(err, "failed to create HTTP request")
	}
	c.applyHeaders(req.Header, headers)

	resp, err := c.client.Do(req)
	if err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return nil, ctxErr
		}
		return nil, errorwrapper.NewNetworkError(url, "request failed", err)
	}
	defer resp.Body.Close()

	var reader io.Reader = resp.Body
	if c.config.MaxContentSize > 0 {
		reader = io.LimitReader(resp.Body, int64(c.config.MaxContentSize))
	}
	body, err := io.ReadAll(reader)
	if err != nil {
		return nil, errorwrapper.NewNetworkError(url, "failed to read response body", err)
	}

	result := &HTTPResponse{
		StatusCode: resp.StatusCode,
		Headers:    resp.Header,
		Body:       body,
		FinalURL:   url,
	}
	if resp.Request != nil && resp.Request.URL != nil {
		result.FinalURL = resp.Request.URL.String()
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		snippet := body
		if len(snippet) > 256 {
			snippet = snippet[:256]
		}
		c.logger.Debug().Str("url", url).Int("status_code", resp.StatusCode).Bytes("body", snippet).Msg("Received non-OK HTTP status")
		return result, errorwrapper.NewHTTPErrorWithURL(resp.StatusCode, "", url)
	}

	return result, nil
}

func (c *HTTPClient) applyHeaders(h http.Header, headers map[string]string) {
	for key, value := range c.config.CustomHeaders {
		h.Set(key, value)
	}
	for key, value := range headers {
		h.Set(key, value)
	}
	if c.config.UserAgent != "" {
		h.Set("User-Agent", c.config.UserAgent)
	}
	if c.config.Cookie != "" {
		h.Set("Cookie", c.config.Cookie)
	}
	if h.Get("Accept") == "" {
		h.Set("Accept", "*/*")
	}
}

// checkRetry retries transport errors and the configured status codes.
// Without configured codes it falls back to HTTPError.Retryable.
func (c *HTTPClient) checkRetry(ctx context.Context, resp *http.Response, err error) (bool, error) {
	if ctx.Err() != nil {
		return false, ctx.Err()
	}
	if err != nil {
		return retryablehttp.DefaultRetryPolicy(ctx, resp, err)
	}
	if len(c.retryStatusCodes) == 0 {
		return (&errorwrapper.HTTPError{StatusCode: resp.StatusCode}).Retryable(), nil
	}
	return c.retryStatusCodes[resp.StatusCode], nil
}
