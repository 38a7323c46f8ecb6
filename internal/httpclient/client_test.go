package httpclient

import (
	"context"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/aleister1102/notegrab/internal/common/errorwrapper"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/atomic"
)

func newTestClient(t *testing.T, retries int) *HTTPClient {
	t.Helper()
	client, err := NewHTTPClientBuilder(zerolog.Nop()).
		WithTimeout(5*time.Second).
		WithMaxRetries(retries).
		WithRetryWait(time.Millisecond, 5*time.Millisecond).
		WithHTTP2(false).
		WithCookie("web_session=abc").
		WithUserAgent("notegrab-test").
		Build()
	require.NoError(t, err)
	return client
}

func TestHTTPClientBuilder(t *testing.T) {
	client, err := NewHTTPClientBuilder(zerolog.Nop()).
		WithTimeout(15*time.Second).
		WithUserAgent("test-agent").
		WithFollowRedirects(false).
		WithMaxRetries(5).
		WithHeader("Referer", "https://www.xiaohongshu.com/").
		Build()

	require.NoError(t, err)
	cfg := client.Config()
	assert.Equal(t, 15*time.Second, cfg.Timeout)
	assert.Equal(t, "test-agent", cfg.UserAgent)
	assert.False(t, cfg.FollowRedirects)
	assert.Equal(t, 5, cfg.MaxRetries)
	assert.Equal(t, "https://www.xiaohongshu.com/", cfg.CustomHeaders["Referer"])
}

func TestHTTPClientBuilder_EmptyUserAgentKeepsDefault(t *testing.T) {
	client, err := NewHTTPClientBuilder(zerolog.Nop()).WithUserAgent("").Build()
	require.NoError(t, err)
	assert.Equal(t, DefaultUserAgent, client.Config().UserAgent)
}

func TestHTTPClient_GetSendsHeaders(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "notegrab-test", r.Header.Get("User-Agent"))
		assert.Equal(t, "web_session=abc", r.Header.Get("Cookie"))
		assert.Equal(t, "text/html", r.Header.Get("Accept"))
		_, _ = w.Write([]byte("<html>ok</html>"))
	}))
	defer server.Close()

	resp, err := newTestClient(t, 0).Get(context.Background(), server.URL, map[string]string{"Accept": "text/html"})
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "<html>ok</html>", string(resp.Body))
}

func TestHTTPClient_RetriesServerErrors(t *testing.T) {
	var attempts atomic.Int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if attempts.Inc() < 3 {
			w.WriteHeader(http.StatusServiceUnavailable)
			return
		}
		_, _ = w.Write([]byte("finally"))
	}))
	defer server.Close()

	resp, err := newTestClient(t, 3).Get(context.Background(), server.URL, nil)
	require.NoError(t, err)
	assert.Equal(t, "finally", string(resp.Body))
	assert.Equal(t, int32(3), attempts.Load())
}

func TestHTTPClient_ExhaustedRetriesReturnHTTPError(t *testing.T) {
	var attempts atomic.Int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		attempts.Inc()
		w.WriteHeader(http.StatusTooManyRequests)
	}))
	defer server.Close()

	resp, err := newTestClient(t, 2).Get(context.Background(), server.URL, nil)
	require.Error(t, err)
	require.NotNil(t, resp)

	var httpErr *errorwrapper.HTTPError
	require.True(t, errors.As(err, &httpErr))
	assert.Equal(t, http.StatusTooManyRequests, httpErr.StatusCode)
	assert.Equal(t, int32(3), attempts.Load())
}

func TestHTTPClient_NotFoundIsNotRetried(t *testing.T) {
	var attempts atomic.Int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		attempts.Inc()
		http.NotFound(w, r)
	}))
	defer server.Close()

	_, err := newTestClient(t, 3).Get(context.Background(), server.URL, nil)
	require.Error(t, err)
	assert.Equal(t, int32(1), attempts.Load())
}

func TestHTTPClient_FinalURLAfterRedirect(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/a/short", func(w http.ResponseWriter, r *http.Request) {
		http.Redirect(w, r, "/explore/66a1", http.StatusFound)
	})
	mux.HandleFunc("/explore/66a1", func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte("post"))
	})
	server := httptest.NewServer(mux)
	defer server.Close()

	resp, err := newTestClient(t, 0).Get(context.Background(), server.URL+"/a/short", nil)
	require.NoError(t, err)
	assert.Equal(t, server.URL+"/explore/66a1", resp.FinalURL)
}

func TestHTTPClient_CancelledContext(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte("late"))
	}))
	defer server.Close()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := newTestClient(t, 3).Get(ctx, server.URL, nil)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestHTTPClient_ContentSizeLimit(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte("0123456789"))
	}))
	defer server.Close()

	client, err := NewHTTPClientBuilder(zerolog.Nop()).WithMaxContentSize(4).WithHTTP2(false).Build()
	require.NoError(t, err)

	resp, err := client.Get(context.Background(), server.URL, nil)
	require.NoError(t, err)
	assert.Equal(t, "0123", string(resp.Body))
}

func TestHTTPClient_DefaultRetryPolicyWithoutStatusCodes(t *testing.T) {
	var attempts atomic.Int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if attempts.Inc() == 1 {
			w.WriteHeader(http.StatusBadGateway)
			return
		}
		w.WriteHeader(http.StatusForbidden)
	}))
	defer server.Close()

	client, err := NewHTTPClientBuilder(zerolog.Nop()).
		WithMaxRetries(3).
		WithRetryWait(time.Millisecond, 5*time.Millisecond).
		WithRetryStatusCodes().
		WithHTTP2(false).
		Build()
	require.NoError(t, err)

	_, err = client.Get(context.Background(), server.URL, nil)

	var httpErr *errorwrapper.HTTPError
	require.True(t, errors.As(err, &httpErr))
	assert.Equal(t, http.StatusForbidden, httpErr.StatusCode)
	assert.Equal(t, "Forbidden", httpErr.Message)
	assert.Equal(t, int32(2), attempts.Load())
}

func slowBodyServer(t *testing.T, chunks int, gap time.Duration) *httptest.Server {
	t.Helper()
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		flusher, ok := w.(http.Flusher)
		require.True(t, ok)
		for i := 0; i < chunks; i++ {
			_, _ = w.Write([]byte("xx"))
			flusher.Flush()
			time.Sleep(gap)
		}
	}))
	t.Cleanup(server.Close)
	return server
}

func TestHTTPClient_TransferClientOutlivesTimeout(t *testing.T) {
	server := slowBodyServer(t, 10, 80*time.Millisecond)
	client, err := NewHTTPClientBuilder(zerolog.Nop()).
		WithTimeout(300 * time.Millisecond).
		WithMaxRetries(0).
		WithHTTP2(false).
		Build()
	require.NoError(t, err)

	transfer := client.TransferClient()
	assert.Zero(t, transfer.Timeout)

	resp, err := transfer.Get(server.URL)
	require.NoError(t, err)
	defer resp.Body.Close()
	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	assert.Len(t, body, 20)

	resp, err = client.StandardClient().Get(server.URL)
	if err == nil {
		_, err = io.ReadAll(resp.Body)
		resp.Body.Close()
	}
	assert.Error(t, err, "the page client keeps its overall deadline")
}
