package http

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"golang.org/x/time/rate"
)

// Options configures a Client.
type Options struct {
	// Jar supplies the authentication cookies for every request.
	// nil means requests are sent unauthenticated.
	Jar http.CookieJar

	// UserAgent is sent with every request.
	// Default: "bandcamp-sync"
	UserAgent string

	// RequestsPerSecond is the shared request quota.
	// Default: 3
	RequestsPerSecond float64

	// MaxAttempts bounds how many physical requests are sent for one call
	// while the remote keeps answering 429 Too Many Requests.
	// Default: 5
	MaxAttempts int

	// Cooldown is how long to sleep after a 429 before trying again.
	// Default: 10s
	Cooldown time.Duration

	// Timeout applies to page and API requests. Streamed downloads are not
	// subject to it.
	// Default: 60s
	Timeout time.Duration

	// Transport overrides the underlying round tripper. Mostly for tests.
	Transport http.RoundTripper
}

// DefaultOptions returns options matching Bandcamp's tolerance for scraping.
func DefaultOptions() Options {
	return Options{
		UserAgent:         "bandcamp-sync",
		RequestsPerSecond: 3,
		MaxAttempts:       5,
		Cooldown:          10 * time.Second,
		Timeout:           60 * time.Second,
	}
}

// Client issues HTTP requests throttled by a single token bucket and retried
// when Bandcamp answers with 429 Too Many Requests.
//
// One Client is meant to be shared by every goroutine of a run; the limiter
// inside it is the only cross-worker coordination for outbound requests.
//
// Example usage:
//
//	client := NewClient(Options{Jar: jar, RequestsPerSecond: 3, MaxAttempts: 5})
//
//	// Fetch HTML content
//	html, err := client.GetString(ctx, "https://bandcamp.com/someone")
//
//	// Stream a download
//	resp, err := client.Stream(ctx, downloadURL)
//	defer resp.Body.Close()
type Client struct {
	httpClient   *http.Client
	streamClient *http.Client
	limiter      *rate.Limiter
	userAgent    string
	maxAttempts  int
	cooldown     time.Duration

	// sleep is replaced in tests to avoid real cooldowns.
	sleep func(ctx context.Context, d time.Duration) error
}

// NewClient creates a new Client. Zero-valued options fall back to
// DefaultOptions.
func NewClient(opts Options) *Client {
	def := DefaultOptions()
	if opts.UserAgent == "" {
		opts.UserAgent = def.UserAgent
	}
	if opts.RequestsPerSecond <= 0 {
		opts.RequestsPerSecond = def.RequestsPerSecond
	}
	if opts.MaxAttempts <= 0 {
		opts.MaxAttempts = def.MaxAttempts
	}
	if opts.Cooldown <= 0 {
		opts.Cooldown = def.Cooldown
	}
	if opts.Timeout <= 0 {
		opts.Timeout = def.Timeout
	}

	transport := opts.Transport
	if transport == nil {
		transport = http.DefaultTransport
	}

	return &Client{
		httpClient: &http.Client{
			Jar:       opts.Jar,
			Transport: transport,
			Timeout:   opts.Timeout,
		},
		streamClient: &http.Client{
			Jar:       opts.Jar,
			Transport: transport,
		},
		limiter:     rate.NewLimiter(rate.Limit(opts.RequestsPerSecond), 1),
		userAgent:   opts.UserAgent,
		maxAttempts: opts.MaxAttempts,
		cooldown:    opts.Cooldown,
		sleep:       sleepContext,
	}
}

// ProgressWriter wraps a writer to track download progress.
//
// Example:
//
//	pw := &ProgressWriter{
//	    Writer: file,
//	    Total:  contentLength,
//	    OnUpdate: func(written, total int64) {
//	        fmt.Printf("%d / %d bytes\n", written, total)
//	    },
//	}
//	io.Copy(pw, response.Body)
type ProgressWriter struct {
	// Writer is the underlying writer to write data to.
	Writer io.Writer

	// Total is the expected total bytes (from Content-Length header).
	// -1 when unknown.
	Total int64

	// Written is the current number of bytes written.
	Written int64

	// OnUpdate is called after each Write with current progress.
	OnUpdate func(written, total int64)
}

// Write implements io.Writer, tracking progress and calling OnUpdate.
func (pw *ProgressWriter) Write(p []byte) (int, error) {
	n, err := pw.Writer.Write(p)
	pw.Written += int64(n)
	if pw.OnUpdate != nil {
		pw.OnUpdate(pw.Written, pw.Total)
	}
	return n, err
}

// Do sends one logical request and returns the first successful response.
//
// Every physical attempt first waits for a token from the shared limiter.
// A 429 response closes the body, sleeps the cooldown and tries again, up to
// MaxAttempts physical requests in total; after that a *RateLimitExceededError
// is returned. Any other non-2xx status returns a *RequestFailedError at once.
//
// The caller owns the returned body and must close it.
func (c *Client) Do(ctx context.Context, method, url string, body []byte, header http.Header) (*http.Response, error) {
	return c.do(ctx, c.httpClient, method, url, body, header)
}

func (c *Client) do(ctx context.Context, hc *http.Client, method, url string, body []byte, header http.Header) (*http.Response, error) {
	for attempt := 1; ; attempt++ {
		if err := c.limiter.Wait(ctx); err != nil {
			return nil, err
		}

		req, err := c.newRequest(ctx, method, url, body, header)
		if err != nil {
			return nil, err
		}

		resp, err := hc.Do(req)
		if err != nil {
			return nil, fmt.Errorf("%s %s: %w", method, url, err)
		}

		if resp.StatusCode >= 200 && resp.StatusCode < 300 {
			return resp, nil
		}

		drain(resp)

		if resp.StatusCode != http.StatusTooManyRequests {
			return nil, &RequestFailedError{StatusCode: resp.StatusCode, URL: url}
		}

		if attempt >= c.maxAttempts {
			return nil, &RateLimitExceededError{URL: url, Attempts: attempt}
		}

		if err := c.sleep(ctx, c.cooldown); err != nil {
			return nil, err
		}
	}
}

func (c *Client) newRequest(ctx context.Context, method, url string, body []byte, header http.Header) (*http.Request, error) {
	var r io.Reader
	if body != nil {
		r = bytes.NewReader(body)
	}

	req, err := http.NewRequestWithContext(ctx, method, url, r)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	for k, vs := range header {
		for _, v := range vs {
			req.Header.Add(k, v)
		}
	}
	req.Header.Set("User-Agent", c.userAgent)
	return req, nil
}

// Get performs a GET request and returns the response body as bytes.
func (c *Client) Get(ctx context.Context, url string) ([]byte, error) {
	resp, err := c.Do(ctx, http.MethodGet, url, nil, nil)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	return io.ReadAll(resp.Body)
}

// GetString performs a GET request and returns the response body as a string.
//
// This is a convenience wrapper around Get for fetching HTML pages.
func (c *Client) GetString(ctx context.Context, url string) (string, error) {
	body, err := c.Get(ctx, url)
	if err != nil {
		return "", err
	}
	return string(body), nil
}

// PostJSON encodes in as the request body, POSTs it to url and decodes the
// JSON response into out. Decoding failures are returned wrapped in
// *DecodeError so callers can tell corrupt payloads from transport errors.
func (c *Client) PostJSON(ctx context.Context, url string, in, out any) error {
	payload, err := json.Marshal(in)
	if err != nil {
		return fmt.Errorf("encode request body: %w", err)
	}

	header := http.Header{}
	header.Set("Content-Type", "application/json")

	resp, err := c.Do(ctx, http.MethodPost, url, payload, header)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("read response from %s: %w", url, err)
	}
	if err := json.Unmarshal(raw, out); err != nil {
		return &DecodeError{URL: url, Body: raw, Err: err}
	}
	return nil
}

// Stream performs a rate-limited GET without the client timeout, for large
// downloads. The caller must close the response body.
func (c *Client) Stream(ctx context.Context, url string) (*http.Response, error) {
	return c.do(ctx, c.streamClient, http.MethodGet, url, nil, nil)
}

// DownloadBytes downloads a small file into memory.
//
// Use this for cover art. For audio, use Stream and write directly to disk.
func (c *Client) DownloadBytes(ctx context.Context, url string) ([]byte, error) {
	return c.Get(ctx, url)
}

func drain(resp *http.Response) {
	io.Copy(io.Discard, io.LimitReader(resp.Body, 64<<10))
	resp.Body.Close()
}

func sleepContext(ctx context.Context, d time.Duration) error {
	t := time.NewTimer(d)
	defer t.Stop()

	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}
