package http

import (
	"context"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"sync/atomic"
	"testing"
	"time"
)

func newTestClient(t *testing.T, opts Options) *Client {
	t.Helper()
	if opts.RequestsPerSecond == 0 {
		opts.RequestsPerSecond = 1000
	}
	c := NewClient(opts)
	c.sleep = func(ctx context.Context, d time.Duration) error { return ctx.Err() }
	return c
}

func TestClient_RetriesOnTooManyRequests(t *testing.T) {
	tests := []struct {
		name         string
		failures     int32
		wantRequests int32
		wantErr      bool
	}{
		{name: "success first try", failures: 0, wantRequests: 1},
		{name: "four 429 then success", failures: 4, wantRequests: 5},
		{name: "always 429", failures: 100, wantRequests: 5, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var requests atomic.Int32
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				n := requests.Add(1)
				if n <= tt.failures {
					w.WriteHeader(http.StatusTooManyRequests)
					return
				}
				io.WriteString(w, "ok")
			}))
			defer srv.Close()

			c := newTestClient(t, Options{MaxAttempts: 5})
			body, err := c.GetString(context.Background(), srv.URL)

			if tt.wantErr {
				var rle *RateLimitExceededError
				if !errors.As(err, &rle) {
					t.Fatalf("expected RateLimitExceededError, got %v", err)
				}
				if rle.URL != srv.URL {
					t.Errorf("URL = %q, want %q", rle.URL, srv.URL)
				}
			} else {
				if err != nil {
					t.Fatalf("unexpected error: %v", err)
				}
				if body != "ok" {
					t.Errorf("body = %q, want %q", body, "ok")
				}
			}

			if got := requests.Load(); got != tt.wantRequests {
				t.Errorf("got %d requests, want %d", got, tt.wantRequests)
			}
		})
	}
}

func TestClient_OtherStatusFailsWithoutRetry(t *testing.T) {
	var requests atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		requests.Add(1)
		w.WriteHeader(http.StatusNotFound)
	}))
	defer srv.Close()

	c := newTestClient(t, Options{})
	_, err := c.Get(context.Background(), srv.URL+"/missing")

	var rfe *RequestFailedError
	if !errors.As(err, &rfe) {
		t.Fatalf("expected RequestFailedError, got %v", err)
	}
	if rfe.StatusCode != http.StatusNotFound {
		t.Errorf("StatusCode = %d, want %d", rfe.StatusCode, http.StatusNotFound)
	}
	if !strings.HasSuffix(rfe.URL, "/missing") {
		t.Errorf("URL = %q, want suffix /missing", rfe.URL)
	}
	if got := requests.Load(); got != 1 {
		t.Errorf("got %d requests, want 1", got)
	}
}

func TestClient_PostJSONReplaysBodyOnRetry(t *testing.T) {
	var requests atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		body, _ := io.ReadAll(r.Body)
		if string(body) != `{"fan_id":"1","older_than_token":"t"}` {
			t.Errorf("unexpected body %q", body)
		}
		if r.Header.Get("Content-Type") != "application/json" {
			t.Errorf("Content-Type = %q", r.Header.Get("Content-Type"))
		}
		if requests.Add(1) == 1 {
			w.WriteHeader(http.StatusTooManyRequests)
			return
		}
		io.WriteString(w, `{"ok":true}`)
	}))
	defer srv.Close()

	c := newTestClient(t, Options{})
	in := struct {
		FanID string `json:"fan_id"`
		Token string `json:"older_than_token"`
	}{"1", "t"}
	var out struct {
		OK bool `json:"ok"`
	}
	if err := c.PostJSON(context.Background(), srv.URL, in, &out); err != nil {
		t.Fatalf("PostJSON failed: %v", err)
	}
	if !out.OK {
		t.Error("expected decoded ok=true")
	}
	if got := requests.Load(); got != 2 {
		t.Errorf("got %d requests, want 2", got)
	}
}

func TestClient_PostJSONDecodeError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		io.WriteString(w, `{not json`)
	}))
	defer srv.Close()

	c := newTestClient(t, Options{})
	var out map[string]any
	err := c.PostJSON(context.Background(), srv.URL, map[string]string{}, &out)

	var de *DecodeError
	if !errors.As(err, &de) {
		t.Fatalf("expected DecodeError, got %v", err)
	}
	if string(de.Body) != `{not json` {
		t.Errorf("Body = %q", de.Body)
	}
}

func TestClient_SharedLimiterThrottles(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		io.WriteString(w, "ok")
	}))
	defer srv.Close()

	c := newTestClient(t, Options{RequestsPerSecond: 20})

	start := time.Now()
	for i := 0; i < 5; i++ {
		if _, err := c.Get(context.Background(), srv.URL); err != nil {
			t.Fatalf("request %d failed: %v", i, err)
		}
	}

	// Burst of one, then four more tokens at 50ms intervals.
	if elapsed := time.Since(start); elapsed < 150*time.Millisecond {
		t.Errorf("5 requests took %v, expected throttling to at least 150ms", elapsed)
	}
}

func TestClient_SendsUserAgentAndCookies(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if ua := r.Header.Get("User-Agent"); ua != "test-agent" {
			t.Errorf("User-Agent = %q, want test-agent", ua)
		}
		c, err := r.Cookie("identity")
		if err != nil || c.Value != "secret" {
			t.Errorf("identity cookie missing: %v", err)
		}
	}))
	defer srv.Close()

	jar := &staticJar{cookies: []*http.Cookie{{Name: "identity", Value: "secret"}}}
	c := newTestClient(t, Options{UserAgent: "test-agent", Jar: jar})
	if _, err := c.Get(context.Background(), srv.URL); err != nil {
		t.Fatalf("Get failed: %v", err)
	}
}

func TestProgressWriter(t *testing.T) {
	var sb strings.Builder
	var updates []int64
	pw := &ProgressWriter{
		Writer: &sb,
		Total:  10,
		OnUpdate: func(written, total int64) {
			updates = append(updates, written)
			if total != 10 {
				t.Errorf("total = %d, want 10", total)
			}
		},
	}

	io.Copy(pw, iotestChunks("hello", "world"))

	if sb.String() != "helloworld" {
		t.Errorf("written = %q", sb.String())
	}
	if len(updates) != 2 || updates[1] != 10 {
		t.Errorf("updates = %v, want [5 10]", updates)
	}
}

type staticJar struct {
	cookies []*http.Cookie
}

func (j *staticJar) SetCookies(_ *url.URL, _ []*http.Cookie) {}
func (j *staticJar) Cookies(_ *url.URL) []*http.Cookie   { return j.cookies }

// chunkReader returns one chunk per Read call.
type chunkReader struct {
	chunks []string
}

func (r *chunkReader) Read(p []byte) (int, error) {
	if len(r.chunks) == 0 {
		return 0, io.EOF
	}
	n := copy(p, r.chunks[0])
	r.chunks = r.chunks[1:]
	return n, nil
}

func iotestChunks(chunks ...string) io.Reader {
	return struct{ io.Reader }{&chunkReader{chunks: chunks}}
}
