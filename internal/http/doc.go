// Package http provides the rate-limited, retrying HTTP client used for every
// request to Bandcamp.
//
// The Client in this package handles:
//   - A shared token bucket (golang.org/x/time/rate) throttling all callers
//   - Bounded retry with a fixed cooldown on 429 Too Many Requests
//   - Cookie-based authentication configured once at construction
//   - Streamed downloads with progress tracking
//
// # Basic Usage
//
//	client := http.NewClient(http.Options{Jar: jar})
//
//	// Fetch HTML page
//	html, err := client.GetString(ctx, "https://bandcamp.com/someone")
//
//	// POST JSON and decode the reply
//	var page collectionPage
//	err = client.PostJSON(ctx, apiURL, body, &page)
//
// # Errors
//
// Non-2xx statuses surface as *RequestFailedError, exhausted 429 retries as
// *RateLimitExceededError. Use errors.As to inspect them.
//
// # Progress Tracking
//
// The ProgressWriter type can be used to wrap any io.Writer for progress tracking:
//
//	pw := &http.ProgressWriter{
//	    Writer:   file,
//	    Total:    contentLength,
//	    OnUpdate: func(written, total int64) { /* update UI */ },
//	}
package http
