package http

import "fmt"

// RequestFailedError is returned for any non-2xx status other than 429.
// Such responses are never retried.
type RequestFailedError struct {
	StatusCode int
	URL        string
}

func (e *RequestFailedError) Error() string {
	return fmt.Sprintf("request failed with status %d for url %s", e.StatusCode, e.URL)
}

// RateLimitExceededError is returned when Bandcamp kept answering 429 until
// the attempt budget ran out.
type RateLimitExceededError struct {
	URL      string
	Attempts int
}

func (e *RateLimitExceededError) Error() string {
	return fmt.Sprintf("reached maximum retries (%d attempts) for url %s", e.Attempts, e.URL)
}

// DecodeError reports a response body that could not be decoded as the
// expected JSON document.
type DecodeError struct {
	URL  string
	Body []byte
	Err  error
}

func (e *DecodeError) Error() string {
	return fmt.Sprintf("decode response from %s: %v", e.URL, e.Err)
}

func (e *DecodeError) Unwrap() error { return e.Err }
