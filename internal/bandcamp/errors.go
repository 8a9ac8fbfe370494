package bandcamp

import (
	"errors"
	"fmt"
)

// ErrAccessDenied is returned when the collection page was served but not as
// its owner: wrong cookies, wrong user name, or a page that does not exist.
var ErrAccessDenied = errors.New("collection page is not your own")

// ErrNotFound is returned when a download page lists no digital item.
var ErrNotFound = errors.New("no digital item found")

// errBlobNotFound is wrapped in a ParseError when the page has no
// #pagedata element or the element has no data-blob attribute.
var errBlobNotFound = errors.New("no pagedata data-blob on page")

// ParseError reports a page or API response that could not be understood.
//
// It is distinct from ErrNotFound: a ParseError means the response was
// corrupt or had an unexpected shape, never that the item is legitimately
// missing. Blob holds the raw payload so it can be logged in debug mode.
type ParseError struct {
	URL  string
	Blob string
	Err  error
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("failed parsing %s: %v", e.URL, e.Err)
}

func (e *ParseError) Unwrap() error { return e.Err }
