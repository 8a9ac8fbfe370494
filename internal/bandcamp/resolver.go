package bandcamp

import (
	"context"
	"fmt"

	"github.com/handiism/bandcamp-sync/internal/bandcamp/dto"
	"github.com/handiism/bandcamp-sync/internal/model"
)

// Resolver turns a download page URL into a fully described Item.
type Resolver struct {
	client Requester
}

// NewResolver creates a new Resolver.
func NewResolver(client Requester) *Resolver {
	return &Resolver{client: client}
}

// Resolve fetches the download page at url and returns its first digital
// item, with ID and URL filled in.
//
// Returns:
//   - ErrNotFound if the page lists no digital item
//   - *ParseError if the blob is absent or not valid JSON
//   - the client's error if the request failed
func (r *Resolver) Resolve(ctx context.Context, id, url string) (*model.Item, error) {
	html, err := r.client.GetString(ctx, url)
	if err != nil {
		return nil, fmt.Errorf("fetch download page: %w", err)
	}

	item, err := ParseDownloadPage(url, html)
	if err != nil {
		return nil, err
	}

	item.ID = id
	return item, nil
}

// ParseDownloadPage extracts the first digital item from download page HTML.
func ParseDownloadPage(url, html string) (*model.Item, error) {
	pd, err := extractPageData(url, html)
	if err != nil {
		return nil, err
	}

	var page dto.ItemsPage
	if err := decodeBlob(url, pd, &page); err != nil {
		return nil, err
	}

	if len(page.DigitalItems) == 0 {
		return nil, ErrNotFound
	}

	return page.DigitalItems[0].ToItem("", url), nil
}
