package bandcamp

import (
	"context"
	"errors"
	"fmt"
	"maps"
	"strings"

	"github.com/handiism/bandcamp-sync/internal/bandcamp/dto"
	bchttp "github.com/handiism/bandcamp-sync/internal/http"
)

// DefaultBaseURL is where fan pages and the collection API live.
const DefaultBaseURL = "https://bandcamp.com"

// Collection kinds understood by the fancollection API.
const (
	KindCollection = "collection_items"
	KindHidden     = "hidden_items"
)

// Requester is the subset of the HTTP client the scrapers need. It is
// satisfied by *http.Client from this module.
type Requester interface {
	GetString(ctx context.Context, url string) (string, error)
	PostJSON(ctx context.Context, url string, in, out any) error
}

// CollectionOptions configures a Collection fetcher.
type CollectionOptions struct {
	// BaseURL overrides DefaultBaseURL. Mostly for tests.
	BaseURL string

	// IncludeHidden also collects items the fan hid from their public
	// collection. Hidden items are skipped entirely by default.
	IncludeHidden bool

	// OnPage is called after every pagination request with the collection
	// kind and the number of items the page carried. Optional.
	OnPage func(kind string, items int)
}

// CollectionResult is the full set of purchased items of a fan.
type CollectionResult struct {
	// Items maps item ID to its download page URL.
	Items map[string]string

	// Title is the collection page's <title>.
	Title string

	// FanID is Bandcamp's numeric ID of the fan.
	FanID string
}

// Collection discovers every item in a fan's collection.
//
// The fan page embeds the first batch of items; the rest is fetched through
// Bandcamp's paginated fancollection API.
//
// Example usage:
//
//	c := NewCollection(client, CollectionOptions{})
//	res, err := c.Fetch(ctx, "someone")
//	if errors.Is(err, ErrAccessDenied) {
//	    log.Fatal("check your cookies")
//	}
//	for id, url := range res.Items {
//	    fmt.Println(id, url)
//	}
type Collection struct {
	client Requester
	opts   CollectionOptions
}

// NewCollection creates a new Collection fetcher.
func NewCollection(client Requester, opts CollectionOptions) *Collection {
	if opts.BaseURL == "" {
		opts.BaseURL = DefaultBaseURL
	}
	opts.BaseURL = strings.TrimRight(opts.BaseURL, "/")
	return &Collection{client: client, opts: opts}
}

// Fetch assembles the complete ID→URL map of identity's collection.
//
// Authentication is verified through the page itself: if Bandcamp does not
// mark it as the caller's own page, ErrAccessDenied is returned. Any error
// while paginating aborts the fetch; a partial collection is never
// returned.
//
// Later batches overwrite earlier ones for duplicate IDs.
func (c *Collection) Fetch(ctx context.Context, identity string) (*CollectionResult, error) {
	fanPage, title, err := c.fetchFanPage(ctx, identity)
	if err != nil {
		return nil, err
	}

	if fanPage.FanData.IsOwnPage == nil || !*fanPage.FanData.IsOwnPage {
		return nil, fmt.Errorf("%w: scraping %q (check your cookies, or your spelling)", ErrAccessDenied, identity)
	}

	fanID := fanPage.FanData.FanID.String()
	items := make(map[string]string)
	maps.Copy(items, fanPage.CollectionData.RedownloadURLs)

	if fanPage.CollectionData.NeedsPagination() {
		rest, err := c.paginate(ctx, fanID, KindCollection, fanPage.CollectionData.LastToken)
		if err != nil {
			return nil, err
		}
		maps.Copy(items, rest)
	}

	if c.opts.IncludeHidden {
		maps.Copy(items, fanPage.HiddenData.RedownloadURLs)

		if fanPage.HiddenData.NeedsPagination() {
			rest, err := c.paginate(ctx, fanID, KindHidden, fanPage.HiddenData.LastToken)
			if err != nil {
				return nil, err
			}
			maps.Copy(items, rest)
		}
	}

	return &CollectionResult{
		Items: items,
		Title: title,
		FanID: fanID,
	}, nil
}

func (c *Collection) fanPageURL(identity string) string {
	return c.opts.BaseURL + "/" + identity
}

func (c *Collection) fetchFanPage(ctx context.Context, identity string) (*dto.FanPage, string, error) {
	url := c.fanPageURL(identity)

	html, err := c.client.GetString(ctx, url)
	if err != nil {
		return nil, "", fmt.Errorf("fetch collection page: %w", err)
	}

	pd, err := extractPageData(url, html)
	if err != nil {
		return nil, "", err
	}

	var fanPage dto.FanPage
	if err := decodeBlob(url, pd, &fanPage); err != nil {
		return nil, "", err
	}
	return &fanPage, pd.title, nil
}

// paginate follows continuation tokens for one collection kind until the
// API reports nothing more is available. Tokens are followed strictly in
// order since each depends on the previous response.
//
// There is no page cap: a server that never stops setting more_available
// keeps this looping.
func (c *Collection) paginate(ctx context.Context, fanID, kind, token string) (map[string]string, error) {
	url := fmt.Sprintf("%s/api/fancollection/1/%s", c.opts.BaseURL, kind)
	items := make(map[string]string)

	for more := true; more; {
		var page dto.CollectionPage
		body := dto.CollectionRequest{FanID: fanID, OlderThanToken: token}

		if err := c.client.PostJSON(ctx, url, body, &page); err != nil {
			var de *bchttp.DecodeError
			if errors.As(err, &de) {
				return nil, &ParseError{URL: url, Blob: string(de.Body), Err: de.Err}
			}
			return nil, fmt.Errorf("paginate %s: %w", kind, err)
		}

		maps.Copy(items, page.RedownloadURLs)
		if c.opts.OnPage != nil {
			c.opts.OnPage(kind, len(page.RedownloadURLs))
		}

		more = page.MoreAvailable
		token = page.LastToken
	}

	return items, nil
}
