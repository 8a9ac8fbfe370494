package bandcamp

import (
	"encoding/json"
	"strings"

	"github.com/PuerkitoBio/goquery"
)

// pageData is the parsed HTML of a Bandcamp page carrying a data blob.
type pageData struct {
	blob  string
	title string
}

// extractPageData finds the element with id "pagedata" and returns its
// data-blob attribute, already HTML-unescaped, plus the page title.
//
// Bandcamp embeds page state like this:
//
//	<div id="pagedata" data-blob="{&quot;fan_data&quot;:...}"></div>
func extractPageData(url, html string) (*pageData, error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return nil, &ParseError{URL: url, Err: err}
	}

	blob, ok := doc.Find("#pagedata").First().Attr("data-blob")
	if !ok {
		return nil, &ParseError{URL: url, Err: errBlobNotFound}
	}

	return &pageData{
		blob:  blob,
		title: strings.TrimSpace(doc.Find("title").First().Text()),
	}, nil
}

// decodeBlob unmarshals the blob into v, turning JSON errors into a
// ParseError that keeps the raw blob.
func decodeBlob(url string, pd *pageData, v any) error {
	if err := json.Unmarshal([]byte(pd.blob), v); err != nil {
		return &ParseError{URL: url, Blob: pd.blob, Err: err}
	}
	return nil
}
