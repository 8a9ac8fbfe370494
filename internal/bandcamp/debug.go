package bandcamp

import (
	"context"
	"encoding/json"
	"fmt"
)

const redacted = "[redacted by bandcamp-sync]"

// redactedFields lists blob fields that would leak download links or
// purchase history when a dump is shared.
var redactedFields = map[string][]string{
	"collection_data": {"redownload_urls", "sequence", "pending_sequence"},
	"hidden_data":     {"sequence", "pending_sequence"},
}

// DebugCollection returns the collection page's data blob as indented JSON,
// with download links and sequences redacted so it can be attached to bug
// reports. Unless full is set, only fan_data, collection_data and
// hidden_data are kept.
func (c *Collection) DebugCollection(ctx context.Context, identity string, full bool) ([]byte, error) {
	url := c.fanPageURL(identity)

	html, err := c.client.GetString(ctx, url)
	if err != nil {
		return nil, fmt.Errorf("fetch collection page: %w", err)
	}

	pd, err := extractPageData(url, html)
	if err != nil {
		return nil, err
	}

	var blob map[string]any
	if err := decodeBlob(url, pd, &blob); err != nil {
		return nil, err
	}

	for section, fields := range redactedFields {
		// Absent or non-object sections are left as they are.
		m, ok := blob[section].(map[string]any)
		if !ok {
			continue
		}
		for _, f := range fields {
			m[f] = redacted
		}
	}

	if !full {
		blob = map[string]any{
			"collection_data": blob["collection_data"],
			"fan_data":        blob["fan_data"],
			"hidden_data":     blob["hidden_data"],
		}
	}

	return json.MarshalIndent(blob, "", "  ")
}
