package dto

import "github.com/handiism/bandcamp-sync/internal/model"

// ItemsPage is the data blob embedded in a download page.
type ItemsPage struct {
	DigitalItems []DigitalItem `json:"digital_items"`
}

// DigitalItem describes one release on a download page.
type DigitalItem struct {
	Title              string                         `json:"title"`
	Artist             string                         `json:"artist"`
	DownloadType       string                         `json:"download_type"`
	DownloadTypeStr    string                         `json:"download_type_str"`
	ItemType           string                         `json:"item_type"`
	ArtID              FlexString                     `json:"art_id"`
	PackageReleaseDate *BandcampTime                  `json:"package_release_date"`
	Downloads          map[string]DigitalItemDownload `json:"downloads"`
}

// DigitalItemDownload is one format offered for a DigitalItem.
type DigitalItemDownload struct {
	SizeMB       string `json:"size_mb"`
	Description  string `json:"description"`
	EncodingName string `json:"encoding_name"`
	URL          string `json:"url"`
}

// ToItem converts DigitalItem to a model.Item.
func (di *DigitalItem) ToItem(id, url string) *model.Item {
	item := &model.Item{
		ID:              id,
		URL:             url,
		Title:           di.Title,
		Artist:          di.Artist,
		DownloadType:    di.DownloadType,
		DownloadTypeStr: di.DownloadTypeStr,
		ItemType:        di.ItemType,
		ArtID:           di.ArtID.String(),
	}

	if di.PackageReleaseDate != nil {
		item.ReleaseDate = di.PackageReleaseDate.Time
	}

	if di.Downloads != nil {
		item.Downloads = make(map[string]model.Download, len(di.Downloads))
		for format, d := range di.Downloads {
			item.Downloads[format] = model.Download{
				URL:          d.URL,
				SizeMB:       d.SizeMB,
				Description:  d.Description,
				EncodingName: d.EncodingName,
			}
		}
	}

	return item
}
