package dto

// FanPage is the data blob embedded in a fan's collection page.
type FanPage struct {
	FanData        FanData        `json:"fan_data"`
	CollectionData CollectionData `json:"collection_data"`
	HiddenData     CollectionData `json:"hidden_data"`
}

// FanData identifies whose collection page was served.
type FanData struct {
	FanID FlexString `json:"fan_id"`

	// IsOwnPage is only true when the cookies belong to the page owner.
	IsOwnPage *bool `json:"is_own_page"`
}

// CollectionData is the first batch of one collection ("visible" or
// "hidden") together with what is needed to page through the rest.
type CollectionData struct {
	BatchSize      int               `json:"batch_size"`
	ItemCount      int               `json:"item_count"`
	LastToken      string            `json:"last_token"`
	RedownloadURLs map[string]string `json:"redownload_urls"`
}

// NeedsPagination reports whether the first batch is incomplete.
func (cd *CollectionData) NeedsPagination() bool {
	return cd.ItemCount > cd.BatchSize
}

// CollectionRequest is the body POSTed to the fancollection API.
type CollectionRequest struct {
	FanID          string `json:"fan_id"`
	OlderThanToken string `json:"older_than_token"`
}

// CollectionPage is one response from the fancollection API.
type CollectionPage struct {
	MoreAvailable  bool              `json:"more_available"`
	LastToken      string            `json:"last_token"`
	RedownloadURLs map[string]string `json:"redownload_urls"`
}
