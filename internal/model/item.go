package model

import (
	"fmt"
	"path/filepath"
	"strconv"
	"time"
)

// Item represents one purchased release in a Bandcamp collection.
//
// The collection listing only yields ID and URL; everything else is filled
// in when the item's download page is resolved. A resolved Item is not
// modified afterwards.
//
// Example:
//
//	item := &Item{ID: "a123", Artist: "AC/DC", Title: "Back In Black"}
//	dir := item.DestinationPath("/music")
//	// dir = "/music/AC∕DC/Back In Black (0000)"
type Item struct {
	// ID is the opaque identifier Bandcamp assigns to the sale item.
	ID string

	// URL is the download page the item was resolved from.
	URL string

	// Title is the release title.
	Title string

	// Artist is the release artist.
	Artist string

	// ReleaseDate is when the package was released. Zero when unknown.
	ReleaseDate time.Time

	// DownloadType, DownloadTypeStr and ItemType are Bandcamp's tags for
	// telling single tracks from multi-track packages.
	DownloadType    string
	DownloadTypeStr string
	ItemType        string

	// ArtID identifies the cover art image. Empty when none.
	ArtID string

	// Downloads maps an audio format name (e.g. "flac", "mp3-320") to its
	// concrete download. nil means the release has nothing to download.
	Downloads map[string]Download
}

// Download is one concrete file offered for an Item in a given format.
type Download struct {
	URL          string
	SizeMB       string
	Description  string
	EncodingName string
}

// WorkItem is an (ID, download page URL) pair queued for processing.
type WorkItem struct {
	ID  string
	URL string
}

const coverURLPrefix = "https://f4.bcbits.com/img/a"

// IsSingle reports whether the item is a single track (delivered as a plain
// audio file) rather than a package delivered as a zip archive.
func (i *Item) IsSingle() bool {
	return i.DownloadType == "t" || i.DownloadTypeStr == "track" || i.ItemType == "track"
}

// HasDownloads reports whether Bandcamp offers any download for the item.
func (i *Item) HasDownloads() bool {
	return i.Downloads != nil
}

// HasArtwork returns true if the item has cover art available for download.
func (i *Item) HasArtwork() bool {
	return i.ArtID != "" && i.ArtID != "0"
}

// CoverURL returns the full-size cover art URL, or "" without artwork.
func (i *Item) CoverURL() string {
	if !i.HasArtwork() {
		return ""
	}
	return coverURLPrefix + i.ArtID + "_10.jpg"
}

// ReleaseYear returns the four digit release year, or "0000" when unknown.
func (i *Item) ReleaseYear() string {
	if i.ReleaseDate.IsZero() {
		return "0000"
	}
	return strconv.Itoa(i.ReleaseDate.Year())
}

// FullTitle is the human readable "title - artist" label.
func (i *Item) FullTitle() string {
	return fmt.Sprintf("%s - %s", i.Title, i.Artist)
}

// Description is the text stored next to the ID in the completion ledger.
func (i *Item) Description() string {
	return fmt.Sprintf("%s (%s) by %s", i.Title, i.ReleaseYear(), i.Artist)
}

// DestinationPath computes the folder the item's files are written to:
//
//	root/<artist>/<title> (<year>)
//
// Both components are passed through MakeFSSafe.
func (i *Item) DestinationPath(root string) string {
	return filepath.Join(
		root,
		MakeFSSafe(i.Artist),
		MakeFSSafe(fmt.Sprintf("%s (%s)", i.Title, i.ReleaseYear())),
	)
}
