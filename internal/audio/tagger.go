package audio

import (
	"path/filepath"
	"strings"

	"github.com/bogem/id3v2"
	"github.com/handiism/bandcamp-sync/internal/model"
)

// TagEditAction defines how to handle individual ID3 tags.
type TagEditAction int

const (
	// TagFillMissing writes the Bandcamp value only when the frame is
	// absent or empty. Bandcamp already tags its files, so this keeps
	// per-track values (titles, track artists) intact.
	TagFillMissing TagEditAction = iota

	// TagModify overwrites the frame with the value from Bandcamp.
	TagModify

	// TagDoNotModify leaves the existing tag value unchanged.
	TagDoNotModify

	// TagEmpty clears the tag value.
	TagEmpty
)

// TagConfig holds tagging configuration for each ID3 field.
//
// Example:
//
//	cfg := &TagConfig{
//	    Artist:     TagFillMissing,
//	    Album:      TagFillMissing,
//	    TrackTitle: TagDoNotModify,
//	    Year:       TagModify,
//	    Cover:      TagFillMissing,
//	}
type TagConfig struct {
	// Artist controls the TPE1 (Lead artist) frame.
	Artist TagEditAction

	// Album controls the TALB (Album title) frame.
	Album TagEditAction

	// TrackTitle controls the TIT2 (Title) frame. For singles the release
	// title is used, for tracks of a package the file name.
	TrackTitle TagEditAction

	// Year controls the year frame (TYER or TDRC depending on version).
	Year TagEditAction

	// Cover controls the APIC front cover frame.
	Cover TagEditAction
}

// DefaultTagConfig fills whatever is missing and never overwrites.
func DefaultTagConfig() *TagConfig {
	return &TagConfig{
		Artist:     TagFillMissing,
		Album:      TagFillMissing,
		TrackTitle: TagFillMissing,
		Year:       TagFillMissing,
		Cover:      TagFillMissing,
	}
}

// Tagger writes ID3 tags to downloaded MP3 files.
//
// Example:
//
//	tagger := NewTagger(DefaultTagConfig())
//	for _, f := range files {
//	    if strings.EqualFold(filepath.Ext(f), ".mp3") {
//	        err := tagger.SaveTags(f, item, cover)
//	    }
//	}
type Tagger struct {
	config *TagConfig
}

// NewTagger creates a new Tagger with the given configuration.
//
// If config is nil, DefaultTagConfig() is used.
func NewTagger(config *TagConfig) *Tagger {
	if config == nil {
		config = DefaultTagConfig()
	}
	return &Tagger{config: config}
}

// SaveTags updates the ID3 tag of the MP3 at path from item.
//
// artwork is JPEG bytes for the front cover; nil skips the cover. The
// file's audio data is left untouched.
func (t *Tagger) SaveTags(path string, item *model.Item, artwork []byte) error {
	tag, err := id3v2.Open(path, id3v2.Options{Parse: true})
	if err != nil {
		return err
	}
	defer tag.Close()

	title := trackTitle(path)
	if item.IsSingle() {
		title = item.Title
	}

	apply(t.config.Artist, tag.Artist(), item.Artist, tag.SetArtist)
	apply(t.config.Album, tag.Album(), item.Title, tag.SetAlbum)
	apply(t.config.TrackTitle, tag.Title(), title, tag.SetTitle)

	if !item.ReleaseDate.IsZero() {
		apply(t.config.Year, tag.Year(), item.ReleaseYear(), tag.SetYear)
	}

	if artwork != nil {
		t.updateArtwork(tag, artwork)
	}

	return tag.Save()
}

// apply resolves one text frame according to action.
func apply(action TagEditAction, current, value string, set func(string)) {
	switch action {
	case TagEmpty:
		set("")
	case TagModify:
		set(value)
	case TagFillMissing:
		if strings.TrimSpace(current) == "" && value != "" {
			set(value)
		}
	}
}

// updateArtwork embeds cover art as an attached picture frame.
func (t *Tagger) updateArtwork(tag *id3v2.Tag, artwork []byte) {
	pictureID := tag.CommonID("Attached picture")

	switch t.config.Cover {
	case TagDoNotModify:
		return
	case TagEmpty:
		tag.DeleteFrames(pictureID)
		return
	case TagFillMissing:
		if len(tag.GetFrames(pictureID)) > 0 {
			return
		}
	case TagModify:
		tag.DeleteFrames(pictureID)
	}

	tag.AddAttachedPicture(id3v2.PictureFrame{
		Encoding:    id3v2.EncodingUTF8,
		MimeType:    "image/jpeg",
		PictureType: id3v2.PTFrontCover,
		Description: "Cover",
		Picture:     artwork,
	})
}

// IsMP3 reports whether path has an .mp3 extension.
func IsMP3(path string) bool {
	return strings.EqualFold(filepath.Ext(path), ".mp3")
}
