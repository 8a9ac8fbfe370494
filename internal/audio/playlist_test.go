package audio

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/bogem/id3v2"
	"github.com/handiism/bandcamp-sync/internal/model"
)

func createTestPlaylist() *Playlist {
	dir := filepath.Join("music", "Test Artist", "Test Album (2020)")
	return NewPlaylist("Test Album", "Test Artist", dir, []string{
		filepath.Join(dir, "02 track2.flac"),
		filepath.Join(dir, "cover.jpg"),
		filepath.Join(dir, "01 track1.flac"),
	})
}

func TestNewPlaylist_FiltersAndSorts(t *testing.T) {
	pl := createTestPlaylist()

	want := []string{"01 track1.flac", "02 track2.flac"}
	if strings.Join(pl.Files, ",") != strings.Join(want, ",") {
		t.Errorf("Files = %v, want %v", pl.Files, want)
	}
}

func TestPlaylistCreator_M3U(t *testing.T) {
	creator := NewPlaylistCreator(FormatM3U, false)

	content := creator.CreatePlaylist(createTestPlaylist())

	if content != "01 track1.flac\n02 track2.flac\n" {
		t.Errorf("M3U content = %q", content)
	}
}

func TestPlaylistCreator_M3UExtended(t *testing.T) {
	creator := NewPlaylistCreator(FormatM3U, true)

	content := creator.CreatePlaylist(createTestPlaylist())

	if !strings.HasPrefix(content, "#EXTM3U") {
		t.Error("Extended M3U should start with #EXTM3U")
	}
	if !strings.Contains(content, "#EXTINF:-1,Test Artist - 01 track1") {
		t.Errorf("Extended M3U should contain #EXTINF, got %q", content)
	}
}

func TestPlaylistCreator_PLS(t *testing.T) {
	creator := NewPlaylistCreator(FormatPLS, false)

	content := creator.CreatePlaylist(createTestPlaylist())

	if !strings.HasPrefix(content, "[playlist]") {
		t.Error("PLS should start with [playlist]")
	}
	if !strings.Contains(content, "File1=01 track1.flac") {
		t.Error("PLS should contain File1=")
	}
	if !strings.Contains(content, "NumberOfEntries=2") {
		t.Error("PLS should contain NumberOfEntries")
	}
}

func TestPlaylistCreator_WPL(t *testing.T) {
	creator := NewPlaylistCreator(FormatWPL, false)

	content := creator.CreatePlaylist(createTestPlaylist())

	if !strings.Contains(content, "<?wpl") {
		t.Error("WPL should contain XML declaration")
	}
	if !strings.Contains(content, "<smil>") {
		t.Error("WPL should contain smil element")
	}
	if !strings.Contains(content, "<media src=") {
		t.Error("WPL should contain media elements")
	}
}

func TestPlaylistCreator_ZPL(t *testing.T) {
	creator := NewPlaylistCreator(FormatZPL, false)

	content := creator.CreatePlaylist(createTestPlaylist())

	if !strings.Contains(content, "<?zpl") {
		t.Error("ZPL should contain XML declaration")
	}
	if !strings.Contains(content, "albumTitle=") {
		t.Error("ZPL should contain albumTitle attribute")
	}
}

func TestPlaylistCreator_XMLEscape(t *testing.T) {
	pl := &Playlist{
		Title:  "Album <Special>",
		Artist: "Artist & Co",
		Files:  []string{`Track & "Quote".flac`},
	}

	content := NewPlaylistCreator(FormatWPL, false).CreatePlaylist(pl)

	if strings.Contains(content, "&") && !strings.Contains(content, "&amp;") {
		t.Error("WPL should escape & as &amp;")
	}
	if strings.Contains(content, "<Special>") {
		t.Error("WPL should escape < and >")
	}
}

func TestParsePlaylistFormat(t *testing.T) {
	tests := []struct {
		in      string
		want    PlaylistFormat
		ext     string
		wantErr bool
	}{
		{"m3u", FormatM3U, ".m3u", false},
		{"", FormatM3U, ".m3u", false},
		{"PLS", FormatPLS, ".pls", false},
		{"wpl", FormatWPL, ".wpl", false},
		{"zpl", FormatZPL, ".zpl", false},
		{"xspf", FormatM3U, ".m3u", true},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParsePlaylistFormat(tt.in)
			if (err != nil) != tt.wantErr {
				t.Fatalf("err = %v, wantErr %v", err, tt.wantErr)
			}
			if got != tt.want || got.Extension() != tt.ext {
				t.Errorf("got %v (%s), want %v (%s)", got, got.Extension(), tt.want, tt.ext)
			}
		})
	}
}

func TestTagger_FillsOnlyMissingFrames(t *testing.T) {
	path := filepath.Join(t.TempDir(), "01 Song.mp3")
	if err := os.WriteFile(path, []byte("this stands in for mpeg audio frames"), 0644); err != nil {
		t.Fatal(err)
	}

	existing, err := id3v2.Open(path, id3v2.Options{Parse: true})
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	existing.SetArtist("Track Artist")
	if err := existing.Save(); err != nil {
		t.Fatalf("save: %v", err)
	}
	existing.Close()

	item := &model.Item{
		Title:       "The Album",
		Artist:      "Album Artist",
		ReleaseDate: time.Date(2019, 3, 1, 0, 0, 0, 0, time.UTC),
	}
	if err := NewTagger(nil).SaveTags(path, item, []byte("jpeg bytes")); err != nil {
		t.Fatalf("SaveTags failed: %v", err)
	}

	tag, err := id3v2.Open(path, id3v2.Options{Parse: true})
	if err != nil {
		t.Fatalf("reopen: %v", err)
	}
	defer tag.Close()

	if tag.Artist() != "Track Artist" {
		t.Errorf("Artist = %q, existing value should be kept", tag.Artist())
	}
	if tag.Album() != "The Album" {
		t.Errorf("Album = %q, want The Album", tag.Album())
	}
	if tag.Title() != "01 Song" {
		t.Errorf("Title = %q, want file name for package tracks", tag.Title())
	}
	if tag.Year() != "2019" {
		t.Errorf("Year = %q, want 2019", tag.Year())
	}
	if n := len(tag.GetFrames(tag.CommonID("Attached picture"))); n != 1 {
		t.Errorf("got %d pictures, want 1", n)
	}
}

func TestIsAudioFile(t *testing.T) {
	for name, want := range map[string]bool{
		"01 Song.FLAC": true,
		"song.mp3":     true,
		"song.m4a":     true,
		"cover.jpg":    false,
		"notes.txt":    false,
	} {
		if got := IsAudioFile(name); got != want {
			t.Errorf("IsAudioFile(%q) = %v, want %v", name, got, want)
		}
	}
}
