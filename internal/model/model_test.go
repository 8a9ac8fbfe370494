package model

import (
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func TestMakeFSSafe(t *testing.T) {
	tests := []struct {
		input string
		want  string
	}{
		{"normal name", "normal name"},
		{"AC/DC: Back In Black?", "AC∕DC꞉ Back In Black？"},
		{`back\slash`, "back⧵slash"},
		{`say "hi"`, "say ＂hi＂"},
		{"a<b>c", "a＜b＞c"},
		{"pipe|star*", "pipeǀstar∗"},
		{"trailing dot.", "trailing dot._"},
		{"trailing space ", "trailing space _"},
		{"tab\tand\nnewline", "tabandnewline"},
		{"", "_"},
		{"Sigur Rós", "Sigur Rós"},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got := MakeFSSafe(tt.input)
			if got != tt.want {
				t.Errorf("MakeFSSafe(%q) = %q, want %q", tt.input, got, tt.want)
			}
		})
	}
}

func TestMakeFSSafe_NoReservedCharacters(t *testing.T) {
	got := MakeFSSafe(`AC/DC: Back In Black? <"live"> |\*`)
	if strings.ContainsAny(got, `/\:*?"<>|`) {
		t.Errorf("MakeFSSafe left reserved characters in %q", got)
	}
}

func TestItem_IsSingle(t *testing.T) {
	tests := []struct {
		name string
		item Item
		want bool
	}{
		{"download type t", Item{DownloadType: "t"}, true},
		{"download type str track", Item{DownloadTypeStr: "track"}, true},
		{"item type track", Item{ItemType: "track"}, true},
		{"album package", Item{DownloadType: "a", DownloadTypeStr: "album", ItemType: "album"}, false},
		{"package", Item{DownloadType: "p", ItemType: "package"}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.item.IsSingle(); got != tt.want {
				t.Errorf("IsSingle() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestItem_DestinationPath(t *testing.T) {
	withDate := Item{
		Artist:      "AC/DC",
		Title:       "Back In Black",
		ReleaseDate: time.Date(1980, 7, 25, 0, 0, 0, 0, time.UTC),
	}
	want := filepath.Join("/music", "AC∕DC", "Back In Black (1980)")
	if got := withDate.DestinationPath("/music"); got != want {
		t.Errorf("DestinationPath = %q, want %q", got, want)
	}

	noDate := Item{Artist: "Artist", Title: "Demo"}
	want = filepath.Join("/music", "Artist", "Demo (0000)")
	if got := noDate.DestinationPath("/music"); got != want {
		t.Errorf("DestinationPath = %q, want %q", got, want)
	}
}

func TestItem_Description(t *testing.T) {
	item := Item{Artist: "Artist", Title: "Album", ReleaseDate: time.Date(2023, 5, 15, 0, 0, 0, 0, time.UTC)}
	if got := item.Description(); got != "Album (2023) by Artist" {
		t.Errorf("Description() = %q", got)
	}
}

func TestItem_CoverURL(t *testing.T) {
	item := Item{ArtID: "1234567890"}
	if got := item.CoverURL(); got != "https://f4.bcbits.com/img/a1234567890_10.jpg" {
		t.Errorf("CoverURL() = %q", got)
	}

	none := Item{}
	if none.HasArtwork() {
		t.Error("HasArtwork() should return false without an art ID")
	}
	if got := none.CoverURL(); got != "" {
		t.Errorf("CoverURL() = %q, want empty", got)
	}
}
