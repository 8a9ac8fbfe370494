// Package audio post-processes downloaded releases: ID3 tag completion
// for MP3 files and playlist generation for extracted packages.
//
// # ID3 Tagging
//
// Bandcamp already tags its files, so the default configuration only fills
// frames that are missing:
//
//	tagger := audio.NewTagger(audio.DefaultTagConfig())
//	err := tagger.SaveTags(path, item, coverJPEG)
//
// The tagger handles:
//   - Artist
//   - Album Title, Track Title
//   - Year
//   - Cover Art (embedded in MP3)
//
// # Playlist Generation
//
// Generate playlists in various formats:
//
//	creator := audio.NewPlaylistCreator(audio.FormatM3U, true) // extended M3U
//	content := creator.CreatePlaylist(audio.NewPlaylist(item.Title, item.Artist, dir, files))
//	os.WriteFile(filepath.Join(dir, "Album.m3u"), []byte(content), 0644)
//
// Supported formats:
//   - M3U (with optional extended info)
//   - PLS
//   - WPL (Windows Media Player)
//   - ZPL (Zune Media Player)
package audio
