// Package config provides configuration management for bandcamp-sync.
//
// This package handles:
//   - Loading and saving settings from TOML files
//   - Default configuration values
//   - Validation of the values a run depends on
//   - Conversion to HTTP client options
//
// # Default Settings
//
// Use DefaultSettings() to get sensible defaults:
//
//	settings := config.DefaultSettings()
//	// Downloads into ./<artist>/<title> (<year>)
//	// 4 concurrent jobs, 3 requests per second
//	// MP3 tag completion enabled
//
// # Loading from File
//
//	settings, err := config.Load("bandcamp-sync.toml")
//	if err != nil {
//	    // the file exists but could not be parsed
//	}
//
// A missing file is not an error; the defaults are returned.
//
// # Example File
//
//	user = "someone"
//	format = "flac"
//	output_folder = "~/Music/Bandcamp"
//	jobs = 4
//	save_cover_art = true
//	create_playlist = true
//	playlist_format = "m3u"
//
// Command line flags and BS_* environment variables take precedence over
// the file.
package config
