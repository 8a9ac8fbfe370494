package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
	bchttp "github.com/handiism/bandcamp-sync/internal/http"
)

// Formats are the audio formats Bandcamp offers downloads in.
var Formats = []string{
	"flac",
	"wav",
	"aac-hi",
	"mp3-320",
	"aiff-lossless",
	"vorbis",
	"mp3-v0",
	"alac",
}

// PlaylistFormats are the accepted playlist_format values.
var PlaylistFormats = []string{"m3u", "pls", "wpl", "zpl"}

// DefaultFileName is the configuration file looked up when none is given.
const DefaultFileName = "bandcamp-sync.toml"

// Settings holds all configuration options.
type Settings struct {
	// Collection settings
	User          string `toml:"user"`
	Format        string `toml:"format"`
	Cookies       string `toml:"cookies"`
	IncludeHidden bool   `toml:"include_hidden"`
	Artist        string `toml:"artist"`
	Album         string `toml:"album"`

	// Run settings
	OutputFolder string `toml:"output_folder"`
	Jobs         int    `toml:"jobs"`
	Limit        int    `toml:"limit"` // 0 means no limit
	Force        bool   `toml:"force"`
	DryRun       bool   `toml:"dry_run"`
	Debug        bool   `toml:"debug"`

	// Network settings
	RequestsPerSecond float64 `toml:"requests_per_second"`
	MaxAttempts       int     `toml:"max_attempts"`
	RateLimitCooldown float64 `toml:"rate_limit_cooldown"` // seconds
	RequestTimeout    float64 `toml:"request_timeout"`     // seconds
	UserAgent         string  `toml:"user_agent"`
	BaseURL           string  `toml:"base_url,omitempty"`

	// Post-processing settings
	SaveCoverArt   bool   `toml:"save_cover_art"`
	CoverMaxSize   int    `toml:"cover_max_size"` // 0 keeps the original
	TagMP3         bool   `toml:"tag_mp3"`
	CreatePlaylist bool   `toml:"create_playlist"`
	PlaylistFormat string `toml:"playlist_format"` // m3u, pls, wpl, zpl
	M3UExtended    bool   `toml:"m3u_extended"`
}

// DefaultSettings returns settings with default values.
func DefaultSettings() *Settings {
	return &Settings{
		OutputFolder: "./",
		Jobs:         4,

		RequestsPerSecond: 3,
		MaxAttempts:       5,
		RateLimitCooldown: 10,
		RequestTimeout:    60,
		UserAgent:         "bandcamp-sync",

		SaveCoverArt:   true,
		CoverMaxSize:   0,
		TagMP3:         true,
		CreatePlaylist: false,
		PlaylistFormat: "m3u",
		M3UExtended:    true,
	}
}

// Load reads settings from a TOML file on top of the defaults. A missing
// file yields the defaults.
func Load(path string) (*Settings, error) {
	settings := DefaultSettings()

	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return settings, nil
		}
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	if err := toml.Unmarshal(data, settings); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}

	return settings, nil
}

// Save writes settings to a TOML file.
func (s *Settings) Save(path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return err
	}

	f, err := os.Create(path)
	if err != nil {
		return err
	}

	if err := toml.NewEncoder(f).Encode(s); err != nil {
		f.Close()
		return fmt.Errorf("failed to encode config: %w", err)
	}
	return f.Close()
}

// Validate checks the settings a run depends on.
func (s *Settings) Validate() error {
	var errs []error

	if s.User == "" {
		errs = append(errs, errors.New("user is required"))
	}
	if !slices.Contains(Formats, s.Format) {
		errs = append(errs, fmt.Errorf("format %q must be one of %s", s.Format, strings.Join(Formats, ", ")))
	}
	if s.Jobs < 1 {
		errs = append(errs, fmt.Errorf("jobs must be at least 1, got %d", s.Jobs))
	}
	if s.Limit < 0 {
		errs = append(errs, fmt.Errorf("limit must not be negative, got %d", s.Limit))
	}
	if s.RequestsPerSecond <= 0 {
		errs = append(errs, fmt.Errorf("requests_per_second must be positive, got %v", s.RequestsPerSecond))
	}
	if s.MaxAttempts < 1 {
		errs = append(errs, fmt.Errorf("max_attempts must be at least 1, got %d", s.MaxAttempts))
	}
	if !slices.Contains(PlaylistFormats, s.PlaylistFormat) {
		errs = append(errs, fmt.Errorf("playlist_format %q must be one of %s", s.PlaylistFormat, strings.Join(PlaylistFormats, ", ")))
	}

	return errors.Join(errs...)
}

// ClientOptions converts the network settings to HTTP client options.
// The cookie jar is left for the caller to fill in.
func (s *Settings) ClientOptions() bchttp.Options {
	return bchttp.Options{
		UserAgent:         s.UserAgent,
		RequestsPerSecond: s.RequestsPerSecond,
		MaxAttempts:       s.MaxAttempts,
		Cooldown:          seconds(s.RateLimitCooldown),
		Timeout:           seconds(s.RequestTimeout),
	}
}

// LedgerPath is where the completion ledger lives for these settings.
func (s *Settings) LedgerPath(fileName string) string {
	return filepath.Join(s.OutputFolder, fileName)
}

func seconds(f float64) time.Duration {
	return time.Duration(f * float64(time.Second))
}
