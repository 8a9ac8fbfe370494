package download

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"

	"github.com/handiism/bandcamp-sync/internal/audio"
	bchttp "github.com/handiism/bandcamp-sync/internal/http"
	ioutils "github.com/handiism/bandcamp-sync/internal/io"
	"github.com/handiism/bandcamp-sync/internal/model"
)

// coverFileName is where a single's cover art is stored. Packages ship
// their own cover inside the archive.
const coverFileName = "cover.jpg"

// Streamer is the subset of the HTTP client the extractor needs.
type Streamer interface {
	Stream(ctx context.Context, url string) (*http.Response, error)
	DownloadBytes(ctx context.Context, url string) ([]byte, error)
}

// ExtractorOptions toggles the post-processing steps run after a release
// has been stored. Failures in these steps are reported as warnings and
// never fail the item.
type ExtractorOptions struct {
	// SaveCover downloads cover art next to singles as cover.jpg.
	SaveCover bool

	// CoverMaxSize scales the saved cover down to fit a square of this
	// many pixels. 0 keeps the original.
	CoverMaxSize int

	// TagMP3 fills missing ID3 frames of .mp3 outputs.
	TagMP3 bool

	// CreatePlaylist writes a playlist for extracted packages.
	CreatePlaylist bool

	// PlaylistFormat and M3UExtended configure the playlist.
	PlaylistFormat audio.PlaylistFormat
	M3UExtended    bool
}

// Result lists what FetchAndStore wrote for one item.
type Result struct {
	// Files are the audio (and other) files now on disk. For a single this
	// is the downloaded file, for a package every extracted entry.
	Files []string

	// Cover is the saved cover art path, if any.
	Cover string

	// Playlist is the written playlist path, if any.
	Playlist string

	// Warnings collects post-processing failures.
	Warnings []error
}

// Extractor downloads a release in a chosen format into a directory and
// unpacks it when Bandcamp delivers a zip.
//
// Example usage:
//
//	ex := NewExtractor(client, ExtractorOptions{TagMP3: true})
//	res, err := ex.FetchAndStore(ctx, item, item.DestinationPath(root), "flac", nil)
//	var mf *MissingFormatError
//	if errors.As(err, &mf) {
//	    // release not offered in FLAC
//	}
type Extractor struct {
	client   Streamer
	opts     ExtractorOptions
	images   *ioutils.ImageService
	tagger   *audio.Tagger
	playlist *audio.PlaylistCreator
}

// NewExtractor creates a new Extractor.
func NewExtractor(client Streamer, opts ExtractorOptions) *Extractor {
	return &Extractor{
		client:   client,
		opts:     opts,
		images:   ioutils.NewImageService(),
		tagger:   audio.NewTagger(audio.DefaultTagConfig()),
		playlist: audio.NewPlaylistCreator(opts.PlaylistFormat, opts.M3UExtended),
	}
}

// FetchAndStore downloads item in format into dir, which must exist.
//
// The file name comes from the response's Content-Disposition header.
// onProgress, when set, is called after every chunk written with the bytes
// written so far and the expected total (-1 if unknown).
//
// Singles are kept as downloaded. Anything else is a zip archive: it is
// extracted into dir and then removed. If extraction fails the archive is
// left in place and an *ArchiveError is returned.
//
// Errors:
//   - ErrNoDownloads if the item offers nothing
//   - *MissingFormatError if format is not offered
//   - *DownloadError if the response cannot be turned into a named file
//   - *ArchiveError if the archive cannot be extracted
//   - *FilesystemError for local I/O failures
//   - the client's error if the request failed
func (e *Extractor) FetchAndStore(ctx context.Context, item *model.Item, dir, format string, onProgress func(written, total int64)) (*Result, error) {
	if !item.HasDownloads() {
		return nil, ErrNoDownloads
	}
	dl, ok := item.Downloads[format]
	if !ok || dl.URL == "" {
		return nil, &MissingFormatError{ItemID: item.ID, Format: format}
	}

	path, err := e.store(ctx, dl.URL, dir, onProgress)
	if err != nil {
		return nil, err
	}

	res := &Result{}
	if item.IsSingle() {
		res.Files = []string{path}
	} else {
		files, err := ioutils.ExtractZip(ctx, path, dir)
		if err != nil {
			return nil, &ArchiveError{Path: path, Err: err}
		}
		if err := os.Remove(path); err != nil {
			return nil, &FilesystemError{Op: "remove archive", Path: path, Err: err}
		}
		res.Files = files
	}

	e.postProcess(ctx, item, dir, res)
	return res, nil
}

// store streams url into dir under the name the server chose and returns
// the resulting path.
func (e *Extractor) store(ctx context.Context, url, dir string, onProgress func(written, total int64)) (string, error) {
	resp, err := e.client.Stream(ctx, url)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	disposition := resp.Header.Get("Content-Disposition")
	if disposition == "" {
		return "", &DownloadError{URL: url, Reason: "response has no Content-Disposition"}
	}
	name, ok := filenameFromDisposition(disposition)
	if !ok {
		return "", &DownloadError{URL: url, Reason: "Content-Disposition is not valid UTF-8"}
	}
	if name == "" {
		return "", &DownloadError{URL: url, Reason: "Content-Disposition carries no filename"}
	}

	path := filepath.Join(dir, name)
	f, err := os.Create(path)
	if err != nil {
		return "", &FilesystemError{Op: "create", Path: path, Err: err}
	}

	pw := &bchttp.ProgressWriter{
		Writer:   f,
		Total:    resp.ContentLength,
		OnUpdate: onProgress,
	}
	if _, err := io.Copy(pw, resp.Body); err != nil {
		f.Close()
		os.Remove(path)
		if errors.Is(err, context.Canceled) {
			return "", err
		}
		return "", &DownloadError{URL: url, Reason: "stream interrupted", Err: err}
	}
	if err := f.Close(); err != nil {
		return "", &FilesystemError{Op: "close", Path: path, Err: err}
	}

	return path, nil
}

// postProcess runs the optional steps. Failures only add warnings.
func (e *Extractor) postProcess(ctx context.Context, item *model.Item, dir string, res *Result) {
	var cover []byte

	if e.opts.SaveCover && item.IsSingle() && item.HasArtwork() {
		data, err := e.saveCover(ctx, item, dir)
		if err != nil {
			res.Warnings = append(res.Warnings, fmt.Errorf("cover art: %w", err))
		} else {
			cover = data
			res.Cover = filepath.Join(dir, coverFileName)
		}
	}

	if e.opts.TagMP3 {
		for _, f := range res.Files {
			if !audio.IsMP3(f) {
				continue
			}
			if err := e.tagger.SaveTags(f, item, cover); err != nil {
				res.Warnings = append(res.Warnings, fmt.Errorf("tag %s: %w", filepath.Base(f), err))
			}
		}
	}

	if e.opts.CreatePlaylist && !item.IsSingle() {
		pl := audio.NewPlaylist(item.Title, item.Artist, dir, res.Files)
		if len(pl.Files) == 0 {
			return
		}
		path := filepath.Join(dir, model.MakeFSSafe(item.Title)+e.playlist.Format().Extension())
		if err := ioutils.WriteFile(ctx, path, []byte(e.playlist.CreatePlaylist(pl))); err != nil {
			res.Warnings = append(res.Warnings, fmt.Errorf("playlist: %w", err))
		} else {
			res.Playlist = path
		}
	}
}

func (e *Extractor) saveCover(ctx context.Context, item *model.Item, dir string) ([]byte, error) {
	data, err := e.client.DownloadBytes(ctx, item.CoverURL())
	if err != nil {
		return nil, err
	}

	if e.opts.CoverMaxSize > 0 {
		data, err = e.images.ResizeImage(ctx, data, e.opts.CoverMaxSize, e.opts.CoverMaxSize)
	} else {
		data, err = e.images.ConvertToJPEG(ctx, data)
	}
	if err != nil {
		return nil, err
	}

	if err := ioutils.WriteFile(ctx, filepath.Join(dir, coverFileName), data); err != nil {
		return nil, err
	}
	return data, nil
}
