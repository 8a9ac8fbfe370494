package download

import (
	"errors"
	"fmt"
)

// ErrNoDownloads is returned when a release offers nothing to download.
var ErrNoDownloads = errors.New("release has no downloads")

// MissingFormatError is returned when a release is not offered in the
// requested audio format.
type MissingFormatError struct {
	ItemID string
	Format string
}

func (e *MissingFormatError) Error() string {
	return fmt.Sprintf("item %s is not available as %s", e.ItemID, e.Format)
}

// DownloadError reports a response that could not be turned into a file:
// no usable Content-Disposition, a broken stream, an undecodable name.
type DownloadError struct {
	URL    string
	Reason string
	Err    error
}

func (e *DownloadError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("could not download %s: %s: %v", e.URL, e.Reason, e.Err)
	}
	return fmt.Sprintf("could not download %s: %s", e.URL, e.Reason)
}

func (e *DownloadError) Unwrap() error { return e.Err }

// ArchiveError reports a downloaded archive that could not be opened or
// extracted. The archive is left on disk.
type ArchiveError struct {
	Path string
	Err  error
}

func (e *ArchiveError) Error() string {
	return fmt.Sprintf("could not extract %s: %v", e.Path, e.Err)
}

func (e *ArchiveError) Unwrap() error { return e.Err }

// FilesystemError reports a local file operation that failed.
type FilesystemError struct {
	Op   string
	Path string
	Err  error
}

func (e *FilesystemError) Error() string {
	return fmt.Sprintf("%s %s: %v", e.Op, e.Path, e.Err)
}

func (e *FilesystemError) Unwrap() error { return e.Err }
