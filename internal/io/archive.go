package ioutils

import (
	"archive/zip"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
)

// ErrUnsafeEntry is returned when an archive entry would be written outside
// the extraction directory.
var ErrUnsafeEntry = errors.New("archive entry escapes destination")

// ExtractZip unpacks every entry of the zip archive at path into dir and
// returns the files it wrote, in archive order.
//
// Entries with absolute names or names climbing out of dir ("../x") are
// rejected with ErrUnsafeEntry before anything is written for them.
// Directories are created as needed.
//
// Example:
//
//	files, err := ExtractZip(ctx, "/music/Artist/Album (2020)/Album.zip", "/music/Artist/Album (2020)")
func ExtractZip(ctx context.Context, path, dir string) ([]string, error) {
	r, err := zip.OpenReader(path)
	if err != nil && !errors.Is(err, zip.ErrInsecurePath) {
		return nil, err
	}
	defer r.Close()

	var files []string
	for _, f := range r.File {
		if err := ctx.Err(); err != nil {
			return files, err
		}

		name := filepath.FromSlash(f.Name)
		if !filepath.IsLocal(name) {
			return files, fmt.Errorf("%w: %q", ErrUnsafeEntry, f.Name)
		}
		target := filepath.Join(dir, name)

		if f.FileInfo().IsDir() {
			if err := os.MkdirAll(target, 0755); err != nil {
				return files, err
			}
			continue
		}

		if err := extractFile(f, target); err != nil {
			return files, err
		}
		files = append(files, target)
	}

	return files, nil
}

func extractFile(f *zip.File, target string) error {
	if err := os.MkdirAll(filepath.Dir(target), 0755); err != nil {
		return err
	}

	rc, err := f.Open()
	if err != nil {
		return fmt.Errorf("open entry %s: %w", f.Name, err)
	}
	defer rc.Close()

	out, err := os.Create(target)
	if err != nil {
		return err
	}

	if _, err := io.Copy(out, rc); err != nil {
		out.Close()
		return fmt.Errorf("extract %s: %w", f.Name, err)
	}
	return out.Close()
}
