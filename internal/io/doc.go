// Package ioutils provides file system, archive and image utilities.
//
// This package contains functions for:
//   - File writing and directory creation
//   - Zip extraction confined to a destination directory
//   - Image resizing and format conversion
//
// # File Operations
//
//	// Write data to file
//	err := ioutils.WriteFile(ctx, "/path/to/file.m3u", []byte("content"))
//
//	// Ensure directory exists
//	err := ioutils.EnsureDir("/path/to/new/directory")
//
// # Archives
//
// Bandcamp delivers multi-track releases as zip archives:
//
//	files, err := ioutils.ExtractZip(ctx, archivePath, dir)
//	if errors.Is(err, ioutils.ErrUnsafeEntry) {
//	    // the archive tried to write outside dir
//	}
//
// # Image Processing
//
// The ImageService handles cover art manipulation:
//
//	svc := ioutils.NewImageService()
//
//	// Resize image to fit within 500x500
//	resized, _ := svc.ResizeImage(ctx, imageData, 500, 500)
//
//	// Convert to JPEG
//	jpeg, _ := svc.ConvertToJPEG(ctx, pngData)
package ioutils
