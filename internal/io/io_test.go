package ioutils

import (
	"archive/zip"
	"bytes"
	"context"
	"errors"
	"image"
	"image/color"
	"image/png"
	"os"
	"path/filepath"
	"testing"
)

func writeZip(t *testing.T, path string, entries map[string]string) {
	t.Helper()

	f, err := os.Create(path)
	if err != nil {
		t.Fatal(err)
	}
	defer f.Close()

	zw := zip.NewWriter(f)
	for name, content := range entries {
		w, err := zw.Create(name)
		if err != nil {
			t.Fatal(err)
		}
		if _, err := w.Write([]byte(content)); err != nil {
			t.Fatal(err)
		}
	}
	if err := zw.Close(); err != nil {
		t.Fatal(err)
	}
}

func TestExtractZip(t *testing.T) {
	dir := t.TempDir()
	archive := filepath.Join(dir, "release.zip")
	writeZip(t, archive, map[string]string{
		"01 Intro.flac":    "intro",
		"02 Outro.flac":    "outro",
		"extras/cover.jpg": "jpeg",
		"extras/liner.txt": "notes",
	})

	files, err := ExtractZip(context.Background(), archive, dir)
	if err != nil {
		t.Fatalf("ExtractZip failed: %v", err)
	}
	if len(files) != 4 {
		t.Errorf("got %d files, want 4: %v", len(files), files)
	}

	data, err := os.ReadFile(filepath.Join(dir, "extras", "liner.txt"))
	if err != nil {
		t.Fatalf("nested entry missing: %v", err)
	}
	if string(data) != "notes" {
		t.Errorf("content = %q, want notes", data)
	}
}

func TestExtractZip_RejectsEscapingEntries(t *testing.T) {
	tests := []string{"../evil.txt", "a/../../evil.txt", "/abs/evil.txt"}

	for _, name := range tests {
		t.Run(name, func(t *testing.T) {
			root := t.TempDir()
			dir := filepath.Join(root, "out")
			if err := os.Mkdir(dir, 0755); err != nil {
				t.Fatal(err)
			}
			archive := filepath.Join(root, "bad.zip")
			writeZip(t, archive, map[string]string{name: "pwned"})

			_, err := ExtractZip(context.Background(), archive, dir)
			if !errors.Is(err, ErrUnsafeEntry) {
				t.Errorf("expected ErrUnsafeEntry, got %v", err)
			}
			if _, err := os.Stat(filepath.Join(root, "evil.txt")); err == nil {
				t.Error("entry was written outside the destination")
			}
		})
	}
}

func TestExtractZip_NotAnArchive(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "broken.zip")
	if err := os.WriteFile(path, []byte("definitely not a zip"), 0644); err != nil {
		t.Fatal(err)
	}

	if _, err := ExtractZip(context.Background(), path, dir); err == nil {
		t.Error("expected an error for a corrupt archive")
	}
}

func TestEnsureDir(t *testing.T) {
	root := t.TempDir()

	nested := filepath.Join(root, "a", "b", "c")
	if err := EnsureDir(nested); err != nil {
		t.Fatalf("EnsureDir failed: %v", err)
	}
	if err := EnsureDir(nested); err != nil {
		t.Errorf("EnsureDir on existing dir failed: %v", err)
	}

	file := filepath.Join(root, "file")
	if err := os.WriteFile(file, nil, 0644); err != nil {
		t.Fatal(err)
	}
	if err := EnsureDir(file); err == nil {
		t.Error("EnsureDir should fail when the path is a file")
	}
}

func TestFitWithin(t *testing.T) {
	tests := []struct {
		w, h, maxW, maxH int
		wantW, wantH     int
	}{
		{800, 600, 1000, 1000, 800, 600},
		{1500, 1000, 1000, 1000, 1000, 666},
		{1000, 2000, 1000, 1000, 500, 1000},
		{3000, 3000, 700, 700, 700, 700},
	}

	for _, tt := range tests {
		gotW, gotH := fitWithin(tt.w, tt.h, tt.maxW, tt.maxH)
		if gotW != tt.wantW || gotH != tt.wantH {
			t.Errorf("fitWithin(%d, %d, %d, %d) = %dx%d, want %dx%d",
				tt.w, tt.h, tt.maxW, tt.maxH, gotW, gotH, tt.wantW, tt.wantH)
		}
	}
}

func TestImageService_ResizeImage(t *testing.T) {
	src := image.NewRGBA(image.Rect(0, 0, 40, 20))
	for x := 0; x < 40; x++ {
		for y := 0; y < 20; y++ {
			src.Set(x, y, color.RGBA{R: 200, A: 255})
		}
	}
	var buf bytes.Buffer
	if err := png.Encode(&buf, src); err != nil {
		t.Fatal(err)
	}

	out, err := NewImageService().ResizeImage(context.Background(), buf.Bytes(), 10, 10)
	if err != nil {
		t.Fatalf("ResizeImage failed: %v", err)
	}

	img, format, err := image.Decode(bytes.NewReader(out))
	if err != nil {
		t.Fatalf("output is not an image: %v", err)
	}
	if format != "jpeg" {
		t.Errorf("format = %q, want jpeg", format)
	}
	if b := img.Bounds(); b.Dx() != 10 || b.Dy() != 5 {
		t.Errorf("size = %dx%d, want 10x5", b.Dx(), b.Dy())
	}
}
