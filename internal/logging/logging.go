package logging

import (
	"io"
	"os"

	"github.com/charmbracelet/log"
	"github.com/google/uuid"

	"github.com/handiism/bandcamp-sync/internal/download"
)

// New creates a [log.Logger] writing to w with timestamps enabled. verbose
// lowers the level to debug. w defaults to [os.Stderr].
func New(w io.Writer, verbose bool) *log.Logger {
	if w == nil {
		w = os.Stderr
	}
	l := log.NewWithOptions(w, log.Options{ReportTimestamp: true})
	if verbose {
		l.SetLevel(log.DebugLevel)
	}
	return l
}

// ForRun returns a child logger tagged with a fresh run ID.
func ForRun(l *log.Logger) *log.Logger {
	return l.With("run", NewRunID())
}

// NewRunID generates a new v4 [uuid.UUID] as a string.
func NewRunID() string {
	return uuid.New().String()
}

// ProgressHandler returns a download progress callback that writes each
// event to l at the matching level.
func ProgressHandler(l *log.Logger) func(download.ProgressEvent) {
	return func(e download.ProgressEvent) {
		kv := []any{}
		if e.ItemID != "" {
			kv = append(kv, "item", e.ItemID)
		}

		switch e.Level {
		case download.LevelVerbose:
			l.Debug(e.Message, kv...)
		case download.LevelWarning:
			l.Warn(e.Message, kv...)
		case download.LevelError:
			l.Error(e.Message, kv...)
		default:
			l.Info(e.Message, kv...)
		}
	}
}
