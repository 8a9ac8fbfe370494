package logging

import (
	"bytes"
	"strings"
	"testing"

	"github.com/google/uuid"

	"github.com/handiism/bandcamp-sync/internal/download"
)

func TestNew_Levels(t *testing.T) {
	tests := []struct {
		name      string
		verbose   bool
		wantDebug bool
	}{
		{"quiet", false, false},
		{"verbose", true, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf bytes.Buffer
			l := New(&buf, tt.verbose)
			l.Debug("debug line")
			l.Info("info line")

			out := buf.String()
			if strings.Contains(out, "debug line") != tt.wantDebug {
				t.Errorf("debug output = %v, want %v:\n%s", strings.Contains(out, "debug line"), tt.wantDebug, out)
			}
			if !strings.Contains(out, "info line") {
				t.Errorf("missing info line:\n%s", out)
			}
		})
	}
}

func TestForRun_TagsRunID(t *testing.T) {
	var buf bytes.Buffer
	ForRun(New(&buf, false)).Info("hello")

	out := buf.String()
	_, after, ok := strings.Cut(out, "run=")
	if !ok {
		t.Fatalf("no run key in %q", out)
	}
	id := strings.Fields(after)[0]
	if _, err := uuid.Parse(id); err != nil {
		t.Errorf("run = %q is not a UUID: %v", id, err)
	}
}

func TestProgressHandler(t *testing.T) {
	tests := []struct {
		name  string
		event download.ProgressEvent
		want  string
	}{
		{"info", download.ProgressEvent{Message: "found", Level: download.LevelInfo}, "INFO"},
		{"success", download.ProgressEvent{Message: "done", Level: download.LevelSuccess}, "INFO"},
		{"warning", download.ProgressEvent{Message: "hmm", Level: download.LevelWarning}, "WARN"},
		{"error", download.ProgressEvent{Message: "bad", Level: download.LevelError, ItemID: "42"}, "item=42"},
		{"verbose", download.ProgressEvent{Message: "detail", Level: download.LevelVerbose}, "DEBU"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf bytes.Buffer
			ProgressHandler(New(&buf, true))(tt.event)

			out := buf.String()
			if !strings.Contains(out, tt.event.Message) || !strings.Contains(out, tt.want) {
				t.Errorf("output %q should contain %q and %q", out, tt.event.Message, tt.want)
			}
		})
	}
}
