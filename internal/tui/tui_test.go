package tui

import (
	"context"
	"errors"
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/handiism/bandcamp-sync/internal/download"
)

type fakeSyncer struct {
	summary *download.Summary
	err     error
	stops   int
}

func (f *fakeSyncer) Run(ctx context.Context) (*download.Summary, error) {
	return f.summary, f.err
}

func (f *fakeSyncer) Stop() { f.stops++ }

func update(t *testing.T, m Model, msg tea.Msg) Model {
	t.Helper()
	next, _ := m.Update(msg)
	return next.(Model)
}

func TestModel_TransfersFollowByteProgress(t *testing.T) {
	m := NewModel(context.Background(), &fakeSyncer{}, "someone", false)
	if m.state != StateFetching {
		t.Fatalf("initial state = %v", m.state)
	}

	m = update(t, m, BytesMsg{Progress: download.ByteProgress{ItemID: "1", Title: "First - A", Written: 50, Total: 100}})
	m = update(t, m, BytesMsg{Progress: download.ByteProgress{ItemID: "2", Title: "Second - B", Written: 10, Total: -1}})

	if m.state != StateSyncing {
		t.Errorf("state = %v, want StateSyncing", m.state)
	}
	if got := strings.Join(m.order, ","); got != "1,2" {
		t.Errorf("order = %s", got)
	}
	if p := m.transfers["1"].percent(); p != 0.5 {
		t.Errorf("percent = %v, want 0.5", p)
	}
	if p := m.transfers["2"].percent(); p != 0 {
		t.Errorf("unknown total percent = %v, want 0", p)
	}
	if !strings.Contains(m.View(), "First - A") {
		t.Error("view should list in-flight releases")
	}

	m = update(t, m, BytesMsg{Progress: download.ByteProgress{ItemID: "1", Done: true}})
	if _, ok := m.transfers["1"]; ok || strings.Join(m.order, ",") != "2" {
		t.Errorf("finished transfer not removed: %v", m.order)
	}
}

func TestModel_LogsAreFilteredAndCapped(t *testing.T) {
	m := NewModel(context.Background(), &fakeSyncer{}, "someone", false)

	m = update(t, m, ProgressMsg{Event: download.ProgressEvent{Message: "hidden", Level: download.LevelVerbose}})
	if len(m.logs) != 0 {
		t.Errorf("verbose event shown without verbose mode")
	}

	for range maxLogs + 5 {
		m = update(t, m, ProgressMsg{Event: download.ProgressEvent{Message: "line", Level: download.LevelInfo}})
	}
	if len(m.logs) != maxLogs {
		t.Errorf("got %d log lines, want %d", len(m.logs), maxLogs)
	}
}

func TestModel_EscStopsThenAborts(t *testing.T) {
	syncer := &fakeSyncer{}
	m := NewModel(context.Background(), syncer, "someone", false)
	ctx := m.ctx

	m = update(t, m, tea.KeyMsg{Type: tea.KeyEsc})
	if syncer.stops != 1 || !m.stopping {
		t.Errorf("first esc: stops=%d stopping=%v", syncer.stops, m.stopping)
	}
	if ctx.Err() != nil {
		t.Error("first esc should not cancel downloads")
	}

	m = update(t, m, tea.KeyMsg{Type: tea.KeyEsc})
	if syncer.stops != 1 {
		t.Errorf("Stop called %d times", syncer.stops)
	}
	if ctx.Err() == nil {
		t.Error("second esc should cancel the context")
	}
}

func TestModel_Done(t *testing.T) {
	tests := []struct {
		name      string
		msg       DoneMsg
		wantState State
		wantView  string
		wantQuit  bool
	}{
		{
			name:      "complete",
			msg:       DoneMsg{Summary: &download.Summary{Found: 3, Queued: 2, Downloaded: 2}},
			wantState: StateComplete,
			wantView:  "Downloaded: 2",
		},
		{
			name:      "dry run lines",
			msg:       DoneMsg{Summary: &download.Summary{DryRun: []string{"1, First - A"}}},
			wantState: StateComplete,
			wantView:  "1, First - A",
		},
		{
			name:      "error",
			msg:       DoneMsg{Err: errors.New("access denied")},
			wantState: StateError,
			wantView:  "access denied",
			wantQuit:  true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m := NewModel(context.Background(), &fakeSyncer{}, "someone", false)
			next, cmd := m.Update(tt.msg)
			m = next.(Model)

			if (cmd != nil) != tt.wantQuit {
				t.Errorf("quit command = %v, want %v", cmd != nil, tt.wantQuit)
			}
			if tt.wantQuit {
				if _, ok := cmd().(tea.QuitMsg); !ok {
					t.Error("a failed run should quit without input")
				}
			}

			if m.state != tt.wantState {
				t.Errorf("state = %v, want %v", m.state, tt.wantState)
			}
			if !strings.Contains(m.View(), tt.wantView) {
				t.Errorf("view missing %q:\n%s", tt.wantView, m.View())
			}

			_, cmd = m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("q")})
			if cmd == nil {
				t.Error("q should quit a finished run")
			}
		})
	}
}

func TestModel_InitRunsSyncer(t *testing.T) {
	want := &download.Summary{Found: 1}
	m := NewModel(context.Background(), &fakeSyncer{summary: want}, "someone", false)

	msg := m.startSync()()
	done, ok := msg.(DoneMsg)
	if !ok || done.Summary != want {
		t.Errorf("startSync produced %#v", msg)
	}
}
