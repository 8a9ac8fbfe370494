// Package tui provides a Bubble Tea terminal user interface for bandcamp-sync.
package tui

import (
	"context"
	"fmt"
	"slices"
	"strings"

	"github.com/charmbracelet/bubbles/progress"
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/handiism/bandcamp-sync/internal/config"
	"github.com/handiism/bandcamp-sync/internal/download"
	"github.com/handiism/bandcamp-sync/internal/http"
)

// Styles for the TUI
var (
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#FF6B6B")).
			MarginBottom(1)

	subtitleStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#4ECDC4"))

	successStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#95E1A3"))

	errorStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#FF6B6B"))

	warningStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#FFE66D"))

	infoStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#A8DADC"))

	dimStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#6C757D"))

	boxStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("#4ECDC4")).
			Padding(1, 2)

	releaseStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#F8B500"))
)

// maxLogs is how many log lines stay on screen.
const maxLogs = 10

// State represents the current UI state.
type State int

const (
	StateFetching State = iota
	StateSyncing
	StateComplete
	StateError
)

// Syncer is what the TUI drives. *download.Manager satisfies it.
type Syncer interface {
	Run(ctx context.Context) (*download.Summary, error)
	Stop()
}

// LogEntry represents a log message in the UI.
type LogEntry struct {
	Message string
	Level   download.ProgressLevel
}

// transfer is one in-flight download.
type transfer struct {
	title   string
	written int64
	total   int64
}

func (t transfer) percent() float64 {
	if t.total <= 0 {
		return 0
	}
	return min(float64(t.written)/float64(t.total), 1)
}

// Model is the Bubble Tea model for the TUI.
type Model struct {
	state    State
	spinner  spinner.Model
	progress progress.Model
	user     string
	logs     []LogEntry
	err      error
	summary  *download.Summary

	// in-flight downloads keyed by item ID, in start order
	transfers map[string]transfer
	order     []string

	syncer   Syncer
	ctx      context.Context
	cancel   context.CancelFunc
	stopping bool
	verbose  bool

	width int
}

// NewModel creates a new TUI model driving syncer.
func NewModel(ctx context.Context, syncer Syncer, user string, verbose bool) Model {
	sp := spinner.New()
	sp.Spinner = spinner.Dot
	sp.Style = lipgloss.NewStyle().Foreground(lipgloss.Color("#FF6B6B"))

	prog := progress.New(progress.WithDefaultGradient())
	prog.Width = 40

	ctx, cancel := context.WithCancel(ctx)

	return Model{
		state:     StateFetching,
		spinner:   sp,
		progress:  prog,
		user:      user,
		transfers: make(map[string]transfer),
		syncer:    syncer,
		ctx:       ctx,
		cancel:    cancel,
		verbose:   verbose,
	}
}

// Message types
type (
	// ProgressMsg carries a sync progress event.
	ProgressMsg struct {
		Event download.ProgressEvent
	}

	// BytesMsg carries download progress of one item.
	BytesMsg struct {
		Progress download.ByteProgress
	}

	// DoneMsg is sent when the sync run returns.
	DoneMsg struct {
		Summary *download.Summary
		Err     error
	}
)

// Init starts the spinner and the sync run.
func (m Model) Init() tea.Cmd {
	return tea.Batch(m.spinner.Tick, m.startSync())
}

// startSync runs the syncer in the background.
func (m Model) startSync() tea.Cmd {
	return func() tea.Msg {
		summary, err := m.syncer.Run(m.ctx)
		return DoneMsg{Summary: summary, Err: err}
	}
}

// Update handles messages and updates the model.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.progress.Width = min(max(msg.Width-40, 20), 60)
		return m, nil

	case tea.KeyMsg:
		switch msg.String() {
		case "ctrl+c", "esc":
			if m.state == StateComplete || m.state == StateError {
				return m, tea.Quit
			}
			// First press lets workers finish their release, second aborts.
			if m.stopping {
				m.cancel()
			} else {
				m.stopping = true
				m.syncer.Stop()
			}
		case "q":
			if m.state == StateComplete || m.state == StateError {
				return m, tea.Quit
			}
		}
		return m, nil

	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd

	case ProgressMsg:
		if msg.Event.ItemID != "" && m.state == StateFetching {
			m.state = StateSyncing
		}
		if msg.Event.Level == download.LevelVerbose && !m.verbose {
			return m, nil
		}
		m.logs = append(m.logs, LogEntry{Message: msg.Event.Message, Level: msg.Event.Level})
		if len(m.logs) > maxLogs {
			m.logs = m.logs[len(m.logs)-maxLogs:]
		}
		return m, nil

	case BytesMsg:
		p := msg.Progress
		if m.state == StateFetching {
			m.state = StateSyncing
		}
		if p.Done {
			delete(m.transfers, p.ItemID)
			m.order = slices.DeleteFunc(m.order, func(id string) bool { return id == p.ItemID })
			return m, nil
		}
		if _, ok := m.transfers[p.ItemID]; !ok {
			m.order = append(m.order, p.ItemID)
		}
		m.transfers[p.ItemID] = transfer{title: p.Title, written: p.Written, total: p.Total}
		return m, nil

	case DoneMsg:
		m.cancel()
		m.summary = msg.Summary
		m.transfers = make(map[string]transfer)
		m.order = nil
		if msg.Err != nil {
			m.state = StateError
			m.err = msg.Err
			return m, tea.Quit
		}
		m.state = StateComplete
		return m, nil
	}

	return m, nil
}

// View renders the UI.
func (m Model) View() string {
	var b strings.Builder

	// Header
	b.WriteString(titleStyle.Render("🎵 Bandcamp Sync"))
	b.WriteString("\n")
	b.WriteString(dimStyle.Render(fmt.Sprintf("Collection of %s", m.user)))
	b.WriteString("\n\n")

	switch m.state {
	case StateFetching:
		b.WriteString(m.viewFetching())
	case StateSyncing:
		b.WriteString(m.viewSyncing())
	case StateComplete:
		b.WriteString(m.viewComplete())
	case StateError:
		b.WriteString(m.viewError())
	}

	// Footer
	b.WriteString("\n")
	b.WriteString(dimStyle.Render(m.helpText()))

	return b.String()
}

func (m Model) viewFetching() string {
	var b strings.Builder

	b.WriteString(m.spinner.View())
	b.WriteString(" ")
	b.WriteString(subtitleStyle.Render("Fetching collection..."))
	b.WriteString("\n\n")
	b.WriteString(m.renderLogs())

	return b.String()
}

func (m Model) viewSyncing() string {
	var b strings.Builder

	b.WriteString(m.spinner.View())
	b.WriteString(" ")
	if m.stopping {
		b.WriteString(warningStyle.Render("Stopping after the current releases..."))
	} else {
		b.WriteString(subtitleStyle.Render("Syncing"))
	}
	b.WriteString("\n\n")

	for _, id := range m.order {
		t := m.transfers[id]
		b.WriteString(releaseStyle.Render(fmt.Sprintf("  ♪ %s", t.title)))
		b.WriteString("\n  ")
		b.WriteString(m.progress.ViewAs(t.percent()))
		b.WriteString(infoStyle.Render(fmt.Sprintf(" %.2f MB", float64(t.written)/1024/1024)))
		b.WriteString("\n")
	}
	if len(m.order) > 0 {
		b.WriteString("\n")
	}

	b.WriteString(m.renderLogs())

	return b.String()
}

func (m Model) viewComplete() string {
	s := m.summary
	if s == nil {
		s = &download.Summary{}
	}

	heading := "✨ Sync Complete!"
	if m.stopping {
		heading = "✨ Sync Stopped"
	}

	var b strings.Builder
	b.WriteString(boxStyle.Render(fmt.Sprintf(
		"%s\n\n"+
			"Found: %d\n"+
			"Queued: %d\n"+
			"Downloaded: %d\n"+
			"Skipped: %d\n"+
			"Unavailable: %d\n"+
			"Failed: %d",
		heading,
		s.Found,
		s.Queued,
		s.Downloaded,
		s.Skipped,
		s.Sentinels,
		s.Failed,
	)))
	b.WriteString("\n")

	for _, line := range s.DryRun {
		b.WriteString(dimStyle.Render(line))
		b.WriteString("\n")
	}

	return b.String()
}

func (m Model) viewError() string {
	var b strings.Builder

	b.WriteString(errorStyle.Render("❌ Error occurred:"))
	b.WriteString("\n\n")
	if m.err != nil {
		b.WriteString(fmt.Sprintf("  %s", m.err.Error()))
	}

	return b.String()
}

func (m Model) renderLogs() string {
	var b strings.Builder

	for _, log := range m.logs {
		var style lipgloss.Style
		prefix := "•"
		switch log.Level {
		case download.LevelError:
			style = errorStyle
			prefix = "✗"
		case download.LevelWarning:
			style = warningStyle
			prefix = "!"
		case download.LevelSuccess:
			style = successStyle
			prefix = "✓"
		case download.LevelInfo:
			style = infoStyle
			prefix = "›"
		default:
			style = dimStyle
		}
		b.WriteString(style.Render(prefix + " " + log.Message))
		b.WriteString("\n")
	}

	return b.String()
}

func (m Model) helpText() string {
	switch m.state {
	case StateFetching, StateSyncing:
		if m.stopping {
			return "waiting for workers... esc: abort"
		}
		return "esc: stop"
	case StateComplete, StateError:
		return "q: quit"
	}
	return ""
}

// Summary returns the result of the finished run, if any.
func (m Model) Summary() (*download.Summary, error) {
	return m.summary, m.err
}

// Run syncs the collection described by settings while showing progress.
// It returns once the user quits the finished view.
func Run(ctx context.Context, settings *config.Settings, client *http.Client) (*download.Summary, error) {
	var p *tea.Program

	manager := download.NewManager(settings, client, download.Callbacks{
		OnProgress: func(event download.ProgressEvent) {
			p.Send(ProgressMsg{Event: event})
		},
		OnBytes: func(progress download.ByteProgress) {
			p.Send(BytesMsg{Progress: progress})
		},
	})

	p = tea.NewProgram(NewModel(ctx, manager, settings.User, settings.Debug), tea.WithAltScreen())
	final, err := p.Run()
	if err != nil {
		return nil, err
	}
	return final.(Model).Summary()
}
