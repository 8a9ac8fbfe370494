package download

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"strings"
	"sync"
	"sync/atomic"

	"github.com/handiism/bandcamp-sync/internal/audio"
	"github.com/handiism/bandcamp-sync/internal/bandcamp"
	"github.com/handiism/bandcamp-sync/internal/config"
	"github.com/handiism/bandcamp-sync/internal/http"
	ioutils "github.com/handiism/bandcamp-sync/internal/io"
	"github.com/handiism/bandcamp-sync/internal/ledger"
	"github.com/handiism/bandcamp-sync/internal/model"
	"github.com/handiism/bandcamp-sync/internal/queue"
	"golang.org/x/sync/errgroup"
)

// Ledger markers for items that can never be downloaded.
const (
	SentinelUnknown     = "UNKNOWN"
	SentinelNoDownloads = "No downloads"
)

// ProgressLevel indicates the severity/type of a progress message.
type ProgressLevel int

const (
	LevelInfo ProgressLevel = iota
	LevelVerbose
	LevelWarning
	LevelError
	LevelSuccess
)

// ProgressEvent represents a sync progress update.
type ProgressEvent struct {
	Message string
	Level   ProgressLevel

	// ItemID is set for events about a single item.
	ItemID string
}

// ByteProgress reports how far a single download has come.
type ByteProgress struct {
	ItemID  string
	Title   string
	Written int64
	Total   int64 // -1 when unknown
	Done    bool
}

// Callbacks receive progress from a running Manager. Both are optional and
// are called from worker goroutines.
type Callbacks struct {
	OnProgress func(ProgressEvent)
	OnBytes    func(ByteProgress)
}

// Summary is what a run did.
type Summary struct {
	// Title is the collection page title.
	Title string

	// Found is the size of the whole collection.
	Found int

	// Queued is how many items were handed to workers after the ledger
	// filter and limit.
	Queued int

	Downloaded int
	Skipped    int
	Failed     int
	Sentinels  int

	// DryRun holds one "<id>, <title> - <artist>" line per item a dry run
	// would have downloaded.
	DryRun []string
}

// Manager synchronizes one fan's collection to disk.
//
// A run fetches the collection once, drops what the ledger already knows,
// and lets a fixed pool of workers drain the remaining items. Each worker
// resolves an item, downloads it and records it in the ledger. Per-item
// failures are reported and skipped; they never stop the run.
type Manager struct {
	settings   *config.Settings
	collection *bandcamp.Collection
	resolver   *bandcamp.Resolver
	extractor  *Extractor
	ledger     *ledger.Guarded
	callbacks  Callbacks

	stopped atomic.Bool

	downloaded atomic.Int64
	skipped    atomic.Int64
	failed     atomic.Int64
	sentinels  atomic.Int64

	mu     sync.Mutex
	dryRun []string
}

// NewManager creates a new Manager. client is shared by every worker, so
// its limiter bounds the request rate of the whole run.
func NewManager(settings *config.Settings, client *http.Client, callbacks Callbacks) *Manager {
	playlistFormat, err := audio.ParsePlaylistFormat(settings.PlaylistFormat)
	if err != nil {
		playlistFormat = audio.FormatM3U
	}

	m := &Manager{settings: settings, callbacks: callbacks}

	m.collection = bandcamp.NewCollection(client, bandcamp.CollectionOptions{
		BaseURL:       settings.BaseURL,
		IncludeHidden: settings.IncludeHidden,
		OnPage: func(kind string, items int) {
			m.progress(ProgressEvent{Message: fmt.Sprintf("Fetched %d more %s", items, kind), Level: LevelVerbose})
		},
	})
	m.resolver = bandcamp.NewResolver(client)
	m.extractor = NewExtractor(client, ExtractorOptions{
		SaveCover:      settings.SaveCoverArt,
		CoverMaxSize:   settings.CoverMaxSize,
		TagMP3:         settings.TagMP3,
		CreatePlaylist: settings.CreatePlaylist,
		PlaylistFormat: playlistFormat,
		M3UExtended:    settings.M3UExtended,
	})
	m.ledger = ledger.NewGuarded(ledger.New(settings.LedgerPath(ledger.DefaultFileName)))

	return m
}

// Stop asks the workers to finish the item they are on and exit. Items
// still queued are left for the next run.
func (m *Manager) Stop() {
	m.stopped.Store(true)
}

// Run performs one sync.
//
// Only a failure to obtain the collection (or to read the ledger) is
// returned as an error; everything that goes wrong for a single item is
// reported through the callbacks and counted in the Summary.
func (m *Manager) Run(ctx context.Context) (*Summary, error) {
	root := m.settings.OutputFolder
	if err := ioutils.EnsureDir(root); err != nil {
		return nil, &FilesystemError{Op: "create output folder", Path: root, Err: err}
	}

	m.reset()
	m.progress(ProgressEvent{Message: fmt.Sprintf("Fetching collection of %s", m.settings.User), Level: LevelInfo})

	collection, err := m.collection.Fetch(ctx, m.settings.User)
	if err != nil {
		return nil, fmt.Errorf("fetch collection: %w", err)
	}

	m.progress(ProgressEvent{Message: fmt.Sprintf("Collection of fan %s: %q", collection.FanID, collection.Title), Level: LevelVerbose})

	known, err := m.ledger.Snapshot()
	if err != nil {
		return nil, err
	}
	m.progress(ProgressEvent{
		Message: fmt.Sprintf("%d releases recorded in %s", len(known), m.settings.LedgerPath(ledger.DefaultFileName)),
		Level:   LevelVerbose,
	})

	work := selectWork(collection.Items, known, m.settings.Force, m.settings.Limit)

	summary := &Summary{
		Title:  collection.Title,
		Found:  len(collection.Items),
		Queued: len(work),
	}

	verb := "download"
	if m.settings.DryRun {
		verb = "fetch information for"
	}
	m.progress(ProgressEvent{
		Message: fmt.Sprintf("Found %d releases, trying to %s %d", summary.Found, verb, summary.Queued),
		Level:   LevelInfo,
	})

	q := queue.New(work)

	var g errgroup.Group
	for i := range max(m.settings.Jobs, 1) {
		g.Go(func() error {
			m.work(ctx, i, q)
			return nil
		})
	}
	g.Wait()

	summary.Downloaded = int(m.downloaded.Load())
	summary.Skipped = int(m.skipped.Load())
	summary.Failed = int(m.failed.Load())
	summary.Sentinels = int(m.sentinels.Load())

	m.mu.Lock()
	summary.DryRun = slices.Clone(m.dryRun)
	m.mu.Unlock()
	slices.Sort(summary.DryRun)

	return summary, nil
}

func (m *Manager) reset() {
	m.downloaded.Store(0)
	m.skipped.Store(0)
	m.failed.Store(0)
	m.sentinels.Store(0)

	m.mu.Lock()
	m.dryRun = nil
	m.mu.Unlock()
}

// selectWork turns the collection into a work list: items already in the
// ledger are dropped unless force is set, then at most limit items are kept
// (0 means all). IDs are sorted so the limit picks the same items on every
// run.
func selectWork(items map[string]string, known map[string]struct{}, force bool, limit int) []model.WorkItem {
	ids := make([]string, 0, len(items))
	for id := range items {
		if _, done := known[id]; done && !force {
			continue
		}
		ids = append(ids, id)
	}
	slices.Sort(ids)

	if limit > 0 && len(ids) > limit {
		ids = ids[:limit]
	}

	work := make([]model.WorkItem, len(ids))
	for i, id := range ids {
		work[i] = model.WorkItem{ID: id, URL: items[id]}
	}
	return work
}

// work is one worker's loop. It polls the stop flag and the context between
// items, never in the middle of one.
func (m *Manager) work(ctx context.Context, worker int, q *queue.Queue[model.WorkItem]) {
	for {
		if m.stopped.Load() || ctx.Err() != nil {
			return
		}

		w, ok := q.Take()
		if !ok {
			return
		}

		m.progress(ProgressEvent{Message: fmt.Sprintf("worker %d taking %s (%d left)", worker, w.ID, q.Len()), Level: LevelVerbose, ItemID: w.ID})
		m.process(ctx, w)
	}
}

func (m *Manager) process(ctx context.Context, w model.WorkItem) {
	item, err := m.resolver.Resolve(ctx, w.ID, w.URL)
	if errors.Is(err, bandcamp.ErrNotFound) {
		m.progress(ProgressEvent{Message: fmt.Sprintf("Could not find digital item for %s", w.ID), Level: LevelWarning, ItemID: w.ID})
		m.sentinel(w.ID, SentinelUnknown)
		return
	}
	if err != nil {
		m.reportResolveError(w, err)
		return
	}

	if !m.matchesFilter(item) {
		m.skipped.Add(1)
		m.progress(ProgressEvent{Message: fmt.Sprintf("Skipping %s, filtered out", item.FullTitle()), Level: LevelVerbose, ItemID: w.ID})
		return
	}

	if !item.HasDownloads() {
		m.progress(ProgressEvent{Message: fmt.Sprintf("Skipping %s, does not have any downloads", w.ID), Level: LevelWarning, ItemID: w.ID})
		m.sentinel(w.ID, SentinelNoDownloads)
		return
	}

	if m.settings.DryRun {
		m.mu.Lock()
		m.dryRun = append(m.dryRun, fmt.Sprintf("%s, %s", item.ID, item.FullTitle()))
		m.mu.Unlock()
		return
	}

	m.progress(ProgressEvent{
		Message: fmt.Sprintf("Trying %s, %s (single: %t)", item.ID, item.FullTitle(), item.IsSingle()),
		Level:   LevelInfo,
		ItemID:  item.ID,
	})

	dir := item.DestinationPath(m.settings.OutputFolder)
	if err := ioutils.EnsureDir(dir); err != nil {
		m.fail(item.ID, &FilesystemError{Op: "create", Path: dir, Err: err})
		return
	}

	res, err := m.extractor.FetchAndStore(ctx, item, dir, m.settings.Format, func(written, total int64) {
		m.bytes(ByteProgress{ItemID: item.ID, Title: item.FullTitle(), Written: written, Total: total})
	})
	m.bytes(ByteProgress{ItemID: item.ID, Title: item.FullTitle(), Done: true})
	if err != nil {
		m.fail(item.ID, err)
		return
	}

	for _, warning := range res.Warnings {
		m.progress(ProgressEvent{Message: fmt.Sprintf("%s: %v", item.FullTitle(), warning), Level: LevelWarning, ItemID: item.ID})
	}

	if _, err := m.ledger.Record(item.ID, item.Description()); err != nil {
		m.fail(item.ID, fmt.Errorf("record in ledger: %w", err))
		return
	}

	m.downloaded.Add(1)
	m.progress(ProgressEvent{Message: fmt.Sprintf("(Done) %s", item.FullTitle()), Level: LevelSuccess, ItemID: item.ID})
}

func (m *Manager) reportResolveError(w model.WorkItem, err error) {
	m.fail(w.ID, err)

	var pe *bandcamp.ParseError
	if !errors.As(err, &pe) {
		return
	}
	if m.settings.Debug && pe.Blob != "" {
		m.progress(ProgressEvent{Message: fmt.Sprintf("Data blob for %s:\n%s", w.URL, pe.Blob), Level: LevelVerbose, ItemID: w.ID})
	} else {
		m.progress(ProgressEvent{Message: "Run with --debug to see the full JSON blob", Level: LevelVerbose, ItemID: w.ID})
	}
}

// matchesFilter applies the optional artist/album filters as
// case-insensitive substring matches.
func (m *Manager) matchesFilter(item *model.Item) bool {
	return containsFold(item.Artist, m.settings.Artist) && containsFold(item.Title, m.settings.Album)
}

func containsFold(s, substr string) bool {
	return substr == "" || strings.Contains(strings.ToLower(s), strings.ToLower(substr))
}

func (m *Manager) sentinel(id, marker string) {
	if err := m.ledger.Sentinel(id, marker); err != nil {
		m.fail(id, fmt.Errorf("record in ledger: %w", err))
		return
	}
	m.sentinels.Add(1)
}

func (m *Manager) fail(id string, err error) {
	m.failed.Add(1)
	m.progress(ProgressEvent{Message: fmt.Sprintf("An error: %v; skipped.", err), Level: LevelError, ItemID: id})
}

func (m *Manager) progress(event ProgressEvent) {
	if m.callbacks.OnProgress != nil {
		m.callbacks.OnProgress(event)
	}
}

func (m *Manager) bytes(p ByteProgress) {
	if m.callbacks.OnBytes != nil {
		m.callbacks.OnBytes(p)
	}
}
