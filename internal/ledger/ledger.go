package ledger

import (
	"bufio"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strings"
	"sync"
)

// DefaultFileName is the ledger file name used inside the output folder.
// It matches the cache written by bandcamp-collection-downloader, so an
// existing library synced with that tool is picked up as-is.
const DefaultFileName = "bandcamp-collection-downloader.cache"

const delimiter = "|"

// Ledger is an append-only record of processed item IDs, one
// "<id>| <description>" line per record.
//
// Ledger does no locking of its own. Concurrent writers must go through
// Guarded.
type Ledger struct {
	path string
}

// New returns a Ledger backed by the file at path. The file is created on
// the first Append.
func New(path string) *Ledger {
	return &Ledger{path: path}
}

// Snapshot reads the whole ledger and returns the set of recorded IDs.
//
// The ID is everything before the first "|" on a line. A missing ledger
// file is an empty set, not an error.
func (l *Ledger) Snapshot() (map[string]struct{}, error) {
	ids := make(map[string]struct{})

	f, err := os.Open(l.path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return ids, nil
		}
		return nil, fmt.Errorf("open ledger: %w", err)
	}
	defer f.Close()

	scanner := bufio.NewScanner(f)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	for scanner.Scan() {
		line := scanner.Text()
		if line == "" {
			continue
		}
		id, _, _ := strings.Cut(line, delimiter)
		ids[id] = struct{}{}
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("read ledger: %w", err)
	}

	return ids, nil
}

// Contains reports whether id has been recorded. It rereads the file on
// every call so records appended by other writers are seen.
func (l *Ledger) Contains(id string) (bool, error) {
	ids, err := l.Snapshot()
	if err != nil {
		return false, err
	}
	_, ok := ids[id]
	return ok, nil
}

// Append writes one record, creating the ledger file if needed.
func (l *Ledger) Append(id, description string) error {
	f, err := os.OpenFile(l.path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0644)
	if err != nil {
		return fmt.Errorf("open ledger for append: %w", err)
	}

	line := fmt.Sprintf("%s%s %s\n", id, delimiter, description)
	if _, err := f.WriteString(line); err != nil {
		f.Close()
		return fmt.Errorf("append to ledger: %w", err)
	}
	return f.Close()
}

// Guarded serializes access to a Ledger shared by several workers.
type Guarded struct {
	mu     sync.Mutex
	ledger *Ledger
}

// NewGuarded wraps l in a mutex.
func NewGuarded(l *Ledger) *Guarded {
	return &Guarded{ledger: l}
}

// Snapshot returns the recorded IDs.
func (g *Guarded) Snapshot() (map[string]struct{}, error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.ledger.Snapshot()
}

// Record appends a record for id unless one already exists. The check and
// the append happen under one lock, so two workers finishing the same ID
// write it only once. written is false when the ID was already present.
func (g *Guarded) Record(id, description string) (written bool, err error) {
	g.mu.Lock()
	defer g.mu.Unlock()

	ok, err := g.ledger.Contains(id)
	if err != nil {
		return false, err
	}
	if ok {
		return false, nil
	}
	if err := g.ledger.Append(id, description); err != nil {
		return false, err
	}
	return true, nil
}

// Sentinel appends a marker record (e.g. "UNKNOWN", "No downloads") for an
// item that can never be downloaded, so later runs skip it. Duplicates are
// tolerated.
func (g *Guarded) Sentinel(id, marker string) error {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.ledger.Append(id, marker)
}
