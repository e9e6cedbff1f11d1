// Package ledger persists the set of tracks that failed to download,
// so a later run can retry exactly those.
package ledger

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"spotfetch/internal/model"
)

// FileName is the ledger file kept in the download output directory.
const FileName = ".failed_downloads.json"

// Entry is one failed track. It carries just enough metadata to retry
// the track without re-reading the original playlist.
type Entry struct {
	Identifier string `json:"identifier"`
	Title      string `json:"title"`
	Artist     string `json:"artist"`
	SourceURL  string `json:"source_url"`
}

// document is the on-disk format.
type document struct {
	Timestamp   string  `json:"timestamp"`
	TotalFailed int     `json:"total_failed"`
	Tracks      []Entry `json:"tracks"`
}

// Ledger reads and writes the failure file for one output directory.
type Ledger struct {
	path string

	now func() time.Time
}

// New creates a Ledger rooted at the given output directory.
func New(outputDir string) *Ledger {
	return &Ledger{
		path: filepath.Join(outputDir, FileName),
		now:  time.Now,
	}
}

// Path returns the ledger file location.
func (l *Ledger) Path() string { return l.path }

// Load reads the persisted failures. A missing file is an empty
// ledger, not an error. Both the current document format and the older
// bare-array format are accepted.
func (l *Ledger) Load() ([]Entry, error) {
	data, err := os.ReadFile(l.path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, err
	}

	var doc document
	if err := json.Unmarshal(data, &doc); err == nil && doc.Tracks != nil {
		return doc.Tracks, nil
	}

	// Older versions wrote the track list directly.
	var entries []Entry
	if err := json.Unmarshal(data, &entries); err != nil {
		return nil, fmt.Errorf("parsing %s: %w", l.path, err)
	}
	return entries, nil
}

// Save replaces the ledger with the given entries. The previous
// content never survives a save, so retried-and-fixed tracks drop out
// naturally. Saving an empty list removes the file entirely.
func (l *Ledger) Save(entries []Entry) error {
	if len(entries) == 0 {
		return l.Clear()
	}

	doc := document{
		Timestamp:   l.now().Format(time.RFC3339),
		TotalFailed: len(entries),
		Tracks:      entries,
	}

	data, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return err
	}

	if err := os.MkdirAll(filepath.Dir(l.path), 0755); err != nil {
		return err
	}
	return os.WriteFile(l.path, data, 0644)
}

// Clear removes the ledger file. Clearing an absent file is a no-op.
func (l *Ledger) Clear() error {
	if err := os.Remove(l.path); err != nil && !os.IsNotExist(err) {
		return err
	}
	return nil
}

// EntryFor converts a track into its ledger representation.
func EntryFor(track *model.Track) Entry {
	return Entry{
		Identifier: track.ID,
		Title:      track.Title,
		Artist:     track.Artist,
		SourceURL:  track.SourceURL,
	}
}

// ToTrack converts a ledger entry back into a track for retrying. Only
// the identity fields survive the round trip; the retry path refreshes
// full metadata from the catalog before resolving.
func (e Entry) ToTrack() *model.Track {
	return &model.Track{
		ID:        e.Identifier,
		Title:     e.Title,
		Artist:    e.Artist,
		SourceURL: e.SourceURL,
	}
}
