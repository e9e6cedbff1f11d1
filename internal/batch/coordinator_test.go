package batch

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"spotfetch/internal/ledger"
	"spotfetch/internal/match"
	"spotfetch/internal/model"
	"spotfetch/internal/resolve"
	"spotfetch/internal/source"
)

// fakeSource succeeds for every track except the IDs listed in fail,
// writing the destination file like a real fetch would.
type fakeSource struct {
	pathCfg *model.PathConfig
	fail    map[string]bool

	mu       sync.Mutex
	searches int
}

func (f *fakeSource) Name() string       { return "fake" }
func (f *fakeSource) MinConfidence() int { return match.DefaultMetadataConfidence }

func (f *fakeSource) Search(ctx context.Context, track *model.Track) ([]model.Candidate, error) {
	f.mu.Lock()
	f.searches++
	f.mu.Unlock()

	if f.fail[track.ID] {
		return nil, errors.New("track not found")
	}
	return []model.Candidate{{
		ID:          "c-" + track.ID,
		Title:       track.Title,
		Artist:      track.Artist,
		DurationSec: track.DurationSeconds(),
	}}, nil
}

func (f *fakeSource) Fetch(ctx context.Context, candidate *model.Candidate, track *model.Track) (string, error) {
	dest := track.OutputPath(f.pathCfg)
	if err := os.MkdirAll(filepath.Dir(dest), 0755); err != nil {
		return "", err
	}
	return dest, os.WriteFile(dest, []byte("audio"), 0644)
}

func tracks(ids ...string) []*model.Track {
	out := make([]*model.Track, len(ids))
	for i, id := range ids {
		out[i] = &model.Track{ID: id, Title: "Track " + id, Artist: "Artist", DurationMS: 200000}
	}
	return out
}

type fixture struct {
	coordinator *Coordinator
	ledger      *ledger.Ledger
	source      *fakeSource
	pathCfg     *model.PathConfig
	events      *[]Event
}

func newFixture(t *testing.T, failIDs ...string) *fixture {
	t.Helper()
	dir := t.TempDir()
	pathCfg := &model.PathConfig{OutputDir: dir, FileTemplate: "{title}", Extension: "mp3"}

	fail := make(map[string]bool)
	for _, id := range failIDs {
		fail[id] = true
	}
	src := &fakeSource{pathCfg: pathCfg, fail: fail}

	resolver := resolve.New(resolve.Options{
		Registry:     source.NewRegistry([]source.Source{src}),
		Scorer:       match.NewScorer(match.DefaultWeights()),
		PathConfig:   pathCfg,
		SkipExisting: true,
	})

	led := ledger.New(dir)
	var events []Event
	coordinator := New(Options{
		Resolver:    resolver,
		Ledger:      led,
		MaxParallel: 2,
		OnEvent:     func(e Event) { events = append(events, e) },
	})

	return &fixture{coordinator: coordinator, ledger: led, source: src, pathCfg: pathCfg, events: &events}
}

func TestRun_Counters(t *testing.T) {
	f := newFixture(t, "bad")
	list := tracks("a", "b", "bad", "c", "d")

	// Two tracks already on disk count as skipped.
	for _, track := range list[:2] {
		if err := os.WriteFile(track.OutputPath(f.pathCfg), []byte("existing"), 0644); err != nil {
			t.Fatal(err)
		}
	}

	summary, err := f.coordinator.Run(context.Background(), list)
	if err != nil {
		t.Fatalf("Run() error: %v", err)
	}

	if summary.Completed != 2 || summary.Failed != 1 || summary.Skipped != 2 {
		t.Errorf("summary = %+v, want completed=2 failed=1 skipped=2", summary)
	}
	if summary.Total() != 5 {
		t.Errorf("Total() = %d, want 5", summary.Total())
	}
	if len(*f.events) != 5 {
		t.Errorf("got %d events, want one per track", len(*f.events))
	}
}

func TestRun_FailureIsolation(t *testing.T) {
	f := newFixture(t, "bad")
	list := tracks("a", "bad", "b")

	summary, err := f.coordinator.Run(context.Background(), list)
	if err != nil {
		t.Fatalf("Run() error: %v", err)
	}

	if summary.Completed != 2 {
		t.Errorf("completed = %d, want the two good tracks despite the failure", summary.Completed)
	}
	for _, id := range []string{"a", "b"} {
		track := &model.Track{ID: id, Title: "Track " + id, Artist: "Artist"}
		if _, err := os.Stat(track.OutputPath(f.pathCfg)); err != nil {
			t.Errorf("track %s not downloaded: %v", id, err)
		}
	}
}

func TestRun_LedgerRecordsFailures(t *testing.T) {
	f := newFixture(t, "bad1", "bad2")

	if _, err := f.coordinator.Run(context.Background(), tracks("a", "bad1", "b", "bad2")); err != nil {
		t.Fatalf("Run() error: %v", err)
	}

	entries, err := f.ledger.Load()
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}
	if len(entries) != 2 {
		t.Fatalf("ledger has %d entries, want 2", len(entries))
	}
	// Input order is preserved.
	if entries[0].Identifier != "bad1" || entries[1].Identifier != "bad2" {
		t.Errorf("ledger = %v, want bad1 then bad2", entries)
	}
}

func TestRun_CleanRunRemovesLedger(t *testing.T) {
	f := newFixture(t)

	// A stale ledger from an earlier run.
	if err := f.ledger.Save([]ledger.Entry{{Identifier: "stale"}}); err != nil {
		t.Fatal(err)
	}

	if _, err := f.coordinator.Run(context.Background(), tracks("a", "b")); err != nil {
		t.Fatalf("Run() error: %v", err)
	}

	if _, err := os.Stat(f.ledger.Path()); !os.IsNotExist(err) {
		t.Error("clean run should remove the ledger file")
	}
}

func TestRun_PostProcessOnlyOnFreshDownloads(t *testing.T) {
	f := newFixture(t)
	list := tracks("fresh", "ondisk")

	if err := os.WriteFile(list[1].OutputPath(f.pathCfg), []byte("existing"), 0644); err != nil {
		t.Fatal(err)
	}

	var mu sync.Mutex
	var processed []string
	f.coordinator.postProcess = func(ctx context.Context, track *model.Track, path string) error {
		mu.Lock()
		processed = append(processed, track.ID)
		mu.Unlock()
		return nil
	}

	if _, err := f.coordinator.Run(context.Background(), list); err != nil {
		t.Fatalf("Run() error: %v", err)
	}

	if len(processed) != 1 || processed[0] != "fresh" {
		t.Errorf("post-processed %v, want only the fresh download", processed)
	}
}

func TestRun_PostProcessErrorDoesNotFailTrack(t *testing.T) {
	f := newFixture(t)
	f.coordinator.postProcess = func(ctx context.Context, track *model.Track, path string) error {
		return errors.New("tagging broke")
	}

	summary, err := f.coordinator.Run(context.Background(), tracks("a"))
	if err != nil {
		t.Fatalf("Run() error: %v", err)
	}
	if summary.Completed != 1 || summary.Failed != 0 {
		t.Errorf("summary = %+v, want the track still counted as completed", summary)
	}
}

func TestRun_EmptyInputLeavesLedger(t *testing.T) {
	f := newFixture(t)

	// A catalog hiccup that yields zero tracks must not erase the
	// previous run's retry state.
	if err := f.ledger.Save([]ledger.Entry{{Identifier: "pending"}}); err != nil {
		t.Fatal(err)
	}

	summary, err := f.coordinator.Run(context.Background(), nil)
	if err != nil {
		t.Fatalf("Run() error: %v", err)
	}
	if summary.Total() != 0 {
		t.Errorf("summary = %+v, want empty", summary)
	}

	entries, err := f.ledger.Load()
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}
	if len(entries) != 1 || entries[0].Identifier != "pending" {
		t.Errorf("ledger = %v, want the pending entry untouched", entries)
	}
}

func TestRun_ContextCancellation(t *testing.T) {
	f := newFixture(t)
	f.coordinator.stagger = time.Second

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := f.coordinator.Run(ctx, tracks("a", "b", "c"))
	if !errors.Is(err, context.Canceled) {
		t.Errorf("Run() error = %v, want context.Canceled", err)
	}
}

func TestStartDelay_SpreadsTasks(t *testing.T) {
	c := New(Options{MaxParallel: 2, Stagger: time.Second})

	for i := 0; i < 4; i++ {
		d := c.startDelay(i)
		min := time.Duration(i) * 500 * time.Millisecond
		max := min + 500*time.Millisecond
		if d < min || d > max {
			t.Errorf("startDelay(%d) = %v, want within [%v, %v]", i, d, min, max)
		}
	}
}

func TestStartDelay_ZeroStagger(t *testing.T) {
	c := New(Options{MaxParallel: 2})
	if d := c.startDelay(3); d != 0 {
		t.Errorf("startDelay = %v, want 0 without stagger", d)
	}
}
