package resolve

import (
	"context"
	"errors"
	"os"
	"testing"

	"spotfetch/internal/match"
	"spotfetch/internal/model"
	"spotfetch/internal/source"
)

// fakeSource scripts one source's behavior and records how often it
// was called.
type fakeSource struct {
	name       string
	candidates []model.Candidate
	searchErr  error
	fetchPath  string
	fetchErr   error

	searches int
	fetches  int
}

func (f *fakeSource) Name() string       { return f.name }
func (f *fakeSource) MinConfidence() int { return match.DefaultMetadataConfidence }

func (f *fakeSource) Search(ctx context.Context, track *model.Track) ([]model.Candidate, error) {
	f.searches++
	return f.candidates, f.searchErr
}

func (f *fakeSource) Fetch(ctx context.Context, candidate *model.Candidate, track *model.Track) (string, error) {
	f.fetches++
	return f.fetchPath, f.fetchErr
}

func testTrack() *model.Track {
	return &model.Track{ID: "t1", Title: "Beautiful Pain", Artist: "Eminem", DurationMS: 245000}
}

// goodMatch is a candidate that scores well above the strict threshold.
func goodMatch() []model.Candidate {
	return []model.Candidate{{ID: "c1", Title: "Beautiful Pain", Artist: "Eminem", DurationSec: 246}}
}

func newResolver(pathCfg *model.PathConfig, skip bool, sources ...source.Source) *Resolver {
	if pathCfg == nil {
		pathCfg = &model.PathConfig{OutputDir: "/nonexistent", FileTemplate: "{title}", Extension: "mp3"}
	}
	return New(Options{
		Registry:     source.NewRegistry(sources),
		Scorer:       match.NewScorer(match.DefaultWeights()),
		PathConfig:   pathCfg,
		SkipExisting: skip,
	})
}

func TestResolve_FirstSourceWins(t *testing.T) {
	first := &fakeSource{name: "deezer", candidates: goodMatch(), fetchPath: "/music/a.flac"}
	second := &fakeSource{name: "youtube", candidates: goodMatch(), fetchPath: "/music/b.mp3"}

	outcome, err := newResolver(nil, false, first, second).Resolve(context.Background(), testTrack())
	if err != nil {
		t.Fatalf("Resolve() error: %v", err)
	}
	if !outcome.Success || outcome.Source != "deezer" || outcome.Path != "/music/a.flac" {
		t.Errorf("outcome = %+v, want success from deezer", outcome)
	}
	if second.searches != 0 {
		t.Errorf("second source searched %d times, want 0 after first source succeeded", second.searches)
	}
}

func TestResolve_FallsThroughOnSearchError(t *testing.T) {
	first := &fakeSource{name: "deezer", searchErr: errors.New("api down")}
	second := &fakeSource{name: "youtube", candidates: goodMatch(), fetchPath: "/music/b.mp3"}

	outcome, err := newResolver(nil, false, first, second).Resolve(context.Background(), testTrack())
	if err != nil {
		t.Fatalf("Resolve() error: %v", err)
	}
	if !outcome.Success || outcome.Source != "youtube" {
		t.Errorf("outcome = %+v, want fallback to youtube", outcome)
	}
	if first.fetches != 0 {
		t.Error("failed source should never be fetched from")
	}
}

func TestResolve_FallsThroughOnLowConfidence(t *testing.T) {
	noise := []model.Candidate{{ID: "x", Title: "Completely Different", Artist: "Someone"}}
	first := &fakeSource{name: "deezer", candidates: noise, fetchPath: "/music/a.flac"}
	second := &fakeSource{name: "youtube", candidates: goodMatch(), fetchPath: "/music/b.mp3"}

	outcome, err := newResolver(nil, false, first, second).Resolve(context.Background(), testTrack())
	if err != nil {
		t.Fatalf("Resolve() error: %v", err)
	}
	if outcome.Source != "youtube" {
		t.Errorf("outcome = %+v, want youtube after low-confidence deezer results", outcome)
	}
	if first.fetches != 0 {
		t.Error("low-confidence match must not be fetched")
	}
}

func TestResolve_FallsThroughOnFetchError(t *testing.T) {
	first := &fakeSource{name: "deezer", candidates: goodMatch(), fetchErr: errors.New("quota")}
	second := &fakeSource{name: "youtube", candidates: goodMatch(), fetchPath: "/music/b.mp3"}

	outcome, err := newResolver(nil, false, first, second).Resolve(context.Background(), testTrack())
	if err != nil {
		t.Fatalf("Resolve() error: %v", err)
	}
	if outcome.Source != "youtube" {
		t.Errorf("outcome = %+v, want youtube after deezer fetch failure", outcome)
	}
	if first.fetches != 1 {
		t.Errorf("first source fetched %d times, want 1", first.fetches)
	}
}

func TestResolve_AllSourcesFail(t *testing.T) {
	first := &fakeSource{name: "deezer", searchErr: errors.New("down")}
	second := &fakeSource{name: "youtube"}

	outcome, err := newResolver(nil, false, first, second).Resolve(context.Background(), testTrack())
	if err != nil {
		t.Fatalf("Resolve() error: %v", err)
	}
	if outcome.Success {
		t.Errorf("outcome = %+v, want failure when every source is exhausted", outcome)
	}
	if first.searches != 1 || second.searches != 1 {
		t.Errorf("searches = %d/%d, want every source tried once", first.searches, second.searches)
	}
}

func TestResolve_SkipExistingContactsNoSource(t *testing.T) {
	dir := t.TempDir()
	pathCfg := &model.PathConfig{OutputDir: dir, FileTemplate: "{title}", Extension: "mp3"}
	track := testTrack()

	if err := os.WriteFile(track.OutputPath(pathCfg), []byte("audio"), 0644); err != nil {
		t.Fatal(err)
	}

	src := &fakeSource{name: "deezer", candidates: goodMatch(), fetchPath: "/music/a.flac"}
	outcome, err := newResolver(pathCfg, true, src).Resolve(context.Background(), track)
	if err != nil {
		t.Fatalf("Resolve() error: %v", err)
	}
	if !outcome.Success || !outcome.Skipped {
		t.Errorf("outcome = %+v, want skipped success", outcome)
	}
	if src.searches != 0 || src.fetches != 0 {
		t.Errorf("source contacted %d/%d times, want zero network activity for existing file", src.searches, src.fetches)
	}
}

func TestResolve_ContextCancellation(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	src := &fakeSource{name: "deezer", candidates: goodMatch(), fetchPath: "/music/a.flac"}
	_, err := newResolver(nil, false, src).Resolve(ctx, testTrack())
	if !errors.Is(err, context.Canceled) {
		t.Errorf("Resolve() error = %v, want context.Canceled", err)
	}
	if src.searches != 0 {
		t.Error("cancelled resolve must not contact sources")
	}
}
