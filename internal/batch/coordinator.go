// Package batch runs track resolution over a whole playlist with
// bounded concurrency.
package batch

import (
	"context"
	"io"
	"log/slog"
	"math/rand"
	"time"

	"golang.org/x/sync/errgroup"

	"spotfetch/internal/ledger"
	"spotfetch/internal/model"
	"spotfetch/internal/resolve"
)

// Event reports one finished track to the progress callback. Events
// are delivered from a single goroutine, in completion order, so the
// callback needs no locking.
type Event struct {
	// Index is the track's position in the input list (0-based).
	Index int

	Track   *model.Track
	Outcome model.Outcome
}

// Summary is the final tally of a batch run.
type Summary struct {
	Completed int
	Failed    int
	Skipped   int

	// FailedTracks lists the tracks behind the Failed count, in input
	// order.
	FailedTracks []*model.Track
}

// Total returns the number of tracks processed.
func (s Summary) Total() int { return s.Completed + s.Failed + s.Skipped }

// PostProcessFunc runs after a successful non-skipped download,
// typically to embed tags and artwork. An error here does not fail the
// track; the audio is already on disk.
type PostProcessFunc func(ctx context.Context, track *model.Track, path string) error

// Coordinator fans a track list out over a bounded worker pool.
type Coordinator struct {
	resolver *resolve.Resolver
	ledger   *ledger.Ledger
	logger   *slog.Logger

	maxParallel int
	stagger     time.Duration

	postProcess PostProcessFunc
	onEvent     func(Event)

	// rng adds jitter to task start times. Seeded per coordinator so
	// tests can not depend on a particular sequence.
	rng *rand.Rand
}

// Options configures a Coordinator.
type Options struct {
	Resolver *resolve.Resolver
	Ledger   *ledger.Ledger
	Logger   *slog.Logger

	// MaxParallel bounds concurrent downloads. Values below 1 are
	// treated as 1.
	MaxParallel int

	// Stagger spreads worker start times across the pool so a burst of
	// tracks does not hit a rate-limited source simultaneously.
	Stagger time.Duration

	// PostProcess, when set, runs after each successful download.
	PostProcess PostProcessFunc

	// OnEvent, when set, receives one event per finished track.
	OnEvent func(Event)
}

// New creates a Coordinator.
func New(opts Options) *Coordinator {
	logger := opts.Logger
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	maxParallel := opts.MaxParallel
	if maxParallel < 1 {
		maxParallel = 1
	}
	return &Coordinator{
		resolver:    opts.Resolver,
		ledger:      opts.Ledger,
		logger:      logger,
		maxParallel: maxParallel,
		stagger:     opts.Stagger,
		postProcess: opts.PostProcess,
		onEvent:     opts.OnEvent,
		rng:         rand.New(rand.NewSource(time.Now().UnixNano())),
	}
}

type result struct {
	index   int
	track   *model.Track
	outcome model.Outcome
}

// Run resolves every track and returns the tally.
//
// Each track is resolved independently: one track failing, on every
// source, never affects another. At the end the failure ledger is
// rewritten to exactly the tracks that failed in this run, or removed
// when none did. An empty input is a no-op that leaves any existing
// ledger in place: nothing was attempted, so nothing about the
// previous run's failures is known to have changed. Run returns an
// error only for context cancellation; per-track failures are
// reported through the Summary.
func (c *Coordinator) Run(ctx context.Context, tracks []*model.Track) (Summary, error) {
	if len(tracks) == 0 {
		return Summary{}, nil
	}

	c.logger.Info("starting batch",
		"tracks", len(tracks),
		"max_parallel", c.maxParallel,
		"stagger", c.stagger)

	results := make(chan result, len(tracks))

	group, gctx := errgroup.WithContext(ctx)
	group.SetLimit(c.maxParallel)

	// Start delays are precomputed up front because rng is not
	// goroutine safe.
	delays := make([]time.Duration, len(tracks))
	for i := range tracks {
		delays[i] = c.startDelay(i)
	}

	for i, track := range tracks {
		i, track := i, track
		group.Go(func() error {
			if err := sleepCtx(gctx, delays[i]); err != nil {
				return err
			}

			outcome, err := c.resolver.Resolve(gctx, track)
			if err != nil {
				return err
			}

			if outcome.Success && !outcome.Skipped && c.postProcess != nil {
				if err := c.postProcess(gctx, track, outcome.Path); err != nil {
					c.logger.Warn("post-processing failed", "track", track.String(), "error", err)
				}
			}

			results <- result{index: i, track: track, outcome: outcome}
			return nil
		})
	}

	// Single collector goroutine owns the tally and the callback, so
	// workers never touch shared state.
	done := make(chan Summary, 1)
	go func() {
		var summary Summary
		failed := make(map[int]*model.Track)
		for res := range results {
			switch {
			case res.outcome.Skipped:
				summary.Skipped++
			case res.outcome.Success:
				summary.Completed++
			default:
				summary.Failed++
				failed[res.index] = res.track
			}
			if c.onEvent != nil {
				c.onEvent(Event{Index: res.index, Track: res.track, Outcome: res.outcome})
			}
		}
		for i, track := range tracks {
			if _, ok := failed[i]; ok {
				summary.FailedTracks = append(summary.FailedTracks, track)
			}
		}
		done <- summary
	}()

	err := group.Wait()
	close(results)
	summary := <-done

	if err != nil {
		return summary, err
	}

	c.logger.Info("batch finished",
		"completed", summary.Completed,
		"failed", summary.Failed,
		"skipped", summary.Skipped)

	return summary, c.saveFailures(summary.FailedTracks)
}

// saveFailures rewrites the ledger to this run's failures. An empty
// failure list removes the ledger so a fully clean run leaves no
// stale state behind.
func (c *Coordinator) saveFailures(failed []*model.Track) error {
	entries := make([]ledger.Entry, 0, len(failed))
	for _, track := range failed {
		entries = append(entries, ledger.EntryFor(track))
	}
	return c.ledger.Save(entries)
}

// startDelay computes the i-th task's start offset: an even spread of
// the stagger interval across the pool, plus up to half an interval of
// jitter.
func (c *Coordinator) startDelay(i int) time.Duration {
	if c.stagger <= 0 {
		return 0
	}
	step := c.stagger / time.Duration(c.maxParallel)
	jitter := time.Duration(c.rng.Int63n(int64(c.stagger)/2 + 1))
	return time.Duration(i)*step + jitter
}

func sleepCtx(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
