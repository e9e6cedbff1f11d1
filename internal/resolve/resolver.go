// Package resolve walks the configured sources in priority order to
// locate and download one track.
package resolve

import (
	"context"
	"io"
	"log/slog"
	"os"

	"spotfetch/internal/match"
	"spotfetch/internal/model"
	"spotfetch/internal/source"
)

// Resolver tries each source in the registry's order until one
// produces a usable file.
//
// Source failures never abort a track: a search error, an empty result
// set, a best score below the source's threshold, and a fetch error
// all mean the same thing to the resolver, "not available here", and
// it moves on to the next source. Only when every source has been
// tried does the track count as failed.
type Resolver struct {
	registry *source.Registry
	scorer   *match.Scorer
	logger   *slog.Logger

	// pathConfig and skipExisting implement the pre-flight existence
	// check: a track whose destination file already exists is reported
	// as skipped before any source is contacted.
	pathConfig   *model.PathConfig
	skipExisting bool
}

// Options configures a Resolver.
type Options struct {
	Registry     *source.Registry
	Scorer       *match.Scorer
	PathConfig   *model.PathConfig
	SkipExisting bool
	Logger       *slog.Logger
}

// New creates a Resolver.
func New(opts Options) *Resolver {
	logger := opts.Logger
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return &Resolver{
		registry:     opts.Registry,
		scorer:       opts.Scorer,
		logger:       logger,
		pathConfig:   opts.PathConfig,
		skipExisting: opts.SkipExisting,
	}
}

// Resolve downloads one track, trying sources in priority order.
//
// The returned outcome reports which source succeeded and where the
// file landed. Outcome.Skipped is set when the destination already
// existed and no source was contacted. A failed track returns
// Success=false with a nil error; the error return is reserved for
// context cancellation, which must stop the whole batch rather than
// count as a per-track failure.
func (r *Resolver) Resolve(ctx context.Context, track *model.Track) (model.Outcome, error) {
	if r.skipExisting {
		dest := track.OutputPath(r.pathConfig)
		if _, err := os.Stat(dest); err == nil {
			r.logger.Info("already downloaded", "track", track.String(), "path", dest)
			return model.Outcome{Success: true, Skipped: true, Path: dest}, nil
		}
	}

	for _, src := range r.registry.Sources() {
		if err := ctx.Err(); err != nil {
			return model.Outcome{}, err
		}

		path, ok := r.trySource(ctx, src, track)
		if ok {
			r.logger.Info("resolved", "track", track.String(), "source", src.Name(), "path", path)
			return model.Outcome{Success: true, Source: src.Name(), Path: path}, nil
		}

		if err := ctx.Err(); err != nil {
			return model.Outcome{}, err
		}
	}

	r.logger.Warn("all sources exhausted", "track", track.String(), "sources", r.registry.Names())
	return model.Outcome{}, nil
}

// trySource runs one source's search-score-fetch sequence. Any failure
// is logged and collapsed into "not available here".
func (r *Resolver) trySource(ctx context.Context, src source.Source, track *model.Track) (string, bool) {
	candidates, err := src.Search(ctx, track)
	if err != nil {
		r.logger.Warn("search failed, trying next source", "track", track.String(), "source", src.Name(), "error", err)
		return "", false
	}
	if len(candidates) == 0 {
		r.logger.Debug("no results", "track", track.String(), "source", src.Name())
		return "", false
	}

	best := r.scorer.SelectBest(track, candidates, src.MinConfidence())
	if best == nil {
		r.logger.Debug("no confident match", "track", track.String(), "source", src.Name(),
			"candidates", len(candidates), "threshold", src.MinConfidence())
		return "", false
	}

	path, err := src.Fetch(ctx, best, track)
	if err != nil {
		r.logger.Warn("fetch failed, trying next source", "track", track.String(), "source", src.Name(), "error", err)
		return "", false
	}
	if path == "" {
		return "", false
	}

	return path, true
}
