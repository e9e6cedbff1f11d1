package source

import (
	"context"
	"errors"

	"spotfetch/internal/model"
)

// Source is the interface every download source adapter implements.
//
// A source has exactly two capabilities: find candidate results for a
// track, and fetch the audio for a chosen candidate. New sources are
// added by implementing this contract and appending the name to the
// configured priority order; the resolution engine never changes.
type Source interface {
	// Name returns the unique source identifier used in configuration
	// and logs.
	Name() string

	// MinConfidence returns the match threshold for this source.
	// Metadata-backed sources use a higher bar than plain search
	// sources, which lack a structured artist field.
	MinConfidence() int

	// Search returns candidate results for the track. A transport or
	// parse failure is not an error the caller must handle: the
	// adapter logs it and the engine treats any error as "no results
	// here" and moves to the next source.
	Search(ctx context.Context, track *model.Track) ([]model.Candidate, error)

	// Fetch retrieves the audio for the chosen candidate and returns
	// the final local file path. Fetch is idempotent: when the
	// destination already exists and skip-existing is enabled it
	// returns the existing path without re-fetching. An empty path
	// with a nil error means the source completed without producing a
	// usable file.
	Fetch(ctx context.Context, candidate *model.Candidate, track *model.Track) (string, error)
}

// ErrNoSources indicates that configuration produced an empty
// registry; a run cannot start without at least one usable source.
var ErrNoSources = errors.New("no download sources available")
