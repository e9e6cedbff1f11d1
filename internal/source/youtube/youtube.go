// Package youtube implements the YouTube download source.
//
// Both search and fetch delegate to yt-dlp. Search results come from
// yt-dlp's flat playlist extraction as one JSON document per line,
// which carries only a video title, duration and uploader, so matches
// are held to the relaxed search threshold and lean on the uploader
// heuristics (official channels, VEVO) instead of a structured artist
// field.
package youtube

import (
	"bufio"
	"bytes"
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/exec"
	"path/filepath"
	"strings"

	"github.com/tidwall/gjson"

	"spotfetch/internal/convert"
	"spotfetch/internal/match"
	"spotfetch/internal/model"
)

const watchURL = "https://www.youtube.com/watch?v="

// DefaultQueryFormat is the search query template. Placeholders are
// {artist} and {title}.
const DefaultQueryFormat = "{artist} - {title} official audio"

// Config holds the adapter settings.
type Config struct {
	// QueryFormat overrides DefaultQueryFormat when non-empty.
	QueryFormat string

	// MaxResults bounds how many search hits are scored. Defaults to 5.
	MaxResults int

	// MinConfidence overrides the default match threshold when > 0.
	MinConfidence int

	// AudioFormat is the configured output format (flac, mp3, ...).
	AudioFormat string

	// AudioQuality is the yt-dlp audio quality argument (0 is best).
	AudioQuality string

	// SkipExisting returns the existing destination without
	// re-fetching.
	SkipExisting bool

	// PathConfig derives each track's destination file.
	PathConfig *model.PathConfig
}

// Source is the YouTube adapter.
type Source struct {
	cfg       Config
	converter *convert.Converter
	logger    *slog.Logger

	run func(ctx context.Context, name string, args ...string) ([]byte, error)
}

// New creates the YouTube source. Fails when yt-dlp is not on PATH,
// since neither search nor fetch can work without it.
func New(cfg Config, converter *convert.Converter, logger *slog.Logger) (*Source, error) {
	if _, err := exec.LookPath("yt-dlp"); err != nil {
		return nil, fmt.Errorf("youtube: yt-dlp not found on PATH: %w", err)
	}
	if cfg.MaxResults <= 0 {
		cfg.MaxResults = 5
	}
	if cfg.QueryFormat == "" {
		cfg.QueryFormat = DefaultQueryFormat
	}

	return &Source{
		cfg:       cfg,
		converter: converter,
		logger:    logger.With(slog.String("source", "youtube")),
		run: func(ctx context.Context, name string, args ...string) ([]byte, error) {
			return exec.CommandContext(ctx, name, args...).Output()
		},
	}, nil
}

// Name implements source.Source.
func (s *Source) Name() string { return "youtube" }

// MinConfidence implements source.Source.
func (s *Source) MinConfidence() int {
	if s.cfg.MinConfidence > 0 {
		return s.cfg.MinConfidence
	}
	return match.DefaultSearchConfidence
}

// Search runs a yt-dlp flat search and maps each result line into a
// candidate.
func (s *Source) Search(ctx context.Context, track *model.Track) ([]model.Candidate, error) {
	query := strings.NewReplacer(
		"{artist}", track.Artist,
		"{title}", track.Title,
	).Replace(s.cfg.QueryFormat)

	out, err := s.run(ctx, "yt-dlp",
		"--dump-json",
		"--flat-playlist",
		"--no-warnings",
		fmt.Sprintf("ytsearch%d:%s", s.cfg.MaxResults, query),
	)
	if err != nil {
		s.logger.Warn("search failed", "track", track.String(), "error", err)
		return nil, fmt.Errorf("yt-dlp search: %w", err)
	}

	candidates := parseSearchOutput(out)
	s.logger.Debug("search results", "track", track.String(), "query", query, "count", len(candidates))
	return candidates, nil
}

// parseSearchOutput decodes yt-dlp's line-delimited JSON search dump.
// Lines that are not valid JSON or lack an id are skipped rather than
// failing the whole search.
func parseSearchOutput(out []byte) []model.Candidate {
	var candidates []model.Candidate

	scanner := bufio.NewScanner(bytes.NewReader(out))
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	for scanner.Scan() {
		line := scanner.Bytes()
		if !gjson.ValidBytes(line) {
			continue
		}
		doc := gjson.ParseBytes(line)

		id := doc.Get("id").String()
		if id == "" {
			continue
		}

		uploader := doc.Get("uploader").String()
		if uploader == "" {
			uploader = doc.Get("channel").String()
		}

		title := doc.Get("title").String()
		lower := strings.ToLower(title + " " + uploader)

		candidates = append(candidates, model.Candidate{
			ID:              id,
			Title:           title,
			DurationSec:     int(doc.Get("duration").Int()),
			Uploader:        uploader,
			Official:        strings.Contains(lower, "official"),
			OfficialChannel: strings.Contains(lower, "vevo"),
			FetchRef:        watchURL + id,
		})
	}

	return candidates
}

// Fetch downloads the candidate's audio with yt-dlp directly to the
// track's destination path. YouTube audio is lossy, so when the
// configured format is flac the adapter extracts the best available
// stream as m4a and transcodes; flac from yt-dlp would be an upscale
// lie about the source quality, but users who configure flac get a
// consistent library extension.
func (s *Source) Fetch(ctx context.Context, candidate *model.Candidate, track *model.Track) (string, error) {
	dest := track.OutputPath(s.cfg.PathConfig)

	if s.cfg.SkipExisting {
		if _, err := os.Stat(dest); err == nil {
			s.logger.Debug("destination exists, skipping fetch", "path", dest)
			return dest, nil
		}
	}

	if err := os.MkdirAll(filepath.Dir(dest), 0755); err != nil {
		return "", err
	}

	fetchFormat := s.cfg.AudioFormat
	if fetchFormat == "flac" || fetchFormat == "wav" {
		fetchFormat = "m4a"
	}

	quality := s.cfg.AudioQuality
	if quality == "" {
		quality = "0"
	}

	stem := strings.TrimSuffix(dest, filepath.Ext(dest))
	args := []string{
		"--extract-audio",
		"--audio-format", fetchFormat,
		"--audio-quality", quality,
		"--no-playlist",
		"--no-warnings",
		"--output", stem + ".%(ext)s",
		candidate.FetchRef,
	}

	if out, err := s.run(ctx, "yt-dlp", args...); err != nil {
		return "", fmt.Errorf("yt-dlp fetch: %w: %s", err, firstLine(out))
	}

	produced := stem + "." + fetchFormat
	if _, err := os.Stat(produced); err != nil {
		return "", fmt.Errorf("yt-dlp completed but %s is missing", produced)
	}

	return s.converter.Convert(ctx, produced, s.cfg.AudioFormat)
}

func firstLine(out []byte) string {
	t := strings.TrimSpace(string(out))
	if i := strings.IndexByte(t, '\n'); i >= 0 {
		t = t[:i]
	}
	return t
}
