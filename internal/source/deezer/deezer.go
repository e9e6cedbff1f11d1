// Package deezer implements the Deezer download source.
//
// Search goes through the public Deezer API, which returns structured
// title/artist/duration data, so matches are held to the strict
// confidence threshold. Fetching delegates to the deemix command-line
// tool (authenticated with the user's ARL token), the same way the
// YouTube source delegates to yt-dlp: this adapter decides *what* to
// download, the external tool handles the retrieval protocol.
package deezer

import (
	"context"
	"fmt"
	"io/fs"
	"log/slog"
	"net/url"
	"os"
	"os/exec"
	"path/filepath"
	"strconv"
	"strings"

	"golang.org/x/time/rate"

	"spotfetch/internal/convert"
	httpclient "spotfetch/internal/http"
	"spotfetch/internal/match"
	"spotfetch/internal/model"
)

const (
	searchURL = "https://api.deezer.com/search"
	trackURL  = "https://www.deezer.com/track/"

	// The public API allows bursts but sustained traffic is throttled
	// around 50 requests per 5 seconds; stay well under it.
	requestsPerSecond = 5
)

// Config holds the adapter settings.
type Config struct {
	// ARLToken authenticates deemix against Deezer. Required.
	ARLToken string

	// MinConfidence overrides the default match threshold when > 0.
	MinConfidence int

	// AudioFormat is the configured output format (flac, mp3, ...).
	AudioFormat string

	// SkipExisting returns the existing destination without
	// re-fetching.
	SkipExisting bool

	// PathConfig derives each track's destination file.
	PathConfig *model.PathConfig
}

// Source is the Deezer adapter.
type Source struct {
	cfg       Config
	client    *httpclient.Client
	converter *convert.Converter
	limiter   *rate.Limiter
	logger    *slog.Logger

	searchBase string
	run        func(ctx context.Context, dir, name string, args ...string) ([]byte, error)
}

// New creates the Deezer source. Returns an error when the adapter
// cannot work at all: no ARL token, or deemix missing from PATH.
func New(cfg Config, client *httpclient.Client, converter *convert.Converter, logger *slog.Logger) (*Source, error) {
	if cfg.ARLToken == "" {
		return nil, fmt.Errorf("deezer: ARL token not configured")
	}
	if _, err := exec.LookPath("deemix"); err != nil {
		return nil, fmt.Errorf("deezer: deemix not found on PATH: %w", err)
	}

	return &Source{
		cfg:        cfg,
		client:     client,
		converter:  converter,
		limiter:    rate.NewLimiter(requestsPerSecond, 1),
		logger:     logger.With(slog.String("source", "deezer")),
		searchBase: searchURL,
		run: func(ctx context.Context, dir, name string, args ...string) ([]byte, error) {
			cmd := exec.CommandContext(ctx, name, args...)
			cmd.Dir = dir
			return cmd.CombinedOutput()
		},
	}, nil
}

// Name implements source.Source.
func (s *Source) Name() string { return "deezer" }

// MinConfidence implements source.Source.
func (s *Source) MinConfidence() int {
	if s.cfg.MinConfidence > 0 {
		return s.cfg.MinConfidence
	}
	return match.DefaultMetadataConfidence
}

// searchResponse mirrors the relevant part of the Deezer search API.
type searchResponse struct {
	Data []searchTrack `json:"data"`
}

type searchTrack struct {
	ID             int64  `json:"id"`
	Title          string `json:"title"`
	Duration       int    `json:"duration"`
	ExplicitLyrics bool   `json:"explicit_lyrics"`
	Link           string `json:"link"`
	Artist         struct {
		Name string `json:"name"`
	} `json:"artist"`
}

// Search queries the Deezer API for "<artist> <title>" and maps the
// results into candidates.
func (s *Source) Search(ctx context.Context, track *model.Track) ([]model.Candidate, error) {
	if err := s.limiter.Wait(ctx); err != nil {
		return nil, err
	}

	query := url.Values{}
	query.Set("q", track.Artist+" "+track.Title)
	query.Set("limit", "10")

	var resp searchResponse
	if err := s.client.GetJSON(ctx, s.searchBase+"?"+query.Encode(), &resp); err != nil {
		s.logger.Warn("search failed", "track", track.String(), "error", err)
		return nil, err
	}

	candidates := make([]model.Candidate, 0, len(resp.Data))
	for _, hit := range resp.Data {
		candidates = append(candidates, model.Candidate{
			ID:          strconv.FormatInt(hit.ID, 10),
			Title:       hit.Title,
			Artist:      hit.Artist.Name,
			DurationSec: hit.Duration,
			Explicit:    hit.ExplicitLyrics,
			FetchRef:    trackURL + strconv.FormatInt(hit.ID, 10),
		})
	}

	s.logger.Debug("search results", "track", track.String(), "count", len(candidates))
	return candidates, nil
}

// Fetch downloads the candidate via deemix into a staging directory,
// then moves the produced file to the track's destination path,
// converting when the configured format differs from what Deezer
// delivered.
func (s *Source) Fetch(ctx context.Context, candidate *model.Candidate, track *model.Track) (string, error) {
	dest := track.OutputPath(s.cfg.PathConfig)

	if s.cfg.SkipExisting {
		if _, err := os.Stat(dest); err == nil {
			s.logger.Debug("destination exists, skipping fetch", "path", dest)
			return dest, nil
		}
	}

	staging, err := os.MkdirTemp("", "spotfetch-deezer-*")
	if err != nil {
		return "", err
	}
	defer os.RemoveAll(staging)

	if err := s.writeARL(staging); err != nil {
		return "", err
	}

	bitrate := "flac"
	if s.cfg.AudioFormat != "flac" {
		bitrate = "320"
	}

	out, err := s.run(ctx, staging, "deemix",
		"--portable",
		"--path", staging,
		"--bitrate", bitrate,
		candidate.FetchRef,
	)
	if err != nil {
		return "", fmt.Errorf("deemix: %w: %s", err, strings.TrimSpace(string(out)))
	}

	produced, err := findAudioFile(staging)
	if err != nil {
		return "", err
	}

	if err := os.MkdirAll(filepath.Dir(dest), 0755); err != nil {
		return "", err
	}

	// Keep the produced extension while staging so a later conversion
	// sees the real container.
	moved := strings.TrimSuffix(dest, filepath.Ext(dest)) + filepath.Ext(produced)
	if err := moveFile(produced, moved); err != nil {
		return "", err
	}

	final, err := s.converter.Convert(ctx, moved, s.cfg.AudioFormat)
	if err != nil {
		return "", err
	}

	return final, nil
}

// writeARL places the session token where portable deemix expects it.
func (s *Source) writeARL(workDir string) error {
	configDir := filepath.Join(workDir, "config")
	if err := os.MkdirAll(configDir, 0700); err != nil {
		return err
	}
	return os.WriteFile(filepath.Join(configDir, ".arl"), []byte(s.cfg.ARLToken), 0600)
}

var audioExtensions = map[string]bool{
	".flac": true,
	".mp3":  true,
	".m4a":  true,
}

// findAudioFile locates the audio file deemix wrote into the staging
// tree. deemix nests output under artist/album folders, so walk.
func findAudioFile(root string) (string, error) {
	var found string
	err := filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil || d.IsDir() {
			return err
		}
		if audioExtensions[strings.ToLower(filepath.Ext(path))] {
			found = path
			return filepath.SkipAll
		}
		return nil
	})
	if err != nil {
		return "", err
	}
	if found == "" {
		return "", fmt.Errorf("deemix completed but produced no audio file")
	}
	return found, nil
}

// moveFile renames src to dst, falling back to copy+remove across
// filesystems (staging lives in the system temp dir).
func moveFile(src, dst string) error {
	if err := os.Rename(src, dst); err == nil {
		return nil
	}
	data, err := os.ReadFile(src)
	if err != nil {
		return err
	}
	if err := os.WriteFile(dst, data, 0644); err != nil {
		return err
	}
	return os.Remove(src)
}
