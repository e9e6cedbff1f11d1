package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"spotfetch/internal/batch"
	"spotfetch/internal/config"
	"spotfetch/internal/convert"
	"spotfetch/internal/display"
	"spotfetch/internal/ledger"
	"spotfetch/internal/logging"
	"spotfetch/internal/match"
	"spotfetch/internal/model"
	"spotfetch/internal/resolve"
	"spotfetch/internal/source"
	"spotfetch/internal/spotify"
	"spotfetch/internal/tag"

	httpclient "spotfetch/internal/http"
)

// app wires the full download pipeline from settings. Built once per
// command invocation; close releases the log writer.
type app struct {
	settings *config.Settings
	logger   *slog.Logger
	catalog  *spotify.Client
	registry *source.Registry
	ledger   *ledger.Ledger
	reporter *display.Reporter

	coordinator *batch.Coordinator
}

func newApp(ctx context.Context, settings *config.Settings) (*app, func(), error) {
	logger, closeLog := logging.New(logging.Config{
		Level:      settings.Logging.Level,
		FilePath:   logFilePath(settings),
		MaxSizeMB:  settings.Logging.MaxSizeMB,
		MaxBackups: settings.Logging.MaxBackups,
		Console:    settings.Logging.Console,
	})
	cleanup := func() { _ = closeLog() }

	catalog, err := spotify.New(ctx, settings.Spotify.ClientID, settings.Spotify.ClientSecret, logger)
	if err != nil {
		cleanup()
		return nil, nil, fmt.Errorf("%w (set spotify.client_id and spotify.client_secret, or SPOTIFY_CLIENT_ID and SPOTIFY_CLIENT_SECRET)", err)
	}

	if !convert.Available() {
		cleanup()
		return nil, nil, fmt.Errorf("ffmpeg not found on PATH; it is required for audio conversion")
	}

	client := httpclient.NewClient()
	converter := convert.NewConverter(settings.Download.AudioQuality, logger)

	registry, err := source.BuildRegistry(settings, client, converter, logger)
	if err != nil {
		cleanup()
		return nil, nil, err
	}

	resolver := resolve.New(resolve.Options{
		Registry:     registry,
		Scorer:       match.NewScorer(match.DefaultWeights()),
		PathConfig:   settings.ToPathConfig(),
		SkipExisting: settings.Download.SkipExisting,
		Logger:       logger,
	})

	embedder := tag.NewEmbedder(tag.Options{
		EmbedMetadata:  settings.Metadata.EmbedMetadata,
		EmbedArtwork:   settings.Metadata.EmbedArtwork,
		ArtworkMaxSize: settings.Metadata.ArtworkMaxSize,
	}, client, logger)

	led := ledger.New(settings.Download.OutputDir)
	reporter := display.NewReporter(os.Stdout)

	coordinator := batch.New(batch.Options{
		Resolver:    resolver,
		Ledger:      led,
		Logger:      logger,
		MaxParallel: settings.Download.MaxConcurrent,
		Stagger:     time.Duration(settings.Download.StaggerSeconds * float64(time.Second)),
		PostProcess: embedder.Embed,
		OnEvent:     reporter.TrackDone,
	})

	return &app{
		settings:    settings,
		logger:      logger,
		catalog:     catalog,
		registry:    registry,
		ledger:      led,
		reporter:    reporter,
		coordinator: coordinator,
	}, cleanup, nil
}

// runBatch executes the coordinator over tracks and prints the
// summary. The returned error makes the process exit non-zero when
// not a single track could be downloaded.
func (a *app) runBatch(ctx context.Context, title string, tracks []*model.Track) error {
	a.reporter.Header(title, len(tracks), a.registry.Len())

	summary, err := a.coordinator.Run(ctx, tracks)
	if err != nil {
		return err
	}

	a.reporter.Summary(summary, a.ledger.Path())

	if summary.Failed > 0 && summary.Completed == 0 && summary.Skipped == 0 {
		return fmt.Errorf("all %d tracks failed", summary.Failed)
	}
	return nil
}

// resolveInput fetches the track list behind a link of any kind.
func (a *app) resolveInput(ctx context.Context, input string) (string, []*model.Track, error) {
	kind, id, err := spotify.ParseLink(input)
	if err != nil {
		return "", nil, err
	}

	switch kind {
	case spotify.KindTrack:
		track, err := a.catalog.GetTrack(ctx, id)
		if err != nil {
			return "", nil, err
		}
		return track.String(), []*model.Track{track}, nil

	case spotify.KindAlbum:
		tracks, err := a.catalog.GetAlbumTracks(ctx, id)
		if err != nil {
			return "", nil, err
		}
		title := "Album"
		if len(tracks) > 0 {
			title = "Album: " + tracks[0].Album
		}
		return title, tracks, nil

	case spotify.KindPlaylist:
		tracks, err := a.catalog.GetPlaylistTracks(ctx, id)
		if err != nil {
			return "", nil, err
		}
		return "Playlist", tracks, nil
	}

	return "", nil, fmt.Errorf("unsupported link kind %q", kind)
}

func logFilePath(settings *config.Settings) string {
	if settings.Logging.File == "" {
		return ""
	}
	if filepath.IsAbs(settings.Logging.File) {
		return settings.Logging.File
	}
	return filepath.Join(settings.Download.OutputDir, settings.Logging.File)
}
