package source

import (
	"fmt"
	"log/slog"

	"spotfetch/internal/config"
	"spotfetch/internal/convert"
	"spotfetch/internal/source/deezer"
	"spotfetch/internal/source/youtube"

	httpclient "spotfetch/internal/http"
)

// BuildRegistry constructs the registry from configuration.
//
// Sources appear in the registry in the order the sources.priority
// setting lists them. A source that is disabled, unknown, or fails to
// initialize (missing credential, missing external tool) is logged and
// skipped rather than aborting the run; ErrNoSources is returned only
// when nothing remains.
func BuildRegistry(cfg *config.Settings, client *httpclient.Client, converter *convert.Converter, logger *slog.Logger) (*Registry, error) {
	pathCfg := cfg.ToPathConfig()

	var sources []Source
	for _, name := range cfg.Sources.Priority {
		switch name {
		case "deezer":
			if !cfg.Sources.Deezer.Enabled {
				continue
			}
			s, err := deezer.New(deezer.Config{
				ARLToken:      cfg.Sources.Deezer.ARLToken,
				MinConfidence: cfg.Sources.Deezer.MinConfidence,
				AudioFormat:   cfg.Download.AudioFormat,
				SkipExisting:  cfg.Download.SkipExisting,
				PathConfig:    pathCfg,
			}, client, converter, logger)
			if err != nil {
				logger.Warn("source unavailable", "source", name, "error", err)
				continue
			}
			sources = append(sources, s)

		case "youtube":
			if !cfg.Sources.YouTube.Enabled {
				continue
			}
			s, err := youtube.New(youtube.Config{
				QueryFormat:   cfg.Sources.YouTube.SearchQueryFormat,
				MaxResults:    cfg.Sources.YouTube.MaxResults,
				MinConfidence: cfg.Sources.YouTube.MinConfidence,
				AudioFormat:   cfg.Download.AudioFormat,
				AudioQuality:  cfg.Download.AudioQuality,
				SkipExisting:  cfg.Download.SkipExisting,
				PathConfig:    pathCfg,
			}, converter, logger)
			if err != nil {
				logger.Warn("source unavailable", "source", name, "error", err)
				continue
			}
			sources = append(sources, s)

		default:
			logger.Warn("unknown source in priority list", "source", name)
		}
	}

	if len(sources) == 0 {
		return nil, fmt.Errorf("%w: check sources configuration and credentials", ErrNoSources)
	}
	return NewRegistry(sources), nil
}
