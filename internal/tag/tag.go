// Package tag embeds catalog metadata and cover art into downloaded
// audio files.
//
// The catalog metadata always wins over whatever the source delivered:
// a file fetched from a video site carries the uploader's title string,
// not the album credits, so every tag is rewritten from the catalog
// track after download.
package tag

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"path/filepath"
	"strings"

	httpclient "spotfetch/internal/http"
	"spotfetch/internal/model"
)

// Options configures the Embedder.
type Options struct {
	// EmbedMetadata enables writing text tags.
	EmbedMetadata bool

	// EmbedArtwork enables downloading and embedding cover art.
	EmbedArtwork bool

	// ArtworkMaxSize bounds the embedded cover's dimensions in pixels.
	// Zero means no resizing.
	ArtworkMaxSize int
}

// Embedder routes each file to the writer for its container format.
type Embedder struct {
	opts   Options
	client *httpclient.Client
	logger *slog.Logger
}

// NewEmbedder creates an Embedder. The HTTP client is used to download
// cover art.
func NewEmbedder(opts Options, client *httpclient.Client, logger *slog.Logger) *Embedder {
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return &Embedder{opts: opts, client: client, logger: logger}
}

// Embed writes the track's metadata into the file at path. Formats
// without tag support (wav) are silently left alone. Artwork problems
// degrade to tags-only rather than failing the embed.
func (e *Embedder) Embed(ctx context.Context, track *model.Track, path string) error {
	if !e.opts.EmbedMetadata && !e.opts.EmbedArtwork {
		return nil
	}

	artwork := e.fetchArtwork(ctx, track)

	switch strings.ToLower(filepath.Ext(path)) {
	case ".mp3":
		return writeID3(track, path, e.opts.EmbedMetadata, artwork)
	case ".flac":
		return writeVorbis(track, path, e.opts.EmbedMetadata, artwork)
	case ".wav":
		return nil
	default:
		return fmt.Errorf("no tag support for %s", filepath.Ext(path))
	}
}

// fetchArtwork downloads and resizes the cover image, returning nil on
// any failure.
func (e *Embedder) fetchArtwork(ctx context.Context, track *model.Track) []byte {
	if !e.opts.EmbedArtwork || track.ArtworkURL == "" {
		return nil
	}

	data, err := e.client.DownloadBytes(ctx, track.ArtworkURL)
	if err != nil {
		e.logger.Warn("cover art download failed", "track", track.String(), "error", err)
		return nil
	}

	if e.opts.ArtworkMaxSize > 0 {
		resized, err := resizeJPEG(data, e.opts.ArtworkMaxSize, e.opts.ArtworkMaxSize)
		if err != nil {
			e.logger.Warn("cover art resize failed", "track", track.String(), "error", err)
			return data
		}
		data = resized
	}

	return data
}
