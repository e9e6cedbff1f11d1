// Package convert hands finished downloads to ffmpeg when the source
// produced a different container than the configured output format.
package convert

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
)

// Converter transcodes audio files with ffmpeg.
type Converter struct {
	// Bitrate is the target bitrate in kbps for lossy formats.
	Bitrate string

	logger *slog.Logger
	run    func(ctx context.Context, name string, args ...string) ([]byte, error)
}

// NewConverter creates a Converter. A nil logger discards logs.
func NewConverter(bitrate string, logger *slog.Logger) *Converter {
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return &Converter{
		Bitrate: bitrate,
		logger:  logger,
		run: func(ctx context.Context, name string, args ...string) ([]byte, error) {
			return exec.CommandContext(ctx, name, args...).CombinedOutput()
		},
	}
}

// Available reports whether ffmpeg can be found on PATH.
func Available() bool {
	_, err := exec.LookPath("ffmpeg")
	return err == nil
}

// Convert transcodes src into the given format next to the source
// file and removes the source on success. Returns the new path.
// When src already has the target extension it is returned unchanged.
func (c *Converter) Convert(ctx context.Context, src, format string) (string, error) {
	if strings.EqualFold(strings.TrimPrefix(filepath.Ext(src), "."), format) {
		return src, nil
	}

	dst := strings.TrimSuffix(src, filepath.Ext(src)) + "." + format

	args := []string{"-y", "-i", src, "-vn"}
	switch format {
	case "mp3":
		args = append(args, "-codec:a", "libmp3lame", "-b:a", c.Bitrate+"k")
	case "flac":
		args = append(args, "-codec:a", "flac")
	case "m4a":
		args = append(args, "-codec:a", "aac", "-b:a", c.Bitrate+"k")
	case "wav":
		args = append(args, "-codec:a", "pcm_s16le")
	default:
		return "", fmt.Errorf("unsupported target format %q", format)
	}
	args = append(args, dst)

	c.logger.Debug("converting audio", "src", src, "format", format)

	out, err := c.run(ctx, "ffmpeg", args...)
	if err != nil {
		return "", fmt.Errorf("ffmpeg: %w: %s", err, firstLine(out))
	}

	if err := os.Remove(src); err != nil {
		c.logger.Warn("could not remove pre-conversion file", "path", src, "error", err)
	}

	return dst, nil
}

func firstLine(out []byte) string {
	s := strings.TrimSpace(string(out))
	if i := strings.IndexByte(s, '\n'); i >= 0 {
		s = s[:i]
	}
	return s
}
