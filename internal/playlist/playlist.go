// Package playlist writes playlist files for a finished batch so the
// downloaded tracks can be played in their original order.
package playlist

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"spotfetch/internal/model"
)

// Format is a supported playlist file format.
type Format string

const (
	// FormatM3U writes extended .m3u files (most compatible).
	FormatM3U Format = "m3u"

	// FormatPLS writes INI-style .pls files (Winamp lineage).
	FormatPLS Format = "pls"

	// FormatWPL writes XML SMIL .wpl files (Windows Media Player).
	FormatWPL Format = "wpl"
)

// ParseFormat validates a format name from configuration.
func ParseFormat(s string) (Format, error) {
	switch Format(strings.ToLower(s)) {
	case FormatM3U:
		return FormatM3U, nil
	case FormatPLS:
		return FormatPLS, nil
	case FormatWPL:
		return FormatWPL, nil
	}
	return "", fmt.Errorf("unknown playlist format %q (m3u, pls, wpl)", s)
}

// Writer renders playlists referencing each track's download path.
type Writer struct {
	format  Format
	pathCfg *model.PathConfig
}

// NewWriter creates a Writer.
func NewWriter(format Format, pathCfg *model.PathConfig) *Writer {
	return &Writer{format: format, pathCfg: pathCfg}
}

// Write creates a playlist file named after title in the output
// directory, listing every track whose file actually exists on disk,
// in input order. Entries are relative to the playlist location so the
// library stays portable. Returns the playlist path, or an empty
// string when no track made it to disk.
func (w *Writer) Write(title string, tracks []*model.Track) (string, error) {
	var entries []entry
	for _, track := range tracks {
		path := track.OutputPath(w.pathCfg)
		if _, err := os.Stat(path); err != nil {
			continue
		}
		rel, err := filepath.Rel(w.pathCfg.OutputDir, path)
		if err != nil {
			rel = path
		}
		entries = append(entries, entry{track: track, path: rel})
	}
	if len(entries) == 0 {
		return "", nil
	}

	var content string
	switch w.format {
	case FormatPLS:
		content = renderPLS(entries)
	case FormatWPL:
		content = renderWPL(title, entries)
	default:
		content = renderM3U(entries)
	}

	name := model.SanitizeFileName(title) + "." + string(w.format)
	path := filepath.Join(w.pathCfg.OutputDir, name)
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		return "", err
	}
	return path, nil
}

type entry struct {
	track *model.Track
	path  string
}

func renderM3U(entries []entry) string {
	var sb strings.Builder
	sb.WriteString("#EXTM3U\n")
	for _, e := range entries {
		sb.WriteString(fmt.Sprintf("#EXTINF:%d,%s\n", e.track.DurationSeconds(), e.track.String()))
		sb.WriteString(e.path + "\n")
	}
	return sb.String()
}

func renderPLS(entries []entry) string {
	var sb strings.Builder
	sb.WriteString("[playlist]\n")
	for i, e := range entries {
		idx := i + 1
		sb.WriteString(fmt.Sprintf("File%d=%s\n", idx, e.path))
		sb.WriteString(fmt.Sprintf("Title%d=%s\n", idx, e.track.String()))
		sb.WriteString(fmt.Sprintf("Length%d=%d\n", idx, e.track.DurationSeconds()))
	}
	sb.WriteString(fmt.Sprintf("NumberOfEntries=%d\n", len(entries)))
	sb.WriteString("Version=2\n")
	return sb.String()
}

func renderWPL(title string, entries []entry) string {
	var sb strings.Builder
	sb.WriteString("<?wpl version=\"1.0\"?>\n")
	sb.WriteString("<smil>\n")
	sb.WriteString("  <head>\n")
	sb.WriteString(fmt.Sprintf("    <title>%s</title>\n", escapeXML(title)))
	sb.WriteString("  </head>\n")
	sb.WriteString("  <body>\n")
	sb.WriteString("    <seq>\n")
	for _, e := range entries {
		sb.WriteString(fmt.Sprintf("      <media src=\"%s\"/>\n", escapeXML(e.path)))
	}
	sb.WriteString("    </seq>\n")
	sb.WriteString("  </body>\n")
	sb.WriteString("</smil>\n")
	return sb.String()
}

func escapeXML(s string) string {
	s = strings.ReplaceAll(s, "&", "&amp;")
	s = strings.ReplaceAll(s, "<", "&lt;")
	s = strings.ReplaceAll(s, ">", "&gt;")
	s = strings.ReplaceAll(s, "\"", "&quot;")
	s = strings.ReplaceAll(s, "'", "&apos;")
	return s
}
