package model

import (
	"fmt"
	"path/filepath"
	"regexp"
	"strings"
)

// Track describes one catalog track to resolve and download.
//
// Track contains the metadata needed to locate the song on an external
// source and to tag the resulting file:
//   - Title, Artist and Album for search queries and match scoring
//   - DurationMS for duration-proximity scoring
//   - Explicit and ISRC as additional match signals
//   - ArtworkURL and SourceURL for tagging and the failure ledger
//
// Tracks are produced by the catalog client and treated as read-only by
// every other component. Identity (ledger membership, skip-existing
// checks) is by ID.
type Track struct {
	// ID is the catalog identifier for this track.
	ID string

	// Title is the track title.
	Title string

	// Artist is the primary artist name.
	Artist string

	// Artists lists all credited artists, primary first.
	Artists []string

	// Album is the album title.
	Album string

	// AlbumArtist is the album's primary artist.
	AlbumArtist string

	// ReleaseDate is the album release date. May be a full date
	// ("2013-11-05") or just a year ("2013"); only the year is used
	// for matching and tagging.
	ReleaseDate string

	// DurationMS is the track length in milliseconds.
	DurationMS int

	// TrackNumber is the position within the album (1-indexed).
	TrackNumber int

	// DiscNumber is the disc within the album (1-indexed).
	DiscNumber int

	// Explicit reports whether the catalog marks the track explicit.
	Explicit bool

	// ISRC is the International Standard Recording Code, if known.
	ISRC string

	// ArtworkURL points at the album cover art, if available.
	ArtworkURL string

	// SourceURL is the canonical catalog URL for this track.
	SourceURL string
}

// DurationSeconds returns the track length in whole seconds.
func (t *Track) DurationSeconds() int {
	return t.DurationMS / 1000
}

// Year returns the release year, or an empty string when unknown.
func (t *Track) Year() string {
	if len(t.ReleaseDate) >= 4 {
		return t.ReleaseDate[:4]
	}
	return t.ReleaseDate
}

// String renders the track as "Artist - Title" for logs and display.
func (t *Track) String() string {
	return t.Artist + " - " + t.Title
}

// PathConfig holds the path templating settings used to derive each
// track's destination file.
//
// Templates support placeholders that are replaced with sanitized
// metadata values:
//   - {artist} - primary artist
//   - {album_artist} - album artist
//   - {album} - album title
//   - {title} - track title
//   - {track} - track number (2 digits, zero-padded)
//   - {disc} - disc number
//   - {year} - release year
//
// Example:
//
//	cfg := &PathConfig{
//	    OutputDir:      "/music",
//	    FolderTemplate: "{artist}/{album}",
//	    FileTemplate:   "{track} - {artist} - {title}",
//	    Extension:      "flac",
//	}
//	// /music/Eminem/The Marshall Mathers LP2/15 - Eminem - Beautiful Pain.flac
type PathConfig struct {
	// OutputDir is the destination root for all downloads.
	OutputDir string

	// FolderTemplate is the directory layout below OutputDir.
	FolderTemplate string

	// FileTemplate is the filename template, without extension.
	FileTemplate string

	// Extension is the audio file extension, without the dot.
	Extension string
}

// OutputPath computes the destination file path for the track.
//
// The path is derived purely from the track's identity fields and the
// config templates, so two distinct tracks never collide and repeated
// calls for the same track always agree. Paths longer than the Windows
// MAX_PATH limit are truncated the same way for every caller.
func (t *Track) OutputPath(cfg *PathConfig) string {
	folder := t.expandTemplate(cfg.FolderTemplate)
	fileName := t.expandTemplate(cfg.FileTemplate) + "." + cfg.Extension

	dir := filepath.Join(cfg.OutputDir, folder)
	if len(dir) >= 248 {
		dir = dir[:247]
	}

	path := filepath.Join(dir, fileName)

	// Limit total path length for Windows compatibility (MAX_PATH = 260)
	if len(path) >= 260 {
		ext := filepath.Ext(path)
		maxLen := 259 - len(dir) - 1 - len(ext)
		if maxLen > 0 && maxLen < len(fileName) {
			base := strings.TrimSuffix(fileName, ext)
			if maxLen < len(base) {
				path = filepath.Join(dir, base[:maxLen]+ext)
			}
		}
	}

	return path
}

// expandTemplate substitutes placeholders with sanitized track values.
// Each value is sanitized individually, so slashes written in the
// template itself still create directories.
func (t *Track) expandTemplate(template string) string {
	out := template
	out = strings.ReplaceAll(out, "{artist}", SanitizeFileName(t.Artist))
	out = strings.ReplaceAll(out, "{album_artist}", SanitizeFileName(t.AlbumArtist))
	out = strings.ReplaceAll(out, "{album}", SanitizeFileName(t.Album))
	out = strings.ReplaceAll(out, "{title}", SanitizeFileName(t.Title))
	out = strings.ReplaceAll(out, "{track}", fmt.Sprintf("%02d", t.TrackNumber))
	out = strings.ReplaceAll(out, "{disc}", fmt.Sprintf("%d", t.DiscNumber))
	out = strings.ReplaceAll(out, "{year}", SanitizeFileName(t.Year()))
	return out
}

// SanitizeFileName removes or replaces characters that are invalid in
// file and folder names.
//
// The following transformations are applied:
//   - Invalid characters (<>:"/\|?* and control chars) are replaced with underscore
//   - Trailing dots are removed (Windows limitation)
//   - Multiple whitespace is collapsed to single space
//   - Leading and trailing whitespace is removed
func SanitizeFileName(name string) string {
	invalidChars := regexp.MustCompile(`[<>:"/\\|?*\x00-\x1f]`)
	name = invalidChars.ReplaceAllString(name, "_")

	name = regexp.MustCompile(`\.+$`).ReplaceAllString(name, "")
	name = regexp.MustCompile(`\s+`).ReplaceAllString(name, " ")
	name = strings.Trim(name, " ")

	return name
}
