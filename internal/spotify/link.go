package spotify

import (
	"fmt"
	"net/url"
	"regexp"
	"strings"
)

// Kind identifies what a Spotify link points at.
type Kind string

const (
	KindTrack    Kind = "track"
	KindAlbum    Kind = "album"
	KindPlaylist Kind = "playlist"
)

var idPattern = regexp.MustCompile(`^[0-9A-Za-z]{22}$`)

// ParseLink extracts the kind and ID from user input. Accepted forms:
//
//	https://open.spotify.com/track/6rqhFgbbKwnb9MLmUQDhG6
//	https://open.spotify.com/intl-de/album/...?si=abc
//	spotify:playlist:37i9dQZF1DXcBWIGoYBM5M
//	6rqhFgbbKwnb9MLmUQDhG6          (bare ID, assumed to be a track)
func ParseLink(input string) (Kind, string, error) {
	input = strings.TrimSpace(input)

	if idPattern.MatchString(input) {
		return KindTrack, input, nil
	}

	if strings.HasPrefix(input, "spotify:") {
		parts := strings.Split(input, ":")
		if len(parts) == 3 {
			if kind, ok := validKind(parts[1]); ok && idPattern.MatchString(parts[2]) {
				return kind, parts[2], nil
			}
		}
		return "", "", fmt.Errorf("unrecognized spotify URI %q", input)
	}

	u, err := url.Parse(input)
	if err != nil || !strings.HasSuffix(u.Hostname(), "spotify.com") {
		return "", "", fmt.Errorf("%q is not a spotify link or ID", input)
	}

	segments := strings.Split(strings.Trim(u.Path, "/"), "/")
	for i := 0; i+1 < len(segments); i++ {
		// Skip locale prefixes like "intl-de".
		if kind, ok := validKind(segments[i]); ok {
			id := segments[i+1]
			if idPattern.MatchString(id) {
				return kind, id, nil
			}
		}
	}

	return "", "", fmt.Errorf("no track, album or playlist ID in %q", input)
}

func validKind(s string) (Kind, bool) {
	switch Kind(s) {
	case KindTrack, KindAlbum, KindPlaylist:
		return Kind(s), true
	}
	return "", false
}
