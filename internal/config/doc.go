// Package config provides configuration management for spotfetch.
//
// Settings are read from a YAML file (default location under the XDG
// config directory, e.g. ~/.config/spotfetch/config.yaml) with
// sensible defaults for every option, so a missing file is not an
// error. Credentials can be supplied through environment variables
// instead of the file:
//
//	SPOTIFY_CLIENT_ID / SPOTIFY_CLIENT_SECRET  catalog API credentials
//	DEEZER_ARL                                 Deezer session token
//	OUTPUT_DIR                                 download destination
//
// The download source order lives in sources.priority; a source is
// only used when it is both listed there and enabled (and, for
// Deezer, has a token). Per-source min_confidence values override the
// built-in match thresholds.
package config
