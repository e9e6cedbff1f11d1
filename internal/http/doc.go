// Package http wraps the standard HTTP client with the small set of
// operations the rest of spotfetch needs: raw and JSON API calls, and
// in-memory downloads for cover art.
package http
