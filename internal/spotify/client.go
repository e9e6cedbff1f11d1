// Package spotify reads track metadata from the Spotify Web API.
//
// Spotify is the catalog, never a download source: it supplies the
// authoritative title, artist, duration and artwork that the match
// scorer and tag embedder work from.
package spotify

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"

	"golang.org/x/oauth2/clientcredentials"

	"spotfetch/internal/model"
)

const (
	apiBase  = "https://api.spotify.com/v1"
	tokenURL = "https://accounts.spotify.com/api/token"

	// The API caps page sizes at 100 for playlists and 50 for albums
	// and search.
	playlistPageSize = 100
	albumPageSize    = 50
)

// Client talks to the Spotify Web API using the client credentials
// flow. The oauth2 transport refreshes the token transparently.
type Client struct {
	httpClient *http.Client
	logger     *slog.Logger
	baseURL    string
}

// New creates a Client. The credentials are only validated on the
// first request, when the token endpoint is actually contacted.
func New(ctx context.Context, clientID, clientSecret string, logger *slog.Logger) (*Client, error) {
	if clientID == "" || clientSecret == "" {
		return nil, fmt.Errorf("spotify: client ID and secret are required")
	}

	conf := &clientcredentials.Config{
		ClientID:     clientID,
		ClientSecret: clientSecret,
		TokenURL:     tokenURL,
	}

	return &Client{
		httpClient: conf.Client(ctx),
		logger:     logger.With(slog.String("component", "spotify")),
		baseURL:    apiBase,
	}, nil
}

// GetTrack fetches a single track by ID.
func (c *Client) GetTrack(ctx context.Context, id string) (*model.Track, error) {
	var dto trackDTO
	if err := c.getJSON(ctx, "/tracks/"+id, nil, &dto); err != nil {
		return nil, err
	}
	return dto.toModel(), nil
}

// GetPlaylistTracks fetches every track of a playlist, following
// pagination. Local files and removed tracks appear as null items in
// the API response and are dropped.
func (c *Client) GetPlaylistTracks(ctx context.Context, id string) ([]*model.Track, error) {
	var tracks []*model.Track

	for offset := 0; ; offset += playlistPageSize {
		query := url.Values{}
		query.Set("limit", strconv.Itoa(playlistPageSize))
		query.Set("offset", strconv.Itoa(offset))

		var page playlistPage
		if err := c.getJSON(ctx, "/playlists/"+id+"/tracks", query, &page); err != nil {
			return nil, err
		}

		for _, item := range page.Items {
			if item.Track == nil || item.Track.ID == "" {
				continue
			}
			tracks = append(tracks, item.Track.toModel())
		}

		if page.Next == "" || len(page.Items) == 0 {
			break
		}
	}

	c.logger.Debug("fetched playlist", "playlist", id, "tracks", len(tracks))
	return tracks, nil
}

// GetAlbumTracks fetches every track of an album. The album track
// listing omits album-level fields, so the album itself is fetched
// first and its name, date and artwork are attached to each track.
func (c *Client) GetAlbumTracks(ctx context.Context, id string) ([]*model.Track, error) {
	var album albumDTO
	if err := c.getJSON(ctx, "/albums/"+id, nil, &album); err != nil {
		return nil, err
	}

	var tracks []*model.Track
	for offset := 0; ; offset += albumPageSize {
		query := url.Values{}
		query.Set("limit", strconv.Itoa(albumPageSize))
		query.Set("offset", strconv.Itoa(offset))

		var page albumTracksPage
		if err := c.getJSON(ctx, "/albums/"+id+"/tracks", query, &page); err != nil {
			return nil, err
		}

		for _, dto := range page.Items {
			track := dto.toModel()
			track.Album = album.Name
			track.ReleaseDate = album.ReleaseDate
			track.ArtworkURL = album.largestImage()
			if len(album.Artists) > 0 {
				track.AlbumArtist = album.Artists[0].Name
			}
			tracks = append(tracks, track)
		}

		if page.Next == "" || len(page.Items) == 0 {
			break
		}
	}

	c.logger.Debug("fetched album", "album", id, "tracks", len(tracks))
	return tracks, nil
}

// SearchTracks runs a catalog search and returns up to limit tracks.
func (c *Client) SearchTracks(ctx context.Context, text string, limit int) ([]*model.Track, error) {
	if limit <= 0 {
		limit = 10
	}

	query := url.Values{}
	query.Set("q", text)
	query.Set("type", "track")
	query.Set("limit", strconv.Itoa(limit))

	var resp searchResponse
	if err := c.getJSON(ctx, "/search", query, &resp); err != nil {
		return nil, err
	}

	tracks := make([]*model.Track, 0, len(resp.Tracks.Items))
	for _, dto := range resp.Tracks.Items {
		tracks = append(tracks, dto.toModel())
	}
	return tracks, nil
}

func (c *Client) getJSON(ctx context.Context, path string, query url.Values, v any) error {
	u := c.baseURL + path
	if len(query) > 0 {
		u += "?" + query.Encode()
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return err
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return fmt.Errorf("spotify: %s returned HTTP %d: %s", path, resp.StatusCode, body)
	}

	return json.NewDecoder(resp.Body).Decode(v)
}
