package spotify

import "spotfetch/internal/model"

type trackDTO struct {
	ID          string      `json:"id"`
	Name        string      `json:"name"`
	Artists     []artistDTO `json:"artists"`
	Album       albumDTO    `json:"album"`
	DurationMS  int         `json:"duration_ms"`
	TrackNumber int         `json:"track_number"`
	DiscNumber  int         `json:"disc_number"`
	Explicit    bool        `json:"explicit"`
	ExternalIDs struct {
		ISRC string `json:"isrc"`
	} `json:"external_ids"`
	ExternalURLs struct {
		Spotify string `json:"spotify"`
	} `json:"external_urls"`
}

type artistDTO struct {
	Name string `json:"name"`
}

type albumDTO struct {
	Name        string      `json:"name"`
	ReleaseDate string      `json:"release_date"`
	Artists     []artistDTO `json:"artists"`
	Images      []imageDTO  `json:"images"`
}

type imageDTO struct {
	URL    string `json:"url"`
	Width  int    `json:"width"`
	Height int    `json:"height"`
}

// largestImage returns the URL of the biggest cover image. Spotify
// lists images largest first, but sort anyway rather than rely on it.
func (a albumDTO) largestImage() string {
	best := ""
	bestWidth := -1
	for _, img := range a.Images {
		if img.Width > bestWidth {
			best = img.URL
			bestWidth = img.Width
		}
	}
	return best
}

type playlistPage struct {
	Items []struct {
		Track *trackDTO `json:"track"`
	} `json:"items"`
	Next string `json:"next"`
}

type albumTracksPage struct {
	Items []trackDTO `json:"items"`
	Next  string     `json:"next"`
}

type searchResponse struct {
	Tracks struct {
		Items []trackDTO `json:"items"`
	} `json:"tracks"`
}

func (d *trackDTO) toModel() *model.Track {
	track := &model.Track{
		ID:          d.ID,
		Title:       d.Name,
		Album:       d.Album.Name,
		ReleaseDate: d.Album.ReleaseDate,
		DurationMS:  d.DurationMS,
		TrackNumber: d.TrackNumber,
		DiscNumber:  d.DiscNumber,
		Explicit:    d.Explicit,
		ISRC:        d.ExternalIDs.ISRC,
		ArtworkURL:  d.Album.largestImage(),
		SourceURL:   d.ExternalURLs.Spotify,
	}

	for _, artist := range d.Artists {
		track.Artists = append(track.Artists, artist.Name)
	}
	if len(track.Artists) > 0 {
		track.Artist = track.Artists[0]
	}
	if len(d.Album.Artists) > 0 {
		track.AlbumArtist = d.Album.Artists[0].Name
	}

	return track
}
