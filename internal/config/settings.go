package config

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/adrg/xdg"
	"gopkg.in/yaml.v3"

	"spotfetch/internal/model"
)

// Settings holds all configuration options.
type Settings struct {
	Spotify      SpotifySettings      `yaml:"spotify"`
	Download     DownloadSettings     `yaml:"download"`
	Sources      SourcesSettings      `yaml:"sources"`
	Organization OrganizationSettings `yaml:"organization"`
	Metadata     MetadataSettings     `yaml:"metadata"`
	Logging      LoggingSettings      `yaml:"logging"`
}

// SpotifySettings holds catalog API credentials.
type SpotifySettings struct {
	ClientID     string `yaml:"client_id"`
	ClientSecret string `yaml:"client_secret"`
}

// DownloadSettings controls the batch run behavior.
type DownloadSettings struct {
	// OutputDir is the destination root for downloads.
	OutputDir string `yaml:"output_dir"`

	// AudioFormat is the target format (mp3, flac, wav, m4a).
	AudioFormat string `yaml:"audio_format"`

	// AudioQuality is the MP3 bitrate in kbps (ignored for lossless).
	AudioQuality string `yaml:"audio_quality"`

	// MaxConcurrent bounds the number of parallel track downloads.
	MaxConcurrent int `yaml:"max_concurrent"`

	// StaggerSeconds spreads task start times to avoid synchronized
	// bursts against rate-limited sources.
	StaggerSeconds float64 `yaml:"stagger_seconds"`

	// SkipExisting skips tracks whose destination file already exists.
	SkipExisting bool `yaml:"skip_existing"`
}

// SourcesSettings configures the download sources and their order.
type SourcesSettings struct {
	// Priority is the ordered list of source names to try. The first
	// source that yields a confident match and a usable file wins.
	Priority []string `yaml:"priority"`

	Deezer  DeezerSettings  `yaml:"deezer"`
	YouTube YouTubeSettings `yaml:"youtube"`
}

// DeezerSettings configures the Deezer source adapter.
type DeezerSettings struct {
	Enabled bool `yaml:"enabled"`

	// ARLToken is the Deezer session cookie required for full-quality
	// downloads.
	ARLToken string `yaml:"arl_token"`

	// MinConfidence overrides the default match threshold (60).
	MinConfidence int `yaml:"min_confidence"`
}

// YouTubeSettings configures the YouTube source adapter.
type YouTubeSettings struct {
	Enabled bool `yaml:"enabled"`

	// SearchQueryFormat builds the search query from track metadata.
	// Supports {artist}, {title} and {album}.
	SearchQueryFormat string `yaml:"search_query_format"`

	// MaxResults caps how many search hits are scored per track.
	MaxResults int `yaml:"max_results"`

	// MinConfidence overrides the default match threshold (30). The
	// default is looser than Deezer's because video search results
	// have no structured artist field.
	MinConfidence int `yaml:"min_confidence"`
}

// OrganizationSettings controls the on-disk layout of downloads.
type OrganizationSettings struct {
	FolderTemplate string `yaml:"folder_template"`
	FileTemplate   string `yaml:"file_template"`

	// WritePlaylist creates a playlist file per download run.
	WritePlaylist bool `yaml:"write_playlist"`

	// PlaylistFormat is one of m3u, pls, wpl.
	PlaylistFormat string `yaml:"playlist_format"`
}

// MetadataSettings controls tag and artwork embedding.
type MetadataSettings struct {
	EmbedMetadata  bool `yaml:"embed_metadata"`
	EmbedArtwork   bool `yaml:"embed_artwork"`
	ArtworkMaxSize int  `yaml:"artwork_max_size"`
}

// LoggingSettings configures the log output.
type LoggingSettings struct {
	Level      string `yaml:"level"`
	File       string `yaml:"file"`
	MaxSizeMB  int    `yaml:"max_size_mb"`
	MaxBackups int    `yaml:"max_backups"`
	Console    bool   `yaml:"console"`
}

// DefaultPath returns the standard location of the config file.
func DefaultPath() string {
	return filepath.Join(xdg.ConfigHome, "spotfetch", "config.yaml")
}

// DefaultSettings returns settings with default values.
func DefaultSettings() *Settings {
	homeDir, _ := os.UserHomeDir()
	return &Settings{
		Download: DownloadSettings{
			OutputDir:      filepath.Join(homeDir, "Music", "spotfetch"),
			AudioFormat:    "flac",
			AudioQuality:   "320",
			MaxConcurrent:  2,
			StaggerSeconds: 1.5,
			SkipExisting:   true,
		},
		Sources: SourcesSettings{
			Priority: []string{"deezer", "youtube"},
			Deezer: DeezerSettings{
				Enabled: true,
			},
			YouTube: YouTubeSettings{
				Enabled:           true,
				SearchQueryFormat: "{artist} {title} audio",
				MaxResults:        5,
			},
		},
		Organization: OrganizationSettings{
			FolderTemplate: "{artist}/{album}",
			FileTemplate:   "{track} - {artist} - {title}",
			PlaylistFormat: "m3u",
		},
		Metadata: MetadataSettings{
			EmbedMetadata:  true,
			EmbedArtwork:   true,
			ArtworkMaxSize: 1200,
		},
		Logging: LoggingSettings{
			Level:      "info",
			File:       "spotfetch.log",
			MaxSizeMB:  10,
			MaxBackups: 3,
			Console:    false,
		},
	}
}

// Load reads settings from a YAML file, falling back to defaults when
// the file does not exist. Environment variables override credentials
// so they can be kept out of the config file:
//
//	SPOTIFY_CLIENT_ID, SPOTIFY_CLIENT_SECRET, DEEZER_ARL, OUTPUT_DIR
func Load(path string) (*Settings, error) {
	settings := DefaultSettings()

	data, err := os.ReadFile(path)
	if err != nil {
		if !os.IsNotExist(err) {
			return nil, err
		}
	} else if err := yaml.Unmarshal(data, settings); err != nil {
		return nil, fmt.Errorf("parsing %s: %w", path, err)
	}

	settings.applyEnv()

	if err := settings.Validate(); err != nil {
		return nil, err
	}

	return settings, nil
}

func (s *Settings) applyEnv() {
	if v := os.Getenv("SPOTIFY_CLIENT_ID"); v != "" {
		s.Spotify.ClientID = v
	}
	if v := os.Getenv("SPOTIFY_CLIENT_SECRET"); v != "" {
		s.Spotify.ClientSecret = v
	}
	if v := os.Getenv("DEEZER_ARL"); v != "" {
		s.Sources.Deezer.ARLToken = v
	}
	if v := os.Getenv("OUTPUT_DIR"); v != "" {
		s.Download.OutputDir = v
	}
}

// Validate rejects settings that would make a run misbehave.
func (s *Settings) Validate() error {
	if s.Download.MaxConcurrent < 1 {
		return fmt.Errorf("download.max_concurrent must be at least 1, got %d", s.Download.MaxConcurrent)
	}
	if s.Download.StaggerSeconds < 0 {
		return fmt.Errorf("download.stagger_seconds must not be negative")
	}
	switch s.Download.AudioFormat {
	case "mp3", "flac", "wav", "m4a":
	default:
		return fmt.Errorf("download.audio_format %q not supported (mp3, flac, wav, m4a)", s.Download.AudioFormat)
	}
	if len(s.Sources.Priority) == 0 {
		return fmt.Errorf("sources.priority must name at least one source")
	}
	for _, name := range s.Sources.Priority {
		switch name {
		case "deezer", "youtube":
		default:
			return fmt.Errorf("unknown source %q in sources.priority", name)
		}
	}
	return nil
}

// Save writes settings to a YAML file, creating parent directories.
func (s *Settings) Save(path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return err
	}

	data, err := yaml.Marshal(s)
	if err != nil {
		return err
	}

	return os.WriteFile(path, data, 0644)
}

// ToPathConfig converts settings to the model path templating config.
func (s *Settings) ToPathConfig() *model.PathConfig {
	return &model.PathConfig{
		OutputDir:      s.Download.OutputDir,
		FolderTemplate: s.Organization.FolderTemplate,
		FileTemplate:   s.Organization.FileTemplate,
		Extension:      s.Download.AudioFormat,
	}
}
