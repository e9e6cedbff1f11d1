package playlist

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"spotfetch/internal/model"
)

func fixture(t *testing.T) (*model.PathConfig, []*model.Track) {
	t.Helper()
	dir := t.TempDir()
	pathCfg := &model.PathConfig{
		OutputDir:      dir,
		FolderTemplate: "{artist}",
		FileTemplate:   "{title}",
		Extension:      "mp3",
	}

	tracks := []*model.Track{
		{ID: "1", Title: "One", Artist: "A", DurationMS: 180000},
		{ID: "2", Title: "Two", Artist: "B", DurationMS: 200000},
		{ID: "3", Title: "Missing", Artist: "C", DurationMS: 100000},
	}

	// The first two are on disk, the third is not.
	for _, track := range tracks[:2] {
		path := track.OutputPath(pathCfg)
		if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
			t.Fatal(err)
		}
		if err := os.WriteFile(path, []byte("audio"), 0644); err != nil {
			t.Fatal(err)
		}
	}

	return pathCfg, tracks
}

func TestWrite_M3U(t *testing.T) {
	pathCfg, tracks := fixture(t)

	path, err := NewWriter(FormatM3U, pathCfg).Write("My Mix", tracks)
	if err != nil {
		t.Fatalf("Write() error: %v", err)
	}
	if filepath.Base(path) != "My Mix.m3u" {
		t.Errorf("playlist file = %q", path)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	content := string(data)

	for _, want := range []string{
		"#EXTM3U",
		"#EXTINF:180,A - One",
		filepath.Join("A", "One.mp3"),
		filepath.Join("B", "Two.mp3"),
	} {
		if !strings.Contains(content, want) {
			t.Errorf("playlist missing %q:\n%s", want, content)
		}
	}
	if strings.Contains(content, "Missing") {
		t.Error("playlist should not reference tracks that are not on disk")
	}
}

func TestWrite_PLS(t *testing.T) {
	pathCfg, tracks := fixture(t)

	path, err := NewWriter(FormatPLS, pathCfg).Write("Mix", tracks)
	if err != nil {
		t.Fatalf("Write() error: %v", err)
	}

	data, _ := os.ReadFile(path)
	content := string(data)
	for _, want := range []string{"[playlist]", "File1=", "Title2=B - Two", "NumberOfEntries=2", "Version=2"} {
		if !strings.Contains(content, want) {
			t.Errorf("playlist missing %q:\n%s", want, content)
		}
	}
}

func TestWrite_WPLEscapesXML(t *testing.T) {
	pathCfg, tracks := fixture(t)

	path, err := NewWriter(FormatWPL, pathCfg).Write(`Rock & "Roll"`, tracks)
	if err != nil {
		t.Fatalf("Write() error: %v", err)
	}

	data, _ := os.ReadFile(path)
	content := string(data)
	if !strings.Contains(content, "Rock &amp; &quot;Roll&quot;") {
		t.Errorf("title not escaped:\n%s", content)
	}
	if !strings.Contains(content, "<media src=") {
		t.Errorf("no media entries:\n%s", content)
	}
}

func TestWrite_NothingOnDisk(t *testing.T) {
	pathCfg := &model.PathConfig{OutputDir: t.TempDir(), FileTemplate: "{title}", Extension: "mp3"}
	tracks := []*model.Track{{Title: "Ghost", Artist: "X"}}

	path, err := NewWriter(FormatM3U, pathCfg).Write("Empty", tracks)
	if err != nil {
		t.Fatalf("Write() error: %v", err)
	}
	if path != "" {
		t.Errorf("Write() = %q, want no playlist for an empty batch", path)
	}
}

func TestParseFormat(t *testing.T) {
	for in, want := range map[string]Format{"m3u": FormatM3U, "PLS": FormatPLS, "wpl": FormatWPL} {
		got, err := ParseFormat(in)
		if err != nil || got != want {
			t.Errorf("ParseFormat(%q) = %v, %v", in, got, err)
		}
	}
	if _, err := ParseFormat("zpl"); err == nil {
		t.Error("ParseFormat should reject unsupported formats")
	}
}
