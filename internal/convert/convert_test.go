package convert

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"testing"
)

func TestConvert_SameFormatIsNoOp(t *testing.T) {
	c := NewConverter("320", nil)
	ran := false
	c.run = func(ctx context.Context, name string, args ...string) ([]byte, error) {
		ran = true
		return nil, nil
	}

	got, err := c.Convert(context.Background(), "/music/song.mp3", "mp3")
	if err != nil {
		t.Fatalf("Convert() error: %v", err)
	}
	if got != "/music/song.mp3" {
		t.Errorf("Convert() = %q, want input unchanged", got)
	}
	if ran {
		t.Error("ffmpeg ran for a file already in the target format")
	}
}

func TestConvert_BuildsArgsAndRemovesSource(t *testing.T) {
	dir := t.TempDir()
	src := filepath.Join(dir, "song.m4a")
	if err := os.WriteFile(src, []byte("audio"), 0644); err != nil {
		t.Fatal(err)
	}

	c := NewConverter("192", nil)
	var gotArgs []string
	c.run = func(ctx context.Context, name string, args ...string) ([]byte, error) {
		if name != "ffmpeg" {
			t.Errorf("command = %q", name)
		}
		gotArgs = args
		return nil, nil
	}

	got, err := c.Convert(context.Background(), src, "mp3")
	if err != nil {
		t.Fatalf("Convert() error: %v", err)
	}
	if want := filepath.Join(dir, "song.mp3"); got != want {
		t.Errorf("Convert() = %q, want %q", got, want)
	}

	joined := fmt.Sprint(gotArgs)
	for _, want := range []string{"-i", "libmp3lame", "192k", "song.mp3"} {
		found := false
		for _, a := range gotArgs {
			if a == want || filepath.Base(a) == want {
				found = true
			}
		}
		if !found {
			t.Errorf("ffmpeg args missing %q: %s", want, joined)
		}
	}

	if _, err := os.Stat(src); !os.IsNotExist(err) {
		t.Error("source file should be removed after conversion")
	}
}

func TestConvert_UnsupportedFormat(t *testing.T) {
	c := NewConverter("320", nil)
	if _, err := c.Convert(context.Background(), "/music/song.m4a", "ogg"); err == nil {
		t.Error("Convert() should reject unsupported formats")
	}
}

func TestConvert_FfmpegFailure(t *testing.T) {
	c := NewConverter("320", nil)
	c.run = func(ctx context.Context, name string, args ...string) ([]byte, error) {
		return []byte("Unknown encoder 'xyz'\nmore output"), fmt.Errorf("exit status 1")
	}

	if _, err := c.Convert(context.Background(), "/music/song.m4a", "mp3"); err == nil {
		t.Error("Convert() should surface ffmpeg failures")
	}
}
