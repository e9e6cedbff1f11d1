package http

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestGet_SetsUserAgent(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if got := r.Header.Get("User-Agent"); got != "spotfetch" {
			t.Errorf("User-Agent = %q, want %q", got, "spotfetch")
		}
		w.Write([]byte("hello"))
	}))
	defer server.Close()

	body, err := NewClient().Get(context.Background(), server.URL)
	if err != nil {
		t.Fatalf("Get() error: %v", err)
	}
	if string(body) != "hello" {
		t.Errorf("Get() = %q, want %q", body, "hello")
	}
}

func TestGet_NonOKStatus(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "nope", http.StatusForbidden)
	}))
	defer server.Close()

	if _, err := NewClient().Get(context.Background(), server.URL); err == nil {
		t.Error("Get() should fail on a non-200 response")
	}
}

func TestGetJSON(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"title":"Beautiful Pain","duration":247}`))
	}))
	defer server.Close()

	var got struct {
		Title    string `json:"title"`
		Duration int    `json:"duration"`
	}
	if err := NewClient().GetJSON(context.Background(), server.URL, &got); err != nil {
		t.Fatalf("GetJSON() error: %v", err)
	}
	if got.Title != "Beautiful Pain" || got.Duration != 247 {
		t.Errorf("GetJSON() = %+v", got)
	}
}

func TestGetJSON_MalformedBody(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("<html>not json</html>"))
	}))
	defer server.Close()

	var got map[string]any
	if err := NewClient().GetJSON(context.Background(), server.URL, &got); err == nil {
		t.Error("GetJSON() should fail on a non-JSON body")
	}
}

func TestDownloadBytes(t *testing.T) {
	payload := []byte{0xFF, 0xD8, 0xFF, 0xE0}
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write(payload)
	}))
	defer server.Close()

	got, err := NewClient().DownloadBytes(context.Background(), server.URL)
	if err != nil {
		t.Fatalf("DownloadBytes() error: %v", err)
	}
	if string(got) != string(payload) {
		t.Errorf("DownloadBytes() = %v, want %v", got, payload)
	}
}
