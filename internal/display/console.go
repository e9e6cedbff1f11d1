// Package display renders run progress and results to the terminal.
package display

import (
	"fmt"
	"io"
	"strings"
	"sync"

	"github.com/charmbracelet/lipgloss"

	"spotfetch/internal/batch"
	"spotfetch/internal/model"
)

var (
	headerStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#1DB954"))

	successStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#95E1A3"))

	failStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#FF6B6B"))

	skipStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#6C757D"))

	dimStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#6C757D"))

	summaryStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("#1DB954")).
			Padding(0, 2)
)

// Reporter prints one line per finished track and a closing summary.
// It is safe for use as a batch event callback; a mutex keeps
// interleaved writes whole.
type Reporter struct {
	mu    sync.Mutex
	out   io.Writer
	total int
	done  int
}

// NewReporter creates a Reporter writing to out.
func NewReporter(out io.Writer) *Reporter {
	return &Reporter{out: out}
}

// Header prints the run banner.
func (r *Reporter) Header(title string, tracks, sources int) {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.total = tracks
	fmt.Fprintln(r.out, headerStyle.Render(title))
	fmt.Fprintln(r.out, dimStyle.Render(fmt.Sprintf("%d tracks, %d sources", tracks, sources)))
	fmt.Fprintln(r.out)
}

// TrackDone implements the batch event callback.
func (r *Reporter) TrackDone(e batch.Event) {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.done++
	progress := dimStyle.Render(fmt.Sprintf("[%d/%d]", r.done, r.total))

	var line string
	switch {
	case e.Outcome.Skipped:
		line = skipStyle.Render("= " + e.Track.String() + " (already downloaded)")
	case e.Outcome.Success:
		line = successStyle.Render("+ "+e.Track.String()) +
			dimStyle.Render(" via "+e.Outcome.Source)
	default:
		line = failStyle.Render("x " + e.Track.String() + " (no source succeeded)")
	}

	fmt.Fprintf(r.out, "%s %s\n", progress, line)
}

// Summary prints the closing box and the failed track list.
func (r *Reporter) Summary(s batch.Summary, ledgerPath string) {
	r.mu.Lock()
	defer r.mu.Unlock()

	var b strings.Builder
	fmt.Fprintf(&b, "Completed: %d\n", s.Completed)
	fmt.Fprintf(&b, "Skipped:   %d\n", s.Skipped)
	fmt.Fprintf(&b, "Failed:    %d", s.Failed)

	fmt.Fprintln(r.out)
	fmt.Fprintln(r.out, summaryStyle.Render(b.String()))

	if len(s.FailedTracks) > 0 {
		fmt.Fprintln(r.out, failStyle.Render("Failed tracks:"))
		for _, track := range s.FailedTracks {
			fmt.Fprintln(r.out, "  "+track.String())
		}
		fmt.Fprintln(r.out, dimStyle.Render("Recorded in "+ledgerPath+"; run `spotfetch retry` to try again."))
	}
}

// TrackTable renders tracks as an aligned listing for the search
// command's non-interactive output.
func TrackTable(tracks []*model.Track) string {
	var b strings.Builder
	for i, track := range tracks {
		minutes := track.DurationSeconds() / 60
		seconds := track.DurationSeconds() % 60
		fmt.Fprintf(&b, "%2d. %s %s\n", i+1, track.String(),
			dimStyle.Render(fmt.Sprintf("(%s, %d:%02d)", track.Album, minutes, seconds)))
	}
	return b.String()
}
