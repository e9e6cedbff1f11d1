package model

// Candidate is a single search result from one source, not yet
// confirmed as the right match for a track.
//
// Candidates are ephemeral: they live only between a source's Search
// call and the Fetch of the winning result. The FetchRef carries
// whatever the source needs to retrieve the audio (a media URL, a
// video id, a provider track id).
type Candidate struct {
	// ID is the source-specific identifier.
	ID string

	// Title is the result title as reported by the source.
	Title string

	// Artist is the artist name string, empty for sources without a
	// structured artist field (e.g. plain video search).
	Artist string

	// DurationSec is the result length in seconds, 0 when unknown.
	DurationSec int

	// Uploader is the channel or account that published the result,
	// when the source exposes one.
	Uploader string

	// Explicit reports whether the source flags explicit content.
	Explicit bool

	// Official is set by the adapter when the result carries an
	// "official" marker in its title or uploader.
	Official bool

	// OfficialChannel is set by the adapter for known label channels
	// (e.g. VEVO uploads).
	OfficialChannel bool

	// FetchRef is the source-specific reference needed to fetch the
	// audio for this candidate.
	FetchRef string
}

// Outcome is the result of resolving one track across all sources.
type Outcome struct {
	// Success reports whether any source produced a usable file.
	Success bool

	// Source names the source that produced the file, empty on
	// failure or skip.
	Source string

	// Path is the local file path, empty on failure.
	Path string

	// Skipped reports that the destination file already existed and
	// no source was queried.
	Skipped bool
}
