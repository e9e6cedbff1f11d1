// Package model defines the core data structures shared by the
// spotfetch components.
//
// # Track
//
// Track is the immutable descriptor of one catalog track. It is
// produced by the catalog client and consumed read-only everywhere
// else. The destination file path is derived from it:
//
//	path := track.OutputPath(pathConfig)
//
// Because the path depends only on the track's identity fields and the
// configured templates, it doubles as the idempotency key: a track
// whose output path already exists is skipped, not re-downloaded.
//
// # Candidate
//
// Candidate is one search hit from one source. Candidates are scored
// against the target track and the winner's FetchRef is handed back to
// the source for retrieval.
//
// # Outcome
//
// Outcome summarizes one resolution attempt: success with a source
// name and local path, a skip (file already present), or failure.
package model
