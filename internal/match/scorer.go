package match

import (
	"sort"
	"strings"

	"spotfetch/internal/model"
)

// Default confidence thresholds per source kind. Metadata-backed
// sources report a structured artist field, so a higher bar is safe;
// plain search sources must carry the match on the title string alone.
const (
	DefaultMetadataConfidence = 60
	DefaultSearchConfidence   = 30
)

// Weights holds the additive score contributions. The values are
// heuristic constants tuned against real search results; they are
// configurable rather than hard-coded so deployments can retune them.
type Weights struct {
	TitleExact     int // case-insensitive title equality
	TitleContains  int // substring containment either direction
	ArtistExact    int
	ArtistContains int
	DurationClose  int // |delta| <= 5s
	DurationNear   int // |delta| <= 10s
	ExplicitAgree  int // both target and candidate flagged explicit
	Official       int // "official" marker in title or uploader
	ArtistUpload   int // artist name contained in uploader
	KnownChannel   int // known label channel (e.g. VEVO)
	VersionPenalty int // live/remix/cover/karaoke/instrumental
}

// DefaultWeights returns the standard score weights.
func DefaultWeights() Weights {
	return Weights{
		TitleExact:     50,
		TitleContains:  30,
		ArtistExact:    50,
		ArtistContains: 30,
		DurationClose:  20,
		DurationNear:   10,
		ExplicitAgree:  10,
		Official:       30,
		ArtistUpload:   20,
		KnownChannel:   15,
		VersionPenalty: 30,
	}
}

// unwantedVersions are markers for recordings that are almost never
// the album version the catalog describes.
var unwantedVersions = []string{"live", "remix", "cover", "karaoke", "instrumental"}

// Scorer computes match confidence between a target track and
// candidate search results.
type Scorer struct {
	weights Weights
}

// NewScorer creates a Scorer with the given weights.
func NewScorer(weights Weights) *Scorer {
	return &Scorer{weights: weights}
}

// Score computes the additive integer confidence for one candidate.
//
// Signals, in order: title overlap, artist overlap, duration
// proximity (tightest band wins), explicit agreement, official-upload
// markers, and a penalty for live/remix/cover/karaoke/instrumental
// versions unless the target title itself asks for one.
func (s *Scorer) Score(target *model.Track, c *model.Candidate) int {
	w := s.weights
	score := 0

	targetTitle := strings.ToLower(target.Title)
	targetArtist := strings.ToLower(target.Artist)
	candTitle := strings.ToLower(c.Title)
	candArtist := strings.ToLower(c.Artist)

	switch {
	case targetTitle != "" && targetTitle == candTitle:
		score += w.TitleExact
	case targetTitle != "" && candTitle != "" && (strings.Contains(candTitle, targetTitle) || strings.Contains(targetTitle, candTitle)):
		score += w.TitleContains
	}

	switch {
	case targetArtist != "" && targetArtist == candArtist:
		score += w.ArtistExact
	case targetArtist != "" && candArtist != "" && (strings.Contains(candArtist, targetArtist) || strings.Contains(targetArtist, candArtist)):
		score += w.ArtistContains
	}

	if c.DurationSec > 0 {
		diff := target.DurationSeconds() - c.DurationSec
		if diff < 0 {
			diff = -diff
		}
		switch {
		case diff <= 5:
			score += w.DurationClose
		case diff <= 10:
			score += w.DurationNear
		}
	}

	if target.Explicit && c.Explicit {
		score += w.ExplicitAgree
	}
	if c.Official {
		score += w.Official
	}
	if targetArtist != "" && c.Uploader != "" && strings.Contains(strings.ToLower(c.Uploader), targetArtist) {
		score += w.ArtistUpload
	}
	if c.OfficialChannel {
		score += w.KnownChannel
	}

	if !strings.Contains(targetTitle, "original") {
		for _, word := range unwantedVersions {
			if strings.Contains(candTitle, word) {
				score -= w.VersionPenalty
				break
			}
		}
	}

	return score
}

// SelectBest returns the highest-scoring candidate with score at
// least minConfidence, or nil when no candidate qualifies.
//
// Ties are broken by input order: among equal top scores the
// first-seen candidate wins. A nil return is the normal "not found on
// this source" outcome, not an error.
func (s *Scorer) SelectBest(target *model.Track, candidates []model.Candidate, minConfidence int) *model.Candidate {
	if len(candidates) == 0 {
		return nil
	}

	type scored struct {
		candidate *model.Candidate
		score     int
	}

	results := make([]scored, 0, len(candidates))
	for i := range candidates {
		results = append(results, scored{
			candidate: &candidates[i],
			score:     s.Score(target, &candidates[i]),
		})
	}

	sort.SliceStable(results, func(i, j int) bool {
		return results[i].score > results[j].score
	})

	if results[0].score < minConfidence {
		return nil
	}
	return results[0].candidate
}
