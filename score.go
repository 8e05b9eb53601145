package newslink

import (
	"net/url"
	"strings"

	"github.com/zombar/newslink/models"
	"github.com/zombar/newslink/textnorm"
)

// Weights is the score bonus table for candidate selection. Each bonus is
// applied independently and summed.
type Weights struct {
	CommsPath   int // URL path contains the communication-section keyword
	LatestLabel int // anchor text equals the "latest news" label exactly
	PathBrevity int // per path segment saved relative to the longest candidate
	NewsPath    int // URL path contains the news keyword
}

// DefaultWeights returns the standard bonus table.
func DefaultWeights() Weights {
	return Weights{
		CommsPath:   100,
		LatestLabel: 50,
		PathBrevity: 10,
		NewsPath:    5,
	}
}

// Scorer ranks the candidates that survived matching and filtering at one
// strategy level.
type Scorer struct {
	Weights      Weights
	CommsKeyword string
	NewsKeyword  string
	LatestLabel  string
}

// NewScorer creates a Scorer with the given weight table and the standard
// gov.br path keywords.
func NewScorer(weights Weights) Scorer {
	return Scorer{
		Weights:      weights,
		CommsKeyword: "comunicacao",
		NewsKeyword:  "noticias",
		LatestLabel:  "últimas notícias",
	}
}

// Score computes the candidate's total bonus. maxSegments is the largest
// path-segment count in the candidate set under comparison; shorter paths
// collect the brevity bonus per segment saved.
func (s Scorer) Score(c models.Candidate, maxSegments int) int {
	score := 0
	path := urlPath(c.URL)

	if strings.Contains(path, s.CommsKeyword) {
		score += s.Weights.CommsPath
	}
	if textnorm.Fold(c.AnchorText) == textnorm.Fold(s.LatestLabel) {
		score += s.Weights.LatestLabel
	}
	if n := pathSegments(c.URL); n < maxSegments {
		score += s.Weights.PathBrevity * (maxSegments - n)
	}
	if strings.Contains(path, s.NewsKeyword) {
		score += s.Weights.NewsPath
	}

	return score
}

// Pick scores the candidates and returns the winner. Ties go to the
// shortest path, then to the first-encountered candidate, so selection is
// deterministic for a given input order.
func (s Scorer) Pick(cands []models.Candidate) (models.Candidate, bool) {
	if len(cands) == 0 {
		return models.Candidate{}, false
	}

	maxSegments := 0
	for _, c := range cands {
		if n := pathSegments(c.URL); n > maxSegments {
			maxSegments = n
		}
	}

	best := cands[0]
	best.Score = s.Score(best, maxSegments)
	bestSegments := pathSegments(best.URL)

	for _, c := range cands[1:] {
		c.Score = s.Score(c, maxSegments)
		segments := pathSegments(c.URL)

		if c.Score > best.Score || (c.Score == best.Score && segments < bestSegments) {
			best = c
			bestSegments = segments
		}
	}

	return best, true
}

// urlPath returns the lowercased path of rawURL, or the whole lowercased
// string when it cannot be parsed.
func urlPath(rawURL string) string {
	if u, err := url.Parse(rawURL); err == nil {
		return strings.ToLower(u.Path)
	}
	return strings.ToLower(rawURL)
}

// pathSegments counts the non-empty /-delimited segments of the URL path.
func pathSegments(rawURL string) int {
	path := urlPath(rawURL)
	n := 0
	for _, seg := range strings.Split(path, "/") {
		if seg != "" {
			n++
		}
	}
	return n
}
