package newslink

import (
	"strings"

	"github.com/zombar/newslink/models"
	"github.com/zombar/newslink/textnorm"
)

// Tier is the quality of a text match, higher is better.
type Tier int

const (
	TierNone Tier = iota
	TierPrefix
	TierSuffix
	TierExact
)

// String returns the tier name for logging.
func (t Tier) String() string {
	switch t {
	case TierExact:
		return "exact"
	case TierSuffix:
		return "suffix"
	case TierPrefix:
		return "prefix"
	default:
		return "none"
	}
}

// MatchPhrase compares an anchor label against a target phrase.
// Both sides are normalized (case, whitespace, accents) before comparison.
// Priority: exact equality, then suffix ("principais notícias"), then
// prefix ("notícias siscomex").
func MatchPhrase(text, phrase string) Tier {
	t := textnorm.Fold(text)
	p := textnorm.Fold(phrase)
	if t == "" || p == "" {
		return TierNone
	}

	switch {
	case t == p:
		return TierExact
	case strings.HasSuffix(t, p):
		return TierSuffix
	case strings.HasPrefix(t, p):
		return TierPrefix
	default:
		return TierNone
	}
}

// BestMatches returns the anchors matching phrase at the best tier found,
// along with that tier. Lower-tier anchors never proceed to scoring: the
// tier acts as a strict pre-filter, not a score component.
func BestMatches(anchors []models.Anchor, phrase string) ([]models.Anchor, Tier) {
	var exact, suffix, prefix []models.Anchor

	for _, a := range anchors {
		switch MatchPhrase(a.Text, phrase) {
		case TierExact:
			exact = append(exact, a)
		case TierSuffix:
			suffix = append(suffix, a)
		case TierPrefix:
			prefix = append(prefix, a)
		}
	}

	switch {
	case len(exact) > 0:
		return exact, TierExact
	case len(suffix) > 0:
		return suffix, TierSuffix
	case len(prefix) > 0:
		return prefix, TierPrefix
	default:
		return nil, TierNone
	}
}
