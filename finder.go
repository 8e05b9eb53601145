// Package newslink discovers the canonical news-section URL of a gov.br
// portal page. A fixed cascade of extraction strategies is tried in order,
// from the most specific (a "Notícias" link in the footer) to the least
// (any news-labelled link on the page, deny-list filtered); the first
// strategy that yields surviving candidates picks a winner by score.
package newslink

import (
	"log"
	"strings"

	"github.com/zombar/newslink/htmldoc"
	"github.com/zombar/newslink/models"
)

// Strategy is one cascade level: a target phrase, an optional CSS scope
// restricting the anchor search, and whether the deny-list applies.
type Strategy struct {
	Level    int
	Phrase   string
	Scope    string // empty searches the whole page
	Filtered bool
}

// Config contains finder configuration. Phrase strategies, deny-list and
// score weights are data, not code, so they can be tuned per deployment.
type Config struct {
	Strategies []Strategy
	DenyList   []string
	Weights    Weights
}

// DefaultConfig returns the standard gov.br cascade: footer "Notícias",
// page-wide "Últimas Notícias", page-wide "Mais Notícias", then generic
// "Notícias" with promotional filtering.
func DefaultConfig() Config {
	return Config{
		Strategies: []Strategy{
			{Level: 1, Phrase: "notícias", Scope: "div.footer-wrapper, footer"},
			{Level: 2, Phrase: "últimas notícias"},
			{Level: 3, Phrase: "mais notícias"},
			{Level: 4, Phrase: "notícias", Filtered: true},
		},
		DenyList: DefaultDenyList(),
		Weights:  DefaultWeights(),
	}
}

// Finder runs the strategy cascade against parsed portal pages. It is
// stateless across pages: identical documents always produce identical
// results.
type Finder struct {
	config Config
	scorer Scorer
	filter Filter
}

// New creates a new Finder instance
func New(config Config) *Finder {
	return &Finder{
		config: config,
		scorer: NewScorer(config.Weights),
		filter: NewFilter(config.DenyList),
	}
}

// Find returns the news-section URL for the page, or false when no strategy
// produced a surviving candidate. Missing containers or anchor-free scopes
// are treated as empty candidate sets, never as errors.
func (f *Finder) Find(doc htmldoc.Document) (string, bool) {
	for _, strategy := range f.config.Strategies {
		anchors := doc.Anchors(strategy.Scope)
		if len(anchors) == 0 {
			if strategy.Scope != "" {
				log.Printf("Level %d: no anchors under scope %q, advancing", strategy.Level, strategy.Scope)
			}
			continue
		}

		matched, tier := BestMatches(anchors, strategy.Phrase)
		if len(matched) == 0 {
			continue
		}

		candidates := make([]models.Candidate, 0, len(matched))
		for _, a := range matched {
			candidates = append(candidates, models.Candidate{
				URL:           a.Href,
				AnchorText:    a.Text,
				StrategyLevel: strategy.Level,
			})
		}

		if strategy.Filtered {
			candidates = f.filter.Apply(candidates)
		}
		if len(candidates) == 0 {
			continue
		}

		winner, ok := f.scorer.Pick(candidates)
		if !ok {
			continue
		}

		log.Printf("Level %d: selected %q (tier=%s score=%d container=%s)",
			strategy.Level, winner.URL, tier, winner.Score, containerOf(matched, winner))
		return winner.URL, true
	}

	return "", false
}

// containerOf reports the ancestor chain of the winning anchor for logs.
func containerOf(anchors []models.Anchor, winner models.Candidate) string {
	for _, a := range anchors {
		if a.Href == winner.URL && a.Text == winner.AnchorText {
			return strings.Join(a.ContainerPath, ">")
		}
	}
	return ""
}
