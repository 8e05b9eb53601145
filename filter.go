package newslink

import (
	"net/url"
	"strings"

	"github.com/zombar/newslink/models"
)

// DefaultDenyList lists path keywords that mark a news link as promotional
// or event-specific rather than the portal's news section.
func DefaultDenyList() []string {
	return []string{"g20", "evento", "campanha", "especial", "promocao"}
}

// Filter rejects candidate URLs whose path contains a deny-list keyword.
// Only the generic "notícias" strategy applies it; the earlier levels carry
// enough anchor-phrase specificity to be trusted unfiltered.
type Filter struct {
	deny []string
}

// NewFilter creates a Filter from a deny-list. Keywords are matched
// case-insensitively as path substrings.
func NewFilter(deny []string) Filter {
	lowered := make([]string, 0, len(deny))
	for _, kw := range deny {
		kw = strings.ToLower(strings.TrimSpace(kw))
		if kw != "" {
			lowered = append(lowered, kw)
		}
	}
	return Filter{deny: lowered}
}

// Allow reports whether the URL's path is free of deny-list keywords.
// Unparsable URLs are checked against the raw string instead.
func (f Filter) Allow(rawURL string) bool {
	path := rawURL
	if u, err := url.Parse(rawURL); err == nil {
		path = u.Path
	}
	path = strings.ToLower(path)

	for _, kw := range f.deny {
		if strings.Contains(path, kw) {
			return false
		}
	}
	return true
}

// Apply returns the candidates whose URLs pass the deny-list.
func (f Filter) Apply(cands []models.Candidate) []models.Candidate {
	kept := make([]models.Candidate, 0, len(cands))
	for _, c := range cands {
		if f.Allow(c.URL) {
			kept = append(kept, c)
		}
	}
	return kept
}
