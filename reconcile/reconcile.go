// Package reconcile compares discovered news URLs against the canonical
// agency mapping, classifies every pair and produces a merged mapping in
// which the ground truth wins everywhere except for newly seen agencies.
package reconcile

import (
	"sort"
	"strings"

	"github.com/zombar/newslink/mapping"
	"github.com/zombar/newslink/models"
)

// Result holds the reconciliation output: the classified pairs, the merged
// mapping and per-classification counts.
type Result struct {
	Discrepancies  []models.Discrepancy
	Merged         map[string]string
	Counts         map[models.Classification]int
	CanonicalCount int
}

// Reconciler classifies scraped records against a canonical mapping.
type Reconciler struct {
	// KeyFunc derives the agency key from a portal URL. Records whose
	// portal yields no key are skipped.
	KeyFunc func(portalURL string) string
}

// New creates a Reconciler keyed by the gov.br portal layout.
func New() *Reconciler {
	return &Reconciler{KeyFunc: mapping.AgencyCode}
}

// Reconcile classifies each record and builds the merged mapping.
//
// Per record with a canonical entry: no discovered URL is
// MISSING_EXTRACTION; equality after trailing-slash trimming is
// EXACT_MATCH; containment in either direction is CONTAINED_VALID; anything
// else is MISMATCH. Records without a canonical entry but with a discovered
// URL are NEW_AGENCY and enter the merged mapping verbatim. For every other
// classification the canonical URL is kept.
func (r *Reconciler) Reconcile(records []models.SiteRecord, canonical map[string]string) Result {
	merged := make(map[string]string, len(canonical))
	for key, url := range canonical {
		merged[key] = url
	}

	counts := make(map[models.Classification]int)
	var discrepancies []models.Discrepancy

	for _, rec := range records {
		key := r.KeyFunc(rec.PortalURL)
		if key == "" {
			continue
		}

		extracted := strings.TrimSpace(rec.DiscoveredURL)
		canonicalURL, known := canonical[key]

		if !known {
			if extracted == "" {
				continue
			}
			merged[key] = extracted
			discrepancies = append(discrepancies, models.Discrepancy{
				AgencyKey:      key,
				PortalURL:      rec.PortalURL,
				ExtractedURL:   extracted,
				Classification: models.ClassificationNewAgency,
			})
			counts[models.ClassificationNewAgency]++
			continue
		}

		class := classify(extracted, canonicalURL)
		discrepancies = append(discrepancies, models.Discrepancy{
			AgencyKey:      key,
			PortalURL:      rec.PortalURL,
			ExtractedURL:   extracted,
			CanonicalURL:   canonicalURL,
			Classification: class,
		})
		counts[class]++
	}

	sortDiscrepancies(discrepancies)

	return Result{
		Discrepancies:  discrepancies,
		Merged:         merged,
		Counts:         counts,
		CanonicalCount: len(canonical),
	}
}

func classify(extracted, canonicalURL string) models.Classification {
	if extracted == "" {
		return models.ClassificationMissingExtraction
	}

	e := trimURL(extracted)
	c := trimURL(canonicalURL)

	switch {
	case e == c:
		return models.ClassificationExactMatch
	case contained(e, c):
		return models.ClassificationContainedValid
	default:
		return models.ClassificationMismatch
	}
}

// contained reports whether either URL is a substring of the other: one is
// a path-narrowing of its counterpart, so the extraction counts as valid.
func contained(a, b string) bool {
	if a == "" || b == "" {
		return false
	}
	return strings.Contains(a, b) || strings.Contains(b, a)
}

func trimURL(s string) string {
	return strings.TrimSuffix(strings.TrimSpace(s), "/")
}

// classificationOrder fixes the report group order.
var classificationOrder = map[models.Classification]int{
	models.ClassificationExactMatch:        0,
	models.ClassificationContainedValid:    1,
	models.ClassificationMismatch:          2,
	models.ClassificationNewAgency:         3,
	models.ClassificationMissingExtraction: 4,
}

// sortDiscrepancies groups by classification, then sorts agencies by key,
// so output is deterministic for a given input set.
func sortDiscrepancies(discrepancies []models.Discrepancy) {
	sort.SliceStable(discrepancies, func(i, j int) bool {
		oi := classificationOrder[discrepancies[i].Classification]
		oj := classificationOrder[discrepancies[j].Classification]
		if oi != oj {
			return oi < oj
		}
		return discrepancies[i].AgencyKey < discrepancies[j].AgencyKey
	})
}
