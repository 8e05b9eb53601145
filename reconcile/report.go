package reconcile

import (
	"fmt"
	"strings"

	"github.com/zombar/newslink/models"
)

// reportGroups is the classification order used in the rendered report.
var reportGroups = []models.Classification{
	models.ClassificationExactMatch,
	models.ClassificationContainedValid,
	models.ClassificationMismatch,
	models.ClassificationNewAgency,
	models.ClassificationMissingExtraction,
}

// Report renders the reconciliation outcome as a human-readable document:
// entries grouped by classification, agencies sorted by key within each
// group, with a summary of counts and the accuracy rate over the canonical
// mapping.
func Report(result Result) string {
	var b strings.Builder

	mismatches := result.Counts[models.ClassificationMismatch]
	newAgencies := result.Counts[models.ClassificationNewAgency]

	if mismatches == 0 && newAgencies == 0 {
		b.WriteString("No discrepancies found: all extracted URLs agree with the canonical mapping.\n")
	} else {
		fmt.Fprintf(&b, "DISCREPANCY REPORT (%d mismatches, %d new agencies)\n", mismatches, newAgencies)
	}
	b.WriteString(strings.Repeat("=", 60))
	b.WriteString("\n")

	for _, class := range reportGroups {
		count := result.Counts[class]
		if count == 0 {
			continue
		}

		fmt.Fprintf(&b, "\n%s (%d)\n", class, count)

		n := 0
		for _, d := range result.Discrepancies {
			if d.Classification != class {
				continue
			}
			n++
			fmt.Fprintf(&b, "%d. %s\n", n, strings.ToUpper(d.AgencyKey))
			fmt.Fprintf(&b, "   Portal:    %s\n", d.PortalURL)
			if d.ExtractedURL != "" {
				fmt.Fprintf(&b, "   Extracted: %s\n", d.ExtractedURL)
			}
			if d.CanonicalURL != "" {
				fmt.Fprintf(&b, "   Canonical: %s\n", d.CanonicalURL)
			}
		}
	}

	b.WriteString("\n")
	b.WriteString(strings.Repeat("=", 60))
	b.WriteString("\n")
	fmt.Fprintf(&b, "Agencies in canonical mapping: %d\n", result.CanonicalCount)
	fmt.Fprintf(&b, "Agencies after merge: %d\n", len(result.Merged))
	if result.CanonicalCount > 0 {
		accuracy := float64(result.CanonicalCount-mismatches) / float64(result.CanonicalCount) * 100
		fmt.Fprintf(&b, "Accuracy rate: %.1f%%\n", accuracy)
	}

	return b.String()
}
