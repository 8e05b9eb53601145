package reconcile

import (
	"strings"
	"testing"

	"github.com/zombar/newslink/models"
)

func record(portal, discovered string) models.SiteRecord {
	return models.SiteRecord{PortalURL: portal, DiscoveredURL: discovered}
}

func TestClassify(t *testing.T) {
	tests := []struct {
		name      string
		extracted string
		canonical string
		expected  models.Classification
	}{
		{
			name:      "identical URLs",
			extracted: "https://www.gov.br/saude/pt-br/assuntos/noticias",
			canonical: "https://www.gov.br/saude/pt-br/assuntos/noticias",
			expected:  models.ClassificationExactMatch,
		},
		{
			name:      "trailing slash ignored",
			extracted: "https://www.gov.br/saude/pt-br/assuntos/noticias/",
			canonical: "https://www.gov.br/saude/pt-br/assuntos/noticias",
			expected:  models.ClassificationExactMatch,
		},
		{
			name:      "extracted narrows canonical",
			extracted: "https://www.gov.br/saude/pt-br/assuntos/noticias/2024",
			canonical: "https://www.gov.br/saude/pt-br/assuntos/noticias",
			expected:  models.ClassificationContainedValid,
		},
		{
			name:      "canonical narrows extracted",
			extracted: "https://www.gov.br/saude/pt-br/assuntos",
			canonical: "https://www.gov.br/saude/pt-br/assuntos/noticias",
			expected:  models.ClassificationContainedValid,
		},
		{
			name:      "different paths",
			extracted: "https://www.gov.br/saude/pt-br/comunicacao/noticias",
			canonical: "https://www.gov.br/saude/pt-br/assuntos/noticias",
			expected:  models.ClassificationMismatch,
		},
		{
			name:      "nothing extracted",
			extracted: "",
			canonical: "https://www.gov.br/saude/pt-br/assuntos/noticias",
			expected:  models.ClassificationMissingExtraction,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := classify(tt.extracted, tt.canonical); got != tt.expected {
				t.Errorf("classify(%q, %q) = %s, expected %s", tt.extracted, tt.canonical, got, tt.expected)
			}
		})
	}
}

func TestReconcileCanonicalWins(t *testing.T) {
	canonical := map[string]string{
		"saude": "https://www.gov.br/saude/pt-br/assuntos/noticias",
	}
	records := []models.SiteRecord{
		record("https://www.gov.br/saude/pt-br", "https://www.gov.br/saude/pt-br/comunicacao/noticias"),
	}

	result := New().Reconcile(records, canonical)

	if result.Counts[models.ClassificationMismatch] != 1 {
		t.Fatalf("Expected 1 mismatch, got %+v", result.Counts)
	}
	if result.Merged["saude"] != canonical["saude"] {
		t.Errorf("Canonical URL must survive a mismatch, got %s", result.Merged["saude"])
	}
}

func TestReconcileNewAgency(t *testing.T) {
	canonical := map[string]string{
		"saude": "https://www.gov.br/saude/pt-br/assuntos/noticias",
	}
	records := []models.SiteRecord{
		record("https://www.gov.br/mcti/pt-br", "https://www.gov.br/mcti/pt-br/acompanhe-o-mcti/noticias"),
	}

	result := New().Reconcile(records, canonical)

	if result.Counts[models.ClassificationNewAgency] != 1 {
		t.Fatalf("Expected 1 new agency, got %+v", result.Counts)
	}
	if result.Merged["mcti"] != "https://www.gov.br/mcti/pt-br/acompanhe-o-mcti/noticias" {
		t.Errorf("New agency URL must enter merged mapping verbatim, got %s", result.Merged["mcti"])
	}
	if result.Merged["saude"] != canonical["saude"] {
		t.Errorf("Untouched canonical entry changed: %s", result.Merged["saude"])
	}
	if len(result.Merged) != 2 {
		t.Errorf("Expected 2 merged agencies, got %d", len(result.Merged))
	}
}

func TestReconcileSkipsUnkeyedAndEmptyUnknown(t *testing.T) {
	canonical := map[string]string{}
	records := []models.SiteRecord{
		record("https://example.com/pagina", "https://example.com/noticias"),
		record("https://www.gov.br/mcti/pt-br", ""),
	}

	result := New().Reconcile(records, canonical)

	if len(result.Discrepancies) != 0 {
		t.Errorf("Expected no discrepancies, got %+v", result.Discrepancies)
	}
	if len(result.Merged) != 0 {
		t.Errorf("Expected empty merged mapping, got %v", result.Merged)
	}
}

func TestReconcileIdempotent(t *testing.T) {
	// Reconciling scraped output against the merged mapping of a previous
	// run must produce no mismatches and no new agencies.
	canonical := map[string]string{
		"saude": "https://www.gov.br/saude/pt-br/assuntos/noticias",
	}
	records := []models.SiteRecord{
		record("https://www.gov.br/saude/pt-br", "https://www.gov.br/saude/pt-br/comunicacao/noticias"),
		record("https://www.gov.br/mcti/pt-br", "https://www.gov.br/mcti/pt-br/acompanhe-o-mcti/noticias"),
	}

	first := New().Reconcile(records, canonical)
	second := New().Reconcile(records, first.Merged)

	if second.Counts[models.ClassificationNewAgency] != 0 {
		t.Errorf("Second pass reported new agencies: %+v", second.Counts)
	}
	if second.Counts[models.ClassificationMismatch] != first.Counts[models.ClassificationMismatch] {
		t.Errorf("Mismatch count changed between passes: %+v vs %+v", first.Counts, second.Counts)
	}
	if len(second.Merged) != len(first.Merged) {
		t.Errorf("Merged mapping size changed: %d vs %d", len(first.Merged), len(second.Merged))
	}
}

func TestReconcileOrdering(t *testing.T) {
	canonical := map[string]string{
		"agricultura": "https://www.gov.br/agricultura/pt-br/noticias",
		"saude":       "https://www.gov.br/saude/pt-br/noticias",
		"fazenda":     "https://www.gov.br/fazenda/pt-br/noticias",
	}
	records := []models.SiteRecord{
		record("https://www.gov.br/saude/pt-br", "https://www.gov.br/saude/pt-br/outra-coisa"),
		record("https://www.gov.br/agricultura/pt-br", "https://www.gov.br/agricultura/pt-br/errado"),
		record("https://www.gov.br/fazenda/pt-br", "https://www.gov.br/fazenda/pt-br/noticias"),
	}

	result := New().Reconcile(records, canonical)

	if len(result.Discrepancies) != 3 {
		t.Fatalf("Expected 3 discrepancies, got %d", len(result.Discrepancies))
	}

	// Exact matches first, then mismatches sorted by agency key.
	got := []string{
		string(result.Discrepancies[0].Classification) + ":" + result.Discrepancies[0].AgencyKey,
		string(result.Discrepancies[1].Classification) + ":" + result.Discrepancies[1].AgencyKey,
		string(result.Discrepancies[2].Classification) + ":" + result.Discrepancies[2].AgencyKey,
	}
	expected := []string{
		"EXACT_MATCH:fazenda",
		"MISMATCH:agricultura",
		"MISMATCH:saude",
	}
	for i := range expected {
		if got[i] != expected[i] {
			t.Fatalf("Order mismatch at %d: got %v, expected %v", i, got, expected)
		}
	}
}

func TestReportContent(t *testing.T) {
	canonical := map[string]string{
		"agricultura": "https://www.gov.br/agricultura/pt-br/noticias",
		"saude":       "https://www.gov.br/saude/pt-br/noticias",
	}
	records := []models.SiteRecord{
		record("https://www.gov.br/agricultura/pt-br", "https://www.gov.br/agricultura/pt-br/noticias"),
		record("https://www.gov.br/saude/pt-br", "https://www.gov.br/saude/pt-br/errado"),
		record("https://www.gov.br/mcti/pt-br", "https://www.gov.br/mcti/pt-br/noticias"),
	}

	report := Report(New().Reconcile(records, canonical))

	for _, want := range []string{
		"DISCREPANCY REPORT (1 mismatches, 1 new agencies)",
		"EXACT_MATCH (1)",
		"MISMATCH (1)",
		"NEW_AGENCY (1)",
		"1. SAUDE",
		"Extracted: https://www.gov.br/saude/pt-br/errado",
		"Canonical: https://www.gov.br/saude/pt-br/noticias",
		"Agencies in canonical mapping: 2",
		"Agencies after merge: 3",
		"Accuracy rate: 50.0%",
	} {
		if !strings.Contains(report, want) {
			t.Errorf("Report missing %q:\n%s", want, report)
		}
	}
}

func TestReportNoDiscrepancies(t *testing.T) {
	canonical := map[string]string{
		"saude": "https://www.gov.br/saude/pt-br/noticias",
	}
	records := []models.SiteRecord{
		record("https://www.gov.br/saude/pt-br", "https://www.gov.br/saude/pt-br/noticias"),
	}

	report := Report(New().Reconcile(records, canonical))

	if !strings.Contains(report, "No discrepancies found") {
		t.Errorf("Expected the no-discrepancies header:\n%s", report)
	}
	if !strings.Contains(report, "Accuracy rate: 100.0%") {
		t.Errorf("Expected full accuracy:\n%s", report)
	}
}
