package models

// Classification describes the outcome of reconciling a discovered URL
// against its canonical entry.
type Classification string

const (
	ClassificationExactMatch        Classification = "EXACT_MATCH"
	ClassificationContainedValid    Classification = "CONTAINED_VALID"
	ClassificationMismatch          Classification = "MISMATCH"
	ClassificationNewAgency         Classification = "NEW_AGENCY"
	ClassificationMissingExtraction Classification = "MISSING_EXTRACTION"
)

// Anchor is an on-page link exposed by the document reader.
// ContainerPath holds the tag names of the anchor's ancestors, outermost first.
type Anchor struct {
	Href          string   `json:"href"`
	Text          string   `json:"text"`
	ContainerPath []string `json:"container_path,omitempty"`
}

// Candidate is a link discovered during one strategy level, not yet
// confirmed as the winner.
type Candidate struct {
	URL           string `json:"url"`
	AnchorText    string `json:"anchor_text"`
	StrategyLevel int    `json:"strategy_level"` // 1..4
	Score         int    `json:"score"`
}

// SiteRecord is one row of the site list. DiscoveredURL stays empty until
// the cascade succeeds for the portal.
type SiteRecord struct {
	PortalURL     string `json:"portal_url"`
	AgencyName    string `json:"agency_name"`
	DiscoveredURL string `json:"discovered_url,omitempty"`
}

// Discrepancy records the reconciliation outcome for one agency.
// Never mutated after creation.
type Discrepancy struct {
	AgencyKey      string         `json:"agency_key"`
	PortalURL      string         `json:"portal_url"`
	ExtractedURL   string         `json:"extracted_url,omitempty"`
	CanonicalURL   string         `json:"canonical_url,omitempty"`
	Classification Classification `json:"classification"`
}

// RunStats summarizes a batch scrape run.
type RunStats struct {
	RunID       string  `json:"run_id"`
	TotalSites  int     `json:"total_sites"`
	SitesFound  int     `json:"sites_found"`
	SuccessRate float64 `json:"success_rate"` // percentage over all sites
}
