package newslink

import (
	"context"
	"log"
	"time"

	"github.com/google/uuid"

	"github.com/zombar/newslink/htmldoc"
	"github.com/zombar/newslink/models"
)

// PageFetcher supplies parsed portal pages to the batch runner. *Fetcher
// implements it; tests substitute a local one.
type PageFetcher interface {
	FetchDocument(ctx context.Context, targetURL string) (htmldoc.Document, error)
}

// CheckpointFunc persists the in-progress result set so an interrupted run
// can resume from the last save.
type CheckpointFunc func(records []models.SiteRecord) error

// RunnerConfig contains batch runner configuration.
type RunnerConfig struct {
	Delay           time.Duration // pause between requests, respects remote rate limits
	CheckpointEvery int           // save cadence in processed sites, 0 disables
}

// DefaultRunnerConfig returns default runner configuration
func DefaultRunnerConfig() RunnerConfig {
	return RunnerConfig{
		Delay:           2 * time.Second,
		CheckpointEvery: 5,
	}
}

// Runner walks a site list sequentially, discovering one news URL per site.
// A site's failure never aborts the batch: its record just stays without a
// discovered URL.
type Runner struct {
	finder     *Finder
	fetcher    PageFetcher
	config     RunnerConfig
	checkpoint CheckpointFunc
	runID      string
}

// NewRunner creates a new Runner instance. checkpoint may be nil to disable
// progress persistence.
func NewRunner(finder *Finder, fetcher PageFetcher, config RunnerConfig, checkpoint CheckpointFunc) *Runner {
	return &Runner{
		finder:     finder,
		fetcher:    fetcher,
		config:     config,
		checkpoint: checkpoint,
		runID:      uuid.New().String(),
	}
}

// RunID identifies this batch run in logs and artifact names.
func (r *Runner) RunID() string {
	return r.runID
}

// Run processes every record that has no discovered URL yet and returns the
// updated set plus run statistics. Records already carrying a URL are left
// untouched, which makes re-running on checkpoint output a resume. The
// input slice is not mutated.
func (r *Runner) Run(ctx context.Context, records []models.SiteRecord) ([]models.SiteRecord, models.RunStats, error) {
	out := make([]models.SiteRecord, len(records))
	copy(out, records)

	pending := 0
	for _, rec := range out {
		if rec.DiscoveredURL == "" {
			pending++
		}
	}

	if pending == 0 {
		log.Printf("[run %s] all %d sites already have news links", r.runID, len(out))
		return out, r.stats(out), nil
	}
	log.Printf("[run %s] processing %d of %d sites without news links", r.runID, pending, len(out))

	processed := 0
	for i := range out {
		if out[i].DiscoveredURL != "" {
			continue
		}

		if err := ctx.Err(); err != nil {
			return out, r.stats(out), err
		}

		processed++
		log.Printf("[run %s] processing (%d/%d): %s", r.runID, processed, pending, out[i].PortalURL)

		r.processSite(ctx, &out[i])

		if r.checkpoint != nil && r.config.CheckpointEvery > 0 && processed%r.config.CheckpointEvery == 0 {
			if err := r.checkpoint(out); err != nil {
				log.Printf("[run %s] checkpoint save failed: %v", r.runID, err)
			} else {
				log.Printf("[run %s] progress saved: %d sites processed", r.runID, processed)
			}
		}

		if processed < pending {
			if err := r.pause(ctx); err != nil {
				return out, r.stats(out), err
			}
		}
	}

	stats := r.stats(out)
	log.Printf("[run %s] done: %d/%d sites with news links (%.1f%%)",
		r.runID, stats.SitesFound, stats.TotalSites, stats.SuccessRate)
	return out, stats, nil
}

// processSite resolves one record in isolation. Fetch and extraction
// failures are logged and leave the record without a discovered URL.
func (r *Runner) processSite(ctx context.Context, rec *models.SiteRecord) {
	doc, err := r.fetcher.FetchDocument(ctx, rec.PortalURL)
	if err != nil {
		log.Printf("[run %s] fetch failed for %s: %v", r.runID, rec.PortalURL, err)
		return
	}

	newsURL, ok := r.finder.Find(doc)
	if !ok {
		log.Printf("[run %s] no news link found at %s", r.runID, rec.PortalURL)
		return
	}

	rec.DiscoveredURL = newsURL
}

// pause waits the configured inter-request delay unless the context ends first.
func (r *Runner) pause(ctx context.Context) error {
	if r.config.Delay <= 0 {
		return nil
	}

	timer := time.NewTimer(r.config.Delay)
	defer timer.Stop()

	select {
	case <-timer.C:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (r *Runner) stats(records []models.SiteRecord) models.RunStats {
	found := 0
	for _, rec := range records {
		if rec.DiscoveredURL != "" {
			found++
		}
	}

	rate := 0.0
	if len(records) > 0 {
		rate = float64(found) / float64(len(records)) * 100
	}

	return models.RunStats{
		RunID:       r.runID,
		TotalSites:  len(records),
		SitesFound:  found,
		SuccessRate: rate,
	}
}
