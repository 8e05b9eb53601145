package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"path"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/zombar/newslink"
	"github.com/zombar/newslink/mapping"
	"github.com/zombar/newslink/models"
	"github.com/zombar/newslink/reconcile"
	"github.com/zombar/newslink/sitelist"
	"github.com/zombar/newslink/storage"
	"github.com/zombar/newslink/textnorm"
)

// getEnv retrieves an environment variable or returns a default value
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

var (
	storageBackend string
	storagePath    string

	portalColumn string
	agencyColumn string
	newsColumn   string
)

func main() {
	// Setup structured logging with JSON output
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: slog.LevelInfo,
	}))
	slog.SetDefault(logger)

	rootCmd := &cobra.Command{
		Use:   "newslink",
		Short: "Discovers and reconciles news-section URLs of gov.br portals",
		RunE: func(cmd *cobra.Command, args []string) error {
			return cmd.Help()
		},
		SilenceUsage: true,
	}

	cols := sitelist.DefaultColumns()
	rootCmd.PersistentFlags().StringVar(&storageBackend, "storage-backend", getEnv("STORAGE_BACKEND", "local"), "Artifact storage backend (local or s3)")
	rootCmd.PersistentFlags().StringVar(&storagePath, "storage-path", getEnv("STORAGE_BASE_PATH", "./artifacts"), "Base directory for local artifact storage")
	rootCmd.PersistentFlags().StringVar(&portalColumn, "portal-column", cols.Portal, "Site list column holding portal URLs")
	rootCmd.PersistentFlags().StringVar(&agencyColumn, "agency-column", cols.Agency, "Site list column holding agency names")
	rootCmd.PersistentFlags().StringVar(&newsColumn, "news-column", cols.News, "Site list column holding discovered news URLs")

	rootCmd.AddCommand(scrapeCommand(), updateMappingCommand())

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		slog.Error("command failed", "error", err)
		os.Exit(1)
	}
}

func columns() sitelist.Columns {
	return sitelist.Columns{
		Portal: portalColumn,
		Agency: agencyColumn,
		News:   newsColumn,
	}
}

// newStore builds the artifact store from flags and S3_* environment
// variables (teacher-compatible: S3_ENDPOINT, S3_REGION, S3_BUCKET,
// S3_ACCESS_KEY_ID, S3_SECRET_ACCESS_KEY).
func newStore(ctx context.Context) (storage.Store, error) {
	cfg := storage.Config{
		Backend:  storageBackend,
		BasePath: storagePath,
		S3: storage.S3Config{
			Endpoint:        os.Getenv("S3_ENDPOINT"),
			Region:          getEnv("S3_REGION", "us-east-1"),
			Bucket:          os.Getenv("S3_BUCKET"),
			Prefix:          os.Getenv("S3_PREFIX"),
			AccessKeyID:     os.Getenv("S3_ACCESS_KEY_ID"),
			SecretAccessKey: os.Getenv("S3_SECRET_ACCESS_KEY"),
			UsePathStyle:    os.Getenv("S3_USE_PATH_STYLE") == "true",
		},
	}
	return storage.New(ctx, cfg)
}

func scrapeCommand() *cobra.Command {
	var (
		input           string
		output          string
		runName         string
		delay           time.Duration
		timeout         time.Duration
		checkpointEvery int
		userAgent       string
	)

	cmd := &cobra.Command{
		Use:   "scrape",
		Short: "Discover news-section URLs for every site in the input list",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()

			records, err := sitelist.Read(input, columns())
			if err != nil {
				return err
			}

			// A labeled run keeps its artifacts under a slugged directory
			// so repeated runs do not overwrite each other
			if runName != "" {
				output = path.Join(textnorm.Slug(runName), output)
			}

			store, err := newStore(ctx)
			if err != nil {
				return fmt.Errorf("failed to initialize storage: %w", err)
			}

			checkpoint := func(recs []models.SiteRecord) error {
				data, err := sitelist.Marshal(recs, columns())
				if err != nil {
					return err
				}
				_, err = store.Save(ctx, output, data)
				return err
			}

			finder := newslink.New(newslink.DefaultConfig())
			fetcher := newslink.NewFetcher(timeout, userAgent)
			runnerConfig := newslink.RunnerConfig{
				Delay:           delay,
				CheckpointEvery: checkpointEvery,
			}
			runner := newslink.NewRunner(finder, fetcher, runnerConfig, checkpoint)

			slog.Info("scrape starting",
				"run_id", runner.RunID(),
				"input", input,
				"output", output,
				"sites", len(records),
				"delay", delay.String(),
			)

			results, stats, runErr := runner.Run(ctx, records)

			// Persist whatever was gathered, interrupted or not
			if err := checkpoint(results); err != nil {
				return fmt.Errorf("failed to save results: %w", err)
			}

			slog.Info("scrape finished",
				"run_id", stats.RunID,
				"total_sites", stats.TotalSites,
				"sites_found", stats.SitesFound,
				"success_rate", fmt.Sprintf("%.1f%%", stats.SuccessRate),
			)

			if runErr != nil {
				return fmt.Errorf("scrape interrupted: %w", runErr)
			}
			return nil
		},
	}

	defaultDelay := newslink.DefaultRunnerConfig().Delay
	cmd.Flags().StringVarP(&input, "input", "i", "", "Input site list CSV (required)")
	cmd.Flags().StringVarP(&output, "output", "o", "sites-with-news.csv", "Output artifact name")
	cmd.Flags().StringVar(&runName, "run-name", "", "Optional run label; artifacts are saved under its slug")
	cmd.Flags().DurationVar(&delay, "delay", defaultDelay, "Pause between requests")
	cmd.Flags().DurationVar(&timeout, "timeout", 30*time.Second, "HTTP request timeout")
	cmd.Flags().IntVar(&checkpointEvery, "checkpoint-every", newslink.DefaultRunnerConfig().CheckpointEvery, "Save progress every N sites (0 disables)")
	cmd.Flags().StringVar(&userAgent, "user-agent", getEnv("USER_AGENT", ""), "HTTP User-Agent header")
	_ = cmd.MarkFlagRequired("input")

	return cmd
}

func updateMappingCommand() *cobra.Command {
	var (
		scraped   string
		mappingIn string
		mergedOut string
		reportOut string
		printOnly bool
	)

	cmd := &cobra.Command{
		Use:   "update-mapping",
		Short: "Reconcile scraped URLs against the canonical mapping",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()

			records, err := sitelist.Read(scraped, columns())
			if err != nil {
				return err
			}

			canonical, err := mapping.Load(mappingIn)
			if err != nil {
				return err
			}

			result := reconcile.New().Reconcile(records, canonical)
			report := reconcile.Report(result)
			fmt.Print(report)

			slog.Info("reconciliation finished",
				"canonical_agencies", result.CanonicalCount,
				"merged_agencies", len(result.Merged),
				"exact_matches", result.Counts[models.ClassificationExactMatch],
				"contained_valid", result.Counts[models.ClassificationContainedValid],
				"mismatches", result.Counts[models.ClassificationMismatch],
				"new_agencies", result.Counts[models.ClassificationNewAgency],
				"missing_extractions", result.Counts[models.ClassificationMissingExtraction],
			)

			if printOnly {
				return nil
			}

			store, err := newStore(ctx)
			if err != nil {
				return fmt.Errorf("failed to initialize storage: %w", err)
			}

			mergedData, err := mapping.Marshal(result.Merged)
			if err != nil {
				return err
			}
			if _, err := store.Save(ctx, mergedOut, mergedData); err != nil {
				return fmt.Errorf("failed to save merged mapping: %w", err)
			}
			if _, err := store.Save(ctx, reportOut, []byte(report)); err != nil {
				return fmt.Errorf("failed to save report: %w", err)
			}

			return nil
		},
	}

	cmd.Flags().StringVar(&scraped, "scraped", "", "Scraped site list CSV (required)")
	cmd.Flags().StringVar(&mappingIn, "mapping", "", "Canonical mapping YAML (required)")
	cmd.Flags().StringVar(&mergedOut, "merged-output", "site_urls_updated.yaml", "Merged mapping artifact name")
	cmd.Flags().StringVar(&reportOut, "report-output", "discrepancy_report.txt", "Discrepancy report artifact name")
	cmd.Flags().BoolVar(&printOnly, "print-only", false, "Print the report without saving artifacts")
	_ = cmd.MarkFlagRequired("scraped")
	_ = cmd.MarkFlagRequired("mapping")

	return cmd
}
