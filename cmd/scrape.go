package cmd

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/marketbayes/market-bayes/pkg/ingest"
)

var (
	scrapeStartYear int
	scrapeEndYear   int
	scrapeIndexPath string
	scrapeOutput    string
)

var scrapeCmd = &cobra.Command{
	Use:   "scrape",
	Short: "Collect labeled news events",
	Long: `Download the yearly "<year> in the United States" event pages, label every
event with the index movement of its day and write them as id,class,abstract.

Days without a trading session leave their events unlabeled (class None).`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg := appConfig
		flags := cmd.Flags()
		if flags.Changed("start") {
			cfg.Ingest.StartYear = scrapeStartYear
		}
		if flags.Changed("end") {
			cfg.Ingest.EndYear = scrapeEndYear
		}
		if flags.Changed("index") {
			cfg.Ingest.IndexPath = scrapeIndexPath
		}
		if flags.Changed("output") {
			cfg.Ingest.NewsPath = scrapeOutput
		}
		if cfg.Ingest.StartYear > cfg.Ingest.EndYear {
			return fmt.Errorf("start year %d is after end year %d", cfg.Ingest.StartYear, cfg.Ingest.EndYear)
		}

		closes, err := ingest.LoadIndexFile(cfg.Ingest.IndexPath)
		if err != nil {
			return err
		}
		movements := ingest.Movements(closes)

		fmt.Printf("📰 mbayes News Scraper\n")
		fmt.Printf("═══════════════════════════════════════\n")
		fmt.Printf("📈 Index data: %s (%d trading days)\n", cfg.Ingest.IndexPath, len(closes))
		fmt.Printf("📅 Years: %d - %d\n", cfg.Ingest.StartYear, cfg.Ingest.EndYear)
		fmt.Printf("🌐 Source: %s\n", cfg.Ingest.BaseURL)
		fmt.Printf("\n")

		ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		scraper := ingest.NewScraper(
			ingest.WithBaseURL(cfg.Ingest.BaseURL),
			ingest.WithRateLimit(cfg.Ingest.RequestsPerSecond),
			ingest.WithUserAgent(cfg.Ingest.UserAgent),
			ingest.WithHTTPClient(&http.Client{Timeout: time.Duration(cfg.Ingest.TimeoutMs) * time.Millisecond}),
		)

		start := time.Now()
		news, err := scraper.Scrape(ctx, cfg.Ingest.StartYear, cfg.Ingest.EndYear)
		if err != nil {
			return fmt.Errorf("scrape interrupted after %d events: %w", len(news), err)
		}
		labeled := ingest.Label(news, movements)

		if err := os.MkdirAll(filepath.Dir(cfg.Ingest.NewsPath), 0755); err != nil {
			return fmt.Errorf("failed to create output directory: %w", err)
		}
		if err := ingest.ToStore(news).SaveFile(cfg.Ingest.NewsPath); err != nil {
			return err
		}

		fmt.Printf("🎉 Scraping Complete!\n")
		fmt.Printf("📊 Events collected: %d\n", len(news))
		fmt.Printf("🏷️  Events labeled: %d\n", labeled)
		fmt.Printf("⏱️  Time taken: %v\n", time.Since(start))
		fmt.Printf("💾 Saved to: %s\n", cfg.Ingest.NewsPath)
		return nil
	},
}

func init() {
	scrapeCmd.Flags().IntVar(&scrapeStartYear, "start", 0, "First year to scrape (overrides config)")
	scrapeCmd.Flags().IntVar(&scrapeEndYear, "end", 0, "Last year to scrape (overrides config)")
	scrapeCmd.Flags().StringVar(&scrapeIndexPath, "index", "", "Daily index prices CSV (overrides config)")
	scrapeCmd.Flags().StringVarP(&scrapeOutput, "output", "o", "", "News output CSV (overrides config)")
}
