package cmd

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/marketbayes/market-bayes/pkg/dataset"
	"github.com/marketbayes/market-bayes/pkg/ingest"
	"github.com/marketbayes/market-bayes/pkg/plugins"
)

var (
	prepareInput     string
	prepareOutputDir string
	prepareScript    string
	prepareSeed      int64
)

var prepareCmd = &cobra.Command{
	Use:   "prepare",
	Short: "Clean scraped news and split it into train and test files",
	Long: `Drop unlabeled and very short events, remove citation markers, optionally
run a Lua normalize(text) script, then shuffle and write half of the events
to tst.csv and the rest to trg.csv.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg := appConfig
		flags := cmd.Flags()
		if flags.Changed("input") {
			cfg.Ingest.NewsPath = prepareInput
		}
		if flags.Changed("output-dir") {
			cfg.Ingest.OutputDir = prepareOutputDir
		}
		if flags.Changed("script") {
			cfg.Ingest.NormalizeScript = prepareScript
		}
		if flags.Changed("seed") {
			cfg.Data.ShuffleSeed = prepareSeed
		}

		news, err := dataset.LoadFile(cfg.Ingest.NewsPath, loadOptions(cfg))
		if err != nil {
			return err
		}

		opts := ingest.CleanOptions{MinLength: cfg.Ingest.MinAbstractLength}
		if cfg.Ingest.NormalizeScript != "" {
			normalizer, err := plugins.NewLuaNormalizer(cfg.Ingest.NormalizeScript)
			if err != nil {
				return fmt.Errorf("failed to load normalize script: %w", err)
			}
			defer normalizer.Close()
			opts.Normalizer = normalizer

			meta := normalizer.Metadata()
			fmt.Printf("🔌 Normalizer: %s %s\n", meta.Name, meta.Version)
		}

		cleaned, err := ingest.Clean(news, opts)
		if err != nil {
			return err
		}

		if err := os.MkdirAll(cfg.Ingest.OutputDir, 0755); err != nil {
			return fmt.Errorf("failed to create output directory: %w", err)
		}
		if cfg.Ingest.CleanedPath != "" {
			if err := os.MkdirAll(filepath.Dir(cfg.Ingest.CleanedPath), 0755); err != nil {
				return fmt.Errorf("failed to create output directory: %w", err)
			}
			if err := cleaned.SaveFile(cfg.Ingest.CleanedPath); err != nil {
				return err
			}
		}

		test, train := ingest.Partition(cleaned, newRand(cfg.Data.ShuffleSeed))
		testPath := filepath.Join(cfg.Ingest.OutputDir, "tst.csv")
		trainPath := filepath.Join(cfg.Ingest.OutputDir, "trg.csv")
		if err := test.SaveFile(testPath); err != nil {
			return err
		}
		if err := train.SaveFile(trainPath); err != nil {
			return err
		}

		fmt.Printf("✅ Cleaned %d of %d events\n", cleaned.Len(), news.Len())
		fmt.Printf("🧪 Test records: %d → %s\n", test.Len(), testPath)
		fmt.Printf("📚 Training records: %d → %s\n", train.Len(), trainPath)
		return nil
	},
}

func init() {
	prepareCmd.Flags().StringVarP(&prepareInput, "input", "i", "", "Scraped news CSV (overrides config)")
	prepareCmd.Flags().StringVarP(&prepareOutputDir, "output-dir", "o", "", "Directory for trg.csv and tst.csv (overrides config)")
	prepareCmd.Flags().StringVar(&prepareScript, "script", "", "Lua normalize script (overrides config)")
	prepareCmd.Flags().Int64Var(&prepareSeed, "seed", 0, "Shuffle seed (0 = random)")
}
