package cmd

import (
	"fmt"
	"math/rand"
	"time"

	"github.com/spf13/cobra"

	"github.com/marketbayes/market-bayes/pkg/config"
	"github.com/marketbayes/market-bayes/pkg/dataset"
	"github.com/marketbayes/market-bayes/pkg/logging"
)

var (
	configPath string
	logLevel   string

	// appConfig is loaded once before any subcommand runs
	appConfig *config.Config
)

var rootCmd = &cobra.Command{
	Use:   "mbayes",
	Short: "mbayes - news driven market movement classifier",
	Long: `mbayes predicts whether the stock index closed up (U) or down (D) on a day
from short news summaries of that day, using a Naive Bayes text classifier.

It also scrapes and labels the news dataset it learns from.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.LoadConfig(configPath)
		if err != nil {
			return fmt.Errorf("failed to load configuration: %w", err)
		}
		if logLevel != "" {
			cfg.Logging.Level = logLevel
		}
		logging.Setup(cfg.Logging)
		appConfig = cfg
		return nil
	},
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Println("mbayes - Naive Bayes market movement classifier")
		fmt.Println("Use 'mbayes --help' for usage information")
	},
}

func Execute() error {
	return rootCmd.Execute()
}

// loadOptions builds record loading options from the data section
func loadOptions(cfg *config.Config) dataset.LoadOptions {
	opts := dataset.DefaultLoadOptions()
	if cfg.Data.NoLabel != "" {
		opts.NoLabel = cfg.Data.NoLabel
	}
	return opts
}

// newRand returns a seeded source, or a time seeded one for seed 0
func newRand(seed int64) *rand.Rand {
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	return rand.New(rand.NewSource(seed))
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", "", "Configuration file path")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "", "Log level (trace, debug, info, warn, error)")

	rootCmd.AddCommand(trainCmd)
	rootCmd.AddCommand(predictCmd)
	rootCmd.AddCommand(classifyCmd)
	rootCmd.AddCommand(diffCmd)
	rootCmd.AddCommand(scrapeCmd)
	rootCmd.AddCommand(prepareCmd)
	rootCmd.AddCommand(configCmd)
	rootCmd.AddCommand(benchmarkCmd)
	rootCmd.AddCommand(modelCmd)
}
