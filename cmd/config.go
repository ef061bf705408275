package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/marketbayes/market-bayes/pkg/config"
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Configuration management",
	Long:  `Generate and manage mbayes configuration files`,
}

var configGenCmd = &cobra.Command{
	Use:   "generate [config-file]",
	Short: "Generate default configuration file",
	Long:  `Generate a default configuration file with all options`,
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		path := "config.yaml"
		if len(args) > 0 {
			path = args[0]
		}

		if _, err := os.Stat(path); err == nil {
			overwrite, _ := cmd.Flags().GetBool("force")
			if !overwrite {
				return fmt.Errorf("config file already exists: %s (use --force to overwrite)", path)
			}
		}

		if err := config.DefaultConfig().SaveConfig(path); err != nil {
			return fmt.Errorf("failed to save config: %w", err)
		}

		fmt.Printf("✅ Configuration file generated: %s\n", path)
		fmt.Printf("📝 Edit the file to set data paths and model parameters\n")
		fmt.Printf("🚀 Use 'mbayes train --config %s' to use the configuration\n", path)
		return nil
	},
}

var configValidateCmd = &cobra.Command{
	Use:   "validate <config-file>",
	Short: "Validate configuration file",
	Long:  `Validate a configuration file for syntax and range errors`,
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.LoadConfig(args[0])
		if err != nil {
			return fmt.Errorf("❌ Configuration validation failed: %w", err)
		}

		fmt.Printf("✅ Configuration is valid: %s\n", args[0])

		if warnings := validateConfigLogic(cfg); len(warnings) > 0 {
			fmt.Printf("\n⚠️  Warnings:\n")
			for _, warning := range warnings {
				fmt.Printf("  - %s\n", warning)
			}
		}
		return nil
	},
}

var configShowCmd = &cobra.Command{
	Use:   "show [config-file]",
	Short: "Show current configuration",
	Long:  `Display the configuration with all values`,
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg := appConfig
		if len(args) > 0 {
			loaded, err := config.LoadConfig(args[0])
			if err != nil {
				return fmt.Errorf("failed to load config: %w", err)
			}
			cfg = loaded
			fmt.Printf("Configuration: %s\n\n", args[0])
		} else {
			fmt.Printf("Active Configuration:\n\n")
		}

		fmt.Printf("📁 Data:\n")
		fmt.Printf("  Training records: %s\n", cfg.Data.TrainPath)
		fmt.Printf("  Test records: %s\n", cfg.Data.TestPath)
		fmt.Printf("  Predictions: %s\n", cfg.Data.OutputPath)
		fmt.Printf("  Unlabeled marker: %s\n", cfg.Data.NoLabel)
		fmt.Printf("  Shuffle: %v (seed %d)\n", cfg.Data.Shuffle, cfg.Data.ShuffleSeed)

		fmt.Printf("\n🧠 Model:\n")
		fmt.Printf("  Alpha: %g\n", cfg.Model.Alpha)
		fmt.Printf("  Stop word proportion: %g\n", cfg.Model.StopWordProportion)
		fmt.Printf("  Validation split: %g\n", cfg.Model.ValidationSplit)
		fmt.Printf("  Snapshot: %s\n", cfg.Model.ModelPath)

		fmt.Printf("\n📰 Ingest:\n")
		fmt.Printf("  Years: %d - %d\n", cfg.Ingest.StartYear, cfg.Ingest.EndYear)
		fmt.Printf("  Index data: %s\n", cfg.Ingest.IndexPath)
		fmt.Printf("  Requests per second: %g\n", cfg.Ingest.RequestsPerSecond)
		fmt.Printf("  Output directory: %s\n", cfg.Ingest.OutputDir)

		fmt.Printf("\n🗄️  Redis:\n")
		fmt.Printf("  URL: %s\n", cfg.Redis.RedisURL)
		fmt.Printf("  Key prefix: %s\n", cfg.Redis.KeyPrefix)

		fmt.Printf("\n📝 Logging: %s (%s)\n", cfg.Logging.Level, cfg.Logging.Format)
		return nil
	},
}

// validateConfigLogic reports settings that are valid but likely unintended
func validateConfigLogic(cfg *config.Config) []string {
	var warnings []string

	if cfg.Model.ValidationSplit == 0 {
		warnings = append(warnings, "Validation split is 0 - validation accuracy will always be 0")
	}

	if cfg.Model.StopWordProportion > 0.5 {
		warnings = append(warnings, "More than half of the vocabulary is removed as stop words")
	}

	if cfg.Model.StopWordProportion == 1 {
		warnings = append(warnings, "Stop word proportion 1 empties every record")
	}

	if cfg.Ingest.RequestsPerSecond > 5 {
		warnings = append(warnings, "High request rate might get the scraper blocked")
	}

	if !cfg.Data.Shuffle && cfg.Model.ValidationSplit > 0 {
		warnings = append(warnings, "Shuffle is off - validation records are the tail of the training file")
	}

	return warnings
}

func init() {
	configCmd.AddCommand(configGenCmd)
	configCmd.AddCommand(configValidateCmd)
	configCmd.AddCommand(configShowCmd)

	configGenCmd.Flags().Bool("force", false, "Overwrite existing config file")
}
