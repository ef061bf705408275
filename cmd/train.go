package cmd

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/marketbayes/market-bayes/pkg/config"
	"github.com/marketbayes/market-bayes/pkg/dataset"
	"github.com/marketbayes/market-bayes/pkg/learning"
)

var (
	trainDataPath  string
	trainModelPath string
	trainDumpPath  string
	trainAlpha     float64
	trainStopWords float64
	trainSplit     float64
	trainSeed      int64
	trainNoShuffle bool
)

var trainCmd = &cobra.Command{
	Use:   "train",
	Short: "Train the Naive Bayes model",
	Long: `Train the Naive Bayes model on labeled news records (id,class,abstract).

The most frequent words are removed as stop words, the tail of the shuffled
records is held out for validation and the model is saved as a JSON snapshot.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg := appConfig
		applyTrainFlags(cmd, cfg)

		if err := cfg.Model.Params.Validate(); err != nil {
			return err
		}

		records, err := dataset.LoadFile(cfg.Data.TrainPath, loadOptions(cfg))
		if err != nil {
			return fmt.Errorf("failed to load training data: %w", err)
		}

		fmt.Printf("🧠 mbayes Training\n")
		fmt.Printf("═══════════════════════════════════════\n")
		fmt.Printf("📁 Training data: %s (%d records)\n", cfg.Data.TrainPath, records.Len())
		fmt.Printf("⚙️  Alpha: %g\n", cfg.Model.Alpha)
		fmt.Printf("🧹 Stop word proportion: %g\n", cfg.Model.StopWordProportion)
		fmt.Printf("🔬 Validation split: %g\n", cfg.Model.ValidationSplit)
		fmt.Printf("💾 Model path: %s\n", cfg.Model.ModelPath)
		fmt.Printf("\n")

		if cfg.Data.Shuffle {
			records.Shuffle(newRand(cfg.Data.ShuffleSeed))
		}

		start := time.Now()
		result, err := learning.Train(records, cfg.Model.Params, nil)
		if err != nil {
			return fmt.Errorf("training failed: %w", err)
		}
		duration := time.Since(start)

		accuracy, err := learning.ValidationAccuracy(result.Model, result.Validation)
		if err != nil {
			return fmt.Errorf("validation failed: %w", err)
		}

		if err := result.Model.SaveSnapshot(cfg.Model.ModelPath); err != nil {
			return fmt.Errorf("failed to save model: %w", err)
		}
		if cfg.Model.DumpPath != "" {
			if err := result.Model.SaveFile(cfg.Model.DumpPath); err != nil {
				return fmt.Errorf("failed to write word counts: %w", err)
			}
		}

		fmt.Printf("🎉 Training Complete!\n")
		fmt.Printf("📊 Records trained on: %d\n", result.Train.Len())
		fmt.Printf("🔬 Validation records: %d\n", result.Validation.Len())
		fmt.Printf("🎯 Validation accuracy: %.4f\n", accuracy)
		fmt.Printf("⏱️  Time taken: %v\n", duration)
		if len(result.StopWords) > 0 {
			fmt.Printf("🧹 Stop words removed: %d (%s)\n", len(result.StopWords), previewWords(result.StopWords, 10))
		}
		fmt.Printf("💾 Model saved to: %s\n", cfg.Model.ModelPath)
		if cfg.Model.DumpPath != "" {
			fmt.Printf("📝 Word counts written to: %s\n", cfg.Model.DumpPath)
		}

		fmt.Printf("\n")
		result.Model.PrintStats(os.Stdout)

		return nil
	},
}

// applyTrainFlags copies explicitly set flags over the configuration
func applyTrainFlags(cmd *cobra.Command, cfg *config.Config) {
	flags := cmd.Flags()
	if flags.Changed("data") {
		cfg.Data.TrainPath = trainDataPath
	}
	if flags.Changed("model") {
		cfg.Model.ModelPath = trainModelPath
	}
	if flags.Changed("dump") {
		cfg.Model.DumpPath = trainDumpPath
	}
	if flags.Changed("alpha") {
		cfg.Model.Alpha = trainAlpha
	}
	if flags.Changed("stop-words") {
		cfg.Model.StopWordProportion = trainStopWords
	}
	if flags.Changed("validation") {
		cfg.Model.ValidationSplit = trainSplit
	}
	if flags.Changed("seed") {
		cfg.Data.ShuffleSeed = trainSeed
	}
	if trainNoShuffle {
		cfg.Data.Shuffle = false
	}
}

// previewWords joins at most limit words for display
func previewWords(words []string, limit int) string {
	if len(words) <= limit {
		return strings.Join(words, ", ")
	}
	return strings.Join(words[:limit], ", ") + ", ..."
}

func init() {
	trainCmd.Flags().StringVarP(&trainDataPath, "data", "d", "", "Training records CSV (overrides config)")
	trainCmd.Flags().StringVarP(&trainModelPath, "model", "m", "", "Path to save the model snapshot (overrides config)")
	trainCmd.Flags().StringVar(&trainDumpPath, "dump", "", "Also write human-readable word counts to this file")
	trainCmd.Flags().Float64VarP(&trainAlpha, "alpha", "a", 1, "Additive smoothing strength (> 0)")
	trainCmd.Flags().Float64VarP(&trainStopWords, "stop-words", "s", 0, "Proportion of most frequent words removed [0,1]")
	trainCmd.Flags().Float64VarP(&trainSplit, "validation", "v", 0.2, "Proportion of records held out for validation [0,1)")
	trainCmd.Flags().Int64Var(&trainSeed, "seed", 0, "Shuffle seed (0 = random)")
	trainCmd.Flags().BoolVar(&trainNoShuffle, "no-shuffle", false, "Keep file order before holding out validation records")
}
