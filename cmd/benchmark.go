package cmd

import (
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/marketbayes/market-bayes/pkg/dataset"
	"github.com/marketbayes/market-bayes/pkg/learning"
	"github.com/marketbayes/market-bayes/pkg/profiler"
)

var (
	benchmarkInput     string
	benchmarkAlphas    []float64
	benchmarkStopWords []float64
	benchmarkSplit     float64
	benchmarkSeed      int64
	benchmarkRuns      int
)

var benchmarkCmd = &cobra.Command{
	Use:   "benchmark",
	Short: "Parameter sweep and timing analysis",
	Long: `Train one model per alpha and stop word proportion, report each validation
accuracy, then time classification of every record with the best parameters.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg := appConfig
		if cmd.Flags().Changed("input") {
			cfg.Data.TrainPath = benchmarkInput
		}
		if cmd.Flags().Changed("seed") {
			cfg.Data.ShuffleSeed = benchmarkSeed
		}
		if !cmd.Flags().Changed("validation") {
			benchmarkSplit = cfg.Model.ValidationSplit
		}
		if benchmarkRuns < 1 {
			return fmt.Errorf("runs must be at least 1")
		}

		records, err := dataset.LoadFile(cfg.Data.TrainPath, loadOptions(cfg))
		if err != nil {
			return err
		}
		if records.Len() == 0 {
			return fmt.Errorf("no records found in %s", cfg.Data.TrainPath)
		}
		records.Shuffle(newRand(cfg.Data.ShuffleSeed))

		fmt.Printf("🚀 mbayes Parameter Benchmark\n")
		fmt.Printf("📁 Training data: %s (%d records)\n", cfg.Data.TrainPath, records.Len())
		fmt.Printf("⚙️  Alphas: %v\n", benchmarkAlphas)
		fmt.Printf("🧹 Stop word proportions: %v\n", benchmarkStopWords)
		fmt.Printf("🔬 Validation split: %g\n", benchmarkSplit)
		fmt.Printf("🔄 Classification runs: %d\n", benchmarkRuns)
		fmt.Printf("\n")

		prof := profiler.New()
		start := time.Now()
		results, err := learning.Sweep(records, benchmarkSplit, benchmarkAlphas, benchmarkStopWords, prof)
		if err != nil {
			return err
		}
		displaySweepResults(results)

		best, ok := learning.Best(results)
		if !ok {
			return fmt.Errorf("no parameter combinations to evaluate")
		}

		trained, err := learning.Train(records, best.Params, prof)
		if err != nil {
			return err
		}
		for run := 0; run < benchmarkRuns; run++ {
			for _, r := range records.Records() {
				timer := prof.Start("classify")
				_, err := trained.Model.Classify(r.Text)
				timer.Stop()
				if err != nil {
					return err
				}
			}
		}

		fmt.Printf("\n")
		prof.Report(os.Stdout)

		classify := prof.Stats("classify")
		fmt.Printf("\n🏆 Best: alpha=%g stop=%g accuracy=%.4f\n",
			best.Params.Alpha, best.Params.StopWordProportion, best.Accuracy)
		fmt.Printf("⚡ Classifications per second: %.0f\n", float64(classify.Count)/classify.Total.Seconds())
		fmt.Printf("⏱️  Total time: %v\n", time.Since(start))
		return nil
	},
}

// displaySweepResults prints one line per parameter combination
func displaySweepResults(results []learning.SweepResult) {
	fmt.Printf("📊 Sweep Results\n")
	fmt.Printf("═══════════════════════════════════════\n")
	fmt.Printf("  %-8s %-8s %s\n", "Alpha", "Stop", "Accuracy")
	for _, r := range results {
		fmt.Printf("  %-8g %-8g %.4f\n", r.Params.Alpha, r.Params.StopWordProportion, r.Accuracy)
	}
}

func init() {
	benchmarkCmd.Flags().StringVarP(&benchmarkInput, "input", "i", "", "Training records CSV (overrides config)")
	benchmarkCmd.Flags().Float64SliceVar(&benchmarkAlphas, "alphas", []float64{0.1, 0.5, 1, 2}, "Alpha values to try")
	benchmarkCmd.Flags().Float64SliceVar(&benchmarkStopWords, "stop-words", []float64{0, 0.001, 0.005, 0.01}, "Stop word proportions to try")
	benchmarkCmd.Flags().Float64VarP(&benchmarkSplit, "validation", "v", 0.2, "Validation split (overrides config)")
	benchmarkCmd.Flags().Int64Var(&benchmarkSeed, "seed", 0, "Shuffle seed (0 = random)")
	benchmarkCmd.Flags().IntVarP(&benchmarkRuns, "runs", "r", 1, "Number of classification passes to time")
}
