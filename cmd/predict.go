package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/marketbayes/market-bayes/pkg/config"
	"github.com/marketbayes/market-bayes/pkg/dataset"
	"github.com/marketbayes/market-bayes/pkg/learning"
)

var (
	predictMode      string
	predictModelPath string
	predictTestPath  string
	predictTrainPath string
	predictOutput    string
	predictRetrain   bool
)

var predictCmd = &cobra.Command{
	Use:   "predict",
	Short: "Write predictions for the test or training records",
	Long: `Classify every test record (--mode test) or training record (--mode train)
and write the results as id,class CSV.

In test mode the saved model snapshot is used when it exists; otherwise, or
with --retrain, a model is trained from the training records with the
configured parameters. Train mode always trains a fresh model and classifies
the training partition it was fitted on, so validation records are left out.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg := appConfig
		flags := cmd.Flags()
		if flags.Changed("model") {
			cfg.Model.ModelPath = predictModelPath
		}
		if flags.Changed("test") {
			cfg.Data.TestPath = predictTestPath
		}
		if flags.Changed("train") {
			cfg.Data.TrainPath = predictTrainPath
		}
		if flags.Changed("output") {
			cfg.Data.OutputPath = predictOutput
		}

		mode, err := learning.ParseMode(predictMode)
		if err != nil {
			return err
		}

		evaluator, err := buildEvaluator(cfg, mode)
		if err != nil {
			return err
		}

		out, err := os.Create(cfg.Data.OutputPath)
		if err != nil {
			return fmt.Errorf("failed to create output file: %w", err)
		}
		defer out.Close()

		if err := evaluator.RunPredictions(out, mode); err != nil {
			return fmt.Errorf("failed to write predictions: %w", err)
		}

		fmt.Printf("✅ Predictions (%s) written to: %s\n", mode, cfg.Data.OutputPath)
		if evaluator.Validation.Len() > 0 {
			accuracy, err := evaluator.ValidationAccuracy()
			if err != nil {
				return err
			}
			fmt.Printf("🎯 Validation accuracy: %.4f\n", accuracy)
		}
		return nil
	},
}

// buildEvaluator loads the records mode needs and a model, either from the
// snapshot or by training
func buildEvaluator(cfg *config.Config, mode learning.Mode) (*learning.Evaluator, error) {
	opts := loadOptions(cfg)
	evaluator := &learning.Evaluator{}

	if mode == learning.ModeTest {
		test, err := dataset.LoadFile(cfg.Data.TestPath, opts)
		if err != nil {
			return nil, fmt.Errorf("failed to load test data: %w", err)
		}
		evaluator.Test = test
	}

	if useSnapshot(mode, predictRetrain, cfg.Model.ModelPath) {
		model, err := learning.LoadSnapshot(cfg.Model.ModelPath)
		if err != nil {
			return nil, fmt.Errorf("failed to load model: %w", err)
		}
		fmt.Printf("📚 Loaded model from: %s\n", cfg.Model.ModelPath)
		evaluator.Model = model
		return evaluator, nil
	}

	records, err := dataset.LoadFile(cfg.Data.TrainPath, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to load training data: %w", err)
	}
	if cfg.Data.Shuffle {
		records.Shuffle(newRand(cfg.Data.ShuffleSeed))
	}

	result, err := learning.Train(records, cfg.Model.Params, nil)
	if err != nil {
		return nil, fmt.Errorf("training failed: %w", err)
	}
	fmt.Printf("🧠 Trained model on %d records\n", result.Train.Len())

	evaluator.Model = result.Model
	evaluator.Train = result.Train
	evaluator.Validation = result.Validation
	return evaluator, nil
}

// useSnapshot reports whether predictions come from the saved model. Train
// mode needs the exact partition the model was fitted on, which a snapshot
// does not record.
func useSnapshot(mode learning.Mode, retrain bool, path string) bool {
	if mode == learning.ModeTrain || retrain {
		return false
	}
	_, err := os.Stat(path)
	return err == nil
}

func init() {
	predictCmd.Flags().StringVar(&predictMode, "mode", string(learning.ModeTest), "Records to classify: test or train")
	predictCmd.Flags().StringVarP(&predictModelPath, "model", "m", "", "Model snapshot path (overrides config)")
	predictCmd.Flags().StringVar(&predictTestPath, "test", "", "Test records CSV (overrides config)")
	predictCmd.Flags().StringVar(&predictTrainPath, "train", "", "Training records CSV (overrides config)")
	predictCmd.Flags().StringVarP(&predictOutput, "output", "o", "", "Predictions output CSV (overrides config)")
	predictCmd.Flags().BoolVar(&predictRetrain, "retrain", false, "Train a fresh model instead of loading the snapshot")
}
