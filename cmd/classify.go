package cmd

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/marketbayes/market-bayes/pkg/learning"
)

var classifyModelPath string

var classifyCmd = &cobra.Command{
	Use:   "classify <abstract>...",
	Short: "Classify a single news abstract",
	Long:  `Classify one news abstract with the saved model and show every class score`,
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		path := appConfig.Model.ModelPath
		if cmd.Flags().Changed("model") {
			path = classifyModelPath
		}

		model, err := learning.LoadSnapshot(path)
		if err != nil {
			return fmt.Errorf("failed to load model: %w", err)
		}

		text := strings.Join(args, " ")

		start := time.Now()
		class, err := model.Classify(text)
		if err != nil {
			return err
		}
		duration := time.Since(start)

		scores, err := model.Scores(text)
		if err != nil {
			return err
		}

		fmt.Printf("mbayes Classification:\n")
		fmt.Printf("Abstract: %s\n", text)
		fmt.Printf("Class: %s\n", class)
		for i, label := range model.Classes() {
			fmt.Printf("  %s score: %g\n", label, scores[i])
		}
		fmt.Printf("Processing time: %.2fms\n", float64(duration.Nanoseconds())/1e6)
		fmt.Printf("Model: %s\n", path)
		return nil
	},
}

func init() {
	classifyCmd.Flags().StringVarP(&classifyModelPath, "model", "m", "", "Model snapshot path (overrides config)")
}
