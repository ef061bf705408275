package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/marketbayes/market-bayes/pkg/report"
)

var diffCmd = &cobra.Command{
	Use:   "diff <predictions-a> <predictions-b>",
	Short: "Compare two prediction files",
	Long:  `Print every line on which two id,class prediction files disagree`,
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := os.Open(args[0])
		if err != nil {
			return fmt.Errorf("failed to open %s: %w", args[0], err)
		}
		defer a.Close()

		b, err := os.Open(args[1])
		if err != nil {
			return fmt.Errorf("failed to open %s: %w", args[1], err)
		}
		defer b.Close()

		differences, err := report.Diff(a, b)
		if err != nil {
			return err
		}

		for _, d := range differences {
			fmt.Printf("Line %d: %s vs %s\n", d.Line, d.GuessA, d.GuessB)
		}
		fmt.Printf("\n📊 %d differing lines\n", len(differences))
		return nil
	},
}
