package cmd

import (
	"os"

	"github.com/spf13/cobra"

	"github.com/saleslens/saleslens/internal/inspect"
)

var inspectValueCounts []string

var inspectCmd = &cobra.Command{
	Use:   "inspect <file|dataset>",
	Short: "Summarize a dataset: schema, statistics, missing values",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		df, err := loadFrame(args[0])
		if err != nil {
			return err
		}
		ins := inspect.DefaultInspector()
		if len(inspectValueCounts) > 0 {
			ins.Add(inspect.NewValueCounts(inspectValueCounts))
		}
		return ins.Run(df, os.Stdout)
	},
}

func init() {
	rootCmd.AddCommand(inspectCmd)
	inspectCmd.Flags().StringSliceVar(&inspectValueCounts, "value-counts", nil, "columns to tabulate value counts for (repeatable)")
}
