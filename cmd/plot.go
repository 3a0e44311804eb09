package cmd

import (
	"fmt"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/saleslens/saleslens/internal/errs"
	"github.com/saleslens/saleslens/internal/univariate"
	"github.com/saleslens/saleslens/internal/utils"
)

var (
	plotFeature string
	plotKind    string
	plotMode    string
	plotBins    int
	plotOutput  string
)

var plotCmd = &cobra.Command{
	Use:   "plot <file|dataset>",
	Short: "Render a univariate distribution plot as PNG",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		df, err := loadFrame(args[0])
		if err != nil {
			return err
		}
		mode, err := univariate.ParseMode(plotMode)
		if err != nil {
			return err
		}

		var strategy univariate.Strategy
		switch plotKind {
		case "cat", "categorical":
			strategy = univariate.CategoricalDist{}
		case "num", "numerical":
			strategy = univariate.NumericalDist{Bins: plotBins}
		default:
			return errs.Unsupportedf("unknown plot kind %q", plotKind)
		}

		out := plotOutput
		if out == "" {
			out = filepath.Join(cfg.PlotsDir, plotFeature+".png")
		}
		if dir := filepath.Dir(out); dir != "." {
			if err := utils.EnsureDir(dir); err != nil {
				return err
			}
		}
		if err := univariate.NewAnalyzer(strategy).Execute(df, plotFeature, mode, out); err != nil {
			return err
		}
		fmt.Printf("✓ Wrote plot to %s\n", out)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(plotCmd)
	plotCmd.Flags().StringVarP(&plotFeature, "feature", "f", "", "column to plot")
	plotCmd.Flags().StringVar(&plotKind, "kind", "num", "plot kind: 'cat' | 'num'")
	plotCmd.Flags().StringVar(&plotMode, "mode", "original", "numeric scale: 'original' | 'log' | 'both'")
	plotCmd.Flags().IntVar(&plotBins, "bins", 0, "histogram bin count (0 = automatic)")
	plotCmd.Flags().StringVarP(&plotOutput, "output", "o", "", "output PNG path (default <plots_dir>/<feature>.png)")
	_ = plotCmd.MarkFlagRequired("feature")
}
