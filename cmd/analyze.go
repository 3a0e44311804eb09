package cmd

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/saleslens/saleslens/internal/errs"
	"github.com/saleslens/saleslens/internal/multivariate"
	"github.com/saleslens/saleslens/internal/utils"
)

var (
	anaMethod   string
	anaFeatures []string
	anaGroup    string
	anaTarget   string
	anaOutput   string
)

var analyzeCmd = &cobra.Command{
	Use:   "analyze <file|dataset>",
	Short: "Run a multivariate association analysis",
	Long: `Analyze runs one multivariate method against a dataset:

  corr      Pearson correlation matrix over numeric columns, rendered as a heatmap PNG
  chi2      chi-squared independence test between two categorical columns
  cramers   Cramér's V association matrix over categorical columns
  anova     one-way ANOVA of a numeric target across the levels of a categorical column`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		df, err := loadFrame(args[0])
		if err != nil {
			return err
		}

		var strategy multivariate.Strategy
		switch anaMethod {
		case "corr":
			out := anaOutput
			if out == "" {
				out = filepath.Join(cfg.PlotsDir, "correlation.png")
			}
			if dir := filepath.Dir(out); dir != "." {
				if err := utils.EnsureDir(dir); err != nil {
					return err
				}
			}
			strategy = multivariate.NewCorrelationHeatmap(anaFeatures, out)
		case "chi2":
			if len(anaFeatures) != 2 {
				return errs.InvalidArgumentf("chi2 requires exactly two --features")
			}
			strategy = multivariate.NewChiSquared(anaFeatures[0], anaFeatures[1])
		case "cramers":
			if len(anaFeatures) < 2 {
				return errs.InvalidArgumentf("cramers requires at least two --features")
			}
			strategy = multivariate.NewCramersV(anaFeatures)
		case "anova":
			if anaGroup == "" || anaTarget == "" {
				return errs.InvalidArgumentf("anova requires --group and --target")
			}
			strategy = multivariate.NewANOVA(anaGroup, anaTarget)
		default:
			return errs.Unsupportedf("unknown analysis method %q", anaMethod)
		}

		analyzer := multivariate.NewAnalyzer()
		analyzer.SetStrategy(strategy)
		if err := analyzer.Execute(df, os.Stdout); err != nil {
			return err
		}
		if anaMethod == "corr" {
			out := anaOutput
			if out == "" {
				out = filepath.Join(cfg.PlotsDir, "correlation.png")
			}
			fmt.Printf("✓ Wrote heatmap to %s\n", out)
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(analyzeCmd)
	analyzeCmd.Flags().StringVar(&anaMethod, "method", "", "analysis method: 'corr' | 'chi2' | 'cramers' | 'anova'")
	analyzeCmd.Flags().StringSliceVarP(&anaFeatures, "features", "f", nil, "columns to analyze (repeatable)")
	analyzeCmd.Flags().StringVar(&anaGroup, "group", "", "categorical grouping column for anova")
	analyzeCmd.Flags().StringVar(&anaTarget, "target", "", "numeric target column for anova")
	analyzeCmd.Flags().StringVarP(&anaOutput, "output", "o", "", "heatmap PNG path for corr (default <plots_dir>/correlation.png)")
	_ = analyzeCmd.MarkFlagRequired("method")
}
