package main

import (
	"fmt"

	"statkit/domain/core"
	"statkit/domain/stats"
	"statkit/internal/analysis/descriptive"
	"statkit/internal/analysis/frequency"
	"statkit/internal/analysis/regression"
	"statkit/internal/analysis/timeseries"
	"statkit/internal/analysis/variance"
	"statkit/ports"

	"github.com/spf13/cobra"
)

func (c *cli) newFrequencyCmd() *cobra.Command {
	var column string
	var relative bool

	cmd := &cobra.Command{
		Use:   "frequency",
		Short: "Count the values of a column",
		Long: `Build a frequency table ordered by descending count with cumulative totals.

Example: statkit frequency --file survey.csv --column answer --relative`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			table, err := c.loadTable()
			if err != nil {
				return err
			}
			res, err := c.container.Service.Frequency(cmd.Context(), table, frequency.Request{
				Column:    column,
				Normalize: relative,
			})
			if err != nil {
				return err
			}
			return c.printResult(cmd.OutOrStdout(), res)
		},
	}

	cmd.Flags().StringVar(&column, "column", "", "Column to count")
	cmd.Flags().BoolVar(&relative, "relative", false, "Report relative frequencies")
	_ = cmd.MarkFlagRequired("column")
	return cmd
}

func (c *cli) newTimeSeriesCmd() *cobra.Command {
	var column string

	cmd := &cobra.Command{
		Use:   "timeseries",
		Short: "Summarize a numeric column as a time series",
		Long: `Report mean, standard deviation, extremes, median, linear trend and the
dominant period of a numeric column, in file order.

Example: statkit timeseries --file sales.xlsx --column revenue`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			table, err := c.loadTable()
			if err != nil {
				return err
			}
			res, err := c.container.Service.TimeSeries(cmd.Context(), table, timeseries.Request{Column: column})
			if err != nil {
				return err
			}
			return c.printResult(cmd.OutOrStdout(), res)
		},
	}

	cmd.Flags().StringVar(&column, "column", "", "Numeric column to analyze")
	_ = cmd.MarkFlagRequired("column")
	return cmd
}

func (c *cli) newVarianceCmd() *cobra.Command {
	var test, group, value, subject string
	var alpha float64

	cmd := &cobra.Command{
		Use:   "variance",
		Short: "Compare groups with ANOVA, Kruskal-Wallis or Friedman",
		Long: `Run an omnibus test over a long-format table followed by pairwise
post-hoc comparisons.

Example: statkit variance --file scores.xlsx --test kruskal --group classe --value note`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			t, err := variance.ParseTest(test)
			if err != nil {
				return err
			}
			table, err := c.loadTable()
			if err != nil {
				return err
			}
			res, err := c.container.Service.Variance(cmd.Context(), table, variance.Request{
				Test:       t,
				GroupCol:   group,
				ValueCol:   value,
				SubjectCol: subject,
				Alpha:      alpha,
			})
			if err != nil {
				return err
			}
			return c.printResult(cmd.OutOrStdout(), res)
		},
	}

	cmd.Flags().StringVar(&test, "test", string(variance.ANOVA), "Test: anova|kruskal|friedman")
	cmd.Flags().StringVar(&group, "group", "", "Group column")
	cmd.Flags().StringVar(&value, "value", "", "Value column")
	cmd.Flags().StringVar(&subject, "subject", "", "Subject column (friedman only)")
	cmd.Flags().Float64Var(&alpha, "alpha", 0, "Family-wise error rate (default: ALPHA)")
	_ = cmd.MarkFlagRequired("group")
	_ = cmd.MarkFlagRequired("value")
	return cmd
}

func (c *cli) newRegressionCmd() *cobra.Command {
	var method, y string
	var x []string
	var degree int

	cmd := &cobra.Command{
		Use:   "regression",
		Short: "Fit a linear, polynomial or logistic regression",
		Long: `Fit y on one or more feature columns and report coefficients and fit
quality.

Example: statkit regression --file data.csv --method polynomiale --x age --y poids --degree 3`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			m, err := regression.ParseMethod(method)
			if err != nil {
				return err
			}
			table, err := c.loadTable()
			if err != nil {
				return err
			}
			res, err := c.container.Service.Regression(cmd.Context(), table, regression.Request{
				Method: m,
				XCols:  x,
				YCol:   y,
				Degree: degree,
			})
			if err != nil {
				return err
			}
			return c.printResult(cmd.OutOrStdout(), res)
		},
	}

	cmd.Flags().StringVar(&method, "method", string(regression.MethodLinear), "Method: lineaire|polynomiale|logistique")
	cmd.Flags().StringSliceVar(&x, "x", nil, "Feature columns")
	cmd.Flags().StringVar(&y, "y", "", "Target column")
	cmd.Flags().IntVar(&degree, "degree", regression.DefaultDegree, "Polynomial degree")
	_ = cmd.MarkFlagRequired("x")
	_ = cmd.MarkFlagRequired("y")
	return cmd
}

func (c *cli) newDescribeCmd() *cobra.Command {
	var method, column string
	var window int
	var all bool

	cmd := &cobra.Command{
		Use:   "describe",
		Short: "Summarize a column or compute its rolling mean",
		Long: `Describe one numeric column, or every numeric column with --all.

Example: statkit describe --file data.csv --method moyenne_glissante --column temp --window 7`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			table, err := c.loadTable()
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()

			if all {
				summaries, err := c.container.Service.SummaryByColumn(cmd.Context(), table)
				if err != nil {
					return err
				}
				fmt.Fprintln(out, "| Colonne | Effectif | Moyenne | Écart-type | Minimum | Médiane | Maximum |")
				fmt.Fprintln(out, "| --- | --- | --- | --- | --- | --- | --- |")
				for _, s := range summaries {
					fmt.Fprintf(out, "| %s | %d | %.6g | %.6g | %.6g | %.6g | %.6g |\n",
						s.Column, s.Count, s.Mean, s.Std, s.Min, s.Median, s.Max)
				}
				return nil
			}

			m, err := descriptive.ParseMethod(method)
			if err != nil {
				return err
			}
			res, err := c.container.Service.Descriptive(cmd.Context(), table, descriptive.Request{
				Method:   m,
				ValueCol: column,
				Window:   window,
			})
			if err != nil {
				return err
			}
			return c.printResult(out, res)
		},
	}

	cmd.Flags().StringVar(&method, "method", string(descriptive.MethodSummary), "Method: resume|moyenne_glissante")
	cmd.Flags().StringVar(&column, "column", "", "Numeric column")
	cmd.Flags().IntVar(&window, "window", 3, "Rolling mean window")
	cmd.Flags().BoolVar(&all, "all", false, "Summarize every numeric column")
	return cmd
}

func (c *cli) newResultsCmd() *cobra.Command {
	var kind string
	var limit int

	cmd := &cobra.Command{
		Use:   "results",
		Short: "List stored results, newest first",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			results, err := c.container.Service.Results(cmd.Context(), ports.ResultFilter{
				Kind:  stats.Kind(kind),
				Limit: limit,
			})
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			for _, res := range results {
				fmt.Fprintf(out, "%s\t%s\t%s\n", res.ID(), res.CreatedAt().Format("2006-01-02 15:04:05"), res.Kind())
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&kind, "kind", "", "Only list results of this kind")
	cmd.Flags().IntVar(&limit, "limit", 20, "Maximum results to list (0 for all)")
	return cmd
}

func (c *cli) newShowCmd() *cobra.Command {
	var effect bool
	var view string

	cmd := &cobra.Command{
		Use:   "show [result-id]",
		Short: "Print a stored result or one of its derived metrics",
		Long: `Print a stored result. --effect-size reports eta-squared of an ANOVA
result; --frequencies prints one view (absolute|cumulative|relative) of a
frequency result.

Example: statkit show 0190a6f2-8c3e-7cc1-a2b4-5f6e7d8c9b0a --effect-size`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := core.ParseID(args[0])
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			service := c.container.Service

			switch {
			case effect:
				e, err := service.EffectSize(cmd.Context(), id)
				if err != nil {
					return err
				}
				printLabels(out, e.Report())
				return nil
			case view != "":
				freqs, err := service.Frequencies(cmd.Context(), id, view)
				if err != nil {
					return err
				}
				for i, v := range freqs.Values {
					fmt.Fprintf(out, "%s\t%.6g\n", v, freqs.Counts[i])
				}
				return nil
			}

			res, err := service.Result(cmd.Context(), id)
			if err != nil {
				return err
			}
			return c.printResult(out, res)
		},
	}

	cmd.Flags().BoolVar(&effect, "effect-size", false, "Report the effect size of an ANOVA result")
	cmd.Flags().StringVar(&view, "frequencies", "", "Frequency view: absolute|cumulative|relative")
	return cmd
}
