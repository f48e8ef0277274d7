package main

import (
	"encoding/json"
	"fmt"
	"io"
	"sort"

	"statkit/adapters/excel"
	"statkit/domain/dataset"
	"statkit/domain/stats"
	"statkit/internal/config"
	"statkit/internal/container"
	"statkit/internal/report"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
)

// cli carries the state shared by every subcommand
type cli struct {
	file   string
	sheet  string
	comma  string
	format string

	container *container.Container
}

func newRootCmd() *cobra.Command {
	c := &cli{}

	rootCmd := &cobra.Command{
		Use:   "statkit",
		Short: "Run statistical analyses on spreadsheet and CSV files",
		Long: `statkit loads a table from an .xlsx or .csv file, runs one analysis and
prints its report. Results are stored in the database named by DATABASE_URL,
or kept in memory when it is unset.

Example: statkit variance --file scores.xlsx --test anova --group classe --value note`,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			_ = godotenv.Load()
			cfg, err := config.Load()
			if err != nil {
				return err
			}
			c.container, err = container.New(cfg)
			if err != nil {
				return err
			}
			return c.container.Init(cmd.Context())
		},
		PersistentPostRunE: func(cmd *cobra.Command, args []string) error {
			if c.container == nil {
				return nil
			}
			return c.container.Shutdown(cmd.Context())
		},
	}

	rootCmd.PersistentFlags().StringVar(&c.file, "file", "", "Input file (.xlsx, .xls or .csv)")
	rootCmd.PersistentFlags().StringVar(&c.sheet, "sheet", "", "Worksheet name (default: first sheet)")
	rootCmd.PersistentFlags().StringVar(&c.comma, "comma", ",", "CSV field separator")
	rootCmd.PersistentFlags().StringVar(&c.format, "format", "markdown", "Output format: markdown|json")

	rootCmd.AddCommand(
		c.newFrequencyCmd(),
		c.newTimeSeriesCmd(),
		c.newVarianceCmd(),
		c.newRegressionCmd(),
		c.newDescribeCmd(),
		c.newResultsCmd(),
		c.newShowCmd(),
	)
	return rootCmd
}

// loadTable reads the --file table
func (c *cli) loadTable() (*dataset.Table, error) {
	if c.file == "" {
		return nil, fmt.Errorf("--file is required")
	}
	cfg := excel.DefaultReaderConfig()
	cfg.Sheet = c.sheet
	if c.comma != "" {
		cfg.Comma = []rune(c.comma)[0]
	}
	return excel.NewDataReader(c.file, cfg).ReadTable()
}

func (c *cli) printResult(w io.Writer, res *stats.Result) error {
	switch c.format {
	case "json":
		out, err := json.MarshalIndent(map[string]interface{}{
			"id":     res.ID(),
			"report": res.Report(),
		}, "", "  ")
		if err != nil {
			return err
		}
		_, err = fmt.Fprintln(w, string(out))
		return err
	case "markdown", "":
		md, err := report.Markdown(res)
		if err != nil {
			return err
		}
		_, err = w.Write(md)
		return err
	default:
		return fmt.Errorf("unknown format %q (use markdown or json)", c.format)
	}
}

func printLabels(w io.Writer, values map[string]interface{}) {
	keys := make([]string, 0, len(values))
	for k := range values {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		fmt.Fprintf(w, "%s: %v\n", k, values[k])
	}
}
