package cmd

import (
	"fmt"
	"io"
	"math"
	"os"
	"strings"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"

	"github.com/peekknuf/dataqa/internal/connectors"
	"github.com/peekknuf/dataqa/internal/dataset"
	"github.com/peekknuf/dataqa/internal/profiler"
)

func newDescribeCmd(a *app) *cobra.Command {
	var outputFile string

	cmd := &cobra.Command{
		Use:   "describe [file]",
		Short: "Generate per-column statistics for a data file",
		Long: `Generate pandas.describe() style statistics for a CSV or XLSX file.
Numeric columns get mean, std and quartiles; text columns get the
number of unique values and the most frequent one.

Examples:
  dataqa describe file.csv
  dataqa describe file.xlsx --output results.txt`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			d, err := connectors.Load(args[0], a.loadOptions())
			if err != nil {
				return fmt.Errorf("failed to load %s: %w", args[0], err)
			}

			if outputFile == "" {
				return writeDescribe(cmd.OutOrStdout(), args[0], d)
			}

			if err := ensureWritable(outputFile); err != nil {
				return err
			}
			file, err := os.Create(outputFile)
			if err != nil {
				return fmt.Errorf("failed to create %s: %w", outputFile, err)
			}
			if err := writeDescribe(file, args[0], d); err != nil {
				file.Close()
				return err
			}
			if err := file.Close(); err != nil {
				return err
			}
			fmt.Fprintf(cmd.ErrOrStderr(), "Results saved to %s\n", outputFile)
			return nil
		},
	}

	cmd.Flags().StringVar(&outputFile, "output", "",
		"Output file to save results (default: stdout)")
	return cmd
}

func writeDescribe(w io.Writer, name string, d *dataset.Dataset) error {
	all, err := profiler.Describe(d)
	if err != nil {
		return err
	}
	metrics, err := profiler.Summarize(d)
	if err != nil {
		return err
	}

	var output strings.Builder
	output.WriteString(fmt.Sprintf("File: %s\n", name))
	output.WriteString(fmt.Sprintf("  Rows: %s | Columns: %d | Null Rate: %.1f%% | Distinct Rows: %.2f\n\n",
		humanize.Comma(int64(metrics.TotalRows)), metrics.TotalColumns,
		metrics.NullPercentage, metrics.DistinctRatio()))

	output.WriteString(fmt.Sprintf("%-20s %-8s %8s %8s %10s %10s %10s %10s %10s %10s %10s %8s %-12s %6s\n",
		"Column", "Type", "Count", "Missing", "Mean", "Std", "Min", "25%", "50%", "75%", "Max",
		"Unique", "Top", "Freq"))
	output.WriteString(strings.Repeat("-", 150) + "\n")

	for _, s := range all {
		unique, top, freq := "-", "-", "-"
		if s.Kind == dataset.TextKind && s.Count > 0 {
			unique = humanize.Comma(int64(s.Unique))
			top = truncate(s.Top, 12)
			freq = humanize.Comma(int64(s.Freq))
		}
		output.WriteString(fmt.Sprintf("%-20s %-8s %8s %8s %10s %10s %10s %10s %10s %10s %10s %8s %-12s %6s\n",
			truncate(s.Name, 20), s.Kind, humanize.Comma(int64(s.Count)), humanize.Comma(int64(s.Missing)),
			formatStat(s.Mean), formatStat(s.Std), truncate(orDash(s.Min), 10),
			formatStat(s.Q25), formatStat(s.Q50), formatStat(s.Q75), truncate(orDash(s.Max), 10),
			unique, top, freq))
	}

	_, err = io.WriteString(w, output.String())
	return err
}

func formatStat(f float64) string {
	if math.IsNaN(f) {
		return "-"
	}
	return fmt.Sprintf("%.4g", f)
}

func orDash(s string) string {
	if s == "" {
		return "-"
	}
	return s
}
