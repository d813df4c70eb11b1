package cmd

import (
	"fmt"
	"io"
	"strings"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"

	"github.com/peekknuf/dataqa/internal/connectors"
	"github.com/peekknuf/dataqa/internal/dataset"
	"github.com/peekknuf/dataqa/internal/profiler"
)

func newReportCmd(a *app) *cobra.Command {
	var showAll bool

	cmd := &cobra.Command{
		Use:   "report [file]",
		Short: "Report missing values per column",
		Long: `Load a CSV or XLSX file and list the columns with missing
values, highest percentage first.

Examples:
  dataqa report titanic.csv
  dataqa report titanic.csv --all     # also list complete columns`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			d, err := connectors.Load(args[0], a.loadOptions())
			if err != nil {
				return fmt.Errorf("failed to load %s: %w", args[0], err)
			}
			return writeReport(cmd.OutOrStdout(), args[0], d, showAll)
		},
	}

	cmd.Flags().BoolVar(&showAll, "all", false,
		"Show missing counts for every column, not only incomplete ones")
	return cmd
}

func writeReport(w io.Writer, name string, d *dataset.Dataset, showAll bool) error {
	metrics, err := profiler.Summarize(d)
	if err != nil {
		return err
	}
	report, err := profiler.ReportMissing(d)
	if err != nil {
		return err
	}

	var output strings.Builder
	output.WriteString(fmt.Sprintf("File: %s\n", name))
	output.WriteString(fmt.Sprintf("- Rows: %s\n", humanize.Comma(int64(metrics.TotalRows))))
	output.WriteString(fmt.Sprintf("- Columns: %d (%d numeric, %d text)\n",
		metrics.TotalColumns, metrics.NumericColumns, metrics.TextColumns))
	output.WriteString(fmt.Sprintf("- Missing cells: %s (%.2f%%)\n",
		humanize.Comma(int64(metrics.MissingCells)), metrics.NullPercentage))
	output.WriteString("\n")

	if len(report) == 0 {
		output.WriteString("No missing values.\n")
	} else {
		output.WriteString(fmt.Sprintf("%-30s %15s %10s\n", "Column", "Missing", "Percent"))
		output.WriteString(strings.Repeat("-", 57) + "\n")
		for _, row := range report {
			output.WriteString(fmt.Sprintf("%-30s %15s %9.2f%%\n",
				truncate(row.Column, 30), humanize.Comma(int64(row.Count)), row.Percent))
		}
	}

	if showAll {
		counts, err := profiler.CountMissing(d)
		if err != nil {
			return err
		}
		output.WriteString("\nAll columns:\n")
		for _, cc := range counts {
			output.WriteString(fmt.Sprintf("  %s: %s\n", cc.Column, humanize.Comma(int64(cc.Count))))
		}
	}

	_, err = io.WriteString(w, output.String())
	return err
}

// truncate shortens s to at most n runes, marking the cut with "...".
func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n-3]) + "..."
}
