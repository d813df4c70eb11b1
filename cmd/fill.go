package cmd

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/peekknuf/dataqa/internal/connectors"
	"github.com/peekknuf/dataqa/internal/dataset"
	"github.com/peekknuf/dataqa/internal/engine"
)

func newFillCmd(a *app) *cobra.Command {
	var (
		method     string
		columns    []string
		constant   string
		outputFile string
	)

	cmd := &cobra.Command{
		Use:   "fill [file]",
		Short: "Fill missing values and write a cleaned CSV",
		Long: `Fill missing values column by column and write the result as CSV.

Methods: mean, median, mode, constant. mean and median apply to numeric
columns; on text columns they fall back to the most frequent value.

Examples:
  dataqa fill titanic.csv --method median --columns Age,Fare
  dataqa fill titanic.csv --method mode --output clean.csv
  dataqa fill titanic.csv --method constant --value unknown --columns Cabin`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if method == "" {
				method = a.cfg.Fill.Method
			}
			m, err := engine.ParseMethod(method)
			if err != nil {
				return err
			}

			spec := engine.FillSpec{Method: m}
			if cmd.Flags().Changed("columns") {
				spec.Columns = columns
			}
			if cmd.Flags().Changed("value") {
				v := dataset.ParseValue(constant)
				spec.Constant = &v
			}

			if err := ensureWritable(outputFile); err != nil {
				return err
			}
			d, err := connectors.Load(args[0], a.loadOptions())
			if err != nil {
				return fmt.Errorf("failed to load %s: %w", args[0], err)
			}

			filler := engine.New(
				engine.WithLogger(a.logger),
				engine.WithWorkers(a.cfg.Fill.Workers),
				engine.WithFallbackHook(func(column string, requested engine.Method, kind dataset.Kind) {
					fmt.Fprintf(cmd.ErrOrStderr(),
						"warning: column %q is %s, %s is not defined for it; used the most frequent value\n",
						column, kind, requested)
				}),
			)
			filled, err := filler.FillMissing(d, spec)
			if err != nil {
				return err
			}

			if outputFile == "" {
				return connectors.WriteCSV(cmd.OutOrStdout(), filled)
			}
			if err := connectors.WriteCSVFile(outputFile, filled); err != nil {
				return err
			}
			a.logger.Info("filled dataset written", "output", outputFile, "method", string(m))
			fmt.Fprintf(cmd.ErrOrStderr(), "Results saved to %s\n", outputFile)
			return nil
		},
	}

	cmd.Flags().StringVarP(&method, "method", "m", "",
		"Fill method: "+strings.Join(methodNames(), ", ")+" (default from config)")
	cmd.Flags().StringSliceVarP(&columns, "columns", "c", nil,
		"Columns to fill (default: all columns)")
	cmd.Flags().StringVar(&constant, "value", "",
		"Value used by the constant method (default 0)")
	cmd.Flags().StringVarP(&outputFile, "output", "o", "",
		"Output file to save results (default: stdout)")
	return cmd
}

func methodNames() []string {
	names := make([]string, len(engine.Methods))
	for i, m := range engine.Methods {
		names[i] = string(m)
	}
	return names
}

// ensureWritable fails early when the output directory does not exist.
func ensureWritable(path string) error {
	if path == "" {
		return nil
	}
	dir := filepath.Dir(path)
	if _, err := os.Stat(dir); err != nil {
		return fmt.Errorf("output directory %s: %w", dir, err)
	}
	return nil
}
