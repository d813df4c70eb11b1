package cmd

import (
	"fmt"
	"io"
	"path/filepath"
	"runtime"
	"strings"
	"sync"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/schollz/progressbar/v3"
	"github.com/spf13/cobra"

	"github.com/peekknuf/dataqa/internal/connectors"
	"github.com/peekknuf/dataqa/internal/profiler"
)

type scanOptions struct {
	filename   string
	dirPath    string
	fileFormat []string
	recursive  bool
	verbose    bool
	minSize    int64
	maxSize    int64
	noProgress bool
}

type scanResult struct {
	File     connectors.FileMeta
	Metrics  profiler.QualityMetrics
	Report   profiler.Report
	Duration time.Duration
	Err      error
}

func newScanCmd(a *app) *cobra.Command {
	opts := &scanOptions{}

	cmd := &cobra.Command{
		Use:   "scan",
		Short: "Scan directory for data files",
		Long: `Scan a directory and summarise missing values
for every CSV or XLSX file found.

Examples:
  dataqa scan --dir ./data
  dataqa scan --dir ./data --recursive --format csv,xlsx
  dataqa scan --dir ./data --file titanic.csv --verbose`,
		RunE: func(cmd *cobra.Command, args []string) error {
			files, err := opts.discover()
			if err != nil {
				return err
			}
			a.logger.Info("files discovered", "dir", opts.dirPath, "count", len(files))

			var progress io.Writer = io.Discard
			if !opts.noProgress {
				progress = cmd.ErrOrStderr()
			}
			bar := progressbar.NewOptions(len(files),
				progressbar.OptionSetWriter(progress),
				progressbar.OptionEnableColorCodes(true),
				progressbar.OptionSetDescription("[cyan][reset] Processing files..."),
				progressbar.OptionSetTheme(progressbar.Theme{
					Saucer:        "[green]=[reset]",
					SaucerHead:    "[green]>[reset]",
					SaucerPadding: " ",
					BarStart:      "[",
					BarEnd:        "]",
				}),
				progressbar.OptionShowCount(),
				progressbar.OptionOnCompletion(func() {
					fmt.Fprintln(progress)
				}),
			)

			start := time.Now()
			results, err := scanFiles(files, a.loadOptions(), a.cfg.Fill.Workers, func() error { return bar.Add(1) })
			if err == nil {
				err = bar.Finish()
			}
			if err != nil {
				a.logger.Warn("progress bar update failed", "error", err)
			}

			for _, r := range results {
				if r.Err != nil {
					a.logger.Warn("failed to profile file", "path", r.File.Path, "error", r.Err)
				}
			}
			return writeScanSummary(cmd.OutOrStdout(), results, time.Since(start), opts.verbose)
		},
	}

	cmd.Flags().StringVarP(&opts.filename, "file", "n", "",
		"You might want to check specific file only")
	cmd.Flags().StringVarP(&opts.dirPath, "dir", "d", "",
		"Directory to scan (required)")
	cmd.Flags().StringSliceVarP(&opts.fileFormat, "format", "f", connectors.SupportedExtensions,
		"File formats to analyze (csv, xlsx)")
	cmd.Flags().BoolVarP(&opts.recursive, "recursive", "r", false,
		"Search directories recursively")
	cmd.Flags().BoolVarP(&opts.verbose, "verbose", "v", false,
		"Display per-column missing values")
	cmd.Flags().Int64Var(&opts.minSize, "min-size", 0,
		"Minimum file size in bytes")
	cmd.Flags().Int64Var(&opts.maxSize, "max-size", 0,
		"Maximum file size in bytes")
	cmd.Flags().BoolVar(&opts.noProgress, "no-progress", false,
		"Hide the progress bar")

	_ = cmd.MarkFlagRequired("dir")
	return cmd
}

func (o *scanOptions) discover() ([]connectors.FileMeta, error) {
	files, err := connectors.DiscoverFiles(o.dirPath, o.fileFormat, connectors.DiscoveryOptions{
		Recursive: o.recursive,
		MinSize:   o.minSize,
		MaxSize:   o.maxSize,
	})
	if err != nil {
		return nil, err
	}
	if o.filename == "" {
		return files, nil
	}

	for _, f := range files {
		if filepath.Base(f.Path) == o.filename {
			return []connectors.FileMeta{f}, nil
		}
	}
	return nil, fmt.Errorf("file not found: %s", filepath.Join(o.dirPath, o.filename))
}

// scanFiles profiles every file with at most workers loads in flight.
// Results keep the order of files. progress runs on the calling
// goroutine once per finished file; its first error is returned after
// every file has been profiled.
func scanFiles(files []connectors.FileMeta, opts connectors.LoadOptions, workers int, progress func() error) ([]scanResult, error) {
	if workers < 1 {
		workers = runtime.NumCPU()
	}

	results := make([]scanResult, len(files))
	semaphore := make(chan struct{}, workers)
	finished := make(chan struct{}, len(files))

	var wg sync.WaitGroup
	for i, f := range files {
		i, f := i, f
		wg.Add(1)
		go func() {
			defer wg.Done()
			semaphore <- struct{}{}
			defer func() { <-semaphore }()

			results[i] = profileFile(f, opts)
			finished <- struct{}{}
		}()
	}

	var progressErr error
	for range files {
		<-finished
		if err := progress(); err != nil && progressErr == nil {
			progressErr = err
		}
	}
	wg.Wait()
	return results, progressErr
}

func profileFile(f connectors.FileMeta, opts connectors.LoadOptions) scanResult {
	start := time.Now()
	result := scanResult{File: f}

	d, err := connectors.Load(f.Path, opts)
	if err != nil {
		result.Err = err
		return result
	}
	if result.Metrics, err = profiler.Summarize(d); err != nil {
		result.Err = err
		return result
	}
	if result.Report, err = profiler.ReportMissing(d); err != nil {
		result.Err = err
		return result
	}
	result.Duration = time.Since(start)
	return result
}

func writeScanSummary(w io.Writer, results []scanResult, total time.Duration, verbose bool) error {
	var output strings.Builder

	var processed, failed int
	var totalRows, totalCells, totalMissing int
	var totalBytes int64
	var numericCols, textCols int
	for _, r := range results {
		if r.Err != nil {
			failed++
			continue
		}
		processed++
		totalBytes += r.File.Size
		totalRows += r.Metrics.TotalRows
		totalCells += r.Metrics.TotalCells
		totalMissing += r.Metrics.MissingCells
		numericCols += r.Metrics.NumericColumns
		textCols += r.Metrics.TextColumns
	}

	output.WriteString("=== DATA QUALITY SUMMARY ===\n")
	output.WriteString(fmt.Sprintf("Total files processed: %d", processed))
	if failed > 0 {
		output.WriteString(fmt.Sprintf(" (%d failed)", failed))
	}
	output.WriteString("\n")
	output.WriteString(fmt.Sprintf("Total size: %s\n", humanize.Bytes(uint64(totalBytes))))
	output.WriteString(fmt.Sprintf("Total processing time: %v\n", total.Round(time.Millisecond)))
	output.WriteString(fmt.Sprintf("Total rows processed: %s\n", humanize.Comma(int64(totalRows))))
	completeness := 100.0
	if totalCells > 0 {
		completeness = 100 - float64(totalMissing)/float64(totalCells)*100
	}
	output.WriteString(fmt.Sprintf("Data completeness: %.1f%%\n", completeness))
	output.WriteString(fmt.Sprintf("Numeric columns: %d, Text columns: %d\n", numericCols, textCols))
	output.WriteString("\n")

	output.WriteString("=== PER-FILE ANALYSIS ===\n")
	output.WriteString(fmt.Sprintf("%-40s %10s %10s %10s %12s %12s\n",
		"File", "Size", "Rows", "Columns", "Null Rate", "Data Quality"))
	output.WriteString(strings.Repeat("-", 100) + "\n")
	for _, r := range results {
		name := truncate(filepath.Base(r.File.Path), 37)
		if r.Err != nil {
			output.WriteString(fmt.Sprintf("%-40s %10s  error: %v\n",
				name, humanize.Bytes(uint64(r.File.Size)), r.Err))
			continue
		}
		output.WriteString(fmt.Sprintf("%-40s %10s %10s %10d %11.1f%% %12s\n",
			name, humanize.Bytes(uint64(r.File.Size)), humanize.Comma(int64(r.Metrics.TotalRows)),
			r.Metrics.TotalColumns, r.Metrics.NullPercentage, r.Metrics.Grade()))
	}

	if verbose {
		output.WriteString("\n=== MISSING VALUES BY COLUMN ===\n")
		for _, r := range results {
			if r.Err != nil {
				continue
			}
			output.WriteString(fmt.Sprintf("File: %s\n", r.File.Path))
			if len(r.Report) == 0 {
				output.WriteString("  no missing values\n")
				continue
			}
			for _, row := range r.Report {
				output.WriteString(fmt.Sprintf("  %-30s %10s %8.2f%%\n",
					truncate(row.Column, 30), humanize.Comma(int64(row.Count)), row.Percent))
			}
		}
	}

	_, err := io.WriteString(w, output.String())
	return err
}
