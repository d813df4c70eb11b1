package profiler

import (
	"sort"

	"github.com/peekknuf/dataqa/internal/dataset"
)

// ColumnCount is the number of missing cells in one column.
type ColumnCount struct {
	Column string
	Count  int
}

// Counts holds one entry per column, in dataset column order.
type Counts []ColumnCount

// Get returns the count for column.
func (c Counts) Get(column string) (int, bool) {
	for _, cc := range c {
		if cc.Column == column {
			return cc.Count, true
		}
	}
	return 0, false
}

// Total sums the missing cells over all columns.
func (c Counts) Total() int {
	total := 0
	for _, cc := range c {
		total += cc.Count
	}
	return total
}

// ReportRow is one line of a missing-value report.
type ReportRow struct {
	Column  string
	Count   int
	Percent float64
}

// Report lists columns with missing values, highest percentage first.
type Report []ReportRow

// Get returns the row for column, if the column has missing values.
func (r Report) Get(column string) (ReportRow, bool) {
	for _, row := range r {
		if row.Column == column {
			return row, true
		}
	}
	return ReportRow{}, false
}

// CountMissing counts missing cells per column.
func CountMissing(d *dataset.Dataset) (Counts, error) {
	d, err := dataset.Validate(d)
	if err != nil {
		return nil, err
	}
	return countMissing(d), nil
}

func countMissing(d *dataset.Dataset) Counts {
	_, cols := d.Shape()
	counts := make(Counts, cols)
	for i := 0; i < cols; i++ {
		col := d.ColumnAt(i)
		counts[i] = ColumnCount{Column: col.Name, Count: col.MissingCount()}
	}
	return counts
}

// ReportMissing builds the missing-value report for d. A dataset without
// rows yields an empty report.
func ReportMissing(d *dataset.Dataset) (Report, error) {
	d, err := dataset.Validate(d)
	if err != nil {
		return nil, err
	}

	rows := d.Rows()
	if rows == 0 {
		return Report{}, nil
	}

	report := make(Report, 0)
	for _, cc := range countMissing(d) {
		if cc.Count == 0 {
			continue
		}
		report = append(report, ReportRow{
			Column:  cc.Column,
			Count:   cc.Count,
			Percent: 100 * float64(cc.Count) / float64(rows),
		})
	}

	// Ties keep dataset column order.
	sort.SliceStable(report, func(i, j int) bool {
		return report[i].Percent > report[j].Percent
	})
	return report, nil
}
