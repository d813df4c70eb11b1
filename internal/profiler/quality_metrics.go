package profiler

import (
	"strings"

	"github.com/peekknuf/dataqa/internal/dataset"
)

type QualityMetrics struct {
	TotalRows          int
	TotalColumns       int
	TotalCells         int
	MissingCells       int
	NullPercentage     float64
	NumericColumns     int
	TextColumns        int
	ColumnsWithMissing int
	DistinctRows       int
}

// Summarize computes dataset-wide quality metrics.
func Summarize(d *dataset.Dataset) (QualityMetrics, error) {
	d, err := dataset.Validate(d)
	if err != nil {
		return QualityMetrics{}, err
	}

	rows, cols := d.Shape()
	metrics := QualityMetrics{
		TotalRows:    rows,
		TotalColumns: cols,
		TotalCells:   rows * cols,
	}

	for i := 0; i < cols; i++ {
		col := d.ColumnAt(i)
		missing := col.MissingCount()
		metrics.MissingCells += missing
		if missing > 0 {
			metrics.ColumnsWithMissing++
		}
		if col.Kind == dataset.Numeric {
			metrics.NumericColumns++
		} else {
			metrics.TextColumns++
		}
	}

	if metrics.TotalCells > 0 {
		metrics.NullPercentage = 100 * float64(metrics.MissingCells) / float64(metrics.TotalCells)
	}
	metrics.DistinctRows = distinctRows(d)

	return metrics, nil
}

// DistinctRatio is the share of distinct rows, 0 for an empty dataset.
func (m QualityMetrics) DistinctRatio() float64 {
	if m.TotalRows == 0 {
		return 0
	}
	return float64(m.DistinctRows) / float64(m.TotalRows)
}

func distinctRows(d *dataset.Dataset) int {
	rows := d.Rows()
	seen := make(map[string]struct{}, rows)
	var key strings.Builder
	for r := 0; r < rows; r++ {
		key.Reset()
		for _, v := range d.Row(r) {
			switch {
			case v.IsMissing():
				key.WriteByte('-')
			case v.IsNumeric():
				key.WriteByte('n')
			default:
				key.WriteByte('t')
			}
			key.WriteString(v.String())
			key.WriteByte(0)
		}
		seen[key.String()] = struct{}{}
	}
	return len(seen)
}

// Completeness is the share of present cells, in percent.
func (m QualityMetrics) Completeness() float64 {
	if m.TotalCells == 0 {
		return 100
	}
	return 100 - m.NullPercentage
}

// Grade buckets the null percentage the way the describe output does.
func (m QualityMetrics) Grade() string {
	switch {
	case m.NullPercentage > 25:
		return "Poor"
	case m.NullPercentage > 10:
		return "Fair"
	default:
		return "Good"
	}
}
