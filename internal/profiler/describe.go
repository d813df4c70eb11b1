package profiler

import (
	"math"
	"sort"

	"github.com/montanaflynn/stats"

	"github.com/peekknuf/dataqa/internal/dataset"
)

// ColumnStats holds describe()-style statistics for one column. Numeric
// fields are set for numeric columns, Unique/Top/Freq for text columns.
type ColumnStats struct {
	Name    string
	Kind    dataset.Kind
	Count   int
	Missing int

	Mean float64
	Std  float64
	Min  string
	Q25  float64
	Q50  float64
	Q75  float64
	Max  string

	Unique int
	Top    string
	Freq   int
}

// Describe computes per-column statistics over present values, in
// column order.
func Describe(d *dataset.Dataset) ([]ColumnStats, error) {
	d, err := dataset.Validate(d)
	if err != nil {
		return nil, err
	}

	_, cols := d.Shape()
	out := make([]ColumnStats, cols)
	for i := 0; i < cols; i++ {
		out[i] = describeColumn(d.ColumnAt(i))
	}
	return out, nil
}

func describeColumn(col dataset.Column) ColumnStats {
	present := col.Present()
	s := ColumnStats{
		Name:    col.Name,
		Kind:    col.Kind,
		Count:   len(present),
		Missing: col.MissingCount(),
	}
	if len(present) == 0 {
		s.Mean, s.Std = math.NaN(), math.NaN()
		s.Q25, s.Q50, s.Q75 = math.NaN(), math.NaN(), math.NaN()
		return s
	}

	if col.Kind == dataset.Numeric {
		describeNumeric(&s, present)
	} else {
		describeText(&s, present)
	}
	return s
}

func describeNumeric(s *ColumnStats, present []dataset.Value) {
	vals := make([]float64, 0, len(present))
	for _, v := range present {
		if f, ok := v.Float(); ok {
			vals = append(vals, f)
		}
	}
	sort.Float64s(vals)

	s.Mean, _ = stats.Mean(vals)
	s.Std = math.NaN()
	if len(vals) > 1 {
		s.Std, _ = stats.StandardDeviationSample(vals)
	}
	s.Min = dataset.Num(vals[0]).String()
	s.Max = dataset.Num(vals[len(vals)-1]).String()
	s.Q25 = calculateQuantile(vals, 0.25)
	s.Q50 = calculateQuantile(vals, 0.50)
	s.Q75 = calculateQuantile(vals, 0.75)
}

func describeText(s *ColumnStats, present []dataset.Value) {
	s.Mean, s.Std = math.NaN(), math.NaN()
	s.Q25, s.Q50, s.Q75 = math.NaN(), math.NaN(), math.NaN()

	valueCounts := make(map[string]int)
	for _, v := range present {
		valueCounts[v.String()]++
	}

	keys := make([]string, 0, len(valueCounts))
	for k := range valueCounts {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	s.Unique = len(keys)
	s.Min = keys[0]
	s.Max = keys[len(keys)-1]
	// keys are sorted, so the first maximum is the smallest value
	for _, k := range keys {
		if valueCounts[k] > s.Freq {
			s.Top, s.Freq = k, valueCounts[k]
		}
	}
}

// calculateQuantile interpolates linearly between the closest ranks of
// sortedVals.
func calculateQuantile(sortedVals []float64, quantile float64) float64 {
	if len(sortedVals) == 0 {
		return math.NaN()
	}
	if len(sortedVals) == 1 {
		return sortedVals[0]
	}

	index := quantile * float64(len(sortedVals)-1)
	lower := int(math.Floor(index))
	upper := int(math.Ceil(index))
	if lower == upper {
		return sortedVals[lower]
	}

	weight := index - float64(lower)
	return sortedVals[lower]*(1-weight) + sortedVals[upper]*weight
}
