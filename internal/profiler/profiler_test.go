package profiler

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/peekknuf/dataqa/internal/dataset"
)

var nan = math.NaN()

func sampleDataset() *dataset.Dataset {
	return dataset.MustNew(
		dataset.Floats("A", 1, 4, 1, 7, nan),
		dataset.Floats("B", nan, nan, 2, nan, 10),
		dataset.Floats("C", 3, 6, 3, 9, 11),
		dataset.NewColumn("D", dataset.Text("x"), dataset.Null(), dataset.Text("y"), dataset.Text(""), dataset.Text("z")),
	)
}

func TestCountMissing(t *testing.T) {
	d := sampleDataset()

	counts, err := CountMissing(d)
	require.NoError(t, err)

	assert.Equal(t, Counts{
		{Column: "A", Count: 1},
		{Column: "B", Count: 3},
		{Column: "C", Count: 0},
		{Column: "D", Count: 1},
	}, counts)
	assert.Equal(t, 5, counts.Total())

	n, ok := counts.Get("B")
	assert.True(t, ok)
	assert.Equal(t, 3, n)
	_, ok = counts.Get("nope")
	assert.False(t, ok)
}

func TestCountMissingBounds(t *testing.T) {
	for _, d := range []*dataset.Dataset{
		sampleDataset(),
		dataset.MustNew(dataset.Floats("all", nan, nan)),
		dataset.MustNew(dataset.Floats("empty")),
	} {
		counts, err := CountMissing(d)
		require.NoError(t, err)
		rows, cols := d.Shape()
		assert.Len(t, counts, cols)
		for _, cc := range counts {
			assert.GreaterOrEqual(t, cc.Count, 0)
			assert.LessOrEqual(t, cc.Count, rows)
		}
	}
}

func TestReportMissing(t *testing.T) {
	report, err := ReportMissing(sampleDataset())
	require.NoError(t, err)

	require.Len(t, report, 3)
	assert.Equal(t, ReportRow{Column: "B", Count: 3, Percent: 60}, report[0])
	// A and D tie at 20%; dataset order is kept.
	assert.Equal(t, "A", report[1].Column)
	assert.Equal(t, "D", report[2].Column)

	for i, row := range report {
		assert.Equal(t, 100*float64(row.Count)/5, row.Percent)
		if i > 0 {
			assert.GreaterOrEqual(t, report[i-1].Percent, row.Percent)
		}
	}

	_, ok := report.Get("C")
	assert.False(t, ok, "columns without missing values are filtered out")
}

func TestReportMissingStableTies(t *testing.T) {
	d := dataset.MustNew(
		dataset.Floats("z", nan, 1),
		dataset.Floats("y", 1, 1),
		dataset.Floats("x", 1, nan),
		dataset.Floats("w", nan, nan),
		dataset.Floats("v", nan, 2),
	)

	report, err := ReportMissing(d)
	require.NoError(t, err)

	var names []string
	for _, row := range report {
		names = append(names, row.Column)
	}
	assert.Equal(t, []string{"w", "z", "x", "v"}, names)
}

func TestReportMissingNoRows(t *testing.T) {
	d := dataset.MustNew(dataset.Floats("a"), dataset.Strings("b"))

	report, err := ReportMissing(d)
	require.NoError(t, err)
	assert.NotNil(t, report)
	assert.Empty(t, report)

	report, err = ReportMissing(dataset.MustNew())
	require.NoError(t, err)
	assert.Empty(t, report)
}

func TestInvalidInputIsTypeError(t *testing.T) {
	_, err := CountMissing(nil)
	assert.ErrorIs(t, err, dataset.ErrType)

	_, err = ReportMissing(nil)
	assert.ErrorIs(t, err, dataset.ErrType)

	_, err = Summarize(nil)
	assert.ErrorIs(t, err, dataset.ErrType)
}

func TestSummarize(t *testing.T) {
	metrics, err := Summarize(sampleDataset())
	require.NoError(t, err)

	assert.Equal(t, 5, metrics.TotalRows)
	assert.Equal(t, 4, metrics.TotalColumns)
	assert.Equal(t, 20, metrics.TotalCells)
	assert.Equal(t, 5, metrics.MissingCells)
	assert.InDelta(t, 25.0, metrics.NullPercentage, 1e-9)
	assert.InDelta(t, 75.0, metrics.Completeness(), 1e-9)
	assert.Equal(t, 3, metrics.NumericColumns)
	assert.Equal(t, 1, metrics.TextColumns)
	assert.Equal(t, 3, metrics.ColumnsWithMissing)
	assert.Equal(t, "Fair", metrics.Grade())
}

func TestSummarizeEmpty(t *testing.T) {
	metrics, err := Summarize(dataset.MustNew(dataset.Floats("a")))
	require.NoError(t, err)
	assert.Equal(t, 0.0, metrics.NullPercentage)
	assert.Equal(t, 100.0, metrics.Completeness())
	assert.Equal(t, "Good", metrics.Grade())
}

func TestSummarizeDistinctRows(t *testing.T) {
	d := dataset.MustNew(
		dataset.Floats("n", 1, 1, 1, nan),
		dataset.NewColumn("s", dataset.Text("1"), dataset.Text("1"), dataset.Num(1), dataset.Null()),
	)

	metrics, err := Summarize(d)
	require.NoError(t, err)
	assert.Equal(t, 3, metrics.DistinctRows)
	assert.InDelta(t, 0.75, metrics.DistinctRatio(), 1e-9)

	empty, err := Summarize(dataset.MustNew(dataset.Floats("a")))
	require.NoError(t, err)
	assert.Equal(t, 0.0, empty.DistinctRatio())
}

func TestReportMissingPercentIsExact(t *testing.T) {
	for rows := 1; rows <= 50; rows++ {
		for missing := 1; missing <= rows; missing++ {
			vals := make([]float64, rows)
			for i := 0; i < missing; i++ {
				vals[i] = nan
			}

			report, err := ReportMissing(dataset.MustNew(dataset.Floats("a", vals...)))
			require.NoError(t, err)
			require.Len(t, report, 1)
			want := 100 * float64(missing) / float64(rows)
			if report[0].Percent != want {
				t.Fatalf("count=%d rows=%d: got %v, want %v", missing, rows, report[0].Percent, want)
			}
		}
	}
}
