package engine

import (
	"bytes"
	"io"
	"log/slog"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/peekknuf/dataqa/internal/dataset"
	"github.com/peekknuf/dataqa/internal/profiler"
)

var nan = math.NaN()

func quietFiller(opts ...Option) *Filler {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	return New(append([]Option{WithLogger(logger)}, opts...)...)
}

func column(t *testing.T, d *dataset.Dataset, name string) dataset.Column {
	t.Helper()
	col, ok := d.Column(name)
	require.True(t, ok, "column %q not found", name)
	return col
}

func TestFillConstantZero(t *testing.T) {
	d := dataset.MustNew(dataset.Floats("x", nan, 1, nan, 3))
	zero := dataset.Num(0)

	out, err := quietFiller().FillMissing(d, FillSpec{Method: Constant, Constant: &zero})
	require.NoError(t, err)

	assert.Equal(t, dataset.Floats("x", 0, 1, 0, 3), column(t, out, "x"))
}

func TestFillConstantDefaultsToZero(t *testing.T) {
	d := dataset.MustNew(
		dataset.Floats("n", nan, 2),
		dataset.NewColumn("s", dataset.Text("a"), dataset.Null()),
	)

	out, err := quietFiller().FillMissing(d, FillSpec{Method: Constant})
	require.NoError(t, err)

	assert.Equal(t, []dataset.Value{dataset.Num(0), dataset.Num(2)}, column(t, out, "n").Values)
	s := column(t, out, "s")
	assert.Equal(t, []dataset.Value{dataset.Text("a"), dataset.Num(0)}, s.Values)
	assert.Equal(t, dataset.TextKind, s.Kind)
}

func TestFillConstantTextTurnsNumericColumnToText(t *testing.T) {
	d := dataset.MustNew(dataset.Floats("n", 1, nan))
	unknown := dataset.Text("unknown")

	out, err := quietFiller().FillMissing(d, FillSpec{Method: Constant, Constant: &unknown})
	require.NoError(t, err)

	n := column(t, out, "n")
	assert.Equal(t, dataset.TextKind, n.Kind)
	assert.Equal(t, []dataset.Value{dataset.Num(1), dataset.Text("unknown")}, n.Values)
}

func TestFillMean(t *testing.T) {
	d := dataset.MustNew(dataset.Floats("x", 1, nan, 3))

	out, err := quietFiller().FillMissing(d, FillSpec{Method: Mean})
	require.NoError(t, err)

	assert.Equal(t, dataset.Floats("x", 1, 2, 3), column(t, out, "x"))
}

func TestFillMedian(t *testing.T) {
	d := dataset.MustNew(
		dataset.Floats("odd", 5, nan, 1, 100),
		dataset.Floats("even", 1, 2, nan, 3, 10),
	)

	out, err := quietFiller().FillMissing(d, FillSpec{Method: Median})
	require.NoError(t, err)

	assert.Equal(t, dataset.Floats("odd", 5, 5, 1, 100), column(t, out, "odd"))
	assert.Equal(t, dataset.Floats("even", 1, 2, 2.5, 3, 10), column(t, out, "even"))
}

func TestFillModeEntirelyMissing(t *testing.T) {
	d := dataset.MustNew(
		dataset.Floats("n", nan, nan),
		dataset.NewTypedColumn("s", dataset.TextKind, dataset.Null(), dataset.Null()),
	)

	out, err := quietFiller().FillMissing(d, FillSpec{Method: Mode})
	require.NoError(t, err)

	assert.Equal(t, dataset.Floats("n", 0, 0), column(t, out, "n"))
	assert.Equal(t, dataset.Strings("s", "", ""), column(t, out, "s"))
}

func TestFillModePicksMostFrequentSmallestOnTie(t *testing.T) {
	d := dataset.MustNew(
		dataset.Floats("n", 3, 1, nan, 3, 1, 2),
		dataset.NewColumn("s", dataset.Text("b"), dataset.Text("a"), dataset.Null(), dataset.Text("b")),
	)

	out, err := quietFiller().FillMissing(d, FillSpec{Method: Mode})
	require.NoError(t, err)

	assert.Equal(t, dataset.Num(1), column(t, out, "n").Values[2])
	assert.Equal(t, dataset.Text("b"), column(t, out, "s").Values[2])
}

func TestFillMeanOnTextFallsBackToMode(t *testing.T) {
	d := dataset.MustNew(
		dataset.NewColumn("city", dataset.Text("Oslo"), dataset.Null(), dataset.Text("Rome"), dataset.Text("Oslo")),
		dataset.Floats("n", 1, nan, 3, 4),
	)

	type call struct {
		column string
		method Method
		kind   dataset.Kind
	}
	var calls []call
	var logs bytes.Buffer
	f := New(
		WithLogger(slog.New(slog.NewTextHandler(&logs, nil))),
		WithFallbackHook(func(column string, m Method, k dataset.Kind) {
			calls = append(calls, call{column, m, k})
		}),
	)

	for _, m := range []Method{Mean, Median} {
		calls = nil
		out, err := f.FillMissing(d, FillSpec{Method: m})
		require.NoError(t, err)

		assert.Equal(t, dataset.Text("Oslo"), column(t, out, "city").Values[1])
		assert.Equal(t, []call{{"city", m, dataset.TextKind}}, calls)
	}
	assert.Contains(t, logs.String(), "using mode")
	assert.Contains(t, logs.String(), "column=city")
}

func TestFillMeanOnEntirelyMissingNumericUsesZero(t *testing.T) {
	d := dataset.MustNew(dataset.Floats("n", nan, nan, nan))

	for _, m := range []Method{Mean, Median} {
		out, err := quietFiller().FillMissing(d, FillSpec{Method: m})
		require.NoError(t, err)
		assert.Equal(t, dataset.Floats("n", 0, 0, 0), column(t, out, "n"))
	}
}

func TestFillOnlyTargetedColumns(t *testing.T) {
	d := dataset.MustNew(
		dataset.Floats("a", nan, 2),
		dataset.Floats("b", nan, 4),
		dataset.Floats("c", 5, 6),
	)

	out, err := quietFiller().FillMissing(d, FillSpec{Method: Mean, Columns: []string{"b", "c", "b"}})
	require.NoError(t, err)

	assert.Equal(t, column(t, d, "a"), column(t, out, "a"))
	assert.Equal(t, dataset.Floats("b", 4, 4), column(t, out, "b"))
	assert.Equal(t, column(t, d, "c"), column(t, out, "c"))
	assert.Equal(t, d.Columns(), out.Columns())
}

func TestFillEmptyColumnListIsNoop(t *testing.T) {
	d := dataset.MustNew(dataset.Floats("a", nan, 2))

	out, err := quietFiller().FillMissing(d, FillSpec{Method: Mean, Columns: []string{}})
	require.NoError(t, err)
	assert.True(t, out.Equal(d))
}

func TestFillUnknownMethod(t *testing.T) {
	d := dataset.MustNew(dataset.Floats("a", nan, 2))
	snapshot := d.Clone()

	out, err := quietFiller().FillMissing(d, FillSpec{Method: "bogus"})
	require.Error(t, err)
	assert.Nil(t, out)
	assert.ErrorIs(t, err, dataset.ErrValue)
	assert.Contains(t, err.Error(), `"bogus"`)
	for _, m := range Methods {
		assert.Contains(t, err.Error(), string(m))
	}
	assert.True(t, d.Equal(snapshot))
}

func TestFillUnknownColumn(t *testing.T) {
	d := dataset.MustNew(dataset.Floats("a", nan, 2))
	snapshot := d.Clone()

	out, err := quietFiller().FillMissing(d, FillSpec{Method: Mean, Columns: []string{"a", "ghost"}})
	require.Error(t, err)
	assert.Nil(t, out)
	assert.ErrorIs(t, err, dataset.ErrValue)
	assert.Contains(t, err.Error(), "ghost")
	assert.True(t, d.Equal(snapshot))
}

func TestFillInvalidDataset(t *testing.T) {
	_, err := FillMissing(nil, FillSpec{Method: Mean})
	assert.ErrorIs(t, err, dataset.ErrType)

	// Dataset validation runs before method validation.
	_, err = FillMissing(nil, FillSpec{Method: "bogus"})
	assert.ErrorIs(t, err, dataset.ErrType)
}

func TestFillDoesNotMutateInput(t *testing.T) {
	d := dataset.MustNew(
		dataset.Floats("a", 1, nan, 3),
		dataset.NewColumn("b", dataset.Text("x"), dataset.Null(), dataset.Text("x")),
	)
	snapshot := d.Clone()

	for _, m := range Methods {
		out, err := quietFiller().FillMissing(d, FillSpec{Method: m})
		require.NoError(t, err)
		assert.False(t, out.Equal(d))
		assert.True(t, d.Equal(snapshot), "input changed by %s", m)
	}
}

func TestFillIsIdempotentAndKeepsShape(t *testing.T) {
	d := dataset.MustNew(
		dataset.Floats("a", 1, nan, 3, nan),
		dataset.Floats("b", nan, nan, nan, nan),
		dataset.NewColumn("c", dataset.Null(), dataset.Text("k"), dataset.Null(), dataset.Text("")),
		dataset.NewTypedColumn("d", dataset.TextKind, dataset.Null(), dataset.Null(), dataset.Null(), dataset.Null()),
	)
	rows, cols := d.Shape()

	for _, m := range Methods {
		t.Run(string(m), func(t *testing.T) {
			f := quietFiller(WithWorkers(2))
			spec := FillSpec{Method: m}

			once, err := f.FillMissing(d, spec)
			require.NoError(t, err)

			r, c := once.Shape()
			assert.Equal(t, rows, r)
			assert.Equal(t, cols, c)

			counts, err := profiler.CountMissing(once)
			require.NoError(t, err)
			assert.Zero(t, counts.Total())

			twice, err := f.FillMissing(once, spec)
			require.NoError(t, err)
			assert.True(t, twice.Equal(once))
		})
	}
}

func TestFillIsDeterministicAcrossWorkerCounts(t *testing.T) {
	columns := make([]dataset.Column, 0, 40)
	for i := 0; i < 40; i++ {
		vals := []float64{float64(i), nan, float64(i * 2), nan, 7}
		columns = append(columns, dataset.Floats("c"+string(rune('A'+i%26))+string(rune('a'+i/26)), vals...))
	}
	d := dataset.MustNew(columns...)

	serial, err := quietFiller(WithWorkers(1)).FillMissing(d, FillSpec{Method: Median})
	require.NoError(t, err)
	parallel, err := quietFiller(WithWorkers(8)).FillMissing(d, FillSpec{Method: Median})
	require.NoError(t, err)

	assert.True(t, serial.Equal(parallel))
}

func TestParseMethod(t *testing.T) {
	m, err := ParseMethod(" Median ")
	require.NoError(t, err)
	assert.Equal(t, Median, m)

	_, err = ParseMethod("average")
	assert.ErrorIs(t, err, dataset.ErrValue)
	assert.Contains(t, err.Error(), "mean, median, mode, constant")
}

func TestStrategyTableCoversEveryMethodAndKind(t *testing.T) {
	for _, m := range Methods {
		for _, k := range []dataset.Kind{dataset.Numeric, dataset.TextKind} {
			s, ok := lookupStrategy(m, k)
			assert.True(t, ok, "no strategy for %s/%s", m, k)
			wantFallback := k == dataset.TextKind && (m == Mean || m == Median)
			assert.Equal(t, wantFallback, s.fallback, "%s/%s", m, k)
		}
	}
}
