// Package engine fills missing values column by column. Every call
// validates its input, works on copies and returns a new dataset.
package engine

import (
	"log/slog"
	"runtime"

	"golang.org/x/sync/errgroup"

	"github.com/peekknuf/dataqa/internal/dataset"
)

// FillSpec configures one FillMissing call.
type FillSpec struct {
	Method Method
	// Columns restricts filling to the named columns. Nil means all
	// columns in dataset order.
	Columns []string
	// Constant is used by the constant method. Nil means numeric zero,
	// whatever the column kind.
	Constant *dataset.Value
}

// FallbackFunc is called when a requested method cannot apply to a
// column's kind and mode resolution is used instead.
type FallbackFunc func(column string, requested Method, kind dataset.Kind)

// Filler applies fill strategies to datasets. The zero value is not
// usable; create one with New.
type Filler struct {
	logger     *slog.Logger
	onFallback FallbackFunc
	workers    int
}

type Option func(*Filler)

// WithLogger sets the logger used for fallback warnings and debug output.
func WithLogger(l *slog.Logger) Option {
	return func(f *Filler) {
		if l != nil {
			f.logger = l
		}
	}
}

// WithFallbackHook registers fn to observe mean/median requests that were
// resolved with mode on text columns. Hooks run on the calling goroutine,
// in column order, after all values have been selected.
func WithFallbackHook(fn FallbackFunc) Option {
	return func(f *Filler) { f.onFallback = fn }
}

// WithWorkers bounds how many columns are processed concurrently.
// Values below 1 mean runtime.NumCPU().
func WithWorkers(n int) Option {
	return func(f *Filler) { f.workers = n }
}

// New creates a Filler.
func New(opts ...Option) *Filler {
	f := &Filler{logger: slog.Default()}
	for _, opt := range opts {
		opt(f)
	}
	if f.workers < 1 {
		f.workers = runtime.NumCPU()
	}
	return f
}

// FillMissing fills d with a default Filler.
func FillMissing(d *dataset.Dataset, spec FillSpec) (*dataset.Dataset, error) {
	return New().FillMissing(d, spec)
}

type columnResult struct {
	filled   *dataset.Column
	fallback bool
	missing  int
	value    dataset.Value
}

// FillMissing returns a copy of d with the missing cells of the targeted
// columns replaced according to spec. d is never modified, and nothing is
// returned but the error when validation fails.
func (f *Filler) FillMissing(d *dataset.Dataset, spec FillSpec) (*dataset.Dataset, error) {
	d, err := dataset.Validate(d)
	if err != nil {
		return nil, err
	}
	if !spec.Method.Valid() {
		return nil, unknownMethod(string(spec.Method))
	}

	targets, err := resolveTargets(d, spec.Columns)
	if err != nil {
		return nil, err
	}

	_, cols := d.Shape()
	results := make([]columnResult, cols)

	var g errgroup.Group
	g.SetLimit(f.workers)
	for _, idx := range targets {
		idx := idx
		g.Go(func() error {
			col := d.ColumnAt(idx)
			missing := col.MissingCount()
			if missing == 0 {
				return nil
			}

			strat, ok := lookupStrategy(spec.Method, col.Kind)
			if !ok {
				return unknownMethod(string(spec.Method))
			}
			value, err := strat.selectValue(col, spec.Constant)
			if err != nil {
				return err
			}

			filled := fillColumn(col, value)
			results[idx] = columnResult{
				filled:   &filled,
				fallback: strat.fallback,
				missing:  missing,
				value:    value,
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	columns := make([]dataset.Column, cols)
	for i := range columns {
		res := results[i]
		if res.filled == nil {
			columns[i] = d.ColumnAt(i)
			continue
		}
		columns[i] = *res.filled
		if res.fallback {
			f.reportFallback(columns[i].Name, spec.Method, d.ColumnAt(i).Kind)
		}
		f.logger.Debug("filled missing values",
			"column", columns[i].Name,
			"method", string(spec.Method),
			"missing", res.missing,
			"value", res.value.String())
	}

	return dataset.New(columns...)
}

func (f *Filler) reportFallback(column string, requested Method, kind dataset.Kind) {
	f.logger.Warn("fill method not applicable to column kind, using mode",
		"column", column,
		"method", string(requested),
		"kind", kind.String())
	if f.onFallback != nil {
		f.onFallback(column, requested, kind)
	}
}

// resolveTargets maps the requested column names to indices, keeping the
// requested order and dropping repeats.
func resolveTargets(d *dataset.Dataset, names []string) ([]int, error) {
	all := d.Columns()
	if names == nil {
		names = all
	} else if err := d.HasColumns(names...); err != nil {
		return nil, err
	}

	pos := make(map[string]int, len(all))
	for i, name := range all {
		pos[name] = i
	}

	targets := make([]int, 0, len(names))
	seen := make(map[int]struct{}, len(names))
	for _, name := range names {
		i := pos[name]
		if _, dup := seen[i]; dup {
			continue
		}
		seen[i] = struct{}{}
		targets = append(targets, i)
	}
	return targets, nil
}

func fillColumn(col dataset.Column, value dataset.Value) dataset.Column {
	out := col.Clone()
	for i, v := range out.Values {
		if v.IsMissing() {
			out.Values[i] = value
		}
	}
	out.Kind = dataset.InferKind(out.Values, col.Kind)
	return out
}
