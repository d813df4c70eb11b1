// Package dataset holds the in-memory table model shared by the profiler
// and the fill engine, together with the validator every operation runs
// before touching a table.
package dataset

import "strings"

// Column is a named, ordered sequence of values of one logical kind.
type Column struct {
	Name   string
	Kind   Kind
	Values []Value
}

// NewColumn creates a column and infers its kind from values.
// Columns without present values are Numeric.
func NewColumn(name string, values ...Value) Column {
	return NewTypedColumn(name, Numeric, values...)
}

// NewTypedColumn creates a column whose kind falls back to kind when
// values holds nothing to infer from.
func NewTypedColumn(name string, kind Kind, values ...Value) Column {
	vals := make([]Value, len(values))
	copy(vals, values)
	return Column{Name: name, Kind: InferKind(vals, kind), Values: vals}
}

// Floats creates a numeric column. NaN entries are missing.
func Floats(name string, values ...float64) Column {
	vals := make([]Value, len(values))
	for i, f := range values {
		vals[i] = Num(f)
	}
	return Column{Name: name, Kind: Numeric, Values: vals}
}

// Strings creates a text column with every entry present.
func Strings(name string, values ...string) Column {
	vals := make([]Value, len(values))
	for i, s := range values {
		vals[i] = Text(s)
	}
	return Column{Name: name, Kind: TextKind, Values: vals}
}

// Len returns the number of rows in the column.
func (c Column) Len() int { return len(c.Values) }

// MissingCount counts missing cells.
func (c Column) MissingCount() int {
	n := 0
	for _, v := range c.Values {
		if v.IsMissing() {
			n++
		}
	}
	return n
}

// Present returns the non-missing values in row order.
func (c Column) Present() []Value {
	out := make([]Value, 0, len(c.Values))
	for _, v := range c.Values {
		if !v.IsMissing() {
			out = append(out, v)
		}
	}
	return out
}

// Clone returns a deep copy of c.
func (c Column) Clone() Column {
	vals := make([]Value, len(c.Values))
	copy(vals, c.Values)
	return Column{Name: c.Name, Kind: c.Kind, Values: vals}
}

// Dataset is a rectangular table of named columns aligned by row index.
// A Dataset is never modified after construction; transformations return
// new datasets.
type Dataset struct {
	columns []Column
	index   map[string]int
}

// New builds a dataset from columns. The columns are copied.
func New(columns ...Column) (*Dataset, error) {
	d := &Dataset{
		columns: make([]Column, len(columns)),
		index:   make(map[string]int, len(columns)),
	}
	for i, c := range columns {
		d.columns[i] = c.Clone()
		if _, dup := d.index[c.Name]; !dup {
			d.index[c.Name] = i
		}
	}
	if err := d.check("new"); err != nil {
		return nil, err
	}
	return d, nil
}

// MustNew is like New but panics on error. Intended for fixtures.
func MustNew(columns ...Column) *Dataset {
	d, err := New(columns...)
	if err != nil {
		panic(err)
	}
	return d
}

// Shape returns the row and column counts.
func (d *Dataset) Shape() (rows, cols int) {
	return d.Rows(), len(d.columns)
}

// Rows returns the row count.
func (d *Dataset) Rows() int {
	if len(d.columns) == 0 {
		return 0
	}
	return len(d.columns[0].Values)
}

// Columns returns the column names in order.
func (d *Dataset) Columns() []string {
	names := make([]string, len(d.columns))
	for i, c := range d.columns {
		names[i] = c.Name
	}
	return names
}

// Column returns a copy of the named column.
func (d *Dataset) Column(name string) (Column, bool) {
	i, ok := d.index[name]
	if !ok {
		return Column{}, false
	}
	return d.columns[i].Clone(), true
}

// ColumnAt returns a copy of the i-th column.
func (d *Dataset) ColumnAt(i int) Column {
	return d.columns[i].Clone()
}

// HasColumns fails with a ValueKind error listing every name not present.
func (d *Dataset) HasColumns(names ...string) error {
	var missing []string
	for _, name := range names {
		if _, ok := d.index[name]; !ok {
			missing = append(missing, name)
		}
	}
	if len(missing) > 0 {
		return ValueError("columns", "column not found in dataset: %s", strings.Join(missing, ", "))
	}
	return nil
}

// Clone returns a deep copy of d.
func (d *Dataset) Clone() *Dataset {
	out := &Dataset{
		columns: make([]Column, len(d.columns)),
		index:   make(map[string]int, len(d.index)),
	}
	for i, c := range d.columns {
		out.columns[i] = c.Clone()
	}
	for k, v := range d.index {
		out.index[k] = v
	}
	return out
}

// Equal reports whether d and o have the same columns, kinds and cells.
func (d *Dataset) Equal(o *Dataset) bool {
	if d == nil || o == nil {
		return d == o
	}
	if len(d.columns) != len(o.columns) {
		return false
	}
	for i, c := range d.columns {
		oc := o.columns[i]
		if c.Name != oc.Name || c.Kind != oc.Kind || len(c.Values) != len(oc.Values) {
			return false
		}
		for j, v := range c.Values {
			if v != oc.Values[j] {
				return false
			}
		}
	}
	return true
}

// Row returns the values of row i in column order.
func (d *Dataset) Row(i int) []Value {
	row := make([]Value, len(d.columns))
	for j, c := range d.columns {
		row[j] = c.Values[i]
	}
	return row
}

func (d *Dataset) check(op string) error {
	if len(d.columns) == 0 {
		return nil
	}
	rows := len(d.columns[0].Values)
	seen := make(map[string]struct{}, len(d.columns))
	for _, c := range d.columns {
		if c.Name == "" {
			return TypeError(op, "column names must not be empty")
		}
		if _, dup := seen[c.Name]; dup {
			return TypeError(op, "duplicate column name %q", c.Name)
		}
		seen[c.Name] = struct{}{}
		if len(c.Values) != rows {
			return TypeError(op, "column %q has %d rows, expected %d", c.Name, len(c.Values), rows)
		}
		if c.Kind == Numeric {
			for r, v := range c.Values {
				if v.IsText() {
					return TypeError(op, "numeric column %q holds text at row %d", c.Name, r)
				}
			}
		}
	}
	if len(d.index) != len(d.columns) {
		return TypeError(op, "column index out of sync")
	}
	return nil
}
