package connectors

import (
	"strconv"
	"strings"

	"github.com/peekknuf/dataqa/internal/dataset"
)

// DefaultNullTokens are the cell contents read as missing. The empty
// string is always missing and need not be listed.
var DefaultNullTokens = []string{"NA", "N/A", "NaN", "nan", "null", "NULL", "None", "#N/A"}

// columnBuilder accumulates raw cells for one column and infers whether
// the column is numeric.
type columnBuilder struct {
	name  string
	raw   []string
	nulls []bool
	kind  string
}

func newColumnBuilder(name string, capacity int) *columnBuilder {
	return &columnBuilder{
		name:  name,
		raw:   make([]string, 0, capacity),
		nulls: make([]bool, 0, capacity),
	}
}

func (b *columnBuilder) update(value string, nullTokens map[string]struct{}) {
	_, isNull := nullTokens[strings.TrimSpace(value)]
	if value == "" || isNull {
		b.raw = append(b.raw, "")
		b.nulls = append(b.nulls, true)
		return
	}

	b.raw = append(b.raw, value)
	b.nulls = append(b.nulls, false)
	b.inferType(value)
}

// inferType narrows int -> float -> string as values arrive.
func (b *columnBuilder) inferType(value string) {
	if b.kind == "string" {
		return
	}

	trimmed := strings.TrimSpace(value)
	if b.kind != "float" {
		if _, err := strconv.ParseInt(trimmed, 10, 64); err == nil {
			if b.kind == "" {
				b.kind = "int"
			}
			return
		}
	}

	if _, err := strconv.ParseFloat(trimmed, 64); err == nil {
		b.kind = "float"
		return
	}

	b.kind = "string"
}

func (b *columnBuilder) column() dataset.Column {
	numeric := b.kind != "string"
	values := make([]dataset.Value, len(b.raw))
	for i, s := range b.raw {
		switch {
		case b.nulls[i]:
			values[i] = dataset.Null()
		case numeric:
			f, _ := strconv.ParseFloat(strings.TrimSpace(s), 64)
			values[i] = dataset.Num(f)
		default:
			values[i] = dataset.Text(s)
		}
	}

	kind := dataset.Numeric
	if !numeric {
		kind = dataset.TextKind
	}
	return dataset.NewTypedColumn(b.name, kind, values...)
}

// headerNames makes header cells usable as unique column names.
// Blank headers become "Unnamed: i" and repeats get a ".n" suffix.
func headerNames(headers []string) []string {
	names := make([]string, len(headers))
	taken := make(map[string]bool, len(headers))
	next := make(map[string]int)
	for i, h := range headers {
		name := strings.TrimSpace(h)
		if name == "" {
			name = "Unnamed: " + strconv.Itoa(i)
		}
		base := name
		for taken[name] {
			next[base]++
			name = base + "." + strconv.Itoa(next[base])
		}
		taken[name] = true
		names[i] = name
	}
	return names
}
