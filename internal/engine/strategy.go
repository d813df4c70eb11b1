package engine

import (
	"fmt"
	"strings"

	"github.com/montanaflynn/stats"

	"github.com/peekknuf/dataqa/internal/dataset"
)

// Method names a fill strategy.
type Method string

const (
	Mean     Method = "mean"
	Median   Method = "median"
	Mode     Method = "mode"
	Constant Method = "constant"
)

// Methods lists the supported strategies.
var Methods = []Method{Mean, Median, Mode, Constant}

// Valid reports whether m is a supported strategy.
func (m Method) Valid() bool {
	for _, known := range Methods {
		if m == known {
			return true
		}
	}
	return false
}

// ParseMethod converts a user supplied name into a Method.
func ParseMethod(s string) (Method, error) {
	m := Method(strings.ToLower(strings.TrimSpace(s)))
	if !m.Valid() {
		return "", unknownMethod(s)
	}
	return m, nil
}

func unknownMethod(name string) error {
	allowed := make([]string, len(Methods))
	for i, m := range Methods {
		allowed[i] = string(m)
	}
	return dataset.ValueError("fill", "unknown method %q, choose one of {%s}", name, strings.Join(allowed, ", "))
}

// selector picks the value used to fill the missing cells of col.
type selector func(col dataset.Column, constant *dataset.Value) (dataset.Value, error)

type strategy struct {
	selectValue selector
	// fallback marks entries that substitute mode resolution for the
	// requested method.
	fallback bool
}

type strategyKey struct {
	method Method
	kind   dataset.Kind
}

var strategies = map[strategyKey]strategy{
	{Mean, dataset.Numeric}:      {selectValue: selectMean},
	{Median, dataset.Numeric}:    {selectValue: selectMedian},
	{Mode, dataset.Numeric}:      {selectValue: selectMode},
	{Mode, dataset.TextKind}:     {selectValue: selectMode},
	{Constant, dataset.Numeric}:  {selectValue: selectConstant},
	{Constant, dataset.TextKind}: {selectValue: selectConstant},

	// mean and median are undefined for text; resolve like mode instead.
	{Mean, dataset.TextKind}:   {selectValue: selectMode, fallback: true},
	{Median, dataset.TextKind}: {selectValue: selectMode, fallback: true},
}

func lookupStrategy(m Method, k dataset.Kind) (strategy, bool) {
	s, ok := strategies[strategyKey{method: m, kind: k}]
	return s, ok
}

func presentFloats(col dataset.Column) []float64 {
	out := make([]float64, 0, len(col.Values))
	for _, v := range col.Values {
		if f, ok := v.Float(); ok {
			out = append(out, f)
		}
	}
	return out
}

func selectMean(col dataset.Column, _ *dataset.Value) (dataset.Value, error) {
	data := presentFloats(col)
	if len(data) == 0 {
		return col.Kind.Zero(), nil
	}
	mean, err := stats.Mean(data)
	if err != nil {
		return dataset.Value{}, fmt.Errorf("mean of column %q: %w", col.Name, err)
	}
	return dataset.Num(mean), nil
}

func selectMedian(col dataset.Column, _ *dataset.Value) (dataset.Value, error) {
	data := presentFloats(col)
	if len(data) == 0 {
		return col.Kind.Zero(), nil
	}
	median, err := stats.Median(data)
	if err != nil {
		return dataset.Value{}, fmt.Errorf("median of column %q: %w", col.Name, err)
	}
	return dataset.Num(median), nil
}

// selectMode returns the most frequent present value. Ties go to the
// smallest value, numbers before text.
func selectMode(col dataset.Column, _ *dataset.Value) (dataset.Value, error) {
	counts := make(map[dataset.Value]int)
	var best dataset.Value
	bestCount := 0
	for _, v := range col.Values {
		if v.IsMissing() {
			continue
		}
		counts[v]++
		n := counts[v]
		if n > bestCount || (n == bestCount && v.Less(best)) {
			best, bestCount = v, n
		}
	}
	if bestCount == 0 {
		return col.Kind.Zero(), nil
	}
	return best, nil
}

func selectConstant(_ dataset.Column, constant *dataset.Value) (dataset.Value, error) {
	if constant == nil || constant.IsMissing() {
		return dataset.Num(0), nil
	}
	return *constant, nil
}
