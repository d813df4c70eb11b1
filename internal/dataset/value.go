package dataset

import (
	"math"
	"strconv"
	"strings"
)

type cellKind uint8

const (
	cellMissing cellKind = iota
	cellNumber
	cellText
)

// Value is a single cell. The zero Value is missing.
type Value struct {
	kind cellKind
	num  float64
	text string
}

// Num returns a numeric value. NaN is the numeric missing marker.
func Num(f float64) Value {
	if math.IsNaN(f) {
		return Value{}
	}
	return Value{kind: cellNumber, num: f}
}

// Text returns a text value. The empty string is a present value.
func Text(s string) Value {
	return Value{kind: cellText, text: s}
}

// Null returns a missing value.
func Null() Value {
	return Value{}
}

// ParseValue reads s as a number when possible and as text otherwise.
func ParseValue(s string) Value {
	trimmed := strings.TrimSpace(s)
	if trimmed != "" {
		if f, err := strconv.ParseFloat(trimmed, 64); err == nil && !math.IsNaN(f) {
			return Num(f)
		}
	}
	return Text(s)
}

func (v Value) IsMissing() bool { return v.kind == cellMissing }
func (v Value) IsNumeric() bool { return v.kind == cellNumber }
func (v Value) IsText() bool    { return v.kind == cellText }

// Float returns the numeric payload and whether v is numeric.
func (v Value) Float() (float64, bool) {
	return v.num, v.kind == cellNumber
}

// String renders v for output. Missing values render empty.
func (v Value) String() string {
	switch v.kind {
	case cellNumber:
		return strconv.FormatFloat(v.num, 'f', -1, 64)
	case cellText:
		return v.text
	default:
		return ""
	}
}

// Less orders present values: numbers ascending, then text ascending.
// Missing values sort last.
func (v Value) Less(o Value) bool {
	if v.kind != o.kind {
		if v.kind == cellMissing {
			return false
		}
		if o.kind == cellMissing {
			return true
		}
		return v.kind < o.kind
	}
	switch v.kind {
	case cellNumber:
		return v.num < o.num
	case cellText:
		return v.text < o.text
	default:
		return false
	}
}

// Kind is the logical type of a column.
type Kind int

const (
	Numeric Kind = iota
	TextKind
)

func (k Kind) String() string {
	if k == TextKind {
		return "text"
	}
	return "numeric"
}

// Zero is the type-appropriate empty value for k.
func (k Kind) Zero() Value {
	if k == TextKind {
		return Text("")
	}
	return Num(0)
}

// InferKind derives a column kind from its values. Any present text value
// makes the column Text; columns with no present values keep fallback.
func InferKind(values []Value, fallback Kind) Kind {
	sawNumber := false
	for _, v := range values {
		switch v.kind {
		case cellText:
			return TextKind
		case cellNumber:
			sawNumber = true
		}
	}
	if sawNumber {
		return Numeric
	}
	return fallback
}
