package dataset

import (
	"errors"
	"fmt"
)

// ErrorKind classifies failures raised by dataset operations.
type ErrorKind int

const (
	// TypeKind means the input is not a usable dataset.
	TypeKind ErrorKind = iota + 1
	// ValueKind means an argument is semantically invalid.
	ValueKind
)

func (k ErrorKind) String() string {
	switch k {
	case TypeKind:
		return "type error"
	case ValueKind:
		return "value error"
	default:
		return "unknown error"
	}
}

// Sentinels for errors.Is. They match any *Error of the same kind.
var (
	ErrType  = &Error{Kind: TypeKind, Msg: "invalid dataset"}
	ErrValue = &Error{Kind: ValueKind, Msg: "invalid argument"}
)

// Error is the structured error returned by the missing-value core.
type Error struct {
	Kind ErrorKind
	Op   string
	Msg  string
}

func (e *Error) Error() string {
	if e.Op != "" {
		return fmt.Sprintf("%s: %s: %s", e.Op, e.Kind, e.Msg)
	}
	return fmt.Sprintf("%s: %s", e.Kind, e.Msg)
}

// Is reports whether target is an *Error of the same kind.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok {
		return false
	}
	return t.Kind == e.Kind
}

// TypeError creates a TypeKind error for op.
func TypeError(op, format string, args ...interface{}) *Error {
	return &Error{Kind: TypeKind, Op: op, Msg: fmt.Sprintf(format, args...)}
}

// ValueError creates a ValueKind error for op.
func ValueError(op, format string, args ...interface{}) *Error {
	return &Error{Kind: ValueKind, Op: op, Msg: fmt.Sprintf(format, args...)}
}

// KindOf returns the kind of err, or 0 if err is not a dataset error.
func KindOf(err error) ErrorKind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return 0
}
