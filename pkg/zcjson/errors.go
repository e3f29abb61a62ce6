package zcjson

import (
	"errors"
	"fmt"
	"reflect"
)

var (
	ErrNotPointer  = errors.New("zcjson: destination must be a non-nil pointer")
	ErrInvalidJSON = errors.New("zcjson: invalid JSON")
)

// TypeError reports a JSON value that cannot be stored in a Go value of
// the requested type.
type TypeError struct {
	Value string // JSON kind: "string", "number", "object", ...
	Type  reflect.Type
	Field string // dotted path of the struct field, if any
}

func (e *TypeError) Error() string {
	if e.Field != "" {
		return fmt.Sprintf("zcjson: cannot decode JSON %s into field %s of type %s", e.Value, e.Field, e.Type)
	}
	return fmt.Sprintf("zcjson: cannot decode JSON %s into Go value of type %s", e.Value, e.Type)
}
