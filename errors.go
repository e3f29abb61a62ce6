package zcstring

import (
	"errors"
	"fmt"
)

var (
	ErrInvalidRange = errors.New("zcstring: invalid range")
	ErrInvalidUTF8  = errors.New("zcstring: invalid UTF-8")
	ErrOutOfBounds  = errors.New("zcstring: slice out of bounds")
	ErrSplitRune    = errors.New("zcstring: slice splits a UTF-8 sequence")
)

// RangeError reports a byte range whose start lies past its end.
type RangeError struct {
	Start int64
	End   int64
}

func (e *RangeError) Error() string {
	return fmt.Sprintf("zcstring: invalid range: start %d is greater than end %d", e.Start, e.End)
}

func (e *RangeError) Is(target error) bool { return target == ErrInvalidRange }

// EncodingError reports input that is not valid UTF-8. Offset is the index
// of the first byte that does not start a valid sequence.
type EncodingError struct {
	Offset int
}

func (e *EncodingError) Error() string {
	return fmt.Sprintf("zcstring: invalid UTF-8 at byte %d", e.Offset)
}

func (e *EncodingError) Is(target error) bool { return target == ErrInvalidUTF8 }
