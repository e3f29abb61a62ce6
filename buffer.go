package zcstring

import (
	"strings"
	"unicode/utf8"
	"unsafe"
)

// Buffer is the immutable backing storage shared by Views. Its content is
// never written after construction and its address never changes, so any
// number of Views and goroutines may read it without locking. The garbage
// collector keeps a Buffer alive for as long as a View, or a string sliced
// from one, is reachable.
type Buffer struct {
	s string
}

var emptyBuffer = &Buffer{}

// NewBuffer wraps s without copying. Go strings are immutable, so s can be
// shared for the lifetime of the Buffer.
func NewBuffer(s string) *Buffer {
	if len(s) == 0 {
		return emptyBuffer
	}
	return &Buffer{s: s}
}

// CopyBuffer stores a private copy of s.
func CopyBuffer(s string) *Buffer {
	if len(s) == 0 {
		return emptyBuffer
	}
	return &Buffer{s: strings.Clone(s)}
}

// Len returns the buffer size in bytes.
func (b *Buffer) Len() int {
	if b == nil {
		return 0
	}
	return len(b.s)
}

// String returns the whole buffer content without copying.
func (b *Buffer) String() string {
	if b == nil {
		return ""
	}
	return b.s
}

// View returns a View over the whole buffer.
func (b *Buffer) View() View {
	return View{buf: b, n: b.Len()}
}

// Empty returns an empty View.
func Empty() View { return emptyBuffer.View() }

// Literal wraps s as the source of a new View without copying.
func Literal(s string) View { return NewBuffer(s).View() }

// Copy allocates a new Buffer holding a copy of s, independent of whatever
// storage s points into.
func Copy(s string) View { return CopyBuffer(s).View() }

// FromBytes copies b into a new Buffer. b must be valid UTF-8.
func FromBytes(b []byte) (View, error) {
	if err := validUTF8(b); err != nil {
		return View{}, err
	}
	return Copy(unsafe.String(unsafe.SliceData(b), len(b))), nil
}

// TakeBytes adopts b as the storage of a new Buffer without copying or
// validating it. The caller must not modify b afterwards.
func TakeBytes(b []byte) View {
	if len(b) == 0 {
		return Empty()
	}
	return NewBuffer(unsafe.String(unsafe.SliceData(b), len(b))).View()
}

func validUTF8(b []byte) error {
	if utf8.Valid(b) {
		return nil
	}
	for i := 0; i < len(b); {
		r, size := utf8.DecodeRune(b[i:])
		if r == utf8.RuneError && size <= 1 {
			return &EncodingError{Offset: i}
		}
		i += size
	}
	return nil
}
