package zcstring

import (
	"encoding/json"
	"fmt"
	"hash/maphash"
	"io"
	"strconv"
	"strings"
	"unicode/utf8"

	"gopkg.in/yaml.v3"
)

// View is a read-only window onto a Buffer: the bytes
// [off, off+n) of buf. Views are small values meant to be passed and stored
// by value; copying one never copies text.
//
// Views are not comparable with ==. Two Views holding the same text in
// different buffers are equal as far as callers are concerned, so use
// Equal, Compare and Hash, or key maps by String().
type View struct {
	_   [0]func()
	buf *Buffer
	off int
	n   int
}

// String returns the text of v. The result shares v's storage.
func (v View) String() string {
	if v.buf == nil {
		return ""
	}
	return v.buf.s[v.off : v.off+v.n]
}

// Len returns the length of v in bytes.
func (v View) Len() int { return v.n }

// IsEmpty reports whether v holds no text.
func (v View) IsEmpty() bool { return v.n == 0 }

// Buffer returns the storage v points into.
func (v View) Buffer() *Buffer {
	if v.buf == nil {
		return emptyBuffer
	}
	return v.buf
}

// Offset returns the position of v inside its Buffer.
func (v View) Offset() int { return v.off }

// SameBuffer reports whether v and o share storage.
func (v View) SameBuffer(o View) bool { return v.Buffer() == o.Buffer() }

// Slice returns the sub-view [i, j) of v without copying. Both ends must lie
// on UTF-8 sequence boundaries.
func (v View) Slice(i, j int) (View, error) {
	if i < 0 || j < i || j > v.n {
		return View{}, fmt.Errorf("%w: [%d:%d] of length %d", ErrOutOfBounds, i, j, v.n)
	}
	s := v.String()
	if !runeBoundary(s, i) || !runeBoundary(s, j) {
		return View{}, fmt.Errorf("%w: [%d:%d]", ErrSplitRune, i, j)
	}
	return View{buf: v.buf, off: v.off + i, n: j - i}, nil
}

// MustSlice is like Slice but panics on an invalid range.
func (v View) MustSlice(i, j int) View {
	sub, err := v.Slice(i, j)
	if err != nil {
		panic(err)
	}
	return sub
}

func runeBoundary(s string, i int) bool {
	return i == 0 || i == len(s) || utf8.RuneStart(s[i])
}

// SourceOf reports whether the storage of s lies entirely inside v. s must
// have been derived from v's text; see ResliceOrCopy.
func (v View) SourceOf(s string) bool {
	_, ok := v.locate(s)
	return ok
}

func (v View) locate(s string) (int, bool) {
	if v.buf == nil {
		return 0, false
	}
	return within(stringAddr(v.String()), v.n, stringAddr(s), len(s))
}

// ResliceOrCopy returns a View for s. When s lies inside v the result
// shares v's buffer; otherwise s is copied into a new Buffer.
//
// s should be the product of a string operation over v.String(), such as
// strings.TrimSpace or strings.Cut. The check is made on addresses, not
// content.
func (v View) ResliceOrCopy(s string) View {
	if off, ok := v.locate(s); ok {
		return View{buf: v.buf, off: v.off + off, n: len(s)}
	}
	return Copy(s)
}

// Map applies f to the text of v and returns the result as a View,
// sharing v's buffer when f returned a sub-string of its input.
//
//	trimmed := v.Map(strings.TrimSpace)
func (v View) Map(f func(string) string) View {
	return v.ResliceOrCopy(f(v.String()))
}

// Detach returns a copy of v backed by a new Buffer, so that a large source
// buffer can be released while a small fragment of it is kept.
func (v View) Detach() View { return Copy(v.String()) }

// Equal reports whether v and o hold the same text.
func (v View) Equal(o View) bool { return v.String() == o.String() }

// EqualString reports whether v holds the text s.
func (v View) EqualString(s string) bool { return v.String() == s }

// Compare orders Views by their text.
func (v View) Compare(o View) int { return strings.Compare(v.String(), o.String()) }

// Hash hashes the text of v; equal Views hash equally under the same seed.
func (v View) Hash(seed maphash.Seed) uint64 { return maphash.String(seed, v.String()) }

// WriteTo writes the text of v to w.
func (v View) WriteTo(w io.Writer) (int64, error) {
	n, err := io.WriteString(w, v.String())
	return int64(n), err
}

// GoString formats v as a quoted Go string for %#v.
func (v View) GoString() string { return strconv.Quote(v.String()) }

// MarshalText implements encoding.TextMarshaler.
func (v View) MarshalText() ([]byte, error) { return []byte(v.String()), nil }

// UnmarshalText implements encoding.TextUnmarshaler. The input is copied.
func (v *View) UnmarshalText(b []byte) error {
	*v = NewBuffer(string(b)).View()
	return nil
}

// MarshalJSON encodes v as a JSON string.
func (v View) MarshalJSON() ([]byte, error) { return json.Marshal(v.String()) }

// UnmarshalJSON implements json.Unmarshaler. encoding/json may reuse its
// input, so the decoded text is always a fresh allocation; the zcjson
// package decodes without copying.
func (v *View) UnmarshalJSON(b []byte) error {
	if string(b) == "null" {
		return nil
	}
	var s string
	if err := json.Unmarshal(b, &s); err != nil {
		return err
	}
	*v = NewBuffer(s).View()
	return nil
}

// MarshalYAML implements yaml.Marshaler.
func (v View) MarshalYAML() (any, error) { return v.String(), nil }

// UnmarshalYAML implements yaml.Unmarshaler. The YAML decoder never hands
// out input slices, so the text is always owned.
func (v *View) UnmarshalYAML(node *yaml.Node) error {
	var s string
	if err := node.Decode(&s); err != nil {
		return err
	}
	*v = NewBuffer(s).View()
	return nil
}
