package zcstring

import (
	"iter"
	"strings"
)

// Wrap adapts a string iterator over the text of v into an iterator of
// Views. f receives v.String() once; each fragment it yields is passed
// through ResliceOrCopy, so fragments cut from the text share v's buffer.
// The returned sequence keeps the buffer alive while it is referenced.
//
//	for w := range v.Wrap(func(s string) iter.Seq[string] { return strings.SplitSeq(s, ",") }) {
//		...
//	}
func (v View) Wrap(f func(string) iter.Seq[string]) iter.Seq[View] {
	inner := f(v.String())
	return func(yield func(View) bool) {
		for s := range inner {
			if !yield(v.ResliceOrCopy(s)) {
				return
			}
		}
	}
}

// Lines yields the lines of v without their "\n" or "\r\n" terminators.
func (v View) Lines() iter.Seq[View] {
	return v.Wrap(lines)
}

// Split yields the sub-views of v separated by sep, like strings.Split.
func (v View) Split(sep string) iter.Seq[View] {
	return v.Wrap(func(s string) iter.Seq[string] { return strings.SplitSeq(s, sep) })
}

// Fields yields the whitespace separated fields of v, like strings.Fields.
func (v View) Fields() iter.Seq[View] {
	return v.Wrap(strings.FieldsSeq)
}

func lines(s string) iter.Seq[string] {
	return func(yield func(string) bool) {
		for line := range strings.Lines(s) {
			line = strings.TrimSuffix(line, "\n")
			line = strings.TrimSuffix(line, "\r")
			if !yield(line) {
				return
			}
		}
	}
}
