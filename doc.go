// Package zcstring provides string views for zero-copy parsing.
//
// A View is a (Buffer, offset, length) window onto immutable text. Decoders
// working over a View's text produce ordinary Go strings; ResliceOrCopy
// turns each one back into a View, sharing the original Buffer when the
// string's bytes lie inside it and allocating only when they do not (for
// example after escape sequences were decoded).
//
// The decision is made on addresses, never on content:
//
//	doc := zcstring.Literal("  zero-copy  ")
//	trimmed := doc.Map(strings.TrimSpace) // shares doc's buffer
//	owned := doc.ResliceOrCopy(strings.ToUpper(doc.String())) // allocates
//
// A Source holds the View that decoders should resolve strings against. It
// is changed only through scoped guards, so nested decodes restore the outer
// source on every exit path:
//
//	src := zcstring.NewSource()
//	err := src.Run(doc, func(doc zcstring.View) error {
//		v := src.FromString(strings.TrimSpace(doc.String()))
//		...
//	})
//
// The zcjson package builds on this to decode JSON documents into structs
// whose View fields point back into the input.
package zcstring
