package zcstring

import "unsafe"

// within reports whether the byte range [p, p+n) lies inside
// [base, base+size) and returns its offset from base. It compares
// addresses only and never reads memory.
//
// A true result is only meaningful when the candidate was derived from the
// storage at base (a trim, split or sub-slice of it). Two unrelated
// allocations cannot overlap while both are live, but a string that merely
// happens to sit next to the source in memory is indistinguishable from one
// sliced out of it; callers own that contract.
func within(base uintptr, size int, p uintptr, n int) (int, bool) {
	if p < base {
		return 0, false
	}
	off := p - base
	if off > uintptr(size) {
		return 0, false
	}
	// end bound: a candidate that starts inside but runs past the end is
	// not a sub-range
	if uintptr(n) > uintptr(size)-off {
		return 0, false
	}
	return int(off), true
}

// stringAddr returns the address of the first byte of s.
func stringAddr(s string) uintptr {
	return uintptr(unsafe.Pointer(unsafe.StringData(s)))
}
