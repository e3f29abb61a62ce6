package zcstring

import (
	"io"
	"os"
)

// Unbounded leaves one end of a ReadRange open: as a start it means the
// current stream position, as an end it means end of stream.
const Unbounded int64 = -1

// ReadRange reads the bytes [start, end) of r into a new Buffer. The bytes
// must be valid UTF-8.
func ReadRange(r io.ReadSeeker, start, end int64) (View, error) {
	var err error
	if start == Unbounded {
		if start, err = r.Seek(0, io.SeekCurrent); err != nil {
			return View{}, err
		}
	}
	if end == Unbounded {
		if end, err = r.Seek(0, io.SeekEnd); err != nil {
			return View{}, err
		}
	}
	if start > end {
		return View{}, &RangeError{Start: start, End: end}
	}
	if start == end {
		return Empty(), nil
	}
	if _, err := r.Seek(start, io.SeekStart); err != nil {
		return View{}, err
	}
	return Read(r, int(end-start))
}

// Read reads exactly n bytes from r into a new Buffer. The bytes must be
// valid UTF-8.
func Read(r io.Reader, n int) (View, error) {
	if n < 0 {
		return View{}, &RangeError{Start: 0, End: int64(n)}
	}
	if n == 0 {
		return Empty(), nil
	}
	b := make([]byte, n)
	if _, err := io.ReadFull(r, b); err != nil {
		return View{}, err
	}
	return adopt(b)
}

// ReadAll reads r until EOF into a new Buffer.
func ReadAll(r io.Reader) (View, error) {
	b, err := io.ReadAll(r)
	if err != nil {
		return View{}, err
	}
	return adopt(b)
}

// ReadFile reads the named file into a new Buffer.
func ReadFile(path string) (View, error) {
	f, err := os.Open(path)
	if err != nil {
		return View{}, err
	}
	defer f.Close()
	return ReadRange(f, 0, Unbounded)
}

// adopt validates a freshly read slice and hands it to a Buffer. b is owned
// by the reader functions above and never escapes elsewhere.
func adopt(b []byte) (View, error) {
	if err := validUTF8(b); err != nil {
		return View{}, err
	}
	return TakeBytes(b), nil
}
