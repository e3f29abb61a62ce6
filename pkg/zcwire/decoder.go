package zcwire

import (
	"context"
	"fmt"
	"hash/crc32"
	"io"
	"sync"
	"unicode/utf8"

	"github.com/klauspost/compress/zstd"
	"github.com/rawbytedev/zcstring"
	"github.com/rawbytedev/zcstring/internal/common"
)

var zstdDecoder = sync.OnceValues(func() (*zstd.Decoder, error) {
	return zstd.NewReader(nil, zstd.WithDecoderMaxMemory(MaxFrameSize))
})

// Decode returns the fields of frame. Fields of an uncompressed frame share
// the frame's buffer; fields of a compressed frame share one buffer holding
// the decompressed payload.
func Decode(frame zcstring.View) ([]zcstring.View, error) {
	return DecodeContext(context.Background(), frame)
}

// DecodeContext is Decode resolving fields through the Source carried by
// ctx, if any.
func DecodeContext(ctx context.Context, frame zcstring.View) ([]zcstring.View, error) {
	data := frame.String()
	flags, err := checkFrame(data)
	if err != nil {
		return nil, err
	}

	s := zcstring.FromContext(ctx)
	if s == nil {
		s = zcstring.NewSource()
	}
	g := s.Guard(frame)
	defer g.Close()

	payload := data[headerSize : len(data)-crcSize]
	if flags&FlagZstd != 0 {
		dec, err := zstdDecoder()
		if err != nil {
			return nil, err
		}
		raw, err := dec.DecodeAll(common.StringBytes(payload), nil)
		if err != nil {
			return nil, fmt.Errorf("zcwire: decompress: %w", err)
		}
		inner := zcstring.TakeBytes(raw)
		ig := s.Guard(inner)
		defer ig.Close()
		payload = inner.String()
	}
	return fields(s, payload)
}

func checkFrame(data string) (byte, error) {
	if len(data) < headerSize+crcSize {
		return 0, ErrShortFrame
	}
	if data[:2] != Magic {
		return 0, ErrBadMagic
	}
	if data[2] != Version {
		return 0, fmt.Errorf("%w: %d", ErrVersion, data[2])
	}
	if total := common.LE32(data[3:]); int64(total) != int64(len(data)) {
		return 0, fmt.Errorf("%w: header says %d, frame has %d", ErrLengthMismatch, total, len(data))
	}
	end := len(data) - crcSize
	if crc32.ChecksumIEEE(common.StringBytes(data[2:end])) != common.LE32(data[end:]) {
		return 0, ErrChecksum
	}
	return data[7], nil
}

func fields(s *zcstring.Source, payload string) ([]zcstring.View, error) {
	count, n := common.ReadVarUint(payload)
	if n <= 0 {
		return nil, fmt.Errorf("%w: field count", ErrTruncated)
	}
	rest := payload[n:]
	// every field takes at least one length byte
	if count > uint64(len(rest)) {
		return nil, fmt.Errorf("%w: %d fields in %d bytes", ErrTruncated, count, len(rest))
	}

	out := make([]zcstring.View, 0, count)
	for i := range int(count) {
		size, n := common.ReadVarUint(rest)
		if n <= 0 || size > uint64(len(rest)-n) {
			return nil, fmt.Errorf("%w: field %d", ErrTruncated, i)
		}
		f := rest[n : n+int(size)]
		if off, ok := validText(f); !ok {
			return nil, fmt.Errorf("zcwire: field %d: %w", i, &zcstring.EncodingError{Offset: off})
		}
		out = append(out, s.FromString(f))
		rest = rest[n+int(size):]
	}
	if len(rest) != 0 {
		return nil, fmt.Errorf("%w: %d trailing bytes", ErrLengthMismatch, len(rest))
	}
	return out, nil
}

func validText(s string) (int, bool) {
	if utf8.ValidString(s) {
		return 0, true
	}
	for i := 0; i < len(s); {
		r, size := utf8.DecodeRuneInString(s[i:])
		if r == utf8.RuneError && size <= 1 {
			return i, false
		}
		i += size
	}
	return 0, true
}

// ReadFrame reads one whole frame from r into a new View. It returns io.EOF
// when r is exhausted before the first byte of a frame.
func ReadFrame(r io.Reader) (zcstring.View, error) {
	var hdr [headerSize]byte
	if _, err := io.ReadFull(r, hdr[:]); err != nil {
		return zcstring.View{}, err
	}
	if string(hdr[:2]) != Magic {
		return zcstring.View{}, ErrBadMagic
	}
	total := common.LE32(string(hdr[3:7]))
	if total < headerSize+crcSize {
		return zcstring.View{}, ErrShortFrame
	}
	if total > MaxFrameSize {
		return zcstring.View{}, fmt.Errorf("%w: %d bytes", ErrFrameTooLarge, total)
	}
	buf := make([]byte, total)
	copy(buf, hdr[:])
	if _, err := io.ReadFull(r, buf[headerSize:]); err != nil {
		if err == io.EOF {
			err = io.ErrUnexpectedEOF
		}
		return zcstring.View{}, err
	}
	return zcstring.TakeBytes(buf), nil
}
