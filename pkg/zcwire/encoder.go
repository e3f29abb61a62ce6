package zcwire

import (
	"encoding/binary"
	"fmt"
	"hash/crc32"
	"unicode/utf8"

	"github.com/klauspost/compress/zstd"
	"github.com/rawbytedev/zcstring"
	"github.com/rawbytedev/zcstring/internal/common"
)

// Options configures an Encoder.
type Options struct {
	Compress bool
	Level    zstd.EncoderLevel // zero means zstd.SpeedDefault
}

// Encoder builds frames. It reuses its scratch buffers between calls and
// is not safe for concurrent use.
type Encoder struct {
	Opts    Options
	payload []byte
	packed  []byte
	zenc    *zstd.Encoder
}

// NewEncoder returns an Encoder configured by opts.
func NewEncoder(opts Options) (*Encoder, error) {
	e := &Encoder{Opts: opts}
	if opts.Compress {
		level := opts.Level
		if level == 0 {
			level = zstd.SpeedDefault
		}
		enc, err := zstd.NewWriter(nil, zstd.WithEncoderLevel(level))
		if err != nil {
			return nil, err
		}
		e.zenc = enc
	}
	return e, nil
}

// Encode packs fields into a new frame. Every field must be valid UTF-8.
// The returned slice belongs to the caller.
func (e *Encoder) Encode(fields []string) ([]byte, error) {
	e.payload = common.WriteVarUintTo(e.payload[:0], uint64(len(fields)))
	for i, f := range fields {
		if !utf8.ValidString(f) {
			return nil, fmt.Errorf("zcwire: field %d: %w", i, zcstring.ErrInvalidUTF8)
		}
		e.payload = common.WriteVarUintTo(e.payload, uint64(len(f)))
		e.payload = append(e.payload, f...)
	}

	body := e.payload
	var flags byte
	if e.zenc != nil {
		e.packed = e.zenc.EncodeAll(e.payload, e.packed[:0])
		body = e.packed
		flags |= FlagZstd
	}

	total := headerSize + len(body) + crcSize
	if total > MaxFrameSize {
		return nil, fmt.Errorf("%w: %d bytes", ErrFrameTooLarge, total)
	}
	out := make([]byte, headerSize, total)
	copy(out, Magic)
	out[2] = Version
	binary.LittleEndian.PutUint32(out[3:], uint32(total))
	out[7] = flags
	out = append(out, body...)
	return binary.LittleEndian.AppendUint32(out, crc32.ChecksumIEEE(out[2:])), nil
}

// EncodeViews is Encode for Views.
func (e *Encoder) EncodeViews(fields []zcstring.View) ([]byte, error) {
	strs := make([]string, len(fields))
	for i, f := range fields {
		strs[i] = f.String()
	}
	return e.Encode(strs)
}

// Close releases the compressor.
func (e *Encoder) Close() error {
	if e.zenc != nil {
		return e.zenc.Close()
	}
	return nil
}
