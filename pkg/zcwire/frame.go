package zcwire

import (
	"errors"
)

// Frame layout, all integers little-endian:
//
//	[0:2]   magic "ZC"
//	[2]     version
//	[3:7]   total frame length, CRC included
//	[7]     flags
//	[8:n-4] payload: varint field count, then varint length + bytes per field
//	[n-4:n] CRC32 (IEEE) over bytes [2:n-4]
const (
	Magic   = "ZC"
	Version = 1

	headerSize = 8
	crcSize    = 4

	// MaxFrameSize bounds the frames ReadFrame accepts and Encode produces.
	MaxFrameSize = 1 << 28
)

// Flags
const (
	FlagZstd byte = 1 << 0 // payload is a zstd frame
)

var (
	ErrShortFrame     = errors.New("zcwire: frame too short")
	ErrBadMagic       = errors.New("zcwire: bad magic")
	ErrVersion        = errors.New("zcwire: unsupported version")
	ErrLengthMismatch = errors.New("zcwire: length mismatch")
	ErrChecksum       = errors.New("zcwire: crc mismatch")
	ErrTruncated      = errors.New("zcwire: truncated payload")
	ErrFrameTooLarge  = errors.New("zcwire: frame too large")
)
