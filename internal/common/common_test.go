package common

import (
	"encoding/binary"
	"math"
	"testing"
	"testing/quick"

	"github.com/stretchr/testify/require"
)

func TestVarUintRoundTrip(t *testing.T) {
	for _, x := range []uint64{0, 1, 127, 128, 300, 1 << 32, math.MaxUint64} {
		b := WriteVarUintTo(nil, x)
		got, n := ReadVarUint(string(b))
		require.Equal(t, x, got)
		require.Equal(t, len(b), n)
	}
}

func TestVarUintMatchesUvarint(t *testing.T) {
	f := func(x uint64, tail []byte) bool {
		b := WriteVarUintTo(nil, x)
		want, wn := binary.Uvarint(append(b, tail...))
		got, n := ReadVarUint(string(append(b, tail...)))
		return got == want && n == wn
	}
	require.NoError(t, quick.Check(f, nil))
}

func TestReadVarUintErrors(t *testing.T) {
	_, n := ReadVarUint("\x80\x80")
	require.Equal(t, 0, n)

	_, n = ReadVarUint("")
	require.Equal(t, 0, n)

	overflow := "\xff\xff\xff\xff\xff\xff\xff\xff\xff\x02"
	_, n = ReadVarUint(overflow)
	require.Negative(t, n)
	_, wn := binary.Uvarint([]byte(overflow))
	require.Equal(t, wn, n)
}

func TestLE32(t *testing.T) {
	b := binary.LittleEndian.AppendUint32(nil, 0xdeadbeef)
	require.Equal(t, uint32(0xdeadbeef), LE32(string(b)))
	require.Panics(t, func() { LE32("abc") })
}

func TestStringBytes(t *testing.T) {
	s := "shared"
	b := StringBytes(s)
	require.Equal(t, []byte("shared"), b)
	require.Same(t, &b[0], &StringBytes(s[0:])[0])
	require.Empty(t, StringBytes(""))
}
