package zcstring

import (
	"bytes"
	"encoding/json"
	"fmt"
	"hash/maphash"
	"runtime"
	"strings"
	"testing"
	"weak"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"
)

func TestSlice(t *testing.T) {
	v := Literal("cats and dogs")

	s1, err := v.Slice(0, 4)
	require.NoError(t, err)
	require.Equal(t, "cats", s1.String())
	require.True(t, s1.SameBuffer(v))
	require.True(t, v.SourceOf(s1.String()))

	s2 := v.MustSlice(9, 13)
	require.Equal(t, "dogs", s2.String())
	require.Equal(t, 9, s2.Offset())

	// slicing a slice stays relative to the slice
	og := s2.MustSlice(1, 3)
	require.Equal(t, "og", og.String())
	require.Equal(t, 10, og.Offset())
}

func TestSliceErrors(t *testing.T) {
	v := Literal("héllo")

	_, err := v.Slice(2, 1)
	require.ErrorIs(t, err, ErrOutOfBounds)
	_, err = v.Slice(0, 7)
	require.ErrorIs(t, err, ErrOutOfBounds)
	_, err = v.Slice(-1, 2)
	require.ErrorIs(t, err, ErrOutOfBounds)

	// "é" occupies bytes 1 and 2
	_, err = v.Slice(2, 4)
	require.ErrorIs(t, err, ErrSplitRune)
	_, err = v.Slice(0, 2)
	require.ErrorIs(t, err, ErrSplitRune)

	e, err := v.Slice(1, 3)
	require.NoError(t, err)
	require.Equal(t, "é", e.String())

	require.Panics(t, func() { v.MustSlice(0, 2) })
}

func TestContentEquality(t *testing.T) {
	a := Literal("red")
	b := Copy("red")
	require.False(t, a.SameBuffer(b))
	require.True(t, a.Equal(b))
	require.True(t, a.EqualString("red"))
	require.Equal(t, 0, a.Compare(b))
	require.Equal(t, -1, a.Compare(Literal("rose")))
	require.Equal(t, 1, Literal("z").Compare(a))

	seed := maphash.MakeSeed()
	require.Equal(t, a.Hash(seed), b.Hash(seed))
	require.Equal(t, a.Hash(seed), Literal("a red car").MustSlice(2, 5).Hash(seed))
}

func TestFormatting(t *testing.T) {
	v := Literal(`say "hi"`)
	require.Equal(t, `say "hi"`, fmt.Sprint(v))
	require.Equal(t, `say "hi"`, fmt.Sprintf("%s", v))
	require.Equal(t, `"say \"hi\""`, fmt.Sprintf("%#v", v))

	var buf bytes.Buffer
	n, err := v.WriteTo(&buf)
	require.NoError(t, err)
	require.EqualValues(t, v.Len(), n)
	require.Equal(t, v.String(), buf.String())
}

func TestEmpty(t *testing.T) {
	var zero View
	require.True(t, zero.IsEmpty())
	require.Equal(t, "", zero.String())
	require.True(t, zero.SameBuffer(Empty()))
	require.True(t, Empty().Equal(Literal("")))
	require.Equal(t, 0, Copy("").Len())
}

func TestMap(t *testing.T) {
	v := Literal("  zero-copy  ")

	trimmed := v.Map(strings.TrimSpace)
	require.Equal(t, "zero-copy", trimmed.String())
	require.True(t, trimmed.SameBuffer(v))
	require.Equal(t, 2, trimmed.Offset())

	upper := v.Map(strings.ToUpper)
	require.Equal(t, "  ZERO-COPY  ", upper.String())
	require.False(t, upper.SameBuffer(v))
}

func TestDetach(t *testing.T) {
	v := Literal("a large document")
	frag := v.MustSlice(2, 7)
	d := frag.Detach()

	require.True(t, d.Equal(frag))
	require.False(t, d.SameBuffer(v))
	require.False(t, v.SourceOf(d.String()))
	require.Equal(t, 0, d.Offset())
	require.Equal(t, d.Len(), d.Buffer().Len())
}

func TestDetachReleasesSource(t *testing.T) {
	big := Copy(strings.Repeat("x", 1<<20) + "needle")
	frag := big.MustSlice(1<<20, 1<<20+6).Detach()
	released := weak.Make(big.Buffer())
	big = View{}

	for i := 0; i < 10 && released.Value() != nil; i++ {
		runtime.GC()
	}
	require.Nil(t, released.Value())
	require.Equal(t, "needle", frag.String())
}

func TestFromBytes(t *testing.T) {
	b := []byte("mutable")
	v, err := FromBytes(b)
	require.NoError(t, err)
	b[0] = 'M'
	require.Equal(t, "mutable", v.String())

	_, err = FromBytes([]byte{'o', 'k', 0xff, 'x'})
	require.ErrorIs(t, err, ErrInvalidUTF8)
	var encErr *EncodingError
	require.ErrorAs(t, err, &encErr)
	require.Equal(t, 2, encErr.Offset)
}

func TestTakeBytes(t *testing.T) {
	b := []byte("adopted")
	v := TakeBytes(b)
	require.Equal(t, "adopted", v.String())
	require.True(t, Empty().SameBuffer(TakeBytes(nil)))
}

func TestJSONHooks(t *testing.T) {
	type entry struct {
		Level   View `json:"level"`
		Message View `json:"message"`
	}
	in := entry{Level: Literal("error"), Message: Literal(`Escaped " `)}
	data, err := json.Marshal(in)
	require.NoError(t, err)
	require.JSONEq(t, `{"level":"error","message":"Escaped \" "}`, string(data))

	var out entry
	require.NoError(t, json.Unmarshal(data, &out))
	require.True(t, in.Level.Equal(out.Level))
	require.True(t, in.Message.Equal(out.Message))

	// encoding/json may reuse its buffer, so nothing points back into data
	require.False(t, TakeBytes(data).SourceOf(out.Level.String()))

	keep := Literal("kept")
	require.NoError(t, json.Unmarshal([]byte("null"), &keep))
	require.Equal(t, "kept", keep.String())
}

func TestYAMLHooks(t *testing.T) {
	type state struct {
		Capital   View `yaml:"capital"`
		StateBird View `yaml:"state_bird"`
	}
	in := state{Capital: Literal("Sacramento"), StateBird: Literal("California quail")}
	data, err := yaml.Marshal(in)
	require.NoError(t, err)
	assert.Contains(t, string(data), "capital: Sacramento")

	var out state
	require.NoError(t, yaml.Unmarshal(data, &out))
	require.True(t, in.Capital.Equal(out.Capital))
	require.True(t, in.StateBird.Equal(out.StateBird))
}

func TestTextHooks(t *testing.T) {
	v := Literal("text")
	b, err := v.MarshalText()
	require.NoError(t, err)

	var out View
	require.NoError(t, out.UnmarshalText(b))
	b[0] = 'n'
	require.Equal(t, "text", out.String())
}
