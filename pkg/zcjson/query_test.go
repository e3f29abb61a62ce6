package zcjson

import (
	"testing"

	"github.com/rawbytedev/zcstring"
	"github.com/stretchr/testify/require"
)

func TestGet(t *testing.T) {
	src := zcstring.Literal(`{"user":{"name":"ada","note":"tab\there","langs":["go","c"],"age":36}}`)

	name, ok := Get(src, "user.name")
	require.True(t, ok)
	require.Equal(t, "ada", name.String())
	require.True(t, name.SameBuffer(src))

	note, ok := Get(src, "user.note")
	require.True(t, ok)
	require.Equal(t, "tab\there", note.String())
	require.False(t, note.SameBuffer(src))

	langs, ok := Get(src, "user.langs")
	require.True(t, ok)
	require.Equal(t, `["go","c"]`, langs.String())
	require.True(t, langs.SameBuffer(src))

	age, ok := Get(src, "user.age")
	require.True(t, ok)
	require.Equal(t, "36", age.String())

	// computed results are not part of the document
	count, ok := Get(src, "user.langs.#")
	require.True(t, ok)
	require.Equal(t, "2", count.String())
	require.False(t, count.SameBuffer(src))

	_, ok = Get(src, "user.email")
	require.False(t, ok)
}

func TestForEachString(t *testing.T) {
	src := zcstring.Literal(`{"a":"x","b":[1,"y",{"c":"z\n"}],"d":true}`)
	var got []string
	var shared []bool
	ForEachString(src, "", func(v zcstring.View) bool {
		got = append(got, v.String())
		shared = append(shared, v.SameBuffer(src))
		return true
	})
	require.Equal(t, []string{"x", "y", "z\n"}, got)
	require.Equal(t, []bool{true, true, false}, shared)

	got = got[:0]
	ForEachString(src, "b", func(v zcstring.View) bool {
		got = append(got, v.String())
		return false
	})
	require.Equal(t, []string{"y"}, got)
}

func TestMarshalRoundTrip(t *testing.T) {
	in := logEntry{Level: zcstring.Literal("warn"), Message: zcstring.Literal(`quote " and \ slash`), Code: 7}
	b, err := Marshal(in)
	require.NoError(t, err)
	require.JSONEq(t, `{"level":"warn","message":"quote \" and \\ slash","code":7}`, string(b))

	src, err := MarshalView(in)
	require.NoError(t, err)
	var out logEntry
	require.NoError(t, Unmarshal(src, &out))
	require.True(t, in.Level.Equal(out.Level))
	require.True(t, in.Message.Equal(out.Message))
	require.Equal(t, in.Code, out.Code)
	require.True(t, out.Level.SameBuffer(src))
}
