package zcjson

import (
	jsoniter "github.com/json-iterator/go"
	"github.com/rawbytedev/zcstring"
	"github.com/tidwall/gjson"
)

var jsonAPI = jsoniter.ConfigCompatibleWithStandardLibrary

// Get returns the value at a gjson path in src. Strings come back unquoted,
// other values as their raw JSON text. Results that appear verbatim in src
// share its buffer.
func Get(src zcstring.View, path string) (zcstring.View, bool) {
	r := gjson.Get(src.String(), path)
	if !r.Exists() {
		return zcstring.View{}, false
	}
	s := zcstring.NewSource()
	g := s.Guard(src)
	defer g.Close()
	return resolve(s, r), true
}

func resolve(s *zcstring.Source, r gjson.Result) zcstring.View {
	if r.Type == gjson.String {
		return s.Resolve(token(r))
	}
	return s.FromString(r.Raw)
}

// ForEachString calls fn for every string value at or below path, in
// document order, until fn returns false. An empty path walks the whole
// document.
func ForEachString(src zcstring.View, path string, fn func(zcstring.View) bool) {
	var r gjson.Result
	if path == "" {
		r = gjson.Parse(src.String())
	} else {
		r = gjson.Get(src.String(), path)
	}
	s := zcstring.NewSource()
	g := s.Guard(src)
	defer g.Close()
	walkStrings(s, r, fn)
}

func walkStrings(s *zcstring.Source, r gjson.Result, fn func(zcstring.View) bool) bool {
	switch {
	case r.Type == gjson.String:
		return fn(s.Resolve(token(r)))
	case r.IsObject(), r.IsArray():
		more := true
		r.ForEach(func(_, e gjson.Result) bool {
			more = walkStrings(s, e, fn)
			return more
		})
		return more
	}
	return true
}

// Marshal encodes v as JSON. Views encode as JSON strings.
func Marshal(v any) ([]byte, error) {
	return jsonAPI.Marshal(v)
}

// MarshalView encodes v as JSON into a new View, ready to be decoded again
// or sliced.
func MarshalView(v any) (zcstring.View, error) {
	b, err := jsonAPI.Marshal(v)
	if err != nil {
		return zcstring.View{}, err
	}
	return zcstring.TakeBytes(b), nil
}
