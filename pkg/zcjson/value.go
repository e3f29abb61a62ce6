package zcjson

import (
	"encoding"
	"encoding/base64"
	"encoding/json"
	"reflect"
	"slices"
	"strconv"
	"strings"

	"github.com/rawbytedev/zcstring"
	"github.com/tidwall/gjson"
)

var (
	viewType            = reflect.TypeFor[zcstring.View]()
	jsonUnmarshalerType = reflect.TypeFor[json.Unmarshaler]()
	textUnmarshalerType = reflect.TypeFor[encoding.TextUnmarshaler]()
)

type decodeState struct {
	d   *Decoder
	src *zcstring.Source
	doc zcstring.View

	borrowed uint64
	owned    uint64
}

// token tags a gjson string with where its text lives. gjson slices
// escape-free strings straight out of the parsed input and unescapes the
// rest into new memory.
func token(r gjson.Result) zcstring.Token {
	if strings.IndexByte(r.Raw, '\\') >= 0 {
		return zcstring.Owned(r.Str)
	}
	return zcstring.Borrowed(r.Str)
}

func (st *decodeState) view(r gjson.Result) zcstring.View {
	v := st.src.Resolve(token(r))
	if st.d.Opts.CopyStrings && v.SameBuffer(st.doc) {
		v = v.Detach()
	}
	st.count(v.SameBuffer(st.doc))
	return v
}

func (st *decodeState) str(r gjson.Result) string {
	t := token(r)
	if st.d.Opts.CopyStrings && !t.Owned {
		t = zcstring.Owned(strings.Clone(t.Text))
	}
	st.count(!t.Owned)
	return t.Text
}

func (st *decodeState) count(borrowed bool) {
	if borrowed {
		st.borrowed++
	} else {
		st.owned++
	}
}

func kindName(r gjson.Result) string {
	switch r.Type {
	case gjson.Null:
		return "null"
	case gjson.False, gjson.True:
		return "bool"
	case gjson.Number:
		return "number"
	case gjson.String:
		return "string"
	}
	if r.IsArray() {
		return "array"
	}
	return "object"
}

func mismatch(r gjson.Result, t reflect.Type, field string) error {
	return &TypeError{Value: kindName(r), Type: t, Field: field}
}

func (st *decodeState) value(r gjson.Result, v reflect.Value, field string) error {
	if r.Type == gjson.Null {
		switch v.Kind() {
		case reflect.Pointer, reflect.Map, reflect.Slice, reflect.Interface:
			v.SetZero()
		}
		return nil
	}

	for v.Kind() == reflect.Pointer {
		if v.IsNil() {
			v.Set(reflect.New(v.Type().Elem()))
		}
		v = v.Elem()
	}

	t := v.Type()
	if t == viewType {
		if r.Type != gjson.String {
			return mismatch(r, t, field)
		}
		v.Set(reflect.ValueOf(st.view(r)))
		return nil
	}
	if v.CanAddr() {
		pt := reflect.PointerTo(t)
		if pt.Implements(jsonUnmarshalerType) {
			return v.Addr().Interface().(json.Unmarshaler).UnmarshalJSON([]byte(r.Raw))
		}
		if r.Type == gjson.String && pt.Implements(textUnmarshalerType) {
			return v.Addr().Interface().(encoding.TextUnmarshaler).UnmarshalText([]byte(r.Str))
		}
	}

	switch t.Kind() {
	case reflect.Interface:
		if t.NumMethod() != 0 {
			return mismatch(r, t, field)
		}
		v.Set(reflect.ValueOf(st.iface(r)))
	case reflect.String:
		if r.Type != gjson.String {
			return mismatch(r, t, field)
		}
		v.SetString(st.str(r))
	case reflect.Bool:
		if r.Type != gjson.True && r.Type != gjson.False {
			return mismatch(r, t, field)
		}
		v.SetBool(r.Type == gjson.True)
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		if r.Type != gjson.Number {
			return mismatch(r, t, field)
		}
		n, err := strconv.ParseInt(r.Raw, 10, 64)
		if err != nil || v.OverflowInt(n) {
			return &TypeError{Value: "number " + r.Raw, Type: t, Field: field}
		}
		v.SetInt(n)
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64, reflect.Uintptr:
		if r.Type != gjson.Number {
			return mismatch(r, t, field)
		}
		n, err := strconv.ParseUint(r.Raw, 10, 64)
		if err != nil || v.OverflowUint(n) {
			return &TypeError{Value: "number " + r.Raw, Type: t, Field: field}
		}
		v.SetUint(n)
	case reflect.Float32, reflect.Float64:
		if r.Type != gjson.Number {
			return mismatch(r, t, field)
		}
		f, err := strconv.ParseFloat(r.Raw, t.Bits())
		if err != nil {
			return &TypeError{Value: "number " + r.Raw, Type: t, Field: field}
		}
		v.SetFloat(f)
	case reflect.Struct:
		if !r.IsObject() {
			return mismatch(r, t, field)
		}
		return st.object(r, v, field)
	case reflect.Map:
		if !r.IsObject() {
			return mismatch(r, t, field)
		}
		return st.mapping(r, v, field)
	case reflect.Slice:
		if t.Elem().Kind() == reflect.Uint8 && r.Type == gjson.String {
			b, err := base64.StdEncoding.DecodeString(r.Str)
			if err != nil {
				return &TypeError{Value: "string", Type: t, Field: field}
			}
			v.SetBytes(b)
			return nil
		}
		if !r.IsArray() {
			return mismatch(r, t, field)
		}
		elems := r.Array()
		out := reflect.MakeSlice(t, len(elems), len(elems))
		for i, e := range elems {
			if err := st.value(e, out.Index(i), field+"["+strconv.Itoa(i)+"]"); err != nil {
				return err
			}
		}
		v.Set(out)
	case reflect.Array:
		if !r.IsArray() {
			return mismatch(r, t, field)
		}
		elems := r.Array()
		for i := 0; i < v.Len(); i++ {
			if i >= len(elems) {
				v.Index(i).SetZero()
				continue
			}
			if err := st.value(elems[i], v.Index(i), field+"["+strconv.Itoa(i)+"]"); err != nil {
				return err
			}
		}
	default:
		return mismatch(r, t, field)
	}
	return nil
}

// iface decodes r the way encoding/json fills an empty interface, except that
// strings become zcstring.Views.
func (st *decodeState) iface(r gjson.Result) any {
	switch r.Type {
	case gjson.Null:
		return nil
	case gjson.False:
		return false
	case gjson.True:
		return true
	case gjson.Number:
		return r.Num
	case gjson.String:
		return st.view(r)
	}
	if r.IsArray() {
		out := []any{}
		r.ForEach(func(_, e gjson.Result) bool {
			out = append(out, st.iface(e))
			return true
		})
		return out
	}
	out := map[string]any{}
	r.ForEach(func(k, e gjson.Result) bool {
		out[k.Str] = st.iface(e)
		return true
	})
	return out
}

func (st *decodeState) object(r gjson.Result, v reflect.Value, field string) error {
	plan := st.d.getPlan(v.Type())
	var err error
	r.ForEach(func(k, e gjson.Result) bool {
		f := plan.lookup(k.Str)
		if f == nil {
			return true
		}
		err = st.value(e, fieldByIndex(v, f.index), joinField(field, f.name))
		return err == nil
	})
	return err
}

func (st *decodeState) mapping(r gjson.Result, v reflect.Value, field string) error {
	t := v.Type()
	kt := t.Key()
	switch kt.Kind() {
	case reflect.String,
		reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64,
		reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
	default:
		return mismatch(r, t, field)
	}
	if v.IsNil() {
		v.Set(reflect.MakeMap(t))
	}

	var err error
	r.ForEach(func(k, e gjson.Result) bool {
		key := reflect.New(kt).Elem()
		switch kt.Kind() {
		case reflect.String:
			key.SetString(st.str(k))
		case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
			n, perr := strconv.ParseInt(k.Str, 10, 64)
			if perr != nil || key.OverflowInt(n) {
				err = &TypeError{Value: "key " + strconv.Quote(k.Str), Type: kt, Field: field}
				return false
			}
			key.SetInt(n)
		default:
			n, perr := strconv.ParseUint(k.Str, 10, 64)
			if perr != nil || key.OverflowUint(n) {
				err = &TypeError{Value: "key " + strconv.Quote(k.Str), Type: kt, Field: field}
				return false
			}
			key.SetUint(n)
		}
		elem := reflect.New(t.Elem()).Elem()
		if err = st.value(e, elem, joinField(field, k.Str)); err != nil {
			return false
		}
		v.SetMapIndex(key, elem)
		return true
	})
	return err
}

func joinField(parent, name string) string {
	if parent == "" {
		return name
	}
	return parent + "." + name
}

func fieldByIndex(v reflect.Value, index []int) reflect.Value {
	for i, x := range index {
		if i > 0 && v.Kind() == reflect.Pointer {
			if v.IsNil() {
				v.Set(reflect.New(v.Type().Elem()))
			}
			v = v.Elem()
		}
		v = v.Field(x)
	}
	return v
}

type fieldInfo struct {
	name  string
	index []int
}

// structPlan lists the decodable fields of a struct type, promoted fields of
// embedded structs included. Outer fields shadow inner ones.
type structPlan struct {
	fields []fieldInfo
	exact  map[string]int
}

func (p *structPlan) lookup(key string) *fieldInfo {
	if i, ok := p.exact[key]; ok {
		return &p.fields[i]
	}
	for i := range p.fields {
		if strings.EqualFold(p.fields[i].name, key) {
			return &p.fields[i]
		}
	}
	return nil
}

func buildPlan(t reflect.Type) *structPlan {
	p := &structPlan{exact: make(map[string]int)}
	var walk func(t reflect.Type, index []int)
	walk = func(t reflect.Type, index []int) {
		var embedded []reflect.StructField
		for i := 0; i < t.NumField(); i++ {
			sf := t.Field(i)
			tag := sf.Tag.Get("json")
			if tag == "-" {
				continue
			}
			name, _, _ := strings.Cut(tag, ",")
			if sf.Anonymous && name == "" {
				ft := sf.Type
				if ft.Kind() == reflect.Pointer {
					if !sf.IsExported() {
						continue
					}
					ft = ft.Elem()
				}
				if ft.Kind() == reflect.Struct {
					embedded = append(embedded, sf)
					continue
				}
			}
			if !sf.IsExported() {
				continue
			}
			if name == "" {
				name = sf.Name
			}
			if _, dup := p.exact[name]; dup {
				continue
			}
			p.exact[name] = len(p.fields)
			p.fields = append(p.fields, fieldInfo{name: name, index: append(slices.Clone(index), i)})
		}
		for _, sf := range embedded {
			ft := sf.Type
			if ft.Kind() == reflect.Pointer {
				ft = ft.Elem()
			}
			walk(ft, append(slices.Clone(index), sf.Index[0]))
		}
	}
	walk(t, nil)
	return p
}
