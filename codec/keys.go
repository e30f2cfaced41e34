package codec

import (
	"reflect"
	"strings"
	"sync"

	"github.com/buger/jsonparser"
)

// encoding/json binds object keys to struct fields without regard to case,
// so {"Gender":"male"} would fill gender. checkKeys walks the raw document
// next to the wire struct and holds every key to its exact spelling: a key
// that matches a defined key only when case is ignored is always rejected,
// and in strict mode so is any other key the wire struct does not define.

var wireKeys sync.Map // reflect.Type -> map[string]reflect.Type

// keysOf returns the json key to field type map of the wire struct t.
func keysOf(t reflect.Type) map[string]reflect.Type {
	if m, ok := wireKeys.Load(t); ok {
		return m.(map[string]reflect.Type)
	}
	m := make(map[string]reflect.Type, t.NumField())
	for i := range t.NumField() {
		f := t.Field(i)
		name, _, _ := strings.Cut(f.Tag.Get("json"), ",")
		if name == "" || name == "-" {
			continue
		}
		m[name] = f.Type
	}
	actual, _ := wireKeys.LoadOrStore(t, m)
	return actual.(map[string]reflect.Type)
}

// foldsTo reports whether key differs from a defined key only in case.
func foldsTo(fields map[string]reflect.Type, key string) bool {
	for name := range fields {
		if strings.EqualFold(name, key) {
			return true
		}
	}
	return false
}

// checkKeys checks the object in data against the wire struct t. data must
// already be known to be valid JSON.
func checkKeys(data []byte, t reflect.Type, path string, strict bool) error {
	for t.Kind() == reflect.Pointer {
		t = t.Elem()
	}
	if t.Kind() != reflect.Struct {
		return nil
	}
	fields := keysOf(t)

	return jsonparser.ObjectEach(data, func(key, value []byte, typ jsonparser.ValueType, _ int) error {
		name := string(key)
		ft, ok := fields[name]
		if !ok {
			if strict || foldsTo(fields, name) {
				return newDecodeError(KindUnknownField, at(path, name), errUndefinedKey)
			}
			return nil
		}
		return checkValue(value, typ, ft, at(path, name), strict)
	})
}

func checkValue(value []byte, typ jsonparser.ValueType, t reflect.Type, path string, strict bool) error {
	for t.Kind() == reflect.Pointer {
		t = t.Elem()
	}

	switch {
	case typ == jsonparser.Object && t.Kind() == reflect.Struct:
		return checkKeys(value, t, path, strict)
	case typ == jsonparser.Array && t.Kind() == reflect.Slice:
		var (
			err error
			i   int
		)
		// The array was already decoded once, so ArrayEach cannot fail here.
		_, _ = jsonparser.ArrayEach(value, func(v []byte, vt jsonparser.ValueType, _ int, _ error) {
			if err == nil {
				err = checkValue(v, vt, t.Elem(), index(path, i), strict)
			}
			i++
		})
		return err
	}
	return nil
}
