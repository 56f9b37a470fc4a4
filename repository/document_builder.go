package repository

import (
	"reflect"
	"strings"
	"time"

	"cloud.google.com/go/firestore"
	"github.com/fatih/structtag"
	"github.com/iancoleman/strcase"
	"golang.org/x/xerrors"
)

var timeType = reflect.TypeOf(time.Time{})

func isReservedType(value reflect.Value) bool {
	switch value.Interface().(type) {
	case time.Time, *time.Time,
		firestore.DocumentRef, *firestore.DocumentRef:
		return true
	}
	return false
}

// fieldPath returns the document key of a struct field.
// Fields tagged firestore:"-" are skipped; untagged fields use the lower camel case name.
func fieldPath(ft reflect.StructField) (string, bool) {
	tags, err := structtag.Parse(string(ft.Tag))
	if err != nil {
		return strcase.ToLowerCamel(ft.Name), true
	}

	tag, err := tags.Get("firestore")
	if err != nil {
		return strcase.ToLowerCamel(ft.Name), true
	}

	switch tag.Name {
	case "-":
		return "", false
	case "":
		return strcase.ToLowerCamel(ft.Name), true
	}

	return tag.Name, true
}

// buildDocument flattens a tagged struct into a field map.
// Nil pointers and maps are left out so that a merge write keeps the stored value.
func buildDocument(v interface{}) Document {
	rv := reflect.Indirect(reflect.ValueOf(v))
	rt := rv.Type()
	doc := make(Document, rt.NumField())

	for i := 0; i < rt.NumField(); i++ {
		ft := rt.Field(i)
		if ft.PkgPath != "" {
			continue
		}
		fv := rv.Field(i)

		if ft.Anonymous && fv.Kind() == reflect.Struct {
			for key, val := range buildDocument(fv.Interface()) {
				if _, ok := doc[key]; ok {
					panic("fields with the same name cannot be used")
				}
				doc[key] = val
			}
			continue
		}

		path, ok := fieldPath(ft)
		if !ok {
			continue
		}

		val, ok := encodeValue(fv)
		if !ok {
			continue
		}

		if _, ok := doc[path]; ok {
			panic("fields with the same name cannot be used")
		}
		doc[path] = val
	}

	return doc
}

func encodeValue(v reflect.Value) (interface{}, bool) {
	switch v.Kind() {
	case reflect.Ptr, reflect.Interface:
		if v.IsNil() {
			return nil, false
		}
		if isReservedType(v) {
			return v.Interface(), true
		}
		return encodeValue(v.Elem())
	case reflect.Struct:
		if isReservedType(v) {
			return v.Interface(), true
		}
		return buildDocument(v.Interface()), true
	case reflect.Map:
		if v.IsNil() {
			return nil, false
		}
		m := make(map[string]interface{}, v.Len())
		iter := v.MapRange()
		for iter.Next() {
			if val, ok := encodeValue(iter.Value()); ok {
				m[iter.Key().String()] = val
			}
		}
		return m, true
	case reflect.Slice, reflect.Array:
		if v.Kind() == reflect.Slice && v.IsNil() {
			return nil, false
		}
		s := make([]interface{}, 0, v.Len())
		for i := 0; i < v.Len(); i++ {
			if val, ok := encodeValue(v.Index(i)); ok {
				s = append(s, val)
			}
		}
		return s, true
	case reflect.String:
		return v.String(), true
	case reflect.Bool:
		return v.Bool(), true
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return v.Int(), true
	case reflect.Float32, reflect.Float64:
		return v.Float(), true
	}

	return v.Interface(), true
}

// decodeDocument is the inverse of buildDocument for the types round documents use
func decodeDocument(doc Document, out interface{}) error {
	rv := reflect.ValueOf(out)
	if rv.Kind() != reflect.Ptr || rv.IsNil() {
		return xerrors.New("out must be a non-nil pointer")
	}

	return decodeValue(doc, rv.Elem(), "")
}

func decodeValue(src interface{}, dst reflect.Value, path string) error {
	if src == nil {
		return nil
	}

	mismatch := func() error {
		return xerrors.Errorf("cannot set %T to %s at %q", src, dst.Type(), path)
	}

	switch dst.Kind() {
	case reflect.Ptr:
		if dst.IsNil() {
			dst.Set(reflect.New(dst.Type().Elem()))
		}
		return decodeValue(src, dst.Elem(), path)
	case reflect.Struct:
		if dst.Type() == timeType {
			t, ok := src.(time.Time)
			if !ok {
				return mismatch()
			}
			dst.Set(reflect.ValueOf(t))
			return nil
		}

		m, ok := src.(map[string]interface{})
		if !ok {
			return mismatch()
		}
		dt := dst.Type()
		for i := 0; i < dt.NumField(); i++ {
			ft := dt.Field(i)
			if ft.PkgPath != "" {
				continue
			}
			key, ok := fieldPath(ft)
			if !ok {
				continue
			}
			if err := decodeValue(m[key], dst.Field(i), strings.TrimPrefix(path+"."+key, ".")); err != nil {
				return err
			}
		}
		return nil
	case reflect.Map:
		m, ok := src.(map[string]interface{})
		if !ok || dst.Type().Key().Kind() != reflect.String {
			return mismatch()
		}
		out := reflect.MakeMapWithSize(dst.Type(), len(m))
		for k, v := range m {
			elem := reflect.New(dst.Type().Elem()).Elem()
			if err := decodeValue(v, elem, path+"."+k); err != nil {
				return err
			}
			out.SetMapIndex(reflect.ValueOf(k).Convert(dst.Type().Key()), elem)
		}
		dst.Set(out)
		return nil
	case reflect.String:
		s, ok := src.(string)
		if !ok {
			return mismatch()
		}
		dst.SetString(s)
		return nil
	case reflect.Bool:
		b, ok := src.(bool)
		if !ok {
			return mismatch()
		}
		dst.SetBool(b)
		return nil
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		switch n := src.(type) {
		case int64:
			dst.SetInt(n)
		case int:
			dst.SetInt(int64(n))
		case float64:
			// Web 版からの数値は double で届くことがある
			dst.SetInt(int64(n))
		default:
			return mismatch()
		}
		return nil
	case reflect.Float32, reflect.Float64:
		switch n := src.(type) {
		case float64:
			dst.SetFloat(n)
		case int64:
			dst.SetFloat(float64(n))
		default:
			return mismatch()
		}
		return nil
	}

	return mismatch()
}
