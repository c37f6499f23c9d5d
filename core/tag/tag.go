package tag

import (
	"encoding"
	"reflect"
	"strconv"
	"strings"
	"time"
)

const (
	tagName   = "default"
	maxDepth  = 16
	separator = ","
)

// ApplyDefaults fills zero-valued fields of the struct pointed to by target
// from their `default:"..."` tags. Nested structs are walked; nil pointers to
// structs are left nil so optional sections stay optional.
//
//	type Config struct {
//	    Addr    string        `default:":8080"`
//	    Timeout time.Duration `default:"5s"`
//	}
func ApplyDefaults(target any) error {
	v := reflect.ValueOf(target)
	if v.Kind() != reflect.Pointer || v.IsNil() || v.Elem().Kind() != reflect.Struct {
		return ErrTargetMustBePointer
	}
	return applyStruct(v.Elem(), "", 0)
}

func applyStruct(v reflect.Value, path string, depth int) error {
	if depth >= maxDepth {
		return ErrMaxDepthExceeded
	}

	t := v.Type()
	for i := 0; i < t.NumField(); i++ {
		field := t.Field(i)
		fv := v.Field(i)
		if !fv.CanSet() {
			continue
		}

		fieldPath := field.Name
		if path != "" {
			fieldPath = path + "." + field.Name
		}

		switch {
		case fv.Kind() == reflect.Struct && !isTextUnmarshaler(fv):
			if err := applyStruct(fv, fieldPath, depth+1); err != nil {
				return err
			}
		case fv.Kind() == reflect.Pointer && fv.Type().Elem().Kind() == reflect.Struct:
			if !fv.IsNil() {
				if err := applyStruct(fv.Elem(), fieldPath, depth+1); err != nil {
					return err
				}
			}
		default:
			value, ok := field.Tag.Lookup(tagName)
			if !ok || !fv.IsZero() {
				continue
			}
			if err := parse(fv, value); err != nil {
				return &FieldError{Path: fieldPath, Kind: fv.Kind(), Value: value, Err: err}
			}
		}
	}
	return nil
}

func isTextUnmarshaler(v reflect.Value) bool {
	if !v.CanAddr() {
		return false
	}
	_, ok := v.Addr().Interface().(encoding.TextUnmarshaler)
	return ok
}

func parse(v reflect.Value, s string) error {
	if v.CanAddr() {
		if u, ok := v.Addr().Interface().(encoding.TextUnmarshaler); ok {
			return u.UnmarshalText([]byte(s))
		}
	}

	s = strings.TrimSpace(s)
	switch v.Kind() {
	case reflect.String:
		v.SetString(s)
	case reflect.Bool:
		b, err := strconv.ParseBool(s)
		if err != nil {
			return err
		}
		v.SetBool(b)
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		if v.Type() == reflect.TypeFor[time.Duration]() {
			d, err := time.ParseDuration(s)
			if err != nil {
				return err
			}
			v.SetInt(int64(d))
			return nil
		}
		n, err := strconv.ParseInt(s, 10, v.Type().Bits())
		if err != nil {
			return err
		}
		v.SetInt(n)
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		n, err := strconv.ParseUint(s, 10, v.Type().Bits())
		if err != nil {
			return err
		}
		v.SetUint(n)
	case reflect.Float32, reflect.Float64:
		f, err := strconv.ParseFloat(s, v.Type().Bits())
		if err != nil {
			return err
		}
		v.SetFloat(f)
	case reflect.Slice:
		if s == "" {
			return nil
		}
		parts := strings.Split(s, separator)
		slice := reflect.MakeSlice(v.Type(), len(parts), len(parts))
		for i, part := range parts {
			if err := parse(slice.Index(i), part); err != nil {
				return err
			}
		}
		v.Set(slice)
	default:
		return ErrUnsupportedType
	}
	return nil
}
