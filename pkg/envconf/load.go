// Package envconf fills configuration structs from environment variables.
//
//	type Config struct {
//		DSN     string        `env:"PG_DSN"`
//		Port    int           `env:"APP_PORT" default:"8080"`
//		Origins []string      `env:"CORS_ALLOWED_ORIGINS" default:"*"`
//		Timeout time.Duration `env:"APP_TIMEOUT" default:"15s"`
//		Nested  OtherConfig
//	}
//
// A field with no default is required. An empty default makes the variable
// optional and leaves the zero value. Untagged struct fields are walked.
package envconf

import (
	"encoding"
	"errors"
	"fmt"
	"os"
	"reflect"
	"strconv"
	"strings"
	"time"
)

var (
	ErrMissingRequired = errors.New("missing required environment variable")
	ErrUnsupportedType = errors.New("unsupported field type")
)

// LookupFunc reports the value of a variable and whether it is set.
type LookupFunc func(key string) (string, bool)

// Load reads the process environment into dst, a pointer to a struct.
// Every missing or malformed variable is reported, not only the first.
func Load(dst any) error {
	return LoadFrom(dst, os.LookupEnv)
}

// LoadFrom is Load with a custom variable source.
func LoadFrom(dst any, lookup LookupFunc) error {
	v := reflect.ValueOf(dst)
	if !v.IsValid() || v.Kind() != reflect.Pointer || v.IsNil() || v.Elem().Kind() != reflect.Struct {
		return fmt.Errorf("envconf: destination must be a non-nil pointer to a struct, got %T", dst)
	}

	l := loader{lookup: lookup}
	l.walk(v.Elem())

	return errors.Join(l.errs...)
}

type loader struct {
	lookup LookupFunc
	errs   []error
}

var (
	durationType  = reflect.TypeOf(time.Duration(0))
	unmarshalType = reflect.TypeOf((*encoding.TextUnmarshaler)(nil)).Elem()
)

func (l *loader) walk(v reflect.Value) {
	t := v.Type()

	for i := range t.NumField() {
		sf := t.Field(i)
		if !sf.IsExported() {
			continue
		}

		fv := v.Field(i)

		key, tagged := sf.Tag.Lookup("env")
		if key == "-" {
			continue
		}

		if !tagged || key == "" {
			l.walkNested(fv)
			continue
		}

		raw, ok := l.lookup(key)
		if !ok {
			def, hasDefault := sf.Tag.Lookup("default")

			switch {
			case !hasDefault:
				l.errs = append(l.errs, fmt.Errorf("%w: %s", ErrMissingRequired, key))
				continue
			case def == "":
				continue
			}

			raw = def
		}

		err := decode(fv, raw)
		if err != nil {
			l.errs = append(l.errs, fmt.Errorf("%s: %w", key, err))
		}
	}
}

// walkNested descends into untagged struct and pointer-to-struct fields.
func (l *loader) walkNested(fv reflect.Value) {
	switch {
	case fv.Kind() == reflect.Struct:
		l.walk(fv)
	case fv.Kind() == reflect.Pointer && fv.Type().Elem().Kind() == reflect.Struct:
		if fv.IsNil() {
			fv.Set(reflect.New(fv.Type().Elem()))
		}

		l.walk(fv.Elem())
	}
}

func decode(fv reflect.Value, raw string) error {
	if reflect.PointerTo(fv.Type()).Implements(unmarshalType) {
		u, _ := fv.Addr().Interface().(encoding.TextUnmarshaler)
		return u.UnmarshalText([]byte(raw))
	}

	switch fv.Kind() {
	case reflect.Pointer:
		elem := reflect.New(fv.Type().Elem())

		err := decode(elem.Elem(), raw)
		if err != nil {
			return err
		}

		fv.Set(elem)

		return nil
	case reflect.Slice:
		return decodeList(fv, raw)
	default:
		return decodeScalar(fv, raw)
	}
}

// decodeList splits on commas and trims blanks.
func decodeList(fv reflect.Value, raw string) error {
	parts := strings.Split(raw, ",")
	out := reflect.MakeSlice(fv.Type(), 0, len(parts))

	for _, p := range parts {
		p = strings.TrimSpace(p)
		if p == "" {
			continue
		}

		elem := reflect.New(fv.Type().Elem()).Elem()

		err := decode(elem, p)
		if err != nil {
			return fmt.Errorf("item %q: %w", p, err)
		}

		out = reflect.Append(out, elem)
	}

	fv.Set(out)

	return nil
}

func decodeScalar(fv reflect.Value, raw string) error {
	var err error

	switch fv.Kind() {
	case reflect.String:
		fv.SetString(raw)
	case reflect.Bool:
		var b bool

		b, err = strconv.ParseBool(raw)
		fv.SetBool(b)
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		var n int64

		if fv.Type() == durationType {
			var d time.Duration

			d, err = time.ParseDuration(raw)
			n = int64(d)
		} else {
			n, err = strconv.ParseInt(raw, 10, fv.Type().Bits())
		}

		fv.SetInt(n)
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		var n uint64

		n, err = strconv.ParseUint(raw, 10, fv.Type().Bits())
		fv.SetUint(n)
	case reflect.Float32, reflect.Float64:
		var f float64

		f, err = strconv.ParseFloat(raw, fv.Type().Bits())
		fv.SetFloat(f)
	default:
		return fmt.Errorf("%w: %s", ErrUnsupportedType, fv.Type())
	}

	if err != nil {
		return fmt.Errorf("parse %s %q: %w", fv.Type(), raw, err)
	}

	return nil
}
