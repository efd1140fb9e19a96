package onion

import (
	"encoding"
	"errors"
	"fmt"
	"reflect"
	"strconv"
	"strings"
	"time"

	"github.com/expr-lang/expr"
	"github.com/go-viper/mapstructure/v2"
	"github.com/shopspring/decimal"
	"k8s.io/apimachinery/pkg/api/resource"
)

// FieldViolation describes a single schema constraint failure.
type FieldViolation struct {
	Path   string // dot-separated struct field path, e.g. "DB.Port"
	Key    string // config key bound to the field, if any
	Reason string
}

func (v FieldViolation) String() string {
	if v.Key != "" && v.Key != v.Path {
		return fmt.Sprintf("%s (key %q): %s", v.Path, v.Key, v.Reason)
	}
	return fmt.Sprintf("%s: %s", v.Path, v.Reason)
}

// SchemaError occurs when the merged configuration violates the schema's
// constraints. It enumerates every violation, not just the first.
type SchemaError struct {
	Violations []FieldViolation
}

// Error implements the error interface.
func (e SchemaError) Error() string {
	parts := make([]string, len(e.Violations))
	for i, v := range e.Violations {
		parts[i] = v.String()
	}
	return fmt.Sprintf("invalid configuration: %s", strings.Join(parts, "; "))
}

// decodeSchema constructs a value of the schema type from the merged Map.
// Decoding is weakly typed, so YAML scalars coerce into the field types the
// way a dynamic validator would, and the composed hooks cover the richer
// config value types (durations, timestamps, decimals, quantities, and any
// encoding.TextUnmarshaler such as uuid.UUID).
func decodeSchema[T any](m Map) (T, error) {
	var out T
	dec, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		TagName:          "config",
		Result:           &out,
		WeaklyTypedInput: true,
		// Specific hooks run before the generic TextUnmarshaler hook so
		// that e.g. Unix-second timestamps are not rejected by
		// time.Time.UnmarshalText.
		DecodeHook: composeDecodeHooks(
			timeDurationHookFunc(),
			timeTimeHookFunc(),
			decimalHookFunc(),
			quantityHookFunc(),
			textUnmarshalerHookFunc(),
		),
	})
	if err != nil {
		return out, err
	}
	if err := dec.Decode(m); err != nil {
		return out, fmt.Errorf("decode config: %w", err)
	}
	return out, nil
}

// validateSchema runs the constraint pass over a decoded schema value. Two
// tags participate:
//
//	required:"true"  the field must hold a non-zero value
//	check:"<expr>"   the expression must evaluate to true; it is compiled
//	                 with the enclosing struct as its environment, so checks
//	                 can reference sibling fields
//
// Non-struct schemas (e.g. a bare Map) have no constraints and always pass.
// All violations are collected before returning.
func validateSchema(v any) error {
	rv := reflect.ValueOf(v)
	if rv.Kind() == reflect.Pointer {
		if rv.IsNil() {
			return nil
		}
		rv = rv.Elem()
	}
	if rv.Kind() != reflect.Struct {
		return nil
	}

	var violations []FieldViolation
	collectViolations(rv, "", &violations)
	if len(violations) > 0 {
		return SchemaError{Violations: violations}
	}
	return nil
}

func collectViolations(val reflect.Value, prefix string, out *[]FieldViolation) {
	typ := val.Type()

	for i := 0; i < typ.NumField(); i++ {
		sf := typ.Field(i)
		fv := val.Field(i)
		if !fv.CanInterface() {
			continue
		}

		path := sf.Name
		if prefix != "" {
			path = prefix + "." + sf.Name
		}
		key := sf.Tag.Get("config")

		if sf.Tag.Get("required") == "true" && fv.IsZero() {
			*out = append(*out, FieldViolation{Path: path, Key: key, Reason: "required value is missing"})
		}

		if code := sf.Tag.Get("check"); code != "" {
			if reason := runCheck(code, val); reason != "" {
				*out = append(*out, FieldViolation{Path: path, Key: key, Reason: reason})
			}
		}

		// Recurse into plain nested structs; leaf types that parse from a
		// single value (time.Time, uuid.UUID, ...) are not descended into.
		switch {
		case fv.Kind() == reflect.Struct && !isLeafType(fv.Type()):
			collectViolations(fv, path, out)
		case fv.Kind() == reflect.Pointer && !fv.IsNil() &&
			fv.Type().Elem().Kind() == reflect.Struct && !isLeafType(fv.Type().Elem()):
			collectViolations(fv.Elem(), path, out)
		}
	}
}

// runCheck compiles and evaluates one check expression against the struct
// enclosing the tagged field. It returns a non-empty reason on failure.
func runCheck(code string, enclosing reflect.Value) string {
	env := enclosing.Interface()
	program, err := expr.Compile(code, expr.Env(env), expr.AsBool())
	if err != nil {
		return fmt.Sprintf("invalid check expression %q: %s", code, err)
	}
	result, err := expr.Run(program, env)
	if err != nil {
		return fmt.Sprintf("check %q failed to evaluate: %s", code, err)
	}
	ok, _ := result.(bool)
	if !ok {
		return fmt.Sprintf("check %q failed", code)
	}
	return ""
}

var textUnmarshalerType = reflect.TypeOf((*encoding.TextUnmarshaler)(nil)).Elem()

// isLeafType reports whether a struct type is decoded from a single config
// value rather than a nested mapping.
func isLeafType(t reflect.Type) bool {
	if reflect.PointerTo(t).Implements(textUnmarshalerType) {
		return true
	}
	switch t {
	case reflect.TypeOf(decimal.Decimal{}), reflect.TypeOf(resource.Quantity{}):
		return true
	}
	return false
}

var errInvalidDecodeCondition = errors.New("invalid decode condition")

func composeDecodeHooks(hs ...mapstructure.DecodeHookFunc) mapstructure.DecodeHookFuncValue {
	return func(f, t reflect.Value) (any, error) {
		for _, h := range hs {
			v, err := mapstructure.DecodeHookExec(h, f, t)
			if err == nil {
				return v, nil
			}
			if errors.Is(err, errInvalidDecodeCondition) {
				continue
			}
			return nil, err
		}
		return f.Interface(), nil
	}
}

func textUnmarshalerHookFunc() mapstructure.DecodeHookFuncType {
	return func(f reflect.Type, t reflect.Type, data any) (any, error) {
		if f.Kind() != reflect.String {
			return nil, errInvalidDecodeCondition
		}
		result := reflect.New(t).Interface()
		u, ok := result.(encoding.TextUnmarshaler)
		if !ok {
			return nil, errInvalidDecodeCondition
		}
		if err := u.UnmarshalText([]byte(data.(string))); err != nil {
			return nil, err
		}
		return result, nil
	}
}

func timeDurationHookFunc() mapstructure.DecodeHookFuncType {
	return func(f reflect.Type, t reflect.Type, data any) (any, error) {
		if t != reflect.TypeOf(time.Duration(0)) {
			return nil, errInvalidDecodeCondition
		}
		switch f.Kind() {
		case reflect.String:
			return time.ParseDuration(data.(string))
		case reflect.Int:
			return time.Duration(int64(data.(int))), nil
		case reflect.Int64:
			return time.Duration(data.(int64)), nil
		default:
			return nil, errInvalidDecodeCondition
		}
	}
}

func timeTimeHookFunc() mapstructure.DecodeHookFuncType {
	return func(f reflect.Type, t reflect.Type, data any) (any, error) {
		if t != reflect.TypeOf(time.Time{}) {
			return nil, errInvalidDecodeCondition
		}
		switch x := data.(type) {
		case string:
			if parsed, err := time.Parse(time.RFC3339, x); err == nil {
				return parsed, nil
			}
			if unix, err := strconv.ParseInt(x, 10, 64); err == nil {
				return time.Unix(unix, 0), nil
			}
			return nil, fmt.Errorf("invalid time %q: must be RFC3339 or Unix seconds", x)
		case int:
			return time.Unix(int64(x), 0), nil
		case int64:
			return time.Unix(x, 0), nil
		case time.Time:
			return x, nil
		default:
			return nil, errInvalidDecodeCondition
		}
	}
}

func decimalHookFunc() mapstructure.DecodeHookFuncType {
	return func(f reflect.Type, t reflect.Type, data any) (any, error) {
		if t != reflect.TypeOf(decimal.Decimal{}) {
			return nil, errInvalidDecodeCondition
		}
		switch x := data.(type) {
		case string:
			d, err := decimal.NewFromString(x)
			if err != nil {
				return nil, fmt.Errorf("invalid decimal %q: %w", x, err)
			}
			return d, nil
		case int:
			return decimal.NewFromInt(int64(x)), nil
		case int64:
			return decimal.NewFromInt(x), nil
		case float64:
			return decimal.NewFromFloat(x), nil
		default:
			return nil, errInvalidDecodeCondition
		}
	}
}

func quantityHookFunc() mapstructure.DecodeHookFuncType {
	return func(f reflect.Type, t reflect.Type, data any) (any, error) {
		if t != reflect.TypeOf(resource.Quantity{}) {
			return nil, errInvalidDecodeCondition
		}
		var raw string
		switch x := data.(type) {
		case string:
			raw = x
		case int:
			raw = strconv.Itoa(x)
		case int64:
			raw = strconv.FormatInt(x, 10)
		default:
			return nil, errInvalidDecodeCondition
		}
		q, err := resource.ParseQuantity(raw)
		if err != nil {
			return nil, fmt.Errorf("invalid quantity %q: %w", raw, err)
		}
		return q, nil
	}
}
