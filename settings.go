package onion

import (
	"encoding/json"
	"fmt"
	"reflect"
	"strings"
)

// FieldSetting describes one field of a schema struct: where it sits, which
// config key feeds it, and which constraints apply.
type FieldSetting struct {
	Path      string // dot-separated field path, e.g. "DB.Host"
	FieldName string
	Key       string // config tag value, falling back to the field name
	Type      string
	Check     string // check expression, if any
	Required  bool
	Secret    bool
}

// Settings returns metadata about every field of a schema struct,
// recursively. Useful for generating documentation or auditing which keys a
// schema consumes. Returns nil for non-struct schemas.
func Settings(schema any) []FieldSetting {
	rv := reflect.ValueOf(schema)
	if rv.Kind() == reflect.Pointer {
		rv = rv.Elem()
	}
	if rv.Kind() != reflect.Struct {
		return nil
	}

	var settings []FieldSetting
	collectSettings(rv, "", &settings)
	return settings
}

func collectSettings(val reflect.Value, prefix string, settings *[]FieldSetting) {
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

		if fv.Kind() == reflect.Struct && !isLeafType(fv.Type()) {
			collectSettings(fv, path, settings)
			continue
		}
		if fv.Kind() == reflect.Pointer && fv.Type().Elem().Kind() == reflect.Struct && !isLeafType(fv.Type().Elem()) {
			if fv.IsNil() {
				fv = reflect.New(fv.Type().Elem()).Elem()
			} else {
				fv = fv.Elem()
			}
			collectSettings(fv, path, settings)
			continue
		}

		key := sf.Tag.Get("config")
		if key == "" {
			key = sf.Name
		}

		*settings = append(*settings, FieldSetting{
			Path:      path,
			FieldName: sf.Name,
			Key:       key,
			Type:      fv.Type().String(),
			Check:     sf.Tag.Get("check"),
			Required:  sf.Tag.Get("required") == "true",
			Secret:    sf.Tag.Get("secret") == "true",
		})
	}
}

// FilterSettings returns the settings matching the predicate.
func FilterSettings(settings []FieldSetting, predicate func(FieldSetting) bool) []FieldSetting {
	var filtered []FieldSetting
	for _, s := range settings {
		if predicate(s) {
			filtered = append(filtered, s)
		}
	}
	return filtered
}

// RequiredFields returns the settings of all required fields.
func RequiredFields(schema any) []FieldSetting {
	return FilterSettings(Settings(schema), func(s FieldSetting) bool { return s.Required })
}

// SecretFields returns the settings of all secret fields.
func SecretFields(schema any) []FieldSetting {
	return FilterSettings(Settings(schema), func(s FieldSetting) bool { return s.Secret })
}

// PrettyString renders a loaded configuration as indented JSON with fields
// tagged secret:"true" masked, for safe logging at startup.
func PrettyString(cfg any) string {
	rv := reflect.ValueOf(cfg)
	if rv.Kind() == reflect.Pointer {
		rv = rv.Elem()
	}
	if rv.Kind() != reflect.Struct {
		return fmt.Sprintf("%T is not a struct", cfg)
	}

	b, err := json.MarshalIndent(buildSafeMap(rv), "", "  ")
	if err != nil {
		return fmt.Sprintf("error rendering config: %v", err)
	}
	return string(b)
}

// mask keeps the first 3 characters of a secret visible and replaces the
// rest with asterisks; values of 3 characters or fewer are fully masked.
func mask(secret string) string {
	const keep = 3
	n := len(secret)
	if n <= keep {
		return strings.Repeat("*", n)
	}
	return secret[:keep] + strings.Repeat("*", n-keep)
}

func buildSafeMap(val reflect.Value) map[string]any {
	typ := val.Type()
	out := make(map[string]any, typ.NumField())

	for i := 0; i < typ.NumField(); i++ {
		sf := typ.Field(i)
		fv := val.Field(i)
		if !fv.CanInterface() {
			continue
		}

		key := sf.Tag.Get("config")
		if key == "" {
			key = sf.Name
		}

		switch {
		case sf.Tag.Get("secret") == "true":
			if s, ok := fv.Interface().(string); ok {
				out[key] = mask(s)
			} else {
				out[key] = "***"
			}
		case fv.Kind() == reflect.Struct && !isLeafType(fv.Type()):
			out[key] = buildSafeMap(fv)
		case fv.Kind() == reflect.Pointer && fv.Type().Elem().Kind() == reflect.Struct && !isLeafType(fv.Type().Elem()):
			if fv.IsNil() {
				out[key] = nil
			} else {
				out[key] = buildSafeMap(fv.Elem())
			}
		default:
			out[key] = fv.Interface()
		}
	}
	return out
}
