package algoritmika

import (
	"fmt"
	"time"
)

// Timestamp layouts used by the upstream API. Timestamps arrive with
// fractional seconds and a zone suffix that the API itself is inconsistent
// about, so values are truncated before parsing.
const (
	dateTimeLayout = "2006-01-02T15:04:05"
	dateLayout     = "2006-01-02"

	dateTimeLen = len(dateTimeLayout)
	dateLen     = len(dateLayout)
)

// object is a decoded JSON mapping. All record constructors read their
// fields through its accessors so required-vs-optional handling stays in
// one place: a required field that is absent, null, or mistyped yields a
// *SchemaError instead of a half-built record.
type object map[string]any

func (o object) str(key string) (string, error) {
	v, ok := o[key]
	if !ok {
		return "", &SchemaError{Field: key, Reason: "missing"}
	}
	s, ok := v.(string)
	if !ok {
		return "", &SchemaError{Field: key, Reason: fmt.Sprintf("expected string, got %T", v)}
	}
	return s, nil
}

// optStr reads a nullable string field; null and absent both map to "".
func (o object) optStr(key string) (string, error) {
	v, ok := o[key]
	if !ok || v == nil {
		return "", nil
	}
	s, ok := v.(string)
	if !ok {
		return "", &SchemaError{Field: key, Reason: fmt.Sprintf("expected string or null, got %T", v)}
	}
	return s, nil
}

func (o object) num(key string) (int, error) {
	v, ok := o[key]
	if !ok {
		return 0, &SchemaError{Field: key, Reason: "missing"}
	}
	f, ok := v.(float64)
	if !ok {
		return 0, &SchemaError{Field: key, Reason: fmt.Sprintf("expected number, got %T", v)}
	}
	return int(f), nil
}

// flag reads a boolean field. The upstream serializes some flags as
// proper booleans and others as 0/1 integers, so both are accepted.
func (o object) flag(key string) (bool, error) {
	v, ok := o[key]
	if !ok {
		return false, &SchemaError{Field: key, Reason: "missing"}
	}
	switch t := v.(type) {
	case bool:
		return t, nil
	case float64:
		return t != 0, nil
	}
	return false, &SchemaError{Field: key, Reason: fmt.Sprintf("expected boolean, got %T", v)}
}

func (o object) object(key string) (object, error) {
	v, ok := o[key]
	if !ok {
		return nil, &SchemaError{Field: key, Reason: "missing"}
	}
	m, ok := v.(map[string]any)
	if !ok {
		return nil, &SchemaError{Field: key, Reason: fmt.Sprintf("expected object, got %T", v)}
	}
	return object(m), nil
}

func (o object) list(key string) ([]any, error) {
	v, ok := o[key]
	if !ok {
		return nil, &SchemaError{Field: key, Reason: "missing"}
	}
	l, ok := v.([]any)
	if !ok {
		return nil, &SchemaError{Field: key, Reason: fmt.Sprintf("expected list, got %T", v)}
	}
	return l, nil
}

// objects expands a list field into decoded mappings, building each child
// record via fn and preserving order. An empty raw list yields an empty
// slice, not nil.
func objects[T any](o object, key string, fn func(object) (T, error)) ([]T, error) {
	raw, err := o.list(key)
	if err != nil {
		return nil, err
	}
	out := make([]T, 0, len(raw))
	for i, v := range raw {
		m, ok := v.(map[string]any)
		if !ok {
			return nil, &SchemaError{
				Field:  key,
				Reason: fmt.Sprintf("element %d: expected object, got %T", i, v),
			}
		}
		child, err := fn(object(m))
		if err != nil {
			return nil, fmt.Errorf("%s[%d]: %w", key, i, err)
		}
		out = append(out, child)
	}
	return out, nil
}

func (o object) dateTime(key string) (time.Time, error) {
	s, err := o.str(key)
	if err != nil {
		return time.Time{}, err
	}
	t, err := parseDateTime(s)
	if err != nil {
		return time.Time{}, &SchemaError{Field: key, Reason: err.Error()}
	}
	return t, nil
}

// optDateTime reads a nullable timestamp; null and absent map to nil.
func (o object) optDateTime(key string) (*time.Time, error) {
	v, ok := o[key]
	if !ok || v == nil {
		return nil, nil
	}
	s, ok := v.(string)
	if !ok {
		return nil, &SchemaError{Field: key, Reason: fmt.Sprintf("expected string or null, got %T", v)}
	}
	t, err := parseDateTime(s)
	if err != nil {
		return nil, &SchemaError{Field: key, Reason: err.Error()}
	}
	return &t, nil
}

func (o object) date(key string) (time.Time, error) {
	s, err := o.str(key)
	if err != nil {
		return time.Time{}, err
	}
	if len(s) > dateLen {
		s = s[:dateLen]
	}
	t, err := time.Parse(dateLayout, s)
	if err != nil {
		return time.Time{}, &SchemaError{Field: key, Reason: err.Error()}
	}
	return t, nil
}

// parseDateTime parses an upstream timestamp, ignoring any fractional
// seconds or zone suffix past the first 19 characters.
func parseDateTime(s string) (time.Time, error) {
	if len(s) > dateTimeLen {
		s = s[:dateTimeLen]
	}
	return time.Parse(dateTimeLayout, s)
}
