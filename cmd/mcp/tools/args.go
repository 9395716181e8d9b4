package tools

import (
	"fmt"
	"math"
	"sort"
	"strings"

	"github.com/elC0mpa/cost-explorer-mcp/model"
)

// arguments wraps the raw tool-call arguments and converts them into typed
// values, reporting wrong types as validation errors instead of dropping them.
type arguments map[string]any

func (a arguments) rejectUnknown(allowed ...string) error {
	known := make(map[string]bool, len(allowed))
	for _, k := range allowed {
		known[k] = true
	}
	var unknown []string
	for k := range a {
		if !known[k] {
			unknown = append(unknown, k)
		}
	}
	if len(unknown) == 0 {
		return nil
	}
	sort.Strings(unknown)
	return model.NewValidationError(unknown[0], "unknown argument; accepted: %s", strings.Join(allowed, ", "))
}

func (a arguments) getString(key string) (string, error) {
	raw, ok := a[key]
	if !ok || raw == nil {
		return "", nil
	}
	s, ok := raw.(string)
	if !ok {
		return "", model.NewValidationError(key, "must be a string, got %T", raw)
	}
	return s, nil
}

// getStringList returns nil when the key is absent and a non-nil slice when present.
func (a arguments) getStringList(key string) ([]string, error) {
	raw, ok := a[key]
	if !ok || raw == nil {
		return nil, nil
	}
	return toStringList(key, raw)
}

func (a arguments) getInt(key string) (*int, error) {
	raw, ok := a[key]
	if !ok || raw == nil {
		return nil, nil
	}
	var f float64
	switch v := raw.(type) {
	case float64:
		f = v
	case float32:
		f = float64(v)
	case int:
		return &v, nil
	case int64:
		n := int(v)
		return &n, nil
	default:
		return nil, model.NewValidationError(key, "must be an integer, got %T", raw)
	}
	if f != math.Trunc(f) || math.IsInf(f, 0) || math.IsNaN(f) {
		return nil, model.NewValidationError(key, "must be an integer, got %v", f)
	}
	if f > math.MaxInt32 || f < math.MinInt32 {
		return nil, model.NewValidationError(key, "out of range: %v", f)
	}
	n := int(f)
	return &n, nil
}

func (a arguments) getFilter(key string) (*model.FilterConfig, error) {
	raw, ok := a[key]
	if !ok || raw == nil {
		return nil, nil
	}
	obj, ok := raw.(map[string]any)
	if !ok {
		return nil, model.NewValidationError(key, "must be an object with dimension and values, got %T", raw)
	}
	inner := arguments(obj)
	if err := inner.rejectUnknown("dimension", "values"); err != nil {
		return nil, prefixField(key, err)
	}
	dimension, err := inner.getString("dimension")
	if err != nil {
		return nil, prefixField(key, err)
	}
	if dimension == "" {
		return nil, model.NewValidationError(key+".dimension", "is required")
	}
	values, err := inner.getStringList("values")
	if err != nil {
		return nil, prefixField(key, err)
	}
	return &model.FilterConfig{Dimension: dimension, Values: values}, nil
}

func toStringList(key string, raw any) ([]string, error) {
	switch v := raw.(type) {
	case []string:
		return append([]string{}, v...), nil
	case []any:
		out := make([]string, 0, len(v))
		for i, item := range v {
			s, ok := item.(string)
			if !ok {
				return nil, model.NewValidationError(key, "item %d must be a string, got %T", i, item)
			}
			out = append(out, s)
		}
		return out, nil
	default:
		return nil, model.NewValidationError(key, "must be an array of strings, got %T", raw)
	}
}

func prefixField(prefix string, err error) error {
	if ve, ok := err.(*model.ValidationError); ok {
		return &model.ValidationError{Field: fmt.Sprintf("%s.%s", prefix, ve.Field), Constraint: ve.Constraint}
	}
	return err
}
