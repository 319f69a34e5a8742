package catalog

import (
	"encoding/json"
	"fmt"
	"math"
	"strconv"

	"workspace-health/internal/dialect"
	"workspace-health/internal/metadata"
)

// SerializeDefault renders a field default for the given engine. A nil result means
// the column has no default.
func SerializeDefault(n dialect.Normalizer, ft metadata.FieldType, dv *metadata.DefaultValue) (*string, error) {
	if dv == nil {
		return nil, nil
	}

	spec, err := Lookup(ft)
	if err != nil {
		return nil, err
	}

	if dv.IsExpression() {
		expr, ok := n.Expression(dv.Expression)
		if !ok {
			return nil, fmt.Errorf("%w: %q", ErrUnknownExpression, dv.Expression)
		}
		return &expr, nil
	}

	if s, ok := formatNumber(dv.Value); ok {
		return &s, nil
	}

	return n.NormalizeDefault(dialect.DefaultSpec{
		Type:    string(spec.Type),
		Default: dv.Value,
		IsArray: spec.IsArray,
	}), nil
}

// formatNumber returns the plain decimal form of numeric literals: no quoting, no exponent.
func formatNumber(v any) (string, bool) {
	switch n := v.(type) {
	case int:
		return strconv.FormatInt(int64(n), 10), true
	case int8:
		return strconv.FormatInt(int64(n), 10), true
	case int16:
		return strconv.FormatInt(int64(n), 10), true
	case int32:
		return strconv.FormatInt(int64(n), 10), true
	case int64:
		return strconv.FormatInt(n, 10), true
	case uint:
		return strconv.FormatUint(uint64(n), 10), true
	case uint8:
		return strconv.FormatUint(uint64(n), 10), true
	case uint16:
		return strconv.FormatUint(uint64(n), 10), true
	case uint32:
		return strconv.FormatUint(uint64(n), 10), true
	case uint64:
		return strconv.FormatUint(n, 10), true
	case float32:
		return formatFloat(float64(n), 32)
	case float64:
		return formatFloat(n, 64)
	case json.Number:
		if i, err := n.Int64(); err == nil {
			return strconv.FormatInt(i, 10), true
		}
		if f, err := n.Float64(); err == nil {
			return formatFloat(f, 64)
		}
		return "", false
	default:
		return "", false
	}
}

func formatFloat(f float64, bits int) (string, bool) {
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return "", false
	}
	return strconv.FormatFloat(f, 'f', -1, bits), true
}
