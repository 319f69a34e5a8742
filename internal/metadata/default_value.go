package metadata

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"

	"gopkg.in/yaml.v3"
)

var ErrInvalidDefaultValue = errors.New("invalid default value")

// DefaultKind tells the two default value shapes apart.
type DefaultKind int

const (
	DefaultLiteral DefaultKind = iota
	DefaultExpression
)

// Expression ids understood by the serializer.
const (
	ExpressionUUID   = "uuid"
	ExpressionUUIDV4 = "uuidV4"
	ExpressionNow    = "now"
)

// DefaultValue is either a typed expression ({"type": "uuid"}) or a literal ({"value": 42}).
type DefaultValue struct {
	Kind       DefaultKind
	Expression string
	Value      any
}

func Expression(id string) *DefaultValue {
	return &DefaultValue{Kind: DefaultExpression, Expression: id}
}

func Literal(v any) *DefaultValue {
	return &DefaultValue{Kind: DefaultLiteral, Value: v}
}

func (dv *DefaultValue) IsExpression() bool {
	return dv != nil && dv.Kind == DefaultExpression
}

func (dv DefaultValue) MarshalJSON() ([]byte, error) {
	if dv.Kind == DefaultExpression {
		return json.Marshal(map[string]string{"type": dv.Expression})
	}
	return json.Marshal(map[string]any{"value": dv.Value})
}

func (dv *DefaultValue) UnmarshalJSON(data []byte) error {
	var raw map[string]json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidDefaultValue, err)
	}
	decoded, err := decodeDefault(raw, func(msg json.RawMessage, out any) error {
		d := json.NewDecoder(bytes.NewReader(msg))
		d.UseNumber()
		return d.Decode(out)
	})
	if err != nil {
		return err
	}
	*dv = decoded
	return nil
}

func (dv DefaultValue) MarshalYAML() (any, error) {
	if dv.Kind == DefaultExpression {
		return map[string]string{"type": dv.Expression}, nil
	}
	return map[string]any{"value": dv.Value}, nil
}

func (dv *DefaultValue) UnmarshalYAML(node *yaml.Node) error {
	if node.Kind != yaml.MappingNode {
		return fmt.Errorf("%w: line %d: expected a mapping", ErrInvalidDefaultValue, node.Line)
	}
	raw := make(map[string]*yaml.Node, len(node.Content)/2)
	for i := 0; i+1 < len(node.Content); i += 2 {
		raw[node.Content[i].Value] = node.Content[i+1]
	}
	decoded, err := decodeDefault(raw, func(n *yaml.Node, out any) error {
		return n.Decode(out)
	})
	if err != nil {
		return err
	}
	*dv = decoded
	return nil
}

// decodeDefault is shared by the JSON and YAML decoders. Exactly one of "type" or "value"
// must be present.
func decodeDefault[T any](raw map[string]T, decode func(T, any) error) (DefaultValue, error) {
	typ, hasType := raw["type"]
	val, hasValue := raw["value"]

	switch {
	case hasType && hasValue:
		return DefaultValue{}, fmt.Errorf("%w: both type and value are set", ErrInvalidDefaultValue)
	case hasType:
		var id string
		if err := decode(typ, &id); err != nil {
			return DefaultValue{}, fmt.Errorf("%w: type: %v", ErrInvalidDefaultValue, err)
		}
		if id == "" {
			return DefaultValue{}, fmt.Errorf("%w: empty expression type", ErrInvalidDefaultValue)
		}
		return DefaultValue{Kind: DefaultExpression, Expression: id}, nil
	case hasValue:
		var v any
		if err := decode(val, &v); err != nil {
			return DefaultValue{}, fmt.Errorf("%w: value: %v", ErrInvalidDefaultValue, err)
		}
		return DefaultValue{Kind: DefaultLiteral, Value: v}, nil
	default:
		return DefaultValue{}, fmt.Errorf("%w: expected type or value", ErrInvalidDefaultValue)
	}
}

// ParseDefaultValue decodes the JSON wire form. "null" and "" mean no default.
func ParseDefaultValue(data []byte) (*DefaultValue, error) {
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) == 0 || bytes.Equal(trimmed, []byte("null")) {
		return nil, nil
	}
	var dv DefaultValue
	if err := json.Unmarshal(trimmed, &dv); err != nil {
		return nil, err
	}
	return &dv, nil
}
