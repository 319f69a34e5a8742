package metadata

import (
	"fmt"
	"strings"
)

// FieldType is the logical type of a workspace field.
type FieldType string

const (
	FieldTypeUUID        FieldType = "UUID"
	FieldTypeText        FieldType = "TEXT"
	FieldTypePhone       FieldType = "PHONE"
	FieldTypeEmail       FieldType = "EMAIL"
	FieldTypeDateTime    FieldType = "DATE_TIME"
	FieldTypeDate        FieldType = "DATE"
	FieldTypeBoolean     FieldType = "BOOLEAN"
	FieldTypeNumber      FieldType = "NUMBER"
	FieldTypeNumeric     FieldType = "NUMERIC"
	FieldTypeProbability FieldType = "PROBABILITY"
	FieldTypePosition    FieldType = "POSITION"
	FieldTypeSelect      FieldType = "SELECT"
	FieldTypeMultiSelect FieldType = "MULTI_SELECT"
	FieldTypeRating      FieldType = "RATING"
	FieldTypeRawJSON     FieldType = "RAW_JSON"
	FieldTypeRelation    FieldType = "RELATION"
)

// AllFieldTypes lists every field type known to this deployment.
var AllFieldTypes = []FieldType{
	FieldTypeUUID,
	FieldTypeText,
	FieldTypePhone,
	FieldTypeEmail,
	FieldTypeDateTime,
	FieldTypeDate,
	FieldTypeBoolean,
	FieldTypeNumber,
	FieldTypeNumeric,
	FieldTypeProbability,
	FieldTypePosition,
	FieldTypeSelect,
	FieldTypeMultiSelect,
	FieldTypeRating,
	FieldTypeRawJSON,
	FieldTypeRelation,
}

// ParseFieldType resolves a field type name case-insensitively.
func ParseFieldType(s string) (FieldType, error) {
	want := strings.ToUpper(strings.TrimSpace(s))
	for _, ft := range AllFieldTypes {
		if string(ft) == want {
			return ft, nil
		}
	}
	return "", fmt.Errorf("unknown field type %q", s)
}
