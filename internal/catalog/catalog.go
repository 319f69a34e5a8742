// Package catalog maps workspace field types onto column types and serializes
// field default values into the text a migration embeds in DDL.
package catalog

import (
	"errors"
	"fmt"
	"strings"

	"workspace-health/internal/metadata"
)

var (
	ErrUnmappedFieldType = errors.New("unmapped field type")
	ErrUnknownExpression = errors.New("unknown default value expression")
)

// ColumnType is the abstract physical type of a column, before dialect normalization.
type ColumnType string

const (
	ColumnUUID        ColumnType = "uuid"
	ColumnText        ColumnType = "text"
	ColumnFloat       ColumnType = "float"
	ColumnNumeric     ColumnType = "numeric"
	ColumnInteger     ColumnType = "integer"
	ColumnBoolean     ColumnType = "boolean"
	ColumnTimestampTZ ColumnType = "timestamptz"
	ColumnDate        ColumnType = "date"
	ColumnEnum        ColumnType = "enum"
	ColumnJSONB       ColumnType = "jsonb"
)

// Spec is how one field type materializes.
type Spec struct {
	Type    ColumnType
	IsArray bool
	// Named types get a dedicated database type per field: {object}_{field}_enum.
	Named bool
}

var specs = map[metadata.FieldType]Spec{
	metadata.FieldTypeUUID:        {Type: ColumnUUID},
	metadata.FieldTypeText:        {Type: ColumnText},
	metadata.FieldTypePhone:       {Type: ColumnText},
	metadata.FieldTypeEmail:       {Type: ColumnText},
	metadata.FieldTypeDateTime:    {Type: ColumnTimestampTZ},
	metadata.FieldTypeDate:        {Type: ColumnDate},
	metadata.FieldTypeBoolean:     {Type: ColumnBoolean},
	metadata.FieldTypeNumber:      {Type: ColumnFloat},
	metadata.FieldTypeNumeric:     {Type: ColumnNumeric},
	metadata.FieldTypeProbability: {Type: ColumnFloat},
	metadata.FieldTypePosition:    {Type: ColumnFloat},
	metadata.FieldTypeSelect:      {Type: ColumnEnum, Named: true},
	metadata.FieldTypeMultiSelect: {Type: ColumnEnum, Named: true, IsArray: true},
	metadata.FieldTypeRating:      {Type: ColumnEnum, Named: true},
	metadata.FieldTypeRawJSON:     {Type: ColumnJSONB},
	metadata.FieldTypeRelation:    {Type: ColumnUUID},
}

// Lookup returns the materialization spec of a field type.
func Lookup(ft metadata.FieldType) (Spec, error) {
	spec, ok := specs[ft]
	if !ok {
		return Spec{}, fmt.Errorf("%w: %q", ErrUnmappedFieldType, ft)
	}
	return spec, nil
}

// ColumnTypeFor returns the column type of a field. Enum-backed fields return their
// per-field type name instead of the shared "enum" marker.
func ColumnTypeFor(ft metadata.FieldType, fieldName, objectNameSingular string) (ColumnType, error) {
	spec, err := Lookup(ft)
	if err != nil {
		return "", err
	}
	if spec.Named {
		return ColumnType(EnumTypeName(objectNameSingular, fieldName)), nil
	}
	return spec.Type, nil
}

// EnumTypeName synthesizes the database enum type name. Migrations create the type
// under exactly this name.
func EnumTypeName(objectNameSingular, fieldName string) string {
	return strings.ToLower(objectNameSingular) + "_" + strings.ToLower(fieldName) + "_enum"
}

// Validate checks that every known field type is mapped.
func Validate() error {
	var missing []string
	for _, ft := range metadata.AllFieldTypes {
		if _, ok := specs[ft]; !ok {
			missing = append(missing, string(ft))
		}
	}
	if len(missing) > 0 {
		return fmt.Errorf("%w: %s", ErrUnmappedFieldType, strings.Join(missing, ", "))
	}
	return nil
}
