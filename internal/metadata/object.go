package metadata

import (
	"github.com/google/uuid"
	"github.com/jinzhu/inflection"
)

// Workspace is a tenant: one isolated database schema plus the objects declared in it.
type Workspace struct {
	ID      uuid.UUID         `yaml:"id" json:"id"`
	Schema  string            `yaml:"schema" json:"schema"`
	Objects []*ObjectMetadata `yaml:"objects" json:"objects"`
}

type ObjectMetadata struct {
	ID              uuid.UUID        `yaml:"id,omitempty" json:"id,omitempty"`
	NameSingular    string           `yaml:"nameSingular" json:"nameSingular"`
	NamePlural      string           `yaml:"namePlural" json:"namePlural"`
	TargetTableName string           `yaml:"targetTableName,omitempty" json:"targetTableName,omitempty"`
	Fields          []*FieldMetadata `yaml:"fields" json:"fields"`
}

type FieldMetadata struct {
	ID           uuid.UUID     `yaml:"id,omitempty" json:"id,omitempty"`
	Name         string        `yaml:"name" json:"name"`
	Type         FieldType     `yaml:"type" json:"type"`
	IsNullable   bool          `yaml:"isNullable" json:"isNullable"`
	DefaultValue *DefaultValue `yaml:"defaultValue,omitempty" json:"defaultValue,omitempty"`
}

// TableName is the physical table the object materializes into.
func (o *ObjectMetadata) TableName() string {
	if o.TargetTableName != "" {
		return o.TargetTableName
	}
	return o.NamePlural
}

// Singular returns the singular object name used in enum type names.
func (o *ObjectMetadata) Singular() string {
	if o.NameSingular != "" {
		return o.NameSingular
	}
	return inflection.Singular(o.NamePlural)
}

// ColumnName is the physical column backing the field. Relations store their
// target id in a join column.
func (f *FieldMetadata) ColumnName() string {
	if f.Type == FieldTypeRelation {
		return f.Name + "Id"
	}
	return f.Name
}
