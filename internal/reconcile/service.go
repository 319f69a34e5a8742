// Package reconcile compares declared workspace metadata with the live table structure.
package reconcile

import (
	"context"

	"go.uber.org/zap"

	"workspace-health/internal/catalog"
	"workspace-health/internal/dialect"
	"workspace-health/internal/metadata"
	"workspace-health/internal/schema"
)

// Service is a stateless facade over the type catalog, the default serializer and the
// introspector for one database engine. It is safe for concurrent use.
type Service struct {
	db      schema.Queryer
	dialect dialect.Dialect
	logger  *zap.Logger
}

func NewService(db schema.Queryer, d dialect.Dialect, logger *zap.Logger) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Service{db: db, dialect: d, logger: logger}
}

// ExpectedColumnType is the data type the introspector should report for the field's column.
func (s *Service) ExpectedColumnType(ft metadata.FieldType, fieldName, objectNameSingular string) (string, error) {
	spec, err := catalog.Lookup(ft)
	if err != nil {
		return "", err
	}

	var t string
	if spec.Named {
		t = s.dialect.EnumType(catalog.EnumTypeName(objectNameSingular, fieldName))
	} else {
		t = s.dialect.NormalizeType(dialect.TypeSpec{Type: string(spec.Type)})
	}

	if spec.IsArray {
		return s.dialect.ArrayType(t), nil
	}
	return t, nil
}

// ExpectedDefault is the default expression the field's column should carry, nil for none.
func (s *Service) ExpectedDefault(ft metadata.FieldType, dv *metadata.DefaultValue) (*string, error) {
	return catalog.SerializeDefault(s.dialect, ft, dv)
}

// DescribeTable re-queries the live catalog on every call.
func (s *Service) DescribeTable(ctx context.Context, schemaName, tableName string) ([]schema.WorkspaceTableStructure, error) {
	cols, err := schema.DescribeTable(ctx, s.db, s.dialect, schemaName, tableName)
	if err != nil {
		return nil, err
	}
	s.logger.Debug("described table",
		zap.String("schema", schemaName),
		zap.String("table", tableName),
		zap.Int("columns", len(cols)),
	)
	return cols, nil
}
