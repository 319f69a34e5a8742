package dialect

import (
	"strings"

	"workspace-health/internal/metadata"
)

type MysqlDialect struct{}

func (d *MysqlDialect) Name() string {
	return "mysql"
}

// TableStructureQuery: MySQL has one schema per database, so schema is the database name.
func (d *MysqlDialect) TableStructureQuery(schema, table string) (string, []any) {
	return `
SELECT
	c.TABLE_SCHEMA AS tableSchema,
	c.TABLE_NAME AS tableName,
	c.COLUMN_NAME AS columnName,
	c.DATA_TYPE AS dataType,
	c.IS_NULLABLE AS isNullable,
	c.COLUMN_DEFAULT AS columnDefault,
	CASE WHEN EXISTS (
		SELECT 1 FROM information_schema.TABLE_CONSTRAINTS tc
		JOIN information_schema.KEY_COLUMN_USAGE kcu
			ON kcu.CONSTRAINT_NAME = tc.CONSTRAINT_NAME
			AND kcu.TABLE_SCHEMA = tc.TABLE_SCHEMA
			AND kcu.TABLE_NAME = tc.TABLE_NAME
		WHERE tc.CONSTRAINT_TYPE = 'PRIMARY KEY'
			AND kcu.TABLE_SCHEMA = c.TABLE_SCHEMA
			AND kcu.TABLE_NAME = c.TABLE_NAME
			AND kcu.COLUMN_NAME = c.COLUMN_NAME
	) THEN 'TRUE' ELSE 'FALSE' END AS isPrimaryKey,
	CASE WHEN EXISTS (
		SELECT 1 FROM information_schema.KEY_COLUMN_USAGE kcu
		WHERE kcu.REFERENCED_TABLE_NAME IS NOT NULL
			AND kcu.TABLE_SCHEMA = c.TABLE_SCHEMA
			AND kcu.TABLE_NAME = c.TABLE_NAME
			AND kcu.COLUMN_NAME = c.COLUMN_NAME
	) THEN 'TRUE' ELSE 'FALSE' END AS isForeignKey,
	CASE WHEN EXISTS (
		SELECT 1 FROM information_schema.TABLE_CONSTRAINTS tc
		JOIN information_schema.KEY_COLUMN_USAGE kcu
			ON kcu.CONSTRAINT_NAME = tc.CONSTRAINT_NAME
			AND kcu.TABLE_SCHEMA = tc.TABLE_SCHEMA
			AND kcu.TABLE_NAME = tc.TABLE_NAME
		WHERE tc.CONSTRAINT_TYPE = 'UNIQUE'
			AND kcu.TABLE_SCHEMA = c.TABLE_SCHEMA
			AND kcu.TABLE_NAME = c.TABLE_NAME
			AND kcu.COLUMN_NAME = c.COLUMN_NAME
	) THEN 'TRUE' ELSE 'FALSE' END AS isUnique
FROM information_schema.COLUMNS c
WHERE c.TABLE_SCHEMA = ? AND c.TABLE_NAME = ?
ORDER BY c.ORDINAL_POSITION`, []any{schema, table}
}

func (d *MysqlDialect) GetSchemaName(input string) string {
	return DefaultGetSchemaName(input)
}

func (d *MysqlDialect) NormalizeType(spec TypeSpec) string {
	t := DefaultNormalizeType(spec.Type)
	switch t {
	case "uuid":
		return "char"
	case "float", "float8", "double":
		return "double"
	case "numeric", "decimal":
		return "decimal"
	case "boolean", "bool":
		return "tinyint"
	case "timestamptz", "timestamp":
		return "datetime"
	case "jsonb", "json":
		return "json"
	case "integer", "int4":
		return "int"
	default:
		return t
	}
}

func (d *MysqlDialect) NormalizeDefault(spec DefaultSpec) *string {
	return normalizeScalarDefault(spec)
}

func (d *MysqlDialect) Expression(id string) (string, bool) {
	switch id {
	case metadata.ExpressionUUID, metadata.ExpressionUUIDV4:
		return "(uuid())", true
	case metadata.ExpressionNow:
		return "CURRENT_TIMESTAMP", true
	default:
		return "", false
	}
}

func (d *MysqlDialect) EnumType(name string) string {
	return "enum"
}

// ArrayType: MySQL has no array columns, multi-value fields are stored as JSON.
func (d *MysqlDialect) ArrayType(elem string) string {
	return "json"
}

// ComparableDefault: MySQL reports string defaults unquoted, so quotes are dropped on
// both sides and the comparison is case-insensitive for function calls.
func (d *MysqlDialect) ComparableDefault(def string) string {
	s := comparableText(def)
	if strings.HasSuffix(s, ")") || strings.EqualFold(s, "current_timestamp") {
		return strings.ToLower(s)
	}
	return s
}
