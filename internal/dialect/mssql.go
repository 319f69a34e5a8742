package dialect

import (
	"strings"

	_ "github.com/denisenkom/go-mssqldb" // SQL Server Driver

	"workspace-health/internal/metadata"
)

type MSSQLDialect struct{}

func (d *MSSQLDialect) Name() string {
	return "sqlserver"
}

// Helper: MSSQL Driver (go-mssqldb) prefers @p1, @p2 named parameters over ?
func (d *MSSQLDialect) TableStructureQuery(schema, table string) (string, []any) {
	return `
SELECT
	c.TABLE_SCHEMA AS tableSchema,
	c.TABLE_NAME AS tableName,
	c.COLUMN_NAME AS columnName,
	c.DATA_TYPE AS dataType,
	c.IS_NULLABLE AS isNullable,
	c.COLUMN_DEFAULT AS columnDefault,
	CASE WHEN EXISTS (
		SELECT 1 FROM INFORMATION_SCHEMA.TABLE_CONSTRAINTS tc
		JOIN INFORMATION_SCHEMA.KEY_COLUMN_USAGE kcu
			ON kcu.CONSTRAINT_NAME = tc.CONSTRAINT_NAME
			AND kcu.TABLE_SCHEMA = tc.TABLE_SCHEMA
		WHERE tc.CONSTRAINT_TYPE = 'PRIMARY KEY'
			AND kcu.TABLE_SCHEMA = c.TABLE_SCHEMA
			AND kcu.TABLE_NAME = c.TABLE_NAME
			AND kcu.COLUMN_NAME = c.COLUMN_NAME
	) THEN 'TRUE' ELSE 'FALSE' END AS isPrimaryKey,
	CASE WHEN EXISTS (
		SELECT 1 FROM INFORMATION_SCHEMA.TABLE_CONSTRAINTS tc
		JOIN INFORMATION_SCHEMA.KEY_COLUMN_USAGE kcu
			ON kcu.CONSTRAINT_NAME = tc.CONSTRAINT_NAME
			AND kcu.TABLE_SCHEMA = tc.TABLE_SCHEMA
		WHERE tc.CONSTRAINT_TYPE = 'FOREIGN KEY'
			AND kcu.TABLE_SCHEMA = c.TABLE_SCHEMA
			AND kcu.TABLE_NAME = c.TABLE_NAME
			AND kcu.COLUMN_NAME = c.COLUMN_NAME
	) THEN 'TRUE' ELSE 'FALSE' END AS isForeignKey,
	CASE WHEN EXISTS (
		SELECT 1 FROM INFORMATION_SCHEMA.TABLE_CONSTRAINTS tc
		JOIN INFORMATION_SCHEMA.KEY_COLUMN_USAGE kcu
			ON kcu.CONSTRAINT_NAME = tc.CONSTRAINT_NAME
			AND kcu.TABLE_SCHEMA = tc.TABLE_SCHEMA
		WHERE tc.CONSTRAINT_TYPE = 'UNIQUE'
			AND kcu.TABLE_SCHEMA = c.TABLE_SCHEMA
			AND kcu.TABLE_NAME = c.TABLE_NAME
			AND kcu.COLUMN_NAME = c.COLUMN_NAME
	) THEN 'TRUE' ELSE 'FALSE' END AS isUnique
FROM INFORMATION_SCHEMA.COLUMNS c
WHERE c.TABLE_SCHEMA = @p1 AND c.TABLE_NAME = @p2
ORDER BY c.ORDINAL_POSITION`, []any{schema, table}
}

func (d *MSSQLDialect) GetSchemaName(input string) string {
	if input == "" {
		return "dbo"
	}
	return input
}

func (d *MSSQLDialect) NormalizeType(spec TypeSpec) string {
	t := strings.ToLower(spec.Type)
	switch t {
	case "uuid":
		return "uniqueidentifier"
	case "text", "varchar", "jsonb", "json":
		return "nvarchar"
	case "boolean", "bool":
		return "bit"
	case "integer", "int4":
		return "int"
	case "numeric", "decimal":
		return "decimal"
	case "float", "double", "float8":
		return "float"
	case "timestamptz":
		return "datetimeoffset"
	case "timestamp":
		return "datetime2"
	default:
		return t
	}
}

func (d *MSSQLDialect) NormalizeDefault(spec DefaultSpec) *string {
	return normalizeScalarDefault(spec)
}

func (d *MSSQLDialect) Expression(id string) (string, bool) {
	switch id {
	case metadata.ExpressionUUID, metadata.ExpressionUUIDV4:
		return "newid()", true
	case metadata.ExpressionNow:
		return "getdate()", true
	default:
		return "", false
	}
}

// EnumType: SQL Server has no enum types, values live in a string column.
func (d *MSSQLDialect) EnumType(name string) string {
	return "nvarchar"
}

func (d *MSSQLDialect) ArrayType(elem string) string {
	return "nvarchar"
}

// ComparableDefault strips the parentheses SQL Server wraps around every default: ((0)), (N'x').
func (d *MSSQLDialect) ComparableDefault(def string) string {
	s := stripWrappingParens(strings.TrimSpace(def))
	if strings.HasPrefix(s, "N'") {
		s = s[1:]
	}
	return strings.ToLower(comparableText(s))
}
