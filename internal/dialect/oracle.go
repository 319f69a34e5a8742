package dialect

import (
	"strings"

	_ "github.com/sijms/go-ora/v2" // Oracle Driver

	"workspace-health/internal/metadata"
)

type OracleDialect struct{}

func (d *OracleDialect) Name() string {
	return "oracle"
}

// TableStructureQuery reads ALL_TAB_COLUMNS for the owning schema. Constraint types:
// P (primary key), R (foreign key), U (unique).
func (d *OracleDialect) TableStructureQuery(schema, table string) (string, []any) {
	return `
SELECT
	t.OWNER AS "tableSchema",
	t.TABLE_NAME AS "tableName",
	t.COLUMN_NAME AS "columnName",
	t.DATA_TYPE AS "dataType",
	CASE WHEN t.NULLABLE = 'Y' THEN 'YES' ELSE 'NO' END AS "isNullable",
	t.DATA_DEFAULT AS "columnDefault",
	CASE WHEN EXISTS (
		SELECT 1 FROM ALL_CONS_COLUMNS cc
		JOIN ALL_CONSTRAINTS ac ON ac.OWNER = cc.OWNER AND ac.CONSTRAINT_NAME = cc.CONSTRAINT_NAME
		WHERE ac.CONSTRAINT_TYPE = 'P'
			AND cc.OWNER = t.OWNER AND cc.TABLE_NAME = t.TABLE_NAME AND cc.COLUMN_NAME = t.COLUMN_NAME
	) THEN 'TRUE' ELSE 'FALSE' END AS "isPrimaryKey",
	CASE WHEN EXISTS (
		SELECT 1 FROM ALL_CONS_COLUMNS cc
		JOIN ALL_CONSTRAINTS ac ON ac.OWNER = cc.OWNER AND ac.CONSTRAINT_NAME = cc.CONSTRAINT_NAME
		WHERE ac.CONSTRAINT_TYPE = 'R'
			AND cc.OWNER = t.OWNER AND cc.TABLE_NAME = t.TABLE_NAME AND cc.COLUMN_NAME = t.COLUMN_NAME
	) THEN 'TRUE' ELSE 'FALSE' END AS "isForeignKey",
	CASE WHEN EXISTS (
		SELECT 1 FROM ALL_CONS_COLUMNS cc
		JOIN ALL_CONSTRAINTS ac ON ac.OWNER = cc.OWNER AND ac.CONSTRAINT_NAME = cc.CONSTRAINT_NAME
		WHERE ac.CONSTRAINT_TYPE = 'U'
			AND cc.OWNER = t.OWNER AND cc.TABLE_NAME = t.TABLE_NAME AND cc.COLUMN_NAME = t.COLUMN_NAME
	) THEN 'TRUE' ELSE 'FALSE' END AS "isUnique"
FROM ALL_TAB_COLUMNS t
WHERE t.OWNER = :1 AND t.TABLE_NAME = :2
ORDER BY t.COLUMN_ID`, []any{schema, table}
}

func (d *OracleDialect) GetSchemaName(input string) string {
	return DefaultGetSchemaName(input)
}

func (d *OracleDialect) NormalizeType(spec TypeSpec) string {
	switch strings.ToLower(spec.Type) {
	case "uuid":
		return "RAW"
	case "text", "jsonb", "json":
		return "CLOB"
	case "boolean", "bool", "integer", "int", "numeric", "decimal":
		return "NUMBER"
	case "float", "double":
		return "BINARY_DOUBLE"
	case "timestamptz":
		return "TIMESTAMP(6) WITH TIME ZONE"
	case "timestamp":
		return "TIMESTAMP(6)"
	case "date":
		return "DATE"
	default:
		return strings.ToUpper(spec.Type)
	}
}

func (d *OracleDialect) NormalizeDefault(spec DefaultSpec) *string {
	return normalizeScalarDefault(spec)
}

func (d *OracleDialect) Expression(id string) (string, bool) {
	switch id {
	case metadata.ExpressionUUID, metadata.ExpressionUUIDV4:
		return "SYS_GUID()", true
	case metadata.ExpressionNow:
		return "SYSTIMESTAMP", true
	default:
		return "", false
	}
}

func (d *OracleDialect) EnumType(name string) string {
	return "VARCHAR2"
}

func (d *OracleDialect) ArrayType(elem string) string {
	return "CLOB"
}

func (d *OracleDialect) ComparableDefault(def string) string {
	s := comparableText(def)
	if strings.HasSuffix(s, ")") || strings.EqualFold(s, "systimestamp") {
		return strings.ToUpper(s)
	}
	return s
}
