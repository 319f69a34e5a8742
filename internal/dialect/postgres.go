package dialect

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"

	"workspace-health/internal/metadata"
)

type PostgresDialect struct{}

func (d *PostgresDialect) Name() string {
	return "postgres"
}

// TableStructureQuery describes one table in a single statement so that every flag
// comes from the same snapshot. Identifiers are bound, never interpolated.
func (d *PostgresDialect) TableStructureQuery(schema, table string) (string, []any) {
	return `
WITH primary_keys AS (
	SELECT DISTINCT
		ccu.table_schema AS schema_name,
		ccu.table_name AS table_name,
		ccu.column_name AS column_name
	FROM information_schema.constraint_column_usage AS ccu
	JOIN information_schema.table_constraints AS tc
		ON tc.constraint_name = ccu.constraint_name
		AND tc.table_schema = ccu.table_schema
		AND tc.table_name = ccu.table_name
	WHERE tc.constraint_type = 'PRIMARY KEY'
		AND tc.table_schema = $1
		AND tc.table_name = $2
),
foreign_keys AS (
	SELECT DISTINCT
		kcu.table_schema AS schema_name,
		kcu.table_name AS table_name,
		kcu.column_name AS column_name
	FROM information_schema.key_column_usage AS kcu
	JOIN information_schema.table_constraints AS tc
		ON tc.constraint_name = kcu.constraint_name
		AND tc.table_schema = kcu.table_schema
	WHERE tc.constraint_type = 'FOREIGN KEY'
		AND tc.table_schema = $1
		AND tc.table_name = $2
),
unique_constraints AS (
	SELECT DISTINCT
		tc.table_schema AS schema_name,
		tc.table_name AS table_name,
		kcu.column_name AS column_name
	FROM information_schema.key_column_usage AS kcu
	JOIN information_schema.table_constraints AS tc
		ON tc.constraint_name = kcu.constraint_name
		AND tc.table_schema = kcu.table_schema
	WHERE tc.constraint_type = 'UNIQUE'
		AND tc.table_schema = $1
		AND tc.table_name = $2
)
SELECT
	c.table_schema AS "tableSchema",
	c.table_name AS "tableName",
	c.column_name AS "columnName",
	CASE
		WHEN c.data_type = 'USER-DEFINED' THEN c.udt_name
		WHEN c.data_type = 'ARRAY' THEN ltrim(c.udt_name, '_') || '[]'
		ELSE c.data_type
	END AS "dataType",
	c.is_nullable AS "isNullable",
	c.column_default AS "columnDefault",
	CASE WHEN pk.column_name IS NOT NULL THEN 'TRUE' ELSE 'FALSE' END AS "isPrimaryKey",
	CASE WHEN fk.column_name IS NOT NULL THEN 'TRUE' ELSE 'FALSE' END AS "isForeignKey",
	CASE WHEN uc.column_name IS NOT NULL THEN 'TRUE' ELSE 'FALSE' END AS "isUnique"
FROM information_schema.columns AS c
LEFT JOIN primary_keys AS pk
	ON c.table_schema = pk.schema_name
	AND c.table_name = pk.table_name
	AND c.column_name = pk.column_name
LEFT JOIN foreign_keys AS fk
	ON c.table_schema = fk.schema_name
	AND c.table_name = fk.table_name
	AND c.column_name = fk.column_name
LEFT JOIN unique_constraints AS uc
	ON c.table_schema = uc.schema_name
	AND c.table_name = uc.table_name
	AND c.column_name = uc.column_name
WHERE c.table_schema = $1
	AND c.table_name = $2
ORDER BY c.ordinal_position`, []any{schema, table}
}

func (d *PostgresDialect) GetSchemaName(input string) string {
	if input == "" {
		return "public"
	}
	return input
}

// NormalizeType maps an abstract column type to the name information_schema reports.
func (d *PostgresDialect) NormalizeType(spec TypeSpec) string {
	t := strings.ToLower(spec.Type)
	switch t {
	case "int", "int4", "integer":
		return "integer"
	case "int2", "smallint":
		return "smallint"
	case "int8", "bigint":
		return "bigint"
	case "float", "float8", "double":
		return "double precision"
	case "float4", "real":
		return "real"
	case "decimal", "numeric":
		return "numeric"
	case "bool", "boolean":
		return "boolean"
	case "varchar", "string":
		return "character varying"
	case "char", "bpchar":
		return "character"
	case "timestamp":
		return "timestamp without time zone"
	case "timestamptz":
		return "timestamp with time zone"
	case "time":
		return "time without time zone"
	case "timetz":
		return "time with time zone"
	case "varbit":
		return "bit varying"
	default:
		return t
	}
}

func (d *PostgresDialect) NormalizeDefault(spec DefaultSpec) *string {
	if spec.Default == nil {
		return nil
	}

	if spec.IsArray {
		switch items := spec.Default.(type) {
		case []string:
			return ptr(QuoteLiteral("{" + strings.Join(items, ",") + "}"))
		case []any:
			parts := make([]string, len(items))
			for i, item := range items {
				parts[i] = fmt.Sprint(item)
			}
			return ptr(QuoteLiteral("{" + strings.Join(parts, ",") + "}"))
		}
	}

	switch v := spec.Default.(type) {
	case bool:
		return ptr(strconv.FormatBool(v))
	case string:
		return ptr(QuoteLiteral(v))
	case json.Number:
		return ptr(QuoteLiteral(v.String()))
	case map[string]any, []any:
		b, err := json.Marshal(v)
		if err != nil {
			return ptr(QuoteLiteral(fmt.Sprint(v)))
		}
		return ptr(QuoteLiteral(string(b)))
	}

	if spec.Type == "enum" {
		return ptr(QuoteLiteral(fmt.Sprint(spec.Default)))
	}
	return ptr(fmt.Sprint(spec.Default))
}

func (d *PostgresDialect) Expression(id string) (string, bool) {
	switch id {
	case metadata.ExpressionUUID, metadata.ExpressionUUIDV4:
		return "uuid_generate_v4()", true
	case metadata.ExpressionNow:
		return "now()", true
	default:
		return "", false
	}
}

// EnumType returns the named type itself; Postgres reports udt_name for enum columns.
func (d *PostgresDialect) EnumType(name string) string {
	return name
}

func (d *PostgresDialect) ArrayType(elem string) string {
	return elem + "[]"
}

func (d *PostgresDialect) ComparableDefault(def string) string {
	return comparableText(def)
}
