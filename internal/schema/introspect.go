package schema

import (
	"context"
	"database/sql"
	"fmt"

	"workspace-health/internal/dialect"
)

// Queryer is satisfied by *sql.DB, *sql.Conn and *sql.Tx.
type Queryer interface {
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
}

// DescribeTable reports every column of schemaName.tableName with its key and
// uniqueness flags, in one round trip. A table that does not exist yields an empty
// slice. Database errors are returned unmodified; retrying is up to the caller.
func DescribeTable(ctx context.Context, q Queryer, d dialect.Dialect, schemaName, tableName string) ([]WorkspaceTableStructure, error) {
	// [Interface-First]: Delegate schema resolution to the dialect
	target := d.GetSchemaName(schemaName)

	if err := ValidIdentifier(target); err != nil {
		return nil, fmt.Errorf("schema name: %w", err)
	}
	if err := ValidIdentifier(tableName); err != nil {
		return nil, fmt.Errorf("table name: %w", err)
	}

	query, args := d.TableStructureQuery(target, tableName)
	rows, err := q.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	result := []WorkspaceTableStructure{}
	for rows.Next() {
		var (
			tSchema, tName, cName, dType, isNull sql.NullString
			cDefault                             sql.NullString
			isPK, isFK, isUnique                 sql.NullString
		)
		if err := rows.Scan(&tSchema, &tName, &cName, &dType, &isNull, &cDefault, &isPK, &isFK, &isUnique); err != nil {
			return nil, fmt.Errorf("failed to scan column (table: %s): %w", tableName, err)
		}

		col := WorkspaceTableStructure{
			TableSchema:  tSchema.String,
			TableName:    tName.String,
			ColumnName:   cName.String,
			DataType:     dType.String,
			IsNullable:   isNull.String == "YES",
			IsPrimaryKey: isPK.String == "TRUE",
			IsForeignKey: isFK.String == "TRUE",
			IsUnique:     isUnique.String == "TRUE",
		}
		if cDefault.Valid {
			def := cDefault.String
			col.ColumnDefault = &def
		}
		result = append(result, col)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	return result, nil
}
