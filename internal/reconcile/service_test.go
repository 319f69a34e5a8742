package reconcile_test

import (
	"database/sql"
	"database/sql/driver"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"workspace-health/internal/dialect"
	"workspace-health/internal/metadata"
	"workspace-health/internal/reconcile"
)

var structureColumns = []string{
	"tableSchema", "tableName", "columnName", "dataType", "isNullable",
	"columnDefault", "isPrimaryKey", "isForeignKey", "isUnique",
}

func newMock(t *testing.T) (*sql.DB, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherEqual))
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return db, mock
}

func expectDescribe(mock sqlmock.Sqlmock, d dialect.Dialect, schemaName, table string) *sqlmock.ExpectedQuery {
	query, args := d.TableStructureQuery(schemaName, table)
	values := make([]driver.Value, len(args))
	for i, a := range args {
		values[i] = a
	}
	return mock.ExpectQuery(query).WithArgs(values...)
}

func TestExpectedColumnType_Postgres(t *testing.T) {
	svc := reconcile.NewService(nil, &dialect.PostgresDialect{}, nil)

	cases := []struct {
		ft    metadata.FieldType
		field string
		want  string
	}{
		{metadata.FieldTypeUUID, "id", "uuid"},
		{metadata.FieldTypeText, "name", "text"},
		{metadata.FieldTypeNumber, "employees", "double precision"},
		{metadata.FieldTypeDateTime, "createdAt", "timestamp with time zone"},
		{metadata.FieldTypeSelect, "status", "company_status_enum"},
		{metadata.FieldTypeMultiSelect, "tags", "company_tags_enum[]"},
		{metadata.FieldTypeRawJSON, "payload", "jsonb"},
	}
	for _, tc := range cases {
		got, err := svc.ExpectedColumnType(tc.ft, tc.field, "company")
		require.NoError(t, err, tc.ft)
		assert.Equal(t, tc.want, got, tc.ft)
	}
}

func TestExpectedColumnType_MySQL(t *testing.T) {
	svc := reconcile.NewService(nil, &dialect.MysqlDialect{}, nil)

	got, err := svc.ExpectedColumnType(metadata.FieldTypeSelect, "status", "company")
	require.NoError(t, err)
	assert.Equal(t, "enum", got)

	got, err = svc.ExpectedColumnType(metadata.FieldTypeMultiSelect, "tags", "company")
	require.NoError(t, err)
	assert.Equal(t, "json", got)
}

func TestExpectedColumnType_Unmapped(t *testing.T) {
	svc := reconcile.NewService(nil, &dialect.PostgresDialect{}, nil)
	_, err := svc.ExpectedColumnType(metadata.FieldType("GEOMETRY"), "shape", "site")
	assert.Error(t, err)
}

func TestExpectedDefault(t *testing.T) {
	svc := reconcile.NewService(nil, &dialect.PostgresDialect{}, nil)

	got, err := svc.ExpectedDefault(metadata.FieldTypeUUID, metadata.Expression("uuidV4"))
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, "uuid_generate_v4()", *got)

	got, err = svc.ExpectedDefault(metadata.FieldTypeNumber, metadata.Literal(42))
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, "42", *got)

	got, err = svc.ExpectedDefault(metadata.FieldTypeBoolean, metadata.Literal(false))
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, "false", *got)

	got, err = svc.ExpectedDefault(metadata.FieldTypeMultiSelect, metadata.Literal([]any{"A", "B"}))
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, "'{A,B}'", *got)

	got, err = svc.ExpectedDefault(metadata.FieldTypeText, nil)
	require.NoError(t, err)
	assert.Nil(t, got)
}
