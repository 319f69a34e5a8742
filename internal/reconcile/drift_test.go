package reconcile_test

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"

	"workspace-health/internal/dialect"
	"workspace-health/internal/metadata"
	"workspace-health/internal/reconcile"
	"workspace-health/internal/schema"
)

func strPtr(s string) *string {
	return &s
}

func company() *metadata.ObjectMetadata {
	return &metadata.ObjectMetadata{
		NameSingular: "company",
		NamePlural:   "companies",
		Fields: []*metadata.FieldMetadata{
			{Name: "id", Type: metadata.FieldTypeUUID, DefaultValue: metadata.Expression("uuid")},
			{Name: "name", Type: metadata.FieldTypeText, IsNullable: true},
			{Name: "status", Type: metadata.FieldTypeSelect, DefaultValue: metadata.Literal("OPEN")},
			{Name: "employees", Type: metadata.FieldTypeNumber, IsNullable: true, DefaultValue: metadata.Literal(0)},
		},
	}
}

func healthyCompanyColumns() []schema.WorkspaceTableStructure {
	return []schema.WorkspaceTableStructure{
		{TableName: "companies", ColumnName: "id", DataType: "uuid", ColumnDefault: strPtr("public.uuid_generate_v4()"), IsPrimaryKey: true},
		{TableName: "companies", ColumnName: "name", DataType: "text", IsNullable: true},
		{TableName: "companies", ColumnName: "status", DataType: "company_status_enum", ColumnDefault: strPtr("'OPEN'::company_status_enum")},
		{TableName: "companies", ColumnName: "employees", DataType: "double precision", IsNullable: true, ColumnDefault: strPtr("0")},
	}
}

func TestDiff_Healthy(t *testing.T) {
	svc := reconcile.NewService(nil, &dialect.PostgresDialect{}, nil)

	issues, err := svc.Diff(company(), healthyCompanyColumns())

	require.NoError(t, err)
	assert.Empty(t, issues)
}

func TestDiff_MissingTable(t *testing.T) {
	svc := reconcile.NewService(nil, &dialect.PostgresDialect{}, nil)

	issues, err := svc.Diff(company(), nil)

	require.NoError(t, err)
	require.Len(t, issues, 1)
	assert.Equal(t, reconcile.IssueMissingTable, issues[0].Kind)
	assert.Equal(t, "companies", issues[0].Table)
}

func TestDiff_IssueKinds(t *testing.T) {
	svc := reconcile.NewService(nil, &dialect.PostgresDialect{}, nil)

	o := company()
	o.Fields = append(o.Fields, &metadata.FieldMetadata{Name: "owner", Type: metadata.FieldTypeRelation, IsNullable: true})

	cols := healthyCompanyColumns()
	cols[1].IsNullable = false
	cols[2].DataType = "text"
	cols[3].ColumnDefault = strPtr("1")
	cols = append(cols,
		schema.WorkspaceTableStructure{TableName: "companies", ColumnName: "ownerId", DataType: "uuid", IsNullable: true},
		schema.WorkspaceTableStructure{TableName: "companies", ColumnName: "legacyCode", DataType: "text", IsNullable: true},
	)

	issues, err := svc.Diff(o, cols)
	require.NoError(t, err)

	kinds := map[reconcile.IssueKind]reconcile.Issue{}
	for _, issue := range issues {
		kinds[issue.Kind] = issue
	}
	require.Len(t, issues, 5)

	assert.Equal(t, "name", kinds[reconcile.IssueColumnNullability].Column)
	assert.Equal(t, "NULL", kinds[reconcile.IssueColumnNullability].Expected)
	assert.Equal(t, "NOT NULL", kinds[reconcile.IssueColumnNullability].Actual)

	assert.Equal(t, "status", kinds[reconcile.IssueColumnType].Column)
	assert.Equal(t, "company_status_enum", kinds[reconcile.IssueColumnType].Expected)

	assert.Equal(t, "employees", kinds[reconcile.IssueColumnDefault].Column)
	assert.Equal(t, "0", kinds[reconcile.IssueColumnDefault].Expected)

	assert.Equal(t, "ownerId", kinds[reconcile.IssueMissingForeignKey].Column)
	assert.Equal(t, "legacyCode", kinds[reconcile.IssueColumnNotInMetadata].Column)
}

func TestDiff_MissingColumn(t *testing.T) {
	svc := reconcile.NewService(nil, &dialect.PostgresDialect{}, nil)

	issues, err := svc.Diff(company(), healthyCompanyColumns()[:3])

	require.NoError(t, err)
	require.Len(t, issues, 1)
	assert.Equal(t, reconcile.IssueMissingColumn, issues[0].Kind)
	assert.Equal(t, "employees", issues[0].Column)
}

func TestDiff_NullDefaultIsNoDefault(t *testing.T) {
	svc := reconcile.NewService(nil, &dialect.PostgresDialect{}, nil)
	o := &metadata.ObjectMetadata{NamePlural: "notes", Fields: []*metadata.FieldMetadata{
		{Name: "body", Type: metadata.FieldTypeText, IsNullable: true},
	}}

	issues, err := svc.Diff(o, []schema.WorkspaceTableStructure{
		{ColumnName: "body", DataType: "TEXT", IsNullable: true, ColumnDefault: strPtr("NULL::text")},
	})

	require.NoError(t, err)
	assert.Empty(t, issues)
}

func TestDiff_UnknownExpression(t *testing.T) {
	svc := reconcile.NewService(nil, &dialect.PostgresDialect{}, nil)
	o := &metadata.ObjectMetadata{NamePlural: "notes", Fields: []*metadata.FieldMetadata{
		{Name: "id", Type: metadata.FieldTypeUUID, DefaultValue: metadata.Expression("serial")},
	}}

	_, err := svc.Diff(o, []schema.WorkspaceTableStructure{{ColumnName: "id", DataType: "uuid"}})

	assert.ErrorContains(t, err, "note.id")
}

func TestCheckObject_LogsDrift(t *testing.T) {
	db, mock := newMock(t)
	pg := &dialect.PostgresDialect{}
	core, logs := observer.New(zap.WarnLevel)
	svc := reconcile.NewService(db, pg, zap.New(core))

	expectDescribe(mock, pg, "workspace_a", "companies").WillReturnRows(
		sqlmock.NewRows(structureColumns).
			AddRow("workspace_a", "companies", "id", "uuid", "NO", "uuid_generate_v4()", "TRUE", "FALSE", "FALSE"),
	)

	res, err := svc.CheckObject(context.Background(), "workspace_a", company())

	require.NoError(t, err)
	assert.False(t, res.Healthy())
	assert.Equal(t, "companies", res.Table)
	assert.Equal(t, 1, res.Columns)
	assert.Len(t, res.Issues, 3)
	assert.Equal(t, 3, logs.FilterMessage("workspace drift").Len())
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCheckObject_DescribeError(t *testing.T) {
	db, mock := newMock(t)
	pg := &dialect.PostgresDialect{}
	svc := reconcile.NewService(db, pg, nil)
	boom := errors.New("too many connections")

	expectDescribe(mock, pg, "workspace_a", "companies").WillReturnError(boom)

	_, err := svc.CheckObject(context.Background(), "workspace_a", company())

	assert.ErrorIs(t, err, boom)
	assert.ErrorContains(t, err, "workspace_a.companies")
}

func TestCheckWorkspace(t *testing.T) {
	db, mock := newMock(t)
	mock.MatchExpectationsInOrder(false)
	pg := &dialect.PostgresDialect{}
	svc := reconcile.NewService(db, pg, nil)

	ws := &metadata.Workspace{Schema: "workspace_a"}
	tables := []string{"alpha", "bravo", "charlie", "delta", "echo"}
	for _, table := range tables {
		ws.Objects = append(ws.Objects, &metadata.ObjectMetadata{
			NamePlural: table,
			Fields:     []*metadata.FieldMetadata{{Name: "id", Type: metadata.FieldTypeUUID}},
		})
		rows := sqlmock.NewRows(structureColumns)
		if table != "charlie" {
			rows.AddRow("workspace_a", table, "id", "uuid", "NO", nil, "TRUE", "FALSE", "FALSE")
		}
		expectDescribe(mock, pg, "workspace_a", table).WillReturnRows(rows)
	}

	var progress atomic.Int32
	results, err := svc.CheckWorkspace(context.Background(), ws, reconcile.CheckOptions{
		Concurrency: 3,
		OnProgress:  func() { progress.Add(1) },
	})

	require.NoError(t, err)
	require.Len(t, results, len(tables))
	for i, table := range tables {
		assert.Equal(t, table, results[i].Table)
		assert.Equal(t, table != "charlie", results[i].Healthy(), table)
	}
	assert.Equal(t, int32(len(tables)), progress.Load())
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCheckWorkspace_FirstErrorWins(t *testing.T) {
	db, mock := newMock(t)
	pg := &dialect.PostgresDialect{}
	svc := reconcile.NewService(db, pg, nil)
	boom := errors.New("connection refused")

	ws := &metadata.Workspace{Schema: "workspace_a", Objects: []*metadata.ObjectMetadata{
		{NamePlural: "alpha"},
	}}
	expectDescribe(mock, pg, "workspace_a", "alpha").WillReturnError(boom)

	results, err := svc.CheckWorkspace(context.Background(), ws, reconcile.CheckOptions{})

	assert.Nil(t, results)
	assert.ErrorIs(t, err, boom)
}

func TestIssueString(t *testing.T) {
	assert.Equal(t, "MISSING_TABLE companies", reconcile.Issue{Kind: reconcile.IssueMissingTable, Table: "companies"}.String())
	assert.Equal(t,
		"COLUMN_TYPE_MISMATCH companies.status (expected: company_status_enum, actual: text)",
		reconcile.Issue{Kind: reconcile.IssueColumnType, Table: "companies", Column: "status", Expected: "company_status_enum", Actual: "text"}.String())
}
