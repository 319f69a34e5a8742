package metadata_test

import (
	"context"
	"errors"
	"regexp"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"workspace-health/internal/metadata"
)

func newStore(t *testing.T) (*metadata.Store, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return metadata.NewStore(db), mock
}

func TestStore_LoadWorkspace(t *testing.T) {
	store, mock := newStore(t)
	workspaceID := uuid.New()
	companyID := uuid.New()
	personID := uuid.New()

	mock.ExpectQuery(regexp.QuoteMeta(`FROM "metadata"."dataSource" AS "ds"`)).
		WillReturnRows(sqlmock.NewRows([]string{"id", "schema", "workspaceId"}).
			AddRow(uuid.NewString(), "workspace_abc", workspaceID.String()))

	mock.ExpectQuery(regexp.QuoteMeta(`FROM "metadata"."objectMetadata" AS "om"`)).
		WillReturnRows(sqlmock.NewRows([]string{"id", "nameSingular", "namePlural", "targetTableName", "workspaceId"}).
			AddRow(companyID.String(), "company", "companies", "", workspaceID.String()).
			AddRow(personID.String(), "person", "people", "person", workspaceID.String()))

	mock.ExpectQuery(regexp.QuoteMeta(`FROM "metadata"."fieldMetadata" AS "fm"`)).
		WillReturnRows(sqlmock.NewRows([]string{"id", "objectMetadataId", "name", "type", "isNullable", "defaultValue", "workspaceId"}).
			AddRow(uuid.NewString(), companyID.String(), "id", "UUID", false, []byte(`{"type":"uuid"}`), workspaceID.String()).
			AddRow(uuid.NewString(), companyID.String(), "status", "SELECT", false, []byte(`{"value":"OPEN"}`), workspaceID.String()).
			AddRow(uuid.NewString(), personID.String(), "company", "RELATION", true, nil, workspaceID.String()).
			AddRow(uuid.NewString(), uuid.NewString(), "orphan", "TEXT", true, nil, workspaceID.String()))

	ws, err := store.LoadWorkspace(context.Background(), workspaceID)
	require.NoError(t, err)
	require.NoError(t, mock.ExpectationsWereMet())

	assert.Equal(t, workspaceID, ws.ID)
	assert.Equal(t, "workspace_abc", ws.Schema)
	require.Len(t, ws.Objects, 2)

	company, person := ws.Objects[0], ws.Objects[1]
	assert.Equal(t, "companies", company.TableName())
	require.Len(t, company.Fields, 2)
	assert.Equal(t, metadata.Expression("uuid"), company.Fields[0].DefaultValue)
	assert.Equal(t, metadata.FieldTypeSelect, company.Fields[1].Type)
	assert.Equal(t, metadata.Literal("OPEN"), company.Fields[1].DefaultValue)

	assert.Equal(t, "person", person.TableName())
	require.Len(t, person.Fields, 1)
	assert.Equal(t, "companyId", person.Fields[0].ColumnName())
	assert.True(t, person.Fields[0].IsNullable)
	assert.Nil(t, person.Fields[0].DefaultValue)
}

func TestStore_LoadWorkspace_NoDataSource(t *testing.T) {
	store, mock := newStore(t)
	mock.ExpectQuery(regexp.QuoteMeta(`FROM "metadata"."dataSource" AS "ds"`)).
		WillReturnRows(sqlmock.NewRows([]string{"id", "schema", "workspaceId"}))

	_, err := store.LoadWorkspace(context.Background(), uuid.New())

	assert.ErrorContains(t, err, "no data source")
}

func TestStore_LoadWorkspace_QueryError(t *testing.T) {
	store, mock := newStore(t)
	boom := errors.New("relation \"metadata.objectMetadata\" does not exist")

	mock.ExpectQuery(regexp.QuoteMeta(`FROM "metadata"."dataSource" AS "ds"`)).
		WillReturnRows(sqlmock.NewRows([]string{"id", "schema", "workspaceId"}).
			AddRow(uuid.NewString(), "workspace_abc", uuid.NewString()))
	mock.ExpectQuery(regexp.QuoteMeta(`FROM "metadata"."objectMetadata" AS "om"`)).
		WillReturnError(boom)

	_, err := store.LoadWorkspace(context.Background(), uuid.New())

	assert.ErrorIs(t, err, boom)
}

func TestStore_LoadWorkspace_UnknownFieldType(t *testing.T) {
	store, mock := newStore(t)
	objectID := uuid.New()

	mock.ExpectQuery(regexp.QuoteMeta(`FROM "metadata"."dataSource" AS "ds"`)).
		WillReturnRows(sqlmock.NewRows([]string{"id", "schema", "workspaceId"}).
			AddRow(uuid.NewString(), "workspace_abc", uuid.NewString()))
	mock.ExpectQuery(regexp.QuoteMeta(`FROM "metadata"."objectMetadata" AS "om"`)).
		WillReturnRows(sqlmock.NewRows([]string{"id", "nameSingular", "namePlural", "targetTableName", "workspaceId"}).
			AddRow(objectID.String(), "site", "sites", "", uuid.NewString()))
	mock.ExpectQuery(regexp.QuoteMeta(`FROM "metadata"."fieldMetadata" AS "fm"`)).
		WillReturnRows(sqlmock.NewRows([]string{"id", "objectMetadataId", "name", "type", "isNullable", "defaultValue", "workspaceId"}).
			AddRow(uuid.NewString(), objectID.String(), "shape", "GEOMETRY", true, nil, uuid.NewString()))

	_, err := store.LoadWorkspace(context.Background(), uuid.New())

	assert.ErrorContains(t, err, "site.shape")
}
