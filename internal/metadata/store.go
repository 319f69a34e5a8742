package metadata

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/uptrace/bun"
	"github.com/uptrace/bun/dialect/pgdialect"
	"github.com/uptrace/bun/driver/pgdriver"
)

type dataSourceRow struct {
	bun.BaseModel `bun:"table:dataSource,alias:ds"`

	ID          uuid.UUID `bun:"id,pk,type:uuid"`
	Schema      string    `bun:"schema"`
	WorkspaceID uuid.UUID `bun:"workspaceId,type:uuid"`
}

type objectMetadataRow struct {
	bun.BaseModel `bun:"table:objectMetadata,alias:om"`

	ID              uuid.UUID `bun:"id,pk,type:uuid"`
	NameSingular    string    `bun:"nameSingular"`
	NamePlural      string    `bun:"namePlural"`
	TargetTableName string    `bun:"targetTableName"`
	WorkspaceID     uuid.UUID `bun:"workspaceId,type:uuid"`
}

type fieldMetadataRow struct {
	bun.BaseModel `bun:"table:fieldMetadata,alias:fm"`

	ID               uuid.UUID       `bun:"id,pk,type:uuid"`
	ObjectMetadataID uuid.UUID       `bun:"objectMetadataId,type:uuid"`
	Name             string          `bun:"name"`
	Type             string          `bun:"type"`
	IsNullable       bool            `bun:"isNullable"`
	DefaultValue     json.RawMessage `bun:"defaultValue,type:jsonb"`
	WorkspaceID      uuid.UUID       `bun:"workspaceId,type:uuid"`
}

// Store reads workspace metadata from the "metadata" schema of the core database.
type Store struct {
	db *bun.DB
}

// NewStore wraps an existing connection.
func NewStore(sqldb *sql.DB) *Store {
	return &Store{db: bun.NewDB(sqldb, pgdialect.New())}
}

// OpenStore opens a dedicated connection to the metadata database.
func OpenStore(dsn string) *Store {
	sqldb := sql.OpenDB(pgdriver.NewConnector(pgdriver.WithDSN(dsn)))
	sqldb.SetMaxOpenConns(4)
	sqldb.SetMaxIdleConns(2)
	return NewStore(sqldb)
}

func (s *Store) Close() error {
	return s.db.Close()
}

// LoadWorkspace assembles the declared objects and fields of one workspace.
func (s *Store) LoadWorkspace(ctx context.Context, workspaceID uuid.UUID) (*Workspace, error) {
	var ds dataSourceRow
	err := s.db.NewSelect().
		Model(&ds).
		ModelTableExpr(`"metadata"."dataSource" AS "ds"`).
		Where(`"ds"."workspaceId" = ?`, workspaceID).
		Limit(1).
		Scan(ctx)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("no data source for workspace %s", workspaceID)
		}
		return nil, fmt.Errorf("failed to query data source: %w", err)
	}

	var objects []objectMetadataRow
	err = s.db.NewSelect().
		Model(&objects).
		ModelTableExpr(`"metadata"."objectMetadata" AS "om"`).
		Where(`"om"."workspaceId" = ?`, workspaceID).
		OrderExpr(`"om"."nameSingular"`).
		Scan(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to query object metadata: %w", err)
	}

	var fields []fieldMetadataRow
	err = s.db.NewSelect().
		Model(&fields).
		ModelTableExpr(`"metadata"."fieldMetadata" AS "fm"`).
		Where(`"fm"."workspaceId" = ?`, workspaceID).
		OrderExpr(`"fm"."name"`).
		Scan(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to query field metadata: %w", err)
	}

	ws := &Workspace{ID: workspaceID, Schema: ds.Schema}
	byID := make(map[uuid.UUID]*ObjectMetadata, len(objects))
	for _, row := range objects {
		o := &ObjectMetadata{
			ID:              row.ID,
			NameSingular:    row.NameSingular,
			NamePlural:      row.NamePlural,
			TargetTableName: row.TargetTableName,
		}
		byID[row.ID] = o
		ws.Objects = append(ws.Objects, o)
	}

	for _, row := range fields {
		o, ok := byID[row.ObjectMetadataID]
		if !ok {
			continue
		}
		ft, err := ParseFieldType(row.Type)
		if err != nil {
			return nil, fmt.Errorf("field %s.%s: %w", o.Singular(), row.Name, err)
		}
		dv, err := ParseDefaultValue(row.DefaultValue)
		if err != nil {
			return nil, fmt.Errorf("field %s.%s: %w", o.Singular(), row.Name, err)
		}
		o.Fields = append(o.Fields, &FieldMetadata{
			ID:           row.ID,
			Name:         row.Name,
			Type:         ft,
			IsNullable:   row.IsNullable,
			DefaultValue: dv,
		})
	}

	return ws, nil
}
