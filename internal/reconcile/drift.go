package reconcile

import (
	"context"
	"fmt"
	"strings"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"workspace-health/internal/metadata"
	"workspace-health/internal/schema"
)

type IssueKind string

const (
	IssueMissingTable        IssueKind = "MISSING_TABLE"
	IssueMissingColumn       IssueKind = "MISSING_COLUMN"
	IssueColumnType          IssueKind = "COLUMN_TYPE_MISMATCH"
	IssueColumnNullability   IssueKind = "COLUMN_NULLABILITY_MISMATCH"
	IssueColumnDefault       IssueKind = "COLUMN_DEFAULT_MISMATCH"
	IssueMissingForeignKey   IssueKind = "MISSING_FOREIGN_KEY"
	IssueColumnNotInMetadata IssueKind = "UNKNOWN_COLUMN"
)

// Issue is one difference between declared metadata and the physical table.
type Issue struct {
	Kind     IssueKind `json:"kind" yaml:"kind"`
	Table    string    `json:"table" yaml:"table"`
	Column   string    `json:"column,omitempty" yaml:"column,omitempty"`
	Expected string    `json:"expected,omitempty" yaml:"expected,omitempty"`
	Actual   string    `json:"actual,omitempty" yaml:"actual,omitempty"`
}

func (i Issue) String() string {
	if i.Column == "" {
		return fmt.Sprintf("%s %s", i.Kind, i.Table)
	}
	return fmt.Sprintf("%s %s.%s (expected: %s, actual: %s)", i.Kind, i.Table, i.Column, i.Expected, i.Actual)
}

// Result is the outcome of checking one object.
type Result struct {
	Object  string  `json:"object" yaml:"object"`
	Table   string  `json:"table" yaml:"table"`
	Columns int     `json:"columns" yaml:"columns"`
	Issues  []Issue `json:"issues" yaml:"issues"`
}

func (r Result) Healthy() bool {
	return len(r.Issues) == 0
}

// Diff compares an object's fields with a table description. Errors are configuration
// errors in the metadata itself (unmapped type, unknown default expression).
func (s *Service) Diff(o *metadata.ObjectMetadata, cols []schema.WorkspaceTableStructure) ([]Issue, error) {
	table := o.TableName()
	if len(cols) == 0 {
		return []Issue{{Kind: IssueMissingTable, Table: table}}, nil
	}

	issues := []Issue{}
	byName := schema.Columns(cols)
	declared := make(map[string]bool, len(o.Fields))

	for _, f := range o.Fields {
		name := f.ColumnName()
		declared[name] = true

		col, ok := byName[name]
		if !ok {
			issues = append(issues, Issue{Kind: IssueMissingColumn, Table: table, Column: name})
			continue
		}

		expectedType, err := s.ExpectedColumnType(f.Type, f.Name, o.Singular())
		if err != nil {
			return nil, fmt.Errorf("%s.%s: %w", o.Singular(), f.Name, err)
		}
		if !strings.EqualFold(expectedType, col.DataType) {
			issues = append(issues, Issue{
				Kind: IssueColumnType, Table: table, Column: name,
				Expected: expectedType, Actual: col.DataType,
			})
		}

		if f.IsNullable != col.IsNullable {
			issues = append(issues, Issue{
				Kind: IssueColumnNullability, Table: table, Column: name,
				Expected: nullability(f.IsNullable), Actual: nullability(col.IsNullable),
			})
		}

		expectedDefault, err := s.ExpectedDefault(f.Type, f.DefaultValue)
		if err != nil {
			return nil, fmt.Errorf("%s.%s: %w", o.Singular(), f.Name, err)
		}
		if !s.defaultsMatch(expectedDefault, col.ColumnDefault) {
			issues = append(issues, Issue{
				Kind: IssueColumnDefault, Table: table, Column: name,
				Expected: orNone(expectedDefault), Actual: orNone(col.ColumnDefault),
			})
		}

		if f.Type == metadata.FieldTypeRelation && !col.IsForeignKey {
			issues = append(issues, Issue{Kind: IssueMissingForeignKey, Table: table, Column: name})
		}
	}

	for _, col := range cols {
		if !declared[col.ColumnName] {
			issues = append(issues, Issue{
				Kind: IssueColumnNotInMetadata, Table: table, Column: col.ColumnName,
				Actual: col.DataType,
			})
		}
	}

	return issues, nil
}

// defaultsMatch treats an explicit NULL default the same as no default.
func (s *Service) defaultsMatch(expected, actual *string) bool {
	e, a := "", ""
	if expected != nil {
		e = s.dialect.ComparableDefault(*expected)
	}
	if actual != nil {
		a = s.dialect.ComparableDefault(*actual)
	}
	if strings.EqualFold(e, "null") {
		e = ""
	}
	if strings.EqualFold(a, "null") {
		a = ""
	}
	return e == a
}

func nullability(nullable bool) string {
	if nullable {
		return "NULL"
	}
	return "NOT NULL"
}

func orNone(s *string) string {
	if s == nil {
		return "<none>"
	}
	return *s
}

// CheckObject introspects the object's table and diffs it against the declared fields.
func (s *Service) CheckObject(ctx context.Context, schemaName string, o *metadata.ObjectMetadata) (Result, error) {
	cols, err := s.DescribeTable(ctx, schemaName, o.TableName())
	if err != nil {
		return Result{}, fmt.Errorf("failed to describe %s.%s: %w", schemaName, o.TableName(), err)
	}

	issues, err := s.Diff(o, cols)
	if err != nil {
		return Result{}, err
	}

	for _, issue := range issues {
		s.logger.Warn("workspace drift",
			zap.String("kind", string(issue.Kind)),
			zap.String("schema", schemaName),
			zap.String("table", issue.Table),
			zap.String("column", issue.Column),
			zap.String("expected", issue.Expected),
			zap.String("actual", issue.Actual),
		)
	}

	return Result{
		Object:  o.Singular(),
		Table:   o.TableName(),
		Columns: len(cols),
		Issues:  issues,
	}, nil
}

type CheckOptions struct {
	// Concurrency bounds the number of tables described at once; <= 0 means 1.
	Concurrency int
	// OnProgress is called once per checked object, from any goroutine.
	OnProgress func()
}

// CheckWorkspace checks every object of the workspace. Results keep the order of
// ws.Objects. The first error cancels the remaining checks.
func (s *Service) CheckWorkspace(ctx context.Context, ws *metadata.Workspace, opts CheckOptions) ([]Result, error) {
	if opts.Concurrency <= 0 {
		opts.Concurrency = 1
	}

	results := make([]Result, len(ws.Objects))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(opts.Concurrency)

	for i, o := range ws.Objects {
		g.Go(func() error {
			res, err := s.CheckObject(gctx, ws.Schema, o)
			if err != nil {
				return err
			}
			results[i] = res
			if opts.OnProgress != nil {
				opts.OnProgress()
			}
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}
	return results, nil
}
