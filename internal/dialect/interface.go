package dialect

// TypeSpec is the only input NormalizeType reads.
type TypeSpec struct {
	Type string
}

// DefaultSpec is the only input NormalizeDefault reads: the abstract column type,
// the raw literal and whether the column is an array.
type DefaultSpec struct {
	Type    string
	Default any
	IsArray bool
}

// Normalizer turns abstract column types and default literals into the text a given
// engine reports and accepts.
type Normalizer interface {
	NormalizeType(spec TypeSpec) string
	// NormalizeDefault returns nil when the column has no default.
	NormalizeDefault(spec DefaultSpec) *string
	// Expression returns the engine's call for a known expression id.
	Expression(id string) (string, bool)
}

// Dialect abstracts database-specific operations.
type Dialect interface {
	Normalizer

	Name() string

	// Metadata Queries (Schema Introspection)
	TableStructureQuery(schema, table string) (string, []any)
	GetSchemaName(input string) string

	// Reconciliation helpers
	EnumType(name string) string
	ArrayType(elem string) string
	ComparableDefault(def string) string
}
