package schema

// WorkspaceTableStructure describes one physical column as the database reports it.
// It is a snapshot taken at query time and is never cached.
type WorkspaceTableStructure struct {
	TableSchema   string  `json:"tableSchema" yaml:"tableSchema"`
	TableName     string  `json:"tableName" yaml:"tableName"`
	ColumnName    string  `json:"columnName" yaml:"columnName"`
	DataType      string  `json:"dataType" yaml:"dataType"`
	IsNullable    bool    `json:"isNullable" yaml:"isNullable"`
	ColumnDefault *string `json:"columnDefault" yaml:"columnDefault"`
	IsPrimaryKey  bool    `json:"isPrimaryKey" yaml:"isPrimaryKey"`
	IsForeignKey  bool    `json:"isForeignKey" yaml:"isForeignKey"`
	IsUnique      bool    `json:"isUnique" yaml:"isUnique"`
}

// Columns indexes a table description by column name.
func Columns(rows []WorkspaceTableStructure) map[string]WorkspaceTableStructure {
	out := make(map[string]WorkspaceTableStructure, len(rows))
	for _, r := range rows {
		out[r.ColumnName] = r
	}
	return out
}
