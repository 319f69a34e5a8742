package cmd

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"
)

const (
	outputTable = "table"
	outputJSON  = "json"
	outputYAML  = "yaml"
)

// writeStructured renders v as json or yaml. The table format is command specific.
func writeStructured(w io.Writer, format string, v any) error {
	switch format {
	case outputJSON:
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(v)
	case outputYAML:
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(v); err != nil {
			return err
		}
		return enc.Close()
	default:
		return fmt.Errorf("unsupported output format %q (use table, json or yaml)", format)
	}
}

func mark(b bool) string {
	if b {
		return "Y"
	}
	return "-"
}

func deref(s *string) string {
	if s == nil {
		return "NULL"
	}
	return *s
}

// workspaceSchema returns --schema when given, else workspace.schema from env or config.
func workspaceSchema(cmd *cobra.Command) string {
	if f := cmd.Flags().Lookup("schema"); f != nil && f.Changed {
		return f.Value.String()
	}
	return viper.GetString("workspace.schema")
}
