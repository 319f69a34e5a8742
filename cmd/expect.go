package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"workspace-health/internal/metadata"
	"workspace-health/internal/reconcile"
)

var (
	expectType    string
	expectField   string
	expectObject  string
	expectDefault string
	expectOutput  string
)

// Expectation is what a field's column should look like in the workspace schema.
type Expectation struct {
	FieldType  metadata.FieldType `json:"fieldType" yaml:"fieldType"`
	ColumnType string             `json:"columnType" yaml:"columnType"`
	Default    *string            `json:"default" yaml:"default"`
}

var expectCmd = &cobra.Command{
	Use:   "expect",
	Short: "Print the column type and default a field should materialize into",
	Example: `  workspace-health expect --type SELECT --object company --field status
  workspace-health expect --type UUID --field id --default '{"type":"uuid"}'
  workspace-health expect --type NUMBER --field employees --default '{"value":42}' --driver mysql`,
	Annotations: map[string]string{offlineAnnotation: "true"},
	RunE: func(cmd *cobra.Command, args []string) error {
		ft, err := metadata.ParseFieldType(expectType)
		if err != nil {
			return err
		}

		dv, err := metadata.ParseDefaultValue([]byte(expectDefault))
		if err != nil {
			return err
		}

		svc := reconcile.NewService(nil, Dialect, Logger)

		columnType, err := svc.ExpectedColumnType(ft, expectField, expectObject)
		if err != nil {
			return err
		}
		def, err := svc.ExpectedDefault(ft, dv)
		if err != nil {
			return err
		}

		e := Expectation{FieldType: ft, ColumnType: columnType, Default: def}
		if expectOutput != outputTable {
			return writeStructured(cmd.OutOrStdout(), expectOutput, e)
		}

		fmt.Fprintf(cmd.OutOrStdout(), "Dialect : %s\n", Dialect.Name())
		fmt.Fprintf(cmd.OutOrStdout(), "Type    : %s\n", e.ColumnType)
		fmt.Fprintf(cmd.OutOrStdout(), "Default : %s\n", deref(e.Default))
		return nil
	},
}

func init() {
	RootCmd.AddCommand(expectCmd)

	expectCmd.Flags().StringVar(&expectType, "type", "", "field metadata type, e.g. TEXT, SELECT, MULTI_SELECT")
	expectCmd.Flags().StringVar(&expectField, "field", "", "field name")
	expectCmd.Flags().StringVar(&expectObject, "object", "", "singular object name (used by enum types)")
	expectCmd.Flags().StringVar(&expectDefault, "default", "", `default value as JSON: {"type":"uuid"} or {"value":...}`)
	expectCmd.Flags().StringVarP(&expectOutput, "output", "o", outputTable, "output format: table, json, yaml")

	expectCmd.MarkFlagRequired("type")
	expectCmd.MarkFlagRequired("field")
}
