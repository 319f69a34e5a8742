package cmd

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"workspace-health/internal/schema"
)

var (
	describeTable  string
	describeOutput string
)

var describeCmd = &cobra.Command{
	Use:   "describe",
	Short: "Describe the columns of one workspace table",
	Example: `  workspace-health describe --schema workspace_1wgvd1injqtife6y4rvfbu3h5 --table company
  workspace-health describe --table person -o json`,
	RunE: func(cmd *cobra.Command, args []string) error {
		if describeTable == "" {
			return fmt.Errorf("--table is required")
		}

		cols, err := Service.DescribeTable(cmd.Context(), workspaceSchema(cmd), describeTable)
		if err != nil {
			return err
		}

		if describeOutput == outputTable {
			return writeColumnTable(cmd.OutOrStdout(), describeTable, cols)
		}
		return writeStructured(cmd.OutOrStdout(), describeOutput, cols)
	},
}

func writeColumnTable(w io.Writer, table string, cols []schema.WorkspaceTableStructure) error {
	if len(cols) == 0 {
		_, err := fmt.Fprintf(w, "Table %s not found\n", table)
		return err
	}

	fmt.Fprintf(w, "%-30s %-28s %-4s %-3s %-3s %-3s %s\n", "COLUMN", "TYPE", "NULL", "PK", "FK", "UQ", "DEFAULT")
	for _, c := range cols {
		fmt.Fprintf(w, "%-30s %-28s %-4s %-3s %-3s %-3s %s\n",
			c.ColumnName, c.DataType, mark(c.IsNullable), mark(c.IsPrimaryKey),
			mark(c.IsForeignKey), mark(c.IsUnique), deref(c.ColumnDefault))
	}
	return nil
}

func init() {
	RootCmd.AddCommand(describeCmd)

	describeCmd.Flags().String("schema", "", "workspace schema (defaults to the engine's default schema)")
	describeCmd.Flags().StringVarP(&describeTable, "table", "t", "", "table to describe")
	describeCmd.Flags().StringVarP(&describeOutput, "output", "o", outputTable, "output format: table, json, yaml")
}
