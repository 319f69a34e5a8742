package cmd

import (
	"context"
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/google/uuid"
	"github.com/gosuri/uiprogress"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"

	"workspace-health/internal/metadata"
	"workspace-health/internal/reconcile"
)

var errDriftDetected = errors.New("workspace drift detected")

var checkOutput string

var checkCmd = &cobra.Command{
	Use:   "check",
	Short: "Compare a workspace's metadata with its tables and report drift",
	Example: `  workspace-health check --metadata-file workspace.yaml
  workspace-health check --workspace-id 20202020-1c25-4d02-bf25-6aeccf7ea419 --metadata-dsn postgres://...`,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, cancel := context.WithTimeout(cmd.Context(), viper.GetDuration("check.timeout"))
		defer cancel()

		ws, err := loadWorkspace(ctx)
		if err != nil {
			return err
		}
		if s := workspaceSchema(cmd); s != "" {
			ws.Schema = s
		}

		Logger.Info("checking workspace",
			zap.String("workspace", ws.ID.String()),
			zap.String("schema", ws.Schema),
			zap.Int("objects", len(ws.Objects)),
		)
		start := time.Now()

		opts := reconcile.CheckOptions{Concurrency: viper.GetInt("check.concurrency")}
		var bar *uiprogress.Bar
		if checkOutput == outputTable && len(ws.Objects) > 0 {
			uiprogress.Start()
			bar = uiprogress.AddBar(len(ws.Objects)).AppendCompleted().PrependElapsed()
			bar.PrependFunc(func(b *uiprogress.Bar) string {
				return "Checking: "
			})
			opts.OnProgress = func() { bar.Incr() }
		}

		results, err := Service.CheckWorkspace(ctx, ws, opts)

		if bar != nil {
			uiprogress.Stop()
		}
		if err != nil {
			return err
		}

		if checkOutput == outputTable {
			writeReport(cmd.OutOrStdout(), results)
		} else if err := writeStructured(cmd.OutOrStdout(), checkOutput, results); err != nil {
			return err
		}
		Logger.Info("check done", zap.Duration("elapsed", time.Since(start)))

		for _, r := range results {
			if !r.Healthy() {
				return errDriftDetected
			}
		}
		return nil
	},
}

// loadWorkspace reads metadata from metadata.file when set, else from the metadata
// database for workspace.id.
func loadWorkspace(ctx context.Context) (*metadata.Workspace, error) {
	if path := viper.GetString("metadata.file"); path != "" {
		return metadata.LoadFile(path)
	}

	rawID := viper.GetString("workspace.id")
	if rawID == "" {
		return nil, fmt.Errorf("either --metadata-file or --workspace-id is required")
	}
	id, err := uuid.Parse(rawID)
	if err != nil {
		return nil, fmt.Errorf("invalid workspace id %q: %w", rawID, err)
	}

	var store *metadata.Store
	if dsn := viper.GetString("metadata.dsn"); dsn != "" {
		store = metadata.OpenStore(dsn)
		defer store.Close()
	} else {
		// Metadata lives next to the workspace schemas.
		store = metadata.NewStore(DB)
	}

	return store.LoadWorkspace(ctx, id)
}

func writeReport(w io.Writer, results []reconcile.Result) {
	fmt.Fprintln(w, "\n📊 Workspace Health Report:")
	drift := 0
	for i, r := range results {
		icon := "✓"
		status := "OK"
		if !r.Healthy() {
			icon = "!"
			status = fmt.Sprintf("%d issue(s)", len(r.Issues))
		}
		fmt.Fprintf(w, "[%s] [%02d/%02d] %-30s : %d columns - %s\n",
			icon, i+1, len(results), r.Table, r.Columns, status)
		for _, issue := range r.Issues {
			fmt.Fprintf(w, "    └ %s\n", issue)
		}
		drift += len(r.Issues)
	}
	fmt.Fprintln(w, "--------------------------------------------------")
	fmt.Fprintf(w, "Total Issues: %d\n", drift)
}

func init() {
	RootCmd.AddCommand(checkCmd)

	checkCmd.Flags().String("metadata-file", "", "YAML workspace declaration")
	checkCmd.Flags().String("metadata-dsn", "", "DSN of the metadata database (defaults to the workspace connection)")
	checkCmd.Flags().String("workspace-id", "", "workspace id to load from the metadata database")
	checkCmd.Flags().String("schema", "", "override the workspace schema")
	checkCmd.Flags().Int("concurrency", 4, "tables described at once")
	checkCmd.Flags().Duration("timeout", 30*time.Second, "overall check timeout")
	checkCmd.Flags().StringVarP(&checkOutput, "output", "o", outputTable, "output format: table, json, yaml")

	viper.BindPFlag("metadata.file", checkCmd.Flags().Lookup("metadata-file"))
	viper.BindPFlag("metadata.dsn", checkCmd.Flags().Lookup("metadata-dsn"))
	viper.BindPFlag("workspace.id", checkCmd.Flags().Lookup("workspace-id"))
	viper.BindPFlag("check.concurrency", checkCmd.Flags().Lookup("concurrency"))
	viper.BindPFlag("check.timeout", checkCmd.Flags().Lookup("timeout"))
}
