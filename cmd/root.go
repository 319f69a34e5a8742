package cmd

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"

	"workspace-health/internal/catalog"
	"workspace-health/internal/dialect"
	"workspace-health/internal/logging"
	"workspace-health/internal/reconcile"
)

// offlineAnnotation marks commands that never open a database connection.
const offlineAnnotation = "offline"

var (
	cfgFile string
	DB      *sql.DB
	Dialect dialect.Dialect
	Service *reconcile.Service
	Logger  = zap.NewNop()
)

var RootCmd = &cobra.Command{
	Use:   "workspace-health",
	Short: "Check workspace tables against their object and field metadata",
	Long: `workspace-health maps workspace field metadata onto column types and defaults,
describes the live tables of a workspace schema and reports drift between the two.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		// An unmapped field type is a deployment error: refuse to run at all.
		if err := catalog.Validate(); err != nil {
			return err
		}

		logger, err := logging.New(viper.GetString("log.level"), viper.GetString("log.format"))
		if err != nil {
			return err
		}
		Logger = logger

		if cmd.Annotations[offlineAnnotation] == "true" {
			Dialect, err = dialect.GetDialect(detectDriver(viper.GetString("database.driver"), "postgres"))
			return err
		}

		config, err := resolveDBConfig()
		if err != nil {
			return err
		}

		Dialect, err = dialect.GetDialect(config.Driver)
		if err != nil {
			return err
		}

		DB, err = sql.Open(config.Driver, config.DSN)
		if err != nil {
			return fmt.Errorf("failed to open db: %w", err)
		}

		ctx, cancel := context.WithTimeout(cmd.Context(), 10*time.Second)
		defer cancel()
		if err := DB.PingContext(ctx); err != nil {
			return fmt.Errorf("failed to connect to db: %w", err)
		}

		// MySQL has no default schema: fall back to the connected database.
		if Dialect.Name() == "mysql" && viper.GetString("workspace.schema") == "" {
			var current sql.NullString
			if err := DB.QueryRowContext(ctx, "SELECT DATABASE()").Scan(&current); err == nil && current.Valid {
				viper.Set("workspace.schema", current.String)
			}
		}

		Logger.Debug("connected", zap.String("name", config.Name), zap.String("driver", config.Driver))
		Service = reconcile.NewService(DB, Dialect, Logger)
		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		if DB != nil {
			DB.Close()
		}
		_ = Logger.Sync()
	},
}

func Execute() {
	if err := RootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	cobra.OnInitialize(initConfig)

	// Define flags
	RootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is ./workspace-health.yaml)")
	RootCmd.PersistentFlags().String("dsn", "", "Database Source Name (DSN)")
	RootCmd.PersistentFlags().String("driver", "", "database/sql driver: postgres, pgx, mysql, sqlserver, oracle")
	RootCmd.PersistentFlags().String("log-level", "info", "log level: debug, info, warn, error")

	// Bind flags to viper
	viper.BindPFlag("database.dsn", RootCmd.PersistentFlags().Lookup("dsn"))
	viper.BindPFlag("database.driver", RootCmd.PersistentFlags().Lookup("driver"))
	viper.BindPFlag("log.level", RootCmd.PersistentFlags().Lookup("log-level"))

	viper.SetDefault("log.level", "info")
	viper.SetDefault("log.format", "console")
	viper.SetDefault("check.concurrency", 4)
	viper.SetDefault("check.timeout", 30*time.Second)
}

// initConfig reads in config file and ENV variables if set.
func initConfig() {
	if cfgFile != "" {
		// Use config file from the flag.
		viper.SetConfigFile(cfgFile)
	} else {
		// 1. Executable Directory (Priority 1)
		ex, err := os.Executable()
		if err == nil {
			exePath := filepath.Dir(ex)
			viper.AddConfigPath(exePath)
		}

		// 2. Current Directory (Priority 2)
		viper.AddConfigPath(".")

		viper.SetConfigName("workspace-health")
		viper.SetConfigType("yaml")
	}

	viper.SetEnvPrefix("WORKSPACE_HEALTH")
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	viper.AutomaticEnv() // read in environment variables that match

	// If a config file is found, read it in.
	if err := viper.ReadInConfig(); err == nil {
		fmt.Fprintln(os.Stderr, "Using config file:", viper.ConfigFileUsed())
	}
}
