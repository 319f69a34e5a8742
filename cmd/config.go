package cmd

import (
	"fmt"
	"strings"

	"github.com/spf13/viper"
)

type DBConfig struct {
	Name   string `mapstructure:"name"`
	Driver string `mapstructure:"driver"`
	DSN    string `mapstructure:"dsn"`
	Active bool   `mapstructure:"active"`
}

// GetActiveDBConfig returns the currently active database configuration.
func GetActiveDBConfig() (*DBConfig, error) {
	var configs []DBConfig

	if err := viper.UnmarshalKey("databases", &configs); err != nil {
		return nil, fmt.Errorf("failed to parse databases config: %w", err)
	}

	var activeConfig *DBConfig
	count := 0

	for i := range configs {
		if configs[i].Active {
			activeConfig = &configs[i]
			count++
		}
	}

	if count == 0 {
		return nil, fmt.Errorf("no active database found in config (set active: true)")
	}
	if count > 1 {
		return nil, fmt.Errorf("multiple active databases found (only one can be active)")
	}

	return activeConfig, nil
}

// resolveDBConfig prefers the active entry of "databases" and falls back to
// database.dsn / database.driver (flag > env > config file).
func resolveDBConfig() (*DBConfig, error) {
	if viper.IsSet("databases") {
		return GetActiveDBConfig()
	}

	connStr := viper.GetString("database.dsn")
	if connStr == "" {
		return nil, fmt.Errorf("database.dsn is required (via flag, env or config)")
	}

	return &DBConfig{
		Name:   "default",
		Driver: detectDriver(viper.GetString("database.driver"), connStr),
		DSN:    connStr,
		Active: true,
	}, nil
}

// detectDriver honours an explicit driver and otherwise guesses from the DSN.
func detectDriver(explicit, dsn string) string {
	if explicit != "" {
		return explicit
	}
	switch {
	case strings.HasPrefix(dsn, "sqlserver://"):
		return "sqlserver"
	case strings.HasPrefix(dsn, "oracle://"):
		return "oracle"
	case strings.Contains(dsn, "postgres") || strings.Contains(dsn, "sslmode"):
		return "postgres"
	default:
		return "mysql"
	}
}
