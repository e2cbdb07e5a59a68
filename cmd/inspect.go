package cmd

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/pgsplit/pgsplit/internal/config"
	"github.com/pgsplit/pgsplit/internal/inspect"
)

var (
	inspectHost     string
	inspectPort     int
	inspectDB       string
	inspectUser     string
	inspectPassword string
	inspectSchema   string
)

var InspectCmd = &cobra.Command{
	Use:   "inspect",
	Short: "Decompose every routine and materialized view in a database",
	Long: `Connect to a database and print the decomposed components of every
function, procedure and materialized view in the matching schemas.`,
	PreRunE: func(cmd *cobra.Command, args []string) error {
		if config.GetEnvWithDefault("PGDATABASE", "") != "" && !cmd.Flags().Changed("db") {
			inspectDB = config.GetEnvWithDefault("PGDATABASE", "")
		}
		if config.GetEnvWithDefault("PGUSER", "") != "" && !cmd.Flags().Changed("user") {
			inspectUser = config.GetEnvWithDefault("PGUSER", "")
		}
		if config.GetEnvWithDefault("PGPASSWORD", "") != "" && !cmd.Flags().Changed("password") {
			inspectPassword = config.GetEnvWithDefault("PGPASSWORD", "")
		}
		if inspectDB == "" {
			return fmt.Errorf("database name is required (use --db flag or PGDATABASE environment variable)")
		}
		if inspectUser == "" {
			return fmt.Errorf("database user is required (use --user flag or PGUSER environment variable)")
		}
		return nil
	},
	RunE: runInspect,
}

func init() {
	InspectCmd.Flags().StringVar(&inspectHost, "host", "localhost", "Database server host")
	InspectCmd.Flags().IntVar(&inspectPort, "port", 5432, "Database server port")
	InspectCmd.Flags().StringVar(&inspectDB, "db", "", "Database name")
	InspectCmd.Flags().StringVar(&inspectUser, "user", "", "Database user")
	InspectCmd.Flags().StringVar(&inspectPassword, "password", "", "Database password")
	InspectCmd.Flags().StringVar(&inspectSchema, "schema", "%", "Schema name LIKE pattern")
}

func runInspect(cmd *cobra.Command, args []string) error {
	ctx := context.Background()

	db, err := inspect.Connect(&inspect.ConnectionConfig{
		Host:     inspectHost,
		Port:     inspectPort,
		Database: inspectDB,
		User:     inspectUser,
		Password: inspectPassword,
		SSLMode:  "prefer",
	})
	if err != nil {
		return err
	}
	defer db.Close()

	if err := db.PingContext(ctx); err != nil {
		return fmt.Errorf("failed to ping database: %w", err)
	}

	cfg := config.FromEnv()
	result, err := inspect.NewInspector(db, cfg).Inspect(ctx, inspectSchema)
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	for _, view := range result.MaterializedViews {
		fmt.Fprintf(out, "-- %s\n", view.Identity())
		fmt.Fprintln(out, view.CreateStatement())
		fmt.Fprintln(out)
	}
	for _, routine := range result.Routines {
		fmt.Fprintf(out, "-- %s: %s.%s\n", routine.Kind(), routine.Schema, routine.Signature)
		fmt.Fprintln(out, routine.CreateStatement())
		fmt.Fprintln(out)
	}
	return nil
}
