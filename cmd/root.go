package cmd

import (
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/pgsplit/pgsplit/internal/logger"
	"github.com/pgsplit/pgsplit/internal/version"
)

var Debug bool

var RootCmd = &cobra.Command{
	Use:   "pgsplit",
	Short: "Decompose and re-synthesize PostgreSQL routine and view DDL",
	Long: fmt.Sprintf(`pgsplit splits CREATE FUNCTION/PROCEDURE and CREATE MATERIALIZED VIEW
statements into canonical, diffable components and renders those components
back into executable DDL.

Version: %s %s

Commands:
  split    Decompose a routine statement
  parse    Decompose a materialized view statement
  render   Render statements from explicit fields
  inspect  Decompose every routine and materialized view in a database

Use "pgsplit [command] --help" for more information about a command.`,
		version.App(), version.Platform()),
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		setupLogger()
	},
}

func init() {
	RootCmd.PersistentFlags().BoolVar(&Debug, "debug", false, "Enable debug logging")
	RootCmd.AddCommand(SplitCmd)
	RootCmd.AddCommand(ParseCmd)
	RootCmd.AddCommand(RenderCmd)
	RootCmd.AddCommand(InspectCmd)
	RootCmd.AddCommand(VersionCmd)
}

func setupLogger() {
	level := slog.LevelInfo
	if Debug {
		level = slog.LevelDebug
	}

	opts := &slog.HandlerOptions{
		Level: level,
	}
	handler := slog.NewTextHandler(os.Stderr, opts)
	logger.SetGlobal(slog.New(handler), Debug)
}

// Execute runs the root command
func Execute() {
	if err := RootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

// readInput returns the contents of path, or stdin when path is "-" or empty.
func readInput(path string) (string, error) {
	if path == "" || path == "-" {
		data, err := io.ReadAll(os.Stdin)
		if err != nil {
			return "", fmt.Errorf("failed to read stdin: %w", err)
		}
		return string(data), nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return "", fmt.Errorf("failed to read %s: %w", path, err)
	}
	return string(data), nil
}
