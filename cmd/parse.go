package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/pgsplit/pgsplit/internal/config"
	"github.com/pgsplit/pgsplit/internal/entity"
)

var (
	parseFile        string
	parseDeclaration bool
)

var ParseCmd = &cobra.Command{
	Use:   "parse",
	Short: "Decompose a materialized view statement",
	Long: `Parse a CREATE MATERIALIZED VIEW statement into schema, signature,
definition and populate flag, or render the declaration that reconstructs it
in a migration source file.`,
	RunE: runParse,
}

func init() {
	ParseCmd.Flags().StringVar(&parseFile, "file", "", "Path to a file holding the statement (default: stdin)")
	ParseCmd.Flags().BoolVar(&parseDeclaration, "declaration", false, "Print the reconstructible declaration instead of the components")
}

func runParse(cmd *cobra.Command, args []string) error {
	sql, err := readInput(parseFile)
	if err != nil {
		return err
	}

	cfg := config.FromEnv()
	view, err := entity.FromSQL(sql, cfg)
	if err != nil {
		return err
	}

	if parseDeclaration {
		fmt.Fprint(cmd.OutOrStdout(), view.RenderDeclaration(cfg))
		return nil
	}

	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "schema:     %s\n", view.Schema)
	fmt.Fprintf(out, "signature:  %s\n", view.Signature)
	fmt.Fprintf(out, "definition: %s\n", view.Definition)
	fmt.Fprintf(out, "with data:  %v\n", view.WithData)
	return nil
}
