package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/pgsplit/pgsplit/internal/statement"
)

var (
	splitFile string
	splitDrop bool
)

var SplitCmd = &cobra.Command{
	Use:   "split",
	Short: "Decompose a routine statement",
	Long: `Split a CREATE FUNCTION or CREATE PROCEDURE statement into signature,
returns clause, schema and verbatim body, or synthesize the matching DROP
statement.`,
	RunE: runSplit,
}

func init() {
	SplitCmd.Flags().StringVar(&splitFile, "file", "", "Path to a file holding the statement (default: stdin)")
	SplitCmd.Flags().BoolVar(&splitDrop, "drop", false, "Print the synthesized DROP statement instead of the components")
}

func runSplit(cmd *cobra.Command, args []string) error {
	sql, err := readInput(splitFile)
	if err != nil {
		return err
	}

	routine, err := statement.SplitRoutine(sql)
	if err != nil {
		return err
	}

	if splitDrop {
		drop, err := statement.RenderDropStatement(sql, routine.IsProcedure)
		if err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), drop)
		return nil
	}

	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "kind:      %s\n", routine.Kind())
	fmt.Fprintf(out, "schema:    %s\n", routine.Schema)
	fmt.Fprintf(out, "signature: %s\n", routine.Signature)
	fmt.Fprintf(out, "returns:   %s\n", routine.Returns)
	fmt.Fprintf(out, "body:      %s\n", routine.Body)
	return nil
}
