package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/pgsplit/pgsplit/internal/config"
	"github.com/pgsplit/pgsplit/internal/entity"
)

var (
	renderSchema     string
	renderSignature  string
	renderDefinition string
	renderWithData   bool
	renderCascade    bool
	renderMode       string
)

var RenderCmd = &cobra.Command{
	Use:   "render",
	Short: "Render statements from explicit fields",
	Long: `Render create, drop or create-or-replace statements for a materialized
view from explicit component values.`,
	RunE: runRender,
}

func init() {
	RenderCmd.Flags().StringVar(&renderSchema, "schema", "public", "Owning schema")
	RenderCmd.Flags().StringVar(&renderSignature, "signature", "", "View name (required)")
	RenderCmd.Flags().StringVar(&renderDefinition, "definition", "", "SELECT statement (required for create)")
	RenderCmd.Flags().BoolVar(&renderWithData, "with-data", true, "Populate the view at creation")
	RenderCmd.Flags().BoolVar(&renderCascade, "cascade", false, "Render DROP ... CASCADE")
	RenderCmd.Flags().StringVar(&renderMode, "mode", "create", "Statement to render: create, drop, or replace")
	RenderCmd.MarkFlagRequired("signature")
}

func runRender(cmd *cobra.Command, args []string) error {
	view := entity.New(renderSchema, renderSignature, renderDefinition, renderWithData, config.FromEnv())

	out := cmd.OutOrStdout()
	switch renderMode {
	case "create":
		fmt.Fprintln(out, view.CreateStatement())
	case "drop":
		fmt.Fprintln(out, view.DropStatement(renderCascade))
	case "replace":
		// The two statements must run in order inside one transaction.
		for _, stmt := range view.CreateOrReplaceStatements() {
			fmt.Fprintln(out, stmt)
		}
	default:
		return fmt.Errorf("unknown render mode %q (expected create, drop, or replace)", renderMode)
	}
	return nil
}
