package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/pgsplit/pgsplit/internal/version"
)

var VersionCmd = &cobra.Command{
	Use:   "version",
	Short: "Show version information",
	Long:  "Display the version number of pgsplit",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Printf("pgsplit v%s@%s %s %s\n", version.App(), version.GitCommit, version.Platform(), version.BuildDate)
	},
}
