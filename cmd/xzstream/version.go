package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/discochess/xzstream/internal/liblzma"
)

// version is set at build time with -ldflags "-X main.version=...".
var version = "dev"

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the xzstream and liblzma versions",
	Args:  cobra.NoArgs,
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Fprintf(cmd.OutOrStdout(), "xzstream %s (liblzma %s)\n", version, liblzma.Version())
	},
}

func init() {
	rootCmd.AddCommand(versionCmd)
}
