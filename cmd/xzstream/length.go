package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/discochess/xzstream/internal/progress"
)

var lengthCmd = &cobra.Command{
	Use:   "length NAME...",
	Short: "Print the uncompressed size of xz objects",
	Long: `Print the total uncompressed size of each object, read from its stream
footers and indexes. Nothing is decoded.`,
	Args: cobra.MinimumNArgs(1),
	RunE: runLength,
}

var lengthHuman bool

func init() {
	lengthCmd.Flags().BoolVarP(&lengthHuman, "human", "H", false, "print sizes in KB, MB, ...")
	rootCmd.AddCommand(lengthCmd)
}

func runLength(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()

	client, err := newClient(ctx, nil)
	if err != nil {
		return err
	}
	defer client.Close()

	out := cmd.OutOrStdout()
	for _, name := range args {
		n, err := client.Length(ctx, name)
		if err != nil {
			return err
		}
		if lengthHuman {
			fmt.Fprintf(out, "%s\t%s\n", progress.FormatBytes(n), name)
		} else {
			fmt.Fprintf(out, "%d\t%s\n", n, name)
		}
	}
	return nil
}
