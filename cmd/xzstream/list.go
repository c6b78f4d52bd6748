package main

import (
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/discochess/xzstream"
	"github.com/discochess/xzstream/internal/progress"
)

var listCmd = &cobra.Command{
	Use:   "list [NAME...]",
	Short: "Summarize xz objects",
	Long: `Show streams, blocks, sizes, ratio and integrity check of each object,
like xz --list. With no names, every .xz file under a directory source is
listed.`,
	RunE: runList,
}

func init() {
	rootCmd.AddCommand(listCmd)
}

func runList(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()

	client, err := newClient(ctx, nil)
	if err != nil {
		return err
	}
	defer client.Close()

	names, err := resolveNames(ctx, client, args)
	if err != nil {
		return err
	}

	tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "Strms\tBlocks\tCompressed\tUncompressed\tRatio\tCheck\tFilename")

	var total xzstream.Info
	for _, name := range names {
		info, err := client.Info(ctx, name)
		if err != nil {
			return err
		}
		printInfo(tw, info, name)

		total.Streams += info.Streams
		total.Blocks += info.Blocks
		total.CompressedSize += info.CompressedSize
		total.UncompressedSize += info.UncompressedSize
		total.Check = info.Check
	}
	if len(names) > 1 {
		total.Check = "-"
		printInfo(tw, total, fmt.Sprintf("%d files", len(names)))
	}

	return tw.Flush()
}

func printInfo(w *tabwriter.Writer, info xzstream.Info, name string) {
	ratio := "---"
	if info.UncompressedSize > 0 {
		ratio = fmt.Sprintf("%.3f", info.Ratio())
	}
	fmt.Fprintf(w, "%d\t%d\t%s\t%s\t%s\t%s\t%s\n",
		info.Streams, info.Blocks,
		progress.FormatBytes(info.CompressedSize), progress.FormatBytes(info.UncompressedSize),
		ratio, info.Check, name)
}
