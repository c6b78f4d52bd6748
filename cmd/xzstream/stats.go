package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/discochess/xzstream/internal/progress"
	"github.com/discochess/xzstream/internal/source/disksource"
)

var statsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Show totals for the .xz files in a directory source",
	Long: `Display totals for every .xz file under a directory source:
- Number of files, streams and blocks
- Total compressed and uncompressed size
- Overall compression ratio`,
	Args: cobra.NoArgs,
	RunE: runStats,
}

func init() {
	rootCmd.AddCommand(statsCmd)
}

func runStats(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	out := cmd.OutOrStdout()

	client, err := newClient(ctx, nil)
	if err != nil {
		return err
	}
	defer client.Close()

	disk, ok := client.Source().(*disksource.Source)
	if !ok {
		return fmt.Errorf("stats requires a directory source")
	}

	names, err := disk.List(ctx, ".xz")
	if err != nil {
		return err
	}
	if len(names) == 0 {
		fmt.Fprintln(out, "No .xz files found in source directory.")
		return nil
	}

	var (
		streams                  int
		blocks                   uint64
		compressed, uncompressed int64
		failed                   int
	)
	for _, name := range names {
		info, err := client.Info(ctx, name)
		if err != nil {
			failed++
			if verbose {
				fmt.Fprintf(out, "  skipping %s: %v\n", name, err)
			}
			continue
		}
		streams += info.Streams
		blocks += info.Blocks
		compressed += info.CompressedSize
		uncompressed += info.UncompressedSize
	}

	fmt.Fprintf(out, "Source directory: %s\n", disk.Root())
	fmt.Fprintf(out, "Files:            %d\n", len(names))
	if failed > 0 {
		fmt.Fprintf(out, "Unreadable:       %d\n", failed)
	}
	fmt.Fprintf(out, "Streams:          %d\n", streams)
	fmt.Fprintf(out, "Blocks:           %d\n", blocks)
	fmt.Fprintf(out, "Compressed:       %s\n", progress.FormatBytes(compressed))
	fmt.Fprintf(out, "Uncompressed:     %s\n", progress.FormatBytes(uncompressed))
	if uncompressed > 0 {
		fmt.Fprintf(out, "Ratio:            %.3f\n", float64(compressed)/float64(uncompressed))
	}

	return nil
}
