package main

import (
	"context"
	"fmt"
	"io"

	"github.com/spf13/cobra"
	"go.uber.org/multierr"

	"github.com/discochess/xzstream"
)

var catCmd = &cobra.Command{
	Use:   "cat NAME...",
	Short: "Decode xz objects to stdout",
	Long: `Decode one or more xz objects and write the concatenated output to stdout.

Examples:
  xzstream cat dump.xz
  xzstream --source https://example.com/dumps cat 2024-01.xz | wc -c`,
	Args: cobra.MinimumNArgs(1),
	RunE: runCat,
}

func init() {
	rootCmd.AddCommand(catCmd)
}

func runCat(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()

	client, err := newClient(ctx, nil)
	if err != nil {
		return err
	}
	defer client.Close()

	out := cmd.OutOrStdout()
	for _, name := range args {
		if err := catOne(ctx, client, name, out); err != nil {
			return err
		}
	}
	return nil
}

func catOne(ctx context.Context, client *xzstream.Client, name string, out io.Writer) (err error) {
	r, err := client.Open(ctx, name)
	if err != nil {
		return err
	}
	defer func() {
		err = multierr.Append(err, r.Close())
	}()

	if _, err := io.Copy(out, r); err != nil {
		return fmt.Errorf("decoding %s: %w", name, err)
	}
	return nil
}
