package main

import (
	"fmt"
	"os"
	"sync/atomic"

	"github.com/spf13/cobra"
	"go.uber.org/multierr"

	"github.com/discochess/xzstream/internal/codec/registry"
	"github.com/discochess/xzstream/internal/progress"
)

var convertCmd = &cobra.Command{
	Use:   "convert NAME",
	Short: "Re-encode an xz object with another codec",
	Long: `Decode an xz object and write it re-encoded as zstd, gzip or plain bytes.

Examples:
  xzstream convert dump.xz --to zst -o dump.zst
  xzstream convert dump.xz --to none -o dump`,
	Args: cobra.ExactArgs(1),
	RunE: runConvert,
}

var (
	convertTo     string
	convertOutput string
)

func init() {
	convertCmd.Flags().StringVar(&convertTo, "to", "zst", "output codec: zst, gz or none")
	convertCmd.Flags().StringVarP(&convertOutput, "output", "o", "", "output file (required)")
	convertCmd.MarkFlagRequired("output")
	rootCmd.AddCommand(convertCmd)
}

func runConvert(cmd *cobra.Command, args []string) (err error) {
	ctx := cmd.Context()
	name := args[0]

	c, err := registry.Lookup(convertTo)
	if err != nil {
		return err
	}

	client, err := newClient(ctx, nil)
	if err != nil {
		return err
	}
	defer client.Close()

	r, err := client.Open(ctx, name)
	if err != nil {
		return err
	}
	defer func() {
		err = multierr.Append(err, r.Close())
	}()

	total, _ := r.Length()

	f, err := os.Create(convertOutput)
	if err != nil {
		return fmt.Errorf("creating output: %w", err)
	}
	defer func() {
		err = multierr.Append(err, f.Close())
	}()

	w, err := c.Writer(f)
	if err != nil {
		return fmt.Errorf("creating %s encoder: %w", convertTo, err)
	}

	var decoded atomic.Int64
	var fn progress.Func
	if verbose {
		fn = progress.Printer(cmd.ErrOrStderr())
	}
	if _, err := progress.Copy(w, progress.NewReader(r, &decoded), "convert", total, fn); err != nil {
		return multierr.Append(fmt.Errorf("converting %s: %w", name, err), w.Close())
	}
	if err := w.Close(); err != nil {
		return fmt.Errorf("finishing %s output: %w", convertTo, err)
	}

	fmt.Fprintf(cmd.OutOrStdout(), "%s: %s decoded, decoded to %s\n",
		name, progress.FormatBytes(decoded.Load()), convertOutput)
	return nil
}
