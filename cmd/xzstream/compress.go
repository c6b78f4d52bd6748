package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/multierr"

	"github.com/discochess/xzstream/internal/codec/registry"
	"github.com/discochess/xzstream/internal/progress"
)

var compressCmd = &cobra.Command{
	Use:   "compress FILE",
	Short: "Encode a local file as xz",
	Long: `Encode a local file as a single xz stream with a CRC64 check.

Example:
  xzstream compress dump.json -o dump.json.xz`,
	Args: cobra.ExactArgs(1),
	RunE: runCompress,
}

var compressOutput string

func init() {
	compressCmd.Flags().StringVarP(&compressOutput, "output", "o", "", "output file (default FILE.xz)")
	rootCmd.AddCommand(compressCmd)
}

func runCompress(cmd *cobra.Command, args []string) (err error) {
	input := args[0]
	output := compressOutput
	if output == "" {
		output = input + ".xz"
	}

	in, err := os.Open(input)
	if err != nil {
		return fmt.Errorf("opening input: %w", err)
	}
	defer in.Close()

	var total int64
	if info, err := in.Stat(); err == nil {
		total = info.Size()
	}

	f, err := os.Create(output)
	if err != nil {
		return fmt.Errorf("creating output: %w", err)
	}
	defer func() {
		err = multierr.Append(err, f.Close())
	}()

	c, err := registry.Lookup("xz")
	if err != nil {
		return err
	}
	w, err := c.Writer(f)
	if err != nil {
		return fmt.Errorf("creating xz encoder: %w", err)
	}

	var fn progress.Func
	if verbose {
		fn = progress.Printer(cmd.ErrOrStderr())
	}
	if _, err := progress.Copy(w, in, "compress", total, fn); err != nil {
		return multierr.Append(fmt.Errorf("compressing %s: %w", input, err), w.Close())
	}
	if err := w.Close(); err != nil {
		return fmt.Errorf("finishing xz output: %w", err)
	}

	fmt.Fprintf(cmd.OutOrStdout(), "%s -> %s\n", input, output)
	return nil
}
