package main

import (
	"errors"
	"fmt"
	"io"
	"sync/atomic"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/common/expfmt"
	"github.com/spf13/cobra"
	"go.uber.org/multierr"

	"github.com/discochess/xzstream"
	"github.com/discochess/xzstream/internal/progress"
	promstats "github.com/discochess/xzstream/internal/stats/prometheus"
)

var verifyCmd = &cobra.Command{
	Use:   "verify [NAME...]",
	Short: "Verify that xz objects decode completely",
	Long: `Verify that each object decodes without error and that the decoded size
matches the size recorded in its indexes.

With no names, every .xz file under a directory source is verified.`,
	RunE: runVerify,
}

var verifyMetrics bool

func init() {
	verifyCmd.Flags().BoolVar(&verifyMetrics, "metrics", false, "print decoder metrics in Prometheus text format")
	rootCmd.AddCommand(verifyCmd)
}

func runVerify(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	out := cmd.OutOrStdout()

	registry := prometheus.NewRegistry()
	collector := promstats.New(registry)

	client, err := newClient(ctx, collector)
	if err != nil {
		return err
	}
	defer client.Close()

	names, err := resolveNames(ctx, client, args)
	if err != nil {
		return err
	}
	if len(names) == 0 {
		fmt.Fprintln(out, "No .xz files found.")
		return nil
	}

	fmt.Fprintf(out, "Verifying %d objects...\n", len(names))

	var errCount int
	for i, name := range names {
		if verbose {
			fmt.Fprintf(out, "  [%d/%d] %s\n", i+1, len(names), name)
		}
		if err := verifyOne(cmd, client, name); err != nil {
			fmt.Fprintf(out, "  ERROR: %s: %v\n", name, err)
			errCount++
		}
	}

	if verifyMetrics {
		if err := writeMetrics(out, registry); err != nil {
			return err
		}
	}

	if errCount > 0 {
		return fmt.Errorf("%d objects failed verification", errCount)
	}

	fmt.Fprintln(out, "All objects verified successfully.")
	return nil
}

func verifyOne(cmd *cobra.Command, client *xzstream.Client, name string) (err error) {
	r, err := client.Open(cmd.Context(), name)
	if err != nil {
		return err
	}
	defer func() {
		err = multierr.Append(err, r.Close())
	}()

	want, lengthErr := r.Length()
	if lengthErr != nil && !errors.Is(lengthErr, xzstream.ErrUnsupportedOperation) {
		return fmt.Errorf("reading index: %w", lengthErr)
	}

	var decoded atomic.Int64
	var fn progress.Func
	if verbose {
		fn = progress.Printer(cmd.ErrOrStderr())
	}
	if _, err := progress.Copy(progress.NewWriter(io.Discard, &decoded), r, "verify", want, fn); err != nil {
		return fmt.Errorf("decoding: %w", err)
	}

	if lengthErr == nil && decoded.Load() != want {
		return fmt.Errorf("decoded %d bytes, index records %d", decoded.Load(), want)
	}
	return nil
}

func writeMetrics(w io.Writer, registry *prometheus.Registry) error {
	families, err := registry.Gather()
	if err != nil {
		return fmt.Errorf("gathering metrics: %w", err)
	}
	for _, mf := range families {
		if _, err := expfmt.MetricFamilyToText(w, mf); err != nil {
			return fmt.Errorf("writing metrics: %w", err)
		}
	}
	return nil
}
