package main

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/mattn/go-colorable"
	"github.com/mattn/go-isatty"
	"github.com/spf13/cobra"

	"github.com/batchgcd/batchgcd/internal/config"
	"github.com/batchgcd/batchgcd/internal/pipeline"
	"github.com/batchgcd/batchgcd/internal/telemetry"
)

func newRunCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "run",
		Short: "Ingest a moduli CSV, build the product tree, and extract shared factors",
		Example: `  batchgcd run --input data/moduli.csv --tree-dir data/product_tree --variant frugal
  batchgcd run --input data/moduli.csv --variant fast --workers 8`,
		RunE: runRun,
	}

	flags := cmd.Flags()
	flags.String("input", "data/moduli.csv", "path to the input CSV (id, ignored, modulus_decimal)")
	flags.String("tree-dir", "data/product_tree", "product tree scratch directory")
	flags.String("variant", "frugal", `remainder-tree variant: "frugal" or "fast"`)
	flags.Int("workers", 0, "bounded worker-pool size (0 = sequential)")
	flags.String("log-level", "info", "log level: debug, info, warn, error")
	flags.String("trace-endpoint", "", "OTLP/gRPC endpoint for tracing (optional)")

	if err := config.BindFlags(v, flags); err != nil {
		panic(fmt.Sprintf("bind flags: %v", err))
	}

	return cmd
}

func runRun(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load(v, cfgFile)
	if err != nil {
		return err
	}

	out := os.Stdout
	log := telemetry.NewLogger(out, cfg.LogLevel)

	ctx := context.Background()
	shutdown, err := telemetry.InitTracing(ctx, cfg.TraceEndpoint)
	if err != nil {
		log.Warn().Err(err).Msg("tracing disabled: failed to initialize exporter")
	}
	defer shutdown(ctx)

	result, err := pipeline.Run(ctx, cfg, log)
	if err != nil {
		return err
	}

	printSummary(out, result)
	return nil
}

// printSummary writes the run summary, color-highlighting the compromised
// count when out is a real terminal and leaving it plain otherwise (piped
// output, CI logs).
func printSummary(out *os.File, result pipeline.Result) {
	var w io.Writer = out
	highlight := func(s string) string { return s }
	if isatty.IsTerminal(out.Fd()) {
		w = colorable.NewColorable(out)
		if result.TotalCount > 0 {
			highlight = func(s string) string { return "\x1b[31;1m" + s + "\x1b[0m" }
		} else {
			highlight = func(s string) string { return "\x1b[32;1m" + s + "\x1b[0m" }
		}
	}

	fmt.Fprintf(w, "input moduli:        %d\n", result.InputCount)
	fmt.Fprintf(w, "product tree levels: %d\n", result.Levels)
	fmt.Fprintf(w, "compromised moduli:  %s\n", highlight(fmt.Sprintf("%d", result.TotalCount)))
	fmt.Fprintf(w, "elapsed:             %s\n", result.Elapsed)
	for _, c := range result.Compromised {
		fmt.Fprintf(w, "  id=%d factor=%s\n", c.ID, c.Factor.String())
	}
}
