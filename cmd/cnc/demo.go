package main

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/joydddd/cutlass/internal/config"
	"github.com/joydddd/cutlass/internal/ctxlog"
	"github.com/joydddd/cutlass/internal/demo"
	"github.com/joydddd/cutlass/internal/graph"
	"github.com/joydddd/cutlass/internal/observ"
	"github.com/joydddd/cutlass/internal/record"
)

var demoCmd = &cobra.Command{
	Use:   "demo",
	Short: "Trace the built-in matmul kernel and print its dump",
	Long:  `Demo records the tiled matmul reference program and prints the resulting trace tree`,
	Args:  cobra.NoArgs,
	RunE:  runDemo,
}

func init() {
	demoCmd.Flags().Bool("no-trace", false, "run the program without recording")
}

func runDemo(cmd *cobra.Command, args []string) error {
	noTrace, err := cmd.Flags().GetBool("no-trace")
	if err != nil {
		return fmt.Errorf("failed to get no-trace flag: %w", err)
	}

	cwd, err := os.Getwd()
	if err != nil {
		return fmt.Errorf("failed to resolve working directory: %w", err)
	}
	cfg, err := config.Load(cwd)
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}
	enabled := cfg.Trace.Enabled && !noTrace

	ctx := ctxlog.WithLogger(cmd.Context(), rootLogger(cmd))

	timer := observ.NewTimer()
	traceIdx := timer.Begin("trace")
	sess := newSession(cmd, enabled)
	kernel, err := demo.Matmul(ctx, sess)
	timer.End(traceIdx, "matmul")
	if err != nil {
		return fmt.Errorf("trace failed: %w", err)
	}
	if kernel == nil {
		fmt.Fprintln(cmd.OutOrStdout(), "recording disabled; program ran without a trace")
		return nil
	}

	dumpIdx := timer.Begin("dump")
	lines := graph.Dump(kernel)
	timer.End(dumpIdx, "")

	out := cmd.OutOrStdout()
	useColor := shouldColor(cmd)
	header := color.New(color.FgCyan, color.Bold)
	for i, line := range lines {
		if i == 0 && useColor {
			header.Fprintln(out, line)
			continue
		}
		fmt.Fprintln(out, line)
	}

	if timings, _ := cmd.Root().PersistentFlags().GetBool("timings"); timings {
		fmt.Fprint(os.Stderr, timer.Summary())
	}
	return nil
}

func newSession(cmd *cobra.Command, enabled bool) *record.Session {
	return record.NewSession(enabled, graph.WithLogger(rootLogger(cmd)))
}

// rootLogger builds the slog logger for a command invocation. Debug level
// is gated on the --verbose persistent flag.
func rootLogger(cmd *cobra.Command) *slog.Logger {
	verbose, _ := cmd.Root().PersistentFlags().GetBool("verbose")
	level := slog.LevelInfo
	if verbose {
		level = slog.LevelDebug
	}
	return slog.New(slog.NewTextHandler(cmd.ErrOrStderr(), &slog.HandlerOptions{Level: level}))
}

func shouldColor(cmd *cobra.Command) bool {
	colorFlag, _ := cmd.Root().PersistentFlags().GetString("color")
	return colorFlag == "on" || (colorFlag == "auto" && isTerminal(os.Stdout))
}
