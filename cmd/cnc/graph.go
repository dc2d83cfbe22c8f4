package main

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/joydddd/cutlass/internal/config"
	"github.com/joydddd/cutlass/internal/ctxlog"
	"github.com/joydddd/cutlass/internal/demo"
	"github.com/joydddd/cutlass/internal/diagram"
	"github.com/joydddd/cutlass/internal/observ"
)

var graphCmd = &cobra.Command{
	Use:   "graph",
	Short: "Flatten a trace into a diagram and export it",
	Long:  `Graph traces the built-in matmul program, flattens the trace into a left-to-right diagram, and writes it in the requested format`,
	Args:  cobra.NoArgs,
	RunE:  runGraph,
}

func init() {
	graphCmd.Flags().String("format", "", "output format (dot|json|msgpack|text); defaults to the config value")
	graphCmd.Flags().StringP("out", "o", "", "output path; defaults to the config value or stdout")
}

func runGraph(cmd *cobra.Command, args []string) error {
	format, err := cmd.Flags().GetString("format")
	if err != nil {
		return fmt.Errorf("failed to get format flag: %w", err)
	}
	outPath, err := cmd.Flags().GetString("out")
	if err != nil {
		return fmt.Errorf("failed to get out flag: %w", err)
	}

	cwd, err := os.Getwd()
	if err != nil {
		return fmt.Errorf("failed to resolve working directory: %w", err)
	}
	cfg, err := config.Load(cwd)
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}
	if format == "" {
		format = cfg.Graph.Format
	}
	if outPath == "" {
		outPath = cfg.Graph.Path
	}

	ctx := ctxlog.WithLogger(cmd.Context(), rootLogger(cmd))

	timer := observ.NewTimer()
	traceIdx := timer.Begin("trace")
	sess := newSession(cmd, true)
	kernel, err := demo.Matmul(ctx, sess)
	timer.End(traceIdx, "matmul")
	if err != nil {
		return fmt.Errorf("trace failed: %w", err)
	}

	flattenIdx := timer.Begin("flatten")
	g, err := diagram.Flatten(kernel)
	timer.End(flattenIdx, "")
	if err != nil {
		return fmt.Errorf("flatten failed: %w", err)
	}

	exportIdx := timer.Begin("export")
	err = writeGraph(cmd, g, format, outPath)
	timer.End(exportIdx, format)
	if err != nil {
		return err
	}

	if timings, _ := cmd.Root().PersistentFlags().GetBool("timings"); timings {
		fmt.Fprint(os.Stderr, timer.Summary())
	}
	if outPath != "" {
		if quiet, _ := cmd.Root().PersistentFlags().GetBool("quiet"); !quiet {
			fmt.Fprintf(cmd.OutOrStdout(), "wrote %s graph to %s\n", format, outPath)
		}
	}
	return nil
}

func writeGraph(cmd *cobra.Command, g *diagram.Graph, format, outPath string) error {
	var w io.Writer = cmd.OutOrStdout()
	if outPath != "" {
		f, err := os.Create(outPath)
		if err != nil {
			return fmt.Errorf("failed to create output file: %w", err)
		}
		defer f.Close()
		w = f
	}

	switch format {
	case "dot":
		return diagram.WriteDOT(w, g)
	case "json":
		return diagram.WriteJSON(w, g)
	case "text":
		return diagram.WriteText(w, g)
	case "msgpack":
		data, err := diagram.EncodeMsgpack(g)
		if err != nil {
			return err
		}
		_, err = w.Write(data)
		return err
	default:
		return fmt.Errorf("unknown format: %s", format)
	}
}
