package main

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/joydddd/cutlass/internal/config"
	"github.com/joydddd/cutlass/internal/ctxlog"
	"github.com/joydddd/cutlass/internal/demo"
	"github.com/joydddd/cutlass/internal/graph"
)

var dumpCmd = &cobra.Command{
	Use:   "dump",
	Short: "Trace the built-in program and write its dump to the dump directory",
	Long:  `Dump records the tiled matmul reference program and writes one dump file per traced kernel`,
	Args:  cobra.NoArgs,
	RunE:  runDump,
}

func init() {
	dumpCmd.Flags().String("dir", "", "dump directory; defaults to the config value or stdout")
}

func runDump(cmd *cobra.Command, args []string) error {
	dir, err := cmd.Flags().GetString("dir")
	if err != nil {
		return fmt.Errorf("failed to get dir flag: %w", err)
	}

	cwd, err := os.Getwd()
	if err != nil {
		return fmt.Errorf("failed to resolve working directory: %w", err)
	}
	cfg, err := config.Load(cwd)
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}
	if dir == "" {
		dir = cfg.Dump.Dir
	}

	ctx := ctxlog.WithLogger(cmd.Context(), rootLogger(cmd))
	sess := newSession(cmd, true)
	if _, err := demo.Matmul(ctx, sess); err != nil {
		return fmt.Errorf("trace failed: %w", err)
	}

	if dir == "" {
		for _, line := range sess.Context().DumpAll() {
			fmt.Fprintln(cmd.OutOrStdout(), line)
		}
		return nil
	}

	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("failed to create dump directory: %w", err)
	}
	quiet, _ := cmd.Root().PersistentFlags().GetBool("quiet")
	for _, kernel := range sess.Context().Kernels() {
		path := filepath.Join(dir, kernel.Kernel().Name+".txt")
		text := strings.Join(graph.Dump(kernel), "\n") + "\n"
		if err := os.WriteFile(path, []byte(text), 0o644); err != nil {
			return fmt.Errorf("failed to write dump: %w", err)
		}
		if !quiet {
			fmt.Fprintf(cmd.OutOrStdout(), "wrote %s\n", path)
		}
	}
	return nil
}
