package main

import (
	"context"
	"fmt"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/pdiddy/content-engine/internal/generate"
	"github.com/pdiddy/content-engine/internal/pipeline"
	"github.com/pdiddy/content-engine/internal/store"
)

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Run the generation cycle once or on a timer",
	Long: `Run executes full generation cycles: idea collection with duplicate
gating, then expansion of pending ideas into articles.

In "once" mode a single cycle runs and the process exits. In "periodic"
mode a cycle runs immediately and then once per interval until the
process receives SIGINT or SIGTERM; the in-flight cycle always completes
before shutdown.`,
	RunE: runRun,
}

func init() {
	runCmd.Flags().String("mode", "once", "run mode: once or periodic")
	runCmd.Flags().Duration("interval", 0, "cycle interval for periodic mode (default 1h)")
	addGenerationFlags(runCmd)

	rootCmd.AddCommand(runCmd)
}

func runRun(cmd *cobra.Command, args []string) error {
	mode, _ := cmd.Flags().GetString("mode")
	if mode != "once" && mode != "periodic" {
		return fmt.Errorf("unknown mode %q: use once or periodic", mode)
	}

	cfg := engineConfig(cmd)
	if err := requireAPIKey(cfg); err != nil {
		return err
	}

	log, err := newLogger()
	if err != nil {
		return err
	}
	defer log.Sync()

	st, err := store.Open(cfg.Store)
	if err != nil {
		return err
	}
	defer st.Close()

	backend := generate.NewClaudeBackend(cfg.AI)
	runner := pipeline.New(st, backend, cfg.Generator, log)

	if mode == "once" {
		runner.RunCycle(cmd.Context())
		return nil
	}

	interval := cfg.Service.Interval
	if flagInterval, _ := cmd.Flags().GetDuration("interval"); flagInterval > 0 {
		interval = flagInterval
	}
	if interval <= 0 {
		interval = time.Hour
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	return runner.RunPeriodic(ctx, interval)
}
