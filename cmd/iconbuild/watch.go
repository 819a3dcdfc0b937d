package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"

	"github.com/rayzchen/3to4pp/internal/pipeline"
	"github.com/rayzchen/3to4pp/internal/watcher"
	"github.com/spf13/cobra"
)

var watchCmd = &cobra.Command{
	Use:   "watch",
	Short: "Build once, then rebuild whenever the source image changes",
	Args:  cobra.NoArgs,
	RunE:  runWatch,
}

func init() {
	addBuildFlags(watchCmd)
	rootCmd.AddCommand(watchCmd)
}

func runWatch(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt)
	defer stop()

	build := func(ctx context.Context) error {
		result, err := pipeline.Run(ctx, cfg)
		if err != nil {
			return err
		}
		printResult(cfg, result)
		return nil
	}

	if err := build(ctx); err != nil {
		return fmt.Errorf("build: %w", err)
	}

	w, err := watcher.New(cfg.Source, build)
	if err != nil {
		return err
	}
	defer w.Close()

	if err := w.Run(ctx); err != nil && ctx.Err() == nil {
		return err
	}
	return nil
}
