package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/johnquangdev/meetnotes/internal/cli"
	"github.com/johnquangdev/meetnotes/internal/output"
	"github.com/johnquangdev/meetnotes/pkg/config"
)

func main() {
	if err := run(); err != nil {
		formatter := output.NewFormatter(os.Stderr)
		formatter.Error(err.Error())
		os.Exit(1)
	}
}

func run() error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}

	// Ctrl+C cancels an in-flight pipeline run between stages
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	return cli.NewRootCmd(cli.NewDependencies(cfg)).ExecuteContext(ctx)
}
