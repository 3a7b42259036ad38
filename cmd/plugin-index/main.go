// Package main is the entry point for the plugin-index workflow tool.
package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/muicebot/plugin-index/cmd/plugin-index/app"
	"github.com/muicebot/plugin-index/internal/config"
	"github.com/muicebot/plugin-index/internal/logger"
)

func main() {
	// PLUGIN_INDEX_LOG_LEVEL sets the initial level; --debug raises it later.
	// Logs go to stderr to keep stdout clean for commands that output data.
	level := "info"
	if env, err := config.LoadEnvironment(); err == nil && env.LogLevel != "" {
		level = env.LogLevel
	}
	if err := logger.Initialize(logger.ParseLevel(level)); err != nil {
		os.Exit(1)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)

	err := app.NewRootCmd().ExecuteContext(ctx)
	stop()
	logger.Sync()
	if err != nil {
		os.Exit(1)
	}
}
