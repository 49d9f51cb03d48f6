package main

import (
	"context"
	"errors"
	"os"

	"github.com/desertthunder/weeklymix/internal/gateway"
	"github.com/desertthunder/weeklymix/internal/shared"
	"github.com/urfave/cli/v3"
)

func main() {
	logger := shared.NewLogger(nil)

	config := shared.DefaultConfig()
	if _, err := os.Stat("config.toml"); err == nil {
		if loadedConfig, err := shared.LoadConfig("config.toml"); err == nil {
			config = loadedConfig
		}
	}

	gw := gateway.NewStdioGateway(gateway.Opts{
		Command:   config.Gateway.Command,
		Args:      config.Gateway.Args,
		RateLimit: config.Gateway.RateLimit,
		Logger:    logger,
	})

	runner := NewRunner(RunnerOpts{
		Config:  config,
		Gateway: gw,
		Logger:  logger,
	})

	app := &cli.Command{
		Name:     "weeklymix",
		Usage:    "Automate weekly Spotify playlists through an MCP gateway",
		Version:  "0.2.0",
		Commands: runner.register(),
	}

	if err := app.Run(context.Background(), os.Args); err != nil {
		err_ := errors.Unwrap(err)
		if errors.Is(err_, shared.ErrNotImplemented) {
			logger.Warn("not implemented")
			os.Exit(0)
		} else {
			logger.Fatalf("application error: %v", err)
		}
	}
}
