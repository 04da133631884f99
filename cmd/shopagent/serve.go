package main

import (
	"fmt"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/hupe1980/shopagent"
	"github.com/hupe1980/shopagent/server"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the HTTP API",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()

		agent, err := shopagent.New(func(o *shopagent.Options) {
			o.Config = cfg
			o.Logger = logger
		})
		if err != nil {
			return exitErr(err)
		}
		defer agent.Close()

		if err := agent.Init(ctx); err != nil {
			return exitErr(err)
		}

		addr := fmt.Sprintf(":%d", cfg.HTTPPort)
		logger.Info("Starting HTTP server", "addr", addr)
		if err := server.Start(ctx, agent.Server(), addr); err != nil {
			return exitErr(err)
		}
		logger.Info("Server stopped")
		return nil
	},
}
