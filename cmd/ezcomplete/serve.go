package main

import (
	"fmt"

	"github.com/gin-gonic/gin"
	"github.com/spf13/cobra"

	"github.com/nhath/ezcomplete/internal/config"
	"github.com/nhath/ezcomplete/internal/countries"
	"github.com/nhath/ezcomplete/internal/logging"
	"github.com/nhath/ezcomplete/internal/server"
)

func newServeCmd() *cobra.Command {
	serveCmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve country lookups over HTTP",
		Args:  cobra.NoArgs,
		RunE:  runServe,
	}

	serveCmd.Flags().String("addr", "", "Listen address (default from config)")
	serveCmd.Flags().String("dsn", "", "Database to serve from: sqlite path, postgres:// or mysql:// URL")
	return serveCmd
}

func runServe(cmd *cobra.Command, _ []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	debug := debugEnabled(cmd)
	logger := logging.Stderr("serve", debug)
	if !debug {
		gin.SetMode(gin.ReleaseMode)
	}

	src := cfg.Source
	if dsn, _ := cmd.Flags().GetString("dsn"); dsn != "" {
		if src, err = config.ParseDSN(dsn); err != nil {
			return fmt.Errorf("invalid --dsn: %w", err)
		}
	}
	addr := cfg.Server.Addr
	if a, _ := cmd.Flags().GetString("addr"); a != "" {
		addr = a
	}

	logger.Info("opening country store", "source", src.String())
	store, err := countries.Open(cmd.Context(), src)
	if err != nil {
		return err
	}
	defer store.Close()

	srv := server.New(store, server.Options{
		Addr:           addr,
		AllowedOrigins: cfg.Server.AllowedOrigins,
		ResultLimit:    cfg.Server.ResultLimit,
		Logger:         logger,
	})
	return srv.Run(cmd.Context())
}
