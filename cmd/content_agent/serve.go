package main

import (
	"context"
	"fmt"

	"github.com/jonathan/content-quality/internal/config"
	"github.com/jonathan/content-quality/internal/db"
	"github.com/jonathan/content-quality/internal/improve"
	"github.com/jonathan/content-quality/internal/metrics"
	"github.com/jonathan/content-quality/internal/quality"
	"github.com/jonathan/content-quality/internal/server"
	"github.com/spf13/cobra"
)

var (
	servePort int
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the REST API server",
	Long: `Start an HTTP server that exposes the assess, improve, render, sanitize, detect and
duplicates endpoints. Monitor reports are served when DATABASE_URL is set.`,
	RunE: runServe,
}

func init() {
	serveCmd.Flags().IntVar(&servePort, "port", 0, "Port to listen on (config port when 0)")
	serveCmd.Flags().BoolVar(&useRemote, "remote", false, "Use the remote enhancer (needs GEMINI_API_KEY)")
	rootCmd.AddCommand(serveCmd)
}

func runServe(cmd *cobra.Command, _ []string) error {
	ctx := context.Background()

	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	port := cfg.Port
	if servePort > 0 {
		port = servePort
	}

	e, closeEnhancer, err := newEnhancer(ctx, cfg, useRemote || cfg.UseRemote)
	if err != nil {
		return err
	}
	defer closeEnhancer()

	logger := newLogger(cmd)
	m := metrics.NewWithRegistry()
	srvCfg := server.Config{
		Port:     port,
		Checker:  quality.NewChecker(e, cfg.RemoteTimeout(), logger, m),
		Improver: improve.NewImprover(e, cfg.RemoteTimeout(), logger, m),
		Metrics:  m,
		Logger:   logger,
	}

	if cfg.DatabaseURL != "" {
		database, err := db.Connect(ctx, cfg.DatabaseURL)
		if err != nil {
			return err
		}
		defer database.Close()
		srvCfg.Reports = database
	} else {
		logger.Printf("[serve] %s not set, report endpoints disabled", config.EnvDatabaseURL)
	}

	srv, err := server.New(srvCfg)
	if err != nil {
		return fmt.Errorf("failed to create server: %w", err)
	}

	return srv.Start()
}
