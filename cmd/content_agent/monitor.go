package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/jonathan/content-quality/internal/config"
	"github.com/jonathan/content-quality/internal/db"
	"github.com/jonathan/content-quality/internal/improve"
	"github.com/jonathan/content-quality/internal/monitor"
	"github.com/jonathan/content-quality/internal/quality"
	"github.com/jonathan/content-quality/internal/types"
	"github.com/spf13/cobra"
)

var monitorCmd = &cobra.Command{
	Use:   "monitor",
	Short: "Assess a batch of stored articles and write a quality report",
	Long: `Assess up to --limit stored articles, optionally improve the ones scoring below the
minimum, compare the average with the previous report and raise alerts.

Requires DATABASE_URL (or database_url in the config file).`,
	RunE: runMonitor,
}

var importCmd = &cobra.Command{
	Use:   "import",
	Short: "Load articles from a JSON array into the database",
	RunE:  runImport,
}

var (
	monitorLimit   int
	monitorImprove bool
	monitorPersist bool
	monitorOut     string
	monitorRemote  bool

	importFile string
)

func init() {
	monitorCmd.Flags().IntVar(&monitorLimit, "limit", 0, "Maximum articles to assess (config batch_limit when 0)")
	monitorCmd.Flags().BoolVar(&monitorImprove, "improve", false, "Improve articles scoring below the minimum")
	monitorCmd.Flags().BoolVar(&monitorPersist, "persist", false, "Save scores, improved content and the report")
	monitorCmd.Flags().BoolVar(&monitorRemote, "remote", false, "Use the remote enhancer (needs GEMINI_API_KEY)")
	monitorCmd.Flags().StringVarP(&monitorOut, "out", "o", "", "Path to output JSON file (stdout when empty)")

	importCmd.Flags().StringVarP(&importFile, "in", "i", "", "Path to a JSON array of articles")
	_ = importCmd.MarkFlagRequired("in")

	rootCmd.AddCommand(monitorCmd, importCmd)
}

// connectDB opens the database named by the config and ensures its schema
func connectDB(ctx context.Context, cfg config.Config) (*db.DB, error) {
	if cfg.DatabaseURL == "" {
		return nil, fmt.Errorf("database URL is required (set %s or database_url in the config file)", config.EnvDatabaseURL)
	}
	database, err := db.Connect(ctx, cfg.DatabaseURL)
	if err != nil {
		return nil, err
	}
	if err := database.EnsureSchema(ctx); err != nil {
		database.Close()
		return nil, err
	}
	return database, nil
}

// monitorConfig maps the file config onto the monitor's tuning
func monitorConfig(cfg config.Config, remote bool) monitor.Config {
	mc := monitor.Config{
		Concurrency:    cfg.MonitorConcurrency,
		AlertThreshold: float64(cfg.AlertThreshold),
		AlertDrop:      float64(cfg.AlertDrop),
		MinScore:       cfg.MinScore,
		ImproveOptions: improve.DefaultOptions(),
	}
	mc.ImproveOptions.MinScore = cfg.MinScore
	mc.ImproveOptions.UseRemote = remote
	if remote {
		mc.RemoteDelay = cfg.MonitorDelay()
	}
	return mc
}

func runMonitor(cmd *cobra.Command, _ []string) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// Step 1: Load config and connect
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	database, err := connectDB(ctx, cfg)
	if err != nil {
		return err
	}
	defer database.Close()

	// Step 2: Build the assessor and improver
	remote := monitorRemote || cfg.UseRemote
	e, closeEnhancer, err := newEnhancer(ctx, cfg, remote)
	if err != nil {
		return err
	}
	defer closeEnhancer()

	logger := newLogger(cmd)
	checker := quality.NewChecker(e, cfg.RemoteTimeout(), logger, nil)
	improver := improve.NewImprover(e, cfg.RemoteTimeout(), logger, nil)
	m := monitor.New(database, checker, improver, monitorConfig(cfg, remote), logger)

	// Step 3: Run the batch
	limit := monitorLimit
	if limit <= 0 {
		limit = cfg.BatchLimit
	}
	report, err := m.Run(ctx, monitor.RunOptions{
		Limit:   limit,
		Improve: monitorImprove,
		Persist: monitorPersist,
	})
	if err != nil {
		return fmt.Errorf("monitor run failed: %w", err)
	}

	printer(cmd).PrintMonitorReport(report)
	return writeJSON(cmd, monitorOut, report)
}

func runImport(cmd *cobra.Command, _ []string) error {
	ctx := context.Background()

	data, err := os.ReadFile(importFile)
	if err != nil {
		return fmt.Errorf("failed to read input file: %w", err)
	}
	var articles []types.ArticleRecord
	if err := json.Unmarshal(data, &articles); err != nil {
		return fmt.Errorf("failed to parse articles file %s: %w", importFile, err)
	}

	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	database, err := connectDB(ctx, cfg)
	if err != nil {
		return err
	}
	defer database.Close()

	for _, a := range articles {
		if a.ID == "" {
			return fmt.Errorf("article %q has no id", a.Title)
		}
		if err := database.UpsertArticle(ctx, a); err != nil {
			return err
		}
	}
	_, _ = fmt.Fprintf(cmd.OutOrStdout(), "Imported %d article(s)\n", len(articles))
	return nil
}
