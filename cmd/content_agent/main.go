// Package main provides the content_agent CLI for assessing, improving and
// rendering content, running quality monitor batches and serving the HTTP API.
package main

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
)

var (
	configPath string
	verbose    bool
)

var rootCmd = &cobra.Command{
	Use:   "content_agent",
	Short: "Content quality and normalization pipeline",
	Long: `content_agent detects content formats, renders and sanitizes HTML, scores content
quality, improves low-scoring content and runs quality monitor batches over stored articles.

Every command reads from --in (or stdin) and writes JSON to --out (or stdout).`,
	SilenceUsage: true,
}

func init() {
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "Path to config.json file (values can be overridden by flags)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Print a summary box to stderr")
}

func main() {
	// Load .env file if it exists
	_ = godotenv.Load()

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
