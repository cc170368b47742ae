package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"os"

	"github.com/jonathan/content-quality/internal/config"
	"github.com/jonathan/content-quality/internal/enhancer"
	"github.com/jonathan/content-quality/internal/fetch"
	"github.com/jonathan/content-quality/internal/llm"
	"github.com/jonathan/content-quality/internal/observability"
	"github.com/jonathan/content-quality/internal/types"
	"github.com/spf13/cobra"
)

// readInput returns the contents of path, or of stdin when path is empty or "-"
func readInput(cmd *cobra.Command, path string) (string, error) {
	if path == "" || path == "-" {
		data, err := io.ReadAll(cmd.InOrStdin())
		if err != nil {
			return "", fmt.Errorf("failed to read stdin: %w", err)
		}
		return string(data), nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return "", fmt.Errorf("failed to read input file: %w", err)
	}
	return string(data), nil
}

// source is the content a command works on plus any metadata found with it
type source struct {
	Content     string
	Title       string
	Description string
}

// readSource fetches --url when set and reads --in otherwise
func readSource(cmd *cobra.Command) (source, error) {
	if sourceURL == "" {
		text, err := readInput(cmd, inputFile)
		return source{Content: text}, err
	}
	if inputFile != "" {
		return source{}, fmt.Errorf("cannot use --url with --in")
	}

	article, err := fetch.FetchArticle(cmd.Context(), sourceURL, fetch.DefaultOptions())
	if err != nil {
		return source{}, err
	}
	return source{Content: article.HTML, Title: article.Title, Description: article.Description}, nil
}

// writeJSON writes v as indented JSON to path, or to stdout when path is empty
func writeJSON(cmd *cobra.Command, path string, v any) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal JSON: %w", err)
	}
	data = append(data, '\n')

	if path == "" {
		_, err = cmd.OutOrStdout().Write(data)
		return err
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write output file: %w", err)
	}
	return nil
}

// loadCorpus reads a JSON array of corpus items. An empty path yields no corpus.
func loadCorpus(path string) ([]types.CorpusItem, error) {
	if path == "" {
		return nil, nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read corpus file: %w", err)
	}
	var corpus []types.CorpusItem
	if err := json.Unmarshal(data, &corpus); err != nil {
		return nil, fmt.Errorf("failed to parse corpus file %s: %w", path, err)
	}
	return corpus, nil
}

// loadConfig reads --config, the environment and the defaults
func loadConfig() (config.Config, error) {
	cfg, err := config.Load(configPath)
	if err != nil {
		return config.Config{}, fmt.Errorf("failed to load config: %w", err)
	}
	if verbose {
		cfg.Verbose = true
	}
	return cfg, nil
}

// newEnhancer returns the remote enhancer when remote is set, and a func that
// releases it. A nil Enhancer means every call stays local.
func newEnhancer(ctx context.Context, cfg config.Config, remote bool) (enhancer.Enhancer, func(), error) {
	if !remote {
		return nil, func() {}, nil
	}
	if cfg.APIKey == "" {
		return nil, nil, fmt.Errorf("remote enhancement requires an API key (set %s or api_key in the config file)", config.EnvAPIKey)
	}

	client, err := llm.NewClient(ctx, llm.DefaultConfig(), cfg.APIKey)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to create LLM client: %w", err)
	}
	return enhancer.NewLLMEnhancer(client), func() { _ = client.Close() }, nil
}

func newLogger(cmd *cobra.Command) *log.Logger {
	return log.New(cmd.ErrOrStderr(), "", log.LstdFlags)
}

// printer writes summary boxes to stderr, or nowhere unless verbose
func printer(cmd *cobra.Command) *observability.Printer {
	if !verbose {
		return observability.NewPrinter(io.Discard)
	}
	return observability.NewPrinter(cmd.ErrOrStderr())
}
