package main

import (
	"context"
	"fmt"
	"strings"

	"github.com/jonathan/content-quality/internal/format"
	"github.com/jonathan/content-quality/internal/improve"
	"github.com/jonathan/content-quality/internal/pipeline"
	"github.com/jonathan/content-quality/internal/quality"
	"github.com/jonathan/content-quality/internal/scoring"
	"github.com/jonathan/content-quality/internal/types"
	"github.com/spf13/cobra"
)

var assessCmd = &cobra.Command{
	Use:   "assess",
	Short: "Score content quality",
	Long: `Score content for readability, SEO, engagement and uniqueness. With --remote the
remote enhancer's verdict is merged over the local score; any remote failure falls
back to the local score.`,
	RunE: runAssess,
}

var improveCmd = &cobra.Command{
	Use:   "improve",
	Short: "Improve content that scores below the minimum",
	RunE:  runImprove,
}

var duplicatesCmd = &cobra.Command{
	Use:   "duplicates",
	Short: "Compare content against a corpus of existing articles",
	RunE:  runDuplicates,
}

var (
	contentTitle    string
	metaDescription string
	keywords        []string
	corpusFile      string
	useRemote       bool

	improveMinScore int
	improveCategory string
	improveNoSEO    bool
	improveNoSplit  bool
)

func init() {
	for _, c := range []*cobra.Command{assessCmd, improveCmd} {
		c.Flags().StringVarP(&contentTitle, "title", "t", "", "Content title")
		c.Flags().StringSliceVar(&keywords, "keywords", nil, "Target keywords (comma-separated)")
		c.Flags().BoolVar(&useRemote, "remote", false, "Use the remote enhancer (needs GEMINI_API_KEY)")
	}
	assessCmd.Flags().StringVar(&metaDescription, "meta-description", "", "Meta description")
	for _, c := range []*cobra.Command{assessCmd, duplicatesCmd} {
		c.Flags().StringVar(&corpusFile, "corpus", "", "Path to a JSON array of existing articles")
	}
	_ = duplicatesCmd.MarkFlagRequired("corpus")

	improveCmd.Flags().IntVar(&improveMinScore, "min-score", 0, "Score at or above which content is left unchanged (config min_score when 0)")
	improveCmd.Flags().StringVar(&improveCategory, "category", "", "Content category passed to the remote enhancer")
	improveCmd.Flags().BoolVar(&improveNoSEO, "no-seo", false, "Skip heading promotion")
	improveCmd.Flags().BoolVar(&improveNoSplit, "no-split", false, "Skip splitting long paragraphs")

	rootCmd.AddCommand(assessCmd, improveCmd, duplicatesCmd)
}

// renderForScoring turns non-HTML input into HTML so markup checks apply
func renderForScoring(raw string) string {
	if format.Detect(raw) == types.FormatHTML {
		return raw
	}
	return pipeline.Process(raw, pipeline.Options{}).HTML
}

func runAssess(cmd *cobra.Command, _ []string) error {
	ctx := context.Background()

	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	src, err := readSource(cmd)
	if err != nil {
		return err
	}
	corpus, err := loadCorpus(corpusFile)
	if err != nil {
		return err
	}

	e, closeEnhancer, err := newEnhancer(ctx, cfg, useRemote || cfg.UseRemote)
	if err != nil {
		return err
	}
	defer closeEnhancer()

	checker := quality.NewChecker(e, cfg.RemoteTimeout(), newLogger(cmd), nil)
	meta := types.Meta{Description: firstNonEmpty(metaDescription, src.Description), Keywords: trimAll(keywords)}
	score, remote := checker.Check(ctx, renderForScoring(src.Content), firstNonEmpty(contentTitle, src.Title), meta, corpus)

	printer(cmd).PrintQualityScore(&score, remote)
	return writeJSON(cmd, outputFile, score)
}

func runImprove(cmd *cobra.Command, _ []string) error {
	ctx := context.Background()

	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	if improveMinScore < 0 || improveMinScore > 100 {
		return fmt.Errorf("--min-score must be between 0 and 100")
	}
	src, err := readSource(cmd)
	if err != nil {
		return err
	}

	remote := useRemote || cfg.UseRemote
	e, closeEnhancer, err := newEnhancer(ctx, cfg, remote)
	if err != nil {
		return err
	}
	defer closeEnhancer()

	opts := improve.DefaultOptions()
	opts.UseRemote = remote
	opts.MinScore = cfg.MinScore
	if improveMinScore > 0 {
		opts.MinScore = improveMinScore
	}
	opts.FixSEO = !improveNoSEO
	opts.FixReadability = !improveNoSplit
	opts.Category = improveCategory
	opts.Keywords = trimAll(keywords)

	improver := improve.NewImprover(e, cfg.RemoteTimeout(), newLogger(cmd), nil)
	result := improver.Improve(ctx, renderForScoring(src.Content), firstNonEmpty(contentTitle, src.Title), opts)

	printer(cmd).PrintImprovement(&result)
	return writeJSON(cmd, outputFile, result)
}

func runDuplicates(cmd *cobra.Command, _ []string) error {
	raw, err := readInput(cmd, inputFile)
	if err != nil {
		return err
	}
	corpus, err := loadCorpus(corpusFile)
	if err != nil {
		return err
	}

	report := scoring.Duplicates(raw, corpus)
	printer(cmd).PrintDuplicates(&report)
	return writeJSON(cmd, outputFile, report)
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}

func trimAll(values []string) []string {
	var out []string
	for _, v := range values {
		if v = strings.TrimSpace(v); v != "" {
			out = append(out, v)
		}
	}
	return out
}
