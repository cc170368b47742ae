package main

import (
	"fmt"

	"github.com/jonathan/content-quality/internal/detection"
	"github.com/jonathan/content-quality/internal/format"
	"github.com/jonathan/content-quality/internal/pipeline"
	"github.com/jonathan/content-quality/internal/sanitize"
	"github.com/jonathan/content-quality/internal/server"
	"github.com/jonathan/content-quality/internal/types"
	"github.com/spf13/cobra"
)

var detectCmd = &cobra.Command{
	Use:   "detect",
	Short: "Detect the content format and AI-style patterns",
	RunE:  runDetect,
}

var renderCmd = &cobra.Command{
	Use:   "render",
	Short: "Convert, repair and sanitize raw content into display HTML",
	Long: `Render raw content (HTML, escaped HTML, Markdown or plain text) into clean HTML.
The format is detected unless --format is given.`,
	RunE: runRender,
}

var sanitizeCmd = &cobra.Command{
	Use:   "sanitize",
	Short: "Strip unsafe markup from HTML",
	RunE:  runSanitize,
}

var (
	inputFile  string
	outputFile string
	sourceURL  string

	renderFormat     string
	renderNoSanitize bool
	renderNoImages   bool
	renderNoTables   bool
	renderStrict     bool

	sanitizeStrict   bool
	sanitizeNoImages bool
	sanitizeNoTables bool
)

func init() {
	for _, c := range []*cobra.Command{detectCmd, renderCmd, sanitizeCmd, assessCmd, improveCmd, duplicatesCmd} {
		c.Flags().StringVarP(&inputFile, "in", "i", "", "Path to input file (stdin when empty)")
		c.Flags().StringVarP(&outputFile, "out", "o", "", "Path to output JSON file (stdout when empty)")
	}
	for _, c := range []*cobra.Command{renderCmd, assessCmd, improveCmd} {
		c.Flags().StringVar(&sourceURL, "url", "", "Fetch the article at this URL instead of reading --in")
	}

	renderCmd.Flags().StringVar(&renderFormat, "format", "", "Input format: html, html_escaped, markdown, plain or auto")
	renderCmd.Flags().BoolVar(&renderNoSanitize, "no-sanitize", false, "Skip the sanitizer (trusted previews only)")
	renderCmd.Flags().BoolVar(&renderNoImages, "no-images", false, "Drop images")
	renderCmd.Flags().BoolVar(&renderNoTables, "no-tables", false, "Drop tables")
	renderCmd.Flags().BoolVar(&renderStrict, "strict", false, "Keep only text formatting, headings, lists and links")

	sanitizeCmd.Flags().BoolVar(&sanitizeStrict, "strict", false, "Keep only text formatting, headings, lists and links")
	sanitizeCmd.Flags().BoolVar(&sanitizeNoImages, "no-images", false, "Drop images")
	sanitizeCmd.Flags().BoolVar(&sanitizeNoTables, "no-tables", false, "Drop tables")

	rootCmd.AddCommand(detectCmd, renderCmd, sanitizeCmd)
}

func runDetect(cmd *cobra.Command, _ []string) error {
	text, err := readInput(cmd, inputFile)
	if err != nil {
		return err
	}

	patterns := detection.Detect(text)
	if patterns == nil {
		patterns = []types.AIPatternMatch{}
	}
	return writeJSON(cmd, outputFile, server.DetectResponse{
		Format:     format.Detect(text),
		AIPatterns: patterns,
	})
}

func runRender(cmd *cobra.Command, _ []string) error {
	f := types.ContentFormat(renderFormat)
	if f != "" && !f.Valid() {
		return fmt.Errorf("unknown format %q", renderFormat)
	}

	src, err := readSource(cmd)
	if err != nil {
		return err
	}

	opts := pipeline.Options{
		Format:      f,
		Sanitize:    pipeline.Bool(!renderNoSanitize),
		AllowImages: pipeline.Bool(!renderNoImages),
		AllowTables: pipeline.Bool(!renderNoTables),
		Strict:      renderStrict,
	}
	if verbose {
		logger := newLogger(cmd)
		opts.OnProgress = func(e pipeline.ProgressEvent) {
			logger.Printf("[render] %s: %s", e.Step, e.Message)
		}
	}
	return writeJSON(cmd, outputFile, pipeline.RenderContent(src.Content, opts))
}

func runSanitize(cmd *cobra.Command, _ []string) error {
	html, err := readInput(cmd, inputFile)
	if err != nil {
		return err
	}

	opts := sanitize.DefaultOptions()
	opts.Strict = sanitizeStrict
	opts.AllowImages = !sanitizeNoImages
	opts.AllowTables = !sanitizeNoTables
	return writeJSON(cmd, outputFile, server.SanitizeResponse{HTML: sanitize.Sanitize(html, opts)})
}
