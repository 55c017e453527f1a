package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/jonathan/campaign-deck/internal/assembly"
	"github.com/jonathan/campaign-deck/internal/config"
	"github.com/jonathan/campaign-deck/internal/delivery"
	"github.com/jonathan/campaign-deck/internal/drafting"
	"github.com/jonathan/campaign-deck/internal/images"
	"github.com/jonathan/campaign-deck/internal/observability"
	"github.com/jonathan/campaign-deck/internal/schemas"
	"github.com/jonathan/campaign-deck/internal/types"
)

var renderCmd = &cobra.Command{
	Use:   "render",
	Short: "Assemble a pptx deck from a presentation document",
	Long: `Validates a presentation document against the schema, resolves its images against the
files in --images, and writes the assembled pptx deck to --out (or uploads it with --upload).

Configuration can be loaded from a JSON file using --config. Command-line arguments override config file values.`,
	RunE: runRender,
}

var (
	renderConfigPath  string
	renderDocument    string
	renderImagesDir   string
	renderOutDir      string
	renderLanguage    string
	renderConcurrency int
	renderUpload      bool
	renderVerbose     bool
)

func init() {
	renderCmd.Flags().StringVar(&renderConfigPath, "config", "", "Path to config.json file (values can be overridden by other flags)")
	renderCmd.Flags().StringVarP(&renderDocument, "document", "d", "", "Path to presentation document JSON (required)")
	renderCmd.Flags().StringVarP(&renderImagesDir, "images", "i", "", "Directory of uploaded images referenced by the document")
	renderCmd.Flags().StringVarP(&renderOutDir, "out", "o", "", "Output directory for the deck")
	renderCmd.Flags().StringVar(&renderLanguage, "language", "", "Language used when the document does not set one (en or es)")
	renderCmd.Flags().IntVar(&renderConcurrency, "concurrency", 0, "Slides rendered at once (0 = GOMAXPROCS)")
	renderCmd.Flags().BoolVar(&renderUpload, "upload", false, "Upload the deck to the configured object store instead of --out")
	renderCmd.Flags().BoolVarP(&renderVerbose, "verbose", "v", false, "Print progress and a deck summary")

	_ = renderCmd.MarkFlagRequired("document")

	rootCmd.AddCommand(renderCmd)
}

func runRender(cmd *cobra.Command, _ []string) error {
	ctx := commandContext(cmd)
	out := cmd.OutOrStdout()

	defaults := config.Config{
		OutputDir:   renderOutDir,
		ImagesDir:   renderImagesDir,
		Language:    renderLanguage,
		Concurrency: renderConcurrency,
	}
	cfg, err := loadConfig(renderConfigPath, defaults, func(c *config.Config) {
		if cmd.Flags().Changed("out") {
			c.OutputDir = renderOutDir
		}
		if cmd.Flags().Changed("images") {
			c.ImagesDir = renderImagesDir
		}
		if cmd.Flags().Changed("language") {
			c.Language = renderLanguage
		}
		if cmd.Flags().Changed("concurrency") {
			c.Concurrency = renderConcurrency
		}
		if renderVerbose {
			c.Verbose = true
		}
	})
	if err != nil {
		return err
	}
	if renderDocument == "" {
		return fmt.Errorf("--document is required")
	}

	log := newLogger(cfg)
	defer log.Sync() //nolint:errcheck

	printer := observability.NewPrinter(out)

	raw, err := os.ReadFile(renderDocument)
	if err != nil {
		return fmt.Errorf("failed to read document: %w", err)
	}
	if err := schemas.ValidatePresentation(raw); err != nil {
		printer.PrintValidation(renderDocument, err)
		return fmt.Errorf("document %s is not a valid presentation", renderDocument)
	}
	doc, err := drafting.Decode(raw)
	if err != nil {
		return fmt.Errorf("failed to decode document: %w", err)
	}
	if doc.Language == "" {
		doc.Language = types.Language(cfg.Language)
	}

	var uploaded []types.UploadedImage
	if cfg.ImagesDir != "" {
		uploaded, err = images.LoadDir(cfg.ImagesDir)
		if err != nil {
			return err
		}
	}

	var deliverer delivery.Deliverer = delivery.FileDeliverer{Dir: cfg.OutputDir}
	if renderUpload {
		storeCfg := cfg.ObjectStore.Delivery()
		if !storeCfg.Enabled() {
			return fmt.Errorf("--upload requires object_store settings (config file or MINIO_* environment)")
		}
		store, err := delivery.NewObjectStore(storeCfg)
		if err != nil {
			return fmt.Errorf("failed to configure object store: %w", err)
		}
		deliverer = store
	}

	opts := []assembly.Option{assembly.WithConcurrency(cfg.Concurrency)}
	if cfg.Verbose {
		printer.PrintDocument(doc)
		opts = append(opts, assembly.WithProgress(func(ev assembly.ProgressEvent) {
			if ev.Stage == assembly.StageSlide || ev.Stage == assembly.StageSkipped {
				fmt.Fprintf(os.Stderr, "  [%d/%d] %s %s\n", ev.Index+1, ev.Total, ev.Stage, ev.Kind)
			}
		}))
	}
	assembler := assembly.New(log, opts...)

	artifact, err := assembler.Assemble(ctx, doc, uploaded)
	if err != nil {
		return fmt.Errorf("failed to assemble deck: %w", err)
	}
	receipt, err := assembler.Deliver(ctx, artifact, deliverer)
	if err != nil {
		return fmt.Errorf("failed to deliver deck: %w", err)
	}

	if cfg.Verbose {
		printer.PrintArtifact(artifact)
	}
	fmt.Fprintf(out, "Successfully assembled %d slides\n", artifact.SlideCount)
	if n := len(artifact.Skipped); n > 0 {
		fmt.Fprintf(out, "Skipped %d slides (use --verbose for details)\n", n)
	}
	fmt.Fprintf(out, "Deck: %s\n", receipt.Location)
	return nil
}
