package main

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/jonathan/campaign-deck/internal/assembly"
	"github.com/jonathan/campaign-deck/internal/config"
	"github.com/jonathan/campaign-deck/internal/delivery"
	"github.com/jonathan/campaign-deck/internal/drafting"
	"github.com/jonathan/campaign-deck/internal/images"
	"github.com/jonathan/campaign-deck/internal/ingestion"
	"github.com/jonathan/campaign-deck/internal/llm"
	"github.com/jonathan/campaign-deck/internal/observability"
	"github.com/jonathan/campaign-deck/internal/types"
)

// documentFile is the name the drafted document is written under
const documentFile = "presentation.json"

var draftCmd = &cobra.Command{
	Use:   "draft",
	Short: "Draft a presentation document from a campaign report",
	Long: `Ingests a campaign report from a file (.txt, .md, .csv, .tsv, .html) or URL, asks the model
for a schema-valid presentation document, and writes it to --out together with the cleaned
report text. With --render the drafted document is assembled into a deck as well.`,
	RunE: runDraft,
}

var (
	draftConfigPath string
	draftSource     string
	draftURL        string
	draftOutDir     string
	draftStyle      string
	draftLanguage   string
	draftImagesDir  string
	draftAPIKey     string
	draftMaxRepairs int
	draftSkipFacts  bool
	draftRender     bool
	draftVerbose    bool
)

// newLLMClient is replaced in tests
var newLLMClient = func(ctx context.Context, apiKey string) (llm.Client, error) {
	return llm.NewClient(ctx, llm.DefaultConfig(), apiKey)
}

func init() {
	draftCmd.Flags().StringVar(&draftConfigPath, "config", "", "Path to config.json file (values can be overridden by other flags)")
	draftCmd.Flags().StringVarP(&draftSource, "source", "s", "", "Path to campaign report file (mutually exclusive with --url)")
	draftCmd.Flags().StringVarP(&draftURL, "url", "u", "", "URL to fetch the campaign report from (mutually exclusive with --source)")
	draftCmd.Flags().StringVarP(&draftOutDir, "out", "o", "", "Output directory (required)")
	draftCmd.Flags().StringVar(&draftStyle, "style", string(types.StyleCorporate), "Brand style: corporate, modern or fixed-report")
	draftCmd.Flags().StringVar(&draftLanguage, "language", "", "Deck language (en or es)")
	draftCmd.Flags().StringVarP(&draftImagesDir, "images", "i", "", "Directory of images the document may reference")
	draftCmd.Flags().IntVar(&draftMaxRepairs, "max-repairs", drafting.DefaultMaxRepairs, "Correction round trips after a schema failure")
	draftCmd.Flags().BoolVar(&draftSkipFacts, "skip-facts", false, "Draft without the fact extraction pass")
	draftCmd.Flags().BoolVar(&draftRender, "render", false, "Also assemble the drafted document into a deck in --out")
	draftCmd.Flags().BoolVarP(&draftVerbose, "verbose", "v", false, "Print detailed debug information")

	// API key can be passed as a flag, or read from env var GEMINI_API_KEY
	draftCmd.Flags().StringVar(&draftAPIKey, "api-key", "", "Gemini API Key (optional, defaults to GEMINI_API_KEY env var)")

	_ = draftCmd.MarkFlagRequired("out")

	rootCmd.AddCommand(draftCmd)
}

func runDraft(cmd *cobra.Command, _ []string) error {
	ctx := commandContext(cmd)
	out := cmd.OutOrStdout()

	// Validate mutually exclusive flags
	if draftSource == "" && draftURL == "" {
		return fmt.Errorf("either --source or --url must be provided")
	}
	if draftSource != "" && draftURL != "" {
		return fmt.Errorf("--source and --url are mutually exclusive; provide only one")
	}
	if draftOutDir == "" {
		return fmt.Errorf("--out is required")
	}
	style := types.BrandStyle(draftStyle)
	if !knownStyle(style) {
		return fmt.Errorf("unknown brand style %q", draftStyle)
	}

	defaults := config.Config{
		ImagesDir: draftImagesDir,
		Language:  draftLanguage,
		APIKey:    draftAPIKey,
	}
	cfg, err := loadConfig(draftConfigPath, defaults, func(c *config.Config) {
		if cmd.Flags().Changed("images") {
			c.ImagesDir = draftImagesDir
		}
		if cmd.Flags().Changed("language") {
			c.Language = draftLanguage
		}
		if cmd.Flags().Changed("api-key") {
			c.APIKey = draftAPIKey
		}
		if draftVerbose {
			c.Verbose = true
		}
	})
	if err != nil {
		return err
	}
	if cfg.APIKey == "" {
		return fmt.Errorf("GEMINI_API_KEY environment variable or --api-key flag is required")
	}

	log := newLogger(cfg)
	defer log.Sync() //nolint:errcheck

	printer := observability.NewPrinter(out)

	var (
		text string
		meta *ingestion.Metadata
	)
	if draftSource != "" {
		text, meta, err = ingestion.IngestFromFile(draftSource)
		if err != nil {
			return fmt.Errorf("failed to ingest from file: %w", err)
		}
	} else {
		text, meta, err = ingestion.IngestFromURL(ctx, draftURL, nil)
		if err != nil {
			return fmt.Errorf("failed to ingest from URL: %w", err)
		}
	}
	if cfg.Verbose {
		printer.PrintIngestion(meta, text)
	}
	if err := ingestion.WriteOutput(draftOutDir, text, meta); err != nil {
		return fmt.Errorf("failed to write output: %w", err)
	}

	var uploaded []types.UploadedImage
	if cfg.ImagesDir != "" {
		if uploaded, err = images.LoadDir(cfg.ImagesDir); err != nil {
			return err
		}
	}
	names := make([]string, 0, len(uploaded))
	for _, img := range uploaded {
		names = append(names, img.Name)
	}

	client, err := newLLMClient(ctx, cfg.APIKey)
	if err != nil {
		return fmt.Errorf("failed to create LLM client: %w", err)
	}
	defer client.Close() //nolint:errcheck

	drafter := drafting.New(client, log, drafting.WithMaxRepairs(draftMaxRepairs))
	result, err := drafter.Draft(ctx, drafting.Request{
		Source:     text,
		Style:      style,
		Language:   types.Language(cfg.Language),
		ImageNames: names,
		SkipFacts:  draftSkipFacts,
	})
	if err != nil {
		return fmt.Errorf("failed to draft document: %w", err)
	}
	if cfg.Verbose {
		printer.PrintDraft(result)
	}

	docPath := filepath.Join(draftOutDir, documentFile)
	if err := os.WriteFile(docPath, result.JSON, 0644); err != nil {
		return fmt.Errorf("failed to write document: %w", err)
	}

	fmt.Fprintf(out, "Successfully drafted presentation document (%d attempts)\n", result.Attempts)
	fmt.Fprintf(out, "Cleaned text: %s\n", filepath.Join(draftOutDir, "campaign.cleaned.txt"))
	fmt.Fprintf(out, "Document: %s\n", docPath)

	if !draftRender {
		return nil
	}

	assembler := assembly.New(log, assembly.WithConcurrency(cfg.Concurrency))
	artifact, err := assembler.Assemble(ctx, result.Document, uploaded)
	if err != nil {
		return fmt.Errorf("failed to assemble deck: %w", err)
	}
	receipt, err := assembler.Deliver(ctx, artifact, delivery.FileDeliverer{Dir: draftOutDir})
	if err != nil {
		return fmt.Errorf("failed to deliver deck: %w", err)
	}
	if cfg.Verbose {
		printer.PrintArtifact(artifact)
	}
	fmt.Fprintf(out, "Deck: %s\n", receipt.Location)
	return nil
}

func knownStyle(style types.BrandStyle) bool {
	for _, s := range types.BrandStyles {
		if s == style {
			return true
		}
	}
	return false
}
