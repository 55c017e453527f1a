package main

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/jonathan/campaign-deck/internal/drafting"
	"github.com/jonathan/campaign-deck/internal/observability"
	"github.com/jonathan/campaign-deck/internal/schemas"
	"github.com/jonathan/campaign-deck/internal/types"
)

var validateCmd = &cobra.Command{
	Use:   "validate",
	Short: "Validate a presentation document and image manifest",
	Long: `Checks a presentation document against the presentation schema and the document rules,
and optionally an uploaded-images manifest against the uploads schema. With --schema the
document is checked against that schema file instead.`,
	RunE: runValidate,
}

var (
	validateDocument string
	validateImages   string
	validateSchema   string
	validateVerbose  bool
)

func init() {
	validateCmd.Flags().StringVarP(&validateDocument, "document", "d", "", "Path to the JSON file to validate (required)")
	validateCmd.Flags().StringVarP(&validateImages, "images", "i", "", "Path to an uploaded-images manifest JSON file")
	validateCmd.Flags().StringVar(&validateSchema, "schema", "", "Validate --document against this JSON schema file instead")
	validateCmd.Flags().BoolVarP(&validateVerbose, "verbose", "v", false, "Print the document outline when it is valid")

	_ = validateCmd.MarkFlagRequired("document")

	rootCmd.AddCommand(validateCmd)
}

func runValidate(cmd *cobra.Command, _ []string) error {
	if validateDocument == "" {
		return fmt.Errorf("--document is required")
	}
	printer := observability.NewPrinter(cmd.OutOrStdout())

	if validateSchema != "" {
		err := schemas.ValidateJSON(validateSchema, validateDocument)
		printer.PrintValidation(validateDocument, err)
		if err != nil {
			return fmt.Errorf("validation failed")
		}
		return nil
	}

	failed := false

	doc, err := validateDocumentFile(validateDocument)
	printer.PrintValidation(validateDocument, err)
	if err != nil {
		failed = true
	}

	if validateImages != "" {
		err := validateManifestFile(validateImages)
		printer.PrintValidation(validateImages, err)
		if err != nil {
			failed = true
		}
	}

	if failed {
		return fmt.Errorf("validation failed")
	}
	if validateVerbose {
		printer.PrintDocument(doc)
	}
	return nil
}

// validateDocumentFile runs the schema check followed by the document rules
func validateDocumentFile(path string) (*types.PresentationDocument, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", path, err)
	}
	if err := schemas.ValidatePresentation(raw); err != nil {
		return nil, err
	}
	return drafting.Decode(raw)
}

func validateManifestFile(path string) error {
	raw, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read %s: %w", path, err)
	}
	if err := schemas.ValidateUploads(raw); err != nil {
		return err
	}
	var uploaded []types.UploadedImage
	if err := json.Unmarshal(raw, &uploaded); err != nil {
		return fmt.Errorf("failed to decode %s: %w", path, err)
	}
	return nil
}
