package main

import (
	"encoding/json"

	"github.com/spf13/cobra"

	"github.com/jonathan/campaign-deck/internal/brand"
	"github.com/jonathan/campaign-deck/internal/observability"
	"github.com/jonathan/campaign-deck/internal/types"
)

var schemesCmd = &cobra.Command{
	Use:   "schemes",
	Short: "List the brand schemes decks can be rendered with",
	RunE:  runSchemes,
}

var schemesJSON bool

func init() {
	schemesCmd.Flags().BoolVar(&schemesJSON, "json", false, "Print the schemes as JSON")
	rootCmd.AddCommand(schemesCmd)
}

// schemeSummary is the JSON form of a brand scheme
type schemeSummary struct {
	Style         types.BrandStyle `json:"style"`
	Name          string           `json:"name"`
	FixedTemplate bool             `json:"fixedTemplate"`
	HeadlineFont  string           `json:"headlineFont"`
	BodyFont      string           `json:"bodyFont"`
	Colors        brand.Palette    `json:"colors"`
}

func runSchemes(cmd *cobra.Command, _ []string) error {
	schemes := brand.List()
	if !schemesJSON {
		observability.NewPrinter(cmd.OutOrStdout()).PrintSchemes(schemes)
		return nil
	}

	out := make([]schemeSummary, 0, len(schemes))
	for _, s := range schemes {
		out = append(out, schemeSummary{
			Style:         s.Style,
			Name:          s.Name,
			FixedTemplate: s.Style.IsFixedTemplate(),
			HeadlineFont:  s.HeadlineFont,
			BodyFont:      s.BodyFont,
			Colors:        s.Colors,
		})
	}
	enc := json.NewEncoder(cmd.OutOrStdout())
	enc.SetIndent("", "  ")
	return enc.Encode(out)
}
