// Package main provides the deck_agent CLI for drafting, validating and
// assembling campaign presentation decks.
package main

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "deck_agent",
	Short: "Campaign presentation deck assembler",
	Long:  "deck_agent turns campaign presentation documents and uploaded images into branded pptx decks, drafts documents from campaign reports, and serves the same operations over HTTP.",
}

func main() {
	// Load .env file if it exists
	_ = godotenv.Load()

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
