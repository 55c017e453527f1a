package main

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jonathan/campaign-deck/internal/drafting"
	"github.com/jonathan/campaign-deck/internal/types"
)

func resetDraftFlags(t *testing.T) {
	t.Helper()
	t.Cleanup(func() {
		draftConfigPath = ""
		draftSource = ""
		draftURL = ""
		draftOutDir = ""
		draftStyle = string(types.StyleCorporate)
		draftLanguage = ""
		draftImagesDir = ""
		draftAPIKey = ""
		draftMaxRepairs = drafting.DefaultMaxRepairs
		draftSkipFacts = false
		draftRender = false
		draftVerbose = false
	})
}

func TestDraft_WritesDocumentAndCleanedText(t *testing.T) {
	isolateEnv(t)
	resetDraftFlags(t)
	client := &fakeLLM{responses: []string{"```json\n" + genericDoc + "\n```"}}
	useFakeLLM(t, client)

	dir := t.TempDir()
	out := filepath.Join(dir, "out")
	draftSource = writeFile(t, dir, "report.csv", "Channel,Reach\nSocial,1.2M\n")
	draftOutDir = out
	draftStyle = string(types.StyleModern)
	draftSkipFacts = true
	draftAPIKey = "test-key"
	draftVerbose = true
	buf := captureOutput(t, draftCmd)

	require.NoError(t, runDraft(draftCmd, nil))

	doc, err := os.ReadFile(filepath.Join(out, documentFile))
	require.NoError(t, err)
	assert.JSONEq(t, genericDoc, string(doc))
	assert.FileExists(t, filepath.Join(out, "campaign.cleaned.txt"))
	assert.FileExists(t, filepath.Join(out, "campaign.meta.json"))

	assert.Contains(t, buf.String(), "INGESTED SOURCE")
	assert.Contains(t, buf.String(), "DRAFTED DOCUMENT")
	assert.Contains(t, buf.String(), "Successfully drafted presentation document (1 attempts)")
	assert.Empty(t, decks(t, out))
	assert.True(t, client.closed)
}

func TestDraft_Render(t *testing.T) {
	isolateEnv(t)
	resetDraftFlags(t)
	useFakeLLM(t, &fakeLLM{responses: []string{fixedDoc}})

	dir := t.TempDir()
	draftSource = writeFile(t, dir, "report.txt", "Spring campaign reached 1.2M people.")
	draftOutDir = dir
	draftStyle = string(types.StyleFixedReport)
	draftSkipFacts = true
	draftAPIKey = "test-key"
	draftRender = true
	buf := captureOutput(t, draftCmd)

	require.NoError(t, runDraft(draftCmd, nil))

	files := decks(t, dir)
	require.Len(t, files, 1)
	assert.Contains(t, buf.String(), "Deck: "+files[0])
}

func TestDraft_FlagErrors(t *testing.T) {
	isolateEnv(t)
	dir := t.TempDir()
	source := writeFile(t, dir, "report.txt", "Reach 1.2M")

	tests := []struct {
		name    string
		set     func()
		wantErr string
	}{
		{
			name:    "no source",
			set:     func() { draftOutDir = dir },
			wantErr: "either --source or --url must be provided",
		},
		{
			name: "source and url",
			set: func() {
				draftSource = source
				draftURL = "https://example.com/report.csv"
				draftOutDir = dir
			},
			wantErr: "mutually exclusive",
		},
		{
			name:    "no out",
			set:     func() { draftSource = source },
			wantErr: "--out is required",
		},
		{
			name: "unknown style",
			set: func() {
				draftSource = source
				draftOutDir = dir
				draftStyle = "neon"
			},
			wantErr: "unknown brand style",
		},
		{
			name: "no api key",
			set: func() {
				draftSource = source
				draftOutDir = dir
			},
			wantErr: "GEMINI_API_KEY",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resetDraftFlags(t)
			tt.set()
			captureOutput(t, draftCmd)

			err := runDraft(draftCmd, nil)
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestDraft_ModelFailure(t *testing.T) {
	isolateEnv(t)
	resetDraftFlags(t)
	useFakeLLM(t, &fakeLLM{err: errors.New("quota exceeded")})

	dir := t.TempDir()
	draftSource = writeFile(t, dir, "report.txt", "Reach 1.2M")
	draftOutDir = dir
	draftSkipFacts = true
	draftAPIKey = "test-key"
	captureOutput(t, draftCmd)

	err := runDraft(draftCmd, nil)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to draft document")
	assert.NoFileExists(t, filepath.Join(dir, documentFile))
}
