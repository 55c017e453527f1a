package main

import (
	"bytes"
	"context"
	"errors"
	"image"
	"image/color"
	"image/png"
	"os"
	"path/filepath"
	"sync"
	"testing"

	"github.com/spf13/cobra"
	"github.com/stretchr/testify/require"

	"github.com/jonathan/campaign-deck/internal/llm"
)

const genericDoc = `{
	"title": "Q1 Review",
	"clientName": "Acme",
	"brandStyle": "modern",
	"slides": [
		{"type": "title", "title": "Q1 Review"},
		{"type": "kpiHighlights", "title": "KPIs", "kpiHighlights": [{"title": "Reach", "points": ["1.2M"]}]},
		{"type": "thankYou"}
	]
}`

const fixedDoc = `{
	"title": "Spring",
	"brandStyle": "fixed-report",
	"fixedTemplateContent": {
		"slide1_Title": {"title": "Spring Campaign"},
		"slide4_KPICharts": {"headerKpis": [{"label": "Reach", "value": "1.2M"}]}
	}
}`

// captureOutput redirects the command's stdout into a buffer for one test
func captureOutput(t *testing.T, cmd *cobra.Command) *bytes.Buffer {
	t.Helper()
	var buf bytes.Buffer
	cmd.SetOut(&buf)
	t.Cleanup(func() { cmd.SetOut(nil) })
	return &buf
}

// writeFile writes content under dir and returns its path
func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

// decks lists the pptx files in dir
func decks(t *testing.T, dir string) []string {
	t.Helper()
	matches, err := filepath.Glob(filepath.Join(dir, "*.pptx"))
	require.NoError(t, err)
	return matches
}

func pngBytes(t *testing.T) []byte {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, 4, 3))
	img.Set(1, 1, color.RGBA{B: 255, A: 255})
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, img))
	return buf.Bytes()
}

// isolateEnv clears the environment variables loadConfig reads
func isolateEnv(t *testing.T) {
	t.Helper()
	for _, key := range []string{"GEMINI_API_KEY", "MINIO_ENDPOINT", "MINIO_ACCESS_KEY", "MINIO_SECRET_KEY", "MINIO_BUCKET", "MINIO_REGION", "MINIO_USE_SSL"} {
		t.Setenv(key, "")
	}
}

// fakeLLM answers every prompt with the next scripted response
type fakeLLM struct {
	mu        sync.Mutex
	responses []string
	err       error
	calls     int
	closed    bool
}

func (f *fakeLLM) GenerateContent(ctx context.Context, prompt string, tier llm.ModelTier) (string, error) {
	return f.GenerateJSON(ctx, prompt, tier)
}

func (f *fakeLLM) GenerateJSON(context.Context, string, llm.ModelTier) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return "", f.err
	}
	if f.calls >= len(f.responses) {
		return "", errors.New("unexpected call")
	}
	f.calls++
	return f.responses[f.calls-1], nil
}

func (f *fakeLLM) GetModel(llm.ModelTier) string { return "fake" }

func (f *fakeLLM) Close() error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.closed = true
	return nil
}

// useFakeLLM swaps the client constructor for one returning client
func useFakeLLM(t *testing.T, client *fakeLLM) {
	t.Helper()
	orig := newLLMClient
	newLLMClient = func(context.Context, string) (llm.Client, error) { return client, nil }
	t.Cleanup(func() { newLLMClient = orig })
}

func mkdir(dir string) error {
	return os.MkdirAll(dir, 0o755)
}
