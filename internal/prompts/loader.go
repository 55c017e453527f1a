// Package prompts holds the LLM prompt templates used to extract campaign
// facts and draft decks. Each JSON file maps prompt keys to templates and is
// embedded at compile time.
package prompts

import (
	"embed"
	"encoding/json"
	"fmt"
	"maps"
	"slices"
	"strings"
	"sync"
)

//go:embed *.json
var promptFiles embed.FS

// Set is one parsed prompt file
type Set map[string]string

// loaded caches parsed files by name
var loaded sync.Map

// Load parses a prompt file, e.g. "drafting.json". Results are cached.
func Load(filename string) (Set, error) {
	if set, ok := loaded.Load(filename); ok {
		return set.(Set), nil
	}

	data, err := promptFiles.ReadFile(filename)
	if err != nil {
		return nil, fmt.Errorf("failed to read prompt file %s: %w", filename, err)
	}
	var set Set
	if err := json.Unmarshal(data, &set); err != nil {
		return nil, fmt.Errorf("failed to parse prompt file %s: %w", filename, err)
	}

	actual, _ := loaded.LoadOrStore(filename, set)
	return actual.(Set), nil
}

// Get retrieves a prompt template by file and key
func Get(filename, key string) (string, error) {
	set, err := Load(filename)
	if err != nil {
		return "", err
	}
	template, ok := set[key]
	if !ok {
		return "", fmt.Errorf("prompt key %q not found in %s", key, filename)
	}
	return template, nil
}

// MustGet is Get for prompts that ship with the binary; it panics when missing
func MustGet(filename, key string) string {
	template, err := Get(filename, key)
	if err != nil {
		panic(fmt.Sprintf("failed to load prompt: %v", err))
	}
	return template
}

// Render loads a prompt and fills its placeholders
func Render(filename, key string, data map[string]string) (string, error) {
	template, err := Get(filename, key)
	if err != nil {
		return "", err
	}
	return Format(template, data), nil
}

// Format replaces {{.Key}} placeholders with values from data.
// Unknown placeholders are left in place.
func Format(template string, data map[string]string) string {
	if len(data) == 0 {
		return template
	}
	pairs := make([]string, 0, len(data)*2)
	for key, value := range data {
		pairs = append(pairs, "{{."+key+"}}", value)
	}
	return strings.NewReplacer(pairs...).Replace(template)
}

// Keys returns the prompt keys of a file, sorted
func Keys(filename string) ([]string, error) {
	set, err := Load(filename)
	if err != nil {
		return nil, err
	}
	return slices.Sorted(maps.Keys(set)), nil
}

// ClearCache forgets every parsed file
func ClearCache() {
	loaded.Clear()
}
