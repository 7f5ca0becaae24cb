// Package prompts provides the LLM prompt templates for the article pipeline.
// Prompts are stored as JSON, keyed by stage and language, and embedded at
// compile time.
package prompts

import (
	"embed"
	"encoding/json"
	"fmt"
	"strings"
	"sync"
)

//go:embed pipeline.json
var promptFiles embed.FS

var (
	loadOnce sync.Once
	loaded   map[string]string
	loadErr  error
)

// ForStage retrieves the prompt for a pipeline stage ("research", "ideate",
// "outline", "write") in the given language ("en", "id").
func ForStage(stage, language string) (string, error) {
	return Get(stage + "_" + language)
}

// Get retrieves a prompt by its full key (e.g. "write_en").
func Get(key string) (string, error) {
	prompts, err := load()
	if err != nil {
		return "", err
	}

	prompt, exists := prompts[key]
	if !exists {
		return "", fmt.Errorf("prompt key %q not found", key)
	}
	return prompt, nil
}

// MustGet retrieves a prompt by key, panicking if not found.
// Use this for prompts that are required at initialization time.
func MustGet(key string) string {
	prompt, err := Get(key)
	if err != nil {
		panic(fmt.Sprintf("failed to load prompt: %v", err))
	}
	return prompt
}

// Format replaces template placeholders in the form {{.Key}} with values from data.
func Format(template string, data map[string]string) string {
	result := template
	for key, value := range data {
		placeholder := fmt.Sprintf("{{.%s}}", key)
		result = strings.ReplaceAll(result, placeholder, value)
	}
	return result
}

// Keys returns all available prompt keys.
func Keys() ([]string, error) {
	prompts, err := load()
	if err != nil {
		return nil, err
	}

	keys := make([]string, 0, len(prompts))
	for key := range prompts {
		keys = append(keys, key)
	}
	return keys, nil
}

func load() (map[string]string, error) {
	loadOnce.Do(func() {
		data, err := promptFiles.ReadFile("pipeline.json")
		if err != nil {
			loadErr = fmt.Errorf("failed to read prompt file: %w", err)
			return
		}
		if err := json.Unmarshal(data, &loaded); err != nil {
			loadErr = fmt.Errorf("failed to parse prompt file: %w", err)
		}
	})
	return loaded, loadErr
}
