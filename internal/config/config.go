// Package config provides configuration loading and validation for the CLI
// and the HTTP server.
package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
)

// Config represents the application configuration that can be loaded from a
// JSON file. All fields are optional; missing values use defaults or must be
// provided via CLI flags or environment variables.
type Config struct {
	// Generation
	Language   string `json:"language,omitempty"`    // Article language: "en" or "id"
	TextModel  string `json:"text_model,omitempty"`  // Gemini model for the text stages
	ImageModel string `json:"image_model,omitempty"` // Imagen model for image generation
	APIKey     string `json:"api_key,omitempty"`     // Gemini API key (falls back to GEMINI_API_KEY env var)

	// Storage and serving
	DatabaseURL string `json:"database_url,omitempty"` // PostgreSQL connection URL (falls back to DATABASE_URL env var)
	Port        int    `json:"port,omitempty"`         // HTTP server port

	// Pacing between API calls, in milliseconds
	ImageDelayMS   int `json:"image_delay_ms,omitempty"`   // Delay between image generations
	KeywordDelayMS int `json:"keyword_delay_ms,omitempty"` // Delay between keywords in a batch
	FailureDelayMS int `json:"failure_delay_ms,omitempty"` // Delay after a failed keyword

	// Export tuning
	SiteTitle   string `json:"site_title,omitempty"`   // Site title for WXR exports
	SiteURL     string `json:"site_url,omitempty"`     // Site URL for WXR exports
	Author      string `json:"author,omitempty"`       // Author login for WXR exports
	MaxWidth    int    `json:"max_width,omitempty"`    // Width cap when recompressing oversized images
	JPEGQuality int    `json:"jpeg_quality,omitempty"` // JPEG quality when recompressing oversized images
}

// DefaultConfig returns the built-in defaults applied when neither the config
// file nor a CLI flag provides a value.
func DefaultConfig() Config {
	return Config{
		Language:    "en",
		TextModel:   "gemini-2.5-flash",
		ImageModel:  "imagen-3.0-generate-002",
		Port:        8080,
		MaxWidth:    1200,
		JPEGQuality: 80,
	}
}

// LoadConfig loads configuration from a JSON file.
// Returns an error if the file cannot be read or parsed.
func LoadConfig(path string) (*Config, error) {
	if path == "" {
		return nil, fmt.Errorf("config path is empty")
	}

	// Resolve path relative to current directory if not absolute
	if !filepath.IsAbs(path) {
		cwd, err := os.Getwd()
		if err != nil {
			return nil, fmt.Errorf("failed to get current directory: %w", err)
		}
		path = filepath.Join(cwd, path)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file %s: %w", path, err)
	}

	var cfg Config
	if err := json.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config JSON: %w", err)
	}

	return &cfg, nil
}

// Validate checks that the configuration has valid values.
// Note: This doesn't check for required fields since those are handled
// by CLI flag validation after merging.
func (c *Config) Validate() error {
	if c.Language != "" && c.Language != "en" && c.Language != "id" {
		return fmt.Errorf("config error: 'language' must be \"en\" or \"id\", got %q", c.Language)
	}

	if c.Port < 0 || c.Port > 65535 {
		return fmt.Errorf("config error: 'port' must be between 0 and 65535")
	}

	if c.ImageDelayMS < 0 {
		return fmt.Errorf("config error: 'image_delay_ms' must be non-negative")
	}
	if c.KeywordDelayMS < 0 {
		return fmt.Errorf("config error: 'keyword_delay_ms' must be non-negative")
	}
	if c.FailureDelayMS < 0 {
		return fmt.Errorf("config error: 'failure_delay_ms' must be non-negative")
	}

	if c.MaxWidth < 0 {
		return fmt.Errorf("config error: 'max_width' must be non-negative")
	}
	if c.JPEGQuality < 0 || c.JPEGQuality > 100 {
		return fmt.Errorf("config error: 'jpeg_quality' must be between 0 and 100")
	}

	return nil
}

// MergeWithDefaults returns a new Config with empty fields filled from
// defaults. This is used to apply config file values as defaults for CLI
// flags.
func (c *Config) MergeWithDefaults(defaults Config) Config {
	result := *c

	// String fields: use default if empty
	if result.Language == "" {
		result.Language = defaults.Language
	}
	if result.TextModel == "" {
		result.TextModel = defaults.TextModel
	}
	if result.ImageModel == "" {
		result.ImageModel = defaults.ImageModel
	}
	if result.APIKey == "" {
		result.APIKey = defaults.APIKey
	}
	if result.DatabaseURL == "" {
		result.DatabaseURL = defaults.DatabaseURL
	}
	if result.SiteTitle == "" {
		result.SiteTitle = defaults.SiteTitle
	}
	if result.SiteURL == "" {
		result.SiteURL = defaults.SiteURL
	}
	if result.Author == "" {
		result.Author = defaults.Author
	}

	// Int fields: use default if zero
	if result.Port == 0 {
		result.Port = defaults.Port
	}
	if result.ImageDelayMS == 0 {
		result.ImageDelayMS = defaults.ImageDelayMS
	}
	if result.KeywordDelayMS == 0 {
		result.KeywordDelayMS = defaults.KeywordDelayMS
	}
	if result.FailureDelayMS == 0 {
		result.FailureDelayMS = defaults.FailureDelayMS
	}
	if result.MaxWidth == 0 {
		result.MaxWidth = defaults.MaxWidth
	}
	if result.JPEGQuality == 0 {
		result.JPEGQuality = defaults.JPEGQuality
	}

	return result
}
