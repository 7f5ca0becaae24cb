// Package llm wraps the Gemini API behind the pipeline's content operations:
// search-grounded research, ideation, outlining, article writing, and image
// generation.
package llm

// ModelRole selects which configured model serves a request.
type ModelRole string

const (
	// RoleText serves the four conversational stages
	RoleText ModelRole = "text"
	// RoleImage serves image generation
	RoleImage ModelRole = "image"
)

// Config holds the model configuration for the application
type Config struct {
	Models map[ModelRole]string
}

// DefaultConfig returns the default Gemini configuration
func DefaultConfig() *Config {
	return &Config{
		Models: map[ModelRole]string{
			RoleText:  "gemini-2.5-flash",
			RoleImage: "imagen-3.0-generate-002",
		},
	}
}

// GetModel returns the model name for a given role
func (c *Config) GetModel(role ModelRole) string {
	if model, ok := c.Models[role]; ok && model != "" {
		return model
	}
	// Fall back to the text model so a partially filled config still works
	if model, ok := c.Models[RoleText]; ok {
		return model
	}
	return ""
}

// WithModel returns a new Config with a specific model for a role
func (c *Config) WithModel(role ModelRole, model string) *Config {
	newConfig := &Config{
		Models: make(map[ModelRole]string),
	}
	for k, v := range c.Models {
		newConfig.Models[k] = v
	}
	newConfig.Models[role] = model
	return newConfig
}
