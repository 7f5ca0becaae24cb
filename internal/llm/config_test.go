package llm

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDefaultConfig(t *testing.T) {
	config := DefaultConfig()

	assert.Equal(t, "gemini-2.5-flash", config.GetModel(RoleText))
	assert.Equal(t, "imagen-3.0-generate-002", config.GetModel(RoleImage))
}

func TestGetModel_FallsBackToText(t *testing.T) {
	config := &Config{
		Models: map[ModelRole]string{
			RoleText: "fallback-model",
		},
	}

	// A role without a configured model falls back to the text model
	assert.Equal(t, "fallback-model", config.GetModel(RoleImage))
	assert.Equal(t, "fallback-model", config.GetModel("unknown"))
}

func TestGetModel_EmptyConfig(t *testing.T) {
	config := &Config{
		Models: map[ModelRole]string{},
	}

	assert.Equal(t, "", config.GetModel(RoleText))
}

func TestWithModel(t *testing.T) {
	config := DefaultConfig()
	newConfig := config.WithModel(RoleImage, "custom-image-model")

	// Original should be unchanged
	assert.Equal(t, "imagen-3.0-generate-002", config.GetModel(RoleImage))

	// New config should have the custom model
	assert.Equal(t, "custom-image-model", newConfig.GetModel(RoleImage))

	// Other roles should be copied
	assert.Equal(t, "gemini-2.5-flash", newConfig.GetModel(RoleText))
}

func TestModelRoleConstants(t *testing.T) {
	assert.Equal(t, ModelRole("text"), RoleText)
	assert.Equal(t, ModelRole("image"), RoleImage)
}
