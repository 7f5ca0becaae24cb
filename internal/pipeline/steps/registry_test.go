package steps

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAll_OrderAndCount(t *testing.T) {
	defs := All()
	require.Len(t, defs, Count)

	expected := []string{"research", "ideate", "outline", "write", "images", "save"}
	for i, def := range defs {
		assert.Equal(t, i+1, def.Number)
		assert.Equal(t, expected[i], def.Name)
		assert.NotEmpty(t, def.Label)
		assert.NotEmpty(t, def.Description)
	}
}

func TestAll_ReturnsCopy(t *testing.T) {
	defs := All()
	defs[0].Label = "mutated"

	again := All()
	assert.Equal(t, "Researching keyword", again[0].Label)
}

func TestByNumber(t *testing.T) {
	def, ok := ByNumber(1)
	require.True(t, ok)
	assert.Equal(t, "research", def.Name)

	def, ok = ByNumber(Count)
	require.True(t, ok)
	assert.Equal(t, "save", def.Name)

	_, ok = ByNumber(0)
	assert.False(t, ok)
	_, ok = ByNumber(Count + 1)
	assert.False(t, ok)
}

func TestByName(t *testing.T) {
	def, ok := ByName("write")
	require.True(t, ok)
	assert.Equal(t, 4, def.Number)

	_, ok = ByName("render_latex")
	assert.False(t, ok)
}
