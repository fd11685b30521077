package cli

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSettingsCmd_ShowDefaults(t *testing.T) {
	_, cleanup := setupTestServices(t)
	defer cleanup()

	out, err := execute(t, "settings")
	require.NoError(t, err)
	assert.Contains(t, out, "Current Settings")
	assert.Contains(t, out, "Provider: none")
	assert.Contains(t, out, "Min tokens:")
}

func TestSettingsChunkingCmd(t *testing.T) {
	_, cleanup := setupTestServices(t)
	defer cleanup()
	defer func() { chunkMinTokens, chunkMaxTokens = 0, 0 }()

	out, err := execute(t, "settings", "chunking", "--min", "200", "--max", "600")
	require.NoError(t, err)
	assert.Contains(t, out, "200-600 tokens")
}

func TestSettingsChunkingCmd_RejectsInvertedBounds(t *testing.T) {
	_, cleanup := setupTestServices(t)
	defer cleanup()
	defer func() { chunkMinTokens, chunkMaxTokens = 0, 0 }()

	_, err := execute(t, "settings", "chunking", "--min", "900", "--max", "600")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "must be below")
}

func TestSettingsChunkingCmd_RequiresFlags(t *testing.T) {
	_, cleanup := setupTestServices(t)
	defer cleanup()
	defer func() { chunkMinTokens, chunkMaxTokens = 0, 0 }()

	_, err := execute(t, "settings", "chunking")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "nothing to change")
}

func TestMaskAPIKey(t *testing.T) {
	assert.Equal(t, "****", maskAPIKey("short"))
	assert.Equal(t, "sk-1...wxyz", maskAPIKey("sk-1234567890abcdwxyz"))
}
