package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestAssetType_Valid(t *testing.T) {
	tests := []struct {
		name  string
		typ   AssetType
		valid bool
	}{
		{"markdown", AssetTypeMarkdown, true},
		{"html", AssetTypeHTML, true},
		{"pdf", AssetTypePDF, true},
		{"docx", AssetTypeDOCX, true},
		{"empty", AssetType(""), false},
		{"unknown", AssetType("xlsx"), false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.valid, tt.typ.Valid())
		})
	}
}

func TestStableChunkID_Deterministic(t *testing.T) {
	a := StableChunkID("asset-1", 0, "# Intro\n\nHello.")
	b := StableChunkID("asset-1", 0, "# Intro\n\nHello.")
	assert.Equal(t, a, b)
	assert.Len(t, a, 16)
}

func TestStableChunkID_VariesByInput(t *testing.T) {
	base := StableChunkID("asset-1", 0, "text")
	assert.NotEqual(t, base, StableChunkID("asset-2", 0, "text"))
	assert.NotEqual(t, base, StableChunkID("asset-1", 1, "text"))
	assert.NotEqual(t, base, StableChunkID("asset-1", 0, "other"))
}

func TestHashContent(t *testing.T) {
	a := HashContent("# Doc\n\nBody.")
	b := HashContent("# Doc\n\nBody.")
	c := HashContent("# Doc\n\nBody!")

	assert.Equal(t, a, b)
	assert.NotEqual(t, a, c)
	assert.Len(t, a, 64)
}
