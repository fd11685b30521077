package driven

import (
	"context"

	"github.com/lexikon-labs/lexikon/internal/core/domain"
)

// Normaliser converts raw source bytes to canonical markdown.
// Each normaliser handles one declared asset type.
type Normaliser interface {
	// SupportedTypes returns the asset types this normaliser handles.
	SupportedTypes() []domain.AssetType

	// Normalise converts the raw payload to canonical markdown and an
	// optional extracted title. Returns domain.ErrFormat when the bytes
	// do not match the expected signature or the source is encrypted.
	Normalise(ctx context.Context, raw *domain.RawSource) (*NormaliseResult, error)
}

// NormaliseResult contains the output of normalisation.
// Chunking is handled by the post-processing pipeline, not here.
type NormaliseResult struct {
	// Markdown is the canonical markdown representation.
	Markdown string

	// Title is the extracted title. Empty when the source carries none;
	// a caller-supplied title always wins over this.
	Title string
}

// NormaliserRegistry selects a normaliser for a declared asset type.
type NormaliserRegistry interface {
	// ForType returns the normaliser registered for the given type,
	// or domain.ErrUnsupportedType when none is.
	ForType(t domain.AssetType) (Normaliser, error)
}
