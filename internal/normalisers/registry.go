package normalisers

import (
	"fmt"

	"github.com/lexikon-labs/lexikon/internal/core/domain"
	"github.com/lexikon-labs/lexikon/internal/core/ports/driven"
)

// Ensure Registry implements the interface.
var _ driven.NormaliserRegistry = (*Registry)(nil)

// Registry maps asset types to their normalisers.
type Registry struct {
	byType map[domain.AssetType]driven.Normaliser
}

// NewRegistry creates an empty normaliser registry.
func NewRegistry() *Registry {
	return &Registry{
		byType: make(map[domain.AssetType]driven.Normaliser),
	}
}

// Register adds a normaliser for every asset type it supports.
// A later registration for the same type replaces the earlier one.
func (r *Registry) Register(n driven.Normaliser) {
	for _, t := range n.SupportedTypes() {
		r.byType[t] = n
	}
}

// ForType returns the normaliser registered for the given asset type.
func (r *Registry) ForType(t domain.AssetType) (driven.Normaliser, error) {
	n, ok := r.byType[t]
	if !ok {
		return nil, fmt.Errorf("%w: %s", domain.ErrUnsupportedType, t)
	}
	return n, nil
}
