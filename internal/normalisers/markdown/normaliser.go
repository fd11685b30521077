// Package markdown normalises markdown and plain text sources.
package markdown

import (
	"context"
	"regexp"
	"strings"

	"github.com/lexikon-labs/lexikon/internal/core/domain"
	"github.com/lexikon-labs/lexikon/internal/core/ports/driven"
)

// Ensure Normaliser implements the interface.
var _ driven.Normaliser = (*Normaliser)(nil)

// Normaliser handles markdown and plain text sources. The payload is
// already in (or close to) the canonical representation, so normalisation
// is limited to line-ending and blank-line cleanup plus title extraction.
type Normaliser struct{}

// New creates a new markdown normaliser.
func New() *Normaliser {
	return &Normaliser{}
}

// SupportedTypes returns the asset types this normaliser handles.
func (n *Normaliser) SupportedTypes() []domain.AssetType {
	return []domain.AssetType{domain.AssetTypeMarkdown}
}

var multiBlankLines = regexp.MustCompile(`\n{3,}`)

// Normalise converts a markdown payload to the canonical representation.
func (n *Normaliser) Normalise(_ context.Context, raw *domain.RawSource) (*driven.NormaliseResult, error) {
	if raw == nil {
		return nil, domain.ErrValidation
	}

	content := string(raw.Payload)

	// Normalise line endings and excess blank lines
	content = strings.ReplaceAll(content, "\r\n", "\n")
	content = strings.ReplaceAll(content, "\r", "\n")
	content = multiBlankLines.ReplaceAllString(content, "\n\n")
	content = strings.Trim(content, "\n")

	return &driven.NormaliseResult{
		Markdown: content,
		Title:    extractTitle(content),
	}, nil
}

// extractTitle returns the first H1 heading, or the first non-blank line
// truncated to a reasonable length when the document has no headings.
func extractTitle(content string) string {
	for _, line := range strings.Split(content, "\n") {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		if strings.HasPrefix(line, "# ") {
			return strings.TrimSpace(strings.TrimPrefix(line, "# "))
		}
		if strings.HasPrefix(line, "#") {
			// Deeper heading first: not a document title
			return ""
		}
		if len(line) > 80 {
			return ""
		}
		return line
	}
	return ""
}
