// Package html normalises HTML pages to canonical markdown.
package html

import (
	"context"
	"fmt"
	"html"
	"regexp"
	"strconv"
	"strings"

	"github.com/lexikon-labs/lexikon/internal/core/domain"
	"github.com/lexikon-labs/lexikon/internal/core/ports/driven"
)

// Ensure Normaliser implements the interface.
var _ driven.Normaliser = (*Normaliser)(nil)

// Normaliser handles HTML sources. Non-content regions are discarded via
// a denylist of structural containers before conversion; the main content
// region is preferred when one exists.
type Normaliser struct{}

// New creates a new HTML normaliser.
func New() *Normaliser {
	return &Normaliser{}
}

// SupportedTypes returns the asset types this normaliser handles.
func (n *Normaliser) SupportedTypes() []domain.AssetType {
	return []domain.AssetType{domain.AssetTypeHTML}
}

// Pre-compiled regular expressions for HTML parsing performance.
var (
	// Denylist: structural containers that never hold article content.
	denylistTags = []*regexp.Regexp{
		regexp.MustCompile(`(?is)<head[^>]*>.*?</head>`),
		regexp.MustCompile(`(?is)<script[^>]*>.*?</script>`),
		regexp.MustCompile(`(?is)<style[^>]*>.*?</style>`),
		regexp.MustCompile(`(?is)<noscript[^>]*>.*?</noscript>`),
		regexp.MustCompile(`(?is)<svg[^>]*>.*?</svg>`),
		regexp.MustCompile(`(?is)<iframe[^>]*>.*?</iframe>`),
		regexp.MustCompile(`(?is)<form[^>]*>.*?</form>`),
		regexp.MustCompile(`(?is)<nav[^>]*>.*?</nav>`),
		regexp.MustCompile(`(?is)<header[^>]*>.*?</header>`),
		regexp.MustCompile(`(?is)<footer[^>]*>.*?</footer>`),
		regexp.MustCompile(`(?is)<aside[^>]*>.*?</aside>`),
		regexp.MustCompile(`(?is)<(?:div|section|ol|ul)[^>]*(?:id|class)\s*=\s*"[^"]*comment[^"]*"[^>]*>.*?</(?:div|section|ol|ul)>`),
	}
	htmlComments = regexp.MustCompile(`(?s)<!--.*?-->`)

	mainRegion    = regexp.MustCompile(`(?is)<main[^>]*>(.*?)</main>`)
	articleRegion = regexp.MustCompile(`(?is)<article[^>]*>(.*?)</article>`)
	roleMain      = regexp.MustCompile(`(?is)<[a-z]+[^>]*role\s*=\s*"main"[^>]*>(.*?)</[a-z]+>`)
	bodyRegion    = regexp.MustCompile(`(?is)<body[^>]*>(.*?)</body>`)

	h1Tag      = regexp.MustCompile(`(?is)<h1[^>]*>(.*?)</h1>`)
	titleTag   = regexp.MustCompile(`(?is)<title[^>]*>(.*?)</title>`)
	ogTitleTag = regexp.MustCompile(`(?is)<meta[^>]+property\s*=\s*"og:title"[^>]+content\s*=\s*"([^"]*)"`)

	headingTags   = regexp.MustCompile(`(?is)<h([1-6])[^>]*>(.*?)</h[1-6]>`)
	listItemTags  = regexp.MustCompile(`(?is)<li[^>]*>(.*?)</li>`)
	paragraphOpen = regexp.MustCompile(`(?i)<(p|div|blockquote|pre|table|tr|section)[^>]*>`)
	blockClose    = regexp.MustCompile(`(?i)</(p|div|blockquote|pre|table|tr|section)>`)
	brTags        = regexp.MustCompile(`(?i)<br\s*/?>`)
	hrTags        = regexp.MustCompile(`(?i)<hr\s*/?>`)
	allTags       = regexp.MustCompile(`<[^>]+>`)
	multiSpaces   = regexp.MustCompile(`[ \t]+`)
	multiNewlines = regexp.MustCompile(`\n{3,}`)

	angleBracket = regexp.MustCompile(`(?i)<\s*(html|head|body|!doctype)`)
)

// Normalise converts an HTML page to canonical markdown.
func (n *Normaliser) Normalise(_ context.Context, raw *domain.RawSource) (*driven.NormaliseResult, error) {
	if raw == nil {
		return nil, domain.ErrValidation
	}

	content := string(raw.Payload)
	if !looksLikeHTML(content) {
		return nil, fmt.Errorf("%w: payload is not HTML", domain.ErrFormat)
	}

	title := extractTitle(content)
	markdown := toMarkdown(content)

	return &driven.NormaliseResult{
		Markdown: markdown,
		Title:    title,
	}, nil
}

// looksLikeHTML reports whether the payload carries HTML structure.
// A bare text payload declared as HTML is a format mismatch.
func looksLikeHTML(content string) bool {
	return angleBracket.MatchString(content) || allTags.MatchString(content)
}

// extractTitle picks the page title with the priority: first H1 heading,
// document <title> tag, og:title metadata.
func extractTitle(content string) string {
	for _, re := range []*regexp.Regexp{h1Tag, titleTag, ogTitleTag} {
		if m := re.FindStringSubmatch(content); len(m) > 1 {
			title := strings.TrimSpace(html.UnescapeString(allTags.ReplaceAllString(m[1], "")))
			if title != "" {
				return title
			}
		}
	}
	return ""
}

// mainContent isolates the content region: an explicit main container when
// one exists, otherwise the body, otherwise the whole document.
func mainContent(content string) string {
	for _, re := range []*regexp.Regexp{mainRegion, articleRegion, roleMain, bodyRegion} {
		if m := re.FindStringSubmatch(content); len(m) > 1 && strings.TrimSpace(m[1]) != "" {
			return m[1]
		}
	}
	return content
}

// toMarkdown strips non-content containers and rewrites the remaining
// structure as markdown.
func toMarkdown(content string) string {
	// Remove comments first so commented-out markup never leaks through
	content = htmlComments.ReplaceAllString(content, "")

	// Drop denylisted structural containers
	for _, re := range denylistTags {
		content = re.ReplaceAllString(content, "")
	}

	content = mainContent(content)

	// Headings become ATX markers at their original level
	content = headingTags.ReplaceAllStringFunc(content, func(tag string) string {
		m := headingTags.FindStringSubmatch(tag)
		level, _ := strconv.Atoi(m[1])
		text := strings.TrimSpace(allTags.ReplaceAllString(m[2], ""))
		return "\n" + strings.Repeat("#", level) + " " + text + "\n"
	})

	// List items become markdown bullets
	content = listItemTags.ReplaceAllStringFunc(content, func(tag string) string {
		m := listItemTags.FindStringSubmatch(tag)
		text := strings.TrimSpace(allTags.ReplaceAllString(m[1], ""))
		return "\n- " + text + "\n"
	})

	// Block boundaries become newlines
	content = paragraphOpen.ReplaceAllString(content, "\n")
	content = blockClose.ReplaceAllString(content, "\n")
	content = brTags.ReplaceAllString(content, "\n")
	content = hrTags.ReplaceAllString(content, "\n")

	// Strip all remaining tags and decode entities
	content = allTags.ReplaceAllString(content, "")
	content = html.UnescapeString(content)

	// Collapse whitespace while preserving line structure
	content = multiSpaces.ReplaceAllString(content, " ")

	lines := strings.Split(content, "\n")
	trimmed := make([]string, 0, len(lines))
	for _, line := range lines {
		trimmed = append(trimmed, strings.TrimSpace(line))
	}
	content = strings.Join(trimmed, "\n")
	content = multiNewlines.ReplaceAllString(content, "\n\n")

	return strings.Trim(content, "\n")
}
