// Package chunker provides a heading-aware markdown chunking processor.
//
// Canonical markdown is parsed into a heading tree (levels 1-3); each
// heading section is emitted as one chunk when it fits the token budget,
// or split greedily at line boundaries when it does not. Every chunk
// carries the ordered titles of its ancestor headings so search results
// can show where in the document a passage lives.
package chunker

import (
	"context"
	"math"
	"regexp"
	"strings"

	"github.com/google/uuid"

	"github.com/lexikon-labs/lexikon/internal/core/domain"
)

// DefaultMinTokens is the default lower bound for a chunk's token estimate.
const DefaultMinTokens = 400

// DefaultMaxTokens is the default upper bound for a chunk's token estimate.
const DefaultMaxTokens = 800

// rootTitle is the synthetic title for content preceding the first heading.
// Heading markers deeper than level 3 are treated as ordinary content lines.
const rootTitle = "Introduction"

// headingLine matches an ATX heading up to the bounded depth.
var headingLine = regexp.MustCompile(`^(#{1,3})\s+(.+?)\s*$`)

// Processor splits canonical markdown into token-bounded chunks aligned
// to heading boundaries. It implements the PostProcessor interface.
type Processor struct {
	minTokens int
	maxTokens int
}

// Option configures the chunker processor.
type Option func(*Processor)

// WithMinTokens sets the lower token bound for closing a chunk early.
func WithMinTokens(n int) Option {
	return func(p *Processor) {
		if n > 0 {
			p.minTokens = n
		}
	}
}

// WithMaxTokens sets the upper token bound per chunk.
func WithMaxTokens(n int) Option {
	return func(p *Processor) {
		if n > 0 {
			p.maxTokens = n
		}
	}
}

// New creates a new chunker processor with the given options.
func New(opts ...Option) *Processor {
	p := &Processor{
		minTokens: DefaultMinTokens,
		maxTokens: DefaultMaxTokens,
	}

	for _, opt := range opts {
		opt(p)
	}

	// The bounds must form a window
	if p.minTokens >= p.maxTokens {
		p.minTokens = p.maxTokens / 2
	}

	return p
}

// Name returns the processor name.
func (p *Processor) Name() string {
	return "chunker"
}

// EstimateTokens approximates the token count of text as
// ceil(wordCount * 1.33). This proxy decides chunk boundaries and must
// stay stable so re-ingesting identical content reproduces identical
// chunks.
func EstimateTokens(text string) int {
	words := len(strings.Fields(text))
	return int(math.Ceil(float64(words) * 1.33))
}

// section is one node of the heading tree, flattened to document order.
// Content holds only the node's direct lines; descendant sections are
// separate nodes.
type section struct {
	title   string
	heading string   // raw heading line, empty for the synthetic root
	lines   []string // direct content lines
	path    []string // ancestor titles root-to-node, synthetic root excluded
}

// Process splits the asset's canonical markdown into chunks.
// Input chunks are ignored; this processor creates chunks from the asset body.
func (p *Processor) Process(_ context.Context, asset *domain.Asset, _ []domain.Chunk) ([]domain.Chunk, error) {
	if asset == nil || strings.TrimSpace(asset.Markdown) == "" {
		// Empty document yields zero chunks
		return nil, nil
	}

	sections := parseSections(asset.Markdown)

	var chunks []domain.Chunk
	for _, sec := range sections {
		for _, text := range p.splitSection(sec) {
			position := len(chunks)
			chunks = append(chunks, domain.Chunk{
				ID:          uuid.New().String(),
				ProjectID:   asset.ProjectID,
				AssetID:     asset.ID,
				ChunkID:     domain.StableChunkID(asset.ID, position, text),
				Text:        text,
				TokenCount:  EstimateTokens(text),
				Section:     sec.title,
				HeadingPath: sec.path,
				Position:    position,
			})
		}
	}

	return chunks, nil
}

// parseSections walks the markdown line by line and flattens the heading
// tree into document order. Content before the first heading lands in a
// synthetic root section whose title is excluded from heading paths.
func parseSections(markdown string) []section {
	lines := strings.Split(markdown, "\n")

	root := section{title: rootTitle}
	sections := []section{root}

	// Stack of (level, title) for the currently open headings.
	type frame struct {
		level int
		title string
	}
	var stack []frame

	for _, line := range lines {
		m := headingLine.FindStringSubmatch(line)
		if m == nil {
			cur := &sections[len(sections)-1]
			cur.lines = append(cur.lines, line)
			continue
		}

		level := len(m[1])
		title := m[2]

		// Pop frames at the same or deeper level
		for len(stack) > 0 && stack[len(stack)-1].level >= level {
			stack = stack[:len(stack)-1]
		}
		stack = append(stack, frame{level: level, title: title})

		path := make([]string, len(stack))
		for i, f := range stack {
			path[i] = f.title
		}

		sections = append(sections, section{
			title:   title,
			heading: line,
			path:    path,
		})
	}

	// Drop empty sections: a blank synthetic root, or headings with no
	// content, still count when they carry a heading line.
	out := sections[:0]
	for _, sec := range sections {
		if sec.heading == "" && !hasContent(sec.lines) {
			continue
		}
		out = append(out, sec)
	}

	return out
}

// hasContent reports whether any line is non-blank.
func hasContent(lines []string) bool {
	for _, line := range lines {
		if strings.TrimSpace(line) != "" {
			return true
		}
	}
	return false
}

// splitSection reconstructs a section's self-contained markdown and
// splits it into one or more texts within the token budget. Every split
// chunk is re-prefixed with the section's heading line so a passage
// never loses its context.
func (p *Processor) splitSection(sec section) []string {
	full := sec.heading
	if body := strings.Join(sec.lines, "\n"); body != "" {
		if full != "" {
			full += "\n"
		}
		full += body
	}
	full = strings.Trim(full, "\n")

	if EstimateTokens(full) <= p.maxTokens {
		return []string{full}
	}

	var (
		texts   []string
		current []string
	)
	if sec.heading != "" {
		current = append(current, sec.heading)
	}
	tokens := EstimateTokens(strings.Join(current, "\n"))

	flush := func() {
		text := strings.Trim(strings.Join(current, "\n"), "\n")
		if text != "" {
			texts = append(texts, text)
		}
		current = current[:0]
		if sec.heading != "" {
			current = append(current, sec.heading)
		}
		tokens = EstimateTokens(strings.Join(current, "\n"))
	}

	for _, line := range sec.lines {
		lineTokens := EstimateTokens(line)
		if tokens+lineTokens > p.maxTokens && tokens >= p.minTokens {
			flush()
		}
		current = append(current, line)
		tokens += lineTokens
	}

	// Remainder chunk may fall below the minimum
	flush()

	return texts
}
