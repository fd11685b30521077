package chunker

import (
	"context"
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lexikon-labs/lexikon/internal/core/domain"
)

func testAsset(markdown string) *domain.Asset {
	return &domain.Asset{
		ID:        "asset-1",
		ProjectID: "proj-1",
		Markdown:  markdown,
	}
}

func TestNew_Defaults(t *testing.T) {
	p := New()
	assert.Equal(t, DefaultMinTokens, p.minTokens)
	assert.Equal(t, DefaultMaxTokens, p.maxTokens)
}

func TestNew_InvertedBoundsCorrected(t *testing.T) {
	p := New(WithMinTokens(800), WithMaxTokens(100))
	assert.Equal(t, 50, p.minTokens)
	assert.Equal(t, 100, p.maxTokens)
}

func TestName(t *testing.T) {
	assert.Equal(t, "chunker", New().Name())
}

func TestEstimateTokens(t *testing.T) {
	assert.Equal(t, 0, EstimateTokens(""))
	assert.Equal(t, 2, EstimateTokens("one"))           // ceil(1*1.33)
	assert.Equal(t, 3, EstimateTokens("two words"))     // ceil(2*1.33)
	assert.Equal(t, 4, EstimateTokens("one two three")) // ceil(3*1.33)
}

func TestProcess_EmptyDocument(t *testing.T) {
	p := New()

	chunks, err := p.Process(context.Background(), testAsset(""), nil)
	require.NoError(t, err)
	assert.Empty(t, chunks)
}

func TestProcess_WhitespaceOnlyDocument(t *testing.T) {
	p := New()

	chunks, err := p.Process(context.Background(), testAsset("  \n\n\t \n"), nil)
	require.NoError(t, err)
	assert.Empty(t, chunks)
}

func TestProcess_NoHeadings_SingleIntroductionChunk(t *testing.T) {
	p := New()

	chunks, err := p.Process(context.Background(), testAsset("Just a plain paragraph.\n\nAnd another."), nil)
	require.NoError(t, err)
	require.Len(t, chunks, 1)

	assert.Equal(t, "Introduction", chunks[0].Section)
	assert.Empty(t, chunks[0].HeadingPath)
	assert.Contains(t, chunks[0].Text, "Just a plain paragraph.")
}

func TestProcess_HeadingPaths(t *testing.T) {
	markdown := strings.Join([]string{
		"Preamble text.",
		"# Guide",
		"Top level content.",
		"## Setup",
		"Setup content.",
		"### Install",
		"Install content.",
		"## Usage",
		"Usage content.",
	}, "\n")

	p := New()
	chunks, err := p.Process(context.Background(), testAsset(markdown), nil)
	require.NoError(t, err)
	require.Len(t, chunks, 5)

	assert.Empty(t, chunks[0].HeadingPath) // preamble: synthetic root excluded
	assert.Equal(t, []string{"Guide"}, chunks[1].HeadingPath)
	assert.Equal(t, []string{"Guide", "Setup"}, chunks[2].HeadingPath)
	assert.Equal(t, []string{"Guide", "Setup", "Install"}, chunks[3].HeadingPath)
	assert.Equal(t, []string{"Guide", "Usage"}, chunks[4].HeadingPath)

	assert.Equal(t, "Install", chunks[3].Section)
}

func TestProcess_SiblingAfterDeepHeading(t *testing.T) {
	markdown := strings.Join([]string{
		"# A",
		"content a",
		"### Deep",
		"content deep",
		"## B",
		"content b",
	}, "\n")

	p := New()
	chunks, err := p.Process(context.Background(), testAsset(markdown), nil)
	require.NoError(t, err)
	require.Len(t, chunks, 3)

	assert.Equal(t, []string{"A", "Deep"}, chunks[1].HeadingPath)
	assert.Equal(t, []string{"A", "B"}, chunks[2].HeadingPath)
}

func TestProcess_Level4HeadingIsContent(t *testing.T) {
	markdown := "# Top\n\n#### Not a section\n\nbody"

	p := New()
	chunks, err := p.Process(context.Background(), testAsset(markdown), nil)
	require.NoError(t, err)
	require.Len(t, chunks, 1)
	assert.Contains(t, chunks[0].Text, "#### Not a section")
}

func TestProcess_FullCoverage(t *testing.T) {
	// Every heading and content line must appear in the output, in order,
	// with no gaps. Re-prefixed heading lines may repeat; content lines
	// may not.
	var b strings.Builder
	b.WriteString("# Section One\n")
	for i := 0; i < 40; i++ {
		fmt.Fprintf(&b, "line %d with several words of filler text here\n", i)
	}
	b.WriteString("## Section Two\n")
	b.WriteString("short tail content\n")

	p := New(WithMinTokens(40), WithMaxTokens(80))
	chunks, err := p.Process(context.Background(), testAsset(b.String()), nil)
	require.NoError(t, err)
	require.Greater(t, len(chunks), 2)

	joined := strings.Join(chunkTexts(chunks), "\n")
	for i := 0; i < 40; i++ {
		line := fmt.Sprintf("line %d with several words of filler text here", i)
		assert.Equal(t, 1, strings.Count(joined, line), "content line %d must appear exactly once", i)
	}
	assert.Contains(t, joined, "short tail content")

	// Order preserved across chunk boundaries
	prev := -1
	for i := 0; i < 40; i++ {
		idx := strings.Index(joined, fmt.Sprintf("line %d with", i))
		require.Greater(t, idx, prev)
		prev = idx
	}
}

func TestProcess_SplitRePrefixesHeading(t *testing.T) {
	var b strings.Builder
	b.WriteString("# Long Section\n")
	for i := 0; i < 30; i++ {
		fmt.Fprintf(&b, "filler line %d with a handful of words\n", i)
	}

	p := New(WithMinTokens(30), WithMaxTokens(60))
	chunks, err := p.Process(context.Background(), testAsset(b.String()), nil)
	require.NoError(t, err)
	require.Greater(t, len(chunks), 1)

	for _, c := range chunks {
		assert.True(t, strings.HasPrefix(c.Text, "# Long Section"), "every split chunk keeps its heading line")
		assert.Equal(t, []string{"Long Section"}, c.HeadingPath)
	}
}

func TestProcess_TokenBounds(t *testing.T) {
	var b strings.Builder
	b.WriteString("# Bounded\n")
	for i := 0; i < 50; i++ {
		fmt.Fprintf(&b, "word word word word word word word word line %d\n", i)
	}

	minTokens, maxTokens := 40, 90
	p := New(WithMinTokens(minTokens), WithMaxTokens(maxTokens))
	chunks, err := p.Process(context.Background(), testAsset(b.String()), nil)
	require.NoError(t, err)
	require.Greater(t, len(chunks), 1)

	// All but the final remainder chunk must meet the minimum.
	for i, c := range chunks[:len(chunks)-1] {
		assert.GreaterOrEqual(t, c.TokenCount, minTokens, "chunk %d below minimum", i)
	}
}

func TestProcess_SingleSectionWithinBudget(t *testing.T) {
	markdown := "# Small\n\nA couple of words."

	p := New()
	chunks, err := p.Process(context.Background(), testAsset(markdown), nil)
	require.NoError(t, err)
	require.Len(t, chunks, 1)
	assert.Equal(t, "# Small\n\nA couple of words.", chunks[0].Text)
}

func TestProcess_PositionsAndStableIDs(t *testing.T) {
	markdown := "# A\ncontent a\n# B\ncontent b"

	p := New()
	first, err := p.Process(context.Background(), testAsset(markdown), nil)
	require.NoError(t, err)
	second, err := p.Process(context.Background(), testAsset(markdown), nil)
	require.NoError(t, err)
	require.Len(t, first, 2)

	for i := range first {
		assert.Equal(t, i, first[i].Position)
		assert.NotEqual(t, first[i].ID, second[i].ID, "storage ids are unique")
		assert.Equal(t, first[i].ChunkID, second[i].ChunkID, "stable ids reproduce")
	}
}

func chunkTexts(chunks []domain.Chunk) []string {
	texts := make([]string, len(chunks))
	for i, c := range chunks {
		texts[i] = c.Text
	}
	return texts
}
