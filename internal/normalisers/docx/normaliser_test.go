package docx

import (
	"archive/zip"
	"bytes"
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lexikon-labs/lexikon/internal/core/domain"
)

// buildDocx assembles an in-memory DOCX archive from named parts.
func buildDocx(t *testing.T, parts map[string]string) []byte {
	t.Helper()

	var buf bytes.Buffer
	w := zip.NewWriter(&buf)
	for name, content := range parts {
		f, err := w.Create(name)
		require.NoError(t, err)
		_, err = f.Write([]byte(content))
		require.NoError(t, err)
	}
	require.NoError(t, w.Close())
	return buf.Bytes()
}

const sampleDocument = `<?xml version="1.0" encoding="UTF-8"?>
<w:document xmlns:w="http://schemas.openxmlformats.org/wordprocessingml/2006/main">
  <w:body>
    <w:p>
      <w:pPr><w:pStyle w:val="Heading1"/></w:pPr>
      <w:r><w:t>User Guide</w:t></w:r>
    </w:p>
    <w:p>
      <w:r><w:t>Welcome to the </w:t></w:r>
      <w:r><w:t>product.</w:t></w:r>
    </w:p>
    <w:p>
      <w:pPr><w:pStyle w:val="Heading2"/></w:pPr>
      <w:r><w:t>Setup</w:t></w:r>
    </w:p>
    <w:p>
      <w:pPr><w:numPr><w:ilvl w:val="0"/></w:numPr></w:pPr>
      <w:r><w:t>Install the binary</w:t></w:r>
    </w:p>
    <w:p>
      <w:pPr><w:numPr><w:ilvl w:val="0"/></w:numPr></w:pPr>
      <w:r><w:t>Run it</w:t></w:r>
    </w:p>
    <w:p>
      <w:pPr><w:pStyle w:val="Heading5"/></w:pPr>
      <w:r><w:t>Deep Section</w:t></w:r>
    </w:p>
    <w:p></w:p>
  </w:body>
</w:document>`

func TestNormalise_NilSource(t *testing.T) {
	n := New()

	result, err := n.Normalise(context.Background(), nil)
	assert.ErrorIs(t, err, domain.ErrValidation)
	assert.Nil(t, result)
}

func TestNormalise_OLEMagic(t *testing.T) {
	payload := append([]byte{0xD0, 0xCF, 0x11, 0xE0, 0xA1, 0xB1, 0x1A, 0xE1}, []byte("legacy")...)

	_, err := New().Normalise(context.Background(), &domain.RawSource{
		URI:     "/old.doc",
		Payload: payload,
	})
	assert.ErrorIs(t, err, domain.ErrFormat)
	assert.Contains(t, err.Error(), "legacy")
}

func TestNormalise_NotZip(t *testing.T) {
	_, err := New().Normalise(context.Background(), &domain.RawSource{
		URI:     "/doc.docx",
		Payload: []byte("plain text, not an archive"),
	})
	assert.ErrorIs(t, err, domain.ErrFormat)
}

func TestNormalise_MissingDocumentXML(t *testing.T) {
	payload := buildDocx(t, map[string]string{
		"word/other.xml": "<x/>",
	})

	_, err := New().Normalise(context.Background(), &domain.RawSource{
		URI:     "/doc.docx",
		Payload: payload,
	})
	assert.ErrorIs(t, err, domain.ErrFormat)
	assert.Contains(t, err.Error(), "word/document.xml")
}

func TestNormalise_MalformedXML(t *testing.T) {
	payload := buildDocx(t, map[string]string{
		"word/document.xml": "<w:document><unclosed",
	})

	_, err := New().Normalise(context.Background(), &domain.RawSource{
		URI:     "/doc.docx",
		Payload: payload,
	})
	assert.ErrorIs(t, err, domain.ErrFormat)
}

func TestNormalise_HeadingsAndLists(t *testing.T) {
	payload := buildDocx(t, map[string]string{
		"word/document.xml": sampleDocument,
	})

	result, err := New().Normalise(context.Background(), &domain.RawSource{
		URI:     "/guide.docx",
		Payload: payload,
	})
	require.NoError(t, err)

	assert.Contains(t, result.Markdown, "# User Guide")
	assert.Contains(t, result.Markdown, "Welcome to the product.")
	assert.Contains(t, result.Markdown, "## Setup")
	assert.Contains(t, result.Markdown, "- Install the binary")
	assert.Contains(t, result.Markdown, "- Run it")
	// Deep heading styles clamp to level three.
	assert.Contains(t, result.Markdown, "### Deep Section")
	assert.NotContains(t, result.Markdown, "##### ")
}

func TestNormalise_TitleFromCoreProps(t *testing.T) {
	payload := buildDocx(t, map[string]string{
		"word/document.xml": sampleDocument,
		"docProps/core.xml": `<?xml version="1.0"?>
<cp:coreProperties xmlns:cp="http://schemas.openxmlformats.org/package/2006/metadata/core-properties"
  xmlns:dc="http://purl.org/dc/elements/1.1/">
  <dc:title>Official Manual</dc:title>
</cp:coreProperties>`,
	})

	result, err := New().Normalise(context.Background(), &domain.RawSource{
		URI:     "/guide.docx",
		Payload: payload,
	})
	require.NoError(t, err)
	assert.Equal(t, "Official Manual", result.Title)
}

func TestNormalise_TitleFallsBackToHeading(t *testing.T) {
	payload := buildDocx(t, map[string]string{
		"word/document.xml": sampleDocument,
	})

	result, err := New().Normalise(context.Background(), &domain.RawSource{
		URI:     "/guide.docx",
		Payload: payload,
	})
	require.NoError(t, err)
	assert.Equal(t, "User Guide", result.Title)
}

func TestNormalise_TitleFallsBackToFilename(t *testing.T) {
	payload := buildDocx(t, map[string]string{
		"word/document.xml": `<w:document xmlns:w="http://schemas.openxmlformats.org/wordprocessingml/2006/main">
  <w:body>
    <w:p><w:r><w:t>Just a paragraph with no headings.</w:t></w:r></w:p>
  </w:body>
</w:document>`,
	})

	result, err := New().Normalise(context.Background(), &domain.RawSource{
		URI:     "/meeting_notes-2024.docx",
		Payload: payload,
	})
	require.NoError(t, err)
	assert.Equal(t, "meeting notes 2024", result.Title)
}

func TestHeadingLevel(t *testing.T) {
	assert.Equal(t, 1, headingLevel("Heading1"))
	assert.Equal(t, 2, headingLevel("Heading2"))
	assert.Equal(t, 3, headingLevel("Heading3"))
	assert.Equal(t, 3, headingLevel("Heading6"))
	assert.Equal(t, 0, headingLevel("Normal"))
	assert.Equal(t, 0, headingLevel(""))
}
