// Package docx normalises word-processor documents to canonical markdown.
package docx

import (
	"archive/zip"
	"bytes"
	"context"
	"encoding/xml"
	"fmt"
	"io"
	"path/filepath"
	"strings"

	"github.com/lexikon-labs/lexikon/internal/core/domain"
	"github.com/lexikon-labs/lexikon/internal/core/ports/driven"
)

// Ensure Normaliser implements the interface.
var _ driven.Normaliser = (*Normaliser)(nil)

// oleMagic is the legacy OLE compound-file signature. DOCX files with this
// header are encrypted (or pre-2007 .doc), neither of which we can read.
var oleMagic = []byte{0xD0, 0xCF, 0x11, 0xE0, 0xA1, 0xB1, 0x1A, 0xE1}

// Normaliser handles DOCX documents.
type Normaliser struct{}

// New creates a new DOCX normaliser.
func New() *Normaliser {
	return &Normaliser{}
}

// SupportedTypes returns the asset types this normaliser handles.
func (n *Normaliser) SupportedTypes() []domain.AssetType {
	return []domain.AssetType{domain.AssetTypeDOCX}
}

// Normalise converts a DOCX payload to canonical markdown.
func (n *Normaliser) Normalise(_ context.Context, raw *domain.RawSource) (*driven.NormaliseResult, error) {
	if raw == nil {
		return nil, domain.ErrValidation
	}

	if bytes.HasPrefix(raw.Payload, oleMagic) {
		return nil, fmt.Errorf("%w: document is encrypted or in the legacy .doc format", domain.ErrFormat)
	}

	reader, err := zip.NewReader(bytes.NewReader(raw.Payload), int64(len(raw.Payload)))
	if err != nil {
		return nil, fmt.Errorf("%w: not a DOCX archive", domain.ErrFormat)
	}

	markdown, err := extractMarkdown(reader)
	if err != nil {
		return nil, err
	}

	title := extractCoreTitle(reader)
	if title == "" {
		title = firstHeading(markdown)
	}
	if title == "" {
		title = titleFromFilename(raw.URI)
	}

	return &driven.NormaliseResult{
		Markdown: markdown,
		Title:    title,
	}, nil
}

// documentXML mirrors the parts of word/document.xml we read.
type documentXML struct {
	Body struct {
		Paragraphs []paragraph `xml:"p"`
	} `xml:"body"`
}

type paragraph struct {
	Props struct {
		Style struct {
			Val string `xml:"val,attr"`
		} `xml:"pStyle"`
		NumProps *struct{} `xml:"numPr"`
	} `xml:"pPr"`
	Runs []run `xml:"r"`
}

type run struct {
	Text []textElement `xml:"t"`
}

type textElement struct {
	Content string `xml:",chardata"`
}

// corePropsXML mirrors docProps/core.xml for title extraction.
type corePropsXML struct {
	Title string `xml:"title"`
}

// extractMarkdown reads word/document.xml and rewrites paragraphs as
// markdown: Heading styles become ATX markers, numbered/bulleted
// paragraphs become list items, everything else is a plain paragraph.
func extractMarkdown(reader *zip.Reader) (string, error) {
	content, err := readZipFile(reader, "word/document.xml")
	if err != nil {
		return "", err
	}
	if content == nil {
		return "", fmt.Errorf("%w: archive has no word/document.xml", domain.ErrFormat)
	}

	var doc documentXML
	if err := xml.Unmarshal(content, &doc); err != nil {
		return "", fmt.Errorf("%w: malformed document.xml", domain.ErrFormat)
	}

	var blocks []string
	for _, p := range doc.Body.Paragraphs {
		text := paragraphText(p)
		if text == "" {
			continue
		}

		switch {
		case headingLevel(p.Props.Style.Val) > 0:
			level := headingLevel(p.Props.Style.Val)
			blocks = append(blocks, strings.Repeat("#", level)+" "+text)
		case p.Props.NumProps != nil:
			blocks = append(blocks, "- "+text)
		default:
			blocks = append(blocks, text)
		}
	}

	return strings.Join(blocks, "\n\n"), nil
}

// paragraphText concatenates all text runs of a paragraph.
func paragraphText(p paragraph) string {
	var b strings.Builder
	for _, r := range p.Runs {
		for _, t := range r.Text {
			b.WriteString(t.Content)
		}
	}
	return strings.TrimSpace(b.String())
}

// headingLevel maps a Word paragraph style to a markdown heading level.
// Returns 0 for non-heading styles. Levels deeper than 3 clamp to 3 so
// the chunker's bounded heading tree still sees them.
func headingLevel(style string) int {
	if !strings.HasPrefix(style, "Heading") {
		return 0
	}
	switch strings.TrimPrefix(style, "Heading") {
	case "1":
		return 1
	case "2":
		return 2
	case "3", "4", "5", "6":
		return 3
	}
	return 0
}

// extractCoreTitle reads the dc:title property from docProps/core.xml.
func extractCoreTitle(reader *zip.Reader) string {
	content, err := readZipFile(reader, "docProps/core.xml")
	if err != nil || content == nil {
		return ""
	}

	var props corePropsXML
	if err := xml.Unmarshal(content, &props); err != nil {
		return ""
	}
	return strings.TrimSpace(props.Title)
}

// firstHeading returns the first markdown heading title, if any.
func firstHeading(markdown string) string {
	for _, line := range strings.Split(markdown, "\n") {
		line = strings.TrimSpace(line)
		if strings.HasPrefix(line, "#") {
			return strings.TrimSpace(strings.TrimLeft(line, "# "))
		}
	}
	return ""
}

// titleFromFilename derives a readable title from the source filename.
func titleFromFilename(uri string) string {
	filename := filepath.Base(uri)
	filename = strings.TrimSuffix(filename, filepath.Ext(filename))
	filename = strings.ReplaceAll(filename, "_", " ")
	filename = strings.ReplaceAll(filename, "-", " ")
	return filename
}

// readZipFile returns the named file's bytes, or nil when absent.
func readZipFile(reader *zip.Reader, name string) ([]byte, error) {
	for _, file := range reader.File {
		if file.Name != name {
			continue
		}

		rc, err := file.Open()
		if err != nil {
			return nil, fmt.Errorf("%w: reading %s", domain.ErrFormat, name)
		}
		defer rc.Close()

		content, err := io.ReadAll(rc)
		if err != nil {
			return nil, fmt.Errorf("%w: reading %s", domain.ErrFormat, name)
		}
		return content, nil
	}
	return nil, nil
}
