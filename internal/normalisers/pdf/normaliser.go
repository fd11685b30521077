// Package pdf normalises PDF documents to canonical markdown.
//
// Text extraction shells out to pdftotext (poppler). PDFs carry no
// reliable structural markup, so headings and lists are re-inferred
// heuristically from the linear text stream. The inference is best
// effort and documented as approximate.
package pdf

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"regexp"
	"strings"
	"unicode"

	"github.com/lexikon-labs/lexikon/internal/core/domain"
	"github.com/lexikon-labs/lexikon/internal/core/ports/driven"
)

// Ensure Normaliser implements the interface.
var _ driven.Normaliser = (*Normaliser)(nil)

// ErrPDFToolNotFound indicates the pdftotext binary is not installed.
var ErrPDFToolNotFound = errors.New("pdftotext not found in PATH")

// pdfMagic is the required header signature.
const pdfMagic = "%PDF-"

// CommandRunner executes an external command and returns its output.
// Abstracted for testing.
type CommandRunner interface {
	Run(ctx context.Context, name string, args ...string) ([]byte, error)
}

// execRunner runs commands with os/exec.
type execRunner struct{}

func (execRunner) Run(ctx context.Context, name string, args ...string) ([]byte, error) {
	return exec.CommandContext(ctx, name, args...).Output()
}

// Normaliser handles PDF documents.
type Normaliser struct {
	runner CommandRunner
}

// New creates a new PDF normaliser using the system pdftotext binary.
func New() *Normaliser {
	return &Normaliser{runner: execRunner{}}
}

// NewWithRunner creates a PDF normaliser with a custom command runner.
func NewWithRunner(runner CommandRunner) *Normaliser {
	return &Normaliser{runner: runner}
}

// CheckAvailable reports whether pdftotext is installed.
func CheckAvailable() error {
	if _, err := exec.LookPath("pdftotext"); err != nil {
		return ErrPDFToolNotFound
	}
	return nil
}

// InstallInstructions returns platform hints for installing pdftotext.
func InstallInstructions() string {
	return strings.Join([]string{
		"pdftotext is required for PDF ingestion:",
		"  macOS:  brew install poppler",
		"  Debian: apt install poppler-utils",
	}, "\n")
}

// SupportedTypes returns the asset types this normaliser handles.
func (n *Normaliser) SupportedTypes() []domain.AssetType {
	return []domain.AssetType{domain.AssetTypePDF}
}

// Normalise converts a PDF payload to canonical markdown.
func (n *Normaliser) Normalise(ctx context.Context, raw *domain.RawSource) (*driven.NormaliseResult, error) {
	if raw == nil {
		return nil, domain.ErrValidation
	}

	if !bytes.HasPrefix(raw.Payload, []byte(pdfMagic)) {
		return nil, fmt.Errorf("%w: missing %s signature", domain.ErrFormat, pdfMagic)
	}
	if bytes.Contains(raw.Payload, []byte("/Encrypt")) {
		return nil, fmt.Errorf("%w: PDF is password-protected", domain.ErrFormat)
	}

	text, err := n.extractText(ctx, raw.Payload)
	if err != nil {
		return nil, err
	}

	markdown := InferStructure(text)

	return &driven.NormaliseResult{
		Markdown: markdown,
		Title:    extractTitle(text, raw.URI),
	}, nil
}

// extractText writes the payload to a temp file and runs pdftotext on it.
func (n *Normaliser) extractText(ctx context.Context, payload []byte) (string, error) {
	tmp, err := os.CreateTemp("", "lexikon-*.pdf")
	if err != nil {
		return "", fmt.Errorf("create temp file: %w", err)
	}
	defer os.Remove(tmp.Name())

	if _, err := tmp.Write(payload); err != nil {
		tmp.Close()
		return "", fmt.Errorf("write temp file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return "", fmt.Errorf("close temp file: %w", err)
	}

	out, err := n.runner.Run(ctx, "pdftotext", "-layout", tmp.Name(), "-")
	if err != nil {
		return "", fmt.Errorf("%w: pdftotext: %v", domain.ErrFormat, err)
	}
	return string(out), nil
}

// Heuristic patterns for structure inference.
var (
	bulletPrefix  = regexp.MustCompile(`^\s*[•▪◦‣·*]\s+`)
	numberPrefix  = regexp.MustCompile(`^\s*(\d+)[.)]\s+`)
	multiBlank    = regexp.MustCompile(`\n{3,}`)
	trailingSpace = regexp.MustCompile(`[ \t]+\n`)
)

// InferStructure re-infers markdown structure from a linear text stream.
// Short, isolated, majority-uppercase lines become headings; bullet glyphs
// and numeric prefixes become markdown list syntax; excess blank lines
// collapse to one.
func InferStructure(text string) string {
	text = strings.ReplaceAll(text, "\r\n", "\n")
	text = strings.ReplaceAll(text, "\f", "\n")
	text = trailingSpace.ReplaceAllString(text, "\n")

	lines := strings.Split(text, "\n")
	out := make([]string, 0, len(lines))

	for i, line := range lines {
		trimmed := strings.TrimSpace(line)
		if trimmed == "" {
			out = append(out, "")
			continue
		}

		switch {
		case bulletPrefix.MatchString(line):
			out = append(out, "- "+strings.TrimSpace(bulletPrefix.ReplaceAllString(line, "")))
		case numberPrefix.MatchString(line):
			m := numberPrefix.FindStringSubmatch(line)
			rest := strings.TrimSpace(numberPrefix.ReplaceAllString(line, ""))
			out = append(out, m[1]+". "+rest)
		case looksLikeHeading(trimmed, i, lines):
			out = append(out, headingMarker(trimmed, i)+" "+trimmed)
		default:
			out = append(out, trimmed)
		}
	}

	result := strings.Join(out, "\n")
	result = multiBlank.ReplaceAllString(result, "\n\n")
	return strings.Trim(result, "\n")
}

// looksLikeHeading reports whether a line reads as a section heading:
// short, isolated by blank lines (or document edges), and mostly uppercase.
func looksLikeHeading(line string, idx int, lines []string) bool {
	if len(line) > 60 || strings.HasSuffix(line, ".") {
		return false
	}

	before := idx == 0 || strings.TrimSpace(lines[idx-1]) == ""
	after := idx == len(lines)-1 || strings.TrimSpace(lines[idx+1]) == ""
	if !before || !after {
		return false
	}

	var upper, letters int
	for _, r := range line {
		if unicode.IsLetter(r) {
			letters++
			if unicode.IsUpper(r) {
				upper++
			}
		}
	}
	return letters > 0 && upper*2 > letters
}

// headingMarker assigns a heading level from length and position: very
// short lines near the document start rank highest.
func headingMarker(line string, idx int) string {
	switch {
	case idx < 3 && len(line) <= 40:
		return "#"
	case len(line) <= 30:
		return "##"
	default:
		return "###"
	}
}

// extractTitle returns the first short non-empty line or falls back to
// the filename.
func extractTitle(content, uri string) string {
	for _, line := range strings.Split(content, "\n") {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		if len(line) > 200 {
			continue
		}
		return line
	}

	filename := filepath.Base(uri)
	filename = strings.TrimSuffix(filename, filepath.Ext(filename))
	filename = strings.ReplaceAll(filename, "_", " ")
	filename = strings.ReplaceAll(filename, "-", " ")
	return filename
}
