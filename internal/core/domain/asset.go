package domain

import "time"

// AssetType identifies the declared format of an ingested source.
type AssetType string

const (
	// AssetTypeMarkdown is plain text or markdown content.
	AssetTypeMarkdown AssetType = "markdown"
	// AssetTypeHTML is an HTML page.
	AssetTypeHTML AssetType = "html"
	// AssetTypePDF is a PDF document.
	AssetTypePDF AssetType = "pdf"
	// AssetTypeDOCX is a word-processor document.
	AssetTypeDOCX AssetType = "docx"
)

// Valid reports whether the asset type is one of the supported formats.
func (t AssetType) Valid() bool {
	switch t {
	case AssetTypeMarkdown, AssetTypeHTML, AssetTypePDF, AssetTypeDOCX:
		return true
	}
	return false
}

// Asset represents one ingested source document.
// The Markdown field is the canonical representation after normalisation;
// all chunks are derived from it.
type Asset struct {
	// ID is the unique identifier for the asset.
	ID string

	// ProjectID scopes the asset to a project. All retrieval is
	// project-scoped; assets never cross project boundaries.
	ProjectID string

	// Type is the declared source format.
	Type AssetType

	// Title is the human-readable title, extracted during normalisation
	// or supplied by the caller.
	Title string

	// Markdown is the full canonical markdown body.
	Markdown string

	// Hash is the hex-encoded SHA-256 digest of Markdown.
	// (ProjectID, Hash) is unique: re-ingesting byte-identical content
	// returns the existing asset.
	Hash string

	// CreatedAt is when the asset was first ingested.
	CreatedAt time.Time
}

// SourceKind identifies how the raw payload was supplied.
type SourceKind string

const (
	// SourceKindText is inline text pasted by the caller.
	SourceKindText SourceKind = "text"
	// SourceKindURL is a web page to fetch.
	SourceKindURL SourceKind = "url"
	// SourceKindFile is an uploaded file.
	SourceKindFile SourceKind = "file"
)

// RawSource represents an opaque payload before normalisation.
type RawSource struct {
	// ProjectID scopes the ingestion.
	ProjectID string

	// Kind is how the payload was supplied.
	Kind SourceKind

	// DeclaredType is the caller-declared (or sniffed) format.
	DeclaredType AssetType

	// URI is the original location, when the source is a URL or file.
	URI string

	// Payload is the raw bytes.
	Payload []byte

	// Title is an optional caller-supplied title. When set it overrides
	// any title extracted during normalisation.
	Title string
}
