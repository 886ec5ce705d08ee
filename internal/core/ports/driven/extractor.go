package driven

import "context"

// ExtractResult is the normalized output of content extraction.
type ExtractResult struct {
	// Text is the document body with markdown-style heading markup
	// ("#".."######" lines) interleaved with paragraphs. This is the
	// chunker's input format.
	Text string
}

// Extractor converts one content type into normalized heading-annotated
// text.
type Extractor interface {
	// MIMEType returns the content type this extractor handles.
	MIMEType() string

	// Extract fetches and converts the file. Transient fetch failures
	// are wrapped with domain.Transient; corrupt content is fatal.
	Extract(ctx context.Context, fileID string) (*ExtractResult, error)
}

// ExtractorRegistry dispatches extraction by content type.
// Unknown types return domain.ErrUnsupportedType rather than failing
// dispatch.
type ExtractorRegistry interface {
	// Extract looks up the extractor for mimeType and runs it.
	Extract(ctx context.Context, fileID, mimeType string) (*ExtractResult, error)

	// Supported reports whether a content type has a registered
	// extractor.
	Supported(mimeType string) bool
}
