package driven

import "context"

// Extractor turns a file of one format into plain text.
type Extractor interface {
	// Extensions returns the lowercase file extensions handled, without the dot.
	Extensions() []string

	// Extract reads the file at path and returns its text.
	Extract(ctx context.Context, path string) (string, error)
}

// ExtractorRegistry dispatches files to the extractor registered for their extension.
type ExtractorRegistry interface {
	// Register adds an extractor for each of its extensions.
	Register(extractor Extractor)

	// Supports reports whether a file's extension has an extractor.
	Supports(path string) bool

	// Extract returns the text of the file at path. It returns
	// domain.ErrUnsupportedFileType for unknown extensions.
	Extract(ctx context.Context, path string) (string, error)

	// Extensions returns every supported extension in sorted order.
	Extensions() []string
}
