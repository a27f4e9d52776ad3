// Package domain defines the core business entities for docchat.
//
// This package is part of the hexagonal architecture's innermost layer.
// It has NO external dependencies and defines the fundamental types:
//
//   - Document: text extracted from an uploaded file, owned by one user
//   - Chunk: a bounded slice of a document's text plus its embedding vector
//   - Message: one entry in a user's append-only chat history
//   - Session: the identity a request acts on behalf of
//
// # Architectural Position
//
// Domain is at the centre of the hexagon. It may only import
// the Go standard library. All other packages depend on domain,
// never the reverse.
//
// # Import Rules
//
//   - Can Import: Standard library only
//   - Cannot Import: Any internal/ package, any external dependency
package domain
