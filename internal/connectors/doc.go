// Package connectors holds sources that feed files into ingestion.
//
// The filesystem connector watches a directory tree and reports files
// that are created or rewritten so they can be uploaded automatically.
package connectors
