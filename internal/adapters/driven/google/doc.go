// Package google holds the plumbing shared by the Google REST adapters
// (Gemini embeddings, Gemini generation and Firebase identity): a JSON
// POST helper and translation of Google API error bodies into domain errors.
package google
