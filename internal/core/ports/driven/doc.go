// Package driven defines the interfaces that core calls OUT to infrastructure.
//
// These are the "driven" or "secondary" ports in hexagonal architecture.
// Core services depend on these interfaces, and infrastructure adapters
// implement them.
//
// # Required Interfaces
//
//   - DocumentStore: Document persistence
//   - VectorStore: Chunk text and embedding persistence, scoped per user
//   - MessageStore: Chat history persistence
//   - ExtractorRegistry: Turns uploaded files into text
//   - ConfigStore: Application configuration and session state
//
// # Optional Interfaces
//
// These can be nil - the application degrades gracefully:
//
//   - EmbeddingService: Without it, uploads persist documents but no chunks,
//     and retrieval returns nothing.
//   - LLMService: Without it, every reply is the fixed fallback reply.
//   - IdentityProvider: Without it, signup and login are unavailable.
//
// # Import Rules
//
//   - Can Import: domain package only
//   - Cannot Import: Any adapter or normaliser package
package driven
