// Package driving defines interfaces that external actors (CLI, TUI, MCP) use
// to interact with core services. These are the "driving" ports in hexagonal
// architecture terminology - they drive the application.
//
// Every user-scoped operation takes the user ID explicitly; services hold no
// notion of a current user.
//
// Implementations of these interfaces live in internal/core/services.
package driving
