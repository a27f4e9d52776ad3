// Package mcp exposes docchat to AI assistants over the Model Context Protocol.
// Every tool and resource acts on behalf of the user logged in with the CLI.
package mcp

import "errors"

// ErrMissingRetrievalService is returned when the retrieval service is not provided.
var ErrMissingRetrievalService = errors.New("mcp: retrieval service is required")

// ErrMissingAuthService is returned when the auth service is not provided.
var ErrMissingAuthService = errors.New("mcp: auth service is required")

// errNotLoggedIn is returned by tools when no session exists.
var errNotLoggedIn = errors.New("not logged in: run 'docchat login' first")
