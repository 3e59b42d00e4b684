// Package mcp provides a Model Context Protocol server adapter for AskEd.
// It lets AI assistants retrieve compliance context and citations through
// the standard MCP tool interface.
package mcp

import "errors"

// ErrMissingContextProvider is returned when the context provider is not supplied.
var ErrMissingContextProvider = errors.New("mcp: context provider is required")

// ErrInvalidSetting is returned for an unrecognised setting value.
var ErrInvalidSetting = errors.New("mcp: setting must be \"nursery\", \"club\" or \"both\"")
