// Package mcp provides an MCP (Model Context Protocol) server adapter for proofcheck.
// It lets AI assistants compare documents and locate rule terms through
// the same services as the CLI.
package mcp

import "errors"

// ErrMissingCompareService is returned when the compare service is not provided.
var ErrMissingCompareService = errors.New("mcp: compare service is required")

// ErrUnknownSession is returned when a locate session has expired or never existed.
var ErrUnknownSession = errors.New("mcp: unknown locate session")
