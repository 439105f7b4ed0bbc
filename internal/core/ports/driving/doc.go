// Package driving declares what the CLI, TUI and MCP server can ask of the
// core: comparisons, locator sessions, run history, settings and backend
// status. internal/core/services implements every interface here.
package driving
