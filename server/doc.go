// Package server exposes rulebook search, lookup, and re-indexing as MCP
// tools over a stdio transport.
package server
