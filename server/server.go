// Copyright 2025 The Guidex Authors
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package server

import (
	"context"
	"log/slog"
	"sync/atomic"

	"github.com/modelcontextprotocol/go-sdk/mcp"
	"github.com/poiesic/guidex/core"
	"github.com/poiesic/guidex/search"
	"github.com/poiesic/guidex/update"
)

// Version is the MCP server version.
const Version = "0.1.0"

// Server exposes the rulebook over the Model Context Protocol.
type Server struct {
	engine   *search.Engine
	updater  *update.Service
	snapshot *atomic.Pointer[core.Snapshot]
	server   *mcp.Server
	logger   *slog.Logger
}

// New creates an MCP server around the search engine and update service.
// The snapshot pointer is swapped after a successful update_rulebook call.
func New(engine *search.Engine, updater *update.Service,
	snapshot *atomic.Pointer[core.Snapshot], logger *slog.Logger) *Server {

	s := &Server{
		engine:   engine,
		updater:  updater,
		snapshot: snapshot,
		server: mcp.NewServer(&mcp.Implementation{
			Name:    "guidex",
			Version: Version,
		}, nil),
		logger: logger.With("component", "mcp"),
	}
	s.registerTools()
	return s
}

// Run serves MCP over stdio until the context is cancelled.
func (s *Server) Run(ctx context.Context) error {
	s.logger.Info("mcp server starting", "transport", "stdio")
	return s.server.Run(ctx, &mcp.StdioTransport{})
}
