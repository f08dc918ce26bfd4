// Package mcp exposes read-only workout data over the Model Context Protocol
// so local LLM clients can query logs, the leaderboard, and consistency stats.
package mcp

import (
	"log/slog"

	"github.com/claude/liftlog/internal/history"
	"github.com/claude/liftlog/internal/storage"
	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
)

// New creates an MCP server with all tools and resources registered.
func New(store storage.Store, version string, log *slog.Logger) *server.MCPServer {
	s := server.NewMCPServer("LiftLog", version,
		server.WithToolCapabilities(false),
		server.WithResourceCapabilities(false, false),
		server.WithInstructions("LiftLog workout tracking server. Query day logs, the workout-frequency leaderboard, per-user consistency summaries, and the fixed template catalog. All data is read-only."),
	)

	h := &handlers{store: store, hist: history.NewService(store), log: log}

	// Tools
	s.AddTools(
		server.ServerTool{Tool: toolGetLeaderboard, Handler: h.getLeaderboard},
		server.ServerTool{Tool: toolGetDayLog, Handler: h.getDayLog},
		server.ServerTool{Tool: toolGetHistory, Handler: h.getHistory},
		server.ServerTool{Tool: toolGetConsistency, Handler: h.getConsistency},
		server.ServerTool{Tool: toolGetMonthCalendar, Handler: h.getMonthCalendar},
	)

	// Resources
	s.AddResources(
		server.ServerResource{Resource: resTemplateCatalog, Handler: h.templateCatalog},
		server.ServerResource{Resource: resLeaderboard, Handler: h.leaderboardResource},
	)

	return s
}

// handlers holds dependencies for MCP tool/resource handlers.
type handlers struct {
	store storage.Store
	hist  *history.Service
	log   *slog.Logger
}

// --- Resource definitions ---

var resTemplateCatalog = mcp.NewResource(
	"liftlog://template_catalog",
	"Template Catalog",
	mcp.WithResourceDescription("The four fixed workout templates with their ordered exercise lists"),
	mcp.WithMIMEType("application/json"),
)

var resLeaderboard = mcp.NewResource(
	"liftlog://leaderboard",
	"Leaderboard",
	mcp.WithResourceDescription("All users ranked by number of logged workout days (rest days excluded)"),
	mcp.WithMIMEType("application/json"),
)
