package mcp

import (
	"context"
	"encoding/json"

	"github.com/claude/liftlog/internal/stats"
	"github.com/claude/liftlog/internal/templates"
	"github.com/mark3labs/mcp-go/mcp"
)

func (h *handlers) templateCatalog(ctx context.Context, req mcp.ReadResourceRequest) ([]mcp.ResourceContents, error) {
	return jsonResource(req.Params.URI, templates.All)
}

func (h *handlers) leaderboardResource(ctx context.Context, req mcp.ReadResourceRequest) ([]mcp.ResourceContents, error) {
	logs, err := h.store.ListAll(ctx)
	if err != nil {
		return nil, err
	}
	return jsonResource(req.Params.URI, stats.Leaderboard(logs))
}

func jsonResource(uri string, v any) ([]mcp.ResourceContents, error) {
	data, err := json.Marshal(v)
	if err != nil {
		return nil, err
	}
	return []mcp.ResourceContents{
		mcp.TextResourceContents{
			URI:      uri,
			MIMEType: "application/json",
			Text:     string(data),
		},
	}, nil
}
