package mcp

import (
	"context"
	"encoding/json"
	"fmt"

	mcplib "github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
)

const (
	configURI  = "janitor://config"
	historyURI = "janitor://history"
)

func registerResources(s *server.MCPServer, h *handlers) {
	s.AddResource(
		mcplib.NewResource(
			configURI,
			"Configuration",
			mcplib.WithResourceDescription("Effective janitor configuration for the project, API key omitted"),
			mcplib.WithMIMEType("application/json"),
		),
		h.configResource,
	)

	s.AddResource(
		mcplib.NewResource(
			historyURI,
			"Analysis History",
			mcplib.WithResourceDescription("The 20 most recent analysis records, newest first"),
			mcplib.WithMIMEType("application/json"),
		),
		h.historyResource,
	)
}

func (h *handlers) configResource(_ context.Context, _ mcplib.ReadResourceRequest) ([]mcplib.ResourceContents, error) {
	app, err := h.app()
	if err != nil {
		return nil, err
	}
	return jsonResource(configURI, map[string]any{
		"source": app.ConfigSource,
		"config": app.Config,
	})
}

func (h *handlers) historyResource(_ context.Context, _ mcplib.ReadResourceRequest) ([]mcplib.ResourceContents, error) {
	app, err := h.app()
	if err != nil {
		return nil, err
	}
	records, err := app.History.Recent(app.Root, 20)
	if err != nil {
		return nil, err
	}
	return jsonResource(historyURI, records)
}

func jsonResource(uri string, v any) ([]mcplib.ResourceContents, error) {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("marshaling %s: %w", uri, err)
	}
	return []mcplib.ResourceContents{
		mcplib.TextResourceContents{
			URI:      uri,
			MIMEType: "application/json",
			Text:     string(data),
		},
	}, nil
}
