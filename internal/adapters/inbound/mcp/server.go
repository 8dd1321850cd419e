package mcp

import (
	"log/slog"

	"github.com/mark3labs/mcp-go/server"

	"github.com/codejanitor/janitor/internal/bootstrap"
	"github.com/codejanitor/janitor/internal/domain"
)

// Options configures the MCP server. Only ProjectPath is required.
type Options struct {
	ProjectPath string
	ConfigFile  string
	Version     string
	Logger      *slog.Logger
	Provider    domain.CompletionProvider
}

// NewJanitorMCPServer creates an MCP server exposing check, clean and
// snapshot management for the project at opts.ProjectPath. Services are
// built per call so that config edits are picked up without a restart.
func NewJanitorMCPServer(opts Options) *server.MCPServer {
	if opts.ProjectPath == "" {
		opts.ProjectPath = "."
	}
	if opts.Version == "" {
		opts.Version = "dev"
	}
	s := server.NewMCPServer(
		"janitor",
		opts.Version,
		server.WithToolCapabilities(true),
		server.WithResourceCapabilities(true, false),
	)

	h := &handlers{opts: opts}
	registerTools(s, h)
	registerResources(s, h)

	return s
}

type handlers struct {
	opts Options
}

func (h *handlers) app() (*bootstrap.App, error) {
	return bootstrap.New(bootstrap.Options{
		Target:     h.opts.ProjectPath,
		ConfigFile: h.opts.ConfigFile,
		Logger:     h.opts.Logger,
		Provider:   h.opts.Provider,
	})
}
