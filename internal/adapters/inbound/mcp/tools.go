package mcp

import (
	"context"
	"encoding/json"
	"fmt"
	"path/filepath"

	mcplib "github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"github.com/codejanitor/janitor/internal/domain"
)

func registerTools(s *server.MCPServer, h *handlers) {
	s.AddTool(
		mcplib.NewTool("janitor_check",
			mcplib.WithDescription("Analyze a Python file or directory for code smells, security issues and lint findings"),
			mcplib.WithString("path",
				mcplib.Required(),
				mcplib.Description("File or directory to analyze, relative to the project root"),
			),
		),
		h.check,
	)

	s.AddTool(
		mcplib.NewTool("janitor_clean",
			mcplib.WithDescription("Refactor a file or directory with the configured AI provider. Changes are applied only when they pass validation, otherwise the target is rolled back"),
			mcplib.WithString("path",
				mcplib.Required(),
				mcplib.Description("File or directory to clean, relative to the project root"),
			),
			mcplib.WithBoolean("dry_run",
				mcplib.Description("Validate the refactoring and return the diff without writing anything"),
			),
		),
		h.clean,
	)

	s.AddTool(
		mcplib.NewTool("janitor_snapshots",
			mcplib.WithDescription("List snapshots, roll a target back to its latest snapshot, or delete all snapshots"),
			mcplib.WithString("action",
				mcplib.Required(),
				mcplib.Description("One of: list, rollback, cleanup"),
			),
			mcplib.WithString("target",
				mcplib.Description("File or directory the action applies to; required for rollback"),
			),
		),
		h.snapshots,
	)
}

func (h *handlers) resolve(path string) string {
	if filepath.IsAbs(path) {
		return path
	}
	return filepath.Join(h.opts.ProjectPath, path)
}

func (h *handlers) check(ctx context.Context, request mcplib.CallToolRequest) (*mcplib.CallToolResult, error) {
	path, err := request.RequireString("path")
	if err != nil {
		return errorResult(err.Error()), nil
	}
	app, err := h.app()
	if err != nil {
		return errorResult(err.Error()), nil
	}

	result, err := app.Analyzer.Analyze(ctx, h.resolve(path))
	if err != nil {
		return errorResult(fmt.Sprintf("check failed: %v", err)), nil
	}
	if app.RecordEnabled() {
		if _, err := app.History.Record(app.Root, result, false); err != nil {
			app.Logger.Warn("recording analysis failed", "error", err)
		}
	}
	return jsonResult(result)
}

func (h *handlers) clean(ctx context.Context, request mcplib.CallToolRequest) (*mcplib.CallToolResult, error) {
	path, err := request.RequireString("path")
	if err != nil {
		return errorResult(err.Error()), nil
	}
	app, err := h.app()
	if err != nil {
		return errorResult(err.Error()), nil
	}
	cleaner, err := app.Cleaner()
	if err != nil {
		return errorResult(fmt.Sprintf("completion provider: %v", err)), nil
	}

	opts := domain.CleanOptions{DryRun: request.GetBool("dry_run", false), ShowDiff: true}
	reports, err := cleaner.Clean(ctx, h.resolve(path), opts)
	if err != nil {
		return errorResult(fmt.Sprintf("clean failed: %v", err)), nil
	}
	return jsonResult(reports)
}

func (h *handlers) snapshots(_ context.Context, request mcplib.CallToolRequest) (*mcplib.CallToolResult, error) {
	action, err := request.RequireString("action")
	if err != nil {
		return errorResult(err.Error()), nil
	}
	target := request.GetString("target", "")
	app, err := h.app()
	if err != nil {
		return errorResult(err.Error()), nil
	}

	switch action {
	case "list":
		if target != "" {
			target = h.resolve(target)
		}
		snaps := app.Snapshots.List(target)
		if snaps == nil {
			snaps = []domain.Snapshot{}
		}
		return jsonResult(snaps)
	case "rollback":
		if target == "" {
			return errorResult("target is required for rollback"), nil
		}
		snap, err := app.Snapshots.Rollback(h.resolve(target))
		if err != nil {
			return errorResult(err.Error()), nil
		}
		return textResult(fmt.Sprintf("Restored %s from %s", snap.OriginalPath, snap.SnapshotPath)), nil
	case "cleanup":
		return textResult(fmt.Sprintf("Removed %d snapshot(s)", app.Snapshots.Cleanup())), nil
	default:
		return errorResult(fmt.Sprintf("unknown action %q (valid: list, rollback, cleanup)", action)), nil
	}
}

// jsonResult marshals v to JSON and returns it as a text content result.
func jsonResult(v interface{}) (*mcplib.CallToolResult, error) {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("marshaling result: %w", err)
	}
	return &mcplib.CallToolResult{
		Content: []mcplib.Content{mcplib.NewTextContent(string(data))},
	}, nil
}

func textResult(text string) *mcplib.CallToolResult {
	return &mcplib.CallToolResult{
		Content: []mcplib.Content{mcplib.NewTextContent(text)},
	}
}

func errorResult(msg string) *mcplib.CallToolResult {
	return &mcplib.CallToolResult{
		Content: []mcplib.Content{mcplib.NewTextContent(msg)},
		IsError: true,
	}
}
