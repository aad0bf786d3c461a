package server

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"github.com/tuusuario/wm-trace-snapshots/internal/trace"
)

type MCPServer struct {
	manager *trace.Manager
	server  *server.MCPServer
}

func NewMCPServer(manager *trace.Manager) *MCPServer {
	s := server.NewMCPServer(
		"Window Manager Trace Snapshots",
		"1.0.0",
		server.WithLogging(),
	)

	m := &MCPServer{
		manager: manager,
		server:  s,
	}

	m.registerTools()
	return m
}

func (s *MCPServer) Start() error {
	// stdio transport
	return server.ServeStdio(s.server)
}

func (s *MCPServer) registerTools() {
	s.server.AddTool(mcp.NewTool("capture_trace",
		mcp.WithDescription("Captures a window hierarchy trace from the running shell"),
		mcp.WithString("name", mcp.Required(), mcp.Description("Name of the trace")),
		mcp.WithString("description", mcp.Description("Description")),
		mcp.WithNumber("samples", mcp.Description("Number of hierarchy snapshots to take (default 1)")),
		mcp.WithNumber("interval_ms", mcp.Description("Milliseconds between snapshots")),
		mcp.WithBoolean("sanitize", mcp.Description("Redact sensitive window titles before storing")),
	), s.handleCaptureTrace)

	s.server.AddTool(mcp.NewTool("list_traces",
		mcp.WithDescription("Lists stored traces"),
	), s.handleListTraces)

	s.server.AddTool(mcp.NewTool("show_trace",
		mcp.WithDescription("Shows the window states of a stored trace"),
		mcp.WithString("trace_id", mcp.Required(), mcp.Description("ID of the trace to show")),
	), s.handleShowTrace)

	s.server.AddTool(mcp.NewTool("diff_traces",
		mcp.WithDescription("Structurally diffs the settled state of two traces"),
		mcp.WithString("source_id", mcp.Required(), mcp.Description("Source trace ID")),
		mcp.WithString("target_id", mcp.Required(), mcp.Description("Target trace ID")),
	), s.handleDiffTraces)

	s.server.AddTool(mcp.NewTool("delete_trace",
		mcp.WithDescription("Deletes a trace by ID"),
		mcp.WithString("trace_id", mcp.Required(), mcp.Description("ID of the trace to delete")),
	), s.handleDeleteTrace)
}

func toolArgs(request mcp.CallToolRequest) map[string]interface{} {
	if request.Params.Arguments == nil {
		return nil
	}
	args, _ := request.Params.Arguments.(map[string]interface{})
	return args
}

func (s *MCPServer) handleCaptureTrace(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	opts := trace.CaptureOptions{Samples: 1}
	if args := toolArgs(request); args != nil {
		if v, ok := args["name"].(string); ok {
			opts.Name = v
		}
		if v, ok := args["description"].(string); ok {
			opts.Description = v
		}
		if v, ok := args["samples"].(float64); ok && v > 0 {
			opts.Samples = int(v)
		}
		if v, ok := args["interval_ms"].(float64); ok && v > 0 {
			opts.Interval = time.Duration(v) * time.Millisecond
		}
		if v, ok := args["sanitize"].(bool); ok {
			opts.Sanitize = v
		}
	}

	tr, err := s.manager.Capture(ctx, opts)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("Failed to capture: %v", err)), nil
	}

	return mcp.NewToolResultText(fmt.Sprintf(
		"Trace captured. ID: %s, Name: %s, Entries: %d", tr.ID, tr.Name, len(tr.Entries))), nil
}

func (s *MCPServer) handleListTraces(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	traces, err := s.manager.List(ctx)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("Failed to list traces: %v", err)), nil
	}

	var b strings.Builder
	for _, t := range traces {
		fmt.Fprintf(&b, "- [%s] %s (%s, collector=%s", t.ID, t.Name,
			t.CreatedAt.Format(time.RFC822), t.Collector)
		if t.GitBranch != "" {
			fmt.Fprintf(&b, ", branch=%s", t.GitBranch)
		}
		b.WriteString(")\n")
	}
	if b.Len() == 0 {
		return mcp.NewToolResultText("No traces found."), nil
	}

	return mcp.NewToolResultText(b.String()), nil
}

func (s *MCPServer) handleShowTrace(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	var id string
	if args := toolArgs(request); args != nil {
		id, _ = args["trace_id"].(string)
	}

	t, err := s.manager.Get(ctx, id)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("Failed to get trace: %v", err)), nil
	}

	var b strings.Builder
	fmt.Fprintf(&b, "Trace %s (%s), %d entries\n", t.ID, t.Name, len(t.Entries))
	for i, e := range t.Entries {
		fmt.Fprintf(&b, "Entry %d (+%dms):\n", i, e.ElapsedNanos/int64(time.Millisecond))
		for _, w := range e.Windows {
			visibility := "invisible"
			if w.IsVisible() {
				visibility = "visible"
			}
			fmt.Fprintf(&b, "  %s [%s]\n", w, visibility)
		}
	}

	return mcp.NewToolResultText(b.String()), nil
}

func (s *MCPServer) handleDiffTraces(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	var sourceID, targetID string
	if args := toolArgs(request); args != nil {
		sourceID, _ = args["source_id"].(string)
		targetID, _ = args["target_id"].(string)
	}

	diff, err := s.manager.Diff(ctx, sourceID, targetID)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("Failed to diff: %v", err)), nil
	}

	return mcp.NewToolResultText(FormatDiff(diff)), nil
}

func (s *MCPServer) handleDeleteTrace(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	var id string
	if args := toolArgs(request); args != nil {
		id, _ = args["trace_id"].(string)
	}

	if err := s.manager.Delete(ctx, id); err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("Failed to delete: %v", err)), nil
	}

	return mcp.NewToolResultText(fmt.Sprintf("Trace %s deleted", id)), nil
}

// FormatDiff renders a diff result as the human-readable report shared
// by the MCP tool and the CLI.
func FormatDiff(diff *trace.DiffResult) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Diff between %s and %s:\n", diff.SourceID, diff.TargetID)
	if diff.GitChanged {
		b.WriteString("- Git Context Changed: Yes\n")
	} else {
		b.WriteString("- Git Context Changed: No\n")
	}
	fmt.Fprintf(&b, "- Common Windows: %d\n", diff.CommonWindows)

	if len(diff.AddedWindows) > 0 {
		b.WriteString("- Added Windows:\n")
		for _, w := range diff.AddedWindows {
			fmt.Fprintf(&b, "  + %s\n", w)
		}
	}
	if len(diff.RemovedWindows) > 0 {
		b.WriteString("- Removed Windows:\n")
		for _, w := range diff.RemovedWindows {
			fmt.Fprintf(&b, "  - %s\n", w)
		}
	}
	if len(diff.ChangedWindows) > 0 {
		b.WriteString("- Changed Windows:\n")
		for _, c := range diff.ChangedWindows {
			fmt.Fprintf(&b, "  ~ %s\n    before: %s\n    after:  %s\n",
				c.StableID, c.Before, c.After)
		}
	}
	if len(diff.GeometryDrift) > 0 {
		b.WriteString("- Geometry Drift (tolerated):\n")
		for _, d := range diff.GeometryDrift {
			fmt.Fprintf(&b, "  ~ %s: %s\n", d.StableID, d.Detail)
		}
	}
	if !diff.Changed() {
		b.WriteString("No structural changes.\n")
	}
	return b.String()
}
