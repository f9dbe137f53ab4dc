// Package mcpserver provides an MCP (Model Context Protocol) server that
// exposes the production schedule as tools via stdio transport.
package mcpserver

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"github.com/ayasato/gekkan/internal/schedule"
	"github.com/ayasato/gekkan/internal/scheduleservice"
)

// Server wraps the MCP server with scheduling tools.
type Server struct {
	mcp *server.MCPServer
	svc *scheduleservice.Service
}

// New creates a new MCP server with all scheduling tools registered.
func New(svc *scheduleservice.Service) *Server {
	s := &Server{svc: svc}

	s.mcp = server.NewMCPServer(
		"Gekkan",
		"1.0.0",
		server.WithToolCapabilities(false),
		server.WithResourceCapabilities(false, false),
	)

	s.mcp.AddTool(mcp.NewTool("list_issues",
		mcp.WithDescription("List every magazine issue with its label (e.g. 2025年12月号)."),
	), s.listIssues)

	s.mcp.AddTool(mcp.NewTool("issue_board",
		mcp.WithDescription("Full process board for one issue: every production process with its planned date, actual date, and resolved status."),
		mcp.WithString("issue", mcp.Required(), mcp.Description("Issue label, e.g. 2025年12月号")),
	), s.issueBoard)

	s.mcp.AddTool(mcp.NewTool("list_ready",
		mcp.WithDescription("Processes that can be started now: not yet completed, all prerequisites done. "+
			"Read the gekkan://process-codes resource for the process id scheme."),
		mcp.WithString("issue", mcp.Required(), mcp.Description("Issue label")),
	), s.listReady)

	s.mcp.AddTool(mcp.NewTool("list_delayed",
		mcp.WithDescription("Overdue processes with the number of days each has slipped past its planned date."),
		mcp.WithString("issue", mcp.Required(), mcp.Description("Issue label")),
	), s.listDelayed)

	s.mcp.AddTool(mcp.NewTool("advance_confirmation",
		mcp.WithDescription("Advance the client confirmation cycle of one process: log a sent draft "+
			"(action=add_draft, status OK or needs_revision), correct a logged draft "+
			"(action=update_draft with version), or finalize the sign-off (action=finalize)."),
		mcp.WithString("issue", mcp.Required(), mcp.Description("Issue label")),
		mcp.WithString("process", mcp.Required(), mcp.Description("Process id, e.g. H-4")),
		mcp.WithString("action", mcp.Required(), mcp.Description("add_draft | update_draft | finalize")),
		mcp.WithString("sent_date", mcp.Description("Draft sent date, YYYY-MM-DD (add_draft/update_draft)")),
		mcp.WithString("status", mcp.Description("Client response: OK | needs_revision (add_draft/update_draft)")),
		mcp.WithNumber("version", mcp.Description("Draft version to correct (update_draft)")),
		mcp.WithString("notes", mcp.Description("Free-form notes on the draft")),
	), s.advanceConfirmation)

	// Resource: process-code scheme.
	s.mcp.AddResource(
		mcp.NewResource("gekkan://process-codes", "Process Code Scheme",
			mcp.WithResourceDescription("The category/process id scheme used across all scheduling tools."),
			mcp.WithMIMEType("text/markdown"),
		),
		s.readProcessCodesResource,
	)

	return s
}

// ServeStdio starts the MCP server on stdin/stdout.
func (s *Server) ServeStdio() error {
	return server.ServeStdio(s.mcp)
}

// MCPServer returns the underlying server for testing.
func (s *Server) MCPServer() *server.MCPServer {
	return s.mcp
}

func (s *Server) listIssues(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	issues, err := s.svc.ListIssues(ctx)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	out, _ := json.MarshalIndent(issues, "", "  ")
	return mcp.NewToolResultText(string(out)), nil
}

func (s *Server) issueBoard(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	issue, err := req.RequireString("issue")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	views, err := s.svc.Board(ctx, issue)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	out, _ := json.MarshalIndent(views, "", "  ")
	return mcp.NewToolResultText(string(out)), nil
}

func (s *Server) listReady(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	issue, err := req.RequireString("issue")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	views, err := s.svc.ReadyProcesses(ctx, issue)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	out, _ := json.MarshalIndent(views, "", "  ")
	return mcp.NewToolResultText(string(out)), nil
}

func (s *Server) listDelayed(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	issue, err := req.RequireString("issue")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	delays, err := s.svc.DelayedProcesses(ctx, issue)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	if len(delays) == 0 {
		return mcp.NewToolResultText("no delayed processes"), nil
	}
	out, _ := json.MarshalIndent(delays, "", "  ")
	return mcp.NewToolResultText(string(out)), nil
}

func (s *Server) advanceConfirmation(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	issue, err := req.RequireString("issue")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	process, err := req.RequireString("process")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	actionName, err := req.RequireString("action")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	action := scheduleservice.ConfirmationAction{Action: actionName}
	action.Version = int(req.GetFloat("version", 0))

	if actionName == scheduleservice.ActionAddDraft || actionName == scheduleservice.ActionUpdateDraft {
		sentRaw := req.GetString("sent_date", "")
		sent, parseErr := time.Parse("2006-01-02", sentRaw)
		if parseErr != nil {
			return mcp.NewToolResultError(fmt.Sprintf("bad sent_date %q", sentRaw)), nil
		}
		action.Draft = &schedule.Draft{
			Version:  action.Version,
			SentDate: sent,
			Status:   schedule.DraftStatus(req.GetString("status", "")),
			Notes:    req.GetString("notes", ""),
		}
	}

	if err := s.svc.AdvanceConfirmation(ctx, issue, process, action); err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	return mcp.NewToolResultText(fmt.Sprintf("advanced: %s %s (%s)", issue, process, actionName)), nil
}

func (s *Server) readProcessCodesResource(ctx context.Context, req mcp.ReadResourceRequest) ([]mcp.ResourceContents, error) {
	return []mcp.ResourceContents{
		mcp.TextResourceContents{
			URI:      "gekkan://process-codes",
			MIMEType: "text/markdown",
			Text:     ProcessCodeContract,
		},
	}, nil
}
