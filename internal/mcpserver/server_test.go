package mcpserver

import (
	"context"
	"log/slog"
	"os"
	"strings"
	"testing"
	"time"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/ayasato/gekkan/internal/master"
	"github.com/ayasato/gekkan/internal/scheduleservice"
	"github.com/ayasato/gekkan/internal/testutil"
)

func newTestServer(t *testing.T) (*Server, *scheduleservice.Service) {
	t.Helper()
	store := testutil.TestStore(t)
	_, arch := testutil.TestArchive(t)
	holder := master.NewHolder(master.Default())
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelError}))
	svc := scheduleservice.NewService(store, arch, holder, nil, logger)
	return New(svc), svc
}

func seedIssue(t *testing.T, svc *scheduleservice.Service) {
	t.Helper()
	publish := time.Date(2025, time.December, 1, 0, 0, 0, 0, time.UTC)
	if _, _, err := svc.CreateIssue(context.Background(), publish); err != nil {
		t.Fatalf("create issue: %v", err)
	}
}

// resultText extracts the text payload of a tool result.
func resultText(t *testing.T, res *mcp.CallToolResult) string {
	t.Helper()
	if res == nil || len(res.Content) == 0 {
		t.Fatal("empty tool result")
	}
	tc, ok := res.Content[0].(mcp.TextContent)
	if !ok {
		t.Fatalf("content type %T, want TextContent", res.Content[0])
	}
	return tc.Text
}

func TestListIssuesTool(t *testing.T) {
	s, svc := newTestServer(t)
	seedIssue(t, svc)

	req := mcp.CallToolRequest{}
	req.Params.Name = "list_issues"

	res, err := s.listIssues(context.Background(), req)
	if err != nil {
		t.Fatalf("tool: %v", err)
	}
	if text := resultText(t, res); !strings.Contains(text, "2025年12月号") {
		t.Errorf("result = %q, want issue label", text)
	}
}

func TestIssueBoardTool(t *testing.T) {
	s, svc := newTestServer(t)
	seedIssue(t, svc)

	req := mcp.CallToolRequest{}
	req.Params.Name = "issue_board"
	req.Params.Arguments = map[string]interface{}{"issue": "2025年12月号"}

	res, err := s.issueBoard(context.Background(), req)
	if err != nil {
		t.Fatalf("tool: %v", err)
	}
	text := resultText(t, res)
	if !strings.Contains(text, "A-6") || !strings.Contains(text, "デザイン") {
		t.Errorf("board missing A-6: %q", text)
	}
}

func TestIssueBoardToolMissingArg(t *testing.T) {
	s, _ := newTestServer(t)

	req := mcp.CallToolRequest{}
	req.Params.Name = "issue_board"

	res, err := s.issueBoard(context.Background(), req)
	if err != nil {
		t.Fatalf("tool: %v", err)
	}
	if !res.IsError {
		t.Error("missing issue argument should produce a tool error")
	}
}

func TestListReadyTool(t *testing.T) {
	s, svc := newTestServer(t)
	seedIssue(t, svc)

	req := mcp.CallToolRequest{}
	req.Params.Name = "list_ready"
	req.Params.Arguments = map[string]interface{}{"issue": "2025年12月号"}

	res, err := s.listReady(context.Background(), req)
	if err != nil {
		t.Fatalf("tool: %v", err)
	}
	if text := resultText(t, res); !strings.Contains(text, "A-1") {
		t.Errorf("ready list missing A-1: %q", text)
	}
}

func TestListDelayedTool(t *testing.T) {
	s, svc := newTestServer(t)
	seedIssue(t, svc)

	req := mcp.CallToolRequest{}
	req.Params.Name = "list_delayed"
	req.Params.Arguments = map[string]interface{}{"issue": "2025年12月号"}

	// Before any deadline has passed there are no delays.
	svc.Now = func() time.Time { return time.Date(2025, time.September, 1, 0, 0, 0, 0, time.UTC) }
	res, err := s.listDelayed(context.Background(), req)
	if err != nil {
		t.Fatalf("tool: %v", err)
	}
	if text := resultText(t, res); text != "no delayed processes" {
		t.Errorf("result = %q, want no delayed processes", text)
	}

	svc.Now = func() time.Time { return time.Date(2025, time.November, 3, 0, 0, 0, 0, time.UTC) }
	res, err = s.listDelayed(context.Background(), req)
	if err != nil {
		t.Fatalf("tool: %v", err)
	}
	if text := resultText(t, res); !strings.Contains(text, "delay_days") {
		t.Errorf("result = %q, want delay entries", text)
	}
}

func TestAdvanceConfirmationTool(t *testing.T) {
	s, svc := newTestServer(t)
	seedIssue(t, svc)
	ctx := context.Background()

	req := mcp.CallToolRequest{}
	req.Params.Name = "advance_confirmation"
	req.Params.Arguments = map[string]interface{}{
		"issue":     "2025年12月号",
		"process":   "A-8",
		"action":    "add_draft",
		"sent_date": "2025-11-01",
		"status":    "OK",
	}
	res, err := s.advanceConfirmation(ctx, req)
	if err != nil {
		t.Fatalf("tool: %v", err)
	}
	if res.IsError {
		t.Fatalf("add_draft failed: %s", resultText(t, res))
	}

	req.Params.Arguments = map[string]interface{}{
		"issue":   "2025年12月号",
		"process": "A-8",
		"action":  "finalize",
	}
	res, err = s.advanceConfirmation(ctx, req)
	if err != nil {
		t.Fatalf("tool: %v", err)
	}
	if res.IsError {
		t.Fatalf("finalize failed: %s", resultText(t, res))
	}

	views, err := svc.Board(ctx, "2025年12月号")
	if err != nil {
		t.Fatalf("board: %v", err)
	}
	for _, v := range views {
		if v.Process == "A-8" {
			if v.Confirm == nil || v.Confirm.FinalDate == nil {
				t.Error("A-8 should be finalized")
			}
			return
		}
	}
	t.Fatal("A-8 missing from board")
}

func TestAdvanceConfirmationToolBadInput(t *testing.T) {
	s, svc := newTestServer(t)
	seedIssue(t, svc)
	ctx := context.Background()

	req := mcp.CallToolRequest{}
	req.Params.Name = "advance_confirmation"

	// add_draft without a parseable sent_date.
	req.Params.Arguments = map[string]interface{}{
		"issue":   "2025年12月号",
		"process": "A-8",
		"action":  "add_draft",
		"status":  "OK",
	}
	res, err := s.advanceConfirmation(ctx, req)
	if err != nil {
		t.Fatalf("tool: %v", err)
	}
	if !res.IsError || !strings.Contains(resultText(t, res), "sent_date") {
		t.Errorf("expected sent_date error, got %s", resultText(t, res))
	}

	// Finalize with no drafts logged surfaces the service error.
	req.Params.Arguments = map[string]interface{}{
		"issue":   "2025年12月号",
		"process": "A-8",
		"action":  "finalize",
	}
	res, err = s.advanceConfirmation(ctx, req)
	if err != nil {
		t.Fatalf("tool: %v", err)
	}
	if !res.IsError {
		t.Error("finalize with no drafts should produce a tool error")
	}
}

func TestProcessCodesResource(t *testing.T) {
	s, _ := newTestServer(t)

	req := mcp.ReadResourceRequest{}
	req.Params.URI = "gekkan://process-codes"

	contents, err := s.readProcessCodesResource(context.Background(), req)
	if err != nil {
		t.Fatalf("resource: %v", err)
	}
	if len(contents) != 1 {
		t.Fatalf("contents = %d, want 1", len(contents))
	}
	tc, ok := contents[0].(mcp.TextResourceContents)
	if !ok {
		t.Fatalf("content type %T", contents[0])
	}
	if !strings.Contains(tc.Text, "A-8") {
		t.Error("contract should document the confirmation process codes")
	}
}
