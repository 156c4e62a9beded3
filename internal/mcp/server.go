// Package mcp exposes the journal service as MCP tools.
package mcp

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"journal-ai/internal/contextutil"
	"journal-ai/internal/service"
	"journal-ai/internal/storage"
)

const (
	serverName    = "journal-ai"
	serverVersion = "1.0.0"
)

// Server registers the journal tools on an MCP server.
type Server struct {
	svc       service.JournalService
	mcpServer *server.MCPServer
}

// NewServer creates a new MCP server backed by svc.
func NewServer(svc service.JournalService) *Server {
	s := &Server{svc: svc}
	s.mcpServer = server.NewMCPServer(serverName, serverVersion, server.WithToolCapabilities(true))
	s.registerTools()
	return s
}

func (s *Server) registerTools() {
	ownerID := map[string]any{
		"type":        "integer",
		"description": "Journal owner id",
	}

	s.mcpServer.AddTool(mcp.Tool{
		Name:        "ask_journal",
		Description: "Answer a question about the owner's journal records",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]any{
				"owner_id": ownerID,
				"query": map[string]any{
					"type":        "string",
					"description": "Question in natural language, e.g. 最近一周心情怎么样",
				},
			},
			Required: []string{"owner_id", "query"},
		},
	}, s.handleAsk)

	s.mcpServer.AddTool(mcp.Tool{
		Name:        "add_record",
		Description: "Store a daily journal record and index it for retrieval",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]any{
				"owner_id": ownerID,
				"record_date": map[string]any{
					"type":        "string",
					"description": "Record date, YYYY-MM-DD",
				},
				"content": map[string]any{
					"type":        "string",
					"description": "What happened that day",
				},
				"mood_score": map[string]any{
					"type":        "integer",
					"description": "Mood from 1 to 10",
				},
				"reflections": map[string]any{
					"type":        "string",
					"description": "Free-form reflections",
				},
			},
			Required: []string{"owner_id", "record_date", "content"},
		},
	}, s.handleAddRecord)

	s.mcpServer.AddTool(mcp.Tool{
		Name:        "list_records",
		Description: "List the owner's records in a date window, newest first",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]any{
				"owner_id": ownerID,
				"start": map[string]any{
					"type":        "string",
					"description": "Earliest date, YYYY-MM-DD. Optional.",
				},
				"end": map[string]any{
					"type":        "string",
					"description": "Latest date, YYYY-MM-DD. Optional.",
				},
				"limit": map[string]any{
					"type":        "integer",
					"description": "Maximum number of records (default: 50)",
				},
			},
			Required: []string{"owner_id"},
		},
	}, s.handleListRecords)
}

// parseParams converts MCP request arguments to a struct.
func parseParams(args any, target any) error {
	data, err := json.Marshal(args)
	if err != nil {
		return err
	}
	return json.Unmarshal(data, target)
}

func (s *Server) handleAsk(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	var params struct {
		OwnerID int64  `json:"owner_id"`
		Query   string `json:"query"`
	}
	if err := parseParams(request.Params.Arguments, &params); err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("invalid parameters: %v", err)), nil
	}

	answer, err := s.svc.Ask(ctx, params.OwnerID, params.Query)
	if err != nil {
		return toolError(ctx, "ask_journal", err), nil
	}
	return jsonResult(answer)
}

func (s *Server) handleAddRecord(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	var params struct {
		OwnerID int64 `json:"owner_id"`
		service.RecordInput
	}
	if err := parseParams(request.Params.Arguments, &params); err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("invalid parameters: %v", err)), nil
	}

	rec, err := s.svc.AddRecord(ctx, params.OwnerID, params.RecordInput)
	if err != nil {
		return toolError(ctx, "add_record", err), nil
	}
	return jsonResult(map[string]any{
		"success":  true,
		"id":       rec.ID,
		"embedded": rec.Embedded,
	})
}

func (s *Server) handleListRecords(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	var params struct {
		OwnerID int64  `json:"owner_id"`
		Start   string `json:"start"`
		End     string `json:"end"`
		Limit   int    `json:"limit"`
	}
	if err := parseParams(request.Params.Arguments, &params); err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("invalid parameters: %v", err)), nil
	}

	recs, err := s.svc.ListRecords(ctx, params.OwnerID, storage.Window{Start: params.Start, End: params.End}, params.Limit)
	if err != nil {
		return toolError(ctx, "list_records", err), nil
	}
	if recs == nil {
		recs = []storage.Record{}
	}
	return jsonResult(map[string]any{
		"records": recs,
		"count":   len(recs),
	})
}

// toolError reports err to the client as a tool failure. Caller mistakes are
// echoed; other failures are logged and summarized.
func toolError(ctx context.Context, tool string, err error) *mcp.CallToolResult {
	var ve *service.ValidationError
	switch {
	case errors.As(err, &ve):
		return mcp.NewToolResultError(ve.Error())
	case errors.Is(err, service.ErrNotFound):
		return mcp.NewToolResultError("owner not found")
	case errors.Is(err, service.ErrInvalidInput):
		return mcp.NewToolResultError(err.Error())
	}
	contextutil.LoggerFromContext(ctx).ErrorContext(ctx, "tool call failed", "tool", tool, "error", err)
	return mcp.NewToolResultError(fmt.Sprintf("%s failed: %v", tool, err))
}

func jsonResult(v any) (*mcp.CallToolResult, error) {
	data, err := json.Marshal(v)
	if err != nil {
		return nil, fmt.Errorf("failed to encode tool result: %w", err)
	}
	return mcp.NewToolResultText(string(data)), nil
}

// Serve runs the MCP server over stdio until stdin closes.
func (s *Server) Serve() error {
	return server.ServeStdio(s.mcpServer)
}

// MCPServer returns the underlying server for other transports.
func (s *Server) MCPServer() *server.MCPServer {
	return s.mcpServer
}
