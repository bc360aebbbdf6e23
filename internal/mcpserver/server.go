// Package mcpserver provides an MCP (Model Context Protocol) server
// that exposes read-only objective tools for LLM integration via stdio.
package mcpserver

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"github.com/starford/tiwaz/internal/apperr"
	"github.com/starford/tiwaz/internal/formatter"
	"github.com/starford/tiwaz/internal/models"
	"github.com/starford/tiwaz/internal/objectiveservice"
	"github.com/starford/tiwaz/internal/tree"
)

const dataFormatURI = "tiwaz://data-format"

// Server wraps the MCP server with Tiwaz tools.
type Server struct {
	mcp *server.MCPServer
	svc *objectiveservice.Service
}

// New creates a new MCP server with all Tiwaz tools registered.
func New(svc *objectiveservice.Service, version string) *Server {
	s := &Server{svc: svc}

	s.mcp = server.NewMCPServer(
		"Tiwaz",
		version,
		server.WithToolCapabilities(false),
		server.WithResourceCapabilities(false, false),
	)

	s.mcp.AddTool(mcp.NewTool("list_objectives",
		mcp.WithDescription("List objectives in source order, optionally filtered by tier and status."),
		mcp.WithString("tier", mcp.Description("Optional tier: company, department or individual")),
		mcp.WithString("status", mcp.Description("Optional status: in_progress, complete or late")),
	), s.listObjectives)

	s.mcp.AddTool(mcp.NewTool("get_objective",
		mcp.WithDescription("Get one objective with its responsible member name, child ids and ancestor chain."),
		mcp.WithString("id", mcp.Required(), mcp.Description("Objective id")),
	), s.getObjective)

	s.mcp.AddTool(mcp.NewTool("list_children",
		mcp.WithDescription("List the direct children of an objective."),
		mcp.WithString("id", mcp.Required(), mcp.Description("Parent objective id")),
	), s.listChildren)

	s.mcp.AddTool(mcp.NewTool("resolve_responsible",
		mcp.WithDescription("Return the name of a member, or \""+tree.FallbackResponsible+"\" when the id is unknown."),
		mcp.WithString("member_id", mcp.Required(), mcp.Description("Member id")),
	), s.resolveResponsible)

	s.mcp.AddTool(mcp.NewTool("render_tree",
		mcp.WithDescription("Render the objectives tree as plain text. Company objectives are roots."),
		mcp.WithString("open", mcp.Description("Comma-separated ids to expand, e.g. 1,2")),
		mcp.WithString("all", mcp.Description("Set to true to expand every objective")),
	), s.renderTree)

	s.mcp.AddTool(mcp.NewTool("search_objectives",
		mcp.WithDescription("Search objective titles, descriptions, teams and responsible names."),
		mcp.WithString("query", mcp.Required(), mcp.Description("Search query string")),
		mcp.WithString("limit", mcp.Description("Maximum number of results (default 20)")),
	), s.searchObjectives)

	s.mcp.AddTool(mcp.NewTool("list_kpis",
		mcp.WithDescription("List KPIs with value, target, unit, trend and attainment percentage."),
		mcp.WithString("category", mcp.Description("Optional category filter, case-insensitive")),
	), s.listKPIs)

	s.mcp.AddTool(mcp.NewTool("get_data_format",
		mcp.WithDescription("Returns the YAML data file format that the objectives dataset follows."),
	), s.getDataFormat)

	s.mcp.AddResource(
		mcp.NewResource(dataFormatURI, "Objectives Data Format",
			mcp.WithResourceDescription("YAML format of the objectives data file."),
			mcp.WithMIMEType("text/markdown"),
		),
		s.readDataFormatResource,
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

// optionalString returns the named argument or "" when it is absent.
func optionalString(req mcp.CallToolRequest, name string) string {
	v, err := req.RequireString(name)
	if err != nil {
		return ""
	}
	return v
}

func requireID(req mcp.CallToolRequest, name string) (int, error) {
	raw, err := req.RequireString(name)
	if err != nil {
		return 0, err
	}
	id, err := strconv.Atoi(raw)
	if err != nil {
		return 0, fmt.Errorf("%s must be an integer, got %q", name, raw)
	}
	return id, nil
}

func jsonResult(v any) (*mcp.CallToolResult, error) {
	out, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	return mcp.NewToolResultText(string(out)), nil
}

func errorResult(err error) *mcp.CallToolResult {
	if errors.Is(err, apperr.ErrNotFound) {
		return mcp.NewToolResultError("not found: " + err.Error())
	}
	return mcp.NewToolResultError(err.Error())
}

func (s *Server) listObjectives(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	f := objectiveservice.Filter{
		Tier:   models.Tier(optionalString(req, "tier")),
		Status: models.Status(optionalString(req, "status")),
	}
	return jsonResult(s.svc.ListObjectives(ctx, f))
}

func (s *Server) getObjective(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	id, err := requireID(req, "id")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	detail, err := s.svc.GetObjective(ctx, id)
	if err != nil {
		return errorResult(err), nil
	}
	return jsonResult(detail)
}

func (s *Server) listChildren(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	id, err := requireID(req, "id")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	items, err := s.svc.Children(ctx, id)
	if err != nil {
		return errorResult(err), nil
	}
	return jsonResult(items)
}

func (s *Server) resolveResponsible(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	id, err := requireID(req, "member_id")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	return mcp.NewToolResultText(s.svc.ResolveResponsible(ctx, id)), nil
}

func (s *Server) renderTree(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	expanded, err := tree.ParseExpanded(optionalString(req, "open"))
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	if all, _ := strconv.ParseBool(optionalString(req, "all")); all {
		expanded = s.svc.ExpandAll(ctx)
	}
	p := formatter.Printer{Plain: true}
	return mcp.NewToolResultText(p.RenderTree(s.svc.Tree(ctx, expanded))), nil
}

func (s *Server) searchObjectives(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	query, err := req.RequireString("query")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	limit, _ := strconv.Atoi(optionalString(req, "limit"))
	results, err := s.svc.Search(ctx, query, limit)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	return jsonResult(results)
}

func (s *Server) listKPIs(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	return jsonResult(s.svc.ListKPIs(ctx, optionalString(req, "category")))
}

func (s *Server) getDataFormat(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	return mcp.NewToolResultText(DataFormatContract), nil
}

func (s *Server) readDataFormatResource(ctx context.Context, req mcp.ReadResourceRequest) ([]mcp.ResourceContents, error) {
	return []mcp.ResourceContents{
		mcp.TextResourceContents{
			URI:      dataFormatURI,
			MIMEType: "text/markdown",
			Text:     DataFormatContract,
		},
	}, nil
}
