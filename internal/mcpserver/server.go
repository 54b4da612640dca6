// Package mcpserver provides an MCP (Model Context Protocol) server that
// exposes the archive catalog and run trigger for LLM integration via stdio
// transport.
package mcpserver

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"github.com/starford/raido/internal/catalog"
	"github.com/starford/raido/internal/models"
)

// RunFunc executes one archive pass and returns its summary.
type RunFunc func(ctx context.Context) (models.RunSummary, error)

// Server wraps the MCP server with raido tools.
type Server struct {
	mcp *server.MCPServer
	cat catalog.PageCatalog
	run RunFunc
}

// New creates a new MCP server with all raido tools registered.
func New(cat catalog.PageCatalog, run RunFunc) *Server {
	s := &Server{cat: cat, run: run}

	s.mcp = server.NewMCPServer(
		"raido",
		"1.0.0",
		server.WithToolCapabilities(false),
		server.WithResourceCapabilities(false, false),
	)

	s.mcp.AddTool(mcp.NewTool("search_archive",
		mcp.WithDescription("Search archived pages by URL or title substring."),
		mcp.WithString("query", mcp.Required(), mcp.Description("Search query string")),
	), s.searchArchive)

	s.mcp.AddTool(mcp.NewTool("list_pages",
		mcp.WithDescription("List archived pages, newest first."),
		mcp.WithNumber("limit", mcp.Description("Maximum number of pages to return (default 50)")),
	), s.listPages)

	s.mcp.AddTool(mcp.NewTool("get_page",
		mcp.WithDescription("Return the archive record for a single URL."),
		mcp.WithString("url", mcp.Required(), mcp.Description("Exact URL of the bookmark")),
	), s.getPage)

	s.mcp.AddTool(mcp.NewTool("run_archive",
		mcp.WithDescription("Run one archive pass over the configured bookmark folder "+
			"and return the outcome counts. Already-archived URLs are skipped."),
	), s.runArchive)

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

func (s *Server) searchArchive(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	query, err := req.RequireString("query")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	pages, err := s.cat.SearchPages(query, 20)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	out, _ := json.MarshalIndent(pages, "", "  ")
	return mcp.NewToolResultText(string(out)), nil
}

func (s *Server) listPages(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	limit := req.GetInt("limit", 50)
	pages, total, err := s.cat.ListPages(limit, 0)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	out, _ := json.MarshalIndent(map[string]any{"total": total, "pages": pages}, "", "  ")
	return mcp.NewToolResultText(string(out)), nil
}

func (s *Server) getPage(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	url, err := req.RequireString("url")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	page, err := s.cat.GetPage(url)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	if page == nil {
		return mcp.NewToolResultError(fmt.Sprintf("not archived: %s", url)), nil
	}
	out, _ := json.MarshalIndent(page, "", "  ")
	return mcp.NewToolResultText(string(out)), nil
}

func (s *Server) runArchive(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	if s.run == nil {
		return mcp.NewToolResultError("run trigger unavailable"), nil
	}
	summary, err := s.run(ctx)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	out, _ := json.MarshalIndent(summary, "", "  ")
	return mcp.NewToolResultText(string(out)), nil
}
